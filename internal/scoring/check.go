package scoring

// Severity classifies how a failed check is surfaced. It never changes the
// numeric score.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Rank orders severities critical < warning < info < anything else.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	}
	return 3
}

// Check is one pass/fail rule evaluation. Weight is relative importance
// within its category; checks with Weight <= 0 do not affect the score.
type Check struct {
	Name           string   `json:"name"`
	Passed         bool     `json:"passed"`
	Weight         float64  `json:"weight"`
	Severity       Severity `json:"severity"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
	// PageURL names the page a finding is about when it is not the audited URL.
	PageURL string `json:"page_url,omitempty"`
}

// Tally counts outcomes in a category. CriticalIssues counts failed checks
// with critical severity.
type Tally struct {
	Passed         int `json:"passed"`
	Failed         int `json:"failed"`
	CriticalIssues int `json:"critical_issues"`
}

// CategoryResult is the rollup of one category's checks. The embedded Tally
// is nil for the N/A result of an empty check list, which keeps the counts
// out of the JSON form; use Counts to read them.
type CategoryResult struct {
	Score int    `json:"score"`
	Grade string `json:"grade"`
	*Tally
	Checks []Check `json:"checks"`
}

// Counts returns the tally, or zeros when the result carries none.
func (r CategoryResult) Counts() Tally {
	if r.Tally == nil {
		return Tally{}
	}
	return *r.Tally
}

// OverallResult is the weighted rollup across categories.
type OverallResult struct {
	Score         int                       `json:"score"`
	Grade         string                    `json:"grade"`
	TotalChecks   int                       `json:"total_checks"`
	TotalPassed   int                       `json:"total_passed"`
	TotalFailed   int                       `json:"total_failed"`
	TotalCritical int                       `json:"total_critical"`
	Categories    map[string]CategoryResult `json:"categories"`
}

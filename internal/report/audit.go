// Package report turns a finished audit into documents: the JSON output,
// the HTML dashboard and an XLSX workbook.
package report

import (
	"html/template"
	"sort"
	"time"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/scoring"
)

// Audit is the complete result of one site audit, as written to JSON and
// persisted by the store.
type Audit struct {
	ID          string    `json:"id,omitempty"`
	URL         string    `json:"url"`
	ClientName  string    `json:"client_name"`
	Competitors []string  `json:"competitors,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	OverallScore  int    `json:"overall_score"`
	OverallGrade  string `json:"overall_grade"`
	TotalChecks   int    `json:"total_checks"`
	TotalPassed   int    `json:"total_passed"`
	TotalFailed   int    `json:"total_failed"`
	TotalCritical int    `json:"total_critical"`

	PagesCrawled    int   `json:"pages_crawled"`
	CrawlDurationMS int64 `json:"crawl_duration_ms"`
	AuditDurationMS int64 `json:"audit_duration_ms"`

	Categories      map[string]scoring.CategoryResult `json:"category_results"`
	Recommendations []Recommendation                  `json:"recommendations"`
}

// Recommendation is a failed check lifted out of its category.
type Recommendation struct {
	Category       string           `json:"category"`
	Severity       scoring.Severity `json:"severity"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Recommendation string           `json:"recommendation"`
	PageURL        string           `json:"page_url"`
}

// NewAudit builds the audit document from an overall rollup. Timing and
// crawl fields are left for the caller.
func NewAudit(url, clientName string, overall scoring.OverallResult) *Audit {
	a := &Audit{
		URL:           url,
		ClientName:    clientName,
		CreatedAt:     time.Now().UTC(),
		OverallScore:  overall.Score,
		OverallGrade:  overall.Grade,
		TotalChecks:   overall.TotalChecks,
		TotalPassed:   overall.TotalPassed,
		TotalFailed:   overall.TotalFailed,
		TotalCritical: overall.TotalCritical,
		Categories:    overall.Categories,
	}
	if a.Categories == nil {
		a.Categories = map[string]scoring.CategoryResult{}
	}
	a.Recommendations = recommendations(a)
	return a
}

// Duration is the total audit time.
func (a *Audit) Duration() time.Duration {
	return time.Duration(a.AuditDurationMS) * time.Millisecond
}

// CategoryKeys returns the categories present in a, known ones in the
// standard order first and the rest sorted.
func (a *Audit) CategoryKeys() []string {
	keys := make([]string, 0, len(a.Categories))
	seen := make(map[string]bool, len(a.Categories))
	for _, k := range analyzer.Order {
		if _, ok := a.Categories[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range a.Categories {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// recommendations flattens every failed check, most severe first. Within a
// severity, category order and check order are kept.
func recommendations(a *Audit) []Recommendation {
	out := []Recommendation{}
	for _, key := range a.CategoryKeys() {
		for _, c := range a.Categories[key].Checks {
			if c.Passed {
				continue
			}
			sev := c.Severity
			if sev == "" {
				sev = scoring.SeverityInfo
			}
			out = append(out, Recommendation{
				Category:       key,
				Severity:       sev,
				Title:          c.Name,
				Description:    c.Message,
				Recommendation: c.Recommendation,
				PageURL:        c.PageURL,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// CategoryMeta is how a category is presented in reports.
type CategoryMeta struct {
	Icon        template.HTML
	Label       string
	Description string
}

var categoryMeta = map[string]CategoryMeta{
	analyzer.CategoryTechnical:  {"&#9881;", "Technical SEO", "Server, security, and crawlability"},
	analyzer.CategoryOnPage:     {"&#128196;", "On-Page SEO", "Titles, descriptions, headings, links"},
	analyzer.CategoryLocalSEO:   {"&#128205;", "Local SEO", "NAP, schema, maps, service areas"},
	analyzer.CategorySchema:     {"&#128218;", "Schema Markup", "Structured data coverage and quality"},
	analyzer.CategoryContent:    {"&#9997;", "Content & E-E-A-T", "Content quality, expertise, trust"},
	analyzer.CategoryImages:     {"&#128247;", "Image Optimization", "Alt text, formats, responsive images"},
	analyzer.CategorySitemap:    {"&#128506;", "Sitemap", "Sitemap.xml coverage and quality"},
	analyzer.CategoryGEO:        {"&#129302;", "AI Search (GEO)", "Visibility in AI-powered search"},
	analyzer.CategoryCompetitor: {"&#9876;", "Competitive Analysis", "How you compare to competitors"},
	analyzer.CategoryPageSpeed:  {"&#9889;", "Page Speed", "Loading performance and optimization"},
	analyzer.CategoryMobile:     {"&#128241;", "Mobile UX", "Mobile-friendliness and usability"},
	analyzer.CategoryReputation: {"&#11088;", "Reputation & Reviews", "Reviews, social proof, trust signals"},
}

// Meta returns the display metadata for category. Unknown categories are
// labelled with their key.
func Meta(category string) CategoryMeta {
	if m, ok := categoryMeta[category]; ok {
		return m
	}
	return CategoryMeta{Icon: "&#9679;", Label: category}
}

// ScoreColor maps a score onto the dashboard palette.
func ScoreColor(score int) string {
	switch {
	case score >= 90:
		return "#4ade80"
	case score >= 70:
		return "#60a5fa"
	case score >= 50:
		return "#fbbf24"
	}
	return "#f87171"
}

// SeverityColor is the palette entry for a failed check of sev.
func SeverityColor(sev scoring.Severity) string {
	switch sev {
	case scoring.SeverityCritical:
		return "#f87171"
	case scoring.SeverityWarning:
		return "#fbbf24"
	case scoring.SeverityInfo:
		return "#60a5fa"
	}
	return "#9ca3af"
}

// Status is the console label for a category score.
func Status(r scoring.CategoryResult) string {
	switch {
	case r.Grade == scoring.GradeError:
		return "ERR "
	case r.Score >= 70:
		return "PASS"
	case r.Score >= 50:
		return "WARN"
	}
	return "FAIL"
}

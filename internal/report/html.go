package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/raysh454/sitegrade/internal/scoring"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboard = template.Must(template.New("dashboard.html").
	Funcs(template.FuncMap{
		"scoreColor": ScoreColor,
		"upper":      upperSeverity,
	}).
	ParseFS(templateFS, "templates/dashboard.html"))

const (
	// priorityLimit caps the recommendations listed on the dashboard.
	priorityLimit = 15

	// ringCircumference is 2*pi*r for the r=85 score ring.
	ringCircumference = 534
)

// Branding identifies the agency in report headers and footers.
type Branding struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Email   string `yaml:"email"`
	LogoURL string `yaml:"logo_url"`
}

// Config is the report section of the application config.
type Config struct {
	// Dir receives HTML reports; it is created when missing.
	Dir      string   `yaml:"dir"`
	Branding Branding `yaml:"branding"`
}

type dashboardView struct {
	Brand       Branding
	Audit       *Audit
	Client      string
	Date        string
	RingColor   string
	ScoreOffset int
	Categories  []categoryView
	Priority    []priorityView
}

type categoryView struct {
	Key    string
	Meta   CategoryMeta
	Color  string
	Result scoring.CategoryResult
	Counts scoring.Tally
	Checks []scoring.Check
}

type priorityView struct {
	Rank     int
	Check    scoring.Check
	Category string
	Advice   string
}

// RenderHTML writes the single-file dashboard for a.
func RenderHTML(w io.Writer, a *Audit, brand Branding) error {
	view := dashboardView{
		Brand:       brand,
		Audit:       a,
		Client:      a.ClientName,
		Date:        a.CreatedAt.Local().Format("January 02, 2006 at 03:04 PM"),
		RingColor:   ScoreColor(a.OverallScore),
		ScoreOffset: int(ringCircumference - float64(a.OverallScore)/100*ringCircumference),
	}
	if view.Client == "" {
		view.Client = a.URL
	}

	type labelled struct {
		check    scoring.Check
		category string
	}
	var failed []labelled
	for _, key := range a.CategoryKeys() {
		r := a.Categories[key]
		meta := Meta(key)
		view.Categories = append(view.Categories, categoryView{
			Key:    key,
			Meta:   meta,
			Color:  ScoreColor(r.Score),
			Result: r,
			Counts: r.Counts(),
			Checks: scoring.PrioritySort(r.Checks),
		})
		for _, c := range r.Checks {
			if !c.Passed {
				failed = append(failed, labelled{check: c, category: meta.Label})
			}
		}
	}

	sort.SliceStable(failed, func(i, j int) bool {
		return failed[i].check.Severity.Rank() < failed[j].check.Severity.Rank()
	})
	if len(failed) > priorityLimit {
		failed = failed[:priorityLimit]
	}
	for i, f := range failed {
		advice := f.check.Recommendation
		if advice == "" {
			advice = f.check.Message
		}
		view.Priority = append(view.Priority, priorityView{
			Rank:     i + 1,
			Check:    f.check,
			Category: f.category,
			Advice:   advice,
		})
	}

	return dashboard.Execute(w, view)
}

// DefaultFileName is the timestamped report name used when none is given.
func DefaultFileName(t time.Time) string {
	return fmt.Sprintf("seo_audit_%s.html", t.Format("20060102_150405"))
}

// SaveHTML renders a into dir/name and returns the written path. An empty
// name falls back to DefaultFileName. The file appears only once fully
// rendered.
func SaveHTML(dir, name string, a *Audit, brand Branding) (string, error) {
	if dir == "" {
		dir = "."
	}
	if name == "" {
		name = DefaultFileName(time.Now())
	}
	if err := validateName(name); err != nil {
		return "", fmt.Errorf("invalid report name %q: %w", name, err)
	}
	path := filepath.Join(dir, name)

	err := atomicWrite(path, 0o644, func(w io.Writer) error {
		if err := RenderHTML(w, a, brand); err != nil {
			return fmt.Errorf("render report: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

func upperSeverity(s scoring.Severity) string {
	switch s {
	case scoring.SeverityCritical:
		return "CRITICAL"
	case scoring.SeverityWarning:
		return "WARNING"
	case scoring.SeverityInfo:
		return "INFO"
	}
	return string(s)
}

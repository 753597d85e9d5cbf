package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/raysh454/sitegrade/internal/scoring"
)

const (
	critical = scoring.SeverityCritical
	warning  = scoring.SeverityWarning
	info     = scoring.SeverityInfo
)

// checklist accumulates checks for one category.
type checklist struct {
	checks []scoring.Check
}

// add records a check. A passing check never carries a recommendation.
func (c *checklist) add(name string, passed bool, weight float64, sev scoring.Severity, msg, rec string) {
	if passed {
		rec = ""
	}
	c.checks = append(c.checks, scoring.Check{
		Name:           name,
		Passed:         passed,
		Weight:         weight,
		Severity:       sev,
		Message:        msg,
		Recommendation: rec,
	})
}

func (c *checklist) result() scoring.CategoryResult {
	return scoring.ScoreCategory(c.checks)
}

func severityIf(cond bool, then, otherwise scoring.Severity) scoring.Severity {
	if cond {
		return then
	}
	return otherwise
}

func pick(cond bool, then, otherwise string) string {
	if cond {
		return then
	}
	return otherwise
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// countContained counts the keywords that occur in text at least once.
func countContained(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// countMatching counts the patterns with at least one match in text.
func countMatching(text string, patterns []*regexp.Regexp) int {
	n := 0
	for _, re := range patterns {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}

// percent renders a ratio the way "{:.0%}" does.
func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// truthy reports whether a decoded JSON-LD value carries anything: non-empty
// strings, lists and objects, true, and non-zero numbers.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	}
	return true
}

// str returns schema[key] when it is a string.
func str(schema map[string]any, key string) string {
	s, _ := schema[key].(string)
	return s
}

// typeOf returns the first @type of a schema, or "Unknown".
func typeOf(schema map[string]any) string {
	switch t := schema["@type"].(type) {
	case string:
		if t != "" {
			return t
		}
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return "Unknown"
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

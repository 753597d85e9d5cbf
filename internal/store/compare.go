package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/raysh454/sitegrade/internal/report"
)

// CategoryDelta is one category's score movement between two audits.
// A category missing from one side has a nil score there.
type CategoryDelta struct {
	Category  string `json:"category"`
	BaseScore *int   `json:"base_score"`
	HeadScore *int   `json:"head_score"`
	Delta     int    `json:"delta"`
}

// Change is a run of check-outcome lines that only one audit has.
type Change struct {
	Type    string `json:"type"` // "added" | "removed"
	Content string `json:"content"`
}

// Comparison describes how head differs from base.
type Comparison struct {
	Base       Summary         `json:"base"`
	Head       Summary         `json:"head"`
	ScoreDelta int             `json:"score_delta"`
	Categories []CategoryDelta `json:"categories"`

	// Fixed lists checks failing in base and passing in head, Regressed
	// the reverse, both as "category: check".
	Fixed     []string `json:"fixed"`
	Regressed []string `json:"regressed"`

	Changes []Change `json:"changes"`
}

// Compare loads two audits and diffs their scores and check outcomes.
func (s *Store) Compare(ctx context.Context, baseID, headID string) (*Comparison, error) {
	base, err := s.Get(ctx, baseID)
	if err != nil {
		return nil, fmt.Errorf("base audit %s: %w", baseID, err)
	}
	head, err := s.Get(ctx, headID)
	if err != nil {
		return nil, fmt.Errorf("head audit %s: %w", headID, err)
	}
	return Diff(base, head), nil
}

// Diff compares two audit documents.
func Diff(base, head *report.Audit) *Comparison {
	cmp := &Comparison{
		Base:       summarize(base),
		Head:       summarize(head),
		ScoreDelta: head.OverallScore - base.OverallScore,
		Fixed:      []string{},
		Regressed:  []string{},
		Changes:    []Change{},
	}

	keys := head.CategoryKeys()
	for _, k := range base.CategoryKeys() {
		if _, ok := head.Categories[k]; !ok {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		d := CategoryDelta{Category: k}
		if r, ok := base.Categories[k]; ok {
			score := r.Score
			d.BaseScore = &score
		}
		if r, ok := head.Categories[k]; ok {
			score := r.Score
			d.HeadScore = &score
		}
		if d.BaseScore != nil && d.HeadScore != nil {
			d.Delta = *d.HeadScore - *d.BaseScore
		}
		cmp.Categories = append(cmp.Categories, d)

		before := outcomes(base, k)
		for _, c := range head.Categories[k].Checks {
			passed, ok := before[c.Name]
			if !ok {
				continue
			}
			label := k + ": " + c.Name
			switch {
			case !passed && c.Passed:
				cmp.Fixed = append(cmp.Fixed, label)
			case passed && !c.Passed:
				cmp.Regressed = append(cmp.Regressed, label)
			}
		}
	}

	cmp.Changes = lineChanges(outcomeText(base), outcomeText(head))
	return cmp
}

func outcomes(a *report.Audit, category string) map[string]bool {
	out := map[string]bool{}
	for _, c := range a.Categories[category].Checks {
		out[c.Name] = c.Passed
	}
	return out
}

// outcomeText renders one line per check so a line diff reads as a list
// of changed outcomes.
func outcomeText(a *report.Audit) string {
	var b strings.Builder
	for _, k := range a.CategoryKeys() {
		for _, c := range a.Categories[k].Checks {
			status := "FAIL"
			if c.Passed {
				status = "PASS"
			}
			fmt.Fprintf(&b, "[%s] %s: %s | %s\n", status, k, c.Name, c.Message)
		}
	}
	return b.String()
}

func lineChanges(base, head string) []Change {
	dmp := diffmatchpatch.New()
	baseChars, headChars, lines := dmp.DiffLinesToChars(base, head)
	diffs := dmp.DiffMain(baseChars, headChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	changes := []Change{}
	for _, d := range diffs {
		var kind string
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = "added"
		case diffmatchpatch.DiffDelete:
			kind = "removed"
		default:
			continue
		}
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		changes = append(changes, Change{Type: kind, Content: d.Text})
	}
	return changes
}

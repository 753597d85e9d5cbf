// Package scoring turns check records into category scores and category
// scores into an overall weighted score with letter grades. It performs no
// I/O and never fails.
package scoring

import (
	"math"
	"sort"
)

const (
	// FallbackWeight applies to categories missing from the weight table.
	FallbackWeight = 0.05

	GradeNA    = "N/A"
	GradeError = "ERR"

	// roundingSlack absorbs float noise so 94.49999999999999 rounds like 94.5.
	roundingSlack = 1e-9
)

// Weights maps category keys to their share of the overall score. Values
// need not sum to 1; the rollup normalizes by the weights actually used.
type Weights map[string]float64

// Of returns the weight for category, or FallbackWeight when it is unknown.
func (w Weights) Of(category string) float64 {
	if v, ok := w[category]; ok {
		return v
	}
	return FallbackWeight
}

// DefaultWeights is the standard category table.
func DefaultWeights() Weights {
	return Weights{
		"technical":  0.12,
		"onpage":     0.12,
		"local_seo":  0.15,
		"schema":     0.08,
		"content":    0.10,
		"images":     0.06,
		"sitemap":    0.05,
		"geo":        0.10,
		"competitor": 0.08,
		"pagespeed":  0.06,
		"mobile":     0.05,
		"reputation": 0.03,
	}
}

// Config is the scoring section of the application config.
type Config struct {
	Weights Weights `yaml:"weights"`
}

// RoundHalfUp rounds to the nearest integer with halves going up, clamped
// to the 0-100 score range. NaN rounds to 0.
func RoundHalfUp(x float64) int {
	switch {
	case math.IsNaN(x) || x <= 0:
		return 0
	case x >= 100:
		return 100
	}
	return int(math.Floor(x + 0.5 + roundingSlack))
}

// usable reports whether w takes part in a weighted ratio.
func usable(w float64) bool {
	return w > 0 && !math.IsInf(w, 1)
}

// Grade maps a 0-100 score onto the letter scale. Each band includes its
// lower bound.
func Grade(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "A-"
	case score >= 80:
		return "B+"
	case score >= 75:
		return "B"
	case score >= 70:
		return "B-"
	case score >= 65:
		return "C+"
	case score >= 60:
		return "C"
	case score >= 55:
		return "C-"
	case score >= 50:
		return "D"
	}
	return "F"
}

// ScoreCategory rolls checks up into a CategoryResult.
//
// An empty list yields score 0, grade N/A and no tally. Checks whose weight
// is not a positive finite number are counted but left out of both sides of
// the ratio; if no check has a usable weight the result is N/A with the
// tally populated. Weights are scaled by the largest one so the sums cannot
// overflow.
func ScoreCategory(checks []Check) CategoryResult {
	if len(checks) == 0 {
		return CategoryResult{Score: 0, Grade: GradeNA, Checks: []Check{}}
	}

	tally := &Tally{}
	var largest float64
	for _, c := range checks {
		if usable(c.Weight) && c.Weight > largest {
			largest = c.Weight
		}
	}

	var earned, total float64
	for _, c := range checks {
		if c.Passed {
			tally.Passed++
		} else {
			tally.Failed++
			if c.Severity == SeverityCritical {
				tally.CriticalIssues++
			}
		}
		if !usable(c.Weight) {
			continue
		}
		w := c.Weight / largest
		total += w
		if c.Passed {
			earned += w
		}
	}

	if total == 0 {
		return CategoryResult{Score: 0, Grade: GradeNA, Tally: tally, Checks: checks}
	}

	score := RoundHalfUp(earned / total * 100)
	return CategoryResult{Score: score, Grade: Grade(score), Tally: tally, Checks: checks}
}

// OverallScore is the weighted mean of the category scores present in
// results. Categories are visited in sorted key order so the float sum does
// not depend on map iteration. Categories whose weight is not a positive
// finite number still count toward the totals but not the score. With no
// usable weight the score is 0.
func OverallScore(results map[string]CategoryResult, weights Weights) OverallResult {
	keys := make([]string, 0, len(results))
	for k := range results {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := OverallResult{Categories: results}
	var largest float64
	for _, k := range keys {
		if w := weights.Of(k); usable(w) && w > largest {
			largest = w
		}
	}

	var weighted, total float64
	for _, k := range keys {
		r := results[k]
		if w := weights.Of(k); usable(w) {
			weighted += float64(r.Score) * (w / largest)
			total += w / largest
		}

		t := r.Counts()
		out.TotalPassed += t.Passed
		out.TotalFailed += t.Failed
		out.TotalCritical += t.CriticalIssues
	}
	out.TotalChecks = out.TotalPassed + out.TotalFailed

	if total > 0 {
		out.Score = RoundHalfUp(weighted / total)
	}
	out.Grade = Grade(out.Score)
	return out
}

// ErrorResult stands in for a category whose analyzer failed.
func ErrorResult() CategoryResult {
	return CategoryResult{Score: 0, Grade: GradeError, Tally: &Tally{}, Checks: []Check{}}
}

// PrioritySort returns a copy of checks with failures first, then by
// severity. Ties keep their input order.
func PrioritySort(checks []Check) []Check {
	out := append([]Check(nil), checks...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Passed != out[j].Passed {
			return !out[i].Passed
		}
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

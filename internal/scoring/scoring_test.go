package scoring_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/scoring"
)

func check(name string, passed bool, weight float64, sev scoring.Severity) scoring.Check {
	return scoring.Check{Name: name, Passed: passed, Weight: weight, Severity: sev}
}

// ─── Grade ─────────────────────────────────────────────────────────────

func TestGrade_Boundaries(t *testing.T) {
	t.Parallel()
	tests := []struct {
		score int
		want  string
	}{
		{100, "A+"}, {95, "A+"}, {94, "A"}, {90, "A"}, {89, "A-"}, {85, "A-"},
		{84, "B+"}, {80, "B+"}, {79, "B"}, {75, "B"}, {74, "B-"}, {70, "B-"},
		{69, "C+"}, {65, "C+"}, {64, "C"}, {60, "C"}, {59, "C-"}, {55, "C-"},
		{54, "D"}, {50, "D"}, {49, "F"}, {0, "F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoring.Grade(tt.score), "score %d", tt.score)
	}
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 95, scoring.RoundHalfUp(94.5))
	assert.Equal(t, 94, scoring.RoundHalfUp(94.49))
	assert.Equal(t, 1, scoring.RoundHalfUp(0.5))
	assert.Equal(t, 0, scoring.RoundHalfUp(0.4999))
	assert.Equal(t, 95, scoring.RoundHalfUp(0.945*100))
	assert.Equal(t, 100, scoring.RoundHalfUp(100))
}

func TestRoundHalfUp_ClampsToScoreRange(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 100, scoring.RoundHalfUp(250))
	assert.Equal(t, 100, scoring.RoundHalfUp(math.Inf(1)))
	assert.Equal(t, 0, scoring.RoundHalfUp(-3))
	assert.Equal(t, 0, scoring.RoundHalfUp(math.Inf(-1)))
	assert.Equal(t, 0, scoring.RoundHalfUp(math.NaN()))
}

// ─── ScoreCategory ─────────────────────────────────────────────────────

func TestScoreCategory_EmptyIsNA(t *testing.T) {
	t.Parallel()
	r := scoring.ScoreCategory(nil)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, scoring.GradeNA, r.Grade)
	assert.Nil(t, r.Tally)
	assert.NotNil(t, r.Checks)
	assert.Equal(t, scoring.Tally{}, r.Counts())

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"score":0,"grade":"N/A","checks":[]}`, string(b))
}

func TestScoreCategory_WeightedScoreAndCounts(t *testing.T) {
	t.Parallel()
	checks := []scoring.Check{
		check("HTTPS enabled", true, 1.0, scoring.SeverityCritical),
		check("Canonical tag present", false, 0.7, scoring.SeverityWarning),
		check("robots.txt exists", true, 0.5, scoring.SeverityWarning),
		check("HTTP status 200", false, 1.0, scoring.SeverityCritical),
		check("Charset", false, 0.3, scoring.SeverityInfo),
	}
	r := scoring.ScoreCategory(checks)

	// 1.5 of 3.5 -> 42.857
	assert.Equal(t, 43, r.Score)
	assert.Equal(t, "F", r.Grade)
	assert.Equal(t, scoring.Tally{Passed: 2, Failed: 3, CriticalIssues: 1}, r.Counts())
	assert.Equal(t, checks, r.Checks)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.EqualValues(t, 2, decoded["passed"])
	assert.EqualValues(t, 3, decoded["failed"])
	assert.EqualValues(t, 1, decoded["critical_issues"])
}

func TestScoreCategory_AllPassAllFail(t *testing.T) {
	t.Parallel()
	weightSets := [][]float64{{1}, {0.1, 0.9}, {0.3, 0.3, 0.3}, {5, 0.01, 2.5, 1}}
	for _, ws := range weightSets {
		var pass, fail []scoring.Check
		for i, w := range ws {
			sev := scoring.SeverityInfo
			if i == 0 {
				sev = scoring.SeverityCritical
			}
			pass = append(pass, check("c", true, w, sev))
			fail = append(fail, check("c", false, w, sev))
		}
		assert.Equal(t, 100, scoring.ScoreCategory(pass).Score, "weights %v", ws)
		assert.Equal(t, "A+", scoring.ScoreCategory(pass).Grade)
		assert.Equal(t, 0, scoring.ScoreCategory(fail).Score, "weights %v", ws)
		assert.Equal(t, 1, scoring.ScoreCategory(fail).Counts().CriticalIssues)
	}
}

func TestScoreCategory_HalfRoundsUpAcrossGradeBoundary(t *testing.T) {
	t.Parallel()
	r := scoring.ScoreCategory([]scoring.Check{
		check("a", true, 189, scoring.SeverityInfo),
		check("b", false, 11, scoring.SeverityInfo),
	})
	assert.Equal(t, 95, r.Score)
	assert.Equal(t, "A+", r.Grade)
}

func TestScoreCategory_ZeroWeightIsNoOp(t *testing.T) {
	t.Parallel()
	base := []scoring.Check{
		check("a", true, 0.6, scoring.SeverityWarning),
		check("b", false, 0.4, scoring.SeverityWarning),
	}
	withZero := append(append([]scoring.Check(nil), base...),
		check("free pass", true, 0, scoring.SeverityInfo),
		check("free fail", false, 0, scoring.SeverityCritical),
		check("negative", true, -1, scoring.SeverityInfo),
	)

	a := scoring.ScoreCategory(base)
	b := scoring.ScoreCategory(withZero)
	assert.Equal(t, 60, a.Score)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, scoring.Tally{Passed: 3, Failed: 2, CriticalIssues: 1}, b.Counts())
}

func TestScoreCategory_OnlyZeroWeightsIsNA(t *testing.T) {
	t.Parallel()
	r := scoring.ScoreCategory([]scoring.Check{
		check("a", true, 0, scoring.SeverityInfo),
		check("b", false, 0, scoring.SeverityCritical),
	})
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, scoring.GradeNA, r.Grade)
	assert.Equal(t, scoring.Tally{Passed: 1, Failed: 1, CriticalIssues: 1}, r.Counts())
}

func TestScoreCategory_HugeWeightsStayInRange(t *testing.T) {
	t.Parallel()
	r := scoring.ScoreCategory([]scoring.Check{
		check("a", true, 1e308, scoring.SeverityInfo),
		check("b", false, 1e308, scoring.SeverityInfo),
	})
	assert.Equal(t, 50, r.Score)
	assert.Equal(t, "D", r.Grade)

	r = scoring.ScoreCategory([]scoring.Check{
		check("a", true, math.MaxFloat64, scoring.SeverityInfo),
		check("b", true, math.MaxFloat64, scoring.SeverityInfo),
		check("c", false, math.MaxFloat64/2, scoring.SeverityInfo),
	})
	assert.Equal(t, 80, r.Score)
}

func TestScoreCategory_NonFiniteWeightsAreSkipped(t *testing.T) {
	t.Parallel()
	r := scoring.ScoreCategory([]scoring.Check{
		check("inf", true, math.Inf(1), scoring.SeverityInfo),
		check("nan", true, math.NaN(), scoring.SeverityInfo),
		check("real", false, 1, scoring.SeverityWarning),
	})
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "F", r.Grade)
	assert.Equal(t, scoring.Tally{Passed: 2, Failed: 1}, r.Counts())

	r = scoring.ScoreCategory([]scoring.Check{
		check("inf", false, math.Inf(1), scoring.SeverityInfo),
	})
	assert.Equal(t, scoring.GradeNA, r.Grade)
}

// A tiny failing weight can round away, so 100 does not imply every check
// passed. This matches the half-up rule applied to the exact ratio.
func TestScoreCategory_TinyWeightsRoundAway(t *testing.T) {
	t.Parallel()
	r := scoring.ScoreCategory([]scoring.Check{
		check("big", true, 1, scoring.SeverityInfo),
		check("tiny", false, 0.004, scoring.SeverityCritical),
	})
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, 1, r.Counts().Failed)

	r = scoring.ScoreCategory([]scoring.Check{
		check("big", false, 1, scoring.SeverityInfo),
		check("tiny", true, 0.004, scoring.SeverityInfo),
	})
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, 1, r.Counts().Passed)
}

// ─── OverallScore ──────────────────────────────────────────────────────

func result(score int, tally scoring.Tally) scoring.CategoryResult {
	return scoring.CategoryResult{Score: score, Grade: scoring.Grade(score), Tally: &tally}
}

func TestOverallScore_AbsentCategoriesDoNotDilute(t *testing.T) {
	t.Parallel()
	weights := scoring.Weights{"A": 0.1, "B": 0.1, "C": 0.5}
	got := scoring.OverallScore(map[string]scoring.CategoryResult{
		"A": result(100, scoring.Tally{Passed: 4}),
		"B": result(50, scoring.Tally{Passed: 1, Failed: 1, CriticalIssues: 1}),
	}, weights)

	assert.Equal(t, 75, got.Score)
	assert.Equal(t, "B", got.Grade)
	assert.Equal(t, 6, got.TotalChecks)
	assert.Equal(t, 5, got.TotalPassed)
	assert.Equal(t, 1, got.TotalFailed)
	assert.Equal(t, 1, got.TotalCritical)
	assert.Len(t, got.Categories, 2)
}

func TestOverallScore_UnknownCategoryUsesFallback(t *testing.T) {
	t.Parallel()
	weights := scoring.Weights{"technical": 0.15}
	got := scoring.OverallScore(map[string]scoring.CategoryResult{
		"technical": result(100, scoring.Tally{}),
		"mystery":   result(0, scoring.Tally{}),
	}, weights)

	// 100*0.15 / (0.15+0.05) = 75
	assert.Equal(t, 75, got.Score)
	assert.Equal(t, 0.05, scoring.Weights{}.Of("anything"))
}

func TestOverallScore_ToleratesNAAndErrorCategories(t *testing.T) {
	t.Parallel()
	got := scoring.OverallScore(map[string]scoring.CategoryResult{
		"technical": result(80, scoring.Tally{Passed: 8, Failed: 2}),
		"images":    scoring.ScoreCategory(nil),
		"schema":    scoring.ErrorResult(),
	}, scoring.DefaultWeights())

	// 80*0.12 / (0.12+0.06+0.08) = 36.92
	assert.Equal(t, 37, got.Score)
	assert.Equal(t, 10, got.TotalChecks)
}

func TestOverallScore_OrderInvariant(t *testing.T) {
	t.Parallel()
	weights := scoring.DefaultWeights()
	scores := map[string]int{
		"technical": 83, "onpage": 71, "local_seo": 44, "schema": 90, "content": 66, "images": 100,
		"sitemap": 0, "geo": 52, "competitor": 77, "pagespeed": 61, "mobile": 95, "reputation": 12,
	}
	first := make(map[string]scoring.CategoryResult)
	for k, s := range scores {
		first[k] = result(s, scoring.Tally{Passed: s % 7, Failed: s % 5})
	}
	want := scoring.OverallScore(first, weights)

	for i := 0; i < 20; i++ {
		m := make(map[string]scoring.CategoryResult)
		for k, v := range first {
			m[k] = v
		}
		got := scoring.OverallScore(m, weights)
		assert.Equal(t, want.Score, got.Score)
		assert.Equal(t, want.TotalChecks, got.TotalChecks)
	}
}

func TestOverallScore_NonFiniteAndHugeWeights(t *testing.T) {
	t.Parallel()
	results := map[string]scoring.CategoryResult{
		"A": result(100, scoring.Tally{Passed: 2}),
		"B": result(40, scoring.Tally{Passed: 1, Failed: 1}),
	}

	got := scoring.OverallScore(results, scoring.Weights{"A": math.Inf(1), "B": 0.2})
	assert.Equal(t, 40, got.Score)
	assert.Equal(t, 4, got.TotalChecks)

	got = scoring.OverallScore(results, scoring.Weights{"A": math.MaxFloat64, "B": math.MaxFloat64})
	assert.Equal(t, 70, got.Score)

	got = scoring.OverallScore(results, scoring.Weights{"A": math.NaN(), "B": math.NaN()})
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, "F", got.Grade)
}

func TestOverallScore_Empty(t *testing.T) {
	t.Parallel()
	got := scoring.OverallScore(map[string]scoring.CategoryResult{}, scoring.DefaultWeights())
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, "F", got.Grade)
	assert.Equal(t, 0, got.TotalChecks)
}

func TestDefaultWeightsSumToOne(t *testing.T) {
	t.Parallel()
	var sum float64
	for _, w := range scoring.DefaultWeights() {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

// ─── ErrorResult / PrioritySort ────────────────────────────────────────

func TestErrorResult(t *testing.T) {
	t.Parallel()
	r := scoring.ErrorResult()
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, scoring.GradeError, r.Grade)
	assert.Empty(t, r.Checks)
	assert.Equal(t, scoring.Tally{}, r.Counts())
}

func TestPrioritySort(t *testing.T) {
	t.Parallel()
	in := []scoring.Check{
		check("pass-crit", true, 1, scoring.SeverityCritical),
		check("fail-info", false, 1, scoring.SeverityInfo),
		check("fail-warn-1", false, 1, scoring.SeverityWarning),
		check("fail-crit", false, 1, scoring.SeverityCritical),
		check("fail-warn-2", false, 1, scoring.SeverityWarning),
		check("pass-info", true, 1, scoring.SeverityInfo),
	}
	out := scoring.PrioritySort(in)

	var names []string
	for _, c := range out {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"fail-crit", "fail-warn-1", "fail-warn-2", "fail-info", "pass-crit", "pass-info"}, names)
	assert.Equal(t, "pass-crit", in[0].Name, "input must not be reordered")
}

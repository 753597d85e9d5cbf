package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/scoring"
)

func TestGEO_WellStructuredPage(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, fixture(t, "local_business.html"))
	r := run(t, analyzer.GEO{}, analyzer.NewInput(page, nil, "", "", nil))

	require.Len(t, r.Checks, 9)
	assert.Equal(t, []string{"Topical depth for AI citation"}, failedNames(r))
	assert.Equal(t, 90, r.Score)
	assert.Equal(t, "A", r.Grade)

	assert.Equal(t, "3 question-format headings found", findCheck(t, r, "Q&A formatted headings").Message)
	assert.Equal(t, "FAQPage schema found", findCheck(t, r, "FAQ structured data").Message)
	assert.Equal(t, "4 statistical claims found", findCheck(t, r, "Specific statistics / data points").Message)
	assert.Equal(t, "Business identity present in 3/3 key locations (title, H1, schema)",
		findCheck(t, r, "Entity clarity (brand prominence)").Message)
	assert.Equal(t, "3 first-hand experience signals", findCheck(t, r, "First-hand experience signals").Message)
}

func TestGEO_ThinPage(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, `<html><head></head><body>
<h2>Our services</h2>
<p>We fix pipes.</p>
</body></html>`)
	r := run(t, analyzer.GEO{}, analyzer.NewInput(page, nil, "", "", nil))

	for _, c := range r.Checks {
		assert.False(t, c.Passed, c.Name)
		assert.NotEmpty(t, c.Recommendation, c.Name)
	}
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "Business identity present in 0/3 key locations (title, H1, schema)",
		findCheck(t, r, "Entity clarity (brand prominence)").Message)
	assert.Equal(t, "Opening content is thin", findCheck(t, r, "Key information early (BLUF)").Message)
	assert.Equal(t, scoring.SeverityInfo, findCheck(t, r, "Key information early (BLUF)").Severity)
}

func TestGEO_QuestionHeadingsWithoutMarks(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, `<html><body>
<h2>Why choose a licensed plumber</h2>
<h3>When to replace a water heater</h3>
<h4>Our guarantee</h4>
<h5>How we price jobs?</h5>
</body></html>`)
	r := run(t, analyzer.GEO{}, analyzer.NewInput(page, nil, "", "", nil))

	// H5 headings are not considered.
	q := findCheck(t, r, "Q&A formatted headings")
	assert.True(t, q.Passed)
	assert.Equal(t, "2 question-format headings found", q.Message)
}

func TestGEO_NavAndFooterExcluded(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, `<html><body>
<nav>In our experience our team is the best</nav>
<p>Call today.</p>
<footer>We recommend our process</footer>
</body></html>`)
	r := run(t, analyzer.GEO{}, analyzer.NewInput(page, nil, "", "", nil))

	assert.Equal(t, "0 first-hand experience signals", findCheck(t, r, "First-hand experience signals").Message)
}

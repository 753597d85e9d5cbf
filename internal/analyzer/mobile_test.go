package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/analyzer"
)

func TestMobile_FriendlyPage(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, fixture(t, "local_business.html"))
	r := run(t, analyzer.Mobile{}, analyzer.NewInput(page, nil, "", "", nil))

	require.Len(t, r.Checks, 8)
	assert.Empty(t, failedNames(r))
	assert.Equal(t, 100, r.Score)
	assert.Equal(t, "A+", r.Grade)
	assert.Equal(t, "Viewport: width=device-width, initial-scale=1", findCheck(t, r, "Viewport meta tag configured").Message)
	assert.Equal(t, "No tables (no horizontal scroll risk)", findCheck(t, r, "Tables are responsive").Message)
}

func TestMobile_DesktopOnlyPage(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, `<html><head><meta name="viewport" content="initial-scale=1"></head><body>
<div style="width: 1200px">wide</div>
<p style="font-size:8px">fine print</p>
<a href="/a" style="height:20px">a</a>
<a href="/b" style="height:22px">b</a>
<button style="height: 18px">c</button>
<img src="/hero.jpg" width="1920" alt="Hero">
<table><tr><td>1</td></tr></table>
<table><tr><td>2</td></tr></table>
</body></html>`)
	r := run(t, analyzer.Mobile{}, analyzer.NewInput(page, nil, "", "", nil))

	assert.Len(t, failedNames(r), len(r.Checks))
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "F", r.Grade)

	assert.Equal(t, "Viewport: initial-scale=1", findCheck(t, r, "Viewport meta tag configured").Message)
	assert.Equal(t, "3 potentially small tap targets", findCheck(t, r, "Touch-friendly tap targets").Message)
	assert.Equal(t, "1 potentially oversized images", findCheck(t, r, "Images mobile-appropriate").Message)
	assert.Equal(t, "2 table(s) found", findCheck(t, r, "Tables are responsive").Message)
	assert.Equal(t, "No click-to-call link", findCheck(t, r, "Click-to-call link for mobile").Message)
}

func TestMobile_SingleTableAndFewSmallTargetsPass(t *testing.T) {
	t.Parallel()
	page := htmlPage(siteURL, `<html><head><meta name="viewport" content="width=device-width"></head><body>
<a href="/a" style="height:20px">a</a>
<a href="/b" style="height:40px">b</a>
<p style="font-size: 16px; width: 960px">text</p>
<table><tr><td>1</td></tr></table>
</body></html>`)
	r := run(t, analyzer.Mobile{}, analyzer.NewInput(page, nil, "", "", nil))

	tables := findCheck(t, r, "Tables are responsive")
	assert.True(t, tables.Passed)
	assert.Equal(t, "1 table(s) found", tables.Message)
	assert.Empty(t, tables.Recommendation)

	targets := findCheck(t, r, "Touch-friendly tap targets")
	assert.True(t, targets.Passed)
	assert.Equal(t, "1 potentially small tap targets", targets.Message)

	assert.True(t, findCheck(t, r, "No fixed-width elements").Passed)
	assert.True(t, findCheck(t, r, "Legible font sizes").Passed)
	assert.False(t, findCheck(t, r, "Mobile-specific meta tags").Passed)
}

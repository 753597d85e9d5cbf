package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/scoring"
)

func TestImages_NoImages(t *testing.T) {
	t.Parallel()
	r := run(t, analyzer.Images{}, analyzer.NewInput(htmlPage(siteURL, "<html><body><p>x</p></body></html>"), nil, "", "", nil))

	require.Len(t, r.Checks, 1)
	assert.Equal(t, "Images present", r.Checks[0].Name)
	assert.Equal(t, scoring.SeverityInfo, r.Checks[0].Severity)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, "F", r.Grade)
}

func TestImages_FixtureAllPass(t *testing.T) {
	t.Parallel()
	r := run(t, analyzer.Images{}, analyzer.NewInput(htmlPage(siteURL, fixture(t, "local_business.html")), nil, "", "", nil))

	assert.Len(t, r.Checks, 8)
	assert.Empty(t, failedNames(r))
	assert.Equal(t, "1/1 images have alt text (100%)", findCheck(t, r, "Image alt text coverage").Message)
	assert.Equal(t, 100, r.Score)
}

func TestImages_MixedQuality(t *testing.T) {
	t.Parallel()
	body := `<html><body>
<img src="/img/plumber-at-work.webp" alt="Plumber repairing a water heater" width="800" height="600" loading="lazy" srcset="/img/a-400.webp 400w">
<img src="/uploads/IMG_1234.jpg" alt="image">
<img src="/uploads/photo-7.png">
</body></html>`
	r := run(t, analyzer.Images{}, analyzer.NewInput(htmlPage(siteURL, body), nil, "", "", nil))

	alt := findCheck(t, r, "Image alt text coverage")
	assert.False(t, alt.Passed)
	assert.Equal(t, "2/3 images have alt text (67%)", alt.Message)
	assert.Equal(t, "1 images are missing alt text. Add descriptive alt text to every meaningful image for accessibility and SEO.", alt.Recommendation)

	quality := findCheck(t, r, "Alt text quality")
	assert.False(t, quality.Passed)
	assert.Equal(t, "1 images have poor alt text", quality.Message)

	names := findCheck(t, r, "Descriptive file names")
	assert.False(t, names.Passed)
	assert.Equal(t, "2 images have generic file names", names.Message)

	assert.Equal(t, "1/3 images have explicit dimensions", findCheck(t, r, "Explicit width/height attributes").Message)
	assert.True(t, findCheck(t, r, "Lazy loading implemented").Passed)
	assert.Equal(t, "1/3 images use next-gen formats (33%)", findCheck(t, r, "Next-gen image formats (WebP/AVIF)").Message)
	assert.True(t, findCheck(t, r, "Responsive images (srcset)").Passed)
}

func TestImages_LazyAndSrcsetRequiredOnLargerPages(t *testing.T) {
	t.Parallel()
	body := `<html><body><img src="a.jpg" alt="a long description"><img src="b.jpg" alt="a long description"><img src="c.jpg" alt="a long description"></body></html>`
	r := run(t, analyzer.Images{}, analyzer.NewInput(htmlPage(siteURL, body), nil, "", "", nil))

	assert.False(t, findCheck(t, r, "Lazy loading implemented").Passed)
	assert.False(t, findCheck(t, r, "Responsive images (srcset)").Passed)
	assert.True(t, findCheck(t, r, "Alt text quality").Passed)
}

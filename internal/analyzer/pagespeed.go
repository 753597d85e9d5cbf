package analyzer

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/sitegrade/internal/scoring"
)

// PageSpeed estimates load performance from response headers and markup
// alone; it does not fetch sub-resources.
type PageSpeed struct{}

func (PageSpeed) Category() string { return CategoryPageSpeed }

func (PageSpeed) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	page := in.Page
	var c checklist

	secs := page.LoadTime.Seconds()
	c.add("Server response time", secs < 2.0, 1.0, severityIf(secs > 5.0, critical, warning),
		fmt.Sprintf("Response in %.2fs", secs),
		fmt.Sprintf("Server took %.2fs to respond. Aim for <1s. "+
			"Consider a faster host, caching plugin, or CDN.", secs))

	encoding := page.Headers.Get("Content-Encoding")
	compressed := false
	switch strings.ToLower(encoding) {
	case "gzip", "br", "deflate":
		compressed = true
	}
	c.add("Compression enabled (gzip/brotli)", compressed, 0.8, warning,
		pick(compressed, "Compression: "+encoding, "No compression detected"),
		"Enable gzip or Brotli compression on your server. This can reduce page size by 60-80%.")

	cacheControl := page.Headers.Get("Cache-Control")
	caching := cacheControl != "" && !strings.Contains(strings.ToLower(cacheControl), "no-store")
	c.add("Browser caching headers", caching, 0.6, warning,
		pick(cacheControl != "", "Cache-Control: "+cacheControl, "No Cache-Control header"),
		"Add Cache-Control headers to enable browser caching for static resources.")

	css := doc.Find(`link[rel~="stylesheet"]`).Length()
	c.add("Render-blocking CSS minimized", css <= 5, 0.7, warning,
		fmt.Sprintf("%d external stylesheets", css),
		fmt.Sprintf("%d external CSS files may block rendering. "+
			"Inline critical CSS and defer non-essential stylesheets.", css))

	scripts := doc.Find("script[src]")
	blocking := scripts.FilterFunction(func(_ int, s *goquery.Selection) bool {
		_, async := s.Attr("async")
		_, deferred := s.Attr("defer")
		return !async && !deferred
	}).Length()
	c.add("JavaScript loading optimized", blocking <= 3, 0.7, warning,
		fmt.Sprintf("%d/%d scripts are render-blocking", blocking, scripts.Length()),
		fmt.Sprintf("%d scripts block page rendering. "+
			"Add 'async' or 'defer' attributes to non-critical scripts.", blocking))

	imgs := doc.Find("img").Length()
	resources := scripts.Length() + css + imgs
	c.add("Total resource count", resources <= 60, 0.5, info,
		fmt.Sprintf("%d resources (%d JS, %d CSS, %d images)", resources, scripts.Length(), css, imgs),
		fmt.Sprintf("Page loads %d resources. Reduce by combining files, "+
			"removing unused scripts, and optimizing images.", resources))

	inline := doc.Find("[style]").Length()
	c.add("Minimal inline styles", inline <= 15, 0.3, info,
		fmt.Sprintf("%d elements with inline styles", inline),
		"Move inline styles to external CSS for better caching and maintainability.")

	preconnects := doc.Find(`link[rel~="preconnect"]`).Length()
	preloads := doc.Find(`link[rel~="preload"]`).Length()
	hints := preconnects > 0 || preloads > 0
	c.add("Resource hints (preconnect/preload)", hints, 0.4, info,
		fmt.Sprintf("%d preconnects, %d preloads", preconnects, preloads),
		"Add <link rel='preconnect'> for critical third-party domains "+
			"and <link rel='preload'> for above-the-fold resources.")

	sizeKB := float64(len(doc.Raw())) / 1024
	c.add("HTML document size", sizeKB < 200, 0.4, severityIf(sizeKB > 500, warning, info),
		fmt.Sprintf("HTML size: %.0f KB", sizeKB),
		fmt.Sprintf("HTML document is %.0f KB. "+
			"Minify HTML and remove unnecessary inline code to reduce size.", sizeKB))

	return c.result(), nil
}

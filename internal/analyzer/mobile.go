package analyzer

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var (
	wideFixedWidth = regexp.MustCompile(`width:\s*\d{4,}px`)
	inlineFontSize = regexp.MustCompile(`font-size:\s*(\d+)`)
	inlineHeight   = regexp.MustCompile(`height:\s*(\d+)px`)
)

// Mobile inspects markup for mobile usability problems.
type Mobile struct{}

func (Mobile) Category() string { return CategoryMobile }

func (Mobile) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	meta := doc.Meta()
	var c checklist

	viewportOK := strings.Contains(meta.Viewport, "width=device-width")
	c.add("Viewport meta tag configured", viewportOK, 1.0, critical,
		pick(meta.Viewport != "", "Viewport: "+meta.Viewport, "No viewport meta tag"),
		"Add <meta name='viewport' content='width=device-width, initial-scale=1'>. "+
			"This is required for mobile-first indexing.")

	var fixedWidth, smallFont bool
	doc.Find("[style]").Each(func(_ int, s *goquery.Selection) {
		style := extract.Attr(s, "style")
		if wideFixedWidth.MatchString(style) {
			fixedWidth = true
		}
		if m := inlineFontSize.FindStringSubmatch(style); m != nil {
			if px, err := strconv.Atoi(m[1]); err == nil && px < 10 {
				smallFont = true
			}
		}
	})
	c.add("No fixed-width elements", !fixedWidth, 0.7, warning,
		pick(fixedWidth, "Fixed-width elements found that may overflow on mobile", "No overly wide fixed elements detected"),
		"Replace fixed pixel widths (1000px+) with responsive units (%, vw, max-width).")
	c.add("Legible font sizes", !smallFont, 0.6, warning,
		pick(smallFont, "Very small font sizes found", "No tiny font sizes detected"),
		"Ensure body text is at least 14px/1rem for mobile readability.")

	smallTargets := 0
	doc.Find("button, a, input").Each(func(_ int, s *goquery.Selection) {
		m := inlineHeight.FindStringSubmatch(extract.Attr(s, "style"))
		if m == nil {
			return
		}
		if px, err := strconv.Atoi(m[1]); err == nil && px < 30 {
			smallTargets++
		}
	})
	c.add("Touch-friendly tap targets", smallTargets <= 2, 0.6, warning,
		pick(smallTargets > 0, fmt.Sprintf("%d potentially small tap targets", smallTargets), "Tap targets appear adequately sized"),
		"Ensure buttons and links are at least 44x44px for easy tapping on mobile devices.")

	hasTel := hasTelLink(doc)
	c.add("Click-to-call link for mobile", hasTel, 0.8, warning,
		pick(hasTel, "tel: link found", "No click-to-call link"),
		"Add a clickable phone number link: <a href='tel:+1XXXYYYZZZZ'>. "+
			"Essential for local businesses on mobile.")

	oversized := 0
	for _, img := range doc.Images() {
		if w, err := strconv.Atoi(img.Width); err == nil && w > 1200 {
			oversized++
		}
	}
	c.add("Images mobile-appropriate", oversized == 0, 0.5, info,
		pick(oversized > 0, fmt.Sprintf("%d potentially oversized images", oversized), "Image dimensions appear mobile-friendly"),
		"Use srcset or max-width:100% to serve appropriately sized images on mobile.")

	tables := doc.Find("table").Length()
	c.add("Tables are responsive", tables <= 1, 0.4, info,
		pick(tables > 0, fmt.Sprintf("%d table(s) found", tables), "No tables (no horizontal scroll risk)"),
		"Wrap tables in overflow-x:auto containers for mobile. Consider card layouts instead.")

	mobileMeta := doc.Find(`meta[name="apple-mobile-web-app-capable"], meta[name="theme-color"]`).Length() > 0
	c.add("Mobile-specific meta tags", mobileMeta, 0.3, info,
		pick(mobileMeta, "Mobile-specific meta tags found", "No mobile-specific meta tags"),
		"Add theme-color meta tag for a branded mobile browser experience.")

	return c.result(), nil
}

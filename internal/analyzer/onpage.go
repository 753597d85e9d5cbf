package analyzer

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var cleanPath = regexp.MustCompile(`^[a-z0-9/\-]+$`)

// OnPage checks title, description, headings, content length and links.
type OnPage struct{}

func (OnPage) Category() string { return CategoryOnPage }

func (OnPage) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	doc := in.Doc
	if doc == nil {
		return scoring.ScoreCategory(nil), nil
	}
	meta := doc.Meta()
	var c checklist

	titleLen := utf8.RuneCountInString(meta.Title)
	c.add("Title tag optimized", titleLen >= 20 && titleLen <= 65, 1.0, critical,
		pick(meta.Title != "", fmt.Sprintf("Title (%d chars): '%s'", titleLen, truncateRunes(meta.Title, 80)), "No title tag found"),
		titleRecommendation(titleLen))

	descLen := utf8.RuneCountInString(meta.Description)
	c.add("Meta description optimized", descLen >= 70 && descLen <= 160, 0.9,
		severityIf(meta.Description == "", critical, warning),
		pick(meta.Description != "", fmt.Sprintf("Description (%d chars)", descLen), "No meta description found"),
		descriptionRecommendation(descLen))

	h1 := doc.Headings(1)
	h2 := doc.Headings(2)
	h3 := doc.Headings(3)
	firstH1 := h1
	if len(firstH1) > 3 {
		firstH1 = firstH1[:3]
	}
	c.add("Single H1 tag", len(h1) == 1, 0.8, warning,
		fmt.Sprintf("%d H1 tag(s) found: %s", len(h1), strings.Join(firstH1, ", ")),
		"Use exactly one H1 tag per page containing your primary keyword.")

	c.add("Proper heading hierarchy", len(h1) >= 1 && len(h2) > 0, 0.6, warning,
		fmt.Sprintf("H1: %d, H2: %d, H3: %d", len(h1), len(h2), len(h3)),
		"Structure content with H1 → H2 → H3 hierarchy for better SEO and readability.")

	wc := extract.WordCount(doc.MainText())
	c.add("Sufficient content length", wc >= 300, 0.7, warning,
		fmt.Sprintf("~%d words on page", wc),
		fmt.Sprintf("Page has only ~%d words. Aim for 300+ words of quality content for better rankings.", wc))

	internal := len(doc.InternalLinks())
	c.add("Adequate internal linking", internal >= 3, 0.6, warning,
		fmt.Sprintf("%d internal links found", internal),
		"Add more internal links to distribute page authority and improve crawlability.")

	external := len(doc.ExternalLinks())
	c.add("Has outbound links", external >= 1, 0.3, info,
		fmt.Sprintf("%d external links found", external),
		"Add relevant outbound links to authoritative sources to build topical trust.")

	path := ""
	if u, err := url.Parse(in.Page.URL); err == nil {
		path = u.EscapedPath()
	}
	urlOK := cleanPath.MatchString(strings.ToLower(path)) && len(path) < 80
	c.add("Clean URL structure", urlOK, 0.5, info,
		"URL path: "+path,
		"Use short, keyword-rich URLs with hyphens. Avoid parameters, underscores, and special characters.")

	hasOG := meta.OpenGraph["og:title"] != "" && meta.OpenGraph["og:description"] != ""
	c.add("Open Graph tags present", hasOG, 0.4, info,
		pick(hasOG, "OG title & description found", "Open Graph tags missing"),
		"Add og:title, og:description, and og:image for better social media sharing.")

	c.add("Viewport meta tag", meta.Viewport != "", 0.7, critical,
		"Viewport: "+orDefault(meta.Viewport, "not set"),
		"Add <meta name='viewport' content='width=device-width, initial-scale=1'> for mobile optimization.")

	return c.result(), nil
}

func titleRecommendation(n int) string {
	switch {
	case n == 0:
		return "Add a unique, descriptive title tag with your primary keyword (30-65 characters)."
	case n < 20:
		return fmt.Sprintf("Title is too short (%d chars). Expand to 30-65 characters with relevant keywords.", n)
	case n > 65:
		return fmt.Sprintf("Title may be truncated (%d chars). Shorten to 65 characters or fewer.", n)
	}
	return ""
}

func descriptionRecommendation(n int) string {
	switch {
	case n == 0:
		return "Add a compelling meta description (120-155 chars) with a call to action and primary keyword."
	case n < 70:
		return fmt.Sprintf("Description is short (%d chars). Expand to 120-155 characters for maximum SERP visibility.", n)
	case n > 160:
		return fmt.Sprintf("Description may be truncated (%d chars). Keep under 155 characters.", n)
	}
	return ""
}

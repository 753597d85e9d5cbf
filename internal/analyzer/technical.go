package analyzer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/sitegrade/internal/extract"
	"github.com/raysh454/sitegrade/internal/scoring"
)

var securityHeaders = []string{
	"X-Content-Type-Options",
	"X-Frame-Options",
	"Strict-Transport-Security",
	"Content-Security-Policy",
}

// Technical checks transport, indexability and crawl hygiene. It runs even
// when the page has no markup.
type Technical struct{}

func (Technical) Category() string { return CategoryTechnical }

func (Technical) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	page := in.Page
	if page == nil {
		return scoring.ScoreCategory(nil), nil
	}
	var meta extract.Meta
	if in.Doc != nil {
		meta = in.Doc.Meta()
	}
	headers := page.Headers
	if headers == nil {
		headers = http.Header{}
	}

	var c checklist

	isHTTPS := false
	if u, err := url.Parse(page.URL); err == nil {
		isHTTPS = u.Scheme == "https"
	}
	c.add("HTTPS enabled", isHTTPS, 1.0, critical,
		pick(isHTTPS, "Site uses HTTPS", "Site is NOT using HTTPS"),
		"Install an SSL certificate and redirect all HTTP traffic to HTTPS.")

	ok200 := page.StatusCode == http.StatusOK
	c.add("HTTP status 200", ok200, 1.0, critical,
		fmt.Sprintf("Status code: %d", page.StatusCode),
		fmt.Sprintf("Page returned %d. Ensure the homepage returns 200.", page.StatusCode))

	secs := page.LoadTime.Seconds()
	fast := secs < 3.0
	c.add("Server response time < 3s", fast, 0.8, severityIf(fast, info, warning),
		fmt.Sprintf("Server responded in %.2fs", secs),
		"Optimize server response time. Consider caching, CDN, or upgrading hosting.")

	c.add("Canonical tag present", meta.Canonical != "", 0.7, warning,
		"Canonical: "+orDefault(meta.Canonical, "missing"),
		"Add a <link rel='canonical'> tag to prevent duplicate content issues.")

	indexable := !strings.Contains(strings.ToLower(meta.Robots), "noindex")
	c.add("Page is indexable", indexable, 1.0, critical,
		pick(meta.Robots != "", fmt.Sprintf("Robots meta: '%s'", meta.Robots), "No robots meta tag (indexable by default)"),
		"Remove 'noindex' from robots meta tag if this page should appear in search.")

	hasRobots := strings.TrimSpace(in.RobotsTxt) != ""
	c.add("robots.txt exists", hasRobots, 0.5, warning,
		pick(hasRobots, "robots.txt found", "No robots.txt detected"),
		"Create a robots.txt file to guide search engine crawlers.")

	sitemapRef := strings.Contains(strings.ToLower(in.RobotsTxt), "sitemap:")
	c.add("Sitemap in robots.txt", sitemapRef, 0.4, info,
		pick(sitemapRef, "Sitemap referenced in robots.txt", "No sitemap reference in robots.txt"),
		"Add 'Sitemap: https://yoursite.com/sitemap.xml' to robots.txt.")

	var present []string
	for _, h := range securityHeaders {
		if headers.Get(h) != "" {
			present = append(present, h)
		}
	}
	c.add("Security headers present", len(present) >= 2, 0.5, warning,
		fmt.Sprintf("%d/4 security headers found: %s", len(present), orDefault(strings.Join(present, ", "), "none")),
		"Add security headers: X-Content-Type-Options, X-Frame-Options, HSTS, CSP.")

	hasCharset := meta.Charset != "" || strings.Contains(strings.ToLower(headers.Get("Content-Type")), "charset")
	c.add("Character encoding declared", hasCharset, 0.3, info,
		pick(hasCharset, "Charset declared", "No charset declaration found"),
		"Add <meta charset='utf-8'> to the <head> section.")

	c.add("HTML lang attribute", meta.Lang != "", 0.4, warning,
		"Language: "+orDefault(meta.Lang, "not set"),
		"Add lang='en' (or appropriate language) to the <html> tag.")

	mixed := isHTTPS && in.Doc != nil && hasMixedContent(in.Doc)
	c.add("No mixed content", !mixed, 0.6, warning,
		pick(mixed, "Mixed HTTP/HTTPS content found", "No mixed content detected"),
		"Update all resource URLs to use HTTPS to avoid mixed content warnings.")

	broken := 0
	for _, p := range in.Pages {
		if p.StatusCode == http.StatusNotFound {
			broken++
		}
	}
	c.add("No broken pages (404s)", broken == 0, 0.7, severityIf(broken > 3, critical, warning),
		pick(broken > 0, fmt.Sprintf("%d broken pages found", broken), "No 404 errors detected"),
		fmt.Sprintf("Fix or redirect %d broken URLs returning 404 status codes.", broken))

	return c.result(), nil
}

func hasMixedContent(doc *extract.Document) bool {
	mixed := false
	doc.Find("img, script, link, iframe").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		ref := extract.Attr(s, "src")
		if ref == "" {
			ref = extract.Attr(s, "href")
		}
		if strings.HasPrefix(ref, "http://") {
			mixed = true
			return false
		}
		return true
	})
	return mixed
}

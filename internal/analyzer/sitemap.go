package analyzer

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/raysh454/sitegrade/internal/scoring"
	"github.com/raysh454/sitegrade/internal/utils"
)

// SitemapEntry is one <url> of a urlset.
type SitemapEntry struct {
	Loc        string
	HasLastmod bool
}

// ParsedSitemap is what ParseSitemap recovered from a sitemap document.
type ParsedSitemap struct {
	URLs []SitemapEntry
	// Sitemaps counts <sitemap> children of a sitemap index.
	Sitemaps int
}

// IsIndex reports whether the document is a sitemap index.
func (p ParsedSitemap) IsIndex() bool { return p.Sitemaps > 0 }

// Count is the number of entries, sitemaps for an index and urls otherwise.
func (p ParsedSitemap) Count() int {
	if p.IsIndex() {
		return p.Sitemaps
	}
	return len(p.URLs)
}

// Locs returns the non-empty <loc> values of the urlset.
func (p ParsedSitemap) Locs() []string {
	var out []string
	for _, u := range p.URLs {
		if u.Loc != "" {
			out = append(out, u.Loc)
		}
	}
	return out
}

// ParseSitemap reads <url> and <sitemap> elements by local name, ignoring
// namespaces. Malformed input is read up to the first syntax error and the
// entries seen so far are kept.
func ParseSitemap(doc string) ParsedSitemap {
	var out ParsedSitemap
	dec := xml.NewDecoder(strings.NewReader(doc))
	dec.Strict = false

	var (
		inURL   bool
		inLoc   bool
		current SitemapEntry
		loc     strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) && inURL {
				out.URLs = append(out.URLs, current)
			}
			return out
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "url":
				inURL = true
				current = SitemapEntry{}
			case "sitemap":
				out.Sitemaps++
			case "loc":
				if inURL {
					inLoc = true
					loc.Reset()
				}
			case "lastmod":
				if inURL {
					current.HasLastmod = true
				}
			}
		case xml.CharData:
			if inLoc {
				loc.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "loc":
				if inLoc {
					current.Loc = strings.TrimSpace(loc.String())
					inLoc = false
				}
			case "url":
				if inURL {
					out.URLs = append(out.URLs, current)
					inURL = false
				}
			}
		}
	}
}

// Sitemap checks /sitemap.xml and its agreement with the crawl. It does not
// need the page markup.
type Sitemap struct{}

func (Sitemap) Category() string { return CategorySitemap }

func (Sitemap) Analyze(ctx context.Context, in *Input) (scoring.CategoryResult, error) {
	if err := ctx.Err(); err != nil {
		return scoring.CategoryResult{}, err
	}
	var c checklist

	hasSitemap := strings.TrimSpace(in.SitemapXML) != ""
	c.add("sitemap.xml exists", hasSitemap, 1.0, critical,
		pick(hasSitemap, "sitemap.xml found", "No sitemap.xml at /sitemap.xml"),
		"Create a sitemap.xml file listing all important pages. "+
			"Submit it to Google Search Console.")
	if !hasSitemap {
		c.add("Sitemap in robots.txt", false, 0.5, warning,
			"Cannot check: no sitemap found",
			"After creating a sitemap, reference it in robots.txt: Sitemap: https://yoursite.com/sitemap.xml")
		return c.result(), nil
	}

	sm := ParseSitemap(in.SitemapXML)
	count := sm.Count()

	valid := len(sm.URLs) > 0 || sm.Sitemaps > 0
	c.add("Valid sitemap XML format", valid, 0.9, critical,
		fmt.Sprintf("%s with %d entries", pick(sm.IsIndex(), "Sitemap index", "Sitemap"), count),
		"Sitemap XML appears malformed. Validate at https://www.xml-sitemaps.com/validate-xml-sitemap.html")

	locs := sm.Locs()
	c.add("URLs listed with <loc> tags", len(locs) > 0, 0.8, critical,
		fmt.Sprintf("%d URLs in sitemap", len(locs)),
		"Ensure each <url> entry has a <loc> with the full URL.")

	lastmod := 0
	for _, u := range sm.URLs {
		if u.HasLastmod {
			lastmod++
		}
	}
	c.add("Last modified dates present", ratio(lastmod, len(sm.URLs)) >= 0.8, 0.5, info,
		fmt.Sprintf("%d/%d URLs have <lastmod>", lastmod, len(sm.URLs)),
		"Add <lastmod> dates to sitemap entries to help search engines prioritize crawling fresh content.")

	if len(locs) > 0 && len(in.Pages) > 0 {
		listed := make(map[string]bool, len(locs))
		for _, l := range locs {
			listed[sitemapKey(l)] = true
		}

		crawled := make(map[string]bool)
		broken := make(map[string]bool)
		for _, p := range in.Pages {
			key := sitemapKey(p.URL)
			if p.Ok() {
				crawled[key] = true
			}
			if p.StatusCode == http.StatusNotFound {
				broken[key] = true
			}
		}

		missing := 0
		for u := range crawled {
			if !listed[u] {
				missing++
			}
		}
		coverageOK := ratio(missing, len(crawled)) < 0.3
		c.add("Crawled pages covered in sitemap", coverageOK, 0.7, warning,
			pick(missing > 0, fmt.Sprintf("%d crawled pages not in sitemap", missing), "All crawled pages found in sitemap"),
			fmt.Sprintf("%d accessible pages are missing from your sitemap. "+
				"Ensure all important pages are included.", missing))

		brokenListed := 0
		for u := range broken {
			if listed[u] {
				brokenListed++
			}
		}
		c.add("No broken URLs in sitemap", brokenListed == 0, 0.8, critical,
			pick(brokenListed > 0, fmt.Sprintf("%d broken URLs found in sitemap", brokenListed), "No broken URLs detected in sitemap"),
			"Remove 404 URLs from your sitemap. Broken URLs waste crawl budget.")
	}

	c.add("URL count within limits", count <= 50000, 0.3, info,
		fmt.Sprintf("%d URLs (limit: 50,000 per sitemap)", count),
		"Sitemap exceeds 50,000 URL limit. Split into multiple sitemaps using a sitemap index.")

	referenced := strings.Contains(strings.ToLower(in.RobotsTxt), "sitemap:")
	c.add("Referenced in robots.txt", referenced, 0.4, warning,
		pick(referenced, "Sitemap referenced in robots.txt", "Sitemap not mentioned in robots.txt"),
		"Add 'Sitemap: https://yoursite.com/sitemap.xml' to robots.txt for discovery.")

	return c.result(), nil
}

// sitemapKey is the form in which <loc> entries and crawled URLs are
// matched. Host case, default ports, trailing slashes and tracking
// parameters do not count as differences.
func sitemapKey(raw string) string {
	key, err := utils.Canonicalize(raw, utils.CanonicalizeOptions{
		StripTrailingSlash: true,
		DropTrackingParams: true,
	})
	if err != nil {
		return strings.TrimRight(strings.TrimSpace(raw), "/")
	}
	return key
}

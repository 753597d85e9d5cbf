package analyzer

import (
	"github.com/raysh454/sitegrade/internal/crawler"
	"github.com/raysh454/sitegrade/internal/extract"
)

// Input is everything an analyzer may read. Docs are parsed once per page
// and shared; a nil Doc means the page had no parseable markup.
type Input struct {
	Page *crawler.CrawlResult
	Doc  *extract.Document

	// Pages is the full crawl in BFS order, PageDocs parallel to it.
	Pages    []*crawler.CrawlResult
	PageDocs []*extract.Document

	RobotsTxt  string
	SitemapXML string

	// Competitors holds every attempted competitor fetch, failures included,
	// CompetitorDocs parallel to it.
	Competitors    []*crawler.CrawlResult
	CompetitorDocs []*extract.Document
}

// NewInput parses every page once. page is usually pages[0]; when it is,
// its document is shared rather than parsed twice.
func NewInput(page *crawler.CrawlResult, pages []*crawler.CrawlResult, robotsTxt, sitemapXML string, competitors []*crawler.CrawlResult) *Input {
	in := &Input{
		Page:        page,
		Doc:         ParseDocument(page),
		Pages:       pages,
		PageDocs:    make([]*extract.Document, len(pages)),
		RobotsTxt:   robotsTxt,
		SitemapXML:  sitemapXML,
		Competitors: competitors,
	}
	for i, p := range pages {
		if p == page {
			in.PageDocs[i] = in.Doc
			continue
		}
		in.PageDocs[i] = ParseDocument(p)
	}
	in.CompetitorDocs = make([]*extract.Document, len(competitors))
	for i, c := range competitors {
		in.CompetitorDocs[i] = ParseDocument(c)
	}
	return in
}

// ParseDocument returns nil for missing pages, empty bodies and non-HTML
// content.
func ParseDocument(r *crawler.CrawlResult) *extract.Document {
	if r == nil || r.Body == "" || !r.IsHTML() {
		return nil
	}
	doc, err := extract.Parse(r.Body, r.URL)
	if err != nil {
		return nil
	}
	return doc
}

// docs returns up to n parsed documents from the crawl, skipping pages
// without markup.
func (in *Input) docs(n int) []*extract.Document {
	var out []*extract.Document
	for i, d := range in.PageDocs {
		if i >= n {
			break
		}
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

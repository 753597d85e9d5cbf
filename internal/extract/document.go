// Package extract parses a fetched page once and exposes the read-only views
// the analyzers share: meta tags, headings, links, images, paragraphs, body
// text and JSON-LD structured data. A Document is safe for concurrent reads.
package extract

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MainContentExcludes are the chrome elements left out of main-content text.
var MainContentExcludes = []string{"nav", "header", "footer"}

// alwaysSkipped never contribute visible text.
var alwaysSkipped = map[string]struct{}{"script": {}, "style": {}, "template": {}}

type Document struct {
	raw  string
	base *url.URL
	doc  *goquery.Document

	schemaOnce sync.Once
	schemas    []map[string]any
}

// Parse builds a Document from body. pageURL is used to resolve relative
// links and image sources.
func Parse(body, pageURL string) (*Document, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url %s: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{raw: body, base: base, doc: doc}, nil
}

// Raw returns the unparsed body.
func (d *Document) Raw() string { return d.raw }

// URL returns the page URL the document was parsed for.
func (d *Document) URL() *url.URL { return d.base }

// Find runs a CSS selector over the whole document.
func (d *Document) Find(selector string) *goquery.Selection { return d.doc.Find(selector) }

func (d *Document) root() *html.Node { return d.doc.Nodes[0] }

// Text returns the document's visible text, whitespace-collapsed and
// space-separated, skipping the subtrees of any excluded element names.
func (d *Document) Text(exclude ...string) string {
	return nodeText(d.doc.Nodes, exclude)
}

// MainText is Text without navigation, header and footer chrome.
func (d *Document) MainText(extra ...string) string {
	return d.Text(append(append([]string(nil), MainContentExcludes...), extra...)...)
}

// SelectionText is the space-separated visible text of sel.
func SelectionText(sel *goquery.Selection) string {
	return nodeText(sel.Nodes, nil)
}

func nodeText(nodes []*html.Node, exclude []string) string {
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		skip[strings.ToLower(e)] = struct{}{}
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			for _, w := range strings.Fields(n.Data) {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(w)
			}
			return
		case html.ElementNode:
			if _, ok := alwaysSkipped[n.Data]; ok {
				return
			}
			if _, ok := skip[n.Data]; ok {
				return
			}
		case html.CommentNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return b.String()
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Attr returns the trimmed attribute value of the first node in sel.
func Attr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

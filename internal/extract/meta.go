package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta holds the head-level signals most checks start from.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	Viewport    string
	Charset     string
	Lang        string
	// OpenGraph is keyed by property, e.g. "og:title".
	OpenGraph map[string]string
}

var openGraphProps = []string{"og:title", "og:description", "og:image", "og:type", "og:url"}

func (d *Document) Meta() Meta {
	m := Meta{
		Title:       collapse(d.doc.Find("title").First().Text()),
		Description: d.MetaName("description"),
		Canonical:   Attr(d.doc.Find(`link[rel~="canonical"]`).First(), "href"),
		Robots:      d.MetaName("robots"),
		Viewport:    d.MetaName("viewport"),
		Charset:     d.charset(),
		Lang:        Attr(d.doc.Find("html").First(), "lang"),
		OpenGraph:   make(map[string]string, len(openGraphProps)),
	}
	for _, p := range openGraphProps {
		m.OpenGraph[p] = d.MetaProperty(p)
	}
	return m
}

// MetaName returns content of <meta name=...>, matching the name case-insensitively.
func (d *Document) MetaName(name string) string {
	return d.metaBy("name", name)
}

// MetaProperty returns content of <meta property=...>.
func (d *Document) MetaProperty(prop string) string {
	return d.metaBy("property", prop)
}

func (d *Document) metaBy(attr, want string) string {
	var out string
	d.doc.Find("meta[" + attr + "]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.EqualFold(Attr(s, attr), want) {
			out = Attr(s, "content")
			return false
		}
		return true
	})
	return out
}

func (d *Document) charset() string {
	if cs := Attr(d.doc.Find("meta[charset]").First(), "charset"); cs != "" {
		return cs
	}
	var out string
	d.doc.Find("meta[http-equiv]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(Attr(s, "http-equiv"), "content-type") {
			return true
		}
		content := strings.ToLower(Attr(s, "content"))
		if i := strings.Index(content, "charset="); i >= 0 {
			out = strings.TrimSpace(content[i+len("charset="):])
			return false
		}
		return true
	})
	return out
}

// Headings returns the text of every <hN> for level 1..6, in document order.
func (d *Document) Headings(level int) []string {
	if level < 1 || level > 6 {
		return nil
	}
	tag := "h" + string(rune('0'+level))
	var out []string
	d.doc.Find(tag).Each(func(_ int, s *goquery.Selection) {
		out = append(out, collapse(SelectionText(s)))
	})
	return out
}

// Paragraphs returns the text of every <p>.
func (d *Document) Paragraphs() []string {
	var out []string
	d.doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		out = append(out, collapse(SelectionText(s)))
	})
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/raysh454/sitegrade/internal/utils"
)

// Link is one <a href> on the page.
type Link struct {
	URL      string
	Href     string
	Text     string
	Rel      []string
	Nofollow bool
	Internal bool
}

// Links returns every anchor with an href. Internal links point at the
// page's own site; mailto:, tel: and similar targets are neither internal
// nor external.
func (d *Document) Links() []Link {
	var out []Link
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := Attr(s, "href")
		abs := href
		var target *url.URL
		if ref, err := url.Parse(href); err == nil {
			target = d.base.ResolveReference(ref)
			abs = target.String()
		}
		rel := strings.Fields(strings.ToLower(Attr(s, "rel")))
		l := Link{
			URL:  abs,
			Href: href,
			Text: collapse(SelectionText(s)),
			Rel:  rel,
		}
		for _, r := range rel {
			if r == "nofollow" {
				l.Nofollow = true
			}
		}
		if target != nil && isWeb(target) && utils.SameSite(d.base, target) {
			l.Internal = true
		}
		out = append(out, l)
	})
	return out
}

// InternalLinks filters Links to same-site web targets.
func (d *Document) InternalLinks() []Link {
	var out []Link
	for _, l := range d.Links() {
		if l.Internal {
			out = append(out, l)
		}
	}
	return out
}

// ExternalLinks filters Links to off-site http(s) targets.
func (d *Document) ExternalLinks() []Link {
	var out []Link
	for _, l := range d.Links() {
		if l.Internal {
			continue
		}
		if u, err := url.Parse(l.URL); err == nil && isWeb(u) {
			out = append(out, l)
		}
	}
	return out
}

func isWeb(u *url.URL) bool {
	return u.Scheme == "http" || u.Scheme == "https"
}

// Image is one <img> on the page.
type Image struct {
	// Src is resolved against the page URL; empty when the tag has no src.
	Src     string
	RawSrc  string
	Alt     string
	HasAlt  bool
	Width   string
	Height  string
	Loading string
	Srcset  string
}

func (d *Document) Images() []Image {
	var out []Image
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		raw := Attr(s, "src")
		img := Image{
			RawSrc:  raw,
			Alt:     Attr(s, "alt"),
			Width:   Attr(s, "width"),
			Height:  Attr(s, "height"),
			Loading: strings.ToLower(Attr(s, "loading")),
			Srcset:  Attr(s, "srcset"),
		}
		img.HasAlt = img.Alt != ""
		if raw != "" {
			img.Src = raw
			if ref, err := url.Parse(raw); err == nil {
				img.Src = d.base.ResolveReference(ref).String()
			}
		}
		out = append(out, img)
	})
	return out
}

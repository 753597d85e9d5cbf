package crawler

import (
	"net/url"
	"strings"

	"github.com/raysh454/sitegrade/internal/utils"
	"golang.org/x/net/html"
)

// ExtractLinks returns every <a href> target in body resolved against base,
// fragment-stripped, in document order. Non-http(s) targets are skipped.
func ExtractLinks(base *url.URL, body string) []string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil
	}

	// <base href> changes how relative links resolve.
	if b := findBaseHref(doc); b != "" {
		if resolved, ok := utils.ResolveLink(base, b); ok {
			if u, err := url.Parse(resolved); err == nil {
				base = u
			}
		}
	}

	var links []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if link, ok := utils.ResolveLink(base, attr.Val); ok {
					links = append(links, link)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)
	return links
}

func findBaseHref(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "base" {
		for _, attr := range n.Attr {
			if attr.Key == "href" {
				return attr.Val
			}
		}
	}
	if n.Type == html.ElementNode && n.Data == "body" {
		return ""
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if href := findBaseHref(child); href != "" {
			return href
		}
	}
	return ""
}

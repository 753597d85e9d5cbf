package crawler

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()
	base, _ := url.Parse("https://site.test/services/")
	body := `<html><body>
		<a href="drains#pricing">Drains</a>
		<a href="/contact">Contact</a>
		<a href="mailto:hi@site.test">Mail</a>
		<a href="tel:+15125550100">Call</a>
		<a>no href</a>
		<link rel="stylesheet" href="/style.css">
		<img src="/logo.png">
	</body></html>`

	assert.Equal(t, []string{
		"https://site.test/services/drains",
		"https://site.test/contact",
	}, ExtractLinks(base, body))
}

func TestExtractLinks_BaseHref(t *testing.T) {
	t.Parallel()
	base, _ := url.Parse("https://site.test/deep/page")
	body := `<html><head><base href="https://site.test/root/"></head><body><a href="child">c</a></body></html>`

	assert.Equal(t, []string{"https://site.test/root/child"}, ExtractLinks(base, body))
}

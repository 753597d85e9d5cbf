package utils

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// EnsureScheme prefixes https:// when raw carries no http(s) scheme.
func EnsureScheme(raw string) string {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}

// NormalizeForDedup reduces a URL to scheme://host/path with the trailing
// slash removed ("/" when the path is empty). Query and fragment are
// dropped, so /a, /a/ and /a?x=1 share one visited entry.
func NormalizeForDedup(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return raw
	}
	p := strings.TrimRight(u.Path, "/")
	if p == "" {
		p = "/"
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host) + p
}

// Origin returns scheme://host of raw.
func Origin(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %s has no scheme or host", raw)
	}
	return u.Scheme + "://" + u.Host, nil
}

// RegistrableDomain returns the eTLD+1 of host ("www.shop.example.co.uk" ->
// "example.co.uk"). IP addresses and single-label hosts are returned as-is.
func RegistrableDomain(host string) string {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

// SiteKey identifies the site a URL belongs to. Named hosts compare by
// registrable domain; IPs and single-label hosts compare by host:port since
// they have no registrable parent.
func SiteKey(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	if net.ParseIP(host) != nil || !strings.Contains(host, ".") {
		return strings.ToLower(u.Host)
	}
	return RegistrableDomain(host)
}

// SameSite reports whether a and b share a SiteKey.
func SameSite(a, b *url.URL) bool {
	return SiteKey(a) == SiteKey(b)
}

// ResolveLink resolves href against base and strips the fragment. ok is
// false for empty hrefs and non-http(s) targets (mailto:, tel:, javascript:).
func ResolveLink(base *url.URL, href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}
	abs.Fragment = ""
	abs.RawFragment = ""
	return abs.String(), true
}

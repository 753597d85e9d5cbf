package utils

import (
	"errors"
	"testing"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		in   string
		opts CanonicalizeOptions
		want string
	}{
		{
			in:   "HTTP://Example.COM:80/foo/../bar/?b=2&a=1#frag",
			opts: CanonicalizeOptions{},
			want: "http://example.com/bar?a=1&b=2",
		},
		{
			in:   "https://example.com:443/services/#areas",
			opts: CanonicalizeOptions{StripTrailingSlash: true},
			want: "https://example.com/services",
		},
		{
			in:   "example.com/page?utm_source=x&utm_medium=y&z=1",
			opts: CanonicalizeOptions{DefaultScheme: "https", DropTrackingParams: true},
			want: "https://example.com/page?z=1",
		},
		{
			in:   "https://例え.テスト/a",
			opts: CanonicalizeOptions{},
			want: "https://xn--r8jz45g.xn--zckzah/a",
		},
		{
			in:   "https://example.com/contact/?ref=nav",
			opts: CanonicalizeOptions{StripTrailingSlash: true, DropQuery: true},
			want: "https://example.com/contact",
		},
		{
			in:   "https://example.com",
			opts: CanonicalizeOptions{StripTrailingSlash: true},
			want: "https://example.com/",
		},
	}

	for _, tt := range tests {
		got, err := Canonicalize(tt.in, tt.opts)
		if err != nil {
			t.Fatalf("canonicalize(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("canonicalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalize_Errors(t *testing.T) {
	if _, err := Canonicalize("   ", CanonicalizeOptions{}); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("expected ErrEmptyURL, got %v", err)
	}
	if _, err := Canonicalize("/relative/only", CanonicalizeOptions{}); !errors.Is(err, ErrMissingHost) {
		t.Errorf("expected ErrMissingHost, got %v", err)
	}
}

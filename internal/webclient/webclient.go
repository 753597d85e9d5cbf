package webclient

import (
	"context"
	"net/http"
	"time"
)

// WebClient is the transport contract the crawler fetches through. Backends
// follow redirects and report the final URL on the Response.
type WebClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)

	Get(ctx context.Context, url string) (*Response, error)

	Close() error
}

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
	// Options contains backend-specific options like "render": "true" for chromedp
	Options map[string]string
}

type Response struct {
	Request *Request
	// URL is the final location after redirects.
	URL        string
	Headers    http.Header
	Body       []byte
	StatusCode int
	FetchedAt  time.Time
	Elapsed    time.Duration
}

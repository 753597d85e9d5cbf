// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ErrorCount is safe to call while components are still logging.
func (l *DummyLogger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyPage is a canned response served by DummyWebClient.
type DummyPage struct {
	Status  int
	Body    string
	Headers http.Header
	// RedirectTo, when set, is reported as the final URL.
	RedirectTo string
}

// DummyWebClient implements webclient.WebClient over a fixed set of pages.
// URLs missing from Pages answer 404. Set Fail[url] to force a transport
// error for a specific URL.
type DummyWebClient struct {
	Pages         map[string]DummyPage
	Fail          map[string]error
	ResponseDelay time.Duration

	mu       sync.Mutex
	Requests []string
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req.URL)
	d.mu.Unlock()

	if err, ok := d.Fail[req.URL]; ok {
		return nil, err
	}

	page, ok := d.Pages[req.URL]
	if !ok {
		return &webclient.Response{
			Request:    req,
			URL:        req.URL,
			Headers:    http.Header{"Content-Type": {"text/html"}},
			Body:       []byte("not found"),
			StatusCode: http.StatusNotFound,
			FetchedAt:  time.Now(),
		}, nil
	}

	status := page.Status
	if status == 0 {
		status = http.StatusOK
	}
	headers := page.Headers
	if headers == nil {
		headers = http.Header{"Content-Type": {"text/html; charset=utf-8"}}
	}
	final := req.URL
	if page.RedirectTo != "" {
		final = page.RedirectTo
	}

	return &webclient.Response{
		Request:    req,
		URL:        final,
		Headers:    headers,
		Body:       []byte(page.Body),
		StatusCode: status,
		FetchedAt:  time.Now(),
		Elapsed:    time.Millisecond,
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*webclient.Response, error) {
	return d.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// Fetched returns a copy of the requested URLs in order.
func (d *DummyWebClient) Fetched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.Requests...)
}

package webclient

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/raysh454/sitegrade/internal/logging"
	"golang.org/x/net/html/charset"
)

// NetHTTPClient is the default net/http backed WebClient.
type NetHTTPClient struct {
	client *http.Client
	cfg    Config
	logger logging.Logger
}

// NewNetHTTPClient wraps httpClient, or builds one with cfg.Timeout when nil.
func NewNetHTTPClient(cfg Config, logger logging.Logger, httpClient *http.Client) (*NetHTTPClient, error) {
	cfg = cfg.withDefaults()
	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientNetHTTP)})

	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	componentLogger.Debug("created nethttp webclient",
		logging.Field{Key: "timeout", Value: httpClient.Timeout.String()})

	return &NetHTTPClient{
		client: httpClient,
		cfg:    cfg,
		logger: componentLogger,
	}, nil
}

// Do sends req with the configured identity headers. Compressed bodies are
// decoded here so the Content-Encoding header the server sent survives, and
// textual bodies are converted to UTF-8.
func (nhc *NetHTTPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}

	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	nhc.logger.Debug("sending http request",
		logging.Field{Key: "method", Value: method},
		logging.Field{Key: "url", Value: req.URL})

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", nhc.cfg.UserAgent)
	httpReq.Header.Set("Accept", nhc.cfg.Accept)
	httpReq.Header.Set("Accept-Language", nhc.cfg.AcceptLanguage)
	httpReq.Header.Set("Accept-Encoding", "gzip, deflate")
	for k, vs := range req.Headers {
		httpReq.Header.Del(k)
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := nhc.client.Do(httpReq)
	if err != nil {
		nhc.logger.Warn("http request failed",
			logging.Field{Key: "method", Value: method},
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := nhc.readBody(resp)
	elapsed := time.Since(start)
	if err != nil {
		nhc.logger.Warn("failed to read response body",
			logging.Field{Key: "url", Value: req.URL},
			logging.Field{Key: "error", Value: err})
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := req.URL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		Request:    req,
		URL:        finalURL,
		Body:       body,
		Headers:    resp.Header,
		StatusCode: resp.StatusCode,
		FetchedAt:  time.Now(),
		Elapsed:    elapsed,
	}, nil
}

func (nhc *NetHTTPClient) readBody(resp *http.Response) ([]byte, error) {
	var r io.Reader = resp.Body
	switch strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding"))) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gz.Close()
		r = gz
	case "deflate":
		raw, err := io.ReadAll(io.LimitReader(resp.Body, nhc.cfg.MaxBodyBytes))
		if err != nil {
			return nil, err
		}
		r = inflate(raw)
	}

	r = io.LimitReader(r, nhc.cfg.MaxBodyBytes)

	if isText(resp.Header.Get("Content-Type")) {
		decoded, err := charset.NewReader(r, resp.Header.Get("Content-Type"))
		if err == nil {
			r = decoded
		}
	}
	return io.ReadAll(r)
}

// inflate handles both zlib-wrapped and raw deflate streams, since servers
// disagree on what "deflate" means.
func inflate(raw []byte) io.Reader {
	if zr, err := zlib.NewReader(bytes.NewReader(raw)); err == nil {
		return zr
	}
	return flate.NewReader(bytes.NewReader(raw))
}

func isText(contentType string) bool {
	ct := strings.ToLower(contentType)
	return ct == "" || strings.HasPrefix(ct, "text/") || strings.Contains(ct, "xml") || strings.Contains(ct, "json")
}

// Get is a convenience method for simple GET requests
func (nhc *NetHTTPClient) Get(ctx context.Context, url string) (*Response, error) {
	return nhc.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (nhc *NetHTTPClient) Close() error {
	nhc.logger.Debug("closing nethttp webclient")
	nhc.client.CloseIdleConnections()
	return nil
}

// HTTPClient returns the underlying *http.Client
func (nhc *NetHTTPClient) HTTPClient() *http.Client {
	return nhc.client
}

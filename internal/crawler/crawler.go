package crawler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/utils"
	"github.com/raysh454/sitegrade/internal/webclient"
	"golang.org/x/time/rate"
)

const (
	DefaultMaxPages = 500
	DefaultDelay    = time.Second
)

// Config bounds a crawl session. Zero values fall back to DefaultMaxPages
// and DefaultDelay.
type Config struct {
	MaxPages int           `yaml:"max_pages"`
	Delay    time.Duration `yaml:"delay"`
}

// CrawlResult is one fetched page. It is never modified after Fetch returns.
type CrawlResult struct {
	// URL is the final location after redirects.
	URL          string
	RequestedURL string
	// StatusCode is 0 when the request never got a response.
	StatusCode int
	Body       string
	Headers    http.Header
	LoadTime   time.Duration
	Error      string
}

// Ok reports a 2xx/3xx response with no transport error.
func (r *CrawlResult) Ok() bool {
	return r != nil && r.Error == "" && r.StatusCode >= 200 && r.StatusCode < 400
}

// IsHTML reports whether the body is worth parsing as markup.
func (r *CrawlResult) IsHTML() bool {
	ct := strings.ToLower(r.Headers.Get("Content-Type"))
	return ct == "" || strings.Contains(ct, "html")
}

// Crawler fetches pages one at a time through a WebClient, waiting on a
// shared limiter before every request.
type Crawler struct {
	cfg     Config
	wc      webclient.WebClient
	logger  logging.Logger
	limiter *rate.Limiter
}

func New(cfg Config, wc webclient.WebClient, logger logging.Logger) *Crawler {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}

	return &Crawler{
		cfg:     cfg,
		wc:      wc,
		logger:  logger.With(logging.Field{Key: "component", Value: "crawler"}),
		limiter: rate.NewLimiter(rate.Every(cfg.Delay), 1),
	}
}

// Fetch issues a single GET. Transport failures are folded into the result
// with status 0; Fetch never returns nil.
func (c *Crawler) Fetch(ctx context.Context, target string) *CrawlResult {
	res := &CrawlResult{URL: target, RequestedURL: target, Headers: http.Header{}}

	if err := c.limiter.Wait(ctx); err != nil {
		res.Error = describeWaitError(ctx, err)
		return res
	}

	start := time.Now()
	resp, err := c.wc.Get(ctx, target)
	res.LoadTime = time.Since(start)
	if err != nil {
		res.Error = describeError(err)
		c.logger.Warn("fetch failed",
			logging.Field{Key: "url", Value: target},
			logging.Field{Key: "error", Value: res.Error})
		return res
	}

	if resp.Elapsed > 0 {
		res.LoadTime = resp.Elapsed
	}
	if resp.URL != "" {
		res.URL = resp.URL
	}
	res.StatusCode = resp.StatusCode
	res.Body = string(resp.Body)
	if resp.Headers != nil {
		res.Headers = resp.Headers
	}

	c.logger.Debug("fetched page",
		logging.Field{Key: "url", Value: res.URL},
		logging.Field{Key: "status", Value: res.StatusCode},
		logging.Field{Key: "load_time", Value: res.LoadTime.String()})
	return res
}

func describeError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "Timeout"
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return "Connection failed"
	}
	return err.Error()
}

// describeWaitError maps a limiter failure. The limiter refuses up front
// when the next slot falls past the context deadline, without wrapping
// context.DeadlineExceeded.
func describeWaitError(ctx context.Context, err error) string {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return describeError(ctxErr)
	}
	if _, ok := ctx.Deadline(); ok {
		return "Timeout"
	}
	return describeError(err)
}

// CrawlSite walks same-site links breadth first from start and returns the
// pages in fetch order. Dedup is keyed by utils.NormalizeForDedup, so /a and
// /a/ are fetched once. maxPages <= 0 uses the configured budget.
func (c *Crawler) CrawlSite(ctx context.Context, start string, maxPages int) []*CrawlResult {
	if maxPages <= 0 {
		maxPages = c.cfg.MaxPages
	}

	root, err := url.Parse(start)
	if err != nil || root.Host == "" {
		return []*CrawlResult{c.Fetch(ctx, start)}
	}

	visited := make(map[string]struct{})
	queued := map[string]struct{}{utils.NormalizeForDedup(start): {}}
	queue := []string{start}
	var results []*CrawlResult

	for len(queue) > 0 && len(results) < maxPages {
		if ctx.Err() != nil {
			c.logger.Warn("crawl interrupted", logging.Field{Key: "error", Value: ctx.Err()})
			break
		}

		target := queue[0]
		queue = queue[1:]

		key := utils.NormalizeForDedup(target)
		if _, seen := visited[key]; seen {
			continue
		}
		visited[key] = struct{}{}

		res := c.Fetch(ctx, target)
		results = append(results, res)
		visited[utils.NormalizeForDedup(res.URL)] = struct{}{}

		if !res.Ok() || !res.IsHTML() {
			continue
		}

		base, err := url.Parse(res.URL)
		if err != nil {
			continue
		}
		for _, link := range ExtractLinks(base, res.Body) {
			u, err := url.Parse(link)
			if err != nil || !utils.SameSite(root, u) {
				continue
			}
			k := utils.NormalizeForDedup(link)
			if _, seen := visited[k]; seen {
				continue
			}
			if _, dup := queued[k]; dup {
				continue
			}
			queued[k] = struct{}{}
			queue = append(queue, link)
		}
	}

	c.logger.Info("crawl finished",
		logging.Field{Key: "start", Value: start},
		logging.Field{Key: "pages", Value: len(results)})
	return results
}

// FetchRobotsTxt returns the site's /robots.txt, or "" when it is missing.
func (c *Crawler) FetchRobotsTxt(ctx context.Context, base string) string {
	return c.fetchWellKnown(ctx, base, "/robots.txt")
}

// FetchSitemap returns the site's /sitemap.xml, or "" when it is missing.
func (c *Crawler) FetchSitemap(ctx context.Context, base string) string {
	return c.fetchWellKnown(ctx, base, "/sitemap.xml")
}

func (c *Crawler) fetchWellKnown(ctx context.Context, base, path string) string {
	origin, err := utils.Origin(base)
	if err != nil {
		return ""
	}
	res := c.Fetch(ctx, origin+path)
	if !res.Ok() {
		return ""
	}
	return res.Body
}

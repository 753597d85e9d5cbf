package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/crawler"
	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/scoring"
	"github.com/raysh454/sitegrade/internal/utils"
	"github.com/raysh454/sitegrade/internal/webclient"
)

// ErrSiteUnreachable matches every SiteUnreachableError.
var ErrSiteUnreachable = errors.New("site unreachable")

// SiteUnreachableError reports that the audited page itself could not be
// fetched, the only failure that aborts an audit.
type SiteUnreachableError struct {
	URL        string
	StatusCode int
	Err        string
	// Fetched is false when the crawl produced no result at all.
	Fetched bool
}

func (e *SiteUnreachableError) Error() string {
	if !e.Fetched {
		return "Could not access site"
	}
	msg := e.Err
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("Status %d: %s", e.StatusCode, msg)
}

func (e *SiteUnreachableError) Is(target error) bool { return target == ErrSiteUnreachable }

// Request describes one audit.
type Request struct {
	URL         string   `json:"url"`
	ClientName  string   `json:"client_name,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
	// MaxPages overrides the configured crawl budget when positive.
	MaxPages int `json:"max_pages,omitempty"`
}

// ProgressFunc receives the number of analyzers finished out of total.
type ProgressFunc func(processed, total int)

// Auditor runs the audit pipeline: crawl, auxiliary documents, competitor
// pages, then every registered analyzer over the collected data.
type Auditor struct {
	cfg      *Config
	wc       webclient.WebClient
	registry *analyzer.Registry
	logger   logging.Logger
	console  io.Writer
}

func NewAuditor(cfg *Config, wc webclient.WebClient, logger logging.Logger, registry *analyzer.Registry) *Auditor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if registry == nil {
		registry = analyzer.Default(cfg.Analyzers.Config)
	}
	return &Auditor{
		cfg:      cfg,
		wc:       wc,
		registry: registry,
		logger:   logger.With(logging.Field{Key: "component", Value: "auditor"}),
		console:  io.Discard,
	}
}

// WithConsole sets where the human-readable progress lines go.
func (a *Auditor) WithConsole(w io.Writer) *Auditor {
	if w == nil {
		w = io.Discard
	}
	a.console = w
	return a
}

func (a *Auditor) printf(format string, args ...any) {
	fmt.Fprintf(a.console, format+"\n", args...)
}

// Run audits req.URL. A scheme is added when missing. The only errors are
// an unreachable site and a done ctx; analyzer failures become ERR results.
func (a *Auditor) Run(ctx context.Context, req Request, progress ProgressFunc) (*report.Audit, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, errors.New("audit: empty url")
	}
	target := utils.EnsureScheme(req.URL)
	maxPages := req.MaxPages
	if maxPages <= 0 {
		maxPages = a.cfg.Crawler.MaxPages
	}
	competitors := a.competitorURLs(req.Competitors)

	rule := strings.Repeat("=", 60)
	a.printf("\n%s", rule)
	a.printf("  %s SEO Audit", a.cfg.Report.Branding.Name)
	a.printf("%s", rule)
	a.printf("  Target:  %s", target)
	if req.ClientName != "" {
		a.printf("  Client:  %s", req.ClientName)
	}
	if len(competitors) > 0 {
		a.printf("  Competitors: %s", strings.Join(competitors, ", "))
	}
	a.printf("  Max pages: %d", maxPages)
	a.printf("%s\n", rule)

	logger := a.logger.With(logging.Field{Key: "url", Value: target})
	c := crawler.New(a.cfg.Crawler, a.wc, logger)

	a.printf("[1/4] Crawling site...")
	start := time.Now()
	pages := c.CrawlSite(ctx, target, maxPages)
	crawlTime := time.Since(start)
	a.printf("      Crawled %d pages in %.1fs", len(pages), crawlTime.Seconds())

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(pages) == 0 || !pages[0].Ok() {
		uerr := &SiteUnreachableError{URL: target}
		if len(pages) > 0 {
			uerr.Fetched = true
			uerr.StatusCode = pages[0].StatusCode
			uerr.Err = pages[0].Error
		}
		a.printf("\n  ERROR: Could not access %s", target)
		logger.Error("site unreachable", logging.Field{Key: "error", Value: uerr.Error()})
		return nil, uerr
	}

	a.printf("[2/4] Fetching robots.txt and sitemap...")
	robotsTxt := c.FetchRobotsTxt(ctx, target)
	sitemapXML := c.FetchSitemap(ctx, target)
	a.printf("      robots.txt: %s", foundOrNot(robotsTxt))
	a.printf("      sitemap.xml: %s", foundOrNot(sitemapXML))

	a.printf("[3/4] Running analysis modules...")
	var compPages []*crawler.CrawlResult
	for _, u := range competitors {
		compPages = append(compPages, c.Fetch(ctx, u))
	}
	if len(competitors) > 0 {
		ok := 0
		for _, p := range compPages {
			if p.Ok() {
				ok++
			}
		}
		a.printf("      Fetched %d/%d competitor pages", ok, len(competitors))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := analyzer.NewInput(pages[0], pages, robotsTxt, sitemapXML, compPages)
	results, err := a.analyze(ctx, logger, in, progress)
	if err != nil {
		return nil, err
	}

	overall := scoring.OverallScore(results, a.weights())
	audit := report.NewAudit(target, req.ClientName, overall)
	audit.Competitors = competitors
	audit.PagesCrawled = len(pages)
	audit.CrawlDurationMS = crawlTime.Milliseconds()
	audit.AuditDurationMS = time.Since(start).Milliseconds()

	a.printf("\n%s", rule)
	a.printf("  AUDIT COMPLETE")
	a.printf("  Overall Score: %d/100 (%s)", audit.OverallScore, audit.OverallGrade)
	a.printf("  Checks: %d passed, %d failed, %d critical", audit.TotalPassed, audit.TotalFailed, audit.TotalCritical)
	a.printf("  Time: %.1fs", time.Since(start).Seconds())

	logger.Info("audit complete",
		logging.Field{Key: "score", Value: audit.OverallScore},
		logging.Field{Key: "grade", Value: audit.OverallGrade},
		logging.Field{Key: "pages", Value: audit.PagesCrawled})
	return audit, nil
}

func (a *Auditor) weights() scoring.Weights {
	if len(a.cfg.Scoring.Weights) == 0 {
		return scoring.DefaultWeights()
	}
	return a.cfg.Scoring.Weights
}

// competitorURLs normalizes, dedups and caps the competitor list.
func (a *Auditor) competitorURLs(raw []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		u := utils.EnsureScheme(r)
		if seen[u] {
			continue
		}
		seen[u] = true
		if len(out) == a.cfg.MaxCompetitors {
			a.logger.Warn("ignoring extra competitor", logging.Field{Key: "url", Value: u})
			continue
		}
		out = append(out, u)
	}
	return out
}

// analyze runs the registered analyzers concurrently. Results are keyed by
// category; console lines are printed in registration order once all finish.
func (a *Auditor) analyze(ctx context.Context, logger logging.Logger, in *analyzer.Input, progress ProgressFunc) (map[string]scoring.CategoryResult, error) {
	analyzers := a.registry.Analyzers()
	results := make([]scoring.CategoryResult, len(analyzers))
	errs := make([]error, len(analyzers))

	var (
		g    errgroup.Group
		done = make(chan struct{}, len(analyzers))
	)
	if w := a.cfg.Analyzers.Workers; w > 0 {
		g.SetLimit(w)
	}
	for i, an := range analyzers {
		i, an := i, an
		g.Go(func() error {
			results[i], errs[i] = runAnalyzer(ctx, an, in)
			done <- struct{}{}
			return nil
		})
	}

	finished := make(chan struct{})
	go func() {
		for n := 1; n <= len(analyzers); n++ {
			<-done
			if progress != nil {
				progress(n, len(analyzers))
			}
		}
		close(finished)
	}()
	_ = g.Wait()
	<-finished

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]scoring.CategoryResult, len(analyzers))
	for i, an := range analyzers {
		cat := an.Category()
		if errs[i] != nil {
			fields := []logging.Field{
				{Key: "category", Value: cat},
				{Key: "error", Value: errs[i]},
			}
			var pe *panicError
			if errors.As(errs[i], &pe) {
				fields = append(fields, logging.Field{Key: "stack", Value: string(pe.stack)})
			}
			logger.Error("analyzer failed", fields...)
			a.printf("      [ERR ] %-15s → %v", cat, errs[i])
			out[cat] = scoring.ErrorResult()
			continue
		}
		r := results[i]
		a.printf("      [%s] %-15s → %d/100 (%s)", report.Status(r), cat, r.Score, r.Grade)
		out[cat] = r
	}
	return out, nil
}

// panicError carries a recovered analyzer panic.
type panicError struct {
	value any
	stack []byte
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }

// runAnalyzer turns a panic into an error so one category cannot take the
// audit down.
func runAnalyzer(ctx context.Context, an analyzer.Analyzer, in *analyzer.Input) (res scoring.CategoryResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &panicError{value: p, stack: debug.Stack()}
		}
	}()
	return an.Analyze(ctx, in)
}

func foundOrNot(doc string) string {
	if doc == "" {
		return "not found"
	}
	return "found"
}

package webclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/raysh454/sitegrade/internal/logging"
)

// ChromedpClient renders pages in headless Chrome so script-built markup is
// audited the way search engines with rendering see it. Only GET is supported.
type ChromedpClient struct {
	cfg         Config
	logger      logging.Logger
	allocCancel context.CancelFunc

	browserCtx    context.Context
	browserCancel context.CancelFunc
	startOnce     sync.Once
	startErr      error
}

// NewChromedpClient prepares a browser allocator. Chrome is started lazily on
// the first Do.
func NewChromedpClient(cfg Config, logger logging.Logger) (*ChromedpClient, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.Flag("headless", cfg.headless()),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	componentLogger := logger.With(logging.Field{Key: "backend", Value: string(ClientChromedp)})
	componentLogger.Debug("created chromedp webclient",
		logging.Field{Key: "idle_after", Value: cfg.IdleAfter.String()},
		logging.Field{Key: "headless", Value: cfg.headless()})

	return &ChromedpClient{
		cfg:           cfg,
		logger:        componentLogger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// waitNetworkIdle signals once no requests have been in flight for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) <-chan struct{} {
	idle := make(chan struct{}, 1)
	var active int32
	var timer *time.Timer
	var timerMu sync.Mutex
	var once sync.Once

	arm := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&active) == 0 {
				once.Do(func() { idle <- struct{}{} })
			}
		})
	}

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&active, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&active, -1) <= 0 {
				atomic.StoreInt32(&active, 0)
				arm()
			}
		}
	})

	arm()
	return idle
}

// listenDocument captures status and headers of the first document response.
func listenDocument(ctx context.Context) func() (int, http.Header) {
	var mu sync.Mutex
	var status int
	headers := http.Header{}
	seen := false

	chromedp.ListenTarget(ctx, func(ev any) {
		e, ok := ev.(*network.EventResponseReceived)
		if !ok || e.Type != network.ResourceTypeDocument || e.Response == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if seen {
			return
		}
		seen = true
		status = int(e.Response.Status)
		for k, v := range e.Response.Headers {
			for _, line := range strings.Split(fmt.Sprint(v), "\n") {
				headers.Add(k, line)
			}
		}
	})

	return func() (int, http.Header) {
		mu.Lock()
		defer mu.Unlock()
		return status, headers
	}
}

func (c *ChromedpClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	method := strings.ToUpper(req.Method)
	if method != "" && method != http.MethodGet {
		return nil, fmt.Errorf("method %s not supported by chromedp backend", method)
	}

	c.startOnce.Do(func() {
		c.startErr = chromedp.Run(c.browserCtx)
	})
	if c.startErr != nil {
		return nil, fmt.Errorf("start browser: %w", c.startErr)
	}

	tabCtx, cancelTab := chromedp.NewContext(c.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("open tab: %w", err)
	}
	document := listenDocument(tabCtx)
	idle := waitNetworkIdle(tabCtx, c.cfg.IdleAfter)

	extra := network.Headers{"Accept-Language": c.cfg.AcceptLanguage}
	for k, vs := range req.Headers {
		extra[k] = strings.Join(vs, ", ")
	}

	navCtx, cancelNav := context.WithTimeout(tabCtx, c.cfg.Timeout)
	defer cancelNav()

	start := time.Now()
	c.logger.Debug("rendering page", logging.Field{Key: "url", Value: req.URL})
	if err := chromedp.Run(navCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extra),
		chromedp.Navigate(req.URL),
	); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	select {
	case <-idle:
	case <-navCtx.Done():
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	var html, location string
	renderCtx, cancelRender := context.WithTimeout(tabCtx, 5*time.Second)
	defer cancelRender()
	if err := chromedp.Run(renderCtx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("read rendered html: %w", err)
	}

	status, headers := document()
	if status == 0 {
		status = http.StatusOK
	}
	if location == "" {
		location = req.URL
	}

	return &Response{
		Request:    req,
		URL:        location,
		Headers:    headers,
		Body:       []byte(html),
		StatusCode: status,
		FetchedAt:  time.Now(),
		Elapsed:    time.Since(start),
	}, nil
}

func (c *ChromedpClient) Get(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, URL: url})
}

func (c *ChromedpClient) Close() error {
	c.logger.Debug("closing chromedp webclient")
	c.browserCancel()
	c.allocCancel()
	return nil
}

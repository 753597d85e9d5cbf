package webclient

import "time"

type Client string

const (
	ClientNetHTTP  Client = "nethttp"
	ClientChromedp Client = "chromedp"
)

const (
	DefaultUserAgent      = "Mozilla/5.0 (compatible; KlemaSEOBot/1.0; +https://klemacreative.com/seo-audit)"
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.9"
	DefaultTimeout        = 15 * time.Second
	DefaultMaxBodyBytes   = 10 << 20
	DefaultIdleAfter      = 2 * time.Second
)

// Config selects and tunes a backend. It is embedded in app.Config under
// the "webclient" key.
type Config struct {
	Client         Client        `yaml:"client"`
	Timeout        time.Duration `yaml:"timeout"`
	UserAgent      string        `yaml:"user_agent"`
	Accept         string        `yaml:"accept"`
	AcceptLanguage string        `yaml:"accept_language"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes"`

	// chromedp only
	IdleAfter time.Duration `yaml:"idle_after"`
	Headless  *bool         `yaml:"headless"`
}

// withDefaults fills zero fields so backends never see an unusable config.
func (c Config) withDefaults() Config {
	if c.Client == "" {
		c.Client = ClientNetHTTP
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Accept == "" {
		c.Accept = DefaultAccept
	}
	if c.AcceptLanguage == "" {
		c.AcceptLanguage = DefaultAcceptLanguage
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.IdleAfter <= 0 {
		c.IdleAfter = DefaultIdleAfter
	}
	return c
}

func (c Config) headless() bool {
	return c.Headless == nil || *c.Headless
}

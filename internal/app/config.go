package app

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/crawler"
	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/scoring"
	"github.com/raysh454/sitegrade/internal/store"
	"github.com/raysh454/sitegrade/internal/webclient"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config aggregates the per-package configs. Treat a loaded Config as
// read-only; components copy the sections they need at construction.
type Config struct {
	Crawler   crawler.Config   `yaml:"crawler"`
	WebClient webclient.Config `yaml:"webclient"`
	Scoring   scoring.Config   `yaml:"scoring"`
	Analyzers AnalyzersConfig  `yaml:"analyzers"`

	// MaxCompetitors caps the competitor pages fetched per audit.
	MaxCompetitors int `yaml:"max_competitors"`

	Report  report.Config  `yaml:"report"`
	Store   store.Config   `yaml:"store"`
	Server  ServerConfig   `yaml:"server"`
	Logging logging.Config `yaml:"logging"`
}

// AnalyzersConfig selects the categories and bounds how many analyzers
// run at once.
type AnalyzersConfig struct {
	analyzer.Config `yaml:",inline"`
	Workers         int `yaml:"workers"`
}

// ServerConfig tunes `sitegrade serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// ReportCacheSize is the number of rendered HTML reports kept in memory.
	ReportCacheSize int `yaml:"report_cache_size"`

	// JobRetention is how long finished jobs stay visible in /jobs.
	JobRetention time.Duration `yaml:"job_retention"`
}

// DefaultConfig returns a fresh copy of the built-in defaults.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("app: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// LoadConfig applies the YAML file at path over the defaults. An empty path
// returns the defaults. The result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Crawler.MaxPages <= 0 {
		errs = append(errs, fmt.Errorf("crawler.max_pages must be positive, got %d", c.Crawler.MaxPages))
	}
	if c.Crawler.Delay <= 0 {
		errs = append(errs, fmt.Errorf("crawler.delay must be positive, got %s", c.Crawler.Delay))
	}
	if c.WebClient.Timeout < 0 {
		errs = append(errs, fmt.Errorf("webclient.timeout must not be negative, got %s", c.WebClient.Timeout))
	}
	for cat, w := range c.Scoring.Weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			errs = append(errs, fmt.Errorf("scoring.weights.%s must be a finite non-negative number, got %v", cat, w))
		}
	}
	if c.MaxCompetitors < 0 {
		errs = append(errs, fmt.Errorf("max_competitors must not be negative, got %d", c.MaxCompetitors))
	}
	if c.Analyzers.Workers < 0 {
		errs = append(errs, fmt.Errorf("analyzers.workers must not be negative, got %d", c.Analyzers.Workers))
	}
	return errors.Join(errs...)
}

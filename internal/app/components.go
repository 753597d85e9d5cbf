package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/raysh454/sitegrade/internal/analyzer"
	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/store"
	"github.com/raysh454/sitegrade/internal/webclient"
)

// Components is the long-lived wiring behind `sitegrade serve`.
type Components struct {
	WebClient    webclient.WebClient
	Store        *store.Store
	Registry     *analyzer.Registry
	Auditor      *Auditor
	Orchestrator *Orchestrator
}

// NewComponents builds the web client, audit store, analyzers, auditor and
// orchestrator from cfg.
func NewComponents(ctx context.Context, cfg *Config, logger logging.Logger) (*Components, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	wc, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("new webclient: %w", err)
	}

	st, err := store.Open(ctx, cfg.Store, logger)
	if err != nil {
		_ = wc.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}

	reg := analyzer.Default(cfg.Analyzers.Config)
	auditor := NewAuditor(cfg, wc, logger, reg)

	return &Components{
		WebClient:    wc,
		Store:        st,
		Registry:     reg,
		Auditor:      auditor,
		Orchestrator: NewOrchestrator(cfg, auditor, st, logger),
	}, nil
}

// Close stops running jobs, then releases the web client and the store.
func (c *Components) Close() error {
	if c.Orchestrator != nil {
		c.Orchestrator.Close()
	}
	var errs []error
	if c.WebClient != nil {
		if err := c.WebClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close webclient: %w", err))
		}
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

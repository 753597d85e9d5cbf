package app

import (
	"context"
	"errors"
	"time"

	"github.com/raysh454/sitegrade/internal/cli"
	"github.com/raysh454/sitegrade/internal/logging"
)

// Application is the global runtime state container of `sitegrade serve`.
// It holds config, parsed CLI args and the shared components. Pass it into
// modules that need global state rather than using package-level variables.
type Application struct {
	Config     *Config
	Args       *cli.CLIArgs
	Logger     logging.Logger
	Components *Components

	// internal context for cancellation / lifecycle
	ctx    context.Context
	cancel context.CancelFunc
}

// NewApplication constructs an Application from already-built parts so it
// stays easy to test.
func NewApplication(cfg *Config, args *cli.CLIArgs, logger logging.Logger, comps *Components) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	return &Application{
		Config:     cfg,
		Args:       args,
		Logger:     logger,
		Components: comps,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Context is canceled when the application shuts down. Jobs started on
// behalf of requests derive from it so they outlive the request itself.
func (a *Application) Context() context.Context {
	return a.ctx
}

// Orchestrator returns the job orchestrator, or nil without components.
func (a *Application) Orchestrator() *Orchestrator {
	if a.Components == nil {
		return nil
	}
	return a.Components.Orchestrator
}

func (a *Application) Start() error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil {
		fields := []logging.Field{}
		if a.Config != nil {
			fields = append(fields,
				logging.Field{Key: "addr", Value: a.Config.Server.Addr},
				logging.Field{Key: "store", Value: a.Config.Store.Driver})
		}
		a.Logger.Info("application starting", fields...)
	}
	return nil
}

// Shutdown cancels running jobs and releases the components, bounded by a
// 15 second timeout.
func (a *Application) Shutdown(ctx context.Context) error {
	if a == nil {
		return errors.New("application is nil")
	}
	if a.Logger != nil {
		a.Logger.Info("application shutdown initiated")
	}

	// cancel internal ctx first so job contexts see it
	a.cancel()

	if a.Components == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- a.Components.Close() }()

	select {
	case err := <-done:
		if err != nil && a.Logger != nil {
			a.Logger.Warn("closing components returned error", logging.Field{Key: "error", Value: err})
		}
		return err
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}
}

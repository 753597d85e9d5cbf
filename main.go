// Command sitegrade audits the SEO of a small-business website and writes
// an HTML dashboard or a JSON document. `sitegrade serve` runs the same
// audits behind an HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/raysh454/sitegrade/internal/app"
	"github.com/raysh454/sitegrade/internal/cli"
	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/server"
	"github.com/raysh454/sitegrade/internal/utils"
	"github.com/raysh454/sitegrade/internal/webclient"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cliArgs, err := cli.ParseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cli.Usage(stdout)
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n\n", err)
		cli.Usage(stderr)
		return exitUsage
	}

	cfg, err := app.LoadConfig(cliArgs.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	applyOverrides(cfg, cliArgs)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "error: invalid config: %v\n", err)
		return exitError
	}

	logger, closeLogs, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}
	defer closeLogs.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cliArgs.Mode == cli.ModeServe {
		return serve(ctx, cfg, cliArgs, logger, stderr)
	}
	return audit(ctx, cfg, cliArgs, logger, stdout, stderr)
}

// applyOverrides copies the flags that were set onto cfg.
func applyOverrides(cfg *app.Config, args *cli.CLIArgs) {
	if args.Backend != "" {
		cfg.WebClient.Client = webclient.Client(args.Backend)
	}
	if args.LogLevel != "" {
		cfg.Logging.Level = args.LogLevel
	}
	if args.LogFile != "" {
		cfg.Logging.File = args.LogFile
	}
	// stdout carries only the JSON document
	if args.JSON {
		cfg.Logging.Sink = logging.SinkStderr
	}
	if args.Addr != "" {
		cfg.Server.Addr = args.Addr
	}
	if args.DBDriver != "" {
		cfg.Store.Driver = args.DBDriver
	}
	if args.DBDSN != "" {
		cfg.Store.DSN = args.DBDSN
	}
}

func audit(ctx context.Context, cfg *app.Config, args *cli.CLIArgs, logger logging.Logger, stdout, stderr io.Writer) int {
	console := stdout
	if args.JSON {
		console = stderr
	}
	target := utils.EnsureScheme(strings.TrimSpace(args.Target))

	fail := func(err error) int {
		if args.JSON {
			_ = report.WriteError(stdout, target, err)
		} else if !errors.Is(err, app.ErrSiteUnreachable) {
			// the auditor already reported unreachable sites
			fmt.Fprintf(console, "\n  ERROR: %v\n", err)
		}
		return exitError
	}

	wc, err := webclient.NewWebClient(cfg.WebClient, logger)
	if err != nil {
		return fail(err)
	}
	defer wc.Close()

	auditor := app.NewAuditor(cfg, wc, logger, nil).WithConsole(console)
	a, err := auditor.Run(ctx, app.Request{
		URL:         target,
		ClientName:  args.ClientName,
		Competitors: args.Competitors,
		MaxPages:    args.MaxPages,
	}, nil)
	if err != nil {
		return fail(err)
	}

	rule := strings.Repeat("=", 60)
	if args.JSON {
		if err := report.WriteJSON(stdout, a); err != nil {
			logger.Error("writing json", logging.Field{Key: "error", Value: err.Error()})
			return exitError
		}
		fmt.Fprintln(console, "  JSON output written to stdout")
	} else {
		fmt.Fprintln(console, "[4/4] Generating dashboard report...")
		path, err := report.SaveHTML(cfg.Report.Dir, args.Output, a, cfg.Report.Branding)
		if err != nil {
			return fail(err)
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		fmt.Fprintf(console, "  Report saved to: %s\n", path)
	}

	if args.XLSX != "" {
		if err := report.SaveXLSX(args.XLSX, a); err != nil {
			return fail(err)
		}
		fmt.Fprintf(console, "  Workbook saved to: %s\n", args.XLSX)
	}
	fmt.Fprintf(console, "%s\n\n", rule)
	return exitOK
}

func serve(ctx context.Context, cfg *app.Config, args *cli.CLIArgs, logger logging.Logger, stderr io.Writer) int {
	comps, err := app.NewComponents(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	application := app.NewApplication(cfg, args, logger, comps)
	if err := application.Start(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitError
	}

	srv := server.NewServer(application.Context(), server.Config{
		Addr:            cfg.Server.Addr,
		ReportCacheSize: cfg.Server.ReportCacheSize,
		Branding:        cfg.Report.Branding,
	}, application.Orchestrator(), logger)
	hs := srv.HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: hs.Addr})
		errCh <- hs.ListenAndServe()
	}()

	code := exitOK
	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", logging.Field{Key: "error", Value: err.Error()})
			code = exitError
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Warn("application shutdown", logging.Field{Key: "error", Value: err.Error()})
		code = exitError
	}
	return code
}

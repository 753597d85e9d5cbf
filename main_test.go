package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/raysh454/sitegrade/internal/app"
	"github.com/raysh454/sitegrade/internal/cli"
	"github.com/raysh454/sitegrade/internal/demoserver"
	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
	"github.com/raysh454/sitegrade/internal/webclient"
)

// writeConfig writes a config that crawls without delay and keeps reports
// under dir.
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sitegrade.yaml")
	cfg := "crawler:\n  delay: 1ns\n  max_pages: 10\n" +
		"report:\n  dir: " + filepath.Join(dir, "reports") + "\n" +
		"logging:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func demoSite(t *testing.T, version int) *httptest.Server {
	t.Helper()
	ds := demoserver.NewDemoServer(demoserver.DefaultConfig())
	ds.SetVersion(version)
	ts := httptest.NewServer(ds.Handler())
	t.Cleanup(ts.Close)
	return ts
}

// ─── Usage ─────────────────────────────────────────────────────────────

func TestRun_Help(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitOK, run([]string{"--help"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "sitegrade serve")
}

func TestRun_MissingTarget(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	assert.Equal(t, exitUsage, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "missing target URL")
}

func TestRun_BadConfigFile(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run([]string{"example.com", "--config", filepath.Join(t.TempDir(), "missing.yaml")}, &stdout, &stderr)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "read config")
}

func TestRun_BadLogLevel(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run([]string{"example.com", "--config", writeConfig(t, t.TempDir()), "--log-level", "loud"}, &stdout, &stderr)
	assert.Equal(t, exitError, code)
}

// ─── Audit mode ────────────────────────────────────────────────────────

func TestRun_JSONAudit(t *testing.T) {
	t.Parallel()
	ts := demoSite(t, 2)
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	code := run([]string{ts.URL, "--json", "--config", writeConfig(t, dir), "--client", "Joe's Plumbing"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	a, err := report.ReadJSON(&stdout)
	require.NoError(t, err)
	assert.Equal(t, ts.URL, a.URL)
	assert.Equal(t, "Joe's Plumbing", a.ClientName)
	assert.GreaterOrEqual(t, a.PagesCrawled, 5)
	assert.Len(t, a.Categories, 12)
	assert.NotNil(t, a.Recommendations)

	// progress goes to stderr so stdout stays one JSON document
	assert.Contains(t, stderr.String(), "[1/4] Crawling site...")
	assert.Contains(t, stderr.String(), "robots.txt: found")
	assert.Contains(t, stderr.String(), "sitemap.xml: found")
	assert.NoDirExists(t, filepath.Join(dir, "reports"))
}

func TestRun_JSONErrorEnvelope(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer ts.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{ts.URL, "-j", "--config", writeConfig(t, t.TempDir())}, &stdout, &stderr)
	assert.Equal(t, exitError, code)

	var env report.ErrorEnvelope
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &env), stdout.String())
	assert.Equal(t, ts.URL, env.URL)
	assert.Equal(t, "Status 500: Internal Server Error", env.Error)
}

func TestRun_HTMLAuditWithWorkbook(t *testing.T) {
	t.Parallel()
	ts := demoSite(t, 1)
	dir := t.TempDir()
	xlsx := filepath.Join(dir, "joe.xlsx")

	var stdout, stderr bytes.Buffer
	code := run([]string{ts.URL, "--config", writeConfig(t, dir), "-o", "joe.html", "--xlsx", xlsx}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "[4/4] Generating dashboard report...")
	assert.Contains(t, out, "Report saved to: ")
	assert.Contains(t, out, "robots.txt: found")
	assert.Contains(t, out, "sitemap.xml: not found")

	page, err := os.ReadFile(filepath.Join(dir, "reports", "joe.html"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(page), ts.URL))

	f, err := excelize.OpenFile(xlsx)
	require.NoError(t, err)
	defer f.Close()
	assert.NotEmpty(t, f.GetSheetList())
}

func TestRun_HTMLAuditUnreachable(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	var stdout, stderr bytes.Buffer
	code := run([]string{ts.URL, "--config", writeConfig(t, t.TempDir())}, &stdout, &stderr)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stdout.String(), "ERROR: Could not access "+ts.URL)
	assert.Equal(t, 1, strings.Count(stdout.String(), "ERROR:"))
}

// ─── Overrides ─────────────────────────────────────────────────────────

func TestApplyOverrides(t *testing.T) {
	t.Parallel()
	cfg := app.DefaultConfig()
	applyOverrides(cfg, &cli.CLIArgs{
		Mode:     cli.ModeServe,
		Backend:  "chromedp",
		LogLevel: "debug",
		LogFile:  "/tmp/sitegrade.log",
		Addr:     ":9090",
		DBDriver: "mysql",
		DBDSN:    "user:pass@tcp(db:3306)/sitegrade",
	})
	assert.Equal(t, webclient.ClientChromedp, cfg.WebClient.Client)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/sitegrade.log", cfg.Logging.File)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "mysql", cfg.Store.Driver)
	assert.Equal(t, "user:pass@tcp(db:3306)/sitegrade", cfg.Store.DSN)
}

func TestApplyOverrides_JSONMovesLogsToStderr(t *testing.T) {
	t.Parallel()
	cfg := app.DefaultConfig()
	applyOverrides(cfg, &cli.CLIArgs{JSON: true})
	assert.Equal(t, logging.SinkStderr, cfg.Logging.Sink)

	cfg = app.DefaultConfig()
	applyOverrides(cfg, &cli.CLIArgs{})
	assert.Equal(t, app.DefaultConfig().Logging, cfg.Logging)
}

// ─── Serve mode ────────────────────────────────────────────────────────

func TestRun_ServeBadStoreDriver(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	code := run([]string{"serve", "--config", writeConfig(t, t.TempDir()), "--db-driver", "bogus"}, &stdout, &stderr)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "open store")
}

func TestRun_ServeListenFailureShutsDown(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run([]string{"serve", "--config", writeConfig(t, dir),
		"--addr", "no-port", "--db-dsn", filepath.Join(dir, "audits.db")}, &stdout, &stderr)
	assert.Equal(t, exitError, code)
	assert.FileExists(t, filepath.Join(dir, "audits.db"))
}

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

type Mode string

const (
	ModeAudit Mode = "audit"
	ModeServe Mode = "serve"
)

// CLIArgs are the command-line arguments of one invocation. Zero values
// mean "use the config default".
type CLIArgs struct {
	Mode Mode

	// Target is the site to audit; a scheme is added later when missing.
	Target      string
	ClientName  string
	Competitors []string
	MaxPages    int

	// Output names the HTML report inside the report directory.
	Output string
	// JSON writes the audit document to stdout instead of an HTML report.
	JSON bool
	// XLSX, when set, also writes the workbook to this path.
	XLSX string

	ConfigPath string
	Backend    string
	LogFile    string
	LogLevel   string

	// serve mode
	Addr     string
	DBDriver string
	DBDSN    string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// listFlag collects repeated values, splitting each on commas.
type listFlag struct{ values *[]string }

func (l listFlag) String() string {
	if l.values == nil {
		return ""
	}
	return strings.Join(*l.values, ",")
}

func (l listFlag) Set(s string) error {
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l.values = append(*l.values, part)
		}
	}
	return nil
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by passing
// arbitrary slices. The function is deterministic and does not read os.Args.
// Flags may appear before or after the target URL. A first argument of
// "serve" selects server mode. flag.ErrHelp is returned for -h/--help.
func ParseArgs(args []string) (*CLIArgs, error) {
	out := &CLIArgs{Mode: ModeAudit, RawArgs: args}
	rest := args
	if len(rest) > 0 && rest[0] == string(ModeServe) {
		out.Mode = ModeServe
		rest = rest[1:]
	}

	fs := newFlagSet(out)

	var positional []string
	for {
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	switch out.Mode {
	case ModeServe:
		if len(positional) > 0 {
			return nil, fmt.Errorf("serve takes no arguments, got %q", positional[0])
		}
	default:
		if len(positional) == 0 {
			return nil, errors.New("missing target URL")
		}
		if len(positional) > 1 {
			return nil, fmt.Errorf("unexpected argument %q", positional[1])
		}
		out.Target = strings.TrimSpace(positional[0])
		if out.Target == "" {
			return nil, errors.New("missing target URL")
		}
	}

	if out.MaxPages < 0 {
		return nil, fmt.Errorf("--pages must not be negative, got %d", out.MaxPages)
	}
	if out.JSON && out.Output != "" {
		return nil, errors.New("--output applies to the HTML report and cannot be combined with --json")
	}
	return out, nil
}

func newFlagSet(out *CLIArgs) *flag.FlagSet {
	fs := flag.NewFlagSet("sitegrade", flag.ContinueOnError)
	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	fs.StringVar(&out.ConfigPath, "config", "", "YAML config file applied over the defaults")
	fs.StringVar(&out.Backend, "backend", "", "Fetch backend: nethttp|chromedp")
	fs.StringVar(&out.LogFile, "log-file", "", "Also write JSON logs to this rotating file")
	fs.StringVar(&out.LogLevel, "log-level", "", "Log level: debug|info|warn|error")

	if out.Mode == ModeServe {
		fs.StringVar(&out.Addr, "addr", "", "Listen address")
		fs.StringVar(&out.DBDriver, "db-driver", "", "Audit store driver: sqlite|mysql")
		fs.StringVar(&out.DBDSN, "db-dsn", "", "Audit store DSN")
		return fs
	}

	for _, name := range []string{"client", "c"} {
		fs.StringVar(&out.ClientName, name, "", "Client business name")
	}
	for _, name := range []string{"competitors", "C"} {
		fs.Var(listFlag{&out.Competitors}, name, "Competitor URL (repeatable or comma-separated)")
	}
	for _, name := range []string{"pages", "p"} {
		fs.IntVar(&out.MaxPages, name, 0, "Max pages to crawl")
	}
	for _, name := range []string{"output", "o"} {
		fs.StringVar(&out.Output, name, "", "Output filename for the HTML report")
	}
	for _, name := range []string{"json", "j"} {
		fs.BoolVar(&out.JSON, name, false, "Output results as JSON to stdout (logs go to stderr)")
	}
	fs.StringVar(&out.XLSX, "xlsx", "", "Also write an XLSX workbook to this path")
	return fs
}

// Usage writes the help text.
func Usage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  sitegrade [flags] <url>
  sitegrade serve [flags]

Audit flags:
  -c, --client NAME         Client business name
  -C, --competitors URL     Competitor URL (repeatable or comma-separated, max 3)
  -p, --pages N             Max pages to crawl
  -o, --output FILE         Output filename for the HTML report
  -j, --json                Output results as JSON to stdout (logs go to stderr)
      --xlsx FILE           Also write an XLSX workbook

Serve flags:
      --addr ADDR           Listen address
      --db-driver DRIVER    Audit store driver: sqlite|mysql
      --db-dsn DSN          Audit store DSN

Common flags:
      --config FILE         YAML config applied over the defaults
      --backend NAME        Fetch backend: nethttp|chromedp
      --log-file FILE       Also write JSON logs to a rotating file
      --log-level LEVEL     debug|info|warn|error

Examples:
  sitegrade https://joesplumbing.com
  sitegrade https://joesplumbing.com --client "Joe's Plumbing"
  sitegrade https://joesplumbing.com --json
  sitegrade https://joesplumbing.com -C https://rival1.com -C https://rival2.com
  sitegrade https://joesplumbing.com --pages 30 --output joes_audit.html
  sitegrade serve --addr :8080
`)
}

package cli_test

import (
	"bytes"
	"errors"
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/sitegrade/internal/cli"
)

// ─── Audit mode ────────────────────────────────────────────────────────

func TestParseArgs_TargetOnly(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{"joesplumbing.com"})
	require.NoError(t, err)

	assert.Equal(t, cli.ModeAudit, args.Mode)
	assert.Equal(t, "joesplumbing.com", args.Target)
	assert.False(t, args.JSON)
	assert.Zero(t, args.MaxPages)
	assert.Empty(t, args.Competitors)
}

func TestParseArgs_FlagsAfterTarget(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{
		"https://joesplumbing.com",
		"--client", "Joe's Plumbing",
		"-p", "30",
		"--json",
		"--xlsx", "out.xlsx",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://joesplumbing.com", args.Target)
	assert.Equal(t, "Joe's Plumbing", args.ClientName)
	assert.Equal(t, 30, args.MaxPages)
	assert.True(t, args.JSON)
	assert.Equal(t, "out.xlsx", args.XLSX)
}

func TestParseArgs_ShortAliases(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{"-c", "Joe", "-o", "joe.html", "-p", "5", "site.com"})
	require.NoError(t, err)

	assert.Equal(t, "Joe", args.ClientName)
	assert.Equal(t, "joe.html", args.Output)
	assert.Equal(t, 5, args.MaxPages)
	assert.Equal(t, "site.com", args.Target)
}

func TestParseArgs_CompetitorsRepeatableAndCommaSeparated(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{
		"site.com",
		"-C", "https://rival1.com, https://rival2.com",
		"--competitors", "https://rival3.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"https://rival1.com", "https://rival2.com", "https://rival3.com"}, args.Competitors)
}

func TestParseArgs_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"no target", []string{"--json"}},
		{"blank target", []string{"  "}},
		{"two targets", []string{"a.com", "b.com"}},
		{"negative pages", []string{"a.com", "-p", "-1"}},
		{"bad pages", []string{"a.com", "-p", "many"}},
		{"unknown flag", []string{"a.com", "--nope"}},
		{"json with output", []string{"a.com", "--json", "-o", "x.html"}},
		{"serve flag in audit mode", []string{"a.com", "--addr", ":1"}},
	}
	for _, tt := range tests {
		_, err := cli.ParseArgs(tt.args)
		assert.Error(t, err, tt.name)
	}
}

func TestParseArgs_Help(t *testing.T) {
	t.Parallel()
	_, err := cli.ParseArgs([]string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

// ─── Serve mode ────────────────────────────────────────────────────────

func TestParseArgs_Serve(t *testing.T) {
	t.Parallel()
	args, err := cli.ParseArgs([]string{"serve", "--addr", ":9090", "--db-driver", "mysql", "--db-dsn", "u:p@tcp(db)/sg", "--log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, cli.ModeServe, args.Mode)
	assert.Equal(t, ":9090", args.Addr)
	assert.Equal(t, "mysql", args.DBDriver)
	assert.Equal(t, "u:p@tcp(db)/sg", args.DBDSN)
	assert.Equal(t, "debug", args.LogLevel)
	assert.Empty(t, args.Target)
}

func TestParseArgs_ServeRejectsPositional(t *testing.T) {
	t.Parallel()
	_, err := cli.ParseArgs([]string{"serve", "site.com"})
	assert.Error(t, err)
}

func TestUsage_MentionsModes(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	cli.Usage(&buf)
	assert.Contains(t, buf.String(), "sitegrade serve")
	assert.Contains(t, buf.String(), "--competitors")
}

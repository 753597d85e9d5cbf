package server

import "github.com/raysh454/sitegrade/internal/report"

type Config struct {
	// Addr is the HTTP listen address for the API server.
	Addr string

	// ReportCacheSize bounds the rendered HTML reports kept in memory;
	// zero disables the cache.
	ReportCacheSize int

	Branding report.Branding
}

// Package store keeps the history of completed audits in SQL. SQLite is the
// default; MySQL is supported for shared deployments.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/raysh454/sitegrade/internal/logging"
	"github.com/raysh454/sitegrade/internal/report"
)

//go:embed schema_sqlite.sql schema_mysql.sql
var schemaFS embed.FS

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	DefaultDSN = "sitegrade.db"

	// DefaultListLimit applies when List is called without a positive limit.
	DefaultListLimit = 50
)

var ErrNotFound = errors.New("audit not found")

// Config selects the database.
type Config struct {
	Driver string `yaml:"driver"`
	// DSN is a file path for sqlite and a go-sql-driver DSN for mysql,
	// e.g. "user:pass@tcp(db:3306)/sitegrade".
	DSN string `yaml:"dsn"`
}

// Summary is the listing form of a stored audit.
type Summary struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	ClientName    string    `json:"client_name"`
	CreatedAt     time.Time `json:"created_at"`
	OverallScore  int       `json:"overall_score"`
	OverallGrade  string    `json:"overall_grade"`
	TotalChecks   int       `json:"total_checks"`
	TotalFailed   int       `json:"total_failed"`
	TotalCritical int       `json:"total_critical"`
	PagesCrawled  int       `json:"pages_crawled"`
}

// Store persists audits. Each audit is kept whole as its JSON document
// next to the columns used for listing.
type Store struct {
	db     *sql.DB
	driver string
	logger logging.Logger
}

// Open connects to the configured database and applies the schema.
func Open(ctx context.Context, cfg Config, logger logging.Logger) (*Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverSQLite
	}
	dsn := cfg.DSN
	switch driver {
	case DriverSQLite:
		if dsn == "" {
			dsn = DefaultDSN
		}
	case DriverMySQL:
		if dsn == "" {
			return nil, errors.New("store: mysql requires a dsn")
		}
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", cfg.Driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite has a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	s := &Store{
		db:     db,
		driver: driver,
		logger: logger.With(logging.Field{Key: "component", Value: "store"}),
	}
	if err := s.applySchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Info("audit store ready", logging.Field{Key: "driver", Value: driver})
	return s, nil
}

// applySchema runs the driver's schema one statement at a time; the mysql
// driver rejects multi-statement Exec by default.
func (s *Store) applySchema(ctx context.Context) error {
	if s.driver == DriverSQLite {
		for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
			if _, err := s.db.ExecContext(ctx, pragma); err != nil {
				return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
			}
		}
	}

	name := "schema_" + s.driver + ".sql"
	schemaSQL, err := schemaFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	for _, stmt := range strings.Split(string(schemaSQL), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema: %w", err)
		}
	}
	return nil
}

// Save stores a and returns its id. An audit without an ID gets a new one,
// which is also set on a.
func (s *Store) Save(ctx context.Context, a *report.Audit) (string, error) {
	if a == nil {
		return "", errors.New("store: nil audit")
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	var doc bytes.Buffer
	if err := report.WriteJSON(&doc, a); err != nil {
		return "", fmt.Errorf("encode audit: %w", err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audits
             (id, url, client_name, created_at, overall_score, overall_grade,
              total_checks, total_failed, total_critical, pages_crawled, document)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.URL, a.ClientName, a.CreatedAt.UnixNano(), a.OverallScore, a.OverallGrade,
		a.TotalChecks, a.TotalFailed, a.TotalCritical, a.PagesCrawled, doc.String(),
	)
	if err != nil {
		return "", fmt.Errorf("insert audit: %w", err)
	}
	s.logger.Debug("saved audit",
		logging.Field{Key: "id", Value: a.ID},
		logging.Field{Key: "url", Value: a.URL})
	return a.ID, nil
}

// Get returns the full audit document for id.
func (s *Store) Get(ctx context.Context, id string) (*report.Audit, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM audits WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	a, err := report.ReadJSON(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("decode audit %s: %w", id, err)
	}
	return a, nil
}

// List returns audits newest first, optionally only those for url.
func (s *Store) List(ctx context.Context, url string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	query := `SELECT id, url, client_name, created_at, overall_score, overall_grade,
                     total_checks, total_failed, total_critical, pages_crawled
              FROM audits`
	args := []any{}
	if url != "" {
		query += ` WHERE url = ?`
		args = append(args, url)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sum Summary
		var created int64
		if err := rows.Scan(&sum.ID, &sum.URL, &sum.ClientName, &created, &sum.OverallScore, &sum.OverallGrade,
			&sum.TotalChecks, &sum.TotalFailed, &sum.TotalCritical, &sum.PagesCrawled); err != nil {
			return nil, err
		}
		sum.CreatedAt = time.Unix(0, created).UTC()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func summarize(a *report.Audit) Summary {
	return Summary{
		ID:            a.ID,
		URL:           a.URL,
		ClientName:    a.ClientName,
		CreatedAt:     a.CreatedAt,
		OverallScore:  a.OverallScore,
		OverallGrade:  a.OverallGrade,
		TotalChecks:   a.TotalChecks,
		TotalFailed:   a.TotalFailed,
		TotalCritical: a.TotalCritical,
		PagesCrawled:  a.PagesCrawled,
	}
}

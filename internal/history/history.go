// Package history persists completed scans in SQLite and diffs a page against
// its previous snapshot so repeat scans can report whether the page changed.
package history

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/siteguard/siteguard/internal/assessor"
	"github.com/siteguard/siteguard/internal/logging"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotFound is returned when a scan ID or previous scan does not exist.
var ErrNotFound = errors.New("scan not found")

// Scan is one stored scan result.
type Scan struct {
	ID         string                   `json:"scan_id"`
	URL        string                   `json:"url"`
	Score      int                      `json:"score"`
	Level      string                   `json:"level"`
	Issues     []string                 `json:"issues"`
	Features   *assessor.FeatureVector  `json:"features"`
	BodySHA256 string                   `json:"body_sha256"`
	HTML       []byte                   `json:"-"`
	CreatedAt  time.Time                `json:"created_at"`
}

// Store is the SQLite-backed scan history.
type Store struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens (or creates) the history database at path and applies the
// schema. Use ":memory:" style paths in tests.
func Open(path string, logger logging.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, logger: logger}, nil
}

// applySchema applies the SQLite schema to the database and sets appropriate pragmas.
func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",   // Write-Ahead Logging for better concurrency
		"PRAGMA synchronous=NORMAL", // Balance between safety and performance
		"PRAGMA foreign_keys=ON",    // Enable foreign key constraints
		"PRAGMA busy_timeout=5000",  // Wait up to 5 seconds on locked database
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}

	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// Record stores a scan. Missing ID, hash and timestamp are filled in; the
// stored scan is returned for convenience.
func (s *Store) Record(ctx context.Context, scan *Scan) (*Scan, error) {
	if scan == nil {
		return nil, fmt.Errorf("nil scan")
	}
	if scan.ID == "" {
		scan.ID = uuid.New().String()
	}
	if scan.BodySHA256 == "" {
		sum := sha256.Sum256(scan.HTML)
		scan.BodySHA256 = hex.EncodeToString(sum[:])
	}
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = time.Now().UTC()
	}

	issuesJSON, err := json.Marshal(scan.Issues)
	if err != nil {
		return nil, fmt.Errorf("marshal issues: %w", err)
	}
	featuresJSON, err := json.Marshal(scan.Features)
	if err != nil {
		return nil, fmt.Errorf("marshal features: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO scans (id, url, score, level, issues, features, body_sha256, html, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, scan.ID, scan.URL, scan.Score, scan.Level, string(issuesJSON), string(featuresJSON),
		scan.BodySHA256, scan.HTML, scan.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert scan: %w", err)
	}

	if s.logger != nil {
		s.logger.Debug("recorded scan",
			logging.Field{Key: "scan_id", Value: scan.ID},
			logging.Field{Key: "url", Value: scan.URL},
			logging.Field{Key: "score", Value: scan.Score})
	}

	return scan, nil
}

// Get returns a stored scan by ID, including its HTML.
func (s *Store) Get(ctx context.Context, id string) (*Scan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, score, level, issues, features, body_sha256, html, created_at
		FROM scans WHERE id = ?
	`, id)
	return scanRow(row)
}

// Previous returns the most recent scan of url recorded strictly before the
// given time. ErrNotFound when the URL was never scanned before that point.
func (s *Store) Previous(ctx context.Context, url string, before time.Time) (*Scan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, score, level, issues, features, body_sha256, html, created_at
		FROM scans WHERE url = ? AND created_at < ?
		ORDER BY created_at DESC LIMIT 1
	`, url, before.Unix())
	return scanRow(row)
}

// ListByURL returns up to limit most recent scans of url, newest first,
// without the stored HTML bodies.
func (s *Store) ListByURL(ctx context.Context, url string, limit int) ([]*Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, url, score, level, issues, features, body_sha256, NULL, created_at
		FROM scans WHERE url = ?
		ORDER BY created_at DESC LIMIT ?
	`, url, limit)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	out := make([]*Scan, 0, limit)
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (*Scan, error) {
	var (
		scan         Scan
		issuesJSON   string
		featuresJSON string
		createdAt    int64
	)
	err := row.Scan(&scan.ID, &scan.URL, &scan.Score, &scan.Level,
		&issuesJSON, &featuresJSON, &scan.BodySHA256, &scan.HTML, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}

	if err := json.Unmarshal([]byte(issuesJSON), &scan.Issues); err != nil {
		scan.Issues = []string{}
	}
	if err := json.Unmarshal([]byte(featuresJSON), &scan.Features); err != nil {
		scan.Features = assessor.NewFeatureVector()
	}
	scan.CreatedAt = time.Unix(createdAt, 0).UTC()

	return &scan, nil
}

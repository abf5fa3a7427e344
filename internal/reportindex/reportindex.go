// Package reportindex keeps a ledger of the report files the backend has
// announced in scan results, so the dashboard can list them. Only the
// filename and a little metadata are stored, never the scan payload.
package reportindex

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/raysh454/spectre/internal/logging"
	"github.com/raysh454/spectre/internal/model"
)

//go:embed schema.sql
var schemaFS embed.FS

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrInvalidFilename = errors.New("invalid report filename")
)

// Report is one ledger entry.
type Report struct {
	ID        string     `json:"id"`
	Kind      model.Kind `json:"kind"`
	Filename  string     `json:"filename"`
	Subject   string     `json:"subject"`
	CreatedAt int64      `json:"created_at"`
}

// Href is where the report is downloaded from.
func (r Report) Href() string { return model.ReportsPath + url.PathEscape(r.Filename) }

// Created returns CreatedAt as a time.
func (r Report) Created() time.Time { return time.Unix(r.CreatedAt, 0).UTC() }

// Index is the SQLite-backed ledger.
type Index struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string, logger logging.Logger) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening report ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		logger.Warn("setting ledger pragmas", logging.Field{Key: "error", Value: err.Error()})
	}
	ix, err := New(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// New runs the schema against db and returns an Index over it.
func New(db *sql.DB, logger logging.Logger) (*Index, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return nil, fmt.Errorf("failed to execute schema: %w", err)
	}
	return &Index{db: db, logger: logger, now: time.Now}, nil
}

// validFilename rejects anything that could escape the reports directory.
func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// Record stores a report announced by a result. Recording a filename that
// is already known is a no-op returning the existing entry.
func (ix *Index) Record(ctx context.Context, kind model.Kind, filename, subject string) (*Report, error) {
	filename = strings.TrimSpace(filename)
	if !validFilename(filename) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFilename, filename)
	}

	rep := &Report{
		ID:        uuid.New().String(),
		Kind:      kind,
		Filename:  filename,
		Subject:   subject,
		CreatedAt: ix.now().Unix(),
	}
	res, err := ix.db.ExecContext(ctx,
		`INSERT INTO reports (id, kind, filename, subject, created_at)
         VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(filename) DO NOTHING`,
		rep.ID, string(rep.Kind), rep.Filename, rep.Subject, rep.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ix.Get(ctx, filename)
	}
	return rep, nil
}

// Get returns the entry for a filename.
func (ix *Index) Get(ctx context.Context, filename string) (*Report, error) {
	row := ix.db.QueryRowContext(ctx,
		`SELECT id, kind, filename, subject, created_at
         FROM reports
         WHERE filename = ?
         LIMIT 1`,
		filename,
	)
	var r Report
	var kind string
	if err := row.Scan(&r.ID, &kind, &r.Filename, &r.Subject, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	r.Kind = model.Kind(kind)
	return &r, nil
}

// List returns entries newest first. limit <= 0 means no limit.
func (ix *Index) List(ctx context.Context, limit int) ([]Report, error) {
	q := `SELECT id, kind, filename, subject, created_at
          FROM reports
          ORDER BY created_at DESC, filename DESC`
	args := []any{}
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := ix.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		var r Report
		var kind string
		if err := rows.Scan(&r.ID, &kind, &r.Filename, &r.Subject, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Kind = model.Kind(kind)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}

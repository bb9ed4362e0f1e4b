package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/memolab/vaultscribe/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore persists terminal processing results in SQLite.
type HistoryStore struct {
	db   *sql.DB
	path string
}

// NewHistoryStore creates a SQLite history store at the specified data
// directory. If dataDir is empty, defaults to ~/.vaultscribe/data/history.db.
func NewHistoryStore(dataDir string) (*HistoryStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".vaultscribe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &HistoryStore{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// migrate applies embedded .up.sql files newer than the current version.
func (s *HistoryStore) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Record stores one terminal processing result.
func (s *HistoryStore) Record(ctx context.Context, result *domain.ProcessResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO process_results (id, path, attempts, success, changed, error, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, result.ID, result.Path, result.Attempts, boolToInt(result.Success),
		boolToInt(result.Changed), result.Error, result.StartedAt, result.EndedAt)
	if err != nil {
		return fmt.Errorf("inserting result: %w", err)
	}
	return nil
}

// Recent returns the most recent results, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]domain.ProcessResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, attempts, success, changed, error, started_at, ended_at
		FROM process_results
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// RecentForPath returns the most recent results for one note, newest first.
func (s *HistoryStore) RecentForPath(ctx context.Context, path string, limit int) ([]domain.ProcessResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, attempts, success, changed, error, started_at, ended_at
		FROM process_results
		WHERE path = ?
		ORDER BY started_at DESC
		LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("querying results for %s: %w", path, err)
	}
	defer rows.Close()

	return scanResults(rows)
}

// Prune deletes all but the newest keep results.
func (s *HistoryStore) Prune(ctx context.Context, keep int) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM process_results
		WHERE id NOT IN (
			SELECT id FROM process_results
			ORDER BY started_at DESC
			LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning results: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *HistoryStore) Path() string {
	return s.path
}

// scanResults reads rows into ProcessResult values.
func scanResults(rows *sql.Rows) ([]domain.ProcessResult, error) {
	var results []domain.ProcessResult
	for rows.Next() {
		var r domain.ProcessResult
		var success, changed int
		if err := rows.Scan(&r.ID, &r.Path, &r.Attempts, &success, &changed,
			&r.Error, &r.StartedAt, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Success = success != 0
		r.Changed = changed != 0
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}
	return results, nil
}

// boolToInt stores booleans as SQLite integers.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

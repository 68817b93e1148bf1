// Package reportstore persists evaluation reports in an append-only
// SQLite log for audit and debugging.
package reportstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"tripcheck/internal/runner"
)

// Store writes and reads reports at a specific SQLite DB path.
type Store struct {
	DBPath string
	db     *sql.DB

	mu       sync.Mutex
	versions map[string]*sync.Mutex
}

// Summary is one row of the report log.
type Summary struct {
	ID        string
	VersionID string
	CreatedAt time.Time
	Overall   string
}

// Open opens or creates the report database.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve report db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure report db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}

	store := &Store{
		DBPath:   absPath,
		db:       db,
		versions: make(map[string]*sync.Mutex),
	}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			version_id TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			overall TEXT NOT NULL,
			report_json TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_version ON reports(version_id);
	`)
	if err != nil {
		return fmt.Errorf("create report schema: %w", err)
	}
	return nil
}

// Save appends a report. Writes for the same itinerary version are
// serialized so concurrent evaluations cannot interleave partial rows.
func (s *Store) Save(report runner.Report) error {
	lock := s.versionLock(report.VersionID)
	lock.Lock()
	defer lock.Unlock()

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO reports (id, version_id, created_at, overall, report_json) VALUES (?, ?, ?, ?, ?)",
		report.ID,
		report.VersionID,
		report.CreatedAt,
		string(report.Overall),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Latest returns the most recent report for an itinerary version.
func (s *Store) Latest(versionID string) (runner.Report, error) {
	row := s.db.QueryRow(
		"SELECT report_json FROM reports WHERE version_id = ? ORDER BY created_at DESC, id DESC LIMIT 1",
		versionID,
	)

	var payload string
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return runner.Report{}, fmt.Errorf("no report for version %q", versionID)
		}
		return runner.Report{}, fmt.Errorf("query report: %w", err)
	}

	var report runner.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return runner.Report{}, fmt.Errorf("decode report: %w", err)
	}
	return report, nil
}

// List returns all report rows, oldest first.
func (s *Store) List() ([]Summary, error) {
	rows, err := s.db.Query("SELECT id, version_id, created_at, overall FROM reports ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.VersionID, &s.CreatedAt, &s.Overall); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return out, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) versionLock(versionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.versions[versionID]
	if !ok {
		lock = &sync.Mutex{}
		s.versions[versionID] = lock
	}
	return lock
}

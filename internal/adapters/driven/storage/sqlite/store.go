package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/meetsync/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/meetsync/internal/core/domain"
	"github.com/custodia-labs/meetsync/internal/core/ports/driven"
)

// Store is the SQLite-backed sync state store.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.SyncStateStore = (*Store)(nil)

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.meetsync/data/meetings.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".meetsync", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "meetings.db")

	// WAL mode so a status query can run alongside a sync.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// IsCompleted reports whether a completion record exists for the pair.
func (s *Store) IsCompleted(ctx context.Context, sourceID, externalID string) (bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM meetings WHERE meeting_id = ? AND platform = ?
	`, externalID, sourceID)

	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("checking completion: %w", err)
	}
	return count > 0, nil
}

// Record writes a completion record. Returns domain.ErrAlreadyRecorded when
// a record for the (source, external id) pair already exists.
func (s *Store) Record(ctx context.Context, rec domain.SyncRecord) error {
	recordedAt := rec.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	var meetingDate sql.NullString
	if !rec.OccurredAt.IsZero() {
		meetingDate = sql.NullString{String: rec.OccurredAt.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meetings (meeting_id, platform, meeting_title, meeting_date, download_timestamp, file_path)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ExternalID, rec.SourceID, rec.Title, meetingDate,
		recordedAt.UTC().Format(time.RFC3339), rec.FilePath)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAlreadyRecorded
		}
		return fmt.Errorf("recording meeting: %w", err)
	}
	return nil
}

// Watermark returns the source's last sync timestamp.
// Returns domain.ErrNotFound when the source has never synced.
func (s *Store) Watermark(ctx context.Context, sourceID string) (time.Time, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT last_sync_timestamp FROM sync_state WHERE platform = ?
	`, sourceID)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, domain.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("scanning watermark: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark %q: %w", raw, err)
	}
	return ts, nil
}

// SetWatermark unconditionally overwrites the source's watermark.
func (s *Store) SetWatermark(ctx context.Context, sourceID string, ts time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (platform, last_sync_timestamp)
		VALUES (?, ?)
		ON CONFLICT(platform) DO UPDATE SET
			last_sync_timestamp = excluded.last_sync_timestamp
	`, sourceID, ts.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("setting watermark: %w", err)
	}
	return nil
}

// Completed lists completion records for a source, most recent first.
// A limit of 0 means no limit. An empty sourceID lists all sources.
func (s *Store) Completed(ctx context.Context, sourceID string, limit int) ([]domain.SyncRecord, error) {
	query := `
		SELECT meeting_id, platform, meeting_title, meeting_date, download_timestamp, file_path
		FROM meetings`
	var args []any
	if sourceID != "" {
		query += " WHERE platform = ?"
		args = append(args, sourceID)
	}
	query += " ORDER BY download_timestamp DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing meetings: %w", err)
	}
	defer rows.Close()

	var records []domain.SyncRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating meetings: %w", err)
	}
	return records, nil
}

func scanRecord(rows *sql.Rows) (domain.SyncRecord, error) {
	var rec domain.SyncRecord
	var title, meetingDate sql.NullString
	var downloadedAt string
	if err := rows.Scan(&rec.ExternalID, &rec.SourceID, &title, &meetingDate,
		&downloadedAt, &rec.FilePath); err != nil {
		return domain.SyncRecord{}, fmt.Errorf("scanning meeting: %w", err)
	}

	rec.Title = title.String
	if meetingDate.Valid && meetingDate.String != "" {
		ts, err := time.Parse(time.RFC3339, meetingDate.String)
		if err != nil {
			return domain.SyncRecord{}, fmt.Errorf("parsing meeting date %q: %w", meetingDate.String, err)
		}
		rec.OccurredAt = ts
	}
	ts, err := time.Parse(time.RFC3339, downloadedAt)
	if err != nil {
		return domain.SyncRecord{}, fmt.Errorf("parsing download timestamp %q: %w", downloadedAt, err)
	}
	rec.RecordedAt = ts

	return rec, nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
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
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("marking migration %s applied: %w", name, err)
		}
	}

	return nil
}

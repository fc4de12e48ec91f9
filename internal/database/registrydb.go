package database

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/sha3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/hoaregistry/internal/model"
)

// FileName is the database file name inside the database directory.
const FileName = "hoaregistry.db"

// sqliteTimeFormat matches SQLite's datetime('now') so stored timestamps
// compare correctly as text.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// Run statuses stored in the runs table.
const (
	StatusCompleted   = "completed"
	StatusInterrupted = "interrupted"
	StatusFailed      = "failed"
)

// RegistryDB provides SQLite-based storage for snapshots and run history.
// It is safe for concurrent use; SQLite serializes writes on the single
// open connection.
type RegistryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures RegistryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a RegistryDB in the given directory.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*RegistryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; detail workers share this connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &RegistryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Path returns the database file path.
func (rdb *RegistryDB) Path() string {
	return rdb.dbPath
}

// Close closes the database connection.
func (rdb *RegistryDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *RegistryDB) createTables() error {
	schema := `
	-- Snapshots keep the latest detail markup per entity
	CREATE TABLE IF NOT EXISTS snapshots (
		entity_id TEXT PRIMARY KEY,
		name TEXT,
		markup TEXT NOT NULL,
		markup_hash TEXT NOT NULL,
		fetched_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_fetched ON snapshots(fetched_at);

	-- Runs record every scraper execution
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME NOT NULL,
		source TEXT NOT NULL,
		term TEXT NOT NULL,
		total_found INTEGER DEFAULT 0,
		selected INTEGER DEFAULT 0,
		processed INTEGER DEFAULT 0,
		skipped_json TEXT,
		output_path TEXT,
		status TEXT NOT NULL,
		error TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// HashMarkup returns the hex SHA3-256 digest of markup.
func HashMarkup(markup string) string {
	sum := sha3.Sum256([]byte(markup))
	return hex.EncodeToString(sum[:])
}

// Snapshot is the stored detail markup of one entity.
type Snapshot struct {
	EntityID  string
	Name      string
	Markup    string
	Hash      string
	FetchedAt time.Time
}

// SaveSnapshot inserts or replaces the snapshot of an entity and reports
// whether the markup differs from the previously stored one. A first
// snapshot counts as changed.
func (rdb *RegistryDB) SaveSnapshot(ctx context.Context, snap *Snapshot) (bool, error) {
	if snap.Hash == "" {
		snap.Hash = HashMarkup(snap.Markup)
	}
	if snap.FetchedAt.IsZero() {
		snap.FetchedAt = time.Now()
	}

	var previous string
	err := rdb.db.QueryRowContext(ctx,
		`SELECT markup_hash FROM snapshots WHERE entity_id = ?`, snap.EntityID,
	).Scan(&previous)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("failed to read previous snapshot: %w", err)
	}

	query := `
	INSERT INTO snapshots (entity_id, name, markup, markup_hash, fetched_at)
	VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(entity_id) DO UPDATE SET
		name = excluded.name,
		markup = excluded.markup,
		markup_hash = excluded.markup_hash,
		fetched_at = excluded.fetched_at
	`

	_, err = rdb.db.ExecContext(ctx, query,
		snap.EntityID,
		snap.Name,
		snap.Markup,
		snap.Hash,
		snap.FetchedAt.UTC().Format(sqliteTimeFormat),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return previous != snap.Hash, nil
}

// GetSnapshot retrieves the snapshot of an entity.
// It returns nil without error when none is stored.
func (rdb *RegistryDB) GetSnapshot(ctx context.Context, entityID string) (*Snapshot, error) {
	query := `
	SELECT entity_id, name, markup, markup_hash, fetched_at
	FROM snapshots
	WHERE entity_id = ?
	`

	var snap Snapshot
	var name sql.NullString
	var fetchedAt string

	err := rdb.db.QueryRowContext(ctx, query, entityID).Scan(
		&snap.EntityID,
		&name,
		&snap.Markup,
		&snap.Hash,
		&fetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap.Name = name.String
	snap.FetchedAt = parseTimestamp(fetchedAt)
	return &snap, nil
}

// FreshSnapshot returns the snapshot of an entity only if it was fetched
// within maxAge. It returns nil without error otherwise.
func (rdb *RegistryDB) FreshSnapshot(ctx context.Context, entityID string, maxAge time.Duration) (*Snapshot, error) {
	if maxAge <= 0 {
		return nil, nil
	}

	query := `
	SELECT COUNT(*) FROM snapshots
	WHERE entity_id = ? AND fetched_at > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(maxAge.Seconds()))

	var count int
	if err := rdb.db.QueryRowContext(ctx, query, entityID, modifier).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to check snapshot age: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	return rdb.GetSnapshot(ctx, entityID)
}

// CountSnapshots returns the number of stored snapshots.
func (rdb *RegistryDB) CountSnapshots(ctx context.Context) (int, error) {
	var count int
	if err := rdb.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return count, nil
}

// RunRecord is a stored summary of one scraper execution.
type RunRecord struct {
	ID         int64
	StartedAt  time.Time
	FinishedAt time.Time
	Source     string
	Term       string
	TotalFound int
	Selected   int
	Processed  int
	Skipped    []model.SkippedEntity
	OutputPath string
	Status     string
	Error      string
}

// RunStatus derives the stored status of a run.
func RunStatus(run *model.Run) string {
	switch {
	case run.Error != nil:
		return StatusFailed
	case run.Interrupted:
		return StatusInterrupted
	default:
		return StatusCompleted
	}
}

// SaveRun stores the summary of a finished run and returns its ID.
func (rdb *RegistryDB) SaveRun(ctx context.Context, run *model.Run) (int64, error) {
	skippedJSON, err := json.Marshal(run.Skipped)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize skipped entities: %w", err)
	}

	finished := run.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}

	var errMsg string
	if run.Error != nil {
		errMsg = run.Error.Error()
	}

	query := `
	INSERT INTO runs (started_at, finished_at, source, term, total_found, selected, processed, skipped_json, output_path, status, error)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := rdb.db.ExecContext(ctx, query,
		run.StartedAt.UTC().Format(time.RFC3339),
		finished.UTC().Format(time.RFC3339),
		run.Source,
		run.Term,
		run.TotalFound,
		len(run.Entities),
		run.Processed(),
		string(skippedJSON),
		run.OutputPath,
		RunStatus(run),
		errMsg,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return result.LastInsertId()
}

// ListRuns returns the most recent runs, newest first.
// A limit of 0 or less returns every run.
func (rdb *RegistryDB) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, started_at, finished_at, source, term, total_found, selected, processed, skipped_json, output_path, status, error
	FROM runs
	ORDER BY id DESC
	`
	args := make([]interface{}, 0)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	results := make([]RunRecord, 0)
	for rows.Next() {
		var rec RunRecord
		var startedAt, finishedAt string
		var skippedJSON, outputPath, errMsg sql.NullString

		err := rows.Scan(
			&rec.ID,
			&startedAt,
			&finishedAt,
			&rec.Source,
			&rec.Term,
			&rec.TotalFound,
			&rec.Selected,
			&rec.Processed,
			&skippedJSON,
			&outputPath,
			&rec.Status,
			&errMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		rec.StartedAt = parseTimestamp(startedAt)
		rec.FinishedAt = parseTimestamp(finishedAt)
		rec.OutputPath = outputPath.String
		rec.Error = errMsg.String
		rec.Skipped = make([]model.SkippedEntity, 0)
		if skippedJSON.Valid && skippedJSON.String != "" {
			if err := json.Unmarshal([]byte(skippedJSON.String), &rec.Skipped); err != nil {
				rec.Skipped = make([]model.SkippedEntity, 0)
			}
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, it returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/iocextract/internal/ioc"
	"github.com/nao1215/iocextract/internal/model"
)

// FileName is the name of the database file inside the data directory.
const FileName = "history.db"

// timestampLayout stores times with a fixed-width fraction so that the
// text column sorts chronologically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// HistoryDB stores extraction runs in SQLite.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
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

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s: %w", dbPath, err)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per processed document
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		path TEXT NOT NULL,
		doc_hash TEXT,
		output_path TEXT,
		processed_at TEXT NOT NULL,
		total INTEGER NOT NULL DEFAULT 0,
		counts_json TEXT,
		run_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);
	CREATE INDEX IF NOT EXISTS idx_runs_processed_at ON runs(processed_at);
	CREATE INDEX IF NOT EXISTS idx_runs_doc_hash ON runs(doc_hash);

	-- Indicators found by each run
	CREATE TABLE IF NOT EXISTS indicators (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL REFERENCES runs(id),
		category TEXT NOT NULL,
		value TEXT NOT NULL,
		UNIQUE(run_id, category, value)
	);

	CREATE INDEX IF NOT EXISTS idx_indicators_value ON indicators(value);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores run and its indicators and returns the new run ID.
// run.ID is not modified.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *model.Run) (id int64, err error) {
	set := run.IOCs
	if set == nil {
		set = ioc.NewSet()
	}

	runJSON, err := json.Marshal(run)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize run: %w", err)
	}
	countsJSON, err := json.Marshal(set.Counts())
	if err != nil {
		return 0, fmt.Errorf("failed to serialize counts: %w", err)
	}

	var path, hash string
	if run.Document != nil {
		path, hash = run.Document.Path, run.Document.Hash
	}

	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
	INSERT INTO runs (source, path, doc_hash, output_path, processed_at, total, counts_json, run_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.Source,
		path,
		hash,
		run.OutputPath,
		run.ProcessedAt.UTC().Format(timestampLayout),
		set.Total(),
		string(countsJSON),
		string(runJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO indicators (run_id, category, value) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare indicator insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range ioc.Categories {
		for _, v := range set.Values(c) {
			if _, err = stmt.ExecContext(ctx, id, string(c), v); err != nil {
				return 0, fmt.Errorf("failed to save indicator: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	return id, nil
}

// GetRunByID retrieves a run by its database ID.
func (hdb *HistoryDB) GetRunByID(ctx context.Context, id int64) (*model.Run, error) {
	query := `SELECT id, run_json FROM runs WHERE id = ?`

	run, err := scanRun(hdb.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %d: %w", id, err)
	}
	return run, nil
}

// LatestRuns returns up to n runs of source, newest first.
func (hdb *HistoryDB) LatestRuns(ctx context.Context, source string, n int) ([]*model.Run, error) {
	query := `
	SELECT id, run_json FROM runs
	WHERE source = ?
	ORDER BY processed_at DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, source, n)
	if err != nil {
		return nil, fmt.Errorf("failed to get runs of %s: %w", source, err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// ListRuns returns up to limit run summaries, newest first.
// A limit of zero or less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `
	SELECT id, source, output_path, processed_at, total, counts_json
	FROM runs
	ORDER BY processed_at DESC, id DESC
	LIMIT ?
	`

	rows, err := hdb.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var results []model.RunSummary
	for rows.Next() {
		var s model.RunSummary
		var outputPath, countsJSON sql.NullString
		var processedAt string

		if err := rows.Scan(&s.ID, &s.Source, &outputPath, &processedAt, &s.Total, &countsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		s.OutputPath = outputPath.String
		s.ProcessedAt = parseTimestamp(processedAt)
		s.Counts = make(map[ioc.Category]int)
		if countsJSON.Valid && countsJSON.String != "" {
			if err := json.Unmarshal([]byte(countsJSON.String), &s.Counts); err != nil {
				s.Counts = make(map[ioc.Category]int)
			}
		}

		results = append(results, s)
	}

	return results, rows.Err()
}

// IndicatorHit is one stored occurrence of an indicator.
type IndicatorHit struct {
	RunID       int64        `json:"run_id"`
	Source      string       `json:"source"`
	ProcessedAt time.Time    `json:"processed_at"`
	Category    ioc.Category `json:"category"`
	Value       string       `json:"value"`
}

// FindIndicator returns every stored occurrence of value, newest first.
// The deobfuscated form of value is searched as well, so "hxxp://a[.]b"
// also finds runs that recorded "http://a.b".
func (hdb *HistoryDB) FindIndicator(ctx context.Context, value string) ([]IndicatorHit, error) {
	query := `
	SELECT i.run_id, r.source, r.processed_at, i.category, i.value
	FROM indicators i
	JOIN runs r ON r.id = i.run_id
	WHERE i.value = ? OR i.value = ?
	ORDER BY r.processed_at DESC, i.run_id DESC, i.category
	`

	rows, err := hdb.db.QueryContext(ctx, query, value, ioc.Deobfuscate(value))
	if err != nil {
		return nil, fmt.Errorf("failed to search indicators: %w", err)
	}
	defer rows.Close()

	var hits []IndicatorHit
	for rows.Next() {
		var h IndicatorHit
		var processedAt, category string
		if err := rows.Scan(&h.RunID, &h.Source, &processedAt, &category, &h.Value); err != nil {
			return nil, fmt.Errorf("failed to scan indicator: %w", err)
		}
		h.ProcessedAt = parseTimestamp(processedAt)
		h.Category = ioc.Category(category)
		hits = append(hits, h)
	}

	return hits, rows.Err()
}

// DeleteRun removes a run and its indicators.
func (hdb *HistoryDB) DeleteRun(ctx context.Context, id int64) (err error) {
	tx, err := hdb.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM indicators WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete indicators: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if n == 0 {
		err = fmt.Errorf("%w: %d", ErrRunNotFound, id)
		return err
	}

	return tx.Commit()
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.Run, error) {
	var id int64
	var runJSON string
	if err := row.Scan(&id, &runJSON); err != nil {
		return nil, err
	}

	var run model.Run
	if err := json.Unmarshal([]byte(runJSON), &run); err != nil {
		return nil, fmt.Errorf("failed to parse run: %w", err)
	}
	run.ID = id
	if run.IOCs == nil {
		run.IOCs = ioc.NewSet()
	}
	return &run, nil
}

// timestampFormats contains the timestamp formats that may be stored.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	timestampLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// parseTimestamp parses a stored timestamp, returning the zero time if no
// format matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

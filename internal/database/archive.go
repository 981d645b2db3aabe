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

	"github.com/nao1215/panelkit/internal/model"
)

// FileName is the archive file created inside the database directory.
const FileName = "panelkit.db"

// ErrNotFound is returned when an export ID does not exist.
var ErrNotFound = errors.New("database: export not found")

// ArchiveDB stores exported panel lists.
type ArchiveDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures ArchiveDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables write-ahead logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the archive in dbDir.
func Open(dbDir string, opts Options) (*ArchiveDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else if err := os.MkdirAll(dbDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// mode=rw refuses to create a missing file; mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	adb := &ArchiveDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := adb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return adb, nil
}

// Path returns the database file path.
func (adb *ArchiveDB) Path() string {
	return adb.dbPath
}

// Close closes the database connection.
func (adb *ArchiveDB) Close() error {
	return adb.db.Close()
}

// createTables creates the schema if it does not exist. Image rows carry
// their own panel JSON for ImageHistory.
func (adb *ArchiveDB) createTables() error {
	schema := `
	-- One row per archived annotation run
	CREATE TABLE IF NOT EXISTS exports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		image_count INTEGER NOT NULL,
		panel_count INTEGER NOT NULL,
		export_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exports_timestamp ON exports(timestamp);

	-- One row per image of an export, for per-file history
	CREATE TABLE IF NOT EXISTS image_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		export_id INTEGER NOT NULL REFERENCES exports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		filename TEXT NOT NULL,
		digest TEXT,
		width INTEGER,
		height INTEGER,
		panel_count INTEGER NOT NULL,
		panels_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_images_export ON image_results(export_id);
	CREATE INDEX IF NOT EXISTS idx_images_filename ON image_results(filename);
	CREATE INDEX IF NOT EXISTS idx_images_digest ON image_results(digest);
	`

	_, err := adb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveExport archives an export and returns its ID. The export row and all
// of its image rows are written in one transaction.
func (adb *ArchiveDB) SaveExport(ctx context.Context, export *model.Export) (int64, error) {
	exportJSON, err := json.Marshal(export)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize export: %w", err)
	}

	tx, err := adb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	generated := export.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	res, err := tx.ExecContext(ctx, `
	INSERT INTO exports (timestamp, image_count, panel_count, export_json)
	VALUES (?, ?, ?, ?)
	`,
		generated.UTC().Format(time.DateTime),
		len(export.Images),
		export.TotalPanels(),
		string(exportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save export: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read export id: %w", err)
	}

	for _, img := range export.Images {
		panelsJSON, err := json.Marshal(img.Panels)
		if err != nil {
			return 0, fmt.Errorf("failed to serialize panels of %s: %w", img.Filename, err)
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO image_results (export_id, position, filename, digest, width, height, panel_count, panels_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			id,
			img.Index,
			img.Filename,
			img.Digest,
			img.Width,
			img.Height,
			len(img.Panels),
			string(panelsJSON),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to save image %s: %w", img.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit export: %w", err)
	}
	return id, nil
}

// ExportMetadata summarizes an archived export.
type ExportMetadata struct {
	// ID is the archive ID accepted by GetExportByID.
	ID int64
	// Timestamp is when the export was archived.
	Timestamp time.Time
	// ImageCount is the number of loaded images, annotated or not.
	ImageCount int
	// PanelCount is the number of panels across all images.
	PanelCount int
}

// ListExports returns the metadata of every export, newest first.
func (adb *ArchiveDB) ListExports(ctx context.Context) ([]ExportMetadata, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT id, timestamp, image_count, panel_count
	FROM exports
	ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	var results []ExportMetadata
	for rows.Next() {
		var meta ExportMetadata
		var timestamp string
		if err := rows.Scan(&meta.ID, &timestamp, &meta.ImageCount, &meta.PanelCount); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		meta.Timestamp = parseTimestamp(timestamp)
		results = append(results, meta)
	}
	return results, rows.Err()
}

// GetExportByID returns the archived export with the given ID.
func (adb *ArchiveDB) GetExportByID(ctx context.Context, id int64) (*model.Export, error) {
	var exportJSON string
	err := adb.db.QueryRowContext(ctx, `SELECT export_json FROM exports WHERE id = ?`, id).Scan(&exportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get export: %w", err)
	}

	var export model.Export
	if err := json.Unmarshal([]byte(exportJSON), &export); err != nil {
		return nil, fmt.Errorf("failed to parse export: %w", err)
	}
	return &export, nil
}

// ImageRecord is the archived result of one image.
type ImageRecord struct {
	// ExportID is the export the result belongs to.
	ExportID  int64
	Timestamp time.Time
	Filename  string
	Digest    string
	Width     int
	Height    int

	// Panels are the panels in commit order.
	Panels []model.Panel
}

// ImageHistory returns every archived result for filename, newest first.
func (adb *ArchiveDB) ImageHistory(ctx context.Context, filename string) ([]ImageRecord, error) {
	rows, err := adb.db.QueryContext(ctx, `
	SELECT i.export_id, e.timestamp, i.filename, COALESCE(i.digest, ''), i.width, i.height, i.panels_json
	FROM image_results i
	JOIN exports e ON e.id = i.export_id
	WHERE i.filename = ?
	ORDER BY e.timestamp DESC, i.export_id DESC
	`, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to get image history: %w", err)
	}
	defer rows.Close()

	var results []ImageRecord
	for rows.Next() {
		var rec ImageRecord
		var timestamp, panelsJSON string
		if err := rows.Scan(&rec.ExportID, &timestamp, &rec.Filename, &rec.Digest, &rec.Width, &rec.Height, &panelsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan image record: %w", err)
		}
		rec.Timestamp = parseTimestamp(timestamp)
		if err := json.Unmarshal([]byte(panelsJSON), &rec.Panels); err != nil {
			continue // Skip malformed rows
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// More specific formats come first.
var timestampFormats = []string{
	time.DateTime,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns the zero time when
// none matches.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wfm-sync/internal/models"
	"wfm-sync/pkg/logger"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the sync journal: one row per trade handled by a sync pass.
type DB struct {
	db  *sql.DB
	log *logger.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS sync_events (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pass_id TEXT NOT NULL,
    created_at DATETIME NOT NULL,
    item TEXT NOT NULL,
    listing_id TEXT NOT NULL,
    item_count INTEGER NOT NULL,
    plat_per_item INTEGER NOT NULL,
    outcome TEXT NOT NULL,
    quantity INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sync_events_created_at ON sync_events(created_at);
`

func New(path string, log *logger.Logger) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode so `history` can read while a watch loop writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Debug("Opened sync journal", "path", path)
	return &DB{db: db, log: log}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) AddRecord(rec models.SyncRecord) error {
	query := `
		INSERT INTO sync_events (
			pass_id, created_at, item, listing_id,
			item_count, plat_per_item, outcome, quantity
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err := d.db.Exec(query,
		rec.PassID, createdAt.UTC(), rec.Item, rec.ListingID,
		rec.ItemCount, rec.PlatPerItem, rec.Outcome, rec.Quantity)
	if err != nil {
		return fmt.Errorf("failed to insert sync record: %w", err)
	}

	return nil
}

// Recent returns up to limit records, newest first.
func (d *DB) Recent(limit int) ([]models.SyncRecord, error) {
	query := `
        SELECT pass_id, created_at, item, listing_id,
               item_count, plat_per_item, outcome, quantity
        FROM sync_events
        ORDER BY created_at DESC, id DESC
        LIMIT ?
    `

	rows, err := d.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync records: %w", err)
	}
	defer rows.Close()

	var records []models.SyncRecord
	for rows.Next() {
		var rec models.SyncRecord
		err := rows.Scan(
			&rec.PassID, &rec.CreatedAt, &rec.Item, &rec.ListingID,
			&rec.ItemCount, &rec.PlatPerItem, &rec.Outcome, &rec.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sync records: %w", err)
	}

	d.log.Debug("Loaded sync records", "count", len(records))
	return records, nil
}

// Cleanup drops records older than the retention window and reports how
// many were removed.
func (d *DB) Cleanup(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := d.db.Exec("DELETE FROM sync_events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old sync records: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

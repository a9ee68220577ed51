package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lotas/tabstash/internal/applog"
	"github.com/lotas/tabstash/internal/types"
)

// migration is a numbered schema change. Migrations are applied in order
// and tracked in the schema_migrations table so each runs exactly once.
type migration struct {
	Version     int
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     1,
		Description: "initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS snapshots (
    id          TEXT PRIMARY KEY,
    position    INTEGER NOT NULL,
    name        TEXT NOT NULL,
    created_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS snapshot_tabs (
    id           INTEGER PRIMARY KEY,
    snapshot_id  TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    position     INTEGER NOT NULL,
    url          TEXT NOT NULL DEFAULT '',
    title        TEXT NOT NULL DEFAULT '',
    fav_icon_url TEXT NOT NULL DEFAULT '',
    pinned       BOOLEAN DEFAULT FALSE
);`,
	},
	{
		Version:     2,
		Description: "index tabs by snapshot and position",
		SQL:         `CREATE INDEX IF NOT EXISTS idx_snapshot_tabs_snapshot ON snapshot_tabs(snapshot_id, position);`,
	},
}

// OpenDB opens (or creates) a SQLite database at the given path.
// It creates parent directories if needed, enables foreign keys and WAL mode,
// and runs any pending migrations.
func OpenDB(path string) (*sql.DB, error) {
	// Create parent directory if needed.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrency.
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return db, nil
}

// runMigrations ensures the schema_migrations table exists and applies any
// pending migrations in order.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version     INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check migration %d: %w", m.Version, err)
		}
		if exists > 0 {
			continue
		}

		if _, err := db.Exec(m.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Description, err)
		}
		if _, err := db.Exec(
			"INSERT INTO schema_migrations (version, description) VALUES (?, ?)",
			m.Version, m.Description,
		); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		applog.Info("storage.migrate", "version", m.Version)
	}
	return nil
}

// DefaultDBPath returns the default database file path:
// ~/.local/share/tabstash/tabstash.db
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "tabstash", "tabstash.db"), nil
}

// SQLiteStore keeps the snapshot collection in SQLite. Collection order is
// kept in the position columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Load returns every snapshot in collection order.
func (s *SQLiteStore) Load(ctx context.Context) ([]types.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, created_at FROM snapshots ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var result []types.Snapshot
	index := make(map[string]int)
	for rows.Next() {
		var snap types.Snapshot
		var createdMs int64
		if err := rows.Scan(&snap.ID, &snap.Name, &createdMs); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.CreatedAt = time.UnixMilli(createdMs)
		index[snap.ID] = len(result)
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	tabRows, err := s.db.QueryContext(ctx,
		"SELECT snapshot_id, url, title, fav_icon_url, pinned FROM snapshot_tabs ORDER BY snapshot_id, position",
	)
	if err != nil {
		return nil, fmt.Errorf("query tabs: %w", err)
	}
	defer tabRows.Close()

	for tabRows.Next() {
		var snapID string
		var tab types.Tab
		if err := tabRows.Scan(&snapID, &tab.URL, &tab.Title, &tab.FavIconURL, &tab.Pinned); err != nil {
			return nil, fmt.Errorf("scan tab: %w", err)
		}
		idx, ok := index[snapID]
		if !ok {
			continue
		}
		result[idx].Tabs = append(result[idx].Tabs, tab)
	}
	if err := tabRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tabs: %w", err)
	}

	return result, nil
}

// Save replaces the stored collection with snaps in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, snaps []types.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshot_tabs"); err != nil {
		return fmt.Errorf("clear tabs: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM snapshots"); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}

	tabCount := 0
	for pos, snap := range snaps {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO snapshots (id, position, name, created_at) VALUES (?, ?, ?, ?)",
			snap.ID, pos, snap.Name, snap.CreatedAt.UnixMilli(),
		); err != nil {
			return fmt.Errorf("insert snapshot %q: %w", snap.ID, err)
		}
		for i, tab := range snap.Tabs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO snapshot_tabs (snapshot_id, position, url, title, fav_icon_url, pinned) VALUES (?, ?, ?, ?, ?, ?)",
				snap.ID, i, tab.URL, tab.Title, tab.FavIconURL, tab.Pinned,
			); err != nil {
				return fmt.Errorf("insert tab %q: %w", tab.URL, err)
			}
			tabCount++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	applog.Info("store.save", "backend", "sqlite", "snapshots", len(snaps), "tabs", tabCount)
	return nil
}

// Package sqlite provides SQLite-based storage implementations for lawdit services.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// DB represents a SQLite database connection.
type DB struct {
	db   *sql.DB
	path string
}

// NewDB creates a new DB instance with the given path.
// Use ":memory:" for an in-memory database.
func NewDB(path string) *DB {
	return &DB{path: path}
}

// Open opens the database connection and creates the schema if needed.
func (db *DB) Open() error {
	conn, err := sql.Open("sqlite3", db.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// WAL is not supported for in-memory databases.
	if db.path != ":memory:" {
		if _, err := conn.Exec("PRAGMA journal_mode = WAL"); err != nil {
			conn.Close()
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	db.db = conn

	if err := db.createSchema(); err != nil {
		conn.Close()
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// QueryRowContext executes a query that returns a single row.
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return db.db.QueryRowContext(ctx, query, args...)
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return db.db.QueryContext(ctx, query, args...)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction.
func (db *DB) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return db.db.BeginTx(ctx, nil)
}

// Stats returns database statistics.
func (db *DB) Stats() sql.DBStats {
	return db.db.Stats()
}

// createSchema creates the database tables if they don't exist.
func (db *DB) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS data_rooms (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			data_room_id TEXT NOT NULL REFERENCES data_rooms(id) ON DELETE CASCADE,
			source_id TEXT NOT NULL,
			file_name TEXT NOT NULL,
			mime_type TEXT NOT NULL DEFAULT '',
			total_pages INTEGER NOT NULL DEFAULT 0,
			summary TEXT NOT NULL DEFAULT '',
			content_hash TEXT NOT NULL DEFAULT '',
			dir TEXT NOT NULL DEFAULT '',
			indexed_at TEXT NOT NULL,
			UNIQUE (data_room_id, source_id)
		);

		CREATE INDEX IF NOT EXISTS idx_documents_content_hash ON documents(data_room_id, content_hash);

		CREATE TABLE IF NOT EXISTS pages (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			number INTEGER NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (document_id, number)
		);

		CREATE TABLE IF NOT EXISTS analyses (
			id TEXT PRIMARY KEY,
			data_room_id TEXT NOT NULL REFERENCES data_rooms(id) ON DELETE CASCADE,
			focus TEXT NOT NULL DEFAULT '',
			executive_summary TEXT NOT NULL DEFAULT '',
			synthesis TEXT NOT NULL DEFAULT '',
			document_count INTEGER NOT NULL DEFAULT 0,
			iterations INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_analyses_data_room_id ON analyses(data_room_id);

		CREATE TABLE IF NOT EXISTS category_overviews (
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			category TEXT NOT NULL,
			overview TEXT NOT NULL,
			PRIMARY KEY (analysis_id, category)
		);

		CREATE TABLE IF NOT EXISTS risks (
			id TEXT PRIMARY KEY,
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			category TEXT NOT NULL,
			severity TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			evidence TEXT NOT NULL DEFAULT '',
			impact TEXT NOT NULL DEFAULT '',
			recommendations TEXT NOT NULL DEFAULT '',
			documents TEXT NOT NULL DEFAULT '[]'
		);

		CREATE INDEX IF NOT EXISTS idx_risks_analysis_id ON risks(analysis_id);

		CREATE TABLE IF NOT EXISTS findings (
			analysis_id TEXT NOT NULL REFERENCES analyses(id) ON DELETE CASCADE,
			path TEXT NOT NULL,
			content TEXT NOT NULL,
			PRIMARY KEY (analysis_id, path)
		);
	`

	_, err := db.db.Exec(schema)
	return err
}

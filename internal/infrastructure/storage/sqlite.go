package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/paths"
	_ "github.com/mattn/go-sqlite3"
)

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	name TEXT PRIMARY KEY,
	body BLOB NOT NULL,
	previous BLOB,
	updated_at INTEGER NOT NULL
);`

const upsertDocument = `
INSERT INTO documents (name, body, previous, updated_at) VALUES (?, ?, NULL, ?)
ON CONFLICT(name) DO UPDATE SET
	previous = documents.body,
	body = excluded.body,
	updated_at = excluded.updated_at`

// SQLiteBackend stores every document as a row of one sqlite database.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (creating if needed) the database at path
func OpenSQLite(path string) (*SQLiteBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Single writer; also keeps :memory: databases on one connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createDocumentsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &SQLiteBackend{db: db, path: path}, nil
}

// Kind implements Backend
func (b *SQLiteBackend) Kind() string { return KindSQLite }

// Document implements Backend
func (b *SQLiteBackend) Document(name string) (Document, error) {
	if err := paths.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	return &sqliteDocument{db: b.db, name: name}, nil
}

// Close implements Backend
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

type sqliteDocument struct {
	db   *sql.DB
	name string
}

func (d *sqliteDocument) Name() string { return d.name }

func (d *sqliteDocument) Read() ([]byte, error) {
	var body, previous []byte
	err := d.db.QueryRow(
		"SELECT body, previous FROM documents WHERE name = ?", d.name,
	).Scan(&body, &previous)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", d.name, err)
	}

	if validJSON(body) {
		return body, nil
	}
	if validJSON(previous) {
		return previous, nil
	}
	return nil, fmt.Errorf("document %s is malformed and has no usable backup", d.name)
}

func (d *sqliteDocument) Write(data []byte) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// A malformed body must not become the fallback
	var current []byte
	err = tx.QueryRow("SELECT body FROM documents WHERE name = ?", d.name).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to read document %s: %w", d.name, err)
	}

	now := time.Now().UnixMilli()
	if err == nil && !validJSON(current) {
		_, err = tx.Exec("UPDATE documents SET body = ?, updated_at = ? WHERE name = ?", data, now, d.name)
	} else {
		_, err = tx.Exec(upsertDocument, d.name, data, now)
	}
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", d.name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	// Pure-Go SQLite driver, registers "sqlite".
	_ "modernc.org/sqlite"
)

// SQLiteFileName is the database file created inside the data directory.
const SQLiteFileName = "heartline.db"

const kvSchema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value BLOB NOT NULL
)`

// SQLiteBackend stores every key as a row of a single kv table.
type SQLiteBackend struct {
	db   *sql.DB
	dir  string
	path string
}

// NewSQLiteBackend opens (creating if needed) heartline.db inside dir.
func NewSQLiteBackend(dir string) (*SQLiteBackend, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dir, SQLiteFileName)

	// Immediate transactions take the write lock up front so Update cannot
	// deadlock upgrading a read lock while another process writes.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_txlock=immediate")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteBackend{db: db, dir: dir, path: path}, nil
}

// Get reads key.
func (b *SQLiteBackend) Get(key string) ([]byte, bool, error) {
	if err := validateKey(key); err != nil {
		return nil, false, err
	}
	var value []byte
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts key.
func (b *SQLiteBackend) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if _, err := b.db.Exec(upsertKV, key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

const upsertKV = `INSERT INTO kv (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

// Update runs the read-modify-write inside one immediate transaction.
func (b *SQLiteBackend) Update(key string, fn UpdateFunc) error {
	if err := validateKey(key); err != nil {
		return err
	}
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", key, err)
	}
	defer tx.Rollback()

	var old []byte
	ok := true
	err = tx.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&old)
	if errors.Is(err, sql.ErrNoRows) {
		ok = false
	} else if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}

	next, err := fn(old, ok)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(upsertKV, key, next); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return tx.Commit()
}

// Close closes the database.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// WatchTarget reports the data directory; any write to the database or its
// journal counts as a change.
func (b *SQLiteBackend) WatchTarget() (string, func(name string) bool) {
	return b.dir, func(name string) bool {
		return strings.HasPrefix(filepath.Base(name), SQLiteFileName)
	}
}

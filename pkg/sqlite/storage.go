package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/dmitrymomot/senzor/pkg/session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
);`

// DB is an open scope database.
type DB struct {
	db     *sql.DB
	closed atomic.Bool
}

// Open opens or creates the database at path, creating parent directories.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Join(ErrOpen, fmt.Errorf("create directory %q: %w", dir, err))
		}
	}

	// WAL + busy timeout so a second simulator run does not hit "database is locked".
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Join(ErrOpen, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		if IsCantOpen(err) {
			return nil, errors.Join(ErrOpen, fmt.Errorf("cannot create database at %q: %w", path, err))
		}
		return nil, errors.Join(ErrOpen, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Join(ErrMigrate, err)
	}

	return &DB{db: db}, nil
}

// Close releases the database.
func (d *DB) Close() error {
	if d.closed.Swap(true) {
		return nil
	}
	return d.db.Close()
}

// Scope returns the key/value scope for namespace.
func (d *DB) Scope(namespace string) *Scope {
	return &Scope{db: d, namespace: namespace}
}

// Namespaces lists namespaces holding at least one key.
func (d *DB) Namespaces(ctx context.Context) ([]string, error) {
	if d.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := d.db.QueryContext(ctx, `SELECT DISTINCT namespace FROM kv ORDER BY namespace`)
	if err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, errors.Join(ErrQuery, err)
		}
		out = append(out, ns)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQuery, err)
	}
	return out, nil
}

// Scope is one namespace of a DB. It implements session.Scope.
type Scope struct {
	db        *DB
	namespace string
}

var _ session.Scope = (*Scope)(nil)

// Get returns the stored value or "" when key is absent.
func (s *Scope) Get(ctx context.Context, key string) (string, error) {
	if s.db.closed.Load() {
		return "", ErrClosed
	}
	var value string
	err := s.db.db.QueryRowContext(ctx,
		`SELECT value FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Join(ErrQuery, err)
	}
	return value, nil
}

// Set stores value under key.
func (s *Scope) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return session.ErrInvalidKey
	}
	if s.db.closed.Load() {
		return ErrClosed
	}
	_, err := s.db.db.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`,
		s.namespace, key, value,
	)
	if err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Scope) Delete(ctx context.Context, key string) error {
	if s.db.closed.Load() {
		return ErrClosed
	}
	if _, err := s.db.db.ExecContext(ctx,
		`DELETE FROM kv WHERE namespace = ? AND key = ?`, s.namespace, key,
	); err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

// Clear removes every key of the namespace.
func (s *Scope) Clear(ctx context.Context) error {
	if s.db.closed.Load() {
		return ErrClosed
	}
	if _, err := s.db.db.ExecContext(ctx, `DELETE FROM kv WHERE namespace = ?`, s.namespace); err != nil {
		return errors.Join(ErrQuery, err)
	}
	return nil
}

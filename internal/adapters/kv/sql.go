package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const DefaultTable = "kv_store"

type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "pgx"
)

var _ Store = (*SQLStore)(nil)

// SQLStore keeps every key as one row of a two-column table.
type SQLStore struct {
	db    *sqlx.DB
	table string
}

// NewSQLStore wraps an open connection and creates the table if missing.
func NewSQLStore(ctx context.Context, db *sqlx.DB, table string) (*SQLStore, error) {
	if table == "" {
		table = DefaultTable
	}

	s := &SQLStore{db: db, table: pq.QuoteIdentifier(table)}
	if err := s.migrate(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSQLite opens (or creates) the on-device database file at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, string(DialectSQLite), path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite at %s: %w", path, err)
	}

	// A single writer keeps SQLITE_BUSY out of concurrent Set calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure sqlite: %w", err)
	}

	store, err := NewSQLStore(ctx, db, DefaultTable)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func OpenPostgres(ctx context.Context, dsn, table string) (*SQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, string(DialectPostgres), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewSQLStore(ctx, db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLStore) blobType() string {
	if s.db.DriverName() == string(DialectPostgres) {
		return "BYTEA"
	}
	return "BLOB"
}

func (s *SQLStore) migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			kv_key     TEXT PRIMARY KEY,
			kv_value   %s NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, s.table, s.blobType())

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	query := s.db.Rebind(fmt.Sprintf(`SELECT kv_value FROM %s WHERE kv_key = ?`, s.table))

	if err := s.db.GetContext(ctx, &value, query, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	query := s.db.Rebind(fmt.Sprintf(`
		INSERT INTO %s (kv_key, kv_value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (kv_key) DO UPDATE
		SET kv_value = excluded.kv_value,
		    updated_at = excluded.updated_at`, s.table))

	if value == nil {
		value = []byte{}
	}

	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	return err
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	query := s.db.Rebind(fmt.Sprintf(`DELETE FROM %s WHERE kv_key = ?`, s.table))
	_, err := s.db.ExecContext(ctx, query, key)
	return err
}

func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	query := fmt.Sprintf(`SELECT kv_key FROM %s ORDER BY kv_key ASC`, s.table)

	if err := s.db.SelectContext(ctx, &keys, query); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SQLStore) MultiRemove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := sqlx.In(fmt.Sprintf(`DELETE FROM %s WHERE kv_key IN (?)`, s.table), keys)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, s.db.Rebind(query), args...)
	return err
}

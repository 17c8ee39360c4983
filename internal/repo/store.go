// Package repo contains all persistence logic for the trip board.
// Every collection is one JSON document stored under a key. Store
// backends (memory, Postgres, Redis) only move bytes and versions; Doc
// adds typed read-modify-write on top of them.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrVersionMismatch is returned by CompareAndSet when the stored version
// is not the expected one. Doc retries on it; callers outside this package
// normally see domain.ErrConflict instead.
var ErrVersionMismatch = errors.New("version mismatch")

// Entry is one stored document. Version starts at 1 and grows by one on
// every write; version 0 means the key has never been written.
type Entry struct {
	Key     string
	Value   []byte
	Version int64
}

// Store is a versioned key-value store for JSON documents.
type Store interface {
	// Get returns the entry stored under key.
	// Returns domain.ErrNotFound if the key has never been written.
	Get(ctx context.Context, key string) (Entry, error)

	// CompareAndSet writes value under key if the stored version equals
	// version (0 for "absent") and returns the new version.
	// Returns ErrVersionMismatch when another writer got there first.
	CompareAndSet(ctx context.Context, key string, version int64, value []byte) (int64, error)
}

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting it instead of *pgxpool.Pool lets integration tests pass a
// transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

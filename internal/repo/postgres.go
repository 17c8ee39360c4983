package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripboard/internal/domain"
)

// pgStore is the Postgres implementation of Store, backed by the
// collections table (see migrations/).
type pgStore struct {
	db db
}

// NewPostgresStore constructs a Store backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresStore(db db) Store {
	return &pgStore{db: db}
}

// Get reads one document by key.
func (s *pgStore) Get(ctx context.Context, key string) (Entry, error) {
	const q = `
		SELECT key, value, version
		FROM collections
		WHERE key = @key`

	row := s.db.QueryRow(ctx, q, pgx.NamedArgs{"key": key})
	e, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("repo.pgStore.Get: %w", err)
	}
	return e, nil
}

// CompareAndSet inserts the first version of a document or bumps the
// version of an existing one, in a single statement guarded by the
// expected version.
func (s *pgStore) CompareAndSet(ctx context.Context, key string, version int64, value []byte) (int64, error) {
	const insertQ = `
		INSERT INTO collections (key, value, version)
		VALUES (@key, @value, 1)
		ON CONFLICT (key) DO NOTHING
		RETURNING version`

	const updateQ = `
		UPDATE collections
		SET value      = @value,
		    version    = version + 1,
		    updated_at = now()
		WHERE key = @key AND version = @version
		RETURNING version`

	q := updateQ
	if version == 0 {
		q = insertQ
	}
	args := pgx.NamedArgs{
		"key":     key,
		"value":   string(value), // text form is accepted for jsonb
		"version": version,
	}

	var next int64
	err := s.db.QueryRow(ctx, q, args).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("repo.pgStore.CompareAndSet %q: %w", key, ErrVersionMismatch)
	}
	if err != nil {
		return 0, fmt.Errorf("repo.pgStore.CompareAndSet %q: %w", key, err)
	}
	return next, nil
}

// scanEntry reads a single collections row into an Entry.
// Maps pgx.ErrNoRows to domain.ErrNotFound.
func scanEntry(row pgx.Row) (Entry, error) {
	var e Entry
	err := row.Scan(&e.Key, &e.Value, &e.Version)
	if errors.Is(err, pgx.ErrNoRows) {
		return Entry{}, domain.ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	return e, nil
}

package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pkordes/tripboard/internal/domain"
)

// ErrSkipWrite can be returned by an Update function to end the update
// without writing, for example when every candidate was a duplicate.
var ErrSkipWrite = errors.New("skip write")

// maxUpdateAttempts bounds how often Doc.Update re-reads and recomputes
// after losing a race.
const maxUpdateAttempts = 5

// Notifier is told about every successful write.
type Notifier interface {
	Publish(key string, version int64)
}

// Document is a typed, versioned JSON document. Services depend on this
// interface so they can be tested with a fake.
type Document[T any] interface {
	// Load returns the current value, or the zero value if never written.
	Load(ctx context.Context) (T, error)

	// Update reads the current value, applies fn and writes the result if
	// nobody else wrote in between; otherwise it reads again and re-applies
	// fn. Returns the value now stored.
	Update(ctx context.Context, fn func(cur T) (T, error)) (T, error)
}

// Doc implements Document on top of a Store.
type Doc[T any] struct {
	store  Store
	key    string
	notify Notifier
}

// NewDoc returns the document stored under key. notify may be nil.
func NewDoc[T any](store Store, key string, notify Notifier) *Doc[T] {
	return &Doc[T]{store: store, key: key, notify: notify}
}

// Key is the store key of the document.
func (d *Doc[T]) Key() string { return d.key }

func (d *Doc[T]) Load(ctx context.Context) (T, error) {
	v, _, err := d.load(ctx)
	return v, err
}

func (d *Doc[T]) load(ctx context.Context) (T, int64, error) {
	var v T
	e, err := d.store.Get(ctx, d.key)
	if errors.Is(err, domain.ErrNotFound) {
		return v, 0, nil
	}
	if err != nil {
		return v, 0, fmt.Errorf("repo.Doc.Load %q: %w", d.key, err)
	}
	if err := json.Unmarshal(e.Value, &v); err != nil {
		return v, 0, fmt.Errorf("repo.Doc.Load %q: decode: %w", d.key, err)
	}
	return v, e.Version, nil
}

func (d *Doc[T]) Update(ctx context.Context, fn func(cur T) (T, error)) (T, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		cur, version, err := d.load(ctx)
		if err != nil {
			return cur, err
		}
		next, err := fn(cur)
		if errors.Is(err, ErrSkipWrite) {
			return cur, nil
		}
		if err != nil {
			return cur, err
		}
		data, err := json.Marshal(next)
		if err != nil {
			return cur, fmt.Errorf("repo.Doc.Update %q: encode: %w", d.key, err)
		}
		newVersion, err := d.store.CompareAndSet(ctx, d.key, version, data)
		if errors.Is(err, ErrVersionMismatch) {
			continue
		}
		if err != nil {
			return cur, fmt.Errorf("repo.Doc.Update %q: %w", d.key, err)
		}
		if d.notify != nil {
			d.notify.Publish(d.key, newVersion)
		}
		return next, nil
	}
	var zero T
	return zero, fmt.Errorf("repo.Doc.Update %q: %w", d.key, domain.ErrConflict)
}

// Put replaces the document wholesale.
func (d *Doc[T]) Put(ctx context.Context, v T) error {
	_, err := d.Update(ctx, func(T) (T, error) { return v, nil })
	return err
}

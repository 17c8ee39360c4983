package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/tripboard/internal/domain"
)

// DefaultRedisPrefix namespaces document keys in a shared Redis.
const DefaultRedisPrefix = "tripboard:doc:"

// redisStore keeps each document in a hash with "value" and "version"
// fields. Writes use WATCH/MULTI so a concurrent writer aborts the
// transaction instead of overwriting.
type redisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore constructs a Store on top of an existing Redis client.
func NewRedisStore(client redis.UniversalClient, prefix string) Store {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) (Entry, error) {
	fields, err := s.client.HGetAll(ctx, s.prefix+key).Result()
	if err != nil {
		return Entry{}, fmt.Errorf("repo.redisStore.Get %q: %w", key, err)
	}
	if len(fields) == 0 {
		return Entry{}, fmt.Errorf("repo.redisStore.Get %q: %w", key, domain.ErrNotFound)
	}
	version, err := strconv.ParseInt(fields["version"], 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("repo.redisStore.Get %q: bad version: %w", key, err)
	}
	return Entry{Key: key, Value: []byte(fields["value"]), Version: version}, nil
}

func (s *redisStore) CompareAndSet(ctx context.Context, key string, version int64, value []byte) (int64, error) {
	k := s.prefix + key
	next := version + 1

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.HGet(ctx, k, "version").Int64()
		if errors.Is(err, redis.Nil) {
			cur = 0
		} else if err != nil {
			return err
		}
		if cur != version {
			return ErrVersionMismatch
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, k, "value", value, "version", next)
			return nil
		})
		return err
	}, k)

	switch {
	case err == nil:
		return next, nil
	case errors.Is(err, ErrVersionMismatch), errors.Is(err, redis.TxFailedErr):
		return 0, fmt.Errorf("repo.redisStore.CompareAndSet %q: %w", key, ErrVersionMismatch)
	default:
		return 0, fmt.Errorf("repo.redisStore.CompareAndSet %q: %w", key, err)
	}
}

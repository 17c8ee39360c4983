package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects to TEST_REDIS_ADDR and closes the client when
// the test finishes. Tests share the server; use KeyPrefix to keep their
// keys apart.
func NewRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{Addr: requireEnv(t, EnvRedisAddr)})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Fatalf("testutil.NewRedisClient: ping: %v", err)
	}

	t.Cleanup(func() { client.Close() })
	return client
}

// KeyPrefix returns a prefix unique to one test run, e.g.
// "test:TestStore_GetMissing:5f1c...:".
func KeyPrefix(t *testing.T) string {
	return fmt.Sprintf("test:%s:%s:", t.Name(), uuid.NewString())
}

//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/marcelsud/webhook-bridge/queue/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

/* Test Helpers for Redis Integration Tests
 * Following the pattern from: https://eltonminetto.dev/post/2024-02-15-using-test-helpers/
 */

// RedisContainer holds the Redis testcontainer and connection details
type RedisContainer struct {
	Container *testcontainersredis.RedisContainer
	Addr      string
}

// SetupRedisContainer creates and starts a Redis testcontainer
func SetupRedisContainer(t *testing.T, ctx context.Context) (*RedisContainer, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx,
		"redis:7-alpine",
		testcontainersredis.WithLogLevel(testcontainersredis.LogLevelVerbose),
	)
	require.NoError(t, err, "failed to start Redis container")

	// Get connection string
	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	// Remove redis:// prefix if present
	if len(addr) > 8 && addr[:8] == "redis://" {
		addr = addr[8:]
	}

	// Wait for Redis to be ready
	time.Sleep(1 * time.Second)

	rc := &RedisContainer{
		Container: redisContainer,
		Addr:      addr,
	}

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return rc, cleanup
}

// CreateTestQueue creates a queue connected to the test container
func CreateTestQueue(t *testing.T, addr string) *redis.Queue {
	t.Helper()

	q, err := redis.New(addr, "", 0)
	require.NoError(t, err, "failed to create Redis queue")

	return q
}

// GenerateID is a helper to generate test correlation IDs
func GenerateID(t *testing.T, index int) string {
	t.Helper()
	return fmt.Sprintf("test-correlation-%d-%d", index, time.Now().UnixNano())
}

// createRedisClient creates a direct Redis client for consumer helpers
func createRedisClient(addr string) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
}

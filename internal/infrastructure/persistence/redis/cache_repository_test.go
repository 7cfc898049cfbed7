package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/ports/outbound"
)

const redisEnv = "FOODI_TEST_REDIS"

func startRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() || os.Getenv(redisEnv) == "" {
		t.Skipf("redis tests disabled; set %s=1 to run them", redisEnv)
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start redis container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{
		Enabled:     true,
		Host:        host,
		Port:        port.Int(),
		PoolSize:    4,
		DialTimeout: 5 * time.Second,
		KeyPrefix:   "foodi-test:",
	}
}

func TestCacheRepository_AgainstRedis(t *testing.T) {
	// Arrange
	cfg := startRedis(t)
	ctx := context.Background()
	client, err := NewClient(ctx, cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	cache := NewCacheRepository(client, cfg.KeyPrefix, zaptest.NewLogger(t))
	t.Cleanup(func() { _ = cache.Close() })

	// Act
	require.NoError(t, cache.Set(ctx, "pref:u1", []byte("state"), time.Minute))
	got, err := cache.Get(ctx, "pref:u1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("state"), got)

	raw, err := client.Get(ctx, "foodi-test:pref:u1").Result()
	require.NoError(t, err)
	assert.Equal(t, "state", raw, "keys carry the configured prefix")

	exists, err := cache.Exists(ctx, "pref:u1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "pref:u1"))
	_, err = cache.Get(ctx, "pref:u1")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
	assert.NoError(t, cache.Ping(ctx))
}

func TestNewClient_UnreachableServer(t *testing.T) {
	cfg := config.RedisConfig{Host: "127.0.0.1", Port: 1, DialTimeout: 100 * time.Millisecond}

	_, err := NewClient(context.Background(), cfg, zaptest.NewLogger(t))

	assert.Error(t, err)
}

func TestCacheRepository_KeyPrefix(t *testing.T) {
	cache := NewCacheRepository(nil, "foodi:", zaptest.NewLogger(t))

	assert.Equal(t, "foodi:preferences:u1", cache.key("preferences:u1"))
}

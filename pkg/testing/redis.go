package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

// GetRedisClient connects to REDIS_HOST when set, otherwise it starts a
// throwaway redis container with dockertest. The container and the client are
// released with t.Cleanup.
func GetRedisClient(t *testing.T) *redis.Client {
	t.Helper()

	addr := ""
	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		addr = net.JoinHostPort(redisHost, "6379")
	} else {
		addr = net.JoinHostPort("localhost", startRedisContainer(t))
	}
	t.Logf("using redis at: [%s]", addr)

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       0, // use default DB
	})
	t.Cleanup(func() {
		_ = rdb.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// container might still be booting
	var pingErr error
	for ctx.Err() == nil {
		if pingErr = rdb.Ping(ctx).Err(); pingErr == nil {
			break
		}
		time.Sleep(200 * time.Millisecond)
	}
	require.NoError(t, pingErr)

	return rdb
}

func startRedisContainer(t *testing.T) string {
	t.Helper()

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	require.NoError(t, err, "could not create new dockertest pool")
	require.NoError(t, pool.Client.Ping(), "could not ping dockertest pool")

	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err, "run redis")

	t.Cleanup(func() {
		if err := pool.Purge(redisResource); err != nil {
			t.Logf("purge redis container: %s", err)
		}
	})

	return redisResource.GetPort("6379/tcp")
}

//go:build integration

package integration_testing

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/fitcourses/internal/config"
	"github.com/2beens/fitcourses/internal/fakeapi"
	"github.com/2beens/fitcourses/internal/fitclient"
	"github.com/2beens/fitcourses/internal/storage"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	log "github.com/sirupsen/logrus"
)

const (
	serverPort = 9000
	serverHost = "localhost"

	sessionsKeyPrefix = "fitcourses-fakeapi||"
)

var serverEndpoint = "http://" + net.JoinHostPort(serverHost, strconv.Itoa(serverPort))

// Suite runs the fake API on a real port, with its sessions and the client
// state both kept in a redis container.
type Suite struct {
	dockerPool  *dockertest.Pool
	redisPort   string
	sessionsRdb *redis.Client
	server      *fakeapi.Server
	teardown    []func()
}

func newSuite(ctx context.Context) (_ *Suite) {
	var err error
	suite := &Suite{
		teardown: make([]func(), 0),
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	suite.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}

	// uses pool to try to connect to Docker
	if err = suite.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	suite.redisPort, err = suite.redisSetup(ctx)
	if err != nil {
		suite.cleanup()
		log.Fatalf("failed to setup redis: %s", err.Error())
	}

	if err := suite.startServer(); err != nil {
		suite.cleanup()
		log.Fatalf("start fake api: %s", err)
	}

	return suite
}

func (s *Suite) cleanup() {
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	if s.sessionsRdb != nil {
		s.sessionsRdb.Close()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

// startServer runs a freshly seeded fake API. Users and enrollments start
// empty, sessions are whatever redis holds.
func (s *Suite) startServer() error {
	s.server = fakeapi.NewServer(fakeapi.ServerParams{
		State: fakeapi.NewSeededState(storage.NewRedisStore(s.sessionsRdb, sessionsKeyPrefix)),
	})
	s.server.Serve(serverHost, serverPort)
	return waitForServer(serverEndpoint + "/courses")
}

func (s *Suite) restartServer() error {
	s.server.GracefulShutdown()
	return s.startServer()
}

func (s *Suite) newClient(ctx context.Context) (*fitclient.Client, error) {
	return fitclient.New(ctx, fitclient.Params{
		Config: getTestConfig(s.redisPort),
	})
}

func getTestConfig(redisPort string) *config.Config {
	return &config.Config{
		Environment:     "development",
		APIBaseURL:      serverEndpoint,
		HTTPTimeout:     5 * time.Second,
		StorageBackend:  config.StorageBackendRedis,
		RedisHost:       "localhost",
		RedisPort:       redisPort,
		MemoryCacheSize: 1024 * 1024,
	}
}

func (s *Suite) redisSetup(ctx context.Context) (string, error) {
	redisResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
	})
	if err != nil {
		return "", fmt.Errorf("run redis: %s", err)
	}

	s.teardown = append(s.teardown, func() {
		redisResource.Close()
	})

	redisPort := redisResource.GetPort("6379/tcp")
	s.sessionsRdb = redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisPort),
	})
	if err := s.dockerPool.Retry(func() error {
		return s.sessionsRdb.Ping(ctx).Err()
	}); err != nil {
		return "", fmt.Errorf("ping redis: %s", err)
	}

	return redisPort, nil
}

func waitForServer(url string) error {
	client := &http.Client{Timeout: time.Second}
	defer client.CloseIdleConnections()

	var lastErr error
	for i := 0; i < 50; i++ {
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			return nil
		}
		lastErr = err
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("server not up: %w", lastErr)
}

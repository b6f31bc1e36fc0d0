package fitclient

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/2beens/fitcourses/internal/api"
	"github.com/2beens/fitcourses/internal/auth"
	"github.com/2beens/fitcourses/internal/cache"
	"github.com/2beens/fitcourses/internal/config"
	"github.com/2beens/fitcourses/internal/courses"
	"github.com/2beens/fitcourses/internal/progress"
	"github.com/2beens/fitcourses/internal/storage"
	"github.com/2beens/fitcourses/internal/telemetry/metrics"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"
	"github.com/2beens/fitcourses/internal/workouts"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

const ServiceName = "fitcourses-client"

// Client wires the whole client stack: persisted store, response cache,
// request transport, session and the accessors built on them.
type Client struct {
	Config   *config.Config
	API      *api.Client
	Cache    *cache.Tiered
	Auth     *auth.SessionStore
	Courses  *courses.Service
	Workouts *workouts.Service
	Progress *progress.Service

	store          storage.Store
	httpClient     *http.Client
	redisClient    *redis.Client
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type Params struct {
	Config *config.Config
	// Store replaces the store selected by Config.StorageBackend.
	Store      storage.Store
	HTTPClient *http.Client
}

func New(ctx context.Context, params Params) (*Client, error) {
	cfg := params.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	c := &Client{
		Config: cfg,
		store:  params.Store,
	}
	if c.store == nil {
		if err := c.setupStore(ctx); err != nil {
			return nil, err
		}
	}

	c.promRegistry = metrics.SetupPrometheus()
	c.metricsManager = metrics.NewManager(metrics.DefaultNamespace, metrics.DefaultSubsystem, c.promRegistry)

	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, ServiceName)
	if err != nil {
		return nil, fmt.Errorf("honeycomb setup: %w", err)
	}
	c.otelShutdown = otelShutdown

	c.Cache = cache.NewTiered(
		cache.NewMemoryCache(cfg.MemoryCacheSize),
		cache.NewPersistentCache(c.store),
		c.metricsManager,
	)

	httpClient := params.HTTPClient
	if httpClient == nil {
		httpClient = api.NewHTTPClient(cfg.HTTPTimeout)
	}
	c.httpClient = httpClient
	c.API = api.NewClient(api.ClientParams{
		BaseURL:    cfg.APIBaseURL,
		HTTPClient: httpClient,
		Tokens:     auth.NewTokenSource(c.store),
		Cache:      c.Cache,
		Metrics:    c.metricsManager,
		RateLimit:  cfg.RateLimit,
		RateBurst:  cfg.RateBurst,
	})

	c.Auth = auth.NewSessionStore(c.store, c.API, c.metricsManager)
	c.Auth.ClearOnLogin(c.Cache, courses.UserCachePatterns...)
	c.Courses = courses.NewService(
		c.API,
		c.Cache,
		c.Auth,
		courses.NewShadow(c.store, courses.DefaultShadowLimit),
		c.metricsManager,
	)
	c.Workouts = workouts.NewService(c.API)
	c.Progress = progress.NewService(c.API, c.Workouts)

	log.Debugf("client ready, api [%s], storage [%s]", cfg.APIBaseURL, cfg.StorageBackend)
	return c, nil
}

func (c *Client) setupStore(ctx context.Context) error {
	switch c.Config.StorageBackend {
	case config.StorageBackendMemory:
		c.store = storage.NewMemoryStore()
	case config.StorageBackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(c.Config.RedisHost, c.Config.RedisPort),
			Password: c.Config.RedisPassword,
			DB:       c.Config.RedisDB,
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("ping redis: %w", err)
		}
		log.Debugf("redis ping: %s", rdbStatus.Val())
		c.redisClient = rdb
		c.store = storage.NewRedisStore(rdb, storage.DefaultRedisKeyPrefix)
	default:
		fileStore, err := storage.NewFileStore(c.Config.StateDir)
		if err != nil {
			return fmt.Errorf("new file store: %w", err)
		}
		log.Tracef("client state file: %s", fileStore.Path())
		c.store = fileStore
	}
	return nil
}

// Store is the persisted client state.
func (c *Client) Store() storage.Store {
	return c.store
}

func (c *Client) Metrics() prometheus.Gatherer {
	return c.promRegistry
}

func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
	if c.otelShutdown != nil {
		c.otelShutdown()
	}
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}
}

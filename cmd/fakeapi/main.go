package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/2beens/fitcourses/internal/config"
	"github.com/2beens/fitcourses/internal/fakeapi"
	"github.com/2beens/fitcourses/internal/logging"
	"github.com/2beens/fitcourses/internal/storage"
	"github.com/2beens/fitcourses/internal/telemetry/metrics"
	"github.com/2beens/fitcourses/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

func main() {
	fmt.Println("starting fake api ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	host := flag.String("host", "localhost", "host to listen on")
	port := flag.Int("port", 8080, "port to listen on")
	metricsAddr := flag.String("metrics-addr", "", "address for the prometheus metrics endpoint, empty disables it")
	origins := flag.String("origins", "*", "comma separated list of allowed CORS origins")
	rateLimit := flag.Float64("rate", 0, "requests per second allowed, 0 disables rate limiting")
	rateBurst := flag.Int("burst", 10, "rate limiter burst size")
	flag.Parse()

	log.Warnf("---->> running in [%s] environment", *env)

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToConsole:     cfg.LogToConsole,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        cfg.SentryDSN,
		SentryServerName: "fitcourses-fakeapi",
		Console:          os.Stdout,
	})

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, err := tracing.HoneycombSetup(cfg.HoneycombEnabled, "fitcourses-fakeapi")
	if err != nil {
		log.Fatalf("honeycomb setup: %s", err)
	}
	defer otelShutdown()

	var sessions storage.Store = storage.NewMemoryStore()
	if cfg.StorageBackend == config.StorageBackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Fatalf("ping redis: %s", err)
		}
		log.Debugf("redis ping: %s", rdbStatus.Val())
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("failed to close redis client conn: %s", err)
			}
		}()
		sessions = storage.NewRedisStore(rdb, "fitcourses-fakeapi||")
		log.Infoln("sessions are kept in redis")
	}

	promRegistry := metrics.SetupPrometheus()
	server := fakeapi.NewServer(fakeapi.ServerParams{
		State:          fakeapi.NewSeededState(sessions),
		Metrics:        metrics.NewManager(metrics.DefaultNamespace, "fakeapi", promRegistry),
		AllowedOrigins: strings.Split(*origins, ","),
		RateLimit:      *rateLimit,
		RateBurst:      *rateBurst,
		PromRegistry:   promRegistry,
		MetricsAddr:    *metricsAddr,
	})

	server.Serve(*host, *port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	server.GracefulShutdown()
}

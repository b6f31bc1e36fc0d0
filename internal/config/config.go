package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIBaseURL = "https://wedev-api.sky.pro/api/fitness"

	StorageBackendFile   = "file"
	StorageBackendRedis  = "redis"
	StorageBackendMemory = "memory"

	envSentryDSN = "FITCOURSES_SENTRY_DSN"
	envRedisPass = "FITCOURSES_REDIS_PASS"
)

type Config struct {
	Environment string `toml:"-"`

	APIBaseURL  string        `toml:"api_base_url"`
	HTTPTimeout time.Duration `toml:"http_timeout"`
	// requests per second, 0 disables client side rate limiting
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToConsole  bool   `toml:"log_to_console"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	SentryDSN     string `toml:"-"`

	// persisted client state
	StorageBackend string `toml:"storage_backend"`
	StateDir       string `toml:"state_dir"`
	RedisHost      string `toml:"redis_host"`
	RedisPort      string `toml:"redis_port"`
	RedisPassword  string `toml:"-"`
	RedisDB        int    `toml:"redis_db"`

	// in-memory response cache size in bytes, a single entry can take at most 1/1024 of it
	MemoryCacheSize int `toml:"memory_cache_size"`

	HoneycombEnabled bool `toml:"honeycomb_enabled"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		if t.Development == nil {
			return nil, fmt.Errorf("missing development config")
		}
		t.Development.Environment = "development"
		return t.Development, nil
	case "prod", "production":
		if t.Production == nil {
			return nil, fmt.Errorf("missing production config")
		}
		t.Production.Environment = "production"
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config for env. A missing
// file is not an error, defaults are used instead.
func Load(env, path string) (*Config, error) {
	var cfgToml Toml
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfgToml); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
			}
		}
	}
	if cfgToml.Development == nil {
		cfgToml.Development = &Config{}
	}
	if cfgToml.Production == nil {
		cfgToml.Production = &Config{}
	}

	cfg, err := cfgToml.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.SentryDSN = os.Getenv(envSentryDSN)
	cfg.RedisPassword = os.Getenv(envRedisPass)
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = 15 * time.Second
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		c.RateBurst = 1
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.StorageBackend == "" {
		c.StorageBackend = StorageBackendFile
	}
	if c.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.StateDir = home + "/.fitcourses"
		} else {
			c.StateDir = ".fitcourses"
		}
	}
	if c.RedisHost == "" {
		c.RedisHost = "localhost"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.MemoryCacheSize <= 0 {
		c.MemoryCacheSize = 32 * 1024 * 1024
	}
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendFile, StorageBackendRedis, StorageBackendMemory:
	default:
		return fmt.Errorf("unknown storage backend: %s", c.StorageBackend)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative: %f", c.RateLimit)
	}
	return nil
}

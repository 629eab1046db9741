package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	platformstrings "briteverify/pkg/platform/strings"
)

const (
	DefaultV1BaseURL = "https://bpi.briteverify.com/api/v1"
	DefaultV3BaseURL = "https://bulk-api.briteverify.com/api/v3"
)

// Config is the full runtime configuration for the CLI and the mock server.
type Config struct {
	API     API
	Log     Log
	Redis   RedisConfig
	Results ResultsConfig
	Kafka   KafkaConfig
	Server  Server
}

// API configures the BriteVerify client.
type API struct {
	Key             string
	V1BaseURL       string
	V3BaseURL       string
	Retry           bool
	Timeout         time.Duration
	PageConcurrency int
	// BreakerFailures consecutive failures open the circuit breaker. Zero disables it.
	BreakerFailures int
	BreakerCooldown time.Duration
}

// Log selects the slog handler and level.
type Log struct {
	Level  string
	Format string
}

// RedisConfig holds connection and pool settings. An empty URL disables Redis.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ResultsConfig configures the bulk results cache.
type ResultsConfig struct {
	DatabaseURL string
	CacheTTL    time.Duration
}

// KafkaConfig configures the results export sink. No brokers disables export.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Server captures HTTP server level configuration for the mock API.
type Server struct {
	Addr        string
	MetricsAddr string
	APIKey      string
	// RateLimitEvery makes the mock answer every Nth request with 429. Zero disables it.
	RateLimitEvery int
}

// ResultsCacheTTL bounds how long finished list results are served from cache.
var ResultsCacheTTL = 24 * time.Hour

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	timeout, err := durationEnv("BRITEVERIFY_TIMEOUT", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	concurrency, err := intEnv("BRITEVERIFY_PAGE_CONCURRENCY", 4)
	if err != nil {
		return Config{}, err
	}
	breakerFailures, err := intEnv("BRITEVERIFY_BREAKER_FAILURES", 5)
	if err != nil {
		return Config{}, err
	}
	breakerCooldown, err := durationEnv("BRITEVERIFY_BREAKER_COOLDOWN", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := durationEnv("RESULTS_CACHE_TTL", ResultsCacheTTL)
	if err != nil {
		return Config{}, err
	}
	redisCfg, err := redisFromEnv()
	if err != nil {
		return Config{}, err
	}
	rateLimitEvery, err := intEnv("MOCK_API_RATE_LIMIT_EVERY", 0)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		API: API{
			Key:             os.Getenv("BRITEVERIFY_API_KEY"),
			V1BaseURL:       stringEnv("BRITEVERIFY_V1_URL", DefaultV1BaseURL),
			V3BaseURL:       stringEnv("BRITEVERIFY_V3_URL", DefaultV3BaseURL),
			Retry:           os.Getenv("BRITEVERIFY_RETRY") != "false",
			Timeout:         timeout,
			PageConcurrency: concurrency,
			BreakerFailures: breakerFailures,
			BreakerCooldown: breakerCooldown,
		},
		Log: Log{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: stringEnv("LOG_FORMAT", "text"),
		},
		Redis: redisCfg,
		Results: ResultsConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			CacheTTL:    cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers: platformstrings.SplitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   stringEnv("KAFKA_TOPIC", "briteverify.results"),
		},
		Server: Server{
			Addr:           stringEnv("MOCK_API_ADDR", ":8080"),
			MetricsAddr:    os.Getenv("METRICS_ADDR"),
			APIKey:         stringEnv("MOCK_API_KEY", "mock-api-key"),
			RateLimitEvery: rateLimitEvery,
		},
	}
	return cfg, cfg.Validate()
}

func redisFromEnv() (RedisConfig, error) {
	cfg := RedisConfig{URL: os.Getenv("REDIS_URL")}
	var err error
	if cfg.PoolSize, err = intEnv("REDIS_POOL_SIZE", 10); err != nil {
		return cfg, err
	}
	if cfg.MinIdleConns, err = intEnv("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return cfg, err
	}
	if cfg.DialTimeout, err = durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second); err != nil {
		return cfg, err
	}
	if cfg.ReadTimeout, err = durationEnv("REDIS_READ_TIMEOUT", 3*time.Second); err != nil {
		return cfg, err
	}
	if cfg.WriteTimeout, err = durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly.
// The API key is not required here: the mock server runs without one.
func (c Config) Validate() error {
	var errs []error
	for name, raw := range map[string]string{
		"BRITEVERIFY_V1_URL": c.API.V1BaseURL,
		"BRITEVERIFY_V3_URL": c.API.V3BaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", name, raw))
		}
	}
	if c.API.PageConcurrency < 1 {
		errs = append(errs, errors.New("BRITEVERIFY_PAGE_CONCURRENCY must be at least 1"))
	}
	if c.API.BreakerFailures < 0 {
		errs = append(errs, errors.New("BRITEVERIFY_BREAKER_FAILURES must not be negative"))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}
	if c.Server.RateLimitEvery < 0 {
		errs = append(errs, errors.New("MOCK_API_RATE_LIMIT_EVERY must not be negative"))
	}
	return errors.Join(errs...)
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

// Package config loads service settings from an optional config file, a
// .env file and the environment. Keys map to environment variables by
// upper-casing and replacing dots with underscores (coupon.base_url ->
// COUPON_BASE_URL).
package config

import (
	"io/fs"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/pkg/db"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration

	DB db.PostgresConfig

	Coupon    CouponConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Ads       AdsConfig

	BatchConcurrency int

	Log logging.Config
}

type CouponConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

type CacheConfig struct {
	Backend  string
	TTL      time.Duration
	Size     int
	RedisURL string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type AdsConfig struct {
	SessionTTL  time.Duration
	MaxSessions int
}

// New returns a viper instance with every key defaulted and bound to the
// environment.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.shutdown_timeout", 15*time.Second)

	db.SetPostgresDefaults(v)

	v.SetDefault("coupon.base_url", "http://localhost:5000")
	v.SetDefault("coupon.token", "")
	v.SetDefault("coupon.timeout", 10*time.Second)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.size", 10000)
	v.SetDefault("cache.redis_url", "localhost:6379")

	v.SetDefault("ratelimit.rps", 20.0)
	v.SetDefault("ratelimit.burst", 40)

	v.SetDefault("ads.session_ttl", 30*time.Minute)
	v.SetDefault("ads.max_sessions", 50000)

	v.SetDefault("batch.concurrency", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
	return v
}

// Load reads dotenv (if present), then configFile (if set), then the
// environment, and returns the resolved Config.
func Load(dotenv, configFile string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, errors.Wrap(err, "load dotenv")
		}
	}

	v := New()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "read config %s", configFile)
		}
	}
	return FromViper(v)
}

// FromViper resolves and validates a Config.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		HTTPAddr:        v.GetString("http.addr"),
		ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
		DB:              db.LoadPostgresConfig(v),
		Coupon: CouponConfig{
			BaseURL: v.GetString("coupon.base_url"),
			Token:   v.GetString("coupon.token"),
			Timeout: v.GetDuration("coupon.timeout"),
		},
		Cache: CacheConfig{
			Backend:  strings.ToLower(v.GetString("cache.backend")),
			TTL:      v.GetDuration("cache.ttl"),
			Size:     v.GetInt("cache.size"),
			RedisURL: v.GetString("cache.redis_url"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("ratelimit.rps"),
			Burst: v.GetInt("ratelimit.burst"),
		},
		Ads: AdsConfig{
			SessionTTL:  v.GetDuration("ads.session_ttl"),
			MaxSessions: v.GetInt("ads.max_sessions"),
		},
		BatchConcurrency: v.GetInt("batch.concurrency"),
		Log: logging.Config{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	return cfg, cfg.Validate()
}

// Validate checks values that would otherwise fail at first use.
func (c Config) Validate() error {
	if c.Coupon.BaseURL == "" {
		return errors.New("coupon.base_url is required")
	}
	if c.Coupon.Timeout <= 0 {
		return errors.New("coupon.timeout must be positive")
	}
	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CacheRedis:
	default:
		return errors.Errorf("cache.backend %q: want none, memory or redis", c.Cache.Backend)
	}
	if c.Cache.Backend != CacheNone && c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.BatchConcurrency <= 0 {
		return errors.New("batch.concurrency must be positive")
	}
	return nil
}

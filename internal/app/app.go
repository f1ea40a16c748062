// Package app builds the service graph from configuration.
package app

import (
	"context"
	"database/sql"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/ads"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/api"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/cache"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/config"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/coupon"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/entitlement"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/repository"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/service"
	"github.com/Cheertaboi/admissions-entitlement-service/pkg/db"
)

type App struct {
	Config       config.Config
	Logger       *zerolog.Logger
	Registry     *prometheus.Registry
	Metrics      *metrics.Recorder
	Entitlements *service.EntitlementService
	Coupons      *service.CouponService
	Ads          *service.AdService

	db    *sql.DB
	redis *redis.Client
}

// New connects to Postgres (and Redis when configured) and wires the
// services. Close releases the connections.
func New(ctx context.Context, cfg config.Config, logger *zerolog.Logger) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	conn, err := db.NewPostgresConnection(ctx, cfg.DB)
	if err != nil {
		return nil, errors.Wrap(err, "db connect")
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Registry: reg,
		Metrics:  rec,
		db:       conn,
	}

	var orders service.OrderSource = repository.NewOrderRepo(conn)
	switch cfg.Cache.Backend {
	case config.CacheMemory:
		orders = cache.NewCachedOrderSource(orders, cache.NewMemoryOrderCache(cfg.Cache.Size, cfg.Cache.TTL), rec)
	case config.CacheRedis:
		client, err := cache.Connect(cfg.Cache.RedisURL)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.redis = client
		if err := client.Ping(ctx).Err(); err != nil {
			_ = a.Close()
			return nil, errors.Wrap(err, "redis ping")
		}
		orders = cache.NewCachedOrderSource(orders, cache.NewRedisOrderCache(client, cfg.Cache.TTL), rec)
	}

	resolver := coupon.NewResolver(cfg.Coupon.BaseURL,
		coupon.WithHTTPClient(&http.Client{Timeout: cfg.Coupon.Timeout}),
		coupon.WithBearerToken(cfg.Coupon.Token),
	)

	a.Entitlements = service.NewEntitlementService(orders, entitlement.NewChecker(nil), rec, cfg.BatchConcurrency)
	a.Coupons = service.NewCouponService(resolver, rec)
	a.Ads = service.NewAdService(ads.NewSessionStore(cfg.Ads.MaxSessions, cfg.Ads.SessionTTL), rec)
	return a, nil
}

// Handler returns the HTTP router for the app.
func (a *App) Handler() http.Handler {
	var limiter *rate.Limiter
	if a.Config.RateLimit.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(a.Config.RateLimit.RPS), a.Config.RateLimit.Burst)
	}
	return api.NewRouter(api.Dependencies{
		Entitlements:  a.Entitlements,
		Coupons:       a.Coupons,
		Ads:           a.Ads,
		Logger:        a.Logger,
		Metrics:       a.Metrics,
		Gatherer:      a.Registry,
		CouponLimiter: limiter,
	})
}

// Close releases the database and Redis connections and returns the first
// error met.
func (a *App) Close() error {
	var first error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			first = errors.Wrap(err, "close redis")
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && first == nil {
			first = errors.Wrap(err, "close db")
		}
	}
	return first
}

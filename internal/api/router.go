package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/api/handlers"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/api/middleware"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/service"
)

// Dependencies wires the router to the services.
type Dependencies struct {
	Entitlements *service.EntitlementService
	Coupons      *service.CouponService
	Ads          *service.AdService

	Logger   *zerolog.Logger
	Metrics  *metrics.Recorder
	Gatherer prometheus.Gatherer

	// CouponLimiter throttles coupon validation; nil disables it.
	CouponLimiter *rate.Limiter
}

// NewRouter builds the HTTP router for the entitlement-service
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger(deps.Logger, deps.Metrics))
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)

	entitlementHandler := handlers.NewEntitlementHandler(deps.Entitlements)
	couponHandler := handlers.NewCouponHandler(deps.Coupons)
	adHandler := handlers.NewAdHandler(deps.Ads)

	r.Route("/entitlements", func(r chi.Router) {
		r.Post("/batch", entitlementHandler.Batch)
		r.Get("/{user_id}", entitlementHandler.ListProducts)
		r.Get("/{user_id}/products/{product_id}", entitlementHandler.CheckProduct)
		r.Post("/{user_id}/refresh", entitlementHandler.Refresh)
	})

	r.Route("/coupons", func(r chi.Router) {
		r.Use(middleware.RateLimit(deps.CouponLimiter))
		r.Post("/validate", couponHandler.ValidateCoupon)
	})

	r.Route("/sessions/{session_id}", func(r chi.Router) {
		r.Post("/ads/decide", adHandler.Decide)
		r.Delete("/", adHandler.EndSession)
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}

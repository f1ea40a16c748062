// Package metrics records entitlement, coupon and ad decisions in Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "entitlement_service"

// Recorder holds the service's collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	entitlementChecks *prometheus.CounterVec
	orderSourceErrors prometheus.Counter
	orderCache        *prometheus.CounterVec
	couponValidations *prometheus.CounterVec
	couponLatency     prometheus.Histogram
	adDecisions       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		entitlementChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entitlement",
			Name:      "checks_total",
			Help:      "Entitlement checks by result",
		}, []string{"result"}),
		orderSourceErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "entitlement",
			Name:      "order_source_errors_total",
			Help:      "Failures loading order history",
		}),
		orderCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "order_lookups_total",
			Help:      "Order cache lookups by outcome",
		}, []string{"outcome"}),
		couponValidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coupon",
			Name:      "validations_total",
			Help:      "Coupon validations by outcome",
		}, []string{"outcome"}),
		couponLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coupon",
			Name:      "validation_duration_seconds",
			Help:      "Round trip time of coupon validation calls",
			Buckets:   prometheus.DefBuckets,
		}),
		adDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ads",
			Name:      "decisions_total",
			Help:      "Ad placement decisions by outcome",
		}, []string{"outcome"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method and status",
		}, []string{"method", "status"}),
	}
}

func boolResult(ok bool) string {
	if ok {
		return "entitled"
	}
	return "not_entitled"
}

// EntitlementCheck counts a single product check.
func (r *Recorder) EntitlementCheck(entitled bool) {
	if r == nil {
		return
	}
	r.entitlementChecks.WithLabelValues(boolResult(entitled)).Inc()
}

// OrderSourceError counts a failed order lookup.
func (r *Recorder) OrderSourceError() {
	if r == nil {
		return
	}
	r.orderSourceErrors.Inc()
}

// OrderCacheLookup counts a cache hit or miss.
func (r *Recorder) OrderCacheLookup(hit bool) {
	if r == nil {
		return
	}
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.orderCache.WithLabelValues(outcome).Inc()
}

// CouponValidation records one validation call. outcome is "applied",
// "rejected", "transport_error" or "malformed".
func (r *Recorder) CouponValidation(outcome string, took time.Duration) {
	if r == nil {
		return
	}
	r.couponValidations.WithLabelValues(outcome).Inc()
	r.couponLatency.Observe(took.Seconds())
}

// AdDecision records an ad decision: "shown", "suppressed" or "malformed".
func (r *Recorder) AdDecision(outcome string) {
	if r == nil {
		return
	}
	r.adDecisions.WithLabelValues(outcome).Inc()
}

// HTTPRequest counts a served request.
func (r *Recorder) HTTPRequest(method, status string) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(method, status).Inc()
}

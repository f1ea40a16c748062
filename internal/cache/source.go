package cache

import (
	"context"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

// OrderSource loads a user's order history.
type OrderSource interface {
	OrdersForUser(ctx context.Context, userID string) ([]models.Order, error)
}

// CachedOrderSource reads through cache to next. Cache failures are logged
// and fall through to next; they never fail a lookup.
type CachedOrderSource struct {
	next    OrderSource
	cache   OrderCache
	metrics *metrics.Recorder
}

func NewCachedOrderSource(next OrderSource, cache OrderCache, rec *metrics.Recorder) *CachedOrderSource {
	return &CachedOrderSource{next: next, cache: cache, metrics: rec}
}

func (s *CachedOrderSource) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	log := logging.FromContext(ctx)

	orders, hit, err := s.cache.Get(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("order cache read failed")
	}
	s.metrics.OrderCacheLookup(hit)
	if hit {
		return orders, nil
	}

	orders, err = s.next.OrdersForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, userID, orders); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("order cache write failed")
	}
	return orders, nil
}

// Invalidate drops the cached snapshot for a user, e.g. after a purchase.
func (s *CachedOrderSource) Invalidate(ctx context.Context, userID string) error {
	return s.cache.Invalidate(ctx, userID)
}

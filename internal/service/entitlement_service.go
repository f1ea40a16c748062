package service

import (
	"context"
	"sync"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/concurrency"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/entitlement"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

// OrderSource loads a user's order history (use interfaces to allow mocking).
type OrderSource interface {
	OrdersForUser(ctx context.Context, userID string) ([]models.Order, error)
}

// invalidator is implemented by caching order sources.
type invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type EntitlementService struct {
	orders     OrderSource
	checker    *entitlement.Checker
	metrics    *metrics.Recorder
	batchLimit int
}

func NewEntitlementService(orders OrderSource, checker *entitlement.Checker, rec *metrics.Recorder, batchLimit int) *EntitlementService {
	if checker == nil {
		checker = entitlement.NewChecker(nil)
	}
	if batchLimit <= 0 {
		batchLimit = 1
	}
	return &EntitlementService{
		orders:     orders,
		checker:    checker,
		metrics:    rec,
		batchLimit: batchLimit,
	}
}

func (s *EntitlementService) load(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orders.OrdersForUser(ctx, userID)
	if err != nil {
		s.metrics.OrderSourceError()
		logging.FromContext(ctx).Error().Err(err).Str("user_id", userID).Msg("load orders")
		return nil, &apperr.OrderSourceError{UserID: userID, Err: err}
	}
	return orders, nil
}

// HasValidPurchase reports whether userID currently holds productID. An
// error means the order history could not be read, not a negative answer.
func (s *EntitlementService) HasValidPurchase(ctx context.Context, userID, productID string) (bool, error) {
	orders, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	ok := s.checker.HasValidPurchase(productID, orders)
	s.metrics.EntitlementCheck(ok)
	logging.FromContext(ctx).Debug().
		Str("user_id", userID).
		Str("product_id", productID).
		Int("orders", len(orders)).
		Bool("entitled", ok).
		Msg("entitlement checked")
	return ok, nil
}

// ValidProductIDs lists the products userID is currently entitled to,
// sorted and without duplicates.
func (s *EntitlementService) ValidProductIDs(ctx context.Context, userID string) ([]string, error) {
	orders, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.checker.SortedProductIDs(orders), nil
}

// BatchValidProductIDs runs ValidProductIDs for several users concurrently.
// Duplicate user ids are looked up once. The first failure aborts the batch.
func (s *EntitlementService) BatchValidProductIDs(ctx context.Context, userIDs []string) (map[string][]string, error) {
	unique := make([]string, 0, len(userIDs))
	seen := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	var mu sync.Mutex
	out := make(map[string][]string, len(unique))
	err := concurrency.ForEach(ctx, s.batchLimit, len(unique), func(ctx context.Context, i int) error {
		ids, err := s.ValidProductIDs(ctx, unique[i])
		if err != nil {
			return err
		}
		mu.Lock()
		out[unique[i]] = ids
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Refresh drops any cached order history for userID so the next check sees
// new purchases. It is a no-op for uncached sources.
func (s *EntitlementService) Refresh(ctx context.Context, userID string) error {
	inv, ok := s.orders.(invalidator)
	if !ok {
		return nil
	}
	return inv.Invalidate(ctx, userID)
}

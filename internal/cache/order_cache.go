// Package cache keeps short-lived snapshots of users' order histories. Only
// orders are cached: entitlement is always recomputed from the snapshot
// against the current time.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

// OrderCache stores order snapshots by user id.
type OrderCache interface {
	Get(ctx context.Context, userID string) ([]models.Order, bool, error)
	Set(ctx context.Context, userID string, orders []models.Order) error
	Invalidate(ctx context.Context, userID string) error
}

// MemoryOrderCache is an in-process, size-bounded cache with a fixed TTL.
type MemoryOrderCache struct {
	store *expirable.LRU[string, []models.Order]
}

func NewMemoryOrderCache(size int, ttl time.Duration) *MemoryOrderCache {
	if size <= 0 {
		size = 1024
	}
	return &MemoryOrderCache{
		store: expirable.NewLRU[string, []models.Order](size, nil, ttl),
	}
}

func (c *MemoryOrderCache) Get(_ context.Context, userID string) ([]models.Order, bool, error) {
	orders, ok := c.store.Get(userID)
	if !ok {
		return nil, false, nil
	}
	return cloneOrders(orders), true, nil
}

func (c *MemoryOrderCache) Set(_ context.Context, userID string, orders []models.Order) error {
	c.store.Add(userID, cloneOrders(orders))
	return nil
}

func (c *MemoryOrderCache) Invalidate(_ context.Context, userID string) error {
	c.store.Remove(userID)
	return nil
}

func cloneOrders(orders []models.Order) []models.Order {
	out := make([]models.Order, len(orders))
	copy(out, orders)
	return out
}

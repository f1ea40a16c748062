// Package entitlement decides which paid products a user can currently use,
// based on the user's order history. All functions are pure over their
// inputs and the current instant: nothing is cached, because an order can
// expire between two calls without any local event.
//
// Bad data never produces an error here. Missing orders, unknown payment
// states and unparseable expiry timestamps all resolve to "not entitled".
package entitlement

import (
	"sort"
	"strings"
	"time"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

// validUntilLayouts lists the accepted expiry formats, most specific first.
// Timestamps without a zone are read as UTC.
var validUntilLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Checker evaluates orders against a clock.
type Checker struct {
	now func() time.Time
}

// NewChecker returns a Checker reading time from now. A nil now uses the
// wall clock.
func NewChecker(now func() time.Time) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{now: now}
}

var defaultChecker = NewChecker(nil)

// HasValidPurchase reports whether orders contain a completed, unexpired
// purchase of productID. Uses the wall clock.
func HasValidPurchase(productID string, orders []models.Order) bool {
	return defaultChecker.HasValidPurchase(productID, orders)
}

// ValidProductIDs returns the set of product ids with a completed, unexpired
// order. Uses the wall clock.
func ValidProductIDs(orders []models.Order) map[string]struct{} {
	return defaultChecker.ValidProductIDs(orders)
}

// HasValidPurchase reports whether orders contain a completed, unexpired
// purchase of productID.
func (c *Checker) HasValidPurchase(productID string, orders []models.Order) bool {
	now := c.now()
	for _, o := range orders {
		if o.ProductID == productID && IsActive(o, now) {
			return true
		}
	}
	return false
}

// ValidProductIDs returns the deduplicated set of product ids that are
// currently entitled. The result is never nil.
func (c *Checker) ValidProductIDs(orders []models.Order) map[string]struct{} {
	now := c.now()
	ids := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if IsActive(o, now) {
			ids[o.ProductID] = struct{}{}
		}
	}
	return ids
}

// SortedProductIDs is ValidProductIDs as a sorted slice, for stable output.
func (c *Checker) SortedProductIDs(orders []models.Order) []string {
	set := c.ValidProductIDs(orders)
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// IsActive reports whether a single order grants entitlement at now: the
// payment completed and the expiry is not before now. An expiry that
// cannot be parsed counts as already expired.
func IsActive(o models.Order, now time.Time) bool {
	if o.PaymentStatus != models.PaymentCompleted {
		return false
	}
	until, ok := ParseValidUntil(o.ValidUntil)
	if !ok {
		return false
	}
	return !until.Before(now)
}

// ParseValidUntil parses an order expiry timestamp. ok is false for empty
// or unrecognised input.
func ParseValidUntil(s string) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range validUntilLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

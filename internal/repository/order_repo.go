package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// OrdersForUser returns every order of a user, whatever its status.
// valid_until is read as text; timestamp columns are rendered as RFC 3339 in
// UTC and anything else is passed through unchanged, so a malformed value
// reaches the entitlement checker instead of failing the fetch. A NULL
// expiry becomes an empty string, which the checker treats as expired.
func (r *OrderRepo) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	query := `
		SELECT product_id, payment_status, valid_until
		FROM orders
		WHERE user_id = $1
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		var status string
		var validUntil any
		if err := rows.Scan(&o.ProductID, &status, &validUntil); err != nil {
			return nil, err
		}
		o.PaymentStatus = models.PaymentStatus(status)
		o.ValidUntil = expiryText(validUntil)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func expiryText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

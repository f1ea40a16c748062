package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/entitlement"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

var ordersQuery = regexp.QuoteMeta(`SELECT product_id, payment_status, valid_until`)

func TestOrdersForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(ordersQuery).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "payment_status", "valid_until"}).
			AddRow("jee-predictor", "completed", time.Date(2999, 1, 1, 5, 30, 0, 0, time.FixedZone("IST", 19800))).
			AddRow("neet-predictor", "pending", nil))

	orders, err := NewOrderRepo(db).OrdersForUser(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, []models.Order{
		{ProductID: "jee-predictor", PaymentStatus: models.PaymentCompleted, ValidUntil: "2999-01-01T00:00:00Z"},
		{ProductID: "neet-predictor", PaymentStatus: models.PaymentPending, ValidUntil: ""},
	}, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersForUserTextExpiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(ordersQuery).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "payment_status", "valid_until"}).
			AddRow("p1", "completed", []byte("2999-01-01")).
			AddRow("p2", "completed", []byte("garbage")).
			AddRow("p3", "completed", "2999-06-30T10:00:00+05:30"))

	orders, err := NewOrderRepo(db).OrdersForUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, []models.Order{
		{ProductID: "p1", PaymentStatus: models.PaymentCompleted, ValidUntil: "2999-01-01"},
		{ProductID: "p2", PaymentStatus: models.PaymentCompleted, ValidUntil: "garbage"},
		{ProductID: "p3", PaymentStatus: models.PaymentCompleted, ValidUntil: "2999-06-30T10:00:00+05:30"},
	}, orders)

	checker := entitlement.NewChecker(func() time.Time { return time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) })
	assert.Equal(t, []string{"p1", "p3"}, checker.SortedProductIDs(orders))
	assert.False(t, checker.HasValidPurchase("p2", orders))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrdersForUserNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(ordersQuery).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "payment_status", "valid_until"}))

	orders, err := NewOrderRepo(db).OrdersForUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
}

func TestOrdersForUserQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery(ordersQuery).WithArgs("user-1").WillReturnError(boom)

	_, err = NewOrderRepo(db).OrdersForUser(context.Background(), "user-1")
	assert.ErrorIs(t, err, boom)
}

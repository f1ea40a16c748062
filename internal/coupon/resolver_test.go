package coupon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

func pricingServer(t *testing.T, status int, body string) (*httptest.Server, *models.CouponValidationRequest) {
	t.Helper()
	var got models.CouponValidationRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ValidatePath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestValidateSuccessReturnsDataUnchanged(t *testing.T) {
	srv, got := pricingServer(t, http.StatusOK,
		`{"success":true,"data":{"couponCode":"SAVE10","discountAmount":100,"finalPrice":900,"originalPrice":1000}}`)

	res, err := NewResolver(srv.URL).Validate(context.Background(), "SAVE10", "jee-predictor")
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", got.Code)
	assert.Equal(t, "jee-predictor", got.ProductID)

	assert.Equal(t, "SAVE10", res.CouponCode)
	assert.True(t, decimal.NewFromInt(100).Equal(res.DiscountAmount))
	assert.True(t, decimal.NewFromInt(900).Equal(res.FinalPrice))
	assert.True(t, decimal.NewFromInt(1000).Equal(res.OriginalPrice))
}

func TestValidateFractionalPrices(t *testing.T) {
	srv, _ := pricingServer(t, http.StatusOK,
		`{"success":true,"data":{"couponCode":"HALF","discountAmount":"249.75","finalPrice":249.75,"originalPrice":499.5}}`)

	res, err := NewResolver(srv.URL).Validate(context.Background(), "HALF", "p1")
	require.NoError(t, err)
	assert.Equal(t, "249.75", res.FinalPrice.String())
}

func TestValidateServerMessage(t *testing.T) {
	srv, _ := pricingServer(t, http.StatusOK, `{"success":false,"message":"Coupon expired"}`)

	_, err := NewResolver(srv.URL).Validate(context.Background(), "OLD", "p1")
	require.Error(t, err)
	assert.Equal(t, "Coupon expired", err.Error())
	assert.True(t, apperr.IsCouponInvalid(err))
	assert.False(t, apperr.IsTransport(err))
}

func TestValidateServerMessageOnClientErrorStatus(t *testing.T) {
	srv, _ := pricingServer(t, http.StatusBadRequest, `{"success":false,"message":"Coupon not applicable to this product"}`)

	_, err := NewResolver(srv.URL).Validate(context.Background(), "SAVE10", "p2")
	require.Error(t, err)
	assert.Equal(t, "Coupon not applicable to this product", err.Error())
}

func TestValidateFallbackMessage(t *testing.T) {
	srv, _ := pricingServer(t, http.StatusOK, `{"success":false}`)

	_, err := NewResolver(srv.URL).Validate(context.Background(), "SAVE10", "p1")
	require.Error(t, err)
	assert.Equal(t, "Failed to validate coupon", err.Error())
	assert.True(t, apperr.IsCouponInvalid(err))
}

func TestValidateTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewResolver(url).Validate(context.Background(), "SAVE10", "p1")
	require.Error(t, err)
	assert.Equal(t, apperr.DefaultCouponMessage, err.Error())
	assert.True(t, apperr.IsCouponInvalid(err))
	assert.True(t, apperr.IsTransport(err))

	var ci *apperr.CouponInvalidError
	require.ErrorAs(t, err, &ci)
	assert.NotNil(t, ci.Err, "cause is preserved for logging")
}

func TestValidateUpstreamErrorWithoutEnvelope(t *testing.T) {
	srv, _ := pricingServer(t, http.StatusBadGateway, `<html>bad gateway</html>`)

	_, err := NewResolver(srv.URL).Validate(context.Background(), "SAVE10", "p1")
	require.Error(t, err)
	assert.Equal(t, apperr.DefaultCouponMessage, err.Error())
	assert.True(t, apperr.IsTransport(err))
	assert.False(t, apperr.IsMalformedPayload(err))
}

func TestValidateMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `ok`},
		{"success without data", `{"success":true}`},
		{"negative final price", `{"success":true,"data":{"couponCode":"X","discountAmount":1100,"finalPrice":-100,"originalPrice":1000}}`},
		{"breakdown does not add up", `{"success":true,"data":{"couponCode":"X","discountAmount":100,"finalPrice":950,"originalPrice":1000}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := pricingServer(t, http.StatusOK, tt.body)

			_, err := NewResolver(srv.URL).Validate(context.Background(), "X", "p1")
			require.Error(t, err)
			assert.Equal(t, apperr.DefaultCouponMessage, err.Error())
			assert.True(t, apperr.IsCouponInvalid(err))
			assert.True(t, apperr.IsMalformedPayload(err))
		})
	}
}

func TestValidateBlankCodeSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := NewResolver(srv.URL).Validate(context.Background(), "   ", "p1")
	require.Error(t, err)
	assert.True(t, apperr.IsCouponInvalid(err))
	assert.Equal(t, int32(0), calls.Load())
}

func TestValidateSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer s3cret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
	}))
	defer srv.Close()

	_, err := NewResolver(srv.URL+"/", WithBearerToken("s3cret")).Validate(context.Background(), "SAVE10", "p1")
	require.Error(t, err)
	assert.Equal(t, "nope", err.Error())
}

func TestValidateHonoursContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewResolver(srv.URL).Validate(ctx, "SAVE10", "p1")
	require.Error(t, err)
	assert.True(t, apperr.IsTransport(err))
	assert.ErrorIs(t, err, context.Canceled)
}

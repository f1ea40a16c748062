// Package coupon asks the remote pricing service to validate a coupon for a
// product. The pricing service is the only source of discount math; this
// package never recomputes or defaults a discount, and it never retries.
package coupon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

// ValidatePath is the pricing service endpoint.
const ValidatePath = "/api/coupons/validate"

// DefaultTimeout bounds a single validation call when no client is supplied.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of the pricing response is read.
const maxResponseBytes = 1 << 20

// Doer is the subset of *http.Client used by the resolver.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver validates coupons against the pricing service.
type Resolver struct {
	baseURL string
	token   string
	http    Doer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(r *Resolver) { r.http = d }
}

// WithBearerToken sends token as an Authorization header.
func WithBearerToken(token string) Option {
	return func(r *Resolver) { r.token = token }
}

// NewResolver creates a Resolver for the pricing service at baseURL.
func NewResolver(baseURL string, opts ...Option) *Resolver {
	r := &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Validate submits code and productID to the pricing service. On success it
// returns the service's pricing data unchanged. Every failure is an
// *apperr.CouponInvalidError: the server message when one was sent,
// otherwise apperr.DefaultCouponMessage with the cause attached.
func (r *Resolver) Validate(ctx context.Context, code, productID string) (models.CouponValidationResponse, error) {
	if strings.TrimSpace(code) == "" {
		return models.CouponValidationResponse{}, apperr.NewCouponInvalid("Coupon code is required")
	}

	body, err := json.Marshal(models.CouponValidationRequest{Code: code, ProductID: productID})
	if err != nil {
		return models.CouponValidationResponse{}, apperr.NewCouponTransport(errors.Wrap(err, "encode request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+ValidatePath, bytes.NewReader(body))
	if err != nil {
		return models.CouponValidationResponse{}, apperr.NewCouponTransport(errors.Wrap(err, "create request"))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return models.CouponValidationResponse{}, apperr.NewCouponTransport(errors.Wrap(err, "post coupon validation"))
	}
	defer func() { _ = resp.Body.Close() }()

	env, err := decodeEnvelope(resp)
	if err != nil {
		return models.CouponValidationResponse{}, err
	}

	if !env.Success {
		return models.CouponValidationResponse{}, apperr.NewCouponInvalid(env.Message)
	}

	if err := checkPricing(env.Data); err != nil {
		return models.CouponValidationResponse{}, &apperr.CouponInvalidError{
			Message: apperr.DefaultCouponMessage,
			Err:     err,
		}
	}
	return *env.Data, nil
}

// decodeEnvelope reads the pricing response. Rejections are often sent with
// a 4xx status and a normal envelope, so the body is decoded before the
// status is considered.
func decodeEnvelope(resp *http.Response) (models.CouponEnvelope, error) {
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return models.CouponEnvelope{}, apperr.NewCouponTransport(errors.Wrap(err, "read response body"))
	}

	var env models.CouponEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return models.CouponEnvelope{}, apperr.NewCouponTransport(
				errors.Errorf("pricing service status %d", resp.StatusCode))
		}
		return models.CouponEnvelope{}, apperr.NewCouponTransport(
			apperr.NewMalformedPayload("coupon", "", "response is not a coupon envelope", err))
	}

	if env.Success && resp.StatusCode >= 300 {
		return models.CouponEnvelope{}, apperr.NewCouponTransport(
			errors.Errorf("pricing service status %d with success envelope", resp.StatusCode))
	}
	return env, nil
}

// checkPricing rejects a success envelope whose data cannot be shown as a
// price: missing data, a negative final price, or a breakdown that does not
// add up. The pricing service owns the discount arithmetic and is expected
// to send finalPrice exactly equal to originalPrice - discountAmount; no
// rounding tolerance is applied here.
func checkPricing(data *models.CouponValidationResponse) error {
	if data == nil {
		return apperr.NewMalformedPayload("coupon", "data", "missing on success", nil)
	}
	if data.FinalPrice.IsNegative() {
		return apperr.NewMalformedPayload("coupon", "finalPrice", "negative", nil)
	}
	if !data.OriginalPrice.Sub(data.DiscountAmount).Equal(data.FinalPrice) {
		return apperr.NewMalformedPayload("coupon", "finalPrice", "does not equal originalPrice - discountAmount", nil)
	}
	return nil
}

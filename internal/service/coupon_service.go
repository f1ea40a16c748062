package service

import (
	"context"
	"time"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/metrics"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
)

// CouponResolver is implemented by *coupon.Resolver.
type CouponResolver interface {
	Validate(ctx context.Context, code, productID string) (models.CouponValidationResponse, error)
}

type CouponService struct {
	resolver CouponResolver
	metrics  *metrics.Recorder
	now      func() time.Time
}

func NewCouponService(resolver CouponResolver, rec *metrics.Recorder) *CouponService {
	return &CouponService{resolver: resolver, metrics: rec, now: time.Now}
}

// ValidateCoupon forwards to the pricing service. Errors are returned as
// they come so the caller can show the message; nothing is retried.
func (s *CouponService) ValidateCoupon(ctx context.Context, code, productID string) (models.CouponValidationResponse, error) {
	start := s.now()
	res, err := s.resolver.Validate(ctx, code, productID)
	took := s.now().Sub(start)

	log := logging.FromContext(ctx)
	outcome := "applied"
	switch {
	case err == nil:
		log.Info().
			Str("coupon_code", res.CouponCode).
			Str("product_id", productID).
			Str("discount", res.DiscountAmount.String()).
			Str("final_price", res.FinalPrice.String()).
			Msg("coupon applied")
	case apperr.IsMalformedPayload(err):
		outcome = "malformed"
		log.Error().Err(err).Str("product_id", productID).Msg("pricing service returned a malformed payload")
	case apperr.IsTransport(err):
		outcome = "transport_error"
		log.Error().Err(err).Str("product_id", productID).Msg("pricing service unreachable")
	default:
		outcome = "rejected"
		log.Info().Str("product_id", productID).Str("reason", err.Error()).Msg("coupon rejected")
	}
	s.metrics.CouponValidation(outcome, took)
	return res, err
}

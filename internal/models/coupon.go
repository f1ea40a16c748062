package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type CouponValidationRequest struct {
	Code      string `json:"code"`
	ProductID string `json:"productId"`
}

// CouponValidationResponse is the pricing breakdown computed by the remote
// pricing service. It is passed through untouched.
type CouponValidationResponse struct {
	CouponCode     string          `json:"couponCode"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
	OriginalPrice  decimal.Decimal `json:"originalPrice"`
}

// MarshalJSON writes the amounts as JSON numbers, the way the pricing
// service sends them.
func (r CouponValidationResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CouponCode     string      `json:"couponCode"`
		DiscountAmount json.Number `json:"discountAmount"`
		FinalPrice     json.Number `json:"finalPrice"`
		OriginalPrice  json.Number `json:"originalPrice"`
	}{
		CouponCode:     r.CouponCode,
		DiscountAmount: json.Number(r.DiscountAmount.String()),
		FinalPrice:     json.Number(r.FinalPrice.String()),
		OriginalPrice:  json.Number(r.OriginalPrice.String()),
	})
}

// CouponEnvelope is the wire shape of the pricing service response.
type CouponEnvelope struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message,omitempty"`
	Data    *CouponValidationResponse `json:"data,omitempty"`
}

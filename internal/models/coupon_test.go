package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponEnvelopeWritesNumbers(t *testing.T) {
	env := CouponEnvelope{
		Success: true,
		Data: &CouponValidationResponse{
			CouponCode:     "SAVE10",
			DiscountAmount: decimal.RequireFromString("99.5"),
			FinalPrice:     decimal.RequireFromString("900.5"),
			OriginalPrice:  decimal.NewFromInt(1000),
		},
	}

	out, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":{"couponCode":"SAVE10","discountAmount":99.5,"finalPrice":900.5,"originalPrice":1000}}`, string(out))

	var back CouponEnvelope
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, env.Data.FinalPrice.Equal(back.Data.FinalPrice))
}

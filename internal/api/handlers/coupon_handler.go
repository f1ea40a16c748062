package handlers

import (
	"net/http"
	"strings"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/models"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/service"
)

type CouponHandler struct {
	service *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{service: svc}
}

// ValidateCoupon handles POST /coupons/validate
// Responds with the pricing service envelope. On failure the message is
// meant to be shown as is and the price left unchanged.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req models.CouponValidationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.CouponEnvelope{Message: "Invalid request body"})
		return
	}
	if strings.TrimSpace(req.ProductID) == "" {
		writeJSON(w, http.StatusBadRequest, models.CouponEnvelope{Message: "productId is required"})
		return
	}

	res, err := h.service.ValidateCoupon(r.Context(), req.Code, req.ProductID)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if apperr.IsTransport(err) || apperr.IsMalformedPayload(err) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, models.CouponEnvelope{Message: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.CouponEnvelope{Success: true, Data: &res})
}

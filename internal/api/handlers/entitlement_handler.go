package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/logging"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/service"
)

// maxBatchUsers caps POST /entitlements/batch.
const maxBatchUsers = 100

type ProductsResponse struct {
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
}

type CheckResponse struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Entitled  bool   `json:"entitled"`
}

type BatchRequestBody struct {
	UserIDs []string `json:"user_ids"`
}

type BatchResponse struct {
	Results map[string][]string `json:"results"`
}

type EntitlementHandler struct {
	service *service.EntitlementService
}

func NewEntitlementHandler(svc *service.EntitlementService) *EntitlementHandler {
	return &EntitlementHandler{service: svc}
}

func (h *EntitlementHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, apperr.ErrOrderSource) {
		writeError(w, http.StatusServiceUnavailable, "order_source_unavailable")
		return
	}
	logging.FromContext(r.Context()).Error().Err(err).Msg("entitlement lookup failed")
	writeError(w, http.StatusInternalServerError, "internal_error")
}

// ListProducts handles GET /entitlements/{user_id}
func (h *EntitlementHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	ids, err := h.service.ValidProductIDs(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ProductsResponse{UserID: userID, ProductIDs: ids})
}

// CheckProduct handles GET /entitlements/{user_id}/products/{product_id}
func (h *EntitlementHandler) CheckProduct(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	productID := chi.URLParam(r, "product_id")

	ok, err := h.service.HasValidPurchase(r.Context(), userID, productID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CheckResponse{UserID: userID, ProductID: productID, Entitled: ok})
}

// Refresh handles POST /entitlements/{user_id}/refresh
// called by checkout after a payment completes
func (h *EntitlementHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context(), chi.URLParam(r, "user_id")); err != nil {
		logging.FromContext(r.Context()).Warn().Err(err).Msg("refresh order cache")
		writeError(w, http.StatusServiceUnavailable, "cache_unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Batch handles POST /entitlements/batch
func (h *EntitlementHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequestBody
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}
	if len(req.UserIDs) == 0 {
		writeError(w, http.StatusBadRequest, "user_ids required")
		return
	}
	if len(req.UserIDs) > maxBatchUsers {
		writeError(w, http.StatusBadRequest, "too_many_user_ids")
		return
	}
	for _, id := range req.UserIDs {
		if strings.TrimSpace(id) == "" {
			writeError(w, http.StatusBadRequest, "empty user_id")
			return
		}
	}

	results, err := h.service.BatchValidProductIDs(r.Context(), req.UserIDs)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BatchResponse{Results: results})
}

package handlers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/admissions-entitlement-service/internal/apperr"
	"github.com/Cheertaboi/admissions-entitlement-service/internal/service"
)

type AdHandler struct {
	service *service.AdService
}

func NewAdHandler(svc *service.AdService) *AdHandler {
	return &AdHandler{service: svc}
}

// Decide handles POST /sessions/{session_id}/ads/decide
// The body is the placement exactly as the content backend sent it.
func (h *AdHandler) Decide(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	decision, err := h.service.Decide(r.Context(), chi.URLParam(r, "session_id"), body)
	if err != nil {
		if apperr.IsMalformedPayload(err) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
				"error":  "malformed_payload",
				"detail": err.Error(),
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

// EndSession handles DELETE /sessions/{session_id}
func (h *AdHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	h.service.EndSession(chi.URLParam(r, "session_id"))
	w.WriteHeader(http.StatusNoContent)
}

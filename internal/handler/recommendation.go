package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/actuallystonmai/moodtune-service/internal/logging"
	"github.com/actuallystonmai/moodtune-service/internal/service"
)

const maxBodyBytes = 1 << 20

// POST /api/recommendations
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON")
		return
	}
	if req.Confidence < 0 || req.Confidence > 1 {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Confidence must be between 0 and 1")
		return
	}

	result, err := h.service.Recommend(r.Context(), service.RecommendInput{
		Emotion:    req.Emotion,
		Confidence: req.Confidence,
		SessionKey: sessionKey(r),
	})
	if err != nil {
		// Song catalog unreachable
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "catalog_unavailable",
				"Song catalog is temporarily unavailable")
			return
		}
		// Mood classifier not loaded
		if errors.Is(err, domain.ErrClassifierUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "model_unavailable",
				"Recommendation model is temporarily unavailable")
			return
		}
		// Request timeout
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		logging.Error().Err(err).Msg("recommend failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationResponse{
		RecommendationResult: result,
		ResponseTime:         result.ResponseTime.Seconds(),
	})
}

// POST /api/reset-history
func (h *Handler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.ResetHistory(r.Context(), sessionKey(r))
	if err != nil {
		logging.Error().Err(err).Msg("reset history failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	if found {
		writeJSON(w, http.StatusOK, ResetResponse{Message: "History reset for your session", Reset: true})
		return
	}
	writeJSON(w, http.StatusOK, ResetResponse{Message: "No history found", Reset: false})
}

// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Health(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

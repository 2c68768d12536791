package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/actuallystonmai/moodtune-service/internal/domain"
	"github.com/actuallystonmai/moodtune-service/internal/logging"
	"github.com/go-chi/chi/v5"
)

// GET /api/recently-played/{userID}
func (h *Handler) ListRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	songs, err := h.service.ListRecentlyPlayed(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Invalid userID parameter")
			return
		}
		logging.Error().Err(err).Msg("list recently played failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, RecentlyPlayedResponse{Success: true, Songs: songs})
}

// POST /api/recently-played
func (h *Handler) AddRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	var req RecentlyPlayedRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be JSON")
		return
	}
	if req.Song == nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing required fields")
		return
	}

	err := h.service.AddRecentlyPlayed(r.Context(), domain.RecentlyPlayed{
		UserID:   req.UserID,
		Filename: req.Song.Filename,
		Title:    req.Song.Title,
		Artist:   req.Song.Artist,
		Language: req.Song.Language,
		Emotion:  req.Song.Emotion,
		Source:   req.Song.Source,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "Missing required fields")
			return
		}
		logging.Error().Err(err).Msg("save recently played failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
		return
	}

	writeJSON(w, http.StatusOK, RecentlyPlayedResponse{Success: true, Message: "Recently played saved"})
}

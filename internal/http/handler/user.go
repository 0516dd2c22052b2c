package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Guruganeshkannan/Afterlife/internal/ai"
	"github.com/Guruganeshkannan/Afterlife/internal/http/middleware"
	"github.com/Guruganeshkannan/Afterlife/internal/service"
)

// UserHandler provides the authenticated user endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler builds a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type trainProfileRequest struct {
	WritingSamples []string `json:"writing_samples"`
}

// TrainProfile handles POST /api/users/profile/train.
func (h *UserHandler) TrainProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req trainProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.WritingSamples) == 0 {
		writeError(w, http.StatusBadRequest, "writing_samples is required")
		return
	}

	profile, err := h.users.TrainPersonalityProfile(r.Context(), userID, req.WritingSamples)
	if err != nil {
		if errors.Is(err, ai.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "profile generation failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Me handles GET /api/users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get user failed")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

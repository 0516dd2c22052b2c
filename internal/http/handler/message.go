package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Guruganeshkannan/Afterlife/internal/http/middleware"
	"github.com/Guruganeshkannan/Afterlife/internal/service"
)

// MessageHandler provides the authenticated message CRUD endpoints.
type MessageHandler struct {
	svc *service.MessageService
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// Create handles POST /api/messages.
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var in service.MessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateInput(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedDeliveryMethod) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "create message failed")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// List handles GET /api/messages.
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	page := parseIntDefault(r.URL.Query().Get("page"), 1)
	limit := parseIntDefault(r.URL.Query().Get("limit"), 20)

	result, err := h.svc.List(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list messages failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /api/messages/{id}.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	msg, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "get message failed")
		return
	}

	writeJSON(w, http.StatusOK, msg)
}

// Update handles PUT /api/messages/{id}.
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	var in service.MessageInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateInput(in); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := h.svc.Update(r.Context(), userID, id, in)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			writeError(w, http.StatusNotFound, "message not found")
		case errors.Is(err, service.ErrUnsupportedDeliveryMethod):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "update message failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/messages/{id}.
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, id, ok := h.requestIDs(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeError(w, http.StatusNotFound, "message not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "delete message failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *MessageHandler) requestIDs(w http.ResponseWriter, r *http.Request) (userID, id uuid.UUID, ok bool) {
	userID, authed := middleware.UserID(r.Context())
	if !authed {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid message id")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, id, true
}

func validateInput(in service.MessageInput) string {
	if in.Title == "" {
		return "title is required"
	}
	if in.Content == "" {
		return "content is required"
	}
	if in.DeliveryAt.IsZero() {
		return "delivery_date is required"
	}
	return ""
}

func parseIntDefault(value string, def int) int {
	if value == "" {
		return def
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return def
}

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tweetsched/tweetsched/internal/tweet"
	"github.com/tweetsched/tweetsched/pkg/logger"
)

// Handler exposes the scheduling operations over HTTP.
type Handler struct {
	svc *tweet.Service
	log *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(svc *tweet.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

type scheduleRequest struct {
	Text        string `json:"text"`
	ScheduledAt string `json:"scheduled_at"`
}

// scheduleTweet handles POST /api/schedule-tweet.
func (h *Handler) scheduleTweet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, JSONResponse{Error: &ErrorDetail{Code: "unauthorized"}})
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, "malformed request body")
		return
	}
	if req.ScheduledAt == "" {
		writeValidationError(w, "scheduled_at is required")
		return
	}

	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		writeValidationError(w, "scheduled_at must be an RFC 3339 timestamp")
		return
	}

	t, err := h.svc.Schedule(r.Context(), ownerID, req.Text, scheduledAt)
	if err != nil {
		h.log.ErrorContext(r.Context(), "schedule tweet failed", logger.UserID(ownerID), logger.Error(err))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, t)
}

// listScheduled handles GET /api/scheduled-tweets.
func (h *Handler) listScheduled(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, JSONResponse{Error: &ErrorDetail{Code: "unauthorized"}})
		return
	}

	tweets, err := h.svc.ListPending(r.Context(), ownerID)
	if err != nil {
		h.log.ErrorContext(r.Context(), "list scheduled tweets failed", logger.UserID(ownerID), logger.Error(err))
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, tweets)
}

// deleteScheduled handles DELETE /api/scheduled-tweet/{id}.
func (h *Handler) deleteScheduled(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, JSONResponse{Error: &ErrorDetail{Code: "unauthorized"}})
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		// An unparseable id can't name an existing tweet.
		writeError(w, tweet.ErrNotFound)
		return
	}

	if err := h.svc.Cancel(r.Context(), ownerID, id); err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, map[string]string{"message": "Tweet deleted"})
}

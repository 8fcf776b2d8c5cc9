package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/abutolibrashidov/vocabbot/internal/api/shared"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
)

// QuizBroadcaster dispatches quizzes to one user or to everyone.
type QuizBroadcaster interface {
	// Broadcast sends to all known users, respecting the daily quota,
	// and returns how many quizzes went out.
	Broadcast(ctx context.Context) (int, error)

	// SendTo sends directly to one user, bypassing the quota.
	SendTo(ctx context.Context, userID string) error
}

// triggerRequest is the payload external schedulers POST.
type triggerRequest struct {
	Secret string `json:"secret"`
	UserID string `json:"user_id,omitempty"`
}

// TriggerHandler lets an external scheduler (cron, CI workflow) kick off
// quiz dispatch, authenticated with a shared secret.
type TriggerHandler struct {
	secret      string
	broadcaster QuizBroadcaster
	logger      *slog.Logger
}

// NewTriggerHandler creates the trigger endpoint handler.
func NewTriggerHandler(secret string, broadcaster QuizBroadcaster, log *slog.Logger) *TriggerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TriggerHandler{
		secret:      secret,
		broadcaster: broadcaster,
		logger:      log.With(slog.String("component", "trigger_handler")),
	}
}

// ServeHTTP authenticates the request and dispatches to one user when
// user_id is present, otherwise to everyone under quota.
func (h *TriggerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	if h.secret == "" {
		shared.RespondWithError(w, r, http.StatusInternalServerError, "trigger secret not configured on server")
		return
	}

	var req triggerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.secret)) != 1 {
		log.Warn("trigger request with bad secret",
			slog.String("remote_addr", r.RemoteAddr))
		shared.RespondWithError(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}

	if req.UserID != "" {
		if err := h.broadcaster.SendTo(r.Context(), req.UserID); err != nil {
			log.Warn("targeted quiz dispatch failed",
				slog.String("user_id", req.UserID),
				slog.String("error", err.Error()))
			shared.RespondWithError(w, r, http.StatusBadRequest, "invalid user_id")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
			"status":  "ok",
			"sent_to": req.UserID,
		})
		return
	}

	sent, err := h.broadcaster.Broadcast(r.Context())
	if err != nil {
		log.Error("broadcast failed",
			slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "broadcast failed")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]any{
		"status":     "ok",
		"sent_count": sent,
	})
}

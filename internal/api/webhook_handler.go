package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
)

// UpdateDispatcher routes one decoded Telegram update.
type UpdateDispatcher interface {
	Dispatch(ctx context.Context, update tgbotapi.Update)
}

// WebhookHandler receives Telegram webhook POSTs.
type WebhookHandler struct {
	dispatcher UpdateDispatcher
	logger     *slog.Logger
}

// NewWebhookHandler creates the webhook endpoint handler.
func NewWebhookHandler(dispatcher UpdateDispatcher, log *slog.Logger) *WebhookHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WebhookHandler{
		dispatcher: dispatcher,
		logger:     log.With(slog.String("component", "webhook_handler")),
	}
}

// ServeHTTP decodes the update and dispatches it. Malformed payloads
// are logged and acknowledged with 200 anyway; a non-2xx answer would
// make Telegram redeliver the same broken update indefinitely.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Error("failed to decode webhook update",
			slog.String("error", err.Error()))
		w.WriteHeader(http.StatusOK)
		return
	}

	h.dispatcher.Dispatch(r.Context(), update)
	w.WriteHeader(http.StatusOK)
}

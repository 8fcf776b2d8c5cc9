package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/abutolibrashidov/vocabbot/internal/api"
	apimiddleware "github.com/abutolibrashidov/vocabbot/internal/api/middleware"
	"github.com/abutolibrashidov/vocabbot/internal/platform/telegram"
)

// setupRouter builds the HTTP routing table: the Telegram webhook, the
// scheduler trigger, and the liveness root.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(apimiddleware.Trace)

	webhookHandler := api.NewWebhookHandler(app.dispatcher, app.logger)
	triggerHandler := api.NewTriggerHandler(app.config.Telegram.TriggerSecret, app.broadcaster, app.logger)

	r.Get("/", api.NewHealthHandler().ServeHTTP)
	r.Post(telegram.WebhookPath(app.config.Telegram.Token), webhookHandler.ServeHTTP)
	r.Post("/trigger_quiz", triggerHandler.ServeHTTP)

	return r
}

// Package main implements the vocabulary trainer server: a Telegram
// webhook bot serving word lookups, phrase browsing, and poll-based
// quizzes, plus an HTTP trigger for scheduled quiz broadcasts.
package main

import (
	"context"
	"log"
	"log/slog"
)

func main() {
	app, err := newApplication(context.Background())
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.registerWebhook(); err != nil {
		slog.Error("webhook registration failed", slog.String("error", err.Error()))
	}

	if err := app.startHTTPServer(context.Background()); err != nil {
		log.Fatalf("server terminated: %v", err)
	}
}

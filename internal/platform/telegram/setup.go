package telegram

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// WebhookPath returns the path Telegram will POST updates to. The bot
// token in the path keeps the endpoint unguessable.
func WebhookPath(token string) string {
	return "/webhook/" + token
}

// RegisterWebhook points Telegram at publicURL and publishes the bot
// command list. A missing public URL skips registration so the process
// can still serve manually configured webhooks.
func RegisterWebhook(api sender, publicURL, token string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	if publicURL == "" {
		log.Warn("public URL not configured, skipping webhook registration")
		return nil
	}

	url := strings.TrimRight(publicURL, "/") + WebhookPath(token)

	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		log.Warn("failed to remove previous webhook",
			slog.String("error", err.Error()))
	}

	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return fmt.Errorf("building webhook config: %w", err)
	}
	if _, err := api.Request(wh); err != nil {
		return fmt.Errorf("registering webhook: %w", err)
	}
	log.Info("webhook registered", slog.String("url", strings.TrimSuffix(url, token)+"<token>"))

	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start the bot"},
		tgbotapi.BotCommand{Command: "quiz", Description: "Take a quiz"},
	)
	if _, err := api.Request(commands); err != nil {
		log.Warn("failed to publish bot commands",
			slog.String("error", err.Error()))
	}
	return nil
}

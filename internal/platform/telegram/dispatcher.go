package telegram

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abutolibrashidov/vocabbot/internal/bot"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
)

// callbackPhrasePrefix tags phrase-topic selections in callback data.
const callbackPhrasePrefix = "phrase:"

// Dispatcher converts decoded Telegram updates into orchestrator calls.
type Dispatcher struct {
	service *bot.Service
	api     sender
	logger  *slog.Logger
}

// NewDispatcher creates an update dispatcher. The API client is used to
// acknowledge callback queries; it may share the channel's client.
func NewDispatcher(service *bot.Service, api sender, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		service: service,
		api:     api,
		logger:  log.With(slog.String("component", "telegram_dispatcher")),
	}
}

// Dispatch routes one update. Updates the bot does not understand are
// dropped; handler errors are logged and swallowed so that Telegram does
// not retry the update forever.
func (d *Dispatcher) Dispatch(ctx context.Context, update tgbotapi.Update) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	var err error
	switch {
	case update.Message != nil:
		err = d.dispatchMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = d.dispatchCallback(ctx, update.CallbackQuery)
	case update.PollAnswer != nil:
		err = d.dispatchPollAnswer(ctx, update.PollAnswer)
	default:
		log.Debug("ignoring update without actionable payload",
			slog.Int("update_id", update.UpdateID))
		return
	}
	if err != nil {
		log.Error("update handling failed",
			slog.Int("update_id", update.UpdateID),
			slog.String("error", err.Error()))
	}
}

func (d *Dispatcher) dispatchMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	userID := strconv.FormatInt(msg.From.ID, 10)
	displayName := msg.From.UserName

	switch msg.Command() {
	case "start":
		return d.service.HandleStart(ctx, userID, displayName, msg.From.FirstName)
	case "quiz":
		return d.service.HandleQuizCommand(ctx, userID, displayName)
	default:
		return d.service.HandleMessage(ctx, userID, displayName, msg.Text)
	}
}

func (d *Dispatcher) dispatchCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	// Acknowledge first so the client stops its spinner even when the
	// flow below fails.
	if _, err := d.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		d.logger.Warn("failed to answer callback query",
			slog.String("callback_id", callback.ID),
			slog.String("error", err.Error()))
	}

	userID := strconv.FormatInt(callback.From.ID, 10)
	if topic, ok := strings.CutPrefix(callback.Data, callbackPhrasePrefix); ok {
		return d.service.HandlePhraseTopic(ctx, userID, topic)
	}
	d.logger.Debug("ignoring unknown callback data",
		slog.String("data", callback.Data))
	return nil
}

func (d *Dispatcher) dispatchPollAnswer(ctx context.Context, answer *tgbotapi.PollAnswer) error {
	userID := strconv.FormatInt(answer.User.ID, 10)

	// A retracted vote arrives with no option IDs; it still consumes
	// the pending question as an unanswered result.
	var chosen *int
	if len(answer.OptionIDs) > 0 {
		chosen = &answer.OptionIDs[0]
	}
	return d.service.HandleAnswer(ctx, userID, answer.PollID, chosen)
}

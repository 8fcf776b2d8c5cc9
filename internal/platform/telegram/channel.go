package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abutolibrashidov/vocabbot/internal/bot"
)

// sender is the slice of tgbotapi.BotAPI the channel needs; narrowed for
// tests.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Channel sends messages and quiz polls through the Telegram Bot API.
// It implements quiz.Channel and bot.Messenger.
type Channel struct {
	api    sender
	logger *slog.Logger
}

// NewChannel wraps an authorized Bot API client.
func NewChannel(api sender, log *slog.Logger) (*Channel, error) {
	if api == nil {
		return nil, errors.New("telegram: channel requires an API client")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Channel{
		api:    api,
		logger: log.With(slog.String("component", "telegram_channel")),
	}, nil
}

// EmitQuestion sends a quiz-mode poll and returns the Telegram poll ID
// answer events will carry.
func (c *Channel) EmitQuestion(_ context.Context, userID, prompt string, options []string, correctIndex int) (string, error) {
	chatID, err := chatIDOf(userID)
	if err != nil {
		return "", err
	}

	poll := tgbotapi.NewPoll(chatID, prompt, options...)
	poll.Type = "quiz"
	poll.CorrectOptionID = int64(correctIndex)
	poll.IsAnonymous = false

	msg, err := c.api.Send(poll)
	if err != nil {
		return "", fmt.Errorf("sending quiz poll to chat %d: %w", chatID, err)
	}
	if msg.Poll == nil {
		return "", fmt.Errorf("poll send to chat %d returned no poll", chatID)
	}
	return msg.Poll.ID, nil
}

// EmitMessage sends a plain Markdown message.
func (c *Channel) EmitMessage(_ context.Context, userID, text string) error {
	chatID, err := chatIDOf(userID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("sending message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendText is EmitMessage under the Messenger interface.
func (c *Channel) SendText(ctx context.Context, userID, text string) error {
	return c.EmitMessage(ctx, userID, text)
}

// SendMenu sends a Markdown message with the persistent main menu
// keyboard attached.
func (c *Channel) SendMenu(_ context.Context, userID, text string) error {
	chatID, err := chatIDOf(userID)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = mainMenuKeyboard()
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("sending menu message to chat %d: %w", chatID, err)
	}
	return nil
}

// SendTopicPicker sends a message with one inline button per topic.
func (c *Channel) SendTopicPicker(_ context.Context, userID, text string, topics []string) error {
	chatID, err := chatIDOf(userID)
	if err != nil {
		return err
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(topics))
	for _, topic := range topics {
		button := tgbotapi.NewInlineKeyboardButtonData(topic, callbackPhrasePrefix+topic)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	if _, err := c.api.Send(msg); err != nil {
		return fmt.Errorf("sending topic picker to chat %d: %w", chatID, err)
	}
	return nil
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(bot.MenuTranslate),
			tgbotapi.NewKeyboardButton(bot.MenuPhrase),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(bot.MenuQuiz),
		),
	)
}

func chatIDOf(userID string) (int64, error) {
	id, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user id %q is not a Telegram chat id: %w", userID, err)
	}
	return id, nil
}

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/abutolibrashidov/vocabbot/internal/bot"
	"github.com/abutolibrashidov/vocabbot/internal/config"
	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/platform/logger"
	"github.com/abutolibrashidov/vocabbot/internal/platform/postgres"
	"github.com/abutolibrashidov/vocabbot/internal/platform/telegram"
	"github.com/abutolibrashidov/vocabbot/internal/quiz"
	"github.com/abutolibrashidov/vocabbot/internal/task"
	"github.com/abutolibrashidov/vocabbot/internal/translator"
)

// application holds the wired dependency graph for the running server.
type application struct {
	config      *config.Config
	logger      *slog.Logger
	db          *sql.DB
	botAPI      *tgbotapi.BotAPI
	dispatcher  *telegram.Dispatcher
	broadcaster *task.Broadcaster
}

// newApplication loads configuration and wires every component:
// config -> logger -> database (+migrations) -> stores -> content ->
// quiz engine -> orchestrator -> telegram adapter -> broadcast runner.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("setting up logger: %w", err)
	}
	log.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel))

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	if err := runMigrations(db, log); err != nil {
		return nil, err
	}

	users := postgres.NewUserStore(db, log)
	correlations := postgres.NewCorrelationStore(db, log)

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("authorizing Telegram bot: %w", err)
	}
	log.Info("authorized on Telegram", slog.String("account", botAPI.Self.UserName))

	channel, err := telegram.NewChannel(botAPI, log)
	if err != nil {
		return nil, err
	}

	provider := content.NewFileProvider(cfg.Content, log)
	builder := quiz.NewBuilder(rand.NewSource(time.Now().UnixNano()))

	quizService, err := quiz.NewService(users, correlations, provider, builder, channel, log)
	if err != nil {
		return nil, fmt.Errorf("wiring quiz engine: %w", err)
	}
	gate, err := quiz.NewGate(users, cfg.Quiz.DailyLimit, log)
	if err != nil {
		return nil, fmt.Errorf("wiring quota gate: %w", err)
	}

	orchestrator, err := bot.NewService(
		users,
		provider,
		translator.New(log),
		quizService,
		gate,
		channel,
		log,
	)
	if err != nil {
		return nil, fmt.Errorf("wiring orchestrator: %w", err)
	}

	broadcaster, err := task.NewBroadcaster(users, gate, quizService, cfg.Quiz.BroadcastWorkers, log)
	if err != nil {
		return nil, fmt.Errorf("wiring broadcaster: %w", err)
	}

	return &application{
		config:      cfg,
		logger:      log,
		db:          db,
		botAPI:      botAPI,
		dispatcher:  telegram.NewDispatcher(orchestrator, botAPI, log),
		broadcaster: broadcaster,
	}, nil
}

// registerWebhook points Telegram at the configured public URL.
func (app *application) registerWebhook() error {
	return telegram.RegisterWebhook(
		app.botAPI,
		app.config.Server.PublicURL,
		app.config.Telegram.Token,
		app.logger,
	)
}

// cleanup releases held resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("closing database failed", slog.String("error", err.Error()))
		}
	}
}

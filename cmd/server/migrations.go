package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/abutolibrashidov/vocabbot/migrations"
)

// slogGooseLogger adapts goose's logger interface to slog. Fatalf does
// not exit; the error propagates to main which decides how to die.
type slogGooseLogger struct{}

func (slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies pending schema migrations at startup.
func runMigrations(db *sql.DB, log *slog.Logger) error {
	goose.SetLogger(slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting migration dialect: %w", err)
	}

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	log.Info("database migrations applied")
	return nil
}

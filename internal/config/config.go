package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Telegram TelegramConfig `mapstructure:"telegram" validate:"required"`
	Quiz     QuizConfig     `mapstructure:"quiz" validate:"required"`
	Content  ContentConfig  `mapstructure:"content"`
}

// ServerConfig contains all HTTP server related settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// PublicURL is the externally reachable base URL used to register the
	// Telegram webhook. Empty disables webhook registration at startup.
	PublicURL string `mapstructure:"public_url" validate:"omitempty,url"`
}

// DatabaseConfig contains all database related settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// TelegramConfig contains the bot credentials and transport settings.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`
	// TriggerSecret authorizes the external scheduler's /trigger_quiz calls.
	TriggerSecret string `mapstructure:"trigger_secret"`
}

// QuizConfig contains quiz session engine settings.
type QuizConfig struct {
	// DailyLimit caps automatically triggered quizzes per user per calendar
	// day. Explicit user requests bypass it.
	DailyLimit int `mapstructure:"daily_limit" validate:"required,gt=0"`
	// BroadcastWorkers is the worker count for scheduled quiz dispatch.
	BroadcastWorkers int `mapstructure:"broadcast_workers" validate:"required,gt=0"`
}

// ContentConfig points the dictionaries at their sources.
type ContentConfig struct {
	WordsFile   string `mapstructure:"words_file"`
	PhrasesFile string `mapstructure:"phrases_file"`
	// WordsFallbackURL is fetched when the local words file is missing or
	// empty. Empty disables the remote fallback.
	WordsFallbackURL string `mapstructure:"words_fallback_url" validate:"omitempty,url"`
}

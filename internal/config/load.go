package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables use the
// VOCAB_ prefix with underscores for nesting (VOCAB_SERVER_PORT,
// VOCAB_TELEGRAM_TOKEN, ...) and take precedence over file values.
// Returns a validated Config or an error describing what is missing.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VOCAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind nested keys explicitly so AutomaticEnv resolves them even when
	// no config file supplies the section.
	for _, key := range []string{
		"server.port",
		"server.log_level",
		"server.public_url",
		"database.url",
		"telegram.token",
		"telegram.trigger_secret",
		"quiz.daily_limit",
		"quiz.broadcast_workers",
		"content.words_file",
		"content.phrases_file",
		"content.words_fallback_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; env vars carry the configuration.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("quiz.daily_limit", 2)
	v.SetDefault("quiz.broadcast_workers", 2)
	v.SetDefault("content.words_file", "data/words.json")
	v.SetDefault("content.phrases_file", "data/phrases.json")
}

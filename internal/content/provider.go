package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/abutolibrashidov/vocabbot/internal/config"
)

// remoteFetchTimeout bounds the words fallback download.
const remoteFetchTimeout = 8 * time.Second

// Provider loads and serves the vocabulary dictionaries.
type Provider interface {
	// Words returns the word dictionary. Missing or unreadable sources
	// yield an empty dictionary, never an error: the quiz engine treats
	// empty content as "quiz unavailable".
	Words(ctx context.Context) WordDictionary

	// Phrases returns the phrase-topic dictionary, empty on any failure.
	Phrases(ctx context.Context) PhraseDictionary
}

// FileProvider reads the dictionaries from local JSON files, optionally
// falling back to a remote words.json when the local file is absent.
type FileProvider struct {
	cfg    config.ContentConfig
	client *http.Client
	logger *slog.Logger
}

// NewFileProvider creates a provider for the configured content sources.
func NewFileProvider(cfg config.ContentConfig, logger *slog.Logger) *FileProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: remoteFetchTimeout},
		logger: logger.With(slog.String("component", "content_provider")),
	}
}

// Ensure FileProvider implements Provider.
var _ Provider = (*FileProvider)(nil)

// Words implements Provider.Words.
func (p *FileProvider) Words(ctx context.Context) WordDictionary {
	var words WordDictionary
	if err := readJSONFile(p.cfg.WordsFile, &words); err != nil {
		p.logger.Warn("failed to load words file",
			slog.String("path", p.cfg.WordsFile),
			slog.String("error", err.Error()))
	}
	if len(words) > 0 {
		return words
	}

	if p.cfg.WordsFallbackURL == "" {
		return WordDictionary{}
	}
	words, err := p.fetchRemoteWords(ctx)
	if err != nil {
		p.logger.Warn("failed to fetch remote words",
			slog.String("url", p.cfg.WordsFallbackURL),
			slog.String("error", err.Error()))
		return WordDictionary{}
	}
	return words
}

// Phrases implements Provider.Phrases.
func (p *FileProvider) Phrases(ctx context.Context) PhraseDictionary {
	var phrases PhraseDictionary
	if err := readJSONFile(p.cfg.PhrasesFile, &phrases); err != nil {
		p.logger.Warn("failed to load phrases file",
			slog.String("path", p.cfg.PhrasesFile),
			slog.String("error", err.Error()))
		return PhraseDictionary{}
	}
	return phrases
}

func (p *FileProvider) fetchRemoteWords(ctx context.Context) (WordDictionary, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.WordsFallbackURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var words WordDictionary
	if err := json.NewDecoder(resp.Body).Decode(&words); err != nil {
		return nil, fmt.Errorf("failed to decode words: %w", err)
	}
	return words, nil
}

func readJSONFile(path string, v any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

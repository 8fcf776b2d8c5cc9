// Package translator is a best-effort client for external word lookup
// services. It combines the free dictionary API (definition, part of
// speech) with Datamuse (synonyms) and memoizes results in-process.
// Every failure degrades to ErrLookupFailed; callers fall back to echoing
// the word.
package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrLookupFailed is returned when no external service produced a usable
// result for the word.
var ErrLookupFailed = errors.New("word lookup failed")

const (
	dictionaryAPIURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"
	datamuseAPIURL   = "https://api.datamuse.com/words"
	lookupTimeout    = 8 * time.Second
	maxSynonyms      = 5
)

// Result is the merged outcome of a lookup.
type Result struct {
	Word         string
	Definition   string
	PartOfSpeech string
	Synonyms     []string
}

// Client performs external lookups with an in-process cache.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	// Overridable in tests.
	dictionaryURL string
	datamuseURL   string

	mu    sync.RWMutex
	cache map[string]Result
}

// New creates a lookup client.
func New(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient:    &http.Client{Timeout: lookupTimeout},
		logger:        logger.With(slog.String("component", "translator")),
		dictionaryURL: dictionaryAPIURL,
		datamuseURL:   datamuseAPIURL,
		cache:         make(map[string]Result),
	}
}

// Lookup fetches definition, part of speech and synonyms for the word.
// Results are cached for the lifetime of the process.
func (c *Client) Lookup(ctx context.Context, word string) (Result, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return Result{}, ErrLookupFailed
	}

	c.mu.RLock()
	cached, ok := c.cache[word]
	c.mu.RUnlock()
	if ok {
		return cached, nil
	}

	res, err := c.fetchDefinition(ctx, word)
	if err != nil {
		return Result{}, err
	}

	// Synonyms are decorative; a Datamuse failure does not fail the lookup.
	if syns, err := c.fetchSynonyms(ctx, word); err != nil {
		c.logger.Debug("synonym lookup failed",
			slog.String("word", word),
			slog.String("error", err.Error()))
	} else {
		res.Synonyms = syns
	}

	c.mu.Lock()
	c.cache[word] = res
	c.mu.Unlock()
	return res, nil
}

type dictionaryEntry struct {
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

func (c *Client) fetchDefinition(ctx context.Context, word string) (Result, error) {
	body, err := c.get(ctx, c.dictionaryURL+url.PathEscape(word))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	var entries []dictionaryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return Result{}, ErrLookupFailed
	}

	meaning := entries[0].Meanings[0]
	res := Result{Word: word, PartOfSpeech: meaning.PartOfSpeech}
	if len(meaning.Definitions) > 0 {
		res.Definition = meaning.Definitions[0].Definition
	}
	if res.Definition == "" {
		return Result{}, ErrLookupFailed
	}
	return res, nil
}

func (c *Client) fetchSynonyms(ctx context.Context, word string) ([]string, error) {
	body, err := c.get(ctx, c.datamuseURL+"?rel_syn="+url.QueryEscape(word))
	if err != nil {
		return nil, err
	}

	var items []struct {
		Word string `json:"word"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}

	syns := make([]string, 0, maxSynonyms)
	for _, item := range items {
		if len(syns) == maxSynonyms {
			break
		}
		syns = append(syns, item.Word)
	}
	return syns, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	// Cap the body read; these APIs return small payloads.
	const maxBody = 1 << 20
	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// Package content supplies the read-only vocabulary content the quiz
// engine samples from: a word dictionary keyed by headword and a phrase
// dictionary keyed by topic.
package content

import (
	"errors"
	"strings"
)

// Content errors.
var (
	// ErrWordNotFound is returned when a looked-up word has no dictionary entry.
	ErrWordNotFound = errors.New("word not found in dictionary")
	// ErrContentUnavailable is returned when no dictionary has any entries.
	ErrContentUnavailable = errors.New("no vocabulary content available")
)

// WordInfo is the dictionary entry for a single headword.
type WordInfo struct {
	Translation    string   `json:"translation"`
	PartOfSpeech   string   `json:"part_of_speech,omitempty"`
	Level          string   `json:"level,omitempty"`
	Prefixes       []string `json:"prefixes,omitempty"`
	Suffixes       []string `json:"suffixes,omitempty"`
	SingularPlural string   `json:"singular_plural,omitempty"`
	Examples       []string `json:"examples,omitempty"`
	Synonyms       []string `json:"synonyms,omitempty"`
}

// WordDictionary maps headwords to their entries.
type WordDictionary map[string]WordInfo

// Lookup finds a word entry case-insensitively.
func (d WordDictionary) Lookup(word string) (WordInfo, bool) {
	if info, ok := d[word]; ok {
		return info, true
	}
	lower := strings.ToLower(word)
	for key, info := range d {
		if strings.ToLower(key) == lower {
			return info, true
		}
	}
	return WordInfo{}, false
}

// PhraseDictionary maps topics to their phrases.
type PhraseDictionary map[string][]string

// Topics returns every topic that has at least one phrase.
func (d PhraseDictionary) Topics() []string {
	topics := make([]string, 0, len(d))
	for topic, phrases := range d {
		if len(phrases) > 0 {
			topics = append(topics, topic)
		}
	}
	return topics
}

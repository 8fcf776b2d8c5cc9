package quiz

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/domain"
)

// partOfSpeechPool is the fixed option set for part-of-speech questions.
// A word without a recorded part of speech is treated as a noun.
var partOfSpeechPool = []string{"noun", "verb", "adjective", "adverb"}

const (
	maxOptions = 4

	// phrasePlaceholder pads phrase questions when the dictionary has
	// fewer than four distinct phrases.
	phrasePlaceholder = "—"

	defaultPartOfSpeech = "noun"
)

// Builder assembles quiz questions by sampling vocabulary content.
// The zero value is not usable; construct with NewBuilder.
type Builder struct {
	rng *rand.Rand
}

// NewBuilder returns a Builder drawing randomness from src.
func NewBuilder(src rand.Source) *Builder {
	return &Builder{rng: rand.New(src)}
}

// Build assembles up to three questions: a word translation, a part of
// speech, and a phrase-topic match. A question kind is skipped when the
// content it needs is empty; the result is empty when no content exists
// at all.
func (b *Builder) Build(words content.WordDictionary, phrases content.PhraseDictionary) []domain.Question {
	questions := make([]domain.Question, 0, 3)

	if q, ok := b.buildTranslation(words); ok {
		questions = append(questions, q)
	}
	if q, ok := b.buildPartOfSpeech(words); ok {
		questions = append(questions, q)
	}
	if q, ok := b.buildPhraseMatch(phrases); ok {
		questions = append(questions, q)
	}

	return questions
}

func (b *Builder) buildTranslation(words content.WordDictionary) (domain.Question, bool) {
	headwords := sortedKeys(words)
	if len(headwords) == 0 {
		return domain.Question{}, false
	}

	word := headwords[b.rng.Intn(len(headwords))]
	correct := words[word].Translation
	if correct == "" {
		correct = word
	}

	distractors := make([]string, 0, len(headwords)-1)
	for _, other := range headwords {
		if other == word {
			continue
		}
		translation := words[other].Translation
		if translation == "" {
			translation = other
		}
		distractors = append(distractors, translation)
	}

	options := append([]string{correct}, b.sample(distractors, 3)...)
	options = dedupe(options, maxOptions)
	// Small dictionaries leave too few distinct translations;
	// headwords fill the remaining slots.
	for attempt := 0; len(options) < maxOptions && attempt < 2*len(headwords); attempt++ {
		options = dedupe(append(options, headwords[b.rng.Intn(len(headwords))]), maxOptions)
	}
	if len(options) < 2 {
		return domain.Question{}, false
	}
	b.shuffle(options)

	return domain.Question{
		Kind:         domain.KindWordTranslation,
		Prompt:       fmt.Sprintf("Translate this word: *%s*", word),
		Options:      options,
		CorrectIndex: indexOf(options, correct),
	}, true
}

func (b *Builder) buildPartOfSpeech(words content.WordDictionary) (domain.Question, bool) {
	headwords := sortedKeys(words)
	if len(headwords) == 0 {
		return domain.Question{}, false
	}

	word := headwords[b.rng.Intn(len(headwords))]
	correct := words[word].PartOfSpeech
	if correct == "" {
		correct = defaultPartOfSpeech
	}

	options := make([]string, len(partOfSpeechPool))
	copy(options, partOfSpeechPool)
	b.shuffle(options)

	return domain.Question{
		Kind:         domain.KindPartOfSpeech,
		Prompt:       fmt.Sprintf("What is the part of speech of *%s*?", word),
		Options:      options,
		CorrectIndex: indexOf(options, correct),
	}, true
}

func (b *Builder) buildPhraseMatch(phrases content.PhraseDictionary) (domain.Question, bool) {
	topics := phrases.Topics()
	if len(topics) == 0 {
		return domain.Question{}, false
	}
	sort.Strings(topics)

	topic := topics[b.rng.Intn(len(topics))]
	pool := phrases[topic]
	phrase := pool[b.rng.Intn(len(pool))]

	var distractors []string
	for _, t := range topics {
		for _, p := range phrases[t] {
			if p != phrase {
				distractors = append(distractors, p)
			}
		}
	}

	options := append([]string{phrase}, b.sample(distractors, 3)...)
	options = dedupe(options, maxOptions)
	for len(options) < maxOptions {
		options = append(options, phrasePlaceholder)
	}
	options = dedupe(options, maxOptions)
	if len(options) < 2 {
		return domain.Question{}, false
	}
	b.shuffle(options)

	return domain.Question{
		Kind:         domain.KindPhraseMatch,
		Prompt:       fmt.Sprintf("Which phrase belongs to topic *%s*?", topic),
		Options:      options,
		CorrectIndex: indexOf(options, phrase),
	}, true
}

// sample returns up to n elements drawn without replacement.
func (b *Builder) sample(pool []string, n int) []string {
	if len(pool) == 0 {
		return nil
	}
	if n > len(pool) {
		n = len(pool)
	}
	picked := make([]string, len(pool))
	copy(picked, pool)
	b.rng.Shuffle(len(picked), func(i, j int) {
		picked[i], picked[j] = picked[j], picked[i]
	})
	return picked[:n]
}

func (b *Builder) shuffle(options []string) {
	b.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}

// dedupe keeps the first occurrence of each option, capped at max.
func dedupe(options []string, max int) []string {
	seen := make(map[string]struct{}, len(options))
	out := options[:0]
	for _, opt := range options {
		if _, ok := seen[opt]; ok {
			continue
		}
		seen[opt] = struct{}{}
		out = append(out, opt)
		if len(out) == max {
			break
		}
	}
	return out
}

func indexOf(options []string, target string) int {
	for i, opt := range options {
		if opt == target {
			return i
		}
	}
	return 0
}

func sortedKeys(words content.WordDictionary) []string {
	keys := make([]string, 0, len(words))
	for k := range words {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

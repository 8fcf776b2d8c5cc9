package domain

import "errors"

// Common validation errors for quiz questions.
var (
	ErrEmptyPrompt        = errors.New("question prompt cannot be empty")
	ErrTooFewOptions      = errors.New("question must have at least 2 options")
	ErrTooManyOptions     = errors.New("question must have at most 4 options")
	ErrDuplicateOptions   = errors.New("question options must be distinct")
	ErrInvalidCorrectIndex = errors.New("correct option index out of range")
)

// QuestionKind tags the shape of a quiz question.
type QuestionKind string

const (
	// KindWordTranslation asks for the translation of a dictionary word.
	KindWordTranslation QuestionKind = "word_translation"
	// KindPartOfSpeech asks for the grammatical category of a word.
	KindPartOfSpeech QuestionKind = "word_pos"
	// KindPhraseMatch asks which phrase belongs to a given topic.
	KindPhraseMatch QuestionKind = "phrase_match"
)

// Question is one multiple-choice quiz question. It is immutable once
// built; the session engine only ever reads it.
type Question struct {
	Kind         QuestionKind `json:"kind"`
	Prompt       string       `json:"prompt"`
	Options      []string     `json:"options"`
	CorrectIndex int          `json:"correct_index"`
}

// Validate checks the question invariants: a non-empty prompt, 2-4
// distinct options, and a correct index that points into the option list.
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return ErrEmptyPrompt
	}
	if len(q.Options) < 2 {
		return ErrTooFewOptions
	}
	if len(q.Options) > 4 {
		return ErrTooManyOptions
	}
	seen := make(map[string]struct{}, len(q.Options))
	for _, opt := range q.Options {
		if _, dup := seen[opt]; dup {
			return ErrDuplicateOptions
		}
		seen[opt] = struct{}{}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
		return ErrInvalidCorrectIndex
	}
	return nil
}

// CorrectOption returns the text of the correct answer.
func (q *Question) CorrectOption() string {
	return q.Options[q.CorrectIndex]
}

// Result records the outcome of one answered question. ChosenIndex is nil
// when the user retracted or never submitted an answer.
type Result struct {
	Kind         QuestionKind `json:"kind"`
	Prompt       string       `json:"prompt"`
	ChosenIndex  *int         `json:"chosen_index"`
	CorrectIndex int          `json:"correct_index"`
	Correct      bool         `json:"correct"`
}

// NewResult derives a Result for the given question and chosen option.
func NewResult(q Question, chosenIndex *int) Result {
	return Result{
		Kind:         q.Kind,
		Prompt:       q.Prompt,
		ChosenIndex:  chosenIndex,
		CorrectIndex: q.CorrectIndex,
		Correct:      chosenIndex != nil && *chosenIndex == q.CorrectIndex,
	}
}

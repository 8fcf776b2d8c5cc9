package domain

import "errors"

// Session validation errors.
var (
	ErrNoQuestions      = errors.New("session must have at least one question")
	ErrSessionCorrupt   = errors.New("session state violates invariants")
	ErrSessionExhausted = errors.New("all session questions already answered")
	ErrIndexMismatch    = errors.New("answer does not target the current question")
)

// Session is one in-progress quiz owned by a single user. The question
// list is fixed at creation; Index advances monotonically and always
// equals len(Results).
type Session struct {
	Questions []Question `json:"questions"`
	Index     int        `json:"index"`
	Results   []Result   `json:"results"`
}

// NewSession creates an active session positioned at the first question.
func NewSession(questions []Question) (*Session, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, err
		}
	}
	return &Session{
		Questions: questions,
		Index:     0,
		Results:   make([]Result, 0, len(questions)),
	}, nil
}

// Validate checks the structural invariants of a session loaded from the
// store: 0 <= Index <= len(Questions) and len(Results) == Index.
func (s *Session) Validate() error {
	if len(s.Questions) == 0 {
		return ErrNoQuestions
	}
	if s.Index < 0 || s.Index > len(s.Questions) {
		return ErrSessionCorrupt
	}
	if len(s.Results) != s.Index {
		return ErrSessionCorrupt
	}
	return nil
}

// Current returns the question the session is waiting on.
// Returns ErrSessionExhausted once every question has been answered.
func (s *Session) Current() (Question, error) {
	if s.Index >= len(s.Questions) {
		return Question{}, ErrSessionExhausted
	}
	return s.Questions[s.Index], nil
}

// Answer records the outcome for the question at questionIndex, which must
// be the current one. Stale or out-of-order indices return
// ErrIndexMismatch without mutating the session.
func (s *Session) Answer(questionIndex int, chosenIndex *int) (Result, error) {
	if questionIndex != s.Index {
		return Result{}, ErrIndexMismatch
	}
	q, err := s.Current()
	if err != nil {
		return Result{}, err
	}
	result := NewResult(q, chosenIndex)
	s.Results = append(s.Results, result)
	s.Index++
	return result, nil
}

// Finished reports whether every question has been answered.
func (s *Session) Finished() bool {
	return s.Index >= len(s.Questions)
}

// CorrectCount returns how many recorded results were correct.
func (s *Session) CorrectCount() int {
	n := 0
	for _, r := range s.Results {
		if r.Correct {
			n++
		}
	}
	return n
}

package domain

import (
	"errors"
	"time"
)

// Common validation errors.
var (
	ErrEmptyUserID       = errors.New("user ID cannot be empty")
	ErrNegativeUsage     = errors.New("usage count cannot be negative")
	ErrNegativeQuizCount = errors.New("daily quiz count cannot be negative")
)

// DateLayout is the calendar-date format used for quota bookkeeping.
const DateLayout = "2006-01-02"

// HistoryEntry is one recorded user interaction (a looked-up word, a
// browsed phrase topic, a dispatched quiz).
type HistoryEntry struct {
	Item string    `json:"item"`
	At   time.Time `json:"at"`
}

// UserRecord is the durable per-identity record. The ID is assigned by
// the delivery channel and treated as opaque. At most one Session is
// active at a time; UsageCount only ever grows and History is
// append-only.
type UserRecord struct {
	ID             string         `json:"id"`
	DisplayName    string         `json:"display_name,omitempty"`
	UsageCount     int            `json:"usage_count"`
	History        []HistoryEntry `json:"history"`
	LastQuizDate   string         `json:"last_quiz_date,omitempty"`
	QuizzesToday   int            `json:"quizzes_today"`
	CurrentSession *Session       `json:"current_session,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// NewUserRecord creates a fresh record for a first-seen identity.
func NewUserRecord(id, displayName string) (*UserRecord, error) {
	now := time.Now().UTC()
	rec := &UserRecord{
		ID:          id,
		DisplayName: displayName,
		History:     []HistoryEntry{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks the record invariants.
func (u *UserRecord) Validate() error {
	if u.ID == "" {
		return ErrEmptyUserID
	}
	if u.UsageCount < 0 {
		return ErrNegativeUsage
	}
	if u.QuizzesToday < 0 {
		return ErrNegativeQuizCount
	}
	if u.CurrentSession != nil {
		if err := u.CurrentSession.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RecordUsage increments the lifetime counter and appends the item to the
// interaction history.
func (u *UserRecord) RecordUsage(item string, at time.Time) {
	u.UsageCount++
	if item != "" {
		u.History = append(u.History, HistoryEntry{Item: item, At: at})
	}
}

// AllowQuiz applies the lazy daily rollover and reports whether another
// automatic quiz fits under the given daily limit, counting it if so.
func (u *UserRecord) AllowQuiz(today string, limit int) bool {
	if u.LastQuizDate != today {
		u.QuizzesToday = 0
		u.LastQuizDate = today
	}
	if u.QuizzesToday >= limit {
		return false
	}
	u.QuizzesToday++
	return true
}

package quiz

import "context"

// Channel is the delivery surface a session engine emits through. The
// channel is stateless with respect to sessions: it sends a question or
// a plain message and, for questions, returns the channel-assigned
// external identifier that later answer events will reference.
type Channel interface {
	// EmitQuestion presents a multiple-choice question to the user and
	// returns the external identifier the channel assigned to it.
	EmitQuestion(ctx context.Context, userID, prompt string, options []string, correctIndex int) (string, error)

	// EmitMessage sends a plain text message to the user.
	EmitMessage(ctx context.Context, userID, text string) error
}

package bot

import "context"

// Main menu button labels. The delivery adapter renders these as the
// persistent reply keyboard and echoes them back verbatim in updates.
const (
	MenuTranslate = "🌐 Translate a Word"
	MenuPhrase    = "🗣 Learn a Phrase"
	MenuQuiz      = "🎯 Take a Quiz"
)

// Messenger is the outbound messaging surface the orchestrator renders
// through. Implementations attach the appropriate keyboards.
type Messenger interface {
	// SendText sends a plain message.
	SendText(ctx context.Context, userID, text string) error

	// SendMenu sends a message with the main menu keyboard attached.
	SendMenu(ctx context.Context, userID, text string) error

	// SendTopicPicker sends a message with one tappable button per topic.
	SendTopicPicker(ctx context.Context, userID, text string, topics []string) error
}

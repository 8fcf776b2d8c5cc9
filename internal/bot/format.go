package bot

import (
	"fmt"
	"strings"

	"github.com/abutolibrashidov/vocabbot/internal/content"
)

// formatWordCard renders the rich dictionary card for a known word.
func formatWordCard(word, translation string, info content.WordInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 Word: *%s*\n🔤 Translation: *%s*\n", word, translation)
	if info.PartOfSpeech != "" {
		fmt.Fprintf(&b, "📚 Part of Speech: %s\n", info.PartOfSpeech)
	}
	if info.Level != "" {
		fmt.Fprintf(&b, "⭐ Level: %s\n", info.Level)
	}
	if len(info.Prefixes) > 0 {
		fmt.Fprintf(&b, "➕ Prefixes: %s\n", strings.Join(info.Prefixes, ", "))
	}
	if len(info.Suffixes) > 0 {
		fmt.Fprintf(&b, "➖ Suffixes: %s\n", strings.Join(info.Suffixes, ", "))
	}
	if info.SingularPlural != "" {
		fmt.Fprintf(&b, "👤 Singular/Plural: %s\n", info.SingularPlural)
	}
	if len(info.Examples) > 0 {
		b.WriteString("📖 Examples:\n")
		for _, ex := range info.Examples {
			fmt.Fprintf(&b, " - %s\n", ex)
		}
	}
	if len(info.Synonyms) > 0 {
		fmt.Fprintf(&b, "💡 Synonyms: %s\n", strings.Join(info.Synonyms, ", "))
	}
	return strings.TrimSpace(b.String())
}

// formatLookupCard renders the card for a word resolved through the
// external dictionary lookup.
func formatLookupCard(word, definition, partOfSpeech string, synonyms []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📝 Word: *%s*\n🔤 Translation: *%s*\n", word, definition)
	if partOfSpeech != "" {
		fmt.Fprintf(&b, "📚 Part of Speech: %s\n", partOfSpeech)
	}
	if len(synonyms) > 0 {
		fmt.Fprintf(&b, "💡 Synonyms: %s\n", strings.Join(synonyms, ", "))
	}
	return strings.TrimSpace(b.String())
}

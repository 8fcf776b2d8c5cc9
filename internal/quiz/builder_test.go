package quiz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abutolibrashidov/vocabbot/internal/content"
	"github.com/abutolibrashidov/vocabbot/internal/domain"
)

func testWords() content.WordDictionary {
	return content.WordDictionary{
		"mushuk":  {Translation: "cat", PartOfSpeech: "noun"},
		"yugurmoq": {Translation: "to run", PartOfSpeech: "verb"},
		"tez":     {Translation: "fast", PartOfSpeech: "adjective"},
		"sekin":   {Translation: "slowly", PartOfSpeech: "adverb"},
		"kitob":   {Translation: "book", PartOfSpeech: "noun"},
	}
}

func testPhrases() content.PhraseDictionary {
	return content.PhraseDictionary{
		"greetings": {"Assalomu alaykum", "Yaxshimisiz?"},
		"travel":    {"Chipta qancha turadi?", "Mehmonxona qayerda?"},
	}
}

func TestBuilderBuildsAllThreeKinds(t *testing.T) {
	b := NewBuilder(rand.NewSource(1))

	questions := b.Build(testWords(), testPhrases())

	require.Len(t, questions, 3)
	assert.Equal(t, domain.KindWordTranslation, questions[0].Kind)
	assert.Equal(t, domain.KindPartOfSpeech, questions[1].Kind)
	assert.Equal(t, domain.KindPhraseMatch, questions[2].Kind)
	for i := range questions {
		assert.NoError(t, questions[i].Validate(), "question %d must satisfy invariants", i)
	}
}

func TestBuilderCorrectIndexPointsAtAnswer(t *testing.T) {
	words := testWords()
	phrases := testPhrases()

	// Any seed must produce questions whose correct option really is
	// a translation, a part of speech, or a phrase from the content.
	for seed := int64(0); seed < 25; seed++ {
		b := NewBuilder(rand.NewSource(seed))
		for _, q := range b.Build(words, phrases) {
			answer := q.CorrectOption()
			switch q.Kind {
			case domain.KindWordTranslation:
				assert.Contains(t, translationsOf(words), answer, "seed %d", seed)
			case domain.KindPartOfSpeech:
				assert.Contains(t, partOfSpeechPool, answer, "seed %d", seed)
			case domain.KindPhraseMatch:
				assert.Contains(t, allPhrases(phrases), answer, "seed %d", seed)
			}
		}
	}
}

func TestBuilderSkipsKindsWithoutContent(t *testing.T) {
	b := NewBuilder(rand.NewSource(7))

	t.Run("no words", func(t *testing.T) {
		questions := b.Build(nil, testPhrases())
		require.Len(t, questions, 1)
		assert.Equal(t, domain.KindPhraseMatch, questions[0].Kind)
	})

	t.Run("no phrases", func(t *testing.T) {
		questions := b.Build(testWords(), nil)
		require.Len(t, questions, 2)
		assert.Equal(t, domain.KindWordTranslation, questions[0].Kind)
		assert.Equal(t, domain.KindPartOfSpeech, questions[1].Kind)
	})

	t.Run("nothing at all", func(t *testing.T) {
		assert.Empty(t, b.Build(nil, nil))
	})
}

func TestBuilderPadsSparsePhrases(t *testing.T) {
	b := NewBuilder(rand.NewSource(3))
	phrases := content.PhraseDictionary{"greetings": {"Assalomu alaykum"}}

	questions := b.Build(nil, phrases)

	require.Len(t, questions, 1)
	q := questions[0]
	assert.NoError(t, q.Validate())
	assert.Contains(t, q.Options, "—")
	assert.Equal(t, "Assalomu alaykum", q.CorrectOption())
}

func TestBuilderPadsSparseWordsWithHeadwords(t *testing.T) {
	b := NewBuilder(rand.NewSource(3))
	words := content.WordDictionary{
		"mushuk": {Translation: "cat", PartOfSpeech: "noun"},
		"kitob":  {Translation: "book", PartOfSpeech: "noun"},
	}

	questions := b.Build(words, nil)

	require.Len(t, questions, 2)
	q := questions[0]
	require.Equal(t, domain.KindWordTranslation, q.Kind)
	assert.NoError(t, q.Validate())
	assert.GreaterOrEqual(t, len(q.Options), 2)
	assert.Contains(t, []string{"cat", "book"}, q.CorrectOption())
}

func TestBuilderDefaultsMissingPartOfSpeechToNoun(t *testing.T) {
	b := NewBuilder(rand.NewSource(11))
	words := content.WordDictionary{"mushuk": {Translation: "cat"}}

	questions := b.Build(words, nil)

	require.Len(t, questions, 2)
	q := questions[1]
	require.Equal(t, domain.KindPartOfSpeech, q.Kind)
	assert.Equal(t, "noun", q.CorrectOption())
	assert.ElementsMatch(t, partOfSpeechPool, q.Options)
}

func TestBuilderFallsBackToHeadwordTranslation(t *testing.T) {
	words := content.WordDictionary{
		"mushuk": {},
		"kitob":  {Translation: "book"},
		"tez":    {Translation: "fast"},
		"sekin":  {Translation: "slowly"},
	}

	for seed := int64(0); seed < 10; seed++ {
		q := NewBuilder(rand.NewSource(seed)).Build(words, nil)[0]
		require.Equal(t, domain.KindWordTranslation, q.Kind)
		// A word without a translation uses the headword itself.
		assert.Contains(t, []string{"mushuk", "book", "fast", "slowly"}, q.CorrectOption())
	}
}

func translationsOf(words content.WordDictionary) []string {
	out := make([]string, 0, len(words))
	for w, info := range words {
		if info.Translation != "" {
			out = append(out, info.Translation)
		} else {
			out = append(out, w)
		}
	}
	return out
}

func allPhrases(phrases content.PhraseDictionary) []string {
	var out []string
	for _, list := range phrases {
		out = append(out, list...)
	}
	return out
}

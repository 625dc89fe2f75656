package cleanse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandroruanova/cleansetext/internal/core/services/lexicon"
	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

func TestRegistry_ListAvailable(t *testing.T) {
	names := ListAvailable()

	assert.IsIncreasing(t, names)
	assert.Len(t, names, 17)
	for _, name := range []string{
		"remove_emojis", "emoji_to_text", "text_to_emoji", "remove_stopwords",
		"remove_preceding_and_trailing_punctuations", "remove_all_punctuations",
		"remove_tokens_with_only_punctuations", "remove_tokens_with_majority_non_alphabetic_characters",
		"remove_all_non_alphabet_only_words", "remove_all_non_alphanumeric_only_words",
		"remove_all_non_numeric_only_words", "replace_urls_and_html_tags", "replace_usernames",
		"remove_unicode", "remove_whitespace", "normalize_unicode", "stem_words",
	} {
		assert.Contains(t, names, name)
	}
}

func TestRegistry_CreateByNameAndAlias(t *testing.T) {
	tests := []struct {
		identifier string
		expected   string
	}{
		{identifier: "remove_emojis", expected: "remove_emojis"},
		{identifier: "RemoveEmojis", expected: "remove_emojis"},
		{identifier: "ReplaceURLsandHTMLTags", expected: "replace_urls_and_html_tags"},
		{identifier: "  stopwords ", expected: "remove_stopwords"},
		{identifier: "RemoveWhiteSpaceOrChunksOfWhiteSpace", expected: "remove_whitespace"},
		{identifier: "Remove_Emojis", expected: "remove_emojis"},
		{identifier: " REPLACE_USERNAMES\t", expected: "replace_usernames"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			step, err := Create(tt.identifier, nil, Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, step.Name())
		})
	}
}

func TestRegistry_Errors(t *testing.T) {
	t.Run("unknown step", func(t *testing.T) {
		_, err := Create("does_not_exist", nil, Options{})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	})

	t.Run("unknown config key", func(t *testing.T) {
		_, err := Create("replace_usernames", map[string]interface{}{"replace": "x"}, Options{})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig))
	})

	t.Run("config on a step without options", func(t *testing.T) {
		_, err := Create("remove_whitespace", map[string]interface{}{"x": 1}, Options{})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig))
	})

	t.Run("remove unicode without criteria", func(t *testing.T) {
		_, err := Create("remove_unicode", nil, Options{})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig))
	})
}

func TestRegistry_DecodesConfig(t *testing.T) {
	t.Run("weakly typed values", func(t *testing.T) {
		step, err := Create("remove_tokens_with_majority_non_alphabetic_characters",
			map[string]interface{}{"threshold": "0.9"}, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{".aaaa"}, step.Process([]string{"....", "?!", ".aaaa"}))
	})

	t.Run("partial config keeps defaults", func(t *testing.T) {
		step, err := Create("remove_preceding_and_trailing_punctuations",
			map[string]interface{}{"ignore_starting_punctuations": true}, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{".", "this", "is", "a", "test"},
			step.Process([]string{".", "this", "is", "a", "test", ".", "."}))
	})

	t.Run("optional ints", func(t *testing.T) {
		step, err := Create("remove_unicode", map[string]interface{}{"unicode_above": 127}, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"caf"}, step.Process([]string{"café"}))
	})

	t.Run("lists", func(t *testing.T) {
		step, err := Create("remove_emojis",
			map[string]interface{}{"ignored_emojis": []interface{}{"🎉"}}, Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"🎉"}, step.Process([]string{"🎉", "😀"}))
	})

	t.Run("lexicon comes from options", func(t *testing.T) {
		step, err := Create("remove_stopwords",
			map[string]interface{}{"language": "tiny"},
			Options{Lexicon: lexicon.Static{"tiny": {"foo"}}})
		require.NoError(t, err)
		assert.Equal(t, []string{"bar"}, step.Process([]string{"foo", "bar"}))
	})

	t.Run("language default comes from options", func(t *testing.T) {
		step, err := Create("remove_stopwords", nil, Options{Language: "spanish"})
		require.NoError(t, err)
		assert.Equal(t, []string{"casa"}, step.Process([]string{"la", "casa"}))

		// explicit config wins
		step, err = Create("remove_stopwords", map[string]interface{}{"language": "english"}, Options{Language: "spanish"})
		require.NoError(t, err)
		assert.Equal(t, []string{"la", "casa"}, step.Process([]string{"la", "casa"}))
	})
}

func TestRegistry_Isolated(t *testing.T) {
	r := NewRegistry()
	r.Register(" NoOp ", noConfig("noop", func() Step { return NewRemoveWhitespaceTokens() }), "Nothing")

	assert.Equal(t, []string{"noop"}, r.ListAvailable())

	_, name, err := r.Get("NOOP")
	require.NoError(t, err)
	assert.Equal(t, "noop", name)

	step, err := r.Create("nothing", nil, Options{})
	require.NoError(t, err)
	assert.NotNil(t, step)

	meta := r.ListAvailableWithMetadata()
	require.Contains(t, meta, "noop")
	assert.Equal(t, []string{"nothing"}, meta["noop"]["aliases"])
	assert.Equal(t, "Remove whitespace from a sentence or chunks of whitespace", meta["noop"]["explain"])
}

func TestRegistry_Metadata(t *testing.T) {
	meta := ListAvailableWithMetadata()

	assert.Len(t, meta, len(ListAvailable()))
	assert.Contains(t, meta["remove_unicode"], "error")
	assert.Contains(t, meta["replace_usernames"], "explain")
}

func TestPresets(t *testing.T) {
	assert.Equal(t, []string{"minimal", "strict", "tweet"}, ListPresets())

	t.Run("tweet", func(t *testing.T) {
		steps, err := BuildPreset("tweet", Options{})
		require.NoError(t, err)

		p := NewPipeline(steps)
		assert.Equal(t, []string{
			"remove_emojis", "remove_all_punctuations", "remove_tokens_with_only_punctuations",
			"replace_urls_and_html_tags", "replace_usernames", "remove_whitespace",
		}, p.GetPipelineSteps())
		assert.Equal(t,
			[]string{"<USER>", "I", "hate", "you", "and", "everything", "about", "you", "<URL>"},
			p.Process([]string{"@Mary", "I", "hate", "you", "and", "everything", "about", "you", "...", "🎉", "🎉", "google.com"}))
	})

	t.Run("strict", func(t *testing.T) {
		steps, err := BuildPreset("strict", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"this", "is", "a", "test"},
			NewPipeline(steps).Process([]string{".", "this", "is", "a", ".", "test", ".", "....", "99a"}))
	})

	t.Run("minimal", func(t *testing.T) {
		steps, err := BuildPreset("minimal", Options{})
		require.NoError(t, err)
		assert.Equal(t, []string{"hi", "there"},
			NewPipeline(steps).Process([]string{"!", "hi", "...", " ", "there", "."}))
	})

	t.Run("unknown preset", func(t *testing.T) {
		_, err := BuildPreset("nope", Options{})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	})

	t.Run("preset copies are independent", func(t *testing.T) {
		preset, err := GetPreset("tweet")
		require.NoError(t, err)
		preset.Steps[0].Name = "changed"

		again, err := GetPreset("tweet")
		require.NoError(t, err)
		assert.Equal(t, "remove_emojis", again.Steps[0].Name)
	})
}

func TestBuildSteps(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := BuildSteps(nil, Options{})
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidConfig))
	})

	t.Run("reports the failing position", func(t *testing.T) {
		_, err := BuildSteps([]StepSpec{{Name: "remove_whitespace"}, {Name: "bogus"}}, Options{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "step 2")
	})
}

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

const tweet = "@Mary I hate you and everything about you... 🎉🎉 google.com"

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestClean_DefaultPreset(t *testing.T) {
	out, _, err := run(t, "", "clean", tweet)
	require.NoError(t, err)
	assert.Equal(t, "<USER> I hate you and everything about you <URL>\n", out)

	// markers are not HTML escaped in structured output
	out, _, err = run(t, "", "clean", "--format", "json", tweet)
	require.NoError(t, err)
	assert.Contains(t, out, `"<USER>"`)
	assert.NotContains(t, out, `\u003c`)
}

func TestClean_Stdin(t *testing.T) {
	out, _, err := run(t, "@bob hi!\n\nvisit example.com\n", "clean")
	require.NoError(t, err)
	assert.Equal(t, "<USER> hi\nvisit <URL>\n", out)
}

func TestClean_Steps(t *testing.T) {
	out, _, err := run(t, "", "clean", "--steps", "remove_stopwords,stem_words", "The cats are running")
	require.NoError(t, err)
	assert.Equal(t, "cat run\n", out)
}

func TestClean_JSON(t *testing.T) {
	out, _, err := run(t, "", "clean", "--preset", "strict", "--format", "json", "this is a test 99a")
	require.NoError(t, err)

	var result cleanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Documents, 1)
	assert.Equal(t, []string{"this", "is", "a", "test"}, result.Documents[0].Cleaned)
	assert.Equal(t, []string{"this", "is", "a", "test", "99a"}, result.Documents[0].Tokens)
	assert.Nil(t, result.Documents[0].Trace)
	assert.Equal(t, []string{
		"remove_all_punctuations", "remove_all_non_alphabet_only_words",
		"remove_tokens_with_majority_non_alphabetic_characters", "remove_whitespace",
	}, result.Pipeline)
}

func TestClean_YAMLWithDiffs(t *testing.T) {
	out, _, err := run(t, "", "clean", "--format", "yaml", "--diffs", "@Mary hi")
	require.NoError(t, err)

	var result cleanOutput
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	require.Len(t, result.Documents, 1)
	require.NotNil(t, result.Documents[0].Trace)
	assert.Len(t, result.Documents[0].Trace.Diffs, 6)
	assert.Equal(t, []string{"<USER>", "hi"}, result.Documents[0].Cleaned)
}

func TestClean_FileWithDiffsAndExplain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweets.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,body\n1,@Mary hello\n"), 0644))

	out, _, err := run(t, "", "clean", "--file", path, "--field", "body", "--preset", "minimal", "--diffs", "--explain")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@Mary hello\nStep 1: Remove punctuations from the beginning and end of a word"))
	assert.Contains(t, out, "\nDiff: [\"@Mary\" \"hello\"] -> [\"@Mary\" \"hello\"]\nStep 2: ")
	assert.Equal(t, 3, strings.Count(out, "Diff: "))

	// diffs alone keep the compact per-step layout
	out, _, err = run(t, "", "clean", "--file", path, "--field", "body", "--preset", "minimal", "--diffs")
	require.NoError(t, err)
	assert.Contains(t, out, `  1. remove_preceding_and_trailing_punctuations: ["@Mary" "hello"] -> ["@Mary" "hello"]`)
	assert.NotContains(t, out, "Step 1:")
}

func TestClean_ExplainDiffsPerDocument(t *testing.T) {
	out, _, err := run(t, "", "clean", "--preset", "minimal", "--diffs", "--explain", "hi", "bye")
	require.NoError(t, err)

	first := strings.Index(out, "hi\nStep 1:")
	second := strings.Index(out, "bye\nStep 1:")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	assert.Contains(t, out[:second], `Diff: ["hi"] -> ["hi"]`)
	assert.NotContains(t, out[:second], "bye")
	assert.Contains(t, out[second:], `Diff: ["bye"] -> ["bye"]`)
}

func TestClean_ExplainWithoutDiffs(t *testing.T) {
	out, _, err := run(t, "", "clean", "--preset", "minimal", "--explain", "hi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Step 1: "))
	assert.True(t, strings.HasSuffix(out, "\n\nhi\n"))
	assert.NotContains(t, out, "Diff:")
}

func TestClean_ConfigFilePipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
pipeline:
  steps:
    - name: replace_usernames
      config:
        replace_with: "[user]"
    - remove_tokens_with_only_punctuations
`), 0644))

	out, _, err := run(t, "", "clean", "--config", path, "@Mary ... hi")
	require.NoError(t, err)
	assert.Equal(t, "[user] hi\n", out)

	// an explicit preset wins over the config pipeline
	out, _, err = run(t, "", "clean", "--config", path, "--preset", "tweet", "@Mary ... hi")
	require.NoError(t, err)
	assert.Equal(t, "<USER> hi\n", out)
}

func TestClean_Dedupe(t *testing.T) {
	out, _, err := run(t, "", "clean", "--dedupe", "@Mary hi!", "@Bob hi", "hello", "@Ann HI")
	require.NoError(t, err)
	assert.Equal(t, "<USER> hi\nhello\n<USER> HI\n", out)

	out, _, err = run(t, "", "clean", "--dedupe=normalized", "--format", "json", "@Mary hi!", "@Bob hi", "hello", "@Ann HI")
	require.NoError(t, err)

	var result cleanOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Documents, 2)
	assert.Equal(t, 1, result.Documents[0].Index)
	assert.Equal(t, 3, result.Documents[1].Index)
	assert.Equal(t, map[int]int{2: 1, 4: 1}, result.DuplicateOf)
}

func TestClean_DebugLogsCarryServiceNames(t *testing.T) {
	_, stderr, err := run(t, "", "clean", "--debug", "--dedupe", "@Mary hi", "@Bob hi")
	require.NoError(t, err)
	assert.Contains(t, stderr, "service=cleanse")
	assert.Contains(t, stderr, "service=deduplication")

	// quiet by default
	_, stderr, err = run(t, "", "clean", "@Mary hi")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestClean_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code apperrors.ErrorCode
	}{
		{name: "unknown preset", args: []string{"clean", "--preset", "nope", "x"}, code: apperrors.ErrCodeNotFound},
		{name: "unknown step", args: []string{"clean", "--steps", "nope", "x"}, code: apperrors.ErrCodeNotFound},
		{name: "bad format", args: []string{"clean", "--format", "xml", "x"}, code: apperrors.ErrCodeInvalidConfig},
		{name: "args and file", args: []string{"clean", "--file", "a.txt", "x"}, code: apperrors.ErrCodeUsage},
		{name: "unsupported file", args: []string{"clean", "--file", "a.pdf"}, code: apperrors.ErrCodeUnsupportedFormat},
		{name: "bad dedupe strategy", args: []string{"clean", "--dedupe=fuzzy", "x"}, code: apperrors.ErrCodeInvalidConfig},
		{name: "step needs config", args: []string{"clean", "--steps", "remove_unicode", "x"}, code: apperrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, "", tt.args...)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, tt.code), err.Error())
		})
	}
}

func TestSteps(t *testing.T) {
	out, _, err := run(t, "", "steps")
	require.NoError(t, err)
	assert.Contains(t, out, "replace_usernames\n  aliases: replaceusernames\n  Remove usernames from a sentence | Replace with: <USER>\n")
	assert.Contains(t, out, "remove_unicode\n")
	assert.Contains(t, out, "requires configuration")

	out, _, err = run(t, "", "steps", "--format", "json")
	require.NoError(t, err)
	var infos []stepInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, 17)
}

func TestPresets(t *testing.T) {
	out, _, err := run(t, "", "presets", "--format", "yaml")
	require.NoError(t, err)

	var infos []presetInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 3)
	assert.Equal(t, "minimal", infos[0].Name)
	assert.Equal(t, "tweet", infos[2].Name)
	assert.Len(t, infos[2].Steps, 6)

	out, _, err = run(t, "", "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "tweet: Social media cleaning with URL and username markers\n  1. remove_emojis\n")
}

package cleanse

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/forPelevin/gomoji"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// emoji data ships with English short names only.
var emojiLanguages = map[string]struct{}{"en": {}, "english": {}}

func checkEmojiLanguage(language string) (string, error) {
	if language == "" {
		return "en", nil
	}
	if _, ok := emojiLanguages[strings.ToLower(language)]; !ok {
		return "", apperrors.InvalidConfig(fmt.Sprintf("unsupported emoji language %q", language)).
			WithDetails("supported", []string{"en"})
	}
	return "en", nil
}

// slugSymbols keeps keycap slugs apart once punctuation is dropped.
var slugSymbols = strings.NewReplacer("#", "-number-sign", "*", "-asterisk")

// shortName converts an emoji to its ":short_name:" form. Names only hold
// [a-z0-9_]; slugs that still carry non-ASCII letters after accent folding
// fall back to the code points, e.g. ":u2641:".
func shortName(em gomoji.Emoji) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	slug, _, err := transform.String(fold, slugSymbols.Replace(em.Slug))
	if err != nil {
		slug = em.Slug
	}

	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(slug) {
		switch {
		case r > unicode.MaxASCII:
			return codePointName(em)
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}
	if b.Len() == 0 {
		return codePointName(em)
	}
	return ":" + b.String() + ":"
}

func codePointName(em gomoji.Emoji) string {
	fields := strings.Fields(strings.ToLower(em.CodePoint))
	if len(fields) == 0 {
		for _, r := range em.Character {
			fields = append(fields, fmt.Sprintf("%x", r))
		}
	}
	return ":u" + strings.Join(fields, "_") + ":"
}

func demojize(token string) string {
	found := gomoji.FindAll(token)
	if len(found) == 0 {
		return token
	}
	// longest sequences first so ZWJ sequences win over their parts
	sort.SliceStable(found, func(i, j int) bool {
		return len(found[i].Character) > len(found[j].Character)
	})
	for _, em := range found {
		token = strings.ReplaceAll(token, em.Character, shortName(em))
	}
	return token
}

var (
	shortNameOnce  sync.Once
	shortNameIndex map[string]string
	shortNameRe    = regexp2.MustCompile(`:[a-z0-9_]+:`, regexp2.None)
)

// emojiByShortName maps ":short_name:" to the emoji character. Only characters
// that demojize to exactly their own name are indexed. When several characters
// share a name the shortest (then lexically smallest) wins.
func emojiByShortName() map[string]string {
	shortNameOnce.Do(func() {
		shortNameIndex = make(map[string]string)
		for _, em := range gomoji.AllEmojis() {
			key := shortName(em)
			if demojize(em.Character) != key {
				continue
			}
			current, ok := shortNameIndex[key]
			if !ok || preferEmoji(em.Character, current) {
				shortNameIndex[key] = em.Character
			}
		}
	})
	return shortNameIndex
}

func preferEmoji(candidate, current string) bool {
	cl, ul := utf8.RuneCountInString(candidate), utf8.RuneCountInString(current)
	if cl != ul {
		return cl < ul
	}
	return candidate < current
}

func emojize(token string) string {
	if !strings.Contains(token, ":") {
		return token
	}
	index := emojiByShortName()
	out, err := shortNameRe.ReplaceFunc(token, func(m regexp2.Match) string {
		if ch, ok := index[m.String()]; ok {
			return ch
		}
		return m.String()
	}, -1, -1)
	if err != nil {
		return token
	}
	return out
}

// RemoveEmojisConfig configures RemoveEmojis.
type RemoveEmojisConfig struct {
	// IgnoredEmojis are tokens kept even when they carry an emoji.
	IgnoredEmojis []string `mapstructure:"ignored_emojis"`
}

// RemoveEmojis drops every token that contains an emoji, except ignored ones.
type RemoveEmojis struct {
	ignored map[string]struct{}
}

// NewRemoveEmojis creates the step. The ignore list is copied.
func NewRemoveEmojis(config *RemoveEmojisConfig) *RemoveEmojis {
	var ignored []string
	if config != nil {
		ignored = config.IgnoredEmojis
	}
	return &RemoveEmojis{ignored: toSet(ignored)}
}

func (s *RemoveEmojis) Name() string { return "remove_emojis" }

func (s *RemoveEmojis) Process(tokens []string) []string {
	return filterTokens(tokens, func(token string) bool {
		if _, keep := s.ignored[token]; keep {
			return true
		}
		return !gomoji.ContainsEmoji(token)
	})
}

func (s *RemoveEmojis) Explain() string {
	return explainLine("Remove emojis from text", setParam("Ignored emojis", s.ignored))
}

// EmojiLanguageConfig configures the emoji/text conversion steps.
type EmojiLanguageConfig struct {
	Language string `mapstructure:"language"`
}

// DefaultEmojiLanguageConfig returns English.
func DefaultEmojiLanguageConfig() *EmojiLanguageConfig {
	return &EmojiLanguageConfig{Language: "en"}
}

// EmojiToText replaces emojis inside tokens with their ":short_name:" form.
type EmojiToText struct {
	language string
}

// NewEmojiToText creates the step; only English short names are available.
func NewEmojiToText(config *EmojiLanguageConfig) (*EmojiToText, error) {
	if config == nil {
		config = DefaultEmojiLanguageConfig()
	}
	language, err := checkEmojiLanguage(config.Language)
	if err != nil {
		return nil, err
	}
	return &EmojiToText{language: language}, nil
}

func (s *EmojiToText) Name() string { return "emoji_to_text" }

func (s *EmojiToText) Process(tokens []string) []string {
	return mapTokens(tokens, demojize)
}

func (s *EmojiToText) Explain() string {
	return explainLine("Replace emojis with text", stringParam("Language", s.language))
}

// TextToEmoji replaces ":short_name:" substrings with the emoji they name.
// Unknown short names are left as they are.
type TextToEmoji struct {
	language string
}

// NewTextToEmoji creates the step; only English short names are available.
func NewTextToEmoji(config *EmojiLanguageConfig) (*TextToEmoji, error) {
	if config == nil {
		config = DefaultEmojiLanguageConfig()
	}
	language, err := checkEmojiLanguage(config.Language)
	if err != nil {
		return nil, err
	}
	return &TextToEmoji{language: language}, nil
}

func (s *TextToEmoji) Name() string { return "text_to_emoji" }

func (s *TextToEmoji) Process(tokens []string) []string {
	return mapTokens(tokens, emojize)
}

func (s *TextToEmoji) Explain() string {
	return explainLine("Replace text with emojis", stringParam("Language", s.language))
}

package cleanse

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// Character class predicates over a whole token. The empty token satisfies none of them.

func isAlphabetic(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0
}

func isAlphanumeric(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	}) < 0
}

func isNumeric(s string) bool {
	return s != "" && strings.IndexFunc(s, func(r rune) bool { return !unicode.IsNumber(r) }) < 0
}

// RemoveAllNonAlphabetOnlyWords keeps only tokens made entirely of letters.
type RemoveAllNonAlphabetOnlyWords struct{}

func NewRemoveAllNonAlphabetOnlyWords() *RemoveAllNonAlphabetOnlyWords {
	return &RemoveAllNonAlphabetOnlyWords{}
}

func (s *RemoveAllNonAlphabetOnlyWords) Name() string { return "remove_all_non_alphabet_only_words" }

func (s *RemoveAllNonAlphabetOnlyWords) Process(tokens []string) []string {
	return filterTokens(tokens, isAlphabetic)
}

func (s *RemoveAllNonAlphabetOnlyWords) Explain() string {
	return "Remove all non alphabet only words from a list of words"
}

// RemoveAllNonAlphanumericOnlyWords keeps only tokens made entirely of letters and numbers.
type RemoveAllNonAlphanumericOnlyWords struct{}

func NewRemoveAllNonAlphanumericOnlyWords() *RemoveAllNonAlphanumericOnlyWords {
	return &RemoveAllNonAlphanumericOnlyWords{}
}

func (s *RemoveAllNonAlphanumericOnlyWords) Name() string {
	return "remove_all_non_alphanumeric_only_words"
}

func (s *RemoveAllNonAlphanumericOnlyWords) Process(tokens []string) []string {
	return filterTokens(tokens, isAlphanumeric)
}

func (s *RemoveAllNonAlphanumericOnlyWords) Explain() string {
	return "Remove all non alphanumeric characters from a list of words"
}

// RemoveAllNonNumericOnlyWords keeps only tokens made entirely of numeric characters.
type RemoveAllNonNumericOnlyWords struct{}

func NewRemoveAllNonNumericOnlyWords() *RemoveAllNonNumericOnlyWords {
	return &RemoveAllNonNumericOnlyWords{}
}

func (s *RemoveAllNonNumericOnlyWords) Name() string { return "remove_all_non_numeric_only_words" }

func (s *RemoveAllNonNumericOnlyWords) Process(tokens []string) []string {
	return filterTokens(tokens, isNumeric)
}

func (s *RemoveAllNonNumericOnlyWords) Explain() string {
	return "Remove all non numeric only words from a list of words"
}

// MajorityNonAlphabeticConfig configures RemoveTokensWithMajorityNonAlphabeticCharacters.
type MajorityNonAlphabeticConfig struct {
	// Threshold is the ratio of non-alphabetic characters above which a token is dropped.
	Threshold float64 `mapstructure:"threshold"`
}

// DefaultMajorityNonAlphabeticConfig returns a threshold of 0.1.
func DefaultMajorityNonAlphabeticConfig() *MajorityNonAlphabeticConfig {
	return &MajorityNonAlphabeticConfig{Threshold: 0.1}
}

// RemoveTokensWithMajorityNonAlphabeticCharacters drops tokens whose share of
// non-alphabetic characters is strictly greater than the threshold.
type RemoveTokensWithMajorityNonAlphabeticCharacters struct {
	threshold float64
}

// NewRemoveTokensWithMajorityNonAlphabeticCharacters creates the step; nil config means defaults.
func NewRemoveTokensWithMajorityNonAlphabeticCharacters(config *MajorityNonAlphabeticConfig) *RemoveTokensWithMajorityNonAlphabeticCharacters {
	if config == nil {
		config = DefaultMajorityNonAlphabeticConfig()
	}
	return &RemoveTokensWithMajorityNonAlphabeticCharacters{threshold: config.Threshold}
}

func (s *RemoveTokensWithMajorityNonAlphabeticCharacters) Name() string {
	return "remove_tokens_with_majority_non_alphabetic_characters"
}

func (s *RemoveTokensWithMajorityNonAlphabeticCharacters) Process(tokens []string) []string {
	return filterTokens(tokens, func(token string) bool {
		return nonAlphabeticRatio(token) <= s.threshold
	})
}

func (s *RemoveTokensWithMajorityNonAlphabeticCharacters) Explain() string {
	return explainLine("Remove tokens with majority non alphabetic characters from a list of words",
		floatParam("Threshold", s.threshold))
}

// nonAlphabeticRatio is computed per character; an empty token has no letters and counts as 1.
func nonAlphabeticRatio(token string) float64 {
	total, letters := 0, 0
	for _, r := range token {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		return 1
	}
	return float64(total-letters) / float64(total)
}

// RemoveWhitespaceTokens drops tokens made only of space characters.
// Tabs and other whitespace are not covered.
type RemoveWhitespaceTokens struct{}

func NewRemoveWhitespaceTokens() *RemoveWhitespaceTokens {
	return &RemoveWhitespaceTokens{}
}

func (s *RemoveWhitespaceTokens) Name() string { return "remove_whitespace" }

func (s *RemoveWhitespaceTokens) Process(tokens []string) []string {
	return filterTokens(tokens, func(token string) bool {
		return strings.Trim(token, " ") != ""
	})
}

func (s *RemoveWhitespaceTokens) Explain() string {
	return "Remove whitespace from a sentence or chunks of whitespace"
}

// RemoveUnicodeConfig configures RemoveUnicode. At least one field must be set.
type RemoveUnicodeConfig struct {
	// Below drops characters with a code point lower than this value.
	Below *int `mapstructure:"unicode_below"`
	// Above drops characters with a code point greater than this value.
	Above *int `mapstructure:"unicode_above"`
	// Remove lists individual characters to drop.
	Remove []string `mapstructure:"remove_unicode"`
}

// RemoveUnicode strips characters from inside tokens by code point range or by an
// explicit list. Tokens are kept even when they become empty.
type RemoveUnicode struct {
	below  *int
	above  *int
	remove map[rune]struct{}
	listed []string
}

// NewRemoveUnicode validates the selection criteria at construction.
func NewRemoveUnicode(config *RemoveUnicodeConfig) (*RemoveUnicode, error) {
	if config == nil || (config.Below == nil && config.Above == nil && len(config.Remove) == 0) {
		return nil, apperrors.InvalidConfig("at least one of unicode_below, unicode_above or remove_unicode must be defined")
	}

	s := &RemoveUnicode{remove: make(map[rune]struct{})}
	if config.Below != nil {
		below := *config.Below
		s.below = &below
	}
	if config.Above != nil {
		above := *config.Above
		s.above = &above
	}
	for _, item := range config.Remove {
		if utf8.RuneCountInString(item) != 1 {
			return nil, apperrors.InvalidConfig("remove_unicode entries must be single characters").
				WithDetails("entry", item)
		}
		r, _ := utf8.DecodeRuneInString(item)
		s.remove[r] = struct{}{}
	}
	for r := range s.remove {
		s.listed = append(s.listed, string(r))
	}
	sort.Strings(s.listed)

	return s, nil
}

func (s *RemoveUnicode) Name() string { return "remove_unicode" }

func (s *RemoveUnicode) Process(tokens []string) []string {
	return mapTokens(tokens, func(token string) string {
		return strings.Map(func(r rune) rune {
			if s.below != nil && int(r) < *s.below {
				return -1
			}
			if s.above != nil && int(r) > *s.above {
				return -1
			}
			if _, drop := s.remove[r]; drop {
				return -1
			}
			return r
		}, token)
	})
}

func (s *RemoveUnicode) Explain() string {
	return explainLine("Remove unicode characters from a sentence",
		optionalIntParam("Unicode below", s.below),
		optionalIntParam("Unicode above", s.above),
		stringParam("Remove unicode", fmt.Sprintf("%v", s.listed)))
}

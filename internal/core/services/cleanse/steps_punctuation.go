package cleanse

import "strings"

// PunctuationConfig configures the punctuation steps.
type PunctuationConfig struct {
	Punctuations string `mapstructure:"punctuations"`
}

// DefaultPunctuationConfig returns the ASCII punctuation set.
func DefaultPunctuationConfig() *PunctuationConfig {
	return &PunctuationConfig{Punctuations: DefaultPunctuations}
}

// punctuationsOrDefault only falls back for a nil config. An explicitly empty
// set is kept and then matches nothing but the empty token.
func punctuationsOrDefault(config *PunctuationConfig) string {
	if config == nil {
		return DefaultPunctuations
	}
	return config.Punctuations
}

// isPunctuationToken reports whether the whole token appears in the punctuation string.
// The empty token is always a member.
func isPunctuationToken(punctuations, token string) bool {
	return strings.Contains(punctuations, token)
}

// RemoveAllPunctuations drops tokens that are punctuation as a whole.
// Mixed tokens such as "hi!" are kept unchanged.
type RemoveAllPunctuations struct {
	punctuations string
}

// NewRemoveAllPunctuations creates the step; nil config means DefaultPunctuationConfig.
func NewRemoveAllPunctuations(config *PunctuationConfig) *RemoveAllPunctuations {
	return &RemoveAllPunctuations{punctuations: punctuationsOrDefault(config)}
}

func (s *RemoveAllPunctuations) Name() string { return "remove_all_punctuations" }

func (s *RemoveAllPunctuations) Process(tokens []string) []string {
	return filterTokens(tokens, func(token string) bool {
		return !isPunctuationToken(s.punctuations, token)
	})
}

func (s *RemoveAllPunctuations) Explain() string {
	return explainLine("Remove all punctuations from a list of words",
		stringParam("Punctuations", s.punctuations))
}

// RemoveTokensWithOnlyPunctuations drops tokens made only of punctuation characters,
// e.g. "...." or "?!" left over by tokenization.
type RemoveTokensWithOnlyPunctuations struct {
	punctuations string
	set          map[rune]struct{}
}

// NewRemoveTokensWithOnlyPunctuations creates the step; nil config means DefaultPunctuationConfig.
func NewRemoveTokensWithOnlyPunctuations(config *PunctuationConfig) *RemoveTokensWithOnlyPunctuations {
	punctuations := punctuationsOrDefault(config)
	set := make(map[rune]struct{}, len(punctuations))
	for _, r := range punctuations {
		set[r] = struct{}{}
	}
	return &RemoveTokensWithOnlyPunctuations{punctuations: punctuations, set: set}
}

func (s *RemoveTokensWithOnlyPunctuations) Name() string {
	return "remove_tokens_with_only_punctuations"
}

func (s *RemoveTokensWithOnlyPunctuations) Process(tokens []string) []string {
	return filterTokens(tokens, func(token string) bool {
		for _, r := range token {
			if _, ok := s.set[r]; !ok {
				return true
			}
		}
		// all characters are punctuation, including the empty token
		return false
	})
}

func (s *RemoveTokensWithOnlyPunctuations) Explain() string {
	return explainLine("Remove tokens with only punctuations from a list of words",
		stringParam("Punctuations", s.punctuations))
}

// EdgePunctuationConfig configures RemovePrecedingAndTrailingPunctuations.
type EdgePunctuationConfig struct {
	Punctuations               string `mapstructure:"punctuations"`
	IgnoreStartingPunctuations bool   `mapstructure:"ignore_starting_punctuations"`
	IgnoreEndingPunctuations   bool   `mapstructure:"ignore_ending_punctuations"`
}

// DefaultEdgePunctuationConfig trims both ends with the ASCII punctuation set.
func DefaultEdgePunctuationConfig() *EdgePunctuationConfig {
	return &EdgePunctuationConfig{Punctuations: DefaultPunctuations}
}

// RemovePrecedingAndTrailingPunctuations drops punctuation tokens from the start and
// end of the sequence until the first non-punctuation token on each side.
type RemovePrecedingAndTrailingPunctuations struct {
	punctuations string
	ignoreStart  bool
	ignoreEnd    bool
}

// NewRemovePrecedingAndTrailingPunctuations creates the step; nil config means DefaultEdgePunctuationConfig.
func NewRemovePrecedingAndTrailingPunctuations(config *EdgePunctuationConfig) *RemovePrecedingAndTrailingPunctuations {
	if config == nil {
		config = DefaultEdgePunctuationConfig()
	}
	return &RemovePrecedingAndTrailingPunctuations{
		punctuations: config.Punctuations,
		ignoreStart:  config.IgnoreStartingPunctuations,
		ignoreEnd:    config.IgnoreEndingPunctuations,
	}
}

func (s *RemovePrecedingAndTrailingPunctuations) Name() string {
	return "remove_preceding_and_trailing_punctuations"
}

func (s *RemovePrecedingAndTrailingPunctuations) Process(tokens []string) []string {
	start, end := 0, len(tokens)
	if !s.ignoreStart {
		for start < end && isPunctuationToken(s.punctuations, tokens[start]) {
			start++
		}
	}
	if !s.ignoreEnd {
		for end > start && isPunctuationToken(s.punctuations, tokens[end-1]) {
			end--
		}
	}
	return cloneTokens(tokens[start:end])
}

func (s *RemovePrecedingAndTrailingPunctuations) Explain() string {
	return explainLine("Remove punctuations from the beginning and end of a word",
		stringParam("Punctuations", s.punctuations),
		boolParam("Ignore starting punctuations", s.ignoreStart),
		boolParam("Ignore ending punctuations", s.ignoreEnd))
}

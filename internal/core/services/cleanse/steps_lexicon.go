package cleanse

import (
	"fmt"
	"strings"

	"github.com/kljensen/snowball"

	"github.com/alejandroruanova/cleansetext/internal/core/services/lexicon"
	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// StopWordsRemoverConfig configures StopWordsRemover.
type StopWordsRemoverConfig struct {
	// IgnoreCase compares lowercased tokens and returns them lowercased.
	IgnoreCase bool `mapstructure:"ignore_case"`
	// IgnoredStopwords are never removed.
	IgnoredStopwords []string `mapstructure:"ignored_stopwords"`
	// IncludeStopwords are removed in addition to the language list.
	IncludeStopwords []string `mapstructure:"include_stopwords"`
	Language         string   `mapstructure:"language"`

	// Lexicon supplies the language list; nil means the embedded lists.
	Lexicon lexicon.Provider `mapstructure:"-"`
}

// DefaultStopWordsRemoverConfig returns case-insensitive English removal.
func DefaultStopWordsRemoverConfig() *StopWordsRemoverConfig {
	return &StopWordsRemoverConfig{
		IgnoreCase: true,
		Language:   "english",
	}
}

// StopWordsRemover drops tokens found in a language stopword list.
type StopWordsRemover struct {
	ignoreCase bool
	language   string
	stopwords  map[string]struct{}
	ignored    map[string]struct{}
	included   map[string]struct{}
}

// NewStopWordsRemover loads the stopword list once; the step is read-only afterwards.
func NewStopWordsRemover(config *StopWordsRemoverConfig) (*StopWordsRemover, error) {
	if config == nil {
		config = DefaultStopWordsRemoverConfig()
	}
	language := config.Language
	if language == "" {
		language = "english"
	}
	provider := config.Lexicon
	if provider == nil {
		provider = lexicon.Embedded()
	}

	words, err := provider.Stopwords(language)
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}

	normalize := func(word string) string {
		if config.IgnoreCase {
			return strings.ToLower(word)
		}
		return word
	}

	s := &StopWordsRemover{
		ignoreCase: config.IgnoreCase,
		language:   language,
		stopwords:  make(map[string]struct{}, len(words)+len(config.IncludeStopwords)),
		ignored:    make(map[string]struct{}, len(config.IgnoredStopwords)),
		included:   make(map[string]struct{}, len(config.IncludeStopwords)),
	}
	for _, word := range words {
		s.stopwords[normalize(word)] = struct{}{}
	}
	for _, word := range config.IncludeStopwords {
		s.included[normalize(word)] = struct{}{}
		s.stopwords[normalize(word)] = struct{}{}
	}
	for _, word := range config.IgnoredStopwords {
		s.ignored[normalize(word)] = struct{}{}
	}

	return s, nil
}

func (s *StopWordsRemover) Name() string { return "remove_stopwords" }

// Process returns the lowercased form of surviving tokens when IgnoreCase is set.
func (s *StopWordsRemover) Process(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		word := token
		if s.ignoreCase {
			word = strings.ToLower(token)
		}
		if _, stop := s.stopwords[word]; stop {
			if _, keep := s.ignored[word]; !keep {
				continue
			}
		}
		out = append(out, word)
	}
	return out
}

func (s *StopWordsRemover) Explain() string {
	return explainLine("Remove stopwords from text",
		boolParam("Ignore case", s.ignoreCase),
		setParam("Ignored stopwords", s.ignored),
		setParam("Included stopwords", s.included),
		stringParam("Language", s.language))
}

// StemWordsConfig configures StemWords.
type StemWordsConfig struct {
	Language string `mapstructure:"language"`
	// StemStopwords also stems words the stemmer considers stopwords.
	StemStopwords bool `mapstructure:"stem_stopwords"`
}

// DefaultStemWordsConfig returns English stemming that leaves stopwords alone.
func DefaultStemWordsConfig() *StemWordsConfig {
	return &StemWordsConfig{Language: "english"}
}

// StemWords reduces alphabetic tokens to their Snowball stem. Other tokens, such as
// markers and numbers, and tokens the stemmer rejects pass through.
type StemWords struct {
	language      string
	stemStopwords bool
}

// NewStemWords checks that the language has a Snowball stemmer.
func NewStemWords(config *StemWordsConfig) (*StemWords, error) {
	if config == nil {
		config = DefaultStemWordsConfig()
	}
	language := strings.ToLower(config.Language)
	if language == "" {
		language = "english"
	}
	if _, err := snowball.Stem("test", language, true); err != nil {
		return nil, apperrors.InvalidConfigWrap(err, fmt.Sprintf("no stemmer for language %q", language))
	}
	return &StemWords{language: language, stemStopwords: config.StemStopwords}, nil
}

func (s *StemWords) Name() string { return "stem_words" }

func (s *StemWords) Process(tokens []string) []string {
	return mapTokens(tokens, func(token string) string {
		if !isAlphabetic(token) {
			return token
		}
		stemmed, err := snowball.Stem(token, s.language, s.stemStopwords)
		if err != nil || stemmed == "" {
			return token
		}
		return stemmed
	})
}

func (s *StemWords) Explain() string {
	return explainLine("Stem words",
		stringParam("Language", s.language),
		boolParam("Stem stopwords", s.stemStopwords))
}

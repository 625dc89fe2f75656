package cleanse

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"

	"github.com/alejandroruanova/cleansetext/internal/core/services/lexicon"
	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// Options carries the collaborators step factories may need.
type Options struct {
	// Lexicon is handed to lexicon-driven steps; nil means the embedded lists.
	Lexicon lexicon.Provider
	// Language is the default for language-aware steps whose config does not set one.
	Language string
}

// StepFactory builds a step from a loosely typed configuration map.
type StepFactory func(config map[string]interface{}, opts Options) (Step, error)

// Registry manages all available step implementations
type Registry struct {
	mu        sync.RWMutex
	factories map[string]StepFactory
	aliases   map[string]string
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry returns an empty registry. Most callers use the package-level functions,
// which operate on the registry populated at init.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]StepFactory),
		aliases:   make(map[string]string),
	}
}

// Register adds a step factory with optional aliases. Names and aliases are
// stored lowercased and trimmed.
func (r *Registry) Register(name string, factory StepFactory, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = normalizeIdentifier(name)
	r.factories[name] = factory
	for _, alias := range aliases {
		r.aliases[normalizeIdentifier(alias)] = name
	}
}

// Get retrieves a step factory by name or alias
func (r *Registry) Get(identifier string) (StepFactory, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name := normalizeIdentifier(identifier)
	if canonical, exists := r.aliases[name]; exists {
		name = canonical
	}

	factory, exists := r.factories[name]
	if !exists {
		return nil, "", apperrors.NotFound(fmt.Sprintf("step '%s' not found", identifier)).
			WithDetails("available", r.listLocked())
	}

	return factory, name, nil
}

// Create builds a step by name or alias
func (r *Registry) Create(identifier string, config map[string]interface{}, opts Options) (Step, error) {
	factory, name, err := r.Get(identifier)
	if err != nil {
		return nil, err
	}

	step, err := factory(config, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create step %s: %w", name, err)
	}
	return step, nil
}

// ListAvailable returns the canonical step names, sorted
func (r *Registry) ListAvailable() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *Registry) listLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListAvailableWithMetadata returns aliases and the default explanation of every step.
// Steps that cannot be built without configuration report the construction error instead.
func (r *Registry) ListAvailableWithMetadata() map[string]map[string]interface{} {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]map[string]interface{})

	for name, factory := range r.factories {
		var stepAliases []string
		for alias, canonical := range r.aliases {
			if canonical == name {
				stepAliases = append(stepAliases, alias)
			}
		}
		sort.Strings(stepAliases)

		meta := map[string]interface{}{
			"aliases": stepAliases,
		}
		if instance, err := factory(nil, Options{}); err != nil {
			meta["error"] = err.Error()
		} else {
			meta["explain"] = instance.Explain()
		}
		result[name] = meta
	}

	return result
}

func normalizeIdentifier(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// Register adds a step factory to the global registry
func Register(name string, factory StepFactory, aliases ...string) {
	globalRegistry.Register(name, factory, aliases...)
}

// Get retrieves a step factory from the global registry
func Get(identifier string) (StepFactory, error) {
	factory, _, err := globalRegistry.Get(identifier)
	return factory, err
}

// Create builds a step from the global registry
func Create(identifier string, config map[string]interface{}, opts Options) (Step, error) {
	return globalRegistry.Create(identifier, config, opts)
}

// ListAvailable returns the globally registered step names, sorted
func ListAvailable() []string {
	return globalRegistry.ListAvailable()
}

// ListAvailableWithMetadata describes every globally registered step
func ListAvailableWithMetadata() map[string]map[string]interface{} {
	return globalRegistry.ListAvailableWithMetadata()
}

// decodeConfig overlays input onto out, which already holds the defaults.
// Unknown keys are rejected so typos surface at construction.
func decodeConfig(input map[string]interface{}, out interface{}) error {
	if len(input) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return apperrors.InternalWrap(err, "failed to build config decoder")
	}
	if err := decoder.Decode(input); err != nil {
		return apperrors.InvalidConfigWrap(err, "invalid step configuration")
	}
	return nil
}

func noConfig(name string, build func() Step) StepFactory {
	return func(config map[string]interface{}, _ Options) (Step, error) {
		if len(config) > 0 {
			return nil, apperrors.InvalidConfig(fmt.Sprintf("step %s takes no configuration", name))
		}
		return build(), nil
	}
}

// init registers the built-in steps
func init() {
	Register("remove_emojis", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := &RemoveEmojisConfig{}
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewRemoveEmojis(cfg), nil
	}, "RemoveEmojis")

	Register("emoji_to_text", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultEmojiLanguageConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewEmojiToText(cfg)
	}, "EmojiToText", "demojize")

	Register("text_to_emoji", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultEmojiLanguageConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewTextToEmoji(cfg)
	}, "TextToEmoji", "emojize")

	Register("remove_stopwords", func(config map[string]interface{}, opts Options) (Step, error) {
		cfg := DefaultStopWordsRemoverConfig()
		if opts.Language != "" {
			cfg.Language = opts.Language
		}
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		cfg.Lexicon = opts.Lexicon
		return NewStopWordsRemover(cfg)
	}, "StopWordsRemover", "stopwords")

	Register("remove_preceding_and_trailing_punctuations", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultEdgePunctuationConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewRemovePrecedingAndTrailingPunctuations(cfg), nil
	}, "RemovePrecedingAndTrailingPunctuations", "trim_punctuations")

	Register("remove_all_punctuations", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultPunctuationConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewRemoveAllPunctuations(cfg), nil
	}, "RemoveAllPunctuations")

	Register("remove_tokens_with_only_punctuations", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultPunctuationConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewRemoveTokensWithOnlyPunctuations(cfg), nil
	}, "RemoveTokensWithOnlyPunctuations")

	Register("remove_tokens_with_majority_non_alphabetic_characters", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultMajorityNonAlphabeticConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewRemoveTokensWithMajorityNonAlphabeticCharacters(cfg), nil
	}, "RemoveTokensWithMajorityNonAlphabeticCharacters")

	Register("remove_all_non_alphabet_only_words",
		noConfig("remove_all_non_alphabet_only_words", func() Step { return NewRemoveAllNonAlphabetOnlyWords() }),
		"RemoveAllNonAlphabetOnlyWords", "alphabetic_only")

	Register("remove_all_non_alphanumeric_only_words",
		noConfig("remove_all_non_alphanumeric_only_words", func() Step { return NewRemoveAllNonAlphanumericOnlyWords() }),
		"RemoveAllNonAlphanumericOnlyWords", "alphanumeric_only")

	Register("remove_all_non_numeric_only_words",
		noConfig("remove_all_non_numeric_only_words", func() Step { return NewRemoveAllNonNumericOnlyWords() }),
		"RemoveAllNonNumericOnlyWords", "numeric_only")

	Register("replace_urls_and_html_tags", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultURLReplaceConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewReplaceURLsAndHTMLTags(cfg), nil
	}, "ReplaceURLsandHTMLTags", "replace_urls")

	Register("replace_usernames", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultUsernameReplaceConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewReplaceUsernames(cfg), nil
	}, "ReplaceUsernames")

	Register("remove_unicode", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := &RemoveUnicodeConfig{}
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewRemoveUnicode(cfg)
	}, "RemoveUnicode")

	Register("remove_whitespace",
		noConfig("remove_whitespace", func() Step { return NewRemoveWhitespaceTokens() }),
		"RemoveWhiteSpaceOrChunksOfWhiteSpace")

	Register("normalize_unicode", func(config map[string]interface{}, _ Options) (Step, error) {
		cfg := DefaultNormalizeUnicodeConfig()
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewNormalizeUnicode(cfg)
	}, "NormalizeUnicode")

	Register("stem_words", func(config map[string]interface{}, opts Options) (Step, error) {
		cfg := DefaultStemWordsConfig()
		if opts.Language != "" {
			cfg.Language = opts.Language
		}
		if err := decodeConfig(config, cfg); err != nil {
			return nil, err
		}
		return NewStemWords(cfg)
	}, "StemWords", "stem")
}

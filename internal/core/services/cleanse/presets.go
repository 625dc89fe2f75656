package cleanse

import (
	"fmt"
	"sort"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

// StepSpec names a registered step and its configuration overrides.
type StepSpec struct {
	Name   string                 `mapstructure:"name" json:"name" yaml:"name"`
	Config map[string]interface{} `mapstructure:"config" json:"config,omitempty" yaml:"config,omitempty"`
}

// Preset is a named, ordered list of steps.
type Preset struct {
	Name        string
	Description string
	Steps       []StepSpec
}

var presets = map[string]Preset{
	// Social media text: emojis and punctuation out, links and handles masked.
	"tweet": {
		Name:        "tweet",
		Description: "Social media cleaning with URL and username markers",
		Steps: []StepSpec{
			{Name: "remove_emojis"},
			{Name: "remove_all_punctuations"},
			{Name: "remove_tokens_with_only_punctuations"},
			{Name: "replace_urls_and_html_tags"},
			{Name: "replace_usernames"},
			{Name: "remove_whitespace"},
		},
	},
	"strict": {
		Name:        "strict",
		Description: "Keeps alphabetic words only",
		Steps: []StepSpec{
			{Name: "remove_all_punctuations"},
			{Name: "remove_all_non_alphabet_only_words"},
			{Name: "remove_tokens_with_majority_non_alphabetic_characters"},
			{Name: "remove_whitespace"},
		},
	},
	"minimal": {
		Name:        "minimal",
		Description: "Trims edge punctuation and blank tokens",
		Steps: []StepSpec{
			{Name: "remove_preceding_and_trailing_punctuations"},
			{Name: "remove_tokens_with_only_punctuations"},
			{Name: "remove_whitespace"},
		},
	},
}

// ListPresets returns the preset names, sorted.
func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (Preset, error) {
	preset, ok := presets[name]
	if !ok {
		return Preset{}, apperrors.NotFound(fmt.Sprintf("preset '%s' not found", name)).
			WithDetails("available", ListPresets())
	}
	preset.Steps = append([]StepSpec(nil), preset.Steps...)
	return preset, nil
}

// BuildPreset creates the steps of the named preset.
func BuildPreset(name string, opts Options) ([]Step, error) {
	preset, err := GetPreset(name)
	if err != nil {
		return nil, err
	}
	return BuildSteps(preset.Steps, opts)
}

// BuildSteps creates steps in the given order from the global registry.
func BuildSteps(specs []StepSpec, opts Options) ([]Step, error) {
	if len(specs) == 0 {
		return nil, apperrors.InvalidConfig("no steps configured")
	}

	steps := make([]Step, 0, len(specs))
	for i, spec := range specs {
		step, err := Create(spec.Name, spec.Config, opts)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

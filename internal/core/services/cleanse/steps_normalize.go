package cleanse

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	apperrors "github.com/alejandroruanova/cleansetext/internal/pkg/errors"
)

var normForms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

// NormalizeUnicodeConfig configures NormalizeUnicode.
type NormalizeUnicodeConfig struct {
	// Form is one of NFC, NFD, NFKC, NFKD.
	Form string `mapstructure:"form"`
	// StripAccents removes combining marks, turning "café" into "cafe".
	StripAccents bool `mapstructure:"strip_accents"`
}

// DefaultNormalizeUnicodeConfig returns NFKC without accent stripping.
func DefaultNormalizeUnicodeConfig() *NormalizeUnicodeConfig {
	return &NormalizeUnicodeConfig{Form: "NFKC"}
}

// NormalizeUnicode rewrites each token to a Unicode normalization form, folding
// full-width letters, ligatures and similar compatibility characters.
type NormalizeUnicode struct {
	formName     string
	form         norm.Form
	stripAccents bool
}

// NewNormalizeUnicode validates the normalization form.
func NewNormalizeUnicode(config *NormalizeUnicodeConfig) (*NormalizeUnicode, error) {
	if config == nil {
		config = DefaultNormalizeUnicodeConfig()
	}
	name := strings.ToUpper(config.Form)
	if name == "" {
		name = "NFKC"
	}
	form, ok := normForms[name]
	if !ok {
		return nil, apperrors.InvalidConfig(fmt.Sprintf("unknown normalization form %q", config.Form))
	}
	return &NormalizeUnicode{formName: name, form: form, stripAccents: config.StripAccents}, nil
}

func (s *NormalizeUnicode) Name() string { return "normalize_unicode" }

func (s *NormalizeUnicode) Process(tokens []string) []string {
	return mapTokens(tokens, s.normalize)
}

func (s *NormalizeUnicode) normalize(token string) string {
	if !s.stripAccents {
		return s.form.String(token)
	}
	// decompose, drop combining marks, then recompose into the configured form
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), s.form)
	result, _, err := transform.String(t, token)
	if err != nil {
		return token
	}
	return result
}

func (s *NormalizeUnicode) Explain() string {
	return explainLine("Normalize unicode characters",
		stringParam("Form", s.formName),
		boolParam("Strip accents", s.stripAccents))
}

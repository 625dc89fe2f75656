package cleanse

import (
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	// urlPattern is a loose host-like shape: word chars, a dot, then a segment
	// starting with a lowercase letter and at least two characters long.
	urlPattern = regexp2.MustCompile(
		`(?:http://|https://)?[A-Za-z0-9_]+\.[a-z][A-Za-z0-9_]{1,}[\.A-Za-z0-9_]*[/?\[A-Za-z0-9_~]*\]*\.?[A-Za-z0-9_]*\b`,
		regexp2.None)

	htmlEntityPattern = regexp2.MustCompile(`&(?:quot|amp|lt);`, regexp2.None)

	// usernamePattern requires a boundary before "@" that is not alphanumeric, dot, hyphen or
	// underscore, so "user@domain.com" does not match.
	usernamePattern = regexp2.MustCompile(
		`(?<=^|[^a-zA-Z0-9_.\-])@[A-Za-z]+[A-Za-z0-9_]+`,
		regexp2.None)
)

// urlFalsePositives are common English words that produce URL-shaped matches
// in informal text ("lol.you", "but.we").
var urlFalsePositives = []string{
	"but", "don", "we", "what", "you", "night", "since", "especially", "keep", "lol", "and", "last",
}

var urlFalsePositiveSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(urlFalsePositives))
	for _, word := range urlFalsePositives {
		set[word] = struct{}{}
	}
	return set
}()

// span is a half-open rune range.
type span struct {
	start, end int
}

func findSpans(re *regexp2.Regexp, s string, accept func(match string) bool) []span {
	var spans []span
	m, err := re.FindStringMatch(s)
	for err == nil && m != nil {
		if accept == nil || accept(m.String()) {
			spans = append(spans, span{start: m.Index, end: m.Index + m.Length})
		}
		m, err = re.FindNextMatch(m)
	}
	return spans
}

// splice replaces every span of s with marker in a single pass. Spans overlapping an
// earlier (or longer, at the same start) span are skipped.
func splice(s string, spans []span, marker string) string {
	if len(spans) == 0 {
		return s
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})

	runes := []rune(s)
	var b strings.Builder
	last := 0
	for _, sp := range spans {
		if sp.start < last {
			continue
		}
		b.WriteString(string(runes[last:sp.start]))
		b.WriteString(marker)
		last = sp.end
	}
	b.WriteString(string(runes[last:]))
	return b.String()
}

func isURLCandidate(match string) bool {
	for _, component := range strings.Split(match, ".") {
		if _, ok := urlFalsePositiveSet[strings.ToLower(component)]; ok {
			return false
		}
		// digits and underscores only, including empty segments
		if strings.Trim(component, "0123456789_") == "" {
			return false
		}
	}
	return true
}

// ReplaceConfig configures the marker-substitution steps.
type ReplaceConfig struct {
	ReplaceWith string `mapstructure:"replace_with"`
}

// DefaultURLReplaceConfig returns the "<URL>" marker.
func DefaultURLReplaceConfig() *ReplaceConfig {
	return &ReplaceConfig{ReplaceWith: "<URL>"}
}

// DefaultUsernameReplaceConfig returns the "<USER>" marker.
func DefaultUsernameReplaceConfig() *ReplaceConfig {
	return &ReplaceConfig{ReplaceWith: "<USER>"}
}

// ReplaceURLsAndHTMLTags substitutes URL-like substrings and the HTML entities
// &quot; &amp; &lt; inside each token with a marker.
type ReplaceURLsAndHTMLTags struct {
	replaceWith string
}

// NewReplaceURLsAndHTMLTags creates the step; nil config means DefaultURLReplaceConfig.
func NewReplaceURLsAndHTMLTags(config *ReplaceConfig) *ReplaceURLsAndHTMLTags {
	if config == nil {
		config = DefaultURLReplaceConfig()
	}
	return &ReplaceURLsAndHTMLTags{replaceWith: config.ReplaceWith}
}

func (s *ReplaceURLsAndHTMLTags) Name() string { return "replace_urls_and_html_tags" }

func (s *ReplaceURLsAndHTMLTags) Process(tokens []string) []string {
	return mapTokens(tokens, func(token string) string {
		spans := findSpans(urlPattern, token, isURLCandidate)
		spans = append(spans, findSpans(htmlEntityPattern, token, nil)...)
		return splice(token, spans, s.replaceWith)
	})
}

func (s *ReplaceURLsAndHTMLTags) Explain() string {
	return explainLine("Remove URLs and HTML tags from a sentence",
		stringParam("Replace with", s.replaceWith))
}

// ReplaceUsernames substitutes @handles inside each token with a marker.
type ReplaceUsernames struct {
	replaceWith string
}

// NewReplaceUsernames creates the step; nil config means DefaultUsernameReplaceConfig.
func NewReplaceUsernames(config *ReplaceConfig) *ReplaceUsernames {
	if config == nil {
		config = DefaultUsernameReplaceConfig()
	}
	return &ReplaceUsernames{replaceWith: config.ReplaceWith}
}

func (s *ReplaceUsernames) Name() string { return "replace_usernames" }

func (s *ReplaceUsernames) Process(tokens []string) []string {
	return mapTokens(tokens, func(token string) string {
		return splice(token, findSpans(usernamePattern, token, nil), s.replaceWith)
	})
}

func (s *ReplaceUsernames) Explain() string {
	return explainLine("Remove usernames from a sentence",
		stringParam("Replace with", s.replaceWith))
}

// Package tokenize splits raw text into the token sequences consumed by the
// cleaning pipeline. It keeps social media entities (links, handles, hashtags)
// whole so later steps can recognize them.
package tokenize

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/rivo/uniseg"
)

// Alternatives are tried in order at each position; the first one that matches wins.
var tokenPattern = regexp2.MustCompile(strings.Join([]string{
	// links with a scheme, without trailing punctuation
	`https?://[^\s]*[^\s.,!?;:)\]"']`,
	// email addresses
	`[\w.+\-]+@[\w\-]+(?:\.[\w\-]+)+`,
	// @handles and #hashtags
	`@[A-Za-z0-9_]+`,
	`#[\p{L}\p{N}_]+`,
	// dotted hosts with an optional path
	`[A-Za-z0-9_\-]+(?:\.[A-Za-z0-9_\-]+)+(?:/[^\s]*[^\s.,!?;:)\]"'])?`,
	// words, allowing inner apostrophes
	`[\p{L}\p{M}\p{N}_]+(?:['’][\p{L}\p{M}\p{N}]+)*`,
	// punctuation runs
	"(?:\\p{P}|[$+<=>^`|~])+",
}, "|"), regexp2.None)

// Option configures a Tokenizer.
type Option func(t *Tokenizer)

// WithLowercase lowercases every token.
func WithLowercase() Option {
	return func(t *Tokenizer) {
		t.lowercase = true
	}
}

// Tokenizer is stateless and safe for concurrent use.
type Tokenizer struct {
	lowercase bool
}

// New creates a tokenizer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize splits text on whitespace and then into entities, words, punctuation
// runs and single grapheme clusters for anything else (emoji, symbols).
func (t *Tokenizer) Tokenize(text string) []string {
	tokens := make([]string, 0, len(text)/4)
	for _, chunk := range strings.Fields(text) {
		tokens = t.appendChunk(tokens, chunk)
	}
	return tokens
}

// TokenizeAll tokenizes each document independently.
func (t *Tokenizer) TokenizeAll(texts []string) [][]string {
	out := make([][]string, len(texts))
	for i, text := range texts {
		out[i] = t.Tokenize(text)
	}
	return out
}

func (t *Tokenizer) appendChunk(tokens []string, chunk string) []string {
	runes := []rune(chunk)
	last := 0

	m, err := tokenPattern.FindStringMatch(chunk)
	for err == nil && m != nil {
		if m.Index > last {
			tokens = t.appendGraphemes(tokens, string(runes[last:m.Index]))
		}
		tokens = append(tokens, t.normalize(m.String()))
		last = m.Index + m.Length
		m, err = tokenPattern.FindNextMatch(m)
	}
	if last < len(runes) {
		tokens = t.appendGraphemes(tokens, string(runes[last:]))
	}
	return tokens
}

func (t *Tokenizer) appendGraphemes(tokens []string, s string) []string {
	state := -1
	var cluster string
	for len(s) > 0 {
		cluster, s, _, state = uniseg.FirstGraphemeClusterInString(s, state)
		tokens = append(tokens, t.normalize(cluster))
	}
	return tokens
}

func (t *Tokenizer) normalize(token string) string {
	if t.lowercase {
		return strings.ToLower(token)
	}
	return token
}

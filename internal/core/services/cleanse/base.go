// Package cleanse implements the token-cleaning pipeline: a Step contract, the
// catalog of cleaning steps, a registry that builds steps from configuration, and
// the Pipeline that threads a token sequence through an ordered list of steps.
package cleanse

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Step is a single token transformation.
// Implementations must treat the input as read-only and return a new slice,
// because the Pipeline keeps the pre-step sequence for diff tracking.
type Step interface {
	// Process transforms a token sequence. It never fails on well-formed input.
	Process(tokens []string) []string

	// Explain returns a one-line description including every parameter that affects behavior,
	// formatted as "<description> | <Param Name>: <value> | ...".
	Explain() string

	// Name returns the registry name of the step, used in logs and diff records.
	Name() string
}

// DefaultPunctuations is the ASCII punctuation set.
const DefaultPunctuations = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// filterTokens returns the tokens for which keep reports true, preserving order.
func filterTokens(tokens []string, keep func(string) bool) []string {
	out := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if keep(token) {
			out = append(out, token)
		}
	}
	return out
}

// mapTokens returns fn applied to every token.
func mapTokens(tokens []string, fn func(string) string) []string {
	out := make([]string, len(tokens))
	for i, token := range tokens {
		out[i] = fn(token)
	}
	return out
}

func cloneTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// explainLine joins a description and its parameters in the Explain format.
func explainLine(description string, params ...param) string {
	var b strings.Builder
	b.WriteString(description)
	for _, p := range params {
		b.WriteString(" | ")
		b.WriteString(p.name)
		b.WriteString(": ")
		b.WriteString(p.value)
	}
	return b.String()
}

type param struct {
	name  string
	value string
}

func stringParam(name, value string) param {
	return param{name: name, value: value}
}

func boolParam(name string, value bool) param {
	return param{name: name, value: strconv.FormatBool(value)}
}

func floatParam(name string, value float64) param {
	return param{name: name, value: strconv.FormatFloat(value, 'g', -1, 64)}
}

func optionalIntParam(name string, value *int) param {
	if value == nil {
		return param{name: name, value: "none"}
	}
	return param{name: name, value: strconv.Itoa(*value)}
}

// setParam renders a set as a sorted list so Explain stays deterministic.
func setParam(name string, set map[string]struct{}) param {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return param{name: name, value: fmt.Sprintf("%v", items)}
}

// FormatTokens renders a token sequence for traces; quoting keeps whitespace tokens visible.
func FormatTokens(tokens []string) string {
	if tokens == nil {
		tokens = []string{}
	}
	return fmt.Sprintf("%q", tokens)
}

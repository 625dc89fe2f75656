package deduplication

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// Strategy defines how two documents are compared
type Strategy string

const (
	StrategyExact      Strategy = "exact"      // identical cleaned tokens
	StrategyNormalized Strategy = "normalized" // case-insensitive, blank tokens ignored
)

// Document is one cleaned input document
type Document struct {
	Index  int      `json:"index" yaml:"index"`
	Tokens []string `json:"tokens" yaml:"tokens"`
	Hash   string   `json:"hash,omitempty" yaml:"hash,omitempty"`
}

// Result contains the outcome of a deduplication pass
type Result struct {
	OriginalCount     int        `json:"original_count" yaml:"original_count"`
	DeduplicatedCount int        `json:"deduplicated_count" yaml:"deduplicated_count"`
	RemovedCount      int        `json:"removed_count" yaml:"removed_count"`
	Strategy          Strategy   `json:"strategy" yaml:"strategy"`
	Documents         []Document `json:"documents" yaml:"documents"`
	// DuplicateOf maps a removed document index to the index of the kept one
	DuplicateOf map[int]int `json:"duplicate_of,omitempty" yaml:"duplicate_of,omitempty"`
}

// Config for the deduplication service
type Config struct {
	Strategy Strategy `json:"strategy" mapstructure:"strategy"`
	// SkipEmpty drops documents that cleaned down to no tokens
	SkipEmpty bool `json:"skip_empty" mapstructure:"skip_empty"`
}

// DefaultConfig returns default deduplication configuration
func DefaultConfig() Config {
	return Config{
		Strategy:  StrategyExact,
		SkipEmpty: false,
	}
}

// ParseStrategy validates a strategy name
func ParseStrategy(name string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(name))); s {
	case StrategyExact, StrategyNormalized:
		return s, nil
	case "":
		return StrategyExact, nil
	default:
		return "", fmt.Errorf("unknown deduplication strategy %q", name)
	}
}

// generateHash creates a SHA256 hash of the document tokens
func generateHash(tokens []string, strategy Strategy) (string, error) {
	key := tokens
	if strategy == StrategyNormalized {
		key = normalizeTokens(tokens)
	}

	// JSON keeps ["a b"] and ["a", "b"] apart
	data, err := json.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("failed to marshal tokens: %w", err)
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, strings.ToLower(tok))
	}
	return out
}

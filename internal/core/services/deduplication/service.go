package deduplication

import (
	"fmt"
	"log/slog"
)

// Service removes repeated documents from a cleaned batch
type Service struct {
	config Config
	logger *slog.Logger
}

// NewService creates a new deduplication service
func NewService(config Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Strategy == "" {
		config.Strategy = StrategyExact
	}

	return &Service{
		config: config,
		logger: logger,
	}
}

// Deduplicate keeps the first occurrence of every document, in input order.
// The input slice is not modified.
func (s *Service) Deduplicate(documents []Document) (*Result, error) {
	s.logger.Debug("starting deduplication",
		slog.Int("document_count", len(documents)),
		slog.String("strategy", string(s.config.Strategy)))

	result := &Result{
		OriginalCount: len(documents),
		Strategy:      s.config.Strategy,
		Documents:     make([]Document, 0, len(documents)),
		DuplicateOf:   make(map[int]int),
	}

	seen := make(map[string]int, len(documents))
	for _, doc := range documents {
		if s.config.SkipEmpty && len(normalizeTokens(doc.Tokens)) == 0 {
			s.logger.Debug("empty document skipped", slog.Int("index", doc.Index))
			continue
		}

		hash, err := generateHash(doc.Tokens, s.config.Strategy)
		if err != nil {
			return nil, fmt.Errorf("failed to hash document %d: %w", doc.Index, err)
		}

		if first, ok := seen[hash]; ok {
			result.DuplicateOf[doc.Index] = first
			s.logger.Debug("duplicate found",
				slog.Int("index", doc.Index),
				slog.Int("duplicate_of", first))
			continue
		}

		seen[hash] = doc.Index
		kept := Document{Index: doc.Index, Tokens: append([]string(nil), doc.Tokens...), Hash: hash}
		result.Documents = append(result.Documents, kept)
	}

	result.DeduplicatedCount = len(result.Documents)
	result.RemovedCount = result.OriginalCount - result.DeduplicatedCount

	s.logger.Debug("deduplication completed",
		slog.Int("original_count", result.OriginalCount),
		slog.Int("final_count", result.DeduplicatedCount),
		slog.Int("removed_count", result.RemovedCount))

	return result, nil
}

package deduplication

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func docs(tokens ...[]string) []Document {
	out := make([]Document, len(tokens))
	for i, t := range tokens {
		out[i] = Document{Index: i + 1, Tokens: t}
	}
	return out
}

func TestService_Deduplicate_Exact(t *testing.T) {
	service := NewService(DefaultConfig(), nil)

	input := docs(
		[]string{"promo", "tv"},
		[]string{"promo", "tv"},
		[]string{"revista", "digital"},
		[]string{"Promo", "tv"},
		[]string{"promo", "tv"},
	)

	result, err := service.Deduplicate(input)
	require.NoError(t, err)

	assert.Equal(t, 5, result.OriginalCount)
	assert.Equal(t, 3, result.DeduplicatedCount)
	assert.Equal(t, 2, result.RemovedCount)
	assert.Equal(t, StrategyExact, result.Strategy)
	assert.Equal(t, map[int]int{2: 1, 5: 1}, result.DuplicateOf)

	indices := make([]int, len(result.Documents))
	for i, d := range result.Documents {
		indices[i] = d.Index
		assert.Len(t, d.Hash, 64)
	}
	assert.Equal(t, []int{1, 3, 4}, indices)

	// input untouched
	assert.Empty(t, input[0].Hash)
}

func TestService_Deduplicate_Normalized(t *testing.T) {
	service := NewService(Config{Strategy: StrategyNormalized}, nil)

	result, err := service.Deduplicate(docs(
		[]string{"Promo", " ", "TV"},
		[]string{"promo", "tv"},
		[]string{"promo tv"},
	))
	require.NoError(t, err)

	assert.Equal(t, 2, result.DeduplicatedCount)
	assert.Equal(t, map[int]int{2: 1}, result.DuplicateOf)
	// the kept document keeps its original tokens
	assert.Equal(t, []string{"Promo", " ", "TV"}, result.Documents[0].Tokens)
}

func TestService_Deduplicate_SkipEmpty(t *testing.T) {
	tests := []struct {
		name      string
		skipEmpty bool
		kept      int
	}{
		{name: "keep empty", skipEmpty: false, kept: 2},
		{name: "skip empty", skipEmpty: true, kept: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewService(Config{Strategy: StrategyExact, SkipEmpty: tt.skipEmpty}, nil)
			result, err := service.Deduplicate(docs([]string{}, []string{"hi"}, []string{}))
			require.NoError(t, err)
			assert.Equal(t, tt.kept, result.DeduplicatedCount)
			assert.Equal(t, 3-tt.kept, result.RemovedCount)
		})
	}
}

func TestService_Deduplicate_Empty(t *testing.T) {
	result, err := NewService(Config{}, nil).Deduplicate(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.OriginalCount)
	assert.Empty(t, result.Documents)
	assert.Equal(t, StrategyExact, result.Strategy)
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{in: "exact", want: StrategyExact},
		{in: " Normalized ", want: StrategyNormalized},
		{in: "", want: StrategyExact},
		{in: "fuzzy", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerateHash_TokenBoundaries(t *testing.T) {
	a, err := generateHash([]string{"a b"}, StrategyExact)
	require.NoError(t, err)
	b, err := generateHash([]string{"a", "b"}, StrategyExact)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

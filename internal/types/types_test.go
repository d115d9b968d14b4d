package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCategoryScore(t *testing.T) {
	tests := []struct {
		name    string
		score   float64
		max     float64
		wantErr bool
		wantPct float64
	}{
		{"full score", 250, 250, false, 100},
		{"half score", 125, 250, false, 50},
		{"zero score", 0, 75, false, 0},
		{"rounds percentage", 33.33, 100, false, 33.3},
		{"negative score", -1, 100, true, 0},
		{"score above max", 101, 100, true, 0},
		{"zero max", 10, 0, true, 0},
		{"negative max", 10, -5, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs, err := NewCategoryScore(tt.score, tt.max, TierGood, nil)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPct, cs.Percentage)
			assert.GreaterOrEqual(t, cs.Score, 0.0)
			assert.LessOrEqual(t, cs.Score, cs.MaxScore)
		})
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.5, Round1(1.45))
	assert.Equal(t, 1.4, Round1(1.44))
	assert.Equal(t, 1.06, Round2(1.0625))
}

func TestUsageStatsTotals(t *testing.T) {
	stats := UsageStats{Models: map[string]ModelUsage{
		"sonnet": {InputTokens: 1000, OutputTokens: 500, CacheReadInputTokens: 300, CacheCreationInputTokens: 100},
		"haiku":  {InputTokens: 200, OutputTokens: 100, CacheReadInputTokens: 50},
	}}

	assert.Equal(t, 1800, stats.TotalTokens())

	reads, creates, regular := stats.CacheTotals()
	assert.Equal(t, 350, reads)
	assert.Equal(t, 100, creates)
	assert.Equal(t, 1200, regular)
}

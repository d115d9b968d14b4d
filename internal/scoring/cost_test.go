package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tokencraft/internal/types"
)

func TestCostEfficiencyCheapSessions(t *testing.T) {
	// 10000 tokens per session is $0.09, well under the $0.27 baseline.
	s := newTestScorer(t, uniformSessions(1, 5), statsWith(10000, 0, 0, 0), 1)

	c, err := s.CostEfficiency()
	require.NoError(t, err)

	assert.Equal(t, 0.09, c.AvgCostPerSession)
	assert.Equal(t, 40.0, c.CostVsBaseline)
	assert.Equal(t, 5.0, c.CacheContribution) // no cache reads
	assert.Equal(t, 15.0, c.BudgetCompliance)
	assert.Equal(t, 60.0, c.Score)
	assert.Equal(t, types.TierVeryGood, c.Tier)
}

func TestCostEfficiencyExpensiveSessionsWithCache(t *testing.T) {
	// 60000 tokens per session is double the baseline cost, but heavy cache
	// usage claws back the cache component.
	s := newTestScorer(t, uniformSessions(1, 5), statsWith(60000, 0, 12000, 0), 1)

	c, err := s.CostEfficiency()
	require.NoError(t, err)

	assert.Equal(t, 0.54, c.AvgCostPerSession)
	assert.Equal(t, 5.0, c.CostVsBaseline)
	assert.Equal(t, 20.0, c.CacheContribution)
	assert.Equal(t, 15.0, c.BudgetCompliance) // $1.62/day still under budget
	assert.Equal(t, 40.0, c.Score)
	assert.Equal(t, 2.0, c.CostRatio)
}

func TestCostEfficiencyBudgetBands(t *testing.T) {
	// Daily cost is avg session cost times three assumed sessions.
	for _, tt := range []struct {
		tokens int
		budget float64
	}{
		{70000, 15},  // $0.63 * 3 = $1.89
		{150000, 12}, // $1.35 * 3 = $4.05
		{250000, 8},  // $2.25 * 3 = $6.75
		{400000, 4},  // $3.60 * 3 = $10.80
	} {
		s := newTestScorer(t, uniformSessions(1, 5), statsWith(tt.tokens, 0, 0, 0), 1)
		c, err := s.CostEfficiency()
		require.NoError(t, err)
		assert.Equal(t, tt.budget, c.BudgetCompliance, "%d tokens", tt.tokens)
	}
}

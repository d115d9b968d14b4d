package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotcommander/tokencraft/internal/types"
)

func TestTierScoreBands(t *testing.T) {
	tests := []struct {
		consistency float64
		want        float64
	}{
		{1.00, 100},
		{0.90, 100},
		{0.80, 92.5}, // midpoint of the 85-100% band
		{0.70, 85},
		{0.60, 75},
		{0.50, 65},
		{0.40, 52.5},
		{0.30, 40},
		{0.15, 20},
		{0.00, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, TierScore(tt.consistency, 100), 0.001,
			"consistency %.2f", tt.consistency)
	}
}

func TestTierScoreMonotone(t *testing.T) {
	prev := -1.0
	for c := 0.0; c <= 1.0; c += 0.01 {
		score := TierScore(c, 100)
		assert.GreaterOrEqual(t, score, prev, "consistency %.2f", c)
		prev = score
	}
}

func TestTierScoreScalesWithMax(t *testing.T) {
	assert.Equal(t, 60.0, TierScore(1.0, 60))
	assert.InDelta(t, TierScore(0.8, 100)*0.6, TierScore(0.8, 60), 0.001)
}

func TestTierForPercentage(t *testing.T) {
	tests := []struct {
		pct  float64
		tier string
	}{
		{95, types.TierExcellent},
		{90, types.TierExcellent},
		{80, types.TierVeryGood},
		{60, types.TierGood},
		{45, types.TierAverage},
		{10, types.TierNeedsWork},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, tierForPercentage(tt.pct), "pct %.0f", tt.pct)
	}
}

func TestCheckMetric(t *testing.T) {
	m := checkMetric(CheckResult{Name: "XML tags", Score: 20, MaxScore: 25, Note: "steady"})
	assert.Equal(t, "XML tags", m.Name)
	assert.Equal(t, 20.0, m.Points)
	assert.True(t, m.Passed)

	m = checkMetric(CheckResult{Name: "XML tags", Score: 10, MaxScore: 25})
	assert.False(t, m.Passed)
}

package scoring

import (
	"math"

	"github.com/dotcommander/tokencraft/internal/types"
)

// Cost model constants. Blended Sonnet pricing of $9 per million tokens and
// a 30K-token baseline session put the baseline cost at $0.27.
const (
	costPerMillionTokens = 9.0
	baselineSessionCost  = 0.27
	assumedDailySessions = 3
)

// CostScore is the cost efficiency category result.
type CostScore struct {
	types.CategoryScore
	AvgCostPerSession  float64 `json:"avg_cost_per_session"`
	BaselineCost       float64 `json:"baseline_cost"`
	CostRatio          float64 `json:"cost_ratio"`
	EstimatedDailyCost float64 `json:"estimated_daily_cost"`
	CostVsBaseline     float64 `json:"cost_vs_baseline"`
	CacheContribution  float64 `json:"cache_contribution"`
	BudgetCompliance   float64 `json:"budget_compliance"`
}

// CostEfficiency scores cost-consciousness: per-session cost against the
// baseline (40), active cache usage (20), and an estimated daily spend
// against a sensible budget (15).
func (s *Scorer) CostEfficiency() (CostScore, error) {
	maxPoints := Weights[types.CategoryCostEfficiency]

	avgCost := s.avgTokensPerSession / 1_000_000 * costPerMillionTokens

	var costScore float64
	switch {
	case avgCost <= baselineSessionCost*0.7:
		costScore = 40
	case avgCost <= baselineSessionCost*0.85:
		costScore = 35
	case avgCost <= baselineSessionCost:
		costScore = 30
	case avgCost <= baselineSessionCost*1.2:
		costScore = 20
	case avgCost <= baselineSessionCost*1.5:
		costScore = 10
	default:
		costScore = 5
	}

	reads, _, _ := s.stats.CacheTotals()
	var cacheScore float64
	switch {
	case reads > 10000:
		cacheScore = 20
	case reads > 5000:
		cacheScore = 15
	case reads > 1000:
		cacheScore = 10
	default:
		cacheScore = 5
	}

	dailyCost := avgCost * assumedDailySessions
	var budgetScore float64
	switch {
	case dailyCost <= 2.0:
		budgetScore = 15
	case dailyCost <= 5.0:
		budgetScore = 12
	case dailyCost <= 7.0:
		budgetScore = 8
	default:
		budgetScore = 4
	}

	total := costScore + cacheScore + budgetScore
	cs, err := types.NewCategoryScore(total, maxPoints, tierForPercentage(total/maxPoints*100), nil)
	if err != nil {
		return CostScore{}, err
	}
	return CostScore{
		CategoryScore:      cs,
		AvgCostPerSession:  math.Round(avgCost*10000) / 10000,
		BaselineCost:       baselineSessionCost,
		CostRatio:          types.Round2(avgCost / baselineSessionCost),
		EstimatedDailyCost: types.Round2(dailyCost),
		CostVsBaseline:     costScore,
		CacheContribution:  cacheScore,
		BudgetCompliance:   budgetScore,
	}, nil
}

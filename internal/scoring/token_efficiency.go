package scoring

import (
	"math"

	"github.com/dotcommander/tokencraft/internal/difficulty"
	"github.com/dotcommander/tokencraft/internal/types"
)

// TokenEfficiencyScore is the token efficiency category result.
type TokenEfficiencyScore struct {
	types.CategoryScore
	UserAvg              float64 `json:"user_avg"`
	BaselineAvg          float64 `json:"baseline_avg"`
	BaselineType         string  `json:"baseline_type"`
	Ratio                float64 `json:"ratio"`
	ImprovementPct       float64 `json:"improvement_pct"`
	DifficultyRank       int     `json:"difficulty_rank"`
	BaseBeforeDifficulty float64 `json:"base_score_before_difficulty"`
	DifficultyMultiplier float64 `json:"difficulty_multiplier"`
}

// TokenEfficiency scores average tokens per session against the
// rank-adjusted baseline on a smooth logarithmic curve: at or under baseline
// earns full points, and overshoot decays as max * log2(1 + 1/ratio) rather
// than dropping over tier cliffs. The difficulty multiplier tightens the
// curve at higher ranks.
func (s *Scorer) TokenEfficiency() (TokenEfficiencyScore, error) {
	maxPoints := Weights[types.CategoryTokenEfficiency]

	baseline := float64(s.diff.TokensPerSession)
	baselineType := "fixed"
	if s.totalSessions >= DynamicBaselineMinimum && s.dynamicBaseline < baseline {
		baseline = s.dynamicBaseline
		baselineType = "dynamic"
	}

	if baseline == 0 || s.avgTokensPerSession == 0 {
		cs, err := types.NewCategoryScore(maxPoints/2, maxPoints, types.TierNoData, nil)
		if err != nil {
			return TokenEfficiencyScore{}, err
		}
		return TokenEfficiencyScore{
			CategoryScore:  cs,
			BaselineAvg:    baseline,
			BaselineType:   "none",
			DifficultyRank: s.rank,
		}, nil
	}

	ratio := s.avgTokensPerSession / baseline

	base := maxPoints
	if ratio > 1.0 {
		base = maxPoints * math.Log2(1+1/ratio)
	}
	adjusted := difficulty.ApplyTokenEfficiency(base, ratio, s.rank)

	var tier string
	switch {
	case ratio <= 1.0:
		tier = types.TierExcellent
	case ratio <= 1.5:
		tier = types.TierVeryGood
	case ratio <= 2.0:
		tier = types.TierGood
	case ratio <= 3.0:
		tier = types.TierAverage
	default:
		tier = types.TierNeedsWork
	}

	cs, err := types.NewCategoryScore(adjusted, maxPoints, tier, nil)
	if err != nil {
		return TokenEfficiencyScore{}, err
	}
	return TokenEfficiencyScore{
		CategoryScore:        cs,
		UserAvg:              math.Round(s.avgTokensPerSession),
		BaselineAvg:          math.Round(baseline),
		BaselineType:         baselineType,
		Ratio:                types.Round2(ratio),
		ImprovementPct:       types.Round1((baseline - s.avgTokensPerSession) / baseline * 100),
		DifficultyRank:       s.rank,
		BaseBeforeDifficulty: types.Round1(base),
		DifficultyMultiplier: types.Round2(s.diff.Multiplier),
	}, nil
}

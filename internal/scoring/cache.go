package scoring

import "github.com/dotcommander/tokencraft/internal/types"

// CacheScore is the cache effectiveness category result.
type CacheScore struct {
	types.CategoryScore
	CacheHitRate    float64 `json:"cache_hit_rate"`
	TargetHitRate   float64 `json:"target_hit_rate"`
	CacheReads      int     `json:"total_cache_reads"`
	CacheCreates    int     `json:"total_cache_creates"`
	RegularInput    int     `json:"total_regular_input"`
	CacheSavingsPct float64 `json:"cache_savings_pct"`
}

// CacheEffectiveness scores prompt cache usage linearly: the hit rate maps
// straight onto the point range, so 20% hits earns 20% of the category. Tier
// labels compare against the rank-adjusted target.
func (s *Scorer) CacheEffectiveness() (CacheScore, error) {
	maxPoints := Weights[types.CategoryCacheEffectiveness]
	target := s.diff.CacheHitTarget

	if len(s.stats.Models) == 0 {
		cs, err := types.NewCategoryScore(0, maxPoints, types.TierNoData, nil)
		if err != nil {
			return CacheScore{}, err
		}
		return CacheScore{CategoryScore: cs, TargetHitRate: target}, nil
	}

	reads, creates, regular := s.stats.CacheTotals()
	opportunities := reads + regular

	hitRate := 0.0
	if opportunities > 0 {
		hitRate = float64(reads) / float64(opportunities) * 100
	}
	score := hitRate / 100 * maxPoints

	var tier string
	lowBand := target - 10
	if lowBand < 10 {
		lowBand = 10
	}
	switch {
	case hitRate >= target+20:
		tier = types.TierExcellent
	case hitRate >= target:
		tier = types.TierGood
	case hitRate >= lowBand:
		tier = types.TierAverage
	default:
		tier = types.TierNeedsWork
	}

	savings := 0.0
	if reads > 0 {
		savings = 90 // cache reads cost 90% less than regular input
	}

	cs, err := types.NewCategoryScore(score, maxPoints, tier, nil)
	if err != nil {
		return CacheScore{}, err
	}
	return CacheScore{
		CategoryScore:   cs,
		CacheHitRate:    types.Round2(hitRate),
		TargetHitRate:   target,
		CacheReads:      reads,
		CacheCreates:    creates,
		RegularInput:    regular,
		CacheSavingsPct: savings,
	}, nil
}

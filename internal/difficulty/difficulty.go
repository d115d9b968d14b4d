// Package difficulty adjusts scoring targets by rank so that sustained
// excellence is required to keep earning the same points. Rank 1 has the
// loosest baseline; rank 10 is roughly 43% harder.
package difficulty

import "math"

// FocusBand is the inclusive messages-per-session range a rank considers
// focused work.
type FocusBand struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Settings holds every rank-dependent target used by the category evaluators.
type Settings struct {
	Rank                  int       `json:"rank"`
	RankName              string    `json:"rank_name"`
	TokensPerSession      int       `json:"tokens_per_session"`
	Multiplier            float64   `json:"multiplier"`
	CacheHitTarget        float64   `json:"cache_hit_target"`        // percent
	OptimizationThreshold float64   `json:"optimization_threshold"`  // 0..1
	SessionFocusBand      FocusBand `json:"session_focus_band"`
}

// table is the fixed 10-row difficulty ladder, monotonically tightening from
// rank 1 to rank 10.
var table = [10]Settings{
	{1, "Cadet", 35000, 1.00, 10, 0.30, FocusBand{2, 15}},
	{2, "Navigator", 33500, 0.96, 15, 0.35, FocusBand{2, 14}},
	{3, "Pilot", 32000, 0.91, 20, 0.40, FocusBand{2, 13}},
	{4, "Explorer", 30000, 0.86, 25, 0.45, FocusBand{2, 12}},
	{5, "Captain", 28000, 0.80, 30, 0.50, FocusBand{2, 11}},
	{6, "Commander", 26000, 0.74, 35, 0.55, FocusBand{2, 10}},
	{7, "Admiral", 24000, 0.69, 40, 0.60, FocusBand{2, 9}},
	{8, "Commodore", 22000, 0.63, 45, 0.65, FocusBand{2, 8}},
	{9, "Fleet Admiral", 21000, 0.60, 50, 0.70, FocusBand{2, 7}},
	{10, "Galactic Legend", 20000, 0.57, 55, 0.75, FocusBand{2, 6}},
}

// ForRank returns the difficulty settings for a rank. Out-of-range ranks are
// silently clamped to [1,10].
func ForRank(rank int) Settings {
	if rank < 1 {
		rank = 1
	}
	if rank > 10 {
		rank = 10
	}
	return table[rank-1]
}

// ApplyTokenEfficiency tightens a token-efficiency score for higher ranks.
// At or below baseline the score passes through; slight overage is scaled by
// the rank multiplier; larger overage by multiplier^1.5.
func ApplyTokenEfficiency(score, ratio float64, rank int) float64 {
	m := ForRank(rank).Multiplier
	switch {
	case ratio <= 1.0:
		return score
	case ratio <= 1.5:
		return score * m
	default:
		return score * math.Pow(m, 1.5)
	}
}

// ApplyOptimization reduces an optimization-adoption score proportionally when
// the adoption rate is below the rank's threshold.
func ApplyOptimization(score, adoptionRate float64, rank int) float64 {
	threshold := ForRank(rank).OptimizationThreshold
	if adoptionRate >= threshold {
		return score
	}
	return score * (adoptionRate / threshold)
}

// ComparisonRow summarizes one rank's targets for the progression table.
type ComparisonRow struct {
	Rank                  int     `json:"rank"`
	RankName              string  `json:"rank_name"`
	TokensBaseline        int     `json:"tokens_baseline"`
	DifficultyIncreasePct float64 `json:"difficulty_increase_pct"`
	CacheTarget           float64 `json:"cache_target"`
	OptimizationTargetPct float64 `json:"optimization_target_pct"`
}

// Comparison returns the difficulty curve across all ten ranks.
func Comparison() []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(table))
	for _, s := range table {
		rows = append(rows, ComparisonRow{
			Rank:                  s.Rank,
			RankName:              s.RankName,
			TokensBaseline:        s.TokensPerSession,
			DifficultyIncreasePct: math.Round((1-s.Multiplier)*1000) / 10,
			CacheTarget:           s.CacheHitTarget,
			OptimizationTargetPct: s.OptimizationThreshold * 100,
		})
	}
	return rows
}

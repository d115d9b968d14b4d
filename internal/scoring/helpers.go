package scoring

import "github.com/dotcommander/tokencraft/internal/types"

// TierScore maps a consistency rate in [0, 1] onto a smooth sliding scale of
// max points. Interpolation inside each band gives visible progress every
// few percent instead of cliff jumps at band edges.
//
//	>= 0.90        full points
//	[0.70, 0.90)   85% to 100%
//	[0.50, 0.70)   65% to 85%
//	[0.30, 0.50)   40% to 65%
//	[0.00, 0.30)   linear up to 40%
func TierScore(consistency, maxPoints float64) float64 {
	switch {
	case consistency >= 0.90:
		return maxPoints
	case consistency >= 0.70:
		ratio := (consistency - 0.70) / 0.20
		return maxPoints * (0.85 + 0.15*ratio)
	case consistency >= 0.50:
		ratio := (consistency - 0.50) / 0.20
		return maxPoints * (0.65 + 0.20*ratio)
	case consistency >= 0.30:
		ratio := (consistency - 0.30) / 0.20
		return maxPoints * (0.40 + 0.25*ratio)
	default:
		return maxPoints * (consistency / 0.30) * 0.40
	}
}

// tierForPercentage labels a score for display from its percentage of max.
func tierForPercentage(pct float64) string {
	switch {
	case pct >= 90:
		return types.TierExcellent
	case pct >= 75:
		return types.TierVeryGood
	case pct >= 60:
		return types.TierGood
	case pct >= 40:
		return types.TierAverage
	default:
		return types.TierNeedsWork
	}
}

// CheckResult is one sub-check inside a composite category.
type CheckResult struct {
	Name        string  `json:"name"`
	Score       float64 `json:"score"`
	MaxScore    float64 `json:"max_score"`
	Consistency float64 `json:"consistency"`
	Note        string  `json:"note,omitempty"`
}

// checkMetric converts a sub-check into a display metric.
func checkMetric(c CheckResult) types.Metric {
	return types.Metric{
		Name:      c.Name,
		Points:    types.Round1(c.Score),
		MaxPoints: c.MaxScore,
		Passed:    c.Score >= c.MaxScore*0.5,
		Note:      c.Note,
	}
}

package scoring

import (
	"fmt"
	"math"

	"github.com/dotcommander/tokencraft/internal/types"
)

// TrendScore is the improvement trend category result.
type TrendScore struct {
	types.CategoryScore
	ImprovementPct float64 `json:"improvement_pct"`
	Status         string  `json:"status"`
	PrevAvg        float64 `json:"prev_avg,omitempty"`
	CurrentAvg     float64 `json:"current_avg,omitempty"`
	Message        string  `json:"message,omitempty"`
}

// trendBands maps improvement percentage to points. Degradation earns
// nothing; holding steady earns a little; real gains earn the bulk.
var trendBands = []struct {
	minImprovement float64
	points         float64
	status         string
}{
	{10, 125, "excellent"},
	{5, 100, "good"},
	{2, 50, "modest"},
	{0, 20, "maintaining"},
	{-5, 0, "slight_degradation"},
	{math.Inf(-1), 0, "significant_degradation"},
}

// ImprovementTrend compares average tokens per session against the previous
// snapshot. New users get a warm-up baseline score until ten sessions exist.
func (s *Scorer) ImprovementTrend(prev *Snapshot) (TrendScore, error) {
	maxPoints := Weights[types.CategoryImprovementTrend]

	if s.totalSessions < 10 {
		cs, err := types.NewCategoryScore(50, maxPoints, types.TierNoData, nil)
		if err != nil {
			return TrendScore{}, err
		}
		return TrendScore{
			CategoryScore: cs,
			Status:        "warming_up",
			Message:       fmt.Sprintf("Session %d/10 - Establishing baseline", s.totalSessions),
		}, nil
	}
	if prev == nil {
		cs, err := types.NewCategoryScore(50, maxPoints, types.TierNoData, nil)
		if err != nil {
			return TrendScore{}, err
		}
		return TrendScore{
			CategoryScore: cs,
			Status:        "baseline",
			Message:       "No previous snapshot for comparison",
		}, nil
	}

	prevAvg := prev.AvgTokensPerSession
	if prevAvg == 0 {
		prevAvg = BaselineTokensPerSession
	}
	improvement := (prevAvg - s.avgTokensPerSession) / prevAvg * 100

	var points float64
	var status string
	for _, band := range trendBands {
		if improvement >= band.minImprovement {
			points = band.points
			status = band.status
			break
		}
	}

	cs, err := types.NewCategoryScore(points, maxPoints, tierForPercentage(points/maxPoints*100), nil)
	if err != nil {
		return TrendScore{}, err
	}
	return TrendScore{
		CategoryScore:  cs,
		ImprovementPct: types.Round1(improvement),
		Status:         status,
		PrevAvg:        math.Round(prevAvg),
		CurrentAvg:     math.Round(s.avgTokensPerSession),
	}, nil
}

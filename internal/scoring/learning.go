package scoring

import (
	"math"

	"github.com/dotcommander/tokencraft/internal/types"
)

// LearningScore is the learning and growth category result.
type LearningScore struct {
	types.CategoryScore
	EfficiencyImprovement float64 `json:"efficiency_improvement"`
	ConsistencyRate       float64 `json:"consistency_rate"`
	EfficiencyPoints      float64 `json:"efficiency_points"`
	ConsistencyPoints     float64 `json:"consistency_points"`
	AutonomyPoints        float64 `json:"autonomy_points"`
	EarlyAvgTokens        float64 `json:"early_avg_tokens"`
	RecentAvgTokens       float64 `json:"recent_avg_tokens"`
	Message               string  `json:"message,omitempty"`
}

// LearningGrowth scores long-term skill development by comparing the first
// third of sessions against the last third: token efficiency gains (25),
// consistency of focused sessions (25), and shrinking session length as a
// proxy for autonomy (25). There is no warm-up bonus; points are earned
// through measured improvement only.
func (s *Scorer) LearningGrowth() (LearningScore, error) {
	maxPoints := Weights[types.CategoryLearningGrowth]

	if s.totalSessions < 10 {
		cs, err := types.NewCategoryScore(0, maxPoints, types.TierNoData, nil)
		if err != nil {
			return LearningScore{}, err
		}
		return LearningScore{
			CategoryScore: cs,
			Message:       "Keep improving! Scores will increase with real efficiency gains.",
		}, nil
	}

	third := s.totalSessions / 3
	if third < 1 {
		third = 1
	}
	early := s.sessions[:third]
	recent := s.sessions[len(s.sessions)-third:]

	assistantTokens := func(sessions []types.Session) []float64 {
		var out []float64
		for _, sess := range sessions {
			total := 0
			for _, msg := range sess.Messages {
				if msg.Role == "assistant" {
					total += msg.Tokens
				}
			}
			if total > 0 {
				out = append(out, float64(total))
			}
		}
		return out
	}

	earlyTokens := assistantTokens(early)
	recentTokens := assistantTokens(recent)

	var improvement, efficiencyPoints float64
	var earlyAvg, recentAvg float64
	if len(earlyTokens) > 0 && len(recentTokens) > 0 {
		earlyAvg = mean(earlyTokens)
		recentAvg = mean(recentTokens)
		if earlyAvg > 0 {
			improvement = (earlyAvg - recentAvg) / earlyAvg * 100
		}
		switch {
		case improvement >= 20:
			efficiencyPoints = 25
		case improvement >= 10:
			efficiencyPoints = 20
		case improvement >= 5:
			efficiencyPoints = 15
		case improvement >= 0:
			efficiencyPoints = 10
		}
	}

	optimal := 0
	for _, sess := range recent {
		if n := len(sess.Messages); n >= 5 && n <= 15 {
			optimal++
		}
	}
	consistencyPct := 0.0
	if len(recent) > 0 {
		consistencyPct = float64(optimal) / float64(len(recent)) * 100
	}
	var consistencyPoints float64
	switch {
	case consistencyPct >= 70:
		consistencyPoints = 25
	case consistencyPct >= 50:
		consistencyPoints = 18
	case consistencyPct >= 30:
		consistencyPoints = 12
	}

	msgCounts := func(sessions []types.Session) []float64 {
		out := make([]float64, 0, len(sessions))
		for _, sess := range sessions {
			out = append(out, float64(len(sess.Messages)))
		}
		return out
	}
	var autonomyPoints float64
	earlyMsgs := mean(msgCounts(early))
	recentMsgs := mean(msgCounts(recent))
	if earlyMsgs > 0 {
		switch {
		case recentMsgs < earlyMsgs*0.8:
			autonomyPoints = 25
		case recentMsgs < earlyMsgs*0.9:
			autonomyPoints = 20
		case recentMsgs < earlyMsgs:
			autonomyPoints = 15
		case recentMsgs <= earlyMsgs*1.1:
			autonomyPoints = 10
		}
	}

	total := efficiencyPoints + consistencyPoints + autonomyPoints
	cs, err := types.NewCategoryScore(total, maxPoints, tierForPercentage(total/maxPoints*100), nil)
	if err != nil {
		return LearningScore{}, err
	}
	return LearningScore{
		CategoryScore:         cs,
		EfficiencyImprovement: types.Round1(improvement),
		ConsistencyRate:       types.Round1(consistencyPct),
		EfficiencyPoints:      efficiencyPoints,
		ConsistencyPoints:     consistencyPoints,
		AutonomyPoints:        autonomyPoints,
		EarlyAvgTokens:        math.Round(earlyAvg),
		RecentAvgTokens:       math.Round(recentAvg),
	}, nil
}

package scoring

import "github.com/dotcommander/tokencraft/internal/types"

// FocusScore is the session focus category result.
type FocusScore struct {
	types.CategoryScore
	AvgMessagesPerSession float64 `json:"avg_messages_per_session"`
	Optimal               bool    `json:"optimal"`
}

// noDataFocusScore is the neutral score with no sessions to judge: below
// half of the category weight so absent data never reads as average focus.
const noDataFocusScore = 25

// SessionFocus scores average session length. Five to fifteen messages is
// focused work; drifting outside that in either direction loses points in
// steps.
func (s *Scorer) SessionFocus() (FocusScore, error) {
	maxPoints := Weights[types.CategorySessionFocus]

	if s.totalSessions == 0 {
		cs, err := types.NewCategoryScore(noDataFocusScore, maxPoints, types.TierNoData, nil)
		if err != nil {
			return FocusScore{}, err
		}
		return FocusScore{CategoryScore: cs}, nil
	}

	avg := float64(s.totalMessages) / float64(s.totalSessions)

	var score float64
	switch {
	case avg >= 5 && avg <= 15:
		score = maxPoints
	case (avg >= 3 && avg < 5) || (avg > 15 && avg <= 20):
		score = 60
	case (avg >= 1 && avg < 3) || (avg > 20 && avg <= 30):
		score = 30
	default:
		score = 0
	}

	cs, err := types.NewCategoryScore(score, maxPoints, tierForPercentage(score/maxPoints*100), nil)
	if err != nil {
		return FocusScore{}, err
	}
	return FocusScore{
		CategoryScore:         cs,
		AvgMessagesPerSession: types.Round1(avg),
		Optimal:               avg >= 5 && avg <= 15,
	}, nil
}

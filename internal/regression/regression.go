// Package regression detects performance backsliding relative to personal
// history. The analysis is diagnostic only: it never changes the reported
// score, and the difficulty adjustment it produces is advisory for the
// caller.
package regression

import (
	"fmt"

	"github.com/dotcommander/tokencraft/internal/types"
)

// Detection thresholds.
const (
	EfficiencyDropThreshold = 0.05 // 5% drop from personal best
	ScoreDropThreshold      = 0.10 // 10% drop from recent average
	ConsecutiveDeclines     = 3    // trailing declining sessions
)

// Severity levels in increasing order.
const (
	SeverityNone     = "none"
	SeverityMinor    = "minor"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// EfficiencySignal is the personal-best efficiency comparison.
type EfficiencySignal struct {
	HasRegressed           bool    `json:"has_regressed"`
	CurrentEfficiency      float64 `json:"current_efficiency"`
	PersonalBestEfficiency float64 `json:"personal_best_efficiency"`
	EfficiencyDropPct      float64 `json:"efficiency_drop_pct"`
	Reason                 string  `json:"reason"`
}

// DetectEfficiency flags a 5%+ drop from the personal best efficiency.
func DetectEfficiency(current, personalBest float64) EfficiencySignal {
	if personalBest <= 0 {
		return EfficiencySignal{Reason: "No baseline established"}
	}
	drop := 1.0 - current/personalBest
	if drop < 0 {
		drop = 0
	}
	sig := EfficiencySignal{
		HasRegressed:           drop >= EfficiencyDropThreshold,
		CurrentEfficiency:      current,
		PersonalBestEfficiency: personalBest,
		EfficiencyDropPct:      types.Round1(drop * 100),
	}
	if sig.HasRegressed {
		sig.Reason = fmt.Sprintf("Token efficiency dropped %.1f%% (threshold: %.1f%%)",
			drop*100, EfficiencyDropThreshold*100)
	} else {
		sig.Reason = "Within acceptable variance"
	}
	return sig
}

// ScoreSignal is the recent-average score comparison.
type ScoreSignal struct {
	HasRegressed  bool    `json:"has_regressed"`
	CurrentScore  float64 `json:"current_score"`
	RecentAverage float64 `json:"recent_average"`
	ScoreDropPct  float64 `json:"score_drop_pct"`
	RecentCount   int     `json:"recent_count"`
	Reason        string  `json:"reason"`
}

// DetectScore flags a 10%+ drop from the average of the recorded recent
// scores. Fewer than two historical points reports "not enough history",
// never a regression.
func DetectScore(currentScore float64, recentScores []float64) ScoreSignal {
	if len(recentScores) < 2 {
		return ScoreSignal{
			RecentAverage: currentScore,
			Reason:        "Not enough history",
		}
	}
	var sum float64
	for _, s := range recentScores {
		sum += s
	}
	avg := sum / float64(len(recentScores))
	if avg <= 0 {
		return ScoreSignal{Reason: "Baseline is zero"}
	}
	drop := (avg - currentScore) / avg
	if drop < 0 {
		drop = 0
	}
	sig := ScoreSignal{
		HasRegressed:  drop >= ScoreDropThreshold,
		CurrentScore:  currentScore,
		RecentAverage: types.Round1(avg),
		ScoreDropPct:  types.Round1(drop * 100),
		RecentCount:   len(recentScores),
	}
	if sig.HasRegressed {
		sig.Reason = fmt.Sprintf("Score dropped %.1f%% from recent avg %.1f", drop*100, avg)
	} else {
		sig.Reason = fmt.Sprintf("Score within variance of recent avg %.1f", avg)
	}
	return sig
}

// ConsecutiveSignal is the trailing-decline count.
type ConsecutiveSignal struct {
	HasConsecutiveDecline bool   `json:"has_consecutive_decline"`
	ConsecutiveCount      int    `json:"consecutive_count"`
	Reason                string `json:"reason"`
}

// DetectConsecutive counts trailing strictly-decreasing scores and flags
// three or more.
func DetectConsecutive(recentScores []float64) ConsecutiveSignal {
	if len(recentScores) < ConsecutiveDeclines {
		return ConsecutiveSignal{Reason: "Not enough history"}
	}
	count := 0
	for i := len(recentScores) - 1; i > 0; i-- {
		if recentScores[i] < recentScores[i-1] {
			count++
		} else {
			break
		}
	}
	sig := ConsecutiveSignal{
		HasConsecutiveDecline: count >= ConsecutiveDeclines,
		ConsecutiveCount:      count,
	}
	if sig.HasConsecutiveDecline {
		sig.Reason = fmt.Sprintf("%d consecutive declining sessions", count)
	} else {
		sig.Reason = "Declining streak broken or insufficient data"
	}
	return sig
}

// Analysis combines the three signals into one severity verdict.
type Analysis struct {
	HasRegressed bool              `json:"has_regressed"`
	Severity     string            `json:"severity"`
	SignalCount  int               `json:"regression_signals"`
	Efficiency   EfficiencySignal  `json:"efficiency"`
	Score        ScoreSignal       `json:"score"`
	Consecutive  ConsecutiveSignal `json:"consecutive"`
}

// Analyze runs every detector and maps the count of true signals to a
// severity: 0 none, 1 minor, 2 moderate, 3 severe.
func Analyze(currentScore, currentEfficiency, personalBestEfficiency float64, recentScores []float64) Analysis {
	eff := DetectEfficiency(currentEfficiency, personalBestEfficiency)
	score := DetectScore(currentScore, recentScores)
	consec := DetectConsecutive(recentScores)

	signals := 0
	for _, hit := range []bool{eff.HasRegressed, score.HasRegressed, consec.HasConsecutiveDecline} {
		if hit {
			signals++
		}
	}

	severity := SeverityNone
	switch signals {
	case 1:
		severity = SeverityMinor
	case 2:
		severity = SeverityModerate
	case 3:
		severity = SeveritySevere
	}

	return Analysis{
		HasRegressed: signals > 0,
		Severity:     severity,
		SignalCount:  signals,
		Efficiency:   eff,
		Score:        score,
		Consecutive:  consec,
	}
}

// Adjustment is the recommended temporary difficulty easing. Advisory output
// only; nothing in the scoring path applies it.
type Adjustment struct {
	ShouldAdjust     bool    `json:"should_adjust"`
	AdjustmentFactor float64 `json:"adjustment_factor"`
	DurationDays     int     `json:"duration_days"`
	Reason           string  `json:"reason"`
}

// DifficultyAdjustment recommends 0.95x for 7 days on moderate regression
// and 0.85x for 14 days on severe. Minor dips get no adjustment.
func DifficultyAdjustment(a Analysis) Adjustment {
	switch a.Severity {
	case SeverityModerate:
		return Adjustment{true, 0.95, 7, "Moderate regression - temporary 5% difficulty reduction for recovery"}
	case SeveritySevere:
		return Adjustment{true, 0.85, 14, "Severe regression - temporary 15% difficulty reduction for recovery"}
	case SeverityMinor:
		return Adjustment{false, 1.0, 0, "Minor variance - no adjustment needed"}
	default:
		return Adjustment{false, 1.0, 0, "No regression detected"}
	}
}

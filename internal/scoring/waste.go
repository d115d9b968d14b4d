package scoring

import (
	"math"

	"github.com/dotcommander/tokencraft/internal/detect"
	"github.com/dotcommander/tokencraft/internal/types"
)

// WasteScore is the waste awareness category result.
type WasteScore struct {
	types.CategoryScore
	Signals  int                `json:"waste_signals_detected"`
	Detected []string           `json:"signals"`
	Report   detect.WasteReport `json:"waste_report"`
}

// wasteSignalCount is how many distinct signals the category recognizes;
// each is worth an equal share of the max.
const wasteSignalCount = 5

// WasteAwareness scores proactive waste reduction. Five independent signals
// each earn a fifth of the category: varied prompt lengths, a falling
// per-session token trend, working across several projects, and clean
// sessions with no verbose-prompt or redundant-read waste patterns.
func (s *Scorer) WasteAwareness() (WasteScore, error) {
	maxPoints := Weights[types.CategoryWasteAwareness]
	var detected []string

	// Varied message lengths suggest prompts are being refined rather than
	// pasted wholesale. Coefficient of variation above 0.5 counts.
	lengths := make([]float64, 0, s.totalMessages)
	for _, sess := range s.sessions {
		for _, msg := range sess.Messages {
			lengths = append(lengths, float64(len(msg.Content)))
		}
	}
	if len(lengths) > 10 {
		if cv := coefficientOfVariation(lengths); cv > 0.5 {
			detected = append(detected, "varied_prompt_lengths")
		}
	}

	// A downward token trend between the first and last third of sessions.
	var sessionTokens []float64
	for _, sess := range s.sessions {
		total := 0
		for _, msg := range sess.Messages {
			total += msg.Tokens
		}
		if total > 0 {
			sessionTokens = append(sessionTokens, float64(total))
		}
	}
	if len(sessionTokens) >= 5 {
		third := len(sessionTokens) / 3
		early := mean(sessionTokens[:third])
		late := mean(sessionTokens[len(sessionTokens)-third:])
		if early > 0 && late < early && (early-late)/early*100 >= 5 {
			detected = append(detected, "efficiency_trend")
		}
	}

	// Spreading work across distinct project contexts.
	projects := map[string]bool{}
	for _, sess := range s.sessions {
		projects[sess.Project] = true
	}
	if len(projects) >= 3 {
		detected = append(detected, "project_diversity")
	}

	// Content-level waste detection: absence of a pattern is the signal.
	report := detect.NewWasteAnalyzer().Analyze(s.sessions)
	verbose, redundant := false, false
	for _, p := range report.Patterns {
		switch p.Type {
		case "verbose_prompts":
			verbose = true
		case "redundant_file_reads":
			redundant = true
		}
	}
	if s.totalSessions > 0 && !verbose {
		detected = append(detected, "no_verbose_prompts")
	}
	if s.totalSessions > 0 && !redundant {
		detected = append(detected, "no_redundant_reads")
	}

	signals := len(detected)
	score := math.Min(float64(signals)*(maxPoints/wasteSignalCount), maxPoints)

	var tier string
	switch {
	case signals >= 4:
		tier = types.TierExcellent
	case signals >= 3:
		tier = types.TierGood
	case signals >= 2:
		tier = types.TierAverage
	default:
		tier = types.TierNeedsWork
	}

	cs, err := types.NewCategoryScore(score, maxPoints, tier, nil)
	if err != nil {
		return WasteScore{}, err
	}
	return WasteScore{
		CategoryScore: cs,
		Signals:       signals,
		Detected:      detected,
		Report:        report,
	}, nil
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func coefficientOfVariation(vs []float64) float64 {
	m := mean(vs)
	if m == 0 || len(vs) < 2 {
		return 0
	}
	variance := 0.0
	for _, v := range vs {
		variance += (v - m) * (v - m)
	}
	variance /= float64(len(vs) - 1)
	return math.Sqrt(variance) / m
}

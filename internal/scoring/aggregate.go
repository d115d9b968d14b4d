package scoring

import (
	"time"

	"github.com/dotcommander/tokencraft/internal/achievement"
	"github.com/dotcommander/tokencraft/internal/difficulty"
	"github.com/dotcommander/tokencraft/internal/regression"
	"github.com/dotcommander/tokencraft/internal/streak"
	"github.com/dotcommander/tokencraft/internal/timemech"
	"github.com/dotcommander/tokencraft/internal/types"
)

// PriorState carries everything from the persisted profile that scoring
// reads. Scoring never mutates the profile; the pipeline applies updates
// after the fact.
type PriorState struct {
	Rank                   int
	Streak                 streak.State
	Unlocked               []string
	RecentScores           []float64
	PersonalBestEfficiency float64
	LastSessionDate        *time.Time
}

// Breakdown holds every category result.
type Breakdown struct {
	TokenEfficiency      TokenEfficiencyScore `json:"token_efficiency"`
	OptimizationAdoption OptimizationScore    `json:"optimization_adoption"`
	ImprovementTrend     TrendScore           `json:"improvement_trend"`
	WasteAwareness       WasteScore           `json:"waste_awareness"`
	CacheEffectiveness   CacheScore           `json:"cache_effectiveness"`
	ToolEfficiency       ToolScore            `json:"tool_efficiency"`
	CostEfficiency       CostScore            `json:"cost_efficiency"`
	SessionFocus         FocusScore           `json:"session_focus"`
	LearningGrowth       LearningScore        `json:"learning_growth"`
	BestPractices        BestPracticesScore   `json:"best_practices"`
}

// CategoryScores flattens the breakdown into the map keyed by category name
// that combo and excellence checks consume.
func (b *Breakdown) CategoryScores() map[string]types.CategoryScore {
	return map[string]types.CategoryScore{
		types.CategoryTokenEfficiency:      b.TokenEfficiency.CategoryScore,
		types.CategoryOptimizationAdoption: b.OptimizationAdoption.CategoryScore,
		types.CategoryImprovementTrend:     b.ImprovementTrend.CategoryScore,
		types.CategoryWasteAwareness:       b.WasteAwareness.CategoryScore,
		types.CategoryCacheEffectiveness:   b.CacheEffectiveness.CategoryScore,
		types.CategoryToolEfficiency:       b.ToolEfficiency.CategoryScore,
		types.CategoryCostEfficiency:       b.CostEfficiency.CategoryScore,
		types.CategorySessionFocus:         b.SessionFocus.CategoryScore,
		types.CategoryLearningGrowth:       b.LearningGrowth.CategoryScore,
		types.CategoryBestPractices:        b.BestPractices.CategoryScore,
	}
}

// baseTotal sums the raw category scores.
func (b *Breakdown) baseTotal() float64 {
	total := 0.0
	for _, cs := range b.CategoryScores() {
		total += cs.Score
	}
	return total
}

// Bonuses records every bonus system's contribution to a run.
type Bonuses struct {
	Streak          streak.Bonus               `json:"streak"`
	Combo           streak.ComboResult         `json:"combo"`
	Time            timemech.Adjustment        `json:"time_modifiers"`
	NewAchievements []achievement.UnlockResult `json:"new_achievements"`
	TotalUnlocked   int                        `json:"total_unlocked"`
}

// Result is the complete outcome of one scoring run.
type Result struct {
	TotalScore       float64               `json:"total_score"`
	BaseScore        float64               `json:"base_score"`
	WithBonuses      float64               `json:"with_bonuses"`
	MaxBaseScore     float64               `json:"max_base"`
	MaxScore         float64               `json:"max_achievable"`
	Percentage       float64               `json:"percentage"`
	PercentageOfBase float64               `json:"percentage_of_base"`
	Breakdown        Breakdown             `json:"breakdown"`
	Bonuses          Bonuses               `json:"bonuses"`
	Regression       regression.Analysis   `json:"regression_analysis"`
	RegressionAdvice regression.Adjustment `json:"regression_advice"`
	UserRank         int                   `json:"user_rank"`
	Difficulty       difficulty.Settings   `json:"difficulty_info"`
	CalculatedAt     time.Time             `json:"calculated_at"`
	Version          string                `json:"version"`
}

// CalculateTotal runs every category and applies the bonus pipeline in
// order: sum categories, streak multiplier from the prior streak state,
// combo points, streak bonus points, achievement checks, regression
// analysis, then the time multipliers exactly once on the final score.
func (s *Scorer) CalculateTotal(prev *Snapshot, prior PriorState) (*Result, error) {
	var b Breakdown
	var err error

	if b.TokenEfficiency, err = s.TokenEfficiency(); err != nil {
		return nil, err
	}
	if b.OptimizationAdoption, err = s.OptimizationAdoption(); err != nil {
		return nil, err
	}
	if b.ImprovementTrend, err = s.ImprovementTrend(prev); err != nil {
		return nil, err
	}
	if b.WasteAwareness, err = s.WasteAwareness(); err != nil {
		return nil, err
	}
	if b.CacheEffectiveness, err = s.CacheEffectiveness(); err != nil {
		return nil, err
	}
	if b.ToolEfficiency, err = s.ToolEfficiency(); err != nil {
		return nil, err
	}
	if b.CostEfficiency, err = s.CostEfficiency(); err != nil {
		return nil, err
	}
	if b.SessionFocus, err = s.SessionFocus(); err != nil {
		return nil, err
	}
	if b.LearningGrowth, err = s.LearningGrowth(); err != nil {
		return nil, err
	}
	if b.BestPractices, err = s.BestPractices(); err != nil {
		return nil, err
	}

	baseScore := b.baseTotal()
	categoryScores := b.CategoryScores()

	// Streak bonus comes from the state before this session; the pipeline
	// advances the streak afterward.
	tracker := streak.NewTracker(prior.Streak, streak.State{})
	streakBonus := tracker.Bonus()

	combo := streak.CheckCombo(categoryScores)

	afterStreak := baseScore * streakBonus.Multiplier
	afterCombo := afterStreak + combo.BonusPoints

	finalScore := afterCombo + streakBonus.BonusPoints

	now := s.now()
	registry := achievement.NewRegistry(prior.Unlocked)
	var newlyUnlocked []achievement.UnlockResult
	newlyUnlocked = append(newlyUnlocked, registry.CheckProgression(s.rank, finalScore, now)...)
	newlyUnlocked = append(newlyUnlocked, registry.CheckExcellence(categoryScores, now)...)

	// Regression analysis is diagnostic: it never changes the score.
	currentEfficiency := 0.0
	if b.TokenEfficiency.Ratio > 0 {
		currentEfficiency = 1 / b.TokenEfficiency.Ratio
	}
	personalBest := prior.PersonalBestEfficiency
	if personalBest <= 0 {
		personalBest = currentEfficiency
	}
	analysis := regression.Analyze(finalScore, currentEfficiency, personalBest, prior.RecentScores)

	sessionDate := s.latestSessionTime(now)
	adjusted := timemech.ApplyTimeModifiers(finalScore, now, sessionDate, prior.LastSessionDate)

	return &Result{
		TotalScore:       adjusted.AdjustedScore,
		BaseScore:        types.Round1(baseScore),
		WithBonuses:      types.Round1(finalScore),
		MaxBaseScore:     MaxBase,
		MaxScore:         MaxAchievable,
		Percentage:       types.Round1(adjusted.AdjustedScore / MaxAchievable * 100),
		PercentageOfBase: types.Round1(baseScore / MaxBase * 100),
		Breakdown:        b,
		Bonuses: Bonuses{
			Streak:          streakBonus,
			Combo:           combo,
			Time:            adjusted,
			NewAchievements: newlyUnlocked,
			TotalUnlocked:   len(registry.Unlocked()),
		},
		Regression:       analysis,
		RegressionAdvice: regression.DifficultyAdjustment(analysis),
		UserRank:         s.rank,
		Difficulty:       s.diff,
		CalculatedAt:     now,
		Version:          "3.0",
	}, nil
}

// latestSessionTime finds the newest session timestamp, falling back to now
// when the log carries no usable timestamps.
func (s *Scorer) latestSessionTime(now time.Time) time.Time {
	latest := time.Time{}
	for _, sess := range s.sessions {
		if sess.Timestamp.After(latest) {
			latest = sess.Timestamp
		}
	}
	if latest.IsZero() {
		return now
	}
	return latest
}

// CurrentEfficiency exposes the baseline-over-usage ratio for personal best
// tracking. Higher is better; 1.0 means exactly on baseline.
func (r *Result) CurrentEfficiency() float64 {
	if r.Breakdown.TokenEfficiency.Ratio > 0 {
		return 1 / r.Breakdown.TokenEfficiency.Ratio
	}
	return 0
}

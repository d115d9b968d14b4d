// Package streak tracks consecutive-improvement streaks and the combo bonus
// for multi-category excellence.
package streak

import (
	"time"

	"github.com/dotcommander/tokencraft/internal/types"
)

// MaxLength caps the streak; bonuses stop growing past six improving sessions.
const MaxLength = 6

// State is the persisted streak record. Length only advances by exactly one
// per improving session or resets to the zero value; it never decreases
// partially.
type State struct {
	Length           int        `json:"length"`
	StartDate        *time.Time `json:"start_date"`
	LastSessionDate  *time.Time `json:"last_session_date"`
	LastSessionScore float64    `json:"last_session_score"`
}

// Bonus is the multiplier and flat points earned at a streak length.
type Bonus struct {
	StreakLength int     `json:"streak_length"`
	Multiplier   float64 `json:"multiplier"`
	BonusPoints  float64 `json:"bonus_points"`
	IsActive     bool    `json:"is_active"`
}

// progression maps streak length to (multiplier, bonus points). Length 1 is
// the first session of a new streak and carries no bonus yet.
var progression = [MaxLength + 1]struct {
	multiplier float64
	bonus      float64
}{
	{1.00, 0},  // 0: no streak
	{1.00, 0},  // 1
	{1.05, 10}, // 2
	{1.10, 20}, // 3
	{1.15, 30}, // 4
	{1.20, 40}, // 5
	{1.25, 50}, // 6
}

// Tracker advances a current streak and retains the best streak ever seen.
type Tracker struct {
	Current State
	Best    State
}

// NewTracker restores a tracker from persisted state.
func NewTracker(current, best State) *Tracker {
	return &Tracker{Current: current, Best: best}
}

// Improved reports whether the current session beats the previous one.
func Improved(currentScore, previousScore float64) bool {
	return currentScore > previousScore
}

// Update advances the streak on improvement or resets it to the zero state.
// Best-streak tracking is a monotone max retained across resets. Returns the
// bonus for the post-update state.
func (t *Tracker) Update(improved bool, currentScore float64, sessionDate time.Time) Bonus {
	if !improved {
		t.Current = State{}
		return t.Bonus()
	}

	if t.Current.Length == 0 {
		t.Current.StartDate = &sessionDate
	}
	if t.Current.Length < MaxLength {
		t.Current.Length++
	}
	t.Current.LastSessionDate = &sessionDate
	t.Current.LastSessionScore = currentScore

	if t.Current.Length > t.Best.Length {
		t.Best = t.Current
	}
	return t.Bonus()
}

// Bonus returns the multiplier and bonus points for the current streak state
// without mutating it. The aggregator calls this against the prior state,
// before Update runs for the session being scored.
func (t *Tracker) Bonus() Bonus {
	length := t.Current.Length
	if length > MaxLength {
		length = MaxLength
	}
	p := progression[length]
	return Bonus{
		StreakLength: t.Current.Length,
		Multiplier:   p.multiplier,
		BonusPoints:  p.bonus,
		IsActive:     t.Current.Length > 0,
	}
}

// ComboThreshold is the category percentage that counts as excellent.
const ComboThreshold = 0.80

// ComboTier pairs a category count with its bonus.
type ComboTier struct {
	Categories int     `json:"categories"`
	Bonus      float64 `json:"bonus"`
	Name       string  `json:"name"`
}

// ComboTiers in ascending order; the highest threshold met wins.
var ComboTiers = []ComboTier{
	{2, 25, "Focused"},
	{3, 50, "Well-Rounded"},
	{4, 100, "Proficiency"},
	{5, 150, "MASTERY"},
}

// ComboResult reports the combo evaluation for one scoring run.
type ComboResult struct {
	ComboActive         bool               `json:"combo_active"`
	ExcellentCategories int                `json:"excellent_categories"`
	CategoryPercentages map[string]float64 `json:"category_percentages"`
	BonusPoints         float64            `json:"bonus_points"`
	TierName            string             `json:"tier_name"`
}

// CheckCombo counts categories at or above the excellence threshold and maps
// the count to the highest matching bonus tier. Pure.
func CheckCombo(scores map[string]types.CategoryScore) ComboResult {
	percentages := make(map[string]float64, len(scores))
	excellent := 0
	for name, cs := range scores {
		pct := 0.0
		if cs.MaxScore > 0 {
			pct = cs.Score / cs.MaxScore
			if pct > 1 {
				pct = 1
			}
		}
		percentages[name] = types.Round1(pct * 100)
		if pct >= ComboThreshold {
			excellent++
		}
	}

	bonus := 0.0
	tierName := "None"
	for _, tier := range ComboTiers {
		if excellent >= tier.Categories {
			bonus = tier.Bonus
			tierName = tier.Name
		}
	}

	return ComboResult{
		ComboActive:         excellent >= 2,
		ExcellentCategories: excellent,
		CategoryPercentages: percentages,
		BonusPoints:         bonus,
		TierName:            tierName,
	}
}

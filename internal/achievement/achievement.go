// Package achievement holds the fixed achievement catalog and the unlock
// ledger. The catalog is versioned in code; unlock records are append-only
// ids on the user profile.
package achievement

import (
	"time"

	"github.com/dotcommander/tokencraft/internal/types"
)

// Achievement categories.
const (
	CategoryProgression = "Progression"
	CategoryExcellence  = "Excellence"
	CategoryStreaks     = "Streaks"
	CategoryCombos      = "Combos"
	CategoryExploration = "Exploration"
	CategorySpecial     = "Special"
)

// Achievement is an immutable catalog entry.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Requirement string `json:"requirement"`
	Points      int    `json:"points"`
}

// Catalog is the fixed achievement list. Order matters for display only.
var Catalog = []Achievement{
	// Progression: rank milestones.
	{"rank_cadet", "Cadet", CategoryProgression, "Start your journey", "Reach Cadet rank", 20},
	{"rank_navigator", "Navigator", CategoryProgression, "First journey complete", "Reach Navigator rank (100 pts)", 50},
	{"rank_captain", "Captain", CategoryProgression, "Leading missions", "Reach Captain rank (550 pts)", 100},
	{"rank_admiral", "Admiral", CategoryProgression, "Fleet command achieved", "Reach Admiral rank (1100 pts)", 150},
	{"rank_legend", "Galactic Legend", CategoryProgression, "Explored uncharted territories", "Reach Galactic Legend rank (2300 pts)", 200},

	// Excellence: 80%+ in a named category.
	{"excellence_efficiency", "Efficiency Expert", CategoryExcellence, "Master token optimization", "80%+ on Token Efficiency", 75},
	{"excellence_adoption", "Optimization Master", CategoryExcellence, "Best practices virtuoso", "80%+ on Optimization Adoption", 75},
	{"excellence_cache", "Cache Champion", CategoryExcellence, "Cache hit expert", "80%+ on Cache Effectiveness", 75},
	{"excellence_waste", "Zero Waste Pioneer", CategoryExcellence, "Minimal token waste", "80%+ on Waste Awareness", 75},
	{"excellence_cost", "Cost Efficiency Master", CategoryExcellence, "Budget optimization pro", "80%+ on Cost Efficiency", 75},

	// Streaks: consecutive-improvement milestones.
	{"streak_3", "Warming Up", CategoryStreaks, "3-session improvement streak", "Achieve 3 consecutive improving sessions", 50},
	{"streak_5", "On Fire", CategoryStreaks, "5-session improvement streak", "Achieve 5 consecutive improving sessions", 100},
	{"streak_6", "Unstoppable", CategoryStreaks, "Max improvement streak", "Hold the maximum 6-session streak", 150},

	// Combos: multi-category excellence.
	{"combo_focused", "Focused Practitioner", CategoryCombos, "Excel in 2+ categories", "2 categories at 80%+", 50},
	{"combo_wellrounded", "Well-Rounded Optimizer", CategoryCombos, "Excel in 3+ categories", "3 categories at 80%+", 100},
	{"combo_mastery", "MASTERY: All Categories", CategoryCombos, "Excellence across the board", "5+ categories at 80%+", 200},

	// Exploration: session-count milestones.
	{"explore_10", "First Flight", CategoryExploration, "10 sessions completed", "Reach 10 sessions", 25},
	{"explore_50", "Experienced Explorer", CategoryExploration, "50 sessions completed", "Reach 50 sessions", 75},
	{"explore_100", "Century Club", CategoryExploration, "100 sessions completed", "Reach 100 sessions", 150},
	{"explore_250", "Veteran Navigator", CategoryExploration, "250 sessions completed", "Reach 250 sessions", 200},

	// Special: composite conditions.
	{"special_zero_waste", "Zero Waste Day", CategorySpecial, "Optimal session with <10% waste", "Single session with <10% waste", 60},
	{"special_consistency", "Consistency King", CategorySpecial, "Sustained excellence", "30 consecutive days >80% efficiency", 150},
	{"special_speedrun", "Speed Demon", CategorySpecial, "Complete 5 sessions in one day", "5 sessions in 24 hours with improvements", 100},
	{"special_comeback", "Comeback Kid", CategorySpecial, "Recover from 10+ pt loss", "Recover from degraded score (+10 pts improvement)", 80},
	{"special_peak", "Peak Performance", CategorySpecial, "Achieve personal best score", "Set new personal high score", 120},
}

// ByID looks up a catalog entry. Returns nil for unknown ids.
func ByID(id string) *Achievement {
	for i := range Catalog {
		if Catalog[i].ID == id {
			return &Catalog[i]
		}
	}
	return nil
}

// Unlock statuses.
const (
	StatusUnlocked        = "unlocked"
	StatusAlreadyUnlocked = "already_unlocked"
	StatusInvalid         = "invalid_achievement"
)

// UnlockResult is the explicit outcome of an unlock attempt. Failures are
// observable statuses, never silently dropped.
type UnlockResult struct {
	Status        string    `json:"status"`
	AchievementID string    `json:"achievement_id"`
	Name          string    `json:"name,omitempty"`
	Category      string    `json:"category,omitempty"`
	Points        int       `json:"points,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}

// Registry is the stateful unlock ledger for one profile. Unlocks are
// append-only with set semantics and irreversible.
type Registry struct {
	unlocked []string
	index    map[string]bool
}

// NewRegistry restores a registry from the profile's unlock list. Duplicate
// ids in the input are collapsed.
func NewRegistry(unlocked []string) *Registry {
	r := &Registry{index: make(map[string]bool, len(unlocked))}
	for _, id := range unlocked {
		if !r.index[id] {
			r.index[id] = true
			r.unlocked = append(r.unlocked, id)
		}
	}
	return r
}

// Unlocked returns the unlock list in unlock order.
func (r *Registry) Unlocked() []string {
	out := make([]string, len(r.unlocked))
	copy(out, r.unlocked)
	return out
}

// IsUnlocked reports whether an id has been unlocked.
func (r *Registry) IsUnlocked(id string) bool {
	return r.index[id]
}

// Unlock appends an id to the ledger. Idempotent: unlocking an already
// unlocked id is a no-op with an already_unlocked status, and unknown ids
// never mutate state.
func (r *Registry) Unlock(id string, ts time.Time) UnlockResult {
	if r.index[id] {
		return UnlockResult{Status: StatusAlreadyUnlocked, AchievementID: id}
	}
	a := ByID(id)
	if a == nil {
		return UnlockResult{Status: StatusInvalid, AchievementID: id}
	}
	r.index[id] = true
	r.unlocked = append(r.unlocked, id)
	return UnlockResult{
		Status:        StatusUnlocked,
		AchievementID: id,
		Name:          a.Name,
		Category:      a.Category,
		Points:        a.Points,
		Timestamp:     ts,
	}
}

// unlockIf collects the result only when the unlock actually happened.
func (r *Registry) unlockIf(cond bool, id string, ts time.Time, out *[]UnlockResult) {
	if !cond || r.index[id] {
		return
	}
	if res := r.Unlock(id, ts); res.Status == StatusUnlocked {
		*out = append(*out, res)
	}
}

// CheckProgression unlocks rank milestones newly met by (rank, score). Safe
// to call every run.
func (r *Registry) CheckProgression(rank int, score float64, ts time.Time) []UnlockResult {
	var out []UnlockResult
	r.unlockIf(rank >= 1, "rank_cadet", ts, &out)
	r.unlockIf(rank >= 2, "rank_navigator", ts, &out)
	r.unlockIf(rank >= 5, "rank_captain", ts, &out)
	r.unlockIf(rank >= 7, "rank_admiral", ts, &out)
	r.unlockIf(rank >= 10, "rank_legend", ts, &out)
	return out
}

// excellenceMap ties a scored category to its excellence achievement.
var excellenceMap = map[string]string{
	types.CategoryTokenEfficiency:      "excellence_efficiency",
	types.CategoryOptimizationAdoption: "excellence_adoption",
	types.CategoryCacheEffectiveness:   "excellence_cache",
	types.CategoryWasteAwareness:       "excellence_waste",
	types.CategoryCostEfficiency:       "excellence_cost",
}

// CheckExcellence unlocks category-mastery achievements for categories at or
// above 80%. Already-earned unlocks survive later regressions; points are
// never re-granted.
func (r *Registry) CheckExcellence(scores map[string]types.CategoryScore, ts time.Time) []UnlockResult {
	var out []UnlockResult
	for category, id := range excellenceMap {
		cs, ok := scores[category]
		if !ok || cs.MaxScore <= 0 {
			continue
		}
		r.unlockIf(cs.Score/cs.MaxScore >= 0.80, id, ts, &out)
	}
	return out
}

// CheckStreaks unlocks streak-length milestones against the best streak ever
// held, so a later reset cannot re-lock them.
func (r *Registry) CheckStreaks(bestStreakLength int, ts time.Time) []UnlockResult {
	var out []UnlockResult
	r.unlockIf(bestStreakLength >= 3, "streak_3", ts, &out)
	r.unlockIf(bestStreakLength >= 5, "streak_5", ts, &out)
	r.unlockIf(bestStreakLength >= 6, "streak_6", ts, &out)
	return out
}

// CheckCombos unlocks combo-tier milestones from the excellent-category count.
func (r *Registry) CheckCombos(excellentCategories int, ts time.Time) []UnlockResult {
	var out []UnlockResult
	r.unlockIf(excellentCategories >= 2, "combo_focused", ts, &out)
	r.unlockIf(excellentCategories >= 3, "combo_wellrounded", ts, &out)
	r.unlockIf(excellentCategories >= 5, "combo_mastery", ts, &out)
	return out
}

// CheckExploration unlocks session-count milestones.
func (r *Registry) CheckExploration(totalSessions int, ts time.Time) []UnlockResult {
	var out []UnlockResult
	r.unlockIf(totalSessions >= 10, "explore_10", ts, &out)
	r.unlockIf(totalSessions >= 50, "explore_50", ts, &out)
	r.unlockIf(totalSessions >= 100, "explore_100", ts, &out)
	r.unlockIf(totalSessions >= 250, "explore_250", ts, &out)
	return out
}

// Stats summarizes ledger completion.
type Stats struct {
	UnlockedCount       int     `json:"unlocked_count"`
	TotalCount          int     `json:"total_count"`
	CompletionPct       float64 `json:"completion_pct"`
	TotalPointsEarned   int     `json:"total_points_earned"`
	TotalPointsPossible int     `json:"total_points_possible"`
}

// GetStats computes catalog completion for this ledger.
func (r *Registry) GetStats() Stats {
	earned := 0
	possible := 0
	for _, a := range Catalog {
		possible += a.Points
		if r.index[a.ID] {
			earned += a.Points
		}
	}
	return Stats{
		UnlockedCount:       len(r.unlocked),
		TotalCount:          len(Catalog),
		CompletionPct:       types.Round1(float64(len(r.unlocked)) / float64(len(Catalog)) * 100),
		TotalPointsEarned:   earned,
		TotalPointsPossible: possible,
	}
}

// Package rank maps total scores onto the ten-tier progression ladder.
package rank

// Rank is one tier of the progression ladder.
type Rank struct {
	Level       int    `json:"level"` // 1..10
	Name        string `json:"name"`
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Description string `json:"description"`
	BadgeID     string `json:"badge_id"`
}

// Ranks is the full ladder, ordered by Min. Bands follow the v3 exponential
// curve: roughly 3-6 months of sustained excellence to reach Galactic Legend.
var Ranks = []Rank{
	{1, "Cadet", 0, 99, "Academy training, learning fundamentals", "token_craft_cadet"},
	{2, "Navigator", 100, 199, "Charting efficient courses", "token_craft_navigator"},
	{3, "Pilot", 200, 349, "First missions, gaining experience", "token_craft_pilot"},
	{4, "Explorer", 350, 549, "Venturing into uncharted space", "token_craft_explorer"},
	{5, "Captain", 550, 799, "Commanding missions with excellence", "token_craft_captain"},
	{6, "Commander", 800, 1099, "Leading with precision and strategy", "token_craft_commander"},
	{7, "Admiral", 1100, 1449, "Fleet command, strategic excellence", "token_craft_admiral"},
	{8, "Commodore", 1450, 1849, "Supreme commander of fleets", "token_craft_commodore"},
	{9, "Fleet Admiral", 1850, 2299, "Master of token optimization", "token_craft_fleet_admiral"},
	{10, "Galactic Legend", 2300, 9999, "Explored uncharted territories, achieved mastery", "token_craft_legend"},
}

// Progress describes where a score sits inside its rank band.
type Progress struct {
	Rank
	CurrentScore   int     `json:"current_score"`
	ProgressInRank int     `json:"progress_in_rank"`
	RankRange      int     `json:"rank_range"`
	ProgressPct    float64 `json:"progress_pct"`
}

// ForScore returns the rank band containing score. Scores beyond the top
// band report the top rank.
func ForScore(score int) Progress {
	if score < 0 {
		score = 0
	}
	for _, r := range Ranks {
		if score >= r.Min && score <= r.Max {
			rng := r.Max - r.Min + 1
			return Progress{
				Rank:           r,
				CurrentScore:   score,
				ProgressInRank: score - r.Min,
				RankRange:      rng,
				ProgressPct:    float64(score-r.Min) / float64(rng) * 100,
			}
		}
	}
	top := Ranks[len(Ranks)-1]
	return Progress{
		Rank:           top,
		CurrentScore:   score,
		ProgressInRank: score - top.Min,
		RankRange:      1,
		ProgressPct:    100,
	}
}

// Level returns the numeric rank level (1-10) for a score.
func Level(score int) int {
	return ForScore(score).Rank.Level
}

// NextRank holds the next rank and the points needed to reach it.
type NextRank struct {
	Rank
	PointsNeeded int `json:"points_needed"`
}

// Next returns the rank after the one containing score, or nil at the top.
func Next(score int) *NextRank {
	cur := ForScore(score)
	if cur.Level >= len(Ranks) {
		return nil
	}
	next := Ranks[cur.Level] // Level is 1-based, so this indexes the next entry
	return &NextRank{Rank: next, PointsNeeded: next.Min - score}
}

// ByName looks up a rank by its display name. Returns nil when unknown.
func ByName(name string) *Rank {
	for i := range Ranks {
		if Ranks[i].Name == name {
			return &Ranks[i]
		}
	}
	return nil
}

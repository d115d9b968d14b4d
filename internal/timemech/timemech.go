// Package timemech implements the date-driven score adjustments: recency
// bonus, inactivity decay, and the 30-day seasonal reset. Every function is
// pure over the supplied clock value.
package timemech

import (
	"time"

	"github.com/dotcommander/tokencraft/internal/types"
)

// SeasonLength is the seasonal reset interval.
const SeasonLength = 30 * 24 * time.Hour

// SeasonRetention is the share of a season's score folded into the lifetime
// total on reset.
const SeasonRetention = 0.50

// DaysSince returns whole days elapsed from past to now. A zero past time is
// treated as very old.
func DaysSince(now, past time.Time) int {
	if past.IsZero() {
		return 999
	}
	d := now.Sub(past)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// Recency is the freshness multiplier for a session's contribution.
type Recency struct {
	Multiplier float64 `json:"multiplier"`
	BonusPct   int     `json:"bonus_pct"`
	DaysAgo    int     `json:"days_ago"`
}

// RecencyBonus rewards fresh sessions: same day 1.25x, within a week 1.15x,
// within two weeks 1.05x, older 1.0x.
func RecencyBonus(now, sessionDate time.Time) Recency {
	daysAgo := DaysSince(now, sessionDate)
	switch {
	case daysAgo == 0:
		return Recency{1.25, 25, daysAgo}
	case daysAgo <= 7:
		return Recency{1.15, 15, daysAgo}
	case daysAgo <= 14:
		return Recency{1.05, 5, daysAgo}
	default:
		return Recency{1.00, 0, daysAgo}
	}
}

// Decay is the inactivity penalty based on the gap since the profile was
// last updated.
type Decay struct {
	Multiplier   float64 `json:"multiplier"`
	DecayPct     int     `json:"decay_pct"`
	DaysInactive int     `json:"days_inactive"`
	WarningLevel string  `json:"warning_level"`
}

// InactivityDecay reduces scores after activity gaps: no decay through three
// days, down to 0.50x past thirty.
func InactivityDecay(now, lastSessionDate time.Time) Decay {
	days := DaysSince(now, lastSessionDate)
	switch {
	case days <= 3:
		return Decay{1.00, 0, days, "none"}
	case days <= 7:
		return Decay{0.95, 5, days, "minor"}
	case days <= 14:
		return Decay{0.85, 15, days, "moderate"}
	case days <= 30:
		return Decay{0.70, 30, days, "significant"}
	default:
		return Decay{0.50, 50, days, "critical"}
	}
}

// SeasonStatus reports whether a seasonal reset is due and the season window.
type SeasonStatus struct {
	ShouldReset        bool      `json:"should_reset"`
	Reason             string    `json:"reason"`
	CurrentSeasonStart time.Time `json:"current_season_start"`
	NextResetDate      time.Time `json:"next_reset_date"`
	DaysUntilReset     int       `json:"days_until_reset"`
}

// SeasonalReset determines whether the 30-day season has elapsed. A profile
// with no prior reset triggers immediately.
func SeasonalReset(now time.Time, lastReset *time.Time) SeasonStatus {
	if lastReset == nil || lastReset.IsZero() {
		return SeasonStatus{
			ShouldReset:        true,
			Reason:             "First season",
			CurrentSeasonStart: now,
			NextResetDate:      now.Add(SeasonLength),
			DaysUntilReset:     30,
		}
	}
	if DaysSince(now, *lastReset) >= 30 {
		return SeasonStatus{
			ShouldReset:        true,
			Reason:             "30-day season complete",
			CurrentSeasonStart: now,
			NextResetDate:      now.Add(SeasonLength),
			DaysUntilReset:     0,
		}
	}
	next := lastReset.Add(SeasonLength)
	daysUntil := DaysSince(next, now)
	return SeasonStatus{
		ShouldReset:        false,
		Reason:             "Season ongoing",
		CurrentSeasonStart: *lastReset,
		NextResetDate:      next,
		DaysUntilReset:     daysUntil,
	}
}

// ResetOutcome is the score movement of one seasonal reset.
type ResetOutcome struct {
	ResetDate          time.Time `json:"reset_date"`
	OldSeasonScore     float64   `json:"old_season_score"`
	NewSeasonScore     float64   `json:"new_season_score"`
	SeasonContribution float64   `json:"season_contribution_to_lifetime"`
	OldLifetimeScore   float64   `json:"old_lifetime_score"`
	NewLifetimeScore   float64   `json:"new_lifetime_score"`
}

// ApplySeasonalReset folds half of the season score into the lifetime total
// and zeroes the season.
func ApplySeasonalReset(now time.Time, currentSeasonScore, lifetimeScore float64) ResetOutcome {
	contribution := currentSeasonScore * SeasonRetention
	return ResetOutcome{
		ResetDate:          now,
		OldSeasonScore:     currentSeasonScore,
		NewSeasonScore:     0,
		SeasonContribution: contribution,
		OldLifetimeScore:   lifetimeScore,
		NewLifetimeScore:   lifetimeScore + contribution,
	}
}

// Adjustment is the combined time-modifier application to a score.
type Adjustment struct {
	BaseScore          float64 `json:"base_score"`
	AdjustedScore      float64 `json:"adjusted_score"`
	CombinedMultiplier float64 `json:"combined_multiplier"`
	Recency            Recency `json:"recency"`
	Decay              *Decay  `json:"decay,omitempty"`
}

// ApplyTimeModifiers multiplies a score by the recency bonus and, when a last
// session date is known, the inactivity decay. This is applied exactly once,
// to the post-bonus score.
func ApplyTimeModifiers(baseScore float64, now, sessionDate time.Time, lastSessionDate *time.Time) Adjustment {
	recency := RecencyBonus(now, sessionDate)
	mult := recency.Multiplier

	var decay *Decay
	if lastSessionDate != nil && !lastSessionDate.IsZero() {
		d := InactivityDecay(now, *lastSessionDate)
		decay = &d
		mult *= d.Multiplier
	}

	return Adjustment{
		BaseScore:          baseScore,
		AdjustedScore:      types.Round1(baseScore * mult),
		CombinedMultiplier: types.Round2(mult),
		Recency:            recency,
		Decay:              decay,
	}
}

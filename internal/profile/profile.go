// Package profile holds the persisted player profile and its storage.
package profile

import (
	"encoding/json"
	"time"

	"github.com/dotcommander/tokencraft/internal/streak"
	"github.com/dotcommander/tokencraft/internal/types"
)

// StreakInfo persists the current and best streak states.
type StreakInfo struct {
	Current streak.State `json:"current"`
	Best    streak.State `json:"best"`
}

// SeasonalInfo tracks the rolling season window.
type SeasonalInfo struct {
	CurrentSeasonScore float64    `json:"current_season_score"`
	LifetimeScore      float64    `json:"lifetime_score"`
	CurrentSeasonStart time.Time  `json:"current_season_start"`
	LastReset          *time.Time `json:"last_reset"`
}

// Event is a history entry, recorded on rank changes and seasonal resets.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Event     string    `json:"event"`
	OldRank   string    `json:"old_rank,omitempty"`
	NewRank   string    `json:"new_rank,omitempty"`
	Score     float64   `json:"score,omitempty"`
}

// Profile is the v3 player profile. Fields written by other tools or future
// schema versions survive a load/save round trip via the Unknown map.
type Profile struct {
	Version             string             `json:"version"`
	UserEmail           string             `json:"user_email"`
	CreatedAt           time.Time          `json:"created_at"`
	LastUpdated         time.Time          `json:"last_updated"`
	CurrentRank         string             `json:"current_rank"`
	CurrentScore        float64            `json:"current_score"`
	RankAchievedAt      *time.Time         `json:"rank_achieved_at"`
	TotalSessions       int                `json:"total_sessions"`
	TotalMessages       int                `json:"total_messages"`
	TotalTokens         int                `json:"total_tokens"`
	AvgTokensPerSession float64            `json:"avg_tokens_per_session"`
	Scores              map[string]float64 `json:"scores"`
	StreakInfo          StreakInfo         `json:"streak_info"`
	SeasonalInfo        SeasonalInfo       `json:"seasonal_info"`
	History             []Event            `json:"history"`
	Achievements        []string           `json:"achievements"`
	RecentSessionScores []float64          `json:"recent_session_scores"`
	PersonalBestEff     float64            `json:"personal_best_efficiency"`
	Legacy              map[string]any     `json:"legacy,omitempty"`
	Migration           map[string]any     `json:"migration,omitempty"`

	// Unknown carries top-level fields this version does not model.
	Unknown map[string]json.RawMessage `json:"-"`
}

// New returns a fresh v3 profile with neutral starting state.
func New(userEmail string, now time.Time) *Profile {
	scores := make(map[string]float64, len(types.Categories))
	for _, cat := range types.Categories {
		scores[cat] = 0
	}
	return &Profile{
		Version:     "3.0",
		UserEmail:   userEmail,
		CreatedAt:   now,
		LastUpdated: now,
		CurrentRank: "Cadet",
		Scores:      scores,
		SeasonalInfo: SeasonalInfo{
			CurrentSeasonStart: now,
		},
		History:      []Event{},
		Achievements: []string{},
	}
}

// profileAlias breaks the MarshalJSON recursion.
type profileAlias Profile

// UnmarshalJSON decodes known fields into the struct and stashes every other
// top-level key in Unknown, untouched.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var alias profileAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*p = Profile(alias)

	for _, key := range knownKeys {
		delete(raw, key)
	}
	if len(raw) > 0 {
		p.Unknown = raw
	}
	return nil
}

// MarshalJSON emits known fields plus the preserved Unknown keys. Known
// fields win on collision.
func (p *Profile) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(profileAlias(*p))
	if err != nil {
		return nil, err
	}
	if len(p.Unknown) == 0 {
		return data, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Unknown {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

var knownKeys = []string{
	"version", "user_email", "created_at", "last_updated",
	"current_rank", "current_score", "rank_achieved_at",
	"total_sessions", "total_messages", "total_tokens",
	"avg_tokens_per_session", "scores", "streak_info", "seasonal_info",
	"history", "achievements", "recent_session_scores",
	"personal_best_efficiency", "legacy", "migration",
}

// RecordRankChange appends a history event and stamps rank_achieved_at when
// the rank actually moved.
func (p *Profile) RecordRankChange(oldRank, newRank string, score float64, now time.Time) {
	p.CurrentRank = newRank
	p.CurrentScore = score
	p.LastUpdated = now
	if oldRank == newRank {
		return
	}
	p.RankAchievedAt = &now
	p.History = append(p.History, Event{
		Timestamp: now,
		Event:     "rank_change",
		OldRank:   oldRank,
		NewRank:   newRank,
		Score:     score,
	})
}

// AppendSessionScore keeps the trailing window of recent session totals used
// by regression detection.
func (p *Profile) AppendSessionScore(score float64, window int) {
	p.RecentSessionScores = append(p.RecentSessionScores, score)
	if len(p.RecentSessionScores) > window {
		p.RecentSessionScores = p.RecentSessionScores[len(p.RecentSessionScores)-window:]
	}
}

// RankHistory filters history down to rank changes.
func (p *Profile) RankHistory() []Event {
	var out []Event
	for _, e := range p.History {
		if e.Event == "rank_change" {
			out = append(out, e)
		}
	}
	return out
}

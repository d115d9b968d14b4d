// Package pipeline orchestrates one full scoring run: load and migrate the
// profile, ingest usage data, score, advance streaks and achievements,
// update the profile, and save.
package pipeline

import (
	"fmt"
	"time"

	"github.com/dotcommander/tokencraft/internal/achievement"
	"github.com/dotcommander/tokencraft/internal/history"
	"github.com/dotcommander/tokencraft/internal/migration"
	"github.com/dotcommander/tokencraft/internal/profile"
	"github.com/dotcommander/tokencraft/internal/rank"
	"github.com/dotcommander/tokencraft/internal/scoring"
	"github.com/dotcommander/tokencraft/internal/streak"
	"github.com/dotcommander/tokencraft/internal/timemech"
)

// recentScoreWindow is how many session totals the profile retains for
// regression detection.
const recentScoreWindow = 10

// Runner executes scoring runs against one profile and one data directory.
type Runner struct {
	Repo profile.Repository
	Root string

	// ScorerOptions are threaded through to the scorer, for tests.
	ScorerOptions []scoring.Option

	now func() time.Time
}

// NewRunner builds a runner over the given repository and Claude data root.
func NewRunner(repo profile.Repository, root string) *Runner {
	return &Runner{Repo: repo, Root: root, now: time.Now}
}

// WithClock overrides the runner's clock, for tests.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	r.now = now
	return r
}

// Outcome is everything one run produced, for rendering.
type Outcome struct {
	Profile         *profile.Profile
	Created         bool
	Result          *scoring.Result
	Rank            rank.Progress
	NextRank        *rank.NextRank
	PreviousRank    string
	Improved        bool
	StreakAfter     streak.Bonus
	SeasonalReset   *timemech.ResetOutcome
	Migration       *migration.Result
	NewAchievements []achievement.UnlockResult
}

// Run performs a complete scoring pass and persists the updated profile.
func (r *Runner) Run() (*Outcome, error) {
	p, created, err := r.Repo.Load()
	if err != nil {
		return nil, err
	}

	sessions, stats, err := history.Load(r.Root)
	if err != nil {
		return nil, err
	}

	now := r.now()

	// Seasonal reset happens before scoring so the new season starts clean.
	var resetOutcome *timemech.ResetOutcome
	season := timemech.SeasonalReset(now, p.SeasonalInfo.LastReset)
	if season.ShouldReset {
		out := timemech.ApplySeasonalReset(now, p.SeasonalInfo.CurrentSeasonScore, p.SeasonalInfo.LifetimeScore)
		p.SeasonalInfo.CurrentSeasonScore = 0
		p.SeasonalInfo.LifetimeScore = out.NewLifetimeScore
		p.SeasonalInfo.CurrentSeasonStart = now
		p.SeasonalInfo.LastReset = &now
		resetOutcome = &out
	}

	// Difficulty follows the rank held before this run.
	rankLevel := rank.Level(int(p.CurrentScore))

	var snapshot *scoring.Snapshot
	if p.TotalSessions > 0 {
		snapshot = &scoring.Snapshot{AvgTokensPerSession: p.AvgTokensPerSession}
	}

	var lastSession *time.Time
	if !p.LastUpdated.IsZero() && !created {
		t := p.LastUpdated
		lastSession = &t
	}

	scorer := scoring.NewScorer(sessions, stats, rankLevel, r.ScorerOptions...)
	result, err := scorer.CalculateTotal(snapshot, scoring.PriorState{
		Rank:                   rankLevel,
		Streak:                 p.StreakInfo.Current,
		Unlocked:               p.Achievements,
		RecentScores:           p.RecentSessionScores,
		PersonalBestEfficiency: p.PersonalBestEff,
		LastSessionDate:        lastSession,
	})
	if err != nil {
		return nil, fmt.Errorf("scoring failed: %w", err)
	}

	// Advance the streak against the previous session's total.
	improved := streak.Improved(result.TotalScore, p.StreakInfo.Current.LastSessionScore)
	tracker := streak.NewTracker(p.StreakInfo.Current, p.StreakInfo.Best)
	streakAfter := tracker.Update(improved, result.TotalScore, now)
	p.StreakInfo.Current = tracker.Current
	p.StreakInfo.Best = tracker.Best

	// Fold the run's unlocks into the registry, then run the checks that
	// depend on post-run state: streaks, combos, and total sessions.
	registry := achievement.NewRegistry(p.Achievements)
	unlocked := make([]achievement.UnlockResult, 0, len(result.Bonuses.NewAchievements))
	for _, res := range result.Bonuses.NewAchievements {
		if out := registry.Unlock(res.AchievementID, now); out.Status == achievement.StatusUnlocked {
			unlocked = append(unlocked, out)
		}
	}
	unlocked = append(unlocked, registry.CheckStreaks(tracker.Best.Length, now)...)
	unlocked = append(unlocked, registry.CheckCombos(result.Bonuses.Combo.ExcellentCategories, now)...)

	totalSessions, totalMessages, totalTokens, avgTokens := scorer.UsageTotals()
	unlocked = append(unlocked, registry.CheckExploration(totalSessions, now)...)
	p.Achievements = registry.Unlocked()

	prog := rank.ForScore(int(result.TotalScore))
	previousRank := p.CurrentRank
	p.RecordRankChange(previousRank, prog.Name, result.TotalScore, now)

	p.TotalSessions = totalSessions
	p.TotalMessages = totalMessages
	p.TotalTokens = totalTokens
	p.AvgTokensPerSession = avgTokens
	p.SeasonalInfo.CurrentSeasonScore = result.TotalScore
	p.AppendSessionScore(result.TotalScore, recentScoreWindow)
	if eff := result.CurrentEfficiency(); eff > p.PersonalBestEff {
		p.PersonalBestEff = eff
	}
	if p.Scores == nil {
		p.Scores = make(map[string]float64, 10)
	}
	for name, cs := range result.Breakdown.CategoryScores() {
		p.Scores[name] = cs.Score
	}

	if err := r.Repo.Save(p); err != nil {
		return nil, err
	}

	var migrationResult *migration.Result
	if fr, ok := r.Repo.(*profile.FileRepository); ok {
		migrationResult = fr.LastMigration
	}

	return &Outcome{
		Profile:         p,
		Created:         created,
		Result:          result,
		Rank:            prog,
		NextRank:        rank.Next(int(result.TotalScore)),
		PreviousRank:    previousRank,
		Improved:        improved,
		StreakAfter:     streakAfter,
		SeasonalReset:   resetOutcome,
		Migration:       migrationResult,
		NewAchievements: unlocked,
	}, nil
}

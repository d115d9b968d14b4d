// Package scoring evaluates usage data against the ten scoring categories
// and aggregates them, with bonuses, into a total score.
package scoring

import (
	"math"
	"os"
	"sort"
	"time"

	"github.com/dotcommander/tokencraft/internal/detect"
	"github.com/dotcommander/tokencraft/internal/difficulty"
	"github.com/dotcommander/tokencraft/internal/types"
)

// Category weights, 2300 points total.
var Weights = map[string]float64{
	types.CategoryTokenEfficiency:      250,
	types.CategoryOptimizationAdoption: 400,
	types.CategoryImprovementTrend:     125,
	types.CategoryWasteAwareness:       100,
	types.CategoryCacheEffectiveness:   75,
	types.CategoryToolEfficiency:       75,
	types.CategoryCostEfficiency:       75,
	types.CategorySessionFocus:         75,
	types.CategoryLearningGrowth:       75,
	types.CategoryBestPractices:        50,
}

// Bonus system weights, 575 points on top of the base categories.
var BonusWeights = map[string]float64{
	"streak_multiplier":   75,
	"combo_bonuses":       150,
	"achievement_rewards": 200,
	"rank_prestige":       150,
}

// MaxBase is the sum of all category weights.
const MaxBase = 2300

// MaxAchievable is the theoretical ceiling with every bonus maxed.
const MaxAchievable = 2875

// Fixed company baseline, used until enough sessions exist for a
// personal one.
const (
	BaselineTokensPerSession = 30000
	DynamicBaselineFloor     = 15000
	DynamicBaselineMinimum   = 10 // sessions needed before going dynamic
)

// Snapshot carries the previous scoring run's figures for trend comparison.
type Snapshot struct {
	AvgTokensPerSession float64 `json:"avg_tokens_per_session"`
}

// Scorer evaluates one batch of usage data. Derived metrics are computed
// once at construction; evaluators are read-only after that.
type Scorer struct {
	sessions []types.Session
	stats    types.UsageStats
	rank     int
	diff     difficulty.Settings
	detector *detect.Detector

	homeDir string
	now     func() time.Time

	totalSessions       int
	totalMessages       int
	totalTokens         int
	avgTokensPerSession float64
	dynamicBaseline     float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithHomeDir overrides the home directory used for CLAUDE.md and MEMORY.md
// lookups, for tests.
func WithHomeDir(dir string) Option {
	return func(s *Scorer) { s.homeDir = dir }
}

// WithClock overrides the scorer's clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scorer) { s.now = now }
}

// NewScorer prepares a scorer for the given data at the given rank.
func NewScorer(sessions []types.Session, stats types.UsageStats, rank int, opts ...Option) *Scorer {
	home, _ := os.UserHomeDir()
	s := &Scorer{
		sessions: sessions,
		stats:    stats,
		rank:     rank,
		diff:     difficulty.ForRank(rank),
		detector: detect.Default(),
		homeDir:  home,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.totalSessions = len(sessions)
	for _, sess := range sessions {
		s.totalMessages += len(sess.Messages)
	}
	s.totalTokens = stats.TotalTokens()
	if s.totalSessions > 0 {
		s.avgTokensPerSession = float64(s.totalTokens) / float64(s.totalSessions)
	}
	s.dynamicBaseline = s.calculateDynamicBaseline()
	return s
}

// calculateDynamicBaseline derives a personal tokens-per-session target from
// the best quartile of sessions: 90 percent of the P25 average, floored at
// 15000 and never above the fixed baseline. Falls back to the fixed baseline
// with fewer than ten sessions or when the estimate looks broken.
func (s *Scorer) calculateDynamicBaseline() float64 {
	if s.totalSessions < DynamicBaselineMinimum || s.totalMessages == 0 {
		return BaselineTokensPerSession
	}

	// Per-session tokens are not logged directly; distribute the total
	// proportionally by message count.
	sessionTokens := make([]float64, 0, s.totalSessions)
	for _, sess := range s.sessions {
		share := float64(len(sess.Messages)) / float64(s.totalMessages)
		sessionTokens = append(sessionTokens, share*float64(s.totalTokens))
	}
	if len(sessionTokens) == 0 {
		return BaselineTokensPerSession
	}

	sort.Float64s(sessionTokens)
	p25 := len(sessionTokens) / 4
	if p25 == 0 {
		p25 = 1
	}
	best := sessionTokens[:p25]
	sum := 0.0
	for _, t := range best {
		sum += t
	}
	dynamic := (sum / float64(len(best))) * 0.90

	if dynamic < DynamicBaselineFloor {
		dynamic = DynamicBaselineFloor
	}
	// An estimate far below the user's own average means the proportional
	// distribution failed; trust the fixed baseline instead.
	if dynamic < s.avgTokensPerSession*0.5 {
		return BaselineTokensPerSession
	}
	if dynamic > BaselineTokensPerSession {
		dynamic = BaselineTokensPerSession
	}
	return math.Round(dynamic)
}

// DynamicBaseline exposes the computed baseline for display.
func (s *Scorer) DynamicBaseline() float64 { return s.dynamicBaseline }

// UsageTotals exposes the derived counters for the profile update.
func (s *Scorer) UsageTotals() (sessions, messages, tokens int, avgPerSession float64) {
	return s.totalSessions, s.totalMessages, s.totalTokens, s.avgTokensPerSession
}

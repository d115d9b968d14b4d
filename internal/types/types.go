// Package types provides shared types used across the tokencraft codebase.
// This package is at the bottom of the dependency graph and should not import
// any other internal packages to avoid circular dependencies.
package types

import (
	"fmt"
	"math"
	"time"
)

// Scoring category identifiers. The profile's score map and the aggregator's
// breakdown are keyed by these.
const (
	CategoryTokenEfficiency      = "token_efficiency"
	CategoryOptimizationAdoption = "optimization_adoption"
	CategoryImprovementTrend     = "improvement_trend"
	CategoryWasteAwareness       = "waste_awareness"
	CategoryCacheEffectiveness   = "cache_effectiveness"
	CategoryToolEfficiency       = "tool_efficiency"
	CategoryCostEfficiency       = "cost_efficiency"
	CategorySessionFocus         = "session_focus"
	CategoryLearningGrowth       = "learning_growth"
	CategoryBestPractices        = "best_practices"
)

// Categories lists every scored category in breakdown display order.
var Categories = []string{
	CategoryTokenEfficiency,
	CategoryOptimizationAdoption,
	CategoryImprovementTrend,
	CategoryWasteAwareness,
	CategoryCacheEffectiveness,
	CategoryToolEfficiency,
	CategoryCostEfficiency,
	CategorySessionFocus,
	CategoryLearningGrowth,
	CategoryBestPractices,
}

// Tier labels for category display. Tiers never affect the numeric score.
const (
	TierExcellent = "excellent"
	TierVeryGood  = "very_good"
	TierGood      = "good"
	TierAverage   = "average"
	TierNeedsWork = "needs_work"
	TierNoData    = "no_data"
)

// Metric is a single scoring criterion inside a category.
type Metric struct {
	Name      string  `json:"name"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
	Passed    bool    `json:"passed"`
	Note      string  `json:"note,omitempty"`
}

// CategoryScore is the result of one category evaluator. Created fresh on
// every scoring run; only Score survives into the persisted profile.
type CategoryScore struct {
	Score      float64  `json:"score"`
	MaxScore   float64  `json:"max_score"`
	Percentage float64  `json:"percentage"`
	Tier       string   `json:"tier"`
	Details    []Metric `json:"details,omitempty"`
}

// NewCategoryScore builds a CategoryScore with the percentage derived from
// score/max. It returns an error for out-of-bounds scores: those are
// programming bugs in an evaluator, not runtime conditions to clamp away.
func NewCategoryScore(score, maxScore float64, tier string, details []Metric) (CategoryScore, error) {
	if maxScore <= 0 {
		return CategoryScore{}, fmt.Errorf("category max score must be positive, got %v", maxScore)
	}
	if score < 0 || score > maxScore {
		return CategoryScore{}, fmt.Errorf("category score %v outside [0, %v]", score, maxScore)
	}
	return CategoryScore{
		Score:      Round1(score),
		MaxScore:   maxScore,
		Percentage: Round1(score / maxScore * 100),
		Tier:       tier,
		Details:    details,
	}, nil
}

// Round1 rounds to one decimal place, matching how scores are reported.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places, used for ratios and multipliers.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToolCall is a single tool invocation extracted from an assistant message.
type ToolCall struct {
	Name     string `json:"name"`
	FilePath string `json:"file_path,omitempty"`
	Command  string `json:"command,omitempty"`
}

// Message is one entry in a session's conversation history.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Tokens    int        `json:"tokens"`
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Session groups the messages of one conversation. Immutable once loaded;
// evaluators consume it read-only.
type Session struct {
	ID        string    `json:"session_id"`
	Project   string    `json:"project"`
	Timestamp time.Time `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// ModelUsage holds aggregate token counts for one model.
type ModelUsage struct {
	InputTokens              int `json:"inputTokens"`
	OutputTokens             int `json:"outputTokens"`
	CacheReadInputTokens     int `json:"cacheReadInputTokens"`
	CacheCreationInputTokens int `json:"cacheCreationInputTokens"`
}

// UsageStats is the aggregate stats record keyed by model name.
type UsageStats struct {
	Models map[string]ModelUsage
}

// TotalTokens sums input and output tokens across all models.
func (s UsageStats) TotalTokens() int {
	total := 0
	for _, m := range s.Models {
		total += m.InputTokens + m.OutputTokens
	}
	return total
}

// CacheTotals sums cache reads, cache creations, and regular input tokens.
func (s UsageStats) CacheTotals() (reads, creates, regular int) {
	for _, m := range s.Models {
		reads += m.CacheReadInputTokens
		creates += m.CacheCreationInputTokens
		regular += m.InputTokens
	}
	return reads, creates, regular
}

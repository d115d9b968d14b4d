package detect

import (
	"fmt"
	"strings"

	"github.com/dotcommander/tokencraft/internal/types"
)

// charsPerToken is the rough token estimation factor used for waste sizing.
const charsPerToken = 4

// WastePattern is one detected waste category with its estimated cost.
type WastePattern struct {
	Type           string `json:"type"`
	EstimatedWaste int    `json:"estimated_waste"`
	Frequency      int    `json:"frequency"`
	Recommendation string `json:"recommendation"`
}

// WasteReport aggregates every detected waste pattern.
type WasteReport struct {
	TotalWasteTokens int            `json:"total_waste_tokens"`
	Patterns         []WastePattern `json:"patterns"`
}

// WasteAnalyzer finds token waste in conversation history through content
// analysis rather than scoring heuristics.
type WasteAnalyzer struct {
	detector *Detector
}

// NewWasteAnalyzer builds an analyzer over the default pattern sets.
func NewWasteAnalyzer() *WasteAnalyzer {
	return &WasteAnalyzer{detector: Default()}
}

// Analyze runs every waste detector over the sessions.
func (w *WasteAnalyzer) Analyze(sessions []types.Session) WasteReport {
	var patterns []WastePattern
	for _, p := range []WastePattern{
		w.detectRepeatedContext(sessions),
		w.detectVerbosePrompts(sessions),
		w.detectRedundantReads(sessions),
		w.detectPromptBloat(sessions),
	} {
		if p.EstimatedWaste > 0 {
			patterns = append(patterns, p)
		}
	}

	total := 0
	for _, p := range patterns {
		total += p.EstimatedWaste
	}
	return WasteReport{TotalWasteTokens: total, Patterns: patterns}
}

// detectRepeatedContext flags consecutive user messages sharing a long
// common prefix, a sign of re-pasted context.
func (w *WasteAnalyzer) detectRepeatedContext(sessions []types.Session) WastePattern {
	waste := 0
	freq := 0
	for _, s := range sessions {
		var prev string
		for _, m := range s.Messages {
			if m.Role != "user" {
				continue
			}
			if prev != "" && len(m.Content) > 200 {
				common := commonPrefixLen(prev, m.Content)
				if common > 100 {
					waste += common / charsPerToken
					freq++
				}
			}
			prev = m.Content
		}
	}
	return WastePattern{
		Type:           "repeated_context",
		EstimatedWaste: waste,
		Frequency:      freq,
		Recommendation: "Reference earlier context instead of re-pasting it",
	}
}

// detectVerbosePrompts flags user messages over 2000 characters.
func (w *WasteAnalyzer) detectVerbosePrompts(sessions []types.Session) WastePattern {
	waste := 0
	freq := 0
	for _, s := range sessions {
		for _, m := range s.Messages {
			if m.Role == "user" && len(m.Content) > 2000 {
				waste += (len(m.Content) - 2000) / charsPerToken
				freq++
			}
		}
	}
	return WastePattern{
		Type:           "verbose_prompts",
		EstimatedWaste: waste,
		Frequency:      freq,
		Recommendation: "Trim prompts to the task; long framing adds cost without signal",
	}
}

// detectRedundantReads flags the same file read more than twice in a session.
func (w *WasteAnalyzer) detectRedundantReads(sessions []types.Session) WastePattern {
	waste := 0
	freq := 0
	for _, s := range sessions {
		reads := map[string]int{}
		for _, m := range s.Messages {
			for _, tc := range m.ToolCalls {
				if tc.Name == "Read" && tc.FilePath != "" {
					reads[tc.FilePath]++
				}
			}
		}
		for _, count := range reads {
			if count > 2 {
				// Assume ~500 tokens per redundant read beyond the second.
				waste += (count - 2) * 500
				freq += count - 2
			}
		}
	}
	return WastePattern{
		Type:           "redundant_file_reads",
		EstimatedWaste: waste,
		Frequency:      freq,
		Recommendation: "Re-reading unchanged files repeats their full content in context",
	}
}

// detectPromptBloat totals filler-phrase characters across user messages.
func (w *WasteAnalyzer) detectPromptBloat(sessions []types.Session) WastePattern {
	bloat, _ := w.detector.Set(SetBloat)
	waste := 0
	freq := 0
	for _, s := range sessions {
		for _, m := range s.Messages {
			if m.Role != "user" {
				continue
			}
			lower := strings.ToLower(m.Content)
			for _, kw := range bloat.Keywords {
				c := strings.Count(lower, kw)
				if c > 0 {
					waste += c * len(kw) / charsPerToken
					freq += c
				}
			}
		}
	}
	return WastePattern{
		Type:           "prompt_bloat",
		EstimatedWaste: waste,
		Frequency:      freq,
		Recommendation: fmt.Sprintf("Politeness filler costs tokens; %d occurrences found", freq),
	}
}

func commonPrefixLen(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

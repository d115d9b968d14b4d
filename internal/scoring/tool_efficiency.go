package scoring

import (
	"strings"

	"github.com/dotcommander/tokencraft/internal/types"
)

// ToolScore is the tool efficiency category result.
type ToolScore struct {
	types.CategoryScore
	ReadBeforeEdit ToolCheck `json:"read_before_edit"`
	ParallelUsage  ToolCheck `json:"parallel_usage"`
	SearchTooling  ToolCheck `json:"search_tooling"`
}

// ToolCheck is one tool-usage pattern with its counts and points.
type ToolCheck struct {
	Compliant  int     `json:"compliant"`
	Violations int     `json:"violations"`
	Percentage float64 `json:"percentage"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"max_score"`
}

// ToolEfficiency scores tool usage patterns from assistant turns:
// reading files before editing them (30), batching tool calls into parallel
// turns (25), and preferring Glob/Grep over shelling out to find (20).
func (s *Scorer) ToolEfficiency() (ToolScore, error) {
	maxPoints := Weights[types.CategoryToolEfficiency]

	if len(s.sessions) == 0 {
		cs, err := types.NewCategoryScore(37, maxPoints, types.TierNoData, nil)
		if err != nil {
			return ToolScore{}, err
		}
		return ToolScore{CategoryScore: cs}, nil
	}

	var (
		readBeforeEdit  int
		editWithoutRead int
		parallelTurns   int
		singleTurns     int
		globGrepCalls   int
		bashSearchCalls int
	)

	for _, sess := range s.sessions {
		filesRead := map[string]bool{}
		for _, msg := range sess.Messages {
			if msg.Role != "assistant" || len(msg.ToolCalls) == 0 {
				continue
			}
			if len(msg.ToolCalls) > 1 {
				parallelTurns++
			} else {
				singleTurns++
			}

			for _, tc := range msg.ToolCalls {
				switch tc.Name {
				case "Read":
					if tc.FilePath != "" {
						filesRead[tc.FilePath] = true
					}
				case "Edit":
					if filesRead[tc.FilePath] {
						readBeforeEdit++
					} else {
						editWithoutRead++
					}
				case "Glob", "Grep":
					globGrepCalls++
				case "Bash":
					for _, cmd := range []string{"find ", "grep ", "rg "} {
						if strings.Contains(tc.Command, cmd) {
							bashSearchCalls++
							break
						}
					}
				}
			}
		}
	}

	readCheck := bandedCheck(readBeforeEdit, editWithoutRead, 30, []band{
		{90, 30}, {75, 25}, {60, 20}, {40, 15}, {0, 10},
	}, 30)
	parallelCheck := bandedCheck(parallelTurns, singleTurns, 25, []band{
		{40, 25}, {30, 20}, {20, 15}, {10, 10}, {0, 5},
	}, 12)
	searchCheck := bandedCheck(globGrepCalls, bashSearchCalls, 20, []band{
		{90, 20}, {75, 16}, {50, 12}, {25, 8}, {0, 4},
	}, 20)

	total := readCheck.Score + parallelCheck.Score + searchCheck.Score
	cs, err := types.NewCategoryScore(total, maxPoints, tierForPercentage(total/maxPoints*100), nil)
	if err != nil {
		return ToolScore{}, err
	}
	return ToolScore{
		CategoryScore:  cs,
		ReadBeforeEdit: readCheck,
		ParallelUsage:  parallelCheck,
		SearchTooling:  searchCheck,
	}, nil
}

type band struct {
	minPct float64
	points float64
}

// bandedCheck scores good/(good+bad) against descending percentage bands.
// With no observations the neutral score applies: absence of a pattern is
// not a violation.
func bandedCheck(good, bad int, maxScore float64, bands []band, neutral float64) ToolCheck {
	check := ToolCheck{Compliant: good, Violations: bad, MaxScore: maxScore}
	total := good + bad
	if total == 0 {
		check.Score = neutral
		return check
	}
	pct := float64(good) / float64(total) * 100
	check.Percentage = types.Round1(pct)
	for _, b := range bands {
		if pct >= b.minPct {
			check.Score = b.points
			break
		}
	}
	return check
}

package scoring

import (
	"os"
	"path/filepath"

	"github.com/dotcommander/tokencraft/internal/detect"
	"github.com/dotcommander/tokencraft/internal/types"
)

// BestPracticesScore is the best practices category result.
type BestPracticesScore struct {
	types.CategoryScore
	ClaudeMDSetup  float64 `json:"claude_md_setup"`
	MemoryOpts     float64 `json:"memory_md_optimizations"`
	Tooling        float64 `json:"tooling"`
	ProjectsWithMD int     `json:"projects_with_claude_md"`
	TopProjects    int     `json:"top_projects"`
}

// BestPractices scores workspace hygiene: CLAUDE.md coverage across the top
// projects (30), optimization notes in MEMORY.md (10), and use of usage
// tooling at all (10, granted for running this scorer).
func (s *Scorer) BestPractices() (BestPracticesScore, error) {
	maxPoints := Weights[types.CategoryBestPractices]

	with, top := s.claudeMDCoverage()
	denominator := top
	if denominator < 1 {
		denominator = 1
	}
	claudeMDScore := float64(with) / float64(denominator) * 30

	memoryScore := 0.0
	memoryPath := filepath.Join(s.homeDir, ".claude", "memory", "MEMORY.md")
	if data, err := os.ReadFile(memoryPath); err == nil {
		if s.detector.Matches(detect.SetOptimization, string(data)) {
			memoryScore = 10
		}
	}

	const toolingScore = 10.0

	total := claudeMDScore + memoryScore + toolingScore
	cs, err := types.NewCategoryScore(total, maxPoints, tierForPercentage(total/maxPoints*100), nil)
	if err != nil {
		return BestPracticesScore{}, err
	}
	return BestPracticesScore{
		CategoryScore:  cs,
		ClaudeMDSetup:  types.Round1(claudeMDScore),
		MemoryOpts:     memoryScore,
		Tooling:        toolingScore,
		ProjectsWithMD: with,
		TopProjects:    top,
	}, nil
}

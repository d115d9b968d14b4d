package scoring

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/dotcommander/tokencraft/internal/detect"
	"github.com/dotcommander/tokencraft/internal/types"
)

// Sub-check point values for optimization adoption, 400 points total.
const (
	pointsDeferDocs      = 60
	pointsClaudeMD       = 60
	pointsConciseMode    = 50
	pointsDirectCommands = 75
	pointsContextMgmt    = 60
	pointsXMLTags        = 25
	pointsChainOfThought = 40
	pointsExamples       = 30
)

// OptimizationScore is the optimization adoption category result.
type OptimizationScore struct {
	types.CategoryScore
	Checks []CheckResult `json:"checks"`
}

// OptimizationAdoption scores how consistently eight prompting practices
// show up in the user's sessions. Each sub-check derives a consistency rate
// and runs it through the sliding tier scale, so partial adoption still
// earns partial points.
func (s *Scorer) OptimizationAdoption() (OptimizationScore, error) {
	checks := []CheckResult{
		s.checkDeferDocumentation(),
		s.checkClaudeMDUsage(),
		s.checkConciseMode(),
		s.checkDirectCommands(),
		s.checkContextManagement(),
		s.checkSessionKeyword("XML tags", detect.SetXMLTags, pointsXMLTags),
		s.checkSessionKeyword("Chain of thought", detect.SetChainOfThought, pointsChainOfThought),
		s.checkSessionKeyword("Examples usage", detect.SetExamples, pointsExamples),
	}

	total := 0.0
	details := make([]types.Metric, 0, len(checks))
	for _, c := range checks {
		total += c.Score
		details = append(details, checkMetric(c))
	}

	maxPoints := Weights[types.CategoryOptimizationAdoption]
	cs, err := types.NewCategoryScore(total, maxPoints, tierForPercentage(total/maxPoints*100), details)
	if err != nil {
		return OptimizationScore{}, err
	}
	return OptimizationScore{CategoryScore: cs, Checks: checks}, nil
}

// checkDeferDocumentation looks for deferral language in sessions that
// mention documentation work. No documentation sessions at all scores
// neutral rather than zero.
func (s *Scorer) checkDeferDocumentation() CheckResult {
	docSessions, deferred := 0, 0
	for _, sess := range s.sessions {
		hasDoc, hasDefer := false, false
		for _, msg := range sess.Messages {
			if s.detector.Matches(detect.SetDocumentation, msg.Content) {
				hasDoc = true
			}
			if s.detector.Matches(detect.SetDeferral, msg.Content) {
				hasDefer = true
			}
		}
		if hasDoc {
			docSessions++
			if hasDefer {
				deferred++
			}
		}
	}

	consistency := 0.5
	if docSessions > 0 {
		consistency = float64(deferred) / float64(docSessions)
	}
	return CheckResult{
		Name:        "Defer documentation",
		Score:       TierScore(consistency, pointsDeferDocs),
		MaxScore:    pointsDeferDocs,
		Consistency: types.Round1(consistency * 100),
	}
}

// checkClaudeMDUsage checks the user's top three projects for a CLAUDE.md.
func (s *Scorer) checkClaudeMDUsage() CheckResult {
	with, top := s.claudeMDCoverage()

	consistency := 0.0
	if top > 0 {
		consistency = float64(with) / float64(top)
	}
	return CheckResult{
		Name:        "CLAUDE.md usage",
		Score:       TierScore(consistency, pointsClaudeMD),
		MaxScore:    pointsClaudeMD,
		Consistency: types.Round1(consistency * 100),
	}
}

// claudeMDCoverage counts CLAUDE.md files across the top three projects by
// session count.
func (s *Scorer) claudeMDCoverage() (with, top int) {
	counts := map[string]int{}
	for _, sess := range s.sessions {
		counts[sess.Project]++
	}
	projects := make([]string, 0, len(counts))
	for p := range counts {
		projects = append(projects, p)
	}
	sort.Slice(projects, func(i, j int) bool {
		if counts[projects[i]] != counts[projects[j]] {
			return counts[projects[i]] > counts[projects[j]]
		}
		return projects[i] < projects[j]
	})
	if len(projects) > 3 {
		projects = projects[:3]
	}

	for _, p := range projects {
		if _, err := os.Stat(filepath.Join(p, "CLAUDE.md")); err == nil {
			with++
		}
	}
	return with, len(projects)
}

// checkConciseMode looks for a concise preference in MEMORY.md or a short
// average message length.
func (s *Scorer) checkConciseMode() CheckResult {
	preference := false

	memoryPath := filepath.Join(s.homeDir, ".claude", "memory", "MEMORY.md")
	if data, err := os.ReadFile(memoryPath); err == nil {
		if s.detector.Matches(detect.SetConcise, string(data)) {
			preference = true
		}
	}

	if !preference && s.totalMessages > 0 {
		totalLen := 0
		for _, sess := range s.sessions {
			for _, msg := range sess.Messages {
				totalLen += len(msg.Content)
			}
		}
		if float64(totalLen)/float64(s.totalMessages) < 200 {
			preference = true
		}
	}

	consistency := 0.3
	if preference {
		consistency = 1.0
	}
	return CheckResult{
		Name:        "Concise responses",
		Score:       TierScore(consistency, pointsConciseMode),
		MaxScore:    pointsConciseMode,
		Consistency: types.Round1(consistency * 100),
	}
}

// checkDirectCommands estimates how often trivial shell work was delegated
// to the assistant instead of run directly. Opportunities are approximated
// at two per session.
func (s *Scorer) checkDirectCommands() CheckResult {
	aiCommands := 0
	for _, sess := range s.sessions {
		for _, msg := range sess.Messages {
			if s.detector.Matches(detect.SetSimpleCommands, msg.Content) {
				aiCommands++
			}
		}
	}

	opportunities := s.totalSessions * 2
	direct := opportunities - aiCommands
	if direct < 0 {
		direct = 0
	}

	consistency := 0.5
	if opportunities > 0 {
		consistency = float64(direct) / float64(opportunities)
	}
	return CheckResult{
		Name:        "Direct commands",
		Score:       TierScore(consistency, pointsDirectCommands),
		MaxScore:    pointsDirectCommands,
		Consistency: types.Round1(consistency * 100),
	}
}

// checkContextManagement scores average messages per session: 5-15 is
// focused, short sessions waste setup cost, long ones bloat context.
func (s *Scorer) checkContextManagement() CheckResult {
	if s.totalSessions == 0 {
		return CheckResult{
			Name:        "Context management",
			Score:       pointsContextMgmt / 2,
			MaxScore:    pointsContextMgmt,
			Consistency: 50,
		}
	}

	avg := float64(s.totalMessages) / float64(s.totalSessions)
	var consistency float64
	switch {
	case avg >= 5 && avg <= 15:
		consistency = 1.0
	case avg < 5:
		consistency = 0.6
	default:
		consistency = 1.0 - (avg-15)/50
		if consistency < 0.3 {
			consistency = 0.3
		}
	}
	return CheckResult{
		Name:        "Context management",
		Score:       TierScore(consistency, pointsContextMgmt),
		MaxScore:    pointsContextMgmt,
		Consistency: types.Round1(consistency * 100),
	}
}

// checkSessionKeyword scores the fraction of sessions containing at least
// one keyword from the named pattern set.
func (s *Scorer) checkSessionKeyword(name, set string, maxPoints float64) CheckResult {
	matched := 0
	for _, sess := range s.sessions {
		for _, msg := range sess.Messages {
			if s.detector.Matches(set, msg.Content) {
				matched++
				break
			}
		}
	}

	consistency := 0.0
	if s.totalSessions > 0 {
		consistency = float64(matched) / float64(s.totalSessions)
	}
	return CheckResult{
		Name:        name,
		Score:       TierScore(consistency, maxPoints),
		MaxScore:    maxPoints,
		Consistency: types.Round1(consistency * 100),
	}
}

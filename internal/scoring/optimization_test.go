package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tokencraft/internal/detect"
	"github.com/dotcommander/tokencraft/internal/types"
)

// optimizedContent exercises every session-level keyword heuristic at once:
// deferred documentation, XML tags, chain of thought, and examples, while
// avoiding the simple-command phrases that count against direct commands.
const optimizedContent = "Write the docs later. <task>refactor the parser</task> step by step, for example like this:"

func optimizedSetup(t *testing.T) (sessions []types.Session, home string) {
	t.Helper()
	home = t.TempDir()

	memoryDir := filepath.Join(home, ".claude", "memory")
	require.NoError(t, os.MkdirAll(memoryDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "MEMORY.md"),
		[]byte("Prefer concise answers."), 0o644))

	projects := []string{t.TempDir(), t.TempDir()}
	for _, p := range projects {
		require.NoError(t, os.WriteFile(filepath.Join(p, "CLAUDE.md"), []byte("# project"), 0o644))
	}

	for i := 0; i < 10; i++ {
		var msgs []types.Message
		for j := 0; j < 6; j++ {
			msgs = append(msgs, msg("user", optimizedContent, 100))
		}
		sessions = append(sessions, sessionOf(string(rune('a'+i)), projects[i%2], msgs...))
	}
	return sessions, home
}

func TestOptimizationAdoptionFullMarks(t *testing.T) {
	sessions, home := optimizedSetup(t)
	s := NewScorer(sessions, statsWith(100000, 0, 0, 0), 1,
		WithHomeDir(home), WithClock(testClock()))

	opt, err := s.OptimizationAdoption()
	require.NoError(t, err)

	assert.Equal(t, 400.0, opt.Score)
	assert.Equal(t, types.TierExcellent, opt.Tier)
	require.Len(t, opt.Checks, 8)
	for _, c := range opt.Checks {
		assert.Equal(t, c.MaxScore, c.Score, c.Name)
	}
}

func TestOptimizationAdoptionNoData(t *testing.T) {
	s := newTestScorer(t, nil, types.UsageStats{}, 1)

	opt, err := s.OptimizationAdoption()
	require.NoError(t, err)

	// Neutral middles for the checks with no observations, zero for the
	// keyword checks that need sessions.
	assert.InDelta(t, 137.75, opt.Score, 0.1)
	assert.Equal(t, types.TierNeedsWork, opt.Tier)
	require.Len(t, opt.Checks, 8)
	assert.Len(t, opt.Details, 8)
}

func TestCheckSessionKeywordPartialAdoption(t *testing.T) {
	sessions := []types.Session{
		sessionOf("s1", "p", msg("user", "wrap it in <context> tags", 10)),
		sessionOf("s2", "p", msg("user", "no structure here", 10)),
	}
	s := newTestScorer(t, sessions, types.UsageStats{}, 1)

	check := s.checkSessionKeyword("XML tags", detect.SetXMLTags, 25)
	assert.Equal(t, 50.0, check.Consistency)
	assert.InDelta(t, TierScore(0.5, 25), check.Score, 0.001)
}

func TestCheckDirectCommandsPenalizesDelegation(t *testing.T) {
	sessions := []types.Session{
		sessionOf("s1", "p",
			msg("user", "run git status and tell me what changed", 10),
			msg("user", "show me the diff", 10)),
	}
	s := newTestScorer(t, sessions, types.UsageStats{}, 1)

	check := s.checkDirectCommands()
	// Two opportunities, two delegated: nothing left direct.
	assert.Equal(t, 0.0, check.Consistency)
	assert.Equal(t, 0.0, check.Score)
}

func TestCheckContextManagementBands(t *testing.T) {
	tests := []struct {
		msgCount    int
		consistency float64
	}{
		{10, 100},
		{3, 60},
		{25, 80}, // 1.0 - (25-15)/50
		{90, 30}, // clamped at the floor
	}
	for _, tt := range tests {
		s := newTestScorer(t, uniformSessions(1, tt.msgCount), types.UsageStats{}, 1)
		check := s.checkContextManagement()
		assert.InDelta(t, tt.consistency, check.Consistency, 0.1, "%d messages", tt.msgCount)
	}
}

func TestCheckDeferDocumentationNeutralWithoutDocs(t *testing.T) {
	sessions := []types.Session{
		sessionOf("s1", "p", msg("user", "fix the off-by-one in the scanner", 10)),
	}
	s := newTestScorer(t, sessions, types.UsageStats{}, 1)

	check := s.checkDeferDocumentation()
	assert.Equal(t, 50.0, check.Consistency)
}

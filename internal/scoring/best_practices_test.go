package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tokencraft/internal/types"
)

func TestBestPracticesBaseline(t *testing.T) {
	// No projects and no MEMORY.md: only the tooling credit applies.
	s := newTestScorer(t, nil, types.UsageStats{}, 1)

	bp, err := s.BestPractices()
	require.NoError(t, err)
	assert.Equal(t, 10.0, bp.Score)
	assert.Equal(t, 0.0, bp.ClaudeMDSetup)
	assert.Equal(t, 0.0, bp.MemoryOpts)
	assert.Equal(t, 10.0, bp.Tooling)
	assert.Equal(t, types.TierNeedsWork, bp.Tier)
}

func TestBestPracticesFullSetup(t *testing.T) {
	home := t.TempDir()
	memoryDir := filepath.Join(home, ".claude", "memory")
	require.NoError(t, os.MkdirAll(memoryDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(memoryDir, "MEMORY.md"),
		[]byte("Notes on token optimization and deferral."), 0o644))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "CLAUDE.md"), []byte("# p"), 0o644))

	sessions := []types.Session{
		sessionOf("s1", project, msg("user", "work", 10)),
	}
	s := NewScorer(sessions, types.UsageStats{}, 1,
		WithHomeDir(home), WithClock(testClock()))

	bp, err := s.BestPractices()
	require.NoError(t, err)
	assert.Equal(t, 30.0, bp.ClaudeMDSetup)
	assert.Equal(t, 10.0, bp.MemoryOpts)
	assert.Equal(t, 50.0, bp.Score)
	assert.Equal(t, 1, bp.ProjectsWithMD)
	assert.Equal(t, 1, bp.TopProjects)
	assert.Equal(t, types.TierExcellent, bp.Tier)
}

func TestBestPracticesPartialCoverage(t *testing.T) {
	withMD := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(withMD, "CLAUDE.md"), []byte("# p"), 0o644))
	withoutMD := t.TempDir()

	sessions := []types.Session{
		sessionOf("s1", withMD, msg("user", "work", 10)),
		sessionOf("s2", withoutMD, msg("user", "work", 10)),
	}
	s := newTestScorer(t, sessions, types.UsageStats{}, 1)

	bp, err := s.BestPractices()
	require.NoError(t, err)
	assert.Equal(t, 15.0, bp.ClaudeMDSetup)
	assert.Equal(t, 25.0, bp.Score)
}

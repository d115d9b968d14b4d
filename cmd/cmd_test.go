package cmd

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tokencraft/internal/config"
	"github.com/dotcommander/tokencraft/internal/output"
	"github.com/dotcommander/tokencraft/internal/profile"
)

// resetGlobals restores flag variables and viper state after a test.
func resetGlobals(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		rootPath = ""
		profilePath = ""
		quiet = false
		verbose = false
		outputFormat = ""
		migrateDryRun = false
		viper.Reset()
	})
	viper.Reset()
}

// captureStdout redirects os.Stdout for the duration of fn.
func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()
	r, w, err := os.Pipe()
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	runErr := fn()
	require.NoError(t, w.Close())
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data), runErr
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	resetGlobals(t)
	rootPath = t.TempDir()
	profilePath = filepath.Join(t.TempDir(), "profile.json")
	quiet = true
	outputFormat = "json"

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, rootPath, cfg.Root)
	assert.Equal(t, profilePath, cfg.ProfilePath)
	assert.True(t, cfg.Quiet)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfigRejectsBadFormat(t *testing.T) {
	resetGlobals(t)
	outputFormat = "xml"

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestFormatterFor(t *testing.T) {
	cfg := &config.Config{}

	cfg.Format = "json"
	assert.IsType(t, &output.JSONFormatter{}, formatterFor(cfg))

	cfg.Format = "yaml"
	assert.IsType(t, &output.YAMLFormatter{}, formatterFor(cfg))

	cfg.Format = "console"
	assert.IsType(t, &output.ConsoleFormatter{}, formatterFor(cfg))
}

func TestRunScoreEmptyData(t *testing.T) {
	resetGlobals(t)
	rootPath = t.TempDir()
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")
	outputFormat = "json"

	out, err := captureStdout(t, runScore)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	result, ok := doc["result"].(map[string]any)
	require.True(t, ok)
	assert.Greater(t, result["total_score"].(float64), 0.0)

	// The run persisted a profile.
	_, statErr := os.Stat(profilePath)
	assert.NoError(t, statErr)
}

func TestRunProfileFreshlyCreated(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")

	out, err := captureStdout(t, runProfile)
	require.NoError(t, err)
	assert.Contains(t, out, "No profile yet")
}

func TestRunProfileShowsStoredState(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()
	profilePath = filepath.Join(dir, "user_profile.json")
	nowFunc = func() time.Time { return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = time.Now })

	now := nowFunc()
	p := profile.New("dev@example.com", now)
	p.CurrentScore = 420
	p.CurrentRank = "Explorer"
	p.Scores["token_efficiency"] = 180
	p.StreakInfo.Current.Length = 2
	p.StreakInfo.Best.Length = 5
	p.SeasonalInfo.CurrentSeasonScore = 420
	p.SeasonalInfo.LifetimeScore = 900
	p.SeasonalInfo.LastReset = &now
	p.Achievements = []string{"rank_cadet", "streak_3"}
	p.TotalSessions = 12
	p.TotalMessages = 140
	p.AvgTokensPerSession = 18000

	repo := profile.NewFileRepository(profilePath, "")
	require.NoError(t, repo.Save(p))

	out, err := captureStdout(t, runProfile)
	require.NoError(t, err)

	assert.Contains(t, out, "Token-Craft Profile")
	assert.Contains(t, out, "dev@example.com")
	assert.Contains(t, out, "Explorer (rank 4) - 420.0 points")
	assert.Contains(t, out, "points to Captain")
	assert.Contains(t, out, "token efficiency")
	assert.Contains(t, out, "Streak: 2 current, 5 best")
	assert.Contains(t, out, "30 days until reset")
	assert.Contains(t, out, "Achievements: 2 unlocked")
	assert.Contains(t, out, "Sessions: 12 (140 messages, avg 18000 tokens/session)")
}

func TestRunProfileJSON(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")
	outputFormat = "json"

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	p := profile.New("", now)
	p.CurrentScore = 750
	repo := profile.NewFileRepository(profilePath, "")
	require.NoError(t, repo.Save(p))

	out, err := captureStdout(t, runProfile)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 750.0, doc["current_score"])
	assert.Equal(t, "3.0", doc["version"])
}

func TestRunRanks(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()
	profilePath = filepath.Join(dir, "user_profile.json")

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	p := profile.New("", now)
	p.CurrentScore = 1200
	repo := profile.NewFileRepository(profilePath, "")
	require.NoError(t, repo.Save(p))

	out, err := captureStdout(t, runRanks)
	require.NoError(t, err)

	assert.Contains(t, out, "Rank ladder")
	assert.Contains(t, out, "Cadet")
	assert.Contains(t, out, "Galactic Legend")
	assert.Contains(t, out, "Admiral")
	assert.Contains(t, out, "<- you")
	assert.Contains(t, out, "Difficulty curve")
	assert.Contains(t, out, "tokens/session")
}

func TestRunAchievements(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")

	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	p := profile.New("", now)
	p.Achievements = []string{"rank_cadet"}
	repo := profile.NewFileRepository(profilePath, "")
	require.NoError(t, repo.Save(p))

	out, err := captureStdout(t, runAchievements)
	require.NoError(t, err)

	assert.Contains(t, out, "Achievements")
	assert.Contains(t, out, "1 /")
	assert.Contains(t, out, "★")
	assert.Contains(t, out, "☆")
}

func legacyProfileJSON() []byte {
	return []byte(`{
	  "user_email": "dev@example.com",
	  "current_score": 842.5,
	  "current_rank": "Pilot",
	  "total_sessions": 42,
	  "total_tokens": 1250000,
	  "scores": {
	    "token_efficiency": 180.0,
	    "self_sufficiency": 55.0
	  }
	}`)
}

func TestRunMigrateDryRun(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")
	require.NoError(t, os.WriteFile(profilePath, legacyProfileJSON(), 0o644))
	migrateDryRun = true

	out, err := captureStdout(t, runMigrate)
	require.NoError(t, err)

	assert.Contains(t, out, "Migration 2.0 -> 3.0")
	assert.Contains(t, out, "removed category self_sufficiency (was 55.0, preserved in legacy)")
	assert.Contains(t, out, "Dry run: no changes written.")

	// Dry run leaves the file untouched.
	data, err := os.ReadFile(profilePath)
	require.NoError(t, err)
	assert.Equal(t, legacyProfileJSON(), data)
}

func TestRunMigrateWritesProfile(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")
	require.NoError(t, os.WriteFile(profilePath, legacyProfileJSON(), 0o644))

	out, err := captureStdout(t, runMigrate)
	require.NoError(t, err)
	assert.Contains(t, out, "Profile migrated.")

	data, err := os.ReadFile(profilePath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "3.0", doc["version"])
	legacy, ok := doc["legacy"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 842.5, legacy["v2_final_score"])
}

func TestRunMigrateAlreadyCurrent(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "user_profile.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(`{"version": "3.0"}`), 0o644))

	out, err := captureStdout(t, runMigrate)
	require.NoError(t, err)
	assert.Contains(t, out, "already at schema 3.0, nothing to do")
}

func TestRunMigrateMissingFile(t *testing.T) {
	resetGlobals(t)
	profilePath = filepath.Join(t.TempDir(), "nope.json")

	err := runMigrate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile")
}

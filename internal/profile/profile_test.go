package profile

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/tokencraft/internal/types"
)

var now = time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

func TestNewDefaults(t *testing.T) {
	p := New("dev@example.com", now)

	assert.Equal(t, "3.0", p.Version)
	assert.Equal(t, "Cadet", p.CurrentRank)
	assert.Zero(t, p.CurrentScore)
	assert.Equal(t, now, p.SeasonalInfo.CurrentSeasonStart)
	assert.Empty(t, p.Achievements)

	require.Len(t, p.Scores, len(types.Categories))
	for _, cat := range types.Categories {
		assert.Contains(t, p.Scores, cat)
	}
}

func TestUnknownFieldsRoundTrip(t *testing.T) {
	in := []byte(`{
		"version": "3.0",
		"user_email": "dev@example.com",
		"current_rank": "Navigator",
		"current_score": 150,
		"plugin_state": {"theme": "dark"},
		"future_field": [1, 2, 3]
	}`)

	var p Profile
	require.NoError(t, json.Unmarshal(in, &p))
	assert.Equal(t, "Navigator", p.CurrentRank)
	require.Contains(t, p.Unknown, "plugin_state")
	require.Contains(t, p.Unknown, "future_field")
	assert.NotContains(t, p.Unknown, "current_rank")

	out, err := json.Marshal(&p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	plugin, ok := doc["plugin_state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dark", plugin["theme"])
	assert.Equal(t, []any{1.0, 2.0, 3.0}, doc["future_field"])
}

func TestMarshalKnownFieldsWinOnCollision(t *testing.T) {
	p := New("dev@example.com", now)
	p.CurrentScore = 500
	p.Unknown = map[string]json.RawMessage{
		"current_score": json.RawMessage(`9999`),
	}

	out, err := json.Marshal(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, 500.0, doc["current_score"])
}

func TestRecordRankChange(t *testing.T) {
	p := New("dev@example.com", now)

	later := now.Add(time.Hour)
	p.RecordRankChange("Cadet", "Navigator", 150, later)

	assert.Equal(t, "Navigator", p.CurrentRank)
	assert.Equal(t, 150.0, p.CurrentScore)
	assert.Equal(t, later, p.LastUpdated)
	require.NotNil(t, p.RankAchievedAt)
	assert.Equal(t, later, *p.RankAchievedAt)

	events := p.RankHistory()
	require.Len(t, events, 1)
	assert.Equal(t, "Cadet", events[0].OldRank)
	assert.Equal(t, "Navigator", events[0].NewRank)
}

func TestRecordRankChangeSameRank(t *testing.T) {
	p := New("dev@example.com", now)

	p.RecordRankChange("Cadet", "Cadet", 50, now.Add(time.Hour))

	assert.Equal(t, 50.0, p.CurrentScore)
	assert.Nil(t, p.RankAchievedAt)
	assert.Empty(t, p.RankHistory())
}

func TestAppendSessionScoreWindow(t *testing.T) {
	p := New("dev@example.com", now)
	for i := 1; i <= 12; i++ {
		p.AppendSessionScore(float64(i*100), 10)
	}

	require.Len(t, p.RecentSessionScores, 10)
	assert.Equal(t, 300.0, p.RecentSessionScores[0])
	assert.Equal(t, 1200.0, p.RecentSessionScores[9])
}

func TestFileRepositoryMissingFile(t *testing.T) {
	repo := NewFileRepository(t.TempDir()+"/user_profile.json", "dev@example.com")

	p, created, err := repo.Load()
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "dev@example.com", p.UserEmail)
	assert.Nil(t, repo.LastMigration)
}

func TestFileRepositorySaveLoadRoundTrip(t *testing.T) {
	repo := NewFileRepository(t.TempDir()+"/nested/dir/user_profile.json", "dev@example.com")

	p := New("dev@example.com", now)
	p.CurrentScore = 321.5
	p.StreakInfo.Current.Length = 4
	p.Achievements = []string{"rank_cadet", "streak_3"}
	require.NoError(t, repo.Save(p))

	loaded, created, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 321.5, loaded.CurrentScore)
	assert.Equal(t, 4, loaded.StreakInfo.Current.Length)
	assert.Equal(t, []string{"rank_cadet", "streak_3"}, loaded.Achievements)
	assert.Nil(t, repo.LastMigration)
}

func TestFileRepositoryMigratesLegacyOnLoad(t *testing.T) {
	path := t.TempDir() + "/user_profile.json"
	legacy := map[string]any{
		"user_email":     "dev@example.com",
		"current_score":  842.5,
		"current_rank":   "Pilot",
		"total_sessions": 42,
		"scores": map[string]any{
			"token_efficiency": 180.0,
			"self_sufficiency": 55.0,
		},
	}
	data, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	repo := NewFileRepository(path, "dev@example.com")
	p, created, err := repo.Load()
	require.NoError(t, err)
	assert.False(t, created)

	assert.Equal(t, "3.0", p.Version)
	assert.Equal(t, 842.5, p.CurrentScore)
	assert.Equal(t, "Pilot", p.CurrentRank)
	assert.NotContains(t, p.Scores, "self_sufficiency")
	assert.Equal(t, 180.0, p.Scores["token_efficiency"])
	require.NotNil(t, p.Legacy)
	assert.Equal(t, 842.5, p.Legacy["v2_final_score"])

	require.NotNil(t, repo.LastMigration)
	assert.True(t, repo.LastMigration.Valid)
}

func TestFileRepositoryCorruptFile(t *testing.T) {
	path := t.TempDir() + "/user_profile.json"
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo := NewFileRepository(path, "dev@example.com")
	_, _, err := repo.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse profile")
}

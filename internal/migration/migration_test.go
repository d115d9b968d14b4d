package migration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var migratedAt = time.Date(2026, 8, 10, 8, 30, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine().WithClock(func() time.Time { return migratedAt })
}

func legacyDoc() Document {
	return Document{
		"user_email":     "dev@example.com",
		"current_score":  842.5,
		"current_rank":   "Pilot",
		"total_sessions": 42,
		"total_tokens":   1250000,
		"scores": map[string]any{
			"token_efficiency": 180.0,
			"self_sufficiency": 55.0,
		},
		"plugin_state": map[string]any{"theme": "dark"},
	}
}

func TestDocVersion(t *testing.T) {
	assert.Equal(t, VersionLegacy, DocVersion(Document{}))
	assert.Equal(t, VersionLegacy, DocVersion(Document{"version": ""}))
	assert.Equal(t, "3.0", DocVersion(Document{"version": "3.0"}))
}

func TestNeedsMigration(t *testing.T) {
	assert.True(t, NeedsMigration(legacyDoc()))
	assert.False(t, NeedsMigration(Document{"version": VersionCurrent}))
}

func TestMigrateV2ToV3(t *testing.T) {
	old := legacyDoc()
	migrated, err := testEngine().Migrate(old)
	require.NoError(t, err)

	assert.Equal(t, VersionCurrent, DocVersion(migrated))

	legacy, ok := migrated["legacy"].(Document)
	require.True(t, ok)
	assert.Equal(t, 842.5, legacy["v2_final_score"])
	assert.Equal(t, "Pilot", legacy["v2_current_rank"])
	assert.Equal(t, 42, legacy["v2_total_sessions"])
	assert.Equal(t, 1250000, legacy["v2_total_tokens"])
	assert.Equal(t, migratedAt.Format(time.RFC3339), legacy["migration_timestamp"])

	meta, ok := migrated["migration"].(Document)
	require.True(t, ok)
	assert.Equal(t, VersionLegacy, meta["source_version"])
	assert.Equal(t, VersionCurrent, meta["target_version"])

	// Removed category dropped from the live score map but kept in the
	// legacy snapshot.
	scores, ok := migrated["scores"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, scores, "self_sufficiency")
	assert.Equal(t, 180.0, scores["token_efficiency"])
	legacyScores, ok := legacy["v2_scores"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, legacyScores, "self_sufficiency")

	// New sub-documents start zeroed.
	streak, ok := migrated["streak_info"].(Document)
	require.True(t, ok)
	current, ok := streak["current"].(Document)
	require.True(t, ok)
	assert.Equal(t, 0, current["length"])

	seasonal, ok := migrated["seasonal_info"].(Document)
	require.True(t, ok)
	assert.Equal(t, 0.0, seasonal["current_season_score"])
	assert.Nil(t, seasonal["last_reset"])

	assert.Equal(t, []any{}, migrated["achievements"])
}

func TestMigratePreservesUnknownFields(t *testing.T) {
	migrated, err := testEngine().Migrate(legacyDoc())
	require.NoError(t, err)

	plugin, ok := migrated["plugin_state"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "dark", plugin["theme"])
}

func TestMigrateDoesNotMutateInput(t *testing.T) {
	old := legacyDoc()
	_, err := testEngine().Migrate(old)
	require.NoError(t, err)

	assert.NotContains(t, old, "version")
	assert.NotContains(t, old, "legacy")
	scores := old["scores"].(map[string]any)
	assert.Contains(t, scores, "self_sufficiency")
}

func TestMigrateCurrentIsNoop(t *testing.T) {
	doc := Document{"version": VersionCurrent, "current_score": 100.0}
	out, err := testEngine().Migrate(doc)
	require.NoError(t, err)
	assert.Equal(t, doc, out)

	same, result, err := testEngine().MigrateIfNeeded(doc)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, doc, same)
}

func TestMigrateUnknownVersion(t *testing.T) {
	_, err := testEngine().Migrate(Document{"version": "1.0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no migration path")
}

func TestMigrateIfNeededValidates(t *testing.T) {
	migrated, result, err := testEngine().MigrateIfNeeded(legacyDoc())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, VersionCurrent, result.SchemaVersion)
	assert.Equal(t, VersionCurrent, DocVersion(migrated))
}

func TestValidateFlagsRemovedCategory(t *testing.T) {
	doc := Document{
		"version": VersionCurrent,
		"scores":  map[string]any{"self_sufficiency": 10.0},
	}
	result := testEngine().Validate(doc)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "self_sufficiency")
	// Missing sub-documents warn but never invalidate.
	assert.NotEmpty(t, result.Warnings)
}

func TestValidateFlagsStaleVersion(t *testing.T) {
	result := testEngine().Validate(Document{"version": "2.0"})
	assert.False(t, result.Valid)
}

func TestBuildReport(t *testing.T) {
	engine := testEngine()
	old := legacyDoc()
	migrated, err := engine.Migrate(old)
	require.NoError(t, err)

	report := engine.BuildReport(old, migrated)
	assert.Equal(t, migratedAt, report.MigrationDate)
	assert.Equal(t, VersionLegacy, report.SourceVersion)
	assert.Equal(t, VersionCurrent, report.TargetVersion)
	assert.Equal(t, 842.5, report.OldScore)
	assert.Equal(t, 842.5, report.NewScore)
	assert.Equal(t, map[string]float64{"self_sufficiency": 55.0}, report.RemovedCategories)
	assert.NotEmpty(t, report.SchemaChanges)
}

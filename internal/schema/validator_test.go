package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() map[string]any {
	return map[string]any{
		"version":       "3.0",
		"current_rank":  "Cadet",
		"current_score": 0.0,
		"scores":        map[string]any{"token_efficiency": 125.0},
		"streak_info": map[string]any{
			"current": map[string]any{"length": 0},
			"best":    map[string]any{"length": 3},
		},
		"seasonal_info": map[string]any{
			"current_season_score": 0.0,
			"lifetime_score":       0.0,
		},
		"achievements": []any{"rank_cadet"},
	}
}

func TestValidateProfileConforming(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	assert.Empty(t, v.ValidateProfile(validDoc()))
}

func TestValidateProfileWrongVersion(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	doc := validDoc()
	doc["version"] = "2.0"
	issues := v.ValidateProfile(doc)
	assert.NotEmpty(t, issues)
}

func TestValidateProfileBadStreakLength(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	doc := validDoc()
	doc["streak_info"] = map[string]any{
		"current": map[string]any{"length": 9},
		"best":    map[string]any{"length": 0},
	}
	assert.NotEmpty(t, v.ValidateProfile(doc))
}

func TestValidateProfileAcceptsJSONDecodedCounts(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	// Documents loaded through encoding/json carry float64 counts.
	doc := validDoc()
	doc["total_sessions"] = float64(42)
	doc["total_tokens"] = float64(1250000)
	assert.Empty(t, v.ValidateProfile(doc))
}

func TestValidateProfileAllowsUnknownFields(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	doc := validDoc()
	doc["custom_plugin_state"] = map[string]any{"anything": true}
	assert.Empty(t, v.ValidateProfile(doc))
}

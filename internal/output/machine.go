package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dotcommander/tokencraft/internal/pipeline"
)

// JSONFormatter writes the scoring result as indented JSON.
type JSONFormatter struct {
	out io.Writer
}

// NewJSONFormatter creates a new JSONFormatter
func NewJSONFormatter(out io.Writer) *JSONFormatter {
	return &JSONFormatter{out: out}
}

// Format writes the outcome's result as JSON.
func (f *JSONFormatter) Format(o *pipeline.Outcome) error {
	enc := json.NewEncoder(f.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f.document(o)); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// YAMLFormatter writes the scoring result as YAML.
type YAMLFormatter struct {
	out io.Writer
}

// NewYAMLFormatter creates a new YAMLFormatter
func NewYAMLFormatter(out io.Writer) *YAMLFormatter {
	return &YAMLFormatter{out: out}
}

// Format writes the outcome's result as YAML.
func (f *YAMLFormatter) Format(o *pipeline.Outcome) error {
	jf := JSONFormatter{}
	// Round-trip through JSON so yaml output matches the json field names.
	data, err := json.Marshal(jf.document(o))
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode output: %w", err)
	}
	if err := yaml.NewEncoder(f.out).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML output: %w", err)
	}
	return nil
}

// document assembles the machine-readable run summary.
func (f *JSONFormatter) document(o *pipeline.Outcome) map[string]any {
	return map[string]any{
		"result":           o.Result,
		"rank":             o.Rank,
		"next_rank":        o.NextRank,
		"improved":         o.Improved,
		"streak":           o.StreakAfter,
		"seasonal_reset":   o.SeasonalReset,
		"migration":        o.Migration,
		"new_achievements": o.NewAchievements,
	}
}

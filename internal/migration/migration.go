// Package migration upgrades persisted profile documents between schema
// versions. Migrations are a chain of pure, version-tagged steps over the
// raw document, so future schema changes compose instead of growing one
// monolithic transform.
package migration

import (
	"fmt"
	"time"

	"github.com/dotcommander/tokencraft/internal/schema"
)

// Schema versions.
const (
	VersionLegacy  = "2.0"
	VersionCurrent = "3.0"
)

// RemovedCategories lists score-map categories no longer scored. The
// self-sufficiency category was absorbed into optimization adoption's
// direct-commands sub-check; its historical value is retained in the legacy
// snapshot rather than silently dropped.
var RemovedCategories = []string{"self_sufficiency"}

// Document is a raw profile as persisted. Migrations operate on documents so
// that fields they do not recognize pass through unchanged.
type Document = map[string]any

// Step upgrades a document from one schema version to the next.
type Step struct {
	From  string
	To    string
	Apply func(doc Document, now time.Time) Document
}

// Result reports validation of a migrated document. Errors indicate a bug to
// surface; warnings should be logged but not abort the run.
type Result struct {
	Valid         bool     `json:"valid"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	SchemaVersion string   `json:"schema_version"`
}

// Engine runs the migration chain.
type Engine struct {
	steps     []Step
	validator *schema.Validator
	now       func() time.Time
}

// NewEngine builds an engine with the full step chain. The schema validator
// is optional; without it validation falls back to structural checks only.
func NewEngine() *Engine {
	v, _ := schema.NewValidator() // schema issues degrade to fewer warnings
	return &Engine{
		steps: []Step{
			{From: VersionLegacy, To: VersionCurrent, Apply: migrateV2ToV3},
		},
		validator: v,
		now:       time.Now,
	}
}

// WithClock overrides the engine's clock, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// DocVersion reads a document's schema version tag. Untagged documents are
// treated as legacy.
func DocVersion(doc Document) string {
	if v, ok := doc["version"].(string); ok && v != "" {
		return v
	}
	return VersionLegacy
}

// NeedsMigration reports whether a document's version tag is stale.
func NeedsMigration(doc Document) bool {
	return DocVersion(doc) != VersionCurrent
}

// Migrate walks the step chain from the document's version to current.
// Already-current documents pass through untouched. Pure: the input document
// is never mutated.
func (e *Engine) Migrate(doc Document) (Document, error) {
	version := DocVersion(doc)
	if version == VersionCurrent {
		return doc, nil
	}

	current := doc
	for version != VersionCurrent {
		step, ok := e.stepFrom(version)
		if !ok {
			return nil, fmt.Errorf("no migration path from schema version %q", version)
		}
		current = step.Apply(current, e.now())
		version = DocVersion(current)
		if version != step.To {
			return nil, fmt.Errorf("migration step %s->%s left version %q", step.From, step.To, version)
		}
	}
	return current, nil
}

// MigrateIfNeeded migrates stale documents and validates the outcome.
func (e *Engine) MigrateIfNeeded(doc Document) (Document, *Result, error) {
	if !NeedsMigration(doc) {
		return doc, nil, nil
	}
	migrated, err := e.Migrate(doc)
	if err != nil {
		return nil, nil, err
	}
	result := e.Validate(migrated)
	return migrated, &result, nil
}

func (e *Engine) stepFrom(version string) (Step, bool) {
	for _, s := range e.steps {
		if s.From == version {
			return s, true
		}
	}
	return Step{}, false
}

// migrateV2ToV3 snapshots the v2 state into a legacy field, stamps the new
// version and migration metadata, initializes the streak and seasonal
// sub-documents, and removes deprecated categories from the score map.
// Fields it does not recognize are copied through unchanged.
func migrateV2ToV3(old Document, now time.Time) Document {
	doc := make(Document, len(old)+4)
	for k, v := range old {
		doc[k] = v
	}

	legacy := Document{
		"v2_final_score":      old["current_score"],
		"v2_current_rank":     old["current_rank"],
		"v2_scores":           old["scores"],
		"v2_total_sessions":   old["total_sessions"],
		"v2_total_tokens":     old["total_tokens"],
		"migration_timestamp": now.Format(time.RFC3339),
	}

	doc["version"] = VersionCurrent
	doc["migration"] = Document{
		"source_version": VersionLegacy,
		"target_version": VersionCurrent,
		"migrated_at":    now.Format(time.RFC3339),
	}
	doc["legacy"] = legacy

	doc["streak_info"] = Document{
		"current": newStreakDoc(),
		"best":    newStreakDoc(),
	}
	doc["seasonal_info"] = Document{
		"current_season_score": 0.0,
		"lifetime_score":       0.0,
		"current_season_start": now.Format(time.RFC3339),
		"last_reset":           nil,
	}

	if _, ok := doc["achievements"]; !ok {
		doc["achievements"] = []any{}
	}

	if scores, ok := old["scores"].(map[string]any); ok {
		kept := make(map[string]any, len(scores))
		for k, v := range scores {
			kept[k] = v
		}
		for _, cat := range RemovedCategories {
			delete(kept, cat)
		}
		doc["scores"] = kept
	}

	return doc
}

func newStreakDoc() Document {
	return Document{
		"length":             0,
		"start_date":         nil,
		"last_session_date":  nil,
		"last_session_score": 0.0,
	}
}

// Validate checks a migrated document: version tag, presence of the new
// required sub-documents, absence of removed categories, and conformance to
// the embedded profile schema (as warnings).
func (e *Engine) Validate(doc Document) Result {
	result := Result{SchemaVersion: DocVersion(doc)}

	if DocVersion(doc) != VersionCurrent {
		result.Errors = append(result.Errors, fmt.Sprintf("invalid schema version: %v", doc["version"]))
	}
	for _, field := range []string{"streak_info", "seasonal_info", "legacy"} {
		if _, ok := doc[field]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("missing %s field", field))
		}
	}
	if scores, ok := doc["scores"].(map[string]any); ok {
		for _, cat := range RemovedCategories {
			if _, present := scores[cat]; present {
				result.Errors = append(result.Errors, fmt.Sprintf("removed category %q still in scores", cat))
			}
		}
	}

	if e.validator != nil {
		for _, issue := range e.validator.ValidateProfile(doc) {
			result.Warnings = append(result.Warnings, issue.Message)
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// Report summarizes what a migration changed, for the migrate command.
type Report struct {
	MigrationDate     time.Time          `json:"migration_date"`
	SourceVersion     string             `json:"source_version"`
	TargetVersion     string             `json:"target_version"`
	OldScore          float64            `json:"old_score"`
	NewScore          float64            `json:"new_score"`
	RemovedCategories map[string]float64 `json:"removed_categories"`
	SchemaChanges     []string           `json:"schema_changes"`
}

// BuildReport compares the pre- and post-migration documents.
func (e *Engine) BuildReport(old, migrated Document) Report {
	removed := map[string]float64{}
	if scores, ok := old["scores"].(map[string]any); ok {
		for _, cat := range RemovedCategories {
			if v, present := scores[cat]; present {
				removed[cat] = toFloat(v)
			}
		}
	}
	return Report{
		MigrationDate:     e.now(),
		SourceVersion:     DocVersion(old),
		TargetVersion:     DocVersion(migrated),
		OldScore:          toFloat(old["current_score"]),
		NewScore:          toFloat(migrated["current_score"]),
		RemovedCategories: removed,
		SchemaChanges: []string{
			"streak_info: streak state, current and best",
			"seasonal_info: season scores and lifetime totals",
			"legacy: snapshot of pre-migration data",
			"migration: migration metadata",
		},
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// Package schema validates profile documents against an embedded CUE schema.
// Validation feeds migration warnings; it never blocks a load.
package schema

import (
	"embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed schemas/*.cue
var schemaFS embed.FS

// Issue is one schema validation finding.
type Issue struct {
	Path    string
	Message string
}

// Validator checks profile documents against the current profile schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
	loaded bool
}

// NewValidator compiles the embedded profile schema.
func NewValidator() (*Validator, error) {
	content, err := schemaFS.ReadFile("schemas/profile.cue")
	if err != nil {
		return nil, fmt.Errorf("reading embedded profile schema: %w", err)
	}

	ctx := cuecontext.New()
	schema := ctx.CompileBytes(content, cue.Filename("profile.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling profile schema: %w", err)
	}

	return &Validator{ctx: ctx, schema: schema.LookupPath(cue.ParsePath("#Profile")), loaded: true}, nil
}

// ValidateProfile unifies a profile document with the schema and returns
// every finding. An empty slice means the document conforms.
func (v *Validator) ValidateProfile(doc map[string]any) []Issue {
	if !v.loaded {
		return nil
	}

	value := v.ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return []Issue{{Message: fmt.Sprintf("document not encodable: %v", err)}}
	}

	unified := v.schema.Unify(value)
	err := unified.Validate(cue.Concrete(false))
	if err == nil {
		return nil
	}

	var issues []Issue
	for _, e := range errors.Errors(err) {
		issues = append(issues, Issue{
			Path:    strings.Join(e.Path(), "."),
			Message: e.Error(),
		})
	}
	return issues
}

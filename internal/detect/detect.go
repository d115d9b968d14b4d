// Package detect provides keyword-based text pattern detection. One
// parameterized detector strategy serves every heuristic check; the keyword
// sets are data, so legacy and current heuristics share a single
// implementation.
package detect

import "strings"

// PatternSet is a named bag of keywords matched case-insensitively as
// substrings.
type PatternSet struct {
	Name     string
	Keywords []string
}

// Matches reports whether content contains any keyword from the set.
func (p PatternSet) Matches(content string) bool {
	lower := strings.ToLower(content)
	for _, kw := range p.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Count returns the number of keywords from the set found in content.
func (p PatternSet) Count(content string) int {
	lower := strings.ToLower(content)
	n := 0
	for _, kw := range p.Keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

// Detector evaluates a named collection of pattern sets.
type Detector struct {
	sets map[string]PatternSet
}

// NewDetector builds a detector over the given sets.
func NewDetector(sets ...PatternSet) *Detector {
	d := &Detector{sets: make(map[string]PatternSet, len(sets))}
	for _, s := range sets {
		d.sets[s.Name] = s
	}
	return d
}

// Matches reports whether content matches the named set. Unknown set names
// never match.
func (d *Detector) Matches(setName, content string) bool {
	s, ok := d.sets[setName]
	return ok && s.Matches(content)
}

// Set returns the named pattern set.
func (d *Detector) Set(name string) (PatternSet, bool) {
	s, ok := d.sets[name]
	return s, ok
}

// Named pattern sets used by the scoring heuristics.
const (
	SetDocumentation  = "documentation"
	SetDeferral       = "deferral"
	SetSimpleCommands = "simple_commands"
	SetXMLTags        = "xml_tags"
	SetChainOfThought = "chain_of_thought"
	SetExamples       = "examples"
	SetConcise        = "concise"
	SetOptimization   = "optimization"
	SetBloat          = "bloat"
)

// DefaultSets returns the canonical keyword sets for the scoring heuristics.
func DefaultSets() []PatternSet {
	return []PatternSet{
		{SetDocumentation, []string{"readme", "documentation", "comment", "docstring", "docs"}},
		{SetDeferral, []string{"defer", "later", "skip", "wait", "after"}},
		{SetSimpleCommands, []string{"git log", "git status", "cat ", "ls ", "grep ", "show me"}},
		{SetXMLTags, []string{"<document>", "<task>", "<context>", "<example>", "<input>", "<output>", "</"}},
		{SetChainOfThought, []string{"let's think", "step by step", "reasoning:", "because", "first", "then", "therefore", "analyze"}},
		{SetExamples, []string{"for example", "e.g.", "such as", "like this:", "here's an example", "example:"}},
		{SetConcise, []string{"concise", "brief", "short"}},
		{SetOptimization, []string{"optimization", "defer", "efficiency", "token", "concise"}},
		{SetBloat, []string{
			"please", "could you", "would you", "i would like",
			"if possible", "if you don't mind", "when you get a chance",
			"thank you", "thanks", "appreciate it", "much appreciated",
		}},
	}
}

// Default returns a detector loaded with the canonical sets.
func Default() *Detector {
	return NewDetector(DefaultSets()...)
}

// Package prefilter decides from raw bytes whether a file can contain
// anything an inspection looks at, so the driver can skip parsing it.
package prefilter

import (
	"bytes"
	"fmt"

	"github.com/coregx/ahocorasick"

	"pcrelint/internal/config"
)

// keywords lists the lowercase byte sequences each inspection needs.
var keywords = map[string][]string{
	config.InspectionRegex:     {"preg_"},
	config.InspectionInclusion: {"include", "require"},
	config.InspectionOffset:    {"["},
}

// declKeywords start every construct the symbol index records.
var declKeywords = []string{"const", "define", "class", "interface", "trait", "enum", "function"}

// Filter matches file contents against the keywords of the enabled
// inspections. A nil Filter accepts everything.
type Filter struct {
	auto *ahocorasick.Automaton
}

// New builds a filter for the enabled inspections. With no inspections
// enabled the filter rejects every file.
func New(in config.Inspections) (*Filter, error) {
	names := in.Names()
	if len(names) == 0 {
		return &Filter{}, nil
	}
	b := ahocorasick.NewBuilder()
	for _, name := range names {
		for _, kw := range keywords[name] {
			b.AddPattern([]byte(kw))
		}
	}
	auto, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: %w", err)
	}
	return &Filter{auto: auto}, nil
}

// NewDeclarations builds a filter matching files that may declare
// constants, classes or functions.
func NewDeclarations() (*Filter, error) {
	b := ahocorasick.NewBuilder()
	for _, kw := range declKeywords {
		b.AddPattern([]byte(kw))
	}
	auto, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("prefilter: %w", err)
	}
	return &Filter{auto: auto}, nil
}

// Match reports whether content may hold an inspected construct. PHP
// keywords and function names are case-insensitive, so content is folded
// first.
func (f *Filter) Match(content []byte) bool {
	if f == nil {
		return true
	}
	if f.auto == nil {
		return false
	}
	return f.auto.IsMatch(bytes.ToLower(content))
}

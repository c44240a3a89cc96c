// Package structuring turns recognized document text into typed medical
// records using line-oriented rules. It never calls out to a model and never
// produces a value that is not a substring of its input.
package structuring

import (
	"strings"

	"sahara/internal/domain"
)

// DefaultVersion identifies the built-in rule set.
const DefaultVersion = "2024.1"

// Engine applies the rules for one Vocabulary. It is safe for concurrent use.
type Engine struct {
	vocab   Vocabulary
	version string
	rx      *patterns
}

// New compiles vocab into an Engine. An empty version uses DefaultVersion.
func New(vocab Vocabulary, version string) *Engine {
	if version == "" {
		version = DefaultVersion
	}
	v := vocab.clone()
	return &Engine{vocab: v, version: version, rx: compile(v)}
}

// Default returns an Engine over DefaultVocabulary.
func Default() *Engine {
	return New(DefaultVocabulary(), DefaultVersion)
}

// Version is stamped on every record this engine produces.
func (e *Engine) Version() string {
	return e.version
}

// Vocabulary returns a copy of the engine's word lists.
func (e *Engine) Vocabulary() Vocabulary {
	return e.vocab.clone()
}

// Structure extracts a record of the given kind from raw. Malformed text
// yields an empty record, never an error; only an unknown kind fails.
func (e *Engine) Structure(raw string, kind domain.DocumentKind) (*domain.StructuredMedicalRecord, error) {
	if !domain.ValidDocumentKinds[kind] {
		return nil, domain.InvalidInputf("unknown document kind %q", kind)
	}

	lines := splitLines(raw)
	rec := &domain.StructuredMedicalRecord{Kind: kind, HeuristicVersion: e.version}
	switch kind {
	case domain.DocumentKindPrescription:
		rec.Prescription = e.structurePrescription(lines)
	case domain.DocumentKindLabReport:
		rec.LabReport = e.structureLabReport(lines)
	case domain.DocumentKindGeneric:
		rec.Generic = structureGeneric(lines)
	}
	return rec, nil
}

func splitLines(raw string) []string {
	var out []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Package triage decides how much research exists for the topic of a query.
package triage

import (
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
)

// ExtractTopic pulls the topic out of a natural-language query.
// The topic is whatever follows the first standalone word "for"; without one
// the whole query is the topic. Surrounding spaces and question marks are
// trimmed and the result is lowercased.
func ExtractTopic(query string) string {
	lower := strings.ToLower(query)

	words := strings.Fields(lower)
	for i, w := range words {
		if w == "for" {
			return trimTopic(strings.Join(words[i+1:], " "))
		}
	}

	return trimTopic(lower)
}

func trimTopic(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "?"))
}

// Assessor classifies corpora by data completeness
type Assessor struct {
	cfg model.TriageConfig
}

// NewAssessor creates an assessor with the given thresholds
func NewAssessor(cfg model.TriageConfig) *Assessor {
	return &Assessor{cfg: cfg}
}

// Completeness returns complete, partial or none for a corpus.
// Sources are counted once however many files list them.
func (a *Assessor) Completeness(corpus model.Corpus) model.Completeness {
	sources := len(corpus.Sources)
	entries := len(corpus.ResearchData)

	switch {
	case sources >= a.cfg.CompleteSources && entries >= a.cfg.CompleteEntries:
		return model.CompletenessComplete
	case sources >= a.cfg.PartialSources && entries >= a.cfg.PartialEntries:
		return model.CompletenessPartial
	default:
		return model.CompletenessNone
	}
}

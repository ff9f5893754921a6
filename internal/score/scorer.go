package score

import (
	"github.com/ppiankov/jtbd/internal/model"
)

// Fixed descriptions per reliability level
const (
	descriptionHigh   = "The analysis is based on sufficient data from multiple sources with clear patterns."
	descriptionMedium = "The analysis is based on a moderate amount of data. Some patterns are visible but more data would strengthen the conclusions."
	descriptionLow    = "The analysis is based on limited data. The findings should be considered preliminary and require further validation."
)

// Assessor grades how far the conclusions of an analysis can be trusted
type Assessor struct {
	cfg model.ReliabilityConfig
}

// NewAssessor creates an assessor with the given thresholds
func NewAssessor(cfg model.ReliabilityConfig) *Assessor {
	return &Assessor{cfg: cfg}
}

// Assess computes the reliability report for a corpus. It never fails;
// an empty corpus is low reliability.
func (a *Assessor) Assess(corpus model.Corpus) model.ReliabilityReport {
	factors := model.ReliabilityFactors{
		SourceCount:      len(corpus.Sources),
		DataPointCount:   len(corpus.ResearchData),
		HasTriangulation: a.hasTriangulation(corpus.ResearchData),
	}

	level := a.determineLevel(factors)

	return model.ReliabilityReport{
		Level:       level,
		Factors:     factors,
		Description: Describe(level),
	}
}

// hasTriangulation reports whether at least two distinct entry sources exist
// and every one of them contributed enough entries
func (a *Assessor) hasTriangulation(entries []model.ResearchEntry) bool {
	counts := SourceCounts(entries)
	if len(counts) < 2 {
		return false
	}

	for _, n := range counts {
		if n < a.cfg.MinPerSource {
			return false
		}
	}
	return true
}

// determineLevel applies the thresholds, checking the strictest level first
func (a *Assessor) determineLevel(f model.ReliabilityFactors) model.ReliabilityLevel {
	if f.SourceCount >= a.cfg.HighSources && f.DataPointCount >= a.cfg.HighEntries && f.HasTriangulation {
		return model.ReliabilityHigh
	} else if f.SourceCount >= a.cfg.MediumSources && f.DataPointCount >= a.cfg.MediumEntries {
		return model.ReliabilityMedium
	} else {
		return model.ReliabilityLow
	}
}

// SourceCounts returns how many entries each source contributed.
// Entries without a source count toward model.UnknownSource.
func SourceCounts(entries []model.ResearchEntry) map[string]int {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.SourceName()]++
	}
	return counts
}

// Describe returns the fixed description for a reliability level
func Describe(level model.ReliabilityLevel) string {
	switch level {
	case model.ReliabilityHigh:
		return descriptionHigh
	case model.ReliabilityMedium:
		return descriptionMedium
	default:
		return descriptionLow
	}
}

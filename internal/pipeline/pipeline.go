package pipeline

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/jtbd/internal/cluster"
	"github.com/ppiankov/jtbd/internal/extract"
	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/rank"
	"github.com/ppiankov/jtbd/internal/score"
)

// Analyzer runs the JTBD analysis over one topic's corpus:
// classify and aggregate jobs, cluster them into themes, rank, assemble.
// It keeps no state between calls; every result is computed from the corpus given.
type Analyzer struct {
	extractor *extract.JobExtractor
	clusterer *cluster.Clusterer
	assessor  *score.Assessor
	logger    *zap.Logger
}

// NewAnalyzer creates an analyzer with the given configuration
func NewAnalyzer(cfg *model.Config) *Analyzer {
	return &Analyzer{
		extractor: extract.NewJobExtractor(),
		clusterer: cluster.NewClusterer(cfg.Analysis),
		assessor:  score.NewAssessor(cfg.Reliability),
		logger:    zap.NewNop(),
	}
}

// WithLogger sets the logger; nil keeps the no-op logger
func (a *Analyzer) WithLogger(l *zap.Logger) *Analyzer {
	if l != nil {
		a.logger = l
	}
	return a
}

// Analyze produces the analysis of corpus. full selects a full analysis;
// otherwise the result is partial and carries a reliability report.
// An empty corpus returns model.ErrNoResearchData.
func (a *Analyzer) Analyze(topic string, full bool, corpus model.Corpus) (*model.AnalysisResult, error) {
	if len(corpus.ResearchData) == 0 {
		return nil, fmt.Errorf("analyze %q: %w", topic, model.ErrNoResearchData)
	}

	jobs := a.extractor.Extract(corpus.ResearchData)
	themes := rank.Themes(a.clusterer.Cluster(jobs))

	result := &model.AnalysisResult{
		Topic:          topic,
		AnalysisType:   model.AnalysisPartial,
		Themes:         themes,
		FunctionalJobs: rank.Jobs(rank.FilterByType(jobs, model.JobFunctional)),
		SocialJobs:     rank.Jobs(rank.FilterByType(jobs, model.JobSocial)),
		EmotionalJobs:  rank.Jobs(rank.FilterByType(jobs, model.JobEmotional)),
		Sources:        append([]string{}, corpus.Sources...),
		DataPoints:     len(corpus.ResearchData),
	}
	if full {
		result.AnalysisType = model.AnalysisFull
	} else {
		reliability := a.assessor.Assess(corpus)
		result.Reliability = &reliability
	}

	a.logger.Debug("analysis complete",
		zap.String("topic", topic),
		zap.String("type", string(result.AnalysisType)),
		zap.Int("data_points", result.DataPoints),
		zap.Int("jobs", len(jobs)),
		zap.Int("themes", len(themes)))

	return result, nil
}

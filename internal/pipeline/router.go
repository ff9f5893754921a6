package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ppiankov/jtbd/internal/cache"
	"github.com/ppiankov/jtbd/internal/llm"
	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/research"
	"github.com/ppiankov/jtbd/internal/store"
	"github.com/ppiankov/jtbd/internal/triage"
)

// PartialDataNote accompanies every partial analysis
const PartialDataNote = "The data is not sufficient to be fully reliable. Additional research is recommended."

// Router answers a query by the amount of research available for its topic:
// complete data gets a full analysis, partial data a partial analysis plus a
// research plan, and no data only a research plan.
type Router struct {
	loader     store.Loader
	triage     *triage.Assessor
	analyzer   *Analyzer
	planner    *research.Planner
	summarizer *llm.Summarizer // Optional LLM summarizer (nil if disabled)
	logger     *zap.Logger

	// Optional memo of analyses, keyed by build, settings and corpus
	cache    *cache.ResultCache
	build    string
	settings []interface{}
}

// NewRouter creates a router loading corpora from loader
func NewRouter(cfg *model.Config, loader store.Loader, analyzer *Analyzer) *Router {
	return &Router{
		loader:   loader,
		triage:   triage.NewAssessor(cfg.Triage),
		analyzer: analyzer,
		planner:  research.NewPlanner(cfg.Research),
		logger:   zap.NewNop(),
		settings: []interface{}{cfg.Analysis, cfg.Reliability},
	}
}

// WithCache reuses analyses of corpora already seen by the same build.
// build must change whenever analysis code changes; entries written by
// other builds are never read.
func (r *Router) WithCache(c *cache.ResultCache, build string) *Router {
	r.cache = c
	r.build = build
	return r
}

// WithSummarizer attaches LLM narratives to analyses
func (r *Router) WithSummarizer(s *llm.Summarizer) *Router {
	r.summarizer = s
	return r
}

// WithLogger sets the logger; nil keeps the no-op logger
func (r *Router) WithLogger(l *zap.Logger) *Router {
	if l != nil {
		r.logger = l
	}
	return r
}

// Process answers a natural-language query such as
// "What are the jobs to be done for online grocery shopping?"
func (r *Router) Process(ctx context.Context, query string) (*model.Response, error) {
	topic := triage.ExtractTopic(query)
	if topic == "" {
		return nil, fmt.Errorf("query %q: %w", query, model.ErrUnknownTopic)
	}
	return r.route(ctx, query, topic)
}

// ProcessTopic answers for a topic given directly
func (r *Router) ProcessTopic(ctx context.Context, topic string) (*model.Response, error) {
	return r.route(ctx, topic, topic)
}

func (r *Router) route(ctx context.Context, query, topic string) (*model.Response, error) {
	corpus, err := r.loader.Load(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	completeness := r.triage.Completeness(corpus)
	resp := &model.Response{
		Triage: model.TriageResult{
			Query:        query,
			Topic:        topic,
			Completeness: completeness,
		},
	}

	r.logger.Info("routing query",
		zap.String("topic", topic),
		zap.String("completeness", string(completeness)),
		zap.Int("sources", len(corpus.Sources)),
		zap.Int("entries", len(corpus.ResearchData)))

	switch completeness {
	case model.CompletenessComplete:
		result, err := r.analyze(ctx, topic, true, corpus)
		if err != nil {
			return nil, err
		}
		resp.Analysis = result

	case model.CompletenessPartial:
		result, err := r.analyze(ctx, topic, false, corpus)
		if err != nil {
			return nil, err
		}
		plan := r.planner.Plan(topic, result)
		resp.Analysis = result
		resp.ResearchSuggestions = &plan
		resp.Note = PartialDataNote

	default:
		plan := r.planner.Plan(topic, nil)
		resp.ResearchSuggestions = &plan
	}

	return resp, nil
}

func (r *Router) analyze(ctx context.Context, topic string, full bool, corpus model.Corpus) (*model.AnalysisResult, error) {
	result, err := r.memoAnalyze(topic, full, corpus)
	if err != nil {
		return nil, err
	}

	// The summary is generated after the analysis and never changes it
	if r.summarizer.IsEnabled() {
		summary, err := r.summarizer.GenerateSummary(ctx, result)
		if err != nil {
			r.logger.Warn("LLM summary generation failed", zap.String("topic", topic), zap.Error(err))
		} else if summary != nil {
			result.LLM = summary
		}
	}

	return result, nil
}

// Analyze runs the analysis for a topic regardless of triage.
// It backs `jtbd analyze`, where the caller picks full or partial.
func (r *Router) Analyze(ctx context.Context, topic string, full bool) (*model.AnalysisResult, error) {
	corpus, err := r.loader.Load(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	return r.analyze(ctx, topic, full, corpus)
}

// Plan builds a research plan for a topic, using whatever data exists
func (r *Router) Plan(ctx context.Context, topic string) (*model.ResearchPlan, error) {
	corpus, err := r.loader.Load(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}

	var existing *model.AnalysisResult
	if !corpus.IsEmpty() {
		existing, err = r.memoAnalyze(topic, false, corpus)
		if err != nil {
			return nil, err
		}
	}

	plan := r.planner.Plan(topic, existing)
	return &plan, nil
}

// memoAnalyze runs the analyzer, consulting the cache when one is set
func (r *Router) memoAnalyze(topic string, full bool, corpus model.Corpus) (*model.AnalysisResult, error) {
	key := r.cacheKey(topic, full, corpus)
	if key != "" {
		if cached, ok := r.cache.Get(key); ok {
			r.logger.Debug("analysis cache hit", zap.String("topic", topic))
			return cached, nil
		}
	}

	result, err := r.analyzer.Analyze(topic, full, corpus)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if err := r.cache.Set(key, result); err != nil {
			r.logger.Warn("cache analysis result", zap.String("topic", topic), zap.Error(err))
		}
	}
	return result, nil
}

// cacheKey returns "" when caching is off or the corpus is empty
func (r *Router) cacheKey(topic string, full bool, corpus model.Corpus) string {
	if r.cache == nil || corpus.IsEmpty() {
		return ""
	}
	parts := append([]interface{}{"analysis", r.build, topic, full, corpus}, r.settings...)
	key, err := cache.Key(parts...)
	if err != nil {
		r.logger.Warn("build cache key", zap.Error(err))
		return ""
	}
	return key
}

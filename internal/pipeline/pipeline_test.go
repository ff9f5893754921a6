package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jtbd/internal/cache"
	"github.com/ppiankov/jtbd/internal/llm"
	"github.com/ppiankov/jtbd/internal/model"
)

var functionalStatements = []string{
	"I need to finish my weekly grocery list quickly",
	"I have to compare prices across three stores",
	"The app lets me reorder staples in one tap",
	"I want to accomplish the weekly shop before work",
	"I need to get deliveries scheduled around my shifts",
}

func corpusOf(sources []string, perSource int) model.Corpus {
	c := model.Corpus{Sources: sources}
	n := 0
	for _, s := range sources {
		for i := 0; i < perSource; i++ {
			c.ResearchData = append(c.ResearchData, model.ResearchEntry{
				Statement: fmt.Sprintf("%s (%d)", functionalStatements[n%len(functionalStatements)], n),
				Source:    s,
			})
			n++
		}
	}
	return c
}

type mapLoader struct {
	corpora map[string]model.Corpus
	err     error
}

func (l mapLoader) Load(ctx context.Context, topic string) (model.Corpus, error) {
	if l.err != nil {
		return model.Corpus{}, l.err
	}
	return l.corpora[topic], nil
}

func TestAnalyze_EmptyCorpus(t *testing.T) {
	_, err := NewAnalyzer(model.DefaultConfig()).Analyze("nothing", true, model.Corpus{})

	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNoResearchData))
	assert.Equal(t, model.NoDataMessage, ErrorResultFor(err).Error)
}

func TestAnalyze_FiveFunctionalStatements(t *testing.T) {
	corpus := model.Corpus{Sources: []string{"Interviews"}}
	for _, s := range functionalStatements {
		corpus.ResearchData = append(corpus.ResearchData, model.ResearchEntry{Statement: s, Source: "Interviews"})
	}

	result, err := NewAnalyzer(model.DefaultConfig()).Analyze("groceries", true, corpus)
	require.NoError(t, err)

	assert.Equal(t, model.AnalysisFull, result.AnalysisType)
	assert.Len(t, result.FunctionalJobs, 5)
	assert.Empty(t, result.SocialJobs)
	assert.Empty(t, result.EmotionalJobs)
	assert.Nil(t, result.Reliability)
	assert.Equal(t, 5, result.DataPoints)

	total := 0
	for i, theme := range result.Themes {
		total += theme.TotalFrequency
		if i > 0 {
			assert.LessOrEqual(t, theme.TotalFrequency, result.Themes[i-1].TotalFrequency)
		}
	}
	assert.Equal(t, 5, total)

	// Empty job lists stay arrays in JSON
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"social_jobs":[]`)
	assert.NotContains(t, string(data), `"reliability"`)
}

func TestAnalyze_PartialCarriesReliability(t *testing.T) {
	corpus := corpusOf([]string{"Interview 1", "Interview 2"}, 3)

	result, err := NewAnalyzer(model.DefaultConfig()).Analyze("groceries", false, corpus)
	require.NoError(t, err)

	assert.Equal(t, model.AnalysisPartial, result.AnalysisType)
	require.NotNil(t, result.Reliability)
	assert.Equal(t, model.ReliabilityLow, result.Reliability.Level)
	assert.True(t, result.Reliability.Factors.HasTriangulation)
	assert.Equal(t, []string{"Interview 1", "Interview 2"}, result.Sources)
}

func TestAnalyze_Deterministic(t *testing.T) {
	corpus := corpusOf([]string{"A", "B", "C"}, 4)
	a := NewAnalyzer(model.DefaultConfig())

	first, err := a.Analyze("t", true, corpus)
	require.NoError(t, err)
	second, err := a.Analyze("t", true, corpus)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRouter_CacheHitWithinBuild(t *testing.T) {
	cfg := model.DefaultConfig()
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	loader := mapLoader{corpora: map[string]model.Corpus{"t": corpusOf([]string{"A"}, 5)}}
	r := NewRouter(cfg, loader, NewAnalyzer(cfg)).WithCache(cache.NewResultCache(mem, 0), "v1.2.0")

	first, err := r.Analyze(context.Background(), "t", false)
	require.NoError(t, err)
	assert.Equal(t, 1, mem.Len())

	second, err := r.Analyze(context.Background(), "t", false)
	require.NoError(t, err)
	assert.Equal(t, first.Themes, second.Themes)
	assert.Equal(t, 1, mem.Len())

	// Full and partial results are cached separately
	_, err = r.Analyze(context.Background(), "t", true)
	require.NoError(t, err)
	assert.Equal(t, 2, mem.Len())
}

func TestRouter_CacheIgnoresOtherBuilds(t *testing.T) {
	cfg := model.DefaultConfig()
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	results := cache.NewResultCache(mem, 0)
	loader := mapLoader{corpora: map[string]model.Corpus{"t": corpusOf([]string{"A"}, 5)}}

	_, err := NewRouter(cfg, loader, NewAnalyzer(cfg)).WithCache(results, "v1").Analyze(context.Background(), "t", true)
	require.NoError(t, err)
	_, err = NewRouter(cfg, loader, NewAnalyzer(cfg)).WithCache(results, "v2").Analyze(context.Background(), "t", true)
	require.NoError(t, err)

	assert.Equal(t, 2, mem.Len())
}

func TestAnalyzer_KeepsNoStateBetweenCalls(t *testing.T) {
	a := NewAnalyzer(model.DefaultConfig())

	_, err := a.Analyze("t", true, corpusOf([]string{"A"}, 5))
	require.NoError(t, err)

	// Same topic, different corpus: the result reflects only the new corpus
	second, err := a.Analyze("t", true, corpusOf([]string{"B", "C"}, 2))
	require.NoError(t, err)
	assert.Equal(t, 4, second.DataPoints)
	assert.Equal(t, []string{"B", "C"}, second.Sources)
}

func TestRouter_CompleteData(t *testing.T) {
	cfg := model.DefaultConfig()
	loader := mapLoader{corpora: map[string]model.Corpus{
		"meal planning": corpusOf([]string{"A", "B", "C"}, 5),
	}}
	r := NewRouter(cfg, loader, NewAnalyzer(cfg))

	resp, err := r.Process(context.Background(), "What are the jobs to be done for Meal Planning?")
	require.NoError(t, err)

	assert.Equal(t, "meal planning", resp.Triage.Topic)
	assert.Equal(t, model.CompletenessComplete, resp.Triage.Completeness)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, model.AnalysisFull, resp.Analysis.AnalysisType)
	assert.Nil(t, resp.ResearchSuggestions)
	assert.Empty(t, resp.Note)
}

func TestRouter_PartialData(t *testing.T) {
	cfg := model.DefaultConfig()
	loader := mapLoader{corpora: map[string]model.Corpus{
		"budgeting": corpusOf([]string{"Survey"}, 6),
	}}
	r := NewRouter(cfg, loader, NewAnalyzer(cfg))

	resp, err := r.ProcessTopic(context.Background(), "budgeting")
	require.NoError(t, err)

	assert.Equal(t, model.CompletenessPartial, resp.Triage.Completeness)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, model.AnalysisPartial, resp.Analysis.AnalysisType)
	require.NotNil(t, resp.Analysis.Reliability)
	require.NotNil(t, resp.ResearchSuggestions)
	assert.Equal(t, "budgeting", resp.ResearchSuggestions.Topic)
	assert.Equal(t, PartialDataNote, resp.Note)
}

func TestRouter_NoData(t *testing.T) {
	cfg := model.DefaultConfig()
	r := NewRouter(cfg, mapLoader{}, NewAnalyzer(cfg))

	resp, err := r.ProcessTopic(context.Background(), "space tourism")
	require.NoError(t, err)

	assert.Equal(t, model.CompletenessNone, resp.Triage.Completeness)
	assert.Nil(t, resp.Analysis)
	require.NotNil(t, resp.ResearchSuggestions)
	assert.NotEmpty(t, resp.ResearchSuggestions.ResearchGoals)
}

func TestRouter_UnknownTopic(t *testing.T) {
	cfg := model.DefaultConfig()
	r := NewRouter(cfg, mapLoader{}, NewAnalyzer(cfg))

	_, err := r.Process(context.Background(), "   ")
	assert.True(t, errors.Is(err, model.ErrUnknownTopic))
}

func TestRouter_LoaderError(t *testing.T) {
	cfg := model.DefaultConfig()
	boom := errors.New("disk on fire")
	r := NewRouter(cfg, mapLoader{err: boom}, NewAnalyzer(cfg))

	_, err := r.ProcessTopic(context.Background(), "x")
	assert.True(t, errors.Is(err, boom))
}

func TestRouter_AnalyzeAndPlan(t *testing.T) {
	cfg := model.DefaultConfig()
	loader := mapLoader{corpora: map[string]model.Corpus{"x": corpusOf([]string{"A"}, 3)}}
	r := NewRouter(cfg, loader, NewAnalyzer(cfg))

	result, err := r.Analyze(context.Background(), "x", true)
	require.NoError(t, err)
	assert.Equal(t, model.AnalysisFull, result.AnalysisType)

	_, err = r.Analyze(context.Background(), "missing", true)
	assert.True(t, errors.Is(err, model.ErrNoResearchData))

	plan, err := r.Plan(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "x", plan.Topic)

	plan, err = r.Plan(context.Background(), "missing")
	require.NoError(t, err)
	assert.Len(t, plan.ResearchGoals, 6)
}

func TestRouter_AttachesLLMSummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			_, _ = w.Write([]byte(`{"model": "llama3.1", "response": "Shoppers mainly need speed.", "done": true, "eval_count": 5}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := model.DefaultConfig()
	summarizer, err := llm.NewSummarizer(llm.Config{Provider: "ollama", BaseURL: server.URL, Model: "llama3.1", Timeout: 5, StrictQuotes: true})
	require.NoError(t, err)

	loader := mapLoader{corpora: map[string]model.Corpus{"x": corpusOf([]string{"A", "B", "C"}, 5)}}
	r := NewRouter(cfg, loader, NewAnalyzer(cfg)).WithSummarizer(summarizer)

	resp, err := r.ProcessTopic(context.Background(), "x")
	require.NoError(t, err)

	require.NotNil(t, resp.Analysis.LLM)
	assert.True(t, resp.Analysis.LLM.Enabled)
	assert.Equal(t, "ollama", resp.Analysis.LLM.Provider)
	assert.Equal(t, "Shoppers mainly need speed.", resp.Analysis.LLM.SummaryMD)
}

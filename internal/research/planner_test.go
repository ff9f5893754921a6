package research

import (
	"strings"
	"testing"

	"github.com/ppiankov/jtbd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanner() *Planner {
	return NewPlanner(model.DefaultConfig().Research)
}

func partialAnalysis() *model.AnalysisResult {
	return &model.AnalysisResult{
		Topic:          "meal planning",
		AnalysisType:   model.AnalysisPartial,
		FunctionalJobs: make([]model.Job, 4),
		SocialJobs:     make([]model.Job, 1),
		EmotionalJobs:  make([]model.Job, 2),
		Themes: []model.Theme{
			{Name: "Grocery Lists", JobCount: 3},
			{Name: "Family Dinners", JobCount: 1},
			{Name: "Quick Recipes", JobCount: 1},
		},
		Reliability: &model.ReliabilityReport{
			Level:   model.ReliabilityLow,
			Factors: model.ReliabilityFactors{SourceCount: 2, DataPointCount: 7},
		},
	}
}

func TestPlan_NoAnalysis(t *testing.T) {
	plan := newPlanner().Plan("meal planning", nil)

	assert.Equal(t, "meal planning", plan.Topic)
	assert.Len(t, plan.ResearchGoals, 6)
	assert.Len(t, plan.RecommendedMethods, 4)
	assert.Equal(t, 8, plan.SampleSizes["interviews"].Min)
	assert.Equal(t, 300, plan.SampleSizes["surveys"].Ideal)
	assert.Equal(t, 4, plan.SampleSizes["contextual_inquiry"].Min)

	// 15 sampled + 2 goal questions for each of the first 2 goals, minus repeats
	assert.GreaterOrEqual(t, len(plan.InterviewQuestions), 15)
	assert.LessOrEqual(t, len(plan.InterviewQuestions), 19)

	// Base survey plus functional, emotional and social follow-ups
	assert.Len(t, plan.SurveyQuestions, 18)
}

func TestPlan_InterviewQuestionsUnique(t *testing.T) {
	plan := newPlanner().Plan("budgeting apps", nil)

	seen := make(map[string]bool)
	for _, q := range plan.InterviewQuestions {
		assert.False(t, seen[q], "duplicate question %q", q)
		seen[q] = true
		assert.Contains(t, q, "budgeting apps")
	}
}

func TestPlan_Reproducible(t *testing.T) {
	p := newPlanner()

	assert.Equal(t, p.Plan("travel", nil), p.Plan("travel", nil))
}

func TestGoals_FromPartialAnalysis(t *testing.T) {
	goals := newPlanner().Goals("meal planning", partialAnalysis())

	want := []string{
		"Expand understanding of social jobs related to meal planning",
		"Expand understanding of emotional jobs related to meal planning",
		"Validate preliminary findings by gathering more diverse data",
		"Gather more data about the 'Family Dinners' theme to strengthen analysis",
	}
	require.Len(t, goals, 10)
	assert.Equal(t, want, goals[3:7])
	assert.True(t, strings.HasPrefix(goals[9], "Discover unmet needs"))
}

func TestMethods_LowReliabilityAndScarceSocialJobs(t *testing.T) {
	methods := newPlanner().Methods("meal planning", partialAnalysis())

	byName := make(map[string]model.ResearchMethod)
	for _, m := range methods {
		byName[m.Method] = m
	}

	assert.Len(t, methods, 6)
	assert.Equal(t, "High", byName["Contextual Inquiry"].Priority)
	assert.Contains(t, byName, "Focus Groups")
	assert.Contains(t, byName, "Social Media Analysis")
	assert.NotContains(t, byName, "Sentiment Analysis")
}

func TestMethods_ScarceEmotionalJobs(t *testing.T) {
	analysis := partialAnalysis()
	analysis.SocialJobs = make([]model.Job, 5)
	analysis.EmotionalJobs = nil
	analysis.Reliability.Level = model.ReliabilityMedium

	methods := newPlanner().Methods("meal planning", analysis)

	require.Len(t, methods, 5)
	assert.Equal(t, "Sentiment Analysis", methods[4].Method)
	assert.Equal(t, "Medium", methods[2].Priority)
}

func TestSampleSizes_ReducedByExistingData(t *testing.T) {
	analysis := partialAnalysis()

	sizes := newPlanner().SampleSizes(analysis)

	assert.Equal(t, 6, sizes["interviews"].Min)
	assert.Equal(t, 10, sizes["interviews"].Ideal)
	assert.Equal(t, 93, sizes["surveys"].Min)
	assert.Equal(t, 293, sizes["surveys"].Ideal)
	assert.Contains(t, sizes["interviews"].Justification, "Currently have 2 sources.")

	analysis.Reliability.Factors = model.ReliabilityFactors{SourceCount: 10, DataPointCount: 200}
	sizes = newPlanner().SampleSizes(analysis)

	assert.Equal(t, 5, sizes["interviews"].Min)
	assert.Equal(t, 8, sizes["interviews"].Ideal)
	assert.Equal(t, 50, sizes["surveys"].Min)
	assert.Equal(t, 150, sizes["surveys"].Ideal)
}

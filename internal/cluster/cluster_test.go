package cluster

import (
	"math"
	"strings"
	"testing"

	"github.com/ppiankov/jtbd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func testJobs(statements ...string) []model.Job {
	jobs := make([]model.Job, len(statements))
	for i, s := range statements {
		jobs[i] = model.Job{Statement: s, Type: model.JobFunctional, Frequency: 1}
	}
	return jobs
}

func TestVectorize_RowsAreUnitLength(t *testing.T) {
	docs := []string{
		"track monthly budget",
		"track spending budget quickly",
		"share photos with family",
	}

	m, vocab := Vectorize(docs, 100)
	require.NotNil(t, m)

	rows, cols := m.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, len(vocab), cols)
	assert.True(t, isSorted(vocab), "vocabulary should be alphabetical")

	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, floats.Norm(m.RawRowView(i), 2), 1e-9)
	}
}

func TestVectorize_SmoothIDF(t *testing.T) {
	// "budget" appears in both documents, "apple" in one
	m, vocab := Vectorize([]string{"apple budget", "budget"}, 100)
	require.Equal(t, []string{"apple", "budget"}, vocab)

	idfApple := math.Log(3.0/2.0) + 1
	idfBudget := 1.0
	norm := math.Hypot(idfApple, idfBudget)

	assert.InDelta(t, idfApple/norm, m.At(0, 0), 1e-9)
	assert.InDelta(t, idfBudget/norm, m.At(0, 1), 1e-9)
	assert.InDelta(t, 1.0, m.At(1, 1), 1e-9)
	assert.Zero(t, m.At(1, 0))
}

func TestVectorize_MaxFeaturesKeepsMostFrequent(t *testing.T) {
	_, vocab := Vectorize([]string{"zeta zeta alpha", "beta zeta alpha", "gamma"}, 2)

	assert.Equal(t, []string{"alpha", "zeta"}, vocab)
}

func TestVectorize_NoTokens(t *testing.T) {
	m, vocab := Vectorize([]string{"a", "!", ""}, 100)

	assert.Nil(t, m)
	assert.Empty(t, vocab)
}

func TestKMeans_SeparatesObviousGroups(t *testing.T) {
	data := mat.NewDense(6, 2, []float64{
		0, 0,
		0.1, 0,
		0, 0.1,
		10, 10,
		10.1, 10,
		10, 10.1,
	})

	result := KMeans(data, KMeansOptions{K: 2, Seed: 42, MaxIterations: 100, Restarts: 5})

	require.Len(t, result.Labels, 6)
	assert.Equal(t, result.Labels[0], result.Labels[1])
	assert.Equal(t, result.Labels[0], result.Labels[2])
	assert.Equal(t, result.Labels[3], result.Labels[4])
	assert.Equal(t, result.Labels[3], result.Labels[5])
	assert.NotEqual(t, result.Labels[0], result.Labels[3])
	assert.Less(t, result.Inertia, 0.1)
}

func TestKMeans_Deterministic(t *testing.T) {
	docs := []string{
		"save time on invoices", "send invoices faster", "worry about late payments",
		"feel anxious about cash", "impress my clients", "look professional to clients",
	}
	data, _ := Vectorize(docs, 100)
	opts := KMeansOptions{K: 3, Seed: 42, MaxIterations: 300, Restarts: 10}

	first := KMeans(data, opts)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Labels, KMeans(data, opts).Labels)
	}
}

func TestKMeans_KCappedAtPointCount(t *testing.T) {
	data := mat.NewDense(2, 1, []float64{0, 1})

	result := KMeans(data, KMeansOptions{K: 5, Seed: 1, MaxIterations: 10, Restarts: 1})

	k, _ := result.Centroids.Dims()
	assert.Equal(t, 2, k)
}

func TestClusterCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{3, 2},
		{4, 2},
		{5, 2},
		{6, 3},
		{10, 5},
		{40, 5},
		{1, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClusterCount(tt.n, 2, 5), "n=%d", tt.n)
	}
}

func TestCluster_Empty(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)

	assert.Empty(t, c.Cluster(nil))
}

func TestCluster_FewJobsYieldPrimaryTheme(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)
	jobs := testJobs("I need to save time", "I want to feel calm")
	jobs[0].Frequency = 3

	themes := c.Cluster(jobs)

	require.Len(t, themes, 1)
	assert.Equal(t, "Primary Theme", themes[0].Name)
	assert.Equal(t, "Main theme identified from limited data", themes[0].Description)
	assert.Equal(t, 2, themes[0].JobCount)
	assert.Equal(t, 4, themes[0].TotalFrequency)
}

func TestCluster_ConservesJobsAndFrequency(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)
	jobs := testJobs(
		"I need to track my monthly budget",
		"Budget tracking should be faster",
		"I worry about paying rent late",
		"Late rent payments make me anxious",
		"My family should see I manage money well",
		"Friends respect people who save money",
		"I want to finish my taxes quickly",
	)
	for i := range jobs {
		jobs[i].Frequency = i + 1
	}

	themes := c.Cluster(jobs)

	require.NotEmpty(t, themes)
	assert.LessOrEqual(t, len(themes), 3)

	jobCount, freq := 0, 0
	seen := make(map[string]int)
	for _, theme := range themes {
		assert.NotEmpty(t, theme.Jobs)
		assert.Equal(t, len(theme.Jobs), theme.JobCount)
		assert.Equal(t, model.SumFrequency(theme.Jobs), theme.TotalFrequency)
		jobCount += theme.JobCount
		freq += theme.TotalFrequency
		for _, j := range theme.Jobs {
			seen[j.Statement]++
		}
	}

	assert.Equal(t, len(jobs), jobCount)
	assert.Equal(t, model.SumFrequency(jobs), freq)
	for _, j := range jobs {
		assert.Equal(t, 1, seen[j.Statement], "job %q should be in exactly one theme", j.Statement)
	}
}

func TestCluster_Deterministic(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)
	jobs := testJobs(
		"Booking flights takes forever",
		"I want booking flights to be easier",
		"Hotel reviews make me feel confident",
		"I trust hotel reviews from friends",
		"Packing is stressful",
		"Packing lists help me finish faster",
	)

	first := c.Cluster(jobs)
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, c.Cluster(jobs))
	}
}

func TestCluster_IdenticalTokenlessStatements(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)

	themes := c.Cluster(testJobs("!", "?", "a"))

	require.Len(t, themes, 1)
	assert.Equal(t, "Theme 1", themes[0].Name)
	assert.Equal(t, 3, themes[0].JobCount)
}

func TestThemeName(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)
	jobs := testJobs(
		"Budget tracking is tedious",
		"Tracking my budget every month",
		"Monthly budget review",
	)

	assert.Equal(t, "Budget Tracking Tedious", c.themeName(0, jobs))
	assert.Equal(t, "Theme 4", c.themeName(3, testJobs("I am to be", "it is")))
}

func TestThemeDescription(t *testing.T) {
	c := NewClusterer(model.DefaultConfig().Analysis)
	jobs := []model.Job{
		{Statement: "a", Type: model.JobEmotional, Frequency: 1},
		{Statement: "b", Type: model.JobSocial, Frequency: 5},
		{Statement: "c", Type: model.JobEmotional, Frequency: 2},
		{Statement: "d", Type: model.JobSocial, Frequency: 2},
	}

	desc := c.themeDescription(jobs)

	// Emotional and social tie at 2; emotional was seen first
	assert.True(t, strings.HasPrefix(desc, descriptionTemplates[model.JobEmotional]), desc)
	assert.True(t, strings.HasSuffix(desc, `Examples include: "b"; "c"; "d"`), desc)
}

func TestThemeDescription_NegativeExampleCount(t *testing.T) {
	cfg := model.DefaultConfig().Analysis
	cfg.ExampleCount = -1
	c := NewClusterer(cfg)

	var desc string
	require.NotPanics(t, func() { desc = c.themeDescription(testJobs("plan meals", "shop faster")) })
	assert.True(t, strings.HasSuffix(desc, "Examples include: "), desc)
}

func isSorted(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/jtbd/internal/store"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Meal Planning", "meal-planning"},
		{"  budgeting apps? ", "budgeting-apps"},
		{"../../etc/passwd", "etc-passwd"},
		{"???", "topic"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}

func TestUniqueSlug(t *testing.T) {
	used := map[string]int{}

	assert.Equal(t, "meal-planning", uniqueSlug("Meal Planning", used))
	assert.Equal(t, "meal-planning-2", uniqueSlug("meal planning!", used))
	assert.Equal(t, "budgeting", uniqueSlug("budgeting", used))
}

func TestImportThenAnalyze(t *testing.T) {
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	noConfig := filepath.Join(dir, "missing.yaml")

	html := filepath.Join(dir, "interview.html")
	require.NoError(t, os.WriteFile(html, []byte(`<html><body>
		<h2>Weekly planning</h2>
		<p>I need to plan meals for the whole week. It takes far too long every Sunday.</p>
		<p>I want to finish the shopping list faster.</p>
	</body></html>`), 0644))

	rootCmd.SetArgs([]string{"import", html,
		"--topic", "meal planning", "--source", "Interview 1",
		"--data-dir", dataDir, "--config", noConfig})
	require.NoError(t, rootCmd.Execute())

	saved := filepath.Join(dataDir, "meal_planning_interview_1.json")
	corpus, err := store.ReadCorpusFile(saved)
	require.NoError(t, err)
	assert.Equal(t, []string{"Interview 1"}, corpus.Sources)
	assert.Len(t, corpus.ResearchData, 3)
	assert.Equal(t, "Weekly planning", corpus.ResearchData[0].Context)

	out := filepath.Join(dir, "out", "analysis.json")
	rootCmd.SetArgs([]string{"analyze", "meal planning",
		"--json", out, "--no-cache",
		"--data-dir", dataDir, "--config", noConfig})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"analysis_type": "full"`)
	assert.Contains(t, string(data), `"Primary Theme"`)
}

func TestBuildIDStartsWithVersion(t *testing.T) {
	id := buildID()
	assert.True(t, strings.HasPrefix(id, Version), id)
}

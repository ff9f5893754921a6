package cluster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/textproc"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	primaryThemeName        = "Primary Theme"
	primaryThemeDescription = "Main theme identified from limited data"

	// Theme names only use keywords longer than this many characters
	keywordMinLength = 3
)

// descriptionTemplates open a theme description, keyed by the dominant job type
var descriptionTemplates = map[model.JobType]string{
	model.JobFunctional: "Helping users to accomplish their goals.",
	model.JobSocial:     "Enabling users to be seen as capable and successful by others.",
	model.JobEmotional:  "Making users feel confident and at ease.",
}

// Clusterer groups jobs into named themes
type Clusterer struct {
	cfg        model.AnalysisConfig
	normalizer *textproc.Normalizer
}

// NewClusterer creates a clusterer with the given analysis settings
func NewClusterer(cfg model.AnalysisConfig) *Clusterer {
	return &Clusterer{
		cfg:        cfg,
		normalizer: textproc.Default(),
	}
}

// ClusterCount returns clamp(n/2, minK, maxK), never more than n
func ClusterCount(n, minK, maxK int) int {
	k := n / 2
	if k > maxK {
		k = maxK
	}
	if k < minK {
		k = minK
	}
	if k > n {
		k = n
	}
	return k
}

// Cluster partitions jobs into themes. Every job lands in exactly one theme.
// Fewer than MinStatements jobs yield a single "Primary Theme"; no jobs yield no themes.
func (c *Clusterer) Cluster(jobs []model.Job) []model.Theme {
	if len(jobs) == 0 {
		return nil
	}

	if len(jobs) < c.cfg.MinStatements {
		return []model.Theme{
			model.NewTheme(primaryThemeName, primaryThemeDescription, jobs),
		}
	}

	statements := make([]string, len(jobs))
	for i, job := range jobs {
		statements[i] = job.Statement
	}

	k := ClusterCount(len(jobs), c.cfg.MinClusters, c.cfg.MaxClusters)
	labels := make([]int, len(jobs))

	// Without a vocabulary every job is the same point; keep them together
	if data, _ := Vectorize(statements, c.cfg.MaxFeatures); data != nil {
		labels = KMeans(data, KMeansOptions{
			K:             k,
			Seed:          c.cfg.Seed,
			MaxIterations: c.cfg.MaxIterations,
			Restarts:      c.cfg.Restarts,
		}).Labels
	}

	groups := make([][]model.Job, k)
	for i, label := range labels {
		groups[label] = append(groups[label], jobs[i])
	}

	var themes []model.Theme
	for i, group := range groups {
		if len(group) == 0 {
			continue
		}
		themes = append(themes, model.NewTheme(c.themeName(i, group), c.themeDescription(group), group))
	}

	return themes
}

// themeName joins the most frequent keywords of the cluster in title case
func (c *Clusterer) themeName(index int, jobs []model.Job) string {
	statements := make([]string, len(jobs))
	for i, job := range jobs {
		statements[i] = job.Statement
	}

	keywords := c.normalizer.TopKeywords(strings.Join(statements, " "), c.cfg.KeywordCount, keywordMinLength)
	if len(keywords) == 0 {
		return fmt.Sprintf("Theme %d", index+1)
	}

	// Casers keep state and are not shared across goroutines
	title := cases.Title(language.English)
	return title.String(strings.Join(keywords, " "))
}

// themeDescription picks a template by dominant job type and lists the top statements
func (c *Clusterer) themeDescription(jobs []model.Job) string {
	prefix := descriptionTemplates[dominantType(jobs)]

	top := make([]model.Job, len(jobs))
	copy(top, jobs)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Frequency > top[j].Frequency
	})
	if n := max(c.cfg.ExampleCount, 0); len(top) > n {
		top = top[:n]
	}

	examples := make([]string, len(top))
	for i, job := range top {
		examples[i] = `"` + job.Statement + `"`
	}

	return fmt.Sprintf("%s Examples include: %s", prefix, strings.Join(examples, "; "))
}

// dominantType returns the most common job type; ties go to the type seen first
func dominantType(jobs []model.Job) model.JobType {
	counts := make(map[model.JobType]int)
	var order []model.JobType
	for _, job := range jobs {
		if _, ok := counts[job.Type]; !ok {
			order = append(order, job.Type)
		}
		counts[job.Type]++
	}

	best := model.JobFunctional
	bestCount := 0
	for _, t := range order {
		if counts[t] > bestCount {
			best = t
			bestCount = counts[t]
		}
	}

	if _, ok := descriptionTemplates[best]; !ok {
		return model.JobFunctional
	}
	return best
}

package extract

import (
	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/textproc"
)

// JobExtractor turns research entries into classified, aggregated jobs
type JobExtractor struct {
	classifier *JobClassifier
	normalizer *textproc.Normalizer
}

// NewJobExtractor creates an extractor using the default classifier and normalizer
func NewJobExtractor() *JobExtractor {
	return &JobExtractor{
		classifier: NewJobClassifier(),
		normalizer: textproc.Default(),
	}
}

// Extract classifies every entry and aggregates the resulting jobs.
// Each entry yields one job per matched type before aggregation.
func (e *JobExtractor) Extract(entries []model.ResearchEntry) []model.Job {
	jobs := make([]model.Job, 0, len(entries))

	for _, entry := range entries {
		types := e.classifier.Classify(entry.Statement, entry.Context)
		for _, jobType := range types.Types() {
			jobs = append(jobs, model.Job{
				Statement: entry.Statement,
				Type:      jobType,
				Source:    entry.SourceName(),
				Context:   entry.Context,
				Frequency: 1,
			})
		}
	}

	return e.Aggregate(jobs)
}

// Aggregate merges jobs whose statements share a normalization key.
// The first job seen for a key is kept and absorbs the frequency of later
// duplicates; output preserves first-seen order. Input is not modified.
func (e *JobExtractor) Aggregate(jobs []model.Job) []model.Job {
	index := make(map[string]int, len(jobs))
	var combined []model.Job

	for _, job := range jobs {
		key := e.normalizer.Normalize(job.Statement)
		if i, ok := index[key]; ok {
			combined[i].Frequency += job.Frequency
			continue
		}
		index[key] = len(combined)
		combined = append(combined, job)
	}

	return combined
}

// Package rank orders themes and jobs by how often they were observed.
// All sorts are stable: equal counts keep their input order.
package rank

import (
	"sort"

	"github.com/ppiankov/jtbd/internal/model"
)

// Themes returns themes sorted by total frequency, highest first
func Themes(themes []model.Theme) []model.Theme {
	ranked := make([]model.Theme, len(themes))
	copy(ranked, themes)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalFrequency > ranked[j].TotalFrequency
	})
	return ranked
}

// Jobs returns jobs sorted by frequency, highest first
func Jobs(jobs []model.Job) []model.Job {
	ranked := make([]model.Job, len(jobs))
	copy(ranked, jobs)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})
	return ranked
}

// FilterByType returns the ranked jobs of one type. The result is never nil.
func FilterByType(jobs []model.Job, jobType model.JobType) []model.Job {
	filtered := []model.Job{}
	for _, job := range jobs {
		if job.Type == jobType {
			filtered = append(filtered, job)
		}
	}
	return Jobs(filtered)
}

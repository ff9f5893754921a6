package model

// Theme is a named cluster of related jobs
type Theme struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Jobs           []Job  `json:"jobs"`
	JobCount       int    `json:"job_count"`
	TotalFrequency int    `json:"total_frequency"` // Always the sum of Jobs[].Frequency
}

// NewTheme builds a theme and derives its counters from jobs
func NewTheme(name, description string, jobs []Job) Theme {
	return Theme{
		Name:           name,
		Description:    description,
		Jobs:           jobs,
		JobCount:       len(jobs),
		TotalFrequency: SumFrequency(jobs),
	}
}

// SumFrequency returns the total frequency of the given jobs
func SumFrequency(jobs []Job) int {
	total := 0
	for _, j := range jobs {
		total += j.Frequency
	}
	return total
}

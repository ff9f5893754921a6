package model

// UnknownSource is used for entries that do not name their source
const UnknownSource = "Unknown"

// ResearchEntry is a single piece of research evidence (interview quote, survey answer, review)
type ResearchEntry struct {
	Statement string `json:"statement"`         // What the participant said or wrote
	Source    string `json:"source,omitempty"`  // Where it came from (e.g., "Interview 3", "Survey")
	Context   string `json:"context,omitempty"` // Free-text context around the statement
}

// SourceName returns the entry source, falling back to UnknownSource
func (e ResearchEntry) SourceName() string {
	if e.Source == "" {
		return UnknownSource
	}
	return e.Source
}

// Corpus is the combined research data for one topic
type Corpus struct {
	Topic        string          `json:"topic,omitempty"`
	Sources      []string        `json:"sources"`
	ResearchData []ResearchEntry `json:"research_data"`
}

// IsEmpty reports whether the corpus has no research entries
func (c Corpus) IsEmpty() bool {
	return len(c.ResearchData) == 0
}

// Merge appends another corpus into this one, keeping Sources a set
func (c *Corpus) Merge(other Corpus) {
	seen := make(map[string]bool, len(c.Sources))
	for _, s := range c.Sources {
		seen[s] = true
	}
	for _, s := range other.Sources {
		if !seen[s] {
			seen[s] = true
			c.Sources = append(c.Sources, s)
		}
	}
	c.ResearchData = append(c.ResearchData, other.ResearchData...)
}

package extract

import (
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
)

// Indicator phrases per job type. A statement gets a type when any phrase of
// that type occurs as a substring of its lowercased statement and context.
var (
	functionalIndicators = []string{
		"need to", "have to", "want to", "trying to", "easier", "faster",
		"efficient", "help me", "allows me", "lets me", "enables me",
		"accomplish", "complete", "finish", "get done", "achieve",
	}

	socialIndicators = []string{
		"others think", "people see", "impression", "look good",
		"respected", "admired", "recognized", "status", "reputation",
		"colleagues", "friends", "family", "peers", "society",
		"community", "belong", "fit in", "stand out",
	}

	emotionalIndicators = []string{
		"feel", "feeling", "happy", "satisfied", "frustrated", "anxious",
		"worry", "stress", "peace of mind", "confidence", "trust",
		"comfortable", "uncomfortable", "enjoy", "love", "hate",
		"fear", "excited", "bored", "overwhelmed",
	}
)

// Lexicon maps each job type to its indicator phrases
type Lexicon map[model.JobType][]string

// DefaultLexicon returns the built-in indicator lists
func DefaultLexicon() Lexicon {
	return Lexicon{
		model.JobFunctional: functionalIndicators,
		model.JobSocial:     socialIndicators,
		model.JobEmotional:  emotionalIndicators,
	}
}

// Match records which indicator assigned a job type
type Match struct {
	Type      model.JobType
	Indicator string // Empty when the type was assigned by default
}

// JobClassifier assigns job types to statements by keyword matching
type JobClassifier struct {
	lexicon Lexicon
}

// NewJobClassifier creates a classifier with the built-in lexicon
func NewJobClassifier() *JobClassifier {
	return &JobClassifier{lexicon: DefaultLexicon()}
}

// Classify returns every job type whose indicators occur in the statement or
// its context. It never returns an empty set: unmatched statements are functional.
func (c *JobClassifier) Classify(statement, context string) model.TypeSet {
	var set model.TypeSet
	for _, m := range c.ClassifyDetailed(statement, context) {
		set = set.With(m.Type)
	}
	return set
}

// ClassifyDetailed is Classify with the first matching indicator per type
func (c *JobClassifier) ClassifyDetailed(statement, context string) []Match {
	text := strings.ToLower(statement) + " " + strings.ToLower(context)

	var matches []Match
	for _, jobType := range model.JobTypes {
		for _, indicator := range c.lexicon[jobType] {
			if strings.Contains(text, indicator) {
				matches = append(matches, Match{Type: jobType, Indicator: indicator})
				break // Only match once per type
			}
		}
	}

	if len(matches) == 0 {
		matches = append(matches, Match{Type: model.JobFunctional})
	}

	return matches
}

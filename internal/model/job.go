package model

// JobType categorizes a job to be done
type JobType string

const (
	JobFunctional JobType = "functional" // Task-oriented: what the user is trying to get done
	JobSocial     JobType = "social"     // Perception-oriented: how the user wants to be seen
	JobEmotional  JobType = "emotional"  // Feeling-oriented: how the user wants to feel
)

// JobTypes lists every job type in classification scan order
var JobTypes = []JobType{JobFunctional, JobSocial, JobEmotional}

// TypeSet is an ordered set of job types.
// Order always follows JobTypes regardless of insertion order.
type TypeSet struct {
	bits uint8
}

func typeBit(t JobType) uint8 {
	for i, jt := range JobTypes {
		if jt == t {
			return 1 << i
		}
	}
	return 0
}

// NewTypeSet builds a set from the given types
func NewTypeSet(types ...JobType) TypeSet {
	var s TypeSet
	for _, t := range types {
		s = s.With(t)
	}
	return s
}

// With returns a copy of the set including t
func (s TypeSet) With(t JobType) TypeSet {
	s.bits |= typeBit(t)
	return s
}

// Has reports whether t is in the set
func (s TypeSet) Has(t JobType) bool {
	b := typeBit(t)
	return b != 0 && s.bits&b != 0
}

// Len returns the number of types in the set
func (s TypeSet) Len() int {
	n := 0
	for _, t := range JobTypes {
		if s.Has(t) {
			n++
		}
	}
	return n
}

// Types returns the members in scan order
func (s TypeSet) Types() []JobType {
	out := make([]JobType, 0, len(JobTypes))
	for _, t := range JobTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// Job is a classified statement with an occurrence count
type Job struct {
	Statement string  `json:"statement"`
	Type      JobType `json:"type"`
	Source    string  `json:"source"`
	Context   string  `json:"context"`
	Frequency int     `json:"frequency"` // >= 1; number of merged occurrences
}

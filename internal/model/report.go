package model

// AnalysisType distinguishes a full analysis from one run on partial data
type AnalysisType string

const (
	AnalysisFull    AnalysisType = "full"
	AnalysisPartial AnalysisType = "partial"
)

// AnalysisResult is the complete output of a JTBD analysis for one topic
type AnalysisResult struct {
	Topic          string             `json:"topic"`
	AnalysisType   AnalysisType       `json:"analysis_type"`
	Themes         []Theme            `json:"themes"`          // Ranked by total frequency
	FunctionalJobs []Job              `json:"functional_jobs"` // Ranked by frequency
	SocialJobs     []Job              `json:"social_jobs"`
	EmotionalJobs  []Job              `json:"emotional_jobs"`
	Sources        []string           `json:"sources"`
	DataPoints     int                `json:"data_points"`
	Reliability    *ReliabilityReport `json:"reliability,omitempty"` // Only for partial analyses

	LLM *LLMSummary `json:"llm,omitempty"` // Optional narrative, never affects the analysis
}

// JobsOfType returns the ranked job list for a job type
func (r *AnalysisResult) JobsOfType(t JobType) []Job {
	switch t {
	case JobFunctional:
		return r.FunctionalJobs
	case JobSocial:
		return r.SocialJobs
	case JobEmotional:
		return r.EmotionalJobs
	default:
		return nil
	}
}

// ErrorResult is rendered in place of an AnalysisResult when analysis cannot run
type ErrorResult struct {
	Error string `json:"error"`
}

// ReliabilityLevel grades how much the data can be trusted
type ReliabilityLevel string

const (
	ReliabilityLow    ReliabilityLevel = "low"
	ReliabilityMedium ReliabilityLevel = "medium"
	ReliabilityHigh   ReliabilityLevel = "high"
)

// ReliabilityFactors are the inputs behind a reliability level
type ReliabilityFactors struct {
	SourceCount      int  `json:"source_count"`
	DataPointCount   int  `json:"data_point_count"`
	HasTriangulation bool `json:"has_triangulation"` // >= 2 sources, each with >= 2 entries
}

// ReliabilityReport describes data sufficiency for a partial analysis
type ReliabilityReport struct {
	Level       ReliabilityLevel   `json:"level"`
	Factors     ReliabilityFactors `json:"factors"`
	Description string             `json:"description"`
}

// LLMSummary contains an optional LLM-generated narrative of the analysis.
// It is generated after the analysis and never changes it.
type LLMSummary struct {
	Enabled      bool     `json:"enabled"`
	Provider     string   `json:"provider,omitempty"`
	Model        string   `json:"model,omitempty"`
	StrictQuotes bool     `json:"strict_quotes"` // Whether quote verification was enforced
	SummaryMD    string   `json:"summary_md,omitempty"`
	Warnings     []string `json:"warnings,omitempty"`
}

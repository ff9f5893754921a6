package model

// Question kinds used in survey questions
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionScale          = "scale"
	QuestionLikert         = "likert"
	QuestionOpenEnded      = "open_ended"
)

// SurveyQuestion is one question of a suggested survey
type SurveyQuestion struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Options  []string `json:"options,omitempty"`
}

// ResearchMethod is a recommended way of collecting more data
type ResearchMethod struct {
	Method      string `json:"method"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // High, Medium, Low
}

// SampleSize is a recommended sample size for one research method
type SampleSize struct {
	Min           int    `json:"min"`
	Ideal         int    `json:"ideal"`
	Justification string `json:"justification"`
}

// ResearchPlan tells the user what research to run next for a topic
type ResearchPlan struct {
	Topic              string                `json:"topic"`
	ResearchGoals      []string              `json:"research_goals"`
	InterviewQuestions []string              `json:"interview_questions"`
	SurveyQuestions    []SurveyQuestion      `json:"survey_questions"`
	RecommendedMethods []ResearchMethod      `json:"recommended_methods"`
	SampleSizes        map[string]SampleSize `json:"sample_size_recommendations"`
}

// Completeness is the triage verdict on how much data exists for a topic
type Completeness string

const (
	CompletenessComplete Completeness = "complete"
	CompletenessPartial  Completeness = "partial"
	CompletenessNone     Completeness = "none"
)

// TriageResult is the routing decision for a user query
type TriageResult struct {
	Query        string       `json:"query"`
	Topic        string       `json:"topic"`
	Completeness Completeness `json:"data_completeness"`
}

// Response is what a routed query produces. Exactly one shape is populated:
// a full analysis, a partial analysis with research suggestions, or a plan only.
type Response struct {
	Triage              TriageResult    `json:"triage"`
	Analysis            *AnalysisResult `json:"jtbd_analysis,omitempty"`
	ResearchSuggestions *ResearchPlan   `json:"research_suggestions,omitempty"`
	Note                string          `json:"note,omitempty"`
}

// Package research builds research plans for topics that lack enough data.
package research

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
)

// Planner generates research plans.
// Question sampling is seeded, so the same topic and analysis always yield the same plan.
type Planner struct {
	cfg model.ResearchConfig
}

// NewPlanner creates a planner with the given settings
func NewPlanner(cfg model.ResearchConfig) *Planner {
	return &Planner{cfg: cfg}
}

// Plan builds a research plan for topic. A partial analysis, when given,
// steers goals, methods and sample sizes toward its gaps.
func (p *Planner) Plan(topic string, existing *model.AnalysisResult) model.ResearchPlan {
	rng := rand.New(rand.NewSource(p.cfg.Seed))
	goals := p.Goals(topic, existing)

	return model.ResearchPlan{
		Topic:              topic,
		ResearchGoals:      goals,
		InterviewQuestions: p.interviewQuestions(topic, goals, rng),
		SurveyQuestions:    p.surveyQuestions(topic, goals),
		RecommendedMethods: p.Methods(topic, existing),
		SampleSizes:        p.SampleSizes(existing),
	}
}

// Goals returns the research goals: base goals, gap goals from the analysis, then topic goals
func (p *Planner) Goals(topic string, existing *model.AnalysisResult) []string {
	goals := []string{
		fmt.Sprintf("Identify the key functional jobs users are trying to accomplish related to %s", topic),
		fmt.Sprintf("Understand the emotional needs users have when engaging with %s", topic),
		fmt.Sprintf("Discover the social context and implications of %s for users", topic),
	}

	if existing != nil {
		for _, jobType := range model.JobTypes {
			if len(existing.JobsOfType(jobType)) < 3 {
				goals = append(goals, fmt.Sprintf("Expand understanding of %s jobs related to %s", jobType, topic))
			}
		}

		if reliabilityLevel(existing) == model.ReliabilityLow {
			goals = append(goals, "Validate preliminary findings by gathering more diverse data")
		}

		if theme, ok := smallestTheme(existing.Themes); ok && theme.Name != "" {
			goals = append(goals, fmt.Sprintf("Gather more data about the '%s' theme to strengthen analysis", theme.Name))
		}
	}

	goals = append(goals,
		fmt.Sprintf("Identify the main pain points users experience with current %s solutions", topic),
		fmt.Sprintf("Understand user expectations and desired outcomes when using %s", topic),
		fmt.Sprintf("Discover unmet needs in the %s space that could inform innovation", topic),
	)

	return goals
}

// interviewQuestions samples from every question pool, adds two questions for
// each of the first two goals, and drops repeats keeping first occurrence
func (p *Planner) interviewQuestions(topic string, goals []string, rng *rand.Rand) []string {
	pools := map[model.JobType][]string{
		model.JobFunctional: functionalQuestions(topic),
		model.JobEmotional:  emotionalQuestions(topic),
		model.JobSocial:     socialQuestions(topic),
	}

	var all []string
	all = append(all, generalQuestions(topic)...)
	all = append(all, pools[model.JobFunctional]...)
	all = append(all, pools[model.JobEmotional]...)
	all = append(all, pools[model.JobSocial]...)

	selected := sample(all, p.cfg.InterviewQuestions, rng)

	for _, goal := range firstN(goals, 2) {
		if jobType, ok := goalJobType(goal); ok {
			selected = append(selected, sample(pools[jobType], 2, rng)...)
		}
	}

	return unique(selected)
}

func (p *Planner) surveyQuestions(topic string, goals []string) []model.SurveyQuestion {
	questions := surveyQuestions(topic)

	for _, goal := range firstN(goals, 3) {
		if jobType, ok := goalJobType(goal); ok {
			questions = append(questions, goalSurveyQuestion(topic, jobType))
		}
	}

	return questions
}

// Methods recommends research methods, prioritized by the gaps of an existing analysis
func (p *Planner) Methods(topic string, existing *model.AnalysisResult) []model.ResearchMethod {
	methods := []model.ResearchMethod{
		{
			Method:      "User Interviews",
			Description: fmt.Sprintf("One-on-one interviews with current or potential users of %s to deeply understand their needs, motivations, and pain points.", topic),
			Priority:    "High",
		},
		{
			Method:      "Surveys",
			Description: fmt.Sprintf("Quantitative data collection to understand patterns across a larger user base for %s.", topic),
			Priority:    "Medium",
		},
		{
			Method:      "Contextual Inquiry",
			Description: fmt.Sprintf("Observing users in their natural environment while they interact with %s to identify unspoken needs and workarounds.", topic),
			Priority:    "Medium",
		},
		{
			Method:      "Diary Studies",
			Description: fmt.Sprintf("Having users document their experiences with %s over time to capture real-time feedback and evolving needs.", topic),
			Priority:    "Low",
		},
	}

	if existing == nil {
		return methods
	}

	if reliabilityLevel(existing) == model.ReliabilityLow {
		for i := range methods {
			if methods[i].Method == "User Interviews" || methods[i].Method == "Contextual Inquiry" {
				methods[i].Priority = "High"
			}
		}
		methods = append(methods, model.ResearchMethod{
			Method:      "Focus Groups",
			Description: fmt.Sprintf("Group discussions with 6-8 users to explore collective opinions and experiences with %s.", topic),
			Priority:    "Medium",
		})
	}

	switch scarcestJobType(existing) {
	case model.JobSocial:
		methods = append(methods, model.ResearchMethod{
			Method:      "Social Media Analysis",
			Description: fmt.Sprintf("Analyzing how users discuss %s on social platforms to understand social context and influence.", topic),
			Priority:    "High",
		})
	case model.JobEmotional:
		methods = append(methods, model.ResearchMethod{
			Method:      "Sentiment Analysis",
			Description: fmt.Sprintf("Analyzing user reviews and feedback to understand emotional responses to %s.", topic),
			Priority:    "High",
		})
	}

	return methods
}

// SampleSizes recommends sample sizes, reduced by the data an analysis already has
func (p *Planner) SampleSizes(existing *model.AnalysisResult) map[string]model.SampleSize {
	interviews := model.SampleSize{
		Min:           8,
		Ideal:         12,
		Justification: "8-12 interviews typically reveal most major patterns in qualitative research.",
	}
	surveys := model.SampleSize{
		Min:           100,
		Ideal:         300,
		Justification: "A sample of 300+ provides good statistical power for most analyses.",
	}
	inquiry := model.SampleSize{
		Min:           4,
		Ideal:         6,
		Justification: "4-6 contextual inquiries balance depth with resource constraints.",
	}

	if existing != nil && existing.Reliability != nil {
		factors := existing.Reliability.Factors

		if factors.SourceCount > 0 {
			interviews.Min = max(5, 8-factors.SourceCount)
			interviews.Ideal = max(8, 12-factors.SourceCount)
			interviews.Justification += fmt.Sprintf(" Currently have %d sources.", factors.SourceCount)
		}

		if factors.DataPointCount > 0 {
			surveys.Min = max(50, 100-factors.DataPointCount)
			surveys.Ideal = max(150, 300-factors.DataPointCount)
			surveys.Justification += fmt.Sprintf(" Currently have %d data points.", factors.DataPointCount)
		}
	}

	return map[string]model.SampleSize{
		"interviews":         interviews,
		"surveys":            surveys,
		"contextual_inquiry": inquiry,
	}
}

// reliabilityLevel treats an analysis without a reliability report as low
func reliabilityLevel(r *model.AnalysisResult) model.ReliabilityLevel {
	if r.Reliability == nil || r.Reliability.Level == "" {
		return model.ReliabilityLow
	}
	return r.Reliability.Level
}

// smallestTheme returns the first theme with the fewest jobs
func smallestTheme(themes []model.Theme) (model.Theme, bool) {
	if len(themes) == 0 {
		return model.Theme{}, false
	}
	smallest := themes[0]
	for _, t := range themes[1:] {
		if t.JobCount < smallest.JobCount {
			smallest = t
		}
	}
	return smallest, true
}

// scarcestJobType returns the job type with the fewest jobs; ties go to scan order
func scarcestJobType(r *model.AnalysisResult) model.JobType {
	scarcest := model.JobTypes[0]
	for _, t := range model.JobTypes[1:] {
		if len(r.JobsOfType(t)) < len(r.JobsOfType(scarcest)) {
			scarcest = t
		}
	}
	return scarcest
}

// goalJobType detects which job type a goal is about
func goalJobType(goal string) (model.JobType, bool) {
	lower := strings.ToLower(goal)
	for _, t := range []model.JobType{model.JobFunctional, model.JobEmotional, model.JobSocial} {
		if strings.Contains(lower, string(t)) {
			return t, true
		}
	}
	return "", false
}

// sample picks up to n distinct items in random order
func sample(items []string, n int, rng *rand.Rand) []string {
	n = min(max(n, 0), len(items))
	out := make([]string, 0, n)
	for _, i := range rng.Perm(len(items))[:n] {
		out = append(out, items[i])
	}
	return out
}

func firstN(items []string, n int) []string {
	if len(items) < n {
		return items
	}
	return items[:n]
}

func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			out = append(out, item)
		}
	}
	return out
}

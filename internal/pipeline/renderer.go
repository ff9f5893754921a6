package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ppiankov/jtbd/internal/llm"
	"github.com/ppiankov/jtbd/internal/model"
)

const footer = "_Generated by jtbd. Themes are statistical groupings of participant statements and should be validated with further research._\n"

// Renderer writes analyses, research plans and routed responses as JSON or
// Markdown files, and prints a short summary to the terminal.
type Renderer struct {
	includeFooter bool
	out           io.Writer
}

// NewRenderer creates a renderer printing terminal output to out (stdout if nil)
func NewRenderer(includeFooter bool, out io.Writer) *Renderer {
	if out == nil {
		out = os.Stdout
	}
	return &Renderer{includeFooter: includeFooter, out: out}
}

// RenderJSON writes v as indented JSON to path, or to the terminal when path is "" or "-"
func (r *Renderer) RenderJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')
	return r.write(data, path)
}

// RenderMarkdown writes markdown to path, or to the terminal when path is "" or "-"
func (r *Renderer) RenderMarkdown(markdown, path string) error {
	return r.write([]byte(markdown), path)
}

// RenderError writes the JSON error document for err
func (r *Renderer) RenderError(err error, path string) error {
	return r.RenderJSON(ErrorResultFor(err), path)
}

// ErrorResultFor maps an error to the document rendered in place of a result
func ErrorResultFor(err error) model.ErrorResult {
	if errors.Is(err, model.ErrNoResearchData) {
		return model.ErrorResult{Error: model.NoDataMessage}
	}
	return model.ErrorResult{Error: err.Error()}
}

func (r *Renderer) write(data []byte, path string) error {
	if path == "" || path == "-" {
		_, err := r.out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderLLMSummary writes the LLM narrative next to mdPath as <name>.llm.md.
// It returns the written path, or "" when there is nothing to write.
func (r *Renderer) RenderLLMSummary(result *model.AnalysisResult, mdPath string) (string, error) {
	if result == nil || mdPath == "" || mdPath == "-" {
		return "", nil
	}
	md := llm.RenderSeparateMarkdown(result.LLM)
	if md == "" {
		return "", nil
	}
	path := strings.TrimSuffix(mdPath, ".md") + ".llm.md"
	return path, r.RenderMarkdown(md, path)
}

// ResponseMarkdown renders a routed response
func (r *Renderer) ResponseMarkdown(resp *model.Response) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Jobs To Be Done: %s\n\n", resp.Triage.Topic)
	fmt.Fprintf(&b, "**Data completeness:** %s\n\n", resp.Triage.Completeness)
	if resp.Note != "" {
		fmt.Fprintf(&b, "> %s\n\n", resp.Note)
	}
	if resp.Analysis != nil {
		writeAnalysis(&b, resp.Analysis, "##")
	}
	if resp.ResearchSuggestions != nil {
		writePlan(&b, resp.ResearchSuggestions, "##")
	}

	r.writeFooter(&b)
	return b.String()
}

// AnalysisMarkdown renders a single analysis
func (r *Renderer) AnalysisMarkdown(result *model.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Jobs To Be Done: %s\n\n", result.Topic)
	writeAnalysis(&b, result, "##")
	r.writeFooter(&b)
	return b.String()
}

// PlanMarkdown renders a single research plan
func (r *Renderer) PlanMarkdown(plan *model.ResearchPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Plan: %s\n\n", plan.Topic)
	writePlan(&b, plan, "##")
	r.writeFooter(&b)
	return b.String()
}

func (r *Renderer) writeFooter(b *strings.Builder) {
	if r.includeFooter {
		b.WriteString("\n---\n\n")
		b.WriteString(footer)
	}
}

func writeAnalysis(b *strings.Builder, result *model.AnalysisResult, h string) {
	fmt.Fprintf(b, "%s Analysis (%s)\n\n", h, result.AnalysisType)
	fmt.Fprintf(b, "- **Data points:** %d\n", result.DataPoints)
	fmt.Fprintf(b, "- **Sources:** %s\n", joinOrNone(result.Sources))
	if rel := result.Reliability; rel != nil {
		fmt.Fprintf(b, "- **Reliability:** %s (%d sources, %d data points, triangulation: %t)\n",
			rel.Level, rel.Factors.SourceCount, rel.Factors.DataPointCount, rel.Factors.HasTriangulation)
		fmt.Fprintf(b, "\n%s\n", rel.Description)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "%s# Themes\n\n", h)
	for i, theme := range result.Themes {
		fmt.Fprintf(b, "%d. **%s** (%d jobs, frequency %d)\n   %s\n", i+1, theme.Name, theme.JobCount, theme.TotalFrequency, theme.Description)
	}
	b.WriteString("\n")

	for _, t := range model.JobTypes {
		jobs := result.JobsOfType(t)
		fmt.Fprintf(b, "%s# %s Jobs\n\n", h, titleWord(string(t)))
		if len(jobs) == 0 {
			b.WriteString("_None found._\n\n")
			continue
		}
		b.WriteString("| Statement | Frequency | Source |\n|---|---|---|\n")
		for _, job := range jobs {
			fmt.Fprintf(b, "| %s | %d | %s |\n", escapeCell(job.Statement), job.Frequency, escapeCell(job.Source))
		}
		b.WriteString("\n")
	}

	if result.LLM != nil && result.LLM.Enabled {
		fmt.Fprintf(b, "_An LLM narrative from %s is available in the separate .llm.md report._\n\n", result.LLM.Provider)
	}
}

func writePlan(b *strings.Builder, plan *model.ResearchPlan, h string) {
	fmt.Fprintf(b, "%s Research Plan\n\n", h)

	fmt.Fprintf(b, "%s# Goals\n\n", h)
	for _, g := range plan.ResearchGoals {
		fmt.Fprintf(b, "- %s\n", g)
	}

	fmt.Fprintf(b, "\n%s# Interview Questions\n\n", h)
	for i, q := range plan.InterviewQuestions {
		fmt.Fprintf(b, "%d. %s\n", i+1, q)
	}

	fmt.Fprintf(b, "\n%s# Survey Questions\n\n", h)
	for i, q := range plan.SurveyQuestions {
		fmt.Fprintf(b, "%d. %s _(%s)_\n", i+1, q.Question, q.Type)
		if len(q.Options) > 0 {
			fmt.Fprintf(b, "   Options: %s\n", strings.Join(q.Options, " / "))
		}
	}

	fmt.Fprintf(b, "\n%s# Recommended Methods\n\n", h)
	for _, m := range plan.RecommendedMethods {
		fmt.Fprintf(b, "- **%s** (%s priority): %s\n", m.Method, m.Priority, m.Description)
	}

	fmt.Fprintf(b, "\n%s# Sample Sizes\n\n", h)
	methods := make([]string, 0, len(plan.SampleSizes))
	for m := range plan.SampleSizes {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		s := plan.SampleSizes[m]
		fmt.Fprintf(b, "- **%s:** %d minimum, %d ideal. %s\n", m, s.Min, s.Ideal, s.Justification)
	}
	b.WriteString("\n")
}

// RenderSummary prints a short overview of a response to the terminal
func (r *Renderer) RenderSummary(resp *model.Response) {
	fmt.Fprintf(r.out, "Topic: %s (%s data)\n", resp.Triage.Topic, resp.Triage.Completeness)

	if a := resp.Analysis; a != nil {
		fmt.Fprintf(r.out, "  %s analysis of %d data points from %d sources\n", a.AnalysisType, a.DataPoints, len(a.Sources))
		fmt.Fprintf(r.out, "  Jobs: %d functional, %d emotional, %d social\n", len(a.FunctionalJobs), len(a.EmotionalJobs), len(a.SocialJobs))
		for i, theme := range a.Themes {
			if i >= 3 {
				fmt.Fprintf(r.out, "  ... and %d more themes\n", len(a.Themes)-3)
				break
			}
			fmt.Fprintf(r.out, "  Theme %d: %s (frequency %d)\n", i+1, theme.Name, theme.TotalFrequency)
		}
		if a.Reliability != nil {
			fmt.Fprintf(r.out, "  Reliability: %s\n", a.Reliability.Level)
		}
	}

	if p := resp.ResearchSuggestions; p != nil {
		fmt.Fprintf(r.out, "  Research plan: %d goals, %d interview questions, %d survey questions\n",
			len(p.ResearchGoals), len(p.InterviewQuestions), len(p.SurveyQuestions))
	}

	if resp.Note != "" {
		fmt.Fprintf(r.out, "  Note: %s\n", resp.Note)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func titleWord(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", `\|`), "\n", " ")
}

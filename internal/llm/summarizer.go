package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
	"github.com/ppiankov/jtbd/internal/worker"
)

// Summarizer adds an optional narrative to an analysis result.
// Failures never fail the analysis; they are reported as warnings.
type Summarizer struct {
	provider Provider
	config   Config
	limiter  *worker.Limiter
}

// NewSummarizer creates a summarizer. An empty provider yields a disabled summarizer.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// WithLimiter throttles provider calls through a shared limiter
func (s *Summarizer) WithLimiter(l *worker.Limiter) *Summarizer {
	s.limiter = l
	return s
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s != nil && s.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (s *Summarizer) ProviderName() string {
	if !s.IsEnabled() {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary narrates an analysis result.
// Returns nil, nil when the summarizer is disabled.
func (s *Summarizer) GenerateSummary(ctx context.Context, result *model.AnalysisResult) (*model.LLMSummary, error) {
	if !s.IsEnabled() || result == nil {
		return nil, nil
	}

	name := s.provider.Name()
	summary := &model.LLMSummary{
		Provider:     name,
		Model:        s.config.Model,
		StrictQuotes: s.config.StrictQuotes,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM provider %s is not available", name))
		return summary, nil
	}
	summary.Enabled = true

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx, name); err != nil {
			summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary failed: %v", err))
			return summary, nil
		}
	}

	allowed := AllowedQuotes(result)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Result:        result,
		AllowedQuotes: allowed,
		Model:         s.config.Model,
		MaxTokens:     s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}
	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.StrictQuotes {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("Verified %d quotes against the research data", len(resp.Quotes)))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders a summary as its own markdown document,
// kept apart from the analysis report.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT.** This narrative was written by a language model from the analysis below. ")
	b.WriteString("Themes, jobs and reliability were determined independently of the model.\n\n")

	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Quote Mode:** %t\n\n", summary.StrictQuotes)

	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}

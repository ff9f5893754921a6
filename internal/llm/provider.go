package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ppiankov/jtbd/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a narrative of the analysis, quoting only research statements
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Result is the analysis to narrate
	Result *model.AnalysisResult

	// AllowedQuotes are the job statements the LLM may quote.
	// With strict quotes on, any other quoted text fails the request.
	AllowedQuotes []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// Quotes are the quoted passages found in the summary
	Quotes []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictQuotes rejects summaries quoting text outside the research data
	StrictQuotes bool

	// MaxTokens for response generation
	MaxTokens int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:     "", // Disabled by default
		Timeout:      30,
		StrictQuotes: true,
		MaxTokens:    800,
	}
}

const systemPrompt = "You are a product researcher who summarizes Jobs-To-Be-Done analyses using only the statements you are given."

// maxPromptQuotes bounds the statement list sent to the model
const maxPromptQuotes = 20

// BuildPrompt constructs the default prompt for summarizing an analysis
func BuildPrompt(result *model.AnalysisResult, allowedQuotes []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a Jobs-To-Be-Done analysis of user research about %q.

RULES:
1. You may ONLY quote statements from this list, word for word:
%s

2. DO NOT invent user statements, numbers or sources.
3. If the data is thin, say so explicitly.
4. Describe what users are trying to get done, how they want to feel and how they want to be seen.

Analysis:
- Analysis type: %s
- Data points: %d
- Sources: %s
- Functional jobs: %d
- Emotional jobs: %d
- Social jobs: %d
`, result.Topic, joinQuotes(allowedQuotes), result.AnalysisType, result.DataPoints,
		joinSources(result.Sources), len(result.FunctionalJobs), len(result.EmotionalJobs), len(result.SocialJobs))

	if result.Reliability != nil {
		fmt.Fprintf(&b, "- Reliability: %s (%s)\n", result.Reliability.Level, result.Reliability.Description)
	}

	b.WriteString("\nThemes:\n")
	for i, theme := range result.Themes {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s: %d jobs, mentioned %d times\n", theme.Name, theme.JobCount, theme.TotalFrequency)
	}

	b.WriteString("\nWrite a 4-6 sentence summary of the most important jobs and themes.")

	return b.String()
}

// AllowedQuotes lists the job statements of a result, most frequent first per type
func AllowedQuotes(result *model.AnalysisResult) []string {
	var quotes []string
	seen := make(map[string]bool)
	for _, t := range model.JobTypes {
		for _, job := range result.JobsOfType(t) {
			if !seen[job.Statement] {
				seen[job.Statement] = true
				quotes = append(quotes, job.Statement)
			}
		}
	}
	return quotes
}

func joinQuotes(quotes []string) string {
	if len(quotes) == 0 {
		return "(No statements available)"
	}
	var b strings.Builder
	for i, q := range quotes {
		if i >= maxPromptQuotes {
			fmt.Fprintf(&b, "\n... and %d more statements", len(quotes)-maxPromptQuotes)
			break
		}
		fmt.Fprintf(&b, "\n- %q", q)
	}
	return b.String()
}

func joinSources(sources []string) string {
	if len(sources) == 0 {
		return "none"
	}
	return strings.Join(sources, ", ")
}

// quotePattern matches text in straight or curly double quotes
var quotePattern = regexp.MustCompile(`"([^"]+)"|\x{201C}([^\x{201D}]+)\x{201D}`)

// minQuoteLength ignores short quoted words used for emphasis
const minQuoteLength = 12

// extractQuotes returns the distinct quoted passages of a summary
func extractQuotes(text string) []string {
	var quotes []string
	seen := make(map[string]bool)
	for _, m := range quotePattern.FindAllStringSubmatch(text, -1) {
		q := m[1]
		if q == "" {
			q = m[2]
		}
		q = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(q), ".,;:!?"))
		if len(q) < minQuoteLength || seen[q] {
			continue
		}
		seen[q] = true
		quotes = append(quotes, q)
	}
	return quotes
}

// verifyQuotes checks every quote against the allowed statements.
// A quote passes when it appears, case-insensitively, inside one of them.
func verifyQuotes(quotes, allowed []string) error {
	for _, q := range quotes {
		if !quotedFrom(q, allowed) {
			return fmt.Errorf("QUOTE LEAK: LLM quoted text not found in research data: %q", q)
		}
	}
	return nil
}

func quotedFrom(quote string, allowed []string) bool {
	q := strings.ToLower(quote)
	for _, s := range allowed {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

// finishSummary extracts quotes from a raw completion and enforces strict mode
func finishSummary(raw string, req SummarizeRequest, strict bool) (string, []string, error) {
	summary := strings.TrimSpace(raw)
	quotes := extractQuotes(summary)
	if strict {
		if err := verifyQuotes(quotes, req.AllowedQuotes); err != nil {
			return "", nil, err
		}
	}
	return summary, quotes, nil
}

// resolvePrompt returns the request prompt or the default one
func resolvePrompt(req SummarizeRequest) string {
	if req.Prompt != "" {
		return req.Prompt
	}
	return BuildPrompt(req.Result, req.AllowedQuotes)
}

// resolveMaxTokens picks the request limit, then the config limit, then 1000
func resolveMaxTokens(req SummarizeRequest, config Config) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	if config.MaxTokens > 0 {
		return config.MaxTokens
	}
	return 1000
}

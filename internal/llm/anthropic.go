package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	defaultAnthropicURL   = "https://api.anthropic.com"
	defaultAnthropicModel = "claude-3-5-haiku-20241022"
	anthropicVersion      = "2023-06-01"
)

// AnthropicProvider summarizes with Claude over the Messages API
type AnthropicProvider struct {
	api    *jsonClient
	config Config
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicResponse struct {
	Model      string           `json:"model"`
	Content    []anthropicBlock `json:"content"`
	StopReason string           `json:"stop_reason"`
	Usage      anthropicUsage   `json:"usage"`
}

// text joins the text blocks of a reply
func (r *anthropicResponse) text() string {
	var parts []string
	for _, b := range r.Content {
		if b.Type == "text" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}

// NewAnthropicProvider creates an Anthropic provider; an API key is required
func NewAnthropicProvider(config Config) (*AnthropicProvider, error) {
	if config.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultAnthropicURL
	}

	api := newJSONClient(baseURL, config.Timeout, 30*time.Second)
	api.headers["x-api-key"] = config.APIKey
	api.headers["anthropic-version"] = anthropicVersion
	api.errorMessage = func(body []byte) string {
		var e struct {
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil || e.Error.Type == "" {
			return ""
		}
		return e.Error.Type + " - " + e.Error.Message
	}

	return &AnthropicProvider{api: api, config: config}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// IsAvailable sends a one-token completion; the API has no free health endpoint
func (p *AnthropicProvider) IsAvailable(ctx context.Context) bool {
	var out anthropicResponse
	err := p.api.post(ctx, "/v1/messages", anthropicRequest{
		Model:     p.model(""),
		MaxTokens: 1,
		Messages:  []anthropicMessage{{Role: "user", Content: "Hi"}},
	}, &out)
	return err == nil
}

func (p *AnthropicProvider) model(requested string) string {
	if requested != "" {
		return requested
	}
	if p.config.Model != "" {
		return p.config.Model
	}
	return defaultAnthropicModel
}

// Summarize asks Claude for a narrative summary of the analysis
func (p *AnthropicProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	var out anthropicResponse
	err := p.api.post(ctx, "/v1/messages", anthropicRequest{
		Model:       p.model(req.Model),
		MaxTokens:   resolveMaxTokens(req, p.config),
		System:      systemPrompt,
		Messages:    []anthropicMessage{{Role: "user", Content: resolvePrompt(req)}},
		Temperature: 0.3,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	text := out.text()
	if text == "" {
		return nil, errors.New("no content in anthropic response")
	}

	summary, quotes, err := finishSummary(text, req, p.config.StrictQuotes)
	if err != nil {
		return nil, err
	}

	return &SummarizeResponse{
		Summary:    summary,
		Quotes:     quotes,
		Model:      out.Model,
		TokensUsed: out.Usage.InputTokens + out.Usage.OutputTokens,
	}, nil
}

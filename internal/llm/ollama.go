package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaProvider summarizes with a local model served by Ollama
type OllamaProvider struct {
	api    *jsonClient
	config Config
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

// ollamaResponse keeps the fields of a non-streaming /api/generate reply we read.
// The counts are only present once done is true.
type ollamaResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count,omitempty"`
	EvalCount       int    `json:"eval_count,omitempty"`
}

// NewOllamaProvider creates an Ollama provider. Local models are slow to load,
// so the default timeout is twice the hosted one.
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}

	api := newJSONClient(baseURL, config.Timeout, 60*time.Second)
	api.errorMessage = func(body []byte) string {
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil {
			return ""
		}
		return e.Error
	}

	return &OllamaProvider{api: api, config: config}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable reports whether the Ollama server answers its model listing
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	return p.api.get(ctx, "/api/tags") == nil
}

// Summarize asks the configured local model for a narrative summary
func (p *OllamaProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		return nil, errors.New("ollama model must be specified (e.g., llama3.1:8b, mistral)")
	}

	prompt := resolvePrompt(req)
	var out ollamaResponse
	err := p.api.post(ctx, "/api/generate", ollamaRequest{
		Model:  model,
		Prompt: prompt,
		System: systemPrompt,
		Options: ollamaOptions{
			Temperature: 0.3,
			NumPredict:  resolveMaxTokens(req, p.config),
		},
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("ollama: %w", err)
	}

	summary, quotes, err := finishSummary(out.Response, req, p.config.StrictQuotes)
	if err != nil {
		return nil, err
	}

	// Some models report no counts; fall back to ~4 characters per token
	tokens := out.PromptEvalCount + out.EvalCount
	if tokens == 0 {
		tokens = (len(prompt) + len(summary)) / 4
	}

	return &SummarizeResponse{
		Summary:    summary,
		Quotes:     quotes,
		Model:      out.Model,
		TokensUsed: tokens,
	}, nil
}

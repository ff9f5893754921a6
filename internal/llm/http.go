package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody caps how much of a failed response ends up in an error
const maxErrorBody = 512

// jsonClient posts JSON to one provider's API
type jsonClient struct {
	baseURL string
	headers map[string]string
	http    *http.Client

	// errorMessage pulls the provider's message out of a failed response body.
	// An empty return falls back to the raw body.
	errorMessage func(body []byte) string
}

func newJSONClient(baseURL string, timeoutSeconds int, fallback time.Duration) *jsonClient {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = fallback
	}
	return &jsonClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		headers: map[string]string{},
		http: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{Proxy: http.ProxyFromEnvironment},
		},
	}
}

// get reports whether path answers 200
func (c *jsonClient) get(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// post sends in as JSON to path and decodes a 200 reply into out
func (c *jsonClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := ""
		if c.errorMessage != nil {
			msg = c.errorMessage(data)
		}
		if msg == "" {
			msg = string(data)
			if len(msg) > maxErrorBody {
				msg = msg[:maxErrorBody] + "..."
			}
		}
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func (c *jsonClient) setHeaders(req *http.Request) {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

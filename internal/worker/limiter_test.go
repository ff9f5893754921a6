package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 1 {
		t.Errorf("expected default burst 1 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://localhost:11434/api/generate"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	endpoint := "https://api.openai.com/v1"

	if err := limiter.Wait(ctx, endpoint); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Token consumed; same host on another path shares the bucket
	if limiter.Allow("https://api.openai.com/v1/chat/completions") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("http://localhost:11434") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)

	limiter.SetRate("ollama", 0.1, 1)

	if !limiter.Allow("ollama") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("ollama") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("openai") {
		t.Errorf("other provider should pass")
	}
}

func TestLimiterKey(t *testing.T) {
	if got := limiterKey("http://example.com/foo"); got != "example.com" {
		t.Errorf("expected example.com, got %s", got)
	}
	if got := limiterKey("openai"); got != "openai" {
		t.Errorf("expected openai, got %s", got)
	}
	if got := limiterKey("::invalid"); got != "::invalid" {
		t.Errorf("expected raw key for invalid URL, got %s", got)
	}
}

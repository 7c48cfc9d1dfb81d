package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "deepseek"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different key has its own bucket
	if err := limiter.Wait(ctx, "openai"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "deepseek"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 is consumed
	if limiter.Allow("deepseek") {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	if !limiter.Allow("ollama") {
		t.Errorf("expected allow for other provider")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 1)
	for i := 0; i < 100; i++ {
		if !limiter.Allow("openai") {
			t.Fatalf("call %d rejected with limiting disabled", i)
		}
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	limiter := NewLimiter(0.01, 1)
	limiter.Allow("slow")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx, "slow"); err == nil {
		t.Error("expected error when the context ends before a token is available")
	}
}

func TestLimiter_SetRate(t *testing.T) {
	limiter := NewLimiter(10, 10)

	limiter.SetRate("slow", 0.1, 1)

	if !limiter.Allow("slow") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("slow") {
		t.Errorf("second request should fail")
	}
	if !limiter.Allow("fast") {
		t.Errorf("other key should pass")
	}
}

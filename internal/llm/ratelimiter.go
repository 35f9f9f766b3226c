package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider wraps a Provider with a token bucket that caps request
// throughput at a fixed number of requests per minute.
type RateLimitedProvider struct {
	provider Provider
	rpm      int

	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewRateLimitedProvider wraps provider with a requests-per-minute cap.
// A non-positive rpm disables limiting and returns the provider unchanged.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string { return r.provider.Name() }

// Complete blocks until a token is available, then delegates to the wrapped
// provider. It returns the context error if ctx expires while waiting.
func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		r.mu.Lock()
		r.refill(time.Now())
		if r.tokens > 0 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		wait := r.interval() - time.Since(r.lastFill)
		r.mu.Unlock()
		if wait < time.Millisecond {
			wait = time.Millisecond
		}

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// refill adds the tokens earned since the last fill, capped at the burst
// size of one minute's quota.
func (r *RateLimitedProvider) refill(now time.Time) {
	earned := int(now.Sub(r.lastFill) / r.interval())
	if earned <= 0 {
		return
	}
	r.tokens += earned
	if r.tokens > r.rpm {
		r.tokens = r.rpm
	}
	r.lastFill = r.lastFill.Add(time.Duration(earned) * r.interval())
}

// interval is the time one token takes to accrue.
func (r *RateLimitedProvider) interval() time.Duration {
	return time.Minute / time.Duration(r.rpm)
}

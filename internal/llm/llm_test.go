package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned
// responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}

	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}

	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestFactoryReturnsConfigErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, p := range []string{"groq", "openai"} {
		_, err := NewProvider(p, "some-model")
		if err == nil {
			t.Errorf("expected error for provider %q with missing API key", p)
			continue
		}
		var ce *ConfigError
		if !errors.As(err, &ce) {
			t.Errorf("provider %q: expected *ConfigError, got %T", p, err)
		}
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "some-model")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesGroqProvider(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "test-key")
	provider, err := NewProvider("groq", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "groq" {
		t.Errorf("expected name 'groq', got %q", provider.Name())
	}
	groqP, ok := provider.(*GroqProvider)
	if !ok {
		t.Fatal("expected *GroqProvider")
	}
	if groqP.model != DefaultGroqModel {
		t.Errorf("expected default model %q, got %q", DefaultGroqModel, groqP.model)
	}
}

func TestFactoryCreatesOpenAIProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	provider, err := NewProvider("openai", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected name 'openai', got %q", provider.Name())
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"config", &ConfigError{Reason: "GROQ_API_KEY environment variable is not set"}, ClassConfig},
		{"wrapped config", fmt.Errorf("turn failed: %w", &ConfigError{Reason: "missing key"}), ClassConfig},
		{"rate limit text", errors.New("rate_limit_exceeded: slow down"), ClassRateLimit},
		{"status 429", errors.New("error, status code: 429"), ClassRateLimit},
		{"unauthorized", errors.New("error, status code: 401, message: Unauthorized"), ClassAuth},
		{"forbidden", errors.New("403 forbidden"), ClassAuth},
		{"connection", errors.New("dial tcp: connection refused"), ClassNetwork},
		{"timeout", errors.New("context deadline exceeded (Client.Timeout)"), ClassNetwork},
		{"other", errors.New("model exploded"), ClassGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	r := &Retrier{MaxAttempts: 3}
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	r := &Retrier{MaxAttempts: 3}
	calls := 0
	wantErr := errors.New("still broken")
	err := r.Do(context.Background(), func() error {
		calls++
		return wantErr
	})
	if err == nil {
		t.Fatal("expected error after exhausted attempts")
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("final error does not wrap the last failure: %v", err)
	}
}

func TestRetrierStopsOnConfigError(t *testing.T) {
	r := &Retrier{MaxAttempts: 3}
	calls := 0
	err := r.Do(context.Background(), func() error {
		calls++
		return &ConfigError{Reason: "missing key"}
	})
	if calls != 1 {
		t.Errorf("config error should not be retried, got %d calls", calls)
	}
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Errorf("expected *ConfigError, got %v", err)
	}
}

func TestRetrierStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Retrier{MaxAttempts: 5, Backoff: LinearBackoff(time.Hour)}
	calls := 0
	err := r.Do(ctx, func() error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("expected 1 call before cancellation stopped the retries, got %d", calls)
	}
}

func TestLinearBackoff(t *testing.T) {
	b := LinearBackoff(500 * time.Millisecond)
	if b(1) != 500*time.Millisecond {
		t.Errorf("b(1) = %v", b(1))
	}
	if b(2) != time.Second {
		t.Errorf("b(2) = %v", b(2))
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	ctx := context.Background()
	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := rl.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestRateLimiterZeroRPMDisablesLimiting(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 0)
	if rl != Provider(mock) {
		t.Error("rpm <= 0 should return the provider unwrapped")
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	// First two should succeed immediately.
	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, req); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}

	// Third should block and eventually fail due to context timeout.
	if _, err := rl.Complete(ctx, req); err == nil {
		t.Error("expected error due to rate limiting + context timeout")
	}
}

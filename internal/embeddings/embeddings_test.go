package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubEmbedder returns a fixed vector per text for bridge tests.
type stubEmbedder struct {
	calls [][]string
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	s.calls = append(s.calls, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(len(texts[i])), 1}
	}
	return out, nil
}

func (s *stubEmbedder) Dimensions() int { return 2 }
func (s *stubEmbedder) Name() string    { return "stub" }

func TestToChromemFunc(t *testing.T) {
	stub := &stubEmbedder{}
	fn := ToChromemFunc(stub)

	vec, err := fn(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embedding func failed: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("expected 2-dim vector, got %d", len(vec))
	}
	if vec[0] != 5 {
		t.Errorf("expected first component 5 (len of input), got %f", vec[0])
	}
	if len(stub.calls) != 1 || len(stub.calls[0]) != 1 || stub.calls[0][0] != "hello" {
		t.Errorf("unexpected calls recorded: %v", stub.calls)
	}
}

func TestOpenAIDimensions(t *testing.T) {
	tests := []struct {
		model OpenAIModel
		want  int
	}{
		{ModelTextEmbedding3Small, 1536},
		{ModelTextEmbedding3Large, 3072},
		{"custom-model", 1536},
	}
	for _, tt := range tests {
		e := NewOpenAIEmbedder("key", tt.model)
		if got := e.Dimensions(); got != tt.want {
			t.Errorf("Dimensions(%q) = %d, want %d", tt.model, got, tt.want)
		}
	}
}

func TestOllamaEmbedderDefaults(t *testing.T) {
	e := NewOllamaEmbedder("nomic-embed-text", 768, "")
	if e.baseURL != defaultOllamaBaseURL {
		t.Errorf("expected default base URL, got %q", e.baseURL)
	}
	if e.Dimensions() != 768 {
		t.Errorf("expected 768 dimensions, got %d", e.Dimensions())
	}
	if e.Name() != "ollama/nomic-embed-text" {
		t.Errorf("unexpected name %q", e.Name())
	}
}

func TestOllamaEmbedderBatches(t *testing.T) {
	var got ollamaEmbedRequest
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		resp := ollamaEmbedResponse{Embeddings: make([][]float32, len(got.Input))}
		for i := range resp.Embeddings {
			resp.Embeddings[i] = []float32{float32(i), 1}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("nomic-embed-text", 2, srv.URL)
	vecs, err := e.Embed(context.Background(), []string{"a", "bb", "ccc"})
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vecs) != 3 {
		t.Fatalf("expected 3 vectors, got %d", len(vecs))
	}
	if requests != 1 {
		t.Errorf("expected one batched request, got %d", requests)
	}
	if len(got.Input) != 3 || got.Model != "nomic-embed-text" {
		t.Errorf("unexpected request payload: %+v", got)
	}
}

package embeddings

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const maxBatchSize = 100

// OpenAIModel represents a supported OpenAI embedding model.
type OpenAIModel string

const (
	ModelTextEmbedding3Small OpenAIModel = "text-embedding-3-small"
	ModelTextEmbedding3Large OpenAIModel = "text-embedding-3-large"
)

var openAIDimensions = map[OpenAIModel]int{
	ModelTextEmbedding3Small: 1536,
	ModelTextEmbedding3Large: 3072,
}

// OpenAIEmbedder generates embeddings using OpenAI's API.
type OpenAIEmbedder struct {
	client *openai.Client
	model  OpenAIModel
}

// NewOpenAIEmbedder creates an OpenAI embedder with the given API key and model.
func NewOpenAIEmbedder(apiKey string, model OpenAIModel) *OpenAIEmbedder {
	return &OpenAIEmbedder{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (e *OpenAIEmbedder) Name() string { return string(e.model) }

func (e *OpenAIEmbedder) Dimensions() int {
	if d, ok := openAIDimensions[e.model]; ok {
		return d
	}
	return 1536
}

// Embed chunks the input to stay under the API batch cap and concatenates
// the per-chunk results in input order.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for len(texts) > 0 {
		n := len(texts)
		if n > maxBatchSize {
			n = maxBatchSize
		}
		vecs, err := e.embedChunk(ctx, texts[:n])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
		texts = texts[n:]
	}
	return out, nil
}

func (e *OpenAIEmbedder) embedChunk(ctx context.Context, batch []string) ([][]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: batch,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) != len(batch) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(batch))
	}

	vecs := make([][]float32, len(batch))
	for i, emb := range resp.Data {
		vecs[i] = emb.Embedding
	}
	return vecs, nil
}

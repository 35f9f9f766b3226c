// Package embeddings generates the text embeddings behind cross-session
// recall. Summary facts are embedded at index time and queries at search
// time, through whichever provider the config selects.
package embeddings

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// Embedder turns text into embedding vectors.
type Embedder interface {
	// Embed generates embeddings for one or more texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the width of the embedding vectors.
	Dimensions() int

	// Name returns the model identifier.
	Name() string
}

// ToChromemFunc adapts an Embedder to the single-text callback chromem-go
// invokes for both indexing and querying.
func ToChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		vecs, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(vecs) == 0 {
			return nil, fmt.Errorf("embedder %s returned no vector", e.Name())
		}
		return vecs[0], nil
	}
}

// Package recall maintains a searchable vector index over summarized session
// memory. After each archival pass the engine feeds the summary's key facts
// and decisions here, and `sessions search` queries them across sessions.
package recall

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"memchat/internal/embeddings"
	"memchat/internal/memory"
)

const collectionName = "session-memory"

// Fact is one indexed piece of session memory.
type Fact struct {
	SessionID string
	Field     string
	Content   string
}

// SearchResult pairs a fact with its similarity score.
type SearchResult struct {
	Fact       Fact
	Similarity float32
}

// Index is a chromem-go backed store of summary facts, persisted as a
// compressed gob file under the data directory.
type Index struct {
	db         *chromem.DB
	collection *chromem.Collection
	embedFunc  chromem.EmbeddingFunc
	path       string
}

// Open creates or loads the index persisted at path.
func Open(path string, embedder embeddings.Embedder) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating recall dir: %w", err)
	}

	db := chromem.NewDB()
	ef := embeddings.ToChromemFunc(embedder)

	if _, err := os.Stat(path); err == nil {
		if err := db.ImportFromFile(path, ""); err != nil {
			return nil, fmt.Errorf("importing recall index: %w", err)
		}
		// Embedding functions do not survive serialization; re-attach ours.
		if col := db.GetCollection(collectionName, ef); col != nil {
			return &Index{db: db, collection: col, embedFunc: ef, path: path}, nil
		}
	}

	col, err := db.GetOrCreateCollection(collectionName, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Index{db: db, collection: col, embedFunc: ef, path: path}, nil
}

// IndexSummary replaces the indexed facts for one session with the current
// summary's key facts and decisions, then persists the index.
func (ix *Index) IndexSummary(ctx context.Context, sessionID string, s *memory.SessionSummary) error {
	if err := ix.collection.Delete(ctx, map[string]string{"session_id": sessionID}, nil); err != nil {
		return fmt.Errorf("clearing session facts: %w", err)
	}

	var docs []chromem.Document
	add := func(field string, items []string) {
		for i, item := range items {
			if item == "" {
				continue
			}
			docs = append(docs, chromem.Document{
				ID:      sessionID + "-" + field + "-" + strconv.Itoa(i),
				Content: item,
				Metadata: map[string]string{
					"session_id": sessionID,
					"field":      field,
				},
			})
		}
	}
	if s != nil {
		add(memory.FieldKeyFacts, s.KeyFacts)
		add(memory.FieldDecisions, s.Decisions)
	}

	if len(docs) > 0 {
		if err := ix.collection.AddDocuments(ctx, docs, 1); err != nil {
			return fmt.Errorf("indexing session facts: %w", err)
		}
	}

	return ix.persist()
}

// Search returns up to limit facts nearest the query across all sessions.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}

	// chromem-go requires nResults <= collection size.
	count := ix.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	results, err := ix.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("recall query: %w", err)
	}

	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = SearchResult{
			Fact: Fact{
				SessionID: r.Metadata["session_id"],
				Field:     r.Metadata["field"],
				Content:   r.Content,
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

// Count returns the number of indexed facts.
func (ix *Index) Count() int {
	return ix.collection.Count()
}

func (ix *Index) persist() error {
	if err := ix.db.ExportToFile(ix.path, true, ""); err != nil {
		return fmt.Errorf("persisting recall index: %w", err)
	}
	return nil
}

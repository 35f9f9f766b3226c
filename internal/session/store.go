package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when a session does not exist in the store.
var ErrNotFound = errors.New("session not found")

// Info describes a stored session without its full transcript.
type Info struct {
	ID                 string    `json:"id"`
	MessageCount       int       `json:"message_count"`
	TokenCount         int       `json:"token_count"`
	ClarificationCount int       `json:"clarification_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Store persists session state between turns.
type Store interface {
	// Load returns the state for id, or ErrNotFound.
	Load(ctx context.Context, id string) (*State, error)
	// Save writes the state for id, creating the session if needed.
	Save(ctx context.Context, id string, st *State) error
	// List returns all sessions, most recently updated first.
	List(ctx context.Context) ([]Info, error)
	// Delete removes a session and its messages, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}

// MemoryStore keeps sessions in process memory. Tests and replay runs use
// it to avoid touching the database.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memoryRecord
}

type memoryRecord struct {
	state     *State
	createdAt time.Time
	updatedAt time.Time
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*memoryRecord)}
}

func (s *MemoryStore) Load(ctx context.Context, id string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	// Clone both ways so callers never share memory with the store.
	return rec.state.Clone(), nil
}

func (s *MemoryStore) Save(ctx context.Context, id string, st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	rec, ok := s.sessions[id]
	if !ok {
		rec = &memoryRecord{createdAt: now}
		s.sessions[id] = rec
	}
	rec.state = st.Clone()
	rec.updatedAt = now
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	infos := make([]Info, 0, len(s.sessions))
	for id, rec := range s.sessions {
		infos = append(infos, Info{
			ID:                 id,
			MessageCount:       len(rec.state.Messages),
			TokenCount:         rec.state.CurrentTokenCount,
			ClarificationCount: rec.state.ClarificationCount,
			CreatedAt:          rec.createdAt,
			UpdatedAt:          rec.updatedAt,
		})
	}
	sort.Slice(infos, func(i, j int) bool {
		if !infos[i].UpdatedAt.Equal(infos[j].UpdatedAt) {
			return infos[i].UpdatedAt.After(infos[j].UpdatedAt)
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

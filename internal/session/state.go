// Package session holds per-conversation state and the stores that persist
// it between turns.
package session

import (
	"memchat/internal/chat"
	"memchat/internal/memory"
)

// State is the complete conversational state for one session: the
// transcript, the rolling summary, the latest query analysis, and the
// counters the engine routes on.
type State struct {
	Messages           []chat.Message         `json:"messages"`
	Summary            *memory.SessionSummary `json:"summary"`
	Analysis           memory.QueryAnalysis   `json:"query_analysis"`
	CurrentTokenCount  int                    `json:"current_token_count"`
	ClarificationCount int                    `json:"clarification_count"`
}

// NewState returns a fresh session state.
func NewState() *State {
	return &State{
		Messages: []chat.Message{},
		Summary:  memory.NewSessionSummary(),
	}
}

// Normalize repairs nil containers, typically after JSON decoding.
func (s *State) Normalize() {
	if s.Messages == nil {
		s.Messages = []chat.Message{}
	}
	if s.Summary == nil {
		s.Summary = memory.NewSessionSummary()
	} else {
		s.Summary.Normalize()
	}
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	return &State{
		Messages:           append([]chat.Message{}, s.Messages...),
		Summary:            s.Summary.Clone(),
		Analysis:           s.Analysis.Clone(),
		CurrentTokenCount:  s.CurrentTokenCount,
		ClarificationCount: s.ClarificationCount,
	}
}

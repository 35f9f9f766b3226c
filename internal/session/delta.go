package session

import (
	"memchat/internal/chat"
	"memchat/internal/memory"
)

// Delta is the partial state update produced by one engine step. Nil fields
// leave the corresponding state field untouched.
type Delta struct {
	// AppendMessages is appended to the transcript. Within a turn the
	// transcript only grows, except when ReplaceMessages truncates it.
	AppendMessages []chat.Message
	// ReplaceMessages, when non-nil, replaces the whole transcript before
	// AppendMessages is applied. The summarize step uses it to truncate.
	ReplaceMessages    []chat.Message
	Summary            *memory.SessionSummary
	Analysis           *memory.QueryAnalysis
	TokenCount         *int
	ClarificationCount *int
}

// Apply folds d into st. Message updates are ordered replace-then-append;
// every other field is last-write-wins.
func Apply(st *State, d Delta) {
	if d.ReplaceMessages != nil {
		st.Messages = append([]chat.Message{}, d.ReplaceMessages...)
	}
	st.Messages = append(st.Messages, d.AppendMessages...)
	if d.Summary != nil {
		st.Summary = d.Summary
	}
	if d.Analysis != nil {
		st.Analysis = *d.Analysis
	}
	if d.TokenCount != nil {
		st.CurrentTokenCount = *d.TokenCount
	}
	if d.ClarificationCount != nil {
		st.ClarificationCount = *d.ClarificationCount
	}
}

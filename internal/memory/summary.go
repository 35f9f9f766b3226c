// Package memory holds the structured session memory types: the rolling
// summary maintained across archival passes and the per-turn query analysis
// produced by the understanding step.
package memory

import (
	"sort"
	"strings"
)

// Summary section names an analysis may request for prompt injection.
const (
	FieldUserProfile   = "user_profile"
	FieldKeyFacts      = "key_facts"
	FieldDecisions     = "decisions"
	FieldOpenQuestions = "open_questions"
	FieldTodos         = "todos"
)

var validSummaryFields = map[string]struct{}{
	FieldUserProfile:   {},
	FieldKeyFacts:      {},
	FieldDecisions:     {},
	FieldOpenQuestions: {},
	FieldTodos:         {},
}

// AllFields returns every summary section name in canonical order.
func AllFields() []string {
	return []string{FieldUserProfile, FieldKeyFacts, FieldDecisions, FieldOpenQuestions, FieldTodos}
}

// MessageRange marks the half-open slice of the transcript that has been
// folded into the summary. To only moves forward.
type MessageRange struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// SessionSummary is the structured long-term memory for one session.
type SessionSummary struct {
	UserProfile            map[string]string `json:"user_profile"`
	KeyFacts               []string          `json:"key_facts"`
	Decisions              []string          `json:"decisions"`
	OpenQuestions          []string          `json:"open_questions"`
	Todos                  []string          `json:"todos"`
	MessageRangeSummarized MessageRange      `json:"message_range_summarized"`
}

// NewSessionSummary returns an empty summary with all containers allocated.
func NewSessionSummary() *SessionSummary {
	return &SessionSummary{
		UserProfile:   map[string]string{},
		KeyFacts:      []string{},
		Decisions:     []string{},
		OpenQuestions: []string{},
		Todos:         []string{},
	}
}

// Normalize replaces nil containers with empty ones so that JSON round-trips
// and merges never have to branch on nil.
func (s *SessionSummary) Normalize() {
	if s.UserProfile == nil {
		s.UserProfile = map[string]string{}
	}
	if s.KeyFacts == nil {
		s.KeyFacts = []string{}
	}
	if s.Decisions == nil {
		s.Decisions = []string{}
	}
	if s.OpenQuestions == nil {
		s.OpenQuestions = []string{}
	}
	if s.Todos == nil {
		s.Todos = []string{}
	}
}

// Clone returns a deep copy.
func (s *SessionSummary) Clone() *SessionSummary {
	if s == nil {
		return nil
	}
	out := &SessionSummary{
		UserProfile:            make(map[string]string, len(s.UserProfile)),
		KeyFacts:               append([]string{}, s.KeyFacts...),
		Decisions:              append([]string{}, s.Decisions...),
		OpenQuestions:          append([]string{}, s.OpenQuestions...),
		Todos:                  append([]string{}, s.Todos...),
		MessageRangeSummarized: s.MessageRangeSummarized,
	}
	for k, v := range s.UserProfile {
		out.UserProfile[k] = v
	}
	return out
}

// IsEmpty reports whether the summary carries no extracted information yet.
func (s *SessionSummary) IsEmpty() bool {
	return len(s.UserProfile) == 0 &&
		len(s.KeyFacts) == 0 &&
		len(s.Decisions) == 0 &&
		len(s.OpenQuestions) == 0 &&
		len(s.Todos) == 0
}

// FormatForPrompt renders the requested summary sections as a prompt block:
//
//	=== SESSION MEMORY ===
//
//	User Profile:
//	  - budget: $3000
//
//	Key Facts:
//	  - planning a trip to Japan
//
// Unknown section names are skipped, empty sections are omitted, and if
// nothing survives the result is the empty string. Map entries are emitted
// in sorted key order so output is stable.
func (s *SessionSummary) FormatForPrompt(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	sections := []string{"=== SESSION MEMORY ==="}
	for _, field := range fields {
		switch field {
		case FieldUserProfile:
			if len(s.UserProfile) == 0 {
				continue
			}
			sections = append(sections, "\n"+fieldTitle(field)+":")
			keys := make([]string, 0, len(s.UserProfile))
			for k := range s.UserProfile {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				sections = append(sections, "  - "+k+": "+s.UserProfile[k])
			}
		case FieldKeyFacts, FieldDecisions, FieldOpenQuestions, FieldTodos:
			items := s.listField(field)
			if len(items) == 0 {
				continue
			}
			sections = append(sections, "\n"+fieldTitle(field)+":")
			for _, item := range items {
				sections = append(sections, "  - "+item)
			}
		}
	}
	if len(sections) == 1 {
		return ""
	}
	return strings.Join(sections, "\n")
}

func (s *SessionSummary) listField(field string) []string {
	switch field {
	case FieldKeyFacts:
		return s.KeyFacts
	case FieldDecisions:
		return s.Decisions
	case FieldOpenQuestions:
		return s.OpenQuestions
	case FieldTodos:
		return s.Todos
	}
	return nil
}

// fieldTitle turns "user_profile" into "User Profile".
func fieldTitle(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

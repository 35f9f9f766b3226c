// Package engine implements the per-turn decision loop: analyze the user's
// query, either ask for clarification or answer, then fold older transcript
// into the session summary once the token count passes the threshold.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"memchat/internal/chat"
	"memchat/internal/llm"
	"memchat/internal/memory"
	"memchat/internal/session"
	"memchat/internal/tokenizer"
)

const (
	// DefaultTokenThreshold is the transcript token count above which a
	// summarization pass runs after answering.
	DefaultTokenThreshold = 800
	// DefaultMaxClarificationAttempts caps clarifying turns before the
	// engine answers with best effort instead of asking again.
	DefaultMaxClarificationAttempts = 1

	// analyzerHistoryWindow is how many trailing messages the analyzer sees.
	analyzerHistoryWindow = 5
	// answerHistoryWindow is how many trailing messages the answerer sees.
	answerHistoryWindow = 10
	// summaryTailKeep is how many messages survive a summarization pass.
	summaryTailKeep = 5
	// maxGenerationAttempts bounds retries for structured model output.
	maxGenerationAttempts = 3

	answerTemperature = 0.7

	retryBackoffBase = 500 * time.Millisecond
)

// Options tune an Engine. Zero values fall back to the defaults above.
type Options struct {
	// Model overrides the provider's default model.
	Model string
	// TokenThreshold triggers summarization when the transcript token
	// count exceeds it.
	TokenThreshold int
	// MaxClarificationAttempts is the clarification budget per stretch of
	// ambiguous turns.
	MaxClarificationAttempts int
	// RetryBackoff overrides the wait between structured-output retries.
	// Nil uses a linear backoff starting at 500ms; tests set a zero one.
	RetryBackoff func(attempt int) time.Duration
}

// Recall receives the updated summary after each successful summarization
// pass, to make past sessions searchable.
type Recall interface {
	IndexSummary(ctx context.Context, sessionID string, sum *memory.SessionSummary) error
}

// Engine runs conversation turns against a session store. One Engine serves
// any number of sessions; turns within a single session are expected to be
// sequential.
type Engine struct {
	store    session.Store
	provider llm.Provider
	tok      *tokenizer.Tokenizer
	opts     Options
	retrier  *llm.Retrier
	recall   Recall
}

// New builds an engine on top of a session store and a model provider.
func New(store session.Store, provider llm.Provider, opts Options) *Engine {
	if opts.TokenThreshold <= 0 {
		opts.TokenThreshold = DefaultTokenThreshold
	}
	if opts.MaxClarificationAttempts <= 0 {
		opts.MaxClarificationAttempts = DefaultMaxClarificationAttempts
	}
	backoff := opts.RetryBackoff
	if backoff == nil {
		backoff = llm.LinearBackoff(retryBackoffBase)
	}
	return &Engine{
		store:    store,
		provider: provider,
		tok:      tokenizer.Default(),
		opts:     opts,
		retrier:  &llm.Retrier{MaxAttempts: maxGenerationAttempts, Backoff: backoff},
	}
}

// SetRecall attaches a recall index. Indexing failures are logged, never
// fatal to a turn.
func (e *Engine) SetRecall(r Recall) {
	e.recall = r
}

// Store returns the session store the engine persists into, for surfaces
// that list, export, or delete sessions.
func (e *Engine) Store() session.Store {
	return e.store
}

// Result is what one turn produced.
type Result struct {
	SessionID string         `json:"session_id"`
	Replies   []chat.Message `json:"replies"`
	State     *session.State `json:"state"`
}

// Run executes one turn: load the session (or start a fresh one), append
// the user message, analyze, clarify or answer, maybe summarize, save. The
// state is saved exactly once, after all steps have been applied.
func (e *Engine) Run(ctx context.Context, sessionID, userText string) (*Result, error) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	st, err := e.store.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		st = session.NewState()
	} else if err != nil {
		return nil, fmt.Errorf("loading session %s: %w", sessionID, err)
	}

	session.Apply(st, session.Delta{AppendMessages: []chat.Message{chat.User(userText)}})

	session.Apply(st, e.analyze(ctx, st))

	var replies []chat.Message
	if e.shouldClarify(st) {
		d := e.clarify(st)
		session.Apply(st, d)
		replies = append(replies, d.AppendMessages...)
	} else {
		d := e.answer(ctx, st)
		session.Apply(st, d)
		replies = append(replies, d.AppendMessages...)

		if st.CurrentTokenCount > e.opts.TokenThreshold {
			sd := e.summarize(ctx, st)
			session.Apply(st, sd)
			if sd.Summary != nil && e.recall != nil {
				if err := e.recall.IndexSummary(ctx, sessionID, st.Summary); err != nil {
					log.Printf("session %s: recall indexing failed: %v", sessionID, err)
				}
			}
		}
	}

	if err := e.store.Save(ctx, sessionID, st); err != nil {
		return nil, fmt.Errorf("saving session %s: %w", sessionID, err)
	}

	return &Result{SessionID: sessionID, Replies: replies, State: st}, nil
}

// shouldClarify routes the turn after analysis. The attempt budget is
// checked before ambiguity so a stuck conversation cannot loop: once the
// budget is spent the engine answers with best effort.
func (e *Engine) shouldClarify(st *session.State) bool {
	if st.ClarificationCount >= e.opts.MaxClarificationAttempts {
		return false
	}
	return st.Analysis.IsAmbiguous
}

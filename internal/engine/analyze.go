package engine

import (
	"context"
	"fmt"
	"log"

	"memchat/internal/chat"
	"memchat/internal/llm"
	"memchat/internal/memory"
	"memchat/internal/session"
)

// analyze runs the query understanding step over the latest user message.
// It never fails the turn: if the model cannot produce a valid analysis
// within the retry budget, the query is assumed clear and answered as-is.
func (e *Engine) analyze(ctx context.Context, st *session.State) session.Delta {
	if len(st.Messages) == 0 {
		return session.Delta{Analysis: &memory.QueryAnalysis{
			NeededContextFromMemory: []string{},
		}}
	}

	latest := st.Messages[len(st.Messages)-1].Content
	contextText := chat.Transcript(chat.LastN(st.Messages, analyzerHistoryWindow))

	userPrompt := fmt.Sprintf(
		"Recent conversation:\n%s\n\nLatest query: %s\n\nAnalyze this query for ambiguity and determine what context is needed.",
		contextText, latest)

	var analysis memory.QueryAnalysis
	err := e.retrier.Do(ctx, func() error {
		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			Model: e.opts.Model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: analyzeSystemPrompt},
				{Role: llm.RoleUser, Content: userPrompt},
			},
			Temperature: answerTemperature,
			JSONMode:    true,
		})
		if err != nil {
			return err
		}
		analysis = memory.QueryAnalysis{}
		return decodeJSON(resp.Content, &analysis)
	})
	if err != nil {
		log.Printf("query analysis failed, treating the query as clear: %v", err)
		return session.Delta{Analysis: &memory.QueryAnalysis{
			OriginalQuery:           latest,
			NeededContextFromMemory: []string{},
		}}
	}

	// The model's echo of the query is not trusted; the real one is pinned
	// here.
	analysis.OriginalQuery = latest
	analysis.Normalize()
	if dropped := analysis.SanitizeNeededContext(); len(dropped) > 0 {
		log.Printf("query analysis requested unknown memory sections %v, ignoring them", dropped)
	}

	if len(analysis.NeededContextFromMemory) > 0 {
		memoryContext := st.Summary.FormatForPrompt(analysis.NeededContextFromMemory)
		analysis.FinalAugmentedContext = memoryContext + "\n\n" +
			"Recent conversation:\n" + contextText
	}

	return session.Delta{Analysis: &analysis}
}

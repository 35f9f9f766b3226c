package engine

import (
	"context"
	"log"
	"strings"

	"memchat/internal/chat"
	"memchat/internal/llm"
	"memchat/internal/session"
)

// answer generates the assistant reply from the recent transcript and the
// memory sections the analysis asked for. A failed generation still yields
// a turn: the apology reply carries the error text, and the counters are
// left untouched so the next turn picks up from the same place.
func (e *Engine) answer(ctx context.Context, st *session.State) session.Delta {
	if len(st.Messages) == 0 {
		return session.Delta{}
	}

	recent := chat.LastN(st.Messages, answerHistoryWindow)
	memoryContext := st.Summary.FormatForPrompt(st.Analysis.NeededContextFromMemory)
	history := chat.Transcript(recent[:len(recent)-1])
	latest := st.Messages[len(st.Messages)-1].Content

	var b strings.Builder
	if memoryContext != "" {
		b.WriteString(memoryContext)
		b.WriteString("\n---\n")
	}
	if history != "" {
		b.WriteString("Recent conversation:\n")
		b.WriteString(history)
		b.WriteString("\n\n")
	}
	b.WriteString("User: ")
	b.WriteString(latest)

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.opts.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: answerSystemPrompt},
			{Role: llm.RoleUser, Content: b.String()},
		},
		Temperature: answerTemperature,
	})
	if err != nil {
		log.Printf("answer generation failed: %v", err)
		return session.Delta{
			AppendMessages: []chat.Message{
				chat.Assistant("I apologize, but I encountered an error: " + err.Error()),
			},
		}
	}

	// Token count covers the full transcript plus the new reply, so the
	// summarization check sees what the next turn would be working with.
	tokens := e.tok.Count(chat.Transcript(st.Messages) + "\nassistant: " + resp.Content)
	zero := 0

	return session.Delta{
		AppendMessages:     []chat.Message{chat.Assistant(resp.Content)},
		TokenCount:         &tokens,
		ClarificationCount: &zero,
	}
}

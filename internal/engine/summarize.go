package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"memchat/internal/chat"
	"memchat/internal/llm"
	"memchat/internal/memory"
	"memchat/internal/session"
)

// summarize folds every message past the already-summarized range into the
// session summary, keeps the last summaryTailKeep messages for immediate
// context, and recounts tokens over the kept tail. On failure the state is
// left untouched; the next qualifying turn tries again.
func (e *Engine) summarize(ctx context.Context, st *session.State) session.Delta {
	from := st.Summary.MessageRangeSummarized.To
	if from < 0 {
		from = 0
	}
	if from > len(st.Messages) {
		from = len(st.Messages)
	}
	toArchive := st.Messages[from:]
	if len(toArchive) == 0 {
		return session.Delta{}
	}

	currentJSON, err := json.MarshalIndent(st.Summary, "", "  ")
	if err != nil {
		log.Printf("summarize: encoding current summary: %v", err)
		return session.Delta{}
	}

	userPrompt := fmt.Sprintf(
		"Current Summary (to be updated):\n%s\n\nMessages to Archive (new conversation to merge):\n%s\n\nUpdate the summary by merging information from the messages to archive into the current summary.",
		currentJSON, chat.Transcript(toArchive))

	var updated memory.SessionSummary
	err = e.retrier.Do(ctx, func() error {
		resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
			Model: e.opts.Model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: summarizeSystemPrompt},
				{Role: llm.RoleUser, Content: userPrompt},
			},
			Temperature: answerTemperature,
			JSONMode:    true,
		})
		if err != nil {
			return err
		}
		updated = memory.SessionSummary{}
		return decodeJSON(resp.Content, &updated)
	})
	if err != nil {
		log.Printf("summarization failed, keeping the existing summary: %v", err)
		return session.Delta{}
	}

	updated.Normalize()
	// The recorded range always covers the whole transcript as it stood
	// before truncation, whatever the model put in the field.
	updated.MessageRangeSummarized = memory.MessageRange{From: 0, To: len(st.Messages)}

	tail := append([]chat.Message{}, chat.LastN(st.Messages, summaryTailKeep)...)
	tokens := e.tok.Count(chat.Transcript(tail))

	return session.Delta{
		ReplaceMessages: tail,
		Summary:         &updated,
		TokenCount:      &tokens,
	}
}

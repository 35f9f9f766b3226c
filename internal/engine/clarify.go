package engine

import (
	"strings"

	"memchat/internal/chat"
	"memchat/internal/session"
)

// clarify emits the clarifying-question turn for an ambiguous query. It
// makes no model call; the questions come from the analysis.
func (e *Engine) clarify(st *session.State) session.Delta {
	count := st.ClarificationCount + 1

	questions := st.Analysis.ClarifyingQuestions
	var text string
	switch {
	case len(questions) == 0:
		text = "I'm not sure I understand. Could you please provide more details?"
	case len(questions) == 1:
		text = questions[0]
	default:
		var b strings.Builder
		b.WriteString("I need some clarification:\n\n")
		for i, q := range questions {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString("- ")
			b.WriteString(q)
		}
		text = b.String()
	}

	// The counter is bumped at entry and again here: a clarifying turn
	// spends two budget units. Recorded sessions replay against these
	// exact counter values.
	count++

	return session.Delta{
		AppendMessages:     []chat.Message{chat.Assistant(text)},
		ClarificationCount: &count,
	}
}

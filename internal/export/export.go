// Package export renders a session transcript as a standalone HTML page.
// Assistant replies are markdown and get the full goldmark treatment; user
// messages are rendered verbatim.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"

	"memchat/internal/chat"
	"memchat/internal/memory"
	"memchat/internal/session"
)

// pageData holds the data passed to the HTML template.
type pageData struct {
	SessionID          string
	GeneratedAt        string
	Messages           []renderedMessage
	MemoryBlock        string
	TokenCount         int
	ClarificationCount int
	SummarizedTo       int
}

type renderedMessage struct {
	Role    string
	Content template.HTML
}

// newMarkdown builds the goldmark renderer used for assistant messages.
// Raw HTML in model output stays escaped.
func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
	)
}

// HTML renders the session state as a complete standalone HTML document.
func HTML(sessionID string, st *session.State) ([]byte, error) {
	md := newMarkdown()

	data := pageData{
		SessionID:          sessionID,
		GeneratedAt:        time.Now().Format("2006-01-02 15:04"),
		TokenCount:         st.CurrentTokenCount,
		ClarificationCount: st.ClarificationCount,
	}

	for _, m := range st.Messages {
		rendered, err := renderMessage(md, m)
		if err != nil {
			return nil, fmt.Errorf("rendering message: %w", err)
		}
		data.Messages = append(data.Messages, rendered)
	}

	if st.Summary != nil && !st.Summary.IsEmpty() {
		data.MemoryBlock = st.Summary.FormatForPrompt(memory.AllFields())
		data.SummarizedTo = st.Summary.MessageRangeSummarized.To
	}

	tmpl, err := template.New("transcript").Parse(transcriptTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing transcript template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing transcript template: %w", err)
	}
	return buf.Bytes(), nil
}

// renderMessage converts one message to HTML. Assistant content is treated
// as markdown; everything else is escaped plain text with preserved breaks.
func renderMessage(md goldmark.Markdown, m chat.Message) (renderedMessage, error) {
	if m.Role == chat.RoleAssistant {
		var buf bytes.Buffer
		if err := md.Convert([]byte(m.Content), &buf); err != nil {
			return renderedMessage{}, fmt.Errorf("converting markdown: %w", err)
		}
		return renderedMessage{Role: m.Role, Content: template.HTML(buf.String())}, nil
	}
	escaped := template.HTMLEscapeString(m.Content)
	return renderedMessage{Role: m.Role, Content: template.HTML("<p>" + escaped + "</p>")}, nil
}

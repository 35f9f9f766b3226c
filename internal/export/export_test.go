package export

import (
	"strings"
	"testing"

	"memchat/internal/chat"
	"memchat/internal/memory"
	"memchat/internal/session"
)

func TestHTMLRendersTranscript(t *testing.T) {
	st := session.NewState()
	st.Messages = []chat.Message{
		chat.User("Plan a trip to **Japan**"),
		chat.Assistant("Sure! Here is a plan:\n\n- Tokyo\n- Kyoto\n\n```go\nfmt.Println(\"hi\")\n```"),
	}
	st.CurrentTokenCount = 42

	out, err := HTML("abc-123", st)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "Session abc-123") {
		t.Error("output missing session id heading")
	}
	// User content is escaped plain text, not markdown.
	if !strings.Contains(html, "Plan a trip to **Japan**") {
		t.Error("user message should be rendered verbatim")
	}
	// Assistant content goes through goldmark.
	if !strings.Contains(html, "<li>Tokyo</li>") {
		t.Error("assistant markdown list was not rendered")
	}
	if !strings.Contains(html, "<pre") {
		t.Error("assistant code block was not rendered")
	}
	if !strings.Contains(html, "42 tokens") {
		t.Error("output missing token count")
	}
}

func TestHTMLEscapesUserContent(t *testing.T) {
	st := session.NewState()
	st.Messages = []chat.Message{
		chat.User("<script>alert(1)</script>"),
	}

	out, err := HTML("s", st)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Error("user HTML was not escaped")
	}
	if !strings.Contains(html, "&lt;script&gt;") {
		t.Error("expected escaped script tag in output")
	}
}

func TestHTMLEscapesAssistantRawHTML(t *testing.T) {
	st := session.NewState()
	st.Messages = []chat.Message{
		chat.Assistant("hello <script>alert(1)</script>"),
	}

	out, err := HTML("s", st)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if strings.Contains(string(out), "<script>alert(1)</script>") {
		t.Error("raw HTML in assistant markdown should stay escaped")
	}
}

func TestHTMLIncludesMemoryBlock(t *testing.T) {
	st := session.NewState()
	st.Messages = []chat.Message{chat.User("hi")}
	st.Summary = memory.NewSessionSummary()
	st.Summary.KeyFacts = []string{"likes trains"}
	st.Summary.MessageRangeSummarized = memory.MessageRange{From: 0, To: 8}

	out, err := HTML("s", st)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	html := string(out)

	if !strings.Contains(html, "=== SESSION MEMORY ===") {
		t.Error("output missing memory block")
	}
	if !strings.Contains(html, "likes trains") {
		t.Error("output missing key fact")
	}
	if !strings.Contains(html, "8 summarized") {
		t.Error("output missing summarized count")
	}
}

func TestHTMLOmitsEmptyMemoryBlock(t *testing.T) {
	st := session.NewState()
	st.Messages = []chat.Message{chat.User("hi")}

	out, err := HTML("s", st)
	if err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	if strings.Contains(string(out), "Session memory") {
		t.Error("empty summary should not produce a memory block")
	}
}

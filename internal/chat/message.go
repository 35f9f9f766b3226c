// Package chat defines the canonical conversation message type shared by
// the session store, the decision engine, and every transport surface.
package chat

import "strings"

// Roles a conversation message can carry.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single turn in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// User builds a user-authored message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant-authored message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Transcript renders messages as newline-separated "role: content" lines.
// This is the plain-text form fed to prompts and to the token counter.
func Transcript(msgs []Message) string {
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

// LastN returns the trailing n messages. The returned slice aliases msgs.
func LastN(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) == 0 {
		return nil
	}
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

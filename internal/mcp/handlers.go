package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"memchat/internal/memory"
	"memchat/internal/session"
)

// handleSendMessage runs one conversation turn through the engine.
func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}

	sessionID := request.GetString("session_id", "")

	result, err := s.engine.Run(ctx, sessionID, message)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("turn failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Session: %s\n\n", result.SessionID))
	for _, reply := range result.Replies {
		sb.WriteString(reply.Content)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("\n(%d transcript tokens, %d clarification(s) used)",
		result.State.CurrentTokenCount, result.State.ClarificationCount))

	return mcp.NewToolResultText(sb.String()), nil
}

// handleSessionSummary returns the structured memory for a session.
func (s *Server) handleSessionSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	st, err := s.store.Load(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Session %q not found.", sessionID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading session: %v", err)), nil
	}

	if st.Summary == nil || st.Summary.IsEmpty() {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No memory has been extracted for session %q yet. Memory builds up once the conversation is long enough to be summarized.",
			sessionID,
		)), nil
	}

	var sb strings.Builder
	sb.WriteString(st.Summary.FormatForPrompt(memory.AllFields()))
	sb.WriteString(fmt.Sprintf("\n\n(%d messages summarized, %d in the live window)",
		st.Summary.MessageRangeSummarized.To, len(st.Messages)))

	return mcp.NewToolResultText(sb.String()), nil
}

// handleListSessions lists all stored sessions.
func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	infos, err := s.store.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing sessions: %v", err)), nil
	}

	if len(infos) == 0 {
		return mcp.NewToolResultText("No sessions stored yet. Use memchat_send to start one."), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Sessions (%d)\n\n", len(infos)))
	for _, info := range infos {
		sb.WriteString(fmt.Sprintf("- **%s**: %d messages, %d tokens, updated %s\n",
			info.ID, info.MessageCount, info.TokenCount, info.UpdatedAt.Format("2006-01-02 15:04")))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

package mcp

import "github.com/mark3labs/mcp-go/mcp"

// sendMessageTool defines the memchat_send MCP tool.
var sendMessageTool = mcp.NewTool("memchat_send",
	mcp.WithDescription("Send a message to a memchat session and get the assistant's reply. The session keeps long-term memory across calls; omit session_id to start a new session."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("The user message to send"),
	),
	mcp.WithString("session_id",
		mcp.Description("Session to continue; empty starts a new one"),
	),
)

// sessionSummaryTool defines the memchat_session_summary MCP tool.
var sessionSummaryTool = mcp.NewTool("memchat_session_summary",
	mcp.WithDescription("Get the structured memory of a session: user profile, key facts, decisions, open questions, and todos extracted from the conversation."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("The session to inspect"),
	),
)

// listSessionsTool defines the memchat_list_sessions MCP tool.
var listSessionsTool = mcp.NewTool("memchat_list_sessions",
	mcp.WithDescription("List stored chat sessions with message and token counts, most recently used first."),
)

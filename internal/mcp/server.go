// Package mcp exposes the dialogue engine to MCP clients over stdio, so
// editors and agents can hold memchat sessions as a tool call.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"memchat/internal/engine"
	"memchat/internal/session"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes chat session tools.
type Server struct {
	engine *engine.Engine
	store  session.Store
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server around an engine.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{
		engine: eng,
		store:  eng.Store(),
	}

	s.mcp = server.NewMCPServer(
		"memchat",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(sendMessageTool, s.handleSendMessage)
	s.mcp.AddTool(sessionSummaryTool, s.handleSessionSummary)
	s.mcp.AddTool(listSessionsTool, s.handleListSessions)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

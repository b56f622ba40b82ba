// Package mcp exposes the knowledge base and supporter data as MCP
// tools so AI assistants can query them over stdio.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/crukhq/supporter-engagement/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server exposing supporter engagement tools.
type Server struct {
	store *store.Store
	mcp   *server.MCPServer
}

// NewServer creates an MCP server backed by the data store.
func NewServer(s *store.Store) *Server {
	srv := &Server{store: s}

	srv.mcp = server.NewMCPServer(
		"supporter-engagement",
		Version,
		server.WithToolCapabilities(false),
	)

	srv.registerTools()

	return srv
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchKnowledgeBaseTool, s.handleSearchKnowledgeBase)
	s.mcp.AddTool(listResearchPapersTool, s.handleListResearchPapers)
	s.mcp.AddTool(getSupporterProfileTool, s.handleGetSupporterProfile)
	s.mcp.AddTool(getSupporterContextTool, s.handleGetSupporterContext)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

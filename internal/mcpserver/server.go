package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/mohdibrahimai/uire/internal/engine"
	"github.com/mohdibrahimai/uire/internal/prefs"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the intent resolution
// pipeline as tools. Stdio MCP serves a single local caller, so every
// tool call runs under one fixed user hash.
type Server struct {
	engine   *engine.Engine
	store    *prefs.Store
	userHash string
	mcp      *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(eng *engine.Engine, store *prefs.Store, userHash string) *Server {
	s := &Server{
		engine:   eng,
		store:    store,
		userHash: userHash,
	}

	s.mcp = server.NewMCPServer(
		"uire",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(detectAmbiguityTool, s.handleDetectAmbiguity)
	s.mcp.AddTool(clarifyQueryTool, s.handleClarifyQuery)
	s.mcp.AddTool(answerClarificationTool, s.handleAnswerClarification)
	s.mcp.AddTool(resolveIntentTool, s.handleResolveIntent)
	s.mcp.AddTool(getMemoryTool, s.handleGetMemory)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}

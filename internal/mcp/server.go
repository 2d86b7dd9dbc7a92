// ABOUTME: MCP server initialization and configuration for gratitude.
// ABOUTME: Exposes the journal API as list, write, and delete tools for AI agent access.
package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/2389-research/gratitude/internal/browser"
)

// Server wraps the MCP server around a journal API client.
type Server struct {
	mcp    *gomcp.Server
	client browser.EntryAPI
	log    zerolog.Logger
}

// ServerOption configures optional Server dependencies.
type ServerOption func(*Server)

// WithLogger sets the logger used for tool calls.
func WithLogger(log zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// NewServer creates an MCP server backed by client.
func NewServer(client browser.EntryAPI, opts ...ServerOption) (*Server, error) {
	if client == nil {
		return nil, fmt.Errorf("entry client is required")
	}

	mcpServer := gomcp.NewServer(
		&gomcp.Implementation{
			Name:    "gratitude",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcp:    mcpServer,
		client: client,
		log:    zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.registerEntryTools()

	return s, nil
}

// Serve starts the MCP server in stdio mode.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcp.Run(ctx, &gomcp.StdioTransport{})
}

// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Nebula tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nebulahq/nebula/internal/ai"
	"github.com/nebulahq/nebula/internal/notestore"
)

// Server wraps the MCP server with Nebula tools.
type Server struct {
	mcp     *server.MCPServer
	store   *notestore.Store
	session *ai.Session
}

// New creates a new MCP server with all Nebula tools registered.
func New(store *notestore.Store, session *ai.Session) *Server {
	s := &Server{store: store, session: session}

	s.mcp = server.NewMCPServer(
		"Nebula",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List all log entries newest-first, including which one is active."),
	), s.listNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a single log entry by id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new empty log entry and make it active. "+
			"Returns the created note; fill it in via update_note. Read the "+
			"nebula://log-format resource for the entry format."),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("update_note",
		mcp.WithDescription("Update the title and/or content of a log entry. "+
			"Omitted fields are left untouched."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("title", mcp.Description("New title (optional)")),
		mcp.WithString("content", mcp.Description("New content (optional)")),
	), s.updateNote)

	s.mcp.AddTool(mcp.NewTool("delete_note",
		mcp.WithDescription("Permanently delete a log entry. Destructive; "+
			"requires confirm=true."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithBoolean("confirm", mcp.Required(), mcp.Description("Must be true to delete")),
	), s.deleteNote)

	s.mcp.AddTool(mcp.NewTool("toggle_favorite",
		mcp.WithDescription("Flip the favorite flag on a log entry."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.toggleFavorite)

	s.mcp.AddTool(mcp.NewTool("enhance_note",
		mcp.WithDescription("Run an AI action over a log entry's content. Returns the "+
			"proposed text; pass apply=true to write it back into the note. "+
			"Actions: SUMMARIZE, EXPAND, REWRITE_SCIFI, FIX_GRAMMAR."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
		mcp.WithString("action", mcp.Required(), mcp.Description("One of SUMMARIZE, EXPAND, REWRITE_SCIFI, FIX_GRAMMAR")),
		mcp.WithBoolean("apply", mcp.Description("Apply the result to the note (default false)")),
	), s.enhanceNote)

	// Resource: log format contract.
	s.mcp.AddResource(
		mcp.NewResource("nebula://log-format", "Log Format Contract",
			mcp.WithResourceDescription("Canonical log entry format and enhancement actions."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLogFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active, _ := s.store.ActiveID()
	out, _ := json.MarshalIndent(struct {
		Notes  any    `json:"notes"`
		Active string `json:"active"`
	}{s.store.List(), active}, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.store.Get(id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	note := s.store.Create()
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var upd notestore.UpdateRequest
	if t, terr := req.RequireString("title"); terr == nil {
		upd.Title = &t
	}
	if c, cerr := req.RequireString("content"); cerr == nil {
		upd.Content = &c
	}
	if upd.Title == nil && upd.Content == nil {
		return mcp.NewToolResultError("at least one of title or content must be set"), nil
	}

	note, err := s.store.Update(id, upd)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) deleteNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	confirm, err := req.RequireBool("confirm")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !confirm {
		return mcp.NewToolResultError("deletion requires confirmation: pass confirm=true"), nil
	}
	if err := s.store.Delete(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %s", id)), nil
}

func (s *Server) toggleFavorite(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.store.ToggleFavorite(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(note, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) enhanceNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	actionName, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	action, err := ai.ParseAction(actionName)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	apply := false
	if a, aerr := req.RequireBool("apply"); aerr == nil {
		apply = a
	}

	// The session enhances the active note, so select the target first.
	if err := s.store.SetActive(id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.session.Enhance(ctx, action)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !apply {
		return mcp.NewToolResultText(result), nil
	}
	if err := s.session.Apply(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("applied to %s:\n%s", id, result)), nil
}

func (s *Server) readLogFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "nebula://log-format",
			MIMEType: "text/markdown",
			Text:     LogFormatContract,
		},
	}, nil
}

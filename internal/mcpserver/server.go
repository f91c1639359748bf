// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Tetrion guide tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/marden/tetrion/internal/guideservice"
	"github.com/marden/tetrion/internal/page"
	"github.com/marden/tetrion/internal/storage"
)

// Server wraps the MCP server with Tetrion tools.
type Server struct {
	mcp   *server.MCPServer
	store storage.Provider
	svc   *guideservice.Service
}

// New creates a new MCP server with all Tetrion tools registered.
func New(store storage.Provider, svc *guideservice.Service) *Server {
	s := &Server{store: store, svc: svc}

	s.mcp = server.NewMCPServer(
		"Tetrion",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all guide pages with their display state."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_page",
		mcp.WithDescription("Read the raw source text of a guide page. "+
			"Sources use the Tetrion page format (see get_page_contract)."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path (e.g. openers/perfect-clear)")),
	), s.readPage)

	s.mcp.AddTool(mcp.NewTool("render_page",
		mcp.WithDescription("Render a guide page to HTML, including embedded boards, "+
			"heading anchors, breadcrumb, and extracted citations. Returns JSON."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Page path (e.g. openers/perfect-clear)")),
	), s.renderPage)

	s.mcp.AddTool(mcp.NewTool("read_board",
		mcp.WithDescription("Read the raw text of a board file, including its metadata header."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Board path (e.g. openers/perfect-clear/boards/setup.txt)")),
	), s.readBoard)

	s.mcp.AddTool(mcp.NewTool("get_page_contract",
		mcp.WithDescription("Returns the canonical Tetrion page and board format contract. "+
			"Call this before editing page or board sources."),
	), s.getPageContract)

	// Resource: page format contract.
	s.mcp.AddResource(
		mcp.NewResource("tetrion://page-format", "Page Format Contract",
			mcp.WithResourceDescription("Canonical page and board text format used by the guide."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPageFormatResource,
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

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListPages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var lines []string
	for _, it := range items {
		line := it.Path
		if !it.Displayable {
			line += " (hidden: broken board reference)"
		}
		lines = append(lines, line)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// Raw source stays readable even when the page renders with errors
	// (e.g. a broken board reference).
	data, err := s.store.Read(page.SourcePath(path))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) renderPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetPage(ctx, path, false)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readBoard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := s.store.Read(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) getPageContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PageFormatContract), nil
}

func (s *Server) readPageFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "tetrion://page-format",
			MIMEType: "text/markdown",
			Text:     PageFormatContract,
		},
	}, nil
}

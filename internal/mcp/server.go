// Package mcp exposes the analyzer to AI assistants over the Model
// Context Protocol. One tool, analyze_file, returns the ordered
// diagnostic sequence as JSON.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/ccheck/internal/config"
	"github.com/standardbeagle/ccheck/internal/runner"
	"github.com/standardbeagle/ccheck/internal/version"
)

// Server wraps an MCP stdio server around a shared analysis runner.
type Server struct {
	server *mcp.Server
	runner *runner.Runner
	cfg    *config.Config
}

// AnalyzeParams are the analyze_file tool arguments.
type AnalyzeParams struct {
	File        string   `json:"file"`
	IncludeDirs []string `json:"include_dirs,omitempty"`
}

// NewServer builds the MCP server and registers tools.
func NewServer(cfg *config.Config) (*Server, error) {
	r, err := runner.New(cfg)
	if err != nil {
		return nil, err
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "ccheck-mcp-server",
			Version: version.Info(),
		}, nil),
		runner: r,
		cfg:    cfg,
	}
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "analyze_file",
		Description: "Run scope-aware semantic analysis on a C source file, cross-checked against clang. Reports use-before-declaration, unused locals, and call arity mismatches as an ordered diagnostic list.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file": {
					Type:        "string",
					Description: "Path to the C source file to analyze",
				},
				"include_dirs": {
					Type:        "array",
					Items:       &jsonschema.Schema{Type: "string"},
					Description: "Additional include-search directories, in order",
				},
			},
			Required: []string{"file"},
		},
	}, s.handleAnalyzeFile)

	s.server.AddTool(&mcp.Tool{
		Name:        "version",
		Description: "Get ccheck server version and build info",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleVersion)
}

func (s *Server) handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params AnalyzeParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return errorResult(fmt.Errorf("invalid parameters: %w", err)), nil
	}
	if params.File == "" {
		return errorResult(fmt.Errorf("missing required parameter %q", "file")), nil
	}

	run := s.runner
	if len(params.IncludeDirs) > 0 {
		// Per-call include dirs get a run-scoped configuration; the
		// shared runner stays untouched.
		cfg := *s.cfg
		cfg.Clang.IncludeDirs = append(append([]string{}, cfg.Clang.IncludeDirs...), params.IncludeDirs...)
		var err error
		run, err = runner.New(&cfg)
		if err != nil {
			return errorResult(err), nil
		}
	}

	rep, err := run.Analyze(ctx, params.File)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(rep)
}

func (s *Server) handleVersion(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(map[string]string{
		"name":    "ccheck-mcp-server",
		"version": version.FullInfo(),
	})
}

// Run serves MCP over stdio until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func jsonResult(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %v", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

func errorResult(err error) *mcp.CallToolResult {
	payload, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: string(payload)}},
	}
}

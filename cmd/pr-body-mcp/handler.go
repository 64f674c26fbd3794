package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/job"
	"github.com/cexll/pr-formatter/internal/prompt"
)

type handler struct {
	templatePath string
	outputPath   string
}

// GetCategoriesParams takes no input
type GetCategoriesParams struct{}

// WritePRBodyParams defines the input parameters for write_pr_body
type WritePRBodyParams struct {
	Body string `json:"body" jsonschema:"The complete PR body in markdown"`
}

// HandleGetCategories handles the get_changelog_categories tool call
func (h *handler) HandleGetCategories(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetCategoriesParams,
) (*mcp.CallToolResult, any, error) {
	categories, err := prompt.LoadChangelogCategories(h.templatePath)
	if err != nil {
		clog.WarnContextf(ctx, "[PR Body MCP] %v", err)
		return errorResult(err), nil, nil
	}

	type category struct {
		Name          string `json:"name"`
		EntryRequired bool   `json:"entry_required"`
	}
	out := make([]category, 0, len(categories))
	for _, c := range categories {
		out = append(out, category{Name: c, EntryRequired: prompt.EntryRequired(c)})
	}

	data, err := json.MarshalIndent(map[string]any{"categories": out}, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	clog.InfoContextf(ctx, "[PR Body MCP] Returned %d categories", len(out))
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

// HandleWritePRBody handles the write_pr_body tool call
func (h *handler) HandleWritePRBody(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params WritePRBodyParams,
) (*mcp.CallToolResult, any, error) {
	if params.Body == "" {
		return nil, nil, fmt.Errorf("body parameter is required")
	}

	body := github.SanitizeBody(params.Body)
	// Same threshold the job applies after the agent exits
	if lines := job.CountLines(body); lines <= job.MinOutputLines {
		return errorResult(fmt.Errorf("body has %d lines, need more than %d", lines, job.MinOutputLines)), nil, nil
	}

	if err := os.MkdirAll(filepath.Dir(h.outputPath), 0o755); err != nil {
		return errorResult(err), nil, nil
	}
	if err := os.WriteFile(h.outputPath, []byte(body), 0o644); err != nil {
		clog.WarnContextf(ctx, "[PR Body MCP] Failed to write PR body: %v", err)
		return errorResult(err), nil, nil
	}

	clog.InfoContextf(ctx, "[PR Body MCP] Wrote %d bytes to %s", len(body), h.outputPath)
	resultText := fmt.Sprintf(`{
  "success": true,
  "path": %q,
  "body_length": %d
}`, h.outputPath, len(body))

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: resultText}},
	}, nil, nil
}

func errorResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf("Error: %v", err)}},
		IsError: true,
	}
}

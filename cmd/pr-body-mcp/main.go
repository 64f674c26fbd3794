// Command pr-body-mcp is a stdio MCP server the formatting agent can use to
// read the allowed changelog categories and write the generated PR body.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const version = "v1.0.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	h := &handler{
		templatePath: os.Getenv("PR_TEMPLATE_PATH"),
		outputPath:   os.Getenv("PR_BODY_OUTPUT"),
	}
	for env, value := range map[string]string{"PR_TEMPLATE_PATH": h.templatePath, "PR_BODY_OUTPUT": h.outputPath} {
		if value == "" {
			clog.FatalContextf(ctx, "[PR Body MCP] Missing required environment variable: %s", env)
		}
	}

	clog.InfoContextf(ctx, "[PR Body MCP] Starting %s (template: %s, output: %s)", version, h.templatePath, h.outputPath)

	server := newServer(h)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		clog.FatalContextf(ctx, "[PR Body MCP] Server error: %v", err)
	}
	clog.InfoContextf(ctx, "[PR Body MCP] Server stopped")
}

func newServer(h *handler) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "pr-body-server",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_changelog_categories",
		Description: "List the changelog categories allowed by the repository's PR template, in template order",
	}, h.HandleGetCategories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "write_pr_body",
		Description: "Write the final PR body to the output file. HTML comments and invisible characters are removed.",
	}, h.HandleWritePRBody)

	return server
}

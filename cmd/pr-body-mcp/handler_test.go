package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const template = `### Changelog category (leave one):
- New Feature
- Improvement
- Not for changelog (changelog entry is not required)

### Changelog entry:
`

func newTestHandler(t *testing.T) *handler {
	t.Helper()
	dir := t.TempDir()
	tmpl := filepath.Join(dir, "PULL_REQUEST_TEMPLATE.md")
	if err := os.WriteFile(tmpl, []byte(template), 0o644); err != nil {
		t.Fatal(err)
	}
	return &handler{templatePath: tmpl, outputPath: filepath.Join(dir, "ci", "tmp", "pr_body_generated.md")}
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestHandleGetCategories(t *testing.T) {
	h := newTestHandler(t)

	res, _, err := h.HandleGetCategories(context.Background(), nil, GetCategoriesParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", text(t, res))
	}
	got := text(t, res)
	for _, want := range []string{`"name": "New Feature"`, `"name": "Improvement"`, `"entry_required": false`} {
		if !strings.Contains(got, want) {
			t.Errorf("result missing %q:\n%s", want, got)
		}
	}
}

func TestHandleGetCategories_MissingTemplate(t *testing.T) {
	h := &handler{templatePath: filepath.Join(t.TempDir(), "missing.md")}

	res, _, err := h.HandleGetCategories(context.Background(), nil, GetCategoriesParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing template")
	}
}

func TestHandleWritePRBody(t *testing.T) {
	h := newTestHandler(t)
	body := "<!-- template hint -->\n### Changelog category (leave one):\n- Improvement\n\n### Changelog entry:\nFaster merges.\n"

	res, _, err := h.HandleWritePRBody(context.Background(), nil, WritePRBodyParams{Body: body})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", text(t, res))
	}

	data, err := os.ReadFile(h.outputPath)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if strings.Contains(string(data), "template hint") {
		t.Errorf("HTML comment not stripped:\n%s", data)
	}
	if !strings.HasPrefix(string(data), "### Changelog category") {
		t.Errorf("unexpected body:\n%s", data)
	}
}

func TestHandleWritePRBody_Rejects(t *testing.T) {
	h := newTestHandler(t)

	if _, _, err := h.HandleWritePRBody(context.Background(), nil, WritePRBodyParams{}); err == nil {
		t.Error("expected error for empty body")
	}

	res, _, err := h.HandleWritePRBody(context.Background(), nil, WritePRBodyParams{Body: "### Changelog category (leave one):\n- Improvement"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for short body")
	}
	if _, err := os.Stat(h.outputPath); !os.IsNotExist(err) {
		t.Error("short body must not be written")
	}
}

func TestServer_ToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	h := newTestHandler(t)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := newServer(h).Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{"get_changelog_categories", "write_pr_body"} {
		if !names[want] {
			t.Errorf("tool %s not registered", want)
		}
	}

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "write_pr_body",
		Arguments: map[string]any{"body": "### Changelog category (leave one):\n- New Feature\n\n### Changelog entry:\nAdd function.\n"},
	})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", text(t, res))
	}
	if _, err := os.Stat(h.outputPath); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

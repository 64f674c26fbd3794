package claude

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/provider/shared"
	"github.com/cexll/pr-formatter/internal/toolconfig"
)

func argValue(args []string, flag string) (string, bool) {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1], true
		}
	}
	return "", false
}

func TestProvider_Run(t *testing.T) {
	runner := github.NewMockCommandRunner()
	p := NewProvider(runner, "", "claude-sonnet-4-5", time.Minute, toolconfig.Options{CustomDisallowedTools: []string{"Bash(rm:*)"}})

	if _, err := p.Run(context.Background(), &shared.Request{Prompt: "generate the body", WorkDir: "/repo", MCPConfig: `{"mcpServers":{}}`}); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	call := runner.Calls[0]
	if call.Name != "claude" || call.Dir != "/repo" {
		t.Errorf("call = %s in %s", call.Name, call.Dir)
	}
	if call.Args[0] != "-p" {
		t.Errorf("first arg = %q, want -p", call.Args[0])
	}
	if call.Stdin != "generate the body" {
		t.Errorf("Stdin = %q, want the prompt", call.Stdin)
	}

	allowed, _ := argValue(call.Args, "--allowedTools")
	for _, want := range []string{"Write", toolconfig.ToolWritePRBody} {
		if !strings.Contains(allowed, want) {
			t.Errorf("--allowedTools %q missing %s", allowed, want)
		}
	}
	disallowed, _ := argValue(call.Args, "--disallowedTools")
	if !strings.Contains(disallowed, "Bash(rm:*)") || !strings.Contains(disallowed, "WebFetch") {
		t.Errorf("--disallowedTools = %q", disallowed)
	}
	if model, _ := argValue(call.Args, "--model"); model != "claude-sonnet-4-5" {
		t.Errorf("--model = %q", model)
	}
	if mcp, _ := argValue(call.Args, "--mcp-config"); mcp != `{"mcpServers":{}}` {
		t.Errorf("--mcp-config = %q", mcp)
	}
}

func TestProvider_RunWithoutOptions(t *testing.T) {
	runner := github.NewMockCommandRunner()
	p := NewProvider(runner, "", "", 0, toolconfig.Options{})

	if _, err := p.Run(context.Background(), &shared.Request{Prompt: "p"}); err != nil {
		t.Fatal(err)
	}
	args := runner.Calls[0].Args
	for _, flag := range []string{"--model", "--mcp-config"} {
		if _, ok := argValue(args, flag); ok {
			t.Errorf("unexpected %s in %v", flag, args)
		}
	}
	allowed, _ := argValue(args, "--allowedTools")
	if strings.Contains(allowed, "mcp__pr_body") {
		t.Errorf("MCP tools allowed without MCP config: %q", allowed)
	}
}

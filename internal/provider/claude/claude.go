// Package claude drives the Claude Code CLI in print mode.
package claude

import (
	"context"
	"strings"
	"time"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/provider/shared"
	"github.com/cexll/pr-formatter/internal/toolconfig"
)

const (
	defaultBinary = "claude"
	// MCPServerType is the server type claude expects for stdio servers
	MCPServerType = "stdio"
)

// Provider runs `claude -p` with the prompt on stdin and an explicit tool surface
type Provider struct {
	binary  string
	model   string
	timeout time.Duration
	tools   toolconfig.Options
	runner  github.CommandRunner
}

// NewProvider creates a Claude provider
func NewProvider(runner github.CommandRunner, binary, model string, timeout time.Duration, tools toolconfig.Options) *Provider {
	if binary == "" {
		binary = defaultBinary
	}
	return &Provider{binary: binary, model: model, timeout: timeout, tools: tools, runner: runner}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "claude"
}

// Run executes the agent and returns its combined output
func (p *Provider) Run(ctx context.Context, req *shared.Request) (string, error) {
	return shared.Invoke(ctx, p.runner, "Claude", p.timeout, req.Prompt, p.command(req))
}

func (p *Provider) command(req *shared.Request) github.Command {
	tools := p.tools
	tools.EnablePRBodyMCP = req.MCPConfig != ""

	args := []string{
		"-p",
		"--allowedTools", strings.Join(toolconfig.BuildAllowedTools(tools), ","),
		"--disallowedTools", strings.Join(toolconfig.BuildDisallowedTools(tools), ","),
	}
	if p.model != "" {
		args = append(args, "--model", p.model)
	}
	if req.MCPConfig != "" {
		args = append(args, "--mcp-config", req.MCPConfig)
	}
	// Prompt goes through stdin to stay clear of ARG_MAX on large PRs
	return github.Command{Name: p.binary, Args: args, Dir: req.WorkDir, Stdin: req.Prompt}
}

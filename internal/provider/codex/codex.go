// Package codex drives the Codex CLI through `codex exec`.
package codex

import (
	"context"
	"time"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/provider/shared"
)

const defaultBinary = "codex"

// Provider runs `codex exec` with sandboxing disabled so it can write the output file
type Provider struct {
	binary  string
	model   string
	timeout time.Duration
	runner  github.CommandRunner
}

// NewProvider creates a Codex provider
func NewProvider(runner github.CommandRunner, binary, model string, timeout time.Duration) *Provider {
	if binary == "" {
		binary = defaultBinary
	}
	return &Provider{binary: binary, model: model, timeout: timeout, runner: runner}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "codex"
}

// Run executes the agent and returns its combined output.
// Codex reads MCP servers from its own config.toml, so req.MCPConfig is ignored.
func (p *Provider) Run(ctx context.Context, req *shared.Request) (string, error) {
	return shared.Invoke(ctx, p.runner, "Codex", p.timeout, req.Prompt, p.command(req))
}

func (p *Provider) command(req *shared.Request) github.Command {
	args := []string{"exec"}
	if p.model != "" {
		args = append(args, "-m", p.model)
	}
	args = append(args, "--dangerously-bypass-approvals-and-sandbox")
	if req.WorkDir != "" {
		args = append(args, "-C", req.WorkDir)
	}
	args = append(args, req.Prompt)
	return github.Command{Name: p.binary, Args: args, Dir: req.WorkDir}
}

// Package copilot drives the GitHub Copilot CLI in non-interactive mode.
package copilot

import (
	"context"
	"time"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/provider/shared"
)

const (
	defaultBinary = "copilot"
	// MCPServerType is the server type copilot expects for stdio servers
	MCPServerType = "local"
)

// Provider runs `copilot -p <prompt> --allow-all-tools`
type Provider struct {
	binary  string
	model   string
	timeout time.Duration
	runner  github.CommandRunner
}

// NewProvider creates a Copilot provider
func NewProvider(runner github.CommandRunner, binary, model string, timeout time.Duration) *Provider {
	if binary == "" {
		binary = defaultBinary
	}
	return &Provider{binary: binary, model: model, timeout: timeout, runner: runner}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "copilot"
}

// Run executes the agent and returns its combined output
func (p *Provider) Run(ctx context.Context, req *shared.Request) (string, error) {
	return shared.Invoke(ctx, p.runner, "Copilot", p.timeout, req.Prompt, p.command(req))
}

func (p *Provider) command(req *shared.Request) github.Command {
	args := []string{"-p", req.Prompt, "--allow-all-tools"}
	if p.model != "" {
		args = append(args, "--model", p.model)
	}
	if req.MCPConfig != "" {
		args = append(args, "--additional-mcp-config", req.MCPConfig)
	}
	return github.Command{Name: p.binary, Args: args, Dir: req.WorkDir}
}

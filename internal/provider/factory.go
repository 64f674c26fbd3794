package provider

import (
	"fmt"
	"time"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/provider/claude"
	"github.com/cexll/pr-formatter/internal/provider/codex"
	"github.com/cexll/pr-formatter/internal/provider/copilot"
	"github.com/cexll/pr-formatter/internal/provider/shared"
	"github.com/cexll/pr-formatter/internal/toolconfig"
)

// Config contains provider configuration
type Config struct {
	// Provider name: "copilot", "claude", "codex"
	Name    string
	Binary  string
	Model   string
	Timeout time.Duration

	// Tool lists for agents that take them on the command line (claude)
	AllowedTools    []string
	DisallowedTools []string
}

// NewAgent creates an agent based on configuration
func NewAgent(cfg *Config, runner github.CommandRunner) (Agent, error) {
	switch cfg.Name {
	case "copilot", "":
		return copilot.NewProvider(runner, cfg.Binary, cfg.Model, cfg.Timeout), nil
	case "claude":
		return claude.NewProvider(runner, cfg.Binary, cfg.Model, cfg.Timeout, toolconfig.Options{
			CustomAllowedTools:    cfg.AllowedTools,
			CustomDisallowedTools: cfg.DisallowedTools,
		}), nil
	case "codex":
		return codex.NewProvider(runner, cfg.Binary, cfg.Model, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown agent: %s (supported: copilot, claude, codex)", cfg.Name)
	}
}

// MCPServerType returns the mcpServers "type" value the agent expects,
// or "" when the agent takes no MCP config on its command line.
func MCPServerType(name string) string {
	switch name {
	case "copilot", "":
		return copilot.MCPServerType
	case "claude":
		return claude.MCPServerType
	default:
		return ""
	}
}

// Request is re-exported so callers need not import shared
type Request = shared.Request

package shared

import (
	"encoding/json"
	"fmt"
	"os/exec"
)

// MCPServerBinary is the PR body MCP server shipped alongside the job
const MCPServerBinary = "pr-body-mcp"

// LookPath resolves the MCP server binary; tests replace it
var LookPath = exec.LookPath

// MCPServer is one entry of an agent's mcpServers config
type MCPServer struct {
	Type    string            `json:"type"`
	Command string            `json:"command"`
	Args    []string          `json:"args"`
	Env     map[string]string `json:"env,omitempty"`
	Tools   []string          `json:"tools,omitempty"`
}

type mcpConfig struct {
	MCPServers map[string]MCPServer `json:"mcpServers"`
}

// MCPOptions describe the pr_body server the agent should start
type MCPOptions struct {
	// ServerType is "local" for copilot and "stdio" for claude
	ServerType   string
	TemplatePath string
	OutputFile   string
	AllTools     bool
}

// BuildMCPConfig renders the agent MCP config for the pr_body server.
// It returns "" when the server binary is not installed.
func BuildMCPConfig(opts MCPOptions) (string, error) {
	path, err := LookPath(MCPServerBinary)
	if err != nil {
		return "", nil
	}

	server := MCPServer{
		Type:    opts.ServerType,
		Command: path,
		Args:    []string{},
		Env: map[string]string{
			"PR_TEMPLATE_PATH": opts.TemplatePath,
			"PR_BODY_OUTPUT":   opts.OutputFile,
		},
	}
	if opts.AllTools {
		server.Tools = []string{"*"}
	}

	data, err := json.Marshal(mcpConfig{MCPServers: map[string]MCPServer{"pr_body": server}})
	if err != nil {
		return "", fmt.Errorf("failed to marshal MCP config: %w", err)
	}
	return string(data), nil
}

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the environment variable pointing at an optional YAML config file.
const ConfigFileEnv = "PR_FORMATTER_CONFIG"

// Config holds all configuration for the pr-formatter job
type Config struct {
	// Repository paths
	TemplatePath string `yaml:"template_path" env:"PR_TEMPLATE_PATH,overwrite,default=.github/PULL_REQUEST_TEMPLATE.md"`
	OutputFile   string `yaml:"output_file" env:"PR_BODY_OUTPUT,overwrite,default=./ci/tmp/pr_body_generated.md"`
	ReportFile   string `yaml:"report_file" env:"PR_FORMATTER_REPORT,overwrite,default=./ci/tmp/result_pr_formatter.json"`
	WorkDir      string `yaml:"work_dir" env:"PR_FORMATTER_WORKDIR,overwrite,default=."`

	// Agent settings
	Agent        string        `yaml:"agent" env:"AGENT,overwrite,default=copilot"` // "copilot", "claude" or "codex"
	AgentBinary  string        `yaml:"agent_binary" env:"AGENT_BINARY,overwrite"`
	AgentModel   string        `yaml:"agent_model" env:"AGENT_MODEL,overwrite"`
	AgentTimeout time.Duration `yaml:"agent_timeout" env:"AGENT_TIMEOUT,overwrite,default=20m"`
	EnableMCP    bool          `yaml:"enable_mcp" env:"ENABLE_MCP,overwrite"`
	MaxWords     int           `yaml:"max_entry_words" env:"CHANGELOG_MAX_WORDS,overwrite,default=50"`

	// Extra tool rules for agents that take explicit tool lists (claude)
	AllowedTools    []string `yaml:"allowed_tools" env:"ALLOWED_TOOLS,overwrite"`
	DisallowedTools []string `yaml:"disallowed_tools" env:"DISALLOWED_TOOLS,overwrite"`

	// Secret settings
	SecretSource  string `yaml:"secret_source" env:"SECRET_SOURCE,overwrite,default=ssm"` // "ssm", "env" or "app"
	SSMParameter  string `yaml:"ssm_parameter" env:"SSM_PARAMETER,overwrite,default=/github-tokens/robot-2-copilot"`
	AWSRegion     string `yaml:"aws_region" env:"AWS_REGION,overwrite"`
	TokenEnv      string `yaml:"token_env" env:"TOKEN_ENV,overwrite,default=GH_TOKEN"`
	GitHubAppID   string `yaml:"github_app_id" env:"GITHUB_APP_ID,overwrite"`
	GitHubAppKey  string `yaml:"-" env:"GITHUB_PRIVATE_KEY,overwrite"`
	GitHubAPIURL  string `yaml:"github_api_url" env:"GITHUB_API_URL,overwrite,default=https://api.github.com/"`
	UpdateBackend string `yaml:"update_backend" env:"PR_UPDATE_BACKEND,overwrite,default=gh"` // "gh" or "api"
	GHBinary      string `yaml:"gh_binary" env:"GH_BINARY,overwrite,default=gh"`

	// Pull request overrides; empty values are taken from the CI environment
	PRNumber   int    `yaml:"pr_number" env:"PR_NUMBER,overwrite"`
	Repository string `yaml:"repository" env:"PR_REPOSITORY,overwrite"`
	PRTitle    string `yaml:"pr_title" env:"PR_TITLE,overwrite"`
	BaseBranch string `yaml:"base_branch" env:"PR_BASE_BRANCH,overwrite"`
	HeadBranch string `yaml:"head_branch" env:"PR_HEAD_BRANCH,overwrite"`
}

// Load loads configuration from an optional YAML file and the environment.
// Environment variables take precedence over the file.
func Load(ctx context.Context) (*Config, error) {
	return loadWith(ctx, os.Getenv(ConfigFileEnv), envconfig.OsLookuper())
}

func loadWith(ctx context.Context, path string, lookuper envconfig.Lookuper) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	cfg.GitHubAppKey = normalizePrivateKey(cfg.GitHubAppKey)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func normalizePrivateKey(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "\"") && strings.HasSuffix(trimmed, "\"") {
		trimmed = strings.TrimPrefix(trimmed, "\"")
		trimmed = strings.TrimSuffix(trimmed, "\"")
	}
	if strings.HasPrefix(trimmed, "'") && strings.HasSuffix(trimmed, "'") {
		trimmed = strings.TrimPrefix(trimmed, "'")
		trimmed = strings.TrimSuffix(trimmed, "'")
	}

	trimmed = strings.ReplaceAll(trimmed, "\r\n", "\n")
	trimmed = strings.ReplaceAll(trimmed, "\r", "\n")
	if strings.Contains(trimmed, "\\n") {
		trimmed = strings.ReplaceAll(trimmed, "\\r", "")
		trimmed = strings.ReplaceAll(trimmed, "\\n", "\n")
	}

	return trimmed
}

// validate checks that the configuration is usable
func (c *Config) validate() error {
	if err := c.validateAgent(); err != nil {
		return err
	}
	if err := c.validateSecretSource(); err != nil {
		return err
	}
	return c.validateUpdateBackend()
}

func (c *Config) validateAgent() error {
	switch c.Agent {
	case "copilot", "claude", "codex":
	default:
		return fmt.Errorf("invalid agent: %s (must be 'copilot', 'claude' or 'codex')", c.Agent)
	}
	if c.AgentTimeout <= 0 {
		return fmt.Errorf("AGENT_TIMEOUT must be greater than 0")
	}
	if c.MaxWords <= 0 {
		return fmt.Errorf("CHANGELOG_MAX_WORDS must be greater than 0")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("PR_BODY_OUTPUT is required")
	}
	return nil
}

func (c *Config) validateSecretSource() error {
	if c.TokenEnv == "" {
		return fmt.Errorf("TOKEN_ENV is required")
	}
	switch c.SecretSource {
	case "ssm":
		if c.SSMParameter == "" {
			return fmt.Errorf("SSM_PARAMETER is required for ssm secret source")
		}
	case "env":
	case "app":
		if c.GitHubAppID == "" {
			return fmt.Errorf("GITHUB_APP_ID is required for app secret source")
		}
		if c.GitHubAppKey == "" {
			return fmt.Errorf("GITHUB_PRIVATE_KEY is required for app secret source")
		}
	default:
		return fmt.Errorf("invalid secret source: %s (must be 'ssm', 'env' or 'app')", c.SecretSource)
	}
	return nil
}

func (c *Config) validateUpdateBackend() error {
	switch c.UpdateBackend {
	case "gh", "api":
		return nil
	default:
		return fmt.Errorf("invalid PR update backend: %s (must be 'gh' or 'api')", c.UpdateBackend)
	}
}

// Package job runs the PR formatter pipeline: export the token, let the agent
// write the PR body, validate it and publish it.
package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"

	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/prompt"
	"github.com/cexll/pr-formatter/internal/provider"
	"github.com/cexll/pr-formatter/internal/provider/copilot"
	"github.com/cexll/pr-formatter/internal/provider/shared"
	"github.com/cexll/pr-formatter/internal/result"
	"github.com/cexll/pr-formatter/internal/secret"
)

// Step and job names as they appear in the report
const (
	Name             = "PR Formatter"
	StepExportToken  = "export token"
	StepConnect      = "connect"
	StepPrompt       = "prompt"
	StepCheckOutput  = "check output"
	StepUpdatePRBody = "update PR body"
)

// ConnectFunc builds the PR updater once the token is in the environment.
// It may complete info from the API.
type ConnectFunc func(ctx context.Context, token string, info *github.PRInfo) (github.PRUpdater, error)

// Options control where the job reads and writes
type Options struct {
	TemplatePath string
	OutputFile   string
	WorkDir      string
	// MCPServerType is the agent's mcpServers type; empty disables the MCP helper
	MCPServerType string
	MaxEntryWords int
}

// PRFormatter wires the collaborators of one job run
type PRFormatter struct {
	Info     *github.PRInfo
	Secret   secret.Source
	TokenEnv string
	Agent    provider.Agent
	Connect  ConnectFunc
	Options  Options
}

// Run executes the steps in order and stops at the first failure.
// The returned job result holds every step that ran.
func (f *PRFormatter) Run(ctx context.Context) *result.Result {
	log := clog.FromContext(ctx)
	log.Infof("[Job] Formatting PR body for %s#%d with %s", f.Info.Repository, f.Info.Number, f.Agent.Name())

	token, err := secret.Export(ctx, f.Secret, f.TokenEnv)
	if err != nil {
		return result.Create(Name, result.NewError(StepExportToken, err))
	}

	updater, err := f.Connect(ctx, token, f.Info)
	if err != nil {
		return result.Create(Name, result.NewError(StepConnect, err))
	}

	outputPath := f.outputPath()
	req, err := f.request(ctx, outputPath)
	if err != nil {
		return result.Create(Name, result.NewError(StepPrompt, err))
	}

	steps := []struct {
		name     string
		withInfo bool
		command  result.Command
	}{
		{StepPrompt, true, func(ctx context.Context) (string, error) {
			out, err := f.Agent.Run(ctx, req)
			return github.RedactSecrets(out, token), err
		}},
		{StepCheckOutput, false, func(ctx context.Context) (string, error) {
			return CheckOutput(ctx, outputPath, token)
		}},
		{StepUpdatePRBody, false, result.Func(func(ctx context.Context) error {
			return updater.UpdatePRBody(ctx, f.Info, outputPath)
		})},
	}

	var results []*result.Result
	for _, step := range steps {
		res := result.FromCommandsRun(ctx, step.name, step.withInfo, step.command)
		results = append(results, res)
		if !res.IsOK() {
			break
		}
	}
	return result.Create(Name, results...)
}

// outputPath resolves the output file against the agent's working directory
func (f *PRFormatter) outputPath() string {
	if filepath.IsAbs(f.Options.OutputFile) || f.Options.WorkDir == "" {
		return f.Options.OutputFile
	}
	return filepath.Join(f.Options.WorkDir, f.Options.OutputFile)
}

// request prepares the output directory and renders the agent prompt
func (f *PRFormatter) request(ctx context.Context, outputPath string) (*shared.Request, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	// A body left over from an earlier run must not pass the output check
	if err := os.Remove(outputPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to remove stale output: %w", err)
	}

	templatePath := f.Options.TemplatePath
	if !filepath.IsAbs(templatePath) && f.Options.WorkDir != "" {
		templatePath = filepath.Join(f.Options.WorkDir, templatePath)
	}
	categories, err := prompt.LoadChangelogCategories(templatePath)
	if err != nil {
		clog.WarnContextf(ctx, "[Job] Categories not listed in prompt: %v", err)
	}

	var mcpConfig string
	if f.Options.MCPServerType != "" {
		mcpConfig, err = shared.BuildMCPConfig(shared.MCPOptions{
			ServerType:   f.Options.MCPServerType,
			TemplatePath: templatePath,
			OutputFile:   outputPath,
			AllTools:     f.Options.MCPServerType == copilot.MCPServerType,
		})
		if err != nil {
			return nil, err
		}
		if mcpConfig == "" {
			clog.WarnContextf(ctx, "[Job] %s not found on PATH, running without MCP tools", shared.MCPServerBinary)
		}
	}

	text, err := prompt.BuildPRBodyPrompt(f.Info, prompt.Options{
		TemplatePath:  f.Options.TemplatePath,
		OutputFile:    f.Options.OutputFile,
		Categories:    categories,
		MaxEntryWords: f.Options.MaxEntryWords,
		MCPTools:      mcpConfig != "",
	})
	if err != nil {
		return nil, err
	}

	return &shared.Request{Prompt: text, WorkDir: f.Options.WorkDir, MCPConfig: mcpConfig}, nil
}

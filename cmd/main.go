// Command pr-formatter asks an AI agent to rewrite the body of the current
// pull request to match the repository's PR template, then publishes it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"
	"github.com/joho/godotenv"

	"github.com/cexll/pr-formatter/internal/config"
	"github.com/cexll/pr-formatter/internal/github"
	"github.com/cexll/pr-formatter/internal/job"
	"github.com/cexll/pr-formatter/internal/provider"
	"github.com/cexll/pr-formatter/internal/secret"
)

var (
	loadDotEnv    = godotenv.Load
	loadConfig    = config.Load
	getenv        = os.Getenv
	newRunner     = func() github.CommandRunner { return &github.RealCommandRunner{} }
	newAgent      = provider.NewAgent
	newAPIClient  = github.NewAPIClient
	newSSMSource  = func(ctx context.Context, name, region string) (secret.Source, error) {
		return secret.NewSSMSource(ctx, name, region)
	}
)

var summaryOutput io.Writer = os.Stdout

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		clog.FatalContextf(ctx, "PR formatter failed: %v", err)
	}
}

func run(ctx context.Context) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	info, err := github.LoadPRInfo(getenv, github.Overrides{
		Number:     cfg.PRNumber,
		Repository: cfg.Repository,
		Title:      cfg.PRTitle,
		BaseBranch: cfg.BaseBranch,
		HeadBranch: cfg.HeadBranch,
	})
	if err != nil {
		return err
	}

	clog.InfoContextf(ctx, "Starting PR formatter for %s", info.ChangeURL)
	clog.InfoContextf(ctx, "Agent: %s, secret source: %s, update backend: %s", cfg.Agent, cfg.SecretSource, cfg.UpdateBackend)

	src, err := secretSource(ctx, cfg, info)
	if err != nil {
		return err
	}

	runner := newRunner()
	agent, err := newAgent(&provider.Config{
		Name:    cfg.Agent,
		Binary:  cfg.AgentBinary,
		Model:   cfg.AgentModel,
		Timeout: cfg.AgentTimeout,

		AllowedTools:    cfg.AllowedTools,
		DisallowedTools: cfg.DisallowedTools,
	}, runner)
	if err != nil {
		return fmt.Errorf("failed to initialize agent: %w", err)
	}

	opts := job.Options{
		TemplatePath:  cfg.TemplatePath,
		OutputFile:    cfg.OutputFile,
		WorkDir:       cfg.WorkDir,
		MaxEntryWords: cfg.MaxWords,
	}
	if cfg.EnableMCP {
		opts.MCPServerType = provider.MCPServerType(cfg.Agent)
	}

	formatter := &job.PRFormatter{
		Info:     info,
		Secret:   src,
		TokenEnv: cfg.TokenEnv,
		Agent:    agent,
		Connect:  connector(cfg, runner),
		Options:  opts,
	}

	return formatter.Run(ctx).Complete(ctx, summaryOutput, cfg.ReportFile)
}

// secretSource picks where the publishing token comes from
func secretSource(ctx context.Context, cfg *config.Config, info *github.PRInfo) (secret.Source, error) {
	switch cfg.SecretSource {
	case "env":
		return &secret.EnvSource{Name: cfg.TokenEnv, Getenv: getenv}, nil
	case "app":
		return &secret.AppSource{
			Auth: &github.AppAuth{
				AppID:      cfg.GitHubAppID,
				PrivateKey: cfg.GitHubAppKey,
				APIBase:    cfg.GitHubAPIURL,
			},
			Repo: info.Repository,
		}, nil
	default:
		src, err := newSSMSource(ctx, cfg.SSMParameter, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize secret source: %w", err)
		}
		return src, nil
	}
}

// connector builds the PR updater for the configured backend. The API backend
// also completes missing PR details before the prompt is rendered.
func connector(cfg *config.Config, runner github.CommandRunner) job.ConnectFunc {
	return func(ctx context.Context, token string, info *github.PRInfo) (github.PRUpdater, error) {
		if cfg.UpdateBackend != "api" {
			return github.NewGHCLIUpdater(runner, cfg.GHBinary), nil
		}

		client, err := newAPIClient(ctx, token, cfg.GitHubAPIURL)
		if err != nil {
			return nil, err
		}
		if err := github.FillFromAPI(ctx, client, info); err != nil {
			return nil, err
		}
		return github.NewAPIUpdater(client), nil
	}
}

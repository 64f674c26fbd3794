package github

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
	gh "github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// PRUpdater replaces the body of a pull request with the contents of a file
type PRUpdater interface {
	UpdatePRBody(ctx context.Context, info *PRInfo, bodyFile string) error
}

// NewAPIClient creates a go-github client authenticated with token.
// baseURL defaults to https://api.github.com/.
func NewAPIClient(ctx context.Context, token, baseURL string) (*gh.Client, error) {
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	client := gh.NewClient(httpClient)

	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		u, err := url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", baseURL, err)
		}
		client.BaseURL = u
	}
	return client, nil
}

// GHCLIUpdater updates PR bodies with `gh pr edit`. gh picks up GH_TOKEN from the environment.
type GHCLIUpdater struct {
	runner CommandRunner
	binary string
}

// NewGHCLIUpdater creates a gh-based updater; binary defaults to "gh"
func NewGHCLIUpdater(runner CommandRunner, binary string) *GHCLIUpdater {
	if runner == nil {
		runner = &RealCommandRunner{}
	}
	if binary == "" {
		binary = "gh"
	}
	return &GHCLIUpdater{runner: runner, binary: binary}
}

// UpdatePRBody runs gh pr edit <N> --repo <repo> --body-file <file>
func (u *GHCLIUpdater) UpdatePRBody(ctx context.Context, info *PRInfo, bodyFile string) error {
	args := []string{
		"pr", "edit", strconv.Itoa(info.Number),
		"--repo", info.Repository,
		"--body-file", bodyFile,
	}

	clog.InfoContextf(ctx, "[GitHub] Updating PR body: %s %s", u.binary, strings.Join(args, " "))
	output, err := u.runner.Run(ctx, Command{Name: u.binary, Args: args})
	if err != nil {
		return fmt.Errorf("gh pr edit failed: %w\nOutput: %s", err, RedactGitHubTokens(string(output)))
	}
	return nil
}

// APIUpdater updates PR bodies through the REST API
type APIUpdater struct {
	client *gh.Client
}

// NewAPIUpdater creates an API-based updater
func NewAPIUpdater(client *gh.Client) *APIUpdater {
	return &APIUpdater{client: client}
}

// UpdatePRBody edits the pull request body via PATCH /repos/{owner}/{repo}/pulls/{number}
func (u *APIUpdater) UpdatePRBody(ctx context.Context, info *PRInfo, bodyFile string) error {
	data, err := os.ReadFile(bodyFile)
	if err != nil {
		return fmt.Errorf("failed to read body file: %w", err)
	}

	clog.InfoContextf(ctx, "[GitHub] Updating PR body via API: %s#%d (%d bytes)", info.Repository, info.Number, len(data))
	_, _, err = u.client.PullRequests.Edit(ctx, info.Owner(), info.Name(), info.Number, &gh.PullRequest{
		Body: gh.String(string(data)),
	})
	if err != nil {
		return fmt.Errorf("failed to edit pull request: %w", err)
	}
	return nil
}

// FillFromAPI loads title, body and branches that the CI environment did not provide
func FillFromAPI(ctx context.Context, client *gh.Client, info *PRInfo) error {
	if info.Title != "" && info.BaseBranch != "" && info.HeadBranch != "" {
		return nil
	}

	pr, _, err := client.PullRequests.Get(ctx, info.Owner(), info.Name(), info.Number)
	if err != nil {
		return fmt.Errorf("failed to fetch pull request: %w", err)
	}

	if info.Title == "" {
		info.Title = pr.GetTitle()
	}
	if info.Body == "" {
		info.Body = pr.GetBody()
	}
	if info.BaseBranch == "" {
		info.BaseBranch = pr.GetBase().GetRef()
	}
	if info.HeadBranch == "" {
		info.HeadBranch = pr.GetHead().GetRef()
	}
	return nil
}

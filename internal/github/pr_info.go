package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v66/github"
)

// ErrNotPullRequest is returned when the job runs outside a pull request
var ErrNotPullRequest = errors.New("this job must run for a pull request")

var rePullRef = regexp.MustCompile(`^refs/pull/(\d+)/`)

// PRInfo describes the pull request the job runs for
type PRInfo struct {
	Repository string // owner/name
	Number     int
	ChangeURL  string
	BaseBranch string
	HeadBranch string
	Title      string
	Body       string
}

// Owner returns the repository owner
func (p *PRInfo) Owner() string {
	owner, _, _ := SplitRepo(p.Repository)
	return owner
}

// Name returns the repository name
func (p *PRInfo) Name() string {
	_, name, _ := SplitRepo(p.Repository)
	return name
}

// Overrides are explicit values that win over the CI environment
type Overrides struct {
	Number     int
	Repository string
	Title      string
	BaseBranch string
	HeadBranch string
}

// LoadPRInfo builds PRInfo from GitHub Actions variables, the event payload
// at GITHUB_EVENT_PATH and the given overrides.
func LoadPRInfo(getenv func(string) string, o Overrides) (*PRInfo, error) {
	info := &PRInfo{
		Repository: getenv("GITHUB_REPOSITORY"),
		BaseBranch: getenv("GITHUB_BASE_REF"),
		HeadBranch: getenv("GITHUB_HEAD_REF"),
	}

	if m := rePullRef.FindStringSubmatch(getenv("GITHUB_REF")); m != nil {
		info.Number, _ = strconv.Atoi(m[1])
	}

	if path := getenv("GITHUB_EVENT_PATH"); path != "" {
		if err := info.applyEventFile(path); err != nil {
			return nil, err
		}
	}

	info.applyOverrides(o)

	if info.Number <= 0 {
		return nil, ErrNotPullRequest
	}
	if _, _, err := SplitRepo(info.Repository); err != nil {
		return nil, err
	}
	if info.ChangeURL == "" {
		server := strings.TrimSuffix(getenv("GITHUB_SERVER_URL"), "/")
		if server == "" {
			server = "https://github.com"
		}
		info.ChangeURL = fmt.Sprintf("%s/%s/pull/%d", server, info.Repository, info.Number)
	}

	return info, nil
}

func (p *PRInfo) applyEventFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read event payload: %w", err)
	}

	var event gh.PullRequestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("failed to parse event payload: %w", err)
	}

	pr := event.GetPullRequest()
	if pr == nil {
		// push, schedule and friends carry no pull request
		return nil
	}

	p.Number = pr.GetNumber()
	p.Title = pr.GetTitle()
	p.Body = pr.GetBody()
	p.ChangeURL = pr.GetHTMLURL()
	if ref := pr.GetBase().GetRef(); ref != "" {
		p.BaseBranch = ref
	}
	if ref := pr.GetHead().GetRef(); ref != "" {
		p.HeadBranch = ref
	}
	if full := event.GetRepo().GetFullName(); full != "" {
		p.Repository = full
	}
	return nil
}

func (p *PRInfo) applyOverrides(o Overrides) {
	if o.Number > 0 {
		p.Number = o.Number
		p.ChangeURL = ""
	}
	if o.Repository != "" {
		p.Repository = o.Repository
		p.ChangeURL = ""
	}
	if o.Title != "" {
		p.Title = o.Title
	}
	if o.BaseBranch != "" {
		p.BaseBranch = o.BaseBranch
	}
	if o.HeadBranch != "" {
		p.HeadBranch = o.HeadBranch
	}
}

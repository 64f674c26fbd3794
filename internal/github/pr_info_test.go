package github

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const pullRequestEvent = `{
  "action": "synchronize",
  "number": 81234,
  "pull_request": {
    "number": 81234,
    "title": "Fix crash in parallel replicas",
    "body": "### Changelog category (leave one):\n- Bug Fix",
    "html_url": "https://github.com/ClickHouse/ClickHouse/pull/81234",
    "base": {"ref": "master"},
    "head": {"ref": "fix-parallel-replicas"}
  },
  "repository": {"full_name": "ClickHouse/ClickHouse"}
}`

func envFunc(env map[string]string) func(string) string {
	return func(k string) string { return env[k] }
}

func writeEvent(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write event: %v", err)
	}
	return path
}

func TestLoadPRInfo(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		event     string
		overrides Overrides
		want      *PRInfo
		wantErr   error
	}{
		{
			name:  "pull_request event payload",
			env:   map[string]string{"GITHUB_REPOSITORY": "ClickHouse/ClickHouse"},
			event: pullRequestEvent,
			want: &PRInfo{
				Repository: "ClickHouse/ClickHouse",
				Number:     81234,
				ChangeURL:  "https://github.com/ClickHouse/ClickHouse/pull/81234",
				BaseBranch: "master",
				HeadBranch: "fix-parallel-replicas",
				Title:      "Fix crash in parallel replicas",
				Body:       "### Changelog category (leave one):\n- Bug Fix",
			},
		},
		{
			name: "number from GITHUB_REF",
			env: map[string]string{
				"GITHUB_REPOSITORY": "owner/repo",
				"GITHUB_REF":        "refs/pull/17/merge",
				"GITHUB_BASE_REF":   "main",
				"GITHUB_HEAD_REF":   "feature",
				"GITHUB_SERVER_URL": "https://ghe.example.com/",
			},
			want: &PRInfo{
				Repository: "owner/repo",
				Number:     17,
				ChangeURL:  "https://ghe.example.com/owner/repo/pull/17",
				BaseBranch: "main",
				HeadBranch: "feature",
			},
		},
		{
			name:      "overrides win",
			env:       map[string]string{"GITHUB_REPOSITORY": "ClickHouse/ClickHouse"},
			event:     pullRequestEvent,
			overrides: Overrides{Number: 5, Repository: "fork/repo", Title: "Manual"},
			want: &PRInfo{
				Repository: "fork/repo",
				Number:     5,
				ChangeURL:  "https://github.com/fork/repo/pull/5",
				BaseBranch: "master",
				HeadBranch: "fix-parallel-replicas",
				Title:      "Manual",
				Body:       "### Changelog category (leave one):\n- Bug Fix",
			},
		},
		{
			name:    "push event has no pull request",
			env:     map[string]string{"GITHUB_REPOSITORY": "owner/repo", "GITHUB_REF": "refs/heads/main"},
			event:   `{"ref": "refs/heads/main", "repository": {"full_name": "owner/repo"}}`,
			wantErr: ErrNotPullRequest,
		},
		{
			name:    "nothing set",
			env:     map[string]string{},
			wantErr: ErrNotPullRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := tt.env
			if tt.event != "" {
				env["GITHUB_EVENT_PATH"] = writeEvent(t, tt.event)
			}

			got, err := LoadPRInfo(envFunc(env), tt.overrides)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("LoadPRInfo() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadPRInfo() unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("LoadPRInfo() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadPRInfo_InvalidRepository(t *testing.T) {
	_, err := LoadPRInfo(envFunc(map[string]string{"GITHUB_REF": "refs/pull/1/merge"}), Overrides{})
	if err == nil {
		t.Fatal("expected invalid repo error")
	}
}

func TestLoadPRInfo_BadEventFile(t *testing.T) {
	env := map[string]string{
		"GITHUB_REPOSITORY": "owner/repo",
		"GITHUB_EVENT_PATH": writeEvent(t, "{not json"),
	}
	if _, err := LoadPRInfo(envFunc(env), Overrides{}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestPRInfo_OwnerName(t *testing.T) {
	info := &PRInfo{Repository: "ClickHouse/ClickHouse"}
	if info.Owner() != "ClickHouse" || info.Name() != "ClickHouse" {
		t.Fatalf("Owner/Name = %s/%s", info.Owner(), info.Name())
	}
}

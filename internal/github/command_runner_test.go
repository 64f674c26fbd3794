package github

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRealCommandRunner_Run(t *testing.T) {
	runner := &RealCommandRunner{}

	output, err := runner.Run(context.Background(), Command{Name: "echo", Args: []string{"hello"}})
	if err != nil {
		t.Errorf("Run() unexpected error: %v", err)
	}
	if !strings.Contains(string(output), "hello") {
		t.Errorf("Run() output = %q, want to contain 'hello'", string(output))
	}
}

func TestRealCommandRunner_DirEnvStdin(t *testing.T) {
	runner := &RealCommandRunner{}
	dir := t.TempDir()

	output, err := runner.Run(context.Background(), Command{
		Name:  "sh",
		Args:  []string{"-c", "pwd; echo $PR_FORMATTER_TEST; cat"},
		Dir:   dir,
		Env:   []string{"PR_FORMATTER_TEST=value"},
		Stdin: "from-stdin",
	})
	if err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	got := string(output)
	for _, want := range []string{dir, "value", "from-stdin"} {
		if !strings.Contains(got, want) {
			t.Errorf("Run() output = %q, want to contain %q", got, want)
		}
	}
}

func TestRealCommandRunner_CancelledContext(t *testing.T) {
	runner := &RealCommandRunner{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := runner.Run(ctx, Command{Name: "sleep", Args: []string{"5"}}); err == nil {
		t.Fatal("Run() with cancelled context should fail")
	}
}

func TestMockCommandRunner_Run(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(*MockCommandRunner)
		cmd        Command
		wantOutput string
		wantErr    bool
	}{
		{
			name:       "default behavior (no func set)",
			setupMock:  func(m *MockCommandRunner) {},
			cmd:        Command{Name: "test", Args: []string{"arg1", "arg2"}},
			wantOutput: "",
		},
		{
			name: "custom function returns output",
			setupMock: func(m *MockCommandRunner) {
				m.RunFunc = func(ctx context.Context, cmd Command) ([]byte, error) {
					return []byte("custom output"), nil
				}
			},
			cmd:        Command{Name: "test", Args: []string{"arg1"}},
			wantOutput: "custom output",
		},
		{
			name: "custom function returns error",
			setupMock: func(m *MockCommandRunner) {
				m.RunFunc = func(ctx context.Context, cmd Command) ([]byte, error) {
					return nil, fmt.Errorf("command failed")
				}
			},
			cmd:     Command{Name: "test"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockCommandRunner()
			tt.setupMock(mock)

			output, err := mock.Run(context.Background(), tt.cmd)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if string(output) != tt.wantOutput {
				t.Errorf("Run() output = %q, want %q", string(output), tt.wantOutput)
			}
			if diff := cmp.Diff([]Command{tt.cmd}, mock.Calls); diff != "" {
				t.Errorf("Calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

package github

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"sync"
)

// Command describes one external process invocation
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Env   []string // appended to the current process environment
	Stdin string
}

// CommandRunner is an interface for executing system commands
// This abstraction allows us to mock command execution in tests
type CommandRunner interface {
	// Run executes a command and returns the combined output and error
	Run(ctx context.Context, cmd Command) ([]byte, error)
}

// RealCommandRunner is the production implementation using os/exec
type RealCommandRunner struct{}

// Run executes a command using os/exec
func (r *RealCommandRunner) Run(ctx context.Context, c Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	if c.Stdin != "" {
		cmd.Stdin = bytes.NewBufferString(c.Stdin)
	}
	return cmd.CombinedOutput()
}

// MockCommandRunner is a test implementation that returns predefined responses
type MockCommandRunner struct {
	// RunFunc is called when Run is invoked
	RunFunc func(ctx context.Context, cmd Command) ([]byte, error)

	mu sync.Mutex
	// Calls tracks all command invocations
	Calls []Command
}

// Run executes the mock function
func (m *MockCommandRunner) Run(ctx context.Context, cmd Command) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, cmd)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, cmd)
	}

	return []byte(""), nil
}

// NewMockCommandRunner creates a new mock with default behavior
func NewMockCommandRunner() *MockCommandRunner {
	return &MockCommandRunner{
		Calls: make([]Command, 0),
	}
}

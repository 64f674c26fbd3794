// Package shared holds the invocation plumbing common to every agent CLI.
package shared

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/cexll/pr-formatter/internal/github"
)

// DefaultTimeout bounds an agent run when the context has no deadline
const DefaultTimeout = 20 * time.Minute

var (
	// ErrTimeout is returned when the agent CLI exceeds its deadline
	ErrTimeout = errors.New("agent CLI timed out")
	// ErrPermissionRequest is returned when the agent stopped to ask for approval
	ErrPermissionRequest = errors.New("agent asked for permission instead of acting")
)

// Request is one agent invocation
type Request struct {
	Prompt  string
	WorkDir string
	// MCPConfig is a JSON MCP server config; empty disables it
	MCPConfig string
}

var permissionRequestPhrases = []string{
	"would you like me to proceed",
	"would you like me to continue",
	"shall i proceed",
	"if you grant the necessary permissions",
	"if you grant me permission",
	"grant the necessary permissions",
	"let me know if you want me to proceed",
	"i can proceed once you approve",
}

// AsksForPermission reports whether agent output ends in a request for approval.
// Only the last non-empty line is considered.
func AsksForPermission(output string) bool {
	lower := strings.ToLower(lastLine(output))
	for _, phrase := range permissionRequestPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func lastLine(output string) string {
	output = strings.TrimSpace(output)
	if i := strings.LastIndex(output, "\n"); i >= 0 {
		return output[i+1:]
	}
	return output
}

// Invoke runs an agent command with the default timeout applied and
// classifies the failure. prompt is only used to keep it out of the log.
func Invoke(ctx context.Context, runner github.CommandRunner, label string, timeout time.Duration, prompt string, cmd github.Command) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	clog.InfoContextf(ctx, "[%s] Executing: %s (prompt length: %d chars)", label, Describe(cmd, prompt), len(prompt))

	start := time.Now()
	out, err := runner.Run(ctx, cmd)
	duration := time.Since(start)
	output := string(out)

	if err != nil {
		clog.WarnContextf(ctx, "[%s] Command failed after %v: %v", label, duration, err)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return output, fmt.Errorf("%s: %w after %v", label, ErrTimeout, duration.Round(time.Second))
		}
		return output, fmt.Errorf("%s CLI error: %w", label, err)
	}

	clog.InfoContextf(ctx, "[%s] Command completed in %v, output length: %d bytes", label, duration, len(output))
	if AsksForPermission(output) {
		return output, fmt.Errorf("%s: %w", label, ErrPermissionRequest)
	}
	return output, nil
}

// Describe renders the command line with the prompt and JSON arguments elided
func Describe(cmd github.Command, prompt string) string {
	parts := []string{cmd.Name}
	for _, arg := range cmd.Args {
		switch {
		case prompt != "" && arg == prompt:
			parts = append(parts, "<prompt>")
		case strings.HasPrefix(arg, "{"):
			parts = append(parts, "<json>")
		default:
			parts = append(parts, arg)
		}
	}
	return strings.Join(parts, " ")
}

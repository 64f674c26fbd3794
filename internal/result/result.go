// Package result collects step outcomes of a CI job and reports them.
package result

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"

	"github.com/cexll/pr-formatter/internal/github"
)

// Status is the outcome of a step or job
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	// StatusError marks a step that could not be run at all
	StatusError Status = "error"
)

// Result is the outcome of one step, or of the job when Results is set
type Result struct {
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	StartTime time.Time `json:"start_time"`
	// Duration is in seconds
	Duration float64   `json:"duration"`
	Info     string    `json:"info,omitempty"`
	Results  []*Result `json:"results,omitempty"`
}

// IsOK reports whether the step succeeded
func (r *Result) IsOK() bool {
	return r != nil && r.Status == StatusSuccess
}

// Command is one unit of work inside a step. The output is kept as step info.
type Command func(ctx context.Context) (string, error)

// Func adapts an in-process call to a Command
func Func(fn func(ctx context.Context) error) Command {
	return func(ctx context.Context) (string, error) {
		return "", fn(ctx)
	}
}

// FromCommandsRun runs commands in order and stops at the first failure.
// Output is recorded as Info when withInfo is set; failures always record
// the error and the failing command's output.
func FromCommandsRun(ctx context.Context, name string, withInfo bool, commands ...Command) *Result {
	log := clog.FromContext(ctx).With("step", name)
	res := &Result{Name: name, Status: StatusSuccess, StartTime: time.Now()}
	var info []string

	log.Infof("[Result] Running step %q (%d commands)", name, len(commands))
	for i, command := range commands {
		out, err := command(ctx)
		out = strings.TrimRight(out, "\n")
		if out != "" && (withInfo || err != nil) {
			info = append(info, out)
		}
		if err != nil {
			log.Warnf("[Result] Step %q failed at command %d: %v", name, i+1, err)
			res.Status = StatusFailure
			info = append(info, fmt.Sprintf("command %d failed: %v", i+1, err))
			break
		}
	}

	res.Duration = time.Since(res.StartTime).Seconds()
	res.Info = github.RedactGitHubTokens(strings.Join(info, "\n"))
	log.Infof("[Result] Step %q finished: %s (%.1fs)", name, res.Status, res.Duration)
	return res
}

// NewError records a step that could not be started
func NewError(name string, err error) *Result {
	return &Result{
		Name:      name,
		Status:    StatusError,
		StartTime: time.Now(),
		Info:      github.RedactGitHubTokens(err.Error()),
	}
}

// Create combines step results into the job result.
// The job succeeds only when it has steps and every step succeeded.
func Create(name string, results ...*Result) *Result {
	job := &Result{Name: name, Status: StatusSuccess, Results: results}
	if len(results) == 0 {
		job.Status = StatusError
		job.StartTime = time.Now()
		job.Info = "no steps were run"
		return job
	}

	job.StartTime = results[0].StartTime
	for _, r := range results {
		job.Duration += r.Duration
		if !r.IsOK() && job.Status == StatusSuccess {
			job.Status = StatusFailure
			job.Info = fmt.Sprintf("step %q: %s", r.Name, r.Status)
		}
	}
	return job
}

// ErrJobFailed is returned by Complete when the job did not succeed
var ErrJobFailed = errors.New("job failed")

// FirstFailure returns the first step that did not succeed, or nil
func (r *Result) FirstFailure() *Result {
	for _, step := range r.Results {
		if !step.IsOK() {
			return step
		}
	}
	return nil
}

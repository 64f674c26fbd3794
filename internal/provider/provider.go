package provider

import (
	"context"

	"github.com/cexll/pr-formatter/internal/provider/shared"
)

// Agent is the interface that all agent CLIs must implement
type Agent interface {
	// Run executes the agent with the prompt and returns its output
	Run(ctx context.Context, req *shared.Request) (string, error)

	// Name returns the provider name
	Name() string
}

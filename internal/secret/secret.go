// Package secret fetches the GitHub token the job publishes with and exports
// it into the process environment for the agent and gh.
package secret

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/chainguard-dev/clog"

	"github.com/cexll/pr-formatter/internal/github"
)

// ErrEmptySecret is returned when a source yields an empty value
var ErrEmptySecret = errors.New("secret value is empty")

// Source produces a secret value
type Source interface {
	Value(ctx context.Context) (string, error)
	// Describe names the source for logs; it never contains the value
	Describe() string
}

// SSMGetter is the subset of the SSM client used here
type SSMGetter interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SSMSource reads a SecureString from AWS Systems Manager Parameter Store
type SSMSource struct {
	client SSMGetter
	name   string
}

// NewSSMSource creates an SSM source using the default AWS credential chain
func NewSSMSource(ctx context.Context, name, region string) (*SSMSource, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSSMSourceWithClient(ssm.NewFromConfig(cfg), name), nil
}

// NewSSMSourceWithClient creates an SSM source over an existing client
func NewSSMSourceWithClient(client SSMGetter, name string) *SSMSource {
	return &SSMSource{client: client, name: name}
}

// Value fetches and decrypts the parameter
func (s *SSMSource) Value(ctx context.Context) (string, error) {
	out, err := s.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(s.name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get SSM parameter %s: %w", s.name, err)
	}
	if out.Parameter == nil {
		return "", fmt.Errorf("SSM parameter %s: %w", s.name, ErrEmptySecret)
	}
	return aws.ToString(out.Parameter.Value), nil
}

// Describe implements Source
func (s *SSMSource) Describe() string { return "ssm:" + s.name }

// EnvSource reads a value already present in the environment
type EnvSource struct {
	Name   string
	Getenv func(string) string
}

// Value implements Source
func (s *EnvSource) Value(ctx context.Context) (string, error) {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	return getenv(s.Name), nil
}

// Describe implements Source
func (s *EnvSource) Describe() string { return "env:" + s.Name }

// AppSource mints a GitHub App installation token for one repository
type AppSource struct {
	Auth github.AuthProvider
	Repo string
}

// Value implements Source
func (s *AppSource) Value(ctx context.Context) (string, error) {
	token, err := s.Auth.GetInstallationToken(ctx, s.Repo)
	if err != nil {
		return "", fmt.Errorf("failed to get installation token for %s: %w", s.Repo, err)
	}
	return token.Token, nil
}

// Describe implements Source
func (s *AppSource) Describe() string { return "github-app:" + s.Repo }

// Export fetches the secret and sets it as environment variable name.
// The value is returned so callers can redact it from logs.
func Export(ctx context.Context, src Source, name string) (string, error) {
	value, err := src.Value(ctx)
	if err != nil {
		return "", err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s: %w", src.Describe(), ErrEmptySecret)
	}
	if err := os.Setenv(name, value); err != nil {
		return "", fmt.Errorf("failed to export %s: %w", name, err)
	}
	clog.InfoContextf(ctx, "[Secret] Exported %s from %s", name, src.Describe())
	return value, nil
}

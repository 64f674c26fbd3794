package job

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/chainguard-dev/clog"

	"github.com/cexll/pr-formatter/internal/github"
)

// Disclosure is the first line of every generated PR body
const Disclosure = "<!---AI changelog entry and formatting assistance: false-->"

// MinOutputLines is the line count the generated body must exceed
const MinOutputLines = 2

var (
	ErrOutputMissing  = errors.New("generated PR body not found")
	ErrOutputTooShort = errors.New("generated PR body is too short")
)

// CountLines counts newline characters the way `wc -l` does
func CountLines(content string) int {
	return strings.Count(content, "\n")
}

// CheckOutput logs the generated body, requires it to have more than
// MinOutputLines lines both as written and once sanitized, and rewrites it
// sanitized with the disclosure as its only first line. secrets are redacted
// from the stored body. A rejected file is left as it was.
func CheckOutput(ctx context.Context, path string, secrets ...string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrOutputMissing, path)
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)
	clog.InfoContextf(ctx, "[Job] Generated PR body (%d bytes):\n%s", len(content), github.RedactSecrets(content, secrets...))

	if lines := CountLines(content); lines <= MinOutputLines {
		return content, fmt.Errorf("%w: %d lines, need more than %d", ErrOutputTooShort, lines, MinOutputLines)
	}

	sanitized := github.RedactSecrets(github.SanitizeBody(stripDisclosure(content)), secrets...)
	if lines := CountLines(sanitized); lines <= MinOutputLines {
		return content, fmt.Errorf("%w: %d lines after removing comments, need more than %d", ErrOutputTooShort, lines, MinOutputLines)
	}

	body := PrependDisclosure(sanitized)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return content, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return content, nil
}

// PrependDisclosure adds the disclosure line unless the body already starts with it
func PrependDisclosure(body string) string {
	if body == Disclosure || strings.HasPrefix(body, Disclosure+"\n") {
		return body
	}
	return Disclosure + "\n" + body
}

func stripDisclosure(body string) string {
	return strings.TrimPrefix(body, Disclosure+"\n")
}

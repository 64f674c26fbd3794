package prompt

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/cexll/pr-formatter/internal/github"
)

// Section headings of the PR template the agent must reproduce verbatim
const (
	CategoryHeading   = "### Changelog category (leave one):"
	EntryHeading      = "### Changelog entry (a [user-readable short description](https://github.com/ClickHouse/ClickHouse/blob/master/docs/changelog_entry_guidelines.md) of the changes that goes into CHANGELOG.md):"
	DocsHeading       = "### Documentation entry for user-facing changes"
	AdditionalHeading = "### Additional Information"

	// DefaultMaxEntryWords caps the changelog entry length
	DefaultMaxEntryWords = 50
)

var prBodyTemplate = template.Must(template.New("pr-body-prompt").Parse(PRBodyPromptTemplate))

// Options control the rendered prompt
type Options struct {
	TemplatePath string
	OutputFile   string
	// Categories are listed in the prompt when the template could be read locally
	Categories    []string
	MaxEntryWords int
	MCPTools      bool
}

type promptData struct {
	*github.PRInfo
	Options

	RepositoryName    string
	CategoryHeading   string
	EntryHeading      string
	DocsHeading       string
	AdditionalHeading string
}

// BuildPRBodyPrompt renders the agent prompt for one pull request
func BuildPRBodyPrompt(info *github.PRInfo, opts Options) (string, error) {
	if info == nil {
		return "", fmt.Errorf("pull request info is required")
	}
	if opts.MaxEntryWords <= 0 {
		opts.MaxEntryWords = DefaultMaxEntryWords
	}

	data := promptData{
		PRInfo:            info,
		Options:           opts,
		RepositoryName:    info.Name(),
		CategoryHeading:   CategoryHeading,
		EntryHeading:      EntryHeading,
		DocsHeading:       DocsHeading,
		AdditionalHeading: AdditionalHeading,
	}

	var buf bytes.Buffer
	if err := prBodyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

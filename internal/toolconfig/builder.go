package toolconfig

import (
	"sort"
)

// MCP tool names as exposed by the pr_body server
const (
	ToolGetCategories = "mcp__pr_body__get_changelog_categories"
	ToolWritePRBody   = "mcp__pr_body__write_pr_body"
)

// BuildAllowedTools returns the tools the agent may use to read the
// repository and the PR, and write the generated body.
func BuildAllowedTools(opts Options) []string {
	// Base essential tools
	base := []string{"Edit", "Glob", "Grep", "LS", "Read", "Write"}

	// Read-only PR inspection through gh and git
	base = append(base,
		"Bash(gh pr view:*)",
		"Bash(gh pr diff:*)",
		"Bash(git diff:*)",
		"Bash(git log:*)",
		"Bash(mkdir:*)",
	)

	if opts.EnablePRBodyMCP {
		base = append(base, ToolGetCategories, ToolWritePRBody)
	}

	// Append any custom tools last
	if len(opts.CustomAllowedTools) > 0 {
		base = append(base, opts.CustomAllowedTools...)
	}

	sort.Strings(base)
	return unique(base)
}

// BuildDisallowedTools returns a default-restrictive set and merges any custom
// entries. Defaults that are explicitly allowed are dropped from the blocklist.
func BuildDisallowedTools(opts Options) []string {
	// The agent must not edit the PR itself; the job publishes the body.
	// gh api takes -X anywhere in its arguments, so it is blocked outright.
	disallowed := []string{"WebSearch", "WebFetch", "Bash(gh pr edit:*)", "Bash(gh api:*)"}

	// Remove from defaults if explicitly allowed
	allowedSet := toSet(BuildAllowedTools(opts))
	tmp := disallowed[:0]
	for _, t := range disallowed {
		if !allowedSet[t] {
			tmp = append(tmp, t)
		}
	}
	disallowed = tmp

	// Merge custom disallowed
	for _, t := range opts.CustomDisallowedTools {
		if t != "" {
			disallowed = append(disallowed, t)
		}
	}

	sort.Strings(disallowed)
	return unique(disallowed)
}

func toSet(list []string) map[string]bool {
	m := make(map[string]bool, len(list))
	for _, v := range list {
		m[v] = true
	}
	return m
}

func unique(list []string) []string {
	if len(list) < 2 {
		return list
	}
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

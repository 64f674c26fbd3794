package prompt

// PRBodyPromptTemplate is the instruction given to the coding agent.
// Variables are provided by BuildPRBodyPrompt().
const PRBodyPromptTemplate = `
You are an autonomous coding agent running inside the {{.RepositoryName}} repository.

Goal:
- Generate a complete PR body for PR #{{.Number}} that strictly conforms to the repository's PR template.

Inputs:
- PR title and body for this PR from GitHub.
- Changed files for this PR (and content if needed for context).
- The PR template at {{.TemplatePath}}. Parse the allowed changelog categories under the section starting with "{{.CategoryHeading}}".
{{- if .Categories}}
- For reference, the allowed categories currently in the template are:
{{- range .Categories}}
  * {{.}}
{{- end}}
{{- end}}

Strict template rules (must follow exactly):
- Use only these sections, in this order, with exact headings and spacing as in the template:
  1) "{{.CategoryHeading}}"
     - Include exactly one bullet with the selected category text (must match exactly one of the allowed category strings from the template).
  2) "{{.EntryHeading}}"
     - Either a single line with the final entry, or a single blank line when the selected category says "changelog entry is not required".
     - Must be followed by a single blank line and then the next header or end of file.
  3) "{{.DocsHeading}}"
     - If this section exists in the original PR body, copy its content (preserving checkboxes and text).
     - If this section does NOT exist in the original PR body, omit both the header and content entirely.
     - Do NOT add this section if it wasn't present in the original PR body.
- Optionally add a final section "{{.AdditionalHeading}}" for extra technical details preserved from the existing PR body (see below). Only add this section if there is something to preserve.
- Do not add any other sections or headers.
- Use a single blank line between sections; avoid extra whitespace.

Category selection:
- If the existing PR body contains exactly one allowed category (exact string match), use it.
- If zero or multiple allowed categories are present (template leftovers), derive the category from the changed files and title using these heuristics (then choose the closest exact string from the allowed list):
  * Only docs/ or website/ changes => Documentation (changelog entry is not required).
  * Only ci/, .github/, or tests/ changes => Not for changelog (changelog entry is not required).
  * Mentions perf/performance => Performance Improvement.
  * Mentions backward + incompat => Backward Incompatible Change.
  * Mentions fix/bug/crash => Bug Fix (user-visible misbehavior in an official stable release) or Critical Bug Fix (crash, data loss, RBAC) or LOGICAL_ERROR (pick the closest allowed one that fits).
  * Mentions feature => New Feature or Experimental Feature (pick the closest allowed one that fits).
  * Else => Improvement or Not for changelog (changelog entry is not required) depending on whether the changes are user-visible.
- Always select the category text exactly as it appears in the template's allowed list; do not invent variants.

Changelog entry rules:
- If the PR body already has a "### Changelog entry" section, extract and improve it if needed:
  * If it is not sufficiently descriptive, you may consult changed file paths and, if required, minimal file content context to rewrite it.
  * Remove markdown, links, and code formatting (plain text only).
  * Make it a single, user-facing sentence in plain English.
  * Limit strictly to a maximum of {{.MaxEntryWords}} words.
- If there is no valid entry, generate it from the PR title and change summary with the same constraints (plain text, one sentence, <= {{.MaxEntryWords}} words, no quotes or markdown).
- If category is "Not for changelog (changelog entry is not required)", remove this section including header.

Additional Information handling:
- Preserve any additional technical details from the existing PR body by placing them under a final section titled exactly "{{.AdditionalHeading}}".
- Keep edits minimal (fix only obvious grammar, clarity, or formatting issues), and do not move content into other sections.

Comments:
- Remove all HTML/markdown comments (e.g., <!-- ... -->) from the final output.

Output:
- Write the final PR body to {{.OutputFile}} (do not update the actual PR).
{{- if .MCPTools}}
- The pr_body MCP server is available: get_changelog_categories returns the allowed categories and write_pr_body writes the output file for you.
{{- end}}
- Do not print the PR body to stdout; only brief status logs if needed.

Context:
- Repository: {{.Repository}}
- PR number: {{.Number}}
- Change URL: {{.ChangeURL}}
- Base branch: {{.BaseBranch}}
- Head branch: {{.HeadBranch}}
- Title: {{.Title}}
- Body: available via the GitHub API.

Execution notes:
- Fetch PR details and changed files via GitHub APIs or gh CLI.
- Read {{.TemplatePath}} from the filesystem to extract the allowed categories. If reading from the filesystem fails, fetch the file from the repository via the GitHub API.
- Be deterministic, avoid placeholders altogether for the changelog entry when it is not required (leave blank), and follow the constraints above exactly.
`

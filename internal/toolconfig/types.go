package toolconfig

// Options controls how allowed/disallowed tool lists are built for agents
// that take explicit tool lists on their command line.
type Options struct {
	// Enable the pr_body MCP server tools.
	EnablePRBodyMCP bool

	// Additional tools to allow (verbatim names)
	CustomAllowedTools []string

	// Additional tools to disallow (verbatim names)
	CustomDisallowedTools []string
}

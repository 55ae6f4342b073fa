package cli

import "strings"

// CodeBlock renders lines as a fenced shell code block, used by each
// command's MarkDown method to show a usage example.
func CodeBlock(lines []string) string {
	return "```\n" + strings.Join(lines, "\n") + "\n```"
}

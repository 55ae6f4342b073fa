package cli

import (
	"strings"

	"github.com/mitchellh/cli"
)

// Version is the trieproof binary's version string.
const Version = "0.1.0"

// VersionCommand prints the binary's version.
type VersionCommand struct {
	UI cli.Ui
}

// MarkDown implements cli.MarkDown interface.
func (c *VersionCommand) MarkDown() string {
	examples := []string{
		"## Usage",
		CodeBlock([]string{
			"$ trieproof version",
			Version,
		}),
	}

	items := []string{
		"# Version",
		"The ```trieproof version``` command outputs the version of the binary.",
	}
	items = append(items, examples...)

	return strings.Join(items, "\n\n")
}

// Help implements the cli.Command interface.
func (c *VersionCommand) Help() string {
	return `Usage: trieproof version

  Display the trieproof version`
}

// Synopsis implements the cli.Command interface.
func (c *VersionCommand) Synopsis() string {
	return "Display the trieproof version"
}

// Run implements the cli.Command interface.
func (c *VersionCommand) Run(args []string) int {
	c.UI.Output(Version)
	return 0
}

// Package cli wires the trieproof command surface together: two
// subcommands, tx and receipt, each reconstructing one of a block's
// tries and printing the requested item's inclusion proof.
package cli

import (
	"os"

	gocli "github.com/mitchellh/cli"
)

// Run parses args and dispatches to the matching command, returning the
// process exit code.
func Run(args []string) int {
	commands := Commands()

	c := gocli.NewCLI("trieproof", Version)
	c.Args = args
	c.Commands = commands

	exitCode, err := c.Run()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	return exitCode
}

// Commands returns the full set of commands exposed by the CLI.
func Commands() map[string]gocli.CommandFactory {
	ui := &gocli.BasicUi{
		Reader:      os.Stdin,
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	return map[string]gocli.CommandFactory{
		"tx": func() (gocli.Command, error) {
			return &TxCommand{UI: ui}, nil
		},
		"receipt": func() (gocli.Command, error) {
			return &ReceiptCommand{UI: ui}, nil
		},
		"version": func() (gocli.Command, error) {
			return &VersionCommand{UI: ui}, nil
		},
	}
}

package main

import (
	"os"

	"github.com/chainproof/trieproofs/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}

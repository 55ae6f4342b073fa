package cli

import (
	"strings"

	"github.com/mitchellh/cli"

	"github.com/chainproof/trieproofs/handler"
)

// TxCommand reconstructs a block's transaction trie and emits the
// inclusion proof for the transaction named by its hash.
type TxCommand struct {
	UI cli.Ui
}

// MarkDown implements cli.MarkDown interface.
func (c *TxCommand) MarkDown() string {
	examples := []string{
		"## Usage",
		CodeBlock([]string{
			"$ trieproof tx -rpc-url http://localhost:8545 0xabc...",
			`{"root":"0x...","proof":["0x...","0x..."],"index":3}`,
		}),
	}

	items := []string{
		"# Transaction proof",
		"The ```trieproof tx``` command rebuilds the transactions trie for the block " +
			"containing the given hash and prints its Merkle inclusion proof.",
	}
	items = append(items, examples...)

	return strings.Join(items, "\n\n")
}

// Help implements the cli.Command interface.
func (c *TxCommand) Help() string {
	return `Usage: trieproof tx [-chain evm|starknet] [-rpc-url url] [-feeder-url url] <tx-hash>

  Reconstruct the transactions trie for the block containing <tx-hash> and
  print its inclusion proof as JSON.

  -chain        target chain, "evm" (default) or "starknet"
  -rpc-url      remote node JSON-RPC endpoint
  -feeder-url   starknet feeder gateway base URL (starknet only)`
}

// Synopsis implements the cli.Command interface.
func (c *TxCommand) Synopsis() string {
	return "Print the inclusion proof for a transaction"
}

// Run implements the cli.Command interface.
func (c *TxCommand) Run(args []string) int {
	out, err := runProof(args, "tx", handler.EVMTransactions, handler.StarknetTransactions)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return printProof(c.UI, out)
}

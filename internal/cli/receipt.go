package cli

import (
	"strings"

	"github.com/mitchellh/cli"

	"github.com/chainproof/trieproofs/handler"
)

// ReceiptCommand is TxCommand's counterpart over a block's receipts
// trie.
type ReceiptCommand struct {
	UI cli.Ui
}

// MarkDown implements cli.MarkDown interface.
func (c *ReceiptCommand) MarkDown() string {
	examples := []string{
		"## Usage",
		CodeBlock([]string{
			"$ trieproof receipt -rpc-url http://localhost:8545 0xabc...",
			`{"root":"0x...","proof":["0x...","0x..."],"index":3}`,
		}),
	}

	items := []string{
		"# Receipt proof",
		"The ```trieproof receipt``` command rebuilds the receipts trie for the block " +
			"containing the given transaction hash and prints its Merkle inclusion proof.",
	}
	items = append(items, examples...)

	return strings.Join(items, "\n\n")
}

// Help implements the cli.Command interface.
func (c *ReceiptCommand) Help() string {
	return `Usage: trieproof receipt [-chain evm|starknet] [-rpc-url url] [-feeder-url url] <tx-hash>

  Reconstruct the receipts trie for the block containing <tx-hash> and print
  its inclusion proof as JSON. Starknet receipts are only defined from
  protocol version 0.13.2 onward.

  -chain        target chain, "evm" (default) or "starknet"
  -rpc-url      remote node JSON-RPC endpoint
  -feeder-url   starknet feeder gateway base URL (starknet only)`
}

// Synopsis implements the cli.Command interface.
func (c *ReceiptCommand) Synopsis() string {
	return "Print the inclusion proof for a receipt"
}

// Run implements the cli.Command interface.
func (c *ReceiptCommand) Run(args []string) int {
	out, err := runProof(args, "receipt", handler.EVMReceipts, handler.StarknetReceipts)
	if err != nil {
		c.UI.Error(err.Error())
		return 1
	}
	return printProof(c.UI, out)
}

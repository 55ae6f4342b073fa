package cli

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainproof/trieproofs/handler"
	"github.com/chainproof/trieproofs/rpcclient"
	"github.com/chainproof/trieproofs/sntrie"
)

const defaultTimeout = 30 * time.Second

// proofOutput is the JSON document written to stdout on success, per the
// external-interface contract: a hex root, a hex-encoded proof list, and
// the item's position in the block.
type proofOutput struct {
	Root  string   `json:"root"`
	Proof []string `json:"proof"`
	Index uint64   `json:"index"`
}

// proofFlags parses the flag set both tx and receipt share: the target
// chain, the RPC endpoint, and (Starknet only) the feeder gateway base.
type proofFlags struct {
	chain     string
	rpcURL    string
	feederURL string
}

func parseProofFlags(name string, args []string) (*proofFlags, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f := &proofFlags{}
	fs.StringVar(&f.chain, "chain", "evm", "target chain: evm or starknet")
	fs.StringVar(&f.rpcURL, "rpc-url", "", "remote node JSON-RPC endpoint")
	fs.StringVar(&f.feederURL, "feeder-url", "", "starknet feeder gateway base URL")
	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}
	if fs.NArg() != 1 {
		return nil, "", fmt.Errorf("expected exactly one positional argument: a transaction hash")
	}
	return f, fs.Arg(0), nil
}

func decodeHexHash(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed hash %q: %w", s, err)
	}
	return b, nil
}

// runEVM dials the RPC endpoint, builds an EVMHandler of the given kind
// from the transaction hash, and returns the proof document for that
// transaction's own position in the block.
func runEVM(f *proofFlags, kind handler.EVMItemKind, hashHex string) (*proofOutput, error) {
	raw, err := decodeHexHash(hashHex)
	if err != nil {
		return nil, err
	}
	hash := common.BytesToHash(raw)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := rpcclient.DialEVM(ctx, f.rpcURL)
	if err != nil {
		return nil, err
	}

	h := handler.NewEVMHandler(client, kind, nil)
	if err := h.BuildFromTxHash(ctx, hash); err != nil {
		return nil, err
	}

	idx, err := h.IndexOfHash(hash)
	if err != nil {
		return nil, err
	}
	proof, err := h.Proof(idx)
	if err != nil {
		return nil, err
	}
	root, err := h.Root()
	if err != nil {
		return nil, err
	}

	out := &proofOutput{Root: root.Hex(), Index: uint64(idx), Proof: make([]string, len(proof))}
	for i, p := range proof {
		out.Proof[i] = "0x" + hex.EncodeToString(p)
	}
	return out, nil
}

// runStarknet is runEVM's Starknet counterpart: it additionally dials the
// feeder gateway, which BuildFromBlock consults to check the recomputed
// root against the sequencer's declared commitment.
func runStarknet(f *proofFlags, kind handler.StarknetItemKind, hashHex string) (*proofOutput, error) {
	raw, err := decodeHexHash(hashHex)
	if err != nil {
		return nil, err
	}
	hash := new(felt.Felt).SetBytes(raw)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := rpcclient.DialStarknet(ctx, f.rpcURL)
	if err != nil {
		return nil, err
	}
	feeder := rpcclient.NewFeederHTTPClient(f.feederURL, nil)

	h := handler.NewStarknetHandler(client, feeder, kind, nil)
	if err := h.BuildFromTxHash(ctx, hash); err != nil {
		return nil, err
	}

	idx, err := h.IndexOfHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	proof, err := h.Proof(idx)
	if err != nil {
		return nil, err
	}
	root, err := h.Root()
	if err != nil {
		return nil, err
	}

	out := &proofOutput{Root: "0x" + root.String(), Index: uint64(idx), Proof: make([]string, len(proof))}
	for i, p := range proof {
		out.Proof[i] = encodeTrieNode(p)
	}
	return out, nil
}

func runProof(args []string, name string, evmKind handler.EVMItemKind, starknetKind handler.StarknetItemKind) (*proofOutput, error) {
	f, hashHex, err := parseProofFlags(name, args)
	if err != nil {
		return nil, err
	}
	switch f.chain {
	case "evm":
		return runEVM(f, evmKind, hashHex)
	case "starknet":
		return runStarknet(f, starknetKind, hashHex)
	default:
		return nil, fmt.Errorf("unknown -chain %q: expected evm or starknet", f.chain)
	}
}

func printProof(ui outputter, out *proofOutput) int {
	b, err := json.Marshal(out)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	ui.Output(string(b))
	return 0
}

// outputter is the slice of mitchellh/cli.Ui this package writes through;
// named narrowly so tests can stub it without pulling in a full Ui.
type outputter interface {
	Output(string)
	Error(string)
}

// encodeTrieNode renders one sntrie proof entry as a self-describing hex
// string: a one-byte kind tag followed by its hashes/path, fixed-width so
// a reader can walk the proof array back into TrieNode values without a
// side channel.
func encodeTrieNode(n sntrie.TrieNode) string {
	var buf []byte
	switch n.Kind {
	case sntrie.KindBinary:
		l, r := n.LeftHash.Bytes(), n.RightHash.Bytes()
		buf = append(buf, 0x00)
		buf = append(buf, l[:]...)
		buf = append(buf, r[:]...)

	case sntrie.KindEdge:
		var lenBuf [8]byte
		binary.BigEndian.PutUint64(lenBuf[:], n.Path)
		c := n.ChildHash.Bytes()
		buf = append(buf, 0x01, byte(n.Length))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, c[:]...)

	case sntrie.KindLeaf:
		v := n.Value.Bytes()
		buf = append(buf, 0x02)
		buf = append(buf, v[:]...)
	}
	return "0x" + hex.EncodeToString(buf)
}

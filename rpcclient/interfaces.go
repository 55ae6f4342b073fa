// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package rpcclient wraps the remote-node and feeder-gateway transports
// the handler layer drives: go-ethereum's JSON-RPC client for EVM chains,
// a Starknet JSON-RPC client, and a plain HTTP client for the Starknet
// feeder gateway. Every method here is the sole place I/O happens; the
// codec and trie packages never reach the network themselves.
package rpcclient

import (
	"context"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainproof/trieproofs/evmreceipt"
	"github.com/chainproof/trieproofs/evmtx"
	"github.com/chainproof/trieproofs/stark"
)

// EVMBlock is the slice of an eth_getBlockByNumber/eth_getBlockReceipts
// response the handler needs: the two header-declared roots it must
// match, and the per-item remote objects in block order.
type EVMBlock struct {
	Number           uint64
	TransactionsRoot common.Hash
	ReceiptsRoot     common.Hash
	Transactions     []*evmtx.RemoteTransaction
	Receipts         []*evmreceipt.RemoteReceipt
}

// EVMClient is what EVMHandler needs from an Ethereum-style JSON-RPC
// endpoint.
type EVMClient interface {
	// BlockByNumber fetches block n with full transaction and receipt
	// detail.
	BlockByNumber(ctx context.Context, n uint64) (*EVMBlock, error)
	// BlockNumberOfTransaction resolves the block containing hash.
	BlockNumberOfTransaction(ctx context.Context, hash common.Hash) (uint64, error)
}

// StarknetBlock is the slice of a Starknet block the handler needs.
type StarknetBlock struct {
	Number       uint64
	Version      string
	Transactions []*stark.RemoteTransaction
	Receipts     []*stark.RemoteReceipt
}

// StarknetClient is what StarknetHandler needs from a Starknet JSON-RPC
// endpoint.
type StarknetClient interface {
	BlockByNumber(ctx context.Context, n uint64) (*StarknetBlock, error)
	BlockNumberOfTransaction(ctx context.Context, hash *felt.Felt) (uint64, error)
}

// FeederClient is what StarknetHandler needs from the sequencer's feeder
// gateway: the block's declared commitments, per-transaction L1 gas (which
// the RPC receipt object doesn't carry), and a transaction's position
// within its block.
type FeederClient interface {
	BlockCommitments(ctx context.Context, n uint64) (*FeederCommitments, error)
	// TransactionIndex resolves hash's position within its block directly
	// from the gateway, rather than by recomputing and comparing hashes
	// locally.
	TransactionIndex(ctx context.Context, hash *felt.Felt) (uint64, error)
}

// FeederCommitments is the subset of a feeder_gateway/get_block response
// the handler checks its recomputed roots against.
type FeederCommitments struct {
	TransactionCommitment string // hex
	ReceiptCommitment     string // hex, only present from 0.13.2
	TransactionL1Gas      []uint64
}

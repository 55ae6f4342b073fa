// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package rpcclient

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainproof/trieproofs/errs"
	"github.com/chainproof/trieproofs/evmreceipt"
	"github.com/chainproof/trieproofs/evmtx"
)

// EVMRPCClient implements EVMClient by issuing plain JSON-RPC calls
// against an Ethereum-style node, the same way ethclient.Client wraps
// rpc.Client.CallContext for each method it exposes.
type EVMRPCClient struct {
	c *rpc.Client
}

// DialEVM connects to an Ethereum-style JSON-RPC endpoint (http(s),
// ws(s), or a local IPC path).
func DialEVM(ctx context.Context, rawurl string) (*EVMRPCClient, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}
	return &EVMRPCClient{c: c}, nil
}

// NewEVMRPCClient wraps an already-dialled client, for callers that share
// one rpc.Client across several purposes.
func NewEVMRPCClient(c *rpc.Client) *EVMRPCClient { return &EVMRPCClient{c: c} }

type rawBlock struct {
	Number           hexutil.Uint64             `json:"number"`
	TransactionsRoot common.Hash                `json:"transactionsRoot"`
	ReceiptsRoot     common.Hash                `json:"receiptsRoot"`
	Transactions     []*evmtx.RemoteTransaction `json:"transactions"`
}

// BlockByNumber fetches the block header and full transaction objects via
// eth_getBlockByNumber, then the block's receipts via
// eth_getBlockReceipts.
func (c *EVMRPCClient) BlockByNumber(ctx context.Context, n uint64) (*EVMBlock, error) {
	var raw *rawBlock
	if err := c.c.CallContext(ctx, &raw, "eth_getBlockByNumber", hexutil.Uint64(n), true); err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}
	if raw == nil {
		return nil, errs.New(errs.BlockNotFound)
	}

	var receipts []*evmreceipt.RemoteReceipt
	if err := c.c.CallContext(ctx, &receipts, "eth_getBlockReceipts", hexutil.Uint64(n)); err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}

	return &EVMBlock{
		Number:           n,
		TransactionsRoot: raw.TransactionsRoot,
		ReceiptsRoot:     raw.ReceiptsRoot,
		Transactions:     raw.Transactions,
		Receipts:         receipts,
	}, nil
}

// BlockNumberOfTransaction resolves the block number containing hash via
// eth_getTransactionByHash.
func (c *EVMRPCClient) BlockNumberOfTransaction(ctx context.Context, hash common.Hash) (uint64, error) {
	var raw struct {
		BlockNumber *hexutil.Uint64 `json:"blockNumber"`
	}
	if err := c.c.CallContext(ctx, &raw, "eth_getTransactionByHash", hash); err != nil {
		return 0, errs.Wrap(errs.TransportFailure, err)
	}
	if raw.BlockNumber == nil {
		return 0, errs.New(errs.ItemNotFound)
	}
	return uint64(*raw.BlockNumber), nil
}

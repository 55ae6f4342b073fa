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

	"github.com/NethermindEth/juno/core/felt"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainproof/trieproofs/errs"
	"github.com/chainproof/trieproofs/stark"
)

// StarknetRPCClient implements StarknetClient over a Starknet JSON-RPC
// endpoint, using the same go-ethereum rpc.Client transport as the EVM
// side (Starknet's JSON-RPC is wire-compatible with plain JSON-RPC 2.0).
type StarknetRPCClient struct {
	c *rpc.Client
}

// DialStarknet connects to a Starknet JSON-RPC endpoint.
func DialStarknet(ctx context.Context, rawurl string) (*StarknetRPCClient, error) {
	c, err := rpc.DialContext(ctx, rawurl)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}
	return &StarknetRPCClient{c: c}, nil
}

type blockID struct {
	BlockNumber uint64 `json:"block_number"`
}

type rawMessageToL1 struct {
	FromAddress *felt.Felt   `json:"from_address"`
	ToAddress   *felt.Felt   `json:"to_address"`
	Payload     []*felt.Felt `json:"payload"`
}

type rawExecutionResources struct {
	DataAvailability struct {
		L1Gas     uint64 `json:"l1_gas"`
		L1DataGas uint64 `json:"l1_data_gas"`
	} `json:"data_availability"`
}

type rawTx struct {
	Type          string       `json:"type"`
	TxHash        *felt.Felt   `json:"transaction_hash"`
	Signature     []*felt.Felt `json:"signature"`
}

type rawReceipt struct {
	TxHash            *felt.Felt            `json:"transaction_hash"`
	ActualFee         rawFeePayment         `json:"actual_fee"`
	MessagesToL1      []rawMessageToL1      `json:"messages_sent"`
	ExecutionResources rawExecutionResources `json:"execution_resources"`
	ExecutionStatus   string                `json:"execution_status"`
	RevertReason      string                `json:"revert_reason"`
}

type rawFeePayment struct {
	Amount *felt.Felt `json:"amount"`
}

type rawBlockWithTxs struct {
	BlockNumber     uint64   `json:"block_number"`
	StarknetVersion string   `json:"starknet_version"`
	Transactions    []rawTx  `json:"transactions"`
}

type rawBlockWithReceipts struct {
	BlockNumber uint64 `json:"block_number"`
	Transactions []struct {
		Transaction rawTx      `json:"transaction"`
		Receipt     rawReceipt `json:"receipt"`
	} `json:"transactions"`
}

func txKindOf(t string) stark.TxKind {
	switch t {
	case "INVOKE":
		return stark.Invoke
	case "DECLARE":
		return stark.Declare
	case "DEPLOY_ACCOUNT":
		return stark.DeployAccount
	case "DEPLOY":
		return stark.Deploy
	case "L1_HANDLER":
		return stark.L1Handler
	default:
		return stark.TxKind(-1)
	}
}

// BlockByNumber fetches a Starknet block's transactions and receipts via
// starknet_getBlockWithTxs and starknet_getBlockWithReceipts. Transactions
// come from the first call and receipts from the second, each in the order
// the node reports them; the two lists are not matched by hash.
func (c *StarknetRPCClient) BlockByNumber(ctx context.Context, n uint64) (*StarknetBlock, error) {
	var withTxs *rawBlockWithTxs
	if err := c.c.CallContext(ctx, &withTxs, "starknet_getBlockWithTxs", blockID{BlockNumber: n}); err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}
	if withTxs == nil {
		return nil, errs.New(errs.BlockNotFound)
	}

	var withReceipts *rawBlockWithReceipts
	if err := c.c.CallContext(ctx, &withReceipts, "starknet_getBlockWithReceipts", blockID{BlockNumber: n}); err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}

	out := &StarknetBlock{Number: n, Version: withTxs.StarknetVersion}
	for _, rt := range withTxs.Transactions {
		kind := txKindOf(rt.Type)
		if kind < 0 {
			return nil, errs.New(errs.BadVersion)
		}
		out.Transactions = append(out.Transactions, &stark.RemoteTransaction{
			Kind:      kind,
			Hash:      rt.TxHash,
			Signature: rt.Signature,
		})
	}
	if withReceipts != nil {
		for _, item := range withReceipts.Transactions {
			kind := txKindOf(item.Transaction.Type)
			if kind < 0 {
				return nil, errs.New(errs.BadVersion)
			}
			msgs := make([]stark.MessageToL1, len(item.Receipt.MessagesToL1))
			for i, m := range item.Receipt.MessagesToL1 {
				msgs[i] = stark.MessageToL1{From: m.FromAddress, To: m.ToAddress, Payload: m.Payload}
			}
			out.Receipts = append(out.Receipts, &stark.RemoteReceipt{
				Kind:      kind,
				TxHash:    item.Receipt.TxHash,
				ActualFee: item.Receipt.ActualFee.Amount,
				Messages:  msgs,
				Resources: stark.ExecutionResources{
					L1DataGas: item.Receipt.ExecutionResources.DataAvailability.L1DataGas,
				},
				Succeeded:    item.Receipt.ExecutionStatus != "REVERTED",
				RevertReason: item.Receipt.RevertReason,
			})
		}
	}
	return out, nil
}

// BlockNumberOfTransaction resolves the block number containing hash, for
// BuildFromTxHash. It reports which block to build, not the transaction's
// position within it — see FeederClient.TransactionIndex for that.
func (c *StarknetRPCClient) BlockNumberOfTransaction(ctx context.Context, hash *felt.Felt) (uint64, error) {
	var receipt struct {
		BlockNumber *uint64 `json:"block_number"`
	}
	if err := c.c.CallContext(ctx, &receipt, "starknet_getTransactionReceipt", hash); err != nil {
		return 0, errs.Wrap(errs.TransportFailure, err)
	}
	if receipt.BlockNumber == nil {
		return 0, errs.New(errs.ItemNotFound)
	}
	return *receipt.BlockNumber, nil
}

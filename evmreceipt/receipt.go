// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package evmreceipt reconstructs the canonical, consensus-level byte
// representation of an EVM transaction receipt from the object a remote
// node hands back over JSON-RPC, and provides the inverse decode.
package evmreceipt

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kind mirrors evmtx.Kind: receipts are typed the same way their
// transaction is.
type Kind uint8

const (
	Legacy  Kind = 0
	Eip2930 Kind = 1
	Eip1559 Kind = 2
	Eip4844 Kind = 3
)

func knownKind(k uint8) bool {
	return k == uint8(Legacy) || k == uint8(Eip2930) || k == uint8(Eip1559) || k == uint8(Eip4844)
}

// Log is one EVM log entry: an emitting address, its indexed topics, and
// opaque data.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

// RemoteReceipt is the domain shape this package accepts: the fields a
// JSON-RPC receipt response carries. Status holds the success bit
// (post-Byzantium); PostStateRoot holds the 32-byte post-state root
// (pre-Byzantium) and is used only when Status is absent.
type RemoteReceipt struct {
	Type              *hexutil.Uint64 `json:"type"`
	Status            *hexutil.Uint64 `json:"status"`
	PostStateRoot      hexutil.Bytes   `json:"root"`
	CumulativeGasUsed *hexutil.Uint64 `json:"cumulativeGasUsed"`
	LogsBloom         hexutil.Bytes   `json:"logsBloom"`
	Logs              []Log           `json:"logs"`
}

func (rr *RemoteReceipt) kind() (Kind, bool) {
	if rr.Type == nil {
		return Legacy, true
	}
	t := uint8(*rr.Type)
	if !knownKind(t) {
		return 0, false
	}
	return Kind(t), true
}

// preByzantium reports whether the receipt reports a 32-byte post-state
// root instead of a success bit.
func (rr *RemoteReceipt) preByzantium() bool {
	return rr.Status == nil && len(rr.PostStateRoot) == 32
}

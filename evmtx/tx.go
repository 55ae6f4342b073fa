// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package evmtx reconstructs the canonical, consensus-level byte
// representation of an EVM transaction from the loosely-typed object a
// remote node hands back over JSON-RPC, and provides the inverse decode.
package evmtx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Kind is the closed set of transaction variants this codec understands.
type Kind uint8

const (
	Legacy Kind = 0
	Eip2930 Kind = 1
	Eip1559 Kind = 2
	Eip4844 Kind = 3
)

func (k Kind) String() string {
	switch k {
	case Legacy:
		return "legacy"
	case Eip2930:
		return "eip2930"
	case Eip1559:
		return "eip1559"
	case Eip4844:
		return "eip4844"
	default:
		return "unknown"
	}
}

// knownKind reports whether k is one of the four supported variants. Any
// other byte value, including ones reserved for future EIPs, is the
// "reserved-unknown" tag and must fail closed.
func knownKind(k uint8) bool {
	return k == uint8(Legacy) || k == uint8(Eip2930) || k == uint8(Eip1559) || k == uint8(Eip4844)
}

// AccessTuple mirrors EIP-2930's (address, storage keys) pair.
type AccessTuple struct {
	Address     common.Address `json:"address"`
	StorageKeys []common.Hash  `json:"storageKeys"`
}

// AccessList is an ordered list of AccessTuple, carried by Eip2930, Eip1559
// and Eip4844 transactions.
type AccessList []AccessTuple

// Signature is the 65-byte ECDSA signature every variant carries, stored in
// the canonical {r, s, y_parity} shape (not the legacy {r, s, v} shape a
// remote node may report).
type Signature struct {
	R       *big.Int
	S       *big.Int
	YParity uint8
}

// RemoteTransaction is the domain shape this package accepts: the fields a
// JSON-RPC `eth_getTransactionByHash`-style response carries, before any
// canonicalisation. Every numeric field is optional because the wire shape
// varies by kind; canonicalise validates kind-specific presence itself.
type RemoteTransaction struct {
	Type     *hexutil.Uint64 `json:"type"`
	ChainID  *hexutil.Big    `json:"chainId"`
	Nonce    *hexutil.Uint64 `json:"nonce"`
	GasPrice *hexutil.Big    `json:"gasPrice"`
	GasLimit *hexutil.Uint64 `json:"gas"`
	To       *common.Address `json:"to"`
	Value    *hexutil.Big    `json:"value"`
	Data     hexutil.Bytes   `json:"input"`

	AccessList *AccessList `json:"accessList"`

	MaxFeePerGas         *hexutil.Big `json:"maxFeePerGas"`
	MaxPriorityFeePerGas *hexutil.Big `json:"maxPriorityFeePerGas"`

	MaxFeePerBlobGas    *hexutil.Big    `json:"maxFeePerBlobGas"`
	BlobVersionedHashes []common.Hash   `json:"blobVersionedHashes"`

	V *hexutil.Big `json:"v"`
	R *hexutil.Big `json:"r"`
	S *hexutil.Big `json:"s"`
}

// kind resolves the transaction's Kind from the (possibly absent) type
// field: absent means Legacy, per EIP-2718's definition of the legacy arm.
func (rt *RemoteTransaction) kind() (Kind, bool) {
	if rt.Type == nil {
		return Legacy, true
	}
	t := uint8(*rt.Type)
	if !knownKind(t) {
		return 0, false
	}
	return Kind(t), true
}

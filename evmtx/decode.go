// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmtx

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/chainproof/trieproofs/errs"
)

// Decode is the inverse of Canonicalise: it parses a canonical EIP-2718
// typed envelope (or a bare legacy RLP list) back into a RemoteTransaction.
// Round-tripping through Canonicalise again reproduces the same bytes,
// modulo normalisation of the destination field representation.
func Decode(leaf []byte) (*RemoteTransaction, error) {
	if len(leaf) == 0 {
		return nil, errs.New(errs.BadVersion)
	}

	first := leaf[0]
	if first >= 0xc0 {
		// A bare RLP list: legacy transaction, no type prefix.
		return decodeLegacy(leaf)
	}
	if !knownKind(first) {
		return nil, errs.New(errs.BadVersion)
	}

	body := leaf[1:]
	switch Kind(first) {
	case Eip2930:
		var b eip2930Body
		if err := rlp.DecodeBytes(body, &b); err != nil {
			return nil, errs.WrapField(errs.FieldConversion, errs.Input, err)
		}
		return &RemoteTransaction{
			Type:       typePtr(Eip2930),
			ChainID:    bigPtr(b.ChainID),
			Nonce:      u64Ptr(b.Nonce),
			GasPrice:   bigPtr(b.GasPrice),
			GasLimit:   u64Ptr(b.GasLimit),
			To:         b.To,
			Value:      bigPtr(b.Value),
			Data:       hexutil.Bytes(b.Data),
			AccessList: &b.AccessList,
			V:          bigPtr(signatureToV(Eip2930, Signature{YParity: uint8(b.YParity)}, nil)),
			R:          bigPtr(b.R),
			S:          bigPtr(b.S),
		}, nil

	case Eip1559:
		var b eip1559Body
		if err := rlp.DecodeBytes(body, &b); err != nil {
			return nil, errs.WrapField(errs.FieldConversion, errs.Input, err)
		}
		return &RemoteTransaction{
			Type:                 typePtr(Eip1559),
			ChainID:              bigPtr(b.ChainID),
			Nonce:                u64Ptr(b.Nonce),
			GasLimit:             u64Ptr(b.GasLimit),
			To:                   b.To,
			Value:                bigPtr(b.Value),
			Data:                 hexutil.Bytes(b.Data),
			AccessList:           &b.AccessList,
			MaxPriorityFeePerGas: bigPtr(b.GasTipCap),
			MaxFeePerGas:         bigPtr(b.GasFeeCap),
			V:                    bigPtr(signatureToV(Eip1559, Signature{YParity: uint8(b.YParity)}, nil)),
			R:                    bigPtr(b.R),
			S:                    bigPtr(b.S),
		}, nil

	case Eip4844:
		var b eip4844Body
		if err := rlp.DecodeBytes(body, &b); err != nil {
			return nil, errs.WrapField(errs.FieldConversion, errs.Input, err)
		}
		to := b.To
		return &RemoteTransaction{
			Type:                 typePtr(Eip4844),
			ChainID:              bigPtr(b.ChainID),
			Nonce:                u64Ptr(b.Nonce),
			GasLimit:             u64Ptr(b.GasLimit),
			To:                   &to,
			Value:                bigPtr(b.Value),
			Data:                 hexutil.Bytes(b.Data),
			AccessList:           &b.AccessList,
			MaxPriorityFeePerGas: bigPtr(b.GasTipCap),
			MaxFeePerGas:         bigPtr(b.GasFeeCap),
			MaxFeePerBlobGas:     bigPtr(b.MaxFeePerBlobGas),
			BlobVersionedHashes:  b.BlobVersionedHashes,
			V:                    bigPtr(signatureToV(Eip4844, Signature{YParity: uint8(b.YParity)}, nil)),
			R:                    bigPtr(b.R),
			S:                    bigPtr(b.S),
		}, nil

	default:
		return nil, errs.New(errs.BadVersion)
	}
}

func decodeLegacy(leaf []byte) (*RemoteTransaction, error) {
	var b legacyBody
	if err := rlp.DecodeBytes(leaf, &b); err != nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, err)
	}
	chainID := chainIDFromV(b.V)
	return &RemoteTransaction{
		Nonce:    u64Ptr(b.Nonce),
		GasPrice: bigPtr(b.GasPrice),
		GasLimit: u64Ptr(b.GasLimit),
		To:       b.To,
		Value:    bigPtr(b.Value),
		Data:     hexutil.Bytes(b.Data),
		ChainID:  bigPtr(chainID),
		V:        bigPtr(b.V),
		R:        bigPtr(b.R),
		S:        bigPtr(b.S),
	}, nil
}

func typePtr(k Kind) *hexutil.Uint64 {
	v := hexutil.Uint64(uint8(k))
	return &v
}

func u64Ptr(v uint64) *hexutil.Uint64 {
	hv := hexutil.Uint64(v)
	return &hv
}

func bigPtr(v *big.Int) *hexutil.Big {
	if v == nil {
		return nil
	}
	hb := hexutil.Big(*v)
	return &hb
}

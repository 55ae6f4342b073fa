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

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/chainproof/trieproofs/errs"
)

// The four canonical, RLP-tagged bodies. Field order follows the relevant
// EIP exactly; rlp's struct encoder walks exported fields in declaration
// order, so getting this order right is what makes canonicalise
// consensus-correct. `rlp:"nil"` mirrors go-ethereum's own convention for a
// pointer field that must encode/decode as the empty string when absent
// (the contract-creation marker).

type legacyBody struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       *common.Address `rlp:"nil"`
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

type eip2930Body struct {
	ChainID    *big.Int
	Nonce      uint64
	GasPrice   *big.Int
	GasLimit   uint64
	To         *common.Address `rlp:"nil"`
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	YParity    uint64
	R          *big.Int
	S          *big.Int
}

type eip1559Body struct {
	ChainID    *big.Int
	Nonce      uint64
	GasTipCap  *big.Int
	GasFeeCap  *big.Int
	GasLimit   uint64
	To         *common.Address `rlp:"nil"`
	Value      *big.Int
	Data       []byte
	AccessList AccessList
	YParity    uint64
	R          *big.Int
	S          *big.Int
}

type eip4844Body struct {
	ChainID             *big.Int
	Nonce               uint64
	GasTipCap           *big.Int
	GasFeeCap           *big.Int
	GasLimit            uint64
	To                  common.Address
	Value               *big.Int
	Data                []byte
	AccessList          AccessList
	MaxFeePerBlobGas    *big.Int
	BlobVersionedHashes []common.Hash
	YParity             uint64
	R                   *big.Int
	S                   *big.Int
}

// Canonicalise converts a RemoteTransaction into its EIP-2718 typed-envelope
// byte string: the kind-specific RLP body, prefixed with the one-byte type
// tag for every kind but Legacy. It is a pure function of rt; it never
// touches the network.
func Canonicalise(rt *RemoteTransaction) ([]byte, error) {
	kind, ok := rt.kind()
	if !ok {
		return nil, errs.New(errs.BadVersion)
	}

	to := rt.To

	switch kind {
	case Legacy:
		nonce, gasLimit, err := requireNonceGas(rt)
		if err != nil {
			return nil, err
		}
		gasPrice, err := requireBig(rt.GasPrice, errs.GasPrice)
		if err != nil {
			return nil, err
		}
		value := orZero(rt.Value)
		sig, err := reassembleSignature(Legacy, rt.V.ToInt(), rt.R.ToInt(), rt.S.ToInt())
		if err != nil {
			return nil, err
		}
		chainID := chainIDFromV(rt.V.ToInt())
		v := signatureToV(Legacy, sig, chainID)
		body := legacyBody{
			Nonce: nonce, GasPrice: gasPrice, GasLimit: gasLimit, To: to,
			Value: value, Data: []byte(rt.Data), V: v, R: sig.R, S: sig.S,
		}
		return rlp.EncodeToBytes(&body)

	case Eip2930:
		nonce, gasLimit, err := requireNonceGas(rt)
		if err != nil {
			return nil, err
		}
		gasPrice, err := requireBig(rt.GasPrice, errs.GasPrice)
		if err != nil {
			return nil, err
		}
		chainID, err := requireChainID(rt)
		if err != nil {
			return nil, err
		}
		al, err := requireAccessList(rt)
		if err != nil {
			return nil, err
		}
		sig, err := reassembleSignature(Eip2930, rt.V.ToInt(), rt.R.ToInt(), rt.S.ToInt())
		if err != nil {
			return nil, err
		}
		body := eip2930Body{
			ChainID: chainID, Nonce: nonce, GasPrice: gasPrice, GasLimit: gasLimit,
			To: to, Value: orZero(rt.Value), Data: []byte(rt.Data), AccessList: al,
			YParity: uint64(sig.YParity), R: sig.R, S: sig.S,
		}
		return prefixed(Eip2930, &body)

	case Eip1559:
		nonce, gasLimit, err := requireNonceGas(rt)
		if err != nil {
			return nil, err
		}
		chainID, err := requireChainID(rt)
		if err != nil {
			return nil, err
		}
		tip, err := requireBig(rt.MaxPriorityFeePerGas, errs.MaxPriorityFeePerGas)
		if err != nil {
			return nil, err
		}
		feeCap, err := requireBig(rt.MaxFeePerGas, errs.MaxFeePerGas)
		if err != nil {
			return nil, err
		}
		al, err := requireAccessList(rt)
		if err != nil {
			return nil, err
		}
		sig, err := reassembleSignature(Eip1559, rt.V.ToInt(), rt.R.ToInt(), rt.S.ToInt())
		if err != nil {
			return nil, err
		}
		body := eip1559Body{
			ChainID: chainID, Nonce: nonce, GasTipCap: tip, GasFeeCap: feeCap,
			GasLimit: gasLimit, To: to, Value: orZero(rt.Value), Data: []byte(rt.Data),
			AccessList: al, YParity: uint64(sig.YParity), R: sig.R, S: sig.S,
		}
		return prefixed(Eip1559, &body)

	case Eip4844:
		nonce, gasLimit, err := requireNonceGas(rt)
		if err != nil {
			return nil, err
		}
		chainID, err := requireChainID(rt)
		if err != nil {
			return nil, err
		}
		tip, err := requireBig(rt.MaxPriorityFeePerGas, errs.MaxPriorityFeePerGas)
		if err != nil {
			return nil, err
		}
		feeCap, err := requireBig(rt.MaxFeePerGas, errs.MaxFeePerGas)
		if err != nil {
			return nil, err
		}
		al, err := requireAccessList(rt)
		if err != nil {
			return nil, err
		}
		blobFeeCap, err := requireBig(rt.MaxFeePerBlobGas, errs.MaxFeePerBlobGas)
		if err != nil {
			return nil, err
		}
		if to == nil {
			// An EIP-4844 transaction may never target contract creation.
			return nil, errs.New(errs.BadVersion)
		}
		if len(rt.BlobVersionedHashes) == 0 {
			return nil, errs.WrapField(errs.FieldConversion, errs.Input, errFieldMissing("blobVersionedHashes"))
		}
		sig, err := reassembleSignature(Eip4844, rt.V.ToInt(), rt.R.ToInt(), rt.S.ToInt())
		if err != nil {
			return nil, err
		}
		body := eip4844Body{
			ChainID: chainID, Nonce: nonce, GasTipCap: tip, GasFeeCap: feeCap,
			GasLimit: gasLimit, To: *to, Value: orZero(rt.Value), Data: []byte(rt.Data),
			AccessList: al, MaxFeePerBlobGas: blobFeeCap, BlobVersionedHashes: rt.BlobVersionedHashes,
			YParity: uint64(sig.YParity), R: sig.R, S: sig.S,
		}
		return prefixed(Eip4844, &body)
	}

	return nil, errs.New(errs.BadVersion)
}

func prefixed(kind Kind, body interface{}) ([]byte, error) {
	enc, err := rlp.EncodeToBytes(body)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(enc)+1)
	out = append(out, byte(kind))
	return append(out, enc...), nil
}

func requireNonceGas(rt *RemoteTransaction) (nonce, gasLimit uint64, err error) {
	if rt.Nonce == nil {
		return 0, 0, errs.WrapField(errs.FieldConversion, errs.Nonce, errFieldMissing("nonce"))
	}
	if rt.GasLimit == nil {
		return 0, 0, errs.WrapField(errs.FieldConversion, errs.GasLimit, errFieldMissing("gas"))
	}
	return uint64(*rt.Nonce), uint64(*rt.GasLimit), nil
}

func requireBig(v *hexutil.Big, field errs.Field) (*big.Int, error) {
	if v == nil {
		return nil, errs.WrapField(errs.FieldConversion, field, errFieldMissing(string(field)))
	}
	return v.ToInt(), nil
}

func requireChainID(rt *RemoteTransaction) (*big.Int, error) {
	if rt.ChainID == nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.ChainID, errFieldMissing("chainId"))
	}
	return rt.ChainID.ToInt(), nil
}

func requireAccessList(rt *RemoteTransaction) (AccessList, error) {
	if rt.AccessList == nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.AccessList, errFieldMissing("accessList"))
	}
	return *rt.AccessList, nil
}

func orZero(v *hexutil.Big) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v.ToInt()
}

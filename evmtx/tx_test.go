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
	"testing"

	"github.com/chainproof/trieproofs/errs"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func bigH(v int64) *hexutil.Big {
	b := hexutil.Big(*big.NewInt(v))
	return &b
}

func u64H(v uint64) *hexutil.Uint64 {
	u := hexutil.Uint64(v)
	return &u
}

func kindH(k Kind) *hexutil.Uint64 { return u64H(uint64(k)) }

func sampleTo() *common.Address {
	a := common.HexToAddress("0x000000000000000000000000000000000000aa")
	return &a
}

func TestCanonicaliseLegacyRoundTrip(t *testing.T) {
	rt := &RemoteTransaction{
		Nonce:    u64H(7),
		GasPrice: bigH(1_000_000_000),
		GasLimit: u64H(21000),
		To:       sampleTo(),
		Value:    bigH(42),
		Data:     nil,
		V:        bigH(27),
		R:        bigH(1),
		S:        bigH(2),
	}

	leaf, err := Canonicalise(rt)
	require.NoError(t, err)
	require.NotEmpty(t, leaf)
	require.True(t, leaf[0] >= 0xc0, "legacy leaf has no type prefix")

	back, err := Decode(leaf)
	require.NoError(t, err)
	require.Equal(t, uint64(7), uint64(*back.Nonce))
	require.Equal(t, to32(t, sampleTo()), to32(t, back.To))
	require.Nil(t, back.ChainID, "pre-EIP-155 legacy tx carries no chain id")
}

func TestCanonicaliseLegacyEIP155RoundTrip(t *testing.T) {
	chainID := int64(5)
	v := new(big.Int).Add(new(big.Int).Mul(big.NewInt(chainID), big2), big.NewInt(35))
	rt := &RemoteTransaction{
		Nonce: u64H(1), GasPrice: bigH(7), GasLimit: u64H(21000),
		To: sampleTo(), Value: bigH(0),
		V: &hexutil.Big{}, R: bigH(9), S: bigH(10),
	}
	vb := hexutil.Big(*v)
	rt.V = &vb

	leaf, err := Canonicalise(rt)
	require.NoError(t, err)
	back, err := Decode(leaf)
	require.NoError(t, err)
	require.NotNil(t, back.ChainID)
	require.Equal(t, chainID, back.ChainID.ToInt().Int64())
}

func TestCanonicaliseEip2930RequiresChainIDAndAccessList(t *testing.T) {
	rt := &RemoteTransaction{
		Type: kindH(Eip2930), Nonce: u64H(0), GasPrice: bigH(1), GasLimit: u64H(21000),
		To: sampleTo(), Value: bigH(0), V: bigH(0), R: bigH(1), S: bigH(1),
	}
	_, err := Canonicalise(rt)
	require.Error(t, err, "missing chain id must fail closed")

	rt.ChainID = bigH(1)
	_, err = Canonicalise(rt)
	require.Error(t, err, "missing access list must fail closed")

	al := AccessList{}
	rt.AccessList = &al
	leaf, err := Canonicalise(rt)
	require.NoError(t, err)
	require.Equal(t, byte(Eip2930), leaf[0])

	back, err := Decode(leaf)
	require.NoError(t, err)
	require.Equal(t, int64(1), back.ChainID.ToInt().Int64())
}

func TestCanonicaliseEip1559RoundTrip(t *testing.T) {
	al := AccessList{{Address: common.HexToAddress("0x1"), StorageKeys: []common.Hash{{1}}}}
	rt := &RemoteTransaction{
		Type: kindH(Eip1559), ChainID: bigH(1), Nonce: u64H(3),
		MaxPriorityFeePerGas: bigH(2_000_000_000), MaxFeePerGas: bigH(30_000_000_000),
		GasLimit: u64H(50000), To: sampleTo(), Value: bigH(0), AccessList: &al,
		V: bigH(1), R: bigH(111), S: bigH(222),
	}
	leaf, err := Canonicalise(rt)
	require.NoError(t, err)
	require.Equal(t, byte(Eip1559), leaf[0])

	back, err := Decode(leaf)
	require.NoError(t, err)
	require.Equal(t, int64(2_000_000_000), back.MaxPriorityFeePerGas.ToInt().Int64())
	require.Equal(t, int64(30_000_000_000), back.MaxFeePerGas.ToInt().Int64())
	require.Len(t, *back.AccessList, 1)
}

func TestCanonicaliseEip4844RequiresBlobHashesAndCall(t *testing.T) {
	al := AccessList{}
	rt := &RemoteTransaction{
		Type: kindH(Eip4844), ChainID: bigH(1), Nonce: u64H(0),
		MaxPriorityFeePerGas: bigH(1), MaxFeePerGas: bigH(2), GasLimit: u64H(21000),
		To: sampleTo(), Value: bigH(0), AccessList: &al, MaxFeePerBlobGas: bigH(3),
		V: bigH(0), R: bigH(1), S: bigH(1),
	}

	_, err := Canonicalise(rt)
	require.Error(t, err, "blob tx with no blob hashes must fail closed")

	rt.BlobVersionedHashes = []common.Hash{{9}}
	leaf, err := Canonicalise(rt)
	require.NoError(t, err)
	require.Equal(t, byte(Eip4844), leaf[0])

	rt.To = nil
	_, err = Canonicalise(rt)
	require.Error(t, err, "blob tx may never target contract creation")
}

func TestCanonicaliseUnknownTypeFailsClosed(t *testing.T) {
	rt := &RemoteTransaction{Type: kindH(9)}
	_, err := Canonicalise(rt)
	require.Error(t, err)
}

func TestReassembleSignatureMissingFieldsIsFieldConversion(t *testing.T) {
	_, err := reassembleSignature(Legacy, nil, big.NewInt(1), big.NewInt(2))
	require.Error(t, err)
	require.True(t, errs.Is(err, errs.FieldConversion))
}

func to32(t *testing.T, a *common.Address) [20]byte {
	t.Helper()
	if a == nil {
		return [20]byte{}
	}
	return *a
}

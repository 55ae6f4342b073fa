// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmreceipt

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func u64h(v uint64) *hexutil.Uint64 {
	u := hexutil.Uint64(v)
	return &u
}

func TestCanonicaliseLegacySuccessRoundTrip(t *testing.T) {
	rr := &RemoteReceipt{
		Status:            u64h(1),
		CumulativeGasUsed: u64h(21000),
		LogsBloom:         make(hexutil.Bytes, 256),
		Logs: []Log{{
			Address: common.HexToAddress("0x1"),
			Topics:  []common.Hash{{1}, {2}},
			Data:    []byte("hello"),
		}},
	}

	leaf, err := Canonicalise(rr)
	require.NoError(t, err)
	require.True(t, leaf[0] >= 0xc0)

	back, err := Decode(leaf)
	require.NoError(t, err)
	require.Equal(t, uint64(1), uint64(*back.Status))
	require.Equal(t, uint64(21000), uint64(*back.CumulativeGasUsed))
	require.Len(t, back.Logs, 1)
	require.Equal(t, []byte("hello"), []byte(back.Logs[0].Data))
}

func TestCanonicaliseFailedStatusEncodesEmpty(t *testing.T) {
	rr := &RemoteReceipt{
		Status:            u64h(0),
		CumulativeGasUsed: u64h(5),
		LogsBloom:         make(hexutil.Bytes, 256),
	}
	leaf, err := Canonicalise(rr)
	require.NoError(t, err)
	back, err := Decode(leaf)
	require.NoError(t, err)
	require.Equal(t, uint64(0), uint64(*back.Status))
}

func TestCanonicalisePreByzantiumRoot(t *testing.T) {
	root := make(hexutil.Bytes, 32)
	root[0] = 0xAB
	rr := &RemoteReceipt{
		PostStateRoot:     root,
		CumulativeGasUsed: u64h(100),
		LogsBloom:         make(hexutil.Bytes, 256),
	}
	leaf, err := Canonicalise(rr)
	require.NoError(t, err)

	back, err := Decode(leaf)
	require.NoError(t, err)
	require.Nil(t, back.Status)
	require.Len(t, back.PostStateRoot, 32)
	require.Equal(t, byte(0xAB), back.PostStateRoot[0])
}

func TestCanonicaliseTypedReceipt(t *testing.T) {
	typ := hexutil.Uint64(2)
	rr := &RemoteReceipt{
		Type:              &typ,
		Status:            u64h(1),
		CumulativeGasUsed: u64h(9),
		LogsBloom:         make(hexutil.Bytes, 256),
	}
	leaf, err := Canonicalise(rr)
	require.NoError(t, err)
	require.Equal(t, byte(2), leaf[0])

	back, err := Decode(leaf)
	require.NoError(t, err)
	require.NotNil(t, back.Type)
	require.Equal(t, uint64(2), uint64(*back.Type))
}

func TestCanonicaliseUnknownTypeFailsClosed(t *testing.T) {
	typ := hexutil.Uint64(9)
	rr := &RemoteReceipt{Type: &typ}
	_, err := Canonicalise(rr)
	require.Error(t, err)
}

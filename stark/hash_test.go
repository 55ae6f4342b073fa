// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package stark

import (
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/require"
)

func TestParseEraBoundaries(t *testing.T) {
	cases := []struct {
		version string
		want    Era
	}{
		{"0.10.3", EraLegacy},
		{"0.11.0", EraLegacy},
		{"0.11.1", EraPedersenSignature},
		{"0.12.3", EraPedersenSignature},
		{"0.13.1.1", EraPedersenSignature},
		{"0.13.2", EraPoseidon},
		{"0.14.0", EraPoseidon},
	}
	for _, c := range cases {
		got, err := ParseEra(c.version)
		require.NoError(t, err, c.version)
		require.Equal(t, c.want, got, c.version)
	}
}

func TestParseEraRejectsMalformed(t *testing.T) {
	_, err := ParseEra("not-a-version")
	require.Error(t, err)
}

func TestPedersenArrayEmptyIsPedersenOfZeros(t *testing.T) {
	got := PedersenArray()
	want := Pedersen(new(felt.Felt), new(felt.Felt))
	require.Equal(t, want.Bytes(), got.Bytes())
}

func TestFinalTransactionHashDiffersAcrossEras(t *testing.T) {
	tx := &RemoteTransaction{
		Kind:      Invoke,
		Hash:      FeltFromUint64(42),
		Signature: []*felt.Felt{FeltFromUint64(1), FeltFromUint64(2)},
	}
	legacy := FinalTransactionHash(EraLegacy, tx)
	mid := FinalTransactionHash(EraPedersenSignature, tx)
	poseidon := FinalTransactionHash(EraPoseidon, tx)

	require.NotEqual(t, legacy.Bytes(), poseidon.Bytes())
	require.NotEqual(t, mid.Bytes(), poseidon.Bytes())
}

func TestFinalTransactionHashDeployIgnoresSignature(t *testing.T) {
	base := &RemoteTransaction{Kind: Deploy, Hash: FeltFromUint64(7)}
	withSig := &RemoteTransaction{Kind: Deploy, Hash: FeltFromUint64(7), Signature: []*felt.Felt{FeltFromUint64(99)}}

	h1 := FinalTransactionHash(EraPedersenSignature, base)
	h2 := FinalTransactionHash(EraPedersenSignature, withSig)
	require.Equal(t, h1.Bytes(), h2.Bytes())
}

func TestFinalReceiptHashRequiresPoseidonEra(t *testing.T) {
	r := &RemoteReceipt{TxHash: FeltFromUint64(1), ActualFee: FeltFromUint64(2), Succeeded: true}
	_, err := FinalReceiptHash(EraPedersenSignature, r)
	require.Error(t, err)

	h, err := FinalReceiptHash(EraPoseidon, r)
	require.NoError(t, err)
	require.NotNil(t, h)
}

func TestFinalReceiptHashRevertChangesHash(t *testing.T) {
	ok := &RemoteReceipt{TxHash: FeltFromUint64(1), ActualFee: FeltFromUint64(2), Succeeded: true}
	reverted := &RemoteReceipt{TxHash: FeltFromUint64(1), ActualFee: FeltFromUint64(2), Succeeded: false, RevertReason: "out of gas"}

	h1, err := FinalReceiptHash(EraPoseidon, ok)
	require.NoError(t, err)
	h2, err := FinalReceiptHash(EraPoseidon, reverted)
	require.NoError(t, err)
	require.NotEqual(t, h1.Bytes(), h2.Bytes())
}

func TestStarknetKeccakMasksTopBits(t *testing.T) {
	f := StarknetKeccak([]byte("revert reason"))
	b := f.Bytes()
	require.LessOrEqual(t, b[0], byte(0x03))
}

// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package handler

import (
	"context"
	"testing"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/stretchr/testify/require"

	"github.com/chainproof/trieproofs/errs"
	"github.com/chainproof/trieproofs/rpcclient"
	"github.com/chainproof/trieproofs/sntrie"
	"github.com/chainproof/trieproofs/stark"
)

type fakeStarknetClient struct {
	block      *rpcclient.StarknetBlock
	txBlockNum uint64
}

func (f *fakeStarknetClient) BlockByNumber(ctx context.Context, n uint64) (*rpcclient.StarknetBlock, error) {
	return f.block, nil
}

func (f *fakeStarknetClient) BlockNumberOfTransaction(ctx context.Context, hash *felt.Felt) (uint64, error) {
	return f.txBlockNum, nil
}

type fakeFeederClient struct {
	commitments *rpcclient.FeederCommitments
	indices     map[string]uint64
}

func (f *fakeFeederClient) BlockCommitments(ctx context.Context, n uint64) (*rpcclient.FeederCommitments, error) {
	return f.commitments, nil
}

func (f *fakeFeederClient) TransactionIndex(ctx context.Context, hash *felt.Felt) (uint64, error) {
	idx, ok := f.indices[hash.String()]
	if !ok {
		return 0, errs.New(errs.ItemNotFound)
	}
	return idx, nil
}

func feltU(v uint64) *felt.Felt { return new(felt.Felt).SetUint64(v) }

// buildStarknetFixture builds n Invoke transactions whose final hashes are
// recomputed independently with stark.FinalTransactionHash/sntrie, so the
// feeder commitment it returns matches what StarknetHandler will compute.
// indices maps each transaction's final hash to its block position, the
// same way the feeder gateway's get_transaction endpoint would report it.
func buildStarknetFixture(t *testing.T, n int) (*rpcclient.StarknetBlock, *rpcclient.FeederCommitments, map[string]uint64) {
	t.Helper()
	txs := make([]*stark.RemoteTransaction, n)
	trie := sntrie.New(stark.Poseidon)
	indices := make(map[string]uint64, n)
	for i := 0; i < n; i++ {
		tx := &stark.RemoteTransaction{
			Kind:      stark.Invoke,
			Hash:      feltU(uint64(1000 + i)),
			Signature: []*felt.Felt{feltU(uint64(i)), feltU(uint64(i + 1))},
		}
		txs[i] = tx
		v := stark.FinalTransactionHash(stark.EraPoseidon, tx)
		require.NoError(t, trie.Set(sntrie.KeyFromIndex(uint64(i)), v))
		indices[v.String()] = uint64(i)
	}
	root, _, err := trie.Commit()
	require.NoError(t, err)

	block := &rpcclient.StarknetBlock{Number: 50, Version: "0.13.2", Transactions: txs}
	comm := &rpcclient.FeederCommitments{TransactionCommitment: "0x" + root.String()}
	return block, comm, indices
}

func TestStarknetHandlerBuildAndProofRoundTrip(t *testing.T) {
	block, comm, indices := buildStarknetFixture(t, 4)
	h := NewStarknetHandler(&fakeStarknetClient{block: block}, &fakeFeederClient{commitments: comm, indices: indices}, StarknetTransactions, nil)

	require.NoError(t, h.BuildFromBlock(context.Background(), 50))

	root, err := h.Root()
	require.NoError(t, err)
	require.True(t, root.Equal(mustParseCommitment(t, comm.TransactionCommitment)))

	elements, err := h.Elements()
	require.NoError(t, err)
	require.Len(t, elements, 4)

	for i, v := range elements {
		proof, err := h.Proof(i)
		require.NoError(t, err)
		membership, err := h.Verify(i, proof)
		require.NoError(t, err)
		require.Equal(t, sntrie.Member, membership)

		idx, err := h.IndexOfHash(context.Background(), v)
		require.NoError(t, err)
		require.Equal(t, i, idx)
	}
}

// TestStarknetHandlerIndexOfHashAsksFeeder confirms IndexOfHash trusts the
// feeder gateway's reported position rather than recomputing or comparing
// hashes against h.elements itself: the fake feeder is seeded with a
// mapping the local elements could not reproduce on their own.
func TestStarknetHandlerIndexOfHashAsksFeeder(t *testing.T) {
	block, comm, _ := buildStarknetFixture(t, 4)
	lookupHash := feltU(999999)
	feeder := &fakeFeederClient{commitments: comm, indices: map[string]uint64{lookupHash.String(): 2}}
	h := NewStarknetHandler(&fakeStarknetClient{block: block}, feeder, StarknetTransactions, nil)
	require.NoError(t, h.BuildFromBlock(context.Background(), 50))

	idx, err := h.IndexOfHash(context.Background(), lookupHash)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	_, err = h.IndexOfHash(context.Background(), feltU(1))
	require.True(t, errs.Is(err, errs.ItemNotFound))
}

func TestStarknetHandlerCommitmentMismatch(t *testing.T) {
	block, comm, indices := buildStarknetFixture(t, 2)
	comm.TransactionCommitment = "0x1"
	h := NewStarknetHandler(&fakeStarknetClient{block: block}, &fakeFeederClient{commitments: comm, indices: indices}, StarknetTransactions, nil)

	err := h.BuildFromBlock(context.Background(), 50)
	require.True(t, errs.Is(err, errs.InvalidCommitment))

	_, err = h.Root()
	require.True(t, errs.Is(err, errs.TrieNotAvailable))
}

func TestStarknetHandlerReceiptsRejectPrePoseidonEra(t *testing.T) {
	block := &rpcclient.StarknetBlock{Number: 10, Version: "0.12.0"}
	h := NewStarknetHandler(&fakeStarknetClient{block: block}, &fakeFeederClient{commitments: &rpcclient.FeederCommitments{}}, StarknetReceipts, nil)

	err := h.BuildFromBlock(context.Background(), 10)
	require.True(t, errs.Is(err, errs.UnsupportedProtocol))
}

func TestStarknetHandlerQueryBeforeBuild(t *testing.T) {
	h := NewStarknetHandler(&fakeStarknetClient{}, &fakeFeederClient{}, StarknetTransactions, nil)
	_, err := h.Proof(0)
	require.True(t, errs.Is(err, errs.TrieNotAvailable))
}

func mustParseCommitment(t *testing.T, hex string) *felt.Felt {
	t.Helper()
	f, err := feltFromHex(hex)
	require.NoError(t, err)
	return f
}

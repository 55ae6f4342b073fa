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
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/chainproof/trieproofs/errs"
	"github.com/chainproof/trieproofs/evmtx"
	"github.com/chainproof/trieproofs/mpt"
	"github.com/chainproof/trieproofs/rpcclient"
)

type fakeEVMClient struct {
	block  *rpcclient.EVMBlock
	txBlockNum uint64
	err    error
}

func (f *fakeEVMClient) BlockByNumber(ctx context.Context, n uint64) (*rpcclient.EVMBlock, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.block, nil
}

func (f *fakeEVMClient) BlockNumberOfTransaction(ctx context.Context, hash common.Hash) (uint64, error) {
	return f.txBlockNum, nil
}

func u64p(v uint64) *hexutil.Uint64 {
	u := hexutil.Uint64(v)
	return &u
}

func bigp(v int64) *hexutil.Big {
	b := hexutil.Big(*big.NewInt(v))
	return &b
}

func legacyTx(nonce uint64) *evmtx.RemoteTransaction {
	addr := common.HexToAddress("0xaa")
	return &evmtx.RemoteTransaction{
		Nonce:    u64p(nonce),
		GasPrice: bigp(1_000_000_000),
		GasLimit: u64p(21000),
		To:       &addr,
		Value:    bigp(1),
		Data:     hexutil.Bytes{},
		V:        bigp(27),
		R:        bigp(1),
		S:        bigp(2),
	}
}

// buildEVMFixture canonicalises n legacy transactions, computes the
// correct trie root over them with an independent mpt.Trie, and returns
// an EVMBlock whose TransactionsRoot matches what EVMHandler will
// recompute.
func buildEVMFixture(t *testing.T, n int) *rpcclient.EVMBlock {
	t.Helper()
	trie := mpt.New(mpt.NewMemoryDB())
	txs := make([]*evmtx.RemoteTransaction, n)
	for i := 0; i < n; i++ {
		tx := legacyTx(uint64(i))
		txs[i] = tx
		leaf, err := evmtx.Canonicalise(tx)
		require.NoError(t, err)
		require.NoError(t, trie.Insert(mpt.KeyForIndex(uint64(i)), leaf))
	}
	root, err := trie.Root()
	require.NoError(t, err)
	return &rpcclient.EVMBlock{Number: 100, TransactionsRoot: root, Transactions: txs}
}

func TestEVMHandlerBuildAndProofRoundTrip(t *testing.T) {
	block := buildEVMFixture(t, 5)
	h := NewEVMHandler(&fakeEVMClient{block: block}, EVMTransactions, nil)

	require.NoError(t, h.BuildFromBlock(context.Background(), 100))

	root, err := h.Root()
	require.NoError(t, err)
	require.Equal(t, block.TransactionsRoot, root)

	elements, err := h.Elements()
	require.NoError(t, err)
	require.Len(t, elements, 5)

	for i := range elements {
		proof, err := h.Proof(i)
		require.NoError(t, err)
		val, err := h.Verify(i, proof)
		require.NoError(t, err)
		require.Equal(t, elements[i], val)
	}
}

func TestEVMHandlerIndexOfHash(t *testing.T) {
	block := buildEVMFixture(t, 3)
	h := NewEVMHandler(&fakeEVMClient{block: block}, EVMTransactions, nil)
	require.NoError(t, h.BuildFromBlock(context.Background(), 100))

	leaf, err := evmtx.Canonicalise(block.Transactions[2])
	require.NoError(t, err)
	hash := common.BytesToHash(mustKeccak(leaf))

	idx, err := h.IndexOfHash(hash)
	require.NoError(t, err)
	require.Equal(t, 2, idx)

	_, err = h.IndexOfHash(common.Hash{0xff})
	require.True(t, errs.Is(err, errs.ItemNotFound))
}

func TestEVMHandlerRootMismatchLeavesHandlerUnbuilt(t *testing.T) {
	block := buildEVMFixture(t, 2)
	block.TransactionsRoot = common.Hash{0x01} // wrong on purpose
	h := NewEVMHandler(&fakeEVMClient{block: block}, EVMTransactions, nil)

	err := h.BuildFromBlock(context.Background(), 100)
	require.True(t, errs.Is(err, errs.UnexpectedRoot))

	_, err = h.Root()
	require.True(t, errs.Is(err, errs.TrieNotAvailable))
}

func TestEVMHandlerQueryBeforeBuild(t *testing.T) {
	h := NewEVMHandler(&fakeEVMClient{}, EVMTransactions, nil)
	_, err := h.Proof(0)
	require.True(t, errs.Is(err, errs.TrieNotAvailable))
}

func TestEVMHandlerOutOfRangeIndex(t *testing.T) {
	block := buildEVMFixture(t, 2)
	h := NewEVMHandler(&fakeEVMClient{block: block}, EVMTransactions, nil)
	require.NoError(t, h.BuildFromBlock(context.Background(), 100))

	_, err := h.Element(2)
	require.True(t, errs.Is(err, errs.ItemNotFound))
}

func TestEVMHandlerBuildFromTxHashResolvesBlock(t *testing.T) {
	block := buildEVMFixture(t, 1)
	h := NewEVMHandler(&fakeEVMClient{block: block, txBlockNum: 100}, EVMTransactions, nil)
	require.NoError(t, h.BuildFromTxHash(context.Background(), common.Hash{0x01}))
	root, err := h.Root()
	require.NoError(t, err)
	require.Equal(t, block.TransactionsRoot, root)
}

func mustKeccak(b []byte) []byte {
	h := crypto.Keccak256(b)
	return h
}

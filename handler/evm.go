// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package handler orchestrates one block's worth of EVM or Starknet
// inputs end-to-end: fetch, canonicalise, build the trie, validate its
// root against the header/gateway, and serve proof/verify/index queries
// against the result.
package handler

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/chainproof/trieproofs/errs"
	"github.com/chainproof/trieproofs/evmreceipt"
	"github.com/chainproof/trieproofs/evmtx"
	"github.com/chainproof/trieproofs/mpt"
	"github.com/chainproof/trieproofs/rpcclient"
)

// EVMItemKind selects which of a block's two commitments an EVMHandler
// reconstructs: each handler owns exactly one trie, so a caller wanting
// both a block's transaction and receipt proofs instantiates two
// handlers.
type EVMItemKind int

const (
	EVMTransactions EVMItemKind = iota
	EVMReceipts
)

// EVMHandler owns at most one built trie over a block's transactions or
// receipts. It is not safe for concurrent use; callers needing
// parallelism across blocks instantiate one handler per task.
type EVMHandler struct {
	client rpcclient.EVMClient
	kind   EVMItemKind
	log    *zap.Logger

	built    bool
	root     common.Hash
	elements [][]byte
	trie     *mpt.Trie
}

// NewEVMHandler returns an empty handler for kind, querying client. log
// may be nil, in which case a no-op logger is used.
func NewEVMHandler(client rpcclient.EVMClient, kind EVMItemKind, log *zap.Logger) *EVMHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &EVMHandler{client: client, kind: kind, log: log}
}

// BuildFromBlock fetches block n, canonicalises every transaction or
// receipt (per h.kind), builds the trie, and verifies its root against
// the header's declared root before swapping it into the handler. The
// new trie is constructed entirely in local variables; a failure at any
// point (including an UnexpectedRoot mismatch) leaves h's prior state, if
// any, untouched.
func (h *EVMHandler) BuildFromBlock(ctx context.Context, n uint64) error {
	block, err := h.client.BlockByNumber(ctx, n)
	if err != nil {
		return err
	}

	trie := mpt.New(mpt.NewMemoryDB())
	var elements [][]byte
	var expectedRoot common.Hash

	switch h.kind {
	case EVMTransactions:
		expectedRoot = block.TransactionsRoot
		elements = make([][]byte, len(block.Transactions))
		for i, tx := range block.Transactions {
			leaf, err := evmtx.Canonicalise(tx)
			if err != nil {
				return err
			}
			if err := trie.Insert(mpt.KeyForIndex(uint64(i)), leaf); err != nil {
				return err
			}
			elements[i] = leaf
		}

	case EVMReceipts:
		expectedRoot = block.ReceiptsRoot
		elements = make([][]byte, len(block.Receipts))
		for i, r := range block.Receipts {
			leaf, err := evmreceipt.Canonicalise(r)
			if err != nil {
				return err
			}
			if err := trie.Insert(mpt.KeyForIndex(uint64(i)), leaf); err != nil {
				return err
			}
			elements[i] = leaf
		}
	}

	root, err := trie.Root()
	if err != nil {
		return err
	}
	if root != expectedRoot {
		h.log.Warn("evm trie root mismatch",
			zap.Uint64("block", n), zap.Stringer("computed", root), zap.Stringer("expected", expectedRoot))
		return errs.New(errs.UnexpectedRoot)
	}

	h.trie = trie
	h.root = root
	h.elements = elements
	h.built = true
	h.log.Info("evm trie built", zap.Uint64("block", n), zap.Int("elements", len(elements)))
	return nil
}

// BuildFromTxHash resolves the block containing hash, then builds over
// it.
func (h *EVMHandler) BuildFromTxHash(ctx context.Context, hash common.Hash) error {
	n, err := h.client.BlockNumberOfTransaction(ctx, hash)
	if err != nil {
		return err
	}
	return h.BuildFromBlock(ctx, n)
}

func (h *EVMHandler) requireBuilt() error {
	if !h.built {
		return errs.New(errs.TrieNotAvailable)
	}
	return nil
}

// IndexOfHash searches the built block for the transaction or receipt
// whose recomputed trie hash (Keccak256 of its canonical leaf bytes)
// equals hash.
func (h *EVMHandler) IndexOfHash(hash common.Hash) (int, error) {
	if err := h.requireBuilt(); err != nil {
		return 0, err
	}
	for i, leaf := range h.elements {
		if crypto.Keccak256Hash(leaf) == hash {
			return i, nil
		}
	}
	return 0, errs.New(errs.ItemNotFound)
}

// Proof returns the inclusion proof for the item at index i.
func (h *EVMHandler) Proof(i int) ([][]byte, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(h.elements) {
		return nil, errs.New(errs.ItemNotFound)
	}
	return h.trie.Proof(mpt.KeyForIndex(uint64(i)))
}

// Verify checks proof against the built root for the item at index i,
// returning its canonical leaf bytes on success.
func (h *EVMHandler) Verify(i int, proof [][]byte) ([]byte, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	val, err := mpt.Verify(h.root.Bytes(), mpt.KeyForIndex(uint64(i)), proof)
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Root returns the built trie's root.
func (h *EVMHandler) Root() (common.Hash, error) {
	if err := h.requireBuilt(); err != nil {
		return common.Hash{}, err
	}
	return h.root, nil
}

// Elements returns every built item's canonical leaf bytes, in block
// order.
func (h *EVMHandler) Elements() ([][]byte, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	return h.elements, nil
}

// Element returns the canonical leaf bytes for the item at index i.
func (h *EVMHandler) Element(i int) ([]byte, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(h.elements) {
		return nil, errs.New(errs.ItemNotFound)
	}
	return h.elements[i], nil
}

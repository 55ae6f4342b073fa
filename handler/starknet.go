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
	"strings"

	"github.com/NethermindEth/juno/core/felt"
	"go.uber.org/zap"

	"github.com/chainproof/trieproofs/errs"
	"github.com/chainproof/trieproofs/rpcclient"
	"github.com/chainproof/trieproofs/sntrie"
	"github.com/chainproof/trieproofs/stark"
)

// StarknetItemKind selects which of a block's two commitments a
// StarknetHandler reconstructs.
type StarknetItemKind int

const (
	StarknetTransactions StarknetItemKind = iota
	StarknetReceipts
)

// StarknetHandler owns at most one built trie over a Starknet block's
// transactions or receipts, plus the feeder-gateway check of its
// recomputed root against the sequencer's declared commitment.
type StarknetHandler struct {
	client rpcclient.StarknetClient
	feeder rpcclient.FeederClient
	kind   StarknetItemKind
	log    *zap.Logger

	built     bool
	era       stark.Era
	hashFn    sntrie.HashFn
	rootValue *felt.Felt
	rootIndex int
	trie      *sntrie.Trie
	elements  []*felt.Felt
}

// NewStarknetHandler returns an empty handler for kind, querying client
// for block data and feeder for the commitment to check against. log may
// be nil, in which case a no-op logger is used.
func NewStarknetHandler(client rpcclient.StarknetClient, feeder rpcclient.FeederClient, kind StarknetItemKind, log *zap.Logger) *StarknetHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &StarknetHandler{client: client, feeder: feeder, kind: kind, log: log}
}

// BuildFromBlock fetches block n, determines its era from the reported
// protocol version, recomputes every transaction or receipt final hash
// (per h.kind), builds the trie under the era's native hash function, and
// verifies the root against the feeder gateway's declared commitment
// before swapping it into the handler. As with EVMHandler, the new trie
// is assembled entirely in local variables and only attached to h once
// the commitment check passes.
func (h *StarknetHandler) BuildFromBlock(ctx context.Context, n uint64) error {
	block, err := h.client.BlockByNumber(ctx, n)
	if err != nil {
		return err
	}
	era, err := stark.ParseEra(block.Version)
	if err != nil {
		return err
	}
	if h.kind == StarknetReceipts && era != stark.EraPoseidon {
		return errs.New(errs.UnsupportedProtocol)
	}

	comm, err := h.feeder.BlockCommitments(ctx, n)
	if err != nil {
		return err
	}

	hashFn := sntrie.HashFn(stark.Pedersen)
	if era == stark.EraPoseidon {
		hashFn = stark.Poseidon
	}
	trie := sntrie.New(hashFn)

	var elements []*felt.Felt
	var expectedHex string

	switch h.kind {
	case StarknetTransactions:
		expectedHex = comm.TransactionCommitment
		elements = make([]*felt.Felt, len(block.Transactions))
		for i, tx := range block.Transactions {
			v := stark.FinalTransactionHash(era, tx)
			if err := trie.Set(sntrie.KeyFromIndex(uint64(i)), v); err != nil {
				return err
			}
			elements[i] = v
		}

	case StarknetReceipts:
		expectedHex = comm.ReceiptCommitment
		elements = make([]*felt.Felt, len(block.Receipts))
		for i, r := range block.Receipts {
			if i < len(comm.TransactionL1Gas) {
				r.Resources.L1Gas = comm.TransactionL1Gas[i]
			}
			v, err := stark.FinalReceiptHash(era, r)
			if err != nil {
				return err
			}
			if err := trie.Set(sntrie.KeyFromIndex(uint64(i)), v); err != nil {
				return err
			}
			elements[i] = v
		}
	}

	rootValue, rootIndex, err := trie.Commit()
	if err != nil {
		return err
	}
	expected, err := feltFromHex(expectedHex)
	if err != nil {
		return err
	}
	if !rootValue.Equal(expected) {
		h.log.Warn("starknet trie commitment mismatch",
			zap.Uint64("block", n), zap.Stringer("computed", rootValue), zap.String("expected", expectedHex))
		return errs.New(errs.InvalidCommitment)
	}

	h.trie = trie
	h.era = era
	h.hashFn = hashFn
	h.rootValue = rootValue
	h.rootIndex = rootIndex
	h.elements = elements
	h.built = true
	h.log.Info("starknet trie built", zap.Uint64("block", n), zap.Stringer("era", era), zap.Int("elements", len(elements)))
	return nil
}

// BuildFromTxHash resolves the block containing hash, then builds over
// it.
func (h *StarknetHandler) BuildFromTxHash(ctx context.Context, hash *felt.Felt) error {
	n, err := h.client.BlockNumberOfTransaction(ctx, hash)
	if err != nil {
		return err
	}
	return h.BuildFromBlock(ctx, n)
}

func (h *StarknetHandler) requireBuilt() error {
	if !h.built {
		return errs.New(errs.TrieNotAvailable)
	}
	return nil
}

// IndexOfHash asks the feeder gateway for the transaction's position within
// the built block, rather than recomputing and comparing hashes locally —
// unlike EVMHandler.IndexOfHash, which has no such remote lookup available.
func (h *StarknetHandler) IndexOfHash(ctx context.Context, hash *felt.Felt) (int, error) {
	if err := h.requireBuilt(); err != nil {
		return 0, err
	}
	idx, err := h.feeder.TransactionIndex(ctx, hash)
	if err != nil {
		return 0, err
	}
	if idx >= uint64(len(h.elements)) {
		return 0, errs.New(errs.ItemNotFound)
	}
	return int(idx), nil
}

// Proof returns the inclusion proof for the item at index i.
func (h *StarknetHandler) Proof(i int) ([]sntrie.TrieNode, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(h.elements) {
		return nil, errs.New(errs.ItemNotFound)
	}
	return h.trie.Proof(h.rootIndex, sntrie.KeyFromIndex(uint64(i)))
}

// Verify checks proof against the built root for the item at index i,
// reporting membership of that item's recomputed hash.
func (h *StarknetHandler) Verify(i int, proof []sntrie.TrieNode) (sntrie.Membership, error) {
	if err := h.requireBuilt(); err != nil {
		return sntrie.NonMember, err
	}
	if i < 0 || i >= len(h.elements) {
		return sntrie.NonMember, errs.New(errs.ItemNotFound)
	}
	return sntrie.Verify(h.hashFn, h.rootValue, sntrie.KeyFromIndex(uint64(i)), h.elements[i], proof)
}

// Root returns the built trie's root value.
func (h *StarknetHandler) Root() (*felt.Felt, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	return h.rootValue, nil
}

// Elements returns every built item's recomputed final hash, in block
// order.
func (h *StarknetHandler) Elements() ([]*felt.Felt, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	return h.elements, nil
}

// Element returns the recomputed final hash for the item at index i.
func (h *StarknetHandler) Element(i int) (*felt.Felt, error) {
	if err := h.requireBuilt(); err != nil {
		return nil, err
	}
	if i < 0 || i >= len(h.elements) {
		return nil, errs.New(errs.ItemNotFound)
	}
	return h.elements[i], nil
}

// feltFromHex parses a "0x..."-prefixed hex string, as returned by the
// feeder gateway's JSON fields, into a field element.
func feltFromHex(s string) (*felt.Felt, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		s = "0"
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, errBadCommitmentHex(s))
	}
	return stark.FeltFromBigInt(v), nil
}

type errBadCommitmentHex string

func (e errBadCommitmentHex) Error() string { return "handler: malformed commitment hex " + string(e) }

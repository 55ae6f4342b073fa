// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package sntrie implements Starknet's sparse binary Merkle trie of fixed
// height 64, parametric in the hash function (Pedersen or Poseidon), used
// to reconstruct a block's transaction and receipt commitments.
package sntrie

import "github.com/NethermindEth/juno/core/felt"

// Height is the fixed depth of the trie this package builds: 64 bits of
// key, one per level.
const Height = 64

// Kind is the closed set of node shapes.
type Kind int

const (
	KindBinary Kind = iota
	KindEdge
	KindLeaf
)

// node is one arena slot. Binary uses Left/Right; Edge uses
// Length/Path/Child; Leaf uses Value. hash is filled in by Commit and nil
// beforehand.
type node struct {
	kind Kind

	left, right int // arena indices, Binary only

	length int    // bits consumed by this edge, Edge only
	path   uint64 // the edge's bits, MSB-first, right-aligned in `length` bits
	child  int    // arena index, Edge only

	value *felt.Felt // Leaf only

	hash *felt.Felt // memoised by Commit
}

// HashFn is the two-input Starknet field hash a Trie is parameterised
// over: stark.Pedersen or stark.Poseidon.
type HashFn func(a, b *felt.Felt) *felt.Felt

// Key is a resolved trie key: the 64-bit big-endian bit vector of a
// position, MSB first.
type Key uint64

// KeyFromIndex derives the trie key for the item at position i.
func KeyFromIndex(i uint64) Key { return Key(i) }

// Bit returns the bit at position pos (0 = most significant) as 0 or 1.
func (k Key) Bit(pos int) int {
	return int((uint64(k) >> uint(Height-1-pos)) & 1)
}

// bitsInRange extracts the `length` bits of k starting at bit `start`, MSB
// first, packed as the low `length` bits of the returned value.
func bitsInRange(k Key, start, length int) uint64 {
	var v uint64
	for i := 0; i < length; i++ {
		v = v<<1 | uint64(k.Bit(start+i))
	}
	return v
}

// commonPrefixLen returns how many of an edge's `length` path bits match
// k's bits starting at `start`.
func commonPrefixLen(path uint64, length int, k Key, start int) int {
	for i := 0; i < length; i++ {
		edgeBit := int((path >> uint(length-1-i)) & 1)
		if edgeBit != k.Bit(start+i) {
			return i
		}
	}
	return length
}

// bitAt returns the bit at offset pos (0-indexed from the edge's start)
// within an edge path of the given length.
func bitAt(path uint64, length, pos int) int {
	return int((path >> uint(length-1-pos)) & 1)
}

// suffix returns the trailing (length-from) bits of path, an edge-path of
// the given length, re-packed as a (length-from)-bit value.
func suffix(path uint64, length, from int) uint64 {
	rem := length - from
	return path & ((uint64(1) << uint(rem)) - 1)
}

// prefix returns the leading `n` bits of path, an edge-path of the given
// length, re-packed as an n-bit value.
func prefix(path uint64, length, n int) uint64 {
	return path >> uint(length-n)
}

// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package sntrie

import (
	"errors"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/chainproof/trieproofs/errs"
)

var errNilValue = errors.New("sntrie: nil leaf value")

const noNode = -1

// Trie is an in-memory, arena-backed sparse binary Merkle trie of fixed
// height 64. Like mpt.Trie it is built once (via repeated Set) then
// finalised (via Commit); it is never used to represent a DAG, only a
// read-only-afterwards tree, so plain arena indices suffice in place of
// content-addressed hashes during construction.
type Trie struct {
	h     HashFn
	nodes []node
	root  int
}

// New returns an empty trie parameterised over h (Pedersen for protocol
// versions below 0.13.2, Poseidon from 0.13.2 onward).
func New(h HashFn) *Trie {
	return &Trie{h: h, root: noNode}
}

func (t *Trie) alloc(n node) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// Set inserts or overwrites the value at key_bits.
func (t *Trie) Set(key Key, value *felt.Felt) error {
	if value == nil {
		return errs.WrapField(errs.FieldConversion, errs.Input, errNilValue)
	}
	t.root = t.insert(t.root, 0, key, value)
	return nil
}

func (t *Trie) insert(idx, depth int, key Key, value *felt.Felt) int {
	if idx == noNode {
		return t.newEdgeToLeaf(depth, key, value)
	}
	n := t.nodes[idx]
	switch n.kind {
	case KindLeaf:
		return t.alloc(node{kind: KindLeaf, value: value})

	case KindBinary:
		bit := key.Bit(depth)
		left, right := n.left, n.right
		if bit == 0 {
			left = t.insert(left, depth+1, key, value)
		} else {
			right = t.insert(right, depth+1, key, value)
		}
		return t.alloc(node{kind: KindBinary, left: left, right: right})

	case KindEdge:
		m := commonPrefixLen(n.path, n.length, key, depth)
		if m == n.length {
			child := t.insert(n.child, depth+n.length, key, value)
			return t.alloc(node{kind: KindEdge, length: n.length, path: n.path, child: child})
		}
		oldBit := bitAt(n.path, n.length, m)
		oldChild := n.child
		if rem := n.length - m - 1; rem > 0 {
			oldChild = t.alloc(node{kind: KindEdge, length: rem, path: suffix(n.path, n.length, m+1), child: n.child})
		}
		newChild := t.newEdgeToLeaf(depth+m+1, key, value)
		branch := node{kind: KindBinary}
		if oldBit == 0 {
			branch.left, branch.right = oldChild, newChild
		} else {
			branch.left, branch.right = newChild, oldChild
		}
		branchIdx := t.alloc(branch)
		if m == 0 {
			return branchIdx
		}
		return t.alloc(node{kind: KindEdge, length: m, path: prefix(n.path, n.length, m), child: branchIdx})

	default:
		panic("sntrie: unexpected node kind during insert")
	}
}

// newEdgeToLeaf allocates the subtree needed to reach a fresh leaf from
// depth down to Height: a single Edge over all remaining bits (or, at
// depth == Height already, just the leaf itself).
func (t *Trie) newEdgeToLeaf(depth int, key Key, value *felt.Felt) int {
	if depth == Height {
		return t.alloc(node{kind: KindLeaf, value: value})
	}
	rem := Height - depth
	leaf := t.alloc(node{kind: KindLeaf, value: value})
	return t.alloc(node{kind: KindEdge, length: rem, path: bitsInRange(key, depth, rem), child: leaf})
}

// Commit materialises every pending node's hash bottom-up under t.h and
// returns the root field element together with an opaque arena index
// (root_index) that Proof uses to walk the tree again. An empty trie
// commits to the field zero value.
func (t *Trie) Commit() (*felt.Felt, int, error) {
	if t.root == noNode {
		return new(felt.Felt), noNode, nil
	}
	h, err := t.hashOf(t.root)
	if err != nil {
		return nil, 0, err
	}
	return h, t.root, nil
}

// hashOf returns (and memoises) the hash of the node at idx.
func (t *Trie) hashOf(idx int) (*felt.Felt, error) {
	n := &t.nodes[idx]
	if n.hash != nil {
		return n.hash, nil
	}
	switch n.kind {
	case KindLeaf:
		n.hash = n.value

	case KindBinary:
		l, err := t.hashOf(n.left)
		if err != nil {
			return nil, err
		}
		r, err := t.hashOf(n.right)
		if err != nil {
			return nil, err
		}
		n.hash = t.h(l, r)

	case KindEdge:
		c, err := t.hashOf(n.child)
		if err != nil {
			return nil, err
		}
		pathFelt := new(felt.Felt).SetUint64(n.path)
		sum := t.h(c, pathFelt)
		var lenFelt felt.Felt
		lenFelt.SetUint64(uint64(n.length))
		sum.Add(sum, &lenFelt)
		n.hash = sum

	default:
		return nil, errs.New(errs.InvalidProof)
	}
	return n.hash, nil
}

// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package mpt

import (
	"errors"

	"github.com/chainproof/trieproofs/errs"
)

var errEmptyValue = errors.New("mpt: empty leaf value")

// Trie is an in-memory hexary Merkle-Patricia Trie built by repeated
// Insert and queried via Root and Proof. It is write-once in the sense the
// package is used for reconstruction: every element of a block is
// inserted once, then the trie is finalized.
type Trie struct {
	root node
	db   *MemoryDB
}

// New returns an empty trie. Nodes whose encoding is hash-addressed
// (32 bytes or more) are recorded into db as they're produced; db may be
// nil, since Root and Proof work from the in-memory nodes alone.
func New(db *MemoryDB) *Trie {
	return &Trie{db: db}
}

// Insert adds key/value to the trie, keyed by a nibble path derived from
// key. Re-inserting the same key overwrites its value.
func (t *Trie) Insert(key, value []byte) error {
	if len(value) == 0 {
		return errs.WrapField(errs.FieldConversion, errs.Input, errEmptyValue)
	}
	k := keybytesToHex(key)
	root, err := t.insert(t.root, k, valueNode(value))
	if err != nil {
		return err
	}
	t.root = root
	return nil
}

// insert returns the subtree rooted at n after key/value has been woven
// into it, following the standard MPT insertion cases: empty slot, exact
// leaf match, partial prefix split, and descent through an existing
// extension or branch.
func (t *Trie) insert(n node, key []byte, value valueNode) (node, error) {
	if len(key) == 0 {
		return value, nil
	}
	switch cur := n.(type) {
	case nil:
		return &shortNode{Key: append([]byte(nil), key...), Val: value}, nil

	case *shortNode:
		match := prefixLen(cur.Key, key)
		if match == len(cur.Key) {
			// key extends (or equals) this node's path: descend.
			newVal, err := t.insert(cur.Val, key[match:], value)
			if err != nil {
				return nil, err
			}
			return &shortNode{Key: cur.Key, Val: newVal}, nil
		}
		// Paths diverge at `match` (necessarily < len(cur.Key), since the
		// full-match case above already returned): split into a branch,
		// optionally preceded by a shared extension over the common prefix.
		branch := &fullNode{}
		var err error
		if match == len(key) {
			branch.Children[terminatorNibble] = value
		} else {
			branch.Children[key[match]], err = t.insert(nil, key[match+1:], value)
			if err != nil {
				return nil, err
			}
		}
		branch.Children[cur.Key[match]], err = t.insert(nil, cur.Key[match+1:], cur.Val)
		if err != nil {
			return nil, err
		}
		if match == 0 {
			return branch, nil
		}
		return &shortNode{Key: append([]byte(nil), cur.Key[:match]...), Val: branch}, nil

	case *fullNode:
		out := &fullNode{Children: cur.Children}
		if key[0] == terminatorNibble {
			out.Children[terminatorNibble] = value
			return out, nil
		}
		newChild, err := t.insert(cur.Children[key[0]], key[1:], value)
		if err != nil {
			return nil, err
		}
		out.Children[key[0]] = newChild
		return out, nil

	default:
		panic("mpt: unexpected node type during insert")
	}
}

// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package mpt

import "github.com/ethereum/go-ethereum/common"

// MemoryDB holds the RLP encoding of every node whose own encoding is 32
// bytes or longer (and is therefore addressed by hash rather than embedded
// inline in its parent). It is a record of those encodings; Trie.Proof
// re-encodes nodes from the in-memory tree and does not read it.
type MemoryDB struct {
	nodes map[common.Hash][]byte
}

// NewMemoryDB returns an empty node store.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{nodes: make(map[common.Hash][]byte)}
}

// Put records the encoding of a hash-addressed node.
func (db *MemoryDB) Put(hash common.Hash, enc []byte) {
	db.nodes[hash] = append([]byte(nil), enc...)
}

// Get returns the encoding stored for hash, or nil if unknown.
func (db *MemoryDB) Get(hash common.Hash) []byte {
	return db.nodes[hash]
}

// Len reports how many distinct hash-addressed nodes are stored.
func (db *MemoryDB) Len() int { return len(db.nodes) }

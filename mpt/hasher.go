// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package mpt

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
)

// rlpList RLP-encodes items as a single list, splicing each item in as an
// already-encoded unit rather than re-wrapping it as a string. This is how
// a parent node's encoding embeds either a child's raw value bytes, a
// 32-byte hash reference, or (when short enough) the child's own full node
// encoding, inline.
func rlpList(items ...[]byte) ([]byte, error) {
	raw := make([]rlp.RawValue, len(items))
	for i, it := range items {
		raw[i] = it
	}
	return rlp.EncodeToBytes(raw)
}

// encodeNodeRaw returns the canonical RLP encoding of n's own structure: a
// 2-item list for shortNode ([compact path, child-or-value ref]) or a
// 17-item list for fullNode. It never hashes n; that's collapseRef's job.
func (t *Trie) encodeNodeRaw(n node) ([]byte, error) {
	switch v := n.(type) {
	case nil:
		return []byte{0x80}, nil
	case valueNode:
		return rlp.EncodeToBytes([]byte(v))
	case *shortNode:
		keyEnc, err := rlp.EncodeToBytes(hexToCompact(v.Key))
		if err != nil {
			return nil, err
		}
		valRef, err := t.collapseRef(v.Val)
		if err != nil {
			return nil, err
		}
		return rlpList(keyEnc, valRef)
	case *fullNode:
		refs := make([][]byte, 17)
		for i, child := range v.Children {
			ref, err := t.collapseRef(child)
			if err != nil {
				return nil, err
			}
			refs[i] = ref
		}
		return rlpList(refs...)
	default:
		panic("mpt: unexpected node type")
	}
}

// collapseRef returns the bytes a parent node uses to reference child n:
// n's own raw encoding when that encoding is shorter than 32 bytes
// (embedded inline), or the RLP-encoded Keccak256 hash of that encoding
// otherwise — in which case the encoding is also recorded into t.db, when
// one is set.
func (t *Trie) collapseRef(n node) ([]byte, error) {
	if n == nil {
		return []byte{0x80}, nil
	}
	if v, ok := n.(valueNode); ok {
		return rlp.EncodeToBytes([]byte(v))
	}
	enc, err := t.encodeNodeRaw(n)
	if err != nil {
		return nil, err
	}
	if len(enc) < 32 {
		return enc, nil
	}
	hash := common.BytesToHash(crypto.Keccak256(enc))
	if t.db != nil {
		t.db.Put(hash, enc)
	}
	return rlp.EncodeToBytes(hash.Bytes())
}

// Root returns the Keccak256 hash of the root node's RLP encoding. The
// root is always explicitly hashed, regardless of whether its own
// encoding would have been short enough to embed had it appeared as a
// child elsewhere; this is what gives an empty trie the well-known empty
// root hash rather than the single byte 0x80.
func (t *Trie) Root() (common.Hash, error) {
	enc, err := t.encodeNodeRaw(t.root)
	if err != nil {
		return common.Hash{}, err
	}
	hash := common.BytesToHash(crypto.Keccak256(enc))
	if t.db != nil {
		t.db.Put(hash, enc)
	}
	return hash, nil
}

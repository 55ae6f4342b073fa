// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package mpt

import (
	"bytes"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/chainproof/trieproofs/errs"
)

// Proof returns the ordered list of RLP-encoded nodes along the path from
// the root to key, one entry per node that is addressed by hash (the root
// always counts, even when its own encoding happens to be short). Nodes
// embedded inline in a parent (encoding shorter than 32 bytes) contribute
// no separate entry: their bytes already sit inside the parent's encoded
// entry, which the verifier decodes directly without a further hash
// lookup. The key need not be present; Proof then returns the path as far
// as it goes, which Verify will report as a proof of absence.
func (t *Trie) Proof(key []byte) ([][]byte, error) {
	nibbles := keybytesToHex(key)
	var out [][]byte
	cur := t.root
	pos := 0
	first := true
	for cur != nil {
		enc, err := t.encodeNodeRaw(cur)
		if err != nil {
			return nil, err
		}
		if first || len(enc) >= 32 {
			out = append(out, enc)
		}
		first = false

		switch n := cur.(type) {
		case *shortNode:
			match := prefixLen(n.Key, nibbles[pos:])
			if match < len(n.Key) {
				return out, nil
			}
			pos += match
			if _, ok := n.Val.(valueNode); ok {
				return out, nil
			}
			cur = n.Val

		case *fullNode:
			if pos == len(nibbles)-1 && nibbles[pos] == terminatorNibble {
				return out, nil
			}
			idx := nibbles[pos]
			pos++
			cur = n.Children[idx]

		default:
			return out, nil
		}
	}
	return out, nil
}

// decodedNode is the result of parsing one proof-bag entry: a shortNode or
// fullNode whose children are either nested decodedNode values (inline,
// recursively resolved already), a hashNode (to be matched against the
// next proof entry), a valueNode, or nil.
//
// decodeNode distinguishes these purely from RLP shape: a list element is
// an inline child (decoded recursively), a 32-byte string is a hash
// reference, a zero-length string is empty, and any other string is a
// stored value.
func decodeNode(enc []byte) (node, error) {
	kind, content, _, err := rlp.Split(enc)
	if err != nil {
		return nil, err
	}
	if kind != rlp.List {
		return nil, errBadNodeShape
	}
	var items [][]byte
	var isList []bool
	for len(content) > 0 {
		itemKind, itemContent, rest, err := rlp.Split(content)
		if err != nil {
			return nil, err
		}
		raw := content[:len(content)-len(rest)]
		if itemKind == rlp.List {
			items = append(items, raw)
		} else {
			items = append(items, itemContent)
		}
		isList = append(isList, itemKind == rlp.List)
		content = rest
	}
	switch len(items) {
	case 2:
		key := compactToHex(items[0])
		val, err := decodeRef(items[1], isList[1])
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: key, Val: val}, nil
	case 17:
		full := &fullNode{}
		for i := 0; i < 16; i++ {
			child, err := decodeRef(items[i], isList[i])
			if err != nil {
				return nil, err
			}
			full.Children[i] = child
		}
		if len(items[16]) > 0 {
			full.Children[16] = valueNode(items[16])
		}
		return full, nil
	default:
		return nil, errBadNodeShape
	}
}

// decodeRef interprets one already-split child slot: raw is the bytes of
// that RLP item (a sub-list's full encoding if isList, or a string's
// content otherwise).
func decodeRef(raw []byte, isList bool) (node, error) {
	if isList {
		return decodeNode(raw)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if len(raw) == 32 {
		return hashNode(raw), nil
	}
	return valueNode(raw), nil
}

var errBadNodeShape = errs.New(errs.InvalidProof)

// Verify checks proof against rootHash for key, returning the stored value
// on proof of membership and a non-nil error otherwise — both for proof of
// absence (the key is not in the trie) and for a proof that is internally
// inconsistent (a node hash mismatch, a declared child missing from the
// bag, or malformed RLP). Both cases return an errs.InvalidProof error;
// the error does not tell them apart.
func Verify(rootHash []byte, key []byte, proof [][]byte) ([]byte, error) {
	if len(proof) == 0 {
		return nil, errs.New(errs.InvalidProof)
	}
	if !bytes.Equal(crypto.Keccak256(proof[0]), rootHash) {
		return nil, errs.New(errs.InvalidProof)
	}

	nibbles := keybytesToHex(key)
	pos := 0
	bagIdx := 0
	var cur node = mustDecode(proof[0])
	if cur == nil {
		return nil, errs.New(errs.InvalidProof)
	}

	for {
		if pos > len(nibbles)-1 {
			return nil, errs.New(errs.InvalidProof)
		}

		switch n := cur.(type) {
		case *shortNode:
			match := prefixLen(n.Key, nibbles[pos:])
			if match < len(n.Key) {
				return nil, errs.New(errs.InvalidProof) // paths diverge: key absent
			}
			pos += match
			next, err := resolveChild(n.Val, proof, &bagIdx)
			if err != nil {
				return nil, err
			}
			if v, ok := next.(valueNode); ok {
				return []byte(v), nil
			}
			if next == nil {
				return nil, errs.New(errs.InvalidProof)
			}
			cur = next

		case *fullNode:
			if pos == len(nibbles)-1 && nibbles[pos] == terminatorNibble {
				if v, ok := n.Children[terminatorNibble].(valueNode); ok {
					return []byte(v), nil
				}
				return nil, errs.New(errs.InvalidProof)
			}
			idx := nibbles[pos]
			pos++
			next, err := resolveChild(n.Children[idx], proof, &bagIdx)
			if err != nil {
				return nil, err
			}
			if next == nil {
				return nil, errs.New(errs.InvalidProof)
			}
			cur = next

		default:
			return nil, errs.New(errs.InvalidProof)
		}
	}
}

// resolveChild returns a child ready for the walk to continue on: an
// already-decoded inline node passes through unchanged; a hashNode is
// matched against the next proof-bag entry (advancing bagIdx) and that
// entry is decoded in its place.
func resolveChild(child node, proof [][]byte, bagIdx *int) (node, error) {
	h, ok := child.(hashNode)
	if !ok {
		return child, nil
	}
	*bagIdx++
	if *bagIdx >= len(proof) {
		return nil, errs.New(errs.InvalidProof)
	}
	next := proof[*bagIdx]
	if !bytes.Equal(crypto.Keccak256(next), []byte(h)) {
		return nil, errs.New(errs.InvalidProof)
	}
	return mustDecode(next), nil
}

func mustDecode(enc []byte) node {
	n, err := decodeNode(enc)
	if err != nil {
		return nil
	}
	return n
}

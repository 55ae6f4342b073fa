// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package sntrie

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/chainproof/trieproofs/errs"
)

// TrieNode is one proof-bag entry: enough of a Binary, Edge, or Leaf node
// to recompute its hash without needing the rest of the arena. For
// Binary, both children's hashes are included (the verifier only
// descends into the one the key selects); for Edge, the single child's
// hash.
type TrieNode struct {
	Kind Kind

	LeftHash, RightHash *felt.Felt // Binary

	Length    int        // Edge
	Path      uint64     // Edge
	ChildHash *felt.Felt // Edge

	Value *felt.Felt // Leaf
}

// Proof returns the on-path node sequence from rootIndex (as returned by
// Commit) down to key's resolved position, sufficient for Verify to
// recompute the root. Absence is represented by a sequence that
// terminates at a diverging Edge rather than reaching a Leaf.
func (t *Trie) Proof(rootIndex int, key Key) ([]TrieNode, error) {
	var out []TrieNode
	idx := rootIndex
	depth := 0
	for idx != noNode {
		n := t.nodes[idx]
		switch n.kind {
		case KindBinary:
			lh, err := t.hashOf(n.left)
			if err != nil {
				return nil, err
			}
			rh, err := t.hashOf(n.right)
			if err != nil {
				return nil, err
			}
			out = append(out, TrieNode{Kind: KindBinary, LeftHash: lh, RightHash: rh})
			if key.Bit(depth) == 0 {
				idx = n.left
			} else {
				idx = n.right
			}
			depth++

		case KindEdge:
			ch, err := t.hashOf(n.child)
			if err != nil {
				return nil, err
			}
			out = append(out, TrieNode{Kind: KindEdge, Length: n.length, Path: n.path, ChildHash: ch})
			if commonPrefixLen(n.path, n.length, key, depth) < n.length {
				return out, nil // absence: path diverges partway through this edge
			}
			depth += n.length
			idx = n.child

		case KindLeaf:
			out = append(out, TrieNode{Kind: KindLeaf, Value: n.value})
			return out, nil

		default:
			return nil, errs.New(errs.InvalidProof)
		}
	}
	return out, nil
}

// Membership is Verify's outcome.
type Membership int

const (
	NonMember Membership = iota
	Member
)

// Verify recomputes the root hash along proof under h, checking it
// matches rootValue, then reports Member when the reached leaf equals
// leafValue and NonMember when the proof correctly terminates without
// covering key. It fails (returns an error) only when the proof is
// internally inconsistent: a node's recomputed hash disagrees with the
// value the parent entry declared, or the proof is malformed.
func Verify(h HashFn, rootValue *felt.Felt, key Key, leafValue *felt.Felt, proof []TrieNode) (Membership, error) {
	if len(proof) == 0 {
		if feltEqual(rootValue, new(felt.Felt)) {
			return NonMember, nil
		}
		return NonMember, errs.New(errs.InvalidProof)
	}

	depth := 0
	expect := rootValue
	for i, pn := range proof {
		var computed *felt.Felt
		switch pn.Kind {
		case KindBinary:
			computed = h(pn.LeftHash, pn.RightHash)
		case KindEdge:
			pathFelt := new(felt.Felt).SetUint64(pn.Path)
			sum := h(pn.ChildHash, pathFelt)
			var lenFelt felt.Felt
			lenFelt.SetUint64(uint64(pn.Length))
			sum.Add(sum, &lenFelt)
			computed = sum
		case KindLeaf:
			computed = pn.Value
		default:
			return NonMember, errs.New(errs.InvalidProof)
		}

		if !feltEqual(computed, expect) {
			return NonMember, errs.New(errs.InvalidProof)
		}

		switch pn.Kind {
		case KindBinary:
			if depth >= Height {
				return NonMember, errs.New(errs.InvalidProof)
			}
			if key.Bit(depth) == 0 {
				expect = pn.LeftHash
			} else {
				expect = pn.RightHash
			}
			depth++

		case KindEdge:
			if commonPrefixLen(pn.Path, pn.Length, key, depth) < pn.Length {
				return NonMember, nil // absence: this proof correctly stops here
			}
			depth += pn.Length
			expect = pn.ChildHash

		case KindLeaf:
			if i != len(proof)-1 || depth != Height {
				return NonMember, errs.New(errs.InvalidProof)
			}
			if feltEqual(pn.Value, leafValue) {
				return Member, nil
			}
			return NonMember, nil
		}
	}
	// Ran out of proof entries without reaching a Leaf or a diverging Edge:
	// the proof doesn't cover the queried key, but isn't self-contradictory.
	return NonMember, nil
}

func feltEqual(a, b *felt.Felt) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(b)
}

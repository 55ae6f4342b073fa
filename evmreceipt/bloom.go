// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmreceipt

import "github.com/ethereum/go-ethereum/crypto"

// RecomputeBloom derives the 256-byte logs bloom from a receipt's logs by
// OR-ing each log's 3-of-2048-bit Keccak projection into a zero bloom.
// Canonicalise never calls this: the bloom it encodes is always the one
// reported by the remote node, per spec. This function exists for callers
// that want to cross-check a remote-reported bloom against one derived
// independently from the logs.
func RecomputeBloom(logs []Log) [256]byte {
	var bloom [256]byte
	for _, l := range logs {
		addBloom(&bloom, l.Address.Bytes())
		for _, t := range l.Topics {
			addBloom(&bloom, t.Bytes())
		}
	}
	return bloom
}

// addBloom sets the three bits that Keccak256(data) selects in a 2048-bit
// (256-byte) bloom filter, matching go-ethereum's bloom9 construction.
func addBloom(b *[256]byte, data []byte) {
	h := crypto.Keccak256(data)
	for i := 0; i < 6; i += 2 {
		bit := (uint(h[i+1]) + (uint(h[i]) << 8)) & 0x7ff
		b[256-1-bit/8] |= byte(1 << (bit % 8))
	}
}

// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package mpt

import "github.com/ethereum/go-ethereum/rlp"

// KeyForIndex derives the trie key for the transaction or receipt at
// position i within a block: the RLP encoding of i as an unsigned
// big-endian integer with no leading zero bytes. i = 0 is the single
// special case, encoding as the lone byte 0x80 (RLP's empty-string form,
// which is also how RLP encodes the non-negative integer zero).
func KeyForIndex(i uint64) []byte {
	enc, err := rlp.EncodeToBytes(i)
	if err != nil {
		// rlp.EncodeToBytes on a uint64 cannot fail.
		panic(err)
	}
	return enc
}

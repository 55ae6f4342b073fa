// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package stark

import (
	"math/big"

	"github.com/NethermindEth/juno/core/crypto"
	"github.com/NethermindEth/juno/core/felt"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Pedersen is the two-input Starknet-native Pedersen hash.
func Pedersen(a, b *felt.Felt) *felt.Felt {
	return crypto.Pedersen(a, b)
}

// Poseidon is the two-input Starknet-native Poseidon hash, used for the
// binary node of the ≥0.13.2 trie.
func Poseidon(a, b *felt.Felt) *felt.Felt {
	return crypto.Poseidon(a, b)
}

// PedersenArray folds xs with Pedersen starting from zero, then appends
// the element count: Pedersen(Pedersen(...Pedersen(0, x1)..., xn), n).
func PedersenArray(xs ...*felt.Felt) *felt.Felt {
	acc := new(felt.Felt)
	for _, x := range xs {
		acc = crypto.Pedersen(acc, x)
	}
	n := new(felt.Felt).SetUint64(uint64(len(xs)))
	return crypto.Pedersen(acc, n)
}

// PoseidonArray is the standardised Poseidon hash-of-array construction,
// with its own built-in domain-separation suffix (juno's PoseidonArray
// implements the same sponge construction Starknet's Cairo runtime uses).
func PoseidonArray(xs ...*felt.Felt) *felt.Felt {
	return crypto.PoseidonArray(xs...)
}

// starknetKeccakMaskByte clears the high 6 bits of a 256-bit Keccak digest,
// the reduction Starknet applies so a Keccak digest fits a ~250-bit field
// element ("starknet-keccak").
const starknetKeccakMaskByte = 0x03

// StarknetKeccak hashes data with Keccak256 and masks the result down to
// fit the Starknet field, as used for revert-reason hashing.
func StarknetKeccak(data []byte) *felt.Felt {
	digest := ethcrypto.Keccak256(data)
	digest[0] &= starknetKeccakMaskByte
	f := new(felt.Felt)
	f.SetBytes(digest)
	return f
}

// FeltFromUint64 is a small convenience used throughout the package when
// building argument lists for PedersenArray/PoseidonArray from plain
// integers (counts, gas amounts, the reserved zero slot).
func FeltFromUint64(v uint64) *felt.Felt {
	return new(felt.Felt).SetUint64(v)
}

// FeltFromBigInt converts an arbitrary-precision integer (as reported by
// the remote node, typically hex-encoded) into a field element.
func FeltFromBigInt(v *big.Int) *felt.Felt {
	f := new(felt.Felt)
	f.SetBigInt(v)
	return f
}

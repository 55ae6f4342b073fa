// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package stark

import "github.com/NethermindEth/juno/core/felt"

// FinalTransactionHash recomputes the trie-leaf hash for a transaction,
// following the era-dependent formula that folds the node-reported
// tx_hash together with its signature.
func FinalTransactionHash(era Era, tx *RemoteTransaction) *felt.Felt {
	switch era {
	case EraLegacy:
		sig := tx.Signature
		if tx.Kind != Invoke {
			sig = nil
		}
		return Pedersen(tx.Hash, PedersenArray(sig...))

	case EraPedersenSignature:
		sig := tx.Signature
		if !tx.Kind.hasSignature() {
			sig = nil
		}
		return Pedersen(tx.Hash, PedersenArray(sig...))

	default: // EraPoseidon
		if tx.Kind.hasSignature() {
			args := make([]*felt.Felt, 0, len(tx.Signature)+1)
			args = append(args, tx.Hash)
			args = append(args, tx.Signature...)
			return PoseidonArray(args...)
		}
		return PoseidonArray(tx.Hash, FeltFromUint64(0))
	}
}

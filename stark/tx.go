// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package stark

import "github.com/NethermindEth/juno/core/felt"

// TxKind is the closed set of Starknet transaction variants. Version
// numbers within a kind (Invoke V0/V1/V3, Declare V0..V3, DeployAccount
// V1/V3) don't change the final-hash formula, only tx_hash itself
// (already computed upstream and reported as RemoteTransaction.Hash), so
// they aren't represented as distinct Kind values here.
type TxKind int

const (
	Invoke TxKind = iota
	Declare
	DeployAccount
	Deploy
	L1Handler
)

func (k TxKind) String() string {
	switch k {
	case Invoke:
		return "invoke"
	case Declare:
		return "declare"
	case DeployAccount:
		return "deploy_account"
	case Deploy:
		return "deploy"
	case L1Handler:
		return "l1_handler"
	default:
		return "unknown"
	}
}

// hasSignature reports whether this kind carries a signature list at all;
// Deploy and L1Handler never do, regardless of era.
func (k TxKind) hasSignature() bool {
	return k != Deploy && k != L1Handler
}

// RemoteTransaction is a Starknet transaction as reported by the remote
// node, reduced to the fields the final-hash formula needs: the kind, the
// node-reported transaction hash (tx_hash, before the signature fold this
// package applies), and its signature (nil/empty for kinds without one).
type RemoteTransaction struct {
	Kind      TxKind
	Hash      *felt.Felt
	Signature []*felt.Felt
}

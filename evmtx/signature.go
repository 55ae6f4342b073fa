// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmtx

import (
	"math/big"

	"github.com/chainproof/trieproofs/errs"
)

// big35 and big27 are the EIP-155 / pre-155 constants used to recover
// y_parity from the legacy `v` value.
var (
	big27 = big.NewInt(27)
	big35 = big.NewInt(35)
	big2  = big.NewInt(2)
)

// reassembleSignature converts a remote node's {r, s, v} into the canonical
// {r, s, y_parity} shape. EIP-2930/1559/4844 already report v as a bare
// parity bit (0 or 1); legacy transactions report v per EIP-155
// (chainId*2+35+parity) when chainId is known, or 27/28 pre-EIP-155.
func reassembleSignature(kind Kind, v, r, s *big.Int) (Signature, error) {
	if v == nil || r == nil || s == nil {
		return Signature{}, errs.WrapField(errs.FieldConversion, errs.Signature, errFieldMissing("v/r/s"))
	}

	sig := Signature{R: new(big.Int).Set(r), S: new(big.Int).Set(s)}

	if kind != Legacy {
		// Typed transactions carry a bare parity bit.
		if v.Cmp(big.NewInt(0)) != 0 && v.Cmp(big.NewInt(1)) != 0 {
			return Signature{}, errs.WrapField(errs.FieldConversion, errs.Signature, errFieldRange("y_parity", v))
		}
		sig.YParity = uint8(v.Uint64())
		return sig, nil
	}

	switch {
	case v.Cmp(big27) == 0:
		sig.YParity = 0
	case v.Cmp(big.NewInt(28)) == 0:
		sig.YParity = 1
	case v.Cmp(big35) >= 0:
		// EIP-155: v = chainId*2 + 35 + parity
		adj := new(big.Int).Sub(v, big35)
		parity := new(big.Int).Mod(adj, big2)
		sig.YParity = uint8(parity.Uint64())
	default:
		return Signature{}, errs.WrapField(errs.FieldConversion, errs.Signature, errFieldRange("v", v))
	}

	return sig, nil
}

// chainIDFromV recovers the EIP-155 chain id encoded in a legacy v value,
// returning nil when v is the pre-EIP-155 27/28 form.
func chainIDFromV(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	if v.Cmp(big35) < 0 {
		return nil
	}
	// chainId = (v - 35 - parity) / 2
	adj := new(big.Int).Sub(v, big35)
	parity := new(big.Int).Mod(adj, big2)
	adj.Sub(adj, parity)
	return adj.Div(adj, big2)
}

// signatureToV is decode's inverse of reassembleSignature: reconstitutes a
// legacy-shaped v from {r, s, y_parity} and an optional chain id.
func signatureToV(kind Kind, sig Signature, chainID *big.Int) *big.Int {
	if kind != Legacy {
		return big.NewInt(int64(sig.YParity))
	}
	if chainID == nil {
		return new(big.Int).Add(big27, big.NewInt(int64(sig.YParity)))
	}
	v := new(big.Int).Mul(chainID, big2)
	v.Add(v, big35)
	v.Add(v, big.NewInt(int64(sig.YParity)))
	return v
}

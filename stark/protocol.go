// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package stark recomputes Starknet transaction and receipt hashes from
// remote-node data; those hashes are the leaf values of the height-64
// binary sparse Merkle trie implemented in package sntrie.
package stark

import (
	"strconv"
	"strings"

	"github.com/chainproof/trieproofs/errs"
)

// Era classifies a block's protocol version into one of the three ranges
// that change the transaction-hash formula (and, for receipts, whether a
// commitment is defined at all).
type Era int

const (
	// EraLegacy covers protocol versions below 0.11.1.
	EraLegacy Era = iota
	// EraPedersenSignature covers [0.11.1, 0.13.2).
	EraPedersenSignature
	// EraPoseidon covers 0.13.2 and above.
	EraPoseidon
)

func (e Era) String() string {
	switch e {
	case EraLegacy:
		return "pre-0.11.1"
	case EraPedersenSignature:
		return "0.11.1-0.13.2"
	case EraPoseidon:
		return "0.13.2+"
	default:
		return "unknown era"
	}
}

// version is a parsed dotted version string, e.g. "0.13.1.1" -> [0,13,1,1].
// Starknet block headers occasionally report a 4-component version for a
// point release; component-wise comparison treats a missing trailing
// component as 0, so 0.13.1 < 0.13.1.1.
type version []int

func parseVersion(s string) (version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) == 0 {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, errBadVersionString(s))
	}
	v := make(version, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, errs.WrapField(errs.FieldConversion, errs.Input, errBadVersionString(s))
		}
		v[i] = n
	}
	return v, nil
}

// compare returns -1, 0, or 1 as v is less than, equal to, or greater than
// other, padding the shorter with trailing zeros.
func (v version) compare(other version) int {
	n := len(v)
	if len(other) > n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		a, b := 0, 0
		if i < len(v) {
			a = v[i]
		}
		if i < len(other) {
			b = other[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

var (
	v0_11_1 = version{0, 11, 1}
	v0_13_2 = version{0, 13, 2}
)

// ParseEra classifies a block's reported starknet_version string.
func ParseEra(versionString string) (Era, error) {
	v, err := parseVersion(versionString)
	if err != nil {
		return 0, err
	}
	switch {
	case v.compare(v0_13_2) >= 0:
		return EraPoseidon, nil
	case v.compare(v0_11_1) >= 0:
		return EraPedersenSignature, nil
	default:
		return EraLegacy, nil
	}
}

type errBadVersionString string

func (e errBadVersionString) Error() string { return "stark: malformed protocol version " + string(e) }

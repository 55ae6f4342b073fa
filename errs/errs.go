// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// Package errs defines the error taxonomy shared by the EVM and Starknet
// cores. Every failure the cores can produce is one of the Kind values
// below; callers type-switch on Kind rather than on Go error identity.
package errs

import "fmt"

// Kind enumerates the error categories a handler or codec can surface.
type Kind int

const (
	// TrieNotAvailable is returned when a query precedes a successful build.
	TrieNotAvailable Kind = iota
	// ItemNotFound is returned for an out-of-range index or an absent tx hash
	// once the block it would belong to has already been searched.
	ItemNotFound
	// BlockNotFound is returned when the remote node reports no such block.
	BlockNotFound
	// BadVersion is returned for an unrecognised transaction type tag.
	BadVersion
	// FieldConversion is returned when a remote-node field cannot be
	// converted to its canonical width or shape. Field names the culprit.
	FieldConversion
	// UnexpectedRoot is returned when the computed EVM root disagrees with
	// the header's declared root.
	UnexpectedRoot
	// InvalidCommitment is returned when the computed Starknet root
	// disagrees with the feeder gateway's declared commitment.
	InvalidCommitment
	// InvalidProof is returned when a proof does not resolve against the
	// declared root.
	InvalidProof
	// UnsupportedProtocol is returned when a Starknet block predates the
	// supported range for the requested operation.
	UnsupportedProtocol
	// TransportFailure is returned on remote-node or gateway I/O failure.
	TransportFailure
)

func (k Kind) String() string {
	switch k {
	case TrieNotAvailable:
		return "trie not available"
	case ItemNotFound:
		return "item not found"
	case BlockNotFound:
		return "block not found"
	case BadVersion:
		return "bad version"
	case FieldConversion:
		return "field conversion"
	case UnexpectedRoot:
		return "unexpected root"
	case InvalidCommitment:
		return "invalid commitment"
	case InvalidProof:
		return "invalid proof"
	case UnsupportedProtocol:
		return "unsupported protocol"
	case TransportFailure:
		return "transport failure"
	default:
		return "unknown error kind"
	}
}

// Field names the culprit of a FieldConversion error. Input is used
// whenever no single named field captures the problem (e.g. a missing
// status or blob-hash list); the zero value "" means no field is named.
type Field string

const (
	Input                Field = "input"
	Nonce                Field = "nonce"
	GasPrice             Field = "gas-price"
	GasLimit             Field = "gas-limit"
	CallData             Field = "call-data"
	AccessList           Field = "access-list"
	MaxFeePerGas         Field = "max-fee-per-gas"
	MaxPriorityFeePerGas Field = "max-priority-fee-per-gas"
	MaxFeePerBlobGas     Field = "max-fee-per-blob-gas"
	Signature            Field = "signature"
	ChainID              Field = "chain-id"
)

// Error is the concrete error type returned by every public operation in
// this module. It carries a Kind for callers that branch on category, an
// optional Field for FieldConversion errors, and the underlying cause.
type Error struct {
	Kind  Kind
	Field Field
	Err   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s(%s): %v", e.Kind, e.Field, e.Err)
		}
		return fmt.Sprintf("%s(%s)", e.Kind, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error with no wrapped cause and no field.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// Wrap builds an *Error that wraps err under kind.
func Wrap(kind Kind, err error) *Error { return &Error{Kind: kind, Err: err} }

// WrapField builds a FieldConversion-shaped *Error naming field and wrapping err.
func WrapField(kind Kind, field Field, err error) *Error {
	return &Error{Kind: kind, Field: field, Err: err}
}

// Is reports whether err is an *Error of the given kind, unwrapping as
// needed. It lets callers write `errs.Is(err, errs.BlockNotFound)`.
func Is(err error, kind Kind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		break
	}
	return false
}

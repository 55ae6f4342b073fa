// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmreceipt

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/chainproof/trieproofs/errs"
)

// rlpLog mirrors the consensus log layout: {address, topics, data}.
type rlpLog struct {
	Address [20]byte
	Topics  [][32]byte
	Data    []byte
}

// canonicalBody is the consensus receipt layout shared by all four kinds:
// {status_or_post_state, cumulative_gas_used, logs_bloom, logs}.
type canonicalBody struct {
	PostStateOrStatus []byte
	CumulativeGasUsed uint64
	Bloom             [256]byte
	Logs              []rlpLog
}

// Canonicalise converts a RemoteReceipt into its EIP-2718 typed receipt
// envelope: the kind-specific type tag (omitted for Legacy) followed by the
// RLP of the shared body. The bloom filter is taken verbatim from the
// remote node; it is never recomputed here (see RecomputeBloom).
func Canonicalise(rr *RemoteReceipt) ([]byte, error) {
	kind, ok := rr.kind()
	if !ok {
		return nil, errs.New(errs.BadVersion)
	}

	if rr.CumulativeGasUsed == nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, errFieldMissing("cumulativeGasUsed"))
	}

	statusOrRoot, err := statusOrRootBytes(rr)
	if err != nil {
		return nil, err
	}

	var bloom [256]byte
	if len(rr.LogsBloom) != 256 {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, errFieldMissing("logsBloom"))
	}
	copy(bloom[:], rr.LogsBloom)

	logs := make([]rlpLog, len(rr.Logs))
	for i, l := range rr.Logs {
		topics := make([][32]byte, len(l.Topics))
		for j, top := range l.Topics {
			topics[j] = top
		}
		logs[i] = rlpLog{Address: l.Address, Topics: topics, Data: []byte(l.Data)}
	}

	body := canonicalBody{
		PostStateOrStatus: statusOrRoot,
		CumulativeGasUsed: uint64(*rr.CumulativeGasUsed),
		Bloom:             bloom,
		Logs:              logs,
	}

	enc, err := rlp.EncodeToBytes(&body)
	if err != nil {
		return nil, err
	}
	if kind == Legacy {
		return enc, nil
	}
	out := make([]byte, 0, len(enc)+1)
	out = append(out, byte(kind))
	return append(out, enc...), nil
}

// statusOrRootBytes resolves the pre-Byzantium (32-byte root) vs
// post-Byzantium (success bit) form. Pre-Byzantium receipts are accepted
// rather than rejected.
func statusOrRootBytes(rr *RemoteReceipt) ([]byte, error) {
	if rr.preByzantium() {
		root := make([]byte, 32)
		copy(root, rr.PostStateRoot)
		return root, nil
	}
	if rr.Status == nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, errFieldMissing("status"))
	}
	if *rr.Status == 0 {
		return []byte{}, nil
	}
	return []byte{0x01}, nil
}

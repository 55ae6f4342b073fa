// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package evmreceipt

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/chainproof/trieproofs/errs"
)

// Decode is the inverse of Canonicalise.
func Decode(leaf []byte) (*RemoteReceipt, error) {
	if len(leaf) == 0 {
		return nil, errs.New(errs.BadVersion)
	}

	var (
		kind Kind
		body []byte
	)
	if leaf[0] >= 0xc0 {
		kind, body = Legacy, leaf
	} else {
		if !knownKind(leaf[0]) {
			return nil, errs.New(errs.BadVersion)
		}
		kind, body = Kind(leaf[0]), leaf[1:]
	}

	var cb canonicalBody
	if err := rlp.DecodeBytes(body, &cb); err != nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, err)
	}

	rr := &RemoteReceipt{
		CumulativeGasUsed: u64Ptr(cb.CumulativeGasUsed),
		LogsBloom:         append([]byte(nil), cb.Bloom[:]...),
	}
	if kind != Legacy {
		t := hexutil.Uint64(kind)
		rr.Type = &t
	}

	switch len(cb.PostStateOrStatus) {
	case 32:
		rr.PostStateRoot = append([]byte(nil), cb.PostStateOrStatus...)
	case 0:
		s := hexutil.Uint64(0)
		rr.Status = &s
	case 1:
		s := hexutil.Uint64(cb.PostStateOrStatus[0])
		rr.Status = &s
	default:
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, errFieldMissing("status_or_post_state"))
	}

	rr.Logs = make([]Log, len(cb.Logs))
	for i, l := range cb.Logs {
		topics := make([]common.Hash, len(l.Topics))
		for j, top := range l.Topics {
			topics[j] = top
		}
		rr.Logs[i] = Log{Address: l.Address, Topics: topics, Data: append([]byte(nil), l.Data...)}
	}

	return rr, nil
}

func u64Ptr(v uint64) *hexutil.Uint64 {
	hv := hexutil.Uint64(v)
	return &hv
}

// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package stark

import (
	"github.com/NethermindEth/juno/core/felt"

	"github.com/chainproof/trieproofs/errs"
)

// messagesToL1Hash is PoseidonArray over the message count, then for each
// message {from_address, to_address, payload_length, payload[0..n]}.
func messagesToL1Hash(msgs []MessageToL1) *felt.Felt {
	args := []*felt.Felt{FeltFromUint64(uint64(len(msgs)))}
	for _, m := range msgs {
		args = append(args, m.From, m.To, FeltFromUint64(uint64(len(m.Payload))))
		args = append(args, m.Payload...)
	}
	return PoseidonArray(args...)
}

// revertReasonHash is 0 on success, and starknet-keccak of the ASCII
// revert reason otherwise.
func revertReasonHash(r *RemoteReceipt) *felt.Felt {
	if r.Succeeded {
		return FeltFromUint64(0)
	}
	return StarknetKeccak([]byte(r.RevertReason))
}

// FinalReceiptHash recomputes the trie-leaf hash for a receipt. Defined
// only for protocol ≥0.13.2; earlier blocks have no receipt commitment at
// all and must fail closed with UnsupportedProtocol.
func FinalReceiptHash(era Era, r *RemoteReceipt) (*felt.Felt, error) {
	if era != EraPoseidon {
		return nil, errs.New(errs.UnsupportedProtocol)
	}
	return PoseidonArray(
		r.TxHash,
		r.ActualFee,
		messagesToL1Hash(r.Messages),
		revertReasonHash(r),
		FeltFromUint64(0), // reserved for future "chain-gas-consumed"
		FeltFromUint64(r.Resources.L1Gas),
		FeltFromUint64(r.Resources.L1DataGas),
	), nil
}

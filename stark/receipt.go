// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package stark

import "github.com/NethermindEth/juno/core/felt"

// MessageToL1 is one L2->L1 message attached to a receipt.
type MessageToL1 struct {
	From    *felt.Felt
	To      *felt.Felt
	Payload []*felt.Felt
}

// ExecutionResources carries the gas figures the receipt-hash formula
// needs. L1Gas is sourced out-of-band from the feeder gateway (the
// receipt object the RPC node returns does not carry it); L1DataGas comes
// from the receipt's own execution_resources.
type ExecutionResources struct {
	L1Gas     uint64
	L1DataGas uint64
}

// RemoteReceipt is a Starknet receipt reduced to the fields the ≥0.13.2
// receipt-hash formula needs.
type RemoteReceipt struct {
	Kind         TxKind
	TxHash       *felt.Felt
	ActualFee    *felt.Felt
	Messages     []MessageToL1
	Resources    ExecutionResources
	Succeeded    bool
	RevertReason string // ASCII; only meaningful when !Succeeded
}

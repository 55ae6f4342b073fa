// Copyright 2024 The trieproofs Authors
// This file is part of the trieproofs library.
//
// The trieproofs library is free software: you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

package rpcclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/NethermindEth/juno/core/felt"

	"github.com/chainproof/trieproofs/errs"
)

// FeederHTTPClient implements FeederClient against a sequencer's feeder
// gateway over plain HTTP, the one transport in this package that isn't a
// JSON-RPC method call.
type FeederHTTPClient struct {
	base string
	hc   *http.Client
}

// NewFeederHTTPClient wraps base (e.g. "https://alpha-sepolia.starknet.io")
// with the given HTTP client, or http.DefaultClient if hc is nil.
func NewFeederHTTPClient(base string, hc *http.Client) *FeederHTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &FeederHTTPClient{base: base, hc: hc}
}

type feederReceipt struct {
	ExecutionResources struct {
		TotalGasConsumed struct {
			L1Gas uint64 `json:"l1_gas"`
		} `json:"total_gas_consumed"`
	} `json:"execution_resources"`
}

type feederBlock struct {
	TransactionCommitment string          `json:"transaction_commitment"`
	ReceiptCommitment     string          `json:"receipt_commitment"`
	TransactionReceipts   []feederReceipt `json:"transaction_receipts"`
}

// BlockCommitments fetches feeder_gateway/get_block?blockNumber=n and
// extracts the declared commitments plus the per-transaction L1 gas
// figures the receipt-hash formula needs.
func (c *FeederHTTPClient) BlockCommitments(ctx context.Context, n uint64) (*FeederCommitments, error) {
	url := fmt.Sprintf("%s/feeder_gateway/get_block?blockNumber=%s", c.base, strconv.FormatUint(n, 10))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.TransportFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errs.New(errs.BlockNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Wrap(errs.TransportFailure, fmt.Errorf("feeder gateway: unexpected status %d", resp.StatusCode))
	}

	var fb feederBlock
	if err := json.NewDecoder(resp.Body).Decode(&fb); err != nil {
		return nil, errs.WrapField(errs.FieldConversion, errs.Input, err)
	}

	gas := make([]uint64, len(fb.TransactionReceipts))
	for i, r := range fb.TransactionReceipts {
		gas[i] = r.ExecutionResources.TotalGasConsumed.L1Gas
	}
	return &FeederCommitments{
		TransactionCommitment: fb.TransactionCommitment,
		ReceiptCommitment:     fb.ReceiptCommitment,
		TransactionL1Gas:      gas,
	}, nil
}

type feederTransactionStatus struct {
	TransactionIndex *uint64 `json:"transaction_index"`
}

// TransactionIndex fetches feeder_gateway/get_transaction?transactionHash=h
// and returns the gateway's own transaction_index field — the position is
// reported by the sequencer, never recomputed locally.
func (c *FeederHTTPClient) TransactionIndex(ctx context.Context, hash *felt.Felt) (uint64, error) {
	url := fmt.Sprintf("%s/feeder_gateway/get_transaction?transactionHash=0x%s", c.base, hash.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, errs.Wrap(errs.TransportFailure, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, errs.Wrap(errs.TransportFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, errs.New(errs.ItemNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, errs.Wrap(errs.TransportFailure, fmt.Errorf("feeder gateway: unexpected status %d", resp.StatusCode))
	}

	var ts feederTransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&ts); err != nil {
		return 0, errs.WrapField(errs.FieldConversion, errs.Input, err)
	}
	if ts.TransactionIndex == nil {
		return 0, errs.New(errs.ItemNotFound)
	}
	return *ts.TransactionIndex, nil
}

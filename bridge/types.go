// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bridge implements the in-process core of a cross-chain token
// bridge relayer: a coordinator that tracks per-domain deposit counters,
// routes resource-typed deposits to pluggable handlers, and executes
// authenticated unlock/mint proposals exactly once per (origin domain,
// deposit nonce) pair.
package bridge

import (
	"math/big"

	"github.com/luxfi/geth/common"
)

// Domain identifies a participating chain. It is stable for the lifetime of
// the process and compared by value.
type Domain = uint8

// Selector is the 4-byte function selector an admin operation is gated on.
type Selector = [4]byte

// DepositStatus is the lifecycle state of a deposit or execution record.
type DepositStatus uint8

const (
	// StatusPending marks a deposit record that has been accepted but not
	// yet observed as executed on the destination chain.
	StatusPending DepositStatus = iota
	// StatusExecuted marks a deposit or execution record whose handler step
	// completed successfully.
	StatusExecuted
	// StatusFailed marks an execution record whose handler step returned an
	// error. The corresponding replay bit is cleared so a retry can succeed.
	StatusFailed
)

func (s DepositStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusExecuted:
		return "executed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DepositRecord is the append-only observation emitted at the end of a
// successful deposit call. Nonce is unique per DestinationDomain.
type DepositRecord struct {
	DestinationDomain Domain
	ResourceID        common.Hash
	Nonce             uint64
	Sender            common.Address
	Receiver          common.Address // zero address when the handler did not report one
	Token             common.Address // zero address when not applicable
	Amount            *big.Int       // nil when not applicable
	Timestamp         uint64
	TxHash            common.Hash
	Status            DepositStatus
}

// ExecutionRecord is the append-only observation emitted for every attempted
// proposal, whether it succeeded or failed.
type ExecutionRecord struct {
	OriginDomain Domain
	Nonce        uint64
	ResourceID   common.Hash
	Status       DepositStatus
	TxHash       common.Hash // zero when not applicable
	Timestamp    uint64
	Error        string // empty unless Status == StatusFailed
}

// Proposal is an authenticated request to apply a previously emitted deposit
// on this chain, identified by (OriginDomain, DepositNonce). Immutable once
// submitted.
type Proposal struct {
	OriginDomain Domain
	DepositNonce uint64
	ResourceID   common.Hash
	Data         []byte
}

// ChainConfig describes a chain the coordinator's external collaborators
// (event listener, transaction submitter) operate against. The core never
// dials rpc_url itself; it only stores the config for lookup.
type ChainConfig struct {
	Domain        Domain
	Name          string
	RPCURL        string
	BridgeAddress common.Address
	ChainID       uint64
	Confirmations uint64
	GasLimit      uint64
	MaxGasPrice   *big.Int
	Handlers      map[string]common.Address
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/luxfi/geth/common"
)

// Handler is the pluggable contract governing how resource-typed deposits
// are accepted and proposals applied. Handlers use interior mutability: the
// coordinator shares them by reference and invokes them without holding any
// of its own locks, so a Handler implementation is responsible for its own
// internal synchronization.
type Handler interface {
	SetResource(ctx context.Context, resourceID common.Hash, contractAddress common.Address, args []byte) error
	Deposit(ctx context.Context, resourceID common.Hash, sender common.Address, data []byte) ([]byte, error)
	ExecuteProposal(ctx context.Context, resourceID common.Hash, data []byte) ([]byte, error)
}

// FeeHandler is the optional sidecar consulted on the deposit path.
// CalculateFee is a pure observation; CollectFee is side-effecting and runs
// before the resource handler.
type FeeHandler interface {
	CollectFee(ctx context.Context, sender common.Address, originDomain, destinationDomain Domain, resourceID common.Hash, depositData, feeData []byte, value *big.Int) error
	CalculateFee(ctx context.Context, sender common.Address, originDomain, destinationDomain Domain, resourceID common.Hash, depositData, feeData []byte) (*big.Int, error)
}

// AccessControl answers authorization queries for admin operations. A single
// capability, has_access, keyed by a fixed 4-byte selector and the caller.
// Implementations are expected to be fast and side-effect-free.
type AccessControl interface {
	HasAccess(ctx context.Context, selector Selector, caller common.Address) bool
}

// PermissiveAccessControl grants every request. Test double.
type PermissiveAccessControl struct{}

func (PermissiveAccessControl) HasAccess(context.Context, Selector, common.Address) bool {
	return true
}

// DenyAccessControl refuses every request. Test double.
type DenyAccessControl struct{}

func (DenyAccessControl) HasAccess(context.Context, Selector, common.Address) bool {
	return false
}

// AllowlistAccessControl grants requests only to addresses present in its
// set, regardless of selector.
type AllowlistAccessControl struct {
	mu      sync.RWMutex
	allowed map[common.Address]struct{}
}

func NewAllowlistAccessControl(addrs ...common.Address) *AllowlistAccessControl {
	a := &AllowlistAccessControl{allowed: make(map[common.Address]struct{}, len(addrs))}
	for _, addr := range addrs {
		a.allowed[addr] = struct{}{}
	}
	return a
}

func (a *AllowlistAccessControl) HasAccess(_ context.Context, _ Selector, caller common.Address) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.allowed[caller]
	return ok
}

// EchoHandler is a test double that accepts every deposit and proposal and
// returns its input data unchanged.
type EchoHandler struct {
	mu        sync.Mutex
	resources map[common.Hash]common.Address
}

func NewEchoHandler() *EchoHandler {
	return &EchoHandler{resources: make(map[common.Hash]common.Address)}
}

func (h *EchoHandler) SetResource(_ context.Context, resourceID common.Hash, contractAddress common.Address, _ []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resources[resourceID] = contractAddress
	return nil
}

func (h *EchoHandler) Deposit(_ context.Context, _ common.Hash, _ common.Address, data []byte) ([]byte, error) {
	return data, nil
}

func (h *EchoHandler) ExecuteProposal(_ context.Context, _ common.Hash, data []byte) ([]byte, error) {
	return data, nil
}

// ErrAlwaysFail is returned by AlwaysFailHandler's ExecuteProposal.
var ErrAlwaysFail = errors.New("handler always fails")

// AlwaysFailHandler is a test double whose ExecuteProposal always fails;
// SetResource and Deposit succeed.
type AlwaysFailHandler struct{}

func (AlwaysFailHandler) SetResource(context.Context, common.Hash, common.Address, []byte) error {
	return nil
}

func (AlwaysFailHandler) Deposit(_ context.Context, _ common.Hash, _ common.Address, data []byte) ([]byte, error) {
	return data, nil
}

func (AlwaysFailHandler) ExecuteProposal(context.Context, common.Hash, []byte) ([]byte, error) {
	return nil, ErrAlwaysFail
}

// RecordingHandler is a test double that counts deposit and execution
// invocations alongside echoing their data, for assertions on call counts.
type RecordingHandler struct {
	mu         sync.Mutex
	Deposits   int
	Executions int
}

func NewRecordingHandler() *RecordingHandler {
	return &RecordingHandler{}
}

func (h *RecordingHandler) SetResource(context.Context, common.Hash, common.Address, []byte) error {
	return nil
}

func (h *RecordingHandler) Deposit(_ context.Context, _ common.Hash, _ common.Address, data []byte) ([]byte, error) {
	h.mu.Lock()
	h.Deposits++
	h.mu.Unlock()
	return data, nil
}

func (h *RecordingHandler) ExecuteProposal(_ context.Context, _ common.Hash, data []byte) ([]byte, error) {
	h.mu.Lock()
	h.Executions++
	h.mu.Unlock()
	return data, nil
}

// EchoFeeHandler is a test double that collects no fee and reports zero.
type EchoFeeHandler struct{}

func (EchoFeeHandler) CollectFee(context.Context, common.Address, Domain, Domain, common.Hash, []byte, []byte, *big.Int) error {
	return nil
}

func (EchoFeeHandler) CalculateFee(context.Context, common.Address, Domain, Domain, common.Hash, []byte, []byte) (*big.Int, error) {
	return new(big.Int), nil
}

// ErrFeeRejected is returned by RejectingFeeHandler's CollectFee.
var ErrFeeRejected = errors.New("fee rejected")

// RejectingFeeHandler is a test double whose CollectFee always fails.
type RejectingFeeHandler struct{}

func (RejectingFeeHandler) CollectFee(context.Context, common.Address, Domain, Domain, common.Hash, []byte, []byte, *big.Int) error {
	return ErrFeeRejected
}

func (RejectingFeeHandler) CalculateFee(context.Context, common.Address, Domain, Domain, common.Hash, []byte, []byte) (*big.Int, error) {
	return nil, ErrFeeRejected
}

// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/log"
)

// Selectors for the fixed admin-operation authorization table. These values
// are part of the public contract and MUST match across deployments.
var (
	SelectorPauseTransfers      = Selector{0x80, 0xf0, 0x1a, 0xc8}
	SelectorUnpauseTransfers    = Selector{0x70, 0xbc, 0xac, 0x5d}
	SelectorSetResource         = Selector{0xc8, 0x81, 0xf5, 0x40}
	SelectorSetBurnable         = Selector{0x5a, 0x1c, 0xb1, 0x01}
	SelectorSetDepositNonce     = Selector{0x7f, 0xb8, 0x75, 0xbe}
	SelectorSetForwarder        = Selector{0x45, 0xb8, 0x3c, 0x61}
	SelectorChangeAccessControl = Selector{0x9d, 0xde, 0xbc, 0xa4}
	SelectorChangeFeeHandler    = Selector{0x4b, 0x05, 0x44, 0xc6}
	SelectorWithdraw            = Selector{0x0d, 0x29, 0xd2, 0x32}
	SelectorStartKeygen         = Selector{0x67, 0x54, 0x19, 0xb1}
	SelectorEndKeygen           = Selector{0x63, 0x7f, 0x7a, 0x1e}
	SelectorRefreshKey          = Selector{0x76, 0x88, 0x72, 0x82}
	SelectorRetry               = Selector{0x8c, 0xc9, 0x87, 0xf8}
)

// KeygenIntent is the observation emitted by start_keygen. It carries no
// payload beyond the fact that keygen was requested.
type KeygenIntent struct {
	Timestamp uint64
}

// RetryIntent is the observation emitted by retry.
type RetryIntent struct {
	TxHash    common.Hash
	Timestamp uint64
}

// RefreshKeyIntent is the observation emitted by refresh_key.
type RefreshKeyIntent struct {
	Hash      common.Hash
	Timestamp uint64
}

// Coordinator is the in-process core of the bridge: per-domain deposit
// counters, a resource-to-handler routing table, a replay-protection nonce
// bitmap, pause gating, and admin access control, all exclusively owned by
// this type. It begins paused with no MPC identity and no resource
// mappings.
type Coordinator struct {
	domain Domain

	crypto *Crypto
	pause  *PauseGate
	bitmap *ReplayBitmap

	depositBus   *DepositBus
	executionBus *ExecutionBus

	acMu   sync.RWMutex
	access AccessControl

	feeMu      sync.Mutex
	feeHandler FeeHandler

	resourcesMu sync.RWMutex
	resources   map[common.Hash]Handler

	forwardersMu sync.Mutex
	forwarders   map[common.Address]bool

	countersMu sync.Mutex
	counters   map[Domain]uint64

	chainsMu sync.RWMutex
	chains   map[Domain]ChainConfig

	recordsMu  sync.Mutex
	deposits   []DepositRecord
	executions []ExecutionRecord
}

// NewCoordinator constructs a coordinator for domain, gated by access and
// pausable only by pauser. The coordinator begins paused.
func NewCoordinator(domain Domain, access AccessControl, pauser common.Address, eip712Name, eip712Version string) *Coordinator {
	return &Coordinator{
		domain:       domain,
		crypto:       NewCrypto(eip712Name, eip712Version),
		pause:        NewPauseGate(pauser),
		bitmap:       NewReplayBitmap(),
		depositBus:   NewDepositBus(0),
		executionBus: NewExecutionBus(0),
		access:       access,
		resources:    make(map[common.Hash]Handler),
		forwarders:   make(map[common.Address]bool),
		counters:     make(map[Domain]uint64),
		chains:       make(map[Domain]ChainConfig),
	}
}

// DomainID returns this coordinator's domain.
func (c *Coordinator) DomainID() Domain { return c.domain }

// Signer returns the installed MPC signer, or nil if absent.
func (c *Coordinator) Signer() *common.Address { return c.crypto.Signer() }

// IsPaused reports the current pause state.
func (c *Coordinator) IsPaused() bool { return c.pause.IsPaused() }

// IsExecuted reports whether (origin, nonce) has already been executed.
func (c *Coordinator) IsExecuted(origin Domain, nonce uint64) bool {
	return c.bitmap.IsExecuted(origin, nonce)
}

// DepositCount returns the current deposit counter for domain.
func (c *Coordinator) DepositCount(domain Domain) uint64 {
	c.countersMu.Lock()
	defer c.countersMu.Unlock()
	return c.counters[domain]
}

// SubscribeDeposits returns a live subscription to the deposit event bus.
func (c *Coordinator) SubscribeDeposits() *DepositSubscription { return c.depositBus.Subscribe() }

// SubscribeExecutions returns a live subscription to the execution event bus.
func (c *Coordinator) SubscribeExecutions() *ExecutionSubscription {
	return c.executionBus.Subscribe()
}

// AddChainConfig registers or replaces the configuration for config.Domain.
// Not gated by access control: wiring chain configs is a deployment-time
// concern outside the admin selector table.
func (c *Coordinator) AddChainConfig(config ChainConfig) {
	c.chainsMu.Lock()
	defer c.chainsMu.Unlock()
	c.chains[config.Domain] = config
}

// ChainConfig looks up the configuration for domain.
func (c *Coordinator) ChainConfig(domain Domain) (ChainConfig, bool) {
	c.chainsMu.RLock()
	defer c.chainsMu.RUnlock()
	cfg, ok := c.chains[domain]
	return cfg, ok
}

func (c *Coordinator) checkAccess(ctx context.Context, selector Selector, caller common.Address, operation string) error {
	c.acMu.RLock()
	access := c.access
	c.acMu.RUnlock()

	if !access.HasAccess(ctx, selector, caller) {
		return &AccessNotAllowedError{Caller: caller, Operation: operation}
	}
	return nil
}

func (c *Coordinator) handlerFor(resourceID common.Hash) (Handler, bool) {
	c.resourcesMu.RLock()
	defer c.resourcesMu.RUnlock()
	h, ok := c.resources[resourceID]
	return h, ok
}

// --- Admin surface -------------------------------------------------------

// PauseTransfers sets the pause flag true. Requires caller to be the
// configured pauser.
func (c *Coordinator) PauseTransfers(ctx context.Context, caller common.Address) error {
	if err := c.checkAccess(ctx, SelectorPauseTransfers, caller, "pause_transfers"); err != nil {
		return err
	}
	if err := c.pause.Pause(caller); err != nil {
		return err
	}
	log.Info("bridge paused", "caller", caller.Hex())
	return nil
}

// UnpauseTransfers sets the pause flag false. Requires an MPC signer to
// already be installed.
func (c *Coordinator) UnpauseTransfers(ctx context.Context, caller common.Address) error {
	if err := c.checkAccess(ctx, SelectorUnpauseTransfers, caller, "unpause_transfers"); err != nil {
		return err
	}
	if c.crypto.Signer() == nil {
		return ErrMPCAddressNotSet
	}
	if err := c.pause.Unpause(caller); err != nil {
		return err
	}
	log.Info("bridge unpaused", "caller", caller.Hex())
	return nil
}

// SetResource forwards (resourceID, contractAddress, args) to handler, then
// installs the resource-to-handler mapping. If the handler's SetResource
// fails, no mapping is installed.
func (c *Coordinator) SetResource(ctx context.Context, caller common.Address, resourceID common.Hash, handler Handler, contractAddress common.Address, args []byte) error {
	if err := c.checkAccess(ctx, SelectorSetResource, caller, "set_resource"); err != nil {
		return err
	}
	if err := handler.SetResource(ctx, resourceID, contractAddress, args); err != nil {
		return &HandlerExecutionFailedError{Reason: err.Error()}
	}

	c.resourcesMu.Lock()
	c.resources[resourceID] = handler
	c.resourcesMu.Unlock()
	return nil
}

// SetBurnable is an authorized no-op: it records intent to mark token
// burnable on handler but performs no handler call. A concrete ERC handler
// implementation owns its own burnable registry; the coordinator only
// authorizes the request.
func (c *Coordinator) SetBurnable(ctx context.Context, caller common.Address, handler Handler, token common.Address) error {
	if err := c.checkAccess(ctx, SelectorSetBurnable, caller, "set_burnable"); err != nil {
		return err
	}
	log.Info("set_burnable authorized", "caller", caller.Hex(), "token", token.Hex())
	return nil
}

// SetDepositNonce replaces the deposit counter for domain. Fails
// ErrNonceDecrementsNotAllowed unless nonce strictly exceeds the current
// value.
func (c *Coordinator) SetDepositNonce(ctx context.Context, caller common.Address, domain Domain, nonce uint64) error {
	if err := c.checkAccess(ctx, SelectorSetDepositNonce, caller, "set_deposit_nonce"); err != nil {
		return err
	}

	c.countersMu.Lock()
	defer c.countersMu.Unlock()
	if nonce <= c.counters[domain] {
		return ErrNonceDecrementsNotAllowed
	}
	c.counters[domain] = nonce
	return nil
}

// SetForwarder upserts (addr -> valid) in the forwarders table.
func (c *Coordinator) SetForwarder(ctx context.Context, caller, addr common.Address, valid bool) error {
	if err := c.checkAccess(ctx, SelectorSetForwarder, caller, "set_forwarder"); err != nil {
		return err
	}

	c.forwardersMu.Lock()
	defer c.forwardersMu.Unlock()
	c.forwarders[addr] = valid
	return nil
}

// IsValidForwarder reports the current value installed for addr.
func (c *Coordinator) IsValidForwarder(addr common.Address) bool {
	c.forwardersMu.Lock()
	defer c.forwardersMu.Unlock()
	return c.forwarders[addr]
}

// ChangeAccessControl atomically swaps the access-control backend. All
// subsequent authorizations use the new backend.
func (c *Coordinator) ChangeAccessControl(ctx context.Context, caller common.Address, next AccessControl) error {
	if err := c.checkAccess(ctx, SelectorChangeAccessControl, caller, "change_access_control"); err != nil {
		return err
	}

	c.acMu.Lock()
	c.access = next
	c.acMu.Unlock()
	return nil
}

// ChangeFeeHandler installs or replaces the fee handler. Pass nil to remove
// fee collection entirely.
func (c *Coordinator) ChangeFeeHandler(ctx context.Context, caller common.Address, next FeeHandler) error {
	if err := c.checkAccess(ctx, SelectorChangeFeeHandler, caller, "change_fee_handler"); err != nil {
		return err
	}

	c.feeMu.Lock()
	c.feeHandler = next
	c.feeMu.Unlock()
	return nil
}

// Withdraw is an authorized no-op: it records intent to withdraw data from
// handler but performs no handler call. Routing it through ExecuteProposal
// would apply a proposal (mint/unlock) rather than withdraw, which is not
// what this operation means.
func (c *Coordinator) Withdraw(ctx context.Context, caller common.Address, handler Handler, data []byte) error {
	if err := c.checkAccess(ctx, SelectorWithdraw, caller, "withdraw"); err != nil {
		return err
	}
	log.Info("withdraw authorized", "caller", caller.Hex(), "data_len", len(data))
	return nil
}

// StartKeygen fails ErrMPCAddressAlreadySet if a signer is already
// installed; otherwise it returns a keygen-intent observation and installs
// no state.
func (c *Coordinator) StartKeygen(ctx context.Context, caller common.Address, now time.Time) (KeygenIntent, error) {
	if err := c.checkAccess(ctx, SelectorStartKeygen, caller, "start_keygen"); err != nil {
		return KeygenIntent{}, err
	}
	if c.crypto.Signer() != nil {
		return KeygenIntent{}, ErrMPCAddressAlreadySet
	}
	log.Info("keygen started", "caller", caller.Hex())
	return KeygenIntent{Timestamp: uint64(now.Unix())}, nil
}

// EndKeygen installs mpcAddress as the signer and atomically unpauses. Fails
// ErrMPCAddressZeroAddress if mpcAddress is the zero address,
// ErrMPCAddressIsNotUpdatable if a signer is already installed, or
// ErrNotPauser if caller is not the configured pauser — the pause flag's
// transitions, unpause included, are always gated by the pauser identity.
func (c *Coordinator) EndKeygen(ctx context.Context, caller, mpcAddress common.Address) error {
	if err := c.checkAccess(ctx, SelectorEndKeygen, caller, "end_keygen"); err != nil {
		return err
	}
	if mpcAddress == (common.Address{}) {
		return ErrMPCAddressZeroAddress
	}
	if c.crypto.Signer() != nil {
		return ErrMPCAddressIsNotUpdatable
	}
	if caller != c.pause.Pauser() {
		return ErrNotPauser
	}

	c.crypto.InstallSigner(mpcAddress)
	if err := c.pause.Unpause(caller); err != nil {
		return err
	}
	log.Info("keygen ended", "caller", caller.Hex(), "signer", mpcAddress.Hex())
	return nil
}

// RefreshKey emits a refresh-key observation; no internal state changes.
func (c *Coordinator) RefreshKey(ctx context.Context, caller common.Address, hash common.Hash, now time.Time) (RefreshKeyIntent, error) {
	if err := c.checkAccess(ctx, SelectorRefreshKey, caller, "refresh_key"); err != nil {
		return RefreshKeyIntent{}, err
	}
	return RefreshKeyIntent{Hash: hash, Timestamp: uint64(now.Unix())}, nil
}

// Retry emits a retry observation; no internal state changes.
func (c *Coordinator) Retry(ctx context.Context, caller common.Address, txHash common.Hash, now time.Time) (RetryIntent, error) {
	if err := c.checkAccess(ctx, SelectorRetry, caller, "retry"); err != nil {
		return RetryIntent{}, err
	}
	return RetryIntent{TxHash: txHash, Timestamp: uint64(now.Unix())}, nil
}

// --- Deposit path ----------------------------------------------------------

// Deposit runs the full deposit contract: pause check, fee collection,
// handler routing, nonce assignment, handler invocation, and record
// broadcast. Returns the assigned deposit nonce and the handler's response.
func (c *Coordinator) Deposit(ctx context.Context, sender common.Address, destinationDomain Domain, resourceID common.Hash, depositData, feeData []byte, value *big.Int, now time.Time) (uint64, []byte, error) {
	if c.pause.IsPaused() {
		return 0, nil, ErrBridgePaused
	}
	if destinationDomain == c.domain {
		return 0, nil, ErrDepositToCurrentDomain
	}

	c.feeMu.Lock()
	fee := c.feeHandler
	c.feeMu.Unlock()

	if fee != nil {
		if err := fee.CollectFee(ctx, sender, c.domain, destinationDomain, resourceID, depositData, feeData, value); err != nil {
			return 0, nil, &HandlerExecutionFailedError{Reason: err.Error()}
		}
	} else if value != nil && value.Sign() > 0 {
		return 0, nil, &HandlerExecutionFailedError{Reason: "No FeeHandler, value must be zero"}
	}

	handler, ok := c.handlerFor(resourceID)
	if !ok {
		return 0, nil, ErrResourceIDNotMappedToHandler
	}

	c.countersMu.Lock()
	c.counters[destinationDomain]++
	nonce := c.counters[destinationDomain]
	c.countersMu.Unlock()

	resp, err := handler.Deposit(ctx, resourceID, sender, depositData)
	if err != nil {
		return nonce, nil, &HandlerExecutionFailedError{Reason: err.Error()}
	}

	record := DepositRecord{
		DestinationDomain: destinationDomain,
		ResourceID:        resourceID,
		Nonce:             nonce,
		Sender:            sender,
		Timestamp:         uint64(now.Unix()),
		Status:            StatusPending,
	}

	c.recordsMu.Lock()
	c.deposits = append(c.deposits, record)
	c.recordsMu.Unlock()

	c.depositBus.publish(record)

	return nonce, resp, nil
}

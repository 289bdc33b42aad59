// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"errors"
	"sync/atomic"

	"github.com/luxfi/geth/common"
)

// ErrNotPauser is returned when an address other than the configured pauser
// attempts to pause or unpause directly through the gate.
var ErrNotPauser = errors.New("caller is not the pauser")

// PauseGate is an atomic boolean guarded by a single designated pauser
// address. Reads are lock-free; transitions use sequentially consistent
// ordering so a post-transition read from any goroutine observes the new
// value immediately. The bridge starts paused.
type PauseGate struct {
	paused atomic.Bool
	pauser common.Address
}

// NewPauseGate creates a gate that starts paused, releasable only by pauser.
func NewPauseGate(pauser common.Address) *PauseGate {
	g := &PauseGate{pauser: pauser}
	g.paused.Store(true)
	return g
}

// IsPaused reports the current pause state. Lock-free.
func (g *PauseGate) IsPaused() bool {
	return g.paused.Load()
}

// Pause transitions to paused. Fails ErrNotPauser unless actor is the
// configured pauser.
func (g *PauseGate) Pause(actor common.Address) error {
	if actor != g.pauser {
		return ErrNotPauser
	}
	g.paused.Store(true)
	return nil
}

// Unpause transitions to unpaused. Fails ErrNotPauser unless actor is the
// configured pauser. Callers enforce any additional precondition (the
// coordinator requires an installed MPC signer) before calling this.
func (g *PauseGate) Unpause(actor common.Address) error {
	if actor != g.pauser {
		return ErrNotPauser
	}
	g.paused.Store(false)
	return nil
}

// Pauser returns the configured pauser address.
func (g *PauseGate) Pauser() common.Address {
	return g.pauser
}

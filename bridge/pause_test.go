// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"testing"

	"github.com/luxfi/geth/common"
)

func TestPauseGateStartsPaused(t *testing.T) {
	pauser := common.HexToAddress("0x1")
	g := NewPauseGate(pauser)
	if !g.IsPaused() {
		t.Fatal("expected gate to start paused")
	}
}

func TestPauseGateRejectsWrongActor(t *testing.T) {
	pauser := common.HexToAddress("0x1")
	other := common.HexToAddress("0x2")
	g := NewPauseGate(pauser)

	if err := g.Unpause(other); err != ErrNotPauser {
		t.Fatalf("expected ErrNotPauser, got %v", err)
	}
	if err := g.Pause(other); err != ErrNotPauser {
		t.Fatalf("expected ErrNotPauser, got %v", err)
	}
}

func TestPauseGateTransitions(t *testing.T) {
	pauser := common.HexToAddress("0x1")
	g := NewPauseGate(pauser)

	if err := g.Unpause(pauser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.IsPaused() {
		t.Fatal("expected gate to be unpaused")
	}

	if err := g.Pause(pauser); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !g.IsPaused() {
		t.Fatal("expected gate to be paused again")
	}
}

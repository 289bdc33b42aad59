// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"testing"

	"github.com/luxfi/geth/common"
)

func TestEchoHandlerRoundTrips(t *testing.T) {
	h := NewEchoHandler()
	resp, err := h.Deposit(context.Background(), common.Hash{}, common.Address{}, []byte("payload"))
	if err != nil || string(resp) != "payload" {
		t.Fatalf("got (%q, %v), want (\"payload\", nil)", resp, err)
	}
}

func TestAlwaysFailHandlerFailsExecution(t *testing.T) {
	h := AlwaysFailHandler{}
	if _, err := h.ExecuteProposal(context.Background(), common.Hash{}, nil); err != ErrAlwaysFail {
		t.Fatalf("expected ErrAlwaysFail, got %v", err)
	}
}

func TestRecordingHandlerCounts(t *testing.T) {
	h := NewRecordingHandler()
	_, _ = h.Deposit(context.Background(), common.Hash{}, common.Address{}, nil)
	_, _ = h.Deposit(context.Background(), common.Hash{}, common.Address{}, nil)
	_, _ = h.ExecuteProposal(context.Background(), common.Hash{}, nil)

	if h.Deposits != 2 || h.Executions != 1 {
		t.Fatalf("unexpected counts: deposits=%d executions=%d", h.Deposits, h.Executions)
	}
}

func TestAllowlistAccessControl(t *testing.T) {
	allowed := common.HexToAddress("0xA")
	denied := common.HexToAddress("0xB")
	ac := NewAllowlistAccessControl(allowed)

	if !ac.HasAccess(context.Background(), SelectorPauseTransfers, allowed) {
		t.Fatal("expected allowlisted address to have access")
	}
	if ac.HasAccess(context.Background(), SelectorPauseTransfers, denied) {
		t.Fatal("expected non-allowlisted address to be denied")
	}
}

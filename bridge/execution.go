// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"context"
	"time"

	"github.com/luxfi/log"
)

// ExecuteProposal executes a single proposal against a valid signature. It
// is a convenience wrapper over ExecuteProposals for a singleton batch.
func (c *Coordinator) ExecuteProposal(ctx context.Context, proposal Proposal, signature []byte, now time.Time) ([]byte, error) {
	return c.ExecuteProposals(ctx, []Proposal{proposal}, signature, now)
}

// ExecuteProposals verifies signature over the entire batch, then attempts
// each proposal in order: already-executed nonces are skipped silently, a
// routing miss aborts the remainder of the batch, and a handler failure is
// recorded and does not abort the batch. The returned bytes are the ordered
// concatenation of successful handler responses only.
func (c *Coordinator) ExecuteProposals(ctx context.Context, batch []Proposal, signature []byte, now time.Time) ([]byte, error) {
	if c.pause.IsPaused() {
		return nil, ErrBridgePaused
	}
	if len(batch) == 0 {
		return nil, ErrEmptyProposalsArray
	}

	ok, err := c.crypto.Verify(batch, signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidProposalSigner
	}

	var result []byte
	for _, proposal := range batch {
		if c.bitmap.IsExecuted(proposal.OriginDomain, proposal.DepositNonce) {
			continue
		}

		handler, found := c.handlerFor(proposal.ResourceID)
		if !found {
			return nil, ErrResourceIDNotMappedToHandler
		}

		c.bitmap.Set(proposal.OriginDomain, proposal.DepositNonce)

		resp, execErr := handler.ExecuteProposal(ctx, proposal.ResourceID, proposal.Data)
		if execErr != nil {
			c.bitmap.Clear(proposal.OriginDomain, proposal.DepositNonce)

			record := ExecutionRecord{
				OriginDomain: proposal.OriginDomain,
				Nonce:        proposal.DepositNonce,
				ResourceID:   proposal.ResourceID,
				Status:       StatusFailed,
				Timestamp:    uint64(now.Unix()),
				Error:        execErr.Error(),
			}
			c.recordsMu.Lock()
			c.executions = append(c.executions, record)
			c.recordsMu.Unlock()
			c.executionBus.publish(record)

			log.Info("proposal execution failed", "origin", proposal.OriginDomain, "nonce", proposal.DepositNonce, "error", execErr)
			continue
		}

		record := ExecutionRecord{
			OriginDomain: proposal.OriginDomain,
			Nonce:        proposal.DepositNonce,
			ResourceID:   proposal.ResourceID,
			Status:       StatusExecuted,
			Timestamp:    uint64(now.Unix()),
		}
		c.recordsMu.Lock()
		c.executions = append(c.executions, record)
		c.recordsMu.Unlock()
		c.executionBus.publish(record)

		result = append(result, resp...)
	}

	return result, nil
}

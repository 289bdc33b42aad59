// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"errors"
	"fmt"

	"github.com/luxfi/geth/common"
)

// Sentinel errors for the fixed taxonomy of validation and lifecycle
// failures. Handler and crypto failures that carry a message use the typed
// errors below instead.
var (
	ErrResourceIDNotMappedToHandler = errors.New("resource id not mapped to handler")
	ErrDepositToCurrentDomain       = errors.New("cannot deposit to the current domain")
	ErrInvalidProposalSigner        = errors.New("invalid proposal signer")
	ErrEmptyProposalsArray          = errors.New("proposals array is empty")
	ErrNonceDecrementsNotAllowed    = errors.New("nonce decrements are not allowed")
	ErrMPCAddressAlreadySet         = errors.New("mpc address already set")
	ErrMPCAddressNotSet             = errors.New("mpc address not set")
	ErrMPCAddressIsNotUpdatable     = errors.New("mpc address is not updatable")
	ErrMPCAddressZeroAddress        = errors.New("mpc address cannot be the zero address")
	ErrBridgePaused                 = errors.New("bridge is paused")
)

// AccessNotAllowedError reports that Access Control denied Operation for
// Caller. No state is mutated before this error is returned.
type AccessNotAllowedError struct {
	Caller    common.Address
	Operation string
}

func (e *AccessNotAllowedError) Error() string {
	return fmt.Sprintf("access not allowed for %s to call %s", e.Caller.Hex(), e.Operation)
}

// HandlerExecutionFailedError wraps an opaque failure surfaced by a resource
// handler or fee handler, preserved verbatim in Reason.
type HandlerExecutionFailedError struct {
	Reason string
}

func (e *HandlerExecutionFailedError) Error() string {
	return fmt.Sprintf("handler execution failed: %s", e.Reason)
}

// CryptoError reports a failure inside the Crypto Core: a malformed
// signature or a hashing failure.
type CryptoError struct {
	Reason string
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("crypto error: %s", e.Reason)
}

// ChainConnectionError is reserved for the external event-listener
// collaborator (out of scope for the core) to report transport failures
// through the same error taxonomy.
type ChainConnectionError struct {
	Reason string
}

func (e *ChainConnectionError) Error() string {
	return fmt.Sprintf("chain connection error: %s", e.Reason)
}

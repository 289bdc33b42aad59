// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package bridge

import (
	"encoding/binary"
	"sync"

	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/crypto"
)

var (
	// proposalTypeHash and proposalsTypeHash stand in for the EIP-712
	// typeHash of the on-chain Proposal and Proposal[] structs. They are
	// fixed, domain-independent constants baked into every deployment.
	proposalTypeHash  = crypto.Keccak256Hash([]byte("Proposal(uint8 originDomain,uint64 depositNonce,bytes32 resourceID,bytes data)"))
	proposalsTypeHash = crypto.Keccak256Hash([]byte("Proposals(Proposal[] proposals)Proposal(uint8 originDomain,uint64 depositNonce,bytes32 resourceID,bytes data)"))
)

// domainSeparator computes the EIP-712-style domain separator for (name,
// version). The digest is keccak256 so a Go-side installed signer interops
// with an on-chain verifier using the standard EIP-712 domain hash.
func domainSeparator(name, version string) common.Hash {
	typeHash := crypto.Keccak256Hash([]byte("EIP712Domain(string name,string version)"))
	nameHash := crypto.Keccak256Hash([]byte(name))
	versionHash := crypto.Keccak256Hash([]byte(version))
	return crypto.Keccak256Hash(typeHash.Bytes(), nameHash.Bytes(), versionHash.Bytes())
}

// proposalHash returns the per-proposal preimage hash: type hash, origin
// domain (1 byte), deposit nonce (8 bytes big-endian), resource id (32
// bytes), payload.
func proposalHash(p Proposal) common.Hash {
	var nonceBuf [8]byte
	binary.BigEndian.PutUint64(nonceBuf[:], p.DepositNonce)

	return crypto.Keccak256Hash(
		proposalTypeHash.Bytes(),
		[]byte{p.OriginDomain},
		nonceBuf[:],
		p.ResourceID.Bytes(),
		p.Data,
	)
}

// hashTypedData returns the final digest signed over the proposal batch:
// H(domain_separator || H(proposals_type_hash || per-proposal hashes...)).
func hashTypedData(separator common.Hash, batch []Proposal) common.Hash {
	concatenated := make([]byte, 0, len(batch)*common.HashLength)
	for _, p := range batch {
		h := proposalHash(p)
		concatenated = append(concatenated, h.Bytes()...)
	}
	batchHash := crypto.Keccak256Hash(proposalsTypeHash.Bytes(), concatenated)
	return crypto.Keccak256Hash(separator.Bytes(), batchHash.Bytes())
}

// Crypto holds the domain separator fixed at construction and the write-once
// MPC signer identity. The coordinator enforces the write-once transition
// rule on install; Crypto itself exposes a plain setter per the spec's
// layering note.
type Crypto struct {
	mu        sync.RWMutex
	separator common.Hash
	signer    *common.Address
}

// NewCrypto computes the domain separator from (name, version) at
// construction. The returned Crypto has no installed signer.
func NewCrypto(name, version string) *Crypto {
	return &Crypto{separator: domainSeparator(name, version)}
}

// Signer returns the installed MPC signer address, or nil if absent.
func (c *Crypto) Signer() *common.Address {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.signer == nil {
		return nil
	}
	addr := *c.signer
	return &addr
}

// InstallSigner sets the signer unconditionally, overwriting any previous
// value. Callers enforcing the write-once rule (the coordinator) must check
// Signer() first.
func (c *Crypto) InstallSigner(addr common.Address) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.signer = &addr
}

// HashTypedData exposes the batch digest for callers that need it directly
// (e.g. an MPC signer preparing a signature offline).
func (c *Crypto) HashTypedData(batch []Proposal) common.Hash {
	c.mu.RLock()
	separator := c.separator
	c.mu.RUnlock()
	return hashTypedData(separator, batch)
}

// Verify recovers the signer from a 65-byte [R || S || V] signature over the
// batch digest and reports whether it matches the installed signer. Fails
// ErrMPCAddressNotSet if no signer has been installed.
func (c *Crypto) Verify(batch []Proposal, signature []byte) (bool, error) {
	c.mu.RLock()
	separator := c.separator
	signer := c.signer
	c.mu.RUnlock()

	if signer == nil {
		return false, ErrMPCAddressNotSet
	}

	digest := hashTypedData(separator, batch)

	pubkey, err := crypto.SigToPub(digest.Bytes(), signature)
	if err != nil {
		return false, &CryptoError{Reason: err.Error()}
	}

	recovered := crypto.PubkeyToAddress(*pubkey)
	return recovered == *signer, nil
}

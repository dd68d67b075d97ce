// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package htlc provides the hash time locked contract template.
//
// An HTLC lets the receiver claim the locked Algos before a deadline by
// revealing a preimage of a known hash, and lets the owner reclaim them
// after the deadline. It is the building block of cross-chain atomic swaps.
//
// Funds can leave the account only as a zero-amount close:
//   - to receiver, if hash_function(arg 0) == hash_image
//   - to owner, if txn.FirstValid > expiry_round
package htlc

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"golang.org/x/crypto/sha3"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// Sentinel errors.
var (
	// ErrInvalidHashFunction is returned for a hash function other than sha256 or keccak256.
	ErrInvalidHashFunction = errors.New("invalid hash function")

	// ErrInvalidHashImage is returned when the hash image is not a 32-byte digest.
	ErrInvalidHashImage = errors.New("invalid hash image")

	// ErrPreimageMismatch is returned when a preimage does not hash to the image.
	ErrPreimageMismatch = errors.New("preimage does not match hash image")

	// ErrNotExpired is returned when a refund is attempted before the expiry round.
	ErrNotExpired = errors.New("contract has not expired")

	// ErrFeeTooHigh is returned when the suggested fee exceeds max_fee.
	ErrFeeTooHigh = errors.New("fee exceeds contract maximum")
)

// Supported hash functions.
const (
	SHA256    = "sha256"
	Keccak256 = "keccak256"
)

// TEAL opcodes written into the hash function placeholder.
var hashOpcodes = map[string]uint64{
	SHA256:    0x01,
	Keccak256: 0x02,
}

const program = "ASAEBQEABiYDIP68oLsUSlpOp7Q4pGgayA5soQW8tgf8VlMlyVaV9qITAQ" +
	"Yg5pqWHm8tX3rIZgeSZVK+mCNe0zNjyoiRi7nJOKkVtvkxASIOMRAjEhAx" +
	"BzIDEhAxCCQSEDEJKBItASkSEDEJKhIxAiUNEBEQ"

var definition = genericlsig.Definition{
	Program: program,
	Placeholders: []tealsubst.Placeholder{
		{Offset: 3, Encoding: tealsubst.EncodingVarint, Name: "max_fee"},
		{Offset: 6, Encoding: tealsubst.EncodingVarint, Name: "expiry_round"},
		{Offset: 10, Encoding: tealsubst.EncodingAddress, Name: "receiver"},
		{Offset: 42, Encoding: tealsubst.EncodingBytes, Name: "hash_image"},
		{Offset: 45, Encoding: tealsubst.EncodingAddress, Name: "owner"},
		{Offset: 102, Encoding: tealsubst.EncodingVarint, Name: "hash_function"},
	},
}

// Params are the creation parameters of an HTLC.
type Params struct {
	Owner        string // Receives the funds after ExpiryRound
	Receiver     string // Receives the funds on revealing the preimage
	HashFunction string // "sha256" or "keccak256"
	HashImage    string // Base64 digest of the preimage
	ExpiryRound  uint64 // Round after which the owner may reclaim
	MaxFee       uint64 // Fee bound per transaction, in microAlgos
}

// Compile-time check that HTLC implements Template
var _ genericlsig.Template = (*HTLC)(nil)

// HTLC is a hash time locked contract with its parameters bound.
type HTLC struct {
	genericlsig.Base

	params    Params
	owner     types.Address
	receiver  types.Address
	hashImage []byte
	opcode    uint64
}

// New validates p and returns an HTLC.
func New(p Params) (*HTLC, error) {
	opcode, ok := hashOpcodes[p.HashFunction]
	if !ok {
		return nil, fmt.Errorf("%w: %q (must be %s or %s)", ErrInvalidHashFunction, p.HashFunction, SHA256, Keccak256)
	}

	image, err := base64.StdEncoding.DecodeString(p.HashImage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHashImage, err)
	}
	if len(image) != sha256.Size {
		return nil, fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidHashImage, sha256.Size, len(image))
	}

	owner, err := genericlsig.DecodeAddress("owner", p.Owner)
	if err != nil {
		return nil, err
	}
	receiver, err := genericlsig.DecodeAddress("receiver", p.Receiver)
	if err != nil {
		return nil, err
	}

	return &HTLC{
		params:    p,
		owner:     owner,
		receiver:  receiver,
		hashImage: image,
		opcode:    opcode,
	}, nil
}

// Params returns the creation parameters.
func (h *HTLC) Params() Params { return h.params }

func (h *HTLC) KeyType() string { return versionV1 }

// ProgramBytes returns the patched program.
func (h *HTLC) ProgramBytes() ([]byte, error) {
	return definition.Generate(
		tealsubst.Uint(h.params.MaxFee),
		tealsubst.Uint(h.params.ExpiryRound),
		tealsubst.Address(h.receiver),
		tealsubst.Bytes(h.hashImage),
		tealsubst.Address(h.owner),
		tealsubst.Uint(h.opcode),
	)
}

func (h *HTLC) Program() (string, error) { return genericlsig.Program(h) }

func (h *HTLC) Address() (string, error) { return genericlsig.Address(h) }

// Hash applies the contract's hash function to preimage.
func (h *HTLC) Hash(preimage []byte) []byte {
	if h.params.HashFunction == Keccak256 {
		k := sha3.NewLegacyKeccak256()
		k.Write(preimage)
		return k.Sum(nil)
	}
	sum := sha256.Sum256(preimage)
	return sum[:]
}

// VerifyPreimage reports whether preimage unlocks the claim path.
func (h *HTLC) VerifyPreimage(preimage []byte) error {
	if subtle.ConstantTimeCompare(h.Hash(preimage), h.hashImage) != 1 {
		return ErrPreimageMismatch
	}
	return nil
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package dynamicfee provides the dynamic fee delegation template.
//
// The payer signs the contract with their own key, producing a delegated
// LogicSig that authorizes one payment of a fixed amount to a fixed receiver
// in a fixed round window. Whoever submits it chooses the fee at submission
// time and reimburses the payer for it in the same group:
//
//	txn 0: fee payer -> payer, amount = fee of txn 1
//	txn 1: payer -> receiver, amount, close, rounds and lease as bound
package dynamicfee

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// DefaultValidity is added to FirstValid when LastValid is not set.
const DefaultValidity = 1000

// Sentinel errors.
var (
	// ErrInvalidRounds is returned when LastValid precedes FirstValid.
	ErrInvalidRounds = errors.New("invalid validity window")

	// ErrProgramMismatch is returned when a LogicSig does not carry this contract.
	ErrProgramMismatch = errors.New("logic signature does not match contract")

	// ErrNotDelegated is returned for a LogicSig without a delegating signature.
	ErrNotDelegated = errors.New("logic signature is not delegated")
)

const program = "ASAFAgEFBgcmAyD+vKC7FEpaTqe0OKRoGsgObKEFvLYH/FZTJclWlfaiEy" +
	"DmmpYeby1feshmB5JlUr6YI17TM2PKiJGLuck4qRW2+QEGMgQiEjMAECMS" +
	"EDMABzEAEhAzAAgxARIQMRYjEhAxECMSEDEHKBIQMQkpEhAxCCQSEDECJR" +
	"IQMQQhBBIQMQYqEhA="

var definition = genericlsig.Definition{
	Program: program,
	Placeholders: []tealsubst.Placeholder{
		{Offset: 5, Encoding: tealsubst.EncodingVarint, Name: "amount"},
		{Offset: 6, Encoding: tealsubst.EncodingVarint, Name: "first_valid"},
		{Offset: 7, Encoding: tealsubst.EncodingVarint, Name: "last_valid"},
		{Offset: 11, Encoding: tealsubst.EncodingAddress, Name: "receiver"},
		{Offset: 44, Encoding: tealsubst.EncodingAddress, Name: "close_remainder_to"},
		{Offset: 76, Encoding: tealsubst.EncodingBytes, Name: "lease"},
	},
}

// Params are the creation parameters of a dynamic fee contract.
type Params struct {
	Receiver         string
	Amount           uint64 // microAlgos paid to Receiver
	FirstValid       uint64
	LastValid        uint64 // 0 means FirstValid + DefaultValidity
	CloseRemainderTo string // Empty means no close
}

// Compile-time check that DynamicFee implements Template
var _ genericlsig.Template = (*DynamicFee)(nil)

// DynamicFee is a dynamic fee contract with its parameters and lease bound.
type DynamicFee struct {
	genericlsig.Base

	params   Params
	receiver types.Address
	closeTo  types.Address
	lease    [genericlsig.LeaseLength]byte
}

// New returns a contract with a freshly drawn lease.
func New(p Params) (*DynamicFee, error) {
	lease, err := genericlsig.NewLease()
	if err != nil {
		return nil, err
	}
	return NewWithLease(p, lease)
}

// NewWithLease rebuilds a contract around a known lease, as the recipient of
// a signed contract does to reproduce the payer's program.
func NewWithLease(p Params, lease [genericlsig.LeaseLength]byte) (*DynamicFee, error) {
	if p.LastValid == 0 {
		var carry uint64
		p.LastValid, carry = bits.Add64(p.FirstValid, DefaultValidity, 0)
		if carry != 0 {
			return nil, fmt.Errorf("%w: first valid %d leaves no room for the default window", ErrInvalidRounds, p.FirstValid)
		}
	}
	if p.LastValid < p.FirstValid {
		return nil, fmt.Errorf("%w: last valid %d before first valid %d", ErrInvalidRounds, p.LastValid, p.FirstValid)
	}

	receiver, err := genericlsig.DecodeAddress("receiver", p.Receiver)
	if err != nil {
		return nil, err
	}
	var closeTo types.Address
	if p.CloseRemainderTo != "" {
		closeTo, err = genericlsig.DecodeAddress("close_remainder_to", p.CloseRemainderTo)
		if err != nil {
			return nil, err
		}
	}

	return &DynamicFee{
		params:   p,
		receiver: receiver,
		closeTo:  closeTo,
		lease:    lease,
	}, nil
}

// Params returns the creation parameters with defaults applied.
func (d *DynamicFee) Params() Params { return d.params }

// Lease returns the lease bound into the program.
func (d *DynamicFee) Lease() [genericlsig.LeaseLength]byte { return d.lease }

func (d *DynamicFee) KeyType() string { return versionV1 }

// ProgramBytes returns the patched program.
func (d *DynamicFee) ProgramBytes() ([]byte, error) {
	return definition.Generate(
		tealsubst.Uint(d.params.Amount),
		tealsubst.Uint(d.params.FirstValid),
		tealsubst.Uint(d.params.LastValid),
		tealsubst.Address(d.receiver),
		tealsubst.Address(d.closeTo),
		tealsubst.Bytes(d.lease[:]),
	)
}

func (d *DynamicFee) Program() (string, error) { return genericlsig.Program(d) }

// Address returns the escrow address of the program. The contract is meant
// to be used as a delegated signature, so funds never sit at this address.
func (d *DynamicFee) Address() (string, error) { return genericlsig.Address(d) }

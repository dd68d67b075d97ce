// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package periodic provides the periodic payment template.
//
// A periodic payment account releases a fixed amount to one receiver once
// per period. A withdrawal must start on a round divisible by the period,
// stay valid for exactly the withdrawing window and carry the contract's
// lease, so at most one withdrawal lands per period. After the timeout round
// the receiver may also close the account out.
package periodic

import (
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// MaxWithdrawingWindow is the longest validity range a transaction may have.
const MaxWithdrawingWindow = 1000

// Sentinel errors.
var (
	// ErrInvalidPeriod is returned for a zero period.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrInvalidWindow is returned for a withdrawing window above MaxWithdrawingWindow.
	ErrInvalidWindow = errors.New("invalid withdrawing window")

	// ErrNotPeriodStart is returned for a first valid round that is not a multiple of the period.
	ErrNotPeriodStart = errors.New("first valid round is not at a period start")

	// ErrBeforeTimeout is returned for a close-out before the timeout round.
	ErrBeforeTimeout = errors.New("timeout round not reached")
)

const program = "ASAHAQUGAAcICSYCIH+DsWV/8fxTuS3BgUih1l38LUsfo9Z3KErd0gASbZ" +
	"BpILO3BCfT4PJw36+yT68lZyyjP9vs0NLqLfcc6S9Ol/5iMRAiEjEBIw4Q" +
	"MQIkGCUSEDEEIQQxAggSEDEGKBIQMQkyAxIxBykSEDEIIQUSEDEJKRIxBz" +
	"IDEhAxAiEGDRAxCCUSEBEQ"

// The lease sits in a 32-byte constant slot, so it is patched in place.
var definition = genericlsig.Definition{
	Program: program,
	Placeholders: []tealsubst.Placeholder{
		{Offset: 4, Encoding: tealsubst.EncodingVarint, Name: "fee"},
		{Offset: 5, Encoding: tealsubst.EncodingVarint, Name: "period"},
		{Offset: 7, Encoding: tealsubst.EncodingVarint, Name: "withdrawing_window"},
		{Offset: 8, Encoding: tealsubst.EncodingVarint, Name: "amount"},
		{Offset: 9, Encoding: tealsubst.EncodingVarint, Name: "timeout"},
		{Offset: 13, Encoding: tealsubst.EncodingAddress, Name: "lease"},
		{Offset: 46, Encoding: tealsubst.EncodingAddress, Name: "receiver"},
	},
}

// Params are the creation parameters of a periodic payment.
type Params struct {
	Receiver          string
	Amount            uint64 // microAlgos released per period
	WithdrawingWindow uint64 // Rounds a withdrawal stays valid
	Period            uint64 // Rounds between withdrawals
	Fee               uint64 // Fee bound per transaction, in microAlgos
	Timeout           uint64 // Round after which the receiver may close out
}

// Compile-time check that PeriodicPayment implements Template
var _ genericlsig.Template = (*PeriodicPayment)(nil)

// PeriodicPayment is a periodic payment contract with its parameters and lease bound.
type PeriodicPayment struct {
	genericlsig.Base

	params   Params
	receiver types.Address
	lease    [genericlsig.LeaseLength]byte
}

// New returns a contract with a freshly drawn lease.
func New(p Params) (*PeriodicPayment, error) {
	lease, err := genericlsig.NewLease()
	if err != nil {
		return nil, err
	}
	return NewWithLease(p, lease)
}

// NewWithLease rebuilds a contract around a known lease.
func NewWithLease(p Params, lease [genericlsig.LeaseLength]byte) (*PeriodicPayment, error) {
	if p.Period == 0 {
		return nil, fmt.Errorf("%w: must be at least 1", ErrInvalidPeriod)
	}
	if p.WithdrawingWindow > MaxWithdrawingWindow {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrInvalidWindow, p.WithdrawingWindow, MaxWithdrawingWindow)
	}
	receiver, err := genericlsig.DecodeAddress("receiver", p.Receiver)
	if err != nil {
		return nil, err
	}
	return &PeriodicPayment{
		params:   p,
		receiver: receiver,
		lease:    lease,
	}, nil
}

// Params returns the creation parameters.
func (pp *PeriodicPayment) Params() Params { return pp.params }

// Lease returns the lease bound into the program.
func (pp *PeriodicPayment) Lease() [genericlsig.LeaseLength]byte { return pp.lease }

func (pp *PeriodicPayment) KeyType() string { return versionV1 }

// ProgramBytes returns the patched program.
func (pp *PeriodicPayment) ProgramBytes() ([]byte, error) {
	return definition.Generate(
		tealsubst.Uint(pp.params.Fee),
		tealsubst.Uint(pp.params.Period),
		tealsubst.Uint(pp.params.WithdrawingWindow),
		tealsubst.Uint(pp.params.Amount),
		tealsubst.Uint(pp.params.Timeout),
		tealsubst.Address(pp.lease),
		tealsubst.Address(pp.receiver),
	)
}

func (pp *PeriodicPayment) Program() (string, error) { return genericlsig.Program(pp) }

func (pp *PeriodicPayment) Address() (string, error) { return genericlsig.Address(pp) }

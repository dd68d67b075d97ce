// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package split provides the split payment contract template.
//
// A split contract locks funds in an account that may only pay out to two
// predefined receivers in a fixed ratio, given by the first receiver's
// share: for a 30/70 split set ratn=30 and ratd=100. After the expiry round
// the owner can close the account back to itself.
//
// The contract enforces:
//   - payouts are a group of two payments from the contract to receiver_1
//     and receiver_2, the first at least min_pay
//   - each transaction fee stays below max_fee
//   - after expiry_round, a zero-amount close to the owner
package split

import (
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// Sentinel errors.
var (
	// ErrNotDivisible is returned when an amount cannot be split exactly.
	// Retry with precise=false or with a multiple of the reduced denominator.
	ErrNotDivisible = errors.New("amount is not divisible by the split ratio")

	// ErrInvalidRatio is returned when ratd is zero or ratn exceeds ratd.
	ErrInvalidRatio = errors.New("invalid split ratio")

	// ErrFeeTooHigh is returned when the suggested fee exceeds max_fee.
	ErrFeeTooHigh = errors.New("fee exceeds contract maximum")
)

const program = "ASAIAQUCAAYHCAkmAyDYHIR7TIW5eM/WAZcXdEDqv7BD+baMN6i2/A5JatG" +
	"bNCDKsaoZHPQ3Zg8zZB/BZ1oDgt77LGo5np3rbto3/gloTyB40AS2H3I72Y" +
	"CbDk4hKpm7J7NnFy2Xrt39TJG0ORFg+zEQIhIxASMMEDIEJBJAABkxCSgSM" +
	"QcyAxIQMQglEhAxAiEEDRAiQAAuMwAAMwEAEjEJMgMSEDMABykSEDMBByoS" +
	"EDMACCEFCzMBCCEGCxIQMwAIIQcPEBA="

var definition = genericlsig.Definition{
	Program: program,
	Placeholders: []tealsubst.Placeholder{
		{Offset: 4, Encoding: tealsubst.EncodingVarint, Name: "max_fee"},
		{Offset: 7, Encoding: tealsubst.EncodingVarint, Name: "expiry_round"},
		{Offset: 8, Encoding: tealsubst.EncodingVarint, Name: "ratn"},
		{Offset: 9, Encoding: tealsubst.EncodingVarint, Name: "ratd"},
		{Offset: 10, Encoding: tealsubst.EncodingVarint, Name: "min_pay"},
		{Offset: 14, Encoding: tealsubst.EncodingAddress, Name: "owner"},
		{Offset: 47, Encoding: tealsubst.EncodingAddress, Name: "receiver_1"},
		{Offset: 80, Encoding: tealsubst.EncodingAddress, Name: "receiver_2"},
	},
}

// Params are the creation parameters of a split contract.
type Params struct {
	Owner       string // Receives the balance after ExpiryRound
	Receiver1   string // First receiver, gets Ratn/Ratd of every payout
	Receiver2   string // Second receiver, gets the remainder
	Ratn        uint64 // Numerator of the first receiver's share
	Ratd        uint64 // Denominator of the first receiver's share
	ExpiryRound uint64 // Round after which the owner may close the account
	MinPay      uint64 // Minimum payment to the first receiver, in microAlgos
	MaxFee      uint64 // Fee bound per transaction, in microAlgos
}

// Compile-time check that Split implements Template
var _ genericlsig.Template = (*Split)(nil)

// Split is a split contract with its parameters bound.
type Split struct {
	genericlsig.Base

	params    Params
	owner     types.Address
	receiver1 types.Address
	receiver2 types.Address
}

// New validates p and returns a split contract.
func New(p Params) (*Split, error) {
	if p.Ratd == 0 || p.Ratn > p.Ratd {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, p.Ratn, p.Ratd)
	}

	owner, err := genericlsig.DecodeAddress("owner", p.Owner)
	if err != nil {
		return nil, err
	}
	receiver1, err := genericlsig.DecodeAddress("receiver_1", p.Receiver1)
	if err != nil {
		return nil, err
	}
	receiver2, err := genericlsig.DecodeAddress("receiver_2", p.Receiver2)
	if err != nil {
		return nil, err
	}

	return &Split{
		params:    p,
		owner:     owner,
		receiver1: receiver1,
		receiver2: receiver2,
	}, nil
}

// Params returns the creation parameters.
func (s *Split) Params() Params { return s.params }

func (s *Split) KeyType() string { return versionV1 }

// ProgramBytes returns the patched program.
func (s *Split) ProgramBytes() ([]byte, error) {
	return definition.Generate(
		tealsubst.Uint(s.params.MaxFee),
		tealsubst.Uint(s.params.ExpiryRound),
		tealsubst.Uint(s.params.Ratn),
		tealsubst.Uint(s.params.Ratd),
		tealsubst.Uint(s.params.MinPay),
		tealsubst.Address(s.owner),
		tealsubst.Address(s.receiver1),
		tealsubst.Address(s.receiver2),
	)
}

func (s *Split) Program() (string, error) { return genericlsig.Program(s) }

func (s *Split) Address() (string, error) { return genericlsig.Address(s) }

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package limitorder provides the limit order template.
//
// The owner funds the contract with Algos and offers them for an asset at a
// ratio. Anyone can trade against it with a two-transaction group:
//
//	txn 0: contract -> buyer, microAlgos (more than min_trade)
//	txn 1: buyer -> owner, asset_id units, where units*ratd >= microAlgos*ratn
//
// After the expiry round the owner can close the contract out.
package limitorder

import (
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// Sentinel errors.
var (
	// ErrInvalidRatio is returned when either side of the ratio is zero.
	ErrInvalidRatio = errors.New("invalid ratio")

	// ErrInvalidAsset is returned for asset ID 0, which denotes Algos.
	ErrInvalidAsset = errors.New("invalid asset ID")

	// ErrRatio is returned when a trade pays too few asset units for its microAlgos.
	ErrRatio = errors.New("trade does not meet the order ratio")

	// ErrBelowMinTrade is returned when a trade does not exceed the minimum.
	ErrBelowMinTrade = errors.New("trade is not above the minimum")

	// ErrFeeTooHigh is returned when the contract transaction fee exceeds the bound.
	ErrFeeTooHigh = errors.New("fee exceeds contract maximum")

	// ErrNotExpired is returned when a close-out is attempted before the expiry round.
	ErrNotExpired = errors.New("contract has not expired")
)

const program = "ASAKAAEFAgYEBwgJCiYBIP68oLsUSlpOp7Q4pGgayA5soQW8tgf8VlMlyV" +
	"aV9qITMRYiEjEQIxIQMQEkDhAyBCMSQABVMgQlEjEIIQQNEDEJMgMSEDMB" +
	"ECEFEhAzAREhBhIQMwEUKBIQMwETMgMSEDMBEiEHHTUCNQExCCEIHTUENQ" +
	"M0ATQDDUAAJDQBNAMSNAI0BA8QQAAWADEJKBIxAiEJDRAxBzIDEhAxCCIS" +
	"EBA="

var definition = genericlsig.Definition{
	Program: program,
	Placeholders: []tealsubst.Placeholder{
		{Offset: 5, Encoding: tealsubst.EncodingVarint, Name: "max_fee"},
		{Offset: 7, Encoding: tealsubst.EncodingVarint, Name: "min_trade"},
		{Offset: 9, Encoding: tealsubst.EncodingVarint, Name: "asset_id"},
		{Offset: 10, Encoding: tealsubst.EncodingVarint, Name: "ratd"},
		{Offset: 11, Encoding: tealsubst.EncodingVarint, Name: "ratn"},
		{Offset: 12, Encoding: tealsubst.EncodingVarint, Name: "expiry_round"},
		{Offset: 16, Encoding: tealsubst.EncodingAddress, Name: "owner"},
	},
}

// Params are the creation parameters of a limit order.
type Params struct {
	Owner       string
	AssetID     uint64
	Ratn        uint64 // Asset units per Ratd microAlgos
	Ratd        uint64
	ExpiryRound uint64
	MinTrade    uint64 // Trades must pay out more than this, in microAlgos
	MaxFee      uint64 // Fee bound on the contract transaction
}

// Compile-time check that LimitOrder implements Template
var _ genericlsig.Template = (*LimitOrder)(nil)

// LimitOrder is a limit order contract with its parameters bound.
type LimitOrder struct {
	genericlsig.Base

	params Params
	owner  types.Address
}

// New validates p and returns a LimitOrder.
func New(p Params) (*LimitOrder, error) {
	if p.Ratn == 0 || p.Ratd == 0 {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, p.Ratn, p.Ratd)
	}
	if p.AssetID == 0 {
		return nil, ErrInvalidAsset
	}
	owner, err := genericlsig.DecodeAddress("owner", p.Owner)
	if err != nil {
		return nil, err
	}
	return &LimitOrder{params: p, owner: owner}, nil
}

// Params returns the creation parameters.
func (l *LimitOrder) Params() Params { return l.params }

func (l *LimitOrder) KeyType() string { return versionV1 }

// ProgramBytes returns the patched program.
func (l *LimitOrder) ProgramBytes() ([]byte, error) {
	return definition.Generate(
		tealsubst.Uint(l.params.MaxFee),
		tealsubst.Uint(l.params.MinTrade),
		tealsubst.Uint(l.params.AssetID),
		tealsubst.Uint(l.params.Ratd),
		tealsubst.Uint(l.params.Ratn),
		tealsubst.Uint(l.params.ExpiryRound),
		tealsubst.Address(l.owner),
	)
}

func (l *LimitOrder) Program() (string, error) { return genericlsig.Program(l) }

func (l *LimitOrder) Address() (string, error) { return genericlsig.Address(l) }

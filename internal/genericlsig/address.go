// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package genericlsig

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// LeaseLength is the size of a transaction lease.
const LeaseLength = 32

// leaseSource is swapped in tests.
var leaseSource io.Reader = rand.Reader

// NewLease draws a random lease. Templates store it at construction so the
// same contract always carries the same lease.
func NewLease() ([LeaseLength]byte, error) {
	var lease [LeaseLength]byte
	if _, err := io.ReadFull(leaseSource, lease[:]); err != nil {
		return lease, fmt.Errorf("failed to generate lease: %w", err)
	}
	return lease, nil
}

// ProgramAddress returns the contract account address for a program:
// the checksummed SHA512/256 of "Program" followed by the program bytes.
func ProgramAddress(program []byte) (types.Address, error) {
	lsig := crypto.LogicSigAccount{
		Lsig: types.LogicSig{Logic: program},
	}
	return lsig.Address()
}

// Address returns the contract account address of t.
func Address(t Template) (string, error) {
	program, err := t.ProgramBytes()
	if err != nil {
		return "", err
	}
	addr, err := ProgramAddress(program)
	if err != nil {
		return "", fmt.Errorf("failed to derive contract address: %w", err)
	}
	return addr.String(), nil
}

// ArgBuilder orders named runtime args into a LogicSig Args array.
// Every template provider implements it.
type ArgBuilder interface {
	BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error)
}

// LogicSigAccount returns an escrow LogicSig account for t whose args are
// assembled by b from runtimeArgs.
func LogicSigAccount(t Template, b ArgBuilder, runtimeArgs map[string][]byte) (crypto.LogicSigAccount, error) {
	args, err := b.BuildArgs(runtimeArgs)
	if err != nil {
		return crypto.LogicSigAccount{}, fmt.Errorf("%s: %w", t.KeyType(), err)
	}
	program, err := t.ProgramBytes()
	if err != nil {
		return crypto.LogicSigAccount{}, err
	}
	return crypto.LogicSigAccount{
		Lsig: types.LogicSig{Logic: program, Args: args},
	}, nil
}

// DecodeAddress parses a textual address, naming the parameter on failure.
func DecodeAddress(name, value string) (types.Address, error) {
	addr, err := types.DecodeAddress(value)
	if err != nil {
		return types.Address{}, fmt.Errorf("invalid %s address: %w", name, err)
	}
	return addr, nil
}

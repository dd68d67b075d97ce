// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package lsigprovider defines the descriptor interface shared by all
// precompiled contract templates.
//
// A provider describes a template family: its identity, how it is displayed,
// which creation parameters it takes and which arguments the LogicSig needs
// at signing time. Building an instance from parameters is layered on top by
// genericlsig.Provider.
package lsigprovider

// LSigProvider is the base interface that every template provider implements.
type LSigProvider interface {
	// Identity
	KeyType() string // Versioned identifier (e.g., "split-v1", "htlc-v1")
	Family() string  // Family name without version (e.g., "split", "htlc")
	Version() int    // Version number (e.g., 1)

	// Display
	DisplayName() string  // Human-readable name (e.g., "Split", "Hash Time Lock")
	Description() string  // Short description for UI
	DisplayColor() string // ANSI color code (e.g., "33" for yellow)

	// CreationParams returns parameter definitions for contract creation,
	// in the order they are documented to users.
	CreationParams() []ParameterDef

	// ValidateCreationParams validates the provided creation parameters.
	// All problems are reported, not just the first one.
	ValidateCreationParams(params map[string]string) error

	// RuntimeArgs returns argument definitions needed at transaction signing time.
	// Most templates need none; the hash time lock needs the preimage.
	RuntimeArgs() []RuntimeArgDef

	// BuildArgs assembles the LogicSig Args array in the order of RuntimeArgs.
	BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error)
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package lsigprovider

import "errors"

// Sentinel errors.
var (
	// ErrNotTemplate is returned when a provider cannot build template instances.
	ErrNotTemplate = errors.New("provider is not a contract template")

	// ErrUnknownKeyType is returned when no provider is registered for a key type.
	ErrUnknownKeyType = errors.New("no template provider registered")

	// ErrInvalidParam is returned when a creation parameter fails validation.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrMissingArg is returned when a required runtime argument is absent.
	ErrMissingArg = errors.New("missing required arg")
)

// Parameter types understood by ValidateParams.
const (
	TypeAddress = "address" // Algorand address (58-char base32)
	TypeUint64  = "uint64"  // Decimal unsigned integer
	TypeBytes   = "bytes"   // Base64-encoded bytes
	TypeString  = "string"  // Free text, optionally restricted by Choices
)

// ParameterDef describes a parameter for contract creation.
// This is used by UIs to dynamically render input fields.
type ParameterDef struct {
	Name        string // Internal name (e.g., "receiver", "expiry_round")
	Label       string // Human-readable label (e.g., "Receiver Address")
	Description string // Description for help text
	Type        string // "address", "uint64", "bytes", "string"
	Required    bool
	ByteLength  int      // For bytes: exact decoded length (0 = any)
	Choices     []string // For string: allowed values (nil = any)

	// UI hints
	Example string // Example value shown in help output

	// Constraints (for uint64)
	Min *uint64 // Minimum allowed value (nil = no minimum)
	Max *uint64 // Maximum allowed value (nil = no maximum)

	// Default value (applied if the parameter is absent or empty)
	Default string
}

// RuntimeArgDef describes an argument required at transaction signing time.
type RuntimeArgDef struct {
	Name        string // Internal name (e.g., "preimage")
	Label       string // Human-readable label (e.g., "Secret Preimage")
	Description string // Description for help text
	Type        string // "bytes" (base64-encoded)
	Required    bool   // If true, BuildArgs fails without this arg
	ByteLength  int    // Expected byte length (0 = variable)
}

// Uint64Ptr returns a pointer to v, for ParameterDef Min and Max.
func Uint64Ptr(v uint64) *uint64 {
	return &v
}

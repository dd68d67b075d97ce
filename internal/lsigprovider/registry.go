// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package lsigprovider

import (
	"fmt"
	"strings"

	"github.com/aplane-algo/aptemplate/internal/util"
)

// Key types are case-insensitive.
var providers = util.NewFoldedRegistry[LSigProvider]()

// Register adds an LSigProvider to the registry.
// If a provider for the same key type is already registered, the call is ignored.
func Register(p LSigProvider) {
	if !providers.Set(p.KeyType(), p) {
		util.Debug("template provider already registered", "key_type", p.KeyType())
		return
	}
	util.Debug("registered template provider", "key_type", p.KeyType())
}

// Get retrieves an LSigProvider by its key type.
// Returns nil if not found.
func Get(keyType string) LSigProvider {
	p, _ := providers.Get(keyType)
	return p
}

// GetOrError retrieves an LSigProvider by its key type.
func GetOrError(keyType string) (LSigProvider, error) {
	if p, ok := providers.Get(keyType); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKeyType, keyType)
}

// GetAll returns all registered LSigProviders, sorted by KeyType.
func GetAll() []LSigProvider {
	return providers.Values()
}

// GetFamily returns the family name for a versioned key type.
// For example: "split-v1" -> "split".
// If the key type is not registered, returns the lowercased input unchanged.
func GetFamily(keyType string) string {
	if p, ok := providers.Get(keyType); ok {
		return strings.ToLower(p.Family())
	}
	return strings.ToLower(keyType)
}

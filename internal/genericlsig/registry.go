// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package genericlsig

import (
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
)

// Register adds a Provider to the unified lsigprovider registry.
// Key types are case-insensitive.
// If a provider for the same key type is already registered, the call is ignored.
func Register(p Provider) {
	lsigprovider.Register(p)
}

// Get retrieves a Provider by its key type.
// Returns nil if not found or if the registered provider cannot build instances.
func Get(keyType string) Provider {
	p := lsigprovider.Get(keyType)
	if p == nil {
		return nil
	}
	if t, ok := p.(Provider); ok {
		return t
	}
	return nil
}

// GetOrError retrieves a Provider by its key type.
func GetOrError(keyType string) (Provider, error) {
	p, err := lsigprovider.GetOrError(keyType)
	if err != nil {
		return nil, err
	}
	if t, ok := p.(Provider); ok {
		return t, nil
	}
	return nil, lsigprovider.ErrNotTemplate
}

// GetAll returns all registered Providers, sorted by KeyType.
func GetAll() []Provider {
	var all []Provider
	for _, p := range lsigprovider.GetAll() {
		if t, ok := p.(Provider); ok {
			all = append(all, t)
		}
	}
	return all
}

// New builds a template instance for keyType from string parameters.
func New(keyType string, params map[string]string) (Template, error) {
	p, err := GetOrError(keyType)
	if err != nil {
		return nil, err
	}
	return p.New(params)
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"sort"
	"strings"
	"sync"
)

// StringRegistry is a thread-safe registry for string-keyed values.
// Keys are passed through the registry's normalizer on every call, so
// lookups and registrations agree on spelling.
type StringRegistry[V any] struct {
	mu        sync.RWMutex
	items     map[string]V
	normalize func(string) string
}

// NewStringRegistry creates a new empty registry with case-sensitive keys.
func NewStringRegistry[V any]() *StringRegistry[V] {
	return &StringRegistry[V]{
		items:     make(map[string]V),
		normalize: func(s string) string { return s },
	}
}

// NewFoldedRegistry creates a new empty registry whose keys are trimmed and lowercased.
func NewFoldedRegistry[V any]() *StringRegistry[V] {
	return &StringRegistry[V]{
		items:     make(map[string]V),
		normalize: func(s string) string { return strings.ToLower(strings.TrimSpace(s)) },
	}
}

// Set stores a value by key if the key doesn't exist.
// Returns false if the key was already present; the stored value is kept.
func (r *StringRegistry[V]) Set(key string, value V) bool {
	key = r.normalize(key)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[key]; exists {
		return false
	}
	r.items[key] = value
	return true
}

// Get retrieves a value by key.
func (r *StringRegistry[V]) Get(key string) (V, bool) {
	key = r.normalize(key)
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[key]
	return v, ok
}

// Has checks if a key exists.
func (r *StringRegistry[V]) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Len returns the number of registered values.
func (r *StringRegistry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Keys returns all keys, sorted alphabetically.
func (r *StringRegistry[V]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedKeys()
}

// Values returns all values, sorted by key.
func (r *StringRegistry[V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := r.sortedKeys()
	values := make([]V, 0, len(keys))
	for _, k := range keys {
		values = append(values, r.items[k])
	}
	return values
}

// sortedKeys must be called with r.mu held.
func (r *StringRegistry[V]) sortedKeys() []string {
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

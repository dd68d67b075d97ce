// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package genericlsig provides the Template interface for precompiled
// contract templates. A template authorizes transactions through program
// evaluation only; its program is a fixed precompiled TEAL binary with the
// caller's parameters injected at known offsets.
//
// The set of templates is closed: Template has an unexported method that is
// only satisfied by embedding Base.
//
// To add a new template:
// 1. Create a new package in lsig/<template>/
// 2. Embed genericlsig.Base and implement Template and Provider
// 3. Register the provider via genericlsig.Register()
// 4. Add the Register call to lsig/all.go
package genericlsig

import (
	"encoding/base64"
	"fmt"

	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// Template is a contract template instance with its parameters bound.
// Implementations are immutable after construction, so all methods are safe
// for concurrent use.
type Template interface {
	// KeyType returns the provider key type (e.g., "split-v1").
	KeyType() string

	// ProgramBytes returns the patched program.
	ProgramBytes() ([]byte, error)

	// Program returns the patched program as standard base64.
	Program() (string, error)

	// Address returns the contract account address of the program.
	Address() (string, error)

	template()
}

// Base is embedded by every Template implementation.
type Base struct{}

func (Base) template() {}

// Provider extends lsigprovider.LSigProvider with instance construction.
type Provider interface {
	lsigprovider.LSigProvider

	// New builds a template instance from string parameters, as read from a
	// parameter file. Defaults are applied and parameters validated first.
	New(params map[string]string) (Template, error)
}

// Definition is the constant part of a template: the original precompiled
// program and its placeholder table. Definitions are declared once per
// template package and never modified.
type Definition struct {
	Program      string // Standard base64 of the original program
	Placeholders []tealsubst.Placeholder
}

// Generate injects values into a freshly decoded copy of the original program.
func (d Definition) Generate(values ...tealsubst.Value) ([]byte, error) {
	original, err := base64.StdEncoding.DecodeString(d.Program)
	if err != nil {
		return nil, fmt.Errorf("corrupt template program: %w", err)
	}
	return tealsubst.Inject(original, d.Placeholders, values)
}

// Original returns a decoded copy of the original program.
func (d Definition) Original() ([]byte, error) {
	return base64.StdEncoding.DecodeString(d.Program)
}

// Program returns the base64 program of t.
func Program(t Template) (string, error) {
	program, err := t.ProgramBytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(program), nil
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package dynamicfee

import (
	"encoding/base64"
	"sync"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
)

const (
	family    = "dynamicfee"
	versionV1 = "dynamicfee-v1"
)

// Compile-time check that DynamicFeeTemplate implements Provider
var _ genericlsig.Provider = (*DynamicFeeTemplate)(nil)

// DynamicFeeTemplate describes dynamic fee delegations.
type DynamicFeeTemplate struct{}

// Identity methods
func (t *DynamicFeeTemplate) KeyType() string { return versionV1 }
func (t *DynamicFeeTemplate) Family() string  { return family }
func (t *DynamicFeeTemplate) Version() int    { return 1 }

// Display methods
func (t *DynamicFeeTemplate) DisplayName() string { return "Dynamic Fee" }
func (t *DynamicFeeTemplate) Description() string {
	return "Delegate a single payment whose fee is chosen and reimbursed by the submitter"
}
func (t *DynamicFeeTemplate) DisplayColor() string { return "36" } // Cyan

// RuntimeArgs returns nil: authorization comes from the delegating signature.
func (t *DynamicFeeTemplate) RuntimeArgs() []lsigprovider.RuntimeArgDef { return nil }

// BuildArgs assembles the LogicSig Args array (always empty).
func (t *DynamicFeeTemplate) BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error) {
	return lsigprovider.BuildArgs(t.RuntimeArgs(), runtimeArgs)
}

// CreationParams returns the parameter definitions for dynamic fee contracts
func (t *DynamicFeeTemplate) CreationParams() []lsigprovider.ParameterDef {
	return []lsigprovider.ParameterDef{
		{
			Name:        "receiver",
			Label:       "Receiver Address",
			Description: "Address receiving the payment",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "amount",
			Label:       "Amount",
			Description: "Payment amount in microAlgos",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "first_valid",
			Label:       "First Valid Round",
			Description: "First round the payment is valid",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "last_valid",
			Label:       "Last Valid Round",
			Description: "Last round the payment is valid (default first_valid + 1000)",
			Type:        lsigprovider.TypeUint64,
		},
		{
			Name:        "close_remainder_to",
			Label:       "Close Remainder To",
			Description: "Address receiving the payer's remaining balance, if closing",
			Type:        lsigprovider.TypeAddress,
		},
		{
			Name:        "lease",
			Label:       "Lease",
			Description: "Base64 lease of an existing contract (random if omitted)",
			Type:        lsigprovider.TypeBytes,
			ByteLength:  genericlsig.LeaseLength,
		},
	}
}

// ValidateCreationParams validates the dynamic fee parameters
func (t *DynamicFeeTemplate) ValidateCreationParams(params map[string]string) error {
	return lsigprovider.ValidateParams(t.CreationParams(), lsigprovider.WithDefaults(t.CreationParams(), params))
}

// New builds a dynamic fee contract from string parameters. A lease
// parameter reproduces an existing contract; without one a new lease is drawn.
func (t *DynamicFeeTemplate) New(params map[string]string) (genericlsig.Template, error) {
	params = lsigprovider.WithDefaults(t.CreationParams(), params)
	if err := lsigprovider.ValidateParams(t.CreationParams(), params); err != nil {
		return nil, err
	}

	p := Params{
		Receiver:         params["receiver"],
		CloseRemainderTo: params["close_remainder_to"],
	}
	for name, dst := range map[string]*uint64{
		"amount":      &p.Amount,
		"first_valid": &p.FirstValid,
		"last_valid":  &p.LastValid,
	} {
		v, err := lsigprovider.ParseUint64(params, name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	if encoded := params["lease"]; encoded != "" {
		raw, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, err
		}
		var lease [genericlsig.LeaseLength]byte
		copy(lease[:], raw)
		return NewWithLease(p, lease)
	}
	return New(p)
}

var registerTemplateOnce sync.Once

// RegisterTemplate registers the dynamic fee template with the genericlsig registry.
// This is idempotent and safe to call multiple times.
func RegisterTemplate() {
	registerTemplateOnce.Do(func() {
		genericlsig.Register(&DynamicFeeTemplate{})
	})
}

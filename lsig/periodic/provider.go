// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package periodic

import (
	"encoding/base64"
	"sync"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
)

const (
	family    = "periodic"
	versionV1 = "periodic-v1"
)

// Compile-time check that PeriodicTemplate implements Provider
var _ genericlsig.Provider = (*PeriodicTemplate)(nil)

// PeriodicTemplate describes periodic payment contracts.
type PeriodicTemplate struct{}

// Identity methods
func (t *PeriodicTemplate) KeyType() string { return versionV1 }
func (t *PeriodicTemplate) Family() string  { return family }
func (t *PeriodicTemplate) Version() int    { return 1 }

// Display methods
func (t *PeriodicTemplate) DisplayName() string { return "Periodic Payment" }
func (t *PeriodicTemplate) Description() string {
	return "Release a fixed amount to a receiver once every period"
}
func (t *PeriodicTemplate) DisplayColor() string { return "32" } // Green

// RuntimeArgs returns nil: the contract only checks transaction fields.
func (t *PeriodicTemplate) RuntimeArgs() []lsigprovider.RuntimeArgDef { return nil }

// BuildArgs assembles the LogicSig Args array (always empty).
func (t *PeriodicTemplate) BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error) {
	return lsigprovider.BuildArgs(t.RuntimeArgs(), runtimeArgs)
}

// CreationParams returns the parameter definitions for periodic payments
func (t *PeriodicTemplate) CreationParams() []lsigprovider.ParameterDef {
	return []lsigprovider.ParameterDef{
		{
			Name:        "receiver",
			Label:       "Receiver Address",
			Description: "Address receiving each withdrawal",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "amount",
			Label:       "Amount",
			Description: "microAlgos released per period",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "period",
			Label:       "Period",
			Description: "Rounds between withdrawals",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Min:         lsigprovider.Uint64Ptr(1),
		},
		{
			Name:        "withdrawing_window",
			Label:       "Withdrawing Window",
			Description: "Rounds a withdrawal stays valid after the period starts",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Max:         lsigprovider.Uint64Ptr(MaxWithdrawingWindow),
		},
		{
			Name:        "timeout",
			Label:       "Timeout Round",
			Description: "Round after which the receiver can close out the account",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "fee",
			Label:       "Maximum Fee",
			Description: "Upper bound on each transaction fee, in microAlgos",
			Type:        lsigprovider.TypeUint64,
			Default:     "1000",
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

// ValidateCreationParams validates the periodic payment parameters
func (t *PeriodicTemplate) ValidateCreationParams(params map[string]string) error {
	return lsigprovider.ValidateParams(t.CreationParams(), lsigprovider.WithDefaults(t.CreationParams(), params))
}

// New builds a periodic payment from string parameters.
func (t *PeriodicTemplate) New(params map[string]string) (genericlsig.Template, error) {
	params = lsigprovider.WithDefaults(t.CreationParams(), params)
	if err := lsigprovider.ValidateParams(t.CreationParams(), params); err != nil {
		return nil, err
	}

	p := Params{Receiver: params["receiver"]}
	for name, dst := range map[string]*uint64{
		"amount":             &p.Amount,
		"period":             &p.Period,
		"withdrawing_window": &p.WithdrawingWindow,
		"timeout":            &p.Timeout,
		"fee":                &p.Fee,
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

// RegisterTemplate registers the periodic payment template with the genericlsig registry.
// This is idempotent and safe to call multiple times.
func RegisterTemplate() {
	registerTemplateOnce.Do(func() {
		genericlsig.Register(&PeriodicTemplate{})
	})
}

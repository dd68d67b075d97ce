// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package split

import (
	"sync"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
)

const (
	family    = "split"
	versionV1 = "split-v1"
)

// Compile-time check that SplitTemplate implements Provider
var _ genericlsig.Provider = (*SplitTemplate)(nil)

// SplitTemplate describes split contracts and builds them from parameters.
type SplitTemplate struct{}

// Identity methods
func (t *SplitTemplate) KeyType() string { return versionV1 }
func (t *SplitTemplate) Family() string  { return family }
func (t *SplitTemplate) Version() int    { return 1 }

// Display methods
func (t *SplitTemplate) DisplayName() string { return "Split" }
func (t *SplitTemplate) Description() string {
	return "Pay out locked funds to two receivers in a fixed ratio"
}
func (t *SplitTemplate) DisplayColor() string { return "33" } // Yellow

// RuntimeArgs returns nil: the split contract only checks transaction fields.
func (t *SplitTemplate) RuntimeArgs() []lsigprovider.RuntimeArgDef { return nil }

// BuildArgs assembles the LogicSig Args array (always empty).
func (t *SplitTemplate) BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error) {
	return lsigprovider.BuildArgs(t.RuntimeArgs(), runtimeArgs)
}

// CreationParams returns the parameter definitions for split contracts
func (t *SplitTemplate) CreationParams() []lsigprovider.ParameterDef {
	return []lsigprovider.ParameterDef{
		{
			Name:        "owner",
			Label:       "Owner Address",
			Description: "Address that can close the account after the expiry round",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "receiver_1",
			Label:       "First Receiver",
			Description: "Address receiving ratn/ratd of every payout",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "receiver_2",
			Label:       "Second Receiver",
			Description: "Address receiving the rest of every payout",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "ratn",
			Label:       "Ratio Numerator",
			Description: "Numerator of the first receiver's share",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Example:     "30",
		},
		{
			Name:        "ratd",
			Label:       "Ratio Denominator",
			Description: "Denominator of the first receiver's share",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Example:     "100",
			Min:         lsigprovider.Uint64Ptr(1),
		},
		{
			Name:        "expiry_round",
			Label:       "Expiry Round",
			Description: "Round after which the owner can reclaim the funds",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "min_pay",
			Label:       "Minimum Payment",
			Description: "Minimum payout to the first receiver, in microAlgos",
			Type:        lsigprovider.TypeUint64,
			Default:     "0",
		},
		{
			Name:        "max_fee",
			Label:       "Maximum Fee",
			Description: "Upper bound on each transaction fee, in microAlgos",
			Type:        lsigprovider.TypeUint64,
			Default:     "2000",
		},
	}
}

// ValidateCreationParams validates the split parameters
func (t *SplitTemplate) ValidateCreationParams(params map[string]string) error {
	return lsigprovider.ValidateParams(t.CreationParams(), lsigprovider.WithDefaults(t.CreationParams(), params))
}

// New builds a split contract from string parameters.
func (t *SplitTemplate) New(params map[string]string) (genericlsig.Template, error) {
	params = lsigprovider.WithDefaults(t.CreationParams(), params)
	if err := lsigprovider.ValidateParams(t.CreationParams(), params); err != nil {
		return nil, err
	}

	p := Params{
		Owner:     params["owner"],
		Receiver1: params["receiver_1"],
		Receiver2: params["receiver_2"],
	}
	for name, dst := range map[string]*uint64{
		"ratn":         &p.Ratn,
		"ratd":         &p.Ratd,
		"expiry_round": &p.ExpiryRound,
		"min_pay":      &p.MinPay,
		"max_fee":      &p.MaxFee,
	} {
		v, err := lsigprovider.ParseUint64(params, name)
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	return New(p)
}

var registerTemplateOnce sync.Once

// RegisterTemplate registers the split template with the genericlsig registry.
// This is idempotent and safe to call multiple times.
func RegisterTemplate() {
	registerTemplateOnce.Do(func() {
		genericlsig.Register(&SplitTemplate{})
	})
}

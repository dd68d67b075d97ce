// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package limitorder

import (
	"sync"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
)

const (
	family    = "limitorder"
	versionV1 = "limitorder-v1"
)

// Compile-time check that LimitOrderTemplate implements Provider
var _ genericlsig.Provider = (*LimitOrderTemplate)(nil)

// LimitOrderTemplate describes limit order contracts.
type LimitOrderTemplate struct{}

// Identity methods
func (t *LimitOrderTemplate) KeyType() string { return versionV1 }
func (t *LimitOrderTemplate) Family() string  { return family }
func (t *LimitOrderTemplate) Version() int    { return 1 }

// Display methods
func (t *LimitOrderTemplate) DisplayName() string { return "Limit Order" }
func (t *LimitOrderTemplate) Description() string {
	return "Sell Algos for an asset at no worse than a fixed ratio"
}
func (t *LimitOrderTemplate) DisplayColor() string { return "34" } // Blue

// RuntimeArgs returns nil: the contract only checks the trade group.
func (t *LimitOrderTemplate) RuntimeArgs() []lsigprovider.RuntimeArgDef { return nil }

// BuildArgs assembles the LogicSig Args array (always empty).
func (t *LimitOrderTemplate) BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error) {
	return lsigprovider.BuildArgs(t.RuntimeArgs(), runtimeArgs)
}

// CreationParams returns the parameter definitions for limit orders
func (t *LimitOrderTemplate) CreationParams() []lsigprovider.ParameterDef {
	return []lsigprovider.ParameterDef{
		{
			Name:        "owner",
			Label:       "Owner Address",
			Description: "Address receiving the asset and, after expiry, the remaining Algos",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "asset_id",
			Label:       "Asset ID",
			Description: "Asset bought with the contract's Algos",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Min:         lsigprovider.Uint64Ptr(1),
		},
		{
			Name:        "ratn",
			Label:       "Ratio Numerator",
			Description: "Asset units per ratd microAlgos",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Min:         lsigprovider.Uint64Ptr(1),
		},
		{
			Name:        "ratd",
			Label:       "Ratio Denominator",
			Description: "microAlgos per ratn asset units",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
			Min:         lsigprovider.Uint64Ptr(1),
		},
		{
			Name:        "expiry_round",
			Label:       "Expiry Round",
			Description: "Round after which the owner can close the order",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "min_trade",
			Label:       "Minimum Trade",
			Description: "Trades must pay out more than this many microAlgos",
			Type:        lsigprovider.TypeUint64,
			Default:     "0",
		},
		{
			Name:        "max_fee",
			Label:       "Maximum Fee",
			Description: "Upper bound on the contract transaction fee, in microAlgos",
			Type:        lsigprovider.TypeUint64,
			Default:     "2000",
		},
	}
}

// ValidateCreationParams validates the limit order parameters
func (t *LimitOrderTemplate) ValidateCreationParams(params map[string]string) error {
	return lsigprovider.ValidateParams(t.CreationParams(), lsigprovider.WithDefaults(t.CreationParams(), params))
}

// New builds a limit order from string parameters.
func (t *LimitOrderTemplate) New(params map[string]string) (genericlsig.Template, error) {
	params = lsigprovider.WithDefaults(t.CreationParams(), params)
	if err := lsigprovider.ValidateParams(t.CreationParams(), params); err != nil {
		return nil, err
	}

	p := Params{Owner: params["owner"]}
	for name, dst := range map[string]*uint64{
		"asset_id":     &p.AssetID,
		"ratn":         &p.Ratn,
		"ratd":         &p.Ratd,
		"expiry_round": &p.ExpiryRound,
		"min_trade":    &p.MinTrade,
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

// RegisterTemplate registers the limit order template with the genericlsig registry.
// This is idempotent and safe to call multiple times.
func RegisterTemplate() {
	registerTemplateOnce.Do(func() {
		genericlsig.Register(&LimitOrderTemplate{})
	})
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package htlc

import (
	"sync"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
)

const (
	family    = "htlc"
	versionV1 = "htlc-v1"
)

// Compile-time check that HTLCTemplate implements Provider
var _ genericlsig.Provider = (*HTLCTemplate)(nil)

// HTLCTemplate describes hash time locked contracts.
type HTLCTemplate struct{}

// Identity methods
func (t *HTLCTemplate) KeyType() string { return versionV1 }
func (t *HTLCTemplate) Family() string  { return family }
func (t *HTLCTemplate) Version() int    { return 1 }

// Display methods
func (t *HTLCTemplate) DisplayName() string { return "Hash Time Lock" }
func (t *HTLCTemplate) Description() string {
	return "Release funds to a receiver who reveals a preimage, or to the owner after expiry"
}
func (t *HTLCTemplate) DisplayColor() string { return "35" } // Magenta

// RuntimeArgs returns the preimage, which is only needed on the claim path.
func (t *HTLCTemplate) RuntimeArgs() []lsigprovider.RuntimeArgDef {
	return []lsigprovider.RuntimeArgDef{
		{
			Name:        "preimage",
			Label:       "Preimage",
			Description: "Secret whose hash equals the hash image (omit for refunds)",
			Type:        lsigprovider.TypeBytes,
		},
	}
}

// BuildArgs assembles the LogicSig Args array: [preimage] or empty.
func (t *HTLCTemplate) BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error) {
	return lsigprovider.BuildArgs(t.RuntimeArgs(), runtimeArgs)
}

// CreationParams returns the parameter definitions for HTLCs
func (t *HTLCTemplate) CreationParams() []lsigprovider.ParameterDef {
	return []lsigprovider.ParameterDef{
		{
			Name:        "owner",
			Label:       "Owner Address",
			Description: "Address that can reclaim the funds after the expiry round",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "receiver",
			Label:       "Receiver Address",
			Description: "Address that can claim the funds with the preimage",
			Type:        lsigprovider.TypeAddress,
			Required:    true,
		},
		{
			Name:        "hash_function",
			Label:       "Hash Function",
			Description: "Hash applied to the preimage",
			Type:        lsigprovider.TypeString,
			Choices:     []string{SHA256, Keccak256},
			Default:     SHA256,
		},
		{
			Name:        "hash_image",
			Label:       "Hash Image",
			Description: "Base64 digest the preimage must hash to",
			Type:        lsigprovider.TypeBytes,
			Required:    true,
			ByteLength:  32,
		},
		{
			Name:        "expiry_round",
			Label:       "Expiry Round",
			Description: "Round after which the owner can reclaim the funds",
			Type:        lsigprovider.TypeUint64,
			Required:    true,
		},
		{
			Name:        "max_fee",
			Label:       "Maximum Fee",
			Description: "Upper bound on the transaction fee, in microAlgos",
			Type:        lsigprovider.TypeUint64,
			Default:     "2000",
		},
	}
}

// ValidateCreationParams validates the HTLC parameters
func (t *HTLCTemplate) ValidateCreationParams(params map[string]string) error {
	return lsigprovider.ValidateParams(t.CreationParams(), lsigprovider.WithDefaults(t.CreationParams(), params))
}

// New builds an HTLC from string parameters.
func (t *HTLCTemplate) New(params map[string]string) (genericlsig.Template, error) {
	params = lsigprovider.WithDefaults(t.CreationParams(), params)
	if err := lsigprovider.ValidateParams(t.CreationParams(), params); err != nil {
		return nil, err
	}

	expiry, err := lsigprovider.ParseUint64(params, "expiry_round")
	if err != nil {
		return nil, err
	}
	maxFee, err := lsigprovider.ParseUint64(params, "max_fee")
	if err != nil {
		return nil, err
	}

	return New(Params{
		Owner:        params["owner"],
		Receiver:     params["receiver"],
		HashFunction: params["hash_function"],
		HashImage:    params["hash_image"],
		ExpiryRound:  expiry,
		MaxFee:       maxFee,
	})
}

var registerTemplateOnce sync.Once

// RegisterTemplate registers the HTLC template with the genericlsig registry.
// This is idempotent and safe to call multiple times.
func RegisterTemplate() {
	registerTemplateOnce.Do(func() {
		genericlsig.Register(&HTLCTemplate{})
	})
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package htlc

import (
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
)

// ClaimTransaction returns the signed close-to-receiver transaction carrying
// preimage as LogicSig arg 0. The preimage is checked before signing.
func (h *HTLC) ClaimTransaction(preimage []byte, sp types.SuggestedParams) (types.SignedTxn, error) {
	if err := h.VerifyPreimage(preimage); err != nil {
		return types.SignedTxn{}, err
	}
	return h.closeTo(h.receiver, map[string][]byte{"preimage": preimage}, sp)
}

// RefundTransaction returns the signed close-to-owner transaction.
// sp.FirstRoundValid must be past the expiry round.
func (h *HTLC) RefundTransaction(sp types.SuggestedParams) (types.SignedTxn, error) {
	if uint64(sp.FirstRoundValid) <= h.params.ExpiryRound {
		return types.SignedTxn{}, fmt.Errorf("%w: first valid round %d, expiry round %d",
			ErrNotExpired, sp.FirstRoundValid, h.params.ExpiryRound)
	}
	return h.closeTo(h.owner, nil, sp)
}

// closeTo builds the zero-amount payment to the zero address that closes the
// contract account to dest, as both spending paths require.
func (h *HTLC) closeTo(dest types.Address, runtimeArgs map[string][]byte, sp types.SuggestedParams) (types.SignedTxn, error) {
	lsa, err := genericlsig.LogicSigAccount(h, &HTLCTemplate{}, runtimeArgs)
	if err != nil {
		return types.SignedTxn{}, err
	}
	contract, err := lsa.Address()
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to derive contract address: %w", err)
	}

	txn, err := transaction.MakePaymentTxn(contract.String(), types.Address{}.String(), 0, nil, dest.String(), sp)
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to create close transaction: %w", err)
	}
	if uint64(txn.Fee) > h.params.MaxFee {
		return types.SignedTxn{}, fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, txn.Fee, h.params.MaxFee)
	}
	return genericlsig.SignWithLogicSig(lsa, txn)
}

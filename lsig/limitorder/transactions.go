// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package limitorder

import (
	"crypto/ed25519"
	"fmt"
	"math/bits"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// CheckTrade reports whether exchanging assetAmount units for microAlgoAmount
// satisfies the order. The products are compared at 128 bits, as the
// contract does with mulw.
func (l *LimitOrder) CheckTrade(assetAmount, microAlgoAmount uint64) error {
	if microAlgoAmount <= l.params.MinTrade {
		return fmt.Errorf("%w: %d <= %d", ErrBelowMinTrade, microAlgoAmount, l.params.MinTrade)
	}
	if !productAtLeast(assetAmount, l.params.Ratd, microAlgoAmount, l.params.Ratn) {
		return fmt.Errorf("%w: %d units for %d microAlgos at %d/%d",
			ErrRatio, assetAmount, microAlgoAmount, l.params.Ratn, l.params.Ratd)
	}
	return nil
}

// productAtLeast reports a*b >= c*d without overflow.
func productAtLeast(a, b, c, d uint64) bool {
	hi1, lo1 := bits.Mul64(a, b)
	hi2, lo2 := bits.Mul64(c, d)
	if hi1 != hi2 {
		return hi1 > hi2
	}
	return lo1 >= lo2
}

// SwapAssetsTransactions returns the signed trade group: microAlgoAmount from
// the contract to the buyer, and assetAmount units from the buyer to the
// owner. The first is authorized by the contract, the second by buyerSK.
func (l *LimitOrder) SwapAssetsTransactions(assetAmount, microAlgoAmount uint64, buyerSK ed25519.PrivateKey, sp types.SuggestedParams) ([]types.SignedTxn, error) {
	if err := l.CheckTrade(assetAmount, microAlgoAmount); err != nil {
		return nil, err
	}

	lsa, err := genericlsig.LogicSigAccount(l, &LimitOrderTemplate{}, nil)
	if err != nil {
		return nil, err
	}
	contract, err := lsa.Address()
	if err != nil {
		return nil, fmt.Errorf("failed to derive contract address: %w", err)
	}
	var buyer types.Address
	copy(buyer[:], buyerSK.Public().(ed25519.PublicKey))

	payment, err := transaction.MakePaymentTxn(contract.String(), buyer.String(), microAlgoAmount, nil, "", sp)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment to buyer: %w", err)
	}
	if uint64(payment.Fee) > l.params.MaxFee {
		return nil, fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, payment.Fee, l.params.MaxFee)
	}
	transfer, err := transaction.MakeAssetTransferTxn(buyer.String(), l.owner.String(), assetAmount, nil, sp, "", l.params.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset transfer to owner: %w", err)
	}

	txns := []types.Transaction{payment, transfer}
	if err := genericlsig.AssignGroup(txns); err != nil {
		return nil, err
	}

	util.Debug("limit order trade", "contract", contract.String(), "buyer", buyer.String(),
		"asset_amount", assetAmount, "microalgo_amount", microAlgoAmount)

	signedPayment, err := genericlsig.SignWithLogicSig(lsa, txns[0])
	if err != nil {
		return nil, err
	}
	signedTransfer, err := genericlsig.SignWithKey(buyerSK, txns[1])
	if err != nil {
		return nil, err
	}
	return []types.SignedTxn{signedPayment, signedTransfer}, nil
}

// CloseoutTransaction returns the signed transaction that closes the
// contract to the owner. sp.FirstRoundValid must be past the expiry round.
func (l *LimitOrder) CloseoutTransaction(sp types.SuggestedParams) (types.SignedTxn, error) {
	if uint64(sp.FirstRoundValid) <= l.params.ExpiryRound {
		return types.SignedTxn{}, fmt.Errorf("%w: first valid round %d, expiry round %d",
			ErrNotExpired, sp.FirstRoundValid, l.params.ExpiryRound)
	}

	lsa, err := genericlsig.LogicSigAccount(l, &LimitOrderTemplate{}, nil)
	if err != nil {
		return types.SignedTxn{}, err
	}
	contract, err := lsa.Address()
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to derive contract address: %w", err)
	}

	txn, err := transaction.MakePaymentTxn(contract.String(), types.Address{}.String(), 0, nil, l.owner.String(), sp)
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to create close transaction: %w", err)
	}
	if uint64(txn.Fee) > l.params.MaxFee {
		return types.SignedTxn{}, fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, txn.Fee, l.params.MaxFee)
	}
	return genericlsig.SignWithLogicSig(lsa, txn)
}

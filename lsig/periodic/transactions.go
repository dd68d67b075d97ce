// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package periodic

import (
	"fmt"
	"math/bits"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// WithdrawalTransaction returns the signed payment of one period's amount
// to the receiver. firstValid must be a multiple of the period.
func (pp *PeriodicPayment) WithdrawalTransaction(firstValid uint64, genesisID string, genesisHash []byte) (types.SignedTxn, error) {
	return pp.spend(firstValid, genesisID, genesisHash, pp.receiver, pp.params.Amount, types.Address{})
}

// CloseoutTransaction returns the signed transaction that closes the account
// to the receiver. firstValid must be a multiple of the period and past the
// timeout round.
func (pp *PeriodicPayment) CloseoutTransaction(firstValid uint64, genesisID string, genesisHash []byte) (types.SignedTxn, error) {
	if firstValid <= pp.params.Timeout {
		return types.SignedTxn{}, fmt.Errorf("%w: first valid round %d, timeout %d", ErrBeforeTimeout, firstValid, pp.params.Timeout)
	}
	return pp.spend(firstValid, genesisID, genesisHash, types.Address{}, 0, pp.receiver)
}

// spend builds a payment satisfying the checks shared by both paths: fee
// bound, period start, exact validity window and lease.
func (pp *PeriodicPayment) spend(firstValid uint64, genesisID string, genesisHash []byte, to types.Address, amount uint64, closeTo types.Address) (types.SignedTxn, error) {
	if firstValid%pp.params.Period != 0 {
		return types.SignedTxn{}, fmt.Errorf("%w: %d is not a multiple of %d", ErrNotPeriodStart, firstValid, pp.params.Period)
	}
	lastValid, carry := bits.Add64(firstValid, pp.params.WithdrawingWindow, 0)
	if carry != 0 {
		return types.SignedTxn{}, fmt.Errorf("%w: window of %d rounds from %d overflows", ErrInvalidWindow, pp.params.WithdrawingWindow, firstValid)
	}

	lsa, err := genericlsig.LogicSigAccount(pp, &PeriodicTemplate{}, nil)
	if err != nil {
		return types.SignedTxn{}, err
	}
	contract, err := lsa.Address()
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to derive contract address: %w", err)
	}

	sp := types.SuggestedParams{
		FlatFee:         true,
		Fee:             types.MicroAlgos(pp.params.Fee),
		FirstRoundValid: types.Round(firstValid),
		LastRoundValid:  types.Round(lastValid),
		GenesisID:       genesisID,
		GenesisHash:     genesisHash,
	}

	var closeRemainderTo string
	if closeTo != (types.Address{}) {
		closeRemainderTo = closeTo.String()
	}
	txn, err := transaction.MakePaymentTxn(contract.String(), to.String(), amount, nil, closeRemainderTo, sp)
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to create payment: %w", err)
	}
	txn.Lease = pp.lease

	util.Debug("periodic payment", "contract", contract.String(), "first_valid", firstValid, "amount", amount, "close", closeRemainderTo != "")

	return genericlsig.SignWithLogicSig(lsa, txn)
}

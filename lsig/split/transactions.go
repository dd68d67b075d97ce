// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package split

import (
	"fmt"
	"math/bits"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// SplitAmount divides amount between the two receivers by ratn/ratd, reduced
// by their greatest common divisor. When amount is not a multiple of the
// reduced denominator, precise returns ErrNotDivisible; otherwise the first
// share is rounded half up and the second receives the remainder.
// The two shares always sum to amount.
func SplitAmount(amount, ratn, ratd uint64, precise bool) (uint64, uint64, error) {
	if ratd == 0 || ratn > ratd {
		return 0, 0, fmt.Errorf("%w: %d/%d", ErrInvalidRatio, ratn, ratd)
	}

	g := gcd(ratn, ratd)
	ratn /= g
	ratd /= g

	if amount%ratd == 0 {
		amt1 := amount / ratd * ratn
		return amt1, amount - amt1, nil
	}
	if precise {
		return 0, 0, fmt.Errorf("%w: %d by %d/%d", ErrNotDivisible, amount, ratn, ratd)
	}

	// ratn < ratd here, so the high word of amount*ratn is below ratd and
	// Div64 cannot overflow.
	hi, lo := bits.Mul64(amount, ratn)
	amt1, rem := bits.Div64(hi, lo, ratd)
	if rem >= ratd-rem {
		amt1++
	}
	return amt1, amount - amt1, nil
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// SendFundsTransactions returns the signed two-payment group that pays amount
// out of the contract according to its ratio. The group is authorized by the
// contract program; sp supplies the fee, validity window and genesis hash.
// Each payment's fee must not exceed max_fee.
func (s *Split) SendFundsTransactions(amount uint64, sp types.SuggestedParams, precise bool) ([]types.SignedTxn, error) {
	amt1, amt2, err := SplitAmount(amount, s.params.Ratn, s.params.Ratd, precise)
	if err != nil {
		return nil, err
	}

	lsa, err := genericlsig.LogicSigAccount(s, &SplitTemplate{}, nil)
	if err != nil {
		return nil, err
	}
	contract, err := lsa.Address()
	if err != nil {
		return nil, fmt.Errorf("failed to derive contract address: %w", err)
	}

	txn1, err := transaction.MakePaymentTxn(contract.String(), s.receiver1.String(), amt1, nil, "", sp)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment to receiver_1: %w", err)
	}
	txn2, err := transaction.MakePaymentTxn(contract.String(), s.receiver2.String(), amt2, nil, "", sp)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment to receiver_2: %w", err)
	}
	for _, txn := range []types.Transaction{txn1, txn2} {
		if uint64(txn.Fee) > s.params.MaxFee {
			return nil, fmt.Errorf("%w: %d > %d", ErrFeeTooHigh, txn.Fee, s.params.MaxFee)
		}
	}

	util.Debug("split payout", "contract", contract.String(), "amount_1", amt1, "amount_2", amt2)

	return genericlsig.SignGroupWithLogicSig(lsa, []types.Transaction{txn1, txn2})
}

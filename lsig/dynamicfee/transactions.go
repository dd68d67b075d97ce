// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package dynamicfee

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// Sign delegates the contract to the account of sk. The returned account
// is handed to whoever will submit the payment.
func (d *DynamicFee) Sign(sk ed25519.PrivateKey) (crypto.LogicSigAccount, error) {
	args, err := (&DynamicFeeTemplate{}).BuildArgs(nil)
	if err != nil {
		return crypto.LogicSigAccount{}, err
	}
	program, err := d.ProgramBytes()
	if err != nil {
		return crypto.LogicSigAccount{}, err
	}
	lsa, err := crypto.MakeLogicSigAccountDelegated(program, args, sk)
	if err != nil {
		return crypto.LogicSigAccount{}, fmt.Errorf("failed to delegate contract: %w", err)
	}
	return lsa, nil
}

// Transactions builds the signed two-transaction group that executes the
// delegated payment in lsa. Both transactions pay a flat fee; the first,
// signed with feePayerSK, reimburses the payer for the second.
func (d *DynamicFee) Transactions(lsa crypto.LogicSigAccount, feePayerSK ed25519.PrivateKey, genesisID string, genesisHash []byte, fee uint64) ([]types.SignedTxn, error) {
	program, err := d.ProgramBytes()
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(lsa.Lsig.Logic, program) {
		return nil, ErrProgramMismatch
	}
	if len(lsa.SigningKey) == 0 {
		return nil, ErrNotDelegated
	}

	payer, err := lsa.Address()
	if err != nil {
		return nil, fmt.Errorf("failed to derive payer address: %w", err)
	}
	feePayer := addressFromKey(feePayerSK)

	sp := types.SuggestedParams{
		FlatFee:         true,
		Fee:             types.MicroAlgos(fee),
		FirstRoundValid: types.Round(d.params.FirstValid),
		LastRoundValid:  types.Round(d.params.LastValid),
		GenesisID:       genesisID,
		GenesisHash:     genesisHash,
	}

	var closeTo string
	if d.closeTo != (types.Address{}) {
		closeTo = d.closeTo.String()
	}
	payment, err := transaction.MakePaymentTxn(payer.String(), d.receiver.String(), d.params.Amount, nil, closeTo, sp)
	if err != nil {
		return nil, fmt.Errorf("failed to create delegated payment: %w", err)
	}
	payment.Lease = d.lease

	reimburse, err := transaction.MakePaymentTxn(feePayer.String(), payer.String(), uint64(payment.Fee), nil, "", sp)
	if err != nil {
		return nil, fmt.Errorf("failed to create fee reimbursement: %w", err)
	}

	txns := []types.Transaction{reimburse, payment}
	if err := genericlsig.AssignGroup(txns); err != nil {
		return nil, err
	}

	util.Debug("dynamic fee group", "payer", payer.String(), "fee_payer", feePayer.String(), "fee", uint64(payment.Fee))

	signedReimburse, err := genericlsig.SignWithKey(feePayerSK, txns[0])
	if err != nil {
		return nil, err
	}
	signedPayment, err := genericlsig.SignWithLogicSig(lsa, txns[1])
	if err != nil {
		return nil, err
	}
	return []types.SignedTxn{signedReimburse, signedPayment}, nil
}

func addressFromKey(sk ed25519.PrivateKey) types.Address {
	var addr types.Address
	copy(addr[:], sk.Public().(ed25519.PublicKey))
	return addr
}

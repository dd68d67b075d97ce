// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package genericlsig

import (
	"crypto/ed25519"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

// AssignGroup computes the group ID of txns and stores it in each transaction.
func AssignGroup(txns []types.Transaction) error {
	gid, err := crypto.ComputeGroupID(txns)
	if err != nil {
		return fmt.Errorf("failed to compute group ID: %w", err)
	}
	for i := range txns {
		txns[i].Group = gid
	}
	return nil
}

// SignWithLogicSig attaches the LogicSig of lsa to txn.
func SignWithLogicSig(lsa crypto.LogicSigAccount, txn types.Transaction) (types.SignedTxn, error) {
	_, signedBytes, err := crypto.SignLogicSigAccountTransaction(lsa, txn)
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to sign with LogicSig: %w", err)
	}
	return decodeSigned(signedBytes)
}

// SignWithKey signs txn with an ed25519 private key.
func SignWithKey(sk ed25519.PrivateKey, txn types.Transaction) (types.SignedTxn, error) {
	_, signedBytes, err := crypto.SignTransaction(sk, txn)
	if err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return decodeSigned(signedBytes)
}

// SignGroupWithLogicSig groups txns and authorizes every one with lsa.
func SignGroupWithLogicSig(lsa crypto.LogicSigAccount, txns []types.Transaction) ([]types.SignedTxn, error) {
	if err := AssignGroup(txns); err != nil {
		return nil, err
	}
	signed := make([]types.SignedTxn, len(txns))
	for i, txn := range txns {
		stxn, err := SignWithLogicSig(lsa, txn)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		signed[i] = stxn
	}
	return signed, nil
}

// EncodeGroup serializes signed transactions as concatenated msgpack, the
// format accepted by algod's raw transaction endpoint and goal.
func EncodeGroup(stxns []types.SignedTxn) []byte {
	var out []byte
	for _, stxn := range stxns {
		out = append(out, msgpack.Encode(stxn)...)
	}
	return out
}

func decodeSigned(signedBytes []byte) (types.SignedTxn, error) {
	var stxn types.SignedTxn
	if err := msgpack.Decode(signedBytes, &stxn); err != nil {
		return types.SignedTxn{}, fmt.Errorf("failed to decode signed transaction: %w", err)
	}
	return stxn, nil
}

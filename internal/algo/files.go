// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package algo

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	sdkjson "github.com/algorand/go-algorand-sdk/v2/encoding/json"
	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
)

// WriteSignedGroup writes stxns to path as concatenated msgpack, the format
// `goal clerk rawsend` accepts.
func WriteSignedGroup(path string, stxns []types.SignedTxn) error {
	if err := os.WriteFile(path, genericlsig.EncodeGroup(stxns), 0600); err != nil {
		return fmt.Errorf("failed to write signed transactions: %w", err)
	}
	return nil
}

// SignedGroupJSON renders stxns as an indented JSON array.
func SignedGroupJSON(stxns []types.SignedTxn) ([]byte, error) {
	out := make([]any, 0, len(stxns))
	for i, stxn := range stxns {
		// The SDK encoder honours codec field names; re-decode for indentation.
		var formatted any
		if err := json.Unmarshal(sdkjson.Encode(stxn), &formatted); err != nil {
			return nil, fmt.Errorf("transaction %d: failed to format: %w", i, err)
		}
		out = append(out, formatted)
	}
	return json.MarshalIndent(out, "", "  ")
}

// WriteLogicSigAccount writes a (possibly delegated) LogicSig account as msgpack.
func WriteLogicSigAccount(path string, lsa crypto.LogicSigAccount) error {
	if err := os.WriteFile(path, msgpack.Encode(lsa), 0600); err != nil {
		return fmt.Errorf("failed to write logic signature: %w", err)
	}
	return nil
}

// ReadLogicSigAccount reads a LogicSig account written by WriteLogicSigAccount.
func ReadLogicSigAccount(path string) (crypto.LogicSigAccount, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crypto.LogicSigAccount{}, fmt.Errorf("failed to read logic signature: %w", err)
	}
	var lsa crypto.LogicSigAccount
	if err := msgpack.Decode(data, &lsa); err != nil {
		return crypto.LogicSigAccount{}, fmt.Errorf("failed to decode logic signature: %w", err)
	}
	return lsa, nil
}

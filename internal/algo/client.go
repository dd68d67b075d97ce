// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package algo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// RequestTimeout bounds each algod request.
const RequestTimeout = 15 * time.Second

// GetAlgodClientWithConfig returns an algod client using config settings.
// Returns an error if config is nil or algod URL is not configured for the network.
func GetAlgodClientWithConfig(network string, config *util.Config) (*algod.Client, error) {
	if config == nil {
		return nil, fmt.Errorf("algod not configured: no config provided")
	}
	algodConfig, err := config.GetAlgodConfig(network)
	if err != nil {
		return nil, fmt.Errorf("algod not configured for %s: %w", network, err)
	}
	if algodConfig.Server == "" {
		return nil, fmt.Errorf("algod not configured: %s_algod_server is empty in config.yaml", network)
	}
	return algod.MakeClient(algodConfig.Address(), algodConfig.Token)
}

// SuggestedParams fetches the network's suggested parameters and applies
// the configured fee and validity window.
func SuggestedParams(ctx context.Context, client *algod.Client, config *util.Config) (types.SuggestedParams, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	sp, err := client.SuggestedParams().Do(ctx)
	if err != nil {
		return types.SuggestedParams{}, fmt.Errorf("failed to get suggested params: %w", err)
	}
	return ApplyConfig(sp, config), nil
}

// ApplyConfig overrides the fee and last valid round of sp from config.
func ApplyConfig(sp types.SuggestedParams, config *util.Config) types.SuggestedParams {
	if config == nil {
		return sp
	}
	if config.FlatFee > 0 {
		sp.FlatFee = true
		sp.Fee = types.MicroAlgos(config.FlatFee)
	}
	if config.ValidityRounds > 0 {
		sp.LastRoundValid = sp.FirstRoundValid + types.Round(config.ValidityRounds)
	}
	return sp
}

// SendGroup submits a signed group and returns the ID of its first transaction.
func SendGroup(ctx context.Context, client *algod.Client, stxns []types.SignedTxn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	txid, err := client.SendRawTransaction(genericlsig.EncodeGroup(stxns)).Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to send transaction group: %w", err)
	}
	util.Debug("submitted group", "txid", txid, "size", len(stxns))
	return txid, nil
}

// WaitForConfirmation waits up to maxRounds for txid and returns its confirmed round.
func WaitForConfirmation(ctx context.Context, client *algod.Client, txid string, maxRounds uint64) (uint64, error) {
	confirmed, err := transaction.WaitForConfirmation(client, txid, maxRounds, ctx)
	if err != nil {
		return 0, fmt.Errorf("confirmation failed: %w", err)
	}
	return confirmed.ConfirmedRound, nil
}

// ParseMicroAlgos converts a decimal Algo amount such as "1.5" to microAlgos.
func ParseMicroAlgos(algos string) (uint64, error) {
	return ConvertTokenAmountToBaseUnits(algos, util.MicroAlgoDecimals)
}

// ConvertTokenAmountToBaseUnits converts a decimal token amount to base
// units without floating point.
func ConvertTokenAmountToBaseUnits(tokenAmount string, decimals uint64) (uint64, error) {
	if tokenAmount == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(tokenAmount, "-") {
		return 0, fmt.Errorf("amount cannot be negative")
	}

	integerPart, fractionalPart, hasDot := strings.Cut(tokenAmount, ".")
	if hasDot && strings.Contains(fractionalPart, ".") {
		return 0, fmt.Errorf("invalid amount format: multiple decimal points")
	}
	if integerPart == "" {
		integerPart = "0"
	}
	if uint64(len(fractionalPart)) > decimals {
		return 0, fmt.Errorf("amount has too many decimal places (max %d)", decimals)
	}

	// "1.5" with 6 decimals -> "1" + "500000"
	baseUnitsStr := integerPart + fractionalPart + strings.Repeat("0", int(decimals)-len(fractionalPart))
	baseUnitsStr = strings.TrimLeft(baseUnitsStr, "0")
	if baseUnitsStr == "" {
		baseUnitsStr = "0"
	}

	baseUnits, err := strconv.ParseUint(baseUnitsStr, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("amount too large (exceeds uint64 capacity)")
		}
		return 0, fmt.Errorf("invalid amount format: %s", tokenAmount)
	}
	return baseUnits, nil
}

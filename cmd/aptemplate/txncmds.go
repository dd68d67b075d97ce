// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"math/bits"
	"strconv"

	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/algo"
	"github.com/aplane-algo/aptemplate/lsig/dynamicfee"
	"github.com/aplane-algo/aptemplate/lsig/htlc"
	"github.com/aplane-algo/aptemplate/lsig/limitorder"
	"github.com/aplane-algo/aptemplate/lsig/periodic"
	"github.com/aplane-algo/aptemplate/lsig/split"
)

func (a *app) cmdSplitSend(ctx context.Context, args []string) error {
	fs, o := newTxnFlagSet("split-send")
	approximate := fs.Bool("approximate", false, "Round the first share instead of requiring an exact split")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	s, err := loadTemplate[*split.Split](rest[0])
	if err != nil {
		return err
	}
	amount, err := algo.ParseMicroAlgos(rest[1])
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}

	stxns, err := s.SendFundsTransactions(amount, sp, !*approximate)
	if err != nil {
		return err
	}
	return a.emit(ctx, stxns, o)
}

func (a *app) cmdHTLCClaim(ctx context.Context, args []string) error {
	fs, o := newTxnFlagSet("htlc-claim")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	h, err := loadTemplate[*htlc.HTLC](rest[0])
	if err != nil {
		return err
	}
	preimage, err := base64.StdEncoding.DecodeString(rest[1])
	if err != nil {
		return fmt.Errorf("invalid preimage: %w", err)
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}

	stxn, err := h.ClaimTransaction(preimage, sp)
	if err != nil {
		return err
	}
	return a.emit(ctx, []types.SignedTxn{stxn}, o)
}

func (a *app) cmdHTLCRefund(ctx context.Context, args []string) error {
	fs, o := newTxnFlagSet("htlc-refund")
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	h, err := loadTemplate[*htlc.HTLC](rest[0])
	if err != nil {
		return err
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}

	stxn, err := h.RefundTransaction(sp)
	if err != nil {
		return err
	}
	return a.emit(ctx, []types.SignedTxn{stxn}, o)
}

// cmdDynamicFeeSign delegates a dynamic fee contract and saves the signed
// LogicSig account for the fee payer.
func (a *app) cmdDynamicFeeSign(args []string) error {
	fs := flag.NewFlagSet("dynamicfee-sign", flag.ContinueOnError)
	lsigPath := fs.String("lsig", "", "File to write the delegated LogicSig to (required)")
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}
	if *lsigPath == "" {
		return errUsage
	}

	d, err := loadTemplate[*dynamicfee.DynamicFee](rest[0])
	if err != nil {
		return err
	}
	sk, err := readPrivateKey(rest[1])
	if err != nil {
		return err
	}

	lsa, err := d.Sign(sk)
	if err != nil {
		return err
	}
	if err := algo.WriteLogicSigAccount(*lsigPath, lsa); err != nil {
		return err
	}
	payer, err := lsa.Address()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Delegated payment from %s written to %s\n", payer, *lsigPath)
	return nil
}

func (a *app) cmdDynamicFeeSend(ctx context.Context, args []string) error {
	fs, o := newTxnFlagSet("dynamicfee-send")
	fee := fs.Uint64("fee", 0, "Flat fee per transaction in microAlgos (0 = network suggested)")
	rest, err := parseArgs(fs, args, 3)
	if err != nil {
		return err
	}

	d, err := loadTemplate[*dynamicfee.DynamicFee](rest[0])
	if err != nil {
		return err
	}
	lsa, err := algo.ReadLogicSigAccount(rest[1])
	if err != nil {
		return err
	}
	sk, err := readPrivateKey(rest[2])
	if err != nil {
		return err
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}
	if *fee == 0 {
		*fee = uint64(sp.Fee)
		if !sp.FlatFee || *fee < transaction.MinTxnFee {
			*fee = transaction.MinTxnFee
		}
	}

	stxns, err := d.Transactions(lsa, sk, sp.GenesisID, sp.GenesisHash, *fee)
	if err != nil {
		return err
	}
	return a.emit(ctx, stxns, o)
}

// cmdPeriodic builds a withdrawal, or the close-out when closeout is set.
// The first valid round "next" picks the first period start at or after the
// network's current round.
func (a *app) cmdPeriodic(ctx context.Context, args []string, closeout bool) error {
	name := "periodic-withdraw"
	if closeout {
		name = "periodic-closeout"
	}
	fs, o := newTxnFlagSet(name)
	rest, err := parseArgs(fs, args, 2)
	if err != nil {
		return err
	}

	pp, err := loadTemplate[*periodic.PeriodicPayment](rest[0])
	if err != nil {
		return err
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}

	var firstValid uint64
	if rest[1] == "next" {
		firstValid, err = nextPeriodStart(uint64(sp.FirstRoundValid), pp.Params().Period)
		if err != nil {
			return err
		}
	} else {
		firstValid, err = strconv.ParseUint(rest[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid first valid round: %w", err)
		}
	}

	var stxn types.SignedTxn
	if closeout {
		stxn, err = pp.CloseoutTransaction(firstValid, sp.GenesisID, sp.GenesisHash)
	} else {
		stxn, err = pp.WithdrawalTransaction(firstValid, sp.GenesisID, sp.GenesisHash)
	}
	if err != nil {
		return err
	}
	return a.emit(ctx, []types.SignedTxn{stxn}, o)
}

// nextPeriodStart returns the smallest multiple of period not below round.
func nextPeriodStart(round, period uint64) (uint64, error) {
	rem := round % period
	if rem == 0 {
		return round, nil
	}
	next, carry := bits.Add64(round, period-rem, 0)
	if carry != 0 {
		return 0, fmt.Errorf("%w: no multiple of %d at or after round %d", periodic.ErrNotPeriodStart, period, round)
	}
	return next, nil
}

func (a *app) cmdLimitOrderSwap(ctx context.Context, args []string) error {
	fs, o := newTxnFlagSet("limitorder-swap")
	rest, err := parseArgs(fs, args, 4)
	if err != nil {
		return err
	}

	l, err := loadTemplate[*limitorder.LimitOrder](rest[0])
	if err != nil {
		return err
	}
	assetAmount, err := strconv.ParseUint(rest[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid asset amount: %w", err)
	}
	microAlgos, err := strconv.ParseUint(rest[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid microAlgo amount: %w", err)
	}
	sk, err := readPrivateKey(rest[3])
	if err != nil {
		return err
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}

	stxns, err := l.SwapAssetsTransactions(assetAmount, microAlgos, sk, sp)
	if err != nil {
		return err
	}
	return a.emit(ctx, stxns, o)
}

func (a *app) cmdLimitOrderClose(ctx context.Context, args []string) error {
	fs, o := newTxnFlagSet("limitorder-close")
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	l, err := loadTemplate[*limitorder.LimitOrder](rest[0])
	if err != nil {
		return err
	}
	sp, err := a.suggestedParams(ctx)
	if err != nil {
		return err
	}

	stxn, err := l.CloseoutTransaction(sp)
	if err != nil {
		return err
	}
	return a.emit(ctx, []types.SignedTxn{stxn}, o)
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"

	"github.com/algorand/go-algorand-sdk/v2/types"

	"github.com/aplane-algo/aptemplate/internal/algo"
	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// errUsage makes main print the usage text.
var errUsage = errors.New("usage")

// confirmRounds is how long -submit waits for the group to be confirmed.
const confirmRounds = 10

// app carries the state shared by all commands. Network access goes through
// the function fields so tests can replace it.
type app struct {
	out     io.Writer
	dataDir string
	config  util.Config
	network string

	suggestedParams func(ctx context.Context) (types.SuggestedParams, error)
	submit          func(ctx context.Context, stxns []types.SignedTxn) (txid string, round uint64, err error)
	readLine        func(prompt string) (string, error)
}

func newApp(out io.Writer, dataDir, network string) (*app, error) {
	config, err := util.LoadConfig(dataDir)
	if err != nil {
		return nil, err
	}
	if network == "" {
		network = config.Network
	}
	if !slices.Contains(util.Networks, network) {
		return nil, fmt.Errorf("invalid network '%s' (must be mainnet, testnet, or betanet)", network)
	}

	a := &app{
		out:     out,
		dataDir: dataDir,
		config:  config,
		network: network,
	}
	a.suggestedParams = a.algodSuggestedParams
	a.submit = a.algodSubmit
	return a, nil
}

func (a *app) algodSuggestedParams(ctx context.Context) (types.SuggestedParams, error) {
	client, err := algo.GetAlgodClientWithConfig(a.network, &a.config)
	if err != nil {
		return types.SuggestedParams{}, err
	}
	return algo.SuggestedParams(ctx, client, &a.config)
}

func (a *app) algodSubmit(ctx context.Context, stxns []types.SignedTxn) (string, uint64, error) {
	client, err := algo.GetAlgodClientWithConfig(a.network, &a.config)
	if err != nil {
		return "", 0, err
	}
	txid, err := algo.SendGroup(ctx, client, stxns)
	if err != nil {
		return "", 0, err
	}
	round, err := algo.WaitForConfirmation(ctx, client, txid, confirmRounds)
	if err != nil {
		return txid, 0, err
	}
	return txid, round, nil
}

// run dispatches a command by name.
func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		return a.cmdList()
	case "params":
		return a.cmdParams(args)
	case "new":
		return a.cmdNew(args)
	case "program":
		return a.cmdProgram(args)
	case "address":
		return a.cmdAddress(args)
	case "watch":
		return a.cmdWatch(ctx, args)
	case "config":
		util.DisplayConfig(a.out, a.dataDir)
		return nil
	case "split-send":
		return a.cmdSplitSend(ctx, args)
	case "htlc-claim":
		return a.cmdHTLCClaim(ctx, args)
	case "htlc-refund":
		return a.cmdHTLCRefund(ctx, args)
	case "dynamicfee-sign":
		return a.cmdDynamicFeeSign(args)
	case "dynamicfee-send":
		return a.cmdDynamicFeeSend(ctx, args)
	case "periodic-withdraw":
		return a.cmdPeriodic(ctx, args, false)
	case "periodic-closeout":
		return a.cmdPeriodic(ctx, args, true)
	case "limitorder-swap":
		return a.cmdLimitOrderSwap(ctx, args)
	case "limitorder-close":
		return a.cmdLimitOrderClose(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// loadTemplate reads a parameter file and checks that it describes a T.
func loadTemplate[T genericlsig.Template](path string) (T, error) {
	var zero T
	tmpl, err := genericlsig.LoadInstanceFile(path)
	if err != nil {
		return zero, err
	}
	t, ok := tmpl.(T)
	if !ok {
		return zero, fmt.Errorf("%s describes a %s contract, not a %T", path, tmpl.KeyType(), zero)
	}
	return t, nil
}

// outputFlags are the flags shared by all transaction commands.
type outputFlags struct {
	out    string
	json   bool
	submit bool
}

func newTxnFlagSet(name string) (*flag.FlagSet, *outputFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	o := &outputFlags{}
	fs.StringVar(&o.out, "out", "", "Write the signed group to file (msgpack)")
	fs.BoolVar(&o.json, "json", false, "Print the signed group as JSON")
	fs.BoolVar(&o.submit, "submit", false, "Send the group to algod and wait for confirmation")
	return fs, o
}

// parseArgs parses fs and checks the positional argument count.
func parseArgs(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() != n {
		return nil, errUsage
	}
	return fs.Args(), nil
}

// emit summarizes a signed group and delivers it as the flags request.
func (a *app) emit(ctx context.Context, stxns []types.SignedTxn, o *outputFlags) error {
	for i, stxn := range stxns {
		fmt.Fprintf(a.out, "[%d] %s\n", i, describeTxn(stxn.Txn))
	}

	if o.json {
		data, err := algo.SignedGroupJSON(stxns)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(data))
	}
	if o.out != "" {
		if err := algo.WriteSignedGroup(o.out, stxns); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Wrote %d signed transaction(s) to %s\n", len(stxns), o.out)
	}
	if o.submit {
		txid, round, err := a.submit(ctx, stxns)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Transaction %s confirmed in round %d\n", txid, round)
	}
	if !o.json && o.out == "" && !o.submit {
		fmt.Fprintln(a.out, "Nothing written (use -out, -json or -submit)")
	}
	return nil
}

func describeTxn(txn types.Transaction) string {
	short := func(addr types.Address) string {
		if addr == (types.Address{}) {
			return "-"
		}
		return util.FormatAddressShort(addr.String())
	}

	var s string
	switch txn.Type {
	case types.AssetTransferTx:
		s = fmt.Sprintf("axfer %d of asset %d %s -> %s",
			txn.AssetAmount, txn.XferAsset, short(txn.Sender), short(txn.AssetReceiver))
	default:
		s = fmt.Sprintf("pay %s %s -> %s",
			util.FormatMicroAlgos(uint64(txn.Amount)), short(txn.Sender), short(txn.Receiver))
		if txn.CloseRemainderTo != (types.Address{}) {
			s += fmt.Sprintf(" close to %s", short(txn.CloseRemainderTo))
		}
	}
	return s + fmt.Sprintf(" fee %d rounds %d-%d", txn.Fee, txn.FirstValid, txn.LastValid)
}

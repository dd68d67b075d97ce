// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aplane-algo/aptemplate/internal/util"
	"github.com/aplane-algo/aptemplate/internal/version"
	"github.com/aplane-algo/aptemplate/lsig"
)

func main() {
	// Handle early-exit flags before any other processing
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Printf("aptemplate %s\n", version.String())
			os.Exit(0)
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "aptemplate - Algorand contract templates\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  aptemplate [-d path] [-network name] <command> [flags] [args]\n")
		fmt.Fprintf(os.Stderr, "\nTemplates:\n")
		fmt.Fprintf(os.Stderr, "  list                                   List available templates\n")
		fmt.Fprintf(os.Stderr, "  params <key-type>                      Show creation parameters of a template\n")
		fmt.Fprintf(os.Stderr, "  new [-out file] <key-type>             Write a parameter file interactively\n")
		fmt.Fprintf(os.Stderr, "  program [-hex] <param-file>            Print the patched program\n")
		fmt.Fprintf(os.Stderr, "  address <param-file>                   Print the contract address\n")
		fmt.Fprintf(os.Stderr, "  watch <param-file>                     Print the contract address on every edit\n")
		fmt.Fprintf(os.Stderr, "  config                                 Show the current configuration\n")
		fmt.Fprintf(os.Stderr, "\nTransactions:\n")
		fmt.Fprintf(os.Stderr, "  split-send [-approximate] <param-file> <algos>\n")
		fmt.Fprintf(os.Stderr, "  htlc-claim <param-file> <preimage-base64>\n")
		fmt.Fprintf(os.Stderr, "  htlc-refund <param-file>\n")
		fmt.Fprintf(os.Stderr, "  dynamicfee-sign -lsig file <param-file> <key-file>\n")
		fmt.Fprintf(os.Stderr, "  dynamicfee-send [-fee n] <param-file> <lsig-file> <fee-payer-key-file>\n")
		fmt.Fprintf(os.Stderr, "  periodic-withdraw <param-file> <first-valid|next>\n")
		fmt.Fprintf(os.Stderr, "  periodic-closeout <param-file> <first-valid|next>\n")
		fmt.Fprintf(os.Stderr, "  limitorder-swap <param-file> <asset-amount> <microalgos> <buyer-key-file>\n")
		fmt.Fprintf(os.Stderr, "  limitorder-close <param-file>\n")
		fmt.Fprintf(os.Stderr, "\nTransaction flags:\n")
		fmt.Fprintf(os.Stderr, "  -out file            Write the signed group to file (msgpack)\n")
		fmt.Fprintf(os.Stderr, "  -json                Print the signed group as JSON\n")
		fmt.Fprintf(os.Stderr, "  -submit              Send the group to algod and wait for confirmation\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		fmt.Fprintf(os.Stderr, "  -d path              Data directory (or set %s env var)\n", util.DataDirEnv)
		fmt.Fprintf(os.Stderr, "  -network name        Network to use (default from config.yaml)\n")
		fmt.Fprintf(os.Stderr, "\nKey files hold a 25-word mnemonic. Use - to type it at a prompt.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  aptemplate new -out escrow.yaml split-v1\n")
		fmt.Fprintf(os.Stderr, "  aptemplate address escrow.yaml\n")
		fmt.Fprintf(os.Stderr, "  aptemplate split-send -submit escrow.yaml 12.5\n")
		fmt.Fprintf(os.Stderr, "  aptemplate periodic-withdraw -out withdraw.txn salary.yaml next\n")
	}

	dataDir := flag.String("d", "", "Data directory (or set "+util.DataDirEnv+")")
	network := flag.String("network", "", "Network to use (mainnet, testnet, betanet)")
	flag.Parse()

	util.InitLogger()

	// Register all templates (must be called before using the registry)
	lsig.RegisterAll()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}

	a, err := newApp(os.Stdout, util.GetDataDir(*dataDir), *network)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx, args[0], args[1:]); err != nil {
		stop()
		if errors.Is(err, errUsage) {
			flag.Usage()
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

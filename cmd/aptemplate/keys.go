// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"bufio"
	"crypto/ed25519"
	"fmt"
	"os"
	"strings"

	"github.com/algorand/go-algorand-sdk/v2/mnemonic"
	"golang.org/x/term"
)

// stdinReader is a shared reader for non-terminal stdin
var stdinReader *bufio.Reader

// readPrivateKey loads the account key from a file holding a 25-word
// mnemonic, or prompts for the mnemonic when path is "-".
func readPrivateKey(path string) (ed25519.PrivateKey, error) {
	var phrase string
	if path == "-" {
		fmt.Fprint(os.Stderr, "Mnemonic: ")
		p, err := readSecret()
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, fmt.Errorf("failed to read mnemonic: %w", err)
		}
		phrase = p
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		phrase = string(data)
	}
	return parseMnemonic(phrase)
}

// parseMnemonic accepts the 25 words separated by any whitespace.
func parseMnemonic(phrase string) (ed25519.PrivateKey, error) {
	sk, err := mnemonic.ToPrivateKey(strings.Join(strings.Fields(phrase), " "))
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}
	return sk, nil
}

func readSecret() (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115 - file descriptors are small integers
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Not a terminal - read plaintext line using shared reader
	if stdinReader == nil {
		stdinReader = bufio.NewReader(os.Stdin)
	}
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

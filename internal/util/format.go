// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"fmt"
	"strconv"
)

// MicroAlgoDecimals is the number of decimal places of an Algo.
const MicroAlgoDecimals = 6

// FormatAmountWithDecimals formats an amount with the specified number of
// decimal places using integer arithmetic, so large amounts stay exact.
// If decimals is 0, returns the raw integer value.
func FormatAmountWithDecimals(amountUnits uint64, decimals uint64) string {
	digits := strconv.FormatUint(amountUnits, 10)
	if decimals == 0 {
		return digits
	}
	for uint64(len(digits)) <= decimals {
		digits = "0" + digits
	}
	split := uint64(len(digits)) - decimals
	return digits[:split] + "." + digits[split:]
}

// FormatMicroAlgos formats a microAlgo amount as "N.NNNNNN ALGO".
func FormatMicroAlgos(microAlgos uint64) string {
	return fmt.Sprintf("%s ALGO", FormatAmountWithDecimals(microAlgos, MicroAlgoDecimals))
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// ColorFormatter returns the ANSI color code for a key type
type ColorFormatter func(keyType string) string

// supportsColor checks if stdout is a terminal that supports ANSI color codes
func supportsColor() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) { // #nosec G115 - file descriptors are small integers
		return false
	}
	termEnv := os.Getenv("TERM")
	return termEnv != "" && termEnv != "dumb"
}

// Colorize renders text in the color of keyType when stdout supports it.
func Colorize(text, keyType string, colorFormatter ColorFormatter) string {
	if !supportsColor() || colorFormatter == nil {
		return text
	}
	return wrapColor(text, colorFormatter(keyType))
}

// ANSIColor maps an SGR foreground code ("30".."37", "90".."97") to a
// lipgloss color. ok is false for anything else.
func ANSIColor(code string) (c lipgloss.Color, ok bool) {
	n, err := strconv.Atoi(code)
	switch {
	case err != nil:
		return "", false
	case n >= 30 && n <= 37:
		return lipgloss.Color(strconv.Itoa(n - 30)), true
	case n >= 90 && n <= 97:
		return lipgloss.Color(strconv.Itoa(n - 90 + 8)), true
	}
	return "", false
}

func wrapColor(text, code string) string {
	c, ok := ANSIColor(code)
	if !ok {
		return text
	}
	return lipgloss.NewStyle().Foreground(c).Render(text)
}

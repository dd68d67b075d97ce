// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/aplane-algo/aptemplate/internal/util"
	"github.com/aplane-algo/aptemplate/lsig"
)

func TestWriteReference(t *testing.T) {
	lsig.RegisterAll()

	var out bytes.Buffer
	writeReference(&out)
	doc := out.String()

	for _, want := range []string{
		"| `network` | string | `testnet` |",
		"| `validity_rounds` | uint | `1000` |",
		"`APTEMPLATE_DATA`",
		"### Split (`split-v1`)",
		"### Hash Time Lock (`htlc-v1`)",
		"| `hash_function` | string | `sha256` |",
		"- `preimage` (bytes)",
		"| `owner` | address | `(required)` |",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("reference missing %q", want)
		}
	}
}

func TestWriteStructTableSkipsUntagged(t *testing.T) {
	type sample struct {
		Tagged   string `yaml:"tagged,omitempty" description:"A field" default:"x"`
		Ignored  string `yaml:"-"`
		Untagged int
	}

	var out bytes.Buffer
	writeStructTable(&out, reflect.TypeOf(sample{}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header, separator and one row:\n%s", len(lines), out.String())
	}
	if lines[2] != "| `tagged` | string | `x` | A field |" {
		t.Errorf("row = %q", lines[2])
	}

	// Every config field is documented.
	out.Reset()
	writeStructTable(&out, reflect.TypeOf(util.Config{}))
	if strings.Contains(out.String(), "(no description)") {
		t.Errorf("undocumented config field:\n%s", out.String())
	}
}

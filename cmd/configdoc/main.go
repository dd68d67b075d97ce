// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// configdoc generates markdown documentation from Go struct tags and the
// template registry.
// Usage: go run ./cmd/configdoc > doc/CONFIG_REFERENCE.md
package main

import (
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
	"github.com/aplane-algo/aptemplate/internal/util"
	"github.com/aplane-algo/aptemplate/lsig"
)

// EnvVar represents an environment variable configuration
type EnvVar struct {
	Name        string
	Description string
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--help" {
		fmt.Println("Usage: go run ./cmd/configdoc > doc/CONFIG_REFERENCE.md")
		fmt.Println()
		fmt.Println("Generates markdown documentation from Go struct tags.")
		return
	}

	lsig.RegisterAll()
	writeReference(os.Stdout)
}

func writeReference(w io.Writer) {
	fmt.Fprintln(w, "# Configuration Reference")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Auto-generated from Go struct tags. Do not edit manually.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "---")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## aptemplate Configuration")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: `config.yaml` in the data directory (`-d` or `%s`, default `~/.aptemplate`)\n", util.DataDirEnv)
	fmt.Fprintln(w)
	writeStructTable(w, reflect.TypeOf(util.Config{}))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Environment Variables")
	fmt.Fprintln(w)
	writeEnvVars(w)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "## Template Parameters")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Parameter files name a template and its parameters (schema_version %d).\n", genericlsig.CurrentSchemaVersion)
	for _, p := range genericlsig.GetAll() {
		fmt.Fprintln(w)
		writeTemplate(w, p)
	}
}

func writeStructTable(w io.Writer, t reflect.Type) {
	fmt.Fprintln(w, "| Field | Type | Default | Description |")
	fmt.Fprintln(w, "|-------|------|---------|-------------|")

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		// Handle tag options like "omitempty"
		fieldName := strings.Split(tag, ",")[0]

		desc := field.Tag.Get("description")
		if desc == "" {
			desc = "(no description)"
		}

		def := field.Tag.Get("default")
		switch def {
		case "":
			def = "(none)"
		case `""`:
			def = "(empty string)"
		}

		fmt.Fprintf(w, "| `%s` | %s | `%s` | %s |\n", fieldName, formatType(field.Type), def, desc)
	}
}

func formatType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Bool:
		return "bool"
	case reflect.Slice:
		return "[]" + formatType(t.Elem())
	case reflect.Ptr:
		return "*" + formatType(t.Elem())
	default:
		return t.String()
	}
}

func writeEnvVars(w io.Writer) {
	envVars := []EnvVar{
		{util.DataDirEnv, "Data directory (config.yaml)"},
		{util.DebugEnv, "Set to any value to enable debug logging"},
	}

	fmt.Fprintln(w, "| Variable | Description |")
	fmt.Fprintln(w, "|----------|-------------|")
	for _, env := range envVars {
		fmt.Fprintf(w, "| `%s` | %s |\n", env.Name, env.Description)
	}
}

func writeTemplate(w io.Writer, p lsigprovider.LSigProvider) {
	fmt.Fprintf(w, "### %s (`%s`)\n", p.DisplayName(), p.KeyType())
	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Description())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Parameter | Type | Default | Description |")
	fmt.Fprintln(w, "|-----------|------|---------|-------------|")
	for _, def := range p.CreationParams() {
		dflt := def.Default
		switch {
		case def.Required:
			dflt = "(required)"
		case dflt == "":
			dflt = "(none)"
		}
		fmt.Fprintf(w, "| `%s` | %s | `%s` | %s |\n", def.Name, def.Type, dflt, def.Description)
	}

	if args := p.RuntimeArgs(); len(args) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Runtime arguments:")
		fmt.Fprintln(w)
		for _, arg := range args {
			fmt.Fprintf(w, "- `%s` (%s): %s\n", arg.Name, arg.Type, arg.Description)
		}
	}
}

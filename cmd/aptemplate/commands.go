// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"gopkg.in/yaml.v3"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
	"github.com/aplane-algo/aptemplate/internal/util"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

func displayColor(keyType string) string {
	if p := genericlsig.Get(keyType); p != nil {
		return p.DisplayColor()
	}
	return ""
}

func (a *app) cmdList() error {
	fmt.Fprintln(a.out, titleStyle.Render("Templates"))
	for _, p := range genericlsig.GetAll() {
		keyType := fmt.Sprintf("%-16s", p.KeyType())
		fmt.Fprintf(a.out, "  %s %-18s %-12s %s\n",
			util.Colorize(keyType, p.KeyType(), displayColor),
			p.DisplayName(),
			lsigprovider.GetFamily(p.KeyType()),
			subtitleStyle.Render(p.Description()))
	}
	return nil
}

func (a *app) cmdParams(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	p, err := genericlsig.GetOrError(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s - %s\n", titleStyle.Render(p.DisplayName()), p.Description())
	fmt.Fprintln(a.out, "\nCreation parameters:")
	for _, def := range p.CreationParams() {
		fmt.Fprintf(a.out, "  %-20s %-8s %s\n", def.Name, def.Type, paramNote(def))
		fmt.Fprintf(a.out, "  %-20s %-8s %s\n", "", "", subtitleStyle.Render(def.Description))
	}

	if runtimeArgs := p.RuntimeArgs(); len(runtimeArgs) > 0 {
		fmt.Fprintln(a.out, "\nRuntime arguments:")
		for _, arg := range runtimeArgs {
			req := "optional"
			if arg.Required {
				req = "required"
			}
			fmt.Fprintf(a.out, "  %-20s %-8s %s, %s\n", arg.Name, arg.Type, req, arg.Description)
		}
	}
	return nil
}

// paramNote summarizes whether def is required and its constraints.
func paramNote(def lsigprovider.ParameterDef) string {
	var notes []string
	switch {
	case def.Required:
		notes = append(notes, "required")
	case def.Default != "":
		notes = append(notes, "default "+def.Default)
	default:
		notes = append(notes, "optional")
	}
	if def.Min != nil {
		notes = append(notes, fmt.Sprintf("min %d", *def.Min))
	}
	if def.Max != nil {
		notes = append(notes, fmt.Sprintf("max %d", *def.Max))
	}
	if def.ByteLength > 0 {
		notes = append(notes, fmt.Sprintf("%d bytes", def.ByteLength))
	}
	if len(def.Choices) > 0 {
		notes = append(notes, "one of "+strings.Join(def.Choices, ", "))
	}
	return strings.Join(notes, ", ")
}

func (a *app) cmdProgram(args []string) error {
	fs := flag.NewFlagSet("program", flag.ContinueOnError)
	asHex := fs.Bool("hex", false, "Print the program as hex instead of base64")
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}

	tmpl, err := genericlsig.LoadInstanceFile(rest[0])
	if err != nil {
		return err
	}
	if *asHex {
		program, err := tmpl.ProgramBytes()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, hex.EncodeToString(program))
		return nil
	}
	program, err := tmpl.Program()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, program)
	return nil
}

func (a *app) cmdAddress(args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	tmpl, err := genericlsig.LoadInstanceFile(args[0])
	if err != nil {
		return err
	}
	addr, err := tmpl.Address()
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, addr)
	return nil
}

// describeFile prints the key type, address and program size of a parameter
// file, or the reason it does not build.
func describeFile(w io.Writer, path string) {
	tmpl, err := genericlsig.LoadInstanceFile(path)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	program, err := tmpl.ProgramBytes()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	addr, err := tmpl.Address()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "%s %s (%d bytes)\n", util.Colorize(tmpl.KeyType(), tmpl.KeyType(), displayColor), addr, len(program))
}

// cmdNew prompts for each creation parameter of a template and writes the
// resulting parameter file.
func (a *app) cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ContinueOnError)
	out := fs.String("out", "", "Parameter file to write (default stdout)")
	rest, err := parseArgs(fs, args, 1)
	if err != nil {
		return err
	}
	p, err := genericlsig.GetOrError(rest[0])
	if err != nil {
		return err
	}

	readLine := a.readLine
	if readLine == nil {
		rl, err := readline.NewEx(&readline.Config{
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return fmt.Errorf("failed to start prompt: %w", err)
		}
		defer func() {
			_ = rl.Close() // Best-effort close
		}()
		readLine = func(prompt string) (string, error) {
			rl.SetPrompt(prompt)
			return rl.Readline()
		}
	}

	params, err := promptParams(p.CreationParams(), readLine, os.Stderr)
	if err != nil {
		return err
	}
	// A contract drawn with a random lease must keep it, or the file would
	// describe a different address on every load.
	if hasParam(p.CreationParams(), "lease") && params["lease"] == "" {
		lease, err := genericlsig.NewLease()
		if err != nil {
			return err
		}
		params["lease"] = base64.StdEncoding.EncodeToString(lease[:])
	}
	if _, err := p.New(params); err != nil {
		return err
	}

	data, err := yaml.Marshal(genericlsig.InstanceSpec{
		SchemaVersion: genericlsig.CurrentSchemaVersion,
		Template:      p.KeyType(),
		Params:        params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode parameter file: %w", err)
	}

	if *out == "" {
		_, err = a.out.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write parameter file: %w", err)
	}
	fmt.Fprintf(a.out, "Wrote %s\n", *out)
	return nil
}

// promptParams reads one value per definition, re-prompting until the value
// validates. An empty answer keeps the default or skips an optional value.
func promptParams(defs []lsigprovider.ParameterDef, readLine func(string) (string, error), errOut io.Writer) (map[string]string, error) {
	params := make(map[string]string, len(defs))
	for _, def := range defs {
		prompt := def.Label
		if def.Default != "" {
			prompt += fmt.Sprintf(" [%s]", def.Default)
		} else if !def.Required {
			prompt += " (optional)"
		}
		prompt += ": "

		for {
			line, err := readLine(prompt)
			if err != nil {
				if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
					return nil, fmt.Errorf("aborted")
				}
				return nil, err
			}
			value := strings.TrimSpace(line)
			if value == "" {
				value = def.Default
			}
			if value == "" && !def.Required {
				break
			}
			if err := lsigprovider.ValidateParams([]lsigprovider.ParameterDef{def}, map[string]string{def.Name: value}); err != nil {
				fmt.Fprintf(errOut, "  %v\n", err)
				continue
			}
			params[def.Name] = value
			break
		}
	}
	return params, nil
}

func hasParam(defs []lsigprovider.ParameterDef, name string) bool {
	for _, def := range defs {
		if def.Name == name {
			return true
		}
	}
	return false
}

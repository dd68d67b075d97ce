// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package main implements a static analyzer that detects potential key material in logs or errors.
//
// It flags print, log and error calls that receive a private key, seed or
// mnemonic phrase as an argument.
package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Identifiers holding key material.
var keyMaterialName = regexp.MustCompile(`(?i)^(sk|seed|entropy|phrase|mnemonic|\w*(private|priv|secret)key\w*)$`)

// Calls whose arguments end up in output or error strings.
var outputFuncs = map[string]bool{
	"Print": true, "Printf": true, "Println": true,
	"Fprint": true, "Fprintf": true, "Fprintln": true,
	"Sprint": true, "Sprintf": true, "Sprintln": true,
	"Errorf": true, "Fatal": true, "Fatalf": true, "Panicf": true,
	"Debug": true, "Info": true, "Warn": true, "Error": true,
}

// Directories that are never scanned.
var skipDirs = map[string]bool{
	"vendor":    true,
	".git":      true,
	"analysis":  true,
	"_examples": true,
}

type finding struct {
	pos    token.Position
	reason string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: keylog <repo-root>")
		os.Exit(1)
	}

	n, err := run(os.Args[1], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error walking directory: %v\n", err)
		os.Exit(2)
	}
	if n > 0 {
		os.Exit(1)
	}
}

// run checks every non-test Go file under root, reports to w and returns
// the number of findings.
func run(root string, w io.Writer) (int, error) {
	var findings []finding
	var filesChecked int

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}

		filesChecked++
		fileFindings, err := checkFile(path)
		if err != nil {
			return err
		}
		findings = append(findings, fileFindings...)
		return nil
	})
	if err != nil {
		return 0, err
	}

	fmt.Fprintf(w, "Key Logging Analysis\n")
	fmt.Fprintf(w, "====================\n")
	fmt.Fprintf(w, "Files checked: %d\n\n", filesChecked)

	if len(findings) == 0 {
		fmt.Fprintln(w, "No issues found.")
		return 0, nil
	}

	fmt.Fprintf(w, "Potential issues: %d\n\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(w, "%s\n", f.pos)
		fmt.Fprintf(w, "  Issue: %s\n\n", f.reason)
	}
	return len(findings), nil
}

func checkFile(path string) ([]finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var findings []finding
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !outputFuncs[sel.Sel.Name] {
			return true
		}
		for _, arg := range call.Args {
			if name := keyMaterialArg(arg); name != "" {
				findings = append(findings, finding{
					pos:    fset.Position(arg.Pos()),
					reason: fmt.Sprintf("key material %q passed to %s", name, sel.Sel.Name),
				})
			}
		}
		return true
	})
	return findings, nil
}

// keyMaterialArg returns the name of the key material identifier expr
// prints, looking through slicing and conversions.
func keyMaterialArg(expr ast.Expr) string {
	for {
		switch e := expr.(type) {
		case *ast.Ident:
			if keyMaterialName.MatchString(e.Name) {
				return e.Name
			}
			return ""
		case *ast.SliceExpr:
			expr = e.X
		case *ast.ParenExpr:
			expr = e.X
		case *ast.CallExpr:
			// Conversions such as string(phrase) or hex.EncodeToString(sk).
			if len(e.Args) != 1 || isBuiltinMeasure(e.Fun) {
				return ""
			}
			expr = e.Args[0]
		default:
			return ""
		}
	}
}

func isBuiltinMeasure(fun ast.Expr) bool {
	id, ok := fun.(*ast.Ident)
	return ok && (id.Name == "len" || id.Name == "cap")
}

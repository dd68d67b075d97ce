// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package main implements a static analyzer that detects insecure random number usage.
//
// Contract leases must be unpredictable, so the packages that draw them may
// only use crypto/rand.
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
	"strconv"
	"strings"
)

// Directories that should never use math/rand
var criticalDirs = []string{
	"internal/genericlsig",
	"internal/tealsubst",
	"lsig",
	"cmd/aptemplate",
}

var mathRandPaths = map[string]bool{
	"math/rand":    true,
	"math/rand/v2": true,
}

type finding struct {
	pos    token.Position
	reason string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: insecurerand <repo-root>")
		os.Exit(1)
	}

	n, err := run(os.Args[1], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if n > 0 {
		os.Exit(1)
	}
}

// run checks the critical directories under root, reports to w and returns
// the number of findings.
func run(root string, w io.Writer) (int, error) {
	var findings []finding
	var filesChecked int

	for _, dir := range criticalDirs {
		dirPath := filepath.Join(root, dir)
		if _, err := os.Stat(dirPath); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
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
			return 0, fmt.Errorf("walking %s: %w", dir, err)
		}
	}

	fmt.Fprintf(w, "Insecure Random Analysis\n")
	fmt.Fprintf(w, "========================\n")
	fmt.Fprintf(w, "Files checked: %d\n", filesChecked)
	fmt.Fprintf(w, "Critical directories: %v\n\n", criticalDirs)

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

// checkFile flags math/rand imports and every use of them, aliased or not.
func checkFile(path string) ([]finding, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.SkipObjectResolution)
	if err != nil {
		return nil, err
	}

	var findings []finding
	names := make(map[string]bool)
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !mathRandPaths[importPath] {
			continue
		}
		name := "rand"
		if imp.Name != nil {
			name = imp.Name.Name
		}
		names[name] = true
		findings = append(findings, finding{
			pos:    fset.Position(imp.Pos()),
			reason: importPath + " import in security-critical directory - use crypto/rand instead",
		})
	}
	if len(names) == 0 {
		return findings, nil
	}

	ast.Inspect(file, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok && names[id.Name] {
			findings = append(findings, finding{
				pos:    fset.Position(sel.Pos()),
				reason: fmt.Sprintf("math/rand use %s.%s in security-critical code", id.Name, sel.Sel.Name),
			})
		}
		return true
	})
	return findings, nil
}

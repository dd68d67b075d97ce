// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package lsigprovider

import (
	"encoding/base64"
	"fmt"
	"slices"
	"strconv"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/hashicorp/go-multierror"
)

// WithDefaults returns a copy of params with defaults filled in for absent
// or empty parameters.
func WithDefaults(defs []ParameterDef, params map[string]string) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = v
	}
	for _, def := range defs {
		if out[def.Name] == "" && def.Default != "" {
			out[def.Name] = def.Default
		}
	}
	return out
}

// ValidateParams checks params against defs and returns every problem found.
// Unknown parameter names are rejected so typos do not silently fall back to defaults.
func ValidateParams(defs []ParameterDef, params map[string]string) error {
	var result *multierror.Error

	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.Name] = true

		value, ok := params[def.Name]
		if !ok || value == "" {
			if def.Required {
				result = multierror.Append(result, fmt.Errorf("%w: %s is required", ErrInvalidParam, def.Name))
			}
			continue
		}

		if err := validateValue(def, value); err != nil {
			result = multierror.Append(result, fmt.Errorf("%w: %s: %v", ErrInvalidParam, def.Name, err))
		}
	}

	for name := range params {
		if !known[name] {
			result = multierror.Append(result, fmt.Errorf("%w: unknown parameter %q", ErrInvalidParam, name))
		}
	}

	return result.ErrorOrNil()
}

func validateValue(def ParameterDef, value string) error {
	switch def.Type {
	case TypeAddress:
		if _, err := types.DecodeAddress(value); err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}

	case TypeUint64:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid uint64: %w", err)
		}
		if def.Min != nil && v < *def.Min {
			return fmt.Errorf("must be at least %d, got %d", *def.Min, v)
		}
		if def.Max != nil && v > *def.Max {
			return fmt.Errorf("must be at most %d, got %d", *def.Max, v)
		}

	case TypeBytes:
		b, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return fmt.Errorf("invalid base64: %w", err)
		}
		if def.ByteLength > 0 && len(b) != def.ByteLength {
			return fmt.Errorf("must be %d bytes, got %d", def.ByteLength, len(b))
		}

	case TypeString:
		if len(def.Choices) > 0 && !slices.Contains(def.Choices, value) {
			return fmt.Errorf("must be one of %v, got %q", def.Choices, value)
		}

	default:
		return fmt.Errorf("unknown parameter type %q", def.Type)
	}
	return nil
}

// ParseUint64 parses a validated uint64 parameter. Absent values parse as 0.
func ParseUint64(params map[string]string, name string) (uint64, error) {
	value := params[name]
	if value == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParam, name, err)
	}
	return v, nil
}

// BuildArgs assembles LogicSig args in the order of defs.
// Optional args that are absent are skipped.
func BuildArgs(defs []RuntimeArgDef, runtimeArgs map[string][]byte) ([][]byte, error) {
	var args [][]byte
	for _, def := range defs {
		val, ok := runtimeArgs[def.Name]
		if !ok {
			if def.Required {
				return nil, fmt.Errorf("%w: %s", ErrMissingArg, def.Name)
			}
			continue
		}
		if def.ByteLength > 0 && len(val) != def.ByteLength {
			return nil, fmt.Errorf("arg %s must be %d bytes, got %d", def.Name, def.ByteLength, len(val))
		}
		args = append(args, val)
	}
	return args, nil
}

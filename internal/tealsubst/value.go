// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package tealsubst

import "fmt"

type valueKind uint8

const (
	kindUint valueKind = iota + 1
	kindAddress
	kindBytes
)

// Value is a parameter to be injected. Build one with Uint, Address or Bytes.
type Value struct {
	kind valueKind
	u    uint64
	b    []byte
}

// Uint returns a value for a varint placeholder.
func Uint(v uint64) Value {
	return Value{kind: kindUint, u: v}
}

// Address returns a value for a 32-byte placeholder. Leases use it too.
func Address(a [32]byte) Value {
	return Value{kind: kindAddress, b: append([]byte(nil), a[:]...)}
}

// Bytes returns a value for a length-prefixed placeholder.
func Bytes(b []byte) Value {
	return Value{kind: kindBytes, b: append([]byte(nil), b...)}
}

func (v Value) String() string {
	switch v.kind {
	case kindUint:
		return fmt.Sprintf("uint(%d)", v.u)
	case kindAddress:
		return fmt.Sprintf("address(%x)", v.b)
	case kindBytes:
		return fmt.Sprintf("bytes(%x)", v.b)
	default:
		return "invalid"
	}
}

func (v Value) encode(e Encoding) ([]byte, error) {
	switch e {
	case EncodingVarint:
		if v.kind != kindUint {
			return nil, fmt.Errorf("%w: %s into %s", ErrValueMismatch, v, e)
		}
		return EncodeUvarint(v.u), nil

	case EncodingAddress:
		if v.kind != kindAddress || len(v.b) != addressWidth {
			return nil, fmt.Errorf("%w: %s into %s", ErrValueMismatch, v, e)
		}
		return append([]byte(nil), v.b...), nil

	case EncodingBytes:
		if v.kind != kindBytes {
			return nil, fmt.Errorf("%w: %s into %s", ErrValueMismatch, v, e)
		}
		out := EncodeUvarint(uint64(len(v.b)))
		return append(out, v.b...), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, e)
	}
}

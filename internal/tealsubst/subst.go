// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package tealsubst injects parameter values into precompiled TEAL bytecode.
//
// A precompiled template reserves a fixed-width region for every parameter:
//   - varint values reserve 1 byte (an intcblock entry)
//   - address values reserve 32 bytes (a bytecblock entry body)
//   - byte values reserve 2 bytes (a bytecblock length byte plus one data byte)
//
// Placeholder offsets always refer to the original program. When an encoded
// value is wider than its reserved region every later placeholder moves, so
// Inject tracks the shift in a local offset table.
package tealsubst

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrShapeMismatch is returned when placeholders and values differ in count.
	ErrShapeMismatch = errors.New("placeholder and value counts differ")

	// ErrUnsupportedEncoding is returned for an encoding outside the known set.
	ErrUnsupportedEncoding = errors.New("unsupported placeholder encoding")

	// ErrValueMismatch is returned when a value cannot be encoded as its placeholder requires.
	ErrValueMismatch = errors.New("value does not match placeholder encoding")

	// ErrOffsetOutOfRange is returned when a reserved region falls outside the program.
	ErrOffsetOutOfRange = errors.New("placeholder offset out of range")
)

// Encoding identifies how a value is written into its placeholder.
type Encoding uint8

const (
	// EncodingVarint writes an unsigned LEB128 integer into a 1-byte placeholder.
	EncodingVarint Encoding = iota + 1
	// EncodingAddress writes a raw 32-byte value into a 32-byte placeholder.
	EncodingAddress
	// EncodingBytes writes a varint length and the data into a 2-byte placeholder.
	EncodingBytes
)

// Reserved widths of each placeholder kind in the original program.
const (
	varintWidth  = 1
	addressWidth = 32
	bytesWidth   = 2
)

// AddressLength is the size of an address placeholder.
const AddressLength = addressWidth

func (e Encoding) String() string {
	switch e {
	case EncodingVarint:
		return "varint"
	case EncodingAddress:
		return "address"
	case EncodingBytes:
		return "bytes"
	default:
		return fmt.Sprintf("encoding(%d)", uint8(e))
	}
}

// Width returns the number of bytes the placeholder occupies in the original program.
func (e Encoding) Width() (int, error) {
	switch e {
	case EncodingVarint:
		return varintWidth, nil
	case EncodingAddress:
		return addressWidth, nil
	case EncodingBytes:
		return bytesWidth, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, e)
	}
}

// Placeholder locates one parameter in an original program.
type Placeholder struct {
	Offset   int      // Byte offset in the original (unpatched) program
	Encoding Encoding // How the value is written
	Name     string   // Parameter role, used in error messages
}

// Inject returns a copy of original with each value written into its placeholder.
// Placeholders are processed in the order given. The original slice and the
// placeholder table are never modified.
func Inject(original []byte, placeholders []Placeholder, values []Value) ([]byte, error) {
	if len(placeholders) != len(values) {
		return nil, fmt.Errorf("%w: %d placeholders, %d values", ErrShapeMismatch, len(placeholders), len(values))
	}

	offsets := make([]int, len(placeholders))
	for i, p := range placeholders {
		offsets[i] = p.Offset
	}

	program := append([]byte(nil), original...)
	for i, p := range placeholders {
		width, err := p.Encoding.Width()
		if err != nil {
			return nil, fmt.Errorf("placeholder %q: %w", p.Name, err)
		}

		encoded, err := values[i].encode(p.Encoding)
		if err != nil {
			return nil, fmt.Errorf("placeholder %q: %w", p.Name, err)
		}

		start := offsets[i]
		if start < 0 || start+width > len(program) {
			return nil, fmt.Errorf("%w: placeholder %q at %d (width %d, program length %d)",
				ErrOffsetOutOfRange, p.Name, start, width, len(program))
		}

		program = replace(program, encoded, start, width)

		if delta := len(encoded) - width; delta != 0 {
			for j := range offsets {
				offsets[j] += delta
			}
		}
	}

	return program, nil
}

// replace returns a new slice with data[offset:offset+width] swapped for value.
func replace(data, value []byte, offset, width int) []byte {
	out := make([]byte, 0, len(data)-width+len(value))
	out = append(out, data[:offset]...)
	out = append(out, value...)
	return append(out, data[offset+width:]...)
}

// EncodeUvarint returns x in unsigned LEB128 form, the encoding TEAL uses for
// intcblock entries and bytecblock lengths.
func EncodeUvarint(x uint64) []byte {
	return binary.AppendUvarint(nil, x)
}

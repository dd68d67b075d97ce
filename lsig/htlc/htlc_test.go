// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package htlc

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/google/go-cmp/cmp"
)

var testPreimage = []byte("open sesame")

func testAddress(b byte) string {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a.String()
}

func testParams() Params {
	image := sha256.Sum256(testPreimage)
	return Params{
		Owner:        testAddress(0x01),
		Receiver:     testAddress(0x02),
		HashFunction: SHA256,
		HashImage:    base64.StdEncoding.EncodeToString(image[:]),
		ExpiryRound:  100,
		MaxFee:       90,
	}
}

// testTxnParams bounds the fee at the 1000 microAlgo network minimum.
func testTxnParams() Params {
	p := testParams()
	p.MaxFee = 1000
	return p
}

func testSuggestedParams(firstValid uint64) types.SuggestedParams {
	genesisHash := make([]byte, 32)
	genesisHash[0] = 1
	return types.SuggestedParams{
		FlatFee:         true,
		Fee:             types.MicroAlgos(1000),
		FirstRoundValid: types.Round(firstValid),
		LastRoundValid:  types.Round(firstValid + 1000),
		GenesisID:       "testnet-v1.0",
		GenesisHash:     genesisHash,
	}
}

func TestProgramLayout(t *testing.T) {
	image := bytes.Repeat([]byte{0xab}, 32)
	p := testParams()
	p.HashFunction = Keccak256
	p.HashImage = base64.StdEncoding.EncodeToString(image)

	h, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, err := h.ProgramBytes()
	if err != nil {
		t.Fatalf("ProgramBytes failed: %v", err)
	}
	orig, err := definition.Original()
	if err != nil {
		t.Fatalf("Original failed: %v", err)
	}

	// The 2-byte blob placeholder grows to a 33-byte length-prefixed image,
	// pushing owner and the hash opcode 31 bytes further out.
	var want []byte
	want = append(want, orig[:3]...)
	want = append(want, 90)
	want = append(want, orig[4:6]...)
	want = append(want, 100)
	want = append(want, orig[7:10]...)
	want = append(want, bytes.Repeat([]byte{0x02}, 32)...)
	want = append(want, 0x20)
	want = append(want, image...)
	want = append(want, orig[44])
	want = append(want, bytes.Repeat([]byte{0x01}, 32)...)
	want = append(want, orig[77:102]...)
	want = append(want, 0x02)
	want = append(want, orig[103:]...)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
	if len(got) != len(orig)+31 {
		t.Errorf("len = %d, want %d", len(got), len(orig)+31)
	}
}

func TestProgramHashOpcode(t *testing.T) {
	h, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, _ := h.ProgramBytes()
	if got[133] != 0x01 {
		t.Errorf("hash opcode = %#x, want sha256 (0x01)", got[133])
	}
	if got[132] != 0x2d {
		t.Errorf("byte before hash opcode = %#x, want arg_0 (0x2d)", got[132])
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		want   error
	}{
		{"unknown hash", func(p *Params) { p.HashFunction = "md5" }, ErrInvalidHashFunction},
		{"empty hash", func(p *Params) { p.HashFunction = "" }, ErrInvalidHashFunction},
		{"image not base64", func(p *Params) { p.HashImage = "%%%" }, ErrInvalidHashImage},
		{"short image", func(p *Params) { p.HashImage = base64.StdEncoding.EncodeToString([]byte("short")) }, ErrInvalidHashImage},
		{"bad owner", func(p *Params) { p.Owner = "nope" }, nil},
		{"bad receiver", func(p *Params) { p.Receiver = "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.modify(&p)
			_, err := New(p)
			if err == nil {
				t.Fatal("New should fail")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("New error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestVerifyPreimage(t *testing.T) {
	h, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.VerifyPreimage(testPreimage); err != nil {
		t.Errorf("VerifyPreimage(correct) = %v", err)
	}
	if err := h.VerifyPreimage([]byte("wrong")); !errors.Is(err, ErrPreimageMismatch) {
		t.Errorf("VerifyPreimage(wrong) = %v, want ErrPreimageMismatch", err)
	}
}

func TestKeccak256(t *testing.T) {
	// Keccak-256 of the empty string, as used by Ethereum.
	image, _ := hex.DecodeString("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	p := testParams()
	p.HashFunction = Keccak256
	p.HashImage = base64.StdEncoding.EncodeToString(image)

	h, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := h.VerifyPreimage(nil); err != nil {
		t.Errorf("VerifyPreimage(empty) = %v", err)
	}
	if err := h.VerifyPreimage(testPreimage); !errors.Is(err, ErrPreimageMismatch) {
		t.Errorf("VerifyPreimage(other) = %v, want ErrPreimageMismatch", err)
	}
}

func TestClaimTransaction(t *testing.T) {
	h, err := New(testTxnParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	contract, _ := h.Address()

	stxn, err := h.ClaimTransaction(testPreimage, testSuggestedParams(50))
	if err != nil {
		t.Fatalf("ClaimTransaction failed: %v", err)
	}
	if stxn.Txn.Sender.String() != contract {
		t.Errorf("sender = %s, want contract %s", stxn.Txn.Sender, contract)
	}
	if stxn.Txn.Receiver != (types.Address{}) {
		t.Errorf("receiver = %s, want zero address", stxn.Txn.Receiver)
	}
	if stxn.Txn.Amount != 0 {
		t.Errorf("amount = %d, want 0", stxn.Txn.Amount)
	}
	if stxn.Txn.CloseRemainderTo.String() != testAddress(0x02) {
		t.Errorf("close to = %s, want receiver", stxn.Txn.CloseRemainderTo)
	}
	if len(stxn.Lsig.Args) != 1 || !bytes.Equal(stxn.Lsig.Args[0], testPreimage) {
		t.Errorf("LogicSig args = %q, want [preimage]", stxn.Lsig.Args)
	}

	if _, err := h.ClaimTransaction([]byte("wrong"), testSuggestedParams(50)); !errors.Is(err, ErrPreimageMismatch) {
		t.Errorf("ClaimTransaction(wrong) = %v, want ErrPreimageMismatch", err)
	}
}

func TestRefundTransaction(t *testing.T) {
	h, err := New(testTxnParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := h.RefundTransaction(testSuggestedParams(100)); !errors.Is(err, ErrNotExpired) {
		t.Errorf("RefundTransaction at expiry = %v, want ErrNotExpired", err)
	}

	stxn, err := h.RefundTransaction(testSuggestedParams(101))
	if err != nil {
		t.Fatalf("RefundTransaction failed: %v", err)
	}
	if stxn.Txn.CloseRemainderTo.String() != testAddress(0x01) {
		t.Errorf("close to = %s, want owner", stxn.Txn.CloseRemainderTo)
	}
	if len(stxn.Lsig.Args) != 0 {
		t.Errorf("refund carries %d LogicSig args, want 0", len(stxn.Lsig.Args))
	}
}

func TestCloseFeeBound(t *testing.T) {
	// max_fee 90 is below any fee the network accepts.
	h, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := h.ClaimTransaction(testPreimage, testSuggestedParams(50)); !errors.Is(err, ErrFeeTooHigh) {
		t.Errorf("ClaimTransaction = %v, want ErrFeeTooHigh", err)
	}
	if _, err := h.RefundTransaction(testSuggestedParams(101)); !errors.Is(err, ErrFeeTooHigh) {
		t.Errorf("RefundTransaction = %v, want ErrFeeTooHigh", err)
	}

	p := testParams()
	p.MaxFee = 500
	h, err = New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	sp := testSuggestedParams(101)
	sp.Fee = types.MicroAlgos(2000)
	if _, err := h.RefundTransaction(sp); !errors.Is(err, ErrFeeTooHigh) {
		t.Errorf("RefundTransaction with fee 2000 = %v, want ErrFeeTooHigh", err)
	}
	sp.Fee = types.MicroAlgos(500)
	stxn, err := h.RefundTransaction(sp)
	if err != nil {
		t.Fatalf("RefundTransaction at the bound failed: %v", err)
	}
	if stxn.Txn.Fee != 500 {
		t.Errorf("fee = %d, want 500", stxn.Txn.Fee)
	}
}

func TestAddressDependsOnParams(t *testing.T) {
	base, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	want, _ := base.Address()
	same, _ := New(testParams())
	if got, _ := same.Address(); got != want {
		t.Errorf("same parameters gave %s, want %s", got, want)
	}

	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"hash_function", func(p *Params) { p.HashFunction = Keccak256 }},
		{"hash_image", func(p *Params) {
			p.HashImage = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x5a}, 32))
		}},
		{"expiry_round", func(p *Params) { p.ExpiryRound = 101 }},
		{"max_fee", func(p *Params) { p.MaxFee = 91 }},
		{"owner", func(p *Params) { p.Owner = testAddress(0x03) }},
		{"receiver", func(p *Params) { p.Receiver = testAddress(0x03) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.modify(&p)
			h, err := New(p)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got, _ := h.Address(); got == want {
				t.Errorf("changing %s kept address %s", tt.name, got)
			}
		})
	}
}

func TestProviderNew(t *testing.T) {
	p := testParams()
	tmpl := &HTLCTemplate{}

	built, err := tmpl.New(map[string]string{
		"owner":        p.Owner,
		"receiver":     p.Receiver,
		"hash_image":   p.HashImage,
		"expiry_round": "100",
		"max_fee":      "90",
	})
	if err != nil {
		t.Fatalf("New from params failed: %v", err)
	}
	direct, _ := New(p)

	a, _ := built.Program()
	b, _ := direct.Program()
	if a != b {
		t.Error("provider-built program differs from direct construction")
	}

	_, err = tmpl.New(map[string]string{
		"owner":         p.Owner,
		"receiver":      p.Receiver,
		"hash_image":    p.HashImage,
		"hash_function": "sha1",
		"expiry_round":  "100",
	})
	if err == nil {
		t.Error("New should reject an unsupported hash function")
	}

	args, err := tmpl.BuildArgs(map[string][]byte{"preimage": testPreimage})
	if err != nil {
		t.Fatalf("BuildArgs failed: %v", err)
	}
	if len(args) != 1 || !bytes.Equal(args[0], testPreimage) {
		t.Errorf("BuildArgs = %q, want [preimage]", args)
	}
	if args, _ := tmpl.BuildArgs(nil); len(args) != 0 {
		t.Errorf("BuildArgs(nil) = %q, want empty", args)
	}
}

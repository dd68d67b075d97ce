// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package genericlsig

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"io"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/encoding/msgpack"
	"github.com/algorand/go-algorand-sdk/v2/transaction"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/google/go-cmp/cmp"

	"github.com/aplane-algo/aptemplate/internal/lsigprovider"
	"github.com/aplane-algo/aptemplate/internal/tealsubst"
)

// "int 1" at version 1.
var trueProgram = []byte{0x01, 0x20, 0x01, 0x01, 0x22}

var testDefinition = Definition{
	Program: base64.StdEncoding.EncodeToString(trueProgram),
	Placeholders: []tealsubst.Placeholder{
		{Offset: 3, Encoding: tealsubst.EncodingVarint, Name: "value"},
	},
}

type fakeTemplate struct {
	Base
	value uint64
}

func (f *fakeTemplate) KeyType() string { return "fake-v1" }
func (f *fakeTemplate) ProgramBytes() ([]byte, error) {
	return testDefinition.Generate(tealsubst.Uint(f.value))
}
func (f *fakeTemplate) Program() (string, error) { return Program(f) }
func (f *fakeTemplate) Address() (string, error) { return Address(f) }

// argDefs orders runtime args the way a provider does.
type argDefs []lsigprovider.RuntimeArgDef

func (d argDefs) BuildArgs(runtimeArgs map[string][]byte) ([][]byte, error) {
	return lsigprovider.BuildArgs(d, runtimeArgs)
}

var testArgs = argDefs{{Name: "secret", Type: lsigprovider.TypeBytes, Required: true}}

func testSuggestedParams() types.SuggestedParams {
	genesisHash := make([]byte, 32)
	genesisHash[0] = 1
	return types.SuggestedParams{
		FlatFee:         true,
		Fee:             types.MicroAlgos(1000),
		FirstRoundValid: types.Round(1000),
		LastRoundValid:  types.Round(2000),
		GenesisID:       "testnet-v1.0",
		GenesisHash:     genesisHash,
	}
}

func TestDefinitionGenerate(t *testing.T) {
	got, err := testDefinition.Generate(tealsubst.Uint(300))
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := []byte{0x01, 0x20, 0x01, 0xac, 0x02, 0x22}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate mismatch (-want +got):\n%s", diff)
	}

	original, _ := testDefinition.Original()
	if !bytes.Equal(original, trueProgram) {
		t.Error("Generate altered the original program")
	}

	bad := Definition{Program: "!!!"}
	if _, err := bad.Generate(); err == nil {
		t.Error("Generate should fail on a corrupt program")
	}
}

func TestProgramAndAddress(t *testing.T) {
	f := &fakeTemplate{value: 1}

	program, err := f.Program()
	if err != nil {
		t.Fatalf("Program failed: %v", err)
	}
	if program != base64.StdEncoding.EncodeToString(trueProgram) {
		t.Errorf("Program = %s", program)
	}

	digest := sha512.Sum512_256(append([]byte("Program"), trueProgram...))
	want := types.Address(digest).String()
	got, err := f.Address()
	if err != nil {
		t.Fatalf("Address failed: %v", err)
	}
	if got != want {
		t.Errorf("Address = %s, want %s", got, want)
	}
}

func TestNewLease(t *testing.T) {
	orig := leaseSource
	defer func() { leaseSource = orig }()

	seed := bytes.Repeat([]byte{0x5a}, LeaseLength)
	leaseSource = bytes.NewReader(seed)
	lease, err := NewLease()
	if err != nil {
		t.Fatalf("NewLease failed: %v", err)
	}
	if !bytes.Equal(lease[:], seed) {
		t.Errorf("lease = %x, want %x", lease, seed)
	}

	leaseSource = bytes.NewReader(seed[:10])
	if _, err := NewLease(); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("NewLease(short source) = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestDecodeAddress(t *testing.T) {
	var zero types.Address
	got, err := DecodeAddress("owner", zero.String())
	if err != nil || got != zero {
		t.Errorf("DecodeAddress(zero) = %v, %v", got, err)
	}
	if _, err := DecodeAddress("owner", "not-an-address"); err == nil {
		t.Error("DecodeAddress should reject malformed input")
	}
}

func TestSignGroupWithLogicSig(t *testing.T) {
	f := &fakeTemplate{value: 1}
	if _, err := LogicSigAccount(f, testArgs, nil); !errors.Is(err, lsigprovider.ErrMissingArg) {
		t.Fatalf("LogicSigAccount without args = %v, want ErrMissingArg", err)
	}
	lsa, err := LogicSigAccount(f, testArgs, map[string][]byte{"secret": []byte("arg")})
	if err != nil {
		t.Fatalf("LogicSigAccount failed: %v", err)
	}
	contract, _ := f.Address()

	var txns []types.Transaction
	for i := 0; i < 3; i++ {
		txn, err := transaction.MakePaymentTxn(contract, contract, uint64(i), nil, "", testSuggestedParams())
		if err != nil {
			t.Fatalf("MakePaymentTxn failed: %v", err)
		}
		txns = append(txns, txn)
	}

	stxns, err := SignGroupWithLogicSig(lsa, txns)
	if err != nil {
		t.Fatalf("SignGroupWithLogicSig failed: %v", err)
	}
	for i, stxn := range stxns {
		if stxn.Txn.Group == (types.Digest{}) || stxn.Txn.Group != stxns[0].Txn.Group {
			t.Errorf("txn %d not in the shared group", i)
		}
		if !bytes.Equal(stxn.Lsig.Logic, trueProgram) {
			t.Errorf("txn %d LogicSig program mismatch", i)
		}
		if len(stxn.Lsig.Args) != 1 || string(stxn.Lsig.Args[0]) != "arg" {
			t.Errorf("txn %d LogicSig args = %q", i, stxn.Lsig.Args)
		}
	}

	encoded := EncodeGroup(stxns)
	var want []byte
	for _, stxn := range stxns {
		want = append(want, msgpack.Encode(stxn)...)
	}
	if !bytes.Equal(encoded, want) {
		t.Error("EncodeGroup is not the concatenation of the signed transactions")
	}
}

func TestSignWithKey(t *testing.T) {
	sk := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x07}, ed25519.SeedSize))
	var sender types.Address
	copy(sender[:], sk.Public().(ed25519.PublicKey))

	txn, err := transaction.MakePaymentTxn(sender.String(), sender.String(), 1, nil, "", testSuggestedParams())
	if err != nil {
		t.Fatalf("MakePaymentTxn failed: %v", err)
	}
	stxn, err := SignWithKey(sk, txn)
	if err != nil {
		t.Fatalf("SignWithKey failed: %v", err)
	}
	if stxn.Sig == (types.Signature{}) {
		t.Error("transaction is not signed")
	}
	if stxn.Txn.Sender != sender {
		t.Errorf("sender = %s, want %s", stxn.Txn.Sender, sender)
	}
}

// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package dynamicfee

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"math"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/crypto"
	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/google/go-cmp/cmp"

	"github.com/aplane-algo/aptemplate/internal/genericlsig"
)

func testAddress(b byte) string {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a.String()
}

func testKey(b byte) ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(bytes.Repeat([]byte{b}, ed25519.SeedSize))
}

func testLease() [genericlsig.LeaseLength]byte {
	var lease [genericlsig.LeaseLength]byte
	for i := range lease {
		lease[i] = byte(i)
	}
	return lease
}

func testParams() Params {
	return Params{
		Receiver:   testAddress(0x02),
		Amount:     100,
		FirstValid: 10,
		LastValid:  20,
	}
}

func testGenesisHash() []byte {
	h := make([]byte, 32)
	h[0] = 1
	return h
}

func TestProgramLayout(t *testing.T) {
	lease := testLease()
	d, err := NewWithLease(testParams(), lease)
	if err != nil {
		t.Fatalf("NewWithLease failed: %v", err)
	}
	got, err := d.ProgramBytes()
	if err != nil {
		t.Fatalf("ProgramBytes failed: %v", err)
	}
	orig, err := definition.Original()
	if err != nil {
		t.Fatalf("Original failed: %v", err)
	}

	var want []byte
	want = append(want, orig[:5]...)
	want = append(want, 100, 10, 20)
	want = append(want, orig[8:11]...)
	want = append(want, bytes.Repeat([]byte{0x02}, 32)...)
	want = append(want, orig[43])
	want = append(want, make([]byte, 32)...) // no close: zero address
	want = append(want, 0x20)
	want = append(want, lease[:]...)
	want = append(want, orig[78:]...)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
	if len(got) != len(orig)+31 {
		t.Errorf("len = %d, want %d", len(got), len(orig)+31)
	}
}

func TestDefaults(t *testing.T) {
	p := testParams()
	p.LastValid = 0
	d, err := NewWithLease(p, testLease())
	if err != nil {
		t.Fatalf("NewWithLease failed: %v", err)
	}
	if got := d.Params().LastValid; got != p.FirstValid+DefaultValidity {
		t.Errorf("LastValid = %d, want %d", got, p.FirstValid+DefaultValidity)
	}

	p.LastValid = 5
	if _, err := NewWithLease(p, testLease()); !errors.Is(err, ErrInvalidRounds) {
		t.Errorf("NewWithLease(last < first) = %v, want ErrInvalidRounds", err)
	}

	p.FirstValid = math.MaxUint64 - DefaultValidity + 1
	p.LastValid = 0
	if _, err := NewWithLease(p, testLease()); !errors.Is(err, ErrInvalidRounds) {
		t.Errorf("NewWithLease(default window past the last round) = %v, want ErrInvalidRounds", err)
	}
	p.FirstValid = math.MaxUint64 - DefaultValidity
	d, err = NewWithLease(p, testLease())
	if err != nil {
		t.Fatalf("NewWithLease at the last default window failed: %v", err)
	}
	if d.Params().LastValid != math.MaxUint64 {
		t.Errorf("LastValid = %d, want %d", d.Params().LastValid, uint64(math.MaxUint64))
	}
}

func TestLeaseStable(t *testing.T) {
	d, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a, _ := d.Program()
	b, _ := d.Program()
	if a != b {
		t.Error("Program changed between calls")
	}

	other, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if other.Lease() == d.Lease() {
		t.Error("two contracts drew the same lease")
	}

	rebuilt, err := NewWithLease(testParams(), d.Lease())
	if err != nil {
		t.Fatalf("NewWithLease failed: %v", err)
	}
	c, _ := rebuilt.Program()
	if c != a {
		t.Error("rebuilding with the same lease should reproduce the program")
	}
}

func TestSignAndTransactions(t *testing.T) {
	payerSK := testKey(0x11)
	feePayerSK := testKey(0x22)

	p := testParams()
	p.CloseRemainderTo = testAddress(0x03)
	d, err := NewWithLease(p, testLease())
	if err != nil {
		t.Fatalf("NewWithLease failed: %v", err)
	}

	lsa, err := d.Sign(payerSK)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	payer, _ := lsa.Address()
	if want := addressFromKey(payerSK); payer != want {
		t.Fatalf("delegated address = %s, want %s", payer, want)
	}

	stxns, err := d.Transactions(lsa, feePayerSK, "testnet-v1.0", testGenesisHash(), 2000)
	if err != nil {
		t.Fatalf("Transactions failed: %v", err)
	}
	if len(stxns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(stxns))
	}

	reimburse, payment := stxns[0].Txn, stxns[1].Txn
	if reimburse.Sender != addressFromKey(feePayerSK) || reimburse.Receiver != payer {
		t.Errorf("reimbursement %s -> %s, want fee payer -> payer", reimburse.Sender, reimburse.Receiver)
	}
	if uint64(reimburse.Amount) != uint64(payment.Fee) || payment.Fee != 2000 {
		t.Errorf("reimbursed %d for fee %d, want 2000 for 2000", reimburse.Amount, payment.Fee)
	}
	if payment.Sender != payer || payment.Receiver.String() != testAddress(0x02) {
		t.Errorf("payment %s -> %s, want payer -> receiver", payment.Sender, payment.Receiver)
	}
	if payment.Amount != 100 || payment.CloseRemainderTo.String() != testAddress(0x03) {
		t.Errorf("payment amount %d close %s", payment.Amount, payment.CloseRemainderTo)
	}
	if payment.FirstValid != 10 || payment.LastValid != 20 {
		t.Errorf("payment rounds [%d, %d], want [10, 20]", payment.FirstValid, payment.LastValid)
	}
	if payment.Lease != testLease() {
		t.Error("payment does not carry the contract lease")
	}
	if reimburse.Group == (types.Digest{}) || reimburse.Group != payment.Group {
		t.Error("transactions are not grouped together")
	}
	if stxns[0].Sig == (types.Signature{}) {
		t.Error("reimbursement is not signed")
	}
	if stxns[1].Lsig.Sig == (types.Signature{}) {
		t.Error("payment LogicSig carries no delegating signature")
	}
}

func TestTransactionsRejectsForeignLogicSig(t *testing.T) {
	d, err := NewWithLease(testParams(), testLease())
	if err != nil {
		t.Fatalf("NewWithLease failed: %v", err)
	}
	program, _ := d.ProgramBytes()

	escrow := crypto.LogicSigAccount{Lsig: types.LogicSig{Logic: program}}
	if _, err := d.Transactions(escrow, testKey(0x22), "", testGenesisHash(), 1000); !errors.Is(err, ErrNotDelegated) {
		t.Errorf("Transactions(undelegated) = %v, want ErrNotDelegated", err)
	}

	other, _ := NewWithLease(testParams(), [genericlsig.LeaseLength]byte{})
	lsa, err := other.Sign(testKey(0x11))
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}
	if _, err := d.Transactions(lsa, testKey(0x22), "", testGenesisHash(), 1000); !errors.Is(err, ErrProgramMismatch) {
		t.Errorf("Transactions(other contract) = %v, want ErrProgramMismatch", err)
	}
}

func TestAddressDependsOnParams(t *testing.T) {
	base, err := NewWithLease(testParams(), testLease())
	if err != nil {
		t.Fatalf("NewWithLease failed: %v", err)
	}
	want, _ := base.Address()
	same, _ := NewWithLease(testParams(), testLease())
	if got, _ := same.Address(); got != want {
		t.Errorf("same parameters and lease gave %s, want %s", got, want)
	}

	tests := []struct {
		name   string
		modify func(*Params, *[genericlsig.LeaseLength]byte)
	}{
		{"lease", func(_ *Params, l *[genericlsig.LeaseLength]byte) { l[0] ^= 0xff }},
		{"amount", func(p *Params, _ *[genericlsig.LeaseLength]byte) { p.Amount = 101 }},
		{"first_valid", func(p *Params, _ *[genericlsig.LeaseLength]byte) { p.FirstValid = 11 }},
		{"last_valid", func(p *Params, _ *[genericlsig.LeaseLength]byte) { p.LastValid = 21 }},
		{"receiver", func(p *Params, _ *[genericlsig.LeaseLength]byte) { p.Receiver = testAddress(0x03) }},
		{"close_remainder_to", func(p *Params, _ *[genericlsig.LeaseLength]byte) { p.CloseRemainderTo = testAddress(0x04) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, lease := testParams(), testLease()
			tt.modify(&p, &lease)
			d, err := NewWithLease(p, lease)
			if err != nil {
				t.Fatalf("NewWithLease failed: %v", err)
			}
			if got, _ := d.Address(); got == want {
				t.Errorf("changing %s kept address %s", tt.name, got)
			}
		})
	}
}

func TestProviderNew(t *testing.T) {
	tmpl := &DynamicFeeTemplate{}
	lease := testLease()
	p := testParams()

	built, err := tmpl.New(map[string]string{
		"receiver":    p.Receiver,
		"amount":      "100",
		"first_valid": "10",
		"last_valid":  "20",
		"lease":       base64.StdEncoding.EncodeToString(lease[:]),
	})
	if err != nil {
		t.Fatalf("New from params failed: %v", err)
	}
	direct, _ := NewWithLease(p, lease)

	a, _ := built.Program()
	b, _ := direct.Program()
	if a != b {
		t.Error("provider-built program differs from direct construction")
	}

	if _, err := tmpl.New(map[string]string{
		"receiver":    p.Receiver,
		"amount":      "100",
		"first_valid": "10",
		"lease":       base64.StdEncoding.EncodeToString([]byte("short")),
	}); err == nil {
		t.Error("New should reject a lease of the wrong length")
	}
}

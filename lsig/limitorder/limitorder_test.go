// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package limitorder

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"testing"

	"github.com/algorand/go-algorand-sdk/v2/types"
	"github.com/google/go-cmp/cmp"
)

func testAddress(b byte) string {
	var a types.Address
	for i := range a {
		a[i] = b
	}
	return a.String()
}

func testParams() Params {
	return Params{
		Owner:       testAddress(0x01),
		AssetID:     7,
		Ratn:        2,
		Ratd:        3,
		ExpiryRound: 50,
		MinTrade:    100,
		MaxFee:      2000,
	}
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
	p := testParams()
	p.MaxFee = 90
	l, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, err := l.ProgramBytes()
	if err != nil {
		t.Fatalf("ProgramBytes failed: %v", err)
	}
	orig, err := definition.Original()
	if err != nil {
		t.Fatalf("Original failed: %v", err)
	}

	want := append([]byte(nil), orig...)
	want[5] = 90
	want[7] = 100
	want[9] = 7
	want[10] = 3
	want[11] = 2
	want[12] = 50
	copy(want[16:48], bytes.Repeat([]byte{0x01}, 32))

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("program mismatch (-want +got):\n%s", diff)
	}
}

func TestProgramLargeAssetID(t *testing.T) {
	p := testParams()
	p.MaxFee = 90
	p.AssetID = 12345678 // 4 bytes
	l, err := New(p)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, _ := l.ProgramBytes()
	orig, _ := definition.Original()

	if len(got) != len(orig)+3 {
		t.Fatalf("len = %d, want %d", len(got), len(orig)+3)
	}
	if !bytes.Equal(got[9:13], []byte{0xce, 0xc2, 0xf1, 0x05}) {
		t.Errorf("asset_id bytes = %x, want cec2f105", got[9:13])
	}
	if got[13] != 3 || got[14] != 2 || got[15] != 50 {
		t.Errorf("ratd/ratn/expiry = %x, want 030232", got[13:16])
	}
	if !bytes.Equal(got[19:51], bytes.Repeat([]byte{0x01}, 32)) {
		t.Error("owner not at shifted offset")
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Params)
		want   error
	}{
		{"zero numerator", func(p *Params) { p.Ratn = 0 }, ErrInvalidRatio},
		{"zero denominator", func(p *Params) { p.Ratd = 0 }, ErrInvalidRatio},
		{"algo asset", func(p *Params) { p.AssetID = 0 }, ErrInvalidAsset},
		{"bad owner", func(p *Params) { p.Owner = "" }, nil},
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

func TestCheckTrade(t *testing.T) {
	l, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tests := []struct {
		name       string
		asset, mAl uint64
		want       error
	}{
		{"exact ratio", 200, 300, nil},
		{"better for owner", 250, 300, nil},
		{"short one unit", 199, 300, ErrRatio},
		{"at minimum", 100, 100, ErrBelowMinTrade},
		{"just above minimum", 68, 101, nil},
		{"products overflow 64 bits", ^uint64(0), ^uint64(0), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := l.CheckTrade(tt.asset, tt.mAl)
			if tt.want == nil {
				if err != nil {
					t.Errorf("CheckTrade = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckTrade = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSwapAssetsTransactions(t *testing.T) {
	l, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	contract, _ := l.Address()
	buyerSK := ed25519.NewKeyFromSeed(bytes.Repeat([]byte{0x33}, ed25519.SeedSize))
	var buyer types.Address
	copy(buyer[:], buyerSK.Public().(ed25519.PublicKey))

	stxns, err := l.SwapAssetsTransactions(200, 300, buyerSK, testSuggestedParams(10))
	if err != nil {
		t.Fatalf("SwapAssetsTransactions failed: %v", err)
	}
	if len(stxns) != 2 {
		t.Fatalf("got %d transactions, want 2", len(stxns))
	}

	payment, transfer := stxns[0].Txn, stxns[1].Txn
	if payment.Sender.String() != contract || payment.Receiver != buyer || payment.Amount != 300 {
		t.Errorf("payment %s -> %s (%d), want contract -> buyer (300)", payment.Sender, payment.Receiver, payment.Amount)
	}
	if transfer.Type != types.AssetTransferTx {
		t.Errorf("second transaction type = %s, want axfer", transfer.Type)
	}
	if transfer.Sender != buyer || transfer.AssetReceiver.String() != testAddress(0x01) {
		t.Errorf("transfer %s -> %s, want buyer -> owner", transfer.Sender, transfer.AssetReceiver)
	}
	if transfer.AssetAmount != 200 || transfer.XferAsset != 7 {
		t.Errorf("transfer %d of asset %d, want 200 of 7", transfer.AssetAmount, transfer.XferAsset)
	}
	if payment.Group == (types.Digest{}) || payment.Group != transfer.Group {
		t.Error("transactions are not grouped together")
	}
	if len(stxns[0].Lsig.Logic) == 0 {
		t.Error("payment is not authorized by the contract")
	}
	if stxns[1].Sig == (types.Signature{}) {
		t.Error("transfer is not signed by the buyer")
	}

	if _, err := l.SwapAssetsTransactions(199, 300, buyerSK, testSuggestedParams(10)); !errors.Is(err, ErrRatio) {
		t.Errorf("SwapAssetsTransactions(short) = %v, want ErrRatio", err)
	}

	sp := testSuggestedParams(10)
	sp.Fee = 5000
	if _, err := l.SwapAssetsTransactions(200, 300, buyerSK, sp); !errors.Is(err, ErrFeeTooHigh) {
		t.Errorf("SwapAssetsTransactions(high fee) = %v, want ErrFeeTooHigh", err)
	}
}

func TestCloseoutTransaction(t *testing.T) {
	l, err := New(testParams())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if _, err := l.CloseoutTransaction(testSuggestedParams(50)); !errors.Is(err, ErrNotExpired) {
		t.Errorf("CloseoutTransaction at expiry = %v, want ErrNotExpired", err)
	}
	stxn, err := l.CloseoutTransaction(testSuggestedParams(51))
	if err != nil {
		t.Fatalf("CloseoutTransaction failed: %v", err)
	}
	if stxn.Txn.CloseRemainderTo.String() != testAddress(0x01) || stxn.Txn.Amount != 0 {
		t.Errorf("close-out pays %d and closes to %s, want 0 and owner", stxn.Txn.Amount, stxn.Txn.CloseRemainderTo)
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
		{"asset_id", func(p *Params) { p.AssetID = 8 }},
		{"ratn", func(p *Params) { p.Ratn = 1 }},
		{"ratd", func(p *Params) { p.Ratd = 4 }},
		{"expiry_round", func(p *Params) { p.ExpiryRound = 51 }},
		{"min_trade", func(p *Params) { p.MinTrade = 101 }},
		{"max_fee", func(p *Params) { p.MaxFee = 2001 }},
		{"owner", func(p *Params) { p.Owner = testAddress(0x03) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.modify(&p)
			l, err := New(p)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if got, _ := l.Address(); got == want {
				t.Errorf("changing %s kept address %s", tt.name, got)
			}
		})
	}
}

func TestProviderNew(t *testing.T) {
	tmpl := &LimitOrderTemplate{}
	p := testParams()

	built, err := tmpl.New(map[string]string{
		"owner":        p.Owner,
		"asset_id":     "7",
		"ratn":         "2",
		"ratd":         "3",
		"expiry_round": "50",
		"min_trade":    "100",
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
	if built.KeyType() != "limitorder-v1" {
		t.Errorf("KeyType = %q", built.KeyType())
	}
}

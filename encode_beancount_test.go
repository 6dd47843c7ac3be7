package q2b

import (
	"strings"
	"testing"
)

func TestEncodeBeancount(t *testing.T) {
	b := postBook(t, `!Type:Cat
NGroceries
^
!Account
NChequing
TBank
^
!Type:Bank
D01/10'20
T-42.50
PSupermarket
MWeekly shop
LGroceries
^
`)
	var sb strings.Builder
	if err := b.EncodeBeancount(&sb); err != nil {
		t.Fatalf("EncodeBeancount() error: %v", err)
	}
	out := sb.String()

	for _, want := range []string{
		`option "title" "Test Ledger"`,
		`option "operating_currency" "CAD"`,
		`option "booking_method" "FIFO"`,
		"1901-01-01 open Assets:Chequing",
		"1901-01-01 open Expenses:Groceries",
		`2020-01-10 * "Supermarket" "Weekly shop"`,
		"-42.50 CAD",
		"42.50 CAD",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Inactive for years with nothing held: closed at last activity.
	if !strings.Contains(out, "2020-01-10 close Assets:Chequing") {
		t.Errorf("output missing close directive:\n%s", out)
	}
	if !strings.Contains(out, "2020-01-10 close Expenses:Groceries") {
		t.Errorf("output missing category close directive:\n%s", out)
	}
}

func TestEncodeKeepsHeldAccountsOpen(t *testing.T) {
	b := postBook(t, `!Account
NBroker
TPort
^
!Type:Invst
D01/02'20
NBuy
YAcme Corp
I10.00
Q10
T100.00
^
`)
	var sb strings.Builder
	if err := b.EncodeBeancount(&sb); err != nil {
		t.Fatalf("EncodeBeancount() error: %v", err)
	}
	if strings.Contains(sb.String(), "close Assets:Broker") {
		t.Error("account with open lots was closed")
	}
}

func TestEncodePositionLegFormat(t *testing.T) {
	b := postBook(t, `!Account
NBroker
TPort
^
!Type:Invst
D01/02'20
NBuy
YAcme Corp
I9.99
Q10
T100.00
O0.01
^
`)
	var sb strings.Builder
	if err := b.EncodeBeancount(&sb); err != nil {
		t.Fatalf("EncodeBeancount() error: %v", err)
	}
	out := sb.String()
	if !strings.Contains(out, `2020-01-02 * "Buy" ""`) {
		t.Errorf("output missing trade header:\n%s", out)
	}
	if !strings.Contains(out, "10.0000 ACME-CORP {9.999000 CAD}") {
		t.Errorf("output missing position leg with cost:\n%s", out)
	}
}

func TestEncodeRepeatable(t *testing.T) {
	b := postBook(t, sameCurrencyQIF)
	var first, second strings.Builder
	if err := b.EncodeBeancount(&first); err != nil {
		t.Fatal(err)
	}
	if err := b.EncodeBeancount(&second); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Error("encoding twice produced different output")
	}
}

func TestConsolidateDropsCancelledLegs(t *testing.T) {
	_, a, _ := testAccount(t)
	cad := a.Currency()
	ps := []*Posting{
		{Account: a, Amount: NewAmount(dec("100"), cad)},
		{Account: a, Amount: NewAmount(dec("-100"), cad)},
		{Account: a, Amount: NewAmount(dec("5"), cad), Comment: "kept"},
	}
	out := consolidate(ps)
	if len(out) != 1 || out[0].Comment != "kept" {
		t.Fatalf("consolidate() = %d legs, want only the commented one", len(out))
	}
	// The inputs are untouched.
	if !ps[0].Amount.Value().Equal(dec("100")) {
		t.Error("consolidate() mutated its input")
	}
}

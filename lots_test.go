package q2b

import (
	"testing"

	"github.com/mortisj/quicken2beancount/date"
)

func testAccount(t *testing.T) (*Book, *Account, *Security) {
	t.Helper()
	b, err := NewBook("t", "CAD", testToday)
	if err != nil {
		t.Fatal(err)
	}
	a, err := b.NewAccount("[Broker]", "Port", "CAD", false)
	if err != nil {
		t.Fatal(err)
	}
	sec, err := b.NewSecurity("Acme Corp")
	if err != nil {
		t.Fatal(err)
	}
	return b, a, sec
}

func TestRemoveHoldingFIFO(t *testing.T) {
	_, a, sec := testAccount(t)
	cad := a.Currency()
	a.addHolding(sec, date.MustParse("2020-01-02"), dec("10"), NewAmount(dec("9.999"), cad), true)
	a.addHolding(sec, date.MustParse("2020-01-03"), dec("5"), NewAmount(dec("12"), cad), true)

	out := a.removeHolding(sec, dec("12"))
	if len(out) != 2 {
		t.Fatalf("removeHolding() returned %d removals, want 2", len(out))
	}
	if !out[0].quantity.Equal(dec("10")) || !out[0].cost.Value().Equal(dec("9.999")) {
		t.Errorf("first removal = %s @ %s, want 10 @ 9.999", out[0].quantity, out[0].cost)
	}
	if !out[1].quantity.Equal(dec("2")) || !out[1].cost.Value().Equal(dec("12")) {
		t.Errorf("second removal = %s @ %s, want 2 @ 12", out[1].quantity, out[1].cost)
	}
	// The second lot keeps its remainder.
	if got := a.lots[sec]; len(got) != 1 || !got[0].quantity.Equal(dec("3")) {
		t.Errorf("remaining lots = %v, want one lot of 3", got)
	}
}

func TestRemoveHoldingShortfall(t *testing.T) {
	_, a, sec := testAccount(t)
	a.addHolding(sec, date.MustParse("2020-01-02"), dec("4"), NewAmount(dec("10"), a.Currency()), true)

	out := a.removeHolding(sec, dec("7"))
	if len(out) != 2 {
		t.Fatalf("removeHolding() returned %d removals, want 2", len(out))
	}
	short := out[1]
	if !short.quantity.Equal(dec("3")) || short.costKnown || short.dateKnown {
		t.Errorf("shortfall removal = %+v, want quantity 3 with no date or cost", short)
	}
	if a.hasHoldings() {
		t.Error("hasHoldings() = true after emptying the position")
	}
}

func TestAddHoldingIgnoresOwnCurrency(t *testing.T) {
	_, a, _ := testAccount(t)
	a.addHolding(a.Currency(), date.MustParse("2020-01-02"), dec("100"), NewAmount(dec("1"), a.Currency()), true)
	if a.hasHoldings() {
		t.Error("hasHoldings() = true after adding the home currency")
	}
}

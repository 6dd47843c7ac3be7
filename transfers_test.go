package q2b

import "testing"

const sameCurrencyQIF = `!Account
NChequing
TBank
^
!Type:Bank
D02/01'20
T-100.00
PMove to savings
L[Savings]
^
!Account
NSavings
TBank
^
!Type:Bank
D02/01'20
T100.00
PMove from chequing
L[Chequing]
^
`

func TestTransferMatchSameCurrency(t *testing.T) {
	b := postBook(t, sameCurrencyQIF)
	chequing := account(t, b, "[Chequing]")
	savings := account(t, b, "[Savings]")

	// The first leg posts the pair, the mirror record is swallowed.
	if n := len(chequing.txs[0].postings); n != 2 {
		t.Errorf("chequing transfer has %d postings, want 2", n)
	}
	if n := len(savings.txs[0].postings); n != 0 {
		t.Errorf("savings mirror record has %d postings, want 0", n)
	}
	if p := findPosting(t, chequing.txs[0], "Assets:Savings"); !p.Amount.Value().Equal(dec("100")) {
		t.Errorf("savings leg = %s, want 100", p.Amount)
	}
	if len(chequing.pending)+len(savings.pending) != 0 {
		t.Error("matched transfer left pending entries")
	}
}

func TestTransferAmountMustMatch(t *testing.T) {
	b := postBook(t, `!Account
NChequing
TBank
^
!Type:Bank
D02/01'20
T-100.00
L[Savings]
^
!Account
NSavings
TBank
^
!Type:Bank
D02/01'20
T90.00
L[Chequing]
^
`)
	chequing := account(t, b, "[Chequing]")
	savings := account(t, b, "[Savings]")
	// Same currency, different amounts: both legs stand alone.
	if n := len(savings.txs[0].postings); n != 2 {
		t.Errorf("mismatched mirror record has %d postings, want 2", n)
	}
	if len(chequing.pending) != 1 || len(savings.pending) != 1 {
		t.Errorf("pending = %d/%d, want 1/1", len(chequing.pending), len(savings.pending))
	}
}

func TestTransferCrossCurrency(t *testing.T) {
	b := postBook(t, `!Account
NBroker US
TPort
DUS side <USD>
^
!Type:Bank
D03/01'20
T130.00
PWire in
L[Chequing]
^
!Account
NChequing
TBank
^
!Type:Bank
D03/01'20
T-100.00
PWire out
L[Broker US]
^
`)
	broker := account(t, b, "[Broker US]")
	chequing := account(t, b, "[Chequing]")

	// The mirror record collapses into the first leg's transaction.
	if n := len(chequing.txs[0].postings); n != 0 {
		t.Errorf("chequing mirror record has %d postings, want 0", n)
	}
	tx := broker.txs[0]
	if n := len(tx.postings); n != 2 {
		t.Fatalf("cross-currency transfer has %d postings, want 2", n)
	}
	if p := findPosting(t, tx, "Assets:Broker-US"); !p.Amount.Value().Equal(dec("130")) {
		t.Errorf("broker leg = %s, want 130", p.Amount)
	}
	// The chequing leg is restated in its own currency with the implied
	// conversion rate.
	p := findPosting(t, tx, "Assets:Chequing")
	if !p.Amount.Value().Equal(dec("-100")) || p.Amount.Security().Symbol() != "CAD" {
		t.Errorf("chequing leg = %s, want -100 CAD", p.Amount)
	}
	if p.Price == nil || !p.Price.Value().Equal(dec("1.3")) || p.Price.Security().Symbol() != "USD" {
		t.Errorf("implied rate = %v, want 1.3 USD per CAD", p.Price)
	}
	if p.Comment != "Exchange" {
		t.Errorf("rewritten leg comment = %q, want Exchange", p.Comment)
	}
	if len(broker.pending)+len(chequing.pending) != 0 {
		t.Error("matched transfer left pending entries")
	}
	ex := b.Exchanges()
	if len(ex) != 1 || !ex[0].Rate.Equal(dec("1.3")) || ex[0].From != "CAD" || ex[0].To != "USD" {
		t.Errorf("Exchanges() = %v, want one CAD/USD conversion at 1.3", ex)
	}
}

func TestTransferTieBreakMostRecent(t *testing.T) {
	b := postBook(t, `!Account
NChequing
TBank
^
!Type:Bank
D03/01'20
T-100.00
PWire out
L[Broker US]
^
D03/01'20
T-200.00
PSecond wire out
L[Broker US]
^
!Account
NBroker US
TPort
DUS side <USD>
^
!Type:Bank
D03/01'20
T130.00
PWire in
L[Chequing]
^
`)
	chequing := account(t, b, "[Chequing]")
	broker := account(t, b, "[Broker US]")

	// Across currencies both same-day legs are candidates; the mirror
	// record pairs with the most recently queued one and leaves the
	// earlier wire waiting.
	if n := len(broker.txs[0].postings); n != 0 {
		t.Errorf("broker mirror record has %d postings, want 0", n)
	}
	if len(chequing.pending) != 1 || !chequing.pending[0].amount.Value().Equal(dec("-100")) {
		t.Fatalf("pending = %v, want the -100 wire still queued", chequing.pending)
	}
	first := findPosting(t, chequing.txs[0], "Assets:Broker-US")
	if !first.Amount.Value().Equal(dec("100")) || first.Price != nil {
		t.Errorf("earlier wire's broker leg = %+v, want untouched 100 CAD", first)
	}
	rate := dec("200").Div(dec("130"))
	second := findPosting(t, chequing.txs[1], "Assets:Broker-US")
	if !second.Amount.Value().Equal(dec("130")) || second.Amount.Security().Symbol() != "USD" {
		t.Errorf("paired broker leg = %s, want 130 USD", second.Amount)
	}
	if second.Price == nil || !second.Price.Value().Equal(rate) || second.Price.Security().Symbol() != "CAD" {
		t.Errorf("implied rate = %v, want %s CAD per USD", second.Price, rate)
	}
	if ex := b.Exchanges(); len(ex) != 1 || !ex[0].Rate.Equal(rate) {
		t.Errorf("Exchanges() = %v, want one conversion at %s", ex, rate)
	}
	checkBalanced(t, chequing.txs[1])
}

func TestTransferToCategoryNeverPends(t *testing.T) {
	b := postBook(t, `!Type:Cat
NSalary
I
^
!Account
NChequing
TBank
^
!Type:Bank
D04/01'20
T2000.00
PEmployer
LSalary
^
`)
	chequing := account(t, b, "[Chequing]")
	tx := chequing.txs[0]
	if n := len(tx.postings); n != 2 {
		t.Fatalf("category payment has %d postings, want 2", n)
	}
	if p := findPosting(t, tx, "Income:Salary"); !p.Amount.Value().Equal(dec("-2000")) {
		t.Errorf("salary leg = %s, want -2000", p.Amount)
	}
	if len(chequing.pending) != 0 {
		t.Error("external counterparty was queued for matching")
	}
}

func TestSplitLegMatchesTransfer(t *testing.T) {
	b := postBook(t, `!Type:Cat
NGroceries
^
!Account
NChequing
TBank
^
!Type:Bank
D05/01'20
T-150.00
PPayday split
SGroceries
$-50.00
S[Savings]
$-100.00
^
!Account
NSavings
TBank
^
!Type:Bank
D05/01'20
T100.00
L[Chequing]
^
`)
	chequing := account(t, b, "[Chequing]")
	savings := account(t, b, "[Savings]")
	// The split leg stands in for the transfer; the mirror record in the
	// savings account is swallowed.
	if n := len(savings.txs[0].postings); n != 0 {
		t.Errorf("savings mirror record has %d postings, want 0", n)
	}
	checkBalanced(t, chequing.txs[0])
	if len(chequing.pending)+len(savings.pending) != 0 {
		t.Error("matched split transfer left pending entries")
	}
}

func TestPostIdempotent(t *testing.T) {
	b := postBook(t, sameCurrencyQIF)
	chequing := account(t, b, "[Chequing]")
	before := len(chequing.txs[0].postings)
	if err := b.Post(); err != nil {
		t.Fatalf("second Post() error: %v", err)
	}
	if after := len(chequing.txs[0].postings); after != before {
		t.Errorf("second Post() grew postings from %d to %d", before, after)
	}
}

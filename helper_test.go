package q2b

import (
	"strings"
	"testing"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/mortisj/quicken2beancount/qif"
	"github.com/shopspring/decimal"
)

// testToday pins "now" so close-directive cutoffs are deterministic.
var testToday = date.MustParse("2026-01-15")

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// loadBook decodes a QIF literal into a fresh book.
func loadBook(t *testing.T, text string) *Book {
	t.Helper()
	f, err := qif.Decode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	b, err := NewBook("Test Ledger", "CAD", testToday)
	if err != nil {
		t.Fatalf("NewBook() error: %v", err)
	}
	if err := b.Load(f); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return b
}

// postBook loads and posts a QIF literal.
func postBook(t *testing.T, text string) *Book {
	t.Helper()
	b := loadBook(t, text)
	if err := b.Post(); err != nil {
		t.Fatalf("Post() error: %v", err)
	}
	return b
}

func account(t *testing.T, b *Book, qname string) *Account {
	t.Helper()
	a, err := b.Account(qname)
	if err != nil {
		t.Fatalf("Account(%q) error: %v", qname, err)
	}
	return a
}

// checkBalanced verifies that a transaction's postings sum to zero per
// currency, position legs valued at cost (or at price when the cost is
// unknown).
func checkBalanced(t *testing.T, tx *Transaction) {
	t.Helper()
	sums := make(map[*Security]decimal.Decimal)
	for _, p := range tx.postings {
		w := p.weight()
		sums[w.Security()] = sums[w.Security()].Add(w.Value())
	}
	for sec, sum := range sums {
		if !sum.IsZero() {
			t.Errorf("%s %q: postings sum to %s %s, want 0", tx.date, tx.payee, sum, sec.Symbol())
		}
	}
}

// findPosting returns the first posting on the given ledger account name.
func findPosting(t *testing.T, tx *Transaction, name string) *Posting {
	t.Helper()
	for _, p := range tx.postings {
		if p.Account.name == name {
			return p
		}
	}
	t.Fatalf("%s %q: no posting on %s", tx.date, tx.payee, name)
	return nil
}

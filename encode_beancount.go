package q2b

import (
	"bufio"
	"fmt"
	"io"
	"log"
)

// openEpoch predates every plausible record so open directives never
// sort after their first transaction.
const openEpoch = "1901-01-01"

// closeAfterYears is how long an account with an empty inventory must
// stay inactive before it is closed.
const closeAfterYears = 2

// EncodeBeancount writes the posted book as a Beancount ledger: options,
// open directives, transactions grouped by account in source order, then
// close directives for accounts long inactive with nothing held.
func (b *Book) EncodeBeancount(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "option %q %q\n", "title", b.title)
	fmt.Fprintf(bw, "option %q %q\n", "operating_currency", b.currency)
	fmt.Fprintf(bw, "option %q %q\n\n", "booking_method", "FIFO")

	for _, a := range b.order {
		fmt.Fprintf(bw, "%s open %s\n", openEpoch, a.name)
	}
	fmt.Fprintln(bw)

	for _, a := range b.order {
		for _, tx := range a.txs {
			encodeTransaction(bw, tx)
		}
	}

	cutoff := b.today.AddYears(-closeAfterYears)
	for _, a := range b.order {
		if a.last.IsZero() || !a.last.Before(cutoff) {
			continue
		}
		if a.hasHoldings() {
			log.Printf("%s inactive since %s but still holds positions, not closed", a.name, a.last)
			continue
		}
		fmt.Fprintf(bw, "%s close %s\n", a.last, a.name)
	}
	return bw.Flush()
}

// encodeTransaction writes one transaction, its postings consolidated.
// Transactions whose postings all cancelled out are dropped.
func encodeTransaction(w io.Writer, tx *Transaction) {
	postings := consolidate(tx.postings)
	if len(postings) == 0 {
		return
	}
	payee := tx.payee
	if tx.invst {
		payee = tx.action
	}
	fmt.Fprintf(w, "%s * %q %q\n", tx.date, payee, tx.memo)
	// Position legs first, the way a brokerage statement reads.
	for _, p := range postings {
		if p.Cost != nil || p.EmptyCost {
			encodePosting(w, p)
		}
	}
	for _, p := range postings {
		if p.Cost == nil && !p.EmptyCost {
			encodePosting(w, p)
		}
	}
	fmt.Fprintln(w)
}

func encodePosting(w io.Writer, p *Posting) {
	fmt.Fprintf(w, "  %-40s %12s %s", p.Account.name, p.Amount.value.StringFixed(p.Amount.prec), p.Amount.sec.Symbol())
	switch {
	case p.EmptyCost:
		fmt.Fprint(w, " {}")
	case p.Cost != nil:
		fmt.Fprintf(w, " {%s}", *p.Cost)
	}
	if p.Price != nil {
		fmt.Fprintf(w, " @ %s", *p.Price)
	}
	if p.Comment != "" {
		fmt.Fprintf(w, " ; %s", p.Comment)
	}
	fmt.Fprintln(w)
}

// consolidate merges uncommented postings that share account, cost and
// price, and drops the ones that net to zero. The inputs are copied, so
// encoding is repeatable.
func consolidate(ps []*Posting) []*Posting {
	var out []*Posting
merge:
	for _, p := range ps {
		c := *p
		if c.Comment == "" {
			for _, q := range out {
				if q.Comment == "" && q.Account == c.Account &&
					q.Amount.Security() == c.Amount.Security() &&
					sameUnit(q.Cost, c.Cost) && q.EmptyCost == c.EmptyCost &&
					sameUnit(q.Price, c.Price) {
					q.Amount = q.Amount.Add(c.Amount)
					continue merge
				}
			}
		}
		out = append(out, &c)
	}
	kept := out[:0]
	for _, p := range out {
		if !p.Amount.IsZero() {
			kept = append(kept, p)
		}
	}
	return kept
}

func sameUnit(a, b *Amount) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil || b == nil:
		return false
	}
	return a.Equal(*b)
}

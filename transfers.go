package q2b

import (
	"log"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/shopspring/decimal"
)

// A pendingTransfer is one half of a cross-account transfer waiting for
// its mirror record. It lives on the queue of the account that recorded
// it; counterPosting is the leg it wrote into the counter account's
// books, denominated in the recording account's currency, which the
// mirror record may rewrite.
type pendingTransfer struct {
	date           date.Date
	counter        *Account
	amount         Amount // signed effect on the recording account
	leg            *Posting
	counterPosting *Posting
}

// transferLeg posts one side of a transfer: amt is the signed effect on
// origin, in origin's home currency, and counter receives the opposite.
//
// When both accounts are internal the leg first looks on the counter's
// queue for the mirror record of the same transfer; a hit swallows this
// leg entirely so the transfer appears once. Across currencies the hit
// also rewrites the stale counter posting into this account's own terms,
// with the implied conversion rate attached. A miss posts both legs and
// queues this one. External counterparties never match.
func (b *Book) transferLeg(tx *Transaction, origin, counter *Account, amt Amount, comment string) {
	if origin.external || counter.external {
		tx.add(&Posting{Account: origin, Amount: amt})
		tx.add(&Posting{Account: counter, Amount: amt.Neg(), Comment: comment})
		return
	}
	same := origin.currency == counter.currency
	var hits []int
	for i, p := range counter.pending {
		if p.counter != origin || p.date != tx.date {
			continue
		}
		if same && !p.amount.Value().Equal(amt.Value().Neg()) {
			continue
		}
		hits = append(hits, i)
	}
	if len(hits) > 0 {
		if len(hits) > 1 {
			log.Printf("%s: %d transfers match %s on %s, pairing the most recent", origin.name, len(hits), counter.name, tx.date)
		}
		i := hits[len(hits)-1]
		p := counter.pending[i]
		counter.pending = append(counter.pending[:i], counter.pending[i+1:]...)
		if !same {
			// The mirror leg booked our side in its own currency; restate
			// it in ours and let the implied rate balance its transaction.
			rate := p.amount.Value().Div(amt.Value().Neg())
			price := NewAmount(rate, counter.currency).WithPrecision(pricePrecision)
			p.counterPosting.Amount = amt
			p.counterPosting.Price = &price
			p.counterPosting.Comment = "Exchange"
			b.exchanges = append(b.exchanges, Exchange{
				Date: tx.date,
				From: origin.currency.Symbol(),
				To:   counter.currency.Symbol(),
				Rate: rate,
			})
		}
		return
	}
	leg := &Posting{Account: origin, Amount: amt}
	cp := &Posting{Account: counter, Amount: amt.Neg(), Comment: comment}
	tx.add(leg)
	tx.add(cp)
	origin.pending = append(origin.pending, &pendingTransfer{
		date: tx.date, counter: counter, amount: amt, leg: leg, counterPosting: cp,
	})
}

// An Exchange is a currency conversion implied by a matched
// cross-currency transfer: one unit of From bought Rate units of To.
type Exchange struct {
	Date date.Date
	From string
	To   string
	Rate decimal.Decimal
}

// Exchanges returns the conversions implied by the posted transfers, in
// posting order.
func (b *Book) Exchanges() []Exchange { return b.exchanges }

// reportUnmatched logs every transfer leg still waiting for its mirror
// record once posting is over.
func (b *Book) reportUnmatched() {
	for _, a := range b.order {
		for _, p := range a.pending {
			log.Printf("unmatched transfer: %s %s from %s to %s", p.date, p.amount, a.name, p.counter.name)
		}
	}
}

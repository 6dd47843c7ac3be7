package q2b

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
)

var ten = decimal.NewFromInt(10)

// Post turns every loaded transaction into ledger postings. Investment
// trades go first so lot inventories and prices exist before anything
// references them, split payments second, and plain transfers last so
// that the explicit half of a transfer wins over the implicit one.
func (b *Book) Post() error {
	phases := []func(*Transaction) bool{
		func(t *Transaction) bool { return t.invst },
		func(t *Transaction) bool { return !t.invst && len(t.splits) > 0 },
		func(t *Transaction) bool { return !t.invst && len(t.splits) == 0 },
	}
	for _, match := range phases {
		for _, a := range b.order {
			for _, tx := range a.txs {
				if !match(tx) {
					continue
				}
				if err := b.post(tx); err != nil {
					return fmt.Errorf("%s %s %q: %w", tx.date, a.qname, tx.payee, err)
				}
			}
		}
	}
	b.reportUnmatched()
	return nil
}

// post dispatches one transaction, exactly once.
func (b *Book) post(tx *Transaction) error {
	if tx.posted {
		return nil
	}
	tx.posted = true
	if tx.invst {
		return b.postInvestment(tx)
	}
	return b.postSimple(tx)
}

// postSimple handles bank-style records: split payments fan out one
// matchable leg per line, plain records move the amount between the
// account and its category or transfer counterpart.
func (b *Book) postSimple(tx *Transaction) error {
	a := tx.account
	if len(tx.splits) > 0 {
		for _, s := range tx.splits {
			if s.Amount.IsZero() {
				continue
			}
			if s.Category == "" {
				log.Printf("%s %s: split line %q has no category, skipped", tx.date, a.qname, s.Memo)
				continue
			}
			to, err := b.Account(s.Category)
			if err != nil {
				return err
			}
			b.transferLeg(tx, a, to, tx.cash(s.Amount), s.Memo)
		}
		return nil
	}
	if tx.amount.IsZero() {
		return nil
	}
	origin := a
	category := tx.category
	switch {
	case category == "":
		log.Printf("%s %s %q: no category, booked against opening balances", tx.date, a.qname, tx.payee)
		category = openingBalances
	case category == a.qname:
		// A transfer to self marks an opening balance.
		ob, err := b.Account(openingBalances)
		if err != nil {
			return err
		}
		origin = ob
	}
	to, err := b.Account(category)
	if err != nil {
		return err
	}
	b.transferLeg(tx, origin, to, tx.cash(tx.amount), "")
	return nil
}

// postInvestment applies the per-action posting rules of brokerage
// records. Any commission tacks on an extra expense posting.
func (b *Book) postInvestment(tx *Transaction) error {
	a := tx.account
	var to *Account
	if tx.category != "" {
		var err error
		if to, err = b.Account(tx.category); err != nil {
			return err
		}
	}
	sec := tx.security
	amount, qty := tx.amount, tx.quantity

	switch tx.action {
	case Buy, BuyX:
		b.acquire(tx, sec, qty, tx.price)
		tx.add(&Posting{Account: a, Amount: tx.cash(amount.Neg())})
		if tx.action == BuyX && to != nil {
			b.transferLeg(tx, a, to, tx.cash(amount), "")
		}

	case Sell, SellX:
		if err := b.dispose(tx, sec, qty, tx.price); err != nil {
			return err
		}
		tx.add(&Posting{Account: a, Amount: tx.cash(amount)})
		if tx.action == SellX && to != nil {
			b.transferLeg(tx, a, to, tx.cash(amount.Neg()), "")
		}

	case Div, DivX:
		if err := b.income(tx, "_DivInc_", amount); err != nil {
			return err
		}
		if tx.action == DivX && to != nil {
			b.transferLeg(tx, a, to, tx.cash(amount.Neg()), "")
		}

	case IntInc:
		if err := b.income(tx, "_IntInc_", amount); err != nil {
			return err
		}

	case ReinvDiv, ReinvInt:
		prefix := "_DivInc_"
		if tx.action == ReinvInt {
			prefix = "_IntInc_"
		}
		b.acquire(tx, sec, qty, tx.price)
		bucket, err := b.Account(prefix + a.currency.Symbol())
		if err != nil {
			return err
		}
		tx.add(&Posting{Account: bucket, Amount: tx.cash(amount.Neg())})

	case XIn, XOut, Cash:
		amt := amount
		if tx.action == XOut {
			amt = amt.Neg()
		}
		if to == nil {
			if amount.IsZero() {
				break
			}
			log.Printf("%s %s %s: no counter account, booked against opening balances", tx.date, a.qname, tx.action)
			var err error
			if to, err = b.Account(openingBalances); err != nil {
				return err
			}
		}
		b.transferLeg(tx, a, to, tx.cash(amt), "")

	case ShrsIn:
		price := tx.price
		if price.IsZero() && sec != nil {
			price = sec.Price(tx.date)
		}
		if sec != nil && !qty.IsZero() {
			b.acquire(tx, sec, qty, price)
			shrs, err := b.Account("_ShrsInOut")
			if err != nil {
				return err
			}
			tx.add(&Posting{Account: shrs, Amount: tx.cash(qty.Mul(price).Neg()), Comment: sec.Name()})
		}

	case ShrsOut:
		price := tx.price
		if price.IsZero() && sec != nil {
			price = sec.Price(tx.date)
		}
		if sec != nil && !qty.IsZero() {
			if err := b.dispose(tx, sec, qty, price); err != nil {
				return err
			}
			shrs, err := b.Account("_ShrsInOut")
			if err != nil {
				return err
			}
			tx.add(&Posting{Account: shrs, Amount: tx.cash(qty.Mul(price)), Comment: sec.Name()})
		}

	case MiscIncX, MiscExpX:
		exp, err := b.Account("_IntExp")
		if err != nil {
			return err
		}
		comment := ""
		if sec != nil {
			comment = sec.Name()
		}
		if tx.action == MiscIncX {
			tx.add(&Posting{Account: a, Amount: tx.cash(amount), Comment: comment})
			tx.add(&Posting{Account: exp, Amount: tx.cash(amount.Neg())})
			if to != nil {
				b.transferLeg(tx, a, to, tx.cash(amount.Neg()), "")
			}
		} else {
			tx.add(&Posting{Account: exp, Amount: tx.cash(amount)})
			tx.add(&Posting{Account: a, Amount: tx.cash(amount.Neg()), Comment: comment})
			if to != nil {
				b.transferLeg(tx, a, to, tx.cash(amount), "")
			}
		}

	case MargInt:
		exp, err := b.Account("_IntExp")
		if err != nil {
			return err
		}
		tx.add(&Posting{Account: a, Amount: tx.cash(amount.Neg())})
		tx.add(&Posting{Account: exp, Amount: tx.cash(amount)})

	case CGShort:
		bucket, err := b.Account("_ST CapGnDst")
		if err != nil {
			return err
		}
		tx.add(&Posting{Account: a, Amount: tx.cash(amount)})
		tx.add(&Posting{Account: bucket, Amount: tx.cash(amount.Neg())})

	case StkSplit:
		if err := b.split(tx, sec, qty); err != nil {
			return err
		}

	case CGLong, Reminder:
		log.Printf("%s %s: %s not supported, skipped", tx.date, a.qname, tx.action)
		return nil

	default:
		return fmt.Errorf("%q: %w", tx.action, ErrUnknownAction)
	}

	if !tx.commission.IsZero() {
		com, err := b.Account("_commissions")
		if err != nil {
			return err
		}
		tx.add(&Posting{Account: com, Amount: tx.cash(tx.commission)})
	}
	return nil
}

// acquire opens a lot and posts the position leg at cost.
func (b *Book) acquire(tx *Transaction, sec *Security, qty, price decimal.Decimal) {
	a := tx.account
	cost := NewAmount(price, a.currency).WithPrecision(pricePrecision)
	a.addHolding(sec, tx.date, qty, cost, true)
	tx.add(&Posting{
		Account: a,
		Amount:  NewAmount(qty, sec).WithPrecision(quantityPrecision),
		Cost:    &cost,
	})
}

// dispose consumes lots oldest first and posts one leg per lot, booked
// against the inventory at the disposal price. The net realized gain
// over the known cost bases goes to the capital-gains account.
func (b *Book) dispose(tx *Transaction, sec *Security, qty, price decimal.Decimal) error {
	a := tx.account
	p := NewAmount(price, a.currency).WithPrecision(pricePrecision)
	gain := decimal.Zero
	for _, r := range a.removeHolding(sec, qty) {
		post := &Posting{
			Account:   a,
			Amount:    NewAmount(r.quantity.Neg(), sec).WithPrecision(quantityPrecision),
			EmptyCost: true,
			Price:     &p,
		}
		if r.costKnown {
			if r.cost.Security() != a.currency {
				return fmt.Errorf("lot of %s acquired in %s, account runs in %s: %w",
					sec.Symbol(), r.cost.Security().Symbol(), a.currency.Symbol(), ErrCurrencyMismatch)
			}
			cost := r.cost
			post.Cost = &cost
			gain = gain.Add(r.quantity.Mul(price.Sub(r.cost.Value())))
		}
		tx.add(post)
	}
	if !gain.IsZero() {
		rg, err := b.Account("_RlzdGains")
		if err != nil {
			return err
		}
		tx.add(&Posting{Account: rg, Amount: tx.cash(gain.Neg())})
	}
	return nil
}

// income posts a receipt against the per-currency dividend or interest
// bucket, tagging the cash leg with the paying security.
func (b *Book) income(tx *Transaction, prefix string, amount decimal.Decimal) error {
	bucket, err := b.Account(prefix + tx.account.currency.Symbol())
	if err != nil {
		return err
	}
	comment := ""
	if tx.security != nil {
		comment = tx.security.Name()
	}
	tx.add(&Posting{Account: tx.account, Amount: tx.cash(amount), Comment: comment})
	tx.add(&Posting{Account: bucket, Amount: tx.cash(amount.Neg())})
	return nil
}

// split restates every open lot of sec for a stock split. The quantity
// field carries the new-for-old ratio times ten. Each lot is disposed at
// its own cost and reopened with the scaled quantity and cost, so no
// gain is realized and both value and basis are preserved; the cash legs
// cancel out. The price history gets the post-split price the next day.
func (b *Book) split(tx *Transaction, sec *Security, qty decimal.Decimal) error {
	a := tx.account
	if sec == nil || qty.IsZero() {
		return nil
	}
	factor := qty.Div(ten)
	open := a.lots[sec]
	if len(open) == 0 {
		log.Printf("%s %s: stock split of %s with no open position", tx.date, a.qname, sec.Symbol())
		return nil
	}
	market := sec.Price(tx.date)
	a.lots[sec] = nil
	for _, l := range open {
		unit := l.cost
		if !l.costKnown {
			unit = NewAmount(market, a.currency).WithPrecision(pricePrecision)
		}
		out := &Posting{
			Account:   a,
			Amount:    NewAmount(l.quantity.Neg(), sec).WithPrecision(quantityPrecision),
			EmptyCost: true,
			Price:     &unit,
			Cost:      &unit,
		}
		tx.add(out)
		tx.add(&Posting{Account: a, Amount: tx.cash(l.quantity.Mul(unit.Value()))})

		newQty := l.quantity.Mul(factor)
		newCost := NewAmount(unit.Value().Div(factor), a.currency).WithPrecision(pricePrecision)
		a.addHolding(sec, l.date, newQty, newCost, true)
		tx.add(&Posting{Account: a, Amount: NewAmount(newQty, sec).WithPrecision(quantityPrecision), Cost: &newCost})
		tx.add(&Posting{Account: a, Amount: tx.cash(newQty.Mul(newCost.Value()).Neg())})
	}
	if !market.IsZero() {
		sec.UpdatePrice(tx.date.Add(1), market.Div(factor))
	}
	log.Printf("%s %s: %s split %s for 10", tx.date, a.qname, sec.Symbol(), qty)
	return nil
}

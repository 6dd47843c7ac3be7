package q2b

import (
	"log"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/shopspring/decimal"
)

// A lot is an open position in one security: a quantity acquired on one
// day at one unit cost. Lots are kept in acquisition order so that
// disposals consume the oldest first.
type lot struct {
	date      date.Date
	quantity  decimal.Decimal // always positive
	cost      Amount          // unit cost in the account's home currency
	costKnown bool
}

// A removal describes the part of one lot consumed by a disposal. When a
// disposal exceeds the open position the final removal covers the
// shortfall and carries neither date nor cost.
type removal struct {
	quantity  decimal.Decimal
	date      date.Date
	dateKnown bool
	cost      Amount
	costKnown bool
}

// addHolding opens a new lot. Buying the account's own currency is cash
// movement, not a position, and is ignored.
func (a *Account) addHolding(sec *Security, on date.Date, quantity decimal.Decimal, cost Amount, costKnown bool) {
	if sec == a.currency {
		return
	}
	a.lots[sec] = append(a.lots[sec], lot{date: on, quantity: quantity, cost: cost, costKnown: costKnown})
}

// removeHolding consumes 'quantity' units of sec from the open lots,
// oldest first, and reports one removal per lot touched. A partially
// consumed lot stays open with the remainder.
func (a *Account) removeHolding(sec *Security, quantity decimal.Decimal) []removal {
	var out []removal
	queue := a.lots[sec]
	for quantity.IsPositive() && len(queue) > 0 {
		l := queue[0]
		if l.quantity.GreaterThan(quantity) {
			queue[0].quantity = l.quantity.Sub(quantity)
			out = append(out, removal{quantity: quantity, date: l.date, dateKnown: true, cost: l.cost, costKnown: l.costKnown})
			quantity = decimal.Zero
			break
		}
		queue = queue[1:]
		out = append(out, removal{quantity: l.quantity, date: l.date, dateKnown: true, cost: l.cost, costKnown: l.costKnown})
		quantity = quantity.Sub(l.quantity)
	}
	a.lots[sec] = queue
	if quantity.IsPositive() {
		log.Printf("%s: removing %s %s beyond the open position, cost basis unknown", a.name, quantity, sec.Symbol())
		out = append(out, removal{quantity: quantity})
	}
	return out
}

// hasHoldings reports whether any lot is still open.
func (a *Account) hasHoldings() bool {
	for _, queue := range a.lots {
		if len(queue) > 0 {
			return true
		}
	}
	return false
}

package q2b

import (
	"strings"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/mortisj/quicken2beancount/qif"
	"github.com/shopspring/decimal"
)

// Investment actions with posting rules.
const (
	Buy      = "Buy"
	BuyX     = "BuyX"
	Sell     = "Sell"
	SellX    = "SellX"
	Div      = "Div"
	DivX     = "DivX"
	IntInc   = "IntInc"
	ReinvDiv = "ReinvDiv"
	ReinvInt = "ReinvInt"
	XIn      = "XIn"
	XOut     = "XOut"
	Cash     = "Cash"
	ShrsIn   = "ShrsIn"
	ShrsOut  = "ShrsOut"
	MiscIncX = "MiscIncX"
	MiscExpX = "MiscExpX"
	MargInt  = "MargInt"
	CGShort  = "CGShort"
	CGLong   = "CGLong"
	StkSplit = "StkSplit"
	Reminder = "Reminder"
)

// A Transaction is one normalized source record bound to its account.
// Posting it appends ledger postings; the guard flag makes posting
// idempotent.
type Transaction struct {
	account *Account
	invst   bool
	action  string
	date    date.Date
	payee   string
	memo    string
	// category is the counter side: a category name, or a bracketed
	// account name for transfers.
	category   string
	security   *Security
	amount     decimal.Decimal
	quantity   decimal.Decimal
	price      decimal.Decimal
	commission decimal.Decimal
	splits     []SplitLeg

	posted   bool
	postings []*Posting
}

// A SplitLeg is one line of a split payment.
type SplitLeg struct {
	Category string
	Memo     string
	Amount   decimal.Decimal
}

// newTransaction normalizes one source record: strings are sanitized,
// the security is resolved, and the unit price of a trade is corrected
// so that quantity, price, commission and total agree. The corrected
// price also feeds the security's price history.
func (b *Book) newTransaction(a *Account, r *qif.Transaction) (*Transaction, error) {
	t := &Transaction{
		account:    a,
		invst:      r.IsInvestment(),
		action:     r.Action,
		date:       r.Date,
		payee:      cleanString(r.Payee),
		memo:       cleanString(r.Memo),
		category:   r.Category,
		amount:     r.Amount,
		quantity:   r.Quantity,
		price:      r.Price,
		commission: r.Commission,
	}
	if t.amount.IsZero() && !r.UAmount.IsZero() {
		t.amount = r.UAmount
	}
	if t.invst && t.amount.IsZero() && !r.TransferAmount.IsZero() {
		t.amount = r.TransferAmount
	}
	for _, s := range r.Splits {
		t.splits = append(t.splits, SplitLeg{Category: s.Category, Memo: cleanString(s.Memo), Amount: s.Amount})
	}
	if r.Security != "" {
		sec, err := b.ensureSecurity(r.Security)
		if err != nil {
			return nil, err
		}
		t.security = sec
	}
	t.correctPrice()
	return t, nil
}

// correctPrice rederives the unit price of a trade from its total: the
// recorded price field is rounded in the source, while total, quantity
// and commission are exact. Buys pay the commission out of the total,
// sells receive the total net of it.
func (t *Transaction) correctPrice() {
	if !t.invst || t.quantity.IsZero() || t.amount.IsZero() {
		return
	}
	switch t.action {
	case Buy, BuyX, ReinvDiv, ReinvInt:
		t.price = t.amount.Sub(t.commission).Div(t.quantity)
	case Sell, SellX:
		t.price = t.amount.Add(t.commission).Div(t.quantity)
	default:
		return
	}
	if t.security != nil && !t.price.IsZero() {
		t.security.UpdatePrice(t.date, t.price)
	}
}

// add appends a posting and widens its account's activity window.
func (t *Transaction) add(p *Posting) {
	t.postings = append(t.postings, p)
	p.Account.touch(t.date)
}

// cash returns v denominated in the transaction account's home currency.
func (t *Transaction) cash(v decimal.Decimal) Amount {
	return NewAmount(v, t.account.currency)
}

// cleanString strips what the ledger grammar cannot quote: double quotes
// become single, backslashes and non-ASCII runes are dropped.
func cleanString(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '"':
			sb.WriteByte('\'')
		case r == '\\' || r > 127:
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

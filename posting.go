package q2b

// A Posting is one leg of a ledger transaction: an amount applied to an
// account, optionally at a cost (lot acquisition), with an empty cost
// marker (lot disposal, booked against the open inventory) or a price
// (disposal proceeds, or an inferred currency-conversion rate).
//
// A disposal posting may carry both: EmptyCost controls how the leg is
// written, while Cost keeps the consumed lot's unit cost for balance
// accounting.
type Posting struct {
	Account   *Account
	Amount    Amount
	Cost      *Amount
	EmptyCost bool
	Price     *Amount
	Comment   string
}

// weight is the posting's value in the account's home currency: cost for
// lots, price for costless disposals, face value for cash.
func (p *Posting) weight() Amount {
	switch {
	case p.Cost != nil:
		return NewAmount(p.Amount.Value().Mul(p.Cost.Value()), p.Cost.Security())
	case p.Price != nil:
		return NewAmount(p.Amount.Value().Mul(p.Price.Value()), p.Price.Security())
	}
	return p.Amount
}

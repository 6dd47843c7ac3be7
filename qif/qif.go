// Package qif reads Quicken Interchange Format exports into typed records.
//
// A QIF file is a sequence of sections introduced by a "!" header line.
// Each section holds one or more records terminated by a "^" line, and each
// record line starts with a one or two character field code. Transaction
// sections apply to the most recently declared account.
package qif

import (
	"strings"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/shopspring/decimal"
)

// File is the result of decoding a QIF export.
type File struct {
	Accounts   []*Account
	Categories []*Category
	Securities []*Security
}

// Account is a declared account and the transactions recorded in it.
type Account struct {
	Name         string
	Type         string // Bank, CCard, Port, Oth A, Oth L, ...
	Description  string // may embed a currency code in angle brackets
	Transactions []*Transaction
}

// Category is a declared spending or income category.
type Category struct {
	Name        string
	Description string
	Income      bool
}

// Security is a declared investment security.
type Security struct {
	Name   string
	Symbol string
	Type   string
}

// Transaction is one record from a transaction section. Decimal fields are
// zero when the field is absent, matching the source format's semantics
// where a missing field and a zero field are indistinguishable.
type Transaction struct {
	Type           string // section type, "Invst" for investment records
	Action         string // N field, investment records only
	Date           date.Date
	Payee          string
	Memo           string
	Category       string // L field, counter-account or category
	Tag            string
	Security       string // Y field
	Cleared        string
	Amount         decimal.Decimal // T field, total amount
	UAmount        decimal.Decimal // U field
	Quantity       decimal.Decimal // Q field
	Price          decimal.Decimal // I field
	Commission     decimal.Decimal // O field
	TransferAmount decimal.Decimal // $ field on investment records
	Splits         []*Split
}

// IsInvestment reports whether the record came from an investment section.
func (t *Transaction) IsInvestment() bool { return t.Type == "Invst" }

// Split is one leg of a split transaction.
type Split struct {
	Category string
	Tag      string
	Memo     string
	Amount   decimal.Decimal
}

// splitCategory separates an optional "/tag" suffix from a category value
// and drops the "|" garbage character some exports produce.
func splitCategory(s string) (category, tag string) {
	s = strings.ReplaceAll(s, "|", "")
	if i := strings.Index(s, "/"); i >= 0 {
		return s[:i], s[i+1:]
	}
	return s, ""
}

package q2b

import (
	"fmt"
	"strings"

	"github.com/mortisj/quicken2beancount/date"
)

// An Account is one node of the ledger's account tree. Internal accounts
// mirror a real account of the source file and carry a lot inventory and
// a pending-transfer queue; external accounts stand for categories and
// for the synthetic equity/income/expense buckets, and their transfer
// legs are never matched.
type Account struct {
	qname    string // name in the source file, e.g. "[Chequing]" or "Salary"
	name     string // ledger name, e.g. "Assets:Chequing"
	currency *Security
	external bool

	first, last date.Date
	lots        map[*Security][]lot
	pending     []*pendingTransfer
	txs         []*Transaction
}

// Name returns the ledger account name.
func (a *Account) Name() string { return a.name }

// QName returns the account's name in the source file.
func (a *Account) QName() string { return a.qname }

// Currency returns the account's home currency.
func (a *Account) Currency() *Security { return a.currency }

// Synthetic source names with a fixed place in the ledger tree.
var accountSynonyms = map[string]string{
	"_IntInc_CAD":  "Income:8092-Interest-Canadian",
	"_IntInc_USD":  "Income:8091-Interest-Foreign",
	"_DivInc_CAD":  "Income:8096-Dividends-Canadian",
	"_DivInc_USD":  "Income:8097-Dividends-Foreign",
	"_RlzdGains":   "Income:8211-Capital-Gains",
	"_ST CapGnDst": "Income:8211-Capital-Gains-Short",
	"_commissions": "Expenses:8869-Brokerage-Commissions",
	"_IntExp":      "Expenses:8869-Brokerage-Fees-Misc",
	"_ShrsInOut":   "Equity:3500-Share-Transfers",
}

// Source account types that open on the liability side; every other
// known type is an asset.
var liabilityTypes = map[string]bool{
	"CCard": true, "Oth L": true, "Bill": true, "Tax": true,
}

var assetTypes = map[string]bool{
	"Bank": true, "Cash": true, "Oth A": true, "Port": true,
	"Invoice": true, "RRSP": true, "Mutual": true,
}

// deriveName maps a source account or category name onto the ledger
// tree. Transfer counter-accounts arrive bracketed ("[Chequing]") and
// categories bare; accttype is the source account type ("Bank", "CCard",
// ...) or "Income"/"Expenses" for categories.
func deriveName(qname, accttype string) (string, error) {
	if qname == "_openingbalances" || strings.Contains(qname, "Opening Balance") {
		return "Equity:3500-Opening-Balance:" + cleanName(strings.Trim(qname, "[]")), nil
	}
	if n, ok := accountSynonyms[qname]; ok {
		return n, nil
	}
	if strings.HasPrefix(qname, "8231") || qname == "_Exchange" {
		return "Income:8231-Foreign-Exchange", nil
	}
	if qname == "3700 Dividends Declared" {
		return "Equity:3700-Dividends-Declared", nil
	}
	bare := cleanName(strings.Trim(qname, "[]"))
	switch {
	case strings.HasPrefix(qname, "[3500"):
		return "Equity:" + bare, nil
	case strings.HasPrefix(qname, "[2962"), strings.HasPrefix(qname, "[2680"):
		return "Liabilities:" + bare, nil
	case liabilityTypes[accttype]:
		return "Liabilities:" + bare, nil
	case assetTypes[accttype]:
		return "Assets:" + bare, nil
	case accttype == "Income", accttype == "Expenses":
		return accttype + ":" + bare, nil
	}
	return "", fmt.Errorf("account %q (type %q): %w", qname, accttype, ErrUnknownAccountType)
}

// NewAccount registers an account under its source name. The currency
// code defaults to the book's operating currency when empty.
func (b *Book) NewAccount(qname, accttype, currency string, external bool) (*Account, error) {
	if _, ok := b.accounts[qname]; ok {
		return nil, fmt.Errorf("account %q: %w", qname, ErrDuplicateName)
	}
	name, err := deriveName(qname, accttype)
	if err != nil {
		return nil, err
	}
	if other, ok := b.names[name]; ok {
		return nil, fmt.Errorf("account %q and %q both map to %q: %w", qname, other.qname, name, ErrDuplicateName)
	}
	if currency == "" {
		currency = b.currency
	}
	cur, err := b.ensureCurrency(currency)
	if err != nil {
		return nil, err
	}
	a := &Account{
		qname:    qname,
		name:     name,
		currency: cur,
		external: external,
		lots:     make(map[*Security][]lot),
	}
	b.accounts[qname] = a
	b.names[name] = a
	b.order = append(b.order, a)
	return a, nil
}

// Account returns the account registered under a source name.
func (b *Book) Account(qname string) (*Account, error) {
	a, ok := b.accounts[qname]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", qname, ErrNotFound)
	}
	return a, nil
}

// touch widens the account's activity window to include 'on'.
func (a *Account) touch(on date.Date) {
	if a.first.IsZero() || on.Before(a.first) {
		a.first = on
	}
	if a.last.IsZero() || on.After(a.last) {
		a.last = on
	}
}

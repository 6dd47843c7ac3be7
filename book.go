package q2b

import (
	"fmt"
	"log"
	"regexp"

	"github.com/Rhymond/go-money"
	"github.com/mortisj/quicken2beancount/date"
	"github.com/mortisj/quicken2beancount/qif"
)

// openingBalances is the synthetic source name of the equity bucket that
// absorbs opening balances and uncategorized movements.
const openingBalances = "_openingbalances"

// fixedAccounts are the synthetic counterparties the posting rules rely
// on; they exist in every book.
var fixedAccounts = []string{
	openingBalances,
	"_commissions",
	"_RlzdGains",
	"_ST CapGnDst",
	"_IntInc_CAD",
	"_IntInc_USD",
	"_DivInc_CAD",
	"_DivInc_USD",
	"_IntExp",
	"_ShrsInOut",
	"_Exchange",
}

// fixedAccountTypes maps the synthetic names that deriveName cannot place
// on its own onto a side of the tree.
var fixedAccountTypes = map[string]string{
	"_commissions": "Expenses",
	"_IntExp":      "Expenses",
	"_ShrsInOut":   "Income",
	"_RlzdGains":   "Income",
	"_ST CapGnDst": "Income",
	"_IntInc_CAD":  "Income",
	"_IntInc_USD":  "Income",
	"_DivInc_CAD":  "Income",
	"_DivInc_USD":  "Income",
	"_Exchange":    "Income",
}

// A Book is one conversion in flight: the registries of securities and
// accounts, the normalized transactions, and the ledger options.
type Book struct {
	title    string
	currency string // operating currency code
	today    date.Date

	securities map[string]*Security
	symbols    map[string]*Security
	accounts   map[string]*Account
	names      map[string]*Account
	order      []*Account
	exchanges  []Exchange
}

// NewBook returns a book with the operating currency and the fixed
// synthetic accounts registered.
func NewBook(title, currency string, today date.Date) (*Book, error) {
	b := &Book{
		title:      title,
		currency:   currency,
		today:      today,
		securities: make(map[string]*Security),
		symbols:    make(map[string]*Security),
		accounts:   make(map[string]*Account),
		names:      make(map[string]*Account),
	}
	if _, err := b.ensureCurrency(currency); err != nil {
		return nil, err
	}
	for _, qname := range fixedAccounts {
		if _, err := b.NewAccount(qname, fixedAccountTypes[qname], "", true); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Accounts returns every registered account in registration order, the
// fixed synthetic ones first.
func (b *Book) Accounts() []*Account { return b.order }

// ensureCurrency returns the security standing for a currency code,
// registering it on first sight. Codes unknown to ISO 4217 are accepted
// with a warning and a two-digit fraction.
func (b *Book) ensureCurrency(code string) (*Security, error) {
	if s, ok := b.securities[code]; ok {
		return s, nil
	}
	if money.GetCurrency(code) == nil {
		log.Printf("unknown currency code %q", code)
	}
	return b.NewSecurity(code)
}

// accountCurrency extracts a currency code wrapped in angle brackets
// from an account description, e.g. "broker <USD>".
var accountCurrency = regexp.MustCompile(`<([A-Za-z]+)>`)

// Load registers the categories, accounts and securities of a source
// file and normalizes its transactions. Prices recorded on trade records
// seed the security histories before any transaction is constructed, so
// same-day lookups see them.
func (b *Book) Load(f *qif.File) error {
	for _, c := range f.Categories {
		if _, ok := b.accounts[c.Name]; ok {
			// the fixed synthetic accounts are often redeclared as categories
			continue
		}
		accttype := "Expenses"
		if c.Income {
			accttype = "Income"
		}
		if _, err := b.NewAccount(c.Name, accttype, "", true); err != nil {
			return err
		}
	}
	for _, qa := range f.Accounts {
		currency := ""
		if m := accountCurrency.FindStringSubmatch(qa.Description); m != nil {
			currency = m[1]
		}
		if _, err := b.NewAccount("["+qa.Name+"]", qa.Type, currency, false); err != nil {
			return err
		}
	}
	for _, qa := range f.Accounts {
		for _, r := range qa.Transactions {
			if !r.IsInvestment() || r.Security == "" || r.Price.IsZero() {
				continue
			}
			sec, err := b.ensureSecurity(r.Security)
			if err != nil {
				return err
			}
			sec.UpdatePrice(r.Date, r.Price)
		}
	}
	for _, qa := range f.Accounts {
		a, err := b.Account("[" + qa.Name + "]")
		if err != nil {
			return err
		}
		for _, r := range qa.Transactions {
			t, err := b.newTransaction(a, r)
			if err != nil {
				return fmt.Errorf("%s %s: %w", r.Date, qa.Name, err)
			}
			a.txs = append(a.txs, t)
		}
	}
	return nil
}

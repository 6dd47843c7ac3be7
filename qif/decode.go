package qif

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/shopspring/decimal"
)

// Decode reads a full QIF stream and returns its typed records.
func Decode(r io.Reader) (*File, error) {
	d := &decoder{
		scanner:    bufio.NewScanner(r),
		file:       &File{},
		accounts:   make(map[string]*Account),
		categories: make(map[string]*Category),
		securities: make(map[string]*Security),
	}
	d.next()
	for d.line != "" {
		d.section()
	}
	if err := d.scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading qif input: %w", err)
	}
	return d.file, nil
}

type decoder struct {
	scanner *bufio.Scanner
	line    string // current non-blank line, "" at end of input
	file    *File

	accounts   map[string]*Account
	categories map[string]*Category
	securities map[string]*Security
	last       *Account // account owning subsequent transaction sections
}

// next advances to the next non-blank line.
func (d *decoder) next() {
	for d.scanner.Scan() {
		d.line = strings.TrimSpace(d.scanner.Text())
		if d.line != "" {
			return
		}
	}
	d.line = ""
}

// chunk collects the field lines of one record, consuming the "^" terminator.
func (d *decoder) chunk() []string {
	var fields []string
	for d.line != "" && d.line[0] != '^' && d.line[0] != '!' {
		fields = append(fields, d.line)
		d.next()
	}
	if strings.HasPrefix(d.line, "^") {
		d.next()
	}
	return fields
}

func (d *decoder) section() {
	if !strings.HasPrefix(d.line, "!") {
		log.Printf("qif: no section header: %s", d.line)
		d.next()
		return
	}
	header := d.line
	d.next()

	switch header {
	case "!Type:Cat":
		d.categorySection()
	case "!Account":
		d.accountSection()
	case "!Type:Security":
		d.securitySection()
	case "!Type:Tag", "!Type:Prices", "!Type:Template", "!Type:Memorized", "!Type:InvItem":
		d.skipSection()
	default:
		d.transactionSection(strings.TrimPrefix(header, "!Type:"))
	}
}

func (d *decoder) skipSection() {
	for d.line != "" && !strings.HasPrefix(d.line, "!") {
		d.next()
	}
}

func (d *decoder) categorySection() {
	for fields := d.chunk(); len(fields) > 0; fields = d.chunk() {
		c := &Category{}
		for _, f := range fields {
			switch f[0] {
			case 'N':
				c.Name = f[1:]
			case 'D':
				c.Description = f[1:]
			case 'I':
				c.Income = true
			case 'B', 'E', 'R', 'T':
				// budget, expense flag, tax schedule, tax related: unused
			default:
				log.Printf("qif: unknown category field: %s", f)
			}
		}
		if c.Name == "" {
			log.Printf("qif: category with no name: %s", fields[0])
			continue
		}
		if _, ok := d.categories[c.Name]; !ok {
			d.categories[c.Name] = c
			d.file.Categories = append(d.file.Categories, c)
		}
	}
}

func (d *decoder) securitySection() {
	for fields := d.chunk(); len(fields) > 0; fields = d.chunk() {
		s := &Security{}
		for _, f := range fields {
			switch f[0] {
			case 'N':
				s.Name = f[1:]
			case 'S':
				s.Symbol = f[1:]
			case 'T':
				s.Type = f[1:]
			case 'G':
				// goal: unused
			default:
				log.Printf("qif: unknown security field: %s", f)
			}
		}
		if s.Name == "" {
			log.Printf("qif: security with no name: %s", fields[0])
			continue
		}
		if _, ok := d.securities[s.Name]; !ok {
			d.securities[s.Name] = s
			d.file.Securities = append(d.file.Securities, s)
		}
	}
}

func (d *decoder) accountSection() {
	// An account section can declare several accounts; the last one owns
	// the transaction sections that follow.
	for fields := d.chunk(); len(fields) > 0; fields = d.chunk() {
		a := &Account{}
		for _, f := range fields {
			switch f[0] {
			case 'N':
				a.Name = f[1:]
			case 'T':
				a.Type = f[1:]
			case 'D':
				a.Description = f[1:]
			case 'L', 'R':
				// credit limit, tax rate: unused
			default:
				log.Printf("qif: unknown account field: %s", f)
			}
		}
		if a.Name == "" {
			log.Printf("qif: account with no name: %s", fields[0])
			continue
		}
		if existing, ok := d.accounts[a.Name]; ok {
			d.last = existing
			continue
		}
		d.accounts[a.Name] = a
		d.file.Accounts = append(d.file.Accounts, a)
		d.last = a
	}
}

// splitState tracks which fields of the current split leg are already set,
// so a repeated field starts a new leg.
type splitState struct {
	category, memo, amount bool
}

func (d *decoder) transactionSection(qtype string) {
	for fields := d.chunk(); len(fields) > 0; fields = d.chunk() {
		tx := &Transaction{Type: qtype}
		var state splitState
		for _, f := range fields {
			d.transactionField(tx, &state, f, qtype)
		}
		if d.last == nil {
			log.Printf("qif: transaction section %q with no account", qtype)
			continue
		}
		d.last.Transactions = append(d.last.Transactions, tx)
	}
}

func (d *decoder) transactionField(tx *Transaction, state *splitState, f, qtype string) {
	switch f[0] {
	case 'D':
		on, err := ParseDate(f[1:])
		if err != nil {
			log.Printf("qif: %v", err)
			return
		}
		tx.Date = on
	case 'T':
		tx.Amount = parseDecimal(f[1:])
	case 'U':
		tx.UAmount = parseDecimal(f[1:])
	case 'P':
		tx.Payee = f[1:]
	case 'M':
		tx.Memo = f[1:]
	case 'N':
		tx.Action = f[1:]
	case 'L':
		tx.Category, tx.Tag = splitCategory(f[1:])
	case 'Y':
		tx.Security = f[1:]
	case 'I':
		tx.Price = parseDecimal(f[1:])
	case 'Q':
		tx.Quantity = parseDecimal(f[1:])
	case 'O':
		tx.Commission = parseDecimal(f[1:])
	case 'C':
		tx.Cleared = f[1:]
	case 'A', 'K':
		// address lines, check number: unused
	case 'S':
		category, tag := splitCategory(f[1:])
		if state.category || len(tx.Splits) == 0 {
			tx.Splits = append(tx.Splits, &Split{})
			*state = splitState{}
		}
		state.category = true
		tx.Splits[len(tx.Splits)-1].Category = category
		tx.Splits[len(tx.Splits)-1].Tag = tag
	case 'E':
		if state.memo || len(tx.Splits) == 0 {
			tx.Splits = append(tx.Splits, &Split{})
			*state = splitState{}
		}
		state.memo = true
		tx.Splits[len(tx.Splits)-1].Memo = f[1:]
	case '$':
		if qtype == "Invst" {
			tx.TransferAmount = parseDecimal(f[1:])
			return
		}
		if state.amount || len(tx.Splits) == 0 {
			tx.Splits = append(tx.Splits, &Split{})
			*state = splitState{}
		}
		state.amount = true
		tx.Splits[len(tx.Splits)-1].Amount = parseDecimal(f[1:])
	case 'X':
		// extended invoice fields (line items, tax): unused
	default:
		log.Printf("qif: unknown transaction field: %s", f)
	}
}

// ParseDate converts the QIF date forms to a Date.
//
// Observed forms: "7/ 9/98", "10/10/99", "10/10'01" (the apostrophe marks a
// 20xx year), and the four-digit-year form "01/22/2002".
func ParseDate(q string) (date.Date, error) {
	if len(q) >= 2 && q[1] == '/' {
		q = "0" + q // extend month to 2 digits
	}
	if len(q) >= 5 && q[4] == '/' {
		q = q[:3] + "0" + q[3:] // extend day to 2 digits
	}
	q = strings.ReplaceAll(q, " ", "0")

	var iso string
	switch {
	case len(q) == 10: // MM/DD/YYYY
		iso = q[6:10] + "-" + q[0:2] + "-" + q[3:5]
	case len(q) == 8 && q[5] == '\'': // MM/DD'YY, a 20xx year
		iso = "20" + q[6:8] + "-" + q[0:2] + "-" + q[3:5]
	case len(q) == 8: // MM/DD/YY, a 19xx year
		iso = "19" + q[6:8] + "-" + q[0:2] + "-" + q[3:5]
	default:
		return date.Date{}, fmt.Errorf("unknown date form %q", q)
	}
	return date.Parse(iso)
}

// parseDecimal reads a comma-grouped decimal, tolerating malformed values
// by logging and returning zero.
func parseDecimal(s string) decimal.Decimal {
	v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		log.Printf("qif: unknown decimal value: %q", s)
		return decimal.Zero
	}
	return v
}

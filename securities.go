package q2b

import (
	"fmt"
	"log"
	"strings"

	"github.com/mortisj/quicken2beancount/date"
	"github.com/shopspring/decimal"
)

// maxSymbolLen caps generated ticker symbols so they stay readable.
const maxSymbolLen = 24

// A Security is a tradable unit: a currency, or a holding named in the
// source file. It keeps a day-resolution price history in the home
// currency of the accounts that trade it.
type Security struct {
	name   string
	symbol string
	prices date.History[decimal.Decimal]
}

// Name returns the security's name as it appears in the source file.
func (s *Security) Name() string { return s.name }

// Symbol returns the ledger commodity symbol.
func (s *Security) Symbol() string { return s.symbol }

// UpdatePrice records the unit price observed on a given day. A later
// observation for the same day replaces the earlier one.
func (s *Security) UpdatePrice(on date.Date, price decimal.Decimal) {
	s.prices.Append(on, price)
}

// Price returns the most recent unit price on or before 'on'. When the
// history only starts later it falls back to the earliest known price,
// and when there is no history at all it returns zero; both fallbacks
// are logged.
func (s *Security) Price(on date.Date) decimal.Decimal {
	if v, ok := s.prices.ValueAsOf(on); ok {
		return v
	}
	if d, v, ok := s.prices.Earliest(); ok {
		log.Printf("no price for %s on %s, using earliest known (%s)", s.symbol, on, d)
		return v
	}
	log.Printf("no price history for %s, using 0", s.symbol)
	return decimal.Zero
}

// NewSecurity registers a security under its source name. Its symbol is
// derived from the name; clashing names or symbols are rejected.
func (b *Book) NewSecurity(name string) (*Security, error) {
	if _, ok := b.securities[name]; ok {
		return nil, fmt.Errorf("security %q: %w", name, ErrDuplicateName)
	}
	symbol := cleanSymbol(name)
	if _, ok := b.symbols[symbol]; ok {
		return nil, fmt.Errorf("security symbol %q (from %q): %w", symbol, name, ErrDuplicateName)
	}
	s := &Security{name: name, symbol: symbol}
	b.securities[name] = s
	b.symbols[symbol] = s
	return s, nil
}

// Security returns the security registered under a source name.
func (b *Book) Security(name string) (*Security, error) {
	s, ok := b.securities[name]
	if !ok {
		return nil, fmt.Errorf("security %q: %w", name, ErrNotFound)
	}
	return s, nil
}

// ensureSecurity returns the security for a source name, registering it
// on first sight.
func (b *Book) ensureSecurity(name string) (*Security, error) {
	if s, ok := b.securities[name]; ok {
		return s, nil
	}
	return b.NewSecurity(name)
}

// cleanSymbol turns a free-form security name into a ledger commodity
// symbol: upper case, alphanumerics and hyphens only, capped in length.
func cleanSymbol(name string) string {
	s := cleanName(name)
	s = strings.ToUpper(s)
	if len(s) > maxSymbolLen {
		s = s[:maxSymbolLen]
	}
	return strings.TrimRight(s, "-")
}

// cleanName keeps only characters valid in a ledger identifier: runs of
// spaces become a single hyphen, anything outside [A-Za-z0-9:-] is
// dropped, and each colon-separated segment is capitalized.
func cleanName(name string) string {
	var sb strings.Builder
	hyphen := false
	for _, r := range name {
		switch {
		case r == ' ' || r == '-':
			hyphen = true
		case r == ':' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9':
			if hyphen && sb.Len() > 0 {
				sb.WriteByte('-')
			}
			hyphen = false
			sb.WriteRune(r)
		}
	}
	parts := strings.Split(sb.String(), ":")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, ":")
}

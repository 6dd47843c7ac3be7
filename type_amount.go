package q2b

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Display precision for security quantities and for unit costs and
// conversion rates. Cash amounts use the ISO fraction of their currency.
const (
	quantityPrecision int32 = 4
	pricePrecision    int32 = 6
)

// An Amount is a decimal quantity of one Security (a currency or a
// holding), together with the precision it is displayed at.
//
// Binary operations require both operands to be denominated in the same
// security; mixing securities is a programming error and panics.
type Amount struct {
	value decimal.Decimal
	sec   *Security
	prec  int32
}

// NewAmount returns an amount of 'value' units of 'sec', displayed at the
// security's natural precision.
func NewAmount(value decimal.Decimal, sec *Security) Amount {
	return Amount{value: value, sec: sec, prec: displayPrecision(sec)}
}

// WithPrecision returns a copy of a displayed with p decimal digits.
func (a Amount) WithPrecision(p int32) Amount {
	a.prec = p
	return a
}

// Value returns the decimal quantity.
func (a Amount) Value() decimal.Decimal { return a.value }

// Security returns the unit the amount is denominated in.
func (a Amount) Security() *Security { return a.sec }

// IsZero returns true for a zero quantity, whatever the unit.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// Neg returns the amount with its sign flipped.
func (a Amount) Neg() Amount {
	a.value = a.value.Neg()
	return a
}

// Equal returns true if b has the same unit and the same quantity.
func (a Amount) Equal(b Amount) bool {
	return a.sec == b.sec && a.value.Equal(b.value)
}

// Add returns a+b. Panics if the units differ.
func (a Amount) Add(b Amount) Amount {
	a.sec = a.unit(b)
	a.value = a.value.Add(b.value)
	return a
}

// Sub returns a-b. Panics if the units differ.
func (a Amount) Sub(b Amount) Amount {
	a.sec = a.unit(b)
	a.value = a.value.Sub(b.value)
	return a
}

// unit merges the units of a and b, a zero-valued nil unit being neutral.
func (a Amount) unit(b Amount) *Security {
	if a.sec == nil {
		return b.sec
	}
	if b.sec == nil {
		return a.sec
	}
	if a.sec != b.sec {
		panic(fmt.Sprintf("amounts in %s and %s cannot be mixed", a.sec.Symbol(), b.sec.Symbol()))
	}
	return a.sec
}

// String formats the amount as "<value> <symbol>" at its display precision.
func (a Amount) String() string {
	if a.sec == nil {
		return a.value.StringFixed(a.prec)
	}
	return a.value.StringFixed(a.prec) + " " + a.sec.Symbol()
}

// displayPrecision returns the ISO 4217 fraction for currency units, and
// two digits for anything go-money does not know about.
func displayPrecision(sec *Security) int32 {
	if sec == nil {
		return 2
	}
	if c := money.GetCurrency(sec.Symbol()); c != nil {
		return int32(c.Fraction)
	}
	return 2
}

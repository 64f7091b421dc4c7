package models

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// Pennies is an amount of money in minor currency units. Amounts are kept as
// integers everywhere except at presentation time, where Pounds converts to a
// two-decimal major-unit value.
type Pennies int64

var amountRe = regexp.MustCompile(`^(\d+)\.(\d{2})$`)

// ParsePennies converts an amount cell like "2.40" into 240. Cells that do
// not match the <digits>.<two digits> shape (blank, "n/a", ...) mean "no
// value" in the source export and come back nil rather than zero.
func ParsePennies(s string) *Pennies {
	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	pounds, _ := strconv.ParseInt(m[1], 10, 64)
	pence, _ := strconv.ParseInt(m[2], 10, 64)

	p := Pennies(pounds*100 + pence)
	return &p
}

// Pounds returns the amount in major units.
func (p Pennies) Pounds() decimal.Decimal {
	return decimal.New(int64(p), -2)
}

// String formats the amount as a two-decimal major-unit value, the exact
// inverse of ParsePennies.
func (p Pennies) String() string {
	return p.Pounds().StringFixed(2)
}

// Package ynab turns a date-bounded slice of the ledger into a CSV file
// that YNAB's import dialog accepts.
package ynab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alomew/oysterstore/pkg/models"
	"github.com/alomew/oysterstore/pkg/store"
)

// Header is the column set YNAB expects on import.
var Header = []string{"Date", "Payee", "Memo", "Outflow", "Inflow"}

// defaultLookback is how far back an export reaches when no start date is
// given.
const defaultLookback = 14 // days

// maxDate is the effective "no upper bound" when no end date is given.
const maxDate = "9999-12-31"

// Range bounds an export with inclusive ISO dates. Either side may be
// empty: an empty start means defaultLookback days before today, an empty
// end means unbounded.
type Range struct {
	Start string
	End   string
}

func (r Range) bounds() (string, string) {
	start, end := r.Start, r.End
	if start == "" {
		start = time.Now().AddDate(0, 0, -defaultLookback).Format(models.ISODate)
	}
	if end == "" {
		end = maxDate
	}
	return start, end
}

// Export queries the ledger for the given range and writes a fresh CSV
// artifact, returning its path.
func Export(s *store.Store, payees store.Payees, r Range) (string, error) {
	start, end := r.bounds()

	rows, err := s.QueryRange(start, end, payees)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp("", "*_YNAB.csv")
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := Write(f, rows); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return f.Name(), nil
}

// Write emits rows in YNAB CSV form. Outflow and inflow are major-unit
// amounts when the ledger holds a value and empty cells when it does not;
// absent never becomes "0.00".
func Write(w io.Writer, rows []store.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			r.Date,
			r.Payee,
			r.Memo,
			amountCell(r.Charge),
			amountCell(r.Credit),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func amountCell(p *models.Pennies) string {
	if p == nil {
		return ""
	}
	return p.String()
}

package store

import (
	"database/sql"
	"fmt"

	"github.com/alomew/oysterstore/pkg/models"
)

// Row is one ledger row shaped for a budgeting export: payee and memo are
// derived per row, charge and credit stay nullable pennies.
type Row struct {
	Date   string
	Payee  string
	Memo   string
	Charge *models.Pennies
	Credit *models.Pennies
}

// QueryRange returns rows whose date falls within the inclusive
// [start, end] bound, ordered by date. Dates are ISO strings.
func (s *Store) QueryRange(start, end string, payees Payees) ([]Row, error) {
	rows, err := s.db.Query(`
		SELECT date, start_time, end_time, journey_action, charge, credit
		FROM journey_history
		WHERE date >= ? AND date <= ?
		ORDER BY date ASC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("querying range: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			date, startTime, endTime, action string
			charge, credit                   sql.NullInt64
		)
		if err := rows.Scan(&date, &startTime, &endTime, &action, &charge, &credit); err != nil {
			return nil, err
		}

		ch := scanPennies(charge)
		out = append(out, Row{
			Date:   date,
			Payee:  payees.Classify(action, ch),
			Memo:   startTime + "-" + endTime + " " + action,
			Charge: ch,
			Credit: scanPennies(credit),
		})
	}
	return out, rows.Err()
}

// LatestBalance returns the running balance recorded on the most recent
// date in the ledger, alongside that date. An empty ledger yields
// ErrNoData.
func (s *Store) LatestBalance() (string, models.Pennies, error) {
	var (
		date    string
		balance sql.NullInt64
	)
	err := s.db.QueryRow(`
		SELECT date, balance FROM journey_history
		ORDER BY date DESC LIMIT 1`).Scan(&date, &balance)
	if err == sql.ErrNoRows {
		return "", 0, ErrNoData
	}
	if err != nil {
		return "", 0, fmt.Errorf("querying latest balance: %w", err)
	}
	if !balance.Valid {
		return "", 0, fmt.Errorf("no balance recorded for %s", date)
	}
	return date, models.Pennies(balance.Int64), nil
}

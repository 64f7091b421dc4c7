package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"

	"github.com/alomew/oysterstore/pkg/models"
)

// ErrNoData is returned by queries against an empty ledger, so "no data" is
// never confused with a zero balance.
var ErrNoData = errors.New("no journeys recorded")

// Store is the durable ledger of journey history entries. It holds one
// SQLite connection, opened per invocation and closed when done.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

// Open opens (or creates) the ledger at path and ensures the schema exists.
func Open(path string, logger *log.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// MergeResult reports what Merge did with one batch.
type MergeResult struct {
	Inserted int
	Skipped  []models.Entry
}

// Merge loads one file's batch into the ledger. De-duplication is by whole
// day: any entry whose date already exists in storage is skipped and
// reported, new-date entries are inserted. The partition query and the
// inserts run in a single transaction, so a batch lands all-or-nothing.
//
// Note the day granularity means a genuinely new journey on an
// already-loaded date is skipped too; see DESIGN.md for why that stays.
func (s *Store) Merge(entries []models.Entry) (MergeResult, error) {
	var res MergeResult

	if len(entries) == 0 {
		return res, errors.New("refusing to merge an empty batch")
	}

	minDate, maxDate := dateSpan(entries)

	tx, err := s.db.Begin()
	if err != nil {
		return res, fmt.Errorf("beginning merge: %w", err)
	}
	defer tx.Rollback()

	loaded, err := loadedDates(tx, minDate, maxDate)
	if err != nil {
		return res, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO journey_history
		(date, start_time, end_time, journey_action, charge, credit, balance, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return res, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if loaded[e.ISODate()] {
			s.logger.Info("skipping already loaded day", "date", e.ISODate(), "window", e.Window())
			res.Skipped = append(res.Skipped, e)
			continue
		}

		_, err := stmt.Exec(
			e.ISODate(), e.StartTime, e.EndTime, e.JourneyAction,
			nullPennies(e.Charge), nullPennies(e.Credit), nullPennies(e.Balance), e.Note,
		)
		if err != nil {
			return MergeResult{}, fmt.Errorf("inserting entry for %s: %w", e.ISODate(), err)
		}
		res.Inserted++
	}

	if err := tx.Commit(); err != nil {
		return MergeResult{}, fmt.Errorf("committing merge: %w", err)
	}
	return res, nil
}

// loadedDates returns the distinct dates already present within the
// inclusive range.
func loadedDates(tx *sql.Tx, minDate, maxDate string) (map[string]bool, error) {
	rows, err := tx.Query(`
		SELECT DISTINCT date FROM journey_history
		WHERE date >= ? AND date <= ?`, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("querying loaded dates: %w", err)
	}
	defer rows.Close()

	loaded := map[string]bool{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		loaded[d] = true
	}
	return loaded, rows.Err()
}

func dateSpan(entries []models.Entry) (minDate, maxDate string) {
	minDate, maxDate = entries[0].ISODate(), entries[0].ISODate()
	for _, e := range entries[1:] {
		d := e.ISODate()
		if d < minDate {
			minDate = d
		}
		if d > maxDate {
			maxDate = d
		}
	}
	return minDate, maxDate
}

func nullPennies(p *models.Pennies) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func scanPennies(n sql.NullInt64) *models.Pennies {
	if !n.Valid {
		return nil
	}
	p := models.Pennies(n.Int64)
	return &p
}

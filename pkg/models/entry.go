package models

import "time"

// ISODate is the canonical calendar-date layout used at every boundary:
// storage, exports and operator output.
const ISODate = "2006-01-02"

// Entry is one row of an Oyster journey history export, normalized.
// Charge, Credit and Balance are nil when the source cell held no amount;
// absent is never collapsed to zero.
type Entry struct {
	Date          time.Time
	StartTime     string
	EndTime       string
	JourneyAction string
	Charge        *Pennies
	Credit        *Pennies
	Balance       *Pennies
	Note          string
}

// ISODate returns the entry date in canonical form.
func (e Entry) ISODate() string {
	return e.Date.Format(ISODate)
}

// Window returns the start-end time span as shown to the operator, e.g.
// "07:12-07:40". Either side may be empty.
func (e Entry) Window() string {
	return e.StartTime + "-" + e.EndTime
}

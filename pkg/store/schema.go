package store

// Dates are stored as ISO-8601 text so lexicographic comparison is calendar
// comparison. Amounts are integer pennies; NULL means the source cell held
// no amount, which is distinct from zero.
const schema = `
CREATE TABLE IF NOT EXISTS journey_history (
	date TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	journey_action TEXT NOT NULL,
	charge INTEGER,
	credit INTEGER,
	balance INTEGER,
	note TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journey_history_date ON journey_history(date);
`

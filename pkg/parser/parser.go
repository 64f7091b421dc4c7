package parser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alomew/oysterstore/pkg/models"
)

// oysterDate is the date layout used by the TfL export, e.g. "05-Jan-2024".
const oysterDate = "02-Jan-2006"

// Header is the exact column set an Oyster journey history export must
// carry, in order. Anything else means the export format changed and the
// whole file is rejected rather than silently misread.
var Header = []string{"Date", "Start Time", "End Time", "Journey/Action", "Charge", "Credit", "Balance", "Note"}

type Parser struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Parser {
	return &Parser{
		logger: logger,
	}
}

// ParseFile reads and normalizes one raw export file.
func (p *Parser) ParseFile(path string) ([]models.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes normalizes the contents of one raw export file into entries in
// source order, or fails the entire file. The first line is a blank
// separator the export always starts with; the rest is CSV.
func (p *Parser) ParseBytes(data []byte) ([]models.Entry, error) {
	nl := bytes.IndexByte(data, '\n')
	if nl < 0 {
		return nil, fmt.Errorf("export is missing the leading separator line")
	}

	r := csv.NewReader(bytes.NewReader(data[nl+1:]))

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	entries := make([]models.Entry, 0, len(rows))
	for i, row := range rows {
		e, err := normalizeRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}

	p.logger.Debug("normalized export", "rows", len(entries))
	return entries, nil
}

func checkHeader(got []string) error {
	if len(got) != len(Header) {
		return fmt.Errorf("unexpected header %q", got)
	}
	for i, label := range Header {
		if got[i] != label {
			return fmt.Errorf("unexpected header %q", got)
		}
	}
	return nil
}

func normalizeRow(row []string) (models.Entry, error) {
	date, err := time.Parse(oysterDate, row[0])
	if err != nil {
		return models.Entry{}, fmt.Errorf("parsing date %q: %w", row[0], err)
	}

	return models.Entry{
		Date:          date,
		StartTime:     row[1],
		EndTime:       row[2],
		JourneyAction: row[3],
		Charge:        models.ParsePennies(row[4]),
		Credit:        models.ParsePennies(row[5]),
		Balance:       models.ParsePennies(row[6]),
		Note:          row[7],
	}, nil
}

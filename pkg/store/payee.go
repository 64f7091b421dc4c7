package store

import (
	"strings"

	"github.com/alomew/oysterstore/pkg/models"
)

// topUpPrefix marks rows funded by the card's auto top-up instrument.
const topUpPrefix = "Auto top-up"

// Payees carries the payee names used when classifying ledger rows for a
// budgeting export. Classification is derived at query time and never
// stored.
type Payees struct {
	TopUp    string
	Operator string
}

// Classify derives the payee for one row, in fixed priority order: an
// auto top-up is a transfer from the funding instrument whether or not a
// charge is present; otherwise a charged row belongs to the transit
// operator; otherwise the payee is left empty.
func (p Payees) Classify(journeyAction string, charge *models.Pennies) string {
	switch {
	case strings.HasPrefix(journeyAction, topUpPrefix):
		return p.TopUp
	case charge != nil:
		return p.Operator
	default:
		return ""
	}
}

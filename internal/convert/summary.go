package convert

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/camt2csv/internal/camt"
)

// Credit/debit indicator values.
const (
	indicatorCredit = "CRDT"
	indicatorDebit  = "DBIT"
)

// Summary counts what one conversion emitted.
type Summary struct {
	Statements   int
	Entries      int
	EmptyEntries int // entries without transaction details
	Rows         int
	Credits      decimal.Decimal
	Debits       decimal.Decimal
	Unparsed     int // amounts missing or not a decimal number
}

// Net is credits minus debits.
func (s Summary) Net() decimal.Decimal {
	return s.Credits.Sub(s.Debits)
}

func (s *Summary) addTransaction(tx camt.Transaction) {
	s.Rows++

	amount, err := decimal.NewFromString(tx.Amount())
	if err != nil {
		s.Unparsed++
		return
	}
	switch tx.CreditDebit() {
	case indicatorCredit:
		s.Credits = s.Credits.Add(amount)
	case indicatorDebit:
		s.Debits = s.Debits.Add(amount)
	}
}

// MarshalZerologObject lets a Summary be logged with Object("summary", s).
func (s Summary) MarshalZerologObject(e *zerolog.Event) {
	e.Int("statements", s.Statements).
		Int("entries", s.Entries).
		Int("empty_entries", s.EmptyEntries).
		Int("rows", s.Rows).
		Str("credits", s.Credits.StringFixed(2)).
		Str("debits", s.Debits.StringFixed(2)).
		Str("net", s.Net().StringFixed(2)).
		Int("unparsed_amounts", s.Unparsed)
}

// Package export turns statement views into output rows and writes them to
// CSV or XLSX sinks.
package export

import "github.com/cleared-dev/camt2csv/internal/camt"

// Header block labels, as printed by the bank's own export.
const (
	LabelTitle     = "Kontoauszug"
	LabelAccount   = "Konto"
	LabelCurrency  = "Währung"
	LabelFrom      = "von"
	LabelTo        = "bis"
	LabelCreatedAt = "erstellt am"
)

// Columns is the fixed column header row.
var Columns = []string{
	"Booking Date",
	"Valuta Date",
	"Reversed",
	"Status",
	"Additional Info",
	"Additional Tx Info",
	"Number of Transactions in Booking",
	"Amount",
	"Currency",
	"Credit/Debitor",
	"Debitor",
	"Creditor",
	"Reference",
}

const (
	numFields     = 13
	colBooking    = 0
	colValuta     = 1
	colReversed   = 2
	colStatus     = 3
	colEntryInfo  = 4
	colTxInfo     = 5
	colBatchCount = 6
	colAmount     = 7
	colCurrency   = 8
	colCdtDbt     = 9
	colDebtor     = 10
	colCreditor   = 11
	colReference  = 12
)

// Cell is one output field. Quoted cells hold free text that may contain the
// delimiter and are always wrapped in double quotes in CSV output.
type Cell struct {
	Value  string
	Quoted bool
}

// Row is one output line for an (entry, transaction) pair.
type Row []Cell

// Values returns the raw cell values.
func (r Row) Values() []string {
	out := make([]string, len(r))
	for i, c := range r {
		out[i] = c.Value
	}
	return out
}

// StatementHeader holds the values printed above the column header row.
type StatementHeader struct {
	IBAN      string
	Currency  string
	From      string
	To        string
	CreatedAt string
}

// HeaderFor reads the header values from a statement view.
func HeaderFor(s camt.Statement) StatementHeader {
	return StatementHeader{
		IBAN:      s.IBAN(),
		Currency:  s.Currency(),
		From:      s.From(),
		To:        s.To(),
		CreatedAt: s.CreatedAt(),
	}
}

// Lines returns the header block as label/value pairs, title first.
func (h StatementHeader) Lines() [][]string {
	return [][]string{
		{LabelTitle},
		{LabelAccount, h.IBAN},
		{LabelCurrency, h.Currency},
		{LabelFrom, h.From},
		{LabelTo, h.To},
		{LabelCreatedAt, h.CreatedAt},
	}
}

// BuildRow lays out one (entry, transaction) pair in column order.
func BuildRow(e camt.Entry, tx camt.Transaction) Row {
	row := make(Row, numFields)
	row[colBooking] = Cell{Value: e.BookingDate()}
	row[colValuta] = Cell{Value: e.ValueDate()}
	row[colReversed] = Cell{Value: e.Reversal()}
	row[colStatus] = Cell{Value: e.Status()}
	row[colEntryInfo] = Cell{Value: e.AdditionalInfo(), Quoted: true}
	row[colTxInfo] = Cell{Value: tx.AdditionalInfo(), Quoted: true}
	row[colBatchCount] = Cell{Value: e.TransactionCount()}
	row[colAmount] = Cell{Value: tx.Amount()}
	row[colCurrency] = Cell{Value: tx.Currency()}
	row[colCdtDbt] = Cell{Value: tx.CreditDebit()}
	row[colDebtor] = Cell{Value: tx.DebtorName(), Quoted: true}
	row[colCreditor] = Cell{Value: tx.CreditorName(), Quoted: true}
	row[colReference] = Cell{Value: tx.Reference(), Quoted: true}
	return row
}

// Sink receives the header block and rows of a conversion.
type Sink interface {
	WriteHeader(h StatementHeader) error
	WriteRow(r Row) error
	Close() error
}

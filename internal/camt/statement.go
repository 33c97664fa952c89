package camt

import "github.com/beevik/etree"

// Relative paths into the CAMT.053 tree.
const (
	pathStatements = "./BkToCstmrStmt/Stmt"
	pathAllEntries = ".//Ntry"

	pathIBAN      = "./Acct/Id/IBAN"
	pathCurrency  = "./Acct/Ccy"
	pathFrom      = "./FrToDt/FrDtTm"
	pathTo        = "./FrToDt/ToDtTm"
	pathCreatedAt = "./CreDtTm"

	pathBookingDate  = "BookgDt/Dt"
	pathValueDate    = "ValDt/Dt"
	pathReversal     = "RvslInd"
	pathStatus       = "Sts"
	pathEntryInfo    = "AddtlNtryInf"
	pathBatchCount   = "NtryDtls/Btch/NbOfTxs"
	pathTransactions = "NtryDtls/TxDtls"
	pathAmount       = "Amt"
	attrCurrency     = "Ccy"
	pathCreditDebit  = "CdtDbtInd"
	pathTxInfo       = "AddtlTxInf"
	pathDebtorName   = "RltdPties/Dbtr/Nm"
	pathCreditorName = "RltdPties/Cdtr/Nm"
	pathUnstructured = "RmtInf/Ustrd"
)

// Statement is a view over one Stmt element. A Statement with no element
// resolves every field to the placeholder.
type Statement struct {
	doc *Document
	el  *etree.Element
}

// Entry is a view over one Ntry (booking) element.
type Entry struct {
	doc *Document
	el  *etree.Element
}

// Transaction is a view over one TxDtls element of an entry.
type Transaction struct {
	doc *Document
	el  *etree.Element
}

// Statements returns every statement in the document.
func (d *Document) Statements() []Statement {
	els := d.findAll(d.tree.Root(), pathStatements)
	out := make([]Statement, len(els))
	for i, el := range els {
		out[i] = Statement{doc: d, el: el}
	}
	return out
}

// FirstStatement returns the first statement. If the document has none the
// returned view is empty and all its fields are placeholders.
func (d *Document) FirstStatement() Statement {
	return Statement{doc: d, el: d.find(d.tree.Root(), pathStatements)}
}

// Entries returns every entry anywhere in the document, regardless of which
// statement it belongs to.
func (d *Document) Entries() []Entry {
	return d.entries(d.tree.Root())
}

func (d *Document) entries(el *etree.Element) []Entry {
	els := d.findAll(el, pathAllEntries)
	out := make([]Entry, len(els))
	for i, e := range els {
		out[i] = Entry{doc: d, el: e}
	}
	return out
}

// Exists reports whether the view points at an element.
func (s Statement) Exists() bool { return s.el != nil }

// IBAN is the account the statement belongs to.
func (s Statement) IBAN() string { return s.doc.Text(s.el, pathIBAN) }

// Currency is the account currency code.
func (s Statement) Currency() string { return s.doc.Text(s.el, pathCurrency) }

// From is the start of the statement period.
func (s Statement) From() string { return s.doc.Text(s.el, pathFrom) }

// To is the end of the statement period.
func (s Statement) To() string { return s.doc.Text(s.el, pathTo) }

// CreatedAt is the statement creation timestamp.
func (s Statement) CreatedAt() string { return s.doc.Text(s.el, pathCreatedAt) }

// Entries returns the entries nested inside this statement only.
func (s Statement) Entries() []Entry {
	return s.doc.entries(s.el)
}

// BookingDate is the date the entry was booked.
func (e Entry) BookingDate() string { return e.doc.Text(e.el, pathBookingDate) }

// ValueDate is the valuta date.
func (e Entry) ValueDate() string { return e.doc.Text(e.el, pathValueDate) }

// Reversal is the reversal indicator, "true" or "false" when present.
func (e Entry) Reversal() string { return e.doc.Text(e.el, pathReversal) }

// Status is the entry status, usually BOOK.
func (e Entry) Status() string { return e.doc.Text(e.el, pathStatus) }

// AdditionalInfo is the free-text entry description.
func (e Entry) AdditionalInfo() string { return e.doc.Text(e.el, pathEntryInfo) }

// TransactionCount is the number of transactions batched in the entry.
func (e Entry) TransactionCount() string { return e.doc.Text(e.el, pathBatchCount) }

// Transactions returns the entry's transaction details in document order.
func (e Entry) Transactions() []Transaction {
	els := e.doc.findAll(e.el, pathTransactions)
	out := make([]Transaction, len(els))
	for i, el := range els {
		out[i] = Transaction{doc: e.doc, el: el}
	}
	return out
}

// Amount is the transaction amount as written in the document.
func (t Transaction) Amount() string { return t.doc.Text(t.el, pathAmount) }

// Currency is the Ccy attribute of the amount.
func (t Transaction) Currency() string { return t.doc.Attr(t.el, pathAmount, attrCurrency) }

// CreditDebit is CRDT or DBIT.
func (t Transaction) CreditDebit() string { return t.doc.Text(t.el, pathCreditDebit) }

// AdditionalInfo is the free-text transaction description.
func (t Transaction) AdditionalInfo() string { return t.doc.Text(t.el, pathTxInfo) }

// DebtorName is the name of the paying party.
func (t Transaction) DebtorName() string { return t.doc.Text(t.el, pathDebtorName) }

// CreditorName is the name of the receiving party.
func (t Transaction) CreditorName() string { return t.doc.Text(t.el, pathCreditorName) }

// Reference is the unstructured remittance information.
func (t Transaction) Reference() string { return t.doc.Text(t.el, pathUnstructured) }

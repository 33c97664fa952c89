package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// pdfWidths are the column widths in mm on a landscape A4 page with 10mm
// margins.
var pdfWidths = [numFields]float64{18, 18, 14, 12, 32, 32, 14, 18, 12, 14, 28, 28, 37}

// PDFSink renders the conversion as a printable table and writes the
// document on Close. Text is translated to the core fonts' cp1252; runes
// outside it are dropped by the font.
type PDFSink struct {
	w       io.Writer
	pdf     *gofpdf.Fpdf
	tr      func(string) string
	headers int
	closed  bool
}

// NewPDFSink starts a landscape A4 document.
func NewPDFSink(w io.Writer) *PDFSink {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()
	pdf.SetFont("Arial", "", 6)
	return &PDFSink{w: w, pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

// WriteHeader writes the header block and the column header row.
func (s *PDFSink) WriteHeader(h StatementHeader) error {
	if s.closed {
		return ErrClosed
	}
	if s.headers > 0 {
		s.pdf.Ln(6)
	}
	s.headers++

	lines := h.Lines()
	s.pdf.SetFont("Arial", "B", 12)
	s.pdf.Cell(0, 8, s.tr(lines[0][0]))
	s.pdf.Ln(9)
	s.pdf.SetFont("Arial", "", 9)
	for _, line := range lines[1:] {
		s.pdf.CellFormat(30, 5, s.tr(line[0]), "", 0, "L", false, 0, "")
		s.pdf.CellFormat(0, 5, s.tr(line[1]), "", 1, "L", false, 0, "")
	}
	s.pdf.Ln(3)

	s.pdf.SetFont("Arial", "B", 6)
	for i, name := range Columns {
		s.pdf.CellFormat(pdfWidths[i], 5, s.fit(name, pdfWidths[i]), "1", 0, "C", false, 0, "")
	}
	s.pdf.Ln(-1)
	s.pdf.SetFont("Arial", "", 6)
	return s.pdf.Error()
}

// WriteRow writes one table row.
func (s *PDFSink) WriteRow(r Row) error {
	if s.closed {
		return ErrClosed
	}
	for i, c := range r {
		align := "L"
		if i == colAmount {
			align = "R"
		}
		s.pdf.CellFormat(pdfWidths[i], 5, s.fit(c.Value, pdfWidths[i]), "1", 0, align, false, 0, "")
	}
	s.pdf.Ln(-1)
	return s.pdf.Error()
}

// Close writes the document. Closing twice is a no-op.
func (s *PDFSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if err := s.pdf.Output(s.w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

// fit translates v and cuts it to the cell width.
func (s *PDFSink) fit(v string, width float64) string {
	t := s.tr(v)
	limit := width - 2*s.pdf.GetCellMargin()
	if s.pdf.GetStringWidth(t) <= limit {
		return t
	}
	b := []byte(t)
	for len(b) > 0 && s.pdf.GetStringWidth(string(b)+"..") > limit {
		b = b[:len(b)-1]
	}
	return string(b) + ".."
}

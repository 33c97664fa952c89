package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the XLSX sink writes to.
const SheetName = "Kontoauszug"

// XLSXSink collects the conversion into a workbook and writes it to the
// underlying writer on Close. Cells hold the source text unchanged.
type XLSXSink struct {
	w       io.Writer
	f       *excelize.File
	bold    int
	nextRow int
	closed  bool
}

// NewXLSXSink creates a workbook with a single SheetName sheet.
func NewXLSXSink(w io.Writer) (*XLSXSink, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	return &XLSXSink{w: w, f: f, bold: bold, nextRow: 1}, nil
}

// WriteHeader writes the header block and the bold column header row.
func (s *XLSXSink) WriteHeader(h StatementHeader) error {
	if s.closed {
		return ErrClosed
	}
	if s.nextRow > 1 {
		s.nextRow++
	}
	for _, line := range h.Lines() {
		if err := s.writeValues(line); err != nil {
			return err
		}
	}

	row := s.nextRow
	if err := s.writeValues(Columns); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(Columns), row)
	if err := s.f.SetCellStyle(SheetName, first, last, s.bold); err != nil {
		return fmt.Errorf("styling header row: %w", err)
	}

	for i, name := range Columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(len(name) + 2)
		if width < 12 {
			width = 12
		}
		if err := s.f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("sizing column %s: %w", col, err)
		}
	}
	return nil
}

// WriteRow writes one data row.
func (s *XLSXSink) WriteRow(r Row) error {
	if s.closed {
		return ErrClosed
	}
	return s.writeValues(r.Values())
}

// Close writes the workbook and releases it. Closing twice is a no-op.
func (s *XLSXSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	defer s.f.Close()

	if _, err := s.f.WriteTo(s.w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (s *XLSXSink) writeValues(values []string) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, s.nextRow)
		if err != nil {
			return fmt.Errorf("addressing cell: %w", err)
		}
		if err := s.f.SetCellStr(SheetName, cell, v); err != nil {
			return fmt.Errorf("writing cell %s: %w", cell, err)
		}
	}
	s.nextRow++
	return nil
}

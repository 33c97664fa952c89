package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/cleared-dev/camt2csv/internal/config"
)

// ErrClosed is returned when writing to a closed sink.
var ErrClosed = errors.New("sink is closed")

// CSVOptions controls the text layout of a CSVSink.
type CSVOptions struct {
	Delimiter  rune
	Encoding   string // config.EncodingWindows1252 or config.EncodingUTF8
	Quoting    string // config.QuotingLegacy or config.QuotingRFC4180
	Unmappable string // config.UnmappableError or config.UnmappableReplace
}

// CSVOptionsFrom derives sink options from a validated config.
func CSVOptionsFrom(cfg *config.Config) CSVOptions {
	return CSVOptions{
		Delimiter:  cfg.DelimiterRune(),
		Encoding:   cfg.CSV.Encoding,
		Quoting:    cfg.CSV.Quoting,
		Unmappable: cfg.CSV.Unmappable,
	}
}

// CSVSink writes LF-terminated delimited lines. It does not close the
// underlying writer.
//
// encoding/csv is not used because it cannot force quotes on selected cells
// and always escapes embedded quotes, which the legacy layout must not do.
type CSVSink struct {
	out     io.Writer
	enc     *transform.Writer // nil for UTF-8
	opts    CSVOptions
	headers int
	closed  bool
}

// NewCSVSink wraps w, transcoding to the configured encoding.
func NewCSVSink(w io.Writer, opts CSVOptions) *CSVSink {
	s := &CSVSink{out: w, opts: opts}
	if opts.Encoding == config.EncodingWindows1252 {
		var t transform.Transformer = charmap.Windows1252.NewEncoder()
		if opts.Unmappable == config.UnmappableReplace {
			t = transform.Chain(runes.Map(substituteUnmappable), t)
		}
		s.enc = transform.NewWriter(w, t)
		s.out = s.enc
	}
	return s
}

// Substitute is written in place of runes Windows-1252 cannot represent.
const Substitute = '?'

func substituteUnmappable(r rune) rune {
	if _, ok := charmap.Windows1252.EncodeRune(r); ok {
		return r
	}
	return Substitute
}

// WriteHeader writes the statement header block and the column header row.
// Consecutive blocks are separated by an empty line.
func (s *CSVSink) WriteHeader(h StatementHeader) error {
	if s.closed {
		return ErrClosed
	}
	if s.headers > 0 {
		if err := s.writeLine(nil); err != nil {
			return err
		}
	}
	s.headers++

	for _, line := range h.Lines() {
		cells := make([]Cell, len(line))
		for i, v := range line {
			cells[i] = Cell{Value: v}
		}
		if err := s.writeLine(cells); err != nil {
			return err
		}
	}

	cols := make([]Cell, len(Columns))
	for i, c := range Columns {
		cols[i] = Cell{Value: c}
	}
	return s.writeLine(cols)
}

// WriteRow writes one data row.
func (s *CSVSink) WriteRow(r Row) error {
	if s.closed {
		return ErrClosed
	}
	return s.writeLine(r)
}

// Close flushes the encoder. Closing twice is a no-op.
func (s *CSVSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.enc != nil {
		if err := s.enc.Close(); err != nil {
			return fmt.Errorf("flushing %s output: %w", s.opts.Encoding, err)
		}
	}
	return nil
}

func (s *CSVSink) writeLine(cells []Cell) error {
	var b strings.Builder
	for i, c := range cells {
		if i > 0 {
			b.WriteRune(s.opts.Delimiter)
		}
		b.WriteString(s.formatCell(c))
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(s.out, b.String()); err != nil {
		return fmt.Errorf("writing line: %w", err)
	}
	return nil
}

func (s *CSVSink) formatCell(c Cell) string {
	if s.opts.Quoting != config.QuotingRFC4180 {
		if c.Quoted {
			return `"` + c.Value + `"`
		}
		return c.Value
	}
	if c.Quoted || strings.ContainsRune(c.Value, s.opts.Delimiter) || strings.ContainsAny(c.Value, "\"\r\n") {
		return `"` + strings.ReplaceAll(c.Value, `"`, `""`) + `"`
	}
	return c.Value
}

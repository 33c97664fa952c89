// Package convert runs the statement-to-rows pipeline.
package convert

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/camt2csv/internal/camt"
	"github.com/cleared-dev/camt2csv/internal/config"
	"github.com/cleared-dev/camt2csv/internal/export"
)

// Converter writes statements to sinks according to a Config.
type Converter struct {
	cfg *config.Config
	log zerolog.Logger
}

// New creates a Converter. cfg must already be validated.
func New(cfg *config.Config, log zerolog.Logger) *Converter {
	return &Converter{cfg: cfg, log: log}
}

// Options returns the document options derived from the config.
func (c *Converter) Options() camt.Options {
	return camt.Options{Namespace: c.cfg.Namespace, Placeholder: c.cfg.Placeholder}
}

// Convert writes the header block once and then one row per
// (entry, transaction) pair. In statement scope each statement gets its own
// header block followed by only its own entries; a document without
// statements falls back to a single placeholder header over all entries.
// Convert does not close sink.
func (c *Converter) Convert(doc *camt.Document, sink export.Sink) (Summary, error) {
	var sum Summary

	if ns := doc.Namespace(); ns != doc.ExpectedNamespace() {
		c.log.Warn().
			Str("namespace", ns).
			Str("expected", doc.ExpectedNamespace()).
			Msg("document namespace differs, fields will resolve to placeholders")
	}

	stmts := doc.Statements()
	sum.Statements = len(stmts)

	if c.cfg.Scope == config.ScopeStatement && len(stmts) > 0 {
		err := c.convertStatements(doc, stmts, sink, &sum)
		return sum, err
	}

	if len(stmts) > 1 {
		c.log.Warn().Int("statements", len(stmts)).
			Msg("multiple statements found; header shows the first, rows cover all of them")
	}
	if err := sink.WriteHeader(export.HeaderFor(doc.FirstStatement())); err != nil {
		return sum, fmt.Errorf("header: %w", err)
	}
	if err := c.writeEntries(sink, doc.Entries(), &sum); err != nil {
		return sum, err
	}
	return sum, nil
}

// convertStatements writes one header block per statement, each followed by
// that statement's own entries. Entries outside every statement are not
// written; they are counted and logged.
func (c *Converter) convertStatements(doc *camt.Document, stmts []camt.Statement, sink export.Sink, sum *Summary) error {
	scoped := 0
	for i, stmt := range stmts {
		if err := sink.WriteHeader(export.HeaderFor(stmt)); err != nil {
			return fmt.Errorf("statement %d header: %w", i+1, err)
		}
		entries := stmt.Entries()
		scoped += len(entries)
		if err := c.writeEntries(sink, entries, sum); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	if orphans := len(doc.Entries()) - scoped; orphans > 0 {
		c.log.Warn().Int("entries", orphans).
			Msg("entries outside any statement are skipped in statement scope")
	}
	return nil
}

func (c *Converter) writeEntries(sink export.Sink, entries []camt.Entry, sum *Summary) error {
	for i, entry := range entries {
		sum.Entries++
		txs := entry.Transactions()
		if len(txs) == 0 {
			sum.EmptyEntries++
			c.log.Debug().Int("entry", i+1).Str("booking_date", entry.BookingDate()).
				Msg("entry has no transaction details, skipped")
			continue
		}
		for j, tx := range txs {
			if err := sink.WriteRow(export.BuildRow(entry, tx)); err != nil {
				return fmt.Errorf("entry %d transaction %d: %w", i+1, j+1, err)
			}
			sum.addTransaction(tx)
		}
	}
	return nil
}

// ConvertFile converts inPath into outPath. The input is parsed completely
// before the output file is created, so a malformed document leaves nothing
// behind. The output file is closed on every path and removed if writing it
// failed.
func (c *Converter) ConvertFile(inPath, outPath string) (sum Summary, err error) {
	doc, err := camt.Open(inPath, c.Options())
	if err != nil {
		return sum, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return sum, fmt.Errorf("creating output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(outPath); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
				c.log.Warn().Err(rerr).Str("output", outPath).Msg("could not remove partial output")
			}
		}
	}()

	sink, err := c.newSink(f)
	if err != nil {
		return sum, err
	}

	sum, err = c.Convert(doc, sink)
	if cerr := sink.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return sum, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return sum, nil
}

func (c *Converter) newSink(f *os.File) (export.Sink, error) {
	factory := export.DefaultRegistry().Get(c.cfg.Format)
	if factory == nil {
		return nil, fmt.Errorf("unknown output format %q", c.cfg.Format)
	}
	return factory(f, c.cfg)
}

// OutputPath appends the format extension to the input path, so
// statement.xml becomes statement.xml.csv.
func OutputPath(inPath, format string) string {
	return inPath + "." + strings.ToLower(format)
}

package export

import (
	"io"
	"sort"
	"strings"

	"github.com/cleared-dev/camt2csv/internal/config"
)

// SinkFactory creates a sink writing to w.
type SinkFactory func(w io.Writer, cfg *config.Config) (Sink, error)

// Registry holds sink factories by output format.
type Registry struct {
	factories map[string]SinkFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]SinkFactory)}
}

// Register adds a factory. Panics on duplicate format.
func (r *Registry) Register(format string, f SinkFactory) {
	key := strings.ToLower(format)
	if _, ok := r.factories[key]; ok {
		panic("duplicate output format: " + key)
	}
	r.factories[key] = f
}

// Get returns the factory for format, or nil.
func (r *Registry) Get(format string) SinkFactory {
	return r.factories[strings.ToLower(format)]
}

// Formats lists the registered formats in sorted order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.factories))
	for k := range r.factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// DefaultRegistry returns a registry with the built-in sinks.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(config.FormatCSV, func(w io.Writer, cfg *config.Config) (Sink, error) {
		return NewCSVSink(w, CSVOptionsFrom(cfg)), nil
	})
	r.Register(config.FormatXLSX, func(w io.Writer, _ *config.Config) (Sink, error) {
		return NewXLSXSink(w)
	})
	r.Register(config.FormatPDF, func(w io.Writer, _ *config.Config) (Sink, error) {
		return NewPDFSink(w), nil
	})
	return r
}

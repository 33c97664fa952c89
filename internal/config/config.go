package config

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name written by `camt2csv init`.
const FileName = "camt2csv.yaml"

// DefaultNamespace is the CAMT.053 version the converter was built against.
const DefaultNamespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.04"

// Output encodings.
const (
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
)

// Quoting modes for free-text cells.
const (
	QuotingLegacy  = "legacy"  // wrap in quotes, no escaping
	QuotingRFC4180 = "rfc4180" // wrap in quotes, double embedded quotes
)

// Behaviour for characters the output encoding cannot represent.
const (
	UnmappableError   = "error"
	UnmappableReplace = "replace"
)

// Traversal scopes.
const (
	ScopeDocument  = "document"
	ScopeStatement = "statement"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid config")

// Config represents camt2csv.yaml.
type Config struct {
	Namespace   string    `yaml:"namespace"`
	Placeholder string    `yaml:"placeholder"`
	Format      string    `yaml:"format"`
	Scope       string    `yaml:"scope"`
	CSV         CSVConfig `yaml:"csv"`
}

// CSVConfig controls the text output.
type CSVConfig struct {
	Delimiter  string `yaml:"delimiter"`
	Encoding   string `yaml:"encoding"`
	Quoting    string `yaml:"quoting"`
	Unmappable string `yaml:"unmappable"`
}

// Load reads a camt2csv.yaml file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the settings that reproduce the classic export: comma
// separated, Windows-1252, unescaped quotes, document-wide traversal.
func Default() *Config {
	return &Config{
		Namespace:   DefaultNamespace,
		Placeholder: "-",
		Format:      FormatCSV,
		Scope:       ScopeDocument,
		CSV: CSVConfig{
			Delimiter:  ",",
			Encoding:   EncodingWindows1252,
			Quoting:    QuotingLegacy,
			Unmappable: UnmappableError,
		},
	}
}

// Validate checks the namespace, the placeholder, enum values and the
// delimiter.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace is empty", ErrInvalid)
	}
	if c.Placeholder == "" {
		return fmt.Errorf("%w: placeholder is empty", ErrInvalid)
	}
	if err := oneOf("format", c.Format, FormatCSV, FormatXLSX, FormatPDF); err != nil {
		return err
	}
	if err := oneOf("scope", c.Scope, ScopeDocument, ScopeStatement); err != nil {
		return err
	}
	if err := oneOf("csv.encoding", c.CSV.Encoding, EncodingWindows1252, EncodingUTF8); err != nil {
		return err
	}
	if err := oneOf("csv.quoting", c.CSV.Quoting, QuotingLegacy, QuotingRFC4180); err != nil {
		return err
	}
	if err := oneOf("csv.unmappable", c.CSV.Unmappable, UnmappableError, UnmappableReplace); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("%w: csv.delimiter must be a single character, got %q", ErrInvalid, c.CSV.Delimiter)
	}
	switch c.CSV.Delimiter {
	case `"`, "\r", "\n":
		return fmt.Errorf("%w: csv.delimiter %q is not allowed", ErrInvalid, c.CSV.Delimiter)
	}
	return nil
}

// DelimiterRune returns the delimiter as a rune. Call Validate first.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.CSV.Delimiter)
	return r
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %v, got %q", ErrInvalid, key, allowed, value)
}

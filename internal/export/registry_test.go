package export

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/camt2csv/internal/config"
)

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("ods"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r.Get("CSV"))
	assert.NotNil(t, r.Get("Xlsx"))
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	r := NewRegistry()
	noop := func(io.Writer, *config.Config) (Sink, error) { return nil, nil }
	r.Register("csv", noop)
	assert.Panics(t, func() { r.Register("CSV", noop) })
}

func TestDefaultRegistry_Formats(t *testing.T) {
	assert.Equal(t, []string{"csv", "pdf", "xlsx"}, DefaultRegistry().Formats())
}

func TestDefaultRegistry_CSVUsesConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CSV.Delimiter = ";"
	cfg.CSV.Encoding = config.EncodingUTF8

	var buf bytes.Buffer
	sink, err := DefaultRegistry().Get(config.FormatCSV)(&buf, cfg)
	require.NoError(t, err)
	require.NoError(t, sink.WriteRow(Row{{Value: "a"}, {Value: "ü", Quoted: true}}))
	require.NoError(t, sink.Close())
	assert.Equal(t, "a;\"ü\"\n", buf.String())
}

func TestDefaultRegistry_XLSX(t *testing.T) {
	var buf bytes.Buffer
	sink, err := DefaultRegistry().Get(config.FormatXLSX)(&buf, config.Default())
	require.NoError(t, err)
	_, ok := sink.(*XLSXSink)
	assert.True(t, ok)
	require.NoError(t, sink.Close())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("PK")), "xlsx is a zip archive")
}

func TestDefaultRegistry_PDF(t *testing.T) {
	var buf bytes.Buffer
	sink, err := DefaultRegistry().Get("PDF")(&buf, config.Default())
	require.NoError(t, err)
	require.NoError(t, sink.WriteHeader(testHeader()))
	require.NoError(t, sink.Close())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

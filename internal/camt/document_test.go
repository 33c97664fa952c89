package camt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNamespace = "urn:iso:std:iso:20022:tech:xsd:camt.053.001.04"

func testOptions() Options {
	return Options{Namespace: testNamespace, Placeholder: "-"}
}

func parseString(t *testing.T, xml string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(xml), testOptions())
	require.NoError(t, err)
	return doc
}

func openSample(t *testing.T) *Document {
	t.Helper()
	doc, err := Open("../../testdata/camt053_sample.xml", testOptions())
	require.NoError(t, err)
	return doc
}

func TestOpen_Sample(t *testing.T) {
	doc := openSample(t)
	assert.Equal(t, testNamespace, doc.Namespace())
	assert.Equal(t, testNamespace, doc.ExpectedNamespace())
	assert.Equal(t, "-", doc.Placeholder())
}

func TestOpen_NotFound(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xml"), testOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		junk bool
	}{
		{"unterminated element", `<Document xmlns="` + testNamespace + `"><Stmt></Document>`, false},
		{"second top-level element", `<Document xmlns="` + testNamespace + `"/><Document/>`, true},
		{"text after root", `<Document xmlns="` + testNamespace + `"/>junk`, true},
	}
	for _, tt := range tests {
		_, err := Parse(strings.NewReader(tt.xml), testOptions())
		require.Error(t, err, tt.name)
		assert.Contains(t, err.Error(), "parsing camt document", tt.name)
		if tt.junk {
			assert.ErrorIs(t, err, ErrJunkAfterRoot, tt.name)
		}
	}
}

func TestParse_TopLevelWhitespaceAndComments(t *testing.T) {
	raw := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<!-- export -->\n" +
		`<Document xmlns="` + testNamespace + `"><A>x</A></Document>` + "\n\n<!-- end -->\n"
	doc := parseString(t, raw)
	assert.Equal(t, "x", doc.Text(doc.tree.Root(), "A"))
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse(strings.NewReader(""), testOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestParse_DefaultPlaceholder(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<Document xmlns="`+testNamespace+`"/>`), Options{Namespace: testNamespace})
	require.NoError(t, err)
	assert.Equal(t, DefaultPlaceholder, doc.Placeholder())
	assert.Equal(t, DefaultPlaceholder, doc.FirstStatement().IBAN())
}

func TestParse_Latin1Declaration(t *testing.T) {
	// "Müller" with ü as the single ISO-8859-1 byte 0xFC.
	raw := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>" +
		"<Document xmlns=\"" + testNamespace + "\"><BkToCstmrStmt><Stmt><Acct><Id><IBAN>M\xfcller</IBAN></Id></Acct></Stmt></BkToCstmrStmt></Document>"
	doc := parseString(t, raw)
	assert.Equal(t, "Müller", doc.FirstStatement().IBAN())
}

func TestText(t *testing.T) {
	doc := parseString(t, `<Document xmlns="`+testNamespace+`"><A><B>value</B><C/><D>  padded  </D></A></Document>`)
	root := doc.tree.Root()

	assert.Equal(t, "value", doc.Text(root, "A/B"))
	assert.Equal(t, "", doc.Text(root, "A/C"), "present but empty element yields empty text")
	assert.Equal(t, "  padded  ", doc.Text(root, "A/D"), "text is returned unmodified")
	assert.Equal(t, "-", doc.Text(root, "A/Missing"))
	assert.Equal(t, "-", doc.Text(nil, "A/B"), "nil context is total")
	assert.Equal(t, "-", doc.Text(root, "A/["), "invalid path is total")
}

func TestText_FirstMatchWins(t *testing.T) {
	doc := parseString(t, `<Document xmlns="`+testNamespace+`"><A><B>one</B><B>two</B></A></Document>`)
	assert.Equal(t, "one", doc.Text(doc.tree.Root(), "A/B"))
}

func TestAttr(t *testing.T) {
	doc := parseString(t, `<Document xmlns="`+testNamespace+`"><Amt Ccy="CHF">1.00</Amt><Bare>2.00</Bare></Document>`)
	root := doc.tree.Root()

	assert.Equal(t, "CHF", doc.Attr(root, "Amt", "Ccy"))
	assert.Equal(t, "-", doc.Attr(root, "Bare", "Ccy"), "missing attribute")
	assert.Equal(t, "-", doc.Attr(root, "Missing", "Ccy"), "missing element")
	assert.Equal(t, "-", doc.Attr(nil, "Amt", "Ccy"))
}

func TestNamespaceFiltering(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "default namespace matches",
			xml:  `<Document xmlns="` + testNamespace + `"><A>x</A></Document>`,
			want: "x",
		},
		{
			name: "prefixed namespace matches",
			xml:  `<c:Document xmlns:c="` + testNamespace + `"><c:A>x</c:A></c:Document>`,
			want: "x",
		},
		{
			name: "other version does not match",
			xml:  `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.02"><A>x</A></Document>`,
			want: "-",
		},
		{
			name: "no namespace does not match",
			xml:  `<Document><A>x</A></Document>`,
			want: "-",
		},
		{
			name: "nested redeclaration is honoured",
			xml:  `<Document xmlns="` + testNamespace + `"><A xmlns="urn:other">x</A></Document>`,
			want: "-",
		},
	}
	for _, tt := range tests {
		doc := parseString(t, tt.xml)
		assert.Equal(t, tt.want, doc.Text(doc.tree.Root(), "A"), tt.name)
	}
}

func TestNamespaceFiltering_EveryStep(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			name: "all steps in namespace",
			xml:  `<Document xmlns="` + testNamespace + `"><A><B>x</B></A></Document>`,
			want: "x",
		},
		{
			name: "intermediate step in other namespace",
			xml:  `<Document xmlns="` + testNamespace + `"><o:A xmlns:o="urn:other"><B>x</B></o:A></Document>`,
			want: "-",
		},
	}
	for _, tt := range tests {
		doc := parseString(t, tt.xml)
		assert.Equal(t, tt.want, doc.Text(doc.tree.Root(), "A/B"), tt.name)
	}
}

func TestNamespaceFiltering_DescendantStepSkipsForeignAncestors(t *testing.T) {
	doc := parseString(t, `<Document xmlns="`+testNamespace+`"><o:Wrap xmlns:o="urn:other"><Ntry/></o:Wrap></Document>`)
	assert.Len(t, doc.Entries(), 1)
}

func TestForeignNamespaceDocument(t *testing.T) {
	doc := parseString(t, `<Document xmlns="urn:other"><BkToCstmrStmt><Stmt><Ntry/></Stmt></BkToCstmrStmt></Document>`)
	assert.Equal(t, "urn:other", doc.Namespace())
	assert.Empty(t, doc.Statements())
	assert.Empty(t, doc.Entries())
	assert.False(t, doc.FirstStatement().Exists())
}

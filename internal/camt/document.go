// Package camt reads CAMT.053 bank statements into an element tree and
// exposes total field accessors over it. A lookup that finds nothing yields
// the configured placeholder instead of failing, so optional elements never
// abort a conversion.
package camt

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// DefaultPlaceholder is substituted for absent elements and attributes.
const DefaultPlaceholder = "-"

// ErrNoRoot is returned for input that contains no root element.
var ErrNoRoot = errors.New("document has no root element")

// ErrJunkAfterRoot is returned when the root element is followed by another
// element or by non-whitespace text.
var ErrJunkAfterRoot = errors.New("junk after document element")

// Options controls how a document is resolved.
type Options struct {
	// Namespace every looked-up element must belong to.
	Namespace string
	// Placeholder returned by the accessors when a lookup misses.
	Placeholder string
}

// Document is a parsed statement file.
type Document struct {
	tree        *etree.Document
	namespace   string
	placeholder string
}

// Parse reads the whole document into memory. Declared non-UTF-8 encodings
// (ISO-8859-1 is common in bank exports) are transcoded while reading.
func Parse(r io.Reader, opts Options) (*Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.CharsetReader = charset.NewReaderLabel
	if _, err := tree.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parsing camt document: %w", err)
	}
	if tree.Root() == nil {
		return nil, fmt.Errorf("parsing camt document: %w", ErrNoRoot)
	}
	if err := checkTopLevel(tree); err != nil {
		return nil, fmt.Errorf("parsing camt document: %w", err)
	}

	placeholder := opts.Placeholder
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	return &Document{tree: tree, namespace: opts.Namespace, placeholder: placeholder}, nil
}

// checkTopLevel rejects what etree tolerates but XML forbids: a second
// top-level element or text outside the root.
func checkTopLevel(tree *etree.Document) error {
	roots := 0
	for _, tok := range tree.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return fmt.Errorf("%w: second element <%s>", ErrJunkAfterRoot, t.FullTag())
			}
		case *etree.CharData:
			if !t.IsWhitespace() {
				return fmt.Errorf("%w: text %q", ErrJunkAfterRoot, strings.TrimSpace(t.Data))
			}
		}
	}
	return nil
}

// Open parses the file at path. The file is closed before Open returns.
func Open(path string, opts Options) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Namespace reports the namespace the root element is declared in.
func (d *Document) Namespace() string {
	return namespaceOf(d.tree.Root())
}

// ExpectedNamespace is the namespace lookups are restricted to.
func (d *Document) ExpectedNamespace() string {
	return d.namespace
}

// Placeholder is the value returned for missing elements.
func (d *Document) Placeholder() string {
	return d.placeholder
}

// Text returns the text of the first element matching path below el, or the
// placeholder. An element that exists but is empty yields "".
func (d *Document) Text(el *etree.Element, path string) string {
	found := d.find(el, path)
	if found == nil {
		return d.placeholder
	}
	return found.Text()
}

// Attr returns attribute name of the first element matching path below el, or
// the placeholder if either the element or the attribute is missing.
func (d *Document) Attr(el *etree.Element, path, name string) string {
	found := d.find(el, path)
	if found == nil {
		return d.placeholder
	}
	attr := found.SelectAttr(name)
	if attr == nil {
		return d.placeholder
	}
	return attr.Value
}

func (d *Document) find(el *etree.Element, path string) *etree.Element {
	matches := d.findAll(el, path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// findAll returns every match for path in document order, keeping only
// elements that belong to the configured namespace. For child-step paths
// every step must be in that namespace, not only the last one. A descendant
// step ("//") leaves the elements it skips over unconstrained.
func (d *Document) findAll(el *etree.Element, path string) []*etree.Element {
	if el == nil {
		return nil
	}
	p, err := etree.CompilePath(path)
	if err != nil {
		return nil
	}
	everyStep := !strings.Contains(path, "//")

	var out []*etree.Element
	for _, m := range el.FindElementsPath(p) {
		if namespaceOf(m) != d.namespace {
			continue
		}
		if everyStep && !d.stepsInNamespace(el, m) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// stepsInNamespace reports whether every element strictly between from and m
// belongs to the configured namespace.
func (d *Document) stepsInNamespace(from, m *etree.Element) bool {
	for e := m.Parent(); e != nil && e != from; e = e.Parent() {
		if namespaceOf(e) != d.namespace {
			return false
		}
	}
	return true
}

// namespaceOf resolves the namespace URI of el from the xmlns declarations on
// it and its ancestors.
func namespaceOf(el *etree.Element) string {
	if el == nil {
		return ""
	}
	for e := el; e != nil; e = e.Parent() {
		for _, a := range e.Attr {
			if el.Space == "" && a.Space == "" && a.Key == "xmlns" {
				return a.Value
			}
			if el.Space != "" && a.Space == "xmlns" && a.Key == el.Space {
				return a.Value
			}
		}
	}
	return ""
}

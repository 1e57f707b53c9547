package model

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"rtable/utils/debug"
)

func readDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read model xml: %w", err)
	}
	return doc, nil
}

// ParseElement reads model XML and returns its detached root element.
// Whitespace between structural elements is dropped.
func ParseElement(r io.Reader) (*etree.Element, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("model xml has no root element")
	}
	doc.RemoveChild(root)
	stripStructuralWhitespace(root)
	return root, nil
}

// ParseElementString is ParseElement for in-memory text.
func ParseElementString(s string) (*etree.Element, error) {
	return ParseElement(strings.NewReader(s))
}

// ParseXML reads model XML and returns model owning it. Unless the XML is a
// single document root element, all top level elements are wrapped into one.
func ParseXML(r io.Reader, log *zap.Logger) (*Model, error) {
	doc, err := readDocument(r)
	if err != nil {
		return nil, err
	}
	var top []*etree.Element
	for _, tok := range doc.Child {
		if el, ok := tok.(*etree.Element); ok {
			top = append(top, el)
		}
	}
	var root *etree.Element
	if len(top) == 1 && top[0].Tag == RootName {
		root = top[0]
		doc.RemoveChild(root)
	} else {
		root = etree.NewElement(RootName)
		for _, el := range top {
			doc.RemoveChild(el)
			root.AddChild(el)
		}
	}
	stripStructuralWhitespace(root)
	m := NewWithRoot(root, log)
	m.log.Debug("Model loaded", zap.Int("blocks", len(root.ChildElements())))
	return m, nil
}

func stripStructuralWhitespace(el *etree.Element) {
	if !IsStructural(el) {
		return
	}
	for i := len(el.Child) - 1; i >= 0; i-- {
		switch t := el.Child[i].(type) {
		case *etree.CharData:
			if strings.TrimSpace(t.Data) == "" {
				el.RemoveChildAt(i)
			}
		case *etree.Comment:
			el.RemoveChildAt(i)
		case *etree.Element:
			stripStructuralWhitespace(t)
		}
	}
}

// WriteXML writes copy of the element as model XML, indent < 0 produces
// compact output.
func WriteXML(w io.Writer, el *etree.Element, indent int) error {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())
	if indent >= 0 {
		doc.Indent(indent)
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("unable to write model xml: %w", err)
	}
	return nil
}

// String returns compact model XML for el.
func String(el *etree.Element) string {
	var sb strings.Builder
	if err := WriteXML(&sb, el, -1); err != nil {
		return "<!-- " + err.Error() + " -->"
	}
	return sb.String()
}

// Dump returns indented human readable representation of the tree.
func Dump(el *etree.Element) string {
	tw := debug.NewTreeWriter()
	dumpElement(tw, el, 0)
	return tw.String()
}

func dumpElement(tw *debug.TreeWriter, el *etree.Element, depth int) {
	kv := make([]string, 0, len(el.Attr)*2)
	for _, a := range el.Attr {
		kv = append(kv, a.FullKey(), a.Value)
	}
	tw.Element(depth, el.Tag, kv...)
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.Element:
			dumpElement(tw, t, depth+1)
		case *etree.CharData:
			if t.Data != "" {
				tw.TextBlock(depth+1, "text", t.Data)
			}
		}
	}
}

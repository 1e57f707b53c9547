package view

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/ianaindex"

	"rtable/css"
	"rtable/model"
	"rtable/table"
)

// UpcastOptions configures reading of HTML.
type UpcastOptions struct {
	// Encoding forces input character set (IANA name). When empty it is
	// detected from BOM and meta tags.
	Encoding string
}

// Upcaster reads HTML into model.
type Upcaster struct {
	opts UpcastOptions
	css  *css.Parser
	log  *zap.Logger
}

func NewUpcaster(opts UpcastOptions, log *zap.Logger) *Upcaster {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("upcast")
	return &Upcaster{opts: opts, css: css.NewParser(log), log: log}
}

// Upcast parses HTML and returns detached model root holding converted blocks.
func (u *Upcaster) Upcast(r io.Reader) (*etree.Element, error) {
	in, err := u.decode(r)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(in)
	if err != nil {
		return nil, fmt.Errorf("unable to parse html: %w", err)
	}
	root := etree.NewElement(model.RootName)
	body := findElement(doc, atom.Body)
	if body == nil {
		body = doc
	}
	u.blocks(body, root)
	u.log.Debug("HTML converted", zap.Int("blocks", len(root.ChildElements())))
	return root, nil
}

func (u *Upcaster) decode(r io.Reader) (io.Reader, error) {
	if u.opts.Encoding == "" {
		in, err := charset.NewReader(r, "")
		if err != nil {
			return nil, fmt.Errorf("unable to detect html encoding: %w", err)
		}
		return in, nil
	}
	enc, err := ianaindex.IANA.Encoding(u.opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", u.opts.Encoding, err)
	}
	if enc == nil {
		// encoding is known but not supported
		return nil, fmt.Errorf("unsupported encoding %q", u.opts.Encoding)
	}
	n, _ := ianaindex.IANA.Name(enc)
	u.log.Debug("Forcing input encoding", zap.String("charset", n))
	return enc.NewDecoder().Reader(r), nil
}

// blocks converts children of n into model blocks appended to parent.
func (u *Upcaster) blocks(n *html.Node, parent *etree.Element) {
	var inline strings.Builder
	flush := func() {
		if text := collapseSpaces(inline.String()); text != "" {
			parent.CreateElement(model.ParagraphName).SetText(text)
		}
		inline.Reset()
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			inline.WriteString(c.Data)
		case c.Type != html.ElementNode:
		case c.DataAtom == atom.Table:
			flush()
			parent.AddChild(u.table(c, nil))
		case c.DataAtom == atom.Figure && findElement(c, atom.Table) != nil:
			flush()
			parent.AddChild(u.table(findElement(c, atom.Table), findElement(c, atom.Figcaption)))
		case isContainer(c):
			flush()
			if hasBlocks(c) {
				u.blocks(c, parent)
			} else if text := collapseSpaces(textContent(c)); text != "" || isParagraph(c) {
				parent.CreateElement(model.ParagraphName).SetText(text)
			}
		case c.DataAtom == atom.Br:
			flush()
		case c.DataAtom == atom.Script || c.DataAtom == atom.Style || c.DataAtom == atom.Head:
		default:
			inline.WriteString(textContent(c))
		}
	}
	flush()
}

// spanAbove tracks cells reaching into the following rows.
type spanAbove struct {
	rows   int
	header bool
}

// htmlRow is a table row with its section.
type htmlRow struct {
	node    *html.Node
	heading bool
}

func (u *Upcaster) table(n, figcaption *html.Node) *etree.Element {
	t := etree.NewElement(model.TableName)

	var (
		rows []htmlRow
		cols []*html.Node
	)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Thead, atom.Tbody, atom.Tfoot:
			for r := c.FirstChild; r != nil; r = r.NextSibling {
				if r.Type == html.ElementNode && r.DataAtom == atom.Tr {
					rows = append(rows, htmlRow{node: r, heading: c.DataAtom == atom.Thead})
				}
			}
		case atom.Tr:
			rows = append(rows, htmlRow{node: c})
		case atom.Colgroup:
			for col := c.FirstChild; col != nil; col = col.NextSibling {
				if col.Type == html.ElementNode && col.DataAtom == atom.Col {
					cols = append(cols, col)
				}
			}
		case atom.Col:
			cols = append(cols, c)
		case atom.Caption:
			if figcaption == nil {
				figcaption = c
			}
		}
	}
	headingRows := 0
	for _, r := range rows {
		if !r.heading {
			break
		}
		headingRows++
	}
	if headingRows == 0 {
		for _, r := range rows {
			if !allHeaderCells(r.node) {
				break
			}
			headingRows++
		}
	}

	// heading columns is the smallest number of leading header slots over body
	// rows, header cells spanning from rows above are counted as well
	headingColumns := -1
	var above []spanAbove
	for i, r := range rows {
		row := t.CreateElement(model.RowName)
		col, leading, counting, cells := 0, 0, true, 0
		skipSpanned := func() {
			for col < len(above) && above[col].rows > 0 {
				if counting && above[col].header {
					leading++
				} else {
					counting = false
				}
				col++
			}
		}
		for c := r.node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode || (c.DataAtom != atom.Td && c.DataAtom != atom.Th) {
				continue
			}
			skipSpanned()
			cell := u.cell(c, row)
			cells++
			header, colspan, rowspan := c.DataAtom == atom.Th, model.ColSpan(cell), model.RowSpan(cell)
			if counting && header {
				leading += colspan
			} else {
				counting = false
			}
			if rowspan > 1 {
				for len(above) < col+colspan {
					above = append(above, spanAbove{})
				}
				for k := col; k < col+colspan; k++ {
					above[k] = spanAbove{rows: rowspan, header: header}
				}
			}
			col += colspan
		}
		skipSpanned()
		for k := range above {
			if above[k].rows > 0 {
				above[k].rows--
			}
		}
		if i >= headingRows && cells > 0 && (headingColumns < 0 || leading < headingColumns) {
			headingColumns = leading
		}
	}
	if headingRows > 0 {
		t.CreateAttr(model.AttrHeadingRows, strconv.Itoa(headingRows))
	}
	if headingColumns > 0 {
		t.CreateAttr(model.AttrHeadingColumns, strconv.Itoa(headingColumns))
	}

	if figcaption != nil {
		if text := collapseSpaces(textContent(figcaption)); text != "" {
			t.CreateElement(model.CaptionName).SetText(text)
		}
	}
	if widths, ok := u.columnWidths(cols); ok {
		t.CreateElement(model.ColumnGroupName).
			CreateAttr(model.AttrColumnWidths, table.FormatColumnWidths(table.NormalizeColumnWidths(widths)))
	} else if len(cols) > 0 {
		u.log.Debug("Column widths ignored", zap.Int("columns", len(cols)))
	}
	u.log.Debug("Table converted", zap.Int("rows", len(rows)), zap.Int("headingRows", headingRows), zap.Int("headingColumns", max(headingColumns, 0)))
	return t
}

func (u *Upcaster) cell(n *html.Node, row *etree.Element) *etree.Element {
	cell := row.CreateElement(model.CellName)
	for _, key := range []string{model.AttrRowspan, model.AttrColspan} {
		if v := spanAttr(n, key); v > 1 {
			cell.CreateAttr(key, strconv.Itoa(v))
		}
	}
	if hasBlocks(n) {
		u.blocks(n, cell)
	} else if text := collapseSpaces(textContent(n)); text != "" {
		cell.CreateElement(model.ParagraphName).SetText(text)
	}
	if len(cell.ChildElements()) == 0 {
		cell.CreateElement(model.ParagraphName)
	}
	return cell
}

// columnWidths returns widths of col elements, col span attribute repeats
// the width. It reports false when there are no columns, some width is
// missing or units are mixed.
func (u *Upcaster) columnWidths(cols []*html.Node) ([]float64, bool) {
	var (
		widths []float64
		units  []string
	)
	for _, c := range cols {
		v, found := u.css.ParseDeclarations(attr(c, "style")).Get("width")
		if !found {
			v, found = u.css.ParseValue(attr(c, "width"))
		}
		length, isLength := v.Length()
		if !found || !isLength {
			return nil, false
		}
		if !slices.Contains(units, v.Unit) {
			units = append(units, v.Unit)
		}
		for range spanAttr(c, "span") {
			widths = append(widths, length)
		}
	}
	return widths, len(widths) > 0 && len(units) == 1
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

// Largest spans HTML parsers accept, rowspan is capped at rows of the table
// later.
const (
	maxColSpan = 1000
	maxRowSpan = 65534
)

// spanAttr returns span value clamped to [1, limit] where the limit depends on
// key: rowspan, colspan or span of <col>.
func spanAttr(n *html.Node, key string) int {
	v, err := strconv.Atoi(strings.TrimSpace(attr(n, key)))
	if err != nil || v < 1 {
		return 1
	}
	if key == model.AttrRowspan {
		return min(v, maxRowSpan)
	}
	return min(v, maxColSpan)
}

func allHeaderCells(tr *html.Node) bool {
	found := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			found = true
		case atom.Td:
			return false
		}
	}
	return found
}

func isParagraph(n *html.Node) bool {
	switch n.DataAtom {
	case atom.P, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6, atom.Pre:
		return true
	}
	return false
}

func isContainer(n *html.Node) bool {
	if isParagraph(n) {
		return true
	}
	switch n.DataAtom {
	case atom.Div, atom.Section, atom.Article, atom.Blockquote, atom.Ul, atom.Ol, atom.Li,
		atom.Main, atom.Header, atom.Footer, atom.Figure, atom.Dl, atom.Dt, atom.Dd:
		return true
	}
	return false
}

// hasBlocks reports whether n has block children which need own paragraphs.
func hasBlocks(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (isContainer(c) || c.DataAtom == atom.Table || c.DataAtom == atom.Br) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			continue
		}
		sb.WriteString(textContent(c))
	}
	return sb.String()
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

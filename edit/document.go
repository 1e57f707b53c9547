// Package edit implements program subcommands: it loads a document, selects
// table cells, runs table commands inside a single change and writes result.
package edit

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtable/common"
	"rtable/model"
	"rtable/table"
	"rtable/view"
)

// Document is a loaded model with table editor bound to it.
type Document struct {
	Path   string
	Model  *model.Model
	Editor *table.Editor
	log    *zap.Logger
}

// isModelXML reports whether file holds model XML rather than HTML.
func isModelXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// readRoot reads model root from model XML or HTML file.
func readRoot(path string, opts view.UpcastOptions, log *zap.Logger) (*etree.Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open document: %w", err)
	}
	defer f.Close()

	if isModelXML(path) {
		m, err := model.ParseXML(f, log)
		if err != nil {
			return nil, fmt.Errorf("unable to read model from %s: %w", path, err)
		}
		return m.Root(), nil
	}
	root, err := view.NewUpcaster(opts, log).Upcast(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read html from %s: %w", path, err)
	}
	return root, nil
}

// Load reads document and binds editor to it.
func Load(path string, opts view.UpcastOptions, editor table.Options, log *zap.Logger) (*Document, error) {
	root, err := readRoot(path, opts, log)
	if err != nil {
		return nil, err
	}
	m := model.NewWithRoot(root, log)
	return &Document{
		Path:   path,
		Model:  m,
		Editor: table.NewEditor(m, editor, log),
		log:    log,
	}, nil
}

// Table returns n-th table of the document in document order.
func (d *Document) Table(n int) (*etree.Element, error) {
	t, err := d.Model.Nth(model.TableName, n)
	if err != nil {
		return nil, fmt.Errorf("table %d: %w", n, err)
	}
	return t, nil
}

var errBadCells = errors.New("cells must be given as ROW,COLUMN or ROW,COLUMN:ROW,COLUMN")

func parseSlot(s string) (row, column int, err error) {
	r, c, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, errBadCells
	}
	if row, err = strconv.Atoi(strings.TrimSpace(r)); err != nil {
		return 0, 0, errBadCells
	}
	if column, err = strconv.Atoi(strings.TrimSpace(c)); err != nil {
		return 0, 0, errBadCells
	}
	return row, column, nil
}

// ParseCells parses "ROW,COLUMN" or "ROW,COLUMN:ROW,COLUMN" into anchor and
// focus slots.
func ParseCells(s string) (anchor, focus [2]int, err error) {
	from, to, found := strings.Cut(s, ":")
	if anchor[0], anchor[1], err = parseSlot(from); err != nil {
		return anchor, focus, err
	}
	focus = anchor
	if found {
		if focus[0], focus[1], err = parseSlot(to); err != nil {
			return anchor, focus, err
		}
	}
	return anchor, focus, nil
}

// Select selects rectangle of cells between the slots given as for
// ParseCells.
func (d *Document) Select(t *etree.Element, cells string) error {
	anchor, focus, err := ParseCells(cells)
	if err != nil {
		return err
	}
	from := table.CellAt(t, anchor[0], anchor[1])
	to := table.CellAt(t, focus[0], focus[1])
	if from == nil || to == nil {
		return fmt.Errorf("%w: cells %s in %dx%d table", table.ErrOutOfRange, cells, table.Rows(t), table.Columns(t))
	}
	return d.Editor.Selection().SetCellSelection(from, to)
}

// Write renders root (document root when nil) in requested format.
func (d *Document) Write(w io.Writer, root *etree.Element, format common.OutputFmt, indent int, title string) error {
	if root == nil {
		root = d.Model.Root()
	}
	switch format {
	case common.OutputFmtModel:
		return model.WriteXML(w, root, indent)
	case common.OutputFmtHtml:
		doc := view.NewDowncaster(nil, d.log).Document(root, title)
		if indent >= 0 {
			doc.Indent(indent)
		}
		if _, err := doc.WriteTo(w); err != nil {
			return fmt.Errorf("unable to write html: %w", err)
		}
		return nil
	}
	return fmt.Errorf("unsupported output format %s", format)
}

// Validate checks every table of the document.
func (d *Document) Validate() error {
	var err error
	for i, t := range d.Model.FindAll(model.TableName) {
		if e := table.Validate(t); e != nil {
			err = multierr.Append(err, fmt.Errorf("table %d: %w", i, e))
		}
	}
	return err
}

package edit

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"rtable/common"
	"rtable/model"
	"rtable/state"
	"rtable/table"
)

// Normalize rewrites document, table post-fixers bring every table into
// canonical shape on the way.
var Normalize = run("normalize", func(context.Context, *cli.Command, *Document) (*etree.Element, error) {
	return nil, nil
})

var InsertTable = run("insert-table", func(ctx context.Context, cmd *cli.Command, d *Document) (*etree.Element, error) {
	env := state.EnvFromContext(ctx)
	if after := cmd.Int("after"); after >= 0 {
		blocks := d.Model.Root().ChildElements()
		if after >= len(blocks) {
			return nil, fmt.Errorf("%w: block %d, document has %d", table.ErrOutOfRange, after, len(blocks))
		}
		if err := d.Model.Change(func(w *model.Writer) error {
			w.SetSelectionAt(model.PositionAt(blocks[after], 0))
			return nil
		}); err != nil {
			return nil, err
		}
	}
	_, err := d.Editor.InsertTable(env.CreateOptions(cmd.Int("rows"), cmd.Int("columns")))
	return nil, err
})

func placement(cmd *cli.Command, row bool) (common.Placement, error) {
	p, err := common.ParsePlacement(cmd.String("at"))
	if err != nil {
		return p, err
	}
	if p.IsRow() != row {
		return p, fmt.Errorf("%w: placement %s", table.ErrCommandDisabled, p)
	}
	return p, nil
}

func repeat(count int, fn func() error) error {
	for range max(count, 1) {
		if err := fn(); err != nil {
			return err
		}
	}
	return nil
}

var InsertRows = run("insert-rows", onTable(func(_ context.Context, cmd *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	p, err := placement(cmd, true)
	if err != nil {
		return nil, err
	}
	return nil, repeat(cmd.Int("count"), func() error { return d.Editor.InsertRow(p) })
}))

var InsertColumns = run("insert-columns", onTable(func(_ context.Context, cmd *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	p, err := placement(cmd, false)
	if err != nil {
		return nil, err
	}
	return nil, repeat(cmd.Int("count"), func() error { return d.Editor.InsertColumn(p) })
}))

var RemoveRows = run("remove-rows", onTable(func(_ context.Context, _ *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	return nil, d.Editor.RemoveRow()
}))

var RemoveColumns = run("remove-columns", onTable(func(_ context.Context, _ *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	return nil, d.Editor.RemoveColumn()
}))

var Merge = run("merge", onTable(func(_ context.Context, _ *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	merged, err := d.Editor.MergeCells()
	if err == nil {
		d.log.Debug("Cells merged", zap.Int("rowspan", model.RowSpan(merged)), zap.Int("colspan", model.ColSpan(merged)))
	}
	return nil, err
}))

var Split = run("split", onTable(func(_ context.Context, cmd *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	direction, err := common.ParseSplitDirection(cmd.String("direction"))
	if err != nil {
		return nil, err
	}
	return nil, d.Editor.SplitCell(direction, cmd.Int("parts"))
}))

var Headings = run("headings", onTable(func(_ context.Context, cmd *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	if !cmd.IsSet("rows") && !cmd.IsSet("columns") {
		return nil, fmt.Errorf("%w: neither rows nor columns requested", table.ErrCommandDisabled)
	}
	if cmd.IsSet("rows") {
		if err := d.Editor.SetHeadingRows(cmd.Int("rows")); err != nil {
			return nil, err
		}
	}
	if cmd.IsSet("columns") {
		if err := d.Editor.SetHeadingColumns(cmd.Int("columns")); err != nil {
			return nil, err
		}
	}
	return nil, nil
}))

// Crop outputs selected part of the table as a document of its own.
var Crop = run("crop", onTable(func(_ context.Context, _ *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	fragment, err := d.Editor.Copy()
	if err != nil {
		return nil, err
	}
	root := etree.NewElement(model.RootName)
	for _, el := range fragment.ChildElements() {
		root.AddChild(el)
	}
	return root, nil
}))

var Resize = run("resize", onTable(func(_ context.Context, cmd *cli.Command, d *Document, _ *etree.Element) (*etree.Element, error) {
	return nil, d.Editor.ResizeColumn(cmd.Int("column"), cmd.Float("width"))
}))

// Paste pastes table from another document into the selected cells. Content
// which could not be pasted into cells is inserted after the table.
var Paste = run("paste", onTable(func(ctx context.Context, cmd *cli.Command, d *Document, t *etree.Element) (*etree.Element, error) {
	from := cmd.String("from")
	if len(from) == 0 {
		return nil, fmt.Errorf("%w: no content to paste", table.ErrCommandDisabled)
	}
	env := state.EnvFromContext(ctx)
	env.Rpt.Store("paste/"+filepath.Base(from), from)
	content, err := readRoot(from, env.UpcastOptions(), d.log)
	if err != nil {
		return nil, err
	}
	handled, err := d.Editor.Paste(content)
	if err != nil || handled {
		return nil, err
	}
	d.log.Debug("Content is not a table, inserting after table", zap.Int("blocks", len(content.ChildElements())))
	return nil, d.Model.Change(func(w *model.Writer) error {
		pos := model.PositionAfter(t)
		for _, el := range content.ChildElements() {
			clone := w.Clone(el)
			w.Insert(clone, pos)
			pos = model.PositionAfter(clone)
		}
		return nil
	})
}))

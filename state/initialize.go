package state

import (
	"time"

	"rtable/table"
	"rtable/view"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// EditorOptions returns table editor options from configuration, without
// configuration editor defaults are used.
func (e *LocalEnv) EditorOptions() table.Options {
	if e.Cfg == nil {
		return table.Options{}
	}
	return table.Options{
		MultiCellSelection: e.Cfg.Editor.MultiCellSelection,
		MinColumnWidth:     e.Cfg.Editor.ColumnResize.MinWidth,
		DefaultRows:        e.Cfg.Editor.DefaultRows,
		DefaultColumns:     e.Cfg.Editor.DefaultColumns,
	}
}

// CreateOptions returns size of a new table, zero values of rows and columns
// are taken from configuration.
func (e *LocalEnv) CreateOptions(rows, columns int) table.CreateOptions {
	opts := table.CreateOptions{Rows: rows, Columns: columns}
	if e.Cfg != nil {
		opts.HeadingRows, opts.HeadingColumns = e.Cfg.Editor.HeadingRows, e.Cfg.Editor.HeadingColumns
		if opts.Rows < 1 {
			opts.Rows = e.Cfg.Editor.DefaultRows
		}
		if opts.Columns < 1 {
			opts.Columns = e.Cfg.Editor.DefaultColumns
		}
	}
	return opts
}

func (e *LocalEnv) UpcastOptions() view.UpcastOptions {
	if e.Cfg == nil {
		return view.UpcastOptions{}
	}
	return view.UpcastOptions{Encoding: e.Cfg.Input.Encoding}
}

package edit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/fatih/color"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtable/config"
	"rtable/model"
	"rtable/state"
	"rtable/table"
)

// Dump prints slot grid of every table (or the one requested) of SOURCE.
func Dump(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	d, err := Load(src, env.UpcastOptions(), env.EditorOptions(), log)
	if err != nil {
		return err
	}

	tables, first := d.Model.FindAll(model.TableName), 0
	if cmd.IsSet("table") {
		t, err := d.Table(cmd.Int("table"))
		if err != nil {
			return err
		}
		tables, first = []*etree.Element{t}, cmd.Int("table")
	}

	out := cmd.Root().Writer
	if out == nil {
		out = os.Stdout
	}
	f, isFile := out.(*os.File)
	colored := isFile && config.EnableColorOutput(f)

	for n, t := range tables {
		i := first + n
		fmt.Fprintf(out, "%s table %d: %d rows, %d columns\n", filepath.Base(src), i, table.Rows(t), table.Columns(t))
		if err := renderGrid(out, t, colored); err != nil {
			return err
		}
		for _, e := range multierr.Errors(table.Validate(t)) {
			log.Warn("Table is not valid", zap.Int("table", i), zap.Error(e))
		}
	}
	return nil
}

// renderGrid writes table grid, one line per row with heading cells and span
// markers highlighted.
func renderGrid(w io.Writer, t *etree.Element, colored bool) error {
	grid := table.Grid(t)
	headingRows, headingColumns := model.HeadingRows(t), model.HeadingColumns(t)

	var widths []int
	for _, row := range grid {
		for c, label := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			widths[c] = max(widths[c], utf8.RuneCountInString(label))
		}
	}

	heading, spanned := color.New(color.FgYellow, color.Bold), color.New(color.Faint)
	if colored {
		heading.EnableColor()
		spanned.EnableColor()
	} else {
		heading.DisableColor()
		spanned.DisableColor()
	}

	for r, row := range grid {
		var sb strings.Builder
		sb.WriteString("|")
		for c, label := range row {
			cell := " " + label + strings.Repeat(" ", widths[c]-utf8.RuneCountInString(label)) + " "
			switch {
			case label == table.GridSpannedLeft || label == table.GridSpannedAbove:
				cell = spanned.Sprint(cell)
			case r < headingRows || c < headingColumns:
				cell = heading.Sprint(cell)
			}
			sb.WriteString(cell + "|")
		}
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

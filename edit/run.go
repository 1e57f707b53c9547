package edit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/beevik/etree"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtable/common"
	"rtable/config"
	"rtable/model"
	"rtable/state"
)

// action modifies loaded document. It runs inside a single model change so
// any error leaves the document untouched. Returned element replaces document
// root in the output, nil keeps the document.
type action func(ctx context.Context, cmd *cli.Command, d *Document) (*etree.Element, error)

// tableAction is an action working on the table and cells selected from
// command line.
type tableAction func(ctx context.Context, cmd *cli.Command, d *Document, t *etree.Element) (*etree.Element, error)

func onTable(fn tableAction) action {
	return func(ctx context.Context, cmd *cli.Command, d *Document) (*etree.Element, error) {
		t, err := d.Table(cmd.Int("table"))
		if err != nil {
			return nil, err
		}
		if err := d.Select(t, cmd.String("cells")); err != nil {
			return nil, err
		}
		return fn(ctx, cmd, d, t)
	}
}

// outputFormat returns requested format, configuration default when not
// specified on command line.
func outputFormat(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) common.OutputFmt {
	format := env.Cfg.Output.Format
	if name := cmd.String("to"); len(name) > 0 {
		f, err := common.ParseOutputFmt(name)
		if err != nil {
			log.Warn("Unknown output format requested, using default", zap.String("format", name), zap.Stringer("default", format))
		} else {
			format = f
		}
	}
	return format
}

// run returns cli action which loads SOURCE, applies fn and writes result to
// DESTINATION.
func run(name string, fn action) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) (err error) {
		if err := ctx.Err(); err != nil {
			return err
		}

		env := state.EnvFromContext(ctx)
		log := env.Log.Named(name)

		src := cmd.Args().Get(0)
		if len(src) == 0 {
			return errors.New("no input source has been specified")
		}
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
		if cmd.Args().Len() > 2 {
			log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
		}

		format := outputFormat(cmd, env, log)
		dst := cmd.Args().Get(1)
		if len(dst) == 0 {
			dst = config.OutputPath(src, env.OutputDir, format, env.Cfg.Output.FileNameTransliterate)
		}
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
		if _, err := os.Stat(dst); err == nil && !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", dst)
		}

		log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Stringer("format", format))
		defer func(start time.Time) {
			log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
		}(time.Now())

		// destination may be the source itself
		if err := env.Rpt.StoreCopy("input/"+filepath.Base(src), src); err != nil {
			log.Warn("Unable to store input in report", zap.Error(err))
		}
		d, err := Load(src, env.UpcastOptions(), env.EditorOptions(), log)
		if err != nil {
			return err
		}
		if env.Rpt != nil {
			env.Rpt.StoreData("model/before.txt", []byte(model.Dump(d.Model.Root())))
		}

		var out *etree.Element
		err = d.Model.Change(func(*model.Writer) error {
			var err error
			out, err = fn(ctx, cmd, d)
			return err
		})
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if env.Rpt != nil {
			snapshot := out
			if snapshot == nil {
				snapshot = d.Model.Root()
			}
			env.Rpt.StoreData("model/after.txt", []byte(model.Dump(snapshot)))
		}
		for _, e := range multierr.Errors(d.Validate()) {
			log.Warn("Table is not valid", zap.Error(e))
		}

		return writeOutput(d, out, dst, format, env, log)
	}
}

func writeOutput(d *Document, root *etree.Element, dst string, format common.OutputFmt, env *state.LocalEnv, log *zap.Logger) (err error) {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	// written next to destination and renamed, failed runs leave no output
	f, err := os.CreateTemp(dir, "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
		if err == nil {
			err = multierr.Append(os.Chmod(f.Name(), 0644), os.Rename(f.Name(), dst))
		}
		if err != nil {
			os.Remove(f.Name())
			return
		}
		env.Rpt.Store("output/"+filepath.Base(dst), dst)
	}()

	title := env.Cfg.Output.Title
	if len(title) == 0 {
		base := filepath.Base(d.Path)
		title = base[:len(base)-len(filepath.Ext(base))]
	}
	if err := d.Write(f, root, format, env.Cfg.Output.Indent, title); err != nil {
		return err
	}
	log.Debug("Output written", zap.String("file", dst))
	return nil
}

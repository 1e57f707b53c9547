package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"rtable/common"
	"rtable/config"
	"rtable/edit"
	"rtable/misc"
	"rtable/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Overwrite, env.OutputDir = cmd.Bool("overwrite"), cmd.String("output-dir")
	if enc := cmd.String("encoding"); len(enc) > 0 {
		env.Cfg.Input.Encoding = enc
	}

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Ignore urfave/cli default error handling, subcommands return regular
// errors.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

const sourceHelp = `%s
SOURCE:
    document to edit: model XML (.xml) or HTML file (any other extension)

DESTINATION:
    output file, if absent - derived from SOURCE name, output format and --output-dir
`

// tableFlags select table and cells commands work on.
func tableFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.IntFlag{Name: "table", Aliases: []string{"t"}, Value: 0, Usage: "`INDEX` of the table in document order"},
		&cli.StringFlag{Name: "cells", Value: "0,0", Usage: "selected cells as `ROW,COLUMN[:ROW,COLUMN]` slot rectangle"},
		outputFlag(),
	}, extra...)
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{Name: "to", Usage: "output `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + "), default from configuration"}
}

func editCommand(name, usage string, action cli.ActionFunc, flags []cli.Flag) *cli.Command {
	return &cli.Command{
		Name:               name,
		Usage:              usage,
		OnUsageError:       usageErrorHandler,
		Action:             action,
		Flags:              flags,
		ArgsUsage:          "SOURCE [DESTINATION]",
		CustomHelpTemplate: fmt.Sprintf(sourceHelp, cli.CommandHelpTemplate),
	}
}

func main() {

	// allow graceful shutdown on interrupt.
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "editing engine for tables in rich text documents",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
			&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite existing destination files"},
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"o"}, Usage: "put derived destination files into `DIR`"},
			&cli.StringFlag{Name: "encoding", Usage: "force `ENCODING` of HTML input (see IANA.org for character set names)"},
		},
		Commands: []*cli.Command{
			editCommand("normalize", "Rewrites document bringing every table into canonical shape", edit.Normalize,
				[]cli.Flag{outputFlag()}),
			{
				Name:         "dump",
				Usage:        "Prints slot grid of document tables",
				OnUsageError: usageErrorHandler,
				Action:       edit.Dump,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "table", Aliases: []string{"t"}, Usage: "print only table with `INDEX`"},
				},
				ArgsUsage: "SOURCE",
			},
			editCommand("insert-table", "Inserts new table after top level block", edit.InsertTable, []cli.Flag{
				&cli.IntFlag{Name: "rows", Usage: "number of `ROWS`, default from configuration"},
				&cli.IntFlag{Name: "columns", Usage: "number of `COLUMNS`, default from configuration"},
				&cli.IntFlag{Name: "after", Value: -1, Usage: "`INDEX` of the top level block to insert after, end of document when absent"},
				outputFlag(),
			}),
			editCommand("insert-rows", "Inserts rows above or below selected cells", edit.InsertRows, tableFlags(
				&cli.StringFlag{Name: "at", Value: common.PlacementBelow.String(), Usage: "`PLACEMENT` of new rows: above or below"},
				&cli.IntFlag{Name: "count", Value: 1, Usage: "number of rows to insert"},
			)),
			editCommand("insert-columns", "Inserts columns left or right of selected cells", edit.InsertColumns, tableFlags(
				&cli.StringFlag{Name: "at", Value: common.PlacementRight.String(), Usage: "`PLACEMENT` of new columns: left or right"},
				&cli.IntFlag{Name: "count", Value: 1, Usage: "number of columns to insert"},
			)),
			editCommand("remove-rows", "Removes rows of selected cells", edit.RemoveRows, tableFlags()),
			editCommand("remove-columns", "Removes columns of selected cells", edit.RemoveColumns, tableFlags()),
			editCommand("merge", "Merges selected cells into one", edit.Merge, tableFlags()),
			editCommand("split", "Splits selected cell", edit.Split, tableFlags(
				&cli.StringFlag{Name: "direction", Value: common.SplitDirectionVertical.String(),
					Usage: "split `DIRECTION` (supported: " + strings.Join(common.SplitDirectionNames(), ", ") + ")"},
				&cli.IntFlag{Name: "parts", Value: 2, Usage: "number of resulting cells"},
			)),
			editCommand("headings", "Sets number of heading rows and columns", edit.Headings, tableFlags(
				&cli.IntFlag{Name: "rows", Usage: "number of heading `ROWS`"},
				&cli.IntFlag{Name: "columns", Usage: "number of heading `COLUMNS`"},
			)),
			editCommand("crop", "Outputs selected part of the table as document of its own", edit.Crop, tableFlags()),
			editCommand("paste", "Pastes table from another document into selected cells", edit.Paste, tableFlags(
				&cli.StringFlag{Name: "from", Usage: "`FILE` with content to paste (model XML or HTML)"},
			)),
			editCommand("resize", "Sets width of table column", edit.Resize, tableFlags(
				&cli.IntFlag{Name: "column", Usage: "`INDEX` of the column"},
				&cli.FloatFlag{Name: "width", Usage: "new `WIDTH` in percents of table width"},
			)),
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

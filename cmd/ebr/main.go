package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ebr/config"
	"ebr/history"
	"ebr/loader"
	"ebr/misc"
	"ebr/session"
	"ebr/state"
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
	// terminal belongs to the reader, console output would corrupt the screen
	console = cmd.Args().First() != "read"
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt, console); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}

	if name := env.Cfg.Reader.Encoding; len(name) > 0 {
		if env.CodePage, err = loader.ParseEncoding(name); err != nil {
			return ctx, fmt.Errorf("unknown text encoding '%s': %w", name, err)
		}
		env.Log.Debug("Forcing text encoding", zap.String("encoding", name))
	}

	if hc := env.Cfg.History; hc.Enable {
		dst := hc.Destination
		if len(dst) == 0 {
			if dst, err = history.DefaultPath(); err != nil {
				return ctx, err
			}
		}
		if env.History, err = history.Open(dst, hc.MaxBooks, env.Log); err != nil {
			// losing reading position is not a reason to refuse reading
			env.Log.Warn("Reading history is not available", zap.String("location", dst), zap.Error(err))
			env.History = nil
		}
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if er := env.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close reading history: %w", er))
	}

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

// Commands return regular errors, urfave/cli exit handling is not used.
var (
	errWasHandled bool
	// console logging is enabled, errors logged are visible to the user
	console bool
)

// called before appContext is destroyed, so error from subcommand could be
// logged
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = console
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// error is reported either by exitErrHandler or on exit directly to stderr
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
	}
}

const bookHelp = `
BOOK:
    path to a book file, following formats are supported:
        plain text: "[path_to_file]file.txt"
        HTML: "[path_to_file]file.html"
        fiction book: "[path_to_file]file.fb2"
        EPUB: "[path_to_file]file.epub"
        zip archive: "[path_to_archive]archive.zip" - every supported book in the archive becomes inner book
`

func main() {
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "terminal reader for plain text, HTML, FB2 and EPUB books",
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
		},
		Commands: []*cli.Command{
			{
				Name:         "read",
				Usage:        "Shows book in the terminal",
				OnUsageError: usageErrorHandler,
				Action:       session.Read,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "restart", Aliases: []string{"r"}, Usage: "start from the beginning ignoring remembered position"},
					&cli.BoolFlag{Name: "gray", Usage: "show image previews in shades of gray"},
				},
				ArgsUsage:          "BOOK",
				CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp,
			},
			{
				Name:         "dump",
				Usage:        "Paginates book and outputs pages as plain text",
				OnUsageError: usageErrorHandler,
				Action:       session.Dump,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "width", Aliases: []string{"w"}, Usage: "page width in columns (default: terminal width)"},
					&cli.IntFlag{Name: "height", Usage: "page height in rows (default: terminal height)"},
					&cli.IntFlag{Name: "pages", Aliases: []string{"n"}, Usage: "stop after `N` pages, 0 - whole book"},
					&cli.BoolFlag{Name: "resume", Usage: "start at remembered reading position"},
				},
				ArgsUsage: "BOOK [DESTINATION]",
				CustomHelpTemplate: cli.CommandHelpTemplate + bookHelp + `
DESTINATION:
    file to write pages to, if directory - file name is derived from book title
    if absent - STDOUT

Pages are separated by form feed character. With --debug every chapter
document structure is stored in the report.
`,
			},
			{
				Name:         "history",
				Usage:        "Lists remembered books and reading positions",
				OnUsageError: usageErrorHandler,
				Action:       session.History,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "delete", Usage: "forget book with `ID`, may be repeated"},
				},
			},
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
	// there are no other deferred functions after that
	defer func() {
		stop()
		if err != nil {
			// log is either not set yet (argument parsing) or already closed
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		if out, err = os.Create(fname); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer func() {
			err = multierr.Append(err, out.Close())
		}()
	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputting configuration", zap.String("state", kind), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}

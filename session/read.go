package session

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/lipgloss"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"ebr/layout"
	"ebr/state"
	"ebr/tui"
)

// terminalSize returns size of the terminal attached to stdout or classic
// 80x24 when there is none.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}

// Read shows book in the terminal.
func Read(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("read")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no book has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many books", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("standard output is not a terminal, use dump command instead")
	}

	rc := env.Cfg.Reader
	status, err := tui.ParseStatus(rc.StatusTemplate)
	if err != nil {
		return err
	}
	styles := tui.NewStyles(rc.Theme, lipgloss.HasDarkBackground())

	w, h := terminalSize()
	s, err := Open(src, layout.Viewport{Width: w, Height: max(h-1, 1)}, styles.Palette, !cmd.Bool("restart"), env)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := tui.Options{
		Title:      s.Book.Meta.Title,
		Path:       s.Path,
		BookID:     s.BookID,
		Keys:       tui.DefaultKeyMap(),
		Styles:     styles,
		Status:     status,
		Margin:     rc.Margin,
		MaxWidth:   rc.MaxWidth,
		Gray:       cmd.Bool("gray"),
		IgnoreCase: rc.Search.IgnoreCase,
	}
	if env.History != nil {
		opts.History = env.History
	}
	if names, ok := s.Book.Container.(tui.Namer); ok {
		opts.Names = names
	}

	log.Info("Reading", zap.String("book", s.Path), zap.String("title", s.Book.Meta.Title), zap.Bool("restored", s.Restored))
	loc, err := tui.Run(ctx, tui.New(s.Ctl, opts, env.Log))
	if err != nil {
		return err
	}
	log.Info("Done reading", zap.Stringer("location", loc))
	return nil
}

package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ebr/book"
	"ebr/config"
	"ebr/layout"
	"ebr/reader"
	"ebr/state"
)

// pageBreak separates pages in the dump.
const pageBreak = "\f"

// Dump paginates book into plain text pages.
func Dump(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no book has been specified")
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	w, h := terminalSize()
	if v := int(cmd.Int("width")); v > 0 {
		w = v
	}
	if v := int(cmd.Int("height")); v > 0 {
		h = v
	}
	s, err := Open(src, layout.Viewport{Width: w, Height: h}, book.DefaultPalette, cmd.Bool("resume"), env)
	if err != nil {
		return err
	}
	defer s.Close()

	out := os.Stdout
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if fi, err := os.Stat(dst); err == nil && fi.IsDir() {
			dst = filepath.Join(dst, config.CleanFileName(slug.Make(s.Book.Meta.Title))+".txt")
		}
		if out, err = os.Create(dst); err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", dst, err)
		}
		defer func() {
			if er := out.Close(); er != nil && err == nil {
				err = fmt.Errorf("unable to close destination file '%s': %w", dst, er)
			}
		}()
	}

	n, err := WritePages(ctx, out, s.Ctl, int(cmd.Int("pages")), func(loc reader.Location, doc *book.Document) {
		name := fmt.Sprintf("documents/%02d-%03d-%s.txt", loc.Inner, loc.Chapter, slug.Make(doc.Title()))
		env.Rpt.StoreData(name, []byte(doc.String()))
	})
	if err != nil {
		return err
	}
	if len(dst) == 0 {
		dst = "STDOUT"
	}
	log.Info("Book dumped", zap.String("book", s.Path), zap.String("destination", dst), zap.Int("pages", n), zap.Int("width", w), zap.Int("height", h))
	return nil
}

// WritePages writes pages starting from the current location until the end
// of the container or until limit pages (when positive) are written. Pages
// are separated by form feed. Visit is called once for every chapter shown.
func WritePages(ctx context.Context, w io.Writer, ctl *reader.Controller, limit int, visit func(reader.Location, *book.Document)) (int, error) {
	bw := bufio.NewWriter(w)

	var (
		pages int
		doc   *book.Document
	)
	for limit <= 0 || pages < limit {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		if d := ctl.Document(); d != doc {
			doc = d
			if visit != nil {
				visit(ctl.Location(), doc)
			}
		}
		if pages > 0 {
			bw.WriteString(pageBreak)
		}
		for _, row := range pageText(ctl.Page()) {
			bw.WriteString(row)
			bw.WriteByte('\n')
		}
		pages++

		before := ctl.Location()
		if err := ctl.NextPage(); err != nil {
			return pages, err
		}
		if ctl.Location() == before {
			break
		}
	}
	if err := bw.Flush(); err != nil {
		return pages, fmt.Errorf("unable to write pages: %w", err)
	}
	return pages, nil
}

// pageText renders page as plain text rows, trailing spaces are dropped.
func pageText(pg *layout.Page) []string {
	var rows []string
	for _, rl := range pg.Lines {
		var (
			sb strings.Builder
			x  int
		)
		for _, c := range rl.Chars {
			if c.X > x {
				sb.WriteString(strings.Repeat(" ", c.X-x))
			}
			switch c.Ch {
			case '\t':
				sb.WriteString(strings.Repeat(" ", c.Width))
			case book.ImageChar:
				sb.WriteRune('▣')
			default:
				sb.WriteRune(c.Ch)
			}
			x = c.X + c.Width
		}
		rows = append(rows, strings.TrimRight(sb.String(), " "))
		for range rl.Extent() - 1 {
			rows = append(rows, "")
		}
	}
	return rows
}

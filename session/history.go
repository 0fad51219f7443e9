package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"ebr/history"
	"ebr/state"
)

const timeLayout = "2006-01-02 15:04"

// History lists remembered books or forgets some of them.
func History(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("history")

	if env.History == nil {
		return errors.New("reading history is disabled in configuration")
	}

	if ids := cmd.StringSlice("delete"); len(ids) > 0 {
		for _, id := range ids {
			if err := env.History.Delete(id); err != nil {
				return err
			}
			log.Info("Book forgotten", zap.String("id", id))
		}
		return nil
	}

	n, err := ListHistory(os.Stdout, env.History)
	if err != nil {
		return err
	}
	log.Debug("History listed", zap.Int("books", n))
	return nil
}

// ListHistory writes table of remembered books, most recent first.
func ListHistory(w io.Writer, store *history.Store) (int, error) {
	records, err := store.List()
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No books in history")
		return 0, err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPDATED\tTITLE\tLOCATION\tPATH")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", rec.BookID, rec.Updated.Local().Format(timeLayout), rec.Title, rec.Location, rec.Path)
	}
	if err := tw.Flush(); err != nil {
		return 0, fmt.Errorf("unable to write history: %w", err)
	}
	return len(records), nil
}

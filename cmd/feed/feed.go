// Package feed prints the recent public feed
package feed

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/mood-journal/cmd/root"
	"fjacquet/mood-journal/internal/models"

	"github.com/spf13/cobra"
)

// Cmd represents the feed command
var Cmd = &cobra.Command{
	Use:   "feed",
	Short: "Show the most recent journal entries",
	Long:  `Show the most recent journal entries, newest first, as they appear on the public feed.`,
	RunE:  feedFunc,
}

type feedSource interface {
	Feed(ctx context.Context) ([]models.FeedItem, error)
}

func feedFunc(cmd *cobra.Command, args []string) error {
	c, err := root.NewContainer(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			root.Log.WithError(err).Warn("Failed to close container")
		}
	}()

	return printFeed(cmd.Context(), cmd.OutOrStdout(), c.GetJournal())
}

func printFeed(ctx context.Context, w io.Writer, src feedSource) error {
	items, err := src.Feed(ctx)
	if err != nil {
		return fmt.Errorf("error loading feed: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(w, "No entries yet.")
		return nil
	}
	for _, item := range items {
		fmt.Fprintf(w, "%s  %-10s %s: %s\n",
			item.CreatedAt.Local().Format(time.DateTime), item.Label, item.Alias, item.Snippet)
	}
	return nil
}

package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core/app"
	ascii "github.com/denchenko/usercards/internal/format/ascii"
	"github.com/denchenko/usercards/internal/scroll"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// cardLines is the height of one rendered card, used to model the terminal as a scroll container.
const cardLines = 3

func Browse(cfg *config.Config, appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	var results int

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Scroll through users, press Enter to reach the bottom and q to quit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := &browser{
				feed:      appInstance.NewFeed(results),
				formatter: formatter,
				out:       cmd.OutOrStdout(),
				threshold: cfg.ScrollThreshold,
				wait:      cfg.ScrollDebounce,
			}

			return b.run(cmd.Context(), cmd.InOrStdin())
		},
	}

	cmd.Flags().IntVar(&results, "results", 0, "Users per page (defaults to the configured page size)")

	return cmd
}

type browser struct {
	feed      *app.Feed
	formatter *ascii.Formatter
	out       io.Writer
	threshold int
	wait      time.Duration
	viewport  int
}

func (b *browser) run(ctx context.Context, in io.Reader) error {
	requests := make(chan struct{}, 1)
	trigger := scroll.NewTrigger(b.feed, func() {
		select {
		case requests <- struct{}{}:
		default:
		}
	}, b.threshold, b.wait)
	defer trigger.Stop()

	if err := b.loadPage(ctx); err != nil {
		return err
	}
	b.viewport = b.contentHeight()

	done := make(chan struct{})
	defer close(done)

	lines := readLines(done, in)

	// drain lets a scroll evaluation still pending at end of input complete.
	var drain <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-drain:
			return nil
		case line, ok := <-lines:
			if !ok {
				lines = nil
				drain = time.After(2*b.wait + 50*time.Millisecond)

				continue
			}

			if strings.TrimSpace(line) == "q" {
				return nil
			}

			if !b.feed.HasMore() {
				fmt.Fprintln(b.out, "No more users.")

				continue
			}

			trigger.OnScroll(b.bottom())
		case <-requests:
			if err := b.loadPage(ctx); err != nil {
				logrus.WithError(err).Warn("failed to load next page")
				fmt.Fprintf(b.out, "Failed to load more users: %v\n", err)
			}
		}
	}
}

// readLines streams input lines until the input ends or done is closed.
func readLines(done <-chan struct{}, in io.Reader) <-chan string {
	lines := make(chan string)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	return lines
}

func (b *browser) loadPage(ctx context.Context) error {
	offset := len(b.feed.Users()) + 1

	users, err := b.feed.LoadMore(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		return nil
	}

	formatted, err := b.formatter.FormatCards(b.feed.Pages(), offset, "", users)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	fmt.Fprint(b.out, formatted)

	if !b.feed.HasMore() {
		fmt.Fprintln(b.out, "End of feed.")
	}

	return nil
}

func (b *browser) contentHeight() int {
	return len(b.feed.Users()) * cardLines
}

// bottom is the scroll position after jumping to the end of everything printed so far.
func (b *browser) bottom() scroll.Position {
	height := b.contentHeight()

	return scroll.Position{
		ScrollTop:    max(height-b.viewport, 0),
		ClientHeight: b.viewport,
		ScrollHeight: height,
	}
}

package commands

import (
	"fmt"

	"github.com/denchenko/usercards/internal/core/app"
	"github.com/denchenko/usercards/internal/core/domain"
	ascii "github.com/denchenko/usercards/internal/format/ascii"
	"github.com/spf13/cobra"
)

func Cache(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the response cache",
	}

	cmd.AddCommand(
		CacheStats(appInstance, formatter),
		CacheClear(appInstance),
		CacheInvalidate(appInstance),
	)

	return cmd
}

func CacheStats(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := appInstance.CacheStats(cmd.Context())
			if err != nil {
				return err
			}

			formatted, err := formatter.FormatStats(stats)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatted)

			return nil
		},
	}
}

func CacheClear(appInstance *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Evict every cached page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appInstance.ClearCache(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Cache cleared.")

			return nil
		},
	}
}

func CacheInvalidate(appInstance *app.App) *cobra.Command {
	var page, results int

	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Evict one cached page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := appInstance.Invalidate(cmd.Context(), page, results); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated page %d.\n", page)

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", domain.DefaultPage, "Page number")
	cmd.Flags().IntVar(&results, "results", 0, "Users per page (defaults to the configured page size)")

	return cmd
}

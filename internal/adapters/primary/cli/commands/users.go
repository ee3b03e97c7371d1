package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/denchenko/usercards/internal/core/app"
	"github.com/denchenko/usercards/internal/core/domain"
	ascii "github.com/denchenko/usercards/internal/format/ascii"
	"github.com/denchenko/usercards/internal/log"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
)

const (
	pictureLarge     = "large"
	pictureMedium    = "medium"
	pictureThumbnail = "thumbnail"
)

// openURL is replaced in tests.
var openURL = open.Start

func Users(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Fetch pages of users",
	}

	cmd.AddCommand(
		UsersList(appInstance, formatter),
		UsersPages(appInstance, formatter),
		UsersPicture(appInstance),
	)

	return cmd
}

func UsersList(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	var page, results int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show one page of users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rs *domain.ResultSet
			err := log.WithSpinner(fmt.Sprintf("Fetching page %d...", page), func() error {
				var err error
				rs, err = appInstance.FetchUsers(cmd.Context(), page, results)

				return err
			})
			if err != nil {
				return err
			}

			formatted, err := formatter.FormatPage(rs)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), formatted)

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", domain.DefaultPage, "Page number")
	cmd.Flags().IntVar(&results, "results", 0, "Users per page (defaults to the configured page size)")

	return cmd
}

func UsersPages(appInstance *app.App, formatter *ascii.Formatter) *cobra.Command {
	var from, to, results int

	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Fetch a range of pages concurrently",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if to == 0 {
				to = from
			}

			var pages []*domain.ResultSet
			err := log.WithSpinner(fmt.Sprintf("Fetching pages %d-%d...", from, to), func() error {
				var err error
				pages, err = appInstance.FetchPages(cmd.Context(), from, to, results)

				return err
			})
			if err != nil {
				return err
			}

			for _, rs := range pages {
				formatted, err := formatter.FormatPage(rs)
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}

				fmt.Fprint(cmd.OutOrStdout(), formatted)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", domain.DefaultPage, "First page")
	cmd.Flags().IntVar(&to, "to", 0, "Last page (defaults to --from)")
	cmd.Flags().IntVar(&results, "results", 0, "Users per page (defaults to the configured page size)")

	return cmd
}

func UsersPicture(appInstance *app.App) *cobra.Command {
	var page, index, results int
	var size string

	cmd := &cobra.Command{
		Use:   "picture",
		Short: "Open a user's picture in the browser",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return openPicture(cmd.Context(), appInstance, page, index, results, size)
		},
	}

	cmd.Flags().IntVar(&page, "page", domain.DefaultPage, "Page number")
	cmd.Flags().IntVar(&index, "index", 1, "Position of the user on the page, starting at 1")
	cmd.Flags().IntVar(&results, "results", 0, "Users per page (defaults to the configured page size)")
	cmd.Flags().StringVar(&size, "size", pictureLarge, "Picture size: large, medium or thumbnail")

	return cmd
}

func openPicture(ctx context.Context, appInstance *app.App, page, index, results int, size string) error {
	var rs *domain.ResultSet
	err := log.WithSpinner(fmt.Sprintf("Fetching page %d...", page), func() error {
		var err error
		rs, err = appInstance.FetchUsers(ctx, page, results)

		return err
	})
	if err != nil {
		return err
	}

	if index < 1 || index > len(rs.Results) {
		return fmt.Errorf("index %d out of range, page %d has %d users", index, page, len(rs.Results))
	}

	pictureURL, err := pictureBySize(rs.Results[index-1].Picture, size)
	if err != nil {
		return err
	}

	if err := openURL(pictureURL); err != nil {
		return fmt.Errorf("failed to open picture: %w", err)
	}

	return nil
}

func pictureBySize(p domain.Picture, size string) (string, error) {
	var pictureURL string

	switch size {
	case pictureLarge:
		pictureURL = p.Large
	case pictureMedium:
		pictureURL = p.Medium
	case pictureThumbnail:
		pictureURL = p.Thumbnail
	default:
		return "", fmt.Errorf("unknown picture size: %s", size)
	}

	if pictureURL == "" {
		return "", errors.New("user has no picture of that size")
	}

	return pictureURL, nil
}

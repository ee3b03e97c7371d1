package cli

import (
	"github.com/denchenko/usercards/internal/adapters/primary/cli/commands"
	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core/app"
	ascii "github.com/denchenko/usercards/internal/format/ascii"
	do "github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Command creates and returns the root CLI command.
func Command(i do.Injector) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "usercards",
		Long:          `A CLI tool for browsing randomuser.me pages through a response cache.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	appInstance := do.MustInvoke[*app.App](i)
	cfg := do.MustInvoke[*config.Config](i)
	formatter := do.MustInvoke[*ascii.Formatter](i)

	cmd.AddCommand(
		commands.Users(appInstance, formatter),
		commands.Browse(cfg, appInstance, formatter),
		commands.Cache(appInstance, formatter),
	)

	return cmd, nil
}

package main

import (
	"os"

	"github.com/denchenko/usercards/internal/adapters"
	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core"
	"github.com/denchenko/usercards/internal/log"
	do "github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	injector := do.New(
		config.Package,
		core.Package,
		adapters.SecondaryPackage,
		adapters.PrimaryPackage,
	)

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	if err := log.Setup(cfg.LogLevel, os.Stderr); err != nil {
		logrus.Fatal(err)
	}

	cmd, err := do.Invoke[*cobra.Command](injector)
	if err != nil {
		logrus.Fatalf("failed to create CLI command: %v", err)
	}

	if err := cmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

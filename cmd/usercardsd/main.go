package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/denchenko/usercards/internal/adapters"
	httpadapter "github.com/denchenko/usercards/internal/adapters/primary/http"
	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core"
	"github.com/denchenko/usercards/internal/log"
	do "github.com/samber/do/v2"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	injector := do.New(
		config.Package,
		core.Package,
		adapters.SecondaryPackage,
		adapters.PrimaryPackage,
	)

	cfg, err := do.Invoke[*config.Config](injector)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if err := log.Setup(cfg.LogLevel, os.Stderr); err != nil {
		logrus.Fatal(err)
	}

	server, err := do.Invoke[*httpadapter.Server](injector)
	if err != nil {
		logrus.Fatalf("Failed to create HTTP server: %v", err)
	}

	go func() {
		if err := server.Start(); err != nil {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gamemode/internal/config"
	"gamemode/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	showVersion := flag.Bool("version", false, "print the version and exit")
	flag.Parse()
	if *showVersion {
		fmt.Println("gamemode", Version)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(cfg, log)
	go func() {
		if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("monitor stopped", zap.Error(err))
		}
	}()

	runCLI(ctx, app)

	if app.Active() {
		log.Info("exiting with an active session; reverting")
		app.Disable()
	}
	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"gamenight/internal/config"
	"gamenight/internal/infrastructure/logging"
)

func main() {
	cliApp := &cli.App{
		Name:  "gamenight",
		Usage: "event lifecycle and results engine",
		Commands: []*cli.Command{
			serveCommand(),
			sweepCommand(),
			migrateCommand(),
			transitionCommand(),
			tokenCommand(),
		},
	}
	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and installs the process logger.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

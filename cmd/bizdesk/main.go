package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/bizdesk/internal/cli"
	"github.com/alexanderramin/bizdesk/internal/config"
	"github.com/alexanderramin/bizdesk/internal/db"
	"github.com/alexanderramin/bizdesk/internal/gateway"
	"github.com/alexanderramin/bizdesk/internal/logging"
	"github.com/alexanderramin/bizdesk/internal/observe"
	"github.com/alexanderramin/bizdesk/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire the gateway; read-only mode rejects every mutation there.
	var opts []gateway.Option
	if cfg.ReadOnly {
		opts = append(opts, gateway.WithAuthorizer(gateway.ReadOnly{}))
	}
	gw := gateway.NewSQLiteGateway(database, opts...)

	logger.Debug("starting",
		zap.String("db", cfg.DBPath),
		zap.Bool("read_only", cfg.ReadOnly),
	)

	app := &cli.App{
		Console:  service.NewConsole(gw, observe.NewZapObserver(logger, cfg.LogCalls)),
		ReadOnly: cfg.ReadOnly,
	}

	// Detect interactive terminal for the console entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}

// Command pipeline runs the full OHLCV pipeline once and exits: normalize the
// raw files into per-ticker tables, consolidate them into the master table,
// clean it, and derive the analytics artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"stocklens/internal/config"
	"stocklens/internal/infrastructure"
	"stocklens/internal/operations"
	"stocklens/pkg/contracts"
)

func main() {
	var (
		configFile  = flag.String("config", "", "path to YAML config file")
		baseDir     = flag.String("base-dir", "", "override the data base directory")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetVersionString())
		return
	}

	if err := run(*configFile, *baseDir); err != nil {
		fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, baseDir string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if baseDir != "" {
		cfg.Paths.BaseDir = baseDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting pipeline",
		slog.String("version", contracts.Version),
		slog.String("base_dir", paths.BaseDir))

	manager := operations.NewManager(operations.DefaultSteps(paths, logger), logger, nil)
	runErr := manager.Run(ctx)

	if err := providers.Shutdown(context.Background()); err != nil {
		logger.Warn("telemetry shutdown failed", slog.String("error", err.Error()))
	}
	return runErr
}

package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tweetsearch/internal/config"
	"tweetsearch/internal/db"
	"tweetsearch/internal/metrics"
	"tweetsearch/internal/server"
	"tweetsearch/internal/twitter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

// loadConfig reads env and the optional YAML file and builds the logger.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config file: %w", err)
	}
	if err := cfg.ApplyYAML(yamlCfg); err != nil {
		return nil, nil, fmt.Errorf("applying config file: %w", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return cfg, logger, nil
}

// openDatabase connects and migrates.
func openDatabase(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*db.DB, error) {
	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("migrations completed successfully")
	return database, nil
}

type devSeeder interface {
	SeedDevRecords(ctx context.Context) error
}

// seedDevData inserts sample records only when SEED_DEV_DATA is set, so a
// fresh start has an empty history.
func seedDevData(ctx context.Context, cfg *config.Config, s devSeeder, logger *zap.Logger) {
	if !cfg.SeedDevData {
		return
	}
	if err := s.SeedDevRecords(ctx); err != nil {
		logger.Warn("failed to seed development records", zap.Error(err))
		return
	}
	logger.Info("seeded development records")
}

func runServer(ctx context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	for _, warning := range cfg.Validate() {
		logger.Warn("configuration warning", zap.String("warning", warning))
	}

	database, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close()

	seedDevData(ctx, cfg, database, logger)

	m := metrics.New(prometheus.DefaultRegisterer, database, logger)
	client := twitter.New(cfg.TwitterConfig(), logger)

	srv := server.New(cfg, logger)
	srv.RegisterRoutes(database, client, m, prometheus.DefaultGatherer)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Start(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server exited")
	return nil
}

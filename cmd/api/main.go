// Package main provides the entry point for the Foodi meal planner API server
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/config"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/container"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/migrations"
	"github.com/robloxdeveloper2/Foodi-Backup-sub002/internal/infrastructure/persistence/postgres"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML configuration file")
	migrate := flag.String("migrate", "", "run a postgres migration (up, down, reset, version, force:N) and exit")
	flag.Parse()

	if *migrate != "" {
		if err := runMigration(container.ConfigPath(*configPath), *migrate); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		return
	}

	app := fx.New(
		fx.NopLogger,
		fx.Supply(container.ConfigPath(*configPath)),
		container.Module,
	)
	if err := app.Err(); err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	startCtx, startCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startCancel()
	if err := app.Start(startCtx); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		if sig.ExitCode != 0 {
			fmt.Fprintf(os.Stderr, "application exited with code %d\n", sig.ExitCode)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := app.Stop(shutdownCtx); err != nil {
		log.Fatalf("Failed to stop application gracefully: %v", err)
	}
}

// runMigration applies one migration command using only the config and
// logger providers, so the server and auto-migrate never start
func runMigration(path container.ConfigPath, command string) error {
	action, err := migrations.ParseAction(command)
	if err != nil {
		return err
	}

	app := fx.New(
		fx.NopLogger,
		fx.Supply(path),
		container.ConfigModule,
		container.LoggerModule,
		fx.Invoke(func(cfg *config.Config, logger *zap.Logger) error {
			if cfg.Database.Driver != "postgres" {
				return fmt.Errorf("migrations need the postgres driver, got %q", cfg.Database.Driver)
			}
			cm, err := postgres.NewConnectionManager(cfg.Database, nil, logger)
			if err != nil {
				return err
			}
			defer cm.Close()
			return cm.RunMigration(action)
		}),
	)
	return app.Err()
}

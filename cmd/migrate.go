package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/frahmantamala/hr-records/internal"
	"github.com/frahmantamala/hr-records/pkg/logger"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run db migration files under db/migrations directory",
	}
	migrateRollback bool
	migrateDir      string
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
	migrateCmd.PersistentFlags().StringVarP(&migrateDir, "dir", "d", "db/migrations", "sql migrations directory")
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Database.GetDriver() != internal.DriverPostgres {
		return fmt.Errorf("migrate: driver %q creates its schema on start-up", cfg.Database.GetDriver())
	}

	db, err := goose.OpenDBWithDriver("pgx", cfg.Database.GetDSN())
	if err != nil {
		return fmt.Errorf("goose: failed to open DB: %w", err)
	}
	defer db.Close()
	goose.SetTableName("schema_migrations")

	command := "up"
	if migrateRollback {
		command = "down"
	}

	if err := goose.RunContext(ctx, command, db, migrateDir); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	// The decision log keeps its own version table since it may live in a
	// separate database.
	logSource := cfg.DecisionLog.Source
	if logSource == "" {
		logSource = cfg.Database.GetDSN()
	}
	logDB, err := goose.OpenDBWithDriver("pgx", logSource)
	if err != nil {
		return fmt.Errorf("goose: failed to open decision log DB: %w", err)
	}
	defer logDB.Close()
	goose.SetTableName("decision_log_migrations")

	if err := goose.RunContext(ctx, command, logDB, filepath.Join(migrateDir, "decisionlog")); err != nil {
		return fmt.Errorf("goose %s (decision log): %w", command, err)
	}

	logger.L().Info("migrations applied", "command", command, "dir", migrateDir)
	return nil
}

package cmd

import (
	"fmt"
	"sort"

	"event-catalog/core/database"
	"event-catalog/feature/events/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the event store schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the event store schema",
	Long:  `Runs the schema migration and verifies every column the reconciliation engine uses exists.`,
	RunE:  runMigrate,
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, l, err := bootstrap()
	if err != nil {
		return err
	}
	defer l.Sync()

	db, err := connectStore(cfg)
	if err != nil {
		return err
	}

	if err := models.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	expected := models.ExpectedColumns()
	tables := make([]string, 0, len(expected))
	for table := range expected {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		missing, err := database.MissingColumns(db, table, expected[table])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("table %s is missing columns %v", table, missing)
		}
		l.Info("Schema verified", zap.String("table", table), zap.Int("columns", len(expected[table])))
	}

	return nil
}

package cmd

import (
	"os"

	"github.com/aeroindex/aeroindex/core"
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Manage the score table database",
	Long: `Manage the database copy of the score tables.

By default the label scores and adjustment tables are read from YAML files.
With --table-backend set to sqlite, mysql or postgresql they are read from a
database instead, which the import command fills from the YAML files.

Subcommands:
  import  - Copy the YAML tables into the database
  export  - Write the database tables back to YAML files
  status  - Show table counts and import history
  clear   - Remove the table database
  migrate - Run database schema migrations

Examples:
  # Seed a local SQLite database and assess from it
  aeroindex tables import --table-backend sqlite
  aeroindex assess --table-backend sqlite --answers examples/answers.yaml

  # Check what is loaded
  aeroindex tables status --table-backend sqlite`,
}

var tablesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the YAML score tables into the table database",
	Long: `Validate the three YAML table files and replace the database contents with them.

The import runs in a single transaction and is recorded in the import history.

Examples:
  aeroindex tables import --table-backend sqlite --scores examples/scores.yaml \
    --adjusted-ifr examples/adjusted_ifr.yaml --adjusted-vfr examples/adjusted_vfr.yaml`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTablesImport(rootCtx, cfg, os.Stdout); err != nil {
			contract.LogFatal("Failed to import tables", err)
		}
	},
}

var tablesExportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Write the database score tables back to YAML files",
	Long: `Write scores.yaml, adjusted_ifr.yaml and adjusted_vfr.yaml from the table database into dir.

dir defaults to the current directory and is created if missing.

Examples:
  aeroindex tables export --table-backend sqlite ./tables-backup`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := core.ExecuteTablesExport(rootCtx, cfg, dir, os.Stdout); err != nil {
			contract.LogFatal("Failed to export tables", err)
		}
	},
}

var tablesStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display table database statistics and connection details",
	Long: `Show the backend, schema version, table counts and the most recent import.

Examples:
  aeroindex tables status --table-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTablesStatus(rootCtx, cfg, os.Stdout); err != nil {
			contract.LogFatal("Failed to get table status", err)
		}
	},
}

var tablesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all score tables from the table database",
	Long: `Delete the table database contents. For SQLite the database file is removed.

WARNING: This action cannot be undone. Consider exporting first.

Examples:
  aeroindex tables export --table-backend sqlite ./backup
  aeroindex tables clear --table-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTablesClear(cfg, os.Stdout); err != nil {
			contract.LogFatal("Failed to clear tables", err)
		}
	},
}

var tablesMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run table database schema migrations",
	Long: `Migrate the table database schema to the latest version or to --target-version.

Examples:
  # Migrate to latest
  aeroindex tables migrate --table-backend sqlite

  # Roll back to the initial state
  aeroindex tables migrate --table-backend sqlite --target-version 0`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTablesMigrate(cfg, viper.GetInt("target-version"), os.Stdout); err != nil {
			contract.LogFatal("Failed to migrate table database", err)
		}
	},
}

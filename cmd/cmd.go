// Package cmd defines the command-line interface for aeroindex.
package cmd

import (
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(assessCmd)
	rootCmd.AddCommand(questionnaireCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	tablesCmd.AddCommand(tablesImportCmd)
	tablesCmd.AddCommand(tablesExportCmd)
	tablesCmd.AddCommand(tablesStatusCmd)
	tablesCmd.AddCommand(tablesClearCmd)
	tablesCmd.AddCommand(tablesMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("scores", "", "Path to the label score table (default scores.yaml)")
	rootCmd.PersistentFlags().String("adjusted-ifr", "", "Path to the IFR adjustment table")
	rootCmd.PersistentFlags().String("adjusted-vfr", "", "Path to the VFR adjustment table")
	rootCmd.PersistentFlags().String("table-backend", string(schema.NoneBackend), "Score table source: none (YAML files) or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("table-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Float64("normalization", 0, "Normalization constant applied to blended totals (0 = built-in default)")
	rootCmd.PersistentFlags().Float64("default-ifr-ratio", schema.DefaultIFRRatio, "IFR share in [0,1] used when no movements are recorded")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or xlsx or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of assessCmd to Viper
	assessCmd.Flags().String("identifier", "", "Free-text aerodrome identifier, e.g. an ICAO code")
	assessCmd.Flags().String("answers", "", "Path to a YAML answers file")
	assessCmd.Flags().StringArray("answer", nil, "Answer as 'Category=Label' (repeatable, overrides the answers file)")
	assessCmd.Flags().Float64("ifr-movements", 0, "Annual IFR movements")
	assessCmd.Flags().Float64("vfr-movements", 0, "Annual VFR movements")
	assessCmd.Flags().String("aerodrome-type", "", "Service level to report as selected: Unattended or UNICOM/AWIB or AFIS or ATC")
	assessCmd.Flags().Bool("explain", false, "Print per-category contribution to the selected index")
	if err := viper.BindPFlags(assessCmd.Flags()); err != nil {
		contract.LogFatal("Error binding assess flags", err)
	}

	// Bind all flags of serveCmd to Viper
	serveCmd.Flags().Int("port", contract.DefaultPort, "Port for the assessment API")
	serveCmd.Flags().Int("metrics-port", contract.DefaultMetricsPort, "Port for /health and /metrics")
	serveCmd.Flags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	serveCmd.Flags().String("log-format", contract.DefaultLogFormat, "Log format: json or text")
	if err := viper.BindPFlags(serveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding serve flags", err)
	}

	// Bind all flags of tablesMigrateCmd to Viper
	tablesMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(tablesMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding tables migrate flags", err)
	}
}

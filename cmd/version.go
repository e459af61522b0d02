package cmd

import (
	"runtime"

	"github.com/aeroindex/aeroindex/internal/tabledb"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/spf13/cobra"
)

// versionCmd shows the build, calibration and table schema this binary carries.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of aeroindex.",
	Long: `Display version information for this build of aeroindex.

Besides the release, commit and build date, the output names the index
calibration compiled into the binary and the newest table database schema
it can migrate to. Include it when reporting a score that looks wrong.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("aeroindex CLI\n")
		cmd.Printf("  Version: %s\n", version)
		cmd.Printf("  Commit:  %s\n", commit)
		cmd.Printf("  Built:   %s\n", date)
		cmd.Printf("  Runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Index:   K=%g, default IFR share %g\n", schema.NormalizationConstant, schema.DefaultIFRRatio)
		if latest, err := tabledb.LatestSchemaVersion(); err == nil {
			cmd.Printf("  Tables:  schema v%d (sqlite, mysql, postgresql)\n", latest)
		}
	},
}

package cmd

import (
	"strconv"

	"github.com/aeroindex/aeroindex/core"
	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/spf13/cobra"
)

// assessCmd scores one aerodrome from its questionnaire answers.
var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score an aerodrome and show its weighted index per service level.",
	Long: `Score an aerodrome from one answer per questionnaire category.

Reports:
- Base risk score and its risk level (Low, Moderate, High, Very High)
- IFR and VFR group totals for every service group
- Movement-weighted index for Unattended, UNICOM/AWIB, AFIS and ATC

Answers come from an answers file, from repeated --answer flags, or both.
Flag answers override the file per category.

Examples:
  # Score from an answers file
  aeroindex assess --answers examples/answers.yaml

  # Override one answer and record traffic
  aeroindex assess --answers examples/answers.yaml --answer "Runway configuration=Single runway" \
    --ifr-movements 12000 --vfr-movements 30000 --aerodrome-type AFIS

  # Show how each category contributes to the selected index
  aeroindex assess --answers examples/answers.yaml --explain

  # Export all sheets to a workbook
  aeroindex assess --answers examples/answers.yaml --output xlsx --output-file report.xlsx`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAssess(rootCtx, cfg, core.NewTableCache(cfg)); err != nil {
			contract.LogFatal("Cannot run assessment", err)
		}
	},
}

// questionnaireCmd lists every category with its options.
var questionnaireCmd = &cobra.Command{
	Use:   "questionnaire",
	Short: "List the questionnaire categories and their options.",
	Long: `Show every questionnaire category in display order with its option labels and label scores.

Use this to see which labels are valid answers before running an assessment.

Examples:
  aeroindex questionnaire
  aeroindex questionnaire --output json --output-file questionnaire.json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteQuestionnaire(rootCtx, cfg, core.NewTableCache(cfg)); err != nil {
			contract.LogFatal("Cannot list questionnaire", err)
		}
	},
}

// classifyCmd maps a base score to its risk level without any tables.
var classifyCmd = &cobra.Command{
	Use:   "classify <score>",
	Short: "Classify a base risk score as Low, Moderate, High or Very High.",
	Long: `Map an integer base risk score to its risk level.

Thresholds: up to 20 is Low, up to 40 is Moderate, up to 55 is High, anything above is Very High.

Examples:
  aeroindex classify 41`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		score, err := strconv.Atoi(args[0])
		if err != nil {
			contract.LogFatal("Invalid score", err)
		}
		if err := core.ExecuteClassify(cfg, score); err != nil {
			contract.LogFatal("Cannot classify score", err)
		}
	},
}

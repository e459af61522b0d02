package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Sheet names used by the non-assessment listings.
const (
	questionnaireSheet  = "Questionnaire"
	classificationSheet = "Classification"
)

// Classification is the outcome of classifying a single base score.
type Classification struct {
	Score     int              `json:"score"`
	RiskLevel schema.RiskLevel `json:"risk_level"`
}

// questionnaireSheetOf flattens the questionnaire to one row per option.
func questionnaireSheetOf(categories []schema.Category) schema.Sheet {
	sh := schema.Sheet{Name: questionnaireSheet, Header: []string{"Question", "Option", "Label Score"}}
	for _, c := range categories {
		for _, o := range c.Options {
			sh.Rows = append(sh.Rows, []any{c.Name, o.Label, o.Score})
		}
	}
	return sh
}

// successMessage returns the notice printed after writing to a file.
func successMessage(mode schema.OutputMode) string {
	if mode == schema.TextOut || mode == "" {
		return "Wrote table"
	}
	return fmt.Sprintf("Wrote %s", strings.ToUpper(string(mode)))
}

// PrintQuestionnaire lists every category with its options and label scores.
func PrintQuestionnaire(categories []schema.Category, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		switch cfg.Output {
		case schema.JSONOut:
			return writeJSON(w, categories)
		case schema.CSVOut:
			_, intFmt := createFormatters(cfg.Precision)
			return writeCSVWithHeader(w, []string{"question", "option", "label_score"}, func(cw *csv.Writer) error {
				for _, c := range categories {
					for _, o := range c.Options {
						if err := cw.Write([]string{c.Name, o.Label, fmt.Sprintf(intFmt, o.Score)}); err != nil {
							return err
						}
					}
				}
				return nil
			})
		case schema.XLSXOut, schema.ParquetOut:
			return writeSheets(w, cfg.Output, "", []schema.Sheet{questionnaireSheetOf(categories)}, cfg.Precision)
		default:
			return writeQuestionnaireText(w, categories, cfg)
		}
	}, successMessage(cfg.Output))
}

// writeQuestionnaireText prints the category name only on its first option row.
func writeQuestionnaireText(w io.Writer, categories []schema.Category, cfg *contract.Config) error {
	width := GetMaxTextColumnWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Question", "Option", "Label Score"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	options := 0
	for _, c := range categories {
		for i, o := range c.Options {
			name := ""
			if i == 0 {
				name = contract.TruncateText(c.Name, width)
			}
			data = append(data, []string{name, contract.TruncateText(o.Label, width), fmt.Sprintf("%d", o.Score)})
			options++
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d questions, %d options\n", len(categories), options)
	return err
}

// PrintClassification outputs the risk level of a base score.
func PrintClassification(c Classification, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		switch cfg.Output {
		case schema.JSONOut:
			return writeJSON(w, c)
		case schema.CSVOut, schema.XLSXOut, schema.ParquetOut:
			sh := schema.Sheet{
				Name:   classificationSheet,
				Header: []string{"Base Score", "Risk Level"},
				Rows:   [][]any{{c.Score, string(c.RiskLevel)}},
			}
			return writeSheets(w, cfg.Output, "", []schema.Sheet{sh}, cfg.Precision)
		default:
			label := string(c.RiskLevel)
			if cfg.UseColors {
				label = contract.GetColorLabel(c.RiskLevel)
			}
			_, err := fmt.Fprintf(w, "Base score %d: %s risk\n", c.Score, label)
			return err
		}
	}, successMessage(cfg.Output))
}

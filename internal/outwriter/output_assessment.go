package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/aeroindex/aeroindex/internal/contract"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// assessmentDocument is the JSON shape of an exported assessment.
type assessmentDocument struct {
	Assessment schema.AssessmentResult `json:"assessment"`
	Sheets     []schema.Sheet          `json:"sheets"`
}

// PrintAssessment outputs one assessment, dispatching on the configured output format.
func PrintAssessment(r schema.AssessmentResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return RenderAssessment(w, r, cfg)
	}, successMessage(cfg.Output))
}

// RenderAssessment writes one assessment to w in the configured output format.
func RenderAssessment(w io.Writer, r schema.AssessmentResult, cfg *contract.Config) error {
	if !cfg.Explain {
		r.Contributions = nil
	}
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSON(w, assessmentDocument{Assessment: r, Sheets: schema.BuildSheets(r)})
	case schema.CSVOut, schema.XLSXOut, schema.ParquetOut:
		if err := writeSheets(w, cfg.Output, r.AssessmentID, schema.BuildSheets(r), cfg.Precision); err != nil {
			return fmt.Errorf("error writing %s output: %w", cfg.Output, err)
		}
		return nil
	default:
		return writeAssessmentText(w, r, cfg)
	}
}

// writeAssessmentText generates and writes the human-readable report.
func writeAssessmentText(w io.Writer, r schema.AssessmentResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)
	highlight := fmt.Sprint
	risk := func(level schema.RiskLevel) string { return string(level) }
	if cfg.UseColors {
		highlight = contract.HighlightColor.SprintFunc()
		risk = contract.GetColorLabel
	}

	name := r.Identifier
	if name == "" {
		name = "(unnamed)"
	}
	if _, err := fmt.Fprintf(w, "✈️  Aerodrome assessment: %s\n", name); err != nil {
		return err
	}
	if r.AssessmentID != "" {
		if _, err := fmt.Fprintf(w, "Assessment ID: %s\n", r.AssessmentID); err != nil {
			return err
		}
	}

	// 1. Questions
	width := GetMaxTextColumnWidth(cfg)
	questions := tablewriter.NewWriter(w)
	questions.Header([]string{"#", "Question", "Selected Answer", "Score"})
	questions.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for i, a := range r.Answers {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(a.Category, width),
			contract.TruncateText(a.Label, width),
			fmt.Sprintf(intFmt, a.Score),
		})
	}
	if err := questions.Bulk(data); err != nil {
		return err
	}
	if err := questions.Render(); err != nil {
		return err
	}

	// 2. Summary lines
	if _, err := fmt.Fprintf(w, "Base score: %d (%s risk)\n", r.BaseScore, risk(r.RiskLevel)); err != nil {
		return err
	}
	ratioNote := ""
	if r.DefaultRatioUsed {
		ratioNote = " (no movements recorded, default ratio)"
	}
	if _, err := fmt.Fprintf(w, "Movements: IFR %s, VFR %s -> ratio IFR %s / VFR %s%s\n",
		formatCell(r.Movements.IFR, fmtFloat, intFmt), formatCell(r.Movements.VFR, fmtFloat, intFmt),
		fmtFloat(r.IFRRatio), fmtFloat(r.VFRRatio), ratioNote); err != nil {
		return err
	}

	// 3. Weighted indices, one row per service level
	indices := tablewriter.NewWriter(w)
	indices.Header([]string{"Aerodrome Type", "IFR Group", "IFR Total", "VFR Group", "VFR Total", "Weighted Index"})
	indices.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	data = nil
	for _, li := range r.Indices {
		ifrTotal, _ := r.TotalFor(schema.IFR, li.IFRGroup)
		vfrTotal, _ := r.TotalFor(schema.VFR, li.VFRGroup)
		level := string(li.Level)
		index := fmt.Sprintf(intFmt, li.Index)
		if li.Level == r.Selected {
			level = highlight("▶ " + level)
			index = highlight(index)
		}
		data = append(data, []string{
			level,
			string(li.IFRGroup),
			fmt.Sprintf(intFmt, ifrTotal),
			string(li.VFRGroup),
			fmt.Sprintf(intFmt, vfrTotal),
			index,
		})
	}
	if err := indices.Bulk(data); err != nil {
		return err
	}
	if err := indices.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Selected aerodrome type: %s, weighted index %d\n", r.Selected, r.SelectedIndex); err != nil {
		return err
	}

	// 4. Optional per-category breakdown
	if cfg.Explain {
		return writeContributionTable(w, r.Contributions, width, fmtFloat, intFmt)
	}
	return nil
}

// writeContributionTable lists every rule that fed a group sub-total.
func writeContributionTable(w io.Writer, contributions []schema.Contribution, width int, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintln(w, "Contributions"); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Question", "Group", "Label Score", "Value", "Percentage"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, c := range contributions {
		if !c.Present {
			continue
		}
		data = append(data, []string{
			contract.TruncateText(c.Category, width),
			string(c.Group),
			fmt.Sprintf(intFmt, c.Score),
			fmtFloat(c.Value),
			fmtFloat(c.Percentage) + "%",
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

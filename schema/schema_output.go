package schema

// Logical sheet names of an exported assessment.
const (
	SummarySheet         = "Summary"
	QuestionsSheet       = "Questions"
	IFRTotalsSheet       = "IFR Totals"
	VFRTotalsSheet       = "VFR Totals"
	WeightedResultsSheet = "Weighted Results"
)

// Column headers of the Summary sheet.
var SummaryColumns = []string{
	"Identifier",
	"Assessment ID",
	"IFR Value",
	"VFR Value",
	"IFR Ratio",
	"VFR Ratio",
	"Base Score",
	"Risk Level",
	"Selected Aerodrome",
	"Selected Index",
}

// Sheet is one table of an exported assessment. Cells hold string, int or float64 values.
type Sheet struct {
	Name   string   `json:"name"`
	Header []string `json:"header"`
	Rows   [][]any  `json:"rows"`
}

// IsBinary reports whether the output mode cannot be written to a terminal.
func (o OutputMode) IsBinary() bool {
	return o == XLSXOut || o == ParquetOut
}

// Extension returns the file extension conventionally used for an output mode.
func (o OutputMode) Extension() string {
	switch o {
	case TextOut:
		return "txt"
	default:
		return string(o)
	}
}

// BuildSheets lays an assessment out as the five export sheets, in export order.
func BuildSheets(r AssessmentResult) []Sheet {
	summary := Sheet{
		Name:   SummarySheet,
		Header: SummaryColumns,
		Rows: [][]any{{
			r.Identifier,
			r.AssessmentID,
			r.Movements.IFR,
			r.Movements.VFR,
			r.IFRRatio,
			r.VFRRatio,
			r.BaseScore,
			string(r.RiskLevel),
			string(r.Selected),
			r.SelectedIndex,
		}},
	}

	questions := Sheet{Name: QuestionsSheet, Header: []string{"Question", "Selected Answer"}}
	for _, a := range r.Answers {
		questions.Rows = append(questions.Rows, []any{a.Category, a.Label})
	}

	ifr := Sheet{Name: IFRTotalsSheet, Header: []string{"IFR Group", "IFR Total"}}
	for _, gt := range r.IFRTotals {
		ifr.Rows = append(ifr.Rows, []any{string(gt.Group), gt.Total})
	}

	vfr := Sheet{Name: VFRTotalsSheet, Header: []string{"VFR Group", "VFR Total"}}
	for _, gt := range r.VFRTotals {
		vfr.Rows = append(vfr.Rows, []any{string(gt.Group), gt.Total})
	}

	weighted := Sheet{Name: WeightedResultsSheet, Header: []string{"Aerodrome Type", "Weighted Index"}}
	for _, li := range r.Indices {
		weighted.Rows = append(weighted.Rows, []any{string(li.Level), li.Index})
	}

	return []Sheet{summary, questions, ifr, vfr, weighted}
}

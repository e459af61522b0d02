package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/aeroindex/aeroindex/internal/parquet"
	"github.com/aeroindex/aeroindex/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/xuri/excelize/v2"
)

// defaultExcelSheet is the worksheet every new excelize workbook starts with.
const defaultExcelSheet = "Sheet1"

// writeSheetsCSV writes each sheet as a CSV block: its name, header and rows.
// Blocks are separated by an empty record.
func writeSheetsCSV(w io.Writer, sheets []schema.Sheet, fmtFloat func(float64) string, intFmt string) error {
	csvWriter := csv.NewWriter(w)
	for i, sh := range sheets {
		if i > 0 {
			if err := csvWriter.Write([]string{}); err != nil {
				return err
			}
		}
		if err := csvWriter.Write([]string{sh.Name}); err != nil {
			return err
		}
		if err := csvWriter.Write(sh.Header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		for _, row := range sh.Rows {
			rec := make([]string, len(row))
			for j, v := range row {
				rec[j] = formatCell(v, fmtFloat, intFmt)
			}
			if err := csvWriter.Write(rec); err != nil {
				return err
			}
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeSheetsXLSX writes one worksheet per sheet into a single workbook.
func writeSheetsXLSX(w io.Writer, sheets []schema.Sheet) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for _, sh := range sheets {
		if _, err := f.NewSheet(sh.Name); err != nil {
			return fmt.Errorf("failed to add worksheet %q: %w", sh.Name, err)
		}
		header := make([]any, len(sh.Header))
		for i, h := range sh.Header {
			header[i] = h
		}
		if err := f.SetSheetRow(sh.Name, "A1", &header); err != nil {
			return fmt.Errorf("failed to write header of %q: %w", sh.Name, err)
		}
		if err := f.SetRowStyle(sh.Name, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style header of %q: %w", sh.Name, err)
		}
		for r, row := range sh.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := append([]any(nil), row...)
			if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d of %q: %w", r+1, sh.Name, err)
			}
		}
		if len(sh.Header) > 0 {
			last, err := excelize.ColumnNumberToName(len(sh.Header))
			if err != nil {
				return err
			}
			if err := f.SetColWidth(sh.Name, "A", last, 22); err != nil {
				return err
			}
		}
	}

	if len(sheets) > 0 {
		if err := f.DeleteSheet(defaultExcelSheet); err != nil {
			return fmt.Errorf("failed to drop default worksheet: %w", err)
		}
		idx, err := f.GetSheetIndex(sheets[0].Name)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeSheetsParquet writes the sheets as flattened Parquet cells.
func writeSheetsParquet(w io.Writer, assessmentID string, sheets []schema.Sheet) error {
	return parquet.WriteSheets(w, assessmentID, sheets)
}

// writeSheetTable renders a single sheet with a title line as a text table.
func writeSheetTable(w io.Writer, sh schema.Sheet, fmtFloat func(float64) string, intFmt string) error {
	if _, err := fmt.Fprintf(w, "%s\n", sh.Name); err != nil {
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header(sh.Header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	var data [][]string
	for _, row := range sh.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = formatCell(v, fmtFloat, intFmt)
		}
		data = append(data, rec)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeSheets dispatches sheet-shaped output on the non-text modes.
func writeSheets(w io.Writer, mode schema.OutputMode, id string, sheets []schema.Sheet, precision int) error {
	fmtFloat, intFmt := createFormatters(precision)
	switch mode {
	case schema.CSVOut:
		return writeSheetsCSV(w, sheets, fmtFloat, intFmt)
	case schema.XLSXOut:
		return writeSheetsXLSX(w, sheets)
	case schema.ParquetOut:
		return writeSheetsParquet(w, id, sheets)
	default:
		for i, sh := range sheets {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if err := writeSheetTable(w, sh, fmtFloat, intFmt); err != nil {
				return err
			}
		}
		return nil
	}
}

// ContentType returns the MIME type of an output mode.
func ContentType(mode schema.OutputMode) string {
	switch mode {
	case schema.CSVOut:
		return "text/csv"
	case schema.JSONOut:
		return "application/json"
	case schema.XLSXOut:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case schema.ParquetOut:
		return "application/vnd.apache.parquet"
	default:
		return "text/plain; charset=utf-8"
	}
}

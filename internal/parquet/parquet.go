// Package parquet exports assessment sheets to Parquet using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"

	"github.com/aeroindex/aeroindex/schema"
	"github.com/parquet-go/parquet-go"
)

// SheetCell is one cell of an exported assessment, flattened so every sheet shares one schema.
// Exactly one of Text and Number is set.
type SheetCell struct {
	// AssessmentID ties the cell to the assessment it was exported from
	AssessmentID string `parquet:"assessment_id,snappy"`

	// Sheet is the logical sheet name, e.g. "Weighted Results"
	Sheet string `parquet:"sheet,snappy,dict"`

	// Row is the zero-based data row within the sheet
	Row int32 `parquet:"row,snappy"`

	// Key is the column header of the cell
	Key string `parquet:"key,snappy,dict"`

	// Text holds string cells (nullable)
	Text *string `parquet:"text,optional,snappy"`

	// Number holds integer and float cells (nullable)
	Number *float64 `parquet:"number,optional,snappy"`
}

// Flatten turns sheets into cells in sheet, row and column order.
func Flatten(assessmentID string, sheets []schema.Sheet) []SheetCell {
	var cells []SheetCell
	for _, sh := range sheets {
		for r, row := range sh.Rows {
			for c, v := range row {
				cell := SheetCell{AssessmentID: assessmentID, Sheet: sh.Name, Row: int32(r)}
				if c < len(sh.Header) {
					cell.Key = sh.Header[c]
				}
				switch x := v.(type) {
				case int:
					n := float64(x)
					cell.Number = &n
				case float64:
					n := x
					cell.Number = &n
				case string:
					s := x
					cell.Text = &s
				default:
					s := fmt.Sprint(x)
					cell.Text = &s
				}
				cells = append(cells, cell)
			}
		}
	}
	return cells
}

// WriteSheets writes the flattened sheets as a single Parquet file to w.
func WriteSheets(w io.Writer, assessmentID string, sheets []schema.Sheet) error {
	writer := parquet.NewGenericWriter[SheetCell](w)
	if _, err := writer.Write(Flatten(assessmentID, sheets)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteSheetsFile writes the flattened sheets to a Parquet file at outputPath.
func WriteSheetsFile(outputPath, assessmentID string, sheets []schema.Sheet) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := WriteSheets(file, assessmentID, sheets); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ReadSheets reads back cells written by WriteSheets.
func ReadSheets(r io.ReaderAt, size int64) ([]SheetCell, error) {
	f, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet data: %w", err)
	}
	reader := parquet.NewGenericReader[SheetCell](f)
	defer func() { _ = reader.Close() }()

	cells := make([]SheetCell, reader.NumRows())
	n, err := reader.Read(cells)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read parquet rows: %w", err)
	}
	return cells[:n], nil
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/models"
)

const csvHeader = "Row\\RPM"

// ExportGrid writes the grid to dir in each requested format ("csv", "xlsx")
func ExportGrid(snap grid.Snapshot, dir string, formats []string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	spinner, _ := pterm.DefaultSpinner.Start("Exporting grid...")

	var failed []string
	for _, format := range formats {
		filename := filepath.Join(dir, "edc15p_grid."+format)
		var err error
		switch format {
		case "csv":
			err = WriteCSVFile(snap, filename)
		case "xlsx":
			err = WriteXLSX(snap, filename)
		default:
			err = fmt.Errorf("unknown format %q", format)
		}
		if err != nil {
			spinner.Warning(fmt.Sprintf("Failed to export %s: %v", format, err))
			failed = append(failed, format)
		}
	}

	if len(failed) > 0 {
		spinner.Fail(fmt.Sprintf("Export incomplete (%s)", strings.Join(failed, ", ")))
		return fmt.Errorf("export failed for %s", strings.Join(failed, ", "))
	}
	spinner.Success(fmt.Sprintf("Grid exported to %s", dir))
	return nil
}

// WriteCSVFile exports the grid as CSV
func WriteCSVFile(snap grid.Snapshot, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteCSV(snap, file)
}

// WriteCSV writes metadata comments, an rpm header and one line per row in
// display order. Absent cells are empty.
func WriteCSV(snap grid.Snapshot, w io.Writer) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"# EDC15P ASZ editing grid"})
	writer.Write([]string{fmt.Sprintf("# Size: %dx%d", len(models.Rows), len(snap.RPM))})
	writer.Write([]string{""})

	header := []string{csvHeader}
	for _, rpm := range snap.RPM {
		header = append(header, strconv.FormatFloat(rpm, 'f', -1, 64))
	}
	writer.Write(header)

	for _, row := range models.Rows {
		record := []string{row.String()}
		for col := range snap.RPM {
			record = append(record, formatValue(row, snap.Get(row, col).Value))
		}
		writer.Write(record)
	}

	writer.Flush()
	return writer.Error()
}

func formatValue(row models.Row, v models.Value) string {
	if !v.Valid {
		return ""
	}
	if row.IsInput() {
		return strconv.FormatFloat(v.Float64, 'f', -1, 64)
	}
	return row.Format(v.Float64)
}

// ReadCSVFile reads a grid CSV and returns the edits that recreate its input
// rows
func ReadCSVFile(filename string) ([]grid.Edit, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file, len(models.Columns))
}

// ReadCSV parses grid CSV text. Only input rows produce edits, in display
// order, every column of each row from left to right so that empty cells
// clear. Computed rows are ignored.
func ReadCSV(r io.Reader, columns int) ([]grid.Edit, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}

	dataStart := -1
	for i, record := range records {
		if len(record) > 0 && record[0] == csvHeader {
			dataStart = i + 1
			if got := len(record) - 1; got != columns {
				return nil, fmt.Errorf("CSV has %d rpm columns, grid has %d", got, columns)
			}
			break
		}
	}
	if dataStart < 0 {
		return nil, fmt.Errorf("invalid CSV format: couldn't find %q header", csvHeader)
	}

	byRow := make(map[models.Row][]string)
	for _, record := range records[dataStart:] {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		row, err := models.ParseRow(record[0])
		if err != nil {
			return nil, err
		}
		byRow[row] = record[1:]
	}

	var edits []grid.Edit
	for _, row := range models.Rows {
		values, ok := byRow[row]
		if !ok || !row.IsInput() {
			continue
		}
		for col := 0; col < columns; col++ {
			text := ""
			if col < len(values) {
				text = values[col]
			}
			edits = append(edits, grid.Edit{Row: row, Col: col, Text: text})
		}
	}
	return edits, nil
}

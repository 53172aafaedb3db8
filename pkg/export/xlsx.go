package export

import (
	"github.com/xuri/excelize/v2"

	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/models"
)

const sheetName = "Grid"

var classFills = map[models.Classification]string{
	models.Normal:      "#C6EFCE",
	models.CautionLow:  "#FFF2CC",
	models.CautionMid:  "#FFEB9C",
	models.CautionHigh: "#F8CBAD",
	models.Danger:      "#FF0000",
	models.Undefined:   "#D9D9D9",
}

// BuildWorkbook renders the grid into a workbook. Computed cells are filled
// with their safety colour.
func BuildWorkbook(snap grid.Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}
	styles := make(map[models.Classification]int, len(classFills))
	for class, colour := range classFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{colour}, Pattern: 1},
		})
		if err != nil {
			return nil, err
		}
		styles[class] = id
	}

	f.SetCellValue(sheetName, "A1", csvHeader)
	for col, rpm := range snap.RPM {
		cell, _ := excelize.CoordinatesToCellName(col+2, 1)
		f.SetCellValue(sheetName, cell, rpm)
	}
	f.SetRowStyle(sheetName, 1, 1, headerStyle)

	for i, row := range models.Rows {
		line := i + 2
		label, _ := excelize.CoordinatesToCellName(1, line)
		f.SetCellValue(sheetName, label, row.String())
		for col := range snap.RPM {
			c := snap.Get(row, col)
			cell, _ := excelize.CoordinatesToCellName(col+2, line)
			if c.Value.Valid {
				f.SetCellValue(sheetName, cell, c.Value.Float64)
			}
			if id, ok := styles[c.Class]; ok {
				f.SetCellStyle(sheetName, cell, cell, id)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	return f, nil
}

// WriteXLSX exports the grid as an Excel workbook
func WriteXLSX(snap grid.Snapshot, filename string) error {
	f, err := BuildWorkbook(snap)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(filename)
}

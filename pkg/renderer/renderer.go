package renderer

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/hints"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/reader"
	"github.com/tosih/edc15p-tool/pkg/table"
)

const cellWidth = 8

// RenderGrid displays the editing grid with safety colours
func RenderGrid(snap grid.Snapshot, title string) {
	pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Println(BuildGridString(snap, true))
}

// BuildGridString renders the grid rows in display order. Cells are coloured
// by their safety band when colour is true.
func BuildGridString(snap grid.Snapshot, colour bool) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("%-8s|", "RPM →"))
	for _, rpm := range snap.RPM {
		result.WriteString(fmt.Sprintf("%*.0f", cellWidth, rpm))
	}
	result.WriteString("\n")
	result.WriteString(strings.Repeat("-", 8) + "+" + strings.Repeat("-", len(snap.RPM)*cellWidth) + "\n")

	for _, row := range models.Rows {
		label := row.String()
		if u := row.Unit(); u != "" {
			label += " " + u
		}
		result.WriteString(fmt.Sprintf("%-8s|", label))
		for col := range snap.RPM {
			cell := snap.Get(row, col)
			text := fmt.Sprintf("%*s", cellWidth, FormatCell(row, cell))
			if colour {
				text = ClassStyle(cell.Class).Sprint(text)
			}
			result.WriteString(text)
		}
		result.WriteString("\n")
	}

	if colour {
		result.WriteString("\n" + Legend())
	}
	return result.String()
}

// FormatCell renders a cell value with its row precision; absent cells are "-"
func FormatCell(row models.Row, cell grid.Cell) string {
	if !cell.Value.Valid {
		return "-"
	}
	if row.IsInput() {
		return fmt.Sprintf("%g", cell.Value.Float64)
	}
	return row.Format(cell.Value.Float64)
}

// ClassStyle returns the display style of a safety band
func ClassStyle(c models.Classification) *pterm.Style {
	switch c {
	case models.Normal:
		return pterm.NewStyle(pterm.FgGreen)
	case models.CautionLow:
		return pterm.NewStyle(pterm.FgLightYellow)
	case models.CautionMid:
		return pterm.NewStyle(pterm.FgYellow)
	case models.CautionHigh:
		return pterm.NewStyle(pterm.FgLightRed)
	case models.Danger:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite, pterm.Bold)
	case models.Undefined:
		return pterm.NewStyle(pterm.FgGray)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// Legend lists the safety band colours
func Legend() string {
	var result strings.Builder
	result.WriteString("Safety: ")
	for _, c := range []models.Classification{models.Normal, models.CautionMid, models.CautionHigh, models.Danger, models.Undefined} {
		result.WriteString(ClassStyle(c).Sprint("■■") + " " + c.String() + "  ")
	}
	return strings.TrimRight(result.String(), " ")
}

// RenderTable displays a calibration table in the given display mode:
// "values", "heatmap" or "symbols".
func RenderTable(t *table.Table, displayMode string) {
	min, max := t.MinMax()
	nx, ny := t.Dims()
	title := fmt.Sprintf("%s | %dx%d | Range: %.2f-%.2f %s", t.Name(), nx, ny, min, max, t.Unit())
	pterm.DefaultBox.WithTitle(title).WithTitleTopLeft().Println(BuildTableString(t, displayMode))
}

// BuildTableString creates a formatted string representation of a table.
// Rows follow the rpm axis, columns the IQ axis.
func BuildTableString(t *table.Table, displayMode string) string {
	var result strings.Builder
	xs, ys := t.XBreakpoints(), t.YBreakpoints()
	data := tableData(t)
	min, max := reader.FindMinMax(data)

	sep := 6
	if displayMode != "values" {
		sep = 4
	}

	result.WriteString("  mg →  |")
	for _, y := range ys {
		if displayMode == "values" {
			result.WriteString(fmt.Sprintf("%6.0f", y))
		} else {
			result.WriteString(fmt.Sprintf("%-4.0f", y))
		}
	}
	result.WriteString("\n")
	result.WriteString("  RPM ↓ |" + strings.Repeat("-", len(ys)*sep) + "\n")

	for i, x := range xs {
		result.WriteString(fmt.Sprintf("%7.0f |", x))
		for _, value := range data[i] {
			switch displayMode {
			case "values":
				result.WriteString(getColorStyle(value, min, max).Sprintf("%6.2f", value))
			case "heatmap":
				result.WriteString(getHeatmapBlock(value, min, max))
			default:
				symbol := getSymbolForValue(value, min, max)
				result.WriteString(symbol + symbol + symbol + symbol)
			}
		}
		result.WriteString("\n")
	}

	if displayMode == "heatmap" {
		result.WriteString("\n" + getHeatmapLegend())
	} else if displayMode == "symbols" {
		result.WriteString("\nLegend: ")
		result.WriteString(pterm.FgCyan.Sprint("░") + " Low  ")
		result.WriteString(pterm.FgGreen.Sprint("▒") + " Med  ")
		result.WriteString(pterm.FgYellow.Sprint("▓") + " High  ")
		result.WriteString(pterm.FgRed.Sprint("█") + " Max")
	}

	return result.String()
}

func tableData(t *table.Table) [][]float64 {
	nx, ny := t.Dims()
	data := make([][]float64, nx)
	for i := range data {
		data[i] = make([]float64, ny)
		for j := range data[i] {
			data[i][j] = t.Cell(i, j)
		}
	}
	return data
}

func getHeatmapBlock(value, min, max float64) string {
	if max == min {
		return pterm.BgGray.Sprint("  ")
	}

	normalized := (value - min) / (max - min)

	switch {
	case normalized < 0.2:
		return pterm.NewStyle(pterm.BgBlue, pterm.FgWhite).Sprint("▄▄")
	case normalized < 0.4:
		return pterm.NewStyle(pterm.BgCyan, pterm.FgBlack).Sprint("▄▄")
	case normalized < 0.6:
		return pterm.NewStyle(pterm.BgGreen, pterm.FgBlack).Sprint("▄▄")
	case normalized < 0.8:
		return pterm.NewStyle(pterm.BgYellow, pterm.FgBlack).Sprint("▄▄")
	default:
		return pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Sprint("▄▄")
	}
}

func getHeatmapLegend() string {
	var result strings.Builder
	result.WriteString("Heatmap: ")
	result.WriteString(pterm.NewStyle(pterm.BgBlue, pterm.FgWhite).Sprint("▄▄") + " Very Low  ")
	result.WriteString(pterm.NewStyle(pterm.BgCyan, pterm.FgBlack).Sprint("▄▄") + " Low  ")
	result.WriteString(pterm.NewStyle(pterm.BgGreen, pterm.FgBlack).Sprint("▄▄") + " Medium  ")
	result.WriteString(pterm.NewStyle(pterm.BgYellow, pterm.FgBlack).Sprint("▄▄") + " High  ")
	result.WriteString(pterm.NewStyle(pterm.BgRed, pterm.FgWhite).Sprint("▄▄") + " Very High")
	return result.String()
}

func getSymbolForValue(value, min, max float64) string {
	if max == min {
		return pterm.FgGray.Sprint("·")
	}

	normalized := (value - min) / (max - min)

	switch {
	case normalized < 0.25:
		return pterm.FgCyan.Sprint("░")
	case normalized < 0.5:
		return pterm.FgGreen.Sprint("▒")
	case normalized < 0.75:
		return pterm.FgYellow.Sprint("▓")
	default:
		return pterm.FgRed.Sprint("█")
	}
}

func getColorStyle(value, min, max float64) *pterm.Style {
	if max == min {
		return pterm.NewStyle(pterm.FgGray)
	}

	normalized := (value - min) / (max - min)

	switch {
	case normalized < 0.25:
		return pterm.NewStyle(pterm.FgCyan)
	case normalized < 0.5:
		return pterm.NewStyle(pterm.FgGreen)
	case normalized < 0.75:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgRed)
	}
}

// ListTables displays the bound calibration tables
func ListTables(set *table.Set) {
	pterm.DefaultHeader.WithFullWidth().Println("Calibration Tables")

	data := [][]string{
		{"Name", "Size", "RPM range", "IQ range", "Unit", "Values"},
	}

	for _, t := range set.All() {
		nx, ny := t.Dims()
		xs, ys := t.XBreakpoints(), t.YBreakpoints()
		min, max := t.MinMax()
		data = append(data, []string{
			t.Name(),
			fmt.Sprintf("%dx%d", nx, ny),
			fmt.Sprintf("%g-%g", xs[0], xs[len(xs)-1]),
			fmt.Sprintf("%g-%g mg", ys[0], ys[len(ys)-1]),
			t.Unit(),
			fmt.Sprintf("%.2f-%.2f", min, max),
		})
	}

	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderRPMHints displays the timing hints of every grid column
func RenderRPMHints(rpms []float64) {
	data := [][]string{
		{"RPM", "ms/rev", "ms/°CA", "EOI max °ATDC", "TI max ms"},
	}
	for _, rpm := range rpms {
		h, ok := hints.ForRPM(rpm)
		if !ok {
			continue
		}
		data = append(data, []string{
			fmt.Sprintf("%.0f", rpm),
			fmt.Sprintf("%.2f", h.MsPerRev),
			fmt.Sprintf("%.4f", h.MsPerDeg),
			fmt.Sprintf("%.2f", h.EOIMax),
			fmt.Sprintf("%.2f", h.TIMaxMs),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// RenderIQHint displays the volume and real mass of an IQ request
func RenderIQHint(iq float64) {
	pterm.DefaultBox.WithTitle("IQ").WithTitleTopLeft().Println(hints.ForIQ(iq).String())
}

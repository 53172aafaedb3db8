package compare

import (
	"fmt"
	"math"
	"strings"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/models"
)

// RowDiff summarises the differences of one grid row
type RowDiff struct {
	Row      models.Row
	Diff     []float64
	Changed  int
	Appeared int
	Vanished int
	MaxUp    float64
	MaxDown  float64
	Total    float64
}

// Average returns the mean change of the changed cells
func (d RowDiff) Average() float64 {
	if d.Changed == 0 {
		return 0
	}
	return d.Total / float64(d.Changed)
}

// Snapshots compares every row of b against a. Both snapshots must have the
// same columns. Cells present on one side only count as appeared/vanished
// and diff as 0.
func Snapshots(a, b grid.Snapshot) ([]RowDiff, error) {
	if len(a.RPM) != len(b.RPM) {
		return nil, fmt.Errorf("grids have %d and %d columns", len(a.RPM), len(b.RPM))
	}

	var out []RowDiff
	for _, row := range models.Rows {
		d := RowDiff{Row: row, Diff: make([]float64, len(a.RPM))}
		for col := range a.RPM {
			va, vb := a.Get(row, col).Value, b.Get(row, col).Value
			switch {
			case va.Valid && vb.Valid:
				delta := vb.Float64 - va.Float64
				if delta == 0 {
					continue
				}
				d.Diff[col] = delta
				d.Changed++
				d.Total += delta
				d.MaxUp = math.Max(d.MaxUp, delta)
				d.MaxDown = math.Min(d.MaxDown, delta)
			case vb.Valid:
				d.Appeared++
			case va.Valid:
				d.Vanished++
			}
		}
		out = append(out, d)
	}
	return out, nil
}

// Display prints the comparison statistics and a difference map
func Display(diffs []RowDiff, rpms []float64) {
	pterm.DefaultHeader.WithFullWidth().Println("Grid Comparison")

	data := [][]string{
		{"Row", "Changed", "Appeared", "Vanished", "Avg", "Max +", "Max -"},
	}
	for _, d := range diffs {
		data = append(data, []string{
			d.Row.String(),
			fmt.Sprintf("%d / %d", d.Changed, len(d.Diff)),
			fmt.Sprintf("%d", d.Appeared),
			fmt.Sprintf("%d", d.Vanished),
			fmt.Sprintf("%.2f %s", d.Average(), d.Row.Unit()),
			fmt.Sprintf("%.2f", d.MaxUp),
			fmt.Sprintf("%.2f", d.MaxDown),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	pterm.Println("\nDifference Map (second - first):")
	pterm.DefaultBox.Println(visualizeDifferences(diffs, rpms))
}

func visualizeDifferences(diffs []RowDiff, rpms []float64) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("%-8s|", "RPM →"))
	for _, rpm := range rpms {
		result.WriteString(fmt.Sprintf("%-6.0f", rpm))
	}
	result.WriteString("\n")
	result.WriteString(strings.Repeat("-", 8) + "+" + strings.Repeat("-", len(rpms)*6) + "\n")

	for _, d := range diffs {
		// scale per row, units differ
		maxAbs := math.Max(d.MaxUp, -d.MaxDown)
		result.WriteString(fmt.Sprintf("%-8s|", d.Row.String()))
		for _, val := range d.Diff {
			result.WriteString(getDiffSymbol(val, maxAbs) + "   ")
		}
		result.WriteString("\n")
	}

	result.WriteString("\nLegend: ")
	result.WriteString(pterm.FgBlue.Sprint("▼▼") + " Large Decrease  ")
	result.WriteString(pterm.FgCyan.Sprint("▼ ") + " Small Decrease  ")
	result.WriteString(pterm.FgGray.Sprint("··") + " No Change  ")
	result.WriteString(pterm.FgYellow.Sprint("▲ ") + " Small Increase  ")
	result.WriteString(pterm.FgRed.Sprint("▲▲") + " Large Increase")
	return result.String()
}

func getDiffSymbol(val, maxAbs float64) string {
	if val == 0 {
		return pterm.FgGray.Sprint("··")
	}

	normalized := val / maxAbs

	if normalized < -0.5 {
		return pterm.FgBlue.Sprint("▼▼")
	} else if normalized < -0.1 {
		return pterm.FgCyan.Sprint("▼ ")
	} else if normalized > 0.5 {
		return pterm.FgRed.Sprint("▲▲")
	} else if normalized > 0.1 {
		return pterm.FgYellow.Sprint("▲ ")
	}

	return pterm.FgGray.Sprint("· ")
}

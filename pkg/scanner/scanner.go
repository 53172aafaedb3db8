package scanner

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/table"
)

// TableStats holds statistics about a calibration table
type TableStats struct {
	Name     string
	Unit     string
	Rows     int
	Cols     int
	Min      float64
	Max      float64
	Mean     float64
	Variance float64
	// Reversals counts direction changes along the IQ axis, summed over
	// all rpm rows. Smooth maps have few.
	Reversals int
	Preview   string
}

// BandCount is the number of cells of a row in each safety band
type BandCount struct {
	Row    models.Row
	Counts map[models.Classification]int
}

// ScanTable computes the statistics of t
func ScanTable(t *table.Table) TableStats {
	rows, cols := t.Dims()
	values := make([]float64, 0, rows*cols)
	reversals := 0
	for i := 0; i < rows; i++ {
		prevSign := 0
		for j := 0; j < cols; j++ {
			values = append(values, t.Cell(i, j))
			if j == 0 {
				continue
			}
			sign := 0
			switch d := t.Cell(i, j) - t.Cell(i, j-1); {
			case d > 0:
				sign = 1
			case d < 0:
				sign = -1
			}
			if sign != 0 && prevSign != 0 && sign != prevSign {
				reversals++
			}
			if sign != 0 {
				prevSign = sign
			}
		}
	}

	min, max, mean, variance := calculateStats(values)

	preview := ""
	for j := 0; j < 6 && j < cols; j++ {
		preview += fmt.Sprintf("%.2f ", t.Cell(0, j))
	}

	return TableStats{
		Name:      t.Name(),
		Unit:      t.Unit(),
		Rows:      rows,
		Cols:      cols,
		Min:       min,
		Max:       max,
		Mean:      mean,
		Variance:  variance,
		Reversals: reversals,
		Preview:   preview + "...",
	}
}

// ScanGrid counts the safety bands of the classified rows
func ScanGrid(snap grid.Snapshot) []BandCount {
	var out []BandCount
	for _, row := range []models.Row{models.ATDC, models.TIms} {
		bc := BandCount{Row: row, Counts: make(map[models.Classification]int)}
		for col := range snap.RPM {
			if c := snap.Get(row, col).Class; c != models.Unclassified {
				bc.Counts[c]++
			}
		}
		out = append(out, bc)
	}
	return out
}

func calculateStats(values []float64) (float64, float64, float64, float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	min := values[0]
	max := values[0]
	sum := 0.0

	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	avg := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		diff := v - avg
		variance += diff * diff
	}
	variance /= float64(len(values))

	return min, max, avg, variance
}

// ScanTables prints the statistics of every bound table
func ScanTables(set *table.Set) {
	spinner, _ := pterm.DefaultSpinner.Start("Scanning calibration tables...")

	var results []TableStats
	for _, t := range set.All() {
		results = append(results, ScanTable(t))
	}

	spinner.Success(fmt.Sprintf("Scanned %d tables", len(results)))
	pterm.Println()
	pterm.DefaultSection.Println("Calibration Table Statistics")

	tableData := pterm.TableData{
		{"Table", "Size", "Min", "Max", "Mean", "Variance", "Reversals", "Preview"},
	}
	for _, r := range results {
		tableData = append(tableData, []string{
			r.Name,
			fmt.Sprintf("%dx%d", r.Rows, r.Cols),
			fmt.Sprintf("%.2f %s", r.Min, r.Unit),
			fmt.Sprintf("%.2f %s", r.Max, r.Unit),
			fmt.Sprintf("%.2f", r.Mean),
			fmt.Sprintf("%.1f", r.Variance),
			fmt.Sprintf("%d", r.Reversals),
			r.Preview,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

// DisplayBands prints the safety band counts of the grid
func DisplayBands(counts []BandCount) {
	pterm.DefaultSection.Println("Safety Bands")

	bands := []models.Classification{models.Normal, models.CautionMid, models.CautionHigh, models.Danger, models.Undefined}
	header := []string{"Row"}
	for _, b := range bands {
		header = append(header, b.String())
	}
	tableData := pterm.TableData{header}
	danger := 0
	for _, bc := range counts {
		line := []string{bc.Row.String()}
		for _, b := range bands {
			line = append(line, fmt.Sprintf("%d", bc.Counts[b]))
		}
		danger += bc.Counts[models.Danger]
		tableData = append(tableData, line)
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()

	if danger > 0 {
		pterm.Warning.Printf("%d cell(s) beyond the advised limits\n", danger)
	}
}

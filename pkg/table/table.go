// Package table implements immutable calibration tables with non-uniform
// breakpoint axes and clamped bilinear lookup.
package table

import (
	"fmt"
	"math"
	"sort"

	"github.com/tosih/edc15p-tool/pkg/interp"
	"github.com/tosih/edc15p-tool/pkg/models"
)

// ConfigurationError reports static calibration data that cannot form a table
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("table %s: %s", e.Table, e.Reason)
}

// Table is a 2D lookup grid. cells[i][j] is the value at (xs[i], ys[j]).
type Table struct {
	name  string
	unit  string
	xs    []float64
	ys    []float64
	cells [][]float64
}

// New validates the axes and cells and builds a table. The slices are copied.
func New(name string, xs, ys []float64, cells [][]float64) (*Table, error) {
	if err := checkAxis(name, "x", xs); err != nil {
		return nil, err
	}
	if err := checkAxis(name, "y", ys); err != nil {
		return nil, err
	}
	if len(cells) != len(xs) {
		return nil, &ConfigurationError{Table: name, Reason: fmt.Sprintf("%d rows for %d x breakpoints", len(cells), len(xs))}
	}

	t := &Table{
		name:  name,
		xs:    append([]float64(nil), xs...),
		ys:    append([]float64(nil), ys...),
		cells: make([][]float64, len(cells)),
	}
	for i, row := range cells {
		if len(row) != len(ys) {
			return nil, &ConfigurationError{Table: name, Reason: fmt.Sprintf("row %d has %d cells for %d y breakpoints", i, len(row), len(ys))}
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ConfigurationError{Table: name, Reason: fmt.Sprintf("cell [%d][%d] is not finite", i, j)}
			}
		}
		t.cells[i] = append([]float64(nil), row...)
	}
	return t, nil
}

// FromConfig builds a table from its static definition
func FromConfig(cfg models.TableConfig) (*Table, error) {
	t, err := New(cfg.Name, cfg.RPM, cfg.MG, cfg.Data)
	if err != nil {
		return nil, err
	}
	t.unit = cfg.Unit
	return t, nil
}

func checkAxis(name, axis string, bp []float64) error {
	if len(bp) < 2 {
		return &ConfigurationError{Table: name, Reason: fmt.Sprintf("%s axis needs at least 2 breakpoints, got %d", axis, len(bp))}
	}
	for i, v := range bp {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigurationError{Table: name, Reason: fmt.Sprintf("%s breakpoint %d is not finite", axis, i)}
		}
		if i > 0 && v <= bp[i-1] {
			return &ConfigurationError{Table: name, Reason: fmt.Sprintf("%s axis not strictly increasing at index %d (%g after %g)", axis, i, v, bp[i-1])}
		}
	}
	return nil
}

// Name returns the table name
func (t *Table) Name() string { return t.name }

// Unit returns the unit of the cell values
func (t *Table) Unit() string { return t.unit }

// XBreakpoints returns a copy of the x axis
func (t *Table) XBreakpoints() []float64 { return append([]float64(nil), t.xs...) }

// YBreakpoints returns a copy of the y axis
func (t *Table) YBreakpoints() []float64 { return append([]float64(nil), t.ys...) }

// Cell returns the stored value at breakpoint indices (i, j)
func (t *Table) Cell(i, j int) float64 { return t.cells[i][j] }

// Dims returns the number of x and y breakpoints
func (t *Table) Dims() (int, int) { return len(t.xs), len(t.ys) }

// Clamp saturates (x, y) to the table domain
func (t *Table) Clamp(x, y float64) (float64, float64) {
	return interp.Clamp(x, t.xs[0], t.xs[len(t.xs)-1]),
		interp.Clamp(y, t.ys[0], t.ys[len(t.ys)-1])
}

// Interval returns the lower breakpoint indices of the cell enclosing the
// clamped (x, y). A value sitting on a breakpoint selects the lower interval.
func (t *Table) Interval(x, y float64) (int, int) {
	cx, cy := t.Clamp(x, y)
	return searchInterval(t.xs, cx), searchInterval(t.ys, cy)
}

// searchInterval finds the smallest i with axis[i] <= v <= axis[i+1].
// v must already be clamped to the axis range.
func searchInterval(axis []float64, v float64) int {
	k := sort.SearchFloat64s(axis, v)
	i := k - 1
	if i < 0 {
		i = 0
	}
	if i > len(axis)-2 {
		i = len(axis) - 2
	}
	return i
}

// Query returns the bilinear estimate at (x, y). Out-of-range coordinates
// saturate to the nearest edge. A NaN coordinate yields NaN.
func (t *Table) Query(x, y float64) float64 {
	cx, cy := t.Clamp(x, y)
	i, j := searchInterval(t.xs, cx), searchInterval(t.ys, cy)
	v, err := interp.Bilinear(cx, cy,
		t.xs[i], t.xs[i+1], t.ys[j], t.ys[j+1],
		t.cells[i][j], t.cells[i+1][j], t.cells[i][j+1], t.cells[i+1][j+1])
	if err != nil {
		// unreachable for tables built by New
		return math.NaN()
	}
	return v
}

// MinMax returns the smallest and largest cell values
func (t *Table) MinMax() (float64, float64) {
	lo, hi := t.cells[0][0], t.cells[0][0]
	for _, row := range t.cells {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// Package derive recomputes the dependent rows of a grid column after an
// edit. The dependency graph is static and visited in a fixed topological
// order, so a cascade is deterministic and idempotent.
package derive

import (
	"math"

	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/table"
)

// Column holds the cells of one grid column, indexed by models.Row
type Column struct {
	Values  [models.RowCount]models.Value
	Classes [models.RowCount]models.Classification
}

// Change is one recomputed cell of a column
type Change struct {
	Row   models.Row
	Value models.Value
	Class models.Classification
}

type evalFunc func(g *Graph, rpm float64, c *Column) (float64, bool)

type ratioFunc func(rpm, v float64) float64

type node struct {
	row   models.Row
	deps  []models.Row
	eval  evalFunc
	ratio ratioFunc
}

// nodes is the recomputation order: IQ → {Boost,SOI,TIdeg} → {ATDC,TIms} → {AFR,N75}
var nodes = []node{
	{row: models.Boost, deps: []models.Row{models.IQ}, eval: lookup(func(s *table.Set) *table.Table { return s.Boost })},
	{row: models.SOI, deps: []models.Row{models.IQ}, eval: lookup(func(s *table.Set) *table.Table { return s.SOI })},
	{row: models.TIdeg, deps: []models.Row{models.IQ}, eval: lookup(func(s *table.Set) *table.Table { return s.TI })},
	{row: models.ATDC, deps: []models.Row{models.SOI, models.TIdeg}, eval: evalATDC, ratio: func(rpm, v float64) float64 { return v / MaxATDC(rpm) }},
	{row: models.TIms, deps: []models.Row{models.TIdeg}, eval: evalTIms, ratio: func(rpm, v float64) float64 { return v / MaxTIms(rpm) }},
	{row: models.AFR, deps: []models.Row{models.IQ, models.Boost}, eval: evalAFR},
	{row: models.N75, deps: []models.Row{models.IQ}, eval: lookup(func(s *table.Set) *table.Table { return s.N75 })},
}

// Graph evaluates the dependency graph against the calibration tables
type Graph struct {
	tables  *table.Set
	engine  models.Engine
	columns []float64
}

// NewGraph creates a graph over the given tables, engine constants and
// column operating points.
func NewGraph(tables *table.Set, engine models.Engine, columns []float64) *Graph {
	return &Graph{
		tables:  tables,
		engine:  engine,
		columns: append([]float64(nil), columns...),
	}
}

// Columns returns the number of grid columns
func (g *Graph) Columns() int { return len(g.columns) }

// RPM returns the engine speed of column col
func (g *Graph) RPM(col int) float64 { return g.columns[col] }

// Engine returns the engine constants
func (g *Graph) Engine() models.Engine { return g.engine }

// Tables returns the bound calibration tables
func (g *Graph) Tables() *table.Set { return g.tables }

// Cascade recomputes every cell of c reachable from the changed row, in
// topological order, and returns the recomputed cells in that order.
// c must already hold the new value of changed.
func (g *Graph) Cascade(col int, changed models.Row, c *Column) []Change {
	var dirty [models.RowCount]bool
	dirty[changed] = true
	return g.visit(col, c, func(n node) bool {
		for _, d := range n.deps {
			if dirty[d] {
				dirty[n.row] = true
				return true
			}
		}
		return false
	})
}

// Refresh recomputes the read-only rows of c from its input rows
func (g *Graph) Refresh(col int, c *Column) []Change {
	return g.visit(col, c, func(n node) bool {
		return !n.row.IsInput()
	})
}

func (g *Graph) visit(col int, c *Column, want func(node) bool) []Change {
	rpm := g.columns[col]
	var out []Change
	for _, n := range nodes {
		if !want(n) {
			continue
		}
		ch := g.apply(n, rpm, c)
		c.Values[n.row] = ch.Value
		c.Classes[n.row] = ch.Class
		out = append(out, ch)
	}
	return out
}

func (g *Graph) apply(n node, rpm float64, c *Column) Change {
	ch := Change{Row: n.row}
	v, ok := n.eval(g, rpm, c)
	if !ok {
		return ch
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		ch.Class = models.Undefined
		return ch
	}
	ch.Value = models.Some(n.row.Round(v))
	if n.ratio != nil {
		ch.Class = Classify(n.ratio(rpm, v))
	}
	return ch
}

func lookup(pick func(*table.Set) *table.Table) evalFunc {
	return func(g *Graph, rpm float64, c *Column) (float64, bool) {
		iq := c.Values[models.IQ]
		if !iq.Valid || iq.Float64 == 0 {
			return 0, false
		}
		return pick(g.tables).Query(rpm, iq.Float64), true
	}
}

func evalATDC(_ *Graph, _ float64, c *Column) (float64, bool) {
	soi, ti := c.Values[models.SOI], c.Values[models.TIdeg]
	if !soi.Valid || !ti.Valid {
		return 0, false
	}
	return ATDC(soi.Float64, ti.Float64), true
}

func evalTIms(_ *Graph, rpm float64, c *Column) (float64, bool) {
	ti := c.Values[models.TIdeg]
	if !ti.Valid {
		return 0, false
	}
	return TIms(ti.Float64, rpm), true
}

func evalAFR(g *Graph, _ float64, c *Column) (float64, bool) {
	iq, boost := c.Values[models.IQ], c.Values[models.Boost]
	if !iq.Valid || !boost.Valid {
		return 0, false
	}
	return AFR(g.engine, boost.Float64, iq.Float64)
}

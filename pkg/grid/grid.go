// Package grid owns the row × column matrix of the editor. Every mutation
// goes through the model: it stores the edit, runs the dependency cascade,
// persists each touched cell and then notifies subscribers once the column
// has settled.
//
// A Model is not safe for concurrent use; callers serialise access.
package grid

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/tosih/edc15p-tool/pkg/derive"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/store"
)

var (
	// ErrReadOnlyRow is returned when editing a computed row
	ErrReadOnlyRow = errors.New("grid: row is read-only")
	// ErrUnknownColumn is returned for a column index outside the grid
	ErrUnknownColumn = errors.New("grid: unknown column")
	// ErrUnknownRow is returned for a row outside models.Rows
	ErrUnknownRow = errors.New("grid: unknown row")
)

// Cell is the value and safety band of one grid position
type Cell struct {
	Value models.Value
	Class models.Classification
}

// Notification reports a cell that changed during a mutation
type Notification struct {
	Row   models.Row
	Col   int
	Value models.Value
	Class models.Classification
}

// Edit is one textual single-cell edit of a bulk operation
type Edit struct {
	Row  models.Row
	Col  int
	Text string
}

// Scope selects how much Reset clears
type Scope int

const (
	// ScopeValues clears every cell and the persisted state
	ScopeValues Scope = iota
	// ScopeFull clears everything, then replays the IQ line
	ScopeFull
)

// Options configures a Model
type Options struct {
	Logger *pterm.Logger
}

type subscriber struct {
	id int
	fn func(Notification)
}

// Model is the grid state bound to a dependency graph and a store
type Model struct {
	graph  *derive.Graph
	store  store.Store
	logger *pterm.Logger
	cols   []derive.Column
	subs   []subscriber
	nextID int
}

// New creates an empty model. Call Load to seed it from the store.
func New(graph *derive.Graph, st store.Store, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
	}
	return &Model{
		graph:  graph,
		store:  st,
		logger: logger,
		cols:   make([]derive.Column, graph.Columns()),
	}
}

// Columns returns the number of grid columns
func (m *Model) Columns() int { return len(m.cols) }

// RPM returns the engine speed of column col
func (m *Model) RPM(col int) float64 { return m.graph.RPM(col) }

// Graph returns the dependency graph the model evaluates
func (m *Model) Graph() *derive.Graph { return m.graph }

// Subscribe registers fn for change notifications. The returned function
// removes the subscription.
func (m *Model) Subscribe(fn func(Notification)) func() {
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

// Load replaces the grid with the persisted input cells and recomputes every
// derived cell from them. Stored derived values are not trusted. Load does
// not notify subscribers.
func (m *Model) Load() error {
	keys, err := m.store.Keys()
	if err != nil {
		return fmt.Errorf("grid: list stored cells: %w", err)
	}

	m.cols = make([]derive.Column, m.graph.Columns())
	seeded := 0
	for _, key := range keys {
		row, col, err := store.ParseKey(key)
		if err != nil {
			m.logger.Warn("skipping stored cell", m.logger.Args("key", key, "error", err))
			continue
		}
		if !row.IsInput() || col >= len(m.cols) {
			continue
		}
		text, ok, err := m.store.LoadCell(key)
		if err != nil {
			return fmt.Errorf("grid: load %s: %w", key, err)
		}
		if !ok {
			continue
		}
		m.cols[col].Values[row] = models.ParseNumber(text)
		seeded++
	}

	for col := range m.cols {
		changes := m.graph.Refresh(col, &m.cols[col])
		if err := m.persistChanges(col, changes); err != nil {
			return err
		}
	}
	m.logger.Debug("grid loaded", m.logger.Args("keys", len(keys), "inputs", seeded))
	return nil
}

// SetCell parses text into the input cell (row, col) and cascades. Text that
// does not parse as a number clears the cell.
func (m *Model) SetCell(row models.Row, col int, text string) error {
	if err := m.check(row, col); err != nil {
		return err
	}
	if !row.IsInput() {
		return fmt.Errorf("%w: %s", ErrReadOnlyRow, row)
	}

	c := &m.cols[col]
	before := *c
	v := models.ParseNumber(text)
	c.Values[row] = v
	c.Classes[row] = models.Unclassified

	changes := append([]derive.Change{{Row: row, Value: v}}, m.graph.Cascade(col, row, c)...)
	if err := m.persistChanges(col, changes); err != nil {
		return err
	}
	m.logger.Trace("cell set", m.logger.Args("row", row.String(), "col", col, "text", text, "cascade", len(changes)-1))

	m.notify(col, &before, changes)
	return nil
}

// GetCell returns the cell at (row, col)
func (m *Model) GetCell(row models.Row, col int) (Cell, error) {
	if err := m.check(row, col); err != nil {
		return Cell{}, err
	}
	c := &m.cols[col]
	return Cell{Value: c.Values[row], Class: c.Classes[row]}, nil
}

// Color returns the safety band of (row, col); invalid positions are
// Unclassified.
func (m *Model) Color(row models.Row, col int) models.Classification {
	cell, err := m.GetCell(row, col)
	if err != nil {
		return models.Unclassified
	}
	return cell.Class
}

// ApplyBulk applies edits strictly in order, each as a full single-cell edit.
// Edits aimed at read-only rows or outside the grid are skipped. It returns
// the number of edits applied.
func (m *Model) ApplyBulk(edits []Edit) (int, error) {
	applied := 0
	for _, e := range edits {
		err := m.SetCell(e.Row, e.Col, e.Text)
		switch {
		case err == nil:
			applied++
		case errors.Is(err, ErrReadOnlyRow), errors.Is(err, ErrUnknownColumn), errors.Is(err, ErrUnknownRow):
			m.logger.Debug("bulk edit skipped", m.logger.Args("row", e.Row.String(), "col", e.Col, "error", err))
		default:
			return applied, err
		}
	}
	return applied, nil
}

// Reset clears the grid and the store. ScopeFull then replays the IQ line
// that was present before the reset.
func (m *Model) Reset(scope Scope) error {
	var iq []models.Value
	if scope == ScopeFull {
		iq = make([]models.Value, len(m.cols))
		for col := range m.cols {
			iq[col] = m.cols[col].Values[models.IQ]
		}
	}

	old := m.cols
	m.cols = make([]derive.Column, len(old))
	if err := store.Clear(m.store); err != nil {
		return fmt.Errorf("grid: clear store: %w", err)
	}
	for col := range old {
		var cleared []derive.Change
		for _, row := range models.Rows {
			cleared = append(cleared, derive.Change{Row: row})
		}
		m.notify(col, &old[col], cleared)
	}

	for col, v := range iq {
		if !v.Valid {
			continue
		}
		if err := m.SetCell(models.IQ, col, strconv.FormatFloat(v.Float64, 'f', -1, 64)); err != nil {
			return err
		}
	}
	m.logger.Info("grid reset", m.logger.Args("full", scope == ScopeFull))
	return nil
}

// RecomputeAll refreshes every derived cell from the current inputs and
// returns how many cells changed.
func (m *Model) RecomputeAll() (int, error) {
	changed := 0
	for col := range m.cols {
		before := m.cols[col]
		changes := m.graph.Refresh(col, &m.cols[col])
		if err := m.persistChanges(col, changes); err != nil {
			return changed, err
		}
		changed += m.notify(col, &before, changes)
	}
	return changed, nil
}

func (m *Model) check(row models.Row, col int) error {
	if row < 0 || int(row) >= models.RowCount {
		return fmt.Errorf("%w: %d", ErrUnknownRow, int(row))
	}
	if col < 0 || col >= len(m.cols) {
		return fmt.Errorf("%w: %d", ErrUnknownColumn, col)
	}
	return nil
}

func (m *Model) persistChanges(col int, changes []derive.Change) error {
	for _, ch := range changes {
		key := store.Key(ch.Row, col)
		var err error
		if ch.Value.Valid {
			err = m.store.SaveCell(key, encode(ch.Row, ch.Value.Float64))
		} else {
			err = m.store.DeleteCell(key)
		}
		if err != nil {
			return fmt.Errorf("grid: persist %s: %w", key, err)
		}
	}
	return nil
}

// encode renders a cell for the store. Inputs keep the full value the user
// typed, computed rows their display precision.
func encode(row models.Row, v float64) string {
	if row.IsInput() {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return row.Format(v)
}

// notify delivers the changes that differ from before, in cascade order.
func (m *Model) notify(col int, before *derive.Column, changes []derive.Change) int {
	var batch []Notification
	for _, ch := range changes {
		if before.Values[ch.Row] == ch.Value && before.Classes[ch.Row] == ch.Class {
			continue
		}
		batch = append(batch, Notification{Row: ch.Row, Col: col, Value: ch.Value, Class: ch.Class})
	}
	subs := append([]subscriber(nil), m.subs...)
	for _, n := range batch {
		for _, s := range subs {
			s.fn(n)
		}
	}
	return len(batch)
}

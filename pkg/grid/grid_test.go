package grid

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/edc15p-tool/pkg/derive"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/store"
	"github.com/tosih/edc15p-tool/pkg/table"
)

func newGraph(t *testing.T) *derive.Graph {
	t.Helper()
	set, err := table.DefaultSet()
	require.NoError(t, err)
	return derive.NewGraph(set, models.ASZ, models.Columns)
}

func newModel(t *testing.T, st store.Store) *Model {
	t.Helper()
	m := New(newGraph(t), st, Options{})
	require.NoError(t, m.Load())
	return m
}

func col2000(t *testing.T, m *Model) int {
	t.Helper()
	for c := 0; c < m.Columns(); c++ {
		if m.RPM(c) == 2000 {
			return c
		}
	}
	t.Fatal("no 2000 rpm column")
	return -1
}

func TestSetCellCascadesAndNotifies(t *testing.T) {
	m := newModel(t, store.NewMemory())
	col := col2000(t, m)

	var got []Notification
	unsubscribe := m.Subscribe(func(n Notification) { got = append(got, n) })

	require.NoError(t, m.SetCell(models.IQ, col, "40"))
	require.Len(t, got, 8)
	assert.Equal(t, models.IQ, got[0].Row)
	assert.Equal(t, models.Boost, got[1].Row)
	assert.Equal(t, models.N75, got[7].Row)
	for _, n := range got {
		assert.Equal(t, col, n.Col)
		cell, err := m.GetCell(n.Row, col)
		require.NoError(t, err)
		assert.Equal(t, cell.Value, n.Value, "notification for %s carries the settled value", n.Row)
	}

	got = nil
	require.NoError(t, m.SetCell(models.IQ, col, "40"))
	assert.Empty(t, got, "re-entering the same value changes nothing")

	unsubscribe()
	require.NoError(t, m.SetCell(models.IQ, col, "41"))
	assert.Empty(t, got)
}

func TestSetCellRejections(t *testing.T) {
	m := newModel(t, store.NewMemory())

	for _, row := range []models.Row{models.AFR, models.ATDC, models.TIms, models.N75} {
		err := m.SetCell(row, 0, "1")
		assert.ErrorIs(t, err, ErrReadOnlyRow, "row %s", row)
	}
	assert.ErrorIs(t, m.SetCell(models.IQ, -1, "1"), ErrUnknownColumn)
	assert.ErrorIs(t, m.SetCell(models.IQ, m.Columns(), "1"), ErrUnknownColumn)
	assert.ErrorIs(t, m.SetCell(models.Row(42), 0, "1"), ErrUnknownRow)

	_, err := m.GetCell(models.IQ, 99)
	assert.ErrorIs(t, err, ErrUnknownColumn)
	assert.Equal(t, models.Unclassified, m.Color(models.IQ, 99))
}

func TestClearPathIsolation(t *testing.T) {
	m := newModel(t, store.NewMemory())
	col := col2000(t, m)

	require.NoError(t, m.SetCell(models.IQ, col, "45"))
	require.NoError(t, m.SetCell(models.IQ, col+1, "45"))
	neighbour := m.Snapshot()

	for _, text := range []string{"", "0", "abc"} {
		require.NoError(t, m.SetCell(models.IQ, col, "45"))
		require.NoError(t, m.SetCell(models.IQ, col, text))
		for _, row := range []models.Row{models.Boost, models.SOI, models.TIdeg, models.AFR, models.ATDC, models.TIms, models.N75} {
			cell, err := m.GetCell(row, col)
			require.NoError(t, err)
			assert.False(t, cell.Value.Valid, "%s cleared by IQ %q", row, text)
		}
		for _, row := range models.Rows {
			assert.Equal(t, neighbour.Get(row, col+1), m.Snapshot().Get(row, col+1), "column %d untouched", col+1)
		}
	}
}

func TestCommaDecimal(t *testing.T) {
	m := newModel(t, store.NewMemory())
	require.NoError(t, m.SetCell(models.IQ, 5, "12,5"))
	cell, err := m.GetCell(models.IQ, 5)
	require.NoError(t, err)
	assert.Equal(t, models.Some(12.5), cell.Value)
}

func TestHandEditedBoostUpdatesAFR(t *testing.T) {
	m := newModel(t, store.NewMemory())
	col := col2000(t, m)

	require.NoError(t, m.SetCell(models.IQ, col, "30"))
	require.NoError(t, m.SetCell(models.Boost, col, "2.0"))
	cell, err := m.GetCell(models.AFR, col)
	require.NoError(t, err)
	assert.Equal(t, 36.7, cell.Value.Float64)
}

func TestBulkEqualsSequential(t *testing.T) {
	values := []string{"10", "20", "30", "35", "40", "45", "50", "55", "60"}

	bulk := newModel(t, store.NewMemory())
	var edits []Edit
	for i, v := range values {
		edits = append(edits, Edit{Row: models.IQ, Col: 3 + i, Text: v})
	}
	edits = append(edits, Edit{Row: models.TIms, Col: 3, Text: "1"}, Edit{Row: models.IQ, Col: 99, Text: "1"})
	n, err := bulk.ApplyBulk(edits)
	require.NoError(t, err)
	assert.Equal(t, len(values), n)

	seq := newModel(t, store.NewMemory())
	for i, v := range values {
		require.NoError(t, seq.SetCell(models.IQ, 3+i, v))
	}

	assert.Equal(t, seq.Snapshot(), bulk.Snapshot())
	assert.Equal(t, seq.Fingerprint(), bulk.Fingerprint())
}

func TestReloadReconstructsState(t *testing.T) {
	for _, backend := range []string{store.BackendMemory, store.BackendPebble, store.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cells")
			st, err := store.Open(backend, path)
			require.NoError(t, err)

			m := newModel(t, st)
			for c := 0; c < m.Columns(); c++ {
				require.NoError(t, m.SetCell(models.IQ, c, "47.3"))
			}
			require.NoError(t, m.SetCell(models.Boost, 8, "2.61"))
			require.NoError(t, m.SetCell(models.SOI, 9, "-7.25"))
			require.NoError(t, m.SetCell(models.TIdeg, 10, ""))
			want := m.Snapshot()

			if backend != store.BackendMemory {
				require.NoError(t, st.Close())
				st, err = store.Open(backend, path)
				require.NoError(t, err)
			}
			defer st.Close()

			reloaded := newModel(t, st)
			assert.Equal(t, want, reloaded.Snapshot())
		})
	}
}

func TestLoadIgnoresStaleDerivedValues(t *testing.T) {
	st := store.NewMemory()
	require.NoError(t, st.SaveCell("IQ_5", "30"))
	require.NoError(t, st.SaveCell("Boost_5", "2"))
	require.NoError(t, st.SaveCell("AFR_5", "999"))
	require.NoError(t, st.SaveCell("junk", "1"))

	m := newModel(t, st)
	cell, err := m.GetCell(models.AFR, 4)
	require.NoError(t, err)
	want, ok := derive.AFR(models.ASZ, 2, 30)
	require.True(t, ok)
	assert.Equal(t, models.AFR.Round(want), cell.Value.Float64)

	text, ok, err := st.LoadCell("AFR_5")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.AFR.Format(want), text)
}

func TestIdempotentRecompute(t *testing.T) {
	m := newModel(t, store.NewMemory())
	for c := 0; c < m.Columns(); c++ {
		require.NoError(t, m.SetCell(models.IQ, c, "33"))
	}
	before := m.Fingerprint()

	changed, err := m.RecomputeAll()
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, before, m.Fingerprint())
}

func TestReset(t *testing.T) {
	st := store.NewMemory()
	m := newModel(t, st)
	col := col2000(t, m)
	require.NoError(t, m.SetCell(models.IQ, col, "40"))
	fresh := m.Snapshot()
	require.NoError(t, m.SetCell(models.SOI, col, "-2"))

	require.NoError(t, m.Reset(ScopeFull))
	assert.Equal(t, fresh, m.Snapshot())

	var cleared int
	m.Subscribe(func(n Notification) {
		assert.False(t, n.Value.Valid)
		cleared++
	})
	require.NoError(t, m.Reset(ScopeValues))
	assert.Equal(t, 8, cleared)
	keys, err := st.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Equal(t, New(newGraph(t), store.NewMemory(), Options{}).Snapshot(), m.Snapshot())
}

func TestZeroRPMColumnClassifiesUndefined(t *testing.T) {
	m := newModel(t, store.NewMemory())
	require.NoError(t, m.SetCell(models.IQ, 0, "20"))
	assert.Equal(t, models.Undefined, m.Color(models.TIms, 0))
	cell, err := m.GetCell(models.TIms, 0)
	require.NoError(t, err)
	assert.False(t, cell.Value.Valid)
}

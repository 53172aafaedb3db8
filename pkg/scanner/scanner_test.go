package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/edc15p-tool/pkg/derive"
	"github.com/tosih/edc15p-tool/pkg/grid"
	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/store"
	"github.com/tosih/edc15p-tool/pkg/table"
)

func TestScanTable(t *testing.T) {
	tbl, err := table.New("zig", []float64{0, 1}, []float64{0, 1, 2, 3}, [][]float64{
		{1, 2, 1, 2},
		{0, 0, 0, 0},
	})
	require.NoError(t, err)

	s := ScanTable(tbl)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, 4, s.Cols)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 2.0, s.Max)
	assert.Equal(t, 0.75, s.Mean)
	assert.Equal(t, 2, s.Reversals)
}

func TestScanGrid(t *testing.T) {
	set, err := table.DefaultSet()
	require.NoError(t, err)
	m := grid.New(derive.NewGraph(set, models.ASZ, models.Columns), store.NewMemory(), grid.Options{})
	require.NoError(t, m.SetCell(models.IQ, 0, "20"))
	require.NoError(t, m.SetCell(models.IQ, 7, "20"))

	counts := ScanGrid(m.Snapshot())
	require.Len(t, counts, 2)
	assert.Equal(t, models.TIms, counts[1].Row)
	assert.Equal(t, 1, counts[1].Counts[models.Undefined])

	total := 0
	for _, n := range counts[0].Counts {
		total += n
	}
	assert.Equal(t, 2, total)
}

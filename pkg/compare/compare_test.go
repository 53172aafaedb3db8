package compare

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

func newModel(t *testing.T) *grid.Model {
	t.Helper()
	set, err := table.DefaultSet()
	require.NoError(t, err)
	return grid.New(derive.NewGraph(set, models.ASZ, models.Columns), store.NewMemory(), grid.Options{})
}

func TestSnapshots(t *testing.T) {
	a, b := newModel(t), newModel(t)
	require.NoError(t, a.SetCell(models.IQ, 5, "30"))
	require.NoError(t, a.SetCell(models.IQ, 6, "30"))
	require.NoError(t, b.SetCell(models.IQ, 5, "35"))
	require.NoError(t, b.SetCell(models.IQ, 7, "30"))

	diffs, err := Snapshots(a.Snapshot(), b.Snapshot())
	require.NoError(t, err)
	require.Len(t, diffs, len(models.Rows))

	var iq RowDiff
	for _, d := range diffs {
		if d.Row == models.IQ {
			iq = d
		}
	}
	assert.Equal(t, 1, iq.Changed)
	assert.Equal(t, 1, iq.Appeared)
	assert.Equal(t, 1, iq.Vanished)
	assert.Equal(t, 5.0, iq.Diff[5])
	assert.Equal(t, 5.0, iq.MaxUp)
	assert.Equal(t, 5.0, iq.Average())
}

func TestSnapshotsIdentical(t *testing.T) {
	a := newModel(t)
	require.NoError(t, a.SetCell(models.IQ, 3, "20"))
	diffs, err := Snapshots(a.Snapshot(), a.Snapshot())
	require.NoError(t, err)
	for _, d := range diffs {
		assert.Zero(t, d.Changed)
		assert.Zero(t, d.Average())
	}
}

func TestSnapshotsColumnMismatch(t *testing.T) {
	a := newModel(t).Snapshot()
	b := a
	b.RPM = b.RPM[:3]
	_, err := Snapshots(a, b)
	assert.Error(t, err)
}

package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

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

func TestCSVRoundTripRecreatesGrid(t *testing.T) {
	src := newModel(t)
	for col := 1; col < src.Columns(); col += 2 {
		require.NoError(t, src.SetCell(models.IQ, col, "42.25"))
	}
	require.NoError(t, src.SetCell(models.Boost, 7, "2.345"))
	require.NoError(t, src.SetCell(models.SOI, 9, ""))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(src.Snapshot(), &buf))
	assert.True(t, strings.Contains(buf.String(), csvHeader+",0,550,551"))

	edits, err := ReadCSV(&buf, len(models.Columns))
	require.NoError(t, err)
	assert.Len(t, edits, 4*len(models.Columns))
	assert.Equal(t, models.IQ, edits[0].Row)

	dst := newModel(t)
	_, err = dst.ApplyBulk(edits)
	require.NoError(t, err)
	assert.Equal(t, src.Snapshot(), dst.Snapshot())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("a,b\n1,2\n"), 21)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(csvHeader+",0,550\nIQ,1,2\n"), 21)
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(csvHeader+",0,550\nIQQQ,1,2\n"), 2)
	assert.Error(t, err)
}

func TestWorkbookColours(t *testing.T) {
	m := newModel(t)
	require.NoError(t, m.SetCell(models.IQ, 7, "40"))

	filename := filepath.Join(t.TempDir(), "grid.xlsx")
	require.NoError(t, WriteXLSX(m.Snapshot(), filename))

	f, err := excelize.OpenFile(filename)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue(sheetName, "A3")
	require.NoError(t, err)
	assert.Equal(t, "IQ", v)

	v, err = f.GetCellValue(sheetName, "I3")
	require.NoError(t, err)
	assert.Equal(t, "40", v)

	style, err := f.GetCellStyle(sheetName, "I7")
	require.NoError(t, err)
	assert.NotZero(t, style, "ATDC at 2000 rpm carries a safety fill")
}

func TestExportGrid(t *testing.T) {
	dir := t.TempDir()
	m := newModel(t)
	require.NoError(t, ExportGrid(m.Snapshot(), dir, []string{"csv", "xlsx"}))
	assert.FileExists(t, filepath.Join(dir, "edc15p_grid.csv"))
	assert.FileExists(t, filepath.Join(dir, "edc15p_grid.xlsx"))

	assert.Error(t, ExportGrid(m.Snapshot(), dir, []string{"pdf"}))
}

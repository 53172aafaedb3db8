package table

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/edc15p-tool/pkg/models"
)

func mustDefaultSet(t *testing.T) *Set {
	t.Helper()
	set, err := DefaultSet()
	require.NoError(t, err)
	return set
}

func TestQueryExactAtBreakpoints(t *testing.T) {
	set := mustDefaultSet(t)
	for _, tbl := range set.All() {
		xs, ys := tbl.XBreakpoints(), tbl.YBreakpoints()
		for i, x := range xs {
			for j, y := range ys {
				assert.Equal(t, tbl.Cell(i, j), tbl.Query(x, y), "%s at (%v,%v)", tbl.Name(), x, y)
			}
		}
	}
}

func TestQueryContinuousAcrossBoundaries(t *testing.T) {
	set := mustDefaultSet(t)
	const eps = 1e-9
	for _, tbl := range set.All() {
		xs, ys := tbl.XBreakpoints(), tbl.YBreakpoints()
		for i := 1; i < len(xs)-1; i++ {
			y := (ys[0] + ys[1]) / 2
			below := tbl.Query(xs[i]-eps, y)
			above := tbl.Query(xs[i]+eps, y)
			assert.InDelta(t, below, above, 1e-6, "%s x boundary %v", tbl.Name(), xs[i])
		}
		for j := 1; j < len(ys)-1; j++ {
			x := (xs[0] + xs[1]) / 2
			below := tbl.Query(x, ys[j]-eps)
			above := tbl.Query(x, ys[j]+eps)
			assert.InDelta(t, below, above, 1e-6, "%s y boundary %v", tbl.Name(), ys[j])
		}
	}
}

func TestQueryClampsOutOfRange(t *testing.T) {
	set := mustDefaultSet(t)
	tbl := set.SOI
	xs, ys := tbl.XBreakpoints(), tbl.YBreakpoints()
	lastX, lastY := xs[len(xs)-1], ys[len(ys)-1]

	assert.Equal(t, tbl.Query(xs[0], 30), tbl.Query(-500, 30))
	assert.Equal(t, tbl.Query(lastX, 30), tbl.Query(9000, 30))
	assert.Equal(t, tbl.Query(2000, ys[0]), tbl.Query(2000, -10))
	assert.Equal(t, tbl.Query(2000, lastY), tbl.Query(2000, 500))
	assert.Equal(t, tbl.Cell(len(xs)-1, len(ys)-1), tbl.Query(1e6, 1e6))
	assert.Equal(t, tbl.Cell(0, 0), tbl.Query(-1e6, -1e6))
}

func TestIntervalTiesResolveLow(t *testing.T) {
	tbl, err := New("t", []float64{0, 10, 30}, []float64{0, 5}, [][]float64{{0, 0}, {1, 1}, {2, 2}})
	require.NoError(t, err)

	cases := []struct {
		x     float64
		wantI int
	}{
		{-1, 0},
		{0, 0},
		{5, 0},
		{10, 0},
		{10.5, 1},
		{30, 1},
		{99, 1},
	}
	for _, c := range cases {
		i, j := tbl.Interval(c.x, 2)
		assert.Equal(t, c.wantI, i, "x=%v", c.x)
		assert.Equal(t, 0, j)
	}
}

func TestBoostScenario(t *testing.T) {
	set := mustDefaultSet(t)
	boost := set.Boost

	i, j := boost.Interval(1500, 55)
	xs, ys := boost.XBreakpoints(), boost.YBreakpoints()
	assert.Equal(t, 1250.0, xs[i])
	assert.Equal(t, 1500.0, xs[i+1])
	assert.Equal(t, 44.0, ys[j])
	assert.Equal(t, 55.0, ys[j+1])

	corners := []float64{boost.Cell(i, j), boost.Cell(i+1, j), boost.Cell(i, j+1), boost.Cell(i+1, j+1)}
	lo, hi := corners[0], corners[0]
	for _, c := range corners {
		lo, hi = math.Min(lo, c), math.Max(hi, c)
	}

	onBreakpoint := boost.Query(1500, 55)
	assert.Equal(t, boost.Cell(i+1, j+1), onBreakpoint)

	inside := boost.Query(1400, 50)
	assert.Greater(t, inside, lo)
	assert.Less(t, inside, hi)
}

func TestNewRejectsBadTables(t *testing.T) {
	cases := []struct {
		name  string
		xs    []float64
		ys    []float64
		cells [][]float64
	}{
		{"short x axis", []float64{1}, []float64{0, 1}, [][]float64{{0, 0}}},
		{"duplicate breakpoint", []float64{0, 1, 1}, []float64{0, 1}, [][]float64{{0, 0}, {0, 0}, {0, 0}}},
		{"decreasing axis", []float64{0, 2, 1}, []float64{0, 1}, [][]float64{{0, 0}, {0, 0}, {0, 0}}},
		{"row count mismatch", []float64{0, 1}, []float64{0, 1}, [][]float64{{0, 0}}},
		{"column count mismatch", []float64{0, 1}, []float64{0, 1}, [][]float64{{0, 0}, {0}}},
		{"nan cell", []float64{0, 1}, []float64{0, 1}, [][]float64{{0, math.NaN()}, {0, 0}}},
		{"inf breakpoint", []float64{0, math.Inf(1)}, []float64{0, 1}, [][]float64{{0, 0}, {0, 0}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New("bad", c.xs, c.ys, c.cells)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, "bad", cfgErr.Table)
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	xs := []float64{0, 1}
	cells := [][]float64{{1, 2}, {3, 4}}
	tbl, err := New("copy", xs, []float64{0, 1}, cells)
	require.NoError(t, err)

	xs[1] = 100
	cells[0][0] = 99
	assert.Equal(t, 1.0, tbl.XBreakpoints()[1])
	assert.Equal(t, 1.0, tbl.Cell(0, 0))
}

func TestLoadSetRequiresAllTables(t *testing.T) {
	_, err := LoadSet(models.TableConfigs[:3])
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, models.TableN75, cfgErr.Table)

	dup := append(append([]models.TableConfig(nil), models.TableConfigs...), models.TableConfigs[0])
	_, err = LoadSet(dup)
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, models.TableBoost, cfgErr.Table)
}

func TestMinMax(t *testing.T) {
	set := mustDefaultSet(t)
	lo, hi := set.N75.MinMax()
	assert.Equal(t, 19.33, lo)
	assert.Equal(t, 80.0, hi)
}

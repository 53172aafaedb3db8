package hints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForRPM(t *testing.T) {
	_, ok := ForRPM(0)
	assert.False(t, ok)

	h, ok := ForRPM(2000)
	require.True(t, ok)
	assert.InDelta(t, 30, h.MsPerRev, 1e-12)
	assert.InDelta(t, 0.08333, h.MsPerDeg, 1e-5)
	assert.Equal(t, 10.0, h.EOIMax)
	assert.InDelta(t, 2.9167, h.TIMaxMs, 1e-4)

	h, _ = ForRPM(3500)
	assert.InDelta(t, 7.5, h.EOIMax, 1e-12)
	assert.InDelta(t, 60000.0/(3500*360)*32.5, h.TIMaxMs, 1e-12)

	h, _ = ForRPM(5250)
	assert.Equal(t, 5.0, h.EOIMax)
	assert.InDelta(t, 60000.0/(5250*360)*30, h.TIMaxMs, 1e-12)
	assert.Contains(t, h.String(), "5250 RPM")
}

func TestForIQ(t *testing.T) {
	h := ForIQ(50)
	assert.InDelta(t, 59.88, h.VolumeMm3, 1e-2)
	require.Len(t, h.Real, 3)
	assert.InDelta(t, 50, h.Real[0].Mg, 1e-9)
	assert.InDelta(t, 49.52, h.Real[1].Mg, 1e-2)
	assert.InDelta(t, 48.50, h.Real[2].Mg, 1e-2)
	assert.Contains(t, h.String(), "59.9 mm³")
}

package grid

import (
	"strconv"

	"github.com/zeebo/xxh3"

	"github.com/tosih/edc15p-tool/pkg/models"
)

// Snapshot is a copy of the grid. Cells is indexed [models.Row][column].
type Snapshot struct {
	RPM   []float64
	Cells [models.RowCount][]Cell
}

// Snapshot copies the current grid
func (m *Model) Snapshot() Snapshot {
	s := Snapshot{RPM: make([]float64, len(m.cols))}
	for col := range m.cols {
		s.RPM[col] = m.graph.RPM(col)
	}
	for row := 0; row < models.RowCount; row++ {
		s.Cells[row] = make([]Cell, len(m.cols))
		for col := range m.cols {
			s.Cells[row][col] = Cell{Value: m.cols[col].Values[row], Class: m.cols[col].Classes[row]}
		}
	}
	return s
}

// Get returns the snapshot cell at (row, col)
func (s Snapshot) Get(row models.Row, col int) Cell {
	return s.Cells[row][col]
}

// Fingerprint hashes the snapshot values and bands. Equal grids hash equal.
func (s Snapshot) Fingerprint() uint64 {
	h := xxh3.New()
	var buf []byte
	for row := 0; row < models.RowCount; row++ {
		for _, c := range s.Cells[row] {
			buf = buf[:0]
			if c.Value.Valid {
				buf = strconv.AppendFloat(buf, c.Value.Float64, 'g', -1, 64)
			} else {
				buf = append(buf, '-')
			}
			buf = append(buf, '/')
			buf = strconv.AppendInt(buf, int64(c.Class), 10)
			buf = append(buf, ';')
			_, _ = h.Write(buf)
		}
		_, _ = h.Write([]byte{'\n'})
	}
	return h.Sum64()
}

// Fingerprint hashes the current grid
func (m *Model) Fingerprint() uint64 {
	return m.Snapshot().Fingerprint()
}

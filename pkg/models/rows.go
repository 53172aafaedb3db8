package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Row identifies a named row of the editing grid
type Row int

const (
	IQ Row = iota
	Boost
	SOI
	TIdeg
	AFR
	ATDC
	TIms
	N75
)

// RowCount is the number of grid rows
const RowCount = 8

var rowNames = [RowCount]string{"IQ", "Boost", "SOI", "TIdeg", "AFR", "ATDC", "TIms", "N75"}

var rowUnits = [RowCount]string{"mg", "bar", "deg", "deg", "", "deg", "ms", "%"}

// Rows lists the grid rows in display order
var Rows = []Row{AFR, IQ, Boost, SOI, TIdeg, ATDC, TIms, N75}

// String returns the row label used in displays and persisted keys
func (r Row) String() string {
	if r < 0 || int(r) >= RowCount {
		return fmt.Sprintf("Row(%d)", int(r))
	}
	return rowNames[r]
}

// Unit returns the display unit of the row
func (r Row) Unit() string {
	if r < 0 || int(r) >= RowCount {
		return ""
	}
	return rowUnits[r]
}

// IsInput reports whether the row accepts user edits
func (r Row) IsInput() bool {
	switch r {
	case IQ, Boost, SOI, TIdeg:
		return true
	}
	return false
}

// Decimals is the number of decimals a computed value is stored with
func (r Row) Decimals() int {
	if r == TIms {
		return 3
	}
	return 2
}

// Format renders v with the row's precision
func (r Row) Format(v float64) string {
	return strconv.FormatFloat(v, 'f', r.Decimals(), 64)
}

// Round returns v as it reads back from its formatted text
func (r Row) Round(v float64) float64 {
	rounded, err := strconv.ParseFloat(r.Format(v), 64)
	if err != nil {
		return v
	}
	return rounded
}

// ParseRow resolves a row label, case-insensitively. Unknown labels get a
// suggestion for the closest known row.
func ParseRow(name string) (Row, error) {
	trimmed := strings.TrimSpace(name)
	for i, n := range rowNames {
		if strings.EqualFold(n, trimmed) {
			return Row(i), nil
		}
	}

	best, bestDist := "", -1
	for _, n := range rowNames {
		d := levenshtein.ComputeDistance(strings.ToLower(trimmed), strings.ToLower(n))
		if bestDist < 0 || d < bestDist {
			best, bestDist = n, d
		}
	}
	if bestDist >= 0 && bestDist <= 2 {
		return 0, fmt.Errorf("unknown row %q (did you mean %s?)", name, best)
	}
	return 0, fmt.Errorf("unknown row %q", name)
}

// ParseNumber parses user text, accepting a comma as decimal separator.
// Blank, non-numeric or non-finite text yields an absent Value.
func ParseNumber(text string) Value {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if s == "" {
		return Value{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Some(v)
}

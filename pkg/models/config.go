package models

// Engine holds the physical constants used by the derived formulas
type Engine struct {
	DisplacementCm3 float64 `yaml:"displacement_cm3" toml:"displacement_cm3" validate:"gt=0"`
	Cylinders       int     `yaml:"cylinders" toml:"cylinders" validate:"gt=0"`
	GasConstant     float64 `yaml:"gas_constant" toml:"gas_constant" validate:"gt=0"`
	IntakeTempK     float64 `yaml:"intake_temp_k" toml:"intake_temp_k" validate:"gt=0"`
}

// ASZ is the 1.9 TDI 130hp engine the stock tables belong to
var ASZ = Engine{
	DisplacementCm3: 1896,
	Cylinders:       4,
	GasConstant:     287.05,
	IntakeTempK:     300,
}

// CylinderVolumeM3 returns the swept volume of one cylinder in m³
func (e Engine) CylinderVolumeM3() float64 {
	return e.DisplacementCm3 / float64(e.Cylinders) / 1e6
}

// Columns are the engine speed operating points of the editing grid.
// 550 and 551 are both present in the stock layout.
var Columns = []float64{0, 550, 551, 1000, 1250, 1500, 1750, 2000, 2250, 2500, 2750, 3000, 3250, 3500, 3750, 4000, 4250, 4500, 4750, 5000, 5250}

// ColumnCount is the number of grid columns
var ColumnCount = len(Columns)

package models

// Table names used to bind calibration tables to grid rows
const (
	TableBoost = "Boost"
	TableSOI   = "SOI"
	TableTI    = "TI"
	TableN75   = "N75"
)

// TableConfig defines a calibration table of the EDC15P.
// Data[i][j] is the value at (RPM[i], MG[j]).
type TableConfig struct {
	Name        string      `yaml:"name"`
	Unit        string      `yaml:"unit"`
	Description string      `yaml:"description"`
	RPM         []float64   `yaml:"rpm"`
	MG          []float64   `yaml:"mg"`
	Data        [][]float64 `yaml:"data"`
}

// Value is an optional cell value. The zero Value is absent.
type Value struct {
	Float64 float64
	Valid   bool
}

// Some wraps v as a present Value
func Some(v float64) Value {
	return Value{Float64: v, Valid: true}
}

// Predefined calibration tables for the 1.9 TDI ASZ (EDC15P).
// The boost axis of the stock file lists 17 rpm breakpoints for 16 rows; the
// 5000 rpm breakpoint has no row and is left out.
var TableConfigs = []TableConfig{
	{
		Name:        TableBoost,
		Unit:        "bar",
		Description: "Boost pressure target",
		RPM:         []float64{0, 20, 1000, 1250, 1500, 1750, 2000, 2250, 2500, 2750, 3000, 3250, 3500, 4000, 4500, 4750},
		MG:          []float64{0, 11, 22, 33, 44, 55, 66, 77, 99, 110},
		Data: [][]float64{
			{0.20, 0.20, 0.20, 0.20, 0.20, 0.20, 0.20, 0.20, 0.20, 0.20},
			{1.00, 2.42, 2.46, 2.51, 2.55, 2.63, 2.71, 2.71, 2.71, 2.71},
			{1.00, 2.42, 2.47, 2.51, 2.56, 2.63, 2.71, 2.71, 2.71, 2.71},
			{1.00, 2.42, 2.48, 2.53, 2.58, 2.64, 2.73, 2.86, 3.11, 3.11},
			{1.00, 2.45, 2.51, 2.58, 2.66, 2.74, 2.85, 3.01, 3.31, 3.44},
			{1.00, 2.47, 2.55, 2.64, 2.72, 2.83, 2.97, 3.16, 3.40, 3.60},
			{1.00, 2.49, 2.57, 2.67, 2.75, 2.87, 3.02, 3.21, 3.46, 3.65},
			{1.00, 2.50, 2.58, 2.68, 2.77, 2.90, 3.04, 3.23, 3.50, 3.67},
			{1.01, 2.52, 2.60, 2.70, 2.80, 2.92, 3.06, 3.26, 3.55, 3.70},
			{1.02, 2.54, 2.62, 2.72, 2.82, 2.94, 3.08, 3.27, 3.55, 3.70},
			{1.06, 2.58, 2.68, 2.78, 2.89, 3.00, 3.13, 3.31, 3.58, 3.70},
			{1.08, 2.58, 2.69, 2.79, 2.89, 3.00, 3.14, 3.31, 3.58, 3.70},
			{1.10, 2.58, 2.69, 2.80, 2.90, 3.01, 3.14, 3.31, 3.56, 3.66},
			{1.12, 2.58, 2.69, 2.80, 2.90, 3.01, 3.14, 3.32, 3.51, 3.61},
			{1.15, 2.58, 2.69, 2.80, 2.90, 3.00, 3.14, 3.31, 3.49, 3.58},
			{1.20, 2.58, 2.68, 2.79, 2.89, 3.01, 3.13, 3.25, 3.46, 3.54},
		},
	},
	{
		Name:        TableSOI,
		Unit:        "deg",
		Description: "Start of injection (negative = before TDC)",
		RPM:         []float64{100, 400, 800, 1000, 1250, 1500, 1750, 2000, 2250, 2500, 2750, 3000, 3500, 4000, 4250, 5000},
		MG:          []float64{0, 11, 22, 33, 44, 55, 62, 66, 77, 88, 99, 110, 121, 132},
		Data: [][]float64{
			{-7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99, -7.99},
			{1.01, 1.01, 1.01, -0.49, -3.00, -7.22, -11.11, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00},
			{1.01, 1.01, 1.01, -0.49, -3.00, -7.22, -11.11, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00},
			{1.01, 1.01, 1.01, -0.49, -3.00, -7.22, -11.11, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00},
			{-0.49, -0.49, -0.49, -0.49, -3.00, -7.22, -11.11, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00, -15.00},
			{-1.50, -1.50, -1.50, -1.50, -3.00, -7.22, -7.97, -8.74, -9.96, -10.74, -11.25, -11.51, -11.51, -11.51},
			{-3.00, -3.00, -3.00, -3.00, -4.95, -7.22, -7.99, -8.77, -9.96, -10.74, -11.25, -11.51, -11.51, -11.51},
			{-4.50, -4.50, -4.50, -4.50, -6.70, -8.04, -8.74, -9.45, -10.22, -10.99, -11.51, -12.24, -12.24, -12.24},
			{-5.72, -5.72, -5.72, -6.49, -8.06, -9.05, -9.77, -10.50, -11.23, -12.00, -12.49, -13.01, -13.01, -13.01},
			{-6.96, -6.96, -6.96, -7.74, -9.40, -10.22, -10.85, -11.51, -12.24, -13.01, -13.52, -14.02, -14.02, -14.02},
			{-8.25, -8.25, -8.25, -9.02, -10.43, -11.37, -12.05, -12.73, -13.48, -14.25, -14.77, -15.28, -15.28, -15.28},
			{-9.00, -9.00, -9.00, -9.99, -11.46, -12.47, -13.08, -13.71, -14.49, -15.24, -16.01, -16.50, -16.50, -16.50},
			{-10.76, -10.76, -10.76, -12.00, -13.45, -14.60, -15.17, -15.70, -16.74, -17.51, -18.26, -19.22, -19.22, -19.22},
			{-12.49, -12.49, -12.49, -13.97, -15.49, -16.71, -17.18, -17.67, -18.70, -19.48, -20.86, -21.09, -21.31, -21.52},
			{-13.48, -13.48, -13.48, -14.88, -16.38, -17.70, -18.19, -18.68, -19.69, -20.46, -21.75, -22.08, -22.24, -22.41},
			{-16.22, -16.22, -16.22, -17.72, -19.29, -20.58, -21.12, -21.68, -22.71, -23.74, -24.24, -24.24, -24.24, -24.24},
		},
	},
	{
		Name:        TableTI,
		Unit:        "deg",
		Description: "Injection duration in crank degrees",
		RPM:         []float64{100, 200, 600, 800, 1000, 1250, 1500, 1750, 2000, 2500, 3000, 3500, 3800, 4000, 4500, 5000},
		MG:          []float64{1, 4, 11, 15, 22, 33, 44, 55, 66, 77, 88, 99, 110, 121, 132},
		Data: [][]float64{
			{4.95, 7.27, 9.33, 10.43, 11.37, 12.07, 13.31, 14.53, 15.98, 16.97, 18.23, 19.59, 20.67, 21.96, 23.79},
			{4.83, 6.87, 8.91, 9.80, 10.69, 11.46, 12.54, 13.83, 15.26, 16.17, 17.46, 18.82, 19.80, 21.07, 22.71},
			{3.68, 5.18, 6.59, 7.45, 8.27, 9.14, 9.94, 11.30, 12.42, 13.50, 14.69, 15.84, 16.83, 18.05, 19.27},
			{2.72, 3.77, 5.37, 6.14, 6.96, 7.85, 8.77, 10.12, 11.37, 12.63, 13.78, 15.14, 16.12, 17.41, 18.89},
			{-0.47, 2.44, 4.29, 5.16, 5.91, 6.91, 8.09, 9.54, 10.87, 12.12, 13.83, 15.12, 16.38, 17.81, 19.17},
			{-1.01, 1.29, 3.40, 4.59, 5.23, 6.49, 7.99, 9.28, 10.83, 12.28, 14.04, 15.54, 16.73, 18.26, 19.76},
			{-1.27, 0.66, 2.79, 4.03, 4.87, 6.23, 7.99, 9.23, 10.97, 12.68, 14.30, 15.96, 17.46, 19.15, 20.69},
			{-1.52, 0.19, 2.25, 3.54, 4.59, 5.95, 7.85, 9.68, 11.44, 13.34, 14.74, 16.73, 18.33, 19.90, 21.52},
			{-1.66, -0.14, 1.66, 2.91, 4.31, 5.84, 7.87, 10.15, 11.95, 13.90, 15.37, 17.39, 18.94, 20.72, 22.64},
			{-2.16, -0.73, 0.89, 2.25, 3.59, 5.60, 8.09, 10.73, 12.75, 15.00, 16.59, 18.54, 20.41, 22.27, 24.59},
			{-2.51, -1.27, 0.28, 1.69, 2.98, 5.30, 8.02, 11.41, 13.62, 15.77, 17.74, 19.78, 22.27, 24.44, 26.65},
			{-3.05, -1.76, -0.28, 1.15, 2.32, 4.83, 7.43, 11.67, 14.51, 16.78, 18.96, 21.73, 24.54, 27.30, 29.60},
			{-3.30, -1.90, -0.66, 0.77, 1.80, 4.41, 7.29, 11.60, 14.74, 17.18, 19.57, 22.71, 26.02, 28.80, 30.77},
			{-3.26, -2.02, -0.70, 0.59, 1.48, 4.12, 7.22, 11.39, 14.72, 17.32, 19.97, 23.20, 26.62, 29.39, 31.26},
			{-3.52, -1.99, -0.98, -0.45, 0.26, 2.84, 6.37, 10.17, 13.83, 17.41, 20.79, 24.47, 28.03, 30.66, 32.20},
			{-3.63, -2.34, -1.50, -0.98, -0.52, 2.23, 5.72, 9.00, 13.08, 16.87, 21.09, 24.82, 28.83, 31.22, 33.07},
		},
	},
	{
		Name:        TableN75,
		Unit:        "%",
		Description: "N75 boost solenoid duty cycle",
		RPM:         []float64{760, 780, 1000, 1150, 1300, 1500, 1650, 1750, 1900, 2000, 2250, 2500, 3000, 4000, 4500, 5000},
		MG:          []float64{0, 5, 10, 15, 20, 30, 40, 50, 60, 80, 100, 120, 140},
		Data: [][]float64{
			{75.00, 75.00, 75.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00},
			{75.00, 75.00, 75.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00},
			{75.00, 75.00, 75.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00},
			{75.00, 75.00, 75.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00, 80.00},
			{72.00, 72.00, 72.00, 72.00, 72.00, 69.00, 62.00, 60.00, 60.00, 60.00, 60.00, 60.00, 60.00},
			{66.00, 66.00, 66.00, 62.66, 59.66, 55.66, 53.00, 53.00, 52.00, 52.00, 52.00, 52.00, 52.00},
			{63.00, 63.00, 63.00, 59.32, 56.76, 52.38, 47.88, 46.00, 45.00, 43.87, 42.75, 41.62, 40.50},
			{61.00, 61.00, 61.00, 57.26, 54.76, 50.38, 41.00, 42.56, 43.06, 41.98, 40.90, 39.83, 38.75},
			{58.50, 58.50, 58.50, 53.98, 51.48, 47.60, 39.16, 38.22, 38.22, 37.26, 36.30, 35.35, 34.39},
			{56.50, 56.50, 56.50, 51.60, 49.10, 45.10, 38.66, 33.94, 34.94, 34.06, 33.19, 32.31, 31.44},
			{54.00, 54.00, 54.00, 48.94, 46.94, 42.66, 34.16, 32.44, 30.13, 29.37, 28.62, 27.87, 27.11},
			{51.00, 51.00, 51.00, 46.50, 44.50, 40.22, 31.94, 31.28, 29.41, 28.67, 27.93, 27.16, 26.43},
			{50.00, 49.00, 47.20, 43.10, 41.22, 36.66, 30.16, 28.94, 27.86, 27.16, 26.46, 26.09, 25.39},
			{46.88, 43.38, 40.26, 36.66, 34.60, 30.10, 26.00, 25.00, 25.50, 24.86, 24.22, 23.88, 23.25},
			{44.62, 40.61, 37.18, 34.11, 31.93, 25.74, 23.66, 23.66, 23.16, 22.50, 22.45, 22.14, 21.52},
			{42.88, 38.86, 35.47, 32.34, 30.16, 23.81, 21.91, 21.91, 21.41, 20.75, 20.27, 19.98, 19.33},
		},
	},
}

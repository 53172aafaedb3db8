package derive

import (
	"math"

	"github.com/tosih/edc15p-tool/pkg/models"
)

// AFR returns the air-fuel ratio for a boost pressure (bar absolute) and an
// injected quantity (mg/stroke). ok is false when no fuel is injected.
func AFR(e models.Engine, boostBar, iqMg float64) (afr float64, ok bool) {
	air := boostBar * 1e5 * e.CylinderVolumeM3() / (e.GasConstant * e.IntakeTempK)
	fuel := iqMg / 1e6
	if fuel <= 0 {
		return 0, false
	}
	return air / fuel, true
}

// TIms converts an injection duration from crank degrees to milliseconds
func TIms(tiDeg, rpm float64) float64 {
	return tiDeg * 60000 / (rpm * 360)
}

// ATDC is the end of injection angle after TDC
func ATDC(soi, tiDeg float64) float64 {
	return soi + tiDeg
}

// MaxTIms is the longest advised injection at rpm, 35 crank degrees
func MaxTIms(rpm float64) float64 {
	return 60000 * 35 / (rpm * 360)
}

// MaxATDC is the latest advised end of injection: 10° up to 2200 rpm, 5° from
// 5000 rpm, linear in between.
func MaxATDC(rpm float64) float64 {
	switch {
	case rpm >= 5000:
		return 5
	case rpm > 2200:
		return 10 - (rpm-2200)*5/2800
	default:
		return 10
	}
}

// Classify maps a safety ratio to its band
func Classify(ratio float64) models.Classification {
	switch {
	case math.IsNaN(ratio) || math.IsInf(ratio, 0):
		return models.Undefined
	case ratio > 1:
		return models.Danger
	case ratio > 0.99:
		return models.CautionHigh
	case ratio > 0.90:
		return models.CautionHigh
	case ratio > 0.80:
		return models.CautionMid
	default:
		return models.Normal
	}
}

// Package hints computes the helper figures shown next to rpm columns and IQ
// cells.
package hints

import (
	"fmt"
	"strings"
)

// RPM holds the timing figures of one engine speed
type RPM struct {
	RPM      float64
	MsPerRev float64
	MsPerDeg float64
	// EOIMax is the advised latest end of injection, degrees ATDC.
	EOIMax float64
	// TIMaxMs is the advised longest injection in milliseconds.
	TIMaxMs float64
}

// ForRPM returns the hints of an engine speed; ok is false for rpm <= 0.
func ForRPM(rpm float64) (h RPM, ok bool) {
	if rpm <= 0 {
		return RPM{}, false
	}
	h.RPM = rpm
	h.MsPerRev = 60000 / rpm
	h.MsPerDeg = 60000 / (rpm * 360)

	switch {
	case rpm <= 2000:
		h.EOIMax = 10
		h.TIMaxMs = h.MsPerDeg * 35
	case rpm >= 5000:
		h.EOIMax = 5
		h.TIMaxMs = h.MsPerDeg * 30
	default:
		f := (rpm - 2000) * 5 / 3000
		h.EOIMax = 10 - f
		h.TIMaxMs = h.MsPerDeg * (35 - f)
	}
	return h, true
}

func (h RPM) String() string {
	return fmt.Sprintf("%.0f RPM = %.2f ms/rev\n→ %.4f ms/°CA\n→ advised EOI max = %.2f° ATDC\n→ TI max = %.2f ms",
		h.RPM, h.MsPerRev, h.MsPerDeg, h.EOIMax, h.TIMaxMs)
}

// Density is a diesel density at a fuel temperature
type Density struct {
	Label string
	KgM3  float64
}

// ReferenceDensity is the density the ECU assumes when converting IQ
const ReferenceDensity = 835

// Densities are the fuel temperature scenarios of the IQ hint
var Densities = []Density{
	{Label: "15°C (standard)", KgM3: 835},
	{Label: "25°C (warm engine, city)", KgM3: 827},
	{Label: "50°C (summer, motorway)", KgM3: 810},
}

// RealMass is the fuel mass actually injected under one density
type RealMass struct {
	Density
	Mg float64
}

// IQ holds the volume and mass figures of an injected quantity
type IQ struct {
	IQ        float64
	VolumeMm3 float64
	Real      []RealMass
}

// ForIQ converts a requested quantity in mg to the injected volume and the
// real mass at each reference density.
func ForIQ(iq float64) IQ {
	h := IQ{IQ: iq, VolumeMm3: iq / ReferenceDensity * 1000}
	for _, d := range Densities {
		h.Real = append(h.Real, RealMass{Density: d, Mg: h.VolumeMm3 * d.KgM3 / 1000})
	}
	return h
}

func (h IQ) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "IQ request = %.2f mg\nInjected volume ~ %.1f mm³", h.IQ, h.VolumeMm3)
	for _, r := range h.Real {
		fmt.Fprintf(&b, "\n%s ~ %.2f mg real", r.Label, r.Mg)
	}
	return b.String()
}

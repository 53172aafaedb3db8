package models

import "fmt"

// Classification is the safety band of a cell. Rows without a safety ratio
// stay Unclassified.
type Classification int

const (
	Unclassified Classification = iota
	Normal
	CautionLow
	CautionMid
	CautionHigh
	Danger
	Undefined
)

var classificationNames = []string{"", "normal", "caution-low", "caution-mid", "caution-high", "danger", "undefined"}

func (c Classification) String() string {
	if c < 0 || int(c) >= len(classificationNames) {
		return fmt.Sprintf("Classification(%d)", int(c))
	}
	return classificationNames[c]
}

// MarshalText implements encoding.TextMarshaler
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (c *Classification) UnmarshalText(text []byte) error {
	for i, n := range classificationNames {
		if n == string(text) {
			*c = Classification(i)
			return nil
		}
	}
	return fmt.Errorf("unknown classification %q", text)
}

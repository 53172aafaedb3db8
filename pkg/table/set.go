package table

import (
	"github.com/tosih/edc15p-tool/pkg/models"
)

// Set binds the four calibration tables the derived rows read from
type Set struct {
	Boost *Table
	SOI   *Table
	TI    *Table
	N75   *Table
}

// LoadSet builds and validates every table named in cfgs. All four tables
// must be present.
func LoadSet(cfgs []models.TableConfig) (*Set, error) {
	byName := make(map[string]*Table, len(cfgs))
	for _, cfg := range cfgs {
		if _, dup := byName[cfg.Name]; dup {
			return nil, &ConfigurationError{Table: cfg.Name, Reason: "defined twice"}
		}
		t, err := FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		byName[cfg.Name] = t
	}

	set := &Set{}
	for _, bind := range []struct {
		name string
		dst  **Table
	}{
		{models.TableBoost, &set.Boost},
		{models.TableSOI, &set.SOI},
		{models.TableTI, &set.TI},
		{models.TableN75, &set.N75},
	} {
		t, ok := byName[bind.name]
		if !ok {
			return nil, &ConfigurationError{Table: bind.name, Reason: "missing"}
		}
		*bind.dst = t
	}
	return set, nil
}

// DefaultSet builds the stock EDC15P ASZ tables
func DefaultSet() (*Set, error) {
	return LoadSet(models.TableConfigs)
}

// All returns the tables in a fixed order
func (s *Set) All() []*Table {
	return []*Table{s.Boost, s.SOI, s.TI, s.N75}
}

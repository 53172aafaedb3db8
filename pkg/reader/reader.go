package reader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tosih/edc15p-tool/pkg/models"
	"github.com/tosih/edc15p-tool/pkg/table"
)

// TablesFile is the on-disk layout of a calibration tables file
type TablesFile struct {
	Tables []models.TableConfig `yaml:"tables"`
}

// ReadTables reads calibration table definitions from a YAML file
func ReadTables(filename string) ([]models.TableConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var f TablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if len(f.Tables) == 0 {
		return nil, fmt.Errorf("%s: no tables defined", filename)
	}
	return f.Tables, nil
}

// WriteTables writes calibration table definitions as YAML
func WriteTables(filename string, cfgs []models.TableConfig) error {
	data, err := yaml.Marshal(TablesFile{Tables: cfgs})
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

// LoadSet builds the table set from filename, or the built-in tables when
// filename is empty.
func LoadSet(filename string) (*table.Set, error) {
	if filename == "" {
		return table.DefaultSet()
	}
	cfgs, err := ReadTables(filename)
	if err != nil {
		return nil, err
	}
	return table.LoadSet(cfgs)
}

// FindMinMax finds the minimum and maximum values in table data
func FindMinMax(data [][]float64) (float64, float64) {
	min := data[0][0]
	max := data[0][0]

	for _, row := range data {
		for _, val := range row {
			if val < min {
				min = val
			}
			if val > max {
				max = val
			}
		}
	}

	return min, max
}

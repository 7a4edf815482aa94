// Package models holds the file-level types the command line tool reads.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ttinterp/pkg/table"
)

// TableFixture is a small travel-time table written out in YAML
type TableFixture struct {
	// Phase is the seismic phase name, for display only
	Phase string `yaml:"phase"`

	// Distances is the distance axis in degrees
	Distances []float64 `yaml:"distances"`

	// Depths is the depth axis in kilometres
	Depths []float64 `yaml:"depths"`

	// Times holds one row per depth, one column per distance, in seconds.
	// Holes are written as -1.
	Times [][]float64 `yaml:"times"`
}

// LoadFixture reads a table fixture from a YAML file
func LoadFixture(path string) (*TableFixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading table fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture decodes a table fixture from YAML
func ParseFixture(data []byte) (*TableFixture, error) {
	fx := &TableFixture{}
	if err := yaml.Unmarshal(data, fx); err != nil {
		return nil, fmt.Errorf("error parsing table fixture: %w", err)
	}
	return fx, nil
}

// ToTable validates the fixture and builds a table from it
func (f *TableFixture) ToTable() (*table.Table, error) {
	tbl, err := table.New(f.Distances, f.Depths, f.Times)
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", f.Phase, err)
	}
	return tbl, nil
}

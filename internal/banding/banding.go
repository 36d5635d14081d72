// Package banding classifies 0-100 metric scores into named color bands.
// The thresholds live in a JSON file with a default table and optional
// per-metric overrides, and can be hot-reloaded while the service runs.
package banding

import (
	"encoding/json"
	"fmt"
	"os"
)

// band order matters: the first matching range wins.
var bandOrder = []string{"red", "yellow", "blue", "green"}

var bandColors = map[string]string{
	"red":     "#e74c3c",
	"yellow":  "#f1c40f",
	"blue":    "#3498db",
	"green":   "#2ecc71",
	"unknown": "#777",
}

// Range is an inclusive [Lo, Hi] score interval.
type Range struct {
	Lo float64
	Hi float64
}

// UnmarshalJSON accepts the two-element array form used in bands.json.
func (r *Range) UnmarshalJSON(b []byte) error {
	var pair [2]float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if pair[0] > pair[1] {
		return fmt.Errorf("band range [%v, %v] is inverted", pair[0], pair[1])
	}
	r.Lo, r.Hi = pair[0], pair[1]
	return nil
}

// Table holds the default band ranges plus per-metric-key overrides.
type Table struct {
	Default   map[string]Range            `json:"default"`
	Overrides map[string]map[string]Range `json:"overrides"`
}

// DefaultTable returns the built-in thresholds, used when no bands file
// is configured or the file cannot be read.
func DefaultTable() *Table {
	return &Table{
		Default: map[string]Range{
			"red":    {0, 49},
			"yellow": {50, 59},
			"blue":   {60, 74},
			"green":  {75, 100},
		},
	}
}

// LoadTable reads a band table from a JSON file.
func LoadTable(path string) (*Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bands file: %w", err)
	}
	var t Table
	if err := json.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse bands file: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	if len(t.Default) == 0 {
		return fmt.Errorf("bands file has no default table")
	}
	for _, name := range bandOrder {
		if _, ok := t.Default[name]; !ok {
			return fmt.Errorf("default table is missing band %q", name)
		}
	}
	return nil
}

// BandFor classifies a metric value. The metric key selects an override
// table when one exists. A nil or out-of-range value is "unknown".
func (t *Table) BandFor(key string, value *float64) (band, color string) {
	if value == nil {
		return "unknown", bandColors["unknown"]
	}
	ranges := t.Default
	if o, ok := t.Overrides[key]; ok {
		ranges = o
	}
	for _, name := range bandOrder {
		r, ok := ranges[name]
		if !ok {
			continue
		}
		if *value >= r.Lo && *value <= r.Hi {
			return name, bandColors[name]
		}
	}
	return "unknown", bandColors["unknown"]
}

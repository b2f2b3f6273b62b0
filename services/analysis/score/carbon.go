// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package score

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorldRegion is the fallback region every carbon table must carry.
const WorldRegion = "world"

// Table maps region codes to carbon intensity in grams of CO2 per
// watt-hour. Immutable after construction.
type Table struct {
	factors map[string]float64
}

// defaultFactors are annual-average grid intensities (g CO2 / Wh).
// Region codes follow ISO 3166-1 alpha-2 plus the "world" aggregate.
var defaultFactors = map[string]float64{
	WorldRegion: 0.481,
	"US":        0.383,
	"CA":        0.129,
	"BR":        0.096,
	"GB":        0.228,
	"FR":        0.056,
	"DE":        0.345,
	"PL":        0.657,
	"SE":        0.029,
	"NO":        0.026,
	"IN":        0.708,
	"CN":        0.541,
	"JP":        0.462,
	"KR":        0.432,
	"AU":        0.503,
	"ZA":        0.709,
}

// DefaultTable returns the built-in intensity table.
func DefaultTable() Table {
	return Table{factors: defaultFactors}
}

// NewTable builds a table from explicit factors. The world aggregate is
// mandatory because it backs the unknown-region fallback.
func NewTable(factors map[string]float64) (Table, error) {
	if _, ok := factors[WorldRegion]; !ok {
		return Table{}, fmt.Errorf("%w: table has no %q entry", ErrInvalidCarbonTable, WorldRegion)
	}
	copied := make(map[string]float64, len(factors))
	for region, f := range factors {
		if f < 0 {
			return Table{}, fmt.Errorf("%w: negative intensity for %q", ErrInvalidCarbonTable, region)
		}
		copied[normalizeRegion(region)] = f
	}
	return Table{factors: copied}, nil
}

// LoadTable reads a YAML region->intensity mapping from path.
func LoadTable(path string) (Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("read carbon table: %w", err)
	}
	var factors map[string]float64
	if err := yaml.Unmarshal(raw, &factors); err != nil {
		return Table{}, fmt.Errorf("%w: %s: %v", ErrInvalidCarbonTable, path, err)
	}
	return NewTable(factors)
}

// Factor resolves region to an intensity. Unknown or empty regions fall
// back to the world aggregate; the second return is the region actually
// used.
func (t Table) Factor(region string) (float64, string) {
	key := normalizeRegion(region)
	if key != "" {
		if f, ok := t.factors[key]; ok {
			return f, key
		}
	}
	return t.factors[WorldRegion], WorldRegion
}

// Regions returns the sorted region codes in the table.
func (t Table) Regions() []string {
	out := make([]string, 0, len(t.factors))
	for region := range t.factors {
		out = append(out, region)
	}
	sort.Strings(out)
	return out
}

func normalizeRegion(region string) string {
	region = strings.TrimSpace(region)
	if strings.EqualFold(region, WorldRegion) {
		return WorldRegion
	}
	return strings.ToUpper(region)
}

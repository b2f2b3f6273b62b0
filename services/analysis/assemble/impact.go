// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package assemble builds the user-facing result blocks: real-world
// impact equivalences, code details, and the before/after comparison
// for optimized output.
package assemble

import (
	"fmt"

	"github.com/greensight-ai/greensight/services/analysis/score"
)

// Equivalence constants for the impact block: a 60 W bulb draws
// 0.06 kWh per hour, a mature tree absorbs roughly 22 g of CO2 per
// day, and an average passenger car emits roughly 404 g per mile.
const (
	bulbWhPerHour   = 0.06
	treeGramsPerDay = 22.0
	carGramsPerMile = 404.0
)

// Impact translates the estimates into everyday equivalences. All
// figures describe running the submitted code one million times.
type Impact struct {
	// LightBulbHours is how long the energy would run an LED bulb.
	LightBulbHours float64 `json:"light_bulb_hours"`

	// TreeDays is how long one tree needs to absorb the CO2.
	TreeDays float64 `json:"tree_days"`

	// CarMiles is the equivalent distance driven by an average car.
	CarMiles float64 `json:"car_miles"`

	// Summary is a one-sentence plain-language framing.
	Summary string `json:"summary"`
}

// BuildImpact derives the impact block from a metric estimate.
func BuildImpact(est score.MetricEstimate) Impact {
	imp := Impact{
		LightBulbHours: est.EnergyWh / bulbWhPerHour,
		TreeDays:       est.CO2Grams / treeGramsPerDay,
		CarMiles:       est.CO2Grams / carGramsPerMile,
	}
	imp.Summary = fmt.Sprintf(
		"Running this code 1M times uses %.2f Wh, enough to light an LED bulb for %.1f hours, and emits %.2f g of CO2 in region %s.",
		est.EnergyWh, imp.LightBulbHours, est.CO2Grams, est.Region,
	)
	return imp
}

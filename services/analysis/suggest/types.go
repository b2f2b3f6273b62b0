// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package suggest detects energy-inefficient constructs in submitted
// code and produces ranked before/after optimization suggestions. Each
// suggestion carries a projected metric improvement obtained by
// re-scoring a counterfactual feature vector with the finding removed.
package suggest

import (
	"github.com/greensight-ai/greensight/services/analysis/feature"
)

// Severity indicates the expected impact of a finding.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// severityRank converts severity to a sortable rank.
func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Improvement is the projected metric change from applying one
// suggestion, expressed as savings: positive values are better.
type Improvement struct {
	// GreenScoreGain is the projected green score increase.
	GreenScoreGain float64 `json:"green_score_gain"`

	// EnergySavedWh is the projected energy reduction in watt-hours.
	EnergySavedWh float64 `json:"energy_saved_wh"`

	// CO2SavedGrams is the projected CO2 reduction in grams.
	CO2SavedGrams float64 `json:"co2_saved_g"`

	// MemorySavedMB is the projected memory reduction in megabytes.
	MemorySavedMB float64 `json:"memory_saved_mb"`

	// CPUSavedMs is the projected CPU time reduction.
	CPUSavedMs float64 `json:"cpu_saved_ms"`
}

// Suggestion is one ranked optimization opportunity.
type Suggestion struct {
	// RuleID identifies the rule that fired.
	RuleID string `json:"rule_id"`

	// Title is a short human-readable name for the finding.
	Title string `json:"title"`

	// Finding describes what was found and where.
	Finding string `json:"finding"`

	// Line is the 1-based line of the first match.
	Line int `json:"line"`

	// BeforeCode is the offending source line.
	BeforeCode string `json:"before_code"`

	// AfterCode shows the suggested replacement shape.
	AfterCode string `json:"after_code"`

	// Explanation says why the change reduces resource use.
	Explanation string `json:"explanation"`

	// Severity ranks the expected impact.
	Severity Severity `json:"severity"`

	// Occurrences is how many times the rule matched.
	Occurrences int `json:"occurrences"`

	// Improvement is the counterfactual re-scoring delta.
	Improvement Improvement `json:"improvement"`
}

// deltaFunc adjusts a cloned feature vector as if the finding were
// fixed. n is the number of matches.
type deltaFunc func(vec *feature.Vector, n int)

// rewriteFunc mechanically applies a fix to whole source text. The
// bool reports whether anything changed.
type rewriteFunc func(code string) (string, bool)

// afterFunc renders the suggested replacement for a match in the given
// language.
type afterFunc func(match []string, language string) string

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/greensight-ai/greensight/services/analysis"
)

// writeJSON emits the value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderAnalysis prints a human-readable analysis report.
func renderAnalysis(w io.Writer, result *analysis.AnalysisResult) {
	detected := ""
	if result.LanguageDetected {
		detected = " (detected)"
	}
	fmt.Fprintf(w, "Language:    %s%s\n", result.Language, detected)
	fmt.Fprintf(w, "Green score: %.1f / 100\n", result.Metrics.GreenScore)
	fmt.Fprintf(w, "Energy:      %.4f Wh  (region %s)\n", result.Metrics.EnergyWh, result.Metrics.Region)
	fmt.Fprintf(w, "CO2:         %.4f g\n", result.Metrics.CO2Grams)
	fmt.Fprintf(w, "Memory:      %.2f MB\n", result.Metrics.MemoryMB)
	fmt.Fprintf(w, "CPU:         %.4f ms\n", result.Metrics.CPUTimeMs)
	fmt.Fprintln(w)
	fmt.Fprintln(w, result.Impact.Summary)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Structure: %d lines, %d functions, %d loops, complexity %s\n",
		result.Details.LinesOfCode, result.Details.Functions,
		result.Details.Loops, result.Details.ComplexityClass)

	if len(result.Suggestions) == 0 {
		fmt.Fprintln(w, "\nNo optimization suggestions. Nice.")
		return
	}

	fmt.Fprintf(w, "\nSuggestions (%d):\n", len(result.Suggestions))
	for i, s := range result.Suggestions {
		fmt.Fprintf(w, "\n%d. [%s] %s (line %d)\n", i+1, s.Severity, s.Title, s.Line)
		fmt.Fprintf(w, "   %s\n", s.Finding)
		fmt.Fprintf(w, "   before: %s\n", strings.TrimSpace(s.BeforeCode))
		if s.AfterCode != "" {
			fmt.Fprintf(w, "   after:  %s\n", strings.TrimSpace(s.AfterCode))
		}
		fmt.Fprintf(w, "   saves:  %.2f green score, %.4f Wh, %.4f g CO2\n",
			s.Improvement.GreenScoreGain,
			s.Improvement.EnergySavedWh,
			s.Improvement.CO2SavedGrams)
	}
}

// renderOptimization prints the before/after comparison.
func renderOptimization(w io.Writer, result *analysis.OptimizeResult) {
	if len(result.AppliedRules) == 0 {
		fmt.Fprintln(w, "No mechanical rewrites applied; code is unchanged.")
		renderAnalysis(w, &result.AnalysisResult)
		return
	}

	fmt.Fprintf(w, "Applied rules: %s\n\n", strings.Join(result.AppliedRules, ", "))

	if result.Comparison != nil {
		fmt.Fprintf(w, "%-12s %-10s %12s %12s %12s\n", "metric", "unit", "before", "after", "delta")
		for _, row := range result.Comparison.Rows {
			fmt.Fprintf(w, "%-12s %-10s %12.4f %12.4f %+12.4f\n",
				row.Metric, row.Unit, row.Before, row.After, row.Delta)
		}
		fmt.Fprintf(w, "\n%d line(s) added, %d removed\n",
			result.Comparison.Stats.LinesAdded, result.Comparison.Stats.LinesRemoved)
		if result.Comparison.Diff != "" {
			fmt.Fprintf(w, "\n%s\n", result.Comparison.Diff)
		}
	}

	fmt.Fprintln(w, "\nOptimized code:")
	fmt.Fprintln(w, result.OptimizedCode)
}

// renderRules prints the rule catalog.
func renderRules(w io.Writer, rules []analysis.RuleInfo) {
	for _, r := range rules {
		langs := "all"
		if len(r.Languages) > 0 {
			langs = strings.Join(r.Languages, ", ")
		}
		fmt.Fprintf(w, "%-28s %-6s [%s]\n", r.ID, r.Severity, langs)
		fmt.Fprintf(w, "    %s\n", r.Explanation)
	}
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assemble

import (
	"fmt"
	"strings"

	"github.com/sourcegraph/go-diff/diff"

	"github.com/greensight-ai/greensight/services/analysis/score"
)

// ComparisonRow is one metric in the before/after table. Delta is
// after minus before, so negative cost deltas are wins.
type ComparisonRow struct {
	Metric string  `json:"metric"`
	Unit   string  `json:"unit"`
	Before float64 `json:"before"`
	After  float64 `json:"after"`
	Delta  float64 `json:"delta"`
}

// DiffStats counts changed lines in the rendered diff.
type DiffStats struct {
	LinesAdded   int `json:"lines_added"`
	LinesRemoved int `json:"lines_removed"`
}

// Comparison is the optimize-path result block: the metric table, the
// unified diff between original and optimized source, and its stats.
type Comparison struct {
	Rows  []ComparisonRow `json:"rows"`
	Diff  string          `json:"diff"`
	Stats DiffStats       `json:"stats"`
}

// BuildComparison assembles the comparison for an optimize request.
//
// Inputs:
//   - before, after: the scored estimates for the original and the
//     optimized code.
//   - original, optimized: the two source texts.
//   - filename: display name used in the diff headers.
func BuildComparison(before, after score.MetricEstimate, original, optimized, filename string) (*Comparison, error) {
	unified := renderUnifiedDiff(original, optimized, filename)
	stats, err := diffStats(unified)
	if err != nil {
		return nil, fmt.Errorf("computing diff stats: %w", err)
	}

	return &Comparison{
		Rows: []ComparisonRow{
			row("green_score", "points", before.GreenScore, after.GreenScore),
			row("energy", "Wh", before.EnergyWh, after.EnergyWh),
			row("co2", "g", before.CO2Grams, after.CO2Grams),
			row("memory", "MB", before.MemoryMB, after.MemoryMB),
			row("cpu", "ms", before.CPUTimeMs, after.CPUTimeMs),
		},
		Diff:  unified,
		Stats: stats,
	}, nil
}

func row(metric, unit string, before, after float64) ComparisonRow {
	return ComparisonRow{
		Metric: metric,
		Unit:   unit,
		Before: before,
		After:  after,
		Delta:  after - before,
	}
}

// renderUnifiedDiff produces a single-hunk unified diff covering the
// changed region, with unchanged leading and trailing lines trimmed.
// Identical inputs produce an empty diff.
func renderUnifiedDiff(original, optimized, filename string) string {
	if original == optimized {
		return ""
	}
	if filename == "" {
		filename = "submission"
	}

	oldLines := strings.Split(strings.TrimSuffix(original, "\n"), "\n")
	newLines := strings.Split(strings.TrimSuffix(optimized, "\n"), "\n")

	prefix := 0
	for prefix < len(oldLines) && prefix < len(newLines) && oldLines[prefix] == newLines[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(oldLines)-prefix && suffix < len(newLines)-prefix &&
		oldLines[len(oldLines)-1-suffix] == newLines[len(newLines)-1-suffix] {
		suffix++
	}

	oldChanged := oldLines[prefix : len(oldLines)-suffix]
	newChanged := newLines[prefix : len(newLines)-suffix]

	// A zero-length range addresses the line before the hunk.
	oldStart, newStart := prefix+1, prefix+1
	if len(oldChanged) == 0 {
		oldStart = prefix
	}
	if len(newChanged) == 0 {
		newStart = prefix
	}

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n", filename)
	fmt.Fprintf(&b, "+++ b/%s\n", filename)
	fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, len(oldChanged), newStart, len(newChanged))
	for _, line := range oldChanged {
		b.WriteString("-" + line + "\n")
	}
	for _, line := range newChanged {
		b.WriteString("+" + line + "\n")
	}
	return b.String()
}

// diffStats parses the rendered diff back and counts added and removed
// lines across all hunks.
func diffStats(unified string) (DiffStats, error) {
	var stats DiffStats
	if unified == "" {
		return stats, nil
	}

	files, err := diff.NewMultiFileDiffReader(strings.NewReader(unified)).ReadAllFiles()
	if err != nil {
		return stats, err
	}
	for _, f := range files {
		for _, hunk := range f.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				switch {
				case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
				case strings.HasPrefix(line, "+"):
					stats.LinesAdded++
				case strings.HasPrefix(line, "-"):
					stats.LinesRemoved++
				}
			}
		}
	}
	return stats, nil
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assemble

import (
	"math"
	"strings"
	"testing"

	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/score"
)

func TestBuildImpact(t *testing.T) {
	est := score.MetricEstimate{
		EnergyWh: 1.2,
		CO2Grams: 44,
		Region:   "US",
	}
	imp := BuildImpact(est)

	if math.Abs(imp.LightBulbHours-20) > 1e-9 {
		t.Errorf("expected 20 bulb hours, got %v", imp.LightBulbHours)
	}
	if math.Abs(imp.TreeDays-2) > 1e-9 {
		t.Errorf("expected 2 tree days, got %v", imp.TreeDays)
	}
	if math.Abs(imp.CarMiles-44.0/404.0) > 1e-9 {
		t.Errorf("expected %v car miles, got %v", 44.0/404.0, imp.CarMiles)
	}
	if !strings.Contains(imp.Summary, "1M times") {
		t.Errorf("summary missing framing: %q", imp.Summary)
	}
	if !strings.Contains(imp.Summary, "US") {
		t.Errorf("summary missing region: %q", imp.Summary)
	}
}

func TestBuildDetails(t *testing.T) {
	var vec feature.Vector
	vec[feature.LineCount] = 12
	vec[feature.CommentLines] = 3
	vec[feature.FunctionCount] = 2
	vec[feature.LoopCount] = 2
	vec[feature.MaxLoopDepth] = 2
	vec[feature.CyclomaticEstimate] = 5

	d := BuildDetails(vec)
	if d.LinesOfCode != 12 || d.CommentLines != 3 || d.Functions != 2 {
		t.Errorf("unexpected details: %+v", d)
	}
	if d.ComplexityClass != "O(n^2)" {
		t.Errorf("expected O(n^2), got %s", d.ComplexityClass)
	}
	if d.Recursive {
		t.Errorf("expected non-recursive")
	}
}

func TestComplexityClass(t *testing.T) {
	tests := []struct {
		depth     int
		recursive bool
		want      string
	}{
		{0, false, "O(1)"},
		{0, true, "O(n)"},
		{1, false, "O(n)"},
		{2, false, "O(n^2)"},
		{3, false, "O(n^3+)"},
	}
	for _, tt := range tests {
		if got := complexityClass(tt.depth, tt.recursive); got != tt.want {
			t.Errorf("depth %d recursive %v: expected %s, got %s",
				tt.depth, tt.recursive, tt.want, got)
		}
	}
}

func TestBuildComparison(t *testing.T) {
	before := score.MetricEstimate{GreenScore: 60, EnergyWh: 4, CO2Grams: 2, MemoryMB: 30, CPUTimeMs: 1}
	after := score.MetricEstimate{GreenScore: 80, EnergyWh: 2, CO2Grams: 1, MemoryMB: 25, CPUTimeMs: 0.5}

	original := "line one\nline two\nline three\n"
	optimized := "line one\nline 2\nline three\n"

	cmp, err := BuildComparison(before, after, original, optimized, "sample.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cmp.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(cmp.Rows))
	}
	greenRow := cmp.Rows[0]
	if greenRow.Metric != "green_score" || greenRow.Delta != 20 {
		t.Errorf("unexpected green row: %+v", greenRow)
	}
	energyRow := cmp.Rows[1]
	if energyRow.Delta != -2 {
		t.Errorf("expected energy delta -2, got %v", energyRow.Delta)
	}

	if cmp.Stats.LinesAdded != 1 || cmp.Stats.LinesRemoved != 1 {
		t.Errorf("expected 1 added and 1 removed, got %+v", cmp.Stats)
	}
	if !strings.Contains(cmp.Diff, "-line two") || !strings.Contains(cmp.Diff, "+line 2") {
		t.Errorf("diff missing changed lines:\n%s", cmp.Diff)
	}
	if !strings.Contains(cmp.Diff, "a/sample.py") {
		t.Errorf("diff missing filename header:\n%s", cmp.Diff)
	}
	if strings.Contains(cmp.Diff, "line three") {
		t.Errorf("unchanged suffix should be trimmed:\n%s", cmp.Diff)
	}
}

func TestBuildComparison_NoChange(t *testing.T) {
	est := score.MetricEstimate{GreenScore: 70, EnergyWh: 3}
	code := "print(1)\n"

	cmp, err := BuildComparison(est, est, code, code, "same.py")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Diff != "" {
		t.Errorf("expected empty diff, got %q", cmp.Diff)
	}
	if cmp.Stats.LinesAdded != 0 || cmp.Stats.LinesRemoved != 0 {
		t.Errorf("expected zero stats, got %+v", cmp.Stats)
	}
	for _, r := range cmp.Rows {
		if r.Delta != 0 {
			t.Errorf("expected zero delta for %s, got %v", r.Metric, r.Delta)
		}
	}
}

func TestBuildComparison_MultiLineChange(t *testing.T) {
	before := score.MetricEstimate{}
	after := score.MetricEstimate{}

	original := "a\nb\nc\n"
	optimized := "a\nx\ny\nz\n"

	cmp, err := BuildComparison(before, after, original, optimized, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cmp.Stats.LinesRemoved != 2 {
		t.Errorf("expected 2 removed, got %d", cmp.Stats.LinesRemoved)
	}
	if cmp.Stats.LinesAdded != 3 {
		t.Errorf("expected 3 added, got %d", cmp.Stats.LinesAdded)
	}
}

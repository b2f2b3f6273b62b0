// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/language"
	"github.com/greensight-ai/greensight/services/analysis/model"
	"github.com/greensight-ai/greensight/services/analysis/score"
	"github.com/greensight-ai/greensight/services/analysis/suggest"
)

// newTestService builds a service over linear fixture models where the
// inefficiency counters drive the scores.
func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(newTestRegistry(t), score.DefaultTable(), DefaultServiceConfig())
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func newTestRegistry(t *testing.T) *model.Registry {
	t.Helper()

	mk := func(metric string, intercept float64, weightAt map[int]float64) model.Model {
		weights := make([]float64, feature.Arity)
		for idx, w := range weightAt {
			weights[idx] = w
		}
		m, err := model.NewLinear(metric, "fixture", intercept, weights)
		if err != nil {
			t.Fatalf("building %s model: %v", metric, err)
		}
		return m
	}

	reg, err := model.NewRegistry(map[string]model.Model{
		model.MetricGreenScore: mk(model.MetricGreenScore, 95, map[int]float64{
			feature.ConcatInLoopCount:   -10,
			feature.IndexIterationCount: -5,
			feature.LoopCount:           -2,
		}),
		model.MetricEnergy: mk(model.MetricEnergy, 1, map[int]float64{
			feature.ConcatInLoopCount:   2,
			feature.IndexIterationCount: 1,
			feature.LoopCount:           0.5,
		}),
		model.MetricMemory: mk(model.MetricMemory, 20, map[int]float64{
			feature.AllocInLoopCount: 5,
		}),
		model.MetricCPU: mk(model.MetricCPU, 0.2, map[int]float64{
			feature.LoopCount: 0.1,
		}),
	})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return reg
}

const wastefulPython = `def build(items):
    output = ""
    for i in range(len(items)):
        output += str(items[i])
    return output
`

func TestAnalyze_Python(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     wastefulPython,
		Language: "python",
		Region:   "FR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Language != "python" {
		t.Errorf("expected python, got %s", result.Language)
	}
	if result.LanguageDetected {
		t.Errorf("language was declared, not detected")
	}
	if result.Metrics.Region != "FR" {
		t.Errorf("expected region FR, got %s", result.Metrics.Region)
	}
	if result.Metrics.GreenScore <= 0 || result.Metrics.GreenScore >= 100 {
		t.Errorf("expected green score strictly inside (0,100), got %v", result.Metrics.GreenScore)
	}

	factor, _ := score.DefaultTable().Factor("FR")
	if math.Abs(result.Metrics.CO2Grams-result.Metrics.EnergyWh*factor) > 1e-9 {
		t.Errorf("co2 not derived from energy")
	}

	if len(result.Suggestions) == 0 {
		t.Fatalf("expected suggestions for wasteful code")
	}
	if result.Suggestions[0].Severity != suggest.SeverityHigh {
		t.Errorf("expected HIGH first, got %s", result.Suggestions[0].Severity)
	}

	if !strings.Contains(result.Impact.Summary, "1M times") {
		t.Errorf("impact summary missing framing: %q", result.Impact.Summary)
	}
	if result.Details.LinesOfCode == 0 || result.Details.Loops == 0 {
		t.Errorf("details not populated: %+v", result.Details)
	}
	if result.ModelVersions[model.MetricEnergy] != "fixture" {
		t.Errorf("model versions not reported: %+v", result.ModelVersions)
	}
}

func TestAnalyze_SingleLineLoop(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     "for i in range(n): s += str(i)",
		Language: "python",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, s := range result.Suggestions {
		if s.RuleID == "string-concat-in-loop" {
			found = true
			if s.Improvement.GreenScoreGain <= 0 {
				t.Errorf("expected positive green gain, got %v", s.Improvement.GreenScoreGain)
			}
		}
	}
	if !found {
		t.Errorf("concat rule missed the inline loop body: %+v", result.Suggestions)
	}
}

func TestAnalyze_AutoDetect(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     wastefulPython,
		Language: "auto",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Language != "python" || !result.LanguageDetected {
		t.Errorf("expected detected python, got %s (detected=%v)",
			result.Language, result.LanguageDetected)
	}
	if result.Metrics.Region != score.WorldRegion {
		t.Errorf("expected world fallback, got %s", result.Metrics.Region)
	}
}

func TestAnalyze_ConfiguredDefaultRegion(t *testing.T) {
	cfg := DefaultServiceConfig()
	cfg.DefaultRegion = "FR"
	svc, err := NewService(newTestRegistry(t), score.DefaultTable(), cfg)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	// No region on the request: the configured default applies.
	result, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     wastefulPython,
		Language: "python",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metrics.Region != "FR" {
		t.Errorf("expected configured default region FR, got %s", result.Metrics.Region)
	}

	// An explicit region still wins over the default.
	result, err = svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     wastefulPython,
		Language: "python",
		Region:   "DE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metrics.Region != "DE" {
		t.Errorf("expected explicit region DE, got %s", result.Metrics.Region)
	}
}

func TestAnalyze_LanguageMismatch(t *testing.T) {
	svc := newTestService(t)

	jsCode := "const x = [];\nconsole.log(x === undefined);\n"
	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     jsCode,
		Language: "python",
	})
	if !errors.Is(err, language.ErrMismatch) {
		t.Errorf("expected ErrMismatch, got %v", err)
	}
}

func TestAnalyze_NotCode(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     "   ",
		Language: "python",
	})
	if !errors.Is(err, language.ErrNotCode) {
		t.Errorf("expected ErrNotCode, got %v", err)
	}
}

func TestAnalyze_DetectionFailure(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Analyze(context.Background(), AnalyzeRequest{
		Code:     "zz = qq",
		Language: "auto",
	})
	if !errors.Is(err, ErrDetectionFailed) {
		t.Errorf("expected ErrDetectionFailed, got %v", err)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	svc := newTestService(t)
	req := AnalyzeRequest{Code: wastefulPython, Language: "python", Region: "DE"}

	first, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := svc.Analyze(context.Background(), req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again.Metrics != first.Metrics {
			t.Fatalf("metrics changed between runs: %+v vs %+v", again.Metrics, first.Metrics)
		}
		if len(again.Suggestions) != len(first.Suggestions) {
			t.Fatalf("suggestion count changed between runs")
		}
	}
}

func TestOptimize_AppliesRewrites(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.Optimize(context.Background(), OptimizeRequest{
		Code:     wastefulPython,
		Language: "python",
		Filename: "build.py",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	found := false
	for _, id := range result.AppliedRules {
		if id == "index-iteration" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected index-iteration applied, got %v", result.AppliedRules)
	}

	if !strings.Contains(result.OptimizedCode, "enumerate(items)") {
		t.Errorf("optimized code missing rewrite: %q", result.OptimizedCode)
	}
	if strings.Contains(result.OptimizedCode, "range(len(") {
		t.Errorf("original pattern still present: %q", result.OptimizedCode)
	}

	if result.OptimizedMetrics.GreenScore <= result.Metrics.GreenScore {
		t.Errorf("expected green improvement: %v -> %v",
			result.Metrics.GreenScore, result.OptimizedMetrics.GreenScore)
	}

	if result.Comparison == nil || len(result.Comparison.Rows) != 5 {
		t.Fatalf("expected 5 comparison rows, got %+v", result.Comparison)
	}
	if result.Comparison.Stats.LinesAdded == 0 || result.Comparison.Stats.LinesRemoved == 0 {
		t.Errorf("expected diff stats, got %+v", result.Comparison.Stats)
	}
	if !strings.Contains(result.Comparison.Diff, "build.py") {
		t.Errorf("diff missing filename: %q", result.Comparison.Diff)
	}
}

func TestOptimize_AlreadyOptimal(t *testing.T) {
	svc := newTestService(t)
	code := `def build(items):
    return ",".join(str(item) for item in items)
`
	result, err := svc.Optimize(context.Background(), OptimizeRequest{
		Code:     code,
		Language: "python",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.OptimizedCode != code {
		t.Errorf("expected code unchanged, got %q", result.OptimizedCode)
	}
	if len(result.AppliedRules) != 0 {
		t.Errorf("expected no applied rules, got %v", result.AppliedRules)
	}
	if result.Comparison.Diff != "" {
		t.Errorf("expected empty diff, got %q", result.Comparison.Diff)
	}
	for _, r := range result.Comparison.Rows {
		if r.Delta != 0 {
			t.Errorf("expected zero delta for %s, got %v", r.Metric, r.Delta)
		}
	}
}

func TestServiceRules(t *testing.T) {
	svc := newTestService(t)
	rules := svc.Rules()
	if len(rules) == 0 {
		t.Fatalf("expected rules")
	}
	for _, r := range rules {
		if r.ID == "" || r.Explanation == "" {
			t.Errorf("rule missing fields: %+v", r)
		}
	}
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/model"
	"github.com/greensight-ai/greensight/services/analysis/score"
)

// newTestGenerator builds a generator over linear models where the
// inefficiency counters carry all the weight, so modeled fixes move
// the scores predictably.
func newTestGenerator(t *testing.T) *Generator {
	t.Helper()

	mk := func(metric string, intercept float64, weightAt map[int]float64) model.Model {
		weights := make([]float64, feature.Arity)
		for idx, w := range weightAt {
			weights[idx] = w
		}
		m, err := model.NewLinear(metric, "test", intercept, weights)
		if err != nil {
			t.Fatalf("building %s model: %v", metric, err)
		}
		return m
	}

	reg, err := model.NewRegistry(map[string]model.Model{
		model.MetricGreenScore: mk(model.MetricGreenScore, 90, map[int]float64{
			feature.ConcatInLoopCount:   -10,
			feature.IndexIterationCount: -5,
		}),
		model.MetricEnergy: mk(model.MetricEnergy, 1, map[int]float64{
			feature.ConcatInLoopCount:   2,
			feature.IndexIterationCount: 1,
		}),
		model.MetricMemory: mk(model.MetricMemory, 20, map[int]float64{
			feature.ConcatInLoopCount: 5,
		}),
		model.MetricCPU: mk(model.MetricCPU, 0.2, map[int]float64{
			feature.IndexIterationCount: 0.1,
		}),
	})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}

	eng, err := score.NewEngine(reg, score.DefaultTable())
	if err != nil {
		t.Fatalf("building engine: %v", err)
	}
	gen, err := NewGenerator(eng)
	if err != nil {
		t.Fatalf("building generator: %v", err)
	}
	return gen
}

const wastefulPython = `def build(items):
    output = ""
    for i in range(len(items)):
        output += str(items[i])
    return output
`

func baselineFor(t *testing.T, gen *Generator, vec feature.Vector, region string) score.MetricEstimate {
	t.Helper()
	est, err := gen.engine.Score(context.Background(), vec, region)
	if err != nil {
		t.Fatalf("scoring baseline: %v", err)
	}
	return est
}

func TestSuggest_RankedFindings(t *testing.T) {
	gen := newTestGenerator(t)

	var vec feature.Vector
	vec[feature.ConcatInLoopCount] = 1
	vec[feature.IndexIterationCount] = 1
	baseline := baselineFor(t, gen, vec, "FR")

	suggs, err := gen.Suggest(context.Background(), wastefulPython, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggs) != 2 {
		t.Fatalf("expected 2 suggestions, got %d: %+v", len(suggs), suggs)
	}

	if suggs[0].RuleID != "string-concat-in-loop" {
		t.Errorf("expected concat rule first, got %s", suggs[0].RuleID)
	}
	if suggs[0].Severity != SeverityHigh {
		t.Errorf("expected HIGH severity, got %s", suggs[0].Severity)
	}
	if suggs[1].RuleID != "index-iteration" {
		t.Errorf("expected index rule second, got %s", suggs[1].RuleID)
	}

	// Modeled fix removes the concat counter: green 75 -> 85.
	if math.Abs(suggs[0].Improvement.GreenScoreGain-10) > 1e-9 {
		t.Errorf("expected green gain 10, got %v", suggs[0].Improvement.GreenScoreGain)
	}
	if suggs[0].Improvement.EnergySavedWh <= 0 {
		t.Errorf("expected positive energy savings, got %v", suggs[0].Improvement.EnergySavedWh)
	}

	factor, _ := gen.engine.Carbon().Factor("FR")
	wantCO2 := suggs[0].Improvement.EnergySavedWh * factor
	if math.Abs(suggs[0].Improvement.CO2SavedGrams-wantCO2) > 1e-9 {
		t.Errorf("co2 savings %v not derived from energy savings %v",
			suggs[0].Improvement.CO2SavedGrams, wantCO2)
	}

	if suggs[0].Line != 4 {
		t.Errorf("expected concat finding on line 4, got %d", suggs[0].Line)
	}
	if !strings.Contains(suggs[0].BeforeCode, "output +=") {
		t.Errorf("unexpected before code: %q", suggs[0].BeforeCode)
	}
	if !strings.Contains(suggs[0].AfterCode, "join") {
		t.Errorf("expected join in after code, got %q", suggs[0].AfterCode)
	}
	if !strings.Contains(suggs[1].AfterCode, "enumerate(items)") {
		t.Errorf("expected enumerate in after code, got %q", suggs[1].AfterCode)
	}
}

func TestSuggest_CleanCodeYieldsNothing(t *testing.T) {
	gen := newTestGenerator(t)
	code := `def build(items):
    return ",".join(str(item) for item in items)
`
	var vec feature.Vector
	baseline := baselineFor(t, gen, vec, "")

	suggs, err := gen.Suggest(context.Background(), code, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggs) != 0 {
		t.Errorf("expected no suggestions, got %+v", suggs)
	}
}

func TestSuggest_LoopScopedRulesNeedALoop(t *testing.T) {
	gen := newTestGenerator(t)
	// Concatenation at top level: wasteful-looking but not loop-bound.
	code := `greeting = ""
greeting += "hello"
greeting += "world"
`
	var vec feature.Vector
	baseline := baselineFor(t, gen, vec, "")

	suggs, err := gen.Suggest(context.Background(), code, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range suggs {
		if s.RuleID == "string-concat-in-loop" {
			t.Errorf("loop-scoped rule fired outside a loop")
		}
	}
}

func TestSuggest_InlineLoopBody(t *testing.T) {
	gen := newTestGenerator(t)
	code := "for i in range(n): s += str(i)\n"
	var vec feature.Vector
	vec[feature.ConcatInLoopCount] = 1
	baseline := baselineFor(t, gen, vec, "")

	suggs, err := gen.Suggest(context.Background(), code, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, s := range suggs {
		if s.RuleID == "string-concat-in-loop" {
			found = true
			if s.Improvement.GreenScoreGain <= 0 {
				t.Errorf("expected positive green gain, got %v", s.Improvement.GreenScoreGain)
			}
		}
	}
	if !found {
		t.Errorf("concat rule missed single-line loop body: %+v", suggs)
	}
}

func TestSuggest_CacheHitReturnsCopy(t *testing.T) {
	gen := newTestGenerator(t)
	var vec feature.Vector
	vec[feature.ConcatInLoopCount] = 1
	baseline := baselineFor(t, gen, vec, "")

	first, err := gen.Suggest(context.Background(), wastefulPython, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("expected suggestions")
	}
	hit, err := gen.Suggest(context.Background(), wastefulPython, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hit[0].RuleID = "mutated"

	again, err := gen.Suggest(context.Background(), wastefulPython, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again[0].RuleID != first[0].RuleID {
		t.Errorf("cached suggestions mutated through a returned slice: got %s", again[0].RuleID)
	}
}

func TestSuggest_Deterministic(t *testing.T) {
	gen := newTestGenerator(t)
	var vec feature.Vector
	vec[feature.ConcatInLoopCount] = 2
	vec[feature.IndexIterationCount] = 1
	baseline := baselineFor(t, gen, vec, "DE")

	first, err := gen.Suggest(context.Background(), wastefulPython, "python", vec, baseline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := gen.Suggest(context.Background(), wastefulPython, "python", vec, baseline)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(again) != len(first) {
			t.Fatalf("result count changed on run %d", i)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("suggestion %d changed on run %d", j, i)
			}
		}
	}
}

func TestRewrite_IndexIteration(t *testing.T) {
	gen := newTestGenerator(t)
	code := `for i in range(len(items)):
    print(items[i])
`
	out, applied := gen.Rewrite(code, "python")
	if len(applied) != 1 || applied[0] != "index-iteration" {
		t.Fatalf("expected index-iteration applied, got %v", applied)
	}
	if !strings.Contains(out, "for i, value in enumerate(items):") {
		t.Errorf("header not rewritten: %q", out)
	}
	if strings.Contains(out, "items[i]") {
		t.Errorf("subscript not rewritten: %q", out)
	}
	if !strings.Contains(out, "print(value)") {
		t.Errorf("expected value substitution, got %q", out)
	}
}

func TestRewrite_IndexIterationScopedToLoopBody(t *testing.T) {
	gen := newTestGenerator(t)
	// The same subscript appears after the loop; only the loop body
	// copy may change.
	code := `for i in range(len(items)):
    print(items[i])
last = items[i]
`
	out, applied := gen.Rewrite(code, "python")
	if len(applied) != 1 || applied[0] != "index-iteration" {
		t.Fatalf("expected index-iteration applied, got %v", applied)
	}
	if !strings.Contains(out, "print(value)") {
		t.Errorf("loop body subscript not rewritten: %q", out)
	}
	if !strings.Contains(out, "last = items[i]") {
		t.Errorf("subscript outside the loop was rewritten: %q", out)
	}
}

func TestRewrite_EagerMaterialization(t *testing.T) {
	gen := newTestGenerator(t)
	code := "total = sum([x * x for x in xs])\n"

	out, applied := gen.Rewrite(code, "python")
	if len(applied) != 1 || applied[0] != "eager-materialization" {
		t.Fatalf("expected eager-materialization applied, got %v", applied)
	}
	if out != "total = sum(x * x for x in xs)\n" {
		t.Errorf("unexpected rewrite: %q", out)
	}
}

func TestRewrite_NoChange(t *testing.T) {
	gen := newTestGenerator(t)
	code := "print(\"hello\")\n"

	out, applied := gen.Rewrite(code, "python")
	if out != code {
		t.Errorf("code changed unexpectedly: %q", out)
	}
	if len(applied) != 0 {
		t.Errorf("expected no rules applied, got %v", applied)
	}
}

func TestRules_HaveRequiredFields(t *testing.T) {
	gen := newTestGenerator(t)
	seen := map[string]bool{}
	for _, r := range gen.Rules() {
		if r.ID == "" || r.Title == "" || r.Explanation == "" {
			t.Errorf("rule %+v missing identity fields", r)
		}
		if seen[r.ID] {
			t.Errorf("duplicate rule id %s", r.ID)
		}
		seen[r.ID] = true
		if severityRank(r.Severity) == 0 {
			t.Errorf("rule %s has unknown severity %s", r.ID, r.Severity)
		}
	}
}

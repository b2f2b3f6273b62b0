// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/score"
)

// defaultCacheSize is the number of suggestion sets kept in memory.
const defaultCacheSize = 1024

// Generator runs the rule set over submissions and ranks the results.
//
// # Description
//
// For each firing rule the generator clones the baseline feature
// vector, applies the rule's modeled fix, re-scores the clone, and
// reports the difference as the projected improvement. Results are
// ranked by severity, then green score gain, then rule order, and the
// full set is cached by submission hash.
//
// Thread Safety: safe for concurrent use.
type Generator struct {
	engine *score.Engine
	rules  []Rule
	cache  *lru.Cache[string, []Suggestion]
}

// NewGenerator builds a Generator over engine with the default rules.
func NewGenerator(engine *score.Engine) (*Generator, error) {
	cache, err := lru.New[string, []Suggestion](defaultCacheSize)
	if err != nil {
		return nil, fmt.Errorf("suggestion cache: %w", err)
	}
	return &Generator{engine: engine, rules: registry(), cache: cache}, nil
}

// Rules exposes the rule set for documentation endpoints and tests.
func (g *Generator) Rules() []Rule { return g.rules }

// Suggest returns ranked suggestions for code.
//
// Inputs:
//   - ctx: cancellation for counterfactual scoring.
//   - code, language: the validated submission.
//   - base: the extracted feature vector for code.
//   - baseline: the scored metrics for base, already region-resolved.
func (g *Generator) Suggest(ctx context.Context, code, language string, base feature.Vector, baseline score.MetricEstimate) ([]Suggestion, error) {
	key := cacheKey(code, language, baseline.Region)
	if cached, ok := g.cache.Get(key); ok {
		// Callers may reorder or edit the result; hand out a copy so
		// the cached set stays pristine.
		out := make([]Suggestion, len(cached))
		copy(out, cached)
		return out, nil
	}

	spans := feature.LoopBodySpans(code, language)
	var out []Suggestion
	for i := range g.rules {
		rule := &g.rules[i]
		if !rule.AppliesTo(language) {
			continue
		}
		s, ok, err := g.evaluate(ctx, rule, code, language, spans, base, baseline)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, s)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if severityRank(out[i].Severity) != severityRank(out[j].Severity) {
			return severityRank(out[i].Severity) > severityRank(out[j].Severity)
		}
		if out[i].Improvement.GreenScoreGain != out[j].Improvement.GreenScoreGain {
			return out[i].Improvement.GreenScoreGain > out[j].Improvement.GreenScoreGain
		}
		return out[i].Line < out[j].Line
	})

	g.cache.Add(key, out)
	return out, nil
}

// evaluate runs one rule against code and builds its suggestion.
func (g *Generator) evaluate(ctx context.Context, rule *Rule, code, language string, spans []feature.Span, base feature.Vector, baseline score.MetricEstimate) (Suggestion, bool, error) {
	locs := rule.pattern.FindAllStringSubmatchIndex(code, -1)
	if rule.loopScoped {
		locs = filterInSpans(locs, spans)
	}
	if len(locs) == 0 {
		return Suggestion{}, false, nil
	}

	first := locs[0]
	match := submatches(code, first)
	line := 1 + strings.Count(code[:first[0]], "\n")

	s := Suggestion{
		RuleID:      rule.ID,
		Title:       rule.Title,
		Finding:     fmt.Sprintf("%s at line %d", rule.Title, line),
		Line:        line,
		BeforeCode:  lineAt(code, first[0]),
		Explanation: rule.Explanation,
		Severity:    rule.Severity,
		Occurrences: len(locs),
	}
	if rule.after != nil {
		s.AfterCode = rule.after(match, language)
	}

	if rule.delta != nil {
		counterfactual := base.Clone()
		rule.delta(&counterfactual, len(locs))
		projected, err := g.engine.Score(ctx, counterfactual, baseline.Region)
		if err != nil {
			return Suggestion{}, false, err
		}
		s.Improvement = Improvement{
			GreenScoreGain:  projected.GreenScore - baseline.GreenScore,
			EnergySavedWh:   baseline.EnergyWh - projected.EnergyWh,
			CO2SavedGrams:   baseline.CO2Grams - projected.CO2Grams,
			MemorySavedMB:   baseline.MemoryMB - projected.MemoryMB,
			CPUSavedMs:      baseline.CPUTimeMs - projected.CPUTimeMs,
		}
	}
	return s, true, nil
}

// Rewrite mechanically applies every rewritable rule for language and
// returns the new code plus the IDs of the rules that changed it.
func (g *Generator) Rewrite(code, language string) (string, []string) {
	var applied []string
	out := code
	for i := range g.rules {
		rule := &g.rules[i]
		if rule.rewrite == nil || !rule.AppliesTo(language) {
			continue
		}
		next, changed := rule.rewrite(out)
		if changed {
			out = next
			applied = append(applied, rule.ID)
		}
	}
	return out, applied
}

func cacheKey(code, language, region string) string {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write([]byte(region))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

// filterInSpans keeps matches whose start offset falls in any span.
func filterInSpans(locs [][]int, spans []feature.Span) [][]int {
	var kept [][]int
	for _, loc := range locs {
		for _, sp := range spans {
			if sp.Contains(loc[0]) {
				kept = append(kept, loc)
				break
			}
		}
	}
	return kept
}

// submatches expands a FindAllStringSubmatchIndex entry into strings.
func submatches(code string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := 0; i < len(loc); i += 2 {
		if loc[i] >= 0 {
			out[i/2] = code[loc[i]:loc[i+1]]
		}
	}
	return out
}

// lineAt returns the full line containing offset, trimmed.
func lineAt(code string, offset int) string {
	start := strings.LastIndexByte(code[:offset], '\n') + 1
	end := strings.IndexByte(code[offset:], '\n')
	if end < 0 {
		end = len(code)
	} else {
		end += offset
	}
	return strings.TrimSpace(code[start:end])
}

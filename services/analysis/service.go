// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package analysis is the sustainability analysis service: it
// validates submitted code, extracts features, scores energy, CO2,
// memory, and CPU estimates, and produces ranked optimization
// suggestions with an optional mechanical rewrite.
package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/greensight-ai/greensight/services/analysis/assemble"
	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/language"
	"github.com/greensight-ai/greensight/services/analysis/model"
	"github.com/greensight-ai/greensight/services/analysis/score"
	"github.com/greensight-ai/greensight/services/analysis/suggest"
)

// ServiceVersion is reported by the health endpoint.
const ServiceVersion = "0.1.0"

// ServiceConfig tunes the analysis pipeline.
type ServiceConfig struct {
	// MaxCodeBytes bounds submissions; 0 selects the extractor
	// default.
	MaxCodeBytes int

	// DefaultRegion is applied to requests that name no region; empty
	// falls back to the carbon table's world average.
	DefaultRegion string
}

// DefaultServiceConfig returns the default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxCodeBytes:  feature.DefaultMaxCodeBytes,
		DefaultRegion: score.WorldRegion,
	}
}

// Service wires the pipeline stages together.
//
// Thread Safety: safe for concurrent use once constructed.
type Service struct {
	extractor     *feature.Extractor
	engine        *score.Engine
	generator     *suggest.Generator
	versions      map[string]string
	defaultRegion string
}

// NewService builds a Service over a loaded model registry. Engine and
// generator construction validate the registry, so a service that
// constructs successfully can score every metric.
func NewService(registry *model.Registry, carbon score.Table, cfg ServiceConfig) (*Service, error) {
	engine, err := score.NewEngine(registry, carbon)
	if err != nil {
		return nil, fmt.Errorf("building score engine: %w", err)
	}
	generator, err := suggest.NewGenerator(engine)
	if err != nil {
		return nil, fmt.Errorf("building suggestion generator: %w", err)
	}
	return &Service{
		extractor:     feature.NewExtractor(cfg.MaxCodeBytes),
		engine:        engine,
		generator:     generator,
		versions:      registry.Versions(),
		defaultRegion: cfg.DefaultRegion,
	}, nil
}

// Languages returns the supported language identifiers.
func (s *Service) Languages() []string { return language.Supported() }

// Rules returns documentation for the active suggestion rules.
func (s *Service) Rules() []RuleInfo {
	rules := s.generator.Rules()
	out := make([]RuleInfo, 0, len(rules))
	for i := range rules {
		out = append(out, RuleInfo{
			ID:          rules[i].ID,
			Title:       rules[i].Title,
			Severity:    rules[i].Severity,
			Languages:   rules[i].Languages,
			Explanation: rules[i].Explanation,
		})
	}
	return out
}

// ModelVersions returns metric -> model version.
func (s *Service) ModelVersions() map[string]string { return s.versions }

// Analyze runs the full pipeline for one submission.
//
// Inputs:
//   - ctx: cancellation for extraction and scoring.
//   - req: the submission; Language "auto" or empty triggers
//     detection.
//
// Outputs:
//   - *AnalysisResult on success.
//   - error: language.ErrMismatch, language.ErrNotCode,
//     language.ErrUnsupportedLanguage, feature.ErrExtraction,
//     feature.ErrCodeTooLarge, or score.ErrScoring.
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	start := time.Now()
	ctx, span := startAnalyzeSpan(ctx, "Service.Analyze")
	defer span.End()

	lang, detected, err := s.resolveLanguage(req.Code, req.Language)
	if err != nil {
		recordAnalyze(ctx, lang, time.Since(start), false)
		return nil, err
	}

	vec, err := s.extractor.Extract(ctx, req.Code, lang)
	if err != nil {
		recordAnalyze(ctx, lang, time.Since(start), false)
		return nil, err
	}

	est, err := s.engine.Score(ctx, vec, s.resolveRegion(req.Region))
	if err != nil {
		recordAnalyze(ctx, lang, time.Since(start), false)
		return nil, err
	}

	suggestions, err := s.generator.Suggest(ctx, req.Code, lang, vec, est)
	if err != nil {
		recordAnalyze(ctx, lang, time.Since(start), false)
		return nil, err
	}

	result := &AnalysisResult{
		Language:         lang,
		LanguageDetected: detected,
		Metrics:          est,
		Impact:           assemble.BuildImpact(est),
		Details:          assemble.BuildDetails(vec),
		Suggestions:      suggestions,
		ModelVersions:    s.versions,
	}

	recordAnalyze(ctx, lang, time.Since(start), true)
	recordSuggestions(ctx, len(suggestions))
	setAnalyzeSpanResult(span, est.GreenScore, len(suggestions))
	return result, nil
}

// Optimize analyzes a submission, applies every mechanical rewrite,
// and re-scores the result.
//
// When no rule can rewrite anything the optimized code equals the
// input and the comparison table shows zero deltas.
func (s *Service) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeResult, error) {
	ctx, span := startAnalyzeSpan(ctx, "Service.Optimize")
	defer span.End()

	base, err := s.Analyze(ctx, AnalyzeRequest(req))
	if err != nil {
		return nil, err
	}

	optimized, applied := s.generator.Rewrite(req.Code, base.Language)

	optimizedEst := base.Metrics
	if optimized != req.Code {
		optVec, err := s.extractor.Extract(ctx, optimized, base.Language)
		if err != nil {
			return nil, fmt.Errorf("re-extracting optimized code: %w", err)
		}
		optimizedEst, err = s.engine.Score(ctx, optVec, s.resolveRegion(req.Region))
		if err != nil {
			return nil, err
		}
	}

	comparison, err := assemble.BuildComparison(base.Metrics, optimizedEst, req.Code, optimized, req.Filename)
	if err != nil {
		return nil, err
	}

	setOptimizeSpanResult(span, len(applied))
	return &OptimizeResult{
		AnalysisResult:   *base,
		OptimizedCode:    optimized,
		AppliedRules:     applied,
		OptimizedMetrics: optimizedEst,
		Comparison:       comparison,
	}, nil
}

// resolveRegion substitutes the configured default for empty regions.
func (s *Service) resolveRegion(region string) string {
	if region == "" {
		return s.defaultRegion
	}
	return region
}

// resolveLanguage normalizes, detects when asked, and validates.
func (s *Service) resolveLanguage(code, declared string) (string, bool, error) {
	lang := strings.ToLower(strings.TrimSpace(declared))
	detected := false
	if lang == "" || lang == "auto" {
		guess, ok := language.Detect(code)
		if !ok {
			return "", false, fmt.Errorf("%w: no language signatures found", ErrDetectionFailed)
		}
		lang, detected = guess, true
	}
	if err := language.Validate(code, lang); err != nil {
		return lang, detected, err
	}
	return lang, detected, nil
}

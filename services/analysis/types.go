// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"github.com/greensight-ai/greensight/services/analysis/assemble"
	"github.com/greensight-ai/greensight/services/analysis/score"
	"github.com/greensight-ai/greensight/services/analysis/suggest"
)

// AnalyzeRequest is the body of POST /v1/analysis/analyze.
type AnalyzeRequest struct {
	// Code is the source text to analyze.
	Code string `json:"code" binding:"required"`

	// Language declares the code's language. "auto" (or empty) asks
	// the service to detect it.
	Language string `json:"language"`

	// Filename is an optional display name for diffs and logs.
	Filename string `json:"filename"`

	// Region selects the carbon intensity region. Unknown or empty
	// values fall back to the world average.
	Region string `json:"region"`
}

// OptimizeRequest is the body of POST /v1/analysis/optimize. It takes
// the same fields as an analyze request.
type OptimizeRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
	Filename string `json:"filename"`
	Region   string `json:"region"`
}

// AnalysisResult is the response of the analyze endpoint.
type AnalysisResult struct {
	// Language is the validated (or detected) language.
	Language string `json:"language"`

	// LanguageDetected is true when the service inferred the language.
	LanguageDetected bool `json:"language_detected,omitempty"`

	// Metrics holds the scored estimates.
	Metrics score.MetricEstimate `json:"metrics"`

	// Impact is the everyday-equivalence block.
	Impact assemble.Impact `json:"impact"`

	// Details summarizes code structure.
	Details assemble.Details `json:"details"`

	// Suggestions are ranked optimization opportunities.
	Suggestions []suggest.Suggestion `json:"suggestions"`

	// ModelVersions maps metric -> model version used for scoring.
	ModelVersions map[string]string `json:"model_versions"`
}

// OptimizeResult is the response of the optimize endpoint.
type OptimizeResult struct {
	AnalysisResult

	// OptimizedCode is the mechanically rewritten source. When no rule
	// could rewrite anything it equals the input.
	OptimizedCode string `json:"optimized_code"`

	// AppliedRules lists the rule IDs whose rewrites changed the code.
	AppliedRules []string `json:"applied_rules"`

	// OptimizedMetrics scores the rewritten code.
	OptimizedMetrics score.MetricEstimate `json:"optimized_metrics"`

	// Comparison is the before/after table and diff.
	Comparison *assemble.Comparison `json:"comparison"`
}

// RuleInfo documents one suggestion rule for the rules endpoint.
type RuleInfo struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Severity    suggest.Severity `json:"severity"`
	Languages   []string         `json:"languages,omitempty"`
	Explanation string           `json:"explanation"`
}

// LanguagesResponse lists the supported languages.
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// RulesResponse lists the active suggestion rules.
type RulesResponse struct {
	Rules []RuleInfo `json:"rules"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service"`
	Version string            `json:"version"`
	Models  map[string]string `json:"models"`
}

// ReadyResponse reports service readiness.
type ReadyResponse struct {
	Ready  bool              `json:"ready"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`

	// Code is the error code (optional).
	Code string `json:"code,omitempty"`

	// RequestID echoes the request correlation ID.
	RequestID string `json:"request_id,omitempty"`
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for pipeline operations.
var (
	tracer = otel.Tracer("greensight.analysis")
	meter  = otel.Meter("greensight.analysis")
)

// Metrics for pipeline operations.
var (
	analyzeLatency     metric.Float64Histogram
	analyzeTotal       metric.Int64Counter
	suggestionsEmitted metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analyzeLatency, err = meter.Float64Histogram(
			"analysis_pipeline_duration_seconds",
			metric.WithDescription("Duration of analysis pipeline runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analyzeTotal, err = meter.Int64Counter(
			"analysis_pipeline_total",
			metric.WithDescription("Total number of analysis pipeline runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		suggestionsEmitted, err = meter.Int64Histogram(
			"analysis_suggestions_emitted",
			metric.WithDescription("Number of suggestions emitted per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startAnalyzeSpan creates a span for a pipeline operation.
func startAnalyzeSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// setAnalyzeSpanResult sets result attributes on an analyze span.
func setAnalyzeSpanResult(span trace.Span, greenScore float64, suggestionCount int) {
	span.SetAttributes(
		attribute.Float64("analysis.green_score", greenScore),
		attribute.Int("analysis.suggestions", suggestionCount),
	)
}

// setOptimizeSpanResult sets result attributes on an optimize span.
func setOptimizeSpanResult(span trace.Span, appliedRules int) {
	span.SetAttributes(
		attribute.Int("analysis.applied_rules", appliedRules),
	)
}

// recordAnalyze records metrics for one pipeline run.
func recordAnalyze(ctx context.Context, lang string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", lang),
		attribute.Bool("success", success),
	)

	analyzeLatency.Record(ctx, duration.Seconds(), attrs)
	analyzeTotal.Add(ctx, 1, attrs)
}

// recordSuggestions records how many suggestions an analysis emitted.
func recordSuggestions(ctx context.Context, count int) {
	if err := initMetrics(); err != nil {
		return
	}
	suggestionsEmitted.Record(ctx, int64(count))
}

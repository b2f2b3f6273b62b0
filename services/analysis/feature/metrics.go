// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package feature

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for extraction operations.
var (
	tracer = otel.Tracer("greensight.feature")
	meter  = otel.Meter("greensight.feature")
)

// Metrics for extraction operations.
var (
	extractLatency metric.Float64Histogram
	extractTotal   metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		extractLatency, err = meter.Float64Histogram(
			"feature_extract_duration_seconds",
			metric.WithDescription("Duration of feature extraction operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		extractTotal, err = meter.Int64Counter(
			"feature_extract_total",
			metric.WithDescription("Total number of feature extraction operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startExtractSpan creates a span for a feature extraction operation.
func startExtractSpan(ctx context.Context, language string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Extractor.Extract",
		trace.WithAttributes(
			attribute.String("feature.language", language),
		),
	)
}

// setExtractSpanResult sets the result attributes on an extraction span.
func setExtractSpanResult(span trace.Span, tokenCount int) {
	span.SetAttributes(
		attribute.Int("feature.tokens", tokenCount),
	)
}

// recordExtraction records metrics for an extraction operation.
func recordExtraction(ctx context.Context, language string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("success", success),
	)

	extractLatency.Record(ctx, duration.Seconds(), attrs)
	extractTotal.Add(ctx, 1, attrs)
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package model loads trained regression models from JSON manifests and
// serves predictions over feature vectors. Models are loaded once at
// boot; a missing or malformed manifest for any required metric is a
// fatal configuration error, never a silently degraded score.
package model

import (
	"github.com/greensight-ai/greensight/services/analysis/feature"
)

// Metric identifiers. Each required metric has exactly one model file
// named "<metric>.model.json" in the model directory.
const (
	MetricGreenScore = "green_score"
	MetricEnergy     = "energy_wh"
	MetricMemory     = "memory_mb"
	MetricCPU        = "cpu_time_ms"
)

// RequiredMetrics lists every metric a registry must serve. CO2 is
// absent deliberately: it is derived from energy and the regional
// carbon intensity, never modeled directly.
var RequiredMetrics = []string{MetricGreenScore, MetricEnergy, MetricMemory, MetricCPU}

// Model produces a raw (unclamped) prediction for one metric.
//
// Thread Safety: implementations are immutable after load and safe for
// concurrent use.
type Model interface {
	// Metric returns the metric identifier this model predicts.
	Metric() string

	// Version returns the training version string from the manifest.
	Version() string

	// Arity returns the feature vector width the model was fitted on.
	Arity() int

	// Predict returns the raw regression output for vec.
	Predict(vec feature.Vector) float64
}

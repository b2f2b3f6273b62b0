// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package score turns feature vectors into the estimated sustainability
// metrics. Energy, memory, and CPU come from their regression models;
// CO2 is always derived from energy and the regional carbon intensity
// so the two can never disagree.
package score

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/model"
)

// MetricEstimate is the scored output for one code submission. All
// values are normalized per one million executions of the submitted
// code.
type MetricEstimate struct {
	// GreenScore is the overall sustainability score, clamped to
	// [0, 100]. Higher is better.
	GreenScore float64 `json:"green_score"`

	// EnergyWh is the estimated energy draw in watt-hours.
	EnergyWh float64 `json:"energy_wh"`

	// CO2Grams is EnergyWh times the regional carbon intensity.
	CO2Grams float64 `json:"co2_g"`

	// MemoryMB is the estimated peak working set in megabytes.
	MemoryMB float64 `json:"memory_mb"`

	// CPUTimeMs is the estimated CPU time in milliseconds.
	CPUTimeMs float64 `json:"cpu_time_ms"`

	// Region is the carbon region actually used, after fallback.
	Region string `json:"region"`
}

// Engine scores feature vectors against a loaded model registry.
//
// Thread Safety: safe for concurrent use; the registry and table are
// immutable.
type Engine struct {
	green  model.Model
	energy model.Model
	memory model.Model
	cpu    model.Model
	carbon Table
}

// NewEngine resolves the required models up front so a missing model
// fails construction, not a request.
func NewEngine(registry *model.Registry, carbon Table) (*Engine, error) {
	e := &Engine{carbon: carbon}
	var err error
	if e.green, err = registry.Get(model.MetricGreenScore); err != nil {
		return nil, err
	}
	if e.energy, err = registry.Get(model.MetricEnergy); err != nil {
		return nil, err
	}
	if e.memory, err = registry.Get(model.MetricMemory); err != nil {
		return nil, err
	}
	if e.cpu, err = registry.Get(model.MetricCPU); err != nil {
		return nil, err
	}
	return e, nil
}

// Carbon returns the engine's carbon table.
func (e *Engine) Carbon() Table { return e.carbon }

// Score predicts all metrics for vec.
//
// Inputs:
//   - ctx: cancellation for the prediction fan-out.
//   - vec: extracted feature vector.
//   - region: requested carbon region; unknown values fall back to the
//     world aggregate.
//
// Outputs:
//   - MetricEstimate with clamped, derived values.
//   - error: ErrScoring wrapped with the failing metric.
func (e *Engine) Score(ctx context.Context, vec feature.Vector, region string) (MetricEstimate, error) {
	var est MetricEstimate

	g, gctx := errgroup.WithContext(ctx)
	predict := func(m model.Model, out *float64) func() error {
		return func() error {
			if err := gctx.Err(); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrScoring, m.Metric(), err)
			}
			*out = m.Predict(vec)
			return nil
		}
	}
	g.Go(predict(e.green, &est.GreenScore))
	g.Go(predict(e.energy, &est.EnergyWh))
	g.Go(predict(e.memory, &est.MemoryMB))
	g.Go(predict(e.cpu, &est.CPUTimeMs))
	if err := g.Wait(); err != nil {
		return MetricEstimate{}, err
	}

	est.GreenScore = clamp(est.GreenScore, 0, 100)
	est.EnergyWh = max(est.EnergyWh, 0)
	est.MemoryMB = max(est.MemoryMB, 0)
	est.CPUTimeMs = max(est.CPUTimeMs, 0)

	factor, resolved := e.carbon.Factor(region)
	est.CO2Grams = est.EnergyWh * factor
	est.Region = resolved
	return est, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import (
	"fmt"

	"github.com/greensight-ai/greensight/services/analysis/feature"
)

// Linear is a plain linear regression model. It shares the manifest
// format with forests and exists mostly for fixtures and fallback
// models trained on small corpora.
type Linear struct {
	metric    string
	version   string
	intercept float64
	weights   []float64
}

// NewLinear builds a validated linear model.
func NewLinear(metric, version string, intercept float64, weights []float64) (*Linear, error) {
	if len(weights) != feature.Arity {
		return nil, fmt.Errorf("%w: %s has %d weights, want %d",
			ErrArityMismatch, metric, len(weights), feature.Arity)
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &Linear{metric: metric, version: version, intercept: intercept, weights: w}, nil
}

func (l *Linear) Metric() string  { return l.metric }
func (l *Linear) Version() string { return l.version }
func (l *Linear) Arity() int      { return len(l.weights) }

// Predict returns intercept + weights . vec.
func (l *Linear) Predict(vec feature.Vector) float64 {
	out := l.intercept
	for i, w := range l.weights {
		out += w * vec[i]
	}
	return out
}

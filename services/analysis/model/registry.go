// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import (
	"fmt"
	"sort"
)

// Registry holds one loaded model per metric. Read-only after
// construction and safe for concurrent use.
type Registry struct {
	byMetric map[string]Model
}

// NewRegistry wraps a metric->model map after checking completeness and
// arity agreement across all models.
func NewRegistry(models map[string]Model) (*Registry, error) {
	for _, metric := range RequiredMetrics {
		m, ok := models[metric]
		if !ok || m == nil {
			return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, metric)
		}
		if m.Metric() != metric {
			return nil, fmt.Errorf("%w: model under key %q reports metric %q",
				ErrMalformedManifest, metric, m.Metric())
		}
	}
	copied := make(map[string]Model, len(models))
	for k, v := range models {
		copied[k] = v
	}
	return &Registry{byMetric: copied}, nil
}

// Get returns the model for metric.
func (r *Registry) Get(metric string) (Model, error) {
	m, ok := r.byMetric[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrModelUnavailable, metric)
	}
	return m, nil
}

// Metrics returns the sorted metric identifiers in the registry.
func (r *Registry) Metrics() []string {
	out := make([]string, 0, len(r.byMetric))
	for m := range r.byMetric {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Versions returns metric -> model version, for health reporting.
func (r *Registry) Versions() map[string]string {
	out := make(map[string]string, len(r.byMetric))
	for metric, m := range r.byMetric {
		out[metric] = m.Version()
	}
	return out
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/greensight-ai/greensight/services/analysis/feature"
)

// manifest is the on-disk JSON form of a trained model.
type manifest struct {
	Metric   string   `json:"metric"`
	Version  string   `json:"version"`
	Arity    int      `json:"arity"`
	Type     string   `json:"type"`
	Features []string `json:"features,omitempty"`

	// forest
	Trees []Tree `json:"trees,omitempty"`

	// linear
	Intercept float64   `json:"intercept,omitempty"`
	Weights   []float64 `json:"weights,omitempty"`
}

// Load reads one manifest per required metric from dir and returns a
// populated registry.
//
// # Description
//
// Each metric loads from "<metric>.model.json". Any missing file,
// parse failure, metric name disagreement, or arity disagreement with
// the extractor aborts the load: a service must refuse to boot on a
// bad model directory rather than serve wrong numbers.
func Load(dir string) (*Registry, error) {
	models := make(map[string]Model, len(RequiredMetrics))
	for _, metric := range RequiredMetrics {
		path := filepath.Join(dir, metric+".model.json")
		m, err := loadManifest(path, metric)
		if err != nil {
			return nil, err
		}
		models[metric] = m
	}
	return NewRegistry(models)
}

func loadManifest(path, metric string) (Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no manifest for %s at %s", ErrModelUnavailable, metric, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var mf manifest
	if err := json.Unmarshal(raw, &mf); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, path, err)
	}
	if mf.Metric != metric {
		return nil, fmt.Errorf("%w: %s declares metric %q, want %q",
			ErrMalformedManifest, path, mf.Metric, metric)
	}
	if mf.Arity != feature.Arity {
		return nil, fmt.Errorf("%w: %s declares arity %d, extractor produces %d",
			ErrArityMismatch, path, mf.Arity, feature.Arity)
	}
	if len(mf.Features) > 0 {
		if err := checkFeatureNames(mf.Features); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, path, err)
		}
	}

	switch mf.Type {
	case "forest":
		return NewForest(mf.Metric, mf.Version, mf.Arity, mf.Trees)
	case "linear":
		return NewLinear(mf.Metric, mf.Version, mf.Intercept, mf.Weights)
	default:
		return nil, fmt.Errorf("%w: %s: unknown model type %q", ErrMalformedManifest, path, mf.Type)
	}
}

// checkFeatureNames verifies a manifest's feature list matches the
// extractor layout position by position.
func checkFeatureNames(names []string) error {
	if len(names) != feature.Arity {
		return fmt.Errorf("feature list has %d entries, want %d", len(names), feature.Arity)
	}
	for i, name := range names {
		if name != feature.Names[i] {
			return fmt.Errorf("feature %d is %q, extractor has %q", i, name, feature.Names[i])
		}
	}
	return nil
}

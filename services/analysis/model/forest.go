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

// Tree is one decision tree in flattened array form. Node i splits on
// Feature[i] at Threshold[i]; Left[i]/Right[i] are child node indices
// and -1 marks a leaf whose prediction is Value[i].
type Tree struct {
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Value     []float64 `json:"value"`
}

// validate checks structural consistency of the flattened arrays.
func (t *Tree) validate(arity int) error {
	n := len(t.Feature)
	if n == 0 {
		return fmt.Errorf("empty tree")
	}
	if len(t.Threshold) != n || len(t.Left) != n || len(t.Right) != n || len(t.Value) != n {
		return fmt.Errorf("node array lengths differ")
	}
	for i := 0; i < n; i++ {
		if t.Left[i] == -1 != (t.Right[i] == -1) {
			return fmt.Errorf("node %d: half-leaf", i)
		}
		if t.Left[i] != -1 {
			if t.Left[i] < 0 || t.Left[i] >= n || t.Right[i] < 0 || t.Right[i] >= n {
				return fmt.Errorf("node %d: child index out of range", i)
			}
			if t.Feature[i] < 0 || t.Feature[i] >= arity {
				return fmt.Errorf("node %d: feature index %d out of range", i, t.Feature[i])
			}
		}
	}
	return nil
}

// predict walks the tree from the root to a leaf.
func (t *Tree) predict(vec feature.Vector) float64 {
	i := 0
	// Step bound stops cyclic manifests.
	for steps := 0; steps <= len(t.Feature); steps++ {
		if t.Left[i] == -1 {
			return t.Value[i]
		}
		if vec[t.Feature[i]] <= t.Threshold[i] {
			i = t.Left[i]
		} else {
			i = t.Right[i]
		}
	}
	return t.Value[i]
}

// Forest is a regression forest: the prediction is the mean of its
// trees. Immutable after load.
type Forest struct {
	metric  string
	version string
	arity   int
	trees   []Tree
}

// NewForest builds a validated forest. Exposed for tests and tooling;
// production code loads forests through Load.
func NewForest(metric, version string, arity int, trees []Tree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("%w: forest for %s has no trees", ErrMalformedManifest, metric)
	}
	for i := range trees {
		if err := trees[i].validate(arity); err != nil {
			return nil, fmt.Errorf("%w: %s tree %d: %v", ErrMalformedManifest, metric, i, err)
		}
	}
	return &Forest{metric: metric, version: version, arity: arity, trees: trees}, nil
}

func (f *Forest) Metric() string  { return f.metric }
func (f *Forest) Version() string { return f.version }
func (f *Forest) Arity() int      { return f.arity }

// Predict returns the mean prediction across all trees.
func (f *Forest) Predict(vec feature.Vector) float64 {
	sum := 0.0
	for i := range f.trees {
		sum += f.trees[i].predict(vec)
	}
	return sum / float64(len(f.trees))
}

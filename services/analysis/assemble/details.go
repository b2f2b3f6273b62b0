// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package assemble

import (
	"github.com/greensight-ai/greensight/services/analysis/feature"
)

// Details summarizes what the extractor saw, for display next to the
// scores.
type Details struct {
	LinesOfCode          int    `json:"lines_of_code"`
	CommentLines         int    `json:"comment_lines"`
	Functions            int    `json:"functions"`
	Loops                int    `json:"loops"`
	CyclomaticComplexity int    `json:"cyclomatic_complexity"`
	ComplexityClass      string `json:"complexity_class"`
	Recursive            bool   `json:"recursive"`
}

// BuildDetails derives the details block from a feature vector.
//
// The complexity class is a coarse loop-nesting read: no loops is
// O(1), a single level is O(n), deeper nesting is O(n^depth).
// Recursion bumps a loopless submission to at least O(n).
func BuildDetails(vec feature.Vector) Details {
	d := Details{
		LinesOfCode:          int(vec[feature.LineCount]),
		CommentLines:         int(vec[feature.CommentLines]),
		Functions:            int(vec[feature.FunctionCount]),
		Loops:                int(vec[feature.LoopCount]),
		CyclomaticComplexity: int(vec[feature.CyclomaticEstimate]),
		Recursive:            vec[feature.RecursionFlag] > 0,
	}
	d.ComplexityClass = complexityClass(int(vec[feature.MaxLoopDepth]), d.Recursive)
	return d
}

func complexityClass(maxLoopDepth int, recursive bool) string {
	switch {
	case maxLoopDepth == 0 && !recursive:
		return "O(1)"
	case maxLoopDepth <= 1:
		return "O(n)"
	case maxLoopDepth == 2:
		return "O(n^2)"
	default:
		return "O(n^3+)"
	}
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package feature turns raw source code into the fixed-width numeric
// vector consumed by the regression models. The vector layout is part of
// the model contract: every trained model manifest declares the arity it
// was fitted against, and the loader refuses manifests whose arity does
// not match Arity below.
package feature

// Arity is the width of the feature vector. Models are trained against
// exactly this layout; changing it requires retraining every model.
const Arity = 24

// Feature indices into a Vector. The order is frozen: trained models
// address features by position, not by name.
const (
	CodeLen int = iota
	LineCount
	TokenCount
	CommentLines
	ImportCount
	FunctionCount
	ClassCount
	LoopCount
	MaxLoopDepth
	BranchCount
	CallCount
	StringLiteralCount
	NumericLiteralCount
	MaxNestingDepth
	CyclomaticEstimate
	IndexIterationCount
	ConcatInLoopCount
	AllocInLoopCount
	BulkAPICount
	LambdaCount
	RecursionFlag
	NestedMembershipCount
	LengthInLoopCondCount
	ManualAccumulationCount
)

// Names maps each vector position to a stable snake_case identifier.
// Used in model manifests, logs, and the details block of results.
var Names = [Arity]string{
	CodeLen:                 "code_len",
	LineCount:               "line_count",
	TokenCount:              "token_count",
	CommentLines:            "comment_lines",
	ImportCount:             "import_count",
	FunctionCount:           "function_count",
	ClassCount:              "class_count",
	LoopCount:               "loop_count",
	MaxLoopDepth:            "max_loop_depth",
	BranchCount:             "branch_count",
	CallCount:               "call_count",
	StringLiteralCount:      "string_literal_count",
	NumericLiteralCount:     "numeric_literal_count",
	MaxNestingDepth:         "max_nesting_depth",
	CyclomaticEstimate:      "cyclomatic_estimate",
	IndexIterationCount:     "index_iteration_count",
	ConcatInLoopCount:       "concat_in_loop_count",
	AllocInLoopCount:        "alloc_in_loop_count",
	BulkAPICount:            "bulk_api_count",
	LambdaCount:             "lambda_count",
	RecursionFlag:           "recursion_flag",
	NestedMembershipCount:   "nested_membership_count",
	LengthInLoopCondCount:   "length_in_loop_cond_count",
	ManualAccumulationCount: "manual_accumulation_count",
}

// Vector is a single extracted feature vector. It is a value type:
// copying it is cheap and callers may mutate copies freely, which the
// suggestion engine relies on for counterfactual re-scoring.
type Vector [Arity]float64

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector { return v }

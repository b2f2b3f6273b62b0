// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package feature

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	tsc "github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// DefaultMaxCodeBytes bounds submissions. Matches the upstream request
// validation limit so the extractor never sees unbounded input.
const DefaultMaxCodeBytes = 100_000

// maxWalkDepth guards the AST walk against pathological nesting.
const maxWalkDepth = 512

// Extractor converts source code into a Vector using a tree-sitter
// structural pass combined with per-language lexical heuristics.
//
// # Description
//
// The structural pass counts AST node classes (loops, branches,
// functions, literals) and derives depth metrics from the walk. The
// lexical pass scores inefficiency markers that are cheaper to spot in
// text than in the tree (index iteration, concatenation inside loops,
// allocation inside loops). Both passes are deterministic: the same
// code and language always produce the same Vector.
//
// Thread Safety: Extract creates a fresh tree-sitter parser per call;
// an Extractor may be shared across goroutines.
type Extractor struct {
	maxBytes  int
	languages map[string]*sitter.Language
}

// NewExtractor creates an Extractor with grammars for every supported
// language. maxBytes <= 0 selects DefaultMaxCodeBytes.
func NewExtractor(maxBytes int) *Extractor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxCodeBytes
	}
	return &Extractor{
		maxBytes: maxBytes,
		languages: map[string]*sitter.Language{
			"python":     python.GetLanguage(),
			"java":       java.GetLanguage(),
			"javascript": javascript.GetLanguage(),
			"typescript": typescript.GetLanguage(),
			"cpp":        cpp.GetLanguage(),
			"c":          tsc.GetLanguage(),
		},
	}
}

// Supports reports whether a grammar is registered for language.
func (e *Extractor) Supports(language string) bool {
	_, ok := e.languages[strings.ToLower(language)]
	return ok
}

// Extract parses code and returns its feature vector.
//
// Inputs:
//   - ctx: used for parse cancellation.
//   - code: raw source text.
//   - language: lowercase language identifier (e.g. "python").
//
// Outputs:
//   - Vector: the extracted features.
//   - error: ErrUnsupportedLanguage, ErrCodeTooLarge, or ErrExtraction
//     wrapped with detail.
func (e *Extractor) Extract(ctx context.Context, code, language string) (Vector, error) {
	start := time.Now()
	ctx, span := startExtractSpan(ctx, language)
	defer span.End()

	var zero Vector
	lang, ok := e.languages[strings.ToLower(language)]
	if !ok {
		return zero, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	if len(code) > e.maxBytes {
		return zero, fmt.Errorf("%w: %d bytes (limit %d)", ErrCodeTooLarge, len(code), e.maxBytes)
	}
	if strings.TrimSpace(code) == "" {
		return zero, fmt.Errorf("%w: empty input", ErrExtraction)
	}
	if strings.ContainsRune(code, 0) || !utf8.ValidString(code) {
		return zero, fmt.Errorf("%w: input is not valid text", ErrExtraction)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	content := []byte(code)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		recordExtraction(ctx, language, time.Since(start), false)
		return zero, fmt.Errorf("%w: parse: %v", ErrExtraction, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		recordExtraction(ctx, language, time.Since(start), false)
		return zero, fmt.Errorf("%w: no syntax tree produced", ErrExtraction)
	}

	var vec Vector
	w := &walker{source: content}
	w.walk(root, 0, 0, 0, &vec)

	if vec[TokenCount] == 0 {
		recordExtraction(ctx, language, time.Since(start), false)
		return zero, fmt.Errorf("%w: no analyzable tokens", ErrExtraction)
	}

	vec[CodeLen] = float64(len(code))
	vec[LineCount] = float64(strings.Count(code, "\n") + 1)
	if vec[RecursionFlag] > 1 {
		vec[RecursionFlag] = 1
	}

	applyHeuristics(&vec, code, strings.ToLower(language))

	// Cyclomatic complexity estimate: 1 + decision points.
	vec[CyclomaticEstimate] = 1 + vec[LoopCount] + vec[BranchCount] + countBoolOps(code)

	recordExtraction(ctx, language, time.Since(start), true)
	setExtractSpanResult(span, int(vec[TokenCount]))
	return vec, nil
}

// Node-type classification tables. Type names are shared across the
// supported tree-sitter grammars; unknown names simply never match.
var (
	loopNodes = map[string]bool{
		"for_statement": true, "while_statement": true, "do_statement": true,
		"for_in_statement": true, "for_of_statement": true,
		"enhanced_for_statement": true, "for_range_loop": true,
	}
	branchNodes = map[string]bool{
		"if_statement": true, "elif_clause": true, "conditional_expression": true,
		"ternary_expression": true, "switch_statement": true, "switch_expression": true,
		"case_statement": true, "switch_case": true, "case_clause": true,
		"match_statement": true,
	}
	functionNodes = map[string]bool{
		"function_definition": true, "function_declaration": true,
		"method_declaration": true, "method_definition": true,
		"constructor_declaration": true, "arrow_function": true,
		"function_expression": true, "function": true,
		"lambda": true, "lambda_expression": true,
	}
	classNodes = map[string]bool{
		"class_definition": true, "class_declaration": true,
		"class_specifier": true, "struct_specifier": true,
	}
	callNodes = map[string]bool{
		"call": true, "call_expression": true, "method_invocation": true,
		"object_creation_expression": true, "new_expression": true,
	}
	stringNodes = map[string]bool{
		"string": true, "string_literal": true, "template_string": true,
		"char_literal": true, "character_literal": true,
		"raw_string_literal": true, "concatenated_string": true,
	}
	numberNodes = map[string]bool{
		"integer": true, "float": true, "number": true, "number_literal": true,
		"decimal_integer_literal": true, "decimal_floating_point_literal": true,
		"hex_integer_literal": true, "binary_integer_literal": true,
		"octal_integer_literal": true,
	}
	commentNodes = map[string]bool{
		"comment": true, "line_comment": true, "block_comment": true,
	}
	blockNodes = map[string]bool{
		"block": true, "compound_statement": true, "statement_block": true,
	}
	lambdaNodes = map[string]bool{
		"lambda": true, "arrow_function": true, "lambda_expression": true,
	}
	comprehensionNodes = map[string]bool{
		"list_comprehension": true, "dictionary_comprehension": true,
		"set_comprehension": true, "generator_expression": true,
	}
	importNodes = map[string]bool{
		"import_statement": true, "import_from_statement": true,
		"import_declaration": true, "preproc_include": true,
		"using_declaration": true, "future_import_statement": true,
	}
)

// walker carries per-extraction walk state.
type walker struct {
	source  []byte
	fnStack []string
}

func (w *walker) walk(node *sitter.Node, depth, loopDepth, nestDepth int, vec *Vector) {
	if node == nil || depth > maxWalkDepth {
		return
	}
	t := node.Type()

	if node.ChildCount() == 0 && !node.IsError() && !node.IsMissing() {
		vec[TokenCount]++
	}

	pushedFn := false
	switch {
	case loopNodes[t]:
		vec[LoopCount]++
		loopDepth++
		if float64(loopDepth) > vec[MaxLoopDepth] {
			vec[MaxLoopDepth] = float64(loopDepth)
		}
	case branchNodes[t]:
		vec[BranchCount]++
	case functionNodes[t]:
		vec[FunctionCount]++
		w.fnStack = append(w.fnStack, w.functionName(node))
		pushedFn = true
	case classNodes[t]:
		vec[ClassCount]++
	case callNodes[t]:
		vec[CallCount]++
		if callee := w.calleeName(node); callee != "" && w.inStack(callee) {
			vec[RecursionFlag]++
		}
	case stringNodes[t]:
		vec[StringLiteralCount]++
	case numberNodes[t]:
		vec[NumericLiteralCount]++
	case commentNodes[t]:
		vec[CommentLines] += float64(node.EndPoint().Row-node.StartPoint().Row) + 1
	case importNodes[t]:
		vec[ImportCount]++
	}
	if blockNodes[t] {
		nestDepth++
		if float64(nestDepth) > vec[MaxNestingDepth] {
			vec[MaxNestingDepth] = float64(nestDepth)
		}
	}
	if lambdaNodes[t] {
		vec[LambdaCount]++
	}
	if comprehensionNodes[t] {
		vec[BulkAPICount]++
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i), depth+1, loopDepth, nestDepth, vec)
	}
	if pushedFn {
		w.fnStack = w.fnStack[:len(w.fnStack)-1]
	}
}

// functionName returns the declared name of a function node, or "" for
// anonymous functions.
func (w *walker) functionName(node *sitter.Node) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return n.Content(w.source)
	}
	if n := node.ChildByFieldName("declarator"); n != nil {
		// C/C++ function_definition nests the name inside the declarator.
		if inner := n.ChildByFieldName("declarator"); inner != nil {
			return inner.Content(w.source)
		}
		return n.Content(w.source)
	}
	return ""
}

// calleeName returns the simple identifier a call targets, or "" when
// the callee is a complex expression.
func (w *walker) calleeName(node *sitter.Node) string {
	target := node.ChildByFieldName("function")
	if target == nil {
		target = node.ChildByFieldName("name")
	}
	if target == nil {
		return ""
	}
	if target.Type() == "identifier" {
		return target.Content(w.source)
	}
	return ""
}

func (w *walker) inStack(name string) bool {
	for _, fn := range w.fnStack {
		if fn == name {
			return true
		}
	}
	return false
}

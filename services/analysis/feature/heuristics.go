// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package feature

import (
	"regexp"
	"strings"
)

// Lexical inefficiency markers. These complement the structural pass:
// the patterns below are defined over source text because the shapes
// they capture (what happens *inside* a loop body) are cheaper to
// locate lexically than by tree queries across five grammars.
var (
	pyIndexIterRe = regexp.MustCompile(`for\s+(\w+)\s+in\s+range\s*\(\s*len\s*\(\s*(\w+)\s*\)\s*\)`)
	jsIndexIterRe = regexp.MustCompile(`for\s*\(\s*(?:let|var|const)\s+\w+\s*=\s*0\s*;\s*\w+\s*<\s*\w+\.length`)
	jvIndexIterRe = regexp.MustCompile(`for\s*\(\s*int\s+\w+\s*=\s*0\s*;\s*\w+\s*<\s*\w+\.(?:length|size\s*\(\s*\))`)

	selfAppendRe = regexp.MustCompile(`(\w+)\s*\+=\s*(.+)`)
	selfConcatRe = regexp.MustCompile(`(\w+)\s*=\s*(\w+)\s*\+\s*(.+)`)
	stringRHSRe  = regexp.MustCompile(`["'` + "`" + `]|\bstr\s*\(|\bString\b|\.toString\s*\(`)

	allocRe = regexp.MustCompile(`=\s*\[\s*\]|=\s*\{\s*\}|\blist\s*\(\s*\)|\bdict\s*\(\s*\)|\bset\s*\(\s*\)|\bnew\s+\w+|\bmalloc\s*\(|\bcalloc\s*\(`)

	pyMembershipRe = regexp.MustCompile(`\bif\s+[^:\n]*\bin\s+\w+`)
	methodMemberRe = regexp.MustCompile(`\.includes\s*\(|\.indexOf\s*\(|\.contains\s*\(|\.containsKey\s*\(`)

	whileLenRe   = regexp.MustCompile(`while\s*\(?[^:\n{]*\b(?:len|strlen)\s*\(`)
	forCondLenRe = regexp.MustCompile(`for\s*\([^;{]*;[^;{]*(?:\bstrlen\s*\(|\.length\b|\.size\s*\(|\blen\s*\()[^;{]*;`)

	bulkAPIRe = regexp.MustCompile(`\b(?:sum|sorted|enumerate|zip|any|all|min|max)\s*\(|\.(?:join|map|filter|reduce|stream|collect)\s*\(|\b(?:map|filter)\s*\(|"".join|''.join`)

	boolOpRe = regexp.MustCompile(`&&|\|\||\band\b|\bor\b`)

	loopHeaderBraceRe = regexp.MustCompile(`\b(?:for|while)\s*\(`)
	loopHeaderPyRe    = regexp.MustCompile(`^(\s*)(?:for|while)\b[^\n]*:\s*(?:#.*)?$`)
	loopInlinePyRe    = regexp.MustCompile(`^(\s*)(?:for|while)\b[^\n]*:\s*([^#\s][^\n]*)$`)
)

// applyHeuristics fills the lexical positions of vec from code.
func applyHeuristics(vec *Vector, code, language string) {
	switch language {
	case "python":
		vec[IndexIterationCount] = float64(len(pyIndexIterRe.FindAllString(code, -1)))
	case "javascript", "typescript":
		vec[IndexIterationCount] = float64(len(jsIndexIterRe.FindAllString(code, -1)))
	case "java":
		vec[IndexIterationCount] = float64(len(jvIndexIterRe.FindAllString(code, -1)))
	}

	vec[BulkAPICount] += float64(len(bulkAPIRe.FindAllString(code, -1)))
	vec[LengthInLoopCondCount] = float64(len(whileLenRe.FindAllString(code, -1)) +
		len(forCondLenRe.FindAllString(code, -1)))

	spans := LoopBodySpans(code, language)
	for _, sp := range spans {
		body := code[sp.Start:sp.End]
		countLoopBody(vec, body, language)
	}
}

// countLoopBody classifies accumulation statements and membership tests
// found in a single loop body.
func countLoopBody(vec *Vector, body, language string) {
	for _, line := range strings.Split(body, "\n") {
		if m := selfAppendRe.FindStringSubmatch(line); m != nil {
			if stringRHSRe.MatchString(m[2]) {
				vec[ConcatInLoopCount]++
			} else {
				vec[ManualAccumulationCount]++
			}
			continue
		}
		if m := selfConcatRe.FindStringSubmatch(line); m != nil && m[1] == m[2] {
			if stringRHSRe.MatchString(m[3]) {
				vec[ConcatInLoopCount]++
			} else {
				vec[ManualAccumulationCount]++
			}
		}
	}

	vec[AllocInLoopCount] += float64(len(allocRe.FindAllString(body, -1)))
	vec[NestedMembershipCount] += float64(len(methodMemberRe.FindAllString(body, -1)))
	if language == "python" {
		vec[NestedMembershipCount] += float64(len(pyMembershipRe.FindAllString(body, -1)))
	}
}

func countBoolOps(code string) float64 {
	return float64(len(boolOpRe.FindAllString(code, -1)))
}

// Span is a half-open byte range [Start, End) within a source string.
type Span struct {
	Start int
	End   int
}

// Contains reports whether offset falls inside the span.
func (s Span) Contains(offset int) bool { return offset >= s.Start && offset < s.End }

// LoopBodySpans returns the byte ranges of loop bodies in code. Python
// bodies are resolved by indentation; brace languages by matching the
// brace that follows the loop header. The result is ordered by start
// offset and spans of nested loops overlap their parents.
func LoopBodySpans(code, language string) []Span {
	if language == "python" {
		return pythonLoopSpans(code)
	}
	return braceLoopSpans(code)
}

func pythonLoopSpans(code string) []Span {
	lines := strings.Split(code, "\n")
	offsets := lineOffsets(lines)
	var spans []Span

	for i, line := range lines {
		m := loopHeaderPyRe.FindStringSubmatch(line)
		if m == nil {
			// Inline body: everything after the header colon is the span.
			if idx := loopInlinePyRe.FindStringSubmatchIndex(line); idx != nil {
				spans = append(spans, Span{Start: offsets[i] + idx[4], End: offsets[i] + idx[5]})
			}
			continue
		}
		headerIndent := len(m[1])
		end := len(code)
		for j := i + 1; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" {
				continue
			}
			if indentOf(lines[j]) <= headerIndent {
				end = offsets[j]
				break
			}
		}
		if i+1 < len(lines) && offsets[i+1] < end {
			spans = append(spans, Span{Start: offsets[i+1], End: end})
		}
	}
	return spans
}

func braceLoopSpans(code string) []Span {
	var spans []Span
	for _, loc := range loopHeaderBraceRe.FindAllStringIndex(code, -1) {
		// Step past the header's parenthesized clause.
		openParen := strings.IndexByte(code[loc[0]:], '(')
		if openParen < 0 {
			continue
		}
		pos := loc[0] + openParen
		depth := 0
		for ; pos < len(code); pos++ {
			switch code[pos] {
			case '(':
				depth++
			case ')':
				depth--
			}
			if depth == 0 && code[pos] == ')' {
				pos++
				break
			}
		}
		// Body is either a braced block or a single statement.
		rest := strings.TrimLeft(code[pos:], " \t\r\n")
		skipped := len(code[pos:]) - len(rest)
		bodyStart := pos + skipped
		if bodyStart >= len(code) {
			continue
		}
		if code[bodyStart] == '{' {
			end := matchBrace(code, bodyStart)
			spans = append(spans, Span{Start: bodyStart + 1, End: end})
			continue
		}
		if semi := strings.IndexByte(code[bodyStart:], ';'); semi >= 0 {
			spans = append(spans, Span{Start: bodyStart, End: bodyStart + semi + 1})
		}
	}
	return spans
}

// matchBrace returns the offset just past the brace matching the one at
// open, or len(code) when unbalanced.
func matchBrace(code string, open int) int {
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(code)
}

func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	pos := 0
	for i, line := range lines {
		offsets[i] = pos
		pos += len(line) + 1
	}
	return offsets
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

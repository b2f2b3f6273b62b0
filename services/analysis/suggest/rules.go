// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package suggest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/greensight-ai/greensight/services/analysis/feature"
)

// Rule is one detection rule. Rules are evaluated in registry order so
// output is deterministic before ranking.
type Rule struct {
	ID          string
	Title       string
	Explanation string
	Severity    Severity

	// Languages restricts the rule; empty means all languages.
	Languages []string

	// pattern locates findings in the source text.
	pattern *regexp.Regexp

	// loopScoped requires matches to fall inside a loop body.
	loopScoped bool

	// after renders the replacement snippet; nil falls back to the
	// explanation text.
	after afterFunc

	// rewrite mechanically applies the fix; nil means the fix needs
	// human judgment and the optimizer skips it.
	rewrite rewriteFunc

	// delta models the fix on a cloned feature vector for
	// counterfactual re-scoring; nil projects no change.
	delta deltaFunc
}

// AppliesTo reports whether the rule covers language.
func (r *Rule) AppliesTo(language string) bool {
	if len(r.Languages) == 0 {
		return true
	}
	for _, l := range r.Languages {
		if l == language {
			return true
		}
	}
	return false
}

var (
	pyIndexIterStmtRe = regexp.MustCompile(`for\s+(\w+)\s+in\s+range\s*\(\s*len\s*\(\s*(\w+)\s*\)\s*\)\s*:`)
	jsIndexIterStmtRe = regexp.MustCompile(`for\s*\(\s*(?:let|var|const)\s+(\w+)\s*=\s*0\s*;\s*\w+\s*<\s*(\w+)\.length\s*;[^)]*\)`)
	concatInLoopRe    = regexp.MustCompile(`(\w+)\s*\+=\s*(?:f?["'` + "`" + `]|str\s*\(|String)`)
	membershipRe      = regexp.MustCompile(`\bif\s+[^:\n]*\bin\s+(\w+)|\.(?:includes|indexOf|contains)\s*\(`)
	lengthInCondRe    = regexp.MustCompile(`while\s*\(?[^:\n{]*\b(?:len|strlen)\s*\(|for\s*\([^;{]*;[^;{]*(?:\bstrlen\s*\(|\.length\b|\.size\s*\()[^;{]*;`)
	accumulationRe    = regexp.MustCompile(`(?m)(\w+)\s*\+=\s*(\w+)\s*$`)
	eagerMaterialRe   = regexp.MustCompile(`\b(sum|any|all|min|max)\s*\(\s*\[([^\[\]]+)\]\s*\)`)
	wildcardImportRe  = regexp.MustCompile(`(?m)^\s*from\s+[\w.]+\s+import\s+\*`)
	allocInLoopRe     = regexp.MustCompile(`=\s*\[\s*\]|=\s*\{\s*\}|\blist\s*\(\s*\)|\bdict\s*\(\s*\)|\bnew\s+\w+\s*[(<]|\bmalloc\s*\(|\bcalloc\s*\(`)
)

// registry returns the rule set in fixed evaluation order.
func registry() []Rule {
	return []Rule{
		{
			ID:          "string-concat-in-loop",
			Title:       "String concatenation inside a loop",
			Explanation: "Growing a string inside a loop copies the whole buffer on every iteration. Collect the pieces and join them once.",
			Severity:    SeverityHigh,
			Languages:   []string{"python", "javascript", "typescript", "java"},
			pattern:     concatInLoopRe,
			loopScoped:  true,
			after: func(m []string, language string) string {
				switch language {
				case "java":
					return fmt.Sprintf("builder.append(...);  // StringBuilder, then %s = builder.toString()", m[1])
				case "javascript", "typescript":
					return fmt.Sprintf("parts.push(...);  // then const %s = parts.join(\"\")", m[1])
				default:
					return fmt.Sprintf("parts.append(...)  # then %s = \"\".join(parts)", m[1])
				}
			},
			delta: func(vec *feature.Vector, n int) {
				vec[feature.ConcatInLoopCount] = 0
				vec[feature.BulkAPICount]++
			},
		},
		{
			ID:          "membership-test-in-loop",
			Title:       "Linear membership test inside a loop",
			Explanation: "Checking membership against a list inside a loop is O(n*m). Build a set or hash once and test against that.",
			Severity:    SeverityHigh,
			pattern:     membershipRe,
			loopScoped:  true,
			after: func(m []string, language string) string {
				switch language {
				case "java":
					return "Set<T> lookup = new HashSet<>(items);  // before the loop"
				case "javascript", "typescript":
					return "const lookup = new Set(items);  // then lookup.has(x)"
				default:
					target := "items"
					if m[1] != "" {
						target = m[1]
					}
					return fmt.Sprintf("lookup = set(%s)  # before the loop, then: if x in lookup:", target)
				}
			},
			delta: func(vec *feature.Vector, n int) {
				vec[feature.NestedMembershipCount] = 0
			},
		},
		{
			ID:          "index-iteration",
			Title:       "Index-based iteration over a sequence",
			Explanation: "Iterating by index forces a bounds-checked lookup per element. Iterate the elements directly, or use enumerate when the index matters.",
			Severity:    SeverityMedium,
			Languages:   []string{"python"},
			pattern:     pyIndexIterStmtRe,
			after: func(m []string, language string) string {
				return fmt.Sprintf("for %s, value in enumerate(%s):", m[1], m[2])
			},
			rewrite: rewriteIndexIteration,
			delta: func(vec *feature.Vector, n int) {
				vec[feature.IndexIterationCount] = 0
				vec[feature.BulkAPICount] += float64(n)
			},
		},
		{
			ID:          "index-iteration-js",
			Title:       "Index-based iteration over an array",
			Explanation: "A counter loop over .length re-reads the index on every access. Use for...of, or cache the element once per iteration.",
			Severity:    SeverityMedium,
			Languages:   []string{"javascript", "typescript"},
			pattern:     jsIndexIterStmtRe,
			after: func(m []string, language string) string {
				return fmt.Sprintf("for (const item of %s) {", m[2])
			},
			delta: func(vec *feature.Vector, n int) {
				vec[feature.IndexIterationCount] = 0
				vec[feature.BulkAPICount] += float64(n)
			},
		},
		{
			ID:          "length-in-loop-condition",
			Title:       "Length recomputed in a loop condition",
			Explanation: "The loop condition re-evaluates a length call on every iteration. Hoist the length into a variable before the loop.",
			Severity:    SeverityMedium,
			pattern:     lengthInCondRe,
			after: func(m []string, language string) string {
				if language == "c" || language == "cpp" {
					return "size_t n = strlen(s);  // hoisted, then: for (i = 0; i < n; i++)"
				}
				return "n = len(items)  # hoisted, then loop against n"
			},
			delta: func(vec *feature.Vector, n int) {
				vec[feature.LengthInLoopCondCount] = 0
			},
		},
		{
			ID:          "allocation-in-loop",
			Title:       "Allocation inside a loop",
			Explanation: "Constructing a fresh container or buffer on every iteration churns the allocator. Hoist the allocation and reuse it.",
			Severity:    SeverityMedium,
			pattern:     allocInLoopRe,
			loopScoped:  true,
			after: func(m []string, language string) string {
				return "// allocate once before the loop, clear/reuse inside it"
			},
			delta: func(vec *feature.Vector, n int) {
				vec[feature.AllocInLoopCount] = 0
			},
		},
		{
			ID:          "manual-accumulation",
			Title:       "Manual accumulation loop",
			Explanation: "Summing elements one += at a time is slower than the built-in reduction, which runs in optimized native code.",
			Severity:    SeverityMedium,
			Languages:   []string{"python"},
			pattern:     accumulationRe,
			loopScoped:  true,
			after: func(m []string, language string) string {
				return fmt.Sprintf("%s = sum(items)", m[1])
			},
			delta: func(vec *feature.Vector, n int) {
				vec[feature.ManualAccumulationCount] = 0
				vec[feature.BulkAPICount]++
				if vec[feature.LoopCount] > 0 {
					vec[feature.LoopCount]--
				}
			},
		},
		{
			ID:          "eager-materialization",
			Title:       "List materialized inside a reduction",
			Explanation: "Wrapping a comprehension in a list before reducing it allocates the whole intermediate. A generator feeds the reduction element by element.",
			Severity:    SeverityLow,
			Languages:   []string{"python"},
			pattern:     eagerMaterialRe,
			after: func(m []string, language string) string {
				return fmt.Sprintf("%s(%s)", m[1], strings.TrimSpace(m[2]))
			},
			rewrite: rewriteEagerMaterialization,
			delta: func(vec *feature.Vector, n int) {
				vec[feature.AllocInLoopCount] = max(0, vec[feature.AllocInLoopCount]-float64(n))
			},
		},
		{
			ID:          "wildcard-import",
			Title:       "Wildcard import",
			Explanation: "Importing * loads and binds every name in the module whether used or not. Import only what the code needs.",
			Severity:    SeverityLow,
			Languages:   []string{"python"},
			pattern:     wildcardImportRe,
			after: func(m []string, language string) string {
				return "from module import needed_name"
			},
		},
	}
}

// rewriteIndexIteration converts range(len(...)) headers to enumerate
// and rewrites the matching subscript accesses. Subscripts are replaced
// only inside the rewritten loop's body, so identical subscripts
// elsewhere in the file stay untouched.
func rewriteIndexIteration(code string) (string, bool) {
	headers := pyIndexIterStmtRe.FindAllStringSubmatchIndex(code, -1)
	if len(headers) == 0 {
		return code, false
	}
	// Back to front so each header's offsets stay valid across edits;
	// spans are recomputed per edit because rewriting an inner loop
	// moves the end of any enclosing body.
	out := code
	for i := len(headers) - 1; i >= 0; i-- {
		loc := headers[i]
		index := code[loc[2]:loc[3]]
		seq := code[loc[4]:loc[5]]

		body := feature.Span{Start: loc[1], End: loc[1]}
		for _, sp := range feature.LoopBodySpans(out, "python") {
			if sp.Start >= loc[1] {
				body = sp
				break
			}
		}
		subscript := regexp.MustCompile(regexp.QuoteMeta(seq) + `\[` + regexp.QuoteMeta(index) + `\]`)
		out = out[:body.Start] + subscript.ReplaceAllString(out[body.Start:body.End], "value") + out[body.End:]
		out = out[:loc[0]] + fmt.Sprintf("for %s, value in enumerate(%s):", index, seq) + out[loc[1]:]
	}
	return out, true
}

// rewriteEagerMaterialization strips the list brackets from reductions
// over comprehensions.
func rewriteEagerMaterialization(code string) (string, bool) {
	if !eagerMaterialRe.MatchString(code) {
		return code, false
	}
	return eagerMaterialRe.ReplaceAllString(code, "$1($2)"), true
}

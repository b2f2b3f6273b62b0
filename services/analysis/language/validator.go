// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package language validates that a code submission plausibly matches
// its declared language before any expensive analysis runs.
//
// # Description
//
// Validation is tiered. First the input must look like code at all
// (word characters plus structural tokens). Then it must not contain
// markers that are exclusive to a *different* language: finding
// "console.log" in a submission declared as Python is a hard mismatch.
// Finally, submissions long enough to carry signals must show at least
// one positive signature of the declared language. Short snippets with
// no foreign markers get the benefit of the doubt.
package language

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// profile describes one supported language.
type profile struct {
	// signatures are markers consistent with the language. They are
	// never held against other languages.
	signatures []*regexp.Regexp

	// exclusives are markers that identify this language strongly and
	// are implausible in the others. They become anti-signals for every
	// non-friend language.
	exclusives []*regexp.Regexp

	// friends lists languages whose exclusives are still plausible
	// here (C markers inside C++, JavaScript markers inside
	// TypeScript).
	friends map[string]bool
}

var profiles = map[string]*profile{
	"python": {
		signatures: compile(
			`(?m)^\s*def\s+\w+\s*\([^)]*\)\s*:`,
			`(?m)^\s*(?:from\s+[\w.]+\s+)?import\s+\w`,
			`(?m)^\s*for\s+\w+\s+in\s+[^\n:]+:`,
			`\brange\s*\(`,
			`\bself\b`,
			`\belif\b`,
			`\bprint\s*\(`,
			`\blambda\b`,
			`\bNone\b|\bTrue\b|\bFalse\b`,
			`f["']`,
			`__\w+__`,
		),
		exclusives: compile(
			`(?m)^\s*def\s+\w+\s*\([^)]*\)\s*:`,
			`\belif\b`,
			`(?m)^\s*from\s+[\w.]+\s+import\s+`,
			`__init__`,
		),
	},
	"javascript": {
		signatures: compile(
			`\bfunction\b`,
			`=>`,
			`\b(?:const|let|var)\s+\w+`,
			`console\.`,
			`===|!==`,
			`\bnew\s+\w+\s*\(`,
			`\bexport\b|\bmodule\.exports\b`,
		),
		exclusives: compile(
			`console\.\w+\s*\(`,
			`===|!==`,
			`=>`,
			`\b(?:const|let)\s+\w+\s*=`,
			`\bmodule\.exports\b`,
			`\brequire\s*\(\s*["']`,
			`document\.\w+`,
		),
	},
	"typescript": {
		signatures: compile(
			`\bfunction\b`,
			`=>`,
			`\b(?:const|let|var)\s+\w+`,
			`console\.`,
			`:\s*(?:string|number|boolean|void|any)\b`,
			`\btype\s+\w+\s*=`,
			`\binterface\s+\w+\s*\{`,
		),
		exclusives: compile(
			`:\s*(?:string|number|boolean|void|any)\b`,
			`\btype\s+\w+\s*=\s*[{|\w]`,
		),
		friends: map[string]bool{"javascript": true},
	},
	"java": {
		signatures: compile(
			`\bpublic\s+(?:static\s+|final\s+)*\w+`,
			`System\.out\.print`,
			`\bclass\s+\w+`,
			`\bimport\s+java\.`,
			`@Override\b`,
			`\bnew\s+\w+\s*(?:<[^>]*>)?\s*\(`,
		),
		exclusives: compile(
			`System\.out\.print`,
			`\bpublic\s+static\s+void\s+main\b`,
			`\bimport\s+java\.`,
			`@Override\b`,
		),
	},
	"c": {
		signatures: compile(
			`#include\s*<\w+\.h>`,
			`\bprintf\s*\(|\bscanf\s*\(`,
			`\bint\s+main\s*\(`,
			`\bstruct\s+\w+`,
			`\bmalloc\s*\(|\bfree\s*\(`,
			`\bvoid\s+\w+\s*\(`,
		),
		exclusives: compile(
			`#include\s*<(?:stdio|stdlib|string|math)\.h>`,
			`\bprintf\s*\(`,
			`\bmalloc\s*\(|\bcalloc\s*\(`,
			`\bscanf\s*\(`,
		),
	},
	"cpp": {
		signatures: compile(
			`#include\s*<\w+>`,
			`\bstd::`,
			`\bcout\b|\bcin\b|\bendl\b`,
			`\btemplate\s*<`,
			`\bclass\s+\w+`,
			`\bnamespace\s+\w+`,
			`\bint\s+main\s*\(`,
		),
		exclusives: compile(
			`\bstd::`,
			`\bcout\b|\bcin\b`,
			`\btemplate\s*<\s*(?:typename|class)\b`,
			`#include\s*<iostream>`,
			`\busing\s+namespace\b`,
		),
		friends: map[string]bool{"c": true},
	},
}

// detectOrder fixes tie-breaking for Detect: earlier entries win ties,
// so the plainer language of a superset pair is preferred.
var detectOrder = []string{"python", "java", "c", "cpp", "javascript", "typescript"}

var (
	wordRe       = regexp.MustCompile(`\w`)
	structuralRe = regexp.MustCompile(`[=+\-*/%<>!&|(){}\[\];:,.]|["'#]`)
)

// minBytesForSignature is the length past which a submission must show
// at least one positive signature of its declared language.
const minBytesForSignature = 20

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Supported returns the sorted list of supported language identifiers.
func Supported() []string {
	out := make([]string, 0, len(profiles))
	for name := range profiles {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsSupported reports whether name is a supported language identifier.
func IsSupported(name string) bool {
	_, ok := profiles[strings.ToLower(name)]
	return ok
}

// Validate checks that code plausibly is the declared language.
//
// Outputs:
//   - nil when the submission passes all tiers.
//   - ErrUnsupportedLanguage when declared is unknown.
//   - ErrNotCode when the input carries no code structure.
//   - ErrMismatch when a foreign marker is found or no signature of the
//     declared language appears.
func Validate(code, declared string) error {
	declared = strings.ToLower(declared)
	p, ok := profiles[declared]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, declared)
	}

	trimmed := strings.TrimSpace(code)
	if trimmed == "" || !wordRe.MatchString(trimmed) || !structuralRe.MatchString(trimmed) {
		return fmt.Errorf("%w: no code structure detected", ErrNotCode)
	}

	for _, other := range detectOrder {
		if other == declared || p.friends[other] {
			continue
		}
		for _, re := range profiles[other].exclusives {
			if m := re.FindString(code); m != "" {
				return fmt.Errorf("%w: found %s marker %q in code declared as %s",
					ErrMismatch, other, truncate(m, 40), declared)
			}
		}
	}

	if len(trimmed) > minBytesForSignature {
		found := false
		for _, re := range p.signatures {
			if re.MatchString(code) {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: no %s signatures found", ErrMismatch, declared)
		}
	}
	return nil
}

// Detect guesses the language of code from signature scores. Exclusive
// markers weigh more than plain signatures. Returns false when nothing
// scores.
func Detect(code string) (string, bool) {
	best, bestScore := "", 0
	for _, name := range detectOrder {
		p := profiles[name]
		score := 0
		for _, re := range p.exclusives {
			if re.MatchString(code) {
				score += 3
			}
		}
		for _, re := range p.signatures {
			if re.MatchString(code) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	return best, bestScore > 0
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

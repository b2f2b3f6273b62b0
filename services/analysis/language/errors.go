// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package language

import "errors"

// Sentinel errors for the language package.
var (
	// ErrMismatch indicates the code does not look like the declared
	// language.
	ErrMismatch = errors.New("language mismatch")

	// ErrNotCode indicates the input does not look like source code at
	// all.
	ErrNotCode = errors.New("input does not look like code")

	// ErrUnsupportedLanguage indicates the declared language is not in
	// the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

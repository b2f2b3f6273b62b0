// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package feature

import "errors"

// Sentinel errors for the feature package.
var (
	// ErrExtraction indicates the input could not be turned into a
	// feature vector (empty, binary, or structurally unparseable).
	ErrExtraction = errors.New("feature extraction failed")

	// ErrUnsupportedLanguage indicates no grammar is registered for
	// the requested language.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrCodeTooLarge indicates the submission exceeds the size limit.
	ErrCodeTooLarge = errors.New("code exceeds size limit")
)

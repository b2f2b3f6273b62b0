// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import "errors"

// Sentinel errors for the analysis service. Pipeline-stage failures
// carry their own sentinels in the language, feature, model, and score
// packages; handlers match on those directly.
var (
	// ErrInvalidInput indicates a request failed basic validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDetectionFailed indicates language auto-detection found no
	// usable signal.
	ErrDetectionFailed = errors.New("language detection failed")
)

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package score

import "errors"

// Sentinel errors for the score package.
var (
	// ErrInvalidCarbonTable indicates a carbon intensity table failed
	// validation.
	ErrInvalidCarbonTable = errors.New("invalid carbon table")

	// ErrScoring indicates a model prediction failed.
	ErrScoring = errors.New("scoring failed")
)

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package model

import "errors"

// Sentinel errors for the model package.
var (
	// ErrModelUnavailable indicates a required model is missing from
	// the registry or the model directory.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrArityMismatch indicates a manifest declares a feature width
	// different from the extractor's.
	ErrArityMismatch = errors.New("model arity mismatch")

	// ErrMalformedManifest indicates a manifest file could not be
	// parsed or failed structural validation.
	ErrMalformedManifest = errors.New("malformed model manifest")
)

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package analysis

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greensight-ai/greensight/services/analysis/feature"
	"github.com/greensight-ai/greensight/services/analysis/language"
	"github.com/greensight-ai/greensight/services/analysis/score"
)

// Handlers holds the HTTP handlers for the analysis service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates the handler set for svc.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// HandleAnalyze handles POST /v1/analysis/analyze.
//
// # Description
//
// Validates the submission, runs the scoring pipeline, and returns
// metrics, impact, details, and ranked suggestions.
//
// Status codes:
//   - 200: analysis complete
//   - 400: malformed request or unsupported language
//   - 413: submission exceeds the size limit
//   - 422: language mismatch or unanalyzable code
func (h *Handlers) HandleAnalyze(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			RequestID: requestID,
		})
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respondPipelineError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleOptimize handles POST /v1/analysis/optimize.
//
// Runs the analyze pipeline, applies every mechanical rewrite, and
// returns the optimized code with a before/after comparison.
func (h *Handlers) HandleOptimize(c *gin.Context) {
	requestID := getOrCreateRequestID(c)

	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:     "invalid request body: " + err.Error(),
			Code:      "INVALID_REQUEST",
			RequestID: requestID,
		})
		return
	}

	result, err := h.svc.Optimize(c.Request.Context(), req)
	if err != nil {
		respondPipelineError(c, requestID, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleLanguages handles GET /v1/analysis/languages.
func (h *Handlers) HandleLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, LanguagesResponse{Languages: h.svc.Languages()})
}

// HandleRules handles GET /v1/analysis/rules.
func (h *Handlers) HandleRules(c *gin.Context) {
	c.JSON(http.StatusOK, RulesResponse{Rules: h.svc.Rules()})
}

// HandleHealth handles GET /v1/analysis/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "analysis",
		Version: ServiceVersion,
		Models:  h.svc.ModelVersions(),
	})
}

// HandleReady handles GET /v1/analysis/ready. A constructed service
// has already resolved its models, so readiness reduces to liveness
// checks on the pipeline components.
func (h *Handlers) HandleReady(c *gin.Context) {
	checks := map[string]string{
		"models": "ok",
	}
	c.JSON(http.StatusOK, ReadyResponse{Ready: true, Checks: checks})
}

// respondPipelineError maps pipeline sentinels to HTTP status codes.
func respondPipelineError(c *gin.Context, requestID string, err error) {
	statusCode := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, language.ErrUnsupportedLanguage), errors.Is(err, feature.ErrUnsupportedLanguage):
		statusCode = http.StatusBadRequest
		code = "UNSUPPORTED_LANGUAGE"
	case errors.Is(err, ErrDetectionFailed):
		statusCode = http.StatusUnprocessableEntity
		code = "UNANALYZABLE_CODE"
	case errors.Is(err, language.ErrNotCode):
		statusCode = http.StatusUnprocessableEntity
		code = "UNANALYZABLE_CODE"
	case errors.Is(err, language.ErrMismatch):
		statusCode = http.StatusUnprocessableEntity
		code = "LANGUAGE_MISMATCH"
	case errors.Is(err, feature.ErrCodeTooLarge):
		statusCode = http.StatusRequestEntityTooLarge
		code = "CODE_TOO_LARGE"
	case errors.Is(err, feature.ErrExtraction):
		statusCode = http.StatusUnprocessableEntity
		code = "UNANALYZABLE_CODE"
	case errors.Is(err, score.ErrScoring):
		statusCode = http.StatusInternalServerError
		code = "SCORING_FAILED"
	case errors.Is(err, ErrInvalidInput):
		statusCode = http.StatusBadRequest
		code = "INVALID_REQUEST"
	}

	c.JSON(statusCode, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		RequestID: requestID,
	})
}

// getOrCreateRequestID returns the X-Request-ID header, generating one
// when absent, and echoes it on the response.
func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads service configuration from defaults, an
// optional YAML file, and environment variable overrides, in that
// order of precedence (later wins).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for the analysis service.
type Config struct {
	// Server controls the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Models points at the regression model manifests.
	Models ModelConfig `yaml:"models"`

	// Scoring controls carbon accounting defaults.
	Scoring ScoringConfig `yaml:"scoring"`

	// Limits bounds accepted input.
	Limits LimitConfig `yaml:"limits"`

	// Telemetry selects trace and metric exporters.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ServerConfig struct {
	Port  int  `yaml:"port" validate:"gte=1,lte=65535"`
	Debug bool `yaml:"debug"`
}

type ModelConfig struct {
	// Dir is the directory holding <metric>.model.json manifests.
	Dir string `yaml:"dir" validate:"required"`
}

type ScoringConfig struct {
	// DefaultRegion applies when a request omits the region field.
	DefaultRegion string `yaml:"default_region" validate:"required"`

	// CarbonTablePath optionally replaces the built-in carbon
	// intensity table with a YAML file.
	CarbonTablePath string `yaml:"carbon_table_path"`
}

type LimitConfig struct {
	// MaxCodeBytes is the largest accepted code payload.
	MaxCodeBytes int `yaml:"max_code_bytes" validate:"gt=0"`
}

type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"oneof=otlp stdout none"`
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=prometheus stdout none"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// Default returns the development defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:  8080,
			Debug: false,
		},
		Models: ModelConfig{
			Dir: "models",
		},
		Scoring: ScoringConfig{
			DefaultRegion: "world",
		},
		Limits: LimitConfig{
			MaxCodeBytes: 100_000,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "stdout",
			MetricExporter: "prometheus",
			OTLPEndpoint:   "localhost:4317",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (skipped when path is empty), then environment variables.
//
// Environment overrides:
//   - GREENSIGHT_PORT
//   - GREENSIGHT_MODEL_DIR
//   - GREENSIGHT_DEFAULT_REGION
//   - GREENSIGHT_CARBON_TABLE
//   - GREENSIGHT_MAX_CODE_BYTES
//   - GREENSIGHT_DEBUG
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("GREENSIGHT_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GREENSIGHT_PORT: %v", ErrInvalidConfig, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("GREENSIGHT_MODEL_DIR"); v != "" {
		cfg.Models.Dir = v
	}
	if v := os.Getenv("GREENSIGHT_DEFAULT_REGION"); v != "" {
		cfg.Scoring.DefaultRegion = v
	}
	if v := os.Getenv("GREENSIGHT_CARBON_TABLE"); v != "" {
		cfg.Scoring.CarbonTablePath = v
	}
	if v := os.Getenv("GREENSIGHT_MAX_CODE_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: GREENSIGHT_MAX_CODE_BYTES: %v", ErrInvalidConfig, err)
		}
		cfg.Limits.MaxCodeBytes = n
	}
	if v := os.Getenv("GREENSIGHT_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: GREENSIGHT_DEBUG: %v", ErrInvalidConfig, err)
		}
		cfg.Server.Debug = debug
	}
	return nil
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command greensight starts the Greensight analysis API server.
//
// Greensight scores source code for energy, carbon, memory, and CPU
// cost, and suggests concrete optimizations:
//   - Multi-language support (Python, JavaScript, TypeScript, Java, C, C++)
//   - Regression-model scoring with regional carbon accounting
//   - Ranked before/after optimization suggestions
//   - Mechanical rewrites with before/after comparison
//
// Usage:
//
//	go run ./cmd/greensight
//	go run ./cmd/greensight -port 9090 -model-dir ./models
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/analysis/health
//
//	# Analyze a snippet
//	curl -X POST http://localhost:8080/v1/analysis/analyze \
//	  -H "Content-Type: application/json" \
//	  -d '{"code": "for i in range(len(xs)):\n    print(xs[i])", "language": "python"}'
//
//	# Optimize a snippet
//	curl -X POST http://localhost:8080/v1/analysis/optimize \
//	  -H "Content-Type: application/json" \
//	  -d '{"code": "for i in range(len(xs)):\n    print(xs[i])", "language": "python"}'
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/greensight-ai/greensight/pkg/logging"
	"github.com/greensight-ai/greensight/services/analysis"
	"github.com/greensight-ai/greensight/services/analysis/config"
	"github.com/greensight-ai/greensight/services/analysis/model"
	"github.com/greensight-ai/greensight/services/analysis/score"
	"github.com/greensight-ai/greensight/services/analysis/telemetry"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to a YAML config file")
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	modelDir := flag.String("model-dir", "", "Directory with model manifests (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	flag.Parse()

	logger := logging.New(logging.Config{
		Level:   logLevel(*debug),
		Service: "analysis",
	})
	defer logger.Close()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err.Error())
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *modelDir != "" {
		cfg.Models.Dir = *modelDir
	}
	if *debug {
		cfg.Server.Debug = true
	}

	if cfg.Server.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	tcfg := telemetry.DefaultConfig()
	tcfg.TraceExporter = cfg.Telemetry.TraceExporter
	tcfg.MetricExporter = cfg.Telemetry.MetricExporter
	tcfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	shutdownTelemetry, err := telemetry.Init(ctx, tcfg)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err.Error())
		os.Exit(1)
	}

	svc, err := buildService(cfg)
	if err != nil {
		logger.Error("Failed to build analysis service", "error", err.Error())
		os.Exit(1)
	}

	handlers := analysis.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("greensight"))
	if cfg.Server.Debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	analysis.RegisterRoutes(v1, handlers)

	if h := telemetry.MetricsHandler(); h != nil {
		router.GET("/metrics", gin.WrapH(h))
	}

	printBanner(cfg.Server.Port, cfg.Models.Dir, languagesLine(svc))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting Greensight analysis server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err.Error())
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("Shutting down Greensight analysis server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", "error", err.Error())
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", "error", err.Error())
	}
}

// buildService wires the model registry, carbon table, and pipeline
// from the loaded configuration.
func buildService(cfg config.Config) (*analysis.Service, error) {
	registry, err := model.Load(cfg.Models.Dir)
	if err != nil {
		return nil, fmt.Errorf("load models: %w", err)
	}

	carbon := score.DefaultTable()
	if cfg.Scoring.CarbonTablePath != "" {
		carbon, err = score.LoadTable(cfg.Scoring.CarbonTablePath)
		if err != nil {
			return nil, fmt.Errorf("load carbon table: %w", err)
		}
	}

	return analysis.NewService(registry, carbon, analysis.ServiceConfig{
		MaxCodeBytes:  cfg.Limits.MaxCodeBytes,
		DefaultRegion: cfg.Scoring.DefaultRegion,
	})
}

func logLevel(debug bool) logging.Level {
	if debug {
		return logging.LevelDebug
	}
	return logging.LevelInfo
}

func languagesLine(svc *analysis.Service) string {
	line := ""
	for i, lang := range svc.Languages() {
		if i > 0 {
			line += ", "
		}
		line += lang
	}
	return line
}

func printBanner(port int, modelDir, languages string) {
	banner := `
╔═══════════════════════════════════════════════════════════════════╗
║                     GREENSIGHT ANALYSIS SERVER                    ║
╠═══════════════════════════════════════════════════════════════════╣
║                                                                   ║
║  Code sustainability scoring and optimization suggestions.        ║
║                                                                   ║
║  Quick Start:                                                     ║
║  ┌─────────────────────────────────────────────────────────────┐  ║
║  │ # Health check                                              │  ║
║  │ curl http://localhost:%-5d/v1/analysis/health              │  ║
║  │                                                             │  ║
║  │ # Analyze a snippet                                         │  ║
║  │ curl -X POST http://localhost:%-5d/v1/analysis/analyze \   │  ║
║  │   -H "Content-Type: application/json" \                     │  ║
║  │   -d '{"code": "...", "language": "python"}'                │  ║
║  └─────────────────────────────────────────────────────────────┘  ║
║                                                                   ║
║  Endpoints: /analyze, /optimize, /languages, /rules,              ║
║             /health, /ready                                       ║
║                                                                   ║
║  Press Ctrl+C to stop                                             ║
╚═══════════════════════════════════════════════════════════════════╝
Model dir: %s
Languages: %s
`
	fmt.Printf(banner, port, port, modelDir, languages)
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	languageFlag string
	regionFlag   string
	modelsFlag   string
	jsonFlag     bool
	outputFlag   string

	rootCmd = &cobra.Command{
		Use:   "greenctl",
		Short: "A cli to score and optimize source code for sustainability",
		Long: `Greenctl estimates the energy, carbon, memory, and CPU cost of a
code snippet and suggests concrete optimizations, without sending
the code anywhere.`,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [file]",
		Short: "Score a file (or stdin) and list ranked optimization suggestions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze, // Defined in cmd_analyze.go
	}

	optimizeCmd = &cobra.Command{
		Use:   "optimize [file]",
		Short: "Apply mechanical rewrites and show the before/after comparison",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize, // Defined in cmd_optimize.go
	}

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "List the optimization rules the analyzer knows about",
		RunE:  runRules, // Defined in cmd_analyze.go
	}

	languagesCmd = &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		RunE:  runLanguages, // Defined in cmd_analyze.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&modelsFlag, "models", "models", "Directory with model manifests")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of human-readable output")

	analyzeCmd.Flags().StringVar(&languageFlag, "language", "", "Language of the code (default: auto-detect)")
	analyzeCmd.Flags().StringVar(&regionFlag, "region", "", "Carbon region code, e.g. FR or US (default: world)")

	optimizeCmd.Flags().StringVar(&languageFlag, "language", "", "Language of the code (default: auto-detect)")
	optimizeCmd.Flags().StringVar(&regionFlag, "region", "", "Carbon region code, e.g. FR or US (default: world)")
	optimizeCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the optimized code to this file")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(languagesCmd)
}

// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/greensight-ai/greensight/services/analysis"
	"github.com/greensight-ai/greensight/services/analysis/model"
	"github.com/greensight-ai/greensight/services/analysis/score"
)

// runAnalyze scores the input and prints ranked suggestions.
func runAnalyze(cmd *cobra.Command, args []string) error {
	code, filename, err := readInput(args)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	result, err := svc.Analyze(cmd.Context(), analysis.AnalyzeRequest{
		Code:     code,
		Language: languageFlag,
		Filename: filename,
		Region:   regionFlag,
	})
	if err != nil {
		return err
	}

	if jsonFlag {
		return writeJSON(os.Stdout, result)
	}
	renderAnalysis(os.Stdout, result)
	return nil
}

// runRules lists the registered optimization rules.
func runRules(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	rules := svc.Rules()
	if jsonFlag {
		return writeJSON(os.Stdout, rules)
	}
	renderRules(os.Stdout, rules)
	return nil
}

// runLanguages lists supported languages.
func runLanguages(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	langs := svc.Languages()
	if jsonFlag {
		return writeJSON(os.Stdout, langs)
	}
	for _, lang := range langs {
		fmt.Println(lang)
	}
	return nil
}

// newService builds the analysis pipeline from the --models directory
// and the built-in carbon table.
func newService() (*analysis.Service, error) {
	registry, err := model.Load(modelsFlag)
	if err != nil {
		return nil, fmt.Errorf("load models from %s: %w", modelsFlag, err)
	}
	return analysis.NewService(registry, score.DefaultTable(), analysis.DefaultServiceConfig())
}

// readInput reads code from the file argument, or from stdin when the
// input is piped.
func readInput(args []string) (code, filename string, err error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(data), filepath.Base(args[0]), nil
	}

	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return "", "", fmt.Errorf("no input: pass a file argument or pipe code on stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), "", nil
}

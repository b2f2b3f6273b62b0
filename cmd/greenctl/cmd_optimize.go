// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greensight-ai/greensight/services/analysis"
)

// runOptimize applies mechanical rewrites and prints the comparison.
func runOptimize(cmd *cobra.Command, args []string) error {
	code, filename, err := readInput(args)
	if err != nil {
		return err
	}

	svc, err := newService()
	if err != nil {
		return err
	}

	result, err := svc.Optimize(cmd.Context(), analysis.OptimizeRequest{
		Code:     code,
		Language: languageFlag,
		Filename: filename,
		Region:   regionFlag,
	})
	if err != nil {
		return err
	}

	if outputFlag != "" {
		if err := os.WriteFile(outputFlag, []byte(result.OptimizedCode), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", outputFlag, err)
		}
	}

	if jsonFlag {
		return writeJSON(os.Stdout, result)
	}
	renderOptimization(os.Stdout, result)
	return nil
}

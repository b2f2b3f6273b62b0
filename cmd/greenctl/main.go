// Copyright (C) 2025 Greensight AI (oss@greensight.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command greenctl analyzes and optimizes source code for
// sustainability from the command line.
//
// Usage:
//
//	greenctl analyze main.py --region FR
//	cat main.py | greenctl analyze --language python
//	greenctl optimize main.py --json
//	greenctl rules
//	greenctl languages
package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	// Optional .env for local development.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

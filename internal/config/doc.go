// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for ladle.
//
// Settings live in a single TOML file with sensible defaults, environment
// variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - CloudConfig: OpenAI-compatible provider settings
//   - LocalConfig: Ollama provider settings
//   - GenerationConfig: Sampling parameters shared by both providers
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LADLE_*)
//   - ~/.ladle/config.toml
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	model := cfg.ActiveModel()
//	temp := cfg.Generation.Temperature
package config

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for ladle.
//
// This package implements all non-TUI commands: one-shot recipe queries,
// configuration management, the first-run setup wizard, recipe box
// management, model listing, and system diagnostics.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - JSONResponse: Machine-readable output envelope for --json mode
//
// # Usage
//
// Parse and execute commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	...
//	}
//
// All commands honor TTY detection: colored, glamour-rendered output on
// interactive terminals, plain text when piped or redirected.
package cli

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the ladle TUI:
// message bubbles, the structured recipe card, the raw-response viewer,
// status bar, spinner, error box, and welcome screen. Components take the
// Theme explicitly; none of them read global state.
package components

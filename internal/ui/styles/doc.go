// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the ladle TUI.
//
// A Theme is constructed once at startup via NewTheme, which probes the
// terminal's color profile and background, then is passed explicitly to
// every component that renders. The palette in colors.go uses Lip Gloss
// adaptive colors so the same theme reads well on light and dark
// terminals. TagStyle maps recipe tags to colored emoji badges.
package styles

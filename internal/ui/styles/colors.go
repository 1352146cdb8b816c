// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the ladle TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Herb - Primary accent, the kitchen green used for branding and headers
var Herb = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#4CAF50"}

// HerbDeep - Darker green for backgrounds and borders
var HerbDeep = lipgloss.AdaptiveColor{Light: "#1B5E20", Dark: "#1B5E20"}

// Saffron - Secondary accent, highlights and calls to action
var Saffron = lipgloss.AdaptiveColor{Light: "#E65100", Dark: "#FFA726"}

// SaffronDeep - Darker orange for backgrounds
var SaffronDeep = lipgloss.AdaptiveColor{Light: "#BF360C", Dark: "#E65100"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Tomato - Errors, critical alerts
var Tomato = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}

// Honey - Warnings, cloud mode indicator
var Honey = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}

// Mint - Success states, local mode indicator
var Mint = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#212121", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#757575", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9E9E9E", Dark: "#6C7086"}

// TextInverse - Text on colored backgrounds
var TextInverse = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Indigo tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#E8EAF6", Dark: "#3F51B5"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#3F51B5", Dark: "#E8EAF6"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#5C6BC0", Dark: "#5C6BC0"}

// Assistant message bubble - Teal tones
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#E0F2F1", Dark: "#00695C"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#00695C", Dark: "#E0F2F1"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#26A69A", Dark: "#26A69A"}

// System message bubble - Amber tones
var SystemBubbleBg = lipgloss.AdaptiveColor{Light: "#FEF3C7", Dark: "#78350F"}
var SystemBubbleFg = lipgloss.AdaptiveColor{Light: "#92400E", Dark: "#FEF3C7"}
var SystemBubbleBorder = lipgloss.AdaptiveColor{Light: "#F59E0B", Dark: "#F59E0B"}

// =============================================================================
// RECIPE CARD COLORS
// =============================================================================

// Ingredient section - warm orange wash
var IngredientBg = lipgloss.AdaptiveColor{Light: "#FFF3E0", Dark: "#4E342E"}
var IngredientAccent = lipgloss.AdaptiveColor{Light: "#FF9800", Dark: "#FFB74D"}

// Instruction section - soft green wash
var InstructionBg = lipgloss.AdaptiveColor{Light: "#E8F5E9", Dark: "#1B3C22"}
var InstructionAccent = lipgloss.AdaptiveColor{Light: "#4CAF50", Dark: "#81C784"}

// Tip section - light blue wash
var TipBg = lipgloss.AdaptiveColor{Light: "#E3F2FD", Dark: "#0D3C61"}
var TipAccent = lipgloss.AdaptiveColor{Light: "#2196F3", Dark: "#64B5F6"}

// =============================================================================
// TAG BADGE COLORS
// =============================================================================

var TagHealthy = lipgloss.AdaptiveColor{Light: "#66BB6A", Dark: "#66BB6A"}
var TagQuick = lipgloss.AdaptiveColor{Light: "#AB47BC", Dark: "#AB47BC"}
var TagEasy = lipgloss.AdaptiveColor{Light: "#42A5F5", Dark: "#42A5F5"}
var TagTasty = lipgloss.AdaptiveColor{Light: "#EC407A", Dark: "#EC407A"}
var TagDiet = lipgloss.AdaptiveColor{Light: "#26C6DA", Dark: "#26C6DA"}
var TagDefault = lipgloss.AdaptiveColor{Light: "#78909C", Dark: "#78909C"}

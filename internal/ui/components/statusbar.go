// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/ui/styles"
	"github.com/jeranaias/ladle/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// StatusBar shows the active provider, model, token usage, and key hints
// at the bottom of the chat view.
type StatusBar struct {
	Provider   config.Provider
	Model      string
	TokensUsed int
	SavedCount int
	Width      int
	theme      *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	left := s.renderProvider()

	if s.Model != "" {
		left += s.theme.StatusBar.Render(" " + truncateForDisplay(s.Model, 24))
	}
	if s.TokensUsed > 0 {
		left += s.theme.StatusBar.Render(" | " + util.IntToString(s.TokensUsed) + " tok")
	}
	if s.SavedCount > 0 {
		left += s.theme.StatusBar.Render(" | 📦 " + util.IntToString(s.SavedCount))
	}

	right := s.renderShortcuts()

	gap := s.Width - runewidth.StringWidth(stripForWidth(left)) - runewidth.StringWidth(stripForWidth(right))
	if gap < 1 {
		gap = 1
	}

	return left + strings.Repeat(" ", gap) + right
}

// renderProvider renders the provider indicator with its mode color.
func (s *StatusBar) renderProvider() string {
	switch s.Provider {
	case config.ProviderLocal:
		return s.theme.ModeLocal.Render("● local")
	case config.ProviderCloud:
		return s.theme.ModeCloud.Render("● cloud")
	default:
		return s.theme.StatusBar.Render("● ?")
	}
}

// renderShortcuts renders the key hint cluster.
func (s *StatusBar) renderShortcuts() string {
	hints := []struct{ key, desc string }{
		{"/help", "commands"},
		{"esc", "cancel"},
		{"ctrl+c", "quit"},
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, s.theme.ShortcutKey.Render(h.key)+" "+s.theme.ShortcutDesc.Render(h.desc))
	}
	return strings.Join(parts, "  ")
}

// stripForWidth removes ANSI sequences so width math uses visible cells.
func stripForWidth(s string) string {
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case inEscape:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEscape = false
			}
		case r == '\x1b':
			inEscape = true
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header renders the application title bar.
type Header struct {
	Title    string
	Subtitle string
	Width    int
	theme    *styles.Theme
}

// NewHeader creates the title bar.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "🥄 ladle",
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header line.
func (h *Header) View() string {
	title := h.theme.HeaderBrand.Render(h.Title)
	if h.Subtitle != "" {
		title += " " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}
	return lipgloss.NewStyle().
		Width(h.Width).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(styles.Overlay).
		Render(title)
}

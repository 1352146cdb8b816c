// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN COMPONENT
// =============================================================================

const ladleLogo = `
 _           _ _
| | __ _  __| | | ___
| |/ _` + "`" + ` |/ _` + "`" + ` | |/ _ \
| | (_| | (_| | |  __/
|_|\__,_|\__,_|_|\___|
`

// Welcome is the empty-conversation splash screen.
type Welcome struct {
	Version  string
	Provider config.Provider
	Model    string
	ShowTips bool
	Width    int
	theme    *styles.Theme
}

// NewWelcome creates a welcome screen.
func NewWelcome(version string, theme *styles.Theme) *Welcome {
	return &Welcome{
		Version:  version,
		ShowTips: true,
		Width:    80,
		theme:    theme,
	}
}

// SetWidth sets the screen width.
func (w *Welcome) SetWidth(width int) {
	w.Width = width
}

// View renders the welcome box.
func (w *Welcome) View() string {
	lines := []string{
		w.theme.WelcomeLogo.Render(strings.TrimLeft(ladleLogo, "\n")),
		w.theme.WelcomeVersion.Render("v" + w.Version + " — your recipe sous-chef"),
		"",
		w.theme.WelcomeInfo.Render(w.providerLine()),
	}

	if w.ShowTips {
		lines = append(lines,
			"",
			w.theme.WelcomeInfo.Render("Try: ")+w.theme.WelcomeKey.Render(`"a quick weeknight pasta for two"`),
			w.theme.WelcomeInfo.Render("Commands: ")+w.theme.WelcomeKey.Render("/help")+
				w.theme.WelcomeInfo.Render("  Save a recipe: ")+w.theme.WelcomeKey.Render("/save"),
		)
	}

	lines = append(lines, "", w.theme.WelcomePressKey.Render("Type a craving and press Enter"))

	box := w.theme.WelcomeBox.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))

	return lipgloss.NewStyle().
		Width(w.Width).
		Align(lipgloss.Center).
		Render(box)
}

// providerLine describes the active provider and model.
func (w *Welcome) providerLine() string {
	mode := "local (Ollama)"
	if w.Provider == config.ProviderCloud {
		mode = "cloud"
	}
	if w.Model != "" {
		return "Provider: " + mode + " · Model: " + w.Model
	}
	return "Provider: " + mode
}

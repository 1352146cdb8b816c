// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

// =============================================================================
// ERROR BOX COMPONENT
// =============================================================================

// ErrorBox renders an error with a recovery suggestion.
type ErrorBox struct {
	Err   error
	Width int
	theme *styles.Theme
}

// NewErrorBox creates an error box for the given error.
func NewErrorBox(err error, theme *styles.Theme) *ErrorBox {
	return &ErrorBox{
		Err:   err,
		Width: 80,
		theme: theme,
	}
}

// SetWidth sets the box width.
func (e *ErrorBox) SetWidth(width int) {
	e.Width = width
}

// View renders the error box.
func (e *ErrorBox) View() string {
	if e.Err == nil {
		return ""
	}

	title, suggestion := classifyError(e.Err)

	maxWidth := e.Width - 10
	if maxWidth < 30 {
		maxWidth = 30
	}

	lines := []string{
		e.theme.ErrorTitle.Render("✗ " + title),
		e.theme.ErrorMessage.Render(wordWrap(e.Err.Error(), maxWidth)),
	}
	if suggestion != "" {
		lines = append(lines, e.theme.ErrorSuggestion.Render(wordWrap("→ "+suggestion, maxWidth)))
	}

	return e.theme.ErrorBox.
		MaxWidth(e.Width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// classifyError maps known provider errors to a title and a recovery
// suggestion the user can act on.
func classifyError(err error) (title, suggestion string) {
	switch {
	case errors.Is(err, cloud.ErrNotConfigured):
		return "Not configured", "Run `ladle setup` or set cloud.api_key in the settings file."
	case errors.Is(err, cloud.ErrAuthFailed):
		return "Authentication failed", "Check that your API key is valid and has not expired."
	case errors.Is(err, cloud.ErrRateLimited):
		return "Rate limited", "Wait a moment and try again."
	case errors.Is(err, cloud.ErrInsufficientCredits):
		return "Out of credits", "Add credits to your API account or switch to local mode with /provider local."
	case errors.Is(err, cloud.ErrModelNotFound):
		return "Model not found", "Run /models to list the models your provider offers."
	}

	var localErr *local.ClientError
	if errors.As(err, &localErr) {
		switch localErr.Type {
		case local.ErrTypeNotRunning, local.ErrTypeConnection:
			return "Ollama not reachable", "Start the Ollama server (`ollama serve`) or switch to cloud mode with /provider cloud."
		case local.ErrTypeModelNotFound:
			return "Model not installed", "Pull the model first (`ollama pull <name>`) or run /models to see what is installed."
		case local.ErrTypeTimeout:
			return "Request timed out", "The model may still be loading; try again."
		}
	}

	if strings.Contains(err.Error(), "context canceled") {
		return "Cancelled", ""
	}
	return "Error", ""
}

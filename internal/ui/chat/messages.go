// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/model"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a streaming response has begun.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTokenMsg carries a single token from the streaming goroutine.
type StreamTokenMsg struct {
	MessageID string
	Token     string
	IsFirst   bool
}

// StreamTickMsg drives the batched viewport refresh during streaming.
type StreamTickMsg struct {
	Time time.Time
}

// StreamCompleteMsg signals that streaming finished successfully.
type StreamCompleteMsg struct {
	MessageID string
	Stats     *model.Statistics
}

// StreamErrorMsg signals a streaming failure.
type StreamErrorMsg struct {
	MessageID string
	Error     error
}

// =============================================================================
// PROVIDER MESSAGES
// =============================================================================

// ModelsMsg carries the model list for the active provider.
type ModelsMsg struct {
	Models []string
	Error  error
}

// ModelSwitchedMsg signals a model change.
type ModelSwitchedMsg struct {
	Model string
	Error error
}

// ProviderSwitchedMsg signals a provider change.
type ProviderSwitchedMsg struct {
	Provider string
}

// OllamaStatusMsg carries the result of the startup connectivity check.
type OllamaStatusMsg struct {
	Running bool
	Error   error
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// RecipeSavedMsg signals the result of /save.
type RecipeSavedMsg struct {
	Title string
	Error error
}

// ExportDoneMsg signals the result of /export.
type ExportDoneMsg struct {
	Path  string
	Error error
}

// ConversationSavedMsg signals a conversation persistence result.
type ConversationSavedMsg struct {
	ID    string
	Error error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg is sent when the settings file changes on disk.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// ERROR MESSAGES
// =============================================================================

// ErrorMsg puts the view into the blocking error state.
type ErrorMsg struct {
	Err error
}

// ErrorDismissMsg clears the error state.
type ErrorDismissMsg struct{}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the interactive chat view of the TUI.
//
// The Model owns the conversation, the provider clients, and the
// viewport/input widgets. Responses stream token by token: a goroutine
// reads from the provider and delivers tokens via program.Send, a
// StreamingBuffer batches them, and a tick loop flushes the batch into
// the viewport at roughly 30 frames per second. Slash commands
// (/help, /save, /export, ...) are dispatched in commands.go.
package chat

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides conversation persistence for ladle.
//
// Conversations are stored as one pretty-printed JSON file per
// conversation under ~/.ladle/conversations/. Writes are atomic
// (temp file + rename with fsync) so a crash mid-save never corrupts an
// existing conversation. Parsed recipe attachments are persisted with
// their messages, so reopening a conversation restores the recipe cards
// without re-parsing.
//
// The store caps the number of kept conversations and evicts the oldest
// by update time when the cap is exceeded. Corrupted files are skipped
// during listing rather than failing the whole listing.
package storage

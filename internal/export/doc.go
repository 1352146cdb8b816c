// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes recipes and conversations to shareable files.
//
// Recipes export to Markdown, pretty-printed JSON (the same schema the
// parser reads, so exports round-trip), or a self-contained HTML card
// page. Conversations export to Markdown with parsed recipes rendered as
// structured sections instead of the raw model JSON. Output filenames are
// slugged from the title plus a timestamp; writes are atomic.
package export

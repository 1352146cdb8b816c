// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipebox provides the SQLite-backed saved recipe store.
//
// Saved recipes live in a single-file database (~/.ladle/recipes.db,
// WAL mode, one writer). Each recipe is stored as its JSON document with
// the title, tag list, and servings duplicated into columns so listing
// and search never decode documents. database/sql serializes access, so
// the Box is safe for concurrent use from the TUI and CLI.
package recipebox

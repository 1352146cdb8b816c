// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// A Conversation is an ordered list of Messages plus the provider/model
// metadata needed to replay it. Assistant messages run the recipe parser
// when they are finalized and carry the parsed recipe alongside the raw
// response text, so the UI can render a card while exports and the wire
// history keep the original content.
//
// The package has no locking: a conversation is owned by one goroutine at
// a time (the chat model on the UI side, a worker while a response is
// being finalized).
package model

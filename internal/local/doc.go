// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package local provides the HTTP client for a local Ollama server.
//
// Ollama streams chat responses as newline-delimited JSON over plain HTTP
// on localhost. The client exposes blocking and streaming chat calls plus
// model listing, and maps transport failures to typed errors so the UI can
// offer setup guidance instead of a raw dial error.
//
// # Usage
//
//	client := local.NewClient("http://localhost:11434")
//	if err := client.CheckRunning(ctx); err != nil {
//	    fmt.Println(local.ConnectionGuidance())
//	    return
//	}
//	resp, err := client.Chat(ctx, "llama2", messages, nil)
//
// Generation can take minutes on modest hardware, so the default request
// timeout is two minutes and streaming requests are bounded only by the
// caller's context.
package local

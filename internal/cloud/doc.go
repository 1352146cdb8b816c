// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cloud provides the client for OpenAI-compatible chat APIs.
//
// The client targets the hosted OpenAI API by default but works against
// any server speaking the same protocol (LM Studio, vLLM, gateways) via
// the base URL; when no API key is configured against a custom base URL
// the Authorization header is simply omitted.
//
// Requests go through a client-side rate limiter and transient failures
// (HTTP 429 and 5xx) are retried with exponential backoff. Response
// bodies are size-capped. Streaming uses SSE with context cancellation;
// a mid-stream failure is reported as a StreamError carrying the partial
// content received so far, so the UI can keep what arrived.
package cloud

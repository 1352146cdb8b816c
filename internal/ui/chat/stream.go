// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/model"
)

// =============================================================================
// PROGRAM REFERENCE
// =============================================================================

// programRef lets streaming goroutines deliver messages into the Bubble
// Tea loop. Guarded by a mutex because the goroutines outlive individual
// Update calls.
var (
	programMu  sync.Mutex
	programRef *tea.Program
)

// SetProgram stores the running program so streaming goroutines can send
// messages into it. Call once after tea.NewProgram.
func SetProgram(p *tea.Program) {
	programMu.Lock()
	defer programMu.Unlock()
	programRef = p
}

// sendMsg delivers a message to the program, dropping it if the program
// has not started yet.
func sendMsg(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches tokens for efficient rendering. Tokens are
// accumulated and flushed when either the batch size threshold or the
// frame interval is reached, capping viewport refreshes around 30fps.
//
// Thread-safe: tokens arrive from the streaming goroutine while flushes
// happen on the Bubble Tea loop.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	batchSize  int
	minFlushMs time.Duration
}

// NewStreamingBuffer creates a streaming buffer with default settings:
// 15-token batches at most 30 times per second.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{
		batchSize:  15,
		minFlushMs: 33 * time.Millisecond,
		lastFlush:  time.Now(),
	}
}

// Write adds a token to the buffer.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(token)
	sb.tokenCount++
}

// Flush returns accumulated content if a flush threshold has been
// reached. Returns ("", false) when nothing should be rendered yet.
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.tokenCount < sb.batchSize && time.Since(sb.lastFlush) < sb.minFlushMs {
		return "", false
	}
	return sb.drainLocked()
}

// ForceFlush immediately returns all buffered content regardless of
// thresholds. Used when a stream completes or is cancelled.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.drainLocked()
}

// Reset clears the buffer without flushing.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of tokens waiting to be flushed.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

func (sb *StreamingBuffer) drainLocked() (string, bool) {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return content, true
}

// streamTickCmd schedules the next batched viewport refresh (~30fps).
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}

// =============================================================================
// CANCEL MANAGEMENT
// =============================================================================

// cancelManager holds the in-flight stream's cancel function behind a
// mutex. Kept as a pointer on Model so Bubble Tea's model copies never
// copy the mutex.
type cancelManager struct {
	mu         sync.Mutex
	cancelFunc context.CancelFunc
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

func (cm *cancelManager) set(fn context.CancelFunc) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.cancelFunc = fn
}

// cancel invokes and clears the stored cancel function. Safe to call
// when nothing is in flight.
func (cm *cancelManager) cancel() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.cancelFunc != nil {
		cm.cancelFunc()
		cm.cancelFunc = nil
	}
}

// =============================================================================
// STREAM RUNNERS
// =============================================================================

// startStream launches the provider stream in a goroutine and returns
// the StreamStartMsg. Tokens and completion arrive via program.Send.
func (m *Model) startStream(messageID string) tea.Cmd {
	m.cancelMgr.cancel()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	provider := m.provider
	wire := m.conversation.ToWireMessages()

	switch provider {
	case config.ProviderCloud:
		client := m.cloudClient
		go runCloudStream(ctx, client, messageID, wire)
	default:
		client := m.localClient
		modelName := m.modelName
		opts := m.localOptions
		go runLocalStream(ctx, client, modelName, opts, messageID, wire)
	}

	return func() tea.Msg {
		return StreamStartMsg{MessageID: messageID, StartTime: time.Now()}
	}
}

// runCloudStream streams from the OpenAI-compatible endpoint, forwarding
// each delta as a StreamTokenMsg.
func runCloudStream(ctx context.Context, client *cloud.Client, messageID string, wire []model.WireMessage) {
	if client == nil {
		sendMsg(StreamErrorMsg{MessageID: messageID, Error: cloud.ErrNotConfigured})
		return
	}

	messages := make([]cloud.ChatMessage, 0, len(wire))
	for _, w := range wire {
		messages = append(messages, cloud.ChatMessage{Role: w.Role, Content: w.Content})
	}

	stats := model.NewStatistics()
	isFirst := true
	tokenCount := 0

	err := client.ChatStream(ctx, messages, func(chunk cloud.StreamChunk) {
		content := chunk.GetContent()
		if content != "" {
			tokenCount++
			sendMsg(StreamTokenMsg{MessageID: messageID, Token: content, IsFirst: isFirst})
			isFirst = false
		}
		if chunk.Usage != nil {
			stats.PromptTokens = chunk.Usage.PromptTokens
			tokenCount = chunk.Usage.CompletionTokens
		}
	})
	if err != nil {
		sendMsg(StreamErrorMsg{MessageID: messageID, Error: err})
		return
	}

	stats.Finalize(tokenCount)
	sendMsg(StreamCompleteMsg{MessageID: messageID, Stats: stats})
}

// runLocalStream streams from the Ollama server, forwarding each chunk
// as a StreamTokenMsg.
func runLocalStream(ctx context.Context, client *local.Client, modelName string, opts *local.Options, messageID string, wire []model.WireMessage) {
	if client == nil {
		sendMsg(StreamErrorMsg{MessageID: messageID, Error: local.ErrNotRunning})
		return
	}

	messages := make([]local.Message, 0, len(wire))
	for _, w := range wire {
		messages = append(messages, local.Message{Role: w.Role, Content: w.Content})
	}

	stats := model.NewStatistics()
	isFirst := true
	tokenCount := 0

	err := client.ChatStream(ctx, modelName, messages, opts, func(chunk local.StreamChunk) {
		if chunk.Content != "" {
			tokenCount++
			sendMsg(StreamTokenMsg{MessageID: messageID, Token: chunk.Content, IsFirst: isFirst})
			isFirst = false
		}
		if chunk.Done && chunk.CompletionTokens > 0 {
			tokenCount = chunk.CompletionTokens
			stats.PromptTokens = chunk.PromptTokens
		}
	})
	if err != nil {
		sendMsg(StreamErrorMsg{MessageID: messageID, Error: err})
		return
	}

	stats.Finalize(tokenCount)
	sendMsg(StreamCompleteMsg{MessageID: messageID, Stats: stats})
}

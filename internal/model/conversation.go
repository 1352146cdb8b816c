// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/util"
)

// MaxMessages is the maximum number of messages to keep in conversation history.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 200

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Provider and model that answered this conversation
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model"`

	// Token tracking
	TokensUsed int `json:"tokens_used"`

	// System prompt sent ahead of the history. Defaults to the recipe
	// prompt; kept per conversation so old sessions replay unchanged.
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// NewConversation creates a new conversation with a generated ID and the
// recipe system prompt.
func NewConversation() *Conversation {
	return &Conversation{
		ID:           generateConversationID(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Messages:     make([]*Message, 0),
		SystemPrompt: recipe.SystemPrompt,
	}
}

// NewConversationWithModel creates a new conversation bound to a provider
// and model.
func NewConversationWithModel(provider, model string) *Conversation {
	conv := NewConversation()
	conv.Provider = provider
	conv.Model = model
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage adds a message to the conversation.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTokenEstimate()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and adds a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds a streaming assistant message.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and adds a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastAssistantMessage returns the most recent assistant message.
func (c *Conversation) GetLastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// GetLastUserMessage returns the most recent user message.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// GetLastRecipe returns the most recent parsed recipe in the conversation,
// or nil when no assistant response produced one.
func (c *Conversation) GetLastRecipe() *recipe.Recipe {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].HasRecipe() {
			return c.Messages[i].Recipe
		}
	}
	return nil
}

// AppendToLast appends a token to the last (streaming) message.
func (c *Conversation) AppendToLast(token string) {
	last := c.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.AppendToken(token)
	}
}

// FinalizeLast finalizes the last streaming message with statistics.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	last := c.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.FinalizeStream(stats)
		c.updateTokenEstimate()
	}
}

// ClearHistory removes all messages from the conversation.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.TokensUsed = 0
	c.UpdatedAt = time.Now()
}

// RemoveMessage removes a message by ID.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			c.updateTokenEstimate()
			return true
		}
	}
	return false
}

// GetMessageByID returns a message by its ID.
func (c *Conversation) GetMessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// GetHistory returns the message history for display.
func (c *Conversation) GetHistory() []*Message {
	return c.Messages
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// WireMessage is the provider-neutral role/content pair sent to either
// backend. Both the cloud and local clients accept this shape.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToWireMessages converts the conversation to the role/content list a chat
// endpoint expects, with the system prompt first. Empty and streaming
// placeholder messages are skipped.
func (c *Conversation) ToWireMessages() []WireMessage {
	messages := make([]WireMessage, 0, len(c.Messages)+1)

	if c.SystemPrompt != "" {
		messages = append(messages, WireMessage{Role: "system", Content: c.SystemPrompt})
	}

	for _, msg := range c.Messages {
		content := msg.GetDisplayContent()
		if content == "" {
			continue
		}
		switch msg.Role {
		case RoleUser, RoleAssistant, RoleSystem:
			messages = append(messages, WireMessage{Role: msg.Role.String(), Content: content})
		}
	}

	return messages
}

// =============================================================================
// METADATA MAINTENANCE
// =============================================================================

// updateTitle derives the title from the first user message when unset.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			c.Title = util.TruncateRunes(strings.TrimSpace(msg.Content), 50)
			return
		}
	}
}

// updateTokenEstimate recomputes the rough token count for the history.
func (c *Conversation) updateTokenEstimate() {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens()
	}
	c.TokensUsed = total
}

// pruneOldMessages drops the oldest messages beyond MaxMessages, keeping
// the most recent history intact.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	excess := len(c.Messages) - MaxMessages
	c.Messages = append(c.Messages[:0:0], c.Messages[excess:]...)
	c.updateTokenEstimate()
}

// generateConversationID creates a unique conversation ID.
func generateConversationID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return "conv_" + hex.EncodeToString(bytes)
}

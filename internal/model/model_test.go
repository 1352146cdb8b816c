// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_StreamingLifecycle(t *testing.T) {
	msg := NewAssistantMessage()
	if !msg.IsStreaming {
		t.Fatal("new assistant message should be streaming")
	}

	msg.AppendToken("Hello")
	msg.AppendToken(" world")
	if got := msg.GetDisplayContent(); got != "Hello world" {
		t.Errorf("GetDisplayContent() = %q, want %q", got, "Hello world")
	}

	stats := NewStatistics()
	stats.RecordFirstToken()
	stats.Finalize(2)
	msg.FinalizeStream(stats)

	if msg.IsStreaming {
		t.Error("message should not be streaming after FinalizeStream")
	}
	if msg.Content != "Hello world" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hello world")
	}
	if msg.TokenCount != 2 {
		t.Errorf("TokenCount = %d, want 2", msg.TokenCount)
	}
}

func TestMessage_FinalizeParsesRecipe(t *testing.T) {
	msg := NewAssistantMessage()
	msg.AppendToken(`Here you go! {"title":"Toast","ingredients":["bread"],`)
	msg.AppendToken(`"instructions":["toast it"]} Enjoy!`)
	msg.FinalizeStream(nil)

	if !msg.HasRecipe() {
		t.Fatal("expected a recipe attachment")
	}
	if msg.Recipe.Title != "Toast" {
		t.Errorf("Recipe.Title = %q, want %q", msg.Recipe.Title, "Toast")
	}
	if !strings.Contains(msg.Content, "Enjoy!") {
		t.Error("raw content should be preserved alongside the recipe")
	}
}

func TestMessage_SetContentFallback(t *testing.T) {
	msg := NewAssistantMessage()
	msg.SetContent("I don't have a recipe for that.")

	if msg.HasRecipe() {
		t.Error("plain text response should not produce a recipe")
	}
	if msg.Content != "I don't have a recipe for that." {
		t.Errorf("Content = %q", msg.Content)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("A reasonably long prompt about lasagna variations")
	preview := msg.Preview(20)
	if len([]rune(preview)) > 20 {
		t.Errorf("Preview() length = %d runes, want <= 20", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview() = %q, want ellipsis suffix", preview)
	}
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	conv.AddSystemMessage("Connected to local model")
	conv.AddUserMessage("How do I make shakshuka?")
	conv.AddUserMessage("And a vegan version?")

	if conv.Title != "How do I make shakshuka?" {
		t.Errorf("Title = %q, want first user prompt", conv.Title)
	}
}

func TestConversation_ToWireMessages(t *testing.T) {
	conv := NewConversationWithModel("local", "llama3.2")
	conv.AddUserMessage("Quick pasta dinner?")

	// Streaming placeholder should be skipped until it has content.
	conv.AddAssistantMessage()

	wire := conv.ToWireMessages()
	if len(wire) != 2 {
		t.Fatalf("len(wire) = %d, want 2 (system + user)", len(wire))
	}
	if wire[0].Role != "system" || wire[0].Content == "" {
		t.Errorf("wire[0] = %+v, want system prompt first", wire[0])
	}
	if wire[1].Role != "user" || wire[1].Content != "Quick pasta dinner?" {
		t.Errorf("wire[1] = %+v", wire[1])
	}
}

func TestConversation_GetLastRecipe(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("toast?")

	msg := conv.AddAssistantMessage()
	msg.AppendToken(`{"title":"Toast","ingredients":["bread"],"instructions":["toast it"]}`)
	conv.FinalizeLast(nil)

	rec := conv.GetLastRecipe()
	if rec == nil || rec.Title != "Toast" {
		t.Fatalf("GetLastRecipe() = %+v, want Toast", rec)
	}
}

func TestConversation_PruneOldMessages(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < MaxMessages+10; i++ {
		conv.AddUserMessage("message")
	}
	if len(conv.Messages) != MaxMessages {
		t.Errorf("len(Messages) = %d, want %d", len(conv.Messages), MaxMessages)
	}
}

func TestConversation_RemoveMessage(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddUserMessage("hello")

	if !conv.RemoveMessage(msg.ID) {
		t.Fatal("RemoveMessage returned false for existing ID")
	}
	if conv.RemoveMessage("msg_missing") {
		t.Error("RemoveMessage returned true for missing ID")
	}
	if !conv.IsEmpty() {
		t.Error("conversation should be empty after removal")
	}
}

// =============================================================================
// STATISTICS TESTS
// =============================================================================

func TestStatistics_Format(t *testing.T) {
	stats := NewStatistics()
	stats.RecordFirstToken()
	stats.Finalize(128)

	out := stats.Format()
	if !strings.Contains(out, "128 tokens") {
		t.Errorf("Format() = %q, want token count", out)
	}
	if !strings.Contains(out, "TTFT") {
		t.Errorf("Format() = %q, want TTFT segment", out)
	}
}

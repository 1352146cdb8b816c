// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package local

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage("Hello")

	if msg.Role != "user" {
		t.Errorf("Role = %q, want 'user'", msg.Role)
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want 'Hello'", msg.Content)
	}
}

func TestNewSystemMessage(t *testing.T) {
	msg := NewSystemMessage("You are a recipe assistant")

	if msg.Role != "system" {
		t.Errorf("Role = %q, want 'system'", msg.Role)
	}
	if msg.Content != "You are a recipe assistant" {
		t.Errorf("Content = %q", msg.Content)
	}
}

// =============================================================================
// RESPONSE TESTS
// =============================================================================

func TestChatResponse_TokensPerSecond(t *testing.T) {
	tests := []struct {
		name         string
		evalCount    int
		evalDuration int64
		want         float64
	}{
		{"normal", 100, int64(time.Second), 100.0},
		{"zero duration", 100, 0, 0.0},
		{"fast", 1000, int64(100 * time.Millisecond), 10000.0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := &ChatResponse{
				EvalCount:    tc.evalCount,
				EvalDuration: tc.evalDuration,
			}

			got := resp.TokensPerSecond()

			if tc.want != 0 && (got < tc.want*0.99 || got > tc.want*1.01) {
				t.Errorf("TokensPerSecond() = %f, want %f", got, tc.want)
			}
			if tc.want == 0 && got != 0 {
				t.Errorf("TokensPerSecond() = %f, want 0", got)
			}
		})
	}
}

func TestModelInfo_FormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{512, "0.5 KB"},
		{1024, "1.0 KB"},
		{1024 * 1024, "1.0 MB"},
		{4 * 1024 * 1024 * 1024, "4.0 GB"},
		{100, "100 B"},
	}

	for _, tc := range tests {
		m := &ModelInfo{Size: tc.size}
		if got := m.FormatSize(); got != tc.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tc.size, got, tc.want)
		}
	}
}

// =============================================================================
// CLIENT TESTS
// =============================================================================

func TestClient_CheckRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	if err := client.CheckRunning(context.Background()); err != nil {
		t.Errorf("CheckRunning() error = %v", err)
	}
}

func TestClient_CheckRunningNotReachable(t *testing.T) {
	// Port 1 is never listening.
	client := NewClient("http://127.0.0.1:1")

	err := client.CheckRunning(context.Background())
	if err == nil {
		t.Fatal("CheckRunning() should fail for unreachable server")
	}
	if !IsNotRunning(err) {
		t.Errorf("IsNotRunning(%v) = false, want true", err)
	}
}

func TestClient_ListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"models":[{"name":"llama2","size":4000000000},{"name":"mistral","size":3800000000}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	models, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels() error = %v", err)
	}

	if len(models) != 2 {
		t.Fatalf("got %d models, want 2", len(models))
	}
	if models[0].Name != "llama2" {
		t.Errorf("models[0].Name = %q, want 'llama2'", models[0].Name)
	}

	names, err := client.ModelNames(context.Background())
	if err != nil {
		t.Fatalf("ModelNames() error = %v", err)
	}
	if len(names) != 2 || names[1] != "mistral" {
		t.Errorf("ModelNames() = %v, want [llama2 mistral]", names)
	}
}

func TestClient_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("path = %q, want /api/chat", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama2","message":{"role":"assistant","content":"Sure, here is a recipe."},"done":true,"eval_count":12}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	resp, err := client.Chat(context.Background(), "llama2", []Message{NewUserMessage("pasta recipe")}, nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if resp.Message.Content != "Sure, here is a recipe." {
		t.Errorf("Content = %q", resp.Message.Content)
	}
	if resp.EvalCount != 12 {
		t.Errorf("EvalCount = %d, want 12", resp.EvalCount)
	}
}

func TestClient_ChatModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"model 'nope' not found"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Chat(context.Background(), "nope", []Message{NewUserMessage("hi")}, nil)
	if err == nil {
		t.Fatal("Chat() should fail for unknown model")
	}
	if !IsModelNotFound(err) {
		t.Errorf("IsModelNotFound(%v) = false, want true", err)
	}
}

func TestClient_ChatServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Chat(context.Background(), "llama2", []Message{NewUserMessage("hi")}, nil)
	if err == nil {
		t.Fatal("Chat() should fail on server error")
	}
	if !strings.Contains(err.Error(), "out of memory") {
		t.Errorf("error %q should carry the server message", err.Error())
	}
}

func TestClient_ChatStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Write([]byte(`{"model":"llama2","message":{"role":"assistant","content":"Hello"},"done":false}` + "\n"))
		w.Write([]byte(`{"model":"llama2","message":{"role":"assistant","content":" world"},"done":false}` + "\n"))
		w.Write([]byte(`{"model":"llama2","message":{"role":"assistant","content":""},"done":true,"eval_count":2,"eval_duration":1000000000}` + "\n"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	acc := NewStreamAccumulator()

	err := client.ChatStream(context.Background(), "llama2", []Message{NewUserMessage("hi")}, nil, acc.Add)
	if err != nil {
		t.Fatalf("ChatStream() error = %v", err)
	}

	if acc.Content() != "Hello world" {
		t.Errorf("accumulated content = %q, want 'Hello world'", acc.Content())
	}
	if !acc.Done {
		t.Error("accumulator should be done")
	}
	if acc.Stats.CompletionTokens != 2 {
		t.Errorf("CompletionTokens = %d, want 2", acc.Stats.CompletionTokens)
	}
}

// =============================================================================
// STREAM READER TESTS
// =============================================================================

func TestStreamReader_Process(t *testing.T) {
	input := `{"model":"llama2","message":{"role":"assistant","content":"a"},"done":false}
{"message":{"role":"assistant","content":"b"},"done":false}

not json at all
{"message":{"role":"assistant","content":"c"},"done":true,"eval_count":3}
`
	reader := NewStreamReader(strings.NewReader(input))

	var got strings.Builder
	var final StreamChunk
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		got.WriteString(chunk.Content)
		if chunk.Done {
			final = chunk
		}
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if got.String() != "abc" {
		t.Errorf("content = %q, want 'abc'", got.String())
	}
	if !final.Done {
		t.Error("final chunk should be done")
	}
	if final.CompletionTokens != 3 {
		t.Errorf("CompletionTokens = %d, want 3", final.CompletionTokens)
	}
	if reader.Accumulated() != "abc" {
		t.Errorf("Accumulated() = %q, want 'abc'", reader.Accumulated())
	}
	if reader.Model() != "llama2" {
		t.Errorf("Model() = %q, want 'llama2'", reader.Model())
	}
}

func TestStreamReader_TrailingLineWithoutNewline(t *testing.T) {
	input := `{"message":{"role":"assistant","content":"only"},"done":true}`
	reader := NewStreamReader(strings.NewReader(input))

	var got string
	err := reader.Process(context.Background(), func(chunk StreamChunk) {
		got += chunk.Content
	})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if got != "only" {
		t.Errorf("content = %q, want 'only'", got)
	}
}

func TestStreamReader_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := NewStreamReader(strings.NewReader(`{"message":{"content":"x"},"done":false}` + "\n"))
	err := reader.Process(ctx, func(StreamChunk) {})
	if err == nil {
		t.Error("Process() should return the context error after cancellation")
	}
}

// =============================================================================
// ERROR TESTS
// =============================================================================

func TestErrorCheckers(t *testing.T) {
	if !IsNotRunning(ErrNotRunning) {
		t.Error("IsNotRunning(ErrNotRunning) = false")
	}
	if !IsTimeout(ErrTimeout) {
		t.Error("IsTimeout(ErrTimeout) = false")
	}
	if !IsModelNotFound(ErrModelNotFound) {
		t.Error("IsModelNotFound(ErrModelNotFound) = false")
	}
	if IsNotRunning(ErrTimeout) {
		t.Error("IsNotRunning(ErrTimeout) = true")
	}

	wrapped := &ClientError{Type: ErrTypeConnection, Message: "dial failed", Cause: ErrNotRunning}
	if wrapped.Unwrap() != ErrNotRunning {
		t.Error("Unwrap() should return the cause")
	}
	if !strings.Contains(wrapped.Error(), "dial failed") {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestConnectionGuidance(t *testing.T) {
	guidance := ConnectionGuidance()
	if !strings.Contains(guidance, "ollama serve") {
		t.Errorf("guidance should mention the serve command, got %q", guidance)
	}
	if !strings.Contains(guidance, "11434") {
		t.Errorf("guidance should mention the default port, got %q", guidance)
	}
}

// =============================================================================
// STREAM STATS TESTS
// =============================================================================

func TestStreamStats_Finalize(t *testing.T) {
	stats := NewStreamStats()
	stats.Finalize(StreamChunk{
		Done:             true,
		TotalDuration:    2 * time.Second,
		EvalDuration:     time.Second,
		PromptTokens:     10,
		CompletionTokens: 50,
	})

	if stats.CompletionTokens != 50 {
		t.Errorf("CompletionTokens = %d, want 50", stats.CompletionTokens)
	}
	if stats.TokensPerSecond < 49 || stats.TokensPerSecond > 51 {
		t.Errorf("TokensPerSecond = %f, want ~50", stats.TokensPerSecond)
	}

	formatted := stats.Format()
	if !strings.Contains(formatted, "50 tokens") {
		t.Errorf("Format() = %q, want token count included", formatted)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jeranaias/ladle/internal/model"
	"github.com/jeranaias/ladle/internal/recipe"
)

func newTestStore(t *testing.T) *ConversationStore {
	t.Helper()
	store, err := NewConversationStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewConversationStoreWithDir() error = %v", err)
	}
	return store
}

func sampleConversation() *StoredConversation {
	return &StoredConversation{
		Provider: "local",
		Model:    "llama3.2",
		Messages: []StoredMessage{
			{ID: "msg_1", Role: "user", Content: "How do I make toast?", Timestamp: time.Now()},
			{
				ID: "msg_2", Role: "assistant", Content: `{"title":"Toast"}`, Timestamp: time.Now(),
				Recipe: &recipe.Recipe{
					Title:        "Toast",
					Ingredients:  []string{"bread"},
					Instructions: []string{"toast it"},
				},
			},
		},
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Save(sampleConversation())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" {
		t.Fatal("Save() returned empty ID")
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Summary != "How do I make toast?" {
		t.Errorf("Summary = %q, want auto-generated from first user message", loaded.Summary)
	}
	if len(loaded.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(loaded.Messages))
	}
	if loaded.Messages[1].Recipe == nil || loaded.Messages[1].Recipe.Title != "Toast" {
		t.Error("recipe attachment did not survive the round trip")
	}
}

func TestLoad_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("conv_missing")
	if !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("err = %v, want ErrConversationNotFound", err)
	}
}

func TestList_SkipsCorruptedFiles(t *testing.T) {
	store := newTestStore(t)

	if _, err := store.Save(sampleConversation()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	bad := filepath.Join(store.BaseDir, "conv_broken.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(metas) != 1 {
		t.Errorf("len(metas) = %d, want corrupted file skipped", len(metas))
	}
	if metas[0].RecipeCount != 1 {
		t.Errorf("RecipeCount = %d, want 1", metas[0].RecipeCount)
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	store := newTestStore(t)

	old := sampleConversation()
	old.ID = "conv_old"
	if _, err := store.Save(old); err != nil {
		t.Fatal(err)
	}

	// Force distinct update times; Save stamps UpdatedAt with time.Now().
	time.Sleep(10 * time.Millisecond)

	recent := sampleConversation()
	recent.ID = "conv_recent"
	if _, err := store.Save(recent); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 || metas[0].ID != "conv_recent" {
		t.Errorf("metas order = %+v, want most recent first", metas)
	}
}

func TestEnforceLimit(t *testing.T) {
	store := newTestStore(t)
	store.MaxConversations = 2

	for i := 0; i < 3; i++ {
		conv := sampleConversation()
		if _, err := store.Save(conv); err != nil {
			t.Fatal(err)
		}
		time.Sleep(5 * time.Millisecond)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Errorf("len(metas) = %d, want limit enforced at 2", len(metas))
	}
}

func TestSearchMessages(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Save(sampleConversation()); err != nil {
		t.Fatal(err)
	}

	hits, err := store.SearchMessages("TOAST")
	if err != nil {
		t.Fatalf("SearchMessages() error = %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("len(hits) = %d, want 1 (case-insensitive)", len(hits))
	}

	none, err := store.SearchMessages("sushi")
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("len(none) = %d, want 0", len(none))
	}
}

func TestDeleteAndClear(t *testing.T) {
	store := newTestStore(t)
	id, err := store.Save(sampleConversation())
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(id); !errors.Is(err, ErrConversationNotFound) {
		t.Errorf("second Delete() err = %v, want ErrConversationNotFound", err)
	}

	if _, err := store.Save(sampleConversation()); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	metas, _ := store.List()
	if len(metas) != 0 {
		t.Errorf("len(metas) = %d after Clear, want 0", len(metas))
	}
}

func TestModelRoundTrip(t *testing.T) {
	conv := model.NewConversationWithModel("cloud", "gpt-4o-mini")
	conv.AddUserMessage("shakshuka?")
	msg := conv.AddAssistantMessage()
	msg.AppendToken(`{"title":"Shakshuka","ingredients":["eggs","tomatoes"],"instructions":["simmer","poach"]}`)
	conv.FinalizeLast(nil)

	stored := FromConversation(conv)
	if len(stored.Messages) != 2 {
		t.Fatalf("len(stored.Messages) = %d, want 2", len(stored.Messages))
	}

	back := stored.ToConversation()
	if back.Model != "gpt-4o-mini" || back.Provider != "cloud" {
		t.Errorf("provider/model = %q/%q", back.Provider, back.Model)
	}
	rec := back.GetLastRecipe()
	if rec == nil || rec.Title != "Shakshuka" {
		t.Fatalf("GetLastRecipe() = %+v", rec)
	}
}

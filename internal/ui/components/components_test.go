// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/model"
	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

func testRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		Title:        "Garlic Butter Noodles",
		Description:  "Ten-minute comfort food.",
		Servings:     2,
		PrepTime:     "5 min",
		CookTime:     "10 min",
		Difficulty:   "Easy",
		Ingredients:  []string{"8 oz noodles", "3 tbsp butter", "4 cloves garlic"},
		Instructions: []string{"Boil the noodles.", "Melt butter with garlic.", "Toss together."},
		Tips:         []string{"Save some pasta water."},
		Tags:         []string{"quick", "easy"},
	}
}

// =============================================================================
// RECIPE CARD
// =============================================================================

func TestRecipeCard_View(t *testing.T) {
	card := NewRecipeCard(testRecipe(), styles.NewTheme())
	card.SetWidth(80)
	out := card.View()

	for _, want := range []string{
		"Garlic Butter Noodles",
		"Ten-minute comfort food.",
		"Serves 2",
		"Ingredients",
		"8 oz noodles",
		"Instructions",
		"Boil the noodles.",
		"Tips",
		"Save some pasta water.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q", want)
		}
	}
}

func TestRecipeCard_NilRecipe(t *testing.T) {
	card := NewRecipeCard(nil, styles.NewTheme())
	if card.View() != "" {
		t.Error("nil recipe should render empty")
	}
}

func TestRecipeCard_OverflowSummarized(t *testing.T) {
	rec := testRecipe()
	rec.Ingredients = nil
	for i := 0; i < 25; i++ {
		rec.Ingredients = append(rec.Ingredients, "ingredient")
	}
	rec.Tags = nil
	for i := 0; i < 12; i++ {
		rec.Tags = append(rec.Tags, "dinner")
	}

	card := NewRecipeCard(rec, styles.NewTheme())
	card.SetWidth(160)
	out := card.View()

	if !strings.Contains(out, "and 5 more") {
		t.Error("ingredient overflow not summarized (25 capped at 20)")
	}
	if !strings.Contains(out, "and 4 more") {
		t.Error("tag overflow not summarized (12 capped at 8)")
	}
}

func TestCapList(t *testing.T) {
	items := []string{"a", "b", "c", "d"}

	kept, overflow := capList(items, 2)
	if len(kept) != 2 || overflow != 2 {
		t.Errorf("capList() = %d kept, %d overflow; want 2, 2", len(kept), overflow)
	}

	kept, overflow = capList(items, 10)
	if len(kept) != 4 || overflow != 0 {
		t.Errorf("capList() under limit = %d kept, %d overflow", len(kept), overflow)
	}
}

func TestPlainCard(t *testing.T) {
	out := PlainCard(testRecipe())

	for _, want := range []string{
		"Garlic Butter Noodles",
		"Ingredients:",
		"  - 8 oz noodles",
		"  1. Boil the noodles.",
		"Tags: quick, easy",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plain card missing %q", want)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain card should not contain ANSI sequences")
	}
}

// =============================================================================
// MESSAGE BUBBLES
// =============================================================================

func TestMessageBubble_UserAndAssistant(t *testing.T) {
	theme := styles.NewTheme()

	user := NewMessageBubble(model.NewUserMessage("something with chickpeas"), theme)
	user.SetWidth(80)
	if !strings.Contains(user.View(), "chickpeas") {
		t.Error("user bubble missing content")
	}

	asst := model.NewMessage(model.RoleAssistant, "")
	asst.SetContent("Try a curry.")
	bubble := NewMessageBubble(asst, theme)
	bubble.SetWidth(80)
	if !strings.Contains(bubble.View(), "Try a curry.") {
		t.Error("assistant bubble missing content")
	}
}

func TestMessageBubble_RecipeRendersAsCard(t *testing.T) {
	msg := model.NewMessage(model.RoleAssistant, "")
	msg.SetContent(`{"title":"Toast","ingredients":["bread"],"instructions":["Toast the bread."]}`)
	if !msg.HasRecipe() {
		t.Fatal("message should carry a parsed recipe")
	}

	bubble := NewMessageBubble(msg, styles.NewTheme())
	bubble.SetWidth(80)
	out := bubble.View()

	if !strings.Contains(out, "Toast the bread.") {
		t.Error("recipe card content missing")
	}
	if strings.Contains(out, `{"title"`) {
		t.Error("raw JSON should not appear when a recipe is attached")
	}
}

func TestMessageBubble_NilMessage(t *testing.T) {
	bubble := NewMessageBubble(nil, styles.NewTheme())
	bubble.SetWidth(80)
	// Must not panic.
	_ = bubble.View()
}

func TestMessageList_Empty(t *testing.T) {
	ml := NewMessageList(styles.NewTheme())
	ml.SetWidth(80)
	if !strings.Contains(ml.View(), "No messages yet") {
		t.Error("empty list should show the placeholder")
	}
}

func TestWordWrap(t *testing.T) {
	wrapped := wordWrap("one two three four five six", 10)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 10 {
			t.Errorf("line %q exceeds width 10", line)
		}
	}

	if wordWrap("short", 0) != "short" {
		t.Error("zero width should return input unchanged")
	}
}

// =============================================================================
// ERROR BOX
// =============================================================================

func TestErrorBox_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not configured", cloud.ErrNotConfigured, "ladle setup"},
		{"auth", cloud.ErrAuthFailed, "API key"},
		{"rate limited", cloud.ErrRateLimited, "try again"},
		{"ollama down", local.ErrNotRunning, "ollama serve"},
		{"model missing", local.ErrModelNotFound, "ollama pull"},
		{"generic", errors.New("boom"), "boom"},
	}

	theme := styles.NewTheme()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewErrorBox(tt.err, theme)
			box.SetWidth(100)
			if !strings.Contains(box.View(), tt.want) {
				t.Errorf("error box missing %q in:\n%s", tt.want, box.View())
			}
		})
	}
}

func TestErrorBox_NilError(t *testing.T) {
	box := NewErrorBox(nil, styles.NewTheme())
	if box.View() != "" {
		t.Error("nil error should render empty")
	}
}

// =============================================================================
// STATUS BAR AND WELCOME
// =============================================================================

func TestStatusBar_View(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.SetWidth(120)
	bar.Provider = config.ProviderLocal
	bar.Model = "llama3.2"
	bar.TokensUsed = 342

	out := bar.View()
	for _, want := range []string{"local", "llama3.2", "342 tok", "/help"} {
		if !strings.Contains(out, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}

func TestStatusBar_CloudMode(t *testing.T) {
	bar := NewStatusBar(styles.NewTheme())
	bar.Provider = config.ProviderCloud
	if !strings.Contains(bar.View(), "cloud") {
		t.Error("status bar missing cloud indicator")
	}
}

func TestWelcome_View(t *testing.T) {
	w := NewWelcome("1.0.0", styles.NewTheme())
	w.SetWidth(100)
	w.Provider = config.ProviderLocal
	w.Model = "llama3.2"

	out := w.View()
	for _, want := range []string{"v1.0.0", "llama3.2", "/help"} {
		if !strings.Contains(out, want) {
			t.Errorf("welcome screen missing %q", want)
		}
	}
}

// =============================================================================
// RAW VIEW
// =============================================================================

func TestRawView(t *testing.T) {
	v := NewRawView(`{"title":"Toast"}`, styles.NewTheme())
	v.SetMaxWidth(80)
	out := v.View()
	if !strings.Contains(out, "json") {
		t.Error("raw view missing language badge")
	}
	if !strings.Contains(out, "Toast") {
		t.Error("raw view missing content")
	}
}

func TestRawView_Empty(t *testing.T) {
	v := NewRawView("   ", styles.NewTheme())
	if v.View() != "" {
		t.Error("empty content should render empty")
	}
}

func TestLooksLikeJSON(t *testing.T) {
	if !looksLikeJSON(`{"a":1}`) {
		t.Error("object literal should look like JSON")
	}
	if !looksLikeJSON("Here you go:\n```json\n{}\n```") {
		t.Error("fenced json should look like JSON")
	}
	if looksLikeJSON("Just use more garlic.") {
		t.Error("prose should not look like JSON")
	}
}

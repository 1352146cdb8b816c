// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/storage"
)

func curryRecipe() *recipe.Recipe {
	return &recipe.Recipe{
		Title:        "Chickpea Curry",
		Description:  "Weeknight pantry curry.",
		Servings:     4,
		PrepTime:     "10 min",
		CookTime:     "25 min",
		Ingredients:  []string{"2 cans chickpeas", "1 can coconut milk", "2 tbsp curry paste"},
		Instructions: []string{"Fry the curry paste.", "Add chickpeas and coconut milk.", "Simmer 20 minutes."},
		Tips:         []string{"Better the next day."},
		Tags:         []string{"vegan", "one-pot"},
		Nutrition:    &recipe.Nutrition{Calories: "420", Protein: "15g"},
	}
}

func TestRecipeMarkdown(t *testing.T) {
	out := string(RecipeMarkdown(curryRecipe(), DefaultOptions()))

	for _, want := range []string{
		"# Chickpea Curry",
		"> Weeknight pantry curry.",
		"Serves 4 | Prep: 10 min | Cook: 25 min",
		"- 2 cans chickpeas",
		"1. Fry the curry paste.",
		"3. Simmer 20 minutes.",
		"## Tips",
		"**Calories**: 420",
		"Tags: vegan, one-pot",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRecipeJSON_RoundTripsThroughParser(t *testing.T) {
	data, err := RecipeJSON(curryRecipe())
	if err != nil {
		t.Fatalf("RecipeJSON() error = %v", err)
	}

	result := recipe.Parse(string(data))
	if !result.IsRecipe() {
		t.Fatal("exported JSON did not parse back into a recipe")
	}
	if result.Recipe.Title != "Chickpea Curry" {
		t.Errorf("Title = %q", result.Recipe.Title)
	}
	if len(result.Recipe.Ingredients) != 3 {
		t.Errorf("len(Ingredients) = %d, want 3", len(result.Recipe.Ingredients))
	}
}

func TestRecipeJSON_ValidJSON(t *testing.T) {
	data, err := RecipeJSON(curryRecipe())
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
}

func TestRecipeHTML(t *testing.T) {
	out, err := RecipeHTML(curryRecipe(), DefaultOptions())
	if err != nil {
		t.Fatalf("RecipeHTML() error = %v", err)
	}
	html := string(out)

	for _, want := range []string{
		"<title>Chickpea Curry</title>",
		"<li>2 cans chickpeas</li>",
		"<span>vegan</span>",
		"<strong>Calories</strong>: 420",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRecipeHTML_EscapesContent(t *testing.T) {
	rec := curryRecipe()
	rec.Title = `Curry <script>alert("x")</script>`
	out, err := RecipeHTML(rec, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(out), "<script>alert") {
		t.Error("HTML output did not escape the title")
	}
}

func TestRecipeToFile(t *testing.T) {
	dir := t.TempDir()
	opts := &Options{OutputDir: dir, IncludeMetadata: true}

	path, err := RecipeToFile(curryRecipe(), FormatMarkdown, opts)
	if err != nil {
		t.Fatalf("RecipeToFile() error = %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
	if !strings.Contains(path, "chickpea-curry") {
		t.Errorf("path = %q, want slugged title", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "# Chickpea Curry") {
		t.Error("file content missing recipe title")
	}
}

func TestConversationToFile(t *testing.T) {
	conv := &storage.StoredConversation{
		Summary:   "Curry night",
		Model:     "llama3.2",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Messages: []storage.StoredMessage{
			{Role: "user", Content: "curry?", Timestamp: time.Now()},
			{Role: "assistant", Content: `{"title":"Chickpea Curry"}`, Timestamp: time.Now(), Recipe: curryRecipe()},
		},
	}

	dir := t.TempDir()
	path, err := ConversationToFile(conv, &Options{OutputDir: dir, IncludeMetadata: true})
	if err != nil {
		t.Fatalf("ConversationToFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "**Chef**") {
		t.Error("missing assistant label")
	}
	if !strings.Contains(out, "## Ingredients") {
		t.Error("recipe message should render as structured recipe")
	}
	if strings.Contains(out, `{"title"`) {
		t.Error("raw JSON should not appear when a recipe is attached")
	}
}

func TestConversationToFile_EmptyConversation(t *testing.T) {
	_, err := ConversationToFile(&storage.StoredConversation{Summary: "empty"}, nil)
	if err == nil {
		t.Error("expected error for conversation with no messages")
	}
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{
		"md": FormatMarkdown, "markdown": FormatMarkdown,
		"json": FormatJSON, "html": FormatHTML,
	} {
		got, err := ParseFormat(name)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", name, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("ParseFormat(pdf) should fail")
	}
}

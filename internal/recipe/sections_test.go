// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"reflect"
	"testing"
)

func TestParse_PlainTextSections(t *testing.T) {
	input := `Tomato Soup

Ingredients:
- 4 tomatoes
- 1 onion
- 2 cups vegetable stock

Instructions:
1. Chop the tomatoes and onion.
2. Simmer in the stock for 20 minutes.
3. Blend until smooth.

Tips:
- A pinch of sugar cuts the acidity.`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want salvaged recipe")
	}
	rec := res.Recipe
	if rec.Title != "Tomato Soup" {
		t.Errorf("Title = %q, want %q", rec.Title, "Tomato Soup")
	}
	wantIngredients := []string{"4 tomatoes", "1 onion", "2 cups vegetable stock"}
	if !reflect.DeepEqual(rec.Ingredients, wantIngredients) {
		t.Errorf("Ingredients = %v, want %v", rec.Ingredients, wantIngredients)
	}
	if len(rec.Instructions) != 3 {
		t.Errorf("Instructions = %v, want 3 steps", rec.Instructions)
	}
	if rec.Instructions[0] != "Chop the tomatoes and onion." {
		t.Errorf("Instructions[0] = %q (numbering not stripped)", rec.Instructions[0])
	}
	if len(rec.Tips) != 1 {
		t.Errorf("Tips = %v, want 1", rec.Tips)
	}
}

func TestParse_MarkdownSections(t *testing.T) {
	input := `## Pancakes

**Ingredients**
* 2 cups flour
* 1 egg

**Directions**
Step 1: Mix everything together.
Step 2: Fry on a hot griddle.`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want salvaged recipe")
	}
	rec := res.Recipe
	if rec.Title != "Pancakes" {
		t.Errorf("Title = %q, want %q", rec.Title, "Pancakes")
	}
	if len(rec.Ingredients) != 2 {
		t.Errorf("Ingredients = %v", rec.Ingredients)
	}
	want := []string{"Mix everything together.", "Fry on a hot griddle."}
	if !reflect.DeepEqual(rec.Instructions, want) {
		t.Errorf("Instructions = %v, want %v (step prefixes not stripped)", rec.Instructions, want)
	}
}

func TestParse_SectionsRequireBothLists(t *testing.T) {
	// Ingredients alone are not a recipe.
	input := `Ingredients:
- flour
- water`

	res := Parse(input)
	if res.IsRecipe() {
		t.Fatalf("Parse produced recipe %+v, want fallback", res.Recipe)
	}
	if res.Fallback != input {
		t.Errorf("Fallback = %q, want input verbatim", res.Fallback)
	}
}

func TestParse_ProseMentioningIngredientsIsNotAHeader(t *testing.T) {
	input := `Mix all the ingredients together and follow the steps on the box.`

	res := Parse(input)
	if res.IsRecipe() {
		t.Fatalf("Parse produced recipe %+v, want fallback", res.Recipe)
	}
}

func TestClassifyHeader(t *testing.T) {
	testCases := []struct {
		line string
		want section
	}{
		{"Ingredients:", sectionIngredients},
		{"INGREDIENTS", sectionIngredients},
		{"## Ingredients", sectionIngredients},
		{"**Ingredients**", sectionIngredients},
		{"Instructions:", sectionInstructions},
		{"Directions", sectionInstructions},
		{"Steps:", sectionInstructions},
		{"Method", sectionInstructions},
		{"Tips:", sectionTips},
		{"Notes", sectionTips},
		{"Mix all the ingredients", sectionNone},
		{"Step 1: Chop", sectionNone},
		{"A note on seasoning follows", sectionNone},
	}

	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			if got := classifyHeader(tc.line); got != tc.want {
				t.Errorf("classifyHeader(%q) = %d, want %d", tc.line, got, tc.want)
			}
		})
	}
}

func TestStripListMarker(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"- flour", "flour"},
		{"* sugar", "sugar"},
		{"• salt", "salt"},
		{"1. Mix well", "Mix well"},
		{"12) Bake", "Bake"},
		{"Step 1: Preheat the oven", "Preheat the oven"},
		{"step 10. rest the dough", "rest the dough"},
		{"no marker here", "no marker here"},
		{"2 cups flour", "2 cups flour"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := stripListMarker(tc.input); got != tc.expected {
				t.Errorf("stripListMarker(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

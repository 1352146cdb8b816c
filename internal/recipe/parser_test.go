// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"reflect"
	"strings"
	"testing"
)

// =============================================================================
// EXTRACTION TESTS
// =============================================================================

func TestParse_CommentaryAroundJSON(t *testing.T) {
	input := `Sure! {"title":"Toast","ingredients":["bread"],"instructions":["toast it"]} Enjoy!`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback %q, want recipe", res.Fallback)
	}
	rec := res.Recipe
	if rec.Title != "Toast" {
		t.Errorf("Title = %q, want %q", rec.Title, "Toast")
	}
	if !reflect.DeepEqual(rec.Ingredients, []string{"bread"}) {
		t.Errorf("Ingredients = %v, want [bread]", rec.Ingredients)
	}
	if !reflect.DeepEqual(rec.Instructions, []string{"toast it"}) {
		t.Errorf("Instructions = %v, want [toast it]", rec.Instructions)
	}
}

func TestParse_BareJSON(t *testing.T) {
	input := `{
		"title": "Garlic Butter Pasta",
		"description": "Weeknight pasta with a garlic butter sauce",
		"servings": 4,
		"prep_time": "10 minutes",
		"cook_time": "15 minutes",
		"difficulty": "Easy",
		"ingredients": ["8 oz spaghetti", "4 tbsp butter", "4 cloves garlic"],
		"instructions": ["Boil the pasta.", "Melt butter and cook garlic.", "Toss together."],
		"tips": ["Reserve some pasta water."],
		"tags": ["quick", "easy"],
		"nutrition": {"calories": "450", "protein": "12g", "carbs": "60g", "fat": "18g"}
	}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	rec := res.Recipe
	if rec.Title != "Garlic Butter Pasta" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.Servings != 4 {
		t.Errorf("Servings = %d, want 4", rec.Servings)
	}
	if rec.PrepTime != "10 minutes" || rec.CookTime != "15 minutes" {
		t.Errorf("times = %q / %q", rec.PrepTime, rec.CookTime)
	}
	if len(rec.Ingredients) != 3 || len(rec.Instructions) != 3 {
		t.Errorf("got %d ingredients, %d instructions", len(rec.Ingredients), len(rec.Instructions))
	}
	if !reflect.DeepEqual(rec.Tags, []string{"quick", "easy"}) {
		t.Errorf("Tags = %v", rec.Tags)
	}
	if rec.Nutrition == nil || rec.Nutrition.Calories != "450" {
		t.Errorf("Nutrition = %+v", rec.Nutrition)
	}
}

func TestParse_MarkdownFencedJSON(t *testing.T) {
	input := "Here you go:\n```json\n{\"title\":\"Omelette\",\"ingredients\":[\"2 eggs\"],\"instructions\":[\"Whisk\",\"Fry\"]}\n```\nDone."

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.Title != "Omelette" {
		t.Errorf("Title = %q, want %q", res.Recipe.Title, "Omelette")
	}
}

func TestParse_StrayBracesInCommentary(t *testing.T) {
	input := `The set {a, b} notation aside, here it is: {"title":"Rice","ingredients":["1 cup rice"],"instructions":["Cook the rice"]} (serves {n} people)`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.Title != "Rice" {
		t.Errorf("Title = %q, want %q", res.Recipe.Title, "Rice")
	}
}

func TestParse_SecondObjectIsTheRecipe(t *testing.T) {
	input := `{"note":"thinking"} {"title":"Soup","ingredients":["water","salt"],"instructions":["boil"]}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.Title != "Soup" {
		t.Errorf("Title = %q, want %q", res.Recipe.Title, "Soup")
	}
}

func TestParse_BracesInsideStrings(t *testing.T) {
	input := `{"title":"Brackets","ingredients":["1 bag {mixed} greens"],"instructions":["Toss with } dressing"]} trailing`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if got := res.Recipe.Ingredients[0]; got != "1 bag {mixed} greens" {
		t.Errorf("Ingredients[0] = %q", got)
	}
}

// =============================================================================
// FALLBACK TESTS
// =============================================================================

func TestParse_NoJSONFallsBackVerbatim(t *testing.T) {
	inputs := []string{
		"I don't have a recipe for that.",
		"Sorry, could you clarify what dish you mean?",
		"",
		"   \n\t  ",
	}

	for _, input := range inputs {
		res := Parse(input)
		if res.IsRecipe() {
			t.Errorf("Parse(%q) produced a recipe, want fallback", input)
			continue
		}
		if res.Fallback != input {
			t.Errorf("Fallback = %q, want input verbatim %q", res.Fallback, input)
		}
	}
}

func TestParse_InvalidJSONFallsBackVerbatim(t *testing.T) {
	// Braces that never decode into a valid recipe must not be swallowed.
	input := "The set {1, 2, 3} has three elements."

	res := Parse(input)
	if res.IsRecipe() {
		t.Fatalf("Parse produced recipe %+v, want fallback", res.Recipe)
	}
	if res.Fallback != input {
		t.Errorf("Fallback = %q, want %q", res.Fallback, input)
	}
}

func TestParse_MissingRequiredFieldsFallsBack(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"missing title", `{"ingredients":["bread"],"instructions":["toast"]}`},
		{"empty title", `{"title":"  ","ingredients":["bread"],"instructions":["toast"]}`},
		{"missing ingredients", `{"title":"Toast","instructions":["toast"]}`},
		{"empty ingredients", `{"title":"Toast","ingredients":[],"instructions":["toast"]}`},
		{"blank ingredients", `{"title":"Toast","ingredients":["  ",""],"instructions":["toast"]}`},
		{"missing instructions", `{"title":"Toast","ingredients":["bread"]}`},
		{"empty instructions", `{"title":"Toast","ingredients":["bread"],"instructions":[]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res := Parse(tc.input)
			if res.IsRecipe() {
				t.Fatalf("Parse produced recipe %+v, want fallback", res.Recipe)
			}
			if res.Fallback != tc.input {
				t.Errorf("Fallback = %q, want input verbatim", res.Fallback)
			}
		})
	}
}

// =============================================================================
// REPAIR TESTS
// =============================================================================

func TestParse_RepairsTrailingCommas(t *testing.T) {
	input := `{"title":"Chili","ingredients":["beans","tomatoes",],"instructions":["simmer",],}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if len(res.Recipe.Ingredients) != 2 {
		t.Errorf("Ingredients = %v", res.Recipe.Ingredients)
	}
}

func TestParse_RepairsComments(t *testing.T) {
	input := `{
		// the model decided to annotate its own output
		"title": "Stew", /* classic */
		"ingredients": ["beef", "carrots"],
		"instructions": ["brown the beef", "simmer 2 hours"]
	}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.Title != "Stew" {
		t.Errorf("Title = %q, want %q", res.Recipe.Title, "Stew")
	}
}

func TestParse_RepairsSingleQuotes(t *testing.T) {
	input := `{'title': 'Salad', 'ingredients': ['lettuce'], 'instructions': ['chop', 'toss']}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.Title != "Salad" {
		t.Errorf("Title = %q, want %q", res.Recipe.Title, "Salad")
	}
}

func TestParse_RepairsTruncatedObject(t *testing.T) {
	// A stream cut off mid-response: no closing braces at all.
	input := `Here is your recipe: {"title":"Soup","ingredients":["water","salt"],"instructions":["boil"`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.Title != "Soup" {
		t.Errorf("Title = %q, want %q", res.Recipe.Title, "Soup")
	}
	if len(res.Recipe.Instructions) == 0 {
		t.Error("Instructions empty after repair")
	}
}

// =============================================================================
// FIELD HANDLING TESTS
// =============================================================================

func TestParse_FieldAliases(t *testing.T) {
	input := `{
		"name": "Fried Rice",
		"steps": ["heat the wok", "fry the rice"],
		"categories": ["Dinner", "dinner"],
		"notes": ["day-old rice works best"],
		"prepTime": "5 minutes",
		"cookTime": "10 minutes",
		"ingredients": ["2 cups rice", "1 egg"]
	}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	rec := res.Recipe
	if rec.Title != "Fried Rice" {
		t.Errorf("Title = %q (name alias not honored)", rec.Title)
	}
	if len(rec.Instructions) != 2 {
		t.Errorf("Instructions = %v (steps alias not honored)", rec.Instructions)
	}
	if !reflect.DeepEqual(rec.Tags, []string{"dinner"}) {
		t.Errorf("Tags = %v, want [dinner] (categories alias, deduplicated)", rec.Tags)
	}
	if len(rec.Tips) != 1 {
		t.Errorf("Tips = %v (notes alias not honored)", rec.Tips)
	}
	if rec.PrepTime != "5 minutes" || rec.CookTime != "10 minutes" {
		t.Errorf("times = %q / %q (camelCase aliases not honored)", rec.PrepTime, rec.CookTime)
	}
}

func TestParse_IngredientObjects(t *testing.T) {
	input := `{
		"title": "Pancakes",
		"ingredients": [
			{"amount": "2 cups", "item": "flour"},
			{"amount": "", "item": "salt"},
			{"quantity": "1 tbsp", "name": "sugar"},
			"3 eggs"
		],
		"instructions": ["mix", "fry"]
	}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	want := []string{"2 cups flour", "salt", "1 tbsp sugar", "3 eggs"}
	if !reflect.DeepEqual(res.Recipe.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v", res.Recipe.Ingredients, want)
	}
}

func TestParse_ServingsVariants(t *testing.T) {
	testCases := []struct {
		name     string
		servings string
		want     int
	}{
		{"number", `4`, 4},
		{"numeric string", `"4"`, 4},
		{"padded string", `" 6 "`, 6},
		{"range string", `"4-6"`, 0},
		{"words", `"serves four"`, 0},
		{"zero", `0`, 0},
		{"negative", `-2`, 0},
		{"fractional", `4.5`, 0},
		{"null", `null`, 0},
		{"object", `{"count": 4}`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			input := `{"title":"T","servings":` + tc.servings + `,"ingredients":["x"],"instructions":["y"]}`
			res := Parse(input)
			if !res.IsRecipe() {
				t.Fatalf("Parse returned fallback, want recipe")
			}
			if res.Recipe.Servings != tc.want {
				t.Errorf("Servings = %d, want %d", res.Recipe.Servings, tc.want)
			}
		})
	}
}

func TestParse_NormalizesIngredientWhitespace(t *testing.T) {
	input := `{"title":"T","ingredients":["  2   cups\tFlour ", "1 tsp  Salt"],"instructions":["mix   well"]}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	want := []string{"2 cups Flour", "1 tsp Salt"}
	if !reflect.DeepEqual(res.Recipe.Ingredients, want) {
		t.Errorf("Ingredients = %v, want %v (casing preserved, whitespace collapsed)", res.Recipe.Ingredients, want)
	}
	if res.Recipe.Instructions[0] != "mix well" {
		t.Errorf("Instructions[0] = %q", res.Recipe.Instructions[0])
	}
}

func TestParse_InstructionsAsSingleString(t *testing.T) {
	input := `{"title":"T","ingredients":["x"],"instructions":"Chop the onions.\nFry until golden."}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if len(res.Recipe.Instructions) != 2 {
		t.Errorf("Instructions = %v, want 2 lines", res.Recipe.Instructions)
	}
}

func TestParse_NumericPrepTime(t *testing.T) {
	input := `{"title":"T","prep_time":15,"ingredients":["x"],"instructions":["y"]}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if res.Recipe.PrepTime != "15" {
		t.Errorf("PrepTime = %q, want %q", res.Recipe.PrepTime, "15")
	}
}

// =============================================================================
// TAG DERIVATION TESTS
// =============================================================================

func TestParse_DerivesTagsWhenMissing(t *testing.T) {
	input := `{
		"title": "Healthy Quinoa Bowl",
		"ingredients": ["1 cup quinoa", "2 cups spinach"],
		"instructions": ["Rinse the quinoa for a quick clean", "Simmer in one pot until done"]
	}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	want := []string{"healthy", "quick", "one-pot"}
	if !reflect.DeepEqual(res.Recipe.Tags, want) {
		t.Errorf("Tags = %v, want %v", res.Recipe.Tags, want)
	}
}

func TestParse_NoKeywordsMeansNoTags(t *testing.T) {
	input := `{"title":"Toast","ingredients":["bread"],"instructions":["toast it"]}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	if len(res.Recipe.Tags) != 0 {
		t.Errorf("Tags = %v, want none", res.Recipe.Tags)
	}
}

func TestParse_SuppliedTagsWinOverDerivation(t *testing.T) {
	input := `{
		"title": "Healthy Salad",
		"tags": ["LUNCH", "Lunch", " favorite "],
		"ingredients": ["lettuce"],
		"instructions": ["toss"]
	}`

	res := Parse(input)
	if !res.IsRecipe() {
		t.Fatalf("Parse returned fallback, want recipe")
	}
	want := []string{"lunch", "favorite"}
	if !reflect.DeepEqual(res.Recipe.Tags, want) {
		t.Errorf("Tags = %v, want %v (lowercased, deduplicated, not re-derived)", res.Recipe.Tags, want)
	}
}

// =============================================================================
// RESULT CONTRACT TESTS
// =============================================================================

func TestParse_ExactlyOneResultSide(t *testing.T) {
	inputs := []string{
		`{"title":"A","ingredients":["b"],"instructions":["c"]}`,
		"just words",
	}

	for _, input := range inputs {
		res := Parse(input)
		if res.IsRecipe() && res.Fallback != "" {
			t.Errorf("Parse(%q) set both recipe and fallback", input)
		}
		if !res.IsRecipe() && res.Recipe != nil {
			t.Errorf("Parse(%q) inconsistent result", input)
		}
	}
}

func TestParse_NeverPanics(t *testing.T) {
	inputs := []string{
		"{", "}", "{}", "{{{{", "}}}}", `{"title"`, "\x00\x01\x02",
		strings.Repeat("{", 10000),
		`{"title":"` + strings.Repeat("a", 100000) + `"}`,
		"```json\n```",
		`{"ingredients": {"not":"a list"}, "title":"x", "instructions":["y"]}`,
	}

	for _, input := range inputs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Errorf("Parse(%.40q) panicked: %v", input, r)
				}
			}()
			res := Parse(input)
			if !res.IsRecipe() && res.Fallback != input {
				t.Errorf("Parse(%.40q) fallback not verbatim", input)
			}
		}()
	}
}

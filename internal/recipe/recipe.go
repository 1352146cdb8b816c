// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"strings"

	"github.com/jeranaias/ladle/internal/util"
)

// Recipe is a structured recipe extracted from a model response.
//
// Title, Ingredients, and Instructions are always populated on a recipe
// produced by Parse. Everything else is optional and zero-valued when the
// model did not supply it. Servings is 0 when absent or unusable.
type Recipe struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Servings     int        `json:"servings,omitempty"`
	PrepTime     string     `json:"prep_time,omitempty"`
	CookTime     string     `json:"cook_time,omitempty"`
	Difficulty   string     `json:"difficulty,omitempty"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions"`
	Tips         []string   `json:"tips,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	Nutrition    *Nutrition `json:"nutrition,omitempty"`
}

// Nutrition holds per-serving nutrition facts as display strings ("250",
// "15g"). Values are kept verbatim from the model.
type Nutrition struct {
	Calories string `json:"calories,omitempty"`
	Protein  string `json:"protein,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Fat      string `json:"fat,omitempty"`
}

// Empty reports whether no nutrition fact is set.
func (n *Nutrition) Empty() bool {
	return n == nil || (n.Calories == "" && n.Protein == "" && n.Carbs == "" && n.Fat == "")
}

// Result is the outcome of parsing one model response. Exactly one of
// Recipe or Fallback is set: a structured recipe when extraction succeeded,
// otherwise the raw response text unmodified.
type Result struct {
	Recipe   *Recipe
	Fallback string
}

// IsRecipe reports whether parsing produced a structured recipe.
func (r Result) IsRecipe() bool {
	return r.Recipe != nil
}

// normalize trims and tidies every field in place. Ingredient and
// instruction entries have whitespace collapsed and empty entries dropped;
// tags are lowercased and deduplicated. Casing of ingredients and
// instructions is preserved.
func (r *Recipe) normalize() {
	r.Title = util.CollapseWhitespace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.PrepTime = util.CollapseWhitespace(r.PrepTime)
	r.CookTime = util.CollapseWhitespace(r.CookTime)
	r.Difficulty = util.CollapseWhitespace(r.Difficulty)
	if r.Servings < 0 {
		r.Servings = 0
	}
	r.Ingredients = normalizeList(r.Ingredients)
	r.Instructions = normalizeList(r.Instructions)
	r.Tips = normalizeList(r.Tips)
	r.Tags = NormalizeTags(r.Tags)
	if r.Nutrition.Empty() {
		r.Nutrition = nil
	}
}

// applyDefaults fills optional fields the model omitted. Tags are derived
// from the title, ingredients, and instructions when none were supplied.
func (r *Recipe) applyDefaults() {
	if len(r.Tags) == 0 {
		parts := make([]string, 0, 1+len(r.Ingredients)+len(r.Instructions))
		parts = append(parts, r.Title)
		parts = append(parts, r.Ingredients...)
		parts = append(parts, r.Instructions...)
		r.Tags = DeriveTags(parts...)
	}
}

// valid reports whether the required fields survived normalization.
func (r *Recipe) valid() bool {
	return r.Title != "" && len(r.Ingredients) > 0 && len(r.Instructions) > 0
}

func normalizeList(items []string) []string {
	out := items[:0]
	for _, item := range items {
		item = util.CollapseWhitespace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

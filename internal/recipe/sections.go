// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"strings"

	"github.com/jeranaias/ladle/internal/util"
)

type section int

const (
	sectionNone section = iota
	sectionIngredients
	sectionInstructions
	sectionTips
)

// parseSections salvages a recipe from a plain-text response with
// recognizable section headers ("Ingredients:", "## Instructions", ...).
// List markers and step numbering are stripped from section lines. Returns
// nil unless both an ingredient list and an instruction list were found, so
// ordinary prose never turns into a recipe.
func parseSections(raw string) *Recipe {
	var (
		rec      Recipe
		current  section
		titleSet bool
	)

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if sec := classifyHeader(trimmed); sec != sectionNone {
			current = sec
			continue
		}

		switch current {
		case sectionNone:
			if !titleSet {
				rec.Title = headerText(trimmed)
				titleSet = true
			}
		case sectionIngredients:
			if item := stripListMarker(trimmed); item != "" {
				rec.Ingredients = append(rec.Ingredients, item)
			}
		case sectionInstructions:
			if step := stripListMarker(trimmed); step != "" {
				rec.Instructions = append(rec.Instructions, step)
			}
		case sectionTips:
			if tip := stripListMarker(trimmed); tip != "" {
				rec.Tips = append(rec.Tips, tip)
			}
		}
	}

	rec.normalize()
	if len(rec.Ingredients) == 0 || len(rec.Instructions) == 0 {
		return nil
	}
	if rec.Title == "" || util.RuneLen(rec.Title) > 80 {
		rec.Title = "Recipe"
	}
	rec.applyDefaults()
	return &rec
}

// classifyHeader reports which section a line opens, if any. After markdown
// decoration and a trailing colon are stripped, the remainder must exactly
// match a known header word; prose that merely mentions ingredients does
// not switch sections.
func classifyHeader(line string) section {
	word := strings.ToLower(headerText(line))
	switch word {
	case "ingredients", "ingredient":
		return sectionIngredients
	case "instructions", "instruction", "directions", "direction", "steps", "method":
		return sectionInstructions
	case "tips", "tip", "notes", "note":
		return sectionTips
	}
	return sectionNone
}

// headerText strips markdown decoration (#, *, _, bullets) and a trailing
// colon from a line.
func headerText(line string) string {
	s := strings.TrimSpace(line)
	s = strings.Trim(s, "#*_•-= \t")
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// stripListMarker removes a leading bullet ("- ", "* ", "• "), numeric
// prefix ("1. ", "2) "), or step prefix ("Step 3:") from a line.
func stripListMarker(line string) string {
	s := strings.TrimSpace(line)

	for _, bullet := range []string{"- ", "* ", "• ", "+ "} {
		if strings.HasPrefix(s, bullet) {
			return strings.TrimSpace(s[len(bullet):])
		}
	}

	if len(s) > 5 && strings.EqualFold(s[:5], "step ") {
		rest := s[5:]
		i := 0
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i > 0 {
			rest = rest[i:]
			rest = strings.TrimPrefix(rest, ":")
			rest = strings.TrimPrefix(rest, ".")
			if trimmed := strings.TrimSpace(rest); trimmed != "" {
				return trimmed
			}
			return ""
		}
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return strings.TrimSpace(s[i+1:])
	}

	return s
}

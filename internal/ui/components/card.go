// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/ui/styles"
	"github.com/jeranaias/ladle/internal/util"
)

// =============================================================================
// RECIPE CARD COMPONENT
// =============================================================================

// Rendering limits keep long model output from flooding the viewport.
// Overflow collapses into an "… and N more" line.
const (
	maxCardTags         = 8
	maxCardIngredients  = 20
	maxCardInstructions = 20
	maxCardTips         = 5
)

// RecipeCard renders a parsed recipe as a bordered card with ingredient,
// instruction, and tip sections.
type RecipeCard struct {
	Recipe *recipe.Recipe
	Width  int
	theme  *styles.Theme
}

// NewRecipeCard creates a card for the given recipe.
func NewRecipeCard(rec *recipe.Recipe, theme *styles.Theme) *RecipeCard {
	return &RecipeCard{
		Recipe: rec,
		Width:  76,
		theme:  theme,
	}
}

// SetWidth sets the card width.
func (c *RecipeCard) SetWidth(width int) {
	if width < 30 {
		width = 30
	}
	c.Width = width
}

// View renders the full recipe card.
func (c *RecipeCard) View() string {
	if c.Recipe == nil {
		return ""
	}

	innerWidth := c.Width - 6 // card border and padding
	if innerWidth < 24 {
		innerWidth = 24
	}

	var sections []string

	sections = append(sections, c.renderHeader(innerWidth))

	if tags := c.renderTags(); tags != "" {
		sections = append(sections, tags)
	}

	sections = append(sections, c.renderIngredients(innerWidth))
	sections = append(sections, c.renderInstructions(innerWidth))

	if tips := c.renderTips(innerWidth); tips != "" {
		sections = append(sections, tips)
	}
	if nutrition := c.renderNutrition(); nutrition != "" {
		sections = append(sections, nutrition)
	}

	content := strings.Join(sections, "\n\n")
	return c.theme.CardBox.Width(c.Width - 2).Render(content)
}

// ==========================================================================
// SECTIONS
// ==========================================================================

// renderHeader renders the title, description, and meta line.
func (c *RecipeCard) renderHeader(width int) string {
	lines := []string{
		c.theme.CardTitle.Render("🍲 " + c.Recipe.Title),
	}

	if c.Recipe.Description != "" {
		lines = append(lines, c.theme.CardDescription.Render(wordWrap(c.Recipe.Description, width)))
	}

	if meta := c.metaLine(); meta != "" {
		lines = append(lines, c.theme.CardMeta.Render(meta))
	}

	return strings.Join(lines, "\n")
}

// metaLine builds "Serves 4 | Prep: 10 min | Cook: 25 min | Easy".
func (c *RecipeCard) metaLine() string {
	var parts []string
	if c.Recipe.Servings > 0 {
		parts = append(parts, "Serves "+util.IntToString(c.Recipe.Servings))
	}
	if c.Recipe.PrepTime != "" {
		parts = append(parts, "Prep: "+c.Recipe.PrepTime)
	}
	if c.Recipe.CookTime != "" {
		parts = append(parts, "Cook: "+c.Recipe.CookTime)
	}
	if c.Recipe.Difficulty != "" {
		parts = append(parts, c.Recipe.Difficulty)
	}
	return strings.Join(parts, " | ")
}

// renderTags renders the tag badge row, capped at maxCardTags.
func (c *RecipeCard) renderTags() string {
	if len(c.Recipe.Tags) == 0 {
		return ""
	}

	tags := c.Recipe.Tags
	overflow := 0
	if len(tags) > maxCardTags {
		overflow = len(tags) - maxCardTags
		tags = tags[:maxCardTags]
	}

	badges := make([]string, 0, len(tags)+1)
	for _, tag := range tags {
		badges = append(badges, c.theme.RenderTag(tag))
	}
	if overflow > 0 {
		badges = append(badges, c.theme.MoreIndicator.Render("… and "+util.IntToString(overflow)+" more"))
	}
	return strings.Join(badges, " ")
}

// renderIngredients renders the ingredient section.
func (c *RecipeCard) renderIngredients(width int) string {
	heading := c.theme.SectionHeading.Render("🧂 Ingredients")

	items, overflow := capList(c.Recipe.Ingredients, maxCardIngredients)
	lines := make([]string, 0, len(items)+1)
	for _, ing := range items {
		lines = append(lines, c.theme.SectionIngredient.Render(wordWrap("• "+ing, width-2)))
	}
	if overflow > 0 {
		lines = append(lines, c.theme.MoreIndicator.Render("  … and "+util.IntToString(overflow)+" more"))
	}

	return heading + "\n" + strings.Join(lines, "\n")
}

// renderInstructions renders the numbered instruction section.
func (c *RecipeCard) renderInstructions(width int) string {
	heading := c.theme.SectionHeading.Render("👨‍🍳 Instructions")

	items, overflow := capList(c.Recipe.Instructions, maxCardInstructions)
	lines := make([]string, 0, len(items)+1)
	for i, step := range items {
		num := c.theme.StepNumber.Render(util.IntToString(i+1) + ".")
		body := wordWrap(step, width-5)
		lines = append(lines, c.theme.SectionStep.Render(num+" "+body))
	}
	if overflow > 0 {
		lines = append(lines, c.theme.MoreIndicator.Render("  … and "+util.IntToString(overflow)+" more"))
	}

	return heading + "\n" + strings.Join(lines, "\n")
}

// renderTips renders the tip section when present.
func (c *RecipeCard) renderTips(width int) string {
	if len(c.Recipe.Tips) == 0 {
		return ""
	}

	heading := c.theme.SectionHeading.Render("💡 Tips")

	items, overflow := capList(c.Recipe.Tips, maxCardTips)
	lines := make([]string, 0, len(items)+1)
	for _, tip := range items {
		lines = append(lines, c.theme.SectionTip.Render(wordWrap(tip, width-2)))
	}
	if overflow > 0 {
		lines = append(lines, c.theme.MoreIndicator.Render("  … and "+util.IntToString(overflow)+" more"))
	}

	return heading + "\n" + strings.Join(lines, "\n")
}

// renderNutrition renders the nutrition facts row when present.
func (c *RecipeCard) renderNutrition() string {
	n := c.Recipe.Nutrition
	if n.Empty() {
		return ""
	}

	var parts []string
	if n.Calories != "" {
		parts = append(parts, c.theme.NutritionLabel.Render("Cal")+" "+n.Calories)
	}
	if n.Protein != "" {
		parts = append(parts, c.theme.NutritionLabel.Render("Protein")+" "+n.Protein)
	}
	if n.Carbs != "" {
		parts = append(parts, c.theme.NutritionLabel.Render("Carbs")+" "+n.Carbs)
	}
	if n.Fat != "" {
		parts = append(parts, c.theme.NutritionLabel.Render("Fat")+" "+n.Fat)
	}

	return c.theme.NutritionBox.Render(strings.Join(parts, "  "))
}

// ==========================================================================
// HELPERS
// ==========================================================================

// capList truncates a list to max items and returns the overflow count.
func capList(items []string, max int) ([]string, int) {
	if len(items) <= max {
		return items, 0
	}
	return items[:max], len(items) - max
}

// PlainCard renders a recipe without ANSI styling, for piped output.
func PlainCard(rec *recipe.Recipe) string {
	if rec == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(rec.Title + "\n")
	sb.WriteString(strings.Repeat("=", lipgloss.Width(rec.Title)) + "\n")

	if rec.Description != "" {
		sb.WriteString(rec.Description + "\n")
	}
	card := RecipeCard{Recipe: rec}
	if meta := card.metaLine(); meta != "" {
		sb.WriteString(meta + "\n")
	}
	sb.WriteString("\nIngredients:\n")
	for _, ing := range rec.Ingredients {
		sb.WriteString("  - " + ing + "\n")
	}
	sb.WriteString("\nInstructions:\n")
	for i, step := range rec.Instructions {
		sb.WriteString("  " + util.IntToString(i+1) + ". " + step + "\n")
	}
	if len(rec.Tips) > 0 {
		sb.WriteString("\nTips:\n")
		for _, tip := range rec.Tips {
			sb.WriteString("  - " + tip + "\n")
		}
	}
	if len(rec.Tags) > 0 {
		sb.WriteString("\nTags: " + strings.Join(rec.Tags, ", ") + "\n")
	}
	return sb.String()
}

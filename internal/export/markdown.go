// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/storage"
)

// =============================================================================
// RECIPE MARKDOWN
// =============================================================================

// RecipeMarkdown renders a recipe as a standalone Markdown document.
func RecipeMarkdown(rec *recipe.Recipe, opts *Options) []byte {
	if opts == nil {
		opts = DefaultOptions()
	}

	var sb strings.Builder

	sb.WriteString("# " + rec.Title + "\n\n")

	if rec.Description != "" {
		sb.WriteString("> " + rec.Description + "\n\n")
	}

	meta := recipeMetaLine(rec)
	if meta != "" {
		sb.WriteString(meta + "\n\n")
	}

	sb.WriteString("## Ingredients\n\n")
	for _, ing := range rec.Ingredients {
		sb.WriteString("- " + ing + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("## Instructions\n\n")
	for i, step := range rec.Instructions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, step))
	}
	sb.WriteString("\n")

	if len(rec.Tips) > 0 {
		sb.WriteString("## Tips\n\n")
		for _, tip := range rec.Tips {
			sb.WriteString("- " + tip + "\n")
		}
		sb.WriteString("\n")
	}

	if !rec.Nutrition.Empty() {
		sb.WriteString("## Nutrition (per serving)\n\n")
		for _, row := range nutritionRows(rec.Nutrition) {
			sb.WriteString("- **" + row[0] + "**: " + row[1] + "\n")
		}
		sb.WriteString("\n")
	}

	if len(rec.Tags) > 0 {
		sb.WriteString("Tags: " + strings.Join(rec.Tags, ", ") + "\n\n")
	}

	if opts.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString("Exported " + time.Now().Format("2006-01-02 15:04") + " by ladle\n")
	}

	return []byte(sb.String())
}

// recipeMetaLine builds the "Serves 4 | Prep: 10 min | ..." line.
func recipeMetaLine(rec *recipe.Recipe) string {
	var parts []string
	if rec.Servings > 0 {
		parts = append(parts, fmt.Sprintf("Serves %d", rec.Servings))
	}
	if rec.PrepTime != "" {
		parts = append(parts, "Prep: "+rec.PrepTime)
	}
	if rec.CookTime != "" {
		parts = append(parts, "Cook: "+rec.CookTime)
	}
	if rec.Difficulty != "" {
		parts = append(parts, "Difficulty: "+rec.Difficulty)
	}
	return strings.Join(parts, " | ")
}

// nutritionRows returns the set nutrition facts as label/value pairs.
func nutritionRows(n *recipe.Nutrition) [][2]string {
	var rows [][2]string
	if n == nil {
		return rows
	}
	if n.Calories != "" {
		rows = append(rows, [2]string{"Calories", n.Calories})
	}
	if n.Protein != "" {
		rows = append(rows, [2]string{"Protein", n.Protein})
	}
	if n.Carbs != "" {
		rows = append(rows, [2]string{"Carbs", n.Carbs})
	}
	if n.Fat != "" {
		rows = append(rows, [2]string{"Fat", n.Fat})
	}
	return rows
}

// =============================================================================
// CONVERSATION MARKDOWN
// =============================================================================

// ConversationMarkdown renders a stored conversation as Markdown. Messages
// that carry a parsed recipe are rendered as the structured recipe rather
// than the raw JSON response.
func ConversationMarkdown(conv *storage.StoredConversation, opts *Options) []byte {
	if opts == nil {
		opts = DefaultOptions()
	}

	var sb strings.Builder

	sb.WriteString("# " + conv.Summary + "\n\n")

	if opts.IncludeMetadata {
		sb.WriteString("- **Model**: " + conv.Model + "\n")
		sb.WriteString("- **Created**: " + formatTimestamp(conv.CreatedAt) + "\n")
		sb.WriteString(fmt.Sprintf("- **Messages**: %d\n", len(conv.Messages)))
		sb.WriteString("\n---\n\n")
	}

	for _, msg := range conv.Messages {
		switch msg.Role {
		case "user":
			sb.WriteString("**You**")
		case "assistant":
			sb.WriteString("**Chef**")
		default:
			sb.WriteString("**" + msg.Role + "**")
		}
		sb.WriteString(" (" + msg.Timestamp.Format("15:04") + "):\n\n")

		if msg.Recipe != nil {
			sb.Write(RecipeMarkdown(msg.Recipe, &Options{IncludeMetadata: false}))
		} else {
			sb.WriteString(msg.Content + "\n")
		}
		sb.WriteString("\n---\n\n")
	}

	return []byte(sb.String())
}

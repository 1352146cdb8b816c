// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
//
// Chat models are prompted to answer with a single JSON object (the recipe
// envelope), but real responses arrive wrapped in commentary, fenced in
// markdown, or subtly malformed. Parse copes with all of that: it scans the
// response for a balanced JSON object, decodes it tolerantly (field aliases,
// string-or-object ingredients, string-or-number servings), repairs broken
// JSON once, and falls back to a line-based section reader for plain-text
// recipes. Anything that still fails becomes a verbatim text fallback.
//
// Parse never returns an error: every response produces either a Recipe or
// the original text, so callers always have something to render.
//
//	res := recipe.Parse(responseText)
//	if res.IsRecipe() {
//	    render(res.Recipe)
//	} else {
//	    renderText(res.Fallback)
//	}
//
// Parsing is synchronous and stateless; Parse is safe to call from any
// goroutine.
package recipe

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/ladle/internal/recipe"
)

// RecipeJSON renders a recipe as pretty-printed JSON in the same envelope
// schema the model is prompted to emit, so exported files round-trip
// through the parser.
func RecipeJSON(rec *recipe.Recipe) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

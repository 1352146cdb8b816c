// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"regexp"
	"strings"

	"github.com/jeranaias/ladle/internal/util"
)

// NormalizeIngredient trims an ingredient string and collapses internal
// whitespace. Casing and units are preserved as written; no unit conversion
// is attempted.
func NormalizeIngredient(s string) string {
	return util.CollapseWhitespace(s)
}

// JoinAmountItem combines an amount and an item ("2 cups", "flour") into a
// single normalized ingredient string. Either part may be empty.
func JoinAmountItem(amount, item string) string {
	return NormalizeIngredient(strings.TrimSpace(amount) + " " + strings.TrimSpace(item))
}

// Heuristic patterns for splitting a leading quantity off an ingredient
// line: "2 cups flour", "1/2 cup sugar", "2-3 tablespoons oil",
// "1 (15 oz) can tomatoes".
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+(?:\.\d+)?(?:/\d+)?)\s+(\w+(?:\s+\w+)?)\s+(.+)$`),
	regexp.MustCompile(`^(\d+-\d+)\s+(\w+(?:\s+\w+)?)\s+(.+)$`),
	regexp.MustCompile(`^(\d+)\s*\(([^)]+)\)\s+(.+)$`),
}

// SplitIngredient splits an ingredient string into a quantity part and an
// item part for display ("2 cups" / "flour"). When no quantity is
// recognized, amount is empty and the whole string is returned as the item.
// The split is cosmetic; the stored ingredient is always the full string.
func SplitIngredient(s string) (amount, item string) {
	s = NormalizeIngredient(s)
	if s == "" {
		return "", ""
	}

	for i, pat := range amountPatterns {
		m := pat.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		if i == 2 {
			// Parenthesized size: "1 (15 oz) can tomatoes"
			return m[1] + " (" + m[2] + ")", strings.TrimSpace(m[3])
		}
		return m[1] + " " + m[2], strings.TrimSpace(m[3])
	}

	// Leading digit without a recognized unit: take the first two words as
	// the quantity when at least three are present.
	if s[0] >= '0' && s[0] <= '9' {
		parts := strings.SplitN(s, " ", 3)
		if len(parts) == 3 {
			return parts[0] + " " + parts[1], parts[2]
		}
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
	}

	return "", s
}

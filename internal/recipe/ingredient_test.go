// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import "testing"

func TestNormalizeIngredient(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"2 cups flour", "2 cups flour"},
		{"  2   cups\tflour ", "2 cups flour"},
		{"½ cup milk", "½ cup milk"},
		{"2 Tbsp olive-oil", "2 Tbsp olive-oil"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got := NormalizeIngredient(tc.input)
			if got != tc.expected {
				t.Errorf("NormalizeIngredient(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestJoinAmountItem(t *testing.T) {
	testCases := []struct {
		amount   string
		item     string
		expected string
	}{
		{"2 cups", "flour", "2 cups flour"},
		{"", "salt", "salt"},
		{"1 tsp", "", "1 tsp"},
		{"", "", ""},
		{" 2 cups ", " flour ", "2 cups flour"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			got := JoinAmountItem(tc.amount, tc.item)
			if got != tc.expected {
				t.Errorf("JoinAmountItem(%q, %q) = %q, want %q", tc.amount, tc.item, got, tc.expected)
			}
		})
	}
}

func TestSplitIngredient(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		wantAmount string
		wantItem   string
	}{
		{"amount and unit", "2 cups flour", "2 cups", "flour"},
		{"fraction", "1/2 cup sugar", "1/2 cup", "sugar"},
		{"decimal", "1.5 tsp vanilla extract", "1.5 tsp vanilla", "extract"},
		{"range", "2-3 tablespoons oil", "2-3 tablespoons", "oil"},
		{"parenthesized size", "1 (15 oz) can tomatoes", "1 (15 oz)", "can tomatoes"},
		{"two word unit", "2 large eggs", "2 large", "eggs"},
		{"hyphenated item", "2 cups all-purpose flour", "2 cups", "all-purpose flour"},
		{"no amount", "salt to taste", "", "salt to taste"},
		{"unicode fraction", "½ cup milk", "", "½ cup milk"},
		{"bare number and word", "3 eggs", "3", "eggs"},
		{"empty", "", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			amount, item := SplitIngredient(tc.input)
			if amount != tc.wantAmount || item != tc.wantItem {
				t.Errorf("SplitIngredient(%q) = (%q, %q), want (%q, %q)",
					tc.input, amount, item, tc.wantAmount, tc.wantItem)
			}
		})
	}
}

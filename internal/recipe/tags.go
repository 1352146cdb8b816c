// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import "strings"

// tagVocabulary is the fixed set of keywords eligible for automatic tag
// derivation, in the order derived tags appear.
var tagVocabulary = []string{
	"healthy",
	"quick",
	"easy",
	"vegetarian",
	"vegan",
	"gluten-free",
	"dairy-free",
	"low-carb",
	"keto",
	"paleo",
	"budget-friendly",
	"family-friendly",
	"meal-prep",
	"one-pot",
	"30-minute",
	"15-minute",
}

// TagVocabulary returns the keyword vocabulary used for tag derivation.
func TagVocabulary() []string {
	out := make([]string, len(tagVocabulary))
	copy(out, tagVocabulary)
	return out
}

// DeriveTags scans the given text parts for vocabulary keywords and returns
// the matches in vocabulary order. Matching is case-insensitive and accepts
// both the hyphenated and spaced spelling of multi-word keywords ("one-pot"
// and "one pot"). Returns nil when nothing matches.
func DeriveTags(parts ...string) []string {
	haystack := strings.ToLower(strings.Join(parts, "\n"))
	if haystack == "" {
		return nil
	}

	var tags []string
	for _, kw := range tagVocabulary {
		if strings.Contains(haystack, kw) ||
			strings.Contains(haystack, strings.ReplaceAll(kw, "-", " ")) {
			tags = append(tags, kw)
		}
	}
	return tags
}

// NormalizeTags lowercases, trims, and deduplicates a tag list, preserving
// first-seen order. Empty entries are dropped. Returns nil when no tags
// survive.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.Join(strings.Fields(tag), " "))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

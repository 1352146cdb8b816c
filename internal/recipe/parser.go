// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Parse extracts a structured recipe from a raw model response.
//
// The response may wrap the recipe JSON in commentary, markdown fences, or
// nothing at all. Parse tries, in order: each balanced top-level {...} span
// in the text, the widest first-brace-to-last-brace span, the unterminated
// tail starting at the first brace, and finally a line-based reading of
// plain-text recipe sections. Each JSON candidate gets one repair retry
// after a decode failure. When everything fails the raw text is returned
// verbatim as the fallback.
//
// Parse never returns an error and holds no state across calls.
func Parse(raw string) Result {
	for _, span := range candidateSpans(raw) {
		if rec := decodeSpan(span); rec != nil {
			return Result{Recipe: rec}
		}
	}
	if rec := parseSections(raw); rec != nil {
		return Result{Recipe: rec}
	}
	return Result{Fallback: raw}
}

// candidateSpans returns the JSON object candidates in the order they
// should be attempted: balanced spans first (narrow), then widening
// heuristics for responses the balance scan cannot handle, such as an
// object truncated mid-stream.
func candidateSpans(s string) []string {
	spans := scanObjects(s)

	first := strings.IndexByte(s, '{')
	if first < 0 {
		return spans
	}
	if last := strings.LastIndexByte(s, '}'); last > first {
		spans = appendUniqueSpan(spans, s[first:last+1])
	}
	spans = appendUniqueSpan(spans, strings.TrimSpace(s[first:]))
	return spans
}

func appendUniqueSpan(spans []string, span string) []string {
	for _, existing := range spans {
		if existing == span {
			return spans
		}
	}
	return append(spans, span)
}

// scanObjects returns every balanced top-level {...} span in s, in order of
// appearance. Braces inside JSON string literals are ignored, so trailing
// commentary containing stray braces does not corrupt the span boundaries.
// Quotes outside any object are not tracked: commentary with unbalanced
// quotes must not swallow the recipe that follows it.
func scanObjects(s string) []string {
	var spans []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth > 0 {
				depth--
				if depth == 0 && start >= 0 {
					spans = append(spans, s[start:i+1])
					start = -1
				}
			}
		}
	}
	return spans
}

// decodeSpan decodes one candidate span into a validated recipe. The first
// decode uses the span as-is; on failure the span is cleaned (comments and
// trailing commas removed), run through the JSON repairer, and decoded once
// more. Returns nil when the span cannot produce a valid recipe.
func decodeSpan(span string) *Recipe {
	var env envelope
	if err := json.Unmarshal([]byte(span), &env); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(cleanJSON(span))
		if repairErr != nil {
			return nil
		}
		env = envelope{}
		if err := json.Unmarshal([]byte(repaired), &env); err != nil {
			return nil
		}
	}

	rec := env.toRecipe()
	rec.normalize()
	if !rec.valid() {
		return nil
	}
	rec.applyDefaults()
	return rec
}

// cleanJSON strips the malformations models commonly emit that are cheap to
// remove before repair: // line comments, /* */ block comments, and
// trailing commas. String literals are left untouched.
func cleanJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == '/' && i+1 < len(s) && s[i+1] == '/':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++
		default:
			b.WriteByte(c)
		}
	}
	return stripTrailingCommas(b.String())
}

// stripTrailingCommas removes commas that directly precede a closing brace
// or bracket, outside string literals.
func stripTrailingCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == ',' {
			j := i + 1
			for j < len(s) && (s[j] == ' ' || s[j] == '\t' || s[j] == '\n' || s[j] == '\r') {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

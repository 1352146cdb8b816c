// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package recipe parses model responses into structured recipes.
package recipe

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// envelope is the tolerant decode target for the recipe JSON a model emits.
// Models drift from the prompted schema in predictable ways: "name" for
// "title", "steps" for "instructions", numbers where strings belong,
// ingredient objects mixed with plain strings. Each field type absorbs the
// variants it has been seen to produce instead of failing the decode.
type envelope struct {
	Title        flexString      `json:"title"`
	Name         flexString      `json:"name"`
	Description  flexString      `json:"description"`
	Servings     flexInt         `json:"servings"`
	PrepTime     flexString      `json:"prep_time"`
	PrepTimeAlt  flexString      `json:"prepTime"`
	CookTime     flexString      `json:"cook_time"`
	CookTimeAlt  flexString      `json:"cookTime"`
	Difficulty   flexString      `json:"difficulty"`
	Ingredients  ingredientList  `json:"ingredients"`
	Instructions flexStrings     `json:"instructions"`
	Steps        flexStrings     `json:"steps"`
	Tips         flexStrings     `json:"tips"`
	Notes        flexStrings     `json:"notes"`
	Tags         flexStrings     `json:"tags"`
	Categories   flexStrings     `json:"categories"`
	Nutrition    json.RawMessage `json:"nutrition"`
}

// toRecipe maps the envelope onto the public Recipe type, resolving field
// aliases. The result still needs normalize/valid/applyDefaults.
func (e *envelope) toRecipe() *Recipe {
	r := &Recipe{
		Title:        firstNonEmpty(string(e.Title), string(e.Name)),
		Description:  string(e.Description),
		Servings:     int(e.Servings),
		PrepTime:     firstNonEmpty(string(e.PrepTime), string(e.PrepTimeAlt)),
		CookTime:     firstNonEmpty(string(e.CookTime), string(e.CookTimeAlt)),
		Difficulty:   string(e.Difficulty),
		Instructions: firstNonEmptyList(e.Instructions, e.Steps),
		Tips:         firstNonEmptyList(e.Tips, e.Notes),
		Tags:         firstNonEmptyList(e.Tags, e.Categories),
	}

	for _, ing := range e.Ingredients {
		if ing.text != "" {
			r.Ingredients = append(r.Ingredients, ing.text)
		}
	}

	r.Nutrition = decodeNutrition(e.Nutrition)
	return r
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func firstNonEmptyList(a, b flexStrings) []string {
	if len(a) > 0 {
		return a
	}
	return b
}

// decodeNutrition reads the canonical nutrition facts out of a loosely
// shaped nutrition object. Anything unreadable yields nil.
func decodeNutrition(raw json.RawMessage) *Nutrition {
	if len(raw) == 0 {
		return nil
	}
	var facts map[string]flexString
	if err := json.Unmarshal(raw, &facts); err != nil {
		return nil
	}
	n := &Nutrition{}
	for key, val := range facts {
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "calories":
			n.Calories = strings.TrimSpace(string(val))
		case "protein":
			n.Protein = strings.TrimSpace(string(val))
		case "carbs", "carbohydrates":
			n.Carbs = strings.TrimSpace(string(val))
		case "fat":
			n.Fat = strings.TrimSpace(string(val))
		}
	}
	if n.Empty() {
		return nil
	}
	return n
}

var jsonNull = []byte("null")

// flexString decodes a JSON string, number, or bool into a string. Arrays,
// objects, and null decode to "" rather than erroring.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	*f = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(formatNumber(n))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	return nil
}

// flexInt decodes a positive integer from a JSON number or numeric string.
// Anything else (ranges like "4-6", fractions, objects, null) decodes to 0,
// which callers treat as absent.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if n > 0 && n == math.Trunc(n) && n <= math.MaxInt32 {
			*f = flexInt(n)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, convErr := strconv.Atoi(strings.TrimSpace(s)); convErr == nil && v > 0 {
			*f = flexInt(v)
		}
		return nil
	}
	return nil
}

// flexStrings decodes a string list from a JSON array of scalars or from a
// single string (split on newlines). Unusable elements are dropped; an
// unusable value decodes to nil.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(data []byte) error {
	*f = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	var items []flexString
	if err := json.Unmarshal(data, &items); err == nil {
		out := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(string(item)); s != "" {
				out = append(out, s)
			}
		}
		if len(out) > 0 {
			*f = out
		}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		for _, line := range strings.Split(s, "\n") {
			if t := strings.TrimSpace(line); t != "" {
				*f = append(*f, t)
			}
		}
		return nil
	}
	return nil
}

// ingredientList decodes the ingredients array, accepting plain strings and
// {amount, item} objects per element. A non-array value decodes to nil.
type ingredientList []ingredientRef

func (l *ingredientList) UnmarshalJSON(data []byte) error {
	*l = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	var refs []ingredientRef
	if err := json.Unmarshal(data, &refs); err == nil {
		*l = refs
	}
	return nil
}

// ingredientRef is one entry of the ingredients array. String entries are
// taken verbatim; object entries join their amount and item parts. The
// object keys tolerate the common synonyms (quantity, name, ingredient).
type ingredientRef struct {
	text string
}

func (r *ingredientRef) UnmarshalJSON(data []byte) error {
	r.text = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.text = NormalizeIngredient(s)
		return nil
	}

	var obj struct {
		Amount     flexString `json:"amount"`
		Quantity   flexString `json:"quantity"`
		Item       flexString `json:"item"`
		Name       flexString `json:"name"`
		Ingredient flexString `json:"ingredient"`
	}
	if err := json.Unmarshal(data, &obj); err == nil {
		amount := firstNonEmpty(string(obj.Amount), string(obj.Quantity))
		item := firstNonEmpty(string(obj.Item), firstNonEmpty(string(obj.Name), string(obj.Ingredient)))
		r.text = JoinAmountItem(amount, item)
		return nil
	}
	return nil
}

func formatNumber(n float64) string {
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

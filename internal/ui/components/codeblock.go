// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"

	"github.com/jeranaias/ladle/internal/ui/styles"
)

// =============================================================================
// RAW RESPONSE VIEWER
// =============================================================================

// RawView renders a raw model response with JSON syntax highlighting,
// used by the /raw toggle to inspect what the model actually sent.
type RawView struct {
	Content  string
	MaxWidth int
	theme    *styles.Theme
}

// NewRawView creates a raw response view.
func NewRawView(content string, theme *styles.Theme) RawView {
	return RawView{
		Content:  content,
		MaxWidth: 80,
		theme:    theme,
	}
}

// SetMaxWidth sets the maximum width for the view.
func (v *RawView) SetMaxWidth(width int) {
	v.MaxWidth = width
}

// View renders the highlighted raw response inside a code block frame.
func (v RawView) View() string {
	content := strings.TrimSpace(v.Content)
	if content == "" {
		return ""
	}

	language := "json"
	if !looksLikeJSON(content) {
		language = "markdown"
	}

	highlighted := highlightCode(content, language)

	badge := v.theme.CodeLangBadge.Render(language)

	maxWidth := v.MaxWidth - 4
	if maxWidth < 20 {
		maxWidth = 20
	}

	return v.theme.CodeBlock.
		MaxWidth(maxWidth).
		Render(badge + "\n" + highlighted)
}

// looksLikeJSON reports whether the content starts with a JSON value or
// contains a fenced json block.
func looksLikeJSON(content string) bool {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return true
	}
	return strings.Contains(content, "```json")
}

// highlightCode applies chroma syntax highlighting, falling back to the
// plain text on any failure.
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return buf.String()
}

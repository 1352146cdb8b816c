// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes recipes and conversations to shareable files.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/storage"
	"github.com/jeranaias/ladle/internal/util"
)

// Format identifies an export output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
)

// extensions maps formats to file extensions.
var extensions = map[Format]string{
	FormatMarkdown: ".md",
	FormatJSON:     ".json",
	FormatHTML:     ".html",
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unknown export format %q (markdown, json, html)", name)
	}
}

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files will be saved.
	// Default: current working directory.
	OutputDir string

	// IncludeMetadata includes the generated-by footer and timestamps.
	IncludeMetadata bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:       ".",
		IncludeMetadata: true,
	}
}

// =============================================================================
// RECIPE EXPORT
// =============================================================================

// RecipeToFile writes a recipe in the given format and returns the output
// path. Filenames are slugged from the title with a timestamp suffix so
// repeated exports never clobber each other.
func RecipeToFile(rec *recipe.Recipe, format Format, opts *Options) (string, error) {
	if rec == nil {
		return "", fmt.Errorf("recipe is nil")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	var content []byte
	var err error
	switch format {
	case FormatMarkdown:
		content = RecipeMarkdown(rec, opts)
	case FormatJSON:
		content, err = RecipeJSON(rec)
	case FormatHTML:
		content, err = RecipeHTML(rec, opts)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	name := util.Slugify(rec.Title)
	filename := fmt.Sprintf("%s_%s%s", name, time.Now().Format("20060102_150405"), extensions[format])
	return writeExport(opts.OutputDir, filename, content)
}

// =============================================================================
// CONVERSATION EXPORT
// =============================================================================

// ConversationToFile writes a stored conversation as Markdown and returns
// the output path.
func ConversationToFile(conv *storage.StoredConversation, opts *Options) (string, error) {
	if conv == nil {
		return "", fmt.Errorf("conversation is nil")
	}
	if len(conv.Messages) == 0 {
		return "", fmt.Errorf("conversation has no messages")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	content := ConversationMarkdown(conv, opts)
	name := util.Slugify(conv.Summary)
	filename := fmt.Sprintf("%s_%s.md", name, time.Now().Format("20060102_150405"))
	return writeExport(opts.OutputDir, filename, content)
}

// =============================================================================
// HELPERS
// =============================================================================

// writeExport creates the output directory if needed and writes atomically.
func writeExport(dir, filename string, content []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(dir, filename)
	if err := util.AtomicWriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

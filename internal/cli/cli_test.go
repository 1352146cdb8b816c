// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"

	"github.com/jeranaias/ladle/internal/config"
)

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser_Subcommand(t *testing.T) {
	parser := NewArgParser([]string{"list", "--json"})
	if parser.Subcommand() != "list" {
		t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), "list")
	}

	empty := NewArgParser(nil)
	if empty.Subcommand() != "" {
		t.Errorf("Subcommand() on empty args = %q, want empty", empty.Subcommand())
	}
}

func TestArgParser_FlagFormats(t *testing.T) {
	parser := NewArgParser([]string{"export", "1", "--format=html", "--output", "/tmp/recipes"})

	if got := parser.Flag("format"); got != "html" {
		t.Errorf("Flag(format) = %q, want %q", got, "html")
	}
	if got := parser.Flag("output"); got != "/tmp/recipes" {
		t.Errorf("Flag(output) = %q, want %q", got, "/tmp/recipes")
	}
	if got := parser.Flag("missing"); got != "" {
		t.Errorf("Flag(missing) = %q, want empty", got)
	}
	if got := parser.FlagOrDefault("missing", "md"); got != "md" {
		t.Errorf("FlagOrDefault(missing) = %q, want %q", got, "md")
	}
}

func TestArgParser_BoolFlags(t *testing.T) {
	parser := NewArgParser([]string{"delete", "2", "--confirm", "--verbose=false"})

	if !parser.BoolFlag("confirm") {
		t.Error("BoolFlag(confirm) = false, want true")
	}
	if parser.BoolFlag("verbose") {
		t.Error("BoolFlag(verbose) = true, want false for --verbose=false")
	}
	if parser.BoolFlag("missing") {
		t.Error("BoolFlag(missing) = true, want false")
	}
}

func TestArgParser_Positionals(t *testing.T) {
	parser := NewArgParser([]string{"search", "thai", "green", "curry", "--json"})

	if got := parser.PositionalCount(); got != 4 {
		t.Fatalf("PositionalCount() = %d, want 4", got)
	}
	if got := parser.Positional(1); got != "thai" {
		t.Errorf("Positional(1) = %q, want %q", got, "thai")
	}
	if got := parser.Positional(10); got != "" {
		t.Errorf("Positional(10) = %q, want empty", got)
	}
	if got := JoinPositionalArgs(parser, 1); got != "thai green curry" {
		t.Errorf("JoinPositionalArgs = %q, want %q", got, "thai green curry")
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	parser := NewArgParser([]string{"--format", "json", "--confirm"})

	if !parser.HasFlag("format") {
		t.Error("HasFlag(format) = false, want true")
	}
	if !parser.HasFlag("--confirm") {
		t.Error("HasFlag(--confirm) = false, want true")
	}
	if parser.HasFlag("output") {
		t.Error("HasFlag(output) = true, want false")
	}
}

func TestParseBoolString(t *testing.T) {
	truthy := []string{"true", "yes", "Y", "1", "ON"}
	for _, s := range truthy {
		got, err := ParseBoolString(s)
		if err != nil || !got {
			t.Errorf("ParseBoolString(%q) = %v, %v; want true, nil", s, got, err)
		}
	}

	falsy := []string{"false", "no", "n", "0", "off"}
	for _, s := range falsy {
		got, err := ParseBoolString(s)
		if err != nil || got {
			t.Errorf("ParseBoolString(%q) = %v, %v; want false, nil", s, got, err)
		}
	}

	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("ParseBoolString(maybe) expected error")
	}
}

// =============================================================================
// FLAG PARSING
// =============================================================================

func TestParseGlobalFlags(t *testing.T) {
	remaining, args := parseGlobalFlags([]string{"--json", "-q", "--model", "gpt-4o", "box", "list"})

	if !args.JSON {
		t.Error("JSON = false, want true")
	}
	if !args.Quiet {
		t.Error("Quiet = false, want true")
	}
	if args.Model != "gpt-4o" {
		t.Errorf("Model = %q, want %q", args.Model, "gpt-4o")
	}
	if len(remaining) != 2 || remaining[0] != "box" || remaining[1] != "list" {
		t.Errorf("remaining = %v, want [box list]", remaining)
	}
}

func TestParseGlobalFlags_ModelEquals(t *testing.T) {
	_, args := parseGlobalFlags([]string{"--model=llama3.2"})
	if args.Model != "llama3.2" {
		t.Errorf("Model = %q, want %q", args.Model, "llama3.2")
	}
}

func TestParseAskArgs(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--raw", "-m", "gpt-4o-mini", "quick", "weeknight", "pasta"})

	if args.Subcommand != "raw" {
		t.Errorf("Subcommand = %q, want %q", args.Subcommand, "raw")
	}
	if args.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q, want %q", args.Model, "gpt-4o-mini")
	}
	if args.Query != "quick weeknight pasta" {
		t.Errorf("Query = %q, want %q", args.Query, "quick weeknight pasta")
	}
}

func TestParseAskArgs_ProviderFlags(t *testing.T) {
	var args Args
	parseAskArgs(&args, []string{"--local", "miso", "soup"})
	if !args.Local {
		t.Error("Local = false, want true")
	}
	if args.Query != "miso soup" {
		t.Errorf("Query = %q, want %q", args.Query, "miso soup")
	}
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"stauts", "status"},
		{"modles", "models"},
		{"confg", "config"},
		{"doctr", "doctor"},
		{"boxx", "box"},
		{"make me dinner", ""}, // free text, no suggestion
	}

	for _, tt := range tests {
		if got := SuggestCommand(tt.input); got != tt.want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"box", "box", 0},
		{"box", "bex", 1},
		{"status", "stauts", 2},
		{"", "ask", 3},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

// =============================================================================
// PROVIDER RESOLUTION
// =============================================================================

func TestResolveProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = config.ProviderCloud

	if got := resolveProvider(cfg, Args{}); got != config.ProviderCloud {
		t.Errorf("default = %q, want cloud", got)
	}
	if got := resolveProvider(cfg, Args{Local: true}); got != config.ProviderLocal {
		t.Errorf("--local = %q, want local", got)
	}

	cfg.Provider = config.ProviderLocal
	if got := resolveProvider(cfg, Args{Cloud: true}); got != config.ProviderCloud {
		t.Errorf("--cloud = %q, want cloud", got)
	}
}

func TestResolveModel(t *testing.T) {
	cfg := config.Default()
	cfg.Cloud.Model = "gpt-4o-mini"
	cfg.Local.Model = "llama3.2"

	if got := resolveModel(cfg, Args{}, config.ProviderCloud); got != "gpt-4o-mini" {
		t.Errorf("cloud model = %q, want gpt-4o-mini", got)
	}
	if got := resolveModel(cfg, Args{}, config.ProviderLocal); got != "llama3.2" {
		t.Errorf("local model = %q, want llama3.2", got)
	}
	if got := resolveModel(cfg, Args{Model: "mistral"}, config.ProviderLocal); got != "mistral" {
		t.Errorf("flag override = %q, want mistral", got)
	}
}

// =============================================================================
// ERRORS AND EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", &ValidationError{Field: "provider", Reason: "bad"}, ExitUsageError},
		{"not found", ErrNotFound("recipe", "42"), ExitNotFoundError},
		{"generic", errors.New("something broke"), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := NewCommandError("box", "save recipe", "write failed", inner)

	if !errors.Is(err, inner) {
		t.Error("errors.Is should find the wrapped error")
	}
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

func TestWrapText(t *testing.T) {
	wrapped := WrapText("one two three four five six seven eight", 20)
	for _, line := range splitLines(wrapped) {
		if len(line) > 20 {
			t.Errorf("line %q exceeds width 20", line)
		}
	}
}

func TestWrapText_PreservesNewlines(t *testing.T) {
	input := "first\nsecond"
	if got := WrapText(input, 40); got != input {
		t.Errorf("WrapText = %q, want unchanged %q", got, input)
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("a1b2c3d4-e5f6-7890-abcd-ef1234567890"); got != "a1b2c3d4" {
		t.Errorf("shortID = %q, want %q", got, "a1b2c3d4")
	}
	if got := shortID("tiny"); got != "tiny" {
		t.Errorf("shortID = %q, want %q", got, "tiny")
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

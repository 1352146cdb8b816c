// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot recipe generation for the ladle CLI.
//
// Handles the "ladle ask" command which sends a single craving to the
// model and prints the result: a rendered recipe card on a TTY, a plain
// card when piped, or structured JSON with --json.
//
// Command: ask [craving]
//
// Examples:
//   ladle ask "comfort food for a rainy day"
//   ladle ask --json "high protein breakfast"
//   ladle ask --local "miso soup"
//   echo "use up leftover rice" | ladle ask
//
// Flags:
//   -m, --model NAME    Use specific model (overrides config)
//   --local / --cloud   Force a provider for this query
//   --raw               Print the raw model response without rendering
//   --json              Output response as JSON
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/ladle/internal/cloud"
	"github.com/jeranaias/ladle/internal/config"
	"github.com/jeranaias/ladle/internal/local"
	"github.com/jeranaias/ladle/internal/recipe"
	"github.com/jeranaias/ladle/internal/ui/components"
	"github.com/jeranaias/ladle/internal/ui/styles"
)

// askTimeout bounds a single one-shot generation.
const askTimeout = 3 * time.Minute

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the glamour renderer for non-recipe responses.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Fall back to plain text if renderer initialization fails.
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails or renderer is unavailable.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand handles the "ask" command: one prompt in, one
// response out, no TUI.
func HandleAskCommand(args Args) error {
	cfg := config.Global()
	provider := resolveProvider(cfg, args)
	modelName := resolveModel(cfg, args, provider)

	question := args.Query

	// With no query on the command line, read the prompt from a pipe.
	if question == "" && IsStdinPiped() {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err == nil {
			question = strings.TrimSpace(string(data))
		}
	}
	if question == "" {
		return ErrMissingArgument("craving", `ladle ask "quick weeknight pasta"`)
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	if !args.Quiet && !args.JSON {
		StderrPrintln(DimStyle.Render("Cooking up a recipe with " + modelName + "..."))
	}

	start := time.Now()
	response, promptTokens, completionTokens, err := runAskStream(ctx, cfg, provider, modelName, question)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	result := recipe.Parse(response)

	if args.JSON {
		data := AskData{
			Response:     response,
			Recipe:       result.Recipe,
			IsRecipe:     result.IsRecipe(),
			Provider:     provider,
			Model:        modelName,
			InputTokens:  promptTokens,
			OutputTokens: completionTokens,
			DurationMs:   elapsed.Milliseconds(),
		}
		return NewJSONResponse("ask", data).Print()
	}

	printAskResult(args, result, response)

	if !args.Quiet {
		StderrPrintln(DimStyle.Render(fmt.Sprintf("%.1fs | %d tokens | %s",
			elapsed.Seconds(), completionTokens, modelName)))
	}
	return nil
}

// printAskResult renders the response for the terminal: recipe card on a
// TTY, plain card when piped, markdown for free-text answers.
func printAskResult(args Args, result recipe.Result, response string) {
	if args.Subcommand == "raw" {
		fmt.Println(response)
		return
	}

	if result.IsRecipe() {
		if IsStdoutTTY() {
			theme := styles.NewTheme()
			card := components.NewRecipeCard(result.Recipe, theme)
			width := GetTerminalWidth()
			if width > 100 {
				width = 100
			}
			card.SetWidth(width)
			fmt.Println(card.View())
		} else {
			fmt.Println(components.PlainCard(result.Recipe))
		}
		return
	}

	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// PROVIDER RESOLUTION AND STREAMING
// =============================================================================

// resolveProvider picks the provider for this invocation: explicit flag
// first, configured default otherwise.
func resolveProvider(cfg *config.Config, args Args) string {
	switch {
	case args.Local:
		return config.ProviderLocal
	case args.Cloud:
		return config.ProviderCloud
	default:
		return cfg.Provider
	}
}

// resolveModel picks the model: --model flag, then the configured model
// for the resolved provider.
func resolveModel(cfg *config.Config, args Args, provider string) string {
	if args.Model != "" {
		return args.Model
	}
	if provider == config.ProviderLocal {
		return cfg.Local.Model
	}
	return cfg.Cloud.Model
}

// runAskStream sends the prompt and accumulates the streamed response.
// Returns the full text plus prompt/completion token counts.
func runAskStream(ctx context.Context, cfg *config.Config, provider, modelName, question string) (string, int, int, error) {
	messages := []struct{ role, content string }{
		{"system", recipe.SystemPrompt},
		{"user", question},
	}

	var sb strings.Builder
	promptTokens := 0
	completionTokens := 0

	if provider == config.ProviderCloud {
		client := cloud.NewClient(cfg.Cloud.APIKey, cfg.Cloud.BaseURL, modelName).
			WithGeneration(cfg.Generation.Temperature, cfg.Generation.MaxTokens)
		if !client.IsConfigured() {
			return "", 0, 0, cloud.ErrNotConfigured
		}

		wire := make([]cloud.ChatMessage, 0, len(messages))
		for _, m := range messages {
			wire = append(wire, cloud.ChatMessage{Role: m.role, Content: m.content})
		}

		err := client.ChatStream(ctx, wire, func(chunk cloud.StreamChunk) {
			sb.WriteString(chunk.GetContent())
			if chunk.Usage != nil {
				promptTokens = chunk.Usage.PromptTokens
				completionTokens = chunk.Usage.CompletionTokens
			}
		})
		if err != nil {
			return "", 0, 0, err
		}
		return sb.String(), promptTokens, completionTokens, nil
	}

	client := local.NewClient(cfg.Local.BaseURL)
	if err := client.CheckRunning(ctx); err != nil {
		return "", 0, 0, err
	}

	wire := make([]local.Message, 0, len(messages))
	for _, m := range messages {
		wire = append(wire, local.Message{Role: m.role, Content: m.content})
	}
	opts := &local.Options{
		Temperature: cfg.Generation.Temperature,
		NumPredict:  cfg.Generation.MaxTokens,
	}

	err := client.ChatStream(ctx, modelName, wire, opts, func(chunk local.StreamChunk) {
		sb.WriteString(chunk.Content)
		if chunk.Done {
			promptTokens = chunk.PromptTokens
			completionTokens = chunk.CompletionTokens
		}
	})
	if err != nil {
		return "", 0, 0, err
	}
	return sb.String(), promptTokens, completionTokens, nil
}
